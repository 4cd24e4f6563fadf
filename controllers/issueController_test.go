package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Sneha-masapeta/fixitfelix-sih-2025-dept/models"
	"github.com/Sneha-masapeta/fixitfelix-sih-2025-dept/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubObjects struct{}

func (stubObjects) Put(ctx context.Context, key string, content io.Reader, size int64, contentType string) error {
	return nil
}

func (stubObjects) PublicURL(key string) string {
	return "http://objects.test/" + key
}

func newTestRouter(store services.RecordStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	ctrl := NewIssueController(services.NewSubmissionService(store, stubObjects{}), store)

	r := gin.New()
	r.GET("/api/issue/", ctrl.GetAllIssues)
	r.GET("/api/issue/map", ctrl.MapIssues)
	return r
}

func seedIssues(t *testing.T, store services.RecordStore) {
	t.Helper()
	now := time.Now()
	issues := []models.Issue{
		{
			ID:        primitive.NewObjectID(),
			Title:     "Broken light",
			Category:  models.Streetlight,
			Priority:  models.PriorityHigh,
			Status:    models.StatusOpen,
			Location:  models.NewPoint(78.4867, 17.385),
			CreatedAt: now,
		},
		{
			ID:        primitive.NewObjectID(),
			Title:     "Pothole on Main",
			Category:  models.Pothole,
			Priority:  models.PriorityLow,
			Status:    models.StatusResolved,
			Location:  models.NewPoint(78.49, 17.39),
			CreatedAt: now.Add(-time.Hour),
		},
	}
	for _, issue := range issues {
		require.NoError(t, store.InsertIssue(context.Background(), issue))
	}
}

func TestGetAllIssuesAppliesFilters(t *testing.T) {
	store := services.NewMemoryStore()
	seedIssues(t, store)
	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/issue/?status=open", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Issues        []models.Issue `json:"issues"`
		TotalIssues   int            `json:"totalIssues"`
		MatchedIssues int            `json:"matchedIssues"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, 2, body.TotalIssues)
	assert.Equal(t, 1, body.MatchedIssues)
	require.Len(t, body.Issues, 1)
	assert.Equal(t, "Broken light", body.Issues[0].Title)
}

func TestGetAllIssuesDistinguishesEmptySourceFromNarrowFilters(t *testing.T) {
	store := services.NewMemoryStore()
	r := newTestRouter(store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/issue/", nil))

	var body struct {
		TotalIssues   int `json:"totalIssues"`
		MatchedIssues int `json:"matchedIssues"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Zero(t, body.TotalIssues)

	seedIssues(t, store)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/issue/?priority=urgent", nil))

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.TotalIssues)
	assert.Zero(t, body.MatchedIssues)
}

func TestMapIssuesProjectsPins(t *testing.T) {
	store := services.NewMemoryStore()
	seedIssues(t, store)
	r := newTestRouter(store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/issue/map", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var pins []struct {
		ID        string  `json:"id"`
		Title     string  `json:"title"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pins))
	require.Len(t, pins, 2)

	// newest first, lat/lng unpacked from the stored point
	assert.Equal(t, "Broken light", pins[0].Title)
	assert.Equal(t, 17.385, pins[0].Latitude)
	assert.Equal(t, 78.4867, pins[0].Longitude)
}
