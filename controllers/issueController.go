package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Sneha-masapeta/fixitfelix-sih-2025-dept/models"
	"github.com/Sneha-masapeta/fixitfelix-sih-2025-dept/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const mapPinLimit = 19

// IssueController serves the submission, feed, detail and map routes.
type IssueController struct {
	submissions *services.SubmissionService
	store       services.RecordStore
}

func NewIssueController(submissions *services.SubmissionService, store services.RecordStore) *IssueController {
	return &IssueController{submissions: submissions, store: store}
}

// currentUser resolves the principal the auth middleware put on the
// context into a full profile.
func (ic *IssueController) currentUser(ctx context.Context, c *gin.Context) *models.User {
	userID, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	id, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		return nil
	}
	user, err := ic.store.GetUserByID(ctx, id)
	if err != nil {
		return nil
	}
	return user
}

// CreateIssue handles the multipart submission of a new issue with up
// to five photos
func (ic *IssueController) CreateIssue(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	user := ic.currentUser(ctx, c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	title := c.PostForm("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	draft := services.Draft{
		Title:       title,
		Description: c.PostForm("description"),
		Category:    models.IssueCategory(c.PostForm("category")),
		Priority:    models.IssuePriority(c.PostForm("priority")),
		Address:     c.PostForm("address"),
	}
	if lat, err := strconv.ParseFloat(c.PostForm("latitude"), 64); err == nil {
		draft.Latitude = &lat
	}
	if lng, err := strconv.ParseFloat(c.PostForm("longitude"), 64); err == nil {
		draft.Longitude = &lng
	}

	// Attach what fits; photos past the cap are reported back, not
	// fatal to the submission.
	var skipped []string
	if form, err := c.MultipartForm(); err == nil {
		for _, header := range form.File["photos"] {
			file, err := header.Open()
			if err != nil {
				skipped = append(skipped, header.Filename)
				continue
			}
			defer file.Close()

			attachErr := draft.AttachImage(services.ImageInput{
				Name:        header.Filename,
				Content:     file,
				Size:        header.Size,
				ContentType: header.Header.Get("Content-Type"),
			})
			if attachErr != nil {
				skipped = append(skipped, header.Filename)
			}
		}
	}

	result, err := ic.submissions.Submit(ctx, &draft, user)
	if err != nil {
		status := submissionStatus(err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	failed := make([]string, 0, len(result.Failed))
	for _, f := range result.Failed {
		failed = append(failed, f.Name)
	}

	c.JSON(http.StatusCreated, gin.H{
		"issue":         result.Issue,
		"images":        result.Uploaded,
		"failedImages":  failed,
		"skippedImages": skipped,
	})
}

func submissionStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrLocationRequired),
		errors.Is(err, services.ErrCategoryRequired),
		errors.Is(err, services.ErrInvalidCategory),
		errors.Is(err, services.ErrInvalidPriority):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GetAllIssues returns the shared feed, filtered by the search, status,
// category and priority query parameters. The full collection is
// fetched newest-first and the view derived from it in memory, so the
// response can tell "no issues at all" apart from "filtered out".
func (ic *IssueController) GetAllIssues(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	criteria := services.FilterCriteria{
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Priority: c.Query("priority"),
	}

	source, err := ic.store.ListIssues(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issues"})
		return
	}

	view := services.DeriveView(source, criteria)

	c.JSON(http.StatusOK, gin.H{
		"issues":        view,
		"totalIssues":   len(source),
		"matchedIssues": len(view),
	})
}

// GetIssue retrieves an issue by its ID with its images and reporter info
func (ic *IssueController) GetIssue(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issue, err := ic.store.GetIssue(ctx, issueID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue"})
		}
		return
	}

	images, err := ic.store.ListImagesByIssue(ctx, issueID)
	if err != nil {
		images = []models.Image{}
	}

	reportedBy := gin.H{"id": issue.ReportedBy}
	if reporter, err := ic.store.GetUserByID(ctx, issue.ReportedBy); err == nil {
		reportedBy["name"] = reporter.Name
		reportedBy["email"] = reporter.Email
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          issue.ID,
		"title":       issue.Title,
		"description": issue.Description,
		"category":    issue.Category,
		"priority":    issue.Priority,
		"status":      issue.Status,
		"location":    issue.Location,
		"address":     issue.Address,
		"reportedBy":  reportedBy,
		"createdAt":   issue.CreatedAt,
		"images":      images,
	})
}

// GetIssuesByUser retrieves the issues reported by the current user
func (ic *IssueController) GetIssuesByUser(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	reporterID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issues, err := ic.store.ListIssuesByReporter(ctx, reporterID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issues"})
		return
	}

	c.JSON(http.StatusOK, issues)
}

// MapIssues returns the most recent issues projected down to map pins
func (ic *IssueController) MapIssues(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issues, err := ic.store.ListIssues(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve recent issues"})
		return
	}
	if len(issues) > mapPinLimit {
		issues = issues[:mapPinLimit]
	}

	type pin struct {
		ID        string               `json:"id"`
		Title     string               `json:"title"`
		Category  models.IssueCategory `json:"category"`
		Status    models.IssueStatus   `json:"status"`
		Latitude  float64              `json:"latitude"`
		Longitude float64              `json:"longitude"`
		Address   string               `json:"address,omitempty"`
		CreatedAt time.Time            `json:"createdAt"`
	}

	pins := make([]pin, 0, len(issues))
	for _, issue := range issues {
		pins = append(pins, pin{
			ID:        issue.ID.Hex(),
			Title:     issue.Title,
			Category:  issue.Category,
			Status:    issue.Status,
			Latitude:  issue.Location.Latitude(),
			Longitude: issue.Location.Longitude(),
			Address:   issue.Address,
			CreatedAt: issue.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, pins)
}
