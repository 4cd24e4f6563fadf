package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/Sneha-masapeta/fixitfelix-sih-2025-dept/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// objectRecorder is an in-memory object store that can be told to fail
// specific uploads by ordinal.
type objectRecorder struct {
	puts   int
	keys   []string
	failOn map[int]error
}

func newObjectRecorder() *objectRecorder {
	return &objectRecorder{failOn: map[int]error{}}
}

func (o *objectRecorder) Put(ctx context.Context, key string, content io.Reader, size int64, contentType string) error {
	ordinal := o.puts
	o.puts++
	if err, ok := o.failOn[ordinal]; ok {
		return err
	}
	o.keys = append(o.keys, key)
	return nil
}

func (o *objectRecorder) PublicURL(key string) string {
	return "http://objects.test/issue-photos/" + key
}

// countingStore wraps the memory store and counts every call that
// would reach the backend.
type countingStore struct {
	RecordStore
	calls int

	failUpsertProfile error
	failInsertIssue   error
	failInsertImageAt int // 1-based ordinal of the image insert to fail, 0 = never
	imageInserts      int
}

func (s *countingStore) UpsertProfile(ctx context.Context, user models.User) error {
	s.calls++
	if s.failUpsertProfile != nil {
		return s.failUpsertProfile
	}
	return s.RecordStore.UpsertProfile(ctx, user)
}

func (s *countingStore) InsertIssue(ctx context.Context, issue models.Issue) error {
	s.calls++
	if s.failInsertIssue != nil {
		return s.failInsertIssue
	}
	return s.RecordStore.InsertIssue(ctx, issue)
}

func (s *countingStore) InsertImage(ctx context.Context, image models.Image) error {
	s.calls++
	s.imageInserts++
	if s.failInsertImageAt != 0 && s.imageInserts == s.failInsertImageAt {
		return errors.New("image insert rejected")
	}
	return s.RecordStore.InsertImage(ctx, image)
}

func newTestService() (*SubmissionService, *countingStore, *objectRecorder) {
	store := &countingStore{RecordStore: NewMemoryStore()}
	objects := newObjectRecorder()
	return NewSubmissionService(store, objects), store, objects
}

func validDraft() Draft {
	lat, lng := 17.385, 78.4867
	return Draft{
		Title:       "Broken streetlight near the bus stop",
		Description: "Dark stretch after 7pm",
		Category:    models.Streetlight,
		Priority:    models.PriorityHigh,
		Address:     "MG Road",
		Latitude:    &lat,
		Longitude:   &lng,
	}
}

func testReporter() *models.User {
	return &models.User{
		ID:    primitive.NewObjectID(),
		Name:  "Asha",
		Email: "asha@example.com",
	}
}

func TestSubmitRejectsDraftBeforeAnyStoreCall(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Draft)
		wantErr error
	}{
		{"missing location", func(d *Draft) { d.Latitude = nil; d.Longitude = nil }, ErrLocationRequired},
		{"missing category", func(d *Draft) { d.Category = "" }, ErrCategoryRequired},
		{"unknown category", func(d *Draft) { d.Category = "volcano" }, ErrInvalidCategory},
		{"unknown priority", func(d *Draft) { d.Priority = "whenever" }, ErrInvalidPriority},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, store, objects := newTestService()
			draft := validDraft()
			tc.mutate(&draft)

			result, err := svc.Submit(context.Background(), &draft, testReporter())

			assert.Nil(t, result)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Zero(t, store.calls, "no store call may happen on a validation failure")
			assert.Zero(t, objects.puts, "no upload may happen on a validation failure")
		})
	}
}

func TestSubmitRejectsMissingReporter(t *testing.T) {
	svc, store, _ := newTestService()
	draft := validDraft()

	_, err := svc.Submit(context.Background(), &draft, nil)

	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Zero(t, store.calls)
}

func TestSubmitWithoutImages(t *testing.T) {
	svc, store, _ := newTestService()
	draft := validDraft()
	reporter := testReporter()

	result, err := svc.Submit(context.Background(), &draft, reporter)
	require.NoError(t, err)

	issues, err := store.ListIssues(context.Background())
	require.NoError(t, err)
	require.Len(t, issues, 1)

	issue := issues[0]
	assert.Equal(t, result.Issue.ID, issue.ID)
	assert.Equal(t, "Broken streetlight near the bus stop", issue.Title)
	assert.Equal(t, models.Streetlight, issue.Category)
	assert.Equal(t, models.PriorityHigh, issue.Priority)
	assert.Equal(t, models.StatusOpen, issue.Status)
	assert.Equal(t, reporter.ID, issue.ReportedBy)
	assert.Equal(t, "Point", issue.Location.Type)
	assert.Equal(t, 78.4867, issue.Location.Longitude())
	assert.Equal(t, 17.385, issue.Location.Latitude())

	images, err := store.ListImagesByIssue(context.Background(), issue.ID)
	require.NoError(t, err)
	assert.Empty(t, images)

	// profile was upserted before the issue insert
	profile, err := store.GetUserByID(context.Background(), reporter.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha", profile.Name)

	assert.Empty(t, draft.Title, "draft must be reset after a successful submission")
	assert.Nil(t, draft.Latitude)
}

func TestSubmitDefaultsPriorityToMedium(t *testing.T) {
	svc, _, _ := newTestService()
	draft := validDraft()
	draft.Priority = ""

	result, err := svc.Submit(context.Background(), &draft, testReporter())
	require.NoError(t, err)
	assert.Equal(t, models.PriorityMedium, result.Issue.Priority)
}

func TestSubmitToleratesIndividualUploadFailures(t *testing.T) {
	svc, store, objects := newTestService()
	objects.failOn[1] = errors.New("connection reset")
	objects.failOn[3] = errors.New("connection reset")

	draft := validDraft()
	for i := 0; i < 5; i++ {
		err := draft.AttachImage(ImageInput{
			Name:    fmt.Sprintf("photo-%d.jpg", i),
			Content: strings.NewReader("jpeg bytes"),
			Size:    10,
		})
		require.NoError(t, err)
	}

	result, err := svc.Submit(context.Background(), &draft, testReporter())
	require.NoError(t, err, "a bad image must never fail the submission")

	assert.Len(t, result.Uploaded, 3)
	assert.Len(t, result.Failed, 2)
	assert.Equal(t, "photo-1.jpg", result.Failed[0].Name)
	assert.Equal(t, "photo-3.jpg", result.Failed[1].Name)

	images, err := store.ListImagesByIssue(context.Background(), result.Issue.ID)
	require.NoError(t, err)
	assert.Len(t, images, 3)
	for _, image := range images {
		assert.Equal(t, result.Issue.ID, image.Issue)
		assert.Contains(t, image.URL, result.Issue.ID.Hex())
	}
}

func TestSubmitToleratesImageRecordFailures(t *testing.T) {
	svc, store, _ := newTestService()
	store.failInsertImageAt = 2

	draft := validDraft()
	for i := 0; i < 3; i++ {
		require.NoError(t, draft.AttachImage(ImageInput{
			Name:    fmt.Sprintf("photo-%d.jpg", i),
			Content: strings.NewReader("jpeg bytes"),
			Size:    10,
		}))
	}

	result, err := svc.Submit(context.Background(), &draft, testReporter())
	require.NoError(t, err)

	assert.Len(t, result.Uploaded, 2)
	assert.Len(t, result.Failed, 1)

	images, err := store.ListImagesByIssue(context.Background(), result.Issue.ID)
	require.NoError(t, err)
	assert.Len(t, images, 2)
}

func TestSubmitProfileSyncFailureIsFatal(t *testing.T) {
	svc, store, objects := newTestService()
	store.failUpsertProfile = errors.New("backend down")

	draft := validDraft()
	_, err := svc.Submit(context.Background(), &draft, testReporter())

	var syncErr *ProfileSyncError
	require.ErrorAs(t, err, &syncErr)
	assert.ErrorContains(t, syncErr.Unwrap(), "backend down")

	issues, _ := store.ListIssues(context.Background())
	assert.Empty(t, issues, "no issue may exist after a profile sync failure")
	assert.Zero(t, objects.puts)
}

func TestSubmitIssueCreateFailureAbortsAndRetrySucceeds(t *testing.T) {
	svc, store, objects := newTestService()
	store.failInsertIssue = errors.New("constraint violation")

	draft := validDraft()
	require.NoError(t, draft.AttachImage(ImageInput{
		Name:    "photo.jpg",
		Content: strings.NewReader("jpeg bytes"),
		Size:    10,
	}))

	_, err := svc.Submit(context.Background(), &draft, testReporter())

	var createErr *IssueCreateError
	require.ErrorAs(t, err, &createErr)
	assert.Zero(t, objects.puts, "no upload may be attempted after the issue insert fails")
	assert.Len(t, draft.Images(), 1, "the draft keeps its state on failure")

	// Retrying with the backend healthy again creates a fresh issue.
	store.failInsertIssue = nil
	result, err := svc.Submit(context.Background(), &draft, testReporter())
	require.NoError(t, err)
	assert.False(t, result.Issue.ID.IsZero())
	assert.Len(t, result.Uploaded, 1)
}

func TestAttachImageCapsAtFive(t *testing.T) {
	var draft Draft
	for i := 0; i < MaxImagesPerIssue; i++ {
		require.NoError(t, draft.AttachImage(ImageInput{Name: fmt.Sprintf("photo-%d.jpg", i)}))
	}

	err := draft.AttachImage(ImageInput{Name: "photo-5.jpg"})

	assert.ErrorIs(t, err, ErrTooManyImages)
	assert.Len(t, draft.Images(), MaxImagesPerIssue, "the queued five stay intact")
}

func TestSubmitKeysAreUniquePerImage(t *testing.T) {
	svc, _, objects := newTestService()

	draft := validDraft()
	for i := 0; i < 3; i++ {
		require.NoError(t, draft.AttachImage(ImageInput{
			Name:    "same name.jpg",
			Content: strings.NewReader("jpeg bytes"),
			Size:    10,
		}))
	}

	_, err := svc.Submit(context.Background(), &draft, testReporter())
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, key := range objects.keys {
		assert.False(t, seen[key], "duplicate object key %s", key)
		assert.NotContains(t, key, " ")
		seen[key] = true
	}
	assert.Len(t, seen, 3)
}
