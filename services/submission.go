package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/Sneha-masapeta/fixitfelix-sih-2025-dept/models"
	"github.com/Sneha-masapeta/fixitfelix-sih-2025-dept/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxImagesPerIssue caps how many photos one report may carry.
const MaxImagesPerIssue = 5

// Rejections raised before any store call is made
var (
	ErrLocationRequired = errors.New("a location is required to report an issue")
	ErrCategoryRequired = errors.New("a category is required to report an issue")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidPriority  = errors.New("invalid priority")
	ErrNotAuthenticated = errors.New("user not authenticated")
	ErrTooManyImages    = fmt.Errorf("at most %d images per report", MaxImagesPerIssue)
)

// ProfileSyncError is fatal: the issue insert depends on the reporter
// profile existing.
type ProfileSyncError struct {
	Cause error
}

func (e *ProfileSyncError) Error() string {
	return "failed to sync reporter profile: " + e.Cause.Error()
}

func (e *ProfileSyncError) Unwrap() error { return e.Cause }

// IssueCreateError is fatal: no image work is attempted after it.
type IssueCreateError struct {
	Cause error
}

func (e *IssueCreateError) Error() string {
	return "failed to create issue: " + e.Cause.Error()
}

func (e *IssueCreateError) Unwrap() error { return e.Cause }

// ImageInput is one photo queued on a draft.
type ImageInput struct {
	Name        string
	Content     io.Reader
	Size        int64
	ContentType string
}

// Draft is a user-authored issue before submission.
type Draft struct {
	Title       string
	Description string
	Category    models.IssueCategory
	Priority    models.IssuePriority
	Address     string
	Latitude    *float64
	Longitude   *float64

	images []ImageInput
}

// AttachImage queues a photo on the draft. The sixth and later
// attachments are rejected individually; the queued five stay intact.
func (d *Draft) AttachImage(input ImageInput) error {
	if len(d.images) >= MaxImagesPerIssue {
		return ErrTooManyImages
	}
	d.images = append(d.images, input)
	return nil
}

// Images returns the queued photos in attachment order.
func (d *Draft) Images() []ImageInput {
	return d.images
}

// Reset clears the draft back to its blank state.
func (d *Draft) Reset() {
	*d = Draft{}
}

// ImageFailure records one photo that could not be persisted.
type ImageFailure struct {
	Name  string
	Cause error
}

// SubmissionResult reports what a successful submission produced. A
// non-empty Failed list still counts as overall success: the issue
// exists, some photos do not.
type SubmissionResult struct {
	Issue    models.Issue
	Uploaded []models.Image
	Failed   []ImageFailure
}

// SubmissionService turns drafts into durable issue and image records.
type SubmissionService struct {
	store   RecordStore
	objects storage.ObjectStore
}

func NewSubmissionService(store RecordStore, objects storage.ObjectStore) *SubmissionService {
	return &SubmissionService{store: store, objects: objects}
}

// Submit validates the draft, ensures the reporter profile, creates the
// issue record, then attaches the queued photos one at a time. Steps run
// strictly in that order; a photo failure never rolls back the issue.
// On success the draft is reset.
func (s *SubmissionService) Submit(ctx context.Context, draft *Draft, reporter *models.User) (*SubmissionResult, error) {
	if draft.Latitude == nil || draft.Longitude == nil {
		return nil, ErrLocationRequired
	}
	if draft.Category == "" {
		return nil, ErrCategoryRequired
	}
	if !draft.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	priority := draft.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, ErrInvalidPriority
	}

	if reporter == nil || reporter.ID.IsZero() {
		return nil, ErrNotAuthenticated
	}

	// Step 1: the issue references the reporter, so the profile must
	// exist before the insert.
	if err := s.store.UpsertProfile(ctx, *reporter); err != nil {
		return nil, &ProfileSyncError{Cause: err}
	}

	// Step 2: identifier is generated here, before persistence.
	issue := models.Issue{
		ID:          primitive.NewObjectID(),
		Title:       draft.Title,
		Description: draft.Description,
		Category:    draft.Category,
		Priority:    priority,
		Status:      models.StatusOpen,
		Location:    models.NewPoint(*draft.Longitude, *draft.Latitude),
		Address:     draft.Address,
		ReportedBy:  reporter.ID,
		CreatedAt:   time.Now(),
	}
	if err := s.store.InsertIssue(ctx, issue); err != nil {
		return nil, &IssueCreateError{Cause: err}
	}

	// Step 3: photos, sequentially, best effort. A bad photo is logged
	// and skipped; the issue already exists.
	result := &SubmissionResult{Issue: issue}
	stamp := time.Now().UnixNano()
	for i, input := range draft.Images() {
		key := fmt.Sprintf("issues/%s/%d_%d_%s", issue.ID.Hex(), stamp, i, safeName(input.Name))

		if err := s.objects.Put(ctx, key, input.Content, input.Size, input.ContentType); err != nil {
			log.Printf("Image upload failed for %s: %v", input.Name, err)
			result.Failed = append(result.Failed, ImageFailure{Name: input.Name, Cause: err})
			continue
		}

		image := models.Image{
			ID:        primitive.NewObjectID(),
			Issue:     issue.ID,
			URL:       s.objects.PublicURL(key),
			CreatedAt: time.Now(),
		}
		if err := s.store.InsertImage(ctx, image); err != nil {
			// The blob stays behind as orphaned storage.
			log.Printf("Image record insert failed for %s: %v", input.Name, err)
			result.Failed = append(result.Failed, ImageFailure{Name: input.Name, Cause: err})
			continue
		}

		result.Uploaded = append(result.Uploaded, image)
	}

	draft.Reset()
	return result, nil
}

func safeName(name string) string {
	base := filepath.Base(name)
	return strings.ReplaceAll(base, " ", "_")
}
