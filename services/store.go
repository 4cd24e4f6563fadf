package services

import (
	"context"
	"errors"

	"github.com/Sneha-masapeta/fixitfelix-sih-2025-dept/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Standard errors returned by the record store
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// RecordStore is the record-store contract the pipeline and the feed
// consume. The backend enforces uniqueness and referential constraints;
// the pipeline still re-validates enumerated values before calling it.
type RecordStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpsertProfile(ctx context.Context, user models.User) error

	InsertIssue(ctx context.Context, issue models.Issue) error
	GetIssue(ctx context.Context, id primitive.ObjectID) (*models.Issue, error)
	ListIssues(ctx context.Context) ([]models.Issue, error)
	ListIssuesByReporter(ctx context.Context, reporter primitive.ObjectID) ([]models.Issue, error)

	InsertImage(ctx context.Context, image models.Image) error
	ListImagesByIssue(ctx context.Context, issue primitive.ObjectID) ([]models.Image, error)
}
