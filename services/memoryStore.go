package services

import (
	"context"
	"sort"
	"sync"

	"github.com/Sneha-masapeta/fixitfelix-sih-2025-dept/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore is an in-memory RecordStore used by tests.
type MemoryStore struct {
	mu     sync.RWMutex
	users  map[primitive.ObjectID]models.User
	issues []models.Issue
	images []models.Image
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[primitive.ObjectID]models.User),
	}
}

func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return ErrConflict
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	u := user
	return &u, nil
}

func (s *MemoryStore) UpsertProfile(ctx context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[user.ID]
	if ok {
		existing.Name = user.Name
		existing.Email = user.Email
		s.users[user.ID] = existing
		return nil
	}
	s.users[user.ID] = user
	return nil
}

func (s *MemoryStore) InsertIssue(ctx context.Context, issue models.Issue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.issues = append(s.issues, issue)
	return nil
}

func (s *MemoryStore) GetIssue(ctx context.Context, id primitive.ObjectID) (*models.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, issue := range s.issues {
		if issue.ID == id {
			i := issue
			return &i, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListIssues(ctx context.Context) ([]models.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Issue, len(s.issues))
	copy(out, s.issues)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) ListIssuesByReporter(ctx context.Context, reporter primitive.ObjectID) ([]models.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Issue{}
	for _, issue := range s.issues {
		if issue.ReportedBy == reporter {
			out = append(out, issue)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) InsertImage(ctx context.Context, image models.Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.images = append(s.images, image)
	return nil
}

func (s *MemoryStore) ListImagesByIssue(ctx context.Context, issue primitive.ObjectID) ([]models.Image, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Image{}
	for _, image := range s.images {
		if image.Issue == issue {
			out = append(out, image)
		}
	}
	return out, nil
}
