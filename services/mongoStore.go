package services

import (
	"context"
	"time"

	"github.com/Sneha-masapeta/fixitfelix-sih-2025-dept/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements RecordStore over the users, issues and images
// collections.
type MongoStore struct {
	users  *mongo.Collection
	issues *mongo.Collection
	images *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		users:  db.Collection("users"),
		issues: db.Collection("issues"),
		images: db.Collection("images"),
	}
}

func (s *MongoStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	_, err := s.users.InsertOne(ctx, user)
	return err
}

func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *MongoStore) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpsertProfile writes the profile fields an issue's reporter reference
// depends on. Idempotent; never touches the stored credential.
func (s *MongoStore) UpsertProfile(ctx context.Context, user models.User) error {
	update := bson.M{
		"$set": bson.M{
			"name":      user.Name,
			"email":     user.Email,
			"updatedAt": time.Now(),
		},
		"$setOnInsert": bson.M{
			"createdAt": time.Now(),
		},
	}
	_, err := s.users.UpdateOne(ctx, bson.M{"_id": user.ID}, update,
		options.Update().SetUpsert(true))
	return err
}

func (s *MongoStore) InsertIssue(ctx context.Context, issue models.Issue) error {
	_, err := s.issues.InsertOne(ctx, issue)
	return err
}

func (s *MongoStore) GetIssue(ctx context.Context, id primitive.ObjectID) (*models.Issue, error) {
	var issue models.Issue
	err := s.issues.FindOne(ctx, bson.M{"_id": id}).Decode(&issue)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

// ListIssues returns every issue, newest first. The feed filters the
// result in memory, so no query-side filtering happens here.
func (s *MongoStore) ListIssues(ctx context.Context) ([]models.Issue, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := s.issues.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	issues := []models.Issue{}
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

func (s *MongoStore) ListIssuesByReporter(ctx context.Context, reporter primitive.ObjectID) ([]models.Issue, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := s.issues.Find(ctx, bson.M{"reportedBy": reporter}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	issues := []models.Issue{}
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

func (s *MongoStore) InsertImage(ctx context.Context, image models.Image) error {
	_, err := s.images.InsertOne(ctx, image)
	return err
}

func (s *MongoStore) ListImagesByIssue(ctx context.Context, issue primitive.ObjectID) ([]models.Image, error) {
	cursor, err := s.images.Find(ctx, bson.M{"issue": issue})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	images := []models.Image{}
	if err := cursor.All(ctx, &images); err != nil {
		return nil, err
	}
	return images, nil
}
