package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"promethia/training-api/internal/domain"
	"promethia/training-api/internal/repository"
)

const (
	athleticProfileCollectionName     = "athletic_profiles"
	professionalProfileCollectionName = "professional_profiles"
)

// mongoProfileRepository implements repository.ProfileRepository using MongoDB.
// Athletic and professional profiles live in separate collections.
type mongoProfileRepository struct {
	athletic     *mongo.Collection
	professional *mongo.Collection
}

// NewMongoProfileRepository creates a new instance of mongoProfileRepository.
func NewMongoProfileRepository(db *mongo.Database) repository.ProfileRepository {
	return &mongoProfileRepository{
		athletic:     db.Collection(athleticProfileCollectionName),
		professional: db.Collection(professionalProfileCollectionName),
	}
}

// CreateAthletic inserts the athletic profile for a user.
func (r *mongoProfileRepository) CreateAthletic(ctx context.Context, profile *domain.AthleticProfile) (primitive.ObjectID, error) {
	if profile.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("athletic profile requires userId")
	}

	profile.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	if profile.SportsInvolved == nil {
		profile.SportsInvolved = []string{}
	}

	result, err := r.athletic.InsertOne(ctx, profile)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetAthleticByUserID retrieves a user's athletic profile.
func (r *mongoProfileRepository) GetAthleticByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.AthleticProfile, error) {
	var profile domain.AthleticProfile
	err := r.athletic.FindOne(ctx, bson.M{"userId": userID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// UpdateAthletic replaces the mutable fields of an athletic profile.
func (r *mongoProfileRepository) UpdateAthletic(ctx context.Context, profile *domain.AthleticProfile) error {
	update := bson.M{
		"$set": bson.M{
			"experienceYears": profile.ExperienceYears,
			"aboutNotes":      profile.AboutNotes,
			"sportsInvolved":  profile.SportsInvolved,
			"updatedAt":       time.Now().UTC(),
		},
	}

	result, err := r.athletic.UpdateOne(ctx, bson.M{"_id": profile.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// CreateProfessional inserts the professional profile for a user.
func (r *mongoProfileRepository) CreateProfessional(ctx context.Context, profile *domain.ProfessionalProfile) (primitive.ObjectID, error) {
	if profile.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("professional profile requires userId")
	}

	profile.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	result, err := r.professional.InsertOne(ctx, profile)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetProfessionalByUserID retrieves a user's professional profile.
func (r *mongoProfileRepository) GetProfessionalByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.ProfessionalProfile, error) {
	var profile domain.ProfessionalProfile
	err := r.professional.FindOne(ctx, bson.M{"userId": userID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// UpdateProfessional replaces the mutable fields of a professional profile.
func (r *mongoProfileRepository) UpdateProfessional(ctx context.Context, profile *domain.ProfessionalProfile) error {
	update := bson.M{
		"$set": bson.M{
			"experienceYears": profile.ExperienceYears,
			"aboutNotes":      profile.AboutNotes,
			"updatedAt":       time.Now().UTC(),
		},
	}

	result, err := r.professional.UpdateOne(ctx, bson.M{"_id": profile.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureProfileIndexes creates the one-profile-per-user indexes for both
// profile collections.
func EnsureProfileIndexes(ctx context.Context, db *mongo.Database) error {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := db.Collection(athleticProfileCollectionName).Indexes().CreateOne(ctx, model); err != nil {
		return err
	}
	_, err := db.Collection(professionalProfileCollectionName).Indexes().CreateOne(ctx, model)
	return err
}
