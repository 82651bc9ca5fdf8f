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
	achievementCollectionName      = "achievements"
	coachAchievementCollectionName = "coach_achievements"
	certificationCollectionName    = "certifications"
)

// mongoAchievementRepository implements repository.AchievementRepository.
type mongoAchievementRepository struct {
	collection *mongo.Collection
}

// NewMongoAchievementRepository creates a new athlete achievement repository.
func NewMongoAchievementRepository(db *mongo.Database) repository.AchievementRepository {
	return &mongoAchievementRepository{
		collection: db.Collection(achievementCollectionName),
	}
}

func (r *mongoAchievementRepository) Create(ctx context.Context, achievement *domain.Achievement) (primitive.ObjectID, error) {
	if achievement.ProfileID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("achievement requires profileId")
	}

	achievement.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	achievement.CreatedAt = now
	achievement.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, achievement)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

func (r *mongoAchievementRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Achievement, error) {
	var achievement domain.Achievement
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&achievement)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &achievement, nil
}

func (r *mongoAchievementRepository) GetByProfileID(ctx context.Context, profileID primitive.ObjectID) ([]domain.Achievement, error) {
	// Newest first, same year ordered by recency of entry.
	opts := options.Find().SetSort(bson.D{{Key: "year", Value: -1}, {Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"profileId": profileID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	achievements := []domain.Achievement{}
	if err = cursor.All(ctx, &achievements); err != nil {
		return nil, err
	}
	return achievements, nil
}

func (r *mongoAchievementRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// mongoCoachAchievementRepository implements repository.CoachAchievementRepository.
type mongoCoachAchievementRepository struct {
	collection *mongo.Collection
}

// NewMongoCoachAchievementRepository creates a new coach achievement repository.
func NewMongoCoachAchievementRepository(db *mongo.Database) repository.CoachAchievementRepository {
	return &mongoCoachAchievementRepository{
		collection: db.Collection(coachAchievementCollectionName),
	}
}

func (r *mongoCoachAchievementRepository) Create(ctx context.Context, achievement *domain.CoachAchievement) (primitive.ObjectID, error) {
	if achievement.ProfileID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("coach achievement requires profileId")
	}

	achievement.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	achievement.CreatedAt = now
	achievement.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, achievement)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

func (r *mongoCoachAchievementRepository) GetByProfileID(ctx context.Context, profileID primitive.ObjectID) ([]domain.CoachAchievement, error) {
	opts := options.Find().SetSort(bson.D{{Key: "year", Value: -1}, {Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"profileId": profileID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	achievements := []domain.CoachAchievement{}
	if err = cursor.All(ctx, &achievements); err != nil {
		return nil, err
	}
	return achievements, nil
}

func (r *mongoCoachAchievementRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// mongoCertificationRepository implements repository.CertificationRepository.
type mongoCertificationRepository struct {
	collection *mongo.Collection
}

// NewMongoCertificationRepository creates a new certification repository.
func NewMongoCertificationRepository(db *mongo.Database) repository.CertificationRepository {
	return &mongoCertificationRepository{
		collection: db.Collection(certificationCollectionName),
	}
}

func (r *mongoCertificationRepository) Create(ctx context.Context, certification *domain.Certification) (primitive.ObjectID, error) {
	if certification.ProfileID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("certification requires profileId")
	}

	certification.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	certification.CreatedAt = now
	certification.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, certification)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

func (r *mongoCertificationRepository) GetByProfileID(ctx context.Context, profileID primitive.ObjectID) ([]domain.Certification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "year", Value: -1}, {Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"profileId": profileID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	certifications := []domain.Certification{}
	if err = cursor.All(ctx, &certifications); err != nil {
		return nil, err
	}
	return certifications, nil
}

func (r *mongoCertificationRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureProfileItemIndexes creates profileId indexes for achievements,
// coach achievements, and certifications.
func EnsureProfileItemIndexes(ctx context.Context, db *mongo.Database) error {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "profileId", Value: 1}},
		Options: options.Index(),
	}
	for _, name := range []string{achievementCollectionName, coachAchievementCollectionName, certificationCollectionName} {
		if _, err := db.Collection(name).Indexes().CreateOne(ctx, model); err != nil {
			return err
		}
	}
	return nil
}
