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

const savedTrainingCollectionName = "saved_trainings"

// mongoSavedTrainingRepository implements repository.SavedTrainingRepository using MongoDB.
type mongoSavedTrainingRepository struct {
	collection *mongo.Collection
}

// NewMongoSavedTrainingRepository creates a new workout template repository.
func NewMongoSavedTrainingRepository(db *mongo.Database) repository.SavedTrainingRepository {
	return &mongoSavedTrainingRepository{
		collection: db.Collection(savedTrainingCollectionName),
	}
}

// Create inserts a new workout template.
func (r *mongoSavedTrainingRepository) Create(ctx context.Context, saved *domain.SavedTraining) (primitive.ObjectID, error) {
	if saved.CreatorID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("saved training requires creatorId")
	}
	if saved.Name == "" {
		return primitive.NilObjectID, errors.New("saved training requires a name")
	}

	saved.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	saved.CreatedAt = now
	saved.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, saved)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a template by its ObjectID.
func (r *mongoSavedTrainingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SavedTraining, error) {
	var saved domain.SavedTraining
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&saved)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &saved, nil
}

// ListByCreator lists templates owned by a user plus the public library,
// newest first.
func (r *mongoSavedTrainingRepository) ListByCreator(ctx context.Context, creatorID primitive.ObjectID) ([]domain.SavedTraining, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"creatorId": creatorID},
			{"isPublic": true},
		},
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	templates := []domain.SavedTraining{}
	if err = cursor.All(ctx, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// Update replaces the mutable fields of a template.
func (r *mongoSavedTrainingRepository) Update(ctx context.Context, saved *domain.SavedTraining) error {
	update := bson.M{
		"$set": bson.M{
			"name":          saved.Name,
			"sport":         saved.Sport,
			"description":   saved.Description,
			"training_data": saved.Data,
			"isPublic":      saved.IsPublic,
			"updatedAt":     time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": saved.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a template.
func (r *mongoSavedTrainingRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureSavedTrainingIndexes creates necessary indexes for the saved_trainings collection.
func EnsureSavedTrainingIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "creatorId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "isPublic", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
