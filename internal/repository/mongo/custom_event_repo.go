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

const customEventCollectionName = "custom_events"

// mongoCustomEventRepository implements repository.CustomEventRepository using MongoDB.
type mongoCustomEventRepository struct {
	collection *mongo.Collection
}

// NewMongoCustomEventRepository creates a new instance of mongoCustomEventRepository.
func NewMongoCustomEventRepository(db *mongo.Database) repository.CustomEventRepository {
	return &mongoCustomEventRepository{
		collection: db.Collection(customEventCollectionName),
	}
}

// Create inserts a new custom calendar event.
func (r *mongoCustomEventRepository) Create(ctx context.Context, event *domain.CustomEvent) (primitive.ObjectID, error) {
	if event.AthleteID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("custom event requires athleteId")
	}

	event.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, event)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a custom event by its ObjectID.
func (r *mongoCustomEventRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.CustomEvent, error) {
	var event domain.CustomEvent
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

// ListByAthletes lists custom events for the given athletes, oldest first.
// Custom events carry no sport, so the sport filter is ignored here.
func (r *mongoCustomEventRepository) ListByAthletes(ctx context.Context, athleteIDs []primitive.ObjectID, filter repository.EventFilter) ([]domain.CustomEvent, error) {
	if len(athleteIDs) == 0 {
		return []domain.CustomEvent{}, nil
	}

	filter.Sports = nil
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.collection.Find(ctx, eventFilterQuery(athleteIDs, filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := []domain.CustomEvent{}
	if err = cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Update replaces the mutable fields of a custom event.
func (r *mongoCustomEventRepository) Update(ctx context.Context, event *domain.CustomEvent) error {
	update := bson.M{
		"$set": bson.M{
			"title":       event.Title,
			"date":        event.Date,
			"dateEnd":     event.DateEnd,
			"location":    event.Location,
			"eventColor":  event.Color,
			"description": event.Description,
			"updatedAt":   time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": event.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a custom event.
func (r *mongoCustomEventRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureCustomEventIndexes creates necessary indexes for the custom_events collection.
func EnsureCustomEventIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "athleteId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
