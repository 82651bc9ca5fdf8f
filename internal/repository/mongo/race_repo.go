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

const raceCollectionName = "races"

// mongoRaceRepository implements repository.RaceRepository using MongoDB.
type mongoRaceRepository struct {
	collection *mongo.Collection
}

// NewMongoRaceRepository creates a new instance of mongoRaceRepository.
func NewMongoRaceRepository(db *mongo.Database) repository.RaceRepository {
	return &mongoRaceRepository{
		collection: db.Collection(raceCollectionName),
	}
}

// Create inserts a new race event.
func (r *mongoRaceRepository) Create(ctx context.Context, race *domain.Race) (primitive.ObjectID, error) {
	if race.AthleteID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("race requires athleteId")
	}

	race.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	race.CreatedAt = now
	race.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, race)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a race by its ObjectID.
func (r *mongoRaceRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Race, error) {
	var race domain.Race
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&race)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &race, nil
}

// ListByAthletes lists races for the given athletes, oldest first.
func (r *mongoRaceRepository) ListByAthletes(ctx context.Context, athleteIDs []primitive.ObjectID, filter repository.EventFilter) ([]domain.Race, error) {
	if len(athleteIDs) == 0 {
		return []domain.Race{}, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.collection.Find(ctx, eventFilterQuery(athleteIDs, filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	races := []domain.Race{}
	if err = cursor.All(ctx, &races); err != nil {
		return nil, err
	}
	return races, nil
}

// Update replaces the mutable fields of a race.
func (r *mongoRaceRepository) Update(ctx context.Context, race *domain.Race) error {
	update := bson.M{
		"$set": bson.M{
			"title":       race.Title,
			"date":        race.Date,
			"sport":       race.Sport,
			"location":    race.Location,
			"distance":    race.Distance,
			"description": race.Description,
			"finishTime":  race.FinishTime,
			"targetTime":  race.TargetTime,
			"updatedAt":   time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": race.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a race.
func (r *mongoRaceRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureRaceIndexes creates necessary indexes for the races collection.
func EnsureRaceIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "athleteId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
