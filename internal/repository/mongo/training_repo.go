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

const trainingCollectionName = "trainings"

// eventFilterQuery builds the common calendar listing filter shared by
// trainings, races, and custom events.
func eventFilterQuery(athleteIDs []primitive.ObjectID, filter repository.EventFilter) bson.M {
	query := bson.M{"athleteId": bson.M{"$in": athleteIDs}}
	if len(filter.Sports) > 0 {
		query["sport"] = bson.M{"$in": filter.Sports}
	}
	dateRange := bson.M{}
	if filter.After != nil {
		dateRange["$gte"] = *filter.After
	}
	if filter.Before != nil {
		dateRange["$lte"] = *filter.Before
	}
	if len(dateRange) > 0 {
		query["date"] = dateRange
	}
	return query
}

// mongoTrainingRepository implements repository.TrainingRepository using MongoDB.
type mongoTrainingRepository struct {
	collection *mongo.Collection
}

// NewMongoTrainingRepository creates a new instance of mongoTrainingRepository.
func NewMongoTrainingRepository(db *mongo.Database) repository.TrainingRepository {
	return &mongoTrainingRepository{
		collection: db.Collection(trainingCollectionName),
	}
}

// Create inserts a new training session.
func (r *mongoTrainingRepository) Create(ctx context.Context, training *domain.Training) (primitive.ObjectID, error) {
	if training.AthleteID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("training requires athleteId")
	}
	if err := training.ValidateData(); err != nil {
		return primitive.NilObjectID, err
	}

	training.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	training.CreatedAt = now
	training.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, training)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a training by its ObjectID.
func (r *mongoTrainingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Training, error) {
	var training domain.Training
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&training)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &training, nil
}

// ListByAthletes lists trainings for the given athletes, oldest first.
func (r *mongoTrainingRepository) ListByAthletes(ctx context.Context, athleteIDs []primitive.ObjectID, filter repository.EventFilter) ([]domain.Training, error) {
	if len(athleteIDs) == 0 {
		return []domain.Training{}, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.collection.Find(ctx, eventFilterQuery(athleteIDs, filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	trainings := []domain.Training{}
	if err = cursor.All(ctx, &trainings); err != nil {
		return nil, err
	}
	return trainings, nil
}

// Update replaces the mutable fields of a training session.
func (r *mongoTrainingRepository) Update(ctx context.Context, training *domain.Training) error {
	if err := training.ValidateData(); err != nil {
		return err
	}

	update := bson.M{
		"$set": bson.M{
			"title":         training.Title,
			"date":          training.Date,
			"time":          training.Time,
			"duration":      training.Duration,
			"sport":         training.Sport,
			"training_data": training.Data,
			"notes":         training.Notes,
			"updatedAt":     time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": training.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a training session.
func (r *mongoTrainingRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureTrainingIndexes creates necessary indexes for the trainings collection.
func EnsureTrainingIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "athleteId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "sport", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
