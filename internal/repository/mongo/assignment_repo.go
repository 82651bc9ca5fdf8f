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

const assignmentCollectionName = "coach_assignments"

// mongoAssignmentRepository implements repository.AssignmentRepository
type mongoAssignmentRepository struct {
	collection *mongo.Collection
}

// NewMongoAssignmentRepository creates a new coach-access grant repository backed by MongoDB.
func NewMongoAssignmentRepository(db *mongo.Database) repository.AssignmentRepository {
	return &mongoAssignmentRepository{
		collection: db.Collection(assignmentCollectionName),
	}
}

// Create inserts a new coach-access grant into the database.
func (r *mongoAssignmentRepository) Create(ctx context.Context, assignment *domain.CoachAssignment) (primitive.ObjectID, error) {
	if err := assignment.Validate(); err != nil {
		return primitive.NilObjectID, err
	}

	assignment.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	assignment.CreatedAt = now
	assignment.UpdatedAt = now
	if assignment.StartDate.IsZero() {
		assignment.StartDate = now
	}

	result, err := r.collection.InsertOne(ctx, assignment)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted assignment ID")
	}

	return insertedID, nil
}

// GetByID retrieves a grant by its ID.
func (r *mongoAssignmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.CoachAssignment, error) {
	var assignment domain.CoachAssignment
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&assignment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &assignment, nil
}

// FindActive returns the active grant for a (mentee, coach) pair.
func (r *mongoAssignmentRepository) FindActive(ctx context.Context, menteeID, coachID primitive.ObjectID) (*domain.CoachAssignment, error) {
	var assignment domain.CoachAssignment
	filter := bson.M{"menteeId": menteeID, "coachId": coachID, "isActive": true}

	err := r.collection.FindOne(ctx, filter).Decode(&assignment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &assignment, nil
}

// GetActiveByCoach lists the active grants where the given user is the coach.
func (r *mongoAssignmentRepository) GetActiveByCoach(ctx context.Context, coachID primitive.ObjectID) ([]domain.CoachAssignment, error) {
	return r.listActive(ctx, bson.M{"coachId": coachID, "isActive": true})
}

// GetActiveByMentee lists the active grants where the given user is the mentee.
func (r *mongoAssignmentRepository) GetActiveByMentee(ctx context.Context, menteeID primitive.ObjectID) ([]domain.CoachAssignment, error) {
	return r.listActive(ctx, bson.M{"menteeId": menteeID, "isActive": true})
}

func (r *mongoAssignmentRepository) listActive(ctx context.Context, filter bson.M) ([]domain.CoachAssignment, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	assignments := []domain.CoachAssignment{}
	if err = cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

// Deactivate revokes a grant. The document is kept for history.
func (r *mongoAssignmentRepository) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"isActive":  false,
			"endDate":   now,
			"updatedAt": now,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureAssignmentIndexes creates necessary indexes for the coach_assignments collection.
func EnsureAssignmentIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// One active grant per (mentee, coach) pair.
			Keys: bson.D{{Key: "menteeId", Value: 1}, {Key: "coachId", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"isActive": true}),
		},
		{
			Keys:    bson.D{{Key: "coachId", Value: 1}, {Key: "isActive", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "menteeId", Value: 1}, {Key: "isActive", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
