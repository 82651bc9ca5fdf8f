package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"promethia/training-api/internal/domain"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate record")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByCoachID(ctx context.Context, coachID string) (*domain.User, error)
	CoachIDExists(ctx context.Context, coachID string) (bool, error)
	Update(ctx context.Context, user *domain.User) error
	SetProfileImageKey(ctx context.Context, id primitive.ObjectID, objectKey string) error
}

// AssignmentRepository manages coach-access grants.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.CoachAssignment) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.CoachAssignment, error)
	// FindActive returns the active grant for a (mentee, coach) pair, or
	// ErrNotFound when none exists.
	FindActive(ctx context.Context, menteeID, coachID primitive.ObjectID) (*domain.CoachAssignment, error)
	GetActiveByCoach(ctx context.Context, coachID primitive.ObjectID) ([]domain.CoachAssignment, error)
	GetActiveByMentee(ctx context.Context, menteeID primitive.ObjectID) ([]domain.CoachAssignment, error)
	Deactivate(ctx context.Context, id primitive.ObjectID) error
}

// ProfileRepository manages the two per-user profile documents.
type ProfileRepository interface {
	CreateAthletic(ctx context.Context, profile *domain.AthleticProfile) (primitive.ObjectID, error)
	GetAthleticByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.AthleticProfile, error)
	UpdateAthletic(ctx context.Context, profile *domain.AthleticProfile) error
	CreateProfessional(ctx context.Context, profile *domain.ProfessionalProfile) (primitive.ObjectID, error)
	GetProfessionalByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.ProfessionalProfile, error)
	UpdateProfessional(ctx context.Context, profile *domain.ProfessionalProfile) error
}

// AchievementRepository manages athlete achievements.
type AchievementRepository interface {
	Create(ctx context.Context, achievement *domain.Achievement) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Achievement, error)
	GetByProfileID(ctx context.Context, profileID primitive.ObjectID) ([]domain.Achievement, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// CoachAchievementRepository manages coach achievements.
type CoachAchievementRepository interface {
	Create(ctx context.Context, achievement *domain.CoachAchievement) (primitive.ObjectID, error)
	GetByProfileID(ctx context.Context, profileID primitive.ObjectID) ([]domain.CoachAchievement, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// CertificationRepository manages coaching credentials.
type CertificationRepository interface {
	Create(ctx context.Context, certification *domain.Certification) (primitive.ObjectID, error)
	GetByProfileID(ctx context.Context, profileID primitive.ObjectID) ([]domain.Certification, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// EventFilter narrows calendar listings. Zero values mean no filter.
type EventFilter struct {
	Sports []string
	After  *time.Time
	Before *time.Time
}

// TrainingRepository manages training sessions.
type TrainingRepository interface {
	Create(ctx context.Context, training *domain.Training) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Training, error)
	ListByAthletes(ctx context.Context, athleteIDs []primitive.ObjectID, filter EventFilter) ([]domain.Training, error)
	Update(ctx context.Context, training *domain.Training) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// RaceRepository manages race events.
type RaceRepository interface {
	Create(ctx context.Context, race *domain.Race) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Race, error)
	ListByAthletes(ctx context.Context, athleteIDs []primitive.ObjectID, filter EventFilter) ([]domain.Race, error)
	Update(ctx context.Context, race *domain.Race) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// CustomEventRepository manages custom calendar events.
type CustomEventRepository interface {
	Create(ctx context.Context, event *domain.CustomEvent) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.CustomEvent, error)
	ListByAthletes(ctx context.Context, athleteIDs []primitive.ObjectID, filter EventFilter) ([]domain.CustomEvent, error)
	Update(ctx context.Context, event *domain.CustomEvent) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// SavedTrainingRepository manages reusable workout templates.
type SavedTrainingRepository interface {
	Create(ctx context.Context, saved *domain.SavedTraining) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SavedTraining, error)
	ListByCreator(ctx context.Context, creatorID primitive.ObjectID) ([]domain.SavedTraining, error)
	Update(ctx context.Context, saved *domain.SavedTraining) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
