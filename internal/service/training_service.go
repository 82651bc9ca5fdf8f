package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"promethia/training-api/internal/domain"
	"promethia/training-api/internal/repository"
	"promethia/training-api/internal/workout"
)

var ErrTrainingNotFound = errors.New("training not found")

// TrainingUpdateInput carries the mutable fields of a training session.
// Nil pointers and empty strings leave the stored value untouched.
type TrainingUpdateInput struct {
	Title          string
	Date           string
	Time           string
	Duration       string
	Sport          string
	Notes          *string
	TrainingBlocks []workout.Block
}

// TrainingStats aggregates a user's sessions over a period.
type TrainingStats struct {
	Total         int            `json:"total"`
	TotalDuration time.Duration  `json:"totalDuration"`
	BySport       map[string]int `json:"bySport"`
}

// TrainingService manages training sessions on every calendar the actor can
// access.
type TrainingService interface {
	List(ctx context.Context, actor *domain.User, filter repository.EventFilter) ([]domain.Training, error)
	Get(ctx context.Context, actor *domain.User, id primitive.ObjectID) (*domain.Training, error)
	Update(ctx context.Context, actor *domain.User, id primitive.ObjectID, input TrainingUpdateInput) (*domain.Training, error)
	Delete(ctx context.Context, actor *domain.User, id primitive.ObjectID) error

	// Duplicate copies an existing session onto a new date.
	Duplicate(ctx context.Context, actor *domain.User, id primitive.ObjectID, newDate string) (*domain.Training, error)

	// Upcoming lists sessions from today onward.
	Upcoming(ctx context.Context, actor *domain.User) ([]domain.Training, error)
	// ThisWeek lists sessions in the current Monday-to-Sunday week.
	ThisWeek(ctx context.Context, actor *domain.User) ([]domain.Training, error)
	// Stats aggregates sessions between the optional bounds.
	Stats(ctx context.Context, actor *domain.User, filter repository.EventFilter) (*TrainingStats, error)
}

type trainingService struct {
	trainingRepo   repository.TrainingRepository
	assignmentRepo repository.AssignmentRepository
	now            func() time.Time
}

// NewTrainingService creates a new instance of trainingService.
func NewTrainingService(
	trainingRepo repository.TrainingRepository,
	assignmentRepo repository.AssignmentRepository,
) TrainingService {
	return &trainingService{
		trainingRepo:   trainingRepo,
		assignmentRepo: assignmentRepo,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (s *trainingService) List(ctx context.Context, actor *domain.User, filter repository.EventFilter) ([]domain.Training, error) {
	ids, err := visibleAthleteIDs(ctx, s.assignmentRepo, actor)
	if err != nil {
		return nil, err
	}
	return s.trainingRepo.ListByAthletes(ctx, ids, filter)
}

func (s *trainingService) Get(ctx context.Context, actor *domain.User, id primitive.ObjectID) (*domain.Training, error) {
	training, err := s.trainingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainingNotFound
		}
		return nil, err
	}

	allowed, err := canAccessAthlete(ctx, s.assignmentRepo, actor, training.AthleteID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrPermissionDenied
	}
	return training, nil
}

func (s *trainingService) Update(ctx context.Context, actor *domain.User, id primitive.ObjectID, input TrainingUpdateInput) (*domain.Training, error) {
	training, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if input.Title != "" {
		training.Title = input.Title
	}
	if input.Date != "" {
		date, ok := workout.ParseDate(input.Date)
		if !ok {
			return nil, ErrInvalidDate
		}
		training.Date = date
	}
	// Malformed optional fields leave the stored value untouched.
	if tod, ok := workout.ParseTimeOfDay(input.Time); ok {
		training.Time = tod.String()
	}
	if d, ok := workout.ParseDuration(input.Duration); ok {
		training.Duration = &d
	}
	if input.Sport != "" {
		training.Sport = input.Sport
	}
	if input.Notes != nil {
		training.Notes = *input.Notes
	}
	if input.TrainingBlocks != nil {
		structure := workout.NormalizeBlocks(input.TrainingBlocks)
		if err := workout.ValidateAll(structure); err != nil {
			return nil, err
		}
		training.Data = structure
	}

	if err := s.trainingRepo.Update(ctx, training); err != nil {
		return nil, err
	}
	return training, nil
}

func (s *trainingService) Delete(ctx context.Context, actor *domain.User, id primitive.ObjectID) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	return s.trainingRepo.Delete(ctx, id)
}

// Duplicate clones a session onto a new date, keeping its workout payload.
func (s *trainingService) Duplicate(ctx context.Context, actor *domain.User, id primitive.ObjectID, newDate string) (*domain.Training, error) {
	original, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	date := original.Date
	if newDate != "" {
		parsed, ok := workout.ParseDate(newDate)
		if !ok {
			return nil, ErrInvalidDate
		}
		date = parsed
	}

	copy := &domain.Training{
		AthleteID: original.AthleteID,
		Title:     original.Title,
		Date:      date,
		Time:      original.Time,
		Duration:  original.Duration,
		Sport:     original.Sport,
		Data:      original.Data,
		Notes:     original.Notes,
	}

	newID, err := s.trainingRepo.Create(ctx, copy)
	if err != nil {
		return nil, err
	}
	copy.ID = newID
	return copy, nil
}

func (s *trainingService) Upcoming(ctx context.Context, actor *domain.User) ([]domain.Training, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return s.List(ctx, actor, repository.EventFilter{After: &today})
}

func (s *trainingService) ThisWeek(ctx context.Context, actor *domain.User) ([]domain.Training, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	// Monday-based week.
	offset := (int(today.Weekday()) + 6) % 7
	monday := today.AddDate(0, 0, -offset)
	sunday := monday.AddDate(0, 0, 6).Add(24*time.Hour - time.Nanosecond)

	return s.List(ctx, actor, repository.EventFilter{After: &monday, Before: &sunday})
}

func (s *trainingService) Stats(ctx context.Context, actor *domain.User, filter repository.EventFilter) (*TrainingStats, error) {
	trainings, err := s.List(ctx, actor, filter)
	if err != nil {
		return nil, err
	}

	stats := &TrainingStats{BySport: map[string]int{}}
	for _, t := range trainings {
		stats.Total++
		stats.BySport[t.Sport]++
		if t.Duration != nil {
			stats.TotalDuration += *t.Duration
		}
	}
	return stats, nil
}
