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

var ErrRaceNotFound = errors.New("race not found")

// RaceUpdateInput carries the mutable fields of a race. Empty strings leave
// the stored value untouched; FinishTime records a result.
type RaceUpdateInput struct {
	Title         string
	Date          string
	Sport         string
	Location      string
	Distance      string
	Description   *string
	TimeObjective string
	FinishTime    string
}

// RaceResult is a completed race with its derived pacing figures.
type RaceResult struct {
	Race           domain.Race `json:"race"`
	PacePerKm      string      `json:"pacePerKm,omitempty"`
	TargetVsActual string      `json:"targetVsActual,omitempty"`
}

// RaceService manages race events and their results.
type RaceService interface {
	List(ctx context.Context, actor *domain.User, filter repository.EventFilter) ([]domain.Race, error)
	Get(ctx context.Context, actor *domain.User, id primitive.ObjectID) (*domain.Race, error)
	Update(ctx context.Context, actor *domain.User, id primitive.ObjectID, input RaceUpdateInput) (*domain.Race, error)
	Delete(ctx context.Context, actor *domain.User, id primitive.ObjectID) error

	// Upcoming lists races from today onward.
	Upcoming(ctx context.Context, actor *domain.User) ([]domain.Race, error)
	// Results lists completed races, with pacing, newest first.
	Results(ctx context.Context, actor *domain.User) ([]RaceResult, error)
}

type raceService struct {
	raceRepo       repository.RaceRepository
	assignmentRepo repository.AssignmentRepository
	now            func() time.Time
}

// NewRaceService creates a new instance of raceService.
func NewRaceService(
	raceRepo repository.RaceRepository,
	assignmentRepo repository.AssignmentRepository,
) RaceService {
	return &raceService{
		raceRepo:       raceRepo,
		assignmentRepo: assignmentRepo,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (s *raceService) List(ctx context.Context, actor *domain.User, filter repository.EventFilter) ([]domain.Race, error) {
	ids, err := visibleAthleteIDs(ctx, s.assignmentRepo, actor)
	if err != nil {
		return nil, err
	}
	return s.raceRepo.ListByAthletes(ctx, ids, filter)
}

func (s *raceService) Get(ctx context.Context, actor *domain.User, id primitive.ObjectID) (*domain.Race, error) {
	race, err := s.raceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRaceNotFound
		}
		return nil, err
	}

	allowed, err := canAccessAthlete(ctx, s.assignmentRepo, actor, race.AthleteID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrPermissionDenied
	}
	return race, nil
}

func (s *raceService) Update(ctx context.Context, actor *domain.User, id primitive.ObjectID, input RaceUpdateInput) (*domain.Race, error) {
	race, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if input.Title != "" {
		race.Title = input.Title
	}
	if input.Date != "" {
		date, ok := workout.ParseDate(input.Date)
		if !ok {
			return nil, ErrInvalidDate
		}
		race.Date = date
	}
	if input.Sport != "" {
		race.Sport = input.Sport
	}
	if input.Location != "" {
		race.Location = input.Location
	}
	if input.Distance != "" {
		race.Distance = input.Distance
	}
	if input.Description != nil {
		race.Description = *input.Description
	}
	if input.TimeObjective != "" {
		target, ok := workout.ParseDuration(input.TimeObjective)
		if !ok {
			return nil, errors.New("time objective is not in a recognized format")
		}
		race.TargetTime = &target
	}
	if input.FinishTime != "" {
		finish, ok := workout.ParseDuration(input.FinishTime)
		if !ok {
			return nil, errors.New("finish time is not in a recognized format")
		}
		race.FinishTime = &finish
	}

	if err := s.raceRepo.Update(ctx, race); err != nil {
		return nil, err
	}
	return race, nil
}

func (s *raceService) Delete(ctx context.Context, actor *domain.User, id primitive.ObjectID) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	return s.raceRepo.Delete(ctx, id)
}

func (s *raceService) Upcoming(ctx context.Context, actor *domain.User) ([]domain.Race, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return s.List(ctx, actor, repository.EventFilter{After: &today})
}

func (s *raceService) Results(ctx context.Context, actor *domain.User) ([]RaceResult, error) {
	races, err := s.List(ctx, actor, repository.EventFilter{})
	if err != nil {
		return nil, err
	}

	results := []RaceResult{}
	// Listing comes back oldest first; walk backwards for newest first.
	for i := len(races) - 1; i >= 0; i-- {
		race := races[i]
		if !race.IsCompleted() {
			continue
		}
		results = append(results, RaceResult{
			Race:           race,
			PacePerKm:      race.PacePerKm(),
			TargetVsActual: race.TargetVsActual(),
		})
	}
	return results, nil
}
