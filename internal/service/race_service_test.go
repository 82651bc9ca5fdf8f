package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"promethia/training-api/internal/domain"
	"promethia/training-api/internal/repository"
)

// listingRaceRepo keeps races queryable by ID, unlike the write-only fake.
type listingRaceRepo struct {
	races []*domain.Race
}

func (f *listingRaceRepo) Create(_ context.Context, race *domain.Race) (primitive.ObjectID, error) {
	race.ID = primitive.NewObjectID()
	f.races = append(f.races, race)
	return race.ID, nil
}

func (f *listingRaceRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Race, error) {
	for _, r := range f.races {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *listingRaceRepo) ListByAthletes(_ context.Context, athleteIDs []primitive.ObjectID, _ repository.EventFilter) ([]domain.Race, error) {
	var out []domain.Race
	for _, r := range f.races {
		for _, id := range athleteIDs {
			if r.AthleteID == id {
				out = append(out, *r)
				break
			}
		}
	}
	return out, nil
}

func (f *listingRaceRepo) Update(_ context.Context, race *domain.Race) error {
	for i, r := range f.races {
		if r.ID == race.ID {
			f.races[i] = race
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *listingRaceRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	for i, r := range f.races {
		if r.ID == id {
			f.races = append(f.races[:i], f.races[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func TestRaceUpdateTimes(t *testing.T) {
	t.Parallel()

	races := &listingRaceRepo{}
	svc := NewRaceService(races, newFakeAssignmentRepo())
	actor := athleteActor()

	id, err := races.Create(context.Background(), &domain.Race{
		AthleteID: actor.ID,
		Title:     "City 10K",
		Date:      time.Date(2026, 10, 4, 0, 0, 0, 0, time.UTC),
		Sport:     domain.SportRunning,
		Distance:  "10k",
	})
	if err != nil {
		t.Fatalf("seeding: %v", err)
	}

	updated, err := svc.Update(context.Background(), actor, id, RaceUpdateInput{
		TimeObjective: "45:00",
		FinishTime:    "44:10",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.TargetTime == nil || *updated.TargetTime != 45*time.Minute {
		t.Errorf("target = %v, want 45m", updated.TargetTime)
	}
	if updated.FinishTime == nil || *updated.FinishTime != 44*time.Minute+10*time.Second {
		t.Errorf("finish = %v, want 44m10s", updated.FinishTime)
	}

	// Unlike the create path, a malformed time on update is an error.
	if _, err := svc.Update(context.Background(), actor, id, RaceUpdateInput{FinishTime: "fast"}); err == nil {
		t.Error("expected an error for an unparsable finish time")
	}

	if _, err := svc.Get(context.Background(), actor, primitive.NewObjectID()); !errors.Is(err, ErrRaceNotFound) {
		t.Errorf("err = %v, want ErrRaceNotFound", err)
	}
}

func TestRaceResults(t *testing.T) {
	t.Parallel()

	races := &listingRaceRepo{}
	svc := NewRaceService(races, newFakeAssignmentRepo())
	actor := athleteActor()

	finish := 50 * time.Minute
	target := 52 * time.Minute
	seed := []*domain.Race{
		{
			AthleteID: actor.ID, Title: "Spring 10K", Sport: domain.SportRunning,
			Date: time.Date(2026, 4, 12, 0, 0, 0, 0, time.UTC), Distance: "10k",
			FinishTime: &finish, TargetTime: &target,
		},
		{
			AthleteID: actor.ID, Title: "DNF", Sport: domain.SportRunning,
			Date: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			AthleteID: actor.ID, Title: "Summer 5K", Sport: domain.SportRunning,
			Date: time.Date(2026, 6, 7, 0, 0, 0, 0, time.UTC), Distance: "5k",
			FinishTime: &finish,
		},
	}
	for _, r := range seed {
		if _, err := races.Create(context.Background(), r); err != nil {
			t.Fatalf("seeding: %v", err)
		}
	}

	results, err := svc.Results(context.Background(), actor)
	if err != nil {
		t.Fatalf("Results: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 completed races, got %d", len(results))
	}
	// Newest first.
	if results[0].Race.Title != "Summer 5K" || results[1].Race.Title != "Spring 10K" {
		t.Errorf("order = %q, %q", results[0].Race.Title, results[1].Race.Title)
	}
	if results[1].PacePerKm != "5:00/km" {
		t.Errorf("pace = %q, want %q", results[1].PacePerKm, "5:00/km")
	}
	if results[1].TargetVsActual != "2m0s (faster)" {
		t.Errorf("target vs actual = %q", results[1].TargetVsActual)
	}
	if results[0].TargetVsActual != "" {
		t.Errorf("race without a target should have no comparison, got %q", results[0].TargetVsActual)
	}
}
