package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"promethia/training-api/internal/domain"
	"promethia/training-api/internal/repository"
	"promethia/training-api/internal/workout"
)

// --- Fakes ---

type pairKey struct {
	mentee primitive.ObjectID
	coach  primitive.ObjectID
}

type fakeAssignmentRepo struct {
	grants map[pairKey]*domain.CoachAssignment
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{grants: map[pairKey]*domain.CoachAssignment{}}
}

func (f *fakeAssignmentRepo) grant(menteeID, coachID primitive.ObjectID) {
	f.grants[pairKey{menteeID, coachID}] = &domain.CoachAssignment{
		ID:       primitive.NewObjectID(),
		MenteeID: menteeID,
		CoachID:  coachID,
		IsActive: true,
	}
}

func (f *fakeAssignmentRepo) Create(_ context.Context, assignment *domain.CoachAssignment) (primitive.ObjectID, error) {
	key := pairKey{assignment.MenteeID, assignment.CoachID}
	if _, ok := f.grants[key]; ok {
		return primitive.NilObjectID, repository.ErrDuplicate
	}
	assignment.ID = primitive.NewObjectID()
	f.grants[key] = assignment
	return assignment.ID, nil
}

func (f *fakeAssignmentRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.CoachAssignment, error) {
	for _, a := range f.grants {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeAssignmentRepo) FindActive(_ context.Context, menteeID, coachID primitive.ObjectID) (*domain.CoachAssignment, error) {
	if a, ok := f.grants[pairKey{menteeID, coachID}]; ok && a.IsActive {
		return a, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeAssignmentRepo) GetActiveByCoach(_ context.Context, coachID primitive.ObjectID) ([]domain.CoachAssignment, error) {
	var out []domain.CoachAssignment
	for _, a := range f.grants {
		if a.CoachID == coachID && a.IsActive {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAssignmentRepo) GetActiveByMentee(_ context.Context, menteeID primitive.ObjectID) ([]domain.CoachAssignment, error) {
	var out []domain.CoachAssignment
	for _, a := range f.grants {
		if a.MenteeID == menteeID && a.IsActive {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAssignmentRepo) Deactivate(_ context.Context, id primitive.ObjectID) error {
	for _, a := range f.grants {
		if a.ID == id {
			a.IsActive = false
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeTrainingRepo struct {
	created []*domain.Training
	byID    map[primitive.ObjectID]*domain.Training
}

func newFakeTrainingRepo() *fakeTrainingRepo {
	return &fakeTrainingRepo{byID: map[primitive.ObjectID]*domain.Training{}}
}

func (f *fakeTrainingRepo) Create(_ context.Context, training *domain.Training) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	training.ID = id
	f.created = append(f.created, training)
	f.byID[id] = training
	return id, nil
}

func (f *fakeTrainingRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Training, error) {
	if t, ok := f.byID[id]; ok {
		return t, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeTrainingRepo) ListByAthletes(_ context.Context, athleteIDs []primitive.ObjectID, _ repository.EventFilter) ([]domain.Training, error) {
	var out []domain.Training
	for _, t := range f.created {
		for _, id := range athleteIDs {
			if t.AthleteID == id {
				out = append(out, *t)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeTrainingRepo) Update(_ context.Context, training *domain.Training) error {
	if _, ok := f.byID[training.ID]; !ok {
		return repository.ErrNotFound
	}
	f.byID[training.ID] = training
	return nil
}

func (f *fakeTrainingRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeRaceRepo struct {
	created []*domain.Race
}

func (f *fakeRaceRepo) Create(_ context.Context, race *domain.Race) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	race.ID = id
	f.created = append(f.created, race)
	return id, nil
}

func (f *fakeRaceRepo) GetByID(context.Context, primitive.ObjectID) (*domain.Race, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeRaceRepo) ListByAthletes(context.Context, []primitive.ObjectID, repository.EventFilter) ([]domain.Race, error) {
	return nil, nil
}

func (f *fakeRaceRepo) Update(context.Context, *domain.Race) error { return nil }

func (f *fakeRaceRepo) Delete(context.Context, primitive.ObjectID) error { return nil }

type fakeCustomEventRepo struct {
	created []*domain.CustomEvent
	byID    map[primitive.ObjectID]*domain.CustomEvent
}

func newFakeCustomEventRepo() *fakeCustomEventRepo {
	return &fakeCustomEventRepo{byID: map[primitive.ObjectID]*domain.CustomEvent{}}
}

func (f *fakeCustomEventRepo) Create(_ context.Context, event *domain.CustomEvent) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	event.ID = id
	f.created = append(f.created, event)
	f.byID[id] = event
	return id, nil
}

func (f *fakeCustomEventRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.CustomEvent, error) {
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeCustomEventRepo) ListByAthletes(_ context.Context, athleteIDs []primitive.ObjectID, _ repository.EventFilter) ([]domain.CustomEvent, error) {
	var out []domain.CustomEvent
	for _, e := range f.created {
		for _, id := range athleteIDs {
			if e.AthleteID == id {
				out = append(out, *e)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeCustomEventRepo) Update(_ context.Context, event *domain.CustomEvent) error {
	if _, ok := f.byID[event.ID]; !ok {
		return repository.ErrNotFound
	}
	f.byID[event.ID] = event
	return nil
}

func (f *fakeCustomEventRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type eventFixture struct {
	svc         EventService
	users       *fakeUserRepo
	assignments *fakeAssignmentRepo
	trainings   *fakeTrainingRepo
	races       *fakeRaceRepo
	customs     *fakeCustomEventRepo
}

func newEventFixture() *eventFixture {
	users := newFakeUserRepo()
	assignments := newFakeAssignmentRepo()
	trainings := newFakeTrainingRepo()
	races := &fakeRaceRepo{}
	customs := newFakeCustomEventRepo()
	return &eventFixture{
		svc:         NewEventService(users, assignments, trainings, races, customs),
		users:       users,
		assignments: assignments,
		trainings:   trainings,
		races:       races,
		customs:     customs,
	}
}

func (fx *eventFixture) addAthlete(id primitive.ObjectID) {
	fx.users.users[id] = &domain.User{ID: id, Role: domain.RoleAthlete}
}

func athleteActor() *domain.User {
	return &domain.User{ID: primitive.NewObjectID(), Role: domain.RoleAthlete}
}

func coachActor() *domain.User {
	return &domain.User{ID: primitive.NewObjectID(), Role: domain.RoleCoach}
}

// --- Tests ---

func TestCreateEventAthleteOwnCalendar(t *testing.T) {
	t.Parallel()

	fx := newEventFixture()
	actor := athleteActor()

	// An explicit athlete field from an athlete is ignored, not honored.
	kind, event, err := fx.svc.CreateEvent(context.Background(), actor, EventCreateRequest{
		Type:    "training",
		Date:    "2026-09-01",
		Sport:   domain.SportRunning,
		Athlete: primitive.NewObjectID().Hex(),
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if kind != domain.EventTraining {
		t.Errorf("kind = %q, want %q", kind, domain.EventTraining)
	}

	training, ok := event.(*domain.Training)
	if !ok {
		t.Fatalf("event is %T, want *domain.Training", event)
	}
	if training.AthleteID != actor.ID {
		t.Errorf("training landed on %s, want actor %s", training.AthleteID.Hex(), actor.ID.Hex())
	}
	if training.Title != "Training" {
		t.Errorf("default title = %q, want %q", training.Title, "Training")
	}
	if len(fx.trainings.created) != 1 {
		t.Fatalf("expected 1 persisted training, got %d", len(fx.trainings.created))
	}
}

func TestCreateEventCoachWithGrant(t *testing.T) {
	t.Parallel()

	fx := newEventFixture()
	coach := coachActor()
	menteeID := primitive.NewObjectID()
	fx.addAthlete(menteeID)
	fx.assignments.grant(menteeID, coach.ID)

	_, event, err := fx.svc.CreateEvent(context.Background(), coach, EventCreateRequest{
		Type:    "training",
		Date:    "2026-09-01",
		Time:    "07:30",
		Sport:   domain.SportCycling,
		Athlete: menteeID.Hex(),
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	training := event.(*domain.Training)
	if training.AthleteID != menteeID {
		t.Errorf("training landed on %s, want mentee %s", training.AthleteID.Hex(), menteeID.Hex())
	}
	if training.Time != "07:30:00" {
		t.Errorf("time = %q, want %q", training.Time, "07:30:00")
	}
	// The stored date carries the time of day.
	want := time.Date(2026, 9, 1, 7, 30, 0, 0, time.UTC)
	if !training.Date.Equal(want) {
		t.Errorf("date = %v, want %v", training.Date, want)
	}
}

func TestCreateEventAthleteIDAlias(t *testing.T) {
	t.Parallel()

	fx := newEventFixture()
	coach := coachActor()
	menteeID := primitive.NewObjectID()
	fx.addAthlete(menteeID)
	fx.assignments.grant(menteeID, coach.ID)

	_, event, err := fx.svc.CreateEvent(context.Background(), coach, EventCreateRequest{
		Type:      "training",
		Date:      "2026-09-01",
		Sport:     domain.SportRunning,
		AthleteID: menteeID.Hex(),
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	training := event.(*domain.Training)
	if training.AthleteID != menteeID {
		t.Errorf("training landed on %s, want mentee %s", training.AthleteID.Hex(), menteeID.Hex())
	}
}

func TestCreateEventTrainingNotes(t *testing.T) {
	t.Parallel()

	fx := newEventFixture()
	actor := athleteActor()

	tests := []struct {
		name string
		req  EventCreateRequest
		want string
	}{
		{
			name: "description wins over notes",
			req:  EventCreateRequest{Description: "easy aerobic run", Notes: "ignored"},
			want: "easy aerobic run",
		},
		{
			name: "blank description falls back to notes",
			req:  EventCreateRequest{Description: "   ", Notes: "fartlek with the group"},
			want: "fartlek with the group",
		},
		{
			name: "both blank",
			req:  EventCreateRequest{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			req.Type = "training"
			req.Date = "2026-09-01"
			req.Sport = domain.SportRunning

			_, event, err := fx.svc.CreateEvent(context.Background(), actor, req)
			if err != nil {
				t.Fatalf("CreateEvent: %v", err)
			}
			training := event.(*domain.Training)
			if training.Notes != tt.want {
				t.Errorf("notes = %q, want %q", training.Notes, tt.want)
			}
		})
	}
}

func TestCreateEventDateStartFallback(t *testing.T) {
	t.Parallel()

	fx := newEventFixture()
	actor := athleteActor()

	// A race carrying only dateStart is still dated.
	_, event, err := fx.svc.CreateEvent(context.Background(), actor, EventCreateRequest{
		Type:      "race",
		DateStart: "2026-10-04",
		Sport:     domain.SportRunning,
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	race := event.(*domain.Race)
	if want := time.Date(2026, 10, 4, 0, 0, 0, 0, time.UTC); !race.Date.Equal(want) {
		t.Errorf("race date = %v, want %v", race.Date, want)
	}

	// Same for a training.
	_, event, err = fx.svc.CreateEvent(context.Background(), actor, EventCreateRequest{
		Type:      "training",
		DateStart: "2026-10-05",
		Sport:     domain.SportRunning,
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	training := event.(*domain.Training)
	if want := time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC); !training.Date.Equal(want) {
		t.Errorf("training date = %v, want %v", training.Date, want)
	}
}

func TestCreateEventMalformedOptionalFieldsDropped(t *testing.T) {
	t.Parallel()

	fx := newEventFixture()
	actor := athleteActor()

	_, event, err := fx.svc.CreateEvent(context.Background(), actor, EventCreateRequest{
		Type:     "training",
		Date:     "2026-09-01",
		Sport:    domain.SportRunning,
		Time:     "late morning",
		Duration: "soonish",
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	training := event.(*domain.Training)
	if training.Time != "" {
		t.Errorf("time = %q, want dropped", training.Time)
	}
	if training.Duration != nil {
		t.Errorf("duration = %v, want dropped", *training.Duration)
	}
}

func TestCreateEventCoachWithoutGrant(t *testing.T) {
	t.Parallel()

	fx := newEventFixture()
	coach := coachActor()
	strangerID := primitive.NewObjectID()
	fx.addAthlete(strangerID)

	tests := []struct {
		name    string
		athlete string
		want    error
	}{
		{name: "no athlete named", athlete: "", want: ErrPermissionDenied},
		{name: "no active grant", athlete: strangerID.Hex(), want: ErrPermissionDenied},
		{name: "athlete does not exist", athlete: primitive.NewObjectID().Hex(), want: ErrAthleteNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := fx.svc.CreateEvent(context.Background(), coach, EventCreateRequest{
				Type:    "training",
				Date:    "2026-09-01",
				Sport:   domain.SportRunning,
				Athlete: tt.athlete,
			})
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if len(fx.trainings.created) != 0 {
		t.Errorf("nothing should be persisted, got %d trainings", len(fx.trainings.created))
	}
}

func TestCreateEventValidation(t *testing.T) {
	t.Parallel()

	fx := newEventFixture()
	actor := athleteActor()

	tests := []struct {
		name string
		req  EventCreateRequest
		want error
	}{
		{
			name: "unsupported type",
			req:  EventCreateRequest{Type: "meeting", Date: "2026-09-01"},
			want: ErrUnsupportedEventType,
		},
		{
			name: "training without date",
			req:  EventCreateRequest{Type: "training", Sport: domain.SportRunning},
			want: ErrMissingDate,
		},
		{
			name: "training without sport",
			req:  EventCreateRequest{Type: "training", Date: "2026-09-01"},
			want: ErrMissingSport,
		},
		{
			name: "training with bad date",
			req:  EventCreateRequest{Type: "training", Date: "01/09/2026", Sport: domain.SportRunning},
			want: ErrInvalidDate,
		},
		{
			name: "race without sport",
			req:  EventCreateRequest{Type: "race", Date: "2026-09-01"},
			want: ErrMissingSport,
		},
		{
			name: "custom without any date",
			req:  EventCreateRequest{Type: "custom"},
			want: ErrMissingDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := fx.svc.CreateEvent(context.Background(), actor, tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCreateEventTrainingBlocks(t *testing.T) {
	t.Parallel()

	fx := newEventFixture()
	actor := athleteActor()

	_, event, err := fx.svc.CreateEvent(context.Background(), actor, EventCreateRequest{
		Type:  "training",
		Date:  "2026-09-01",
		Sport: domain.SportRunning,
		TrainingBlocks: []workout.Block{
			{Type: "warmup", Duration: 15.0},
			{Type: "interval", Duration: 4.0, Repetitions: 5.0},
			{Type: "cooldown", Duration: 10.0},
		},
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	training := event.(*domain.Training)
	if training.Data.Warmup == nil || training.Data.Cooldown == nil {
		t.Fatal("normalized structure missing warmup or cooldown")
	}
	if len(training.Data.Intervals) != 1 {
		t.Fatalf("expected 1 interval, got %d", len(training.Data.Intervals))
	}
	if err := workout.ValidateAll(training.Data); err != nil {
		t.Errorf("persisted structure fails validation: %v", err)
	}
}

func TestCreateEventRace(t *testing.T) {
	t.Parallel()

	fx := newEventFixture()
	actor := athleteActor()

	_, event, err := fx.svc.CreateEvent(context.Background(), actor, EventCreateRequest{
		Type:          "race",
		Title:         "City 10K",
		Date:          "2026-10-04",
		Sport:         domain.SportRunning,
		Distance:      "  10k  ",
		Location:      " Lyon ",
		Description:   " flat course ",
		TimeObjective: "45:00",
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	race := event.(*domain.Race)
	if race.TargetTime == nil || *race.TargetTime != 45*time.Minute {
		t.Errorf("target time = %v, want 45m", race.TargetTime)
	}
	if race.Distance != "10k" || race.Location != "Lyon" || race.Description != "flat course" {
		t.Errorf("free-text fields not trimmed: %q %q %q", race.Distance, race.Location, race.Description)
	}

	// A malformed objective is dropped, not rejected.
	_, event, err = fx.svc.CreateEvent(context.Background(), actor, EventCreateRequest{
		Type:          "race",
		Date:          "2026-10-04",
		Sport:         domain.SportRunning,
		TimeObjective: "sub forty",
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	race = event.(*domain.Race)
	if race.TargetTime != nil {
		t.Errorf("malformed objective should be dropped, got %v", *race.TargetTime)
	}
	if race.Title != "Race" {
		t.Errorf("default title = %q, want %q", race.Title, "Race")
	}
}

func TestCreateEventCustom(t *testing.T) {
	t.Parallel()

	fx := newEventFixture()
	actor := athleteActor()

	_, event, err := fx.svc.CreateEvent(context.Background(), actor, EventCreateRequest{
		Type:             "custom",
		Title:            "Altitude camp",
		DateStart:        "2026-07-10",
		DateEnd:          "2026-07-05",
		CustomEventColor: "#22c55e",
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	evt := event.(*domain.CustomEvent)
	if evt.Color != "green" {
		t.Errorf("color = %q, want %q", evt.Color, "green")
	}
	// An end before the start collapses to a single day.
	if evt.DateEnd == nil || !evt.DateEnd.Equal(evt.Date) {
		t.Errorf("dateEnd = %v, want collapsed to %v", evt.DateEnd, evt.Date)
	}

	// Date alone works as the start; unknown colors fall back to blue.
	_, event, err = fx.svc.CreateEvent(context.Background(), actor, EventCreateRequest{
		Type:             "custom",
		Date:             "2026-07-20",
		CustomEventColor: "chartreuse",
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	evt = event.(*domain.CustomEvent)
	if evt.Color != "blue" {
		t.Errorf("color = %q, want default %q", evt.Color, "blue")
	}
	if evt.Title != "Event" {
		t.Errorf("default title = %q, want %q", evt.Title, "Event")
	}
}

func TestListCustomEventsVisibility(t *testing.T) {
	t.Parallel()

	fx := newEventFixture()
	coach := coachActor()
	menteeID := primitive.NewObjectID()
	strangerID := primitive.NewObjectID()
	fx.assignments.grant(menteeID, coach.ID)

	for _, athleteID := range []primitive.ObjectID{coach.ID, menteeID, strangerID} {
		_, err := fx.customs.Create(context.Background(), &domain.CustomEvent{
			AthleteID: athleteID,
			Title:     "Entry",
			Date:      time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatalf("seeding: %v", err)
		}
	}

	events, err := fx.svc.ListCustomEvents(context.Background(), coach, repository.EventFilter{})
	if err != nil {
		t.Fatalf("ListCustomEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected the coach's own and the mentee's events, got %d", len(events))
	}
	for _, e := range events {
		if e.AthleteID == strangerID {
			t.Error("event of an unrelated athlete leaked into the listing")
		}
	}
}

func TestUpdateCustomEventAccess(t *testing.T) {
	t.Parallel()

	fx := newEventFixture()
	owner := athleteActor()
	outsider := coachActor()

	id, err := fx.customs.Create(context.Background(), &domain.CustomEvent{
		AthleteID: owner.ID,
		Title:     "Rest week",
		Date:      time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		Color:     "blue",
	})
	if err != nil {
		t.Fatalf("seeding: %v", err)
	}

	// A coach without a grant cannot touch the event.
	if _, err := fx.svc.UpdateCustomEvent(context.Background(), outsider, id, EventCreateRequest{Title: "Hijacked"}); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied", err)
	}
	if err := fx.svc.DeleteCustomEvent(context.Background(), outsider, id); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied", err)
	}

	// The owner can.
	updated, err := fx.svc.UpdateCustomEvent(context.Background(), owner, id, EventCreateRequest{
		Title:            "Recovery week",
		CustomEventColor: "purple",
	})
	if err != nil {
		t.Fatalf("UpdateCustomEvent: %v", err)
	}
	if updated.Title != "Recovery week" || updated.Color != "purple" {
		t.Errorf("update not applied: %+v", updated)
	}

	if err := fx.svc.DeleteCustomEvent(context.Background(), owner, id); err != nil {
		t.Fatalf("DeleteCustomEvent: %v", err)
	}
	if err := fx.svc.DeleteCustomEvent(context.Background(), owner, id); !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("err = %v, want ErrEventNotFound", err)
	}
}
