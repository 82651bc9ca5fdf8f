package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"promethia/training-api/internal/domain"
	"promethia/training-api/internal/repository"
	"promethia/training-api/internal/workout"
)

// --- Error Definitions ---
var (
	ErrUnsupportedEventType = errors.New("unsupported event type")
	ErrPermissionDenied     = errors.New("you do not have permission to manage this athlete's calendar")
	ErrAthleteNotFound      = errors.New("athlete not found")
	ErrEventNotFound        = errors.New("event not found")
	ErrMissingDate          = errors.New("date is required")
	ErrMissingSport         = errors.New("sport is required")
	ErrInvalidDate          = errors.New("date is not in a recognized format")
)

// EventCreateRequest is the client payload for the unified event endpoint.
// The type field selects which entity the dispatcher builds.
type EventCreateRequest struct {
	Type  string `json:"type" binding:"required"`
	Title string `json:"title"`

	Date      string `json:"date"`
	DateStart string `json:"dateStart"`
	DateEnd   string `json:"dateEnd"`
	Time      string `json:"time"`

	Sport       string `json:"sport"`
	Duration    string `json:"duration"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Notes       string `json:"notes"`

	// Athlete the event is for; coaches must set it, athletes may omit it
	// (their own value is used regardless). AthleteID is an accepted alias
	// used by older clients.
	Athlete   string `json:"athlete"`
	AthleteID string `json:"athleteId"`

	// Workout builder payload for trainings.
	TrainingBlocks []workout.Block `json:"trainingBlocks"`

	// Race fields.
	Distance      string `json:"distance"`
	TimeObjective string `json:"timeObjective"`

	// Custom event fields.
	CustomEventColor string `json:"customEventColor"`
}

// EventService is the unified calendar event dispatcher. It resolves the
// target athlete, enforces coach-access grants, and routes creation to the
// right entity.
type EventService interface {
	CreateEvent(ctx context.Context, actor *domain.User, req EventCreateRequest) (domain.EventKind, any, error)

	ListCustomEvents(ctx context.Context, actor *domain.User, filter repository.EventFilter) ([]domain.CustomEvent, error)
	UpdateCustomEvent(ctx context.Context, actor *domain.User, id primitive.ObjectID, req EventCreateRequest) (*domain.CustomEvent, error)
	DeleteCustomEvent(ctx context.Context, actor *domain.User, id primitive.ObjectID) error
}

type eventService struct {
	userRepo        repository.UserRepository
	assignmentRepo  repository.AssignmentRepository
	trainingRepo    repository.TrainingRepository
	raceRepo        repository.RaceRepository
	customEventRepo repository.CustomEventRepository
}

// NewEventService creates a new instance of eventService.
func NewEventService(
	userRepo repository.UserRepository,
	assignmentRepo repository.AssignmentRepository,
	trainingRepo repository.TrainingRepository,
	raceRepo repository.RaceRepository,
	customEventRepo repository.CustomEventRepository,
) EventService {
	return &eventService{
		userRepo:        userRepo,
		assignmentRepo:  assignmentRepo,
		trainingRepo:    trainingRepo,
		raceRepo:        raceRepo,
		customEventRepo: customEventRepo,
	}
}

// resolveTargetAthlete decides whose calendar the event lands on. Athletes
// always write to their own calendar; any explicit athlete field is ignored.
// Coaches must name an existing athlete who has granted them access.
func (s *eventService) resolveTargetAthlete(ctx context.Context, actor *domain.User, req EventCreateRequest) (primitive.ObjectID, error) {
	athleteField := req.Athlete
	if athleteField == "" {
		athleteField = req.AthleteID
	}

	switch actor.Role {
	case domain.RoleAthlete:
		return actor.ID, nil
	case domain.RoleCoach:
		if athleteField == "" {
			return primitive.NilObjectID, ErrPermissionDenied
		}
		athleteID, err := primitive.ObjectIDFromHex(athleteField)
		if err != nil {
			return primitive.NilObjectID, ErrAthleteNotFound
		}
		if _, err := s.userRepo.GetByID(ctx, athleteID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return primitive.NilObjectID, ErrAthleteNotFound
			}
			return primitive.NilObjectID, err
		}
		if _, err := s.assignmentRepo.FindActive(ctx, athleteID, actor.ID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return primitive.NilObjectID, ErrPermissionDenied
			}
			return primitive.NilObjectID, err
		}
		return athleteID, nil
	default:
		return primitive.NilObjectID, ErrPermissionDenied
	}
}

// visibleAthleteIDs lists the calendars the actor may read: their own plus,
// for coaches, every mentee with an active grant.
func visibleAthleteIDs(ctx context.Context, assignmentRepo repository.AssignmentRepository, actor *domain.User) ([]primitive.ObjectID, error) {
	ids := []primitive.ObjectID{actor.ID}
	if actor.Role != domain.RoleCoach {
		return ids, nil
	}
	assignments, err := assignmentRepo.GetActiveByCoach(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	for _, a := range assignments {
		ids = append(ids, a.MenteeID)
	}
	return ids, nil
}

// canAccessAthlete reports whether the actor may manage the given athlete's
// calendar.
func canAccessAthlete(ctx context.Context, assignmentRepo repository.AssignmentRepository, actor *domain.User, athleteID primitive.ObjectID) (bool, error) {
	if actor.ID == athleteID {
		return true, nil
	}
	if actor.Role != domain.RoleCoach {
		return false, nil
	}
	_, err := assignmentRepo.FindActive(ctx, athleteID, actor.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CreateEvent routes the request to the entity named by its type field.
func (s *eventService) CreateEvent(ctx context.Context, actor *domain.User, req EventCreateRequest) (domain.EventKind, any, error) {
	athleteID, err := s.resolveTargetAthlete(ctx, actor, req)
	if err != nil {
		return "", nil, err
	}

	switch domain.EventKind(req.Type) {
	case domain.EventTraining:
		training, err := s.createTraining(ctx, athleteID, req)
		return domain.EventTraining, training, err
	case domain.EventRace:
		race, err := s.createRace(ctx, athleteID, req)
		return domain.EventRace, race, err
	case domain.EventCustom:
		event, err := s.createCustomEvent(ctx, athleteID, req)
		return domain.EventCustom, event, err
	default:
		return "", nil, fmt.Errorf("%w: %q", ErrUnsupportedEventType, req.Type)
	}
}

func (s *eventService) createTraining(ctx context.Context, athleteID primitive.ObjectID, req EventCreateRequest) (*domain.Training, error) {
	dateText := req.Date
	if dateText == "" {
		dateText = req.DateStart
	}
	if dateText == "" {
		return nil, ErrMissingDate
	}
	if req.Sport == "" {
		return nil, ErrMissingSport
	}

	date, ok := workout.ParseDate(dateText)
	if !ok {
		return nil, ErrInvalidDate
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "Training"
	}

	// Description takes precedence over notes when both are present.
	notes := strings.TrimSpace(req.Description)
	if notes == "" {
		notes = strings.TrimSpace(req.Notes)
	}

	training := &domain.Training{
		AthleteID: athleteID,
		Title:     title,
		Date:      date,
		Sport:     req.Sport,
		Notes:     notes,
	}

	// Malformed optional fields are dropped; only date and sport are strict.
	if tod, ok := workout.ParseTimeOfDay(req.Time); ok {
		training.Time = tod.String()
		if combined, ok := workout.CombineDateAndTime(dateText, req.Time); ok {
			training.Date = combined
		}
	}

	if d, ok := workout.ParseDuration(req.Duration); ok {
		training.Duration = &d
	}

	if len(req.TrainingBlocks) > 0 {
		structure := workout.NormalizeBlocks(req.TrainingBlocks)
		if err := workout.ValidateAll(structure); err != nil {
			return nil, err
		}
		training.Data = structure
	}

	id, err := s.trainingRepo.Create(ctx, training)
	if err != nil {
		return nil, err
	}
	training.ID = id
	return training, nil
}

func (s *eventService) createRace(ctx context.Context, athleteID primitive.ObjectID, req EventCreateRequest) (*domain.Race, error) {
	// Races prefer the explicit start field over the plain date.
	dateText := req.DateStart
	if dateText == "" {
		dateText = req.Date
	}
	if dateText == "" {
		return nil, ErrMissingDate
	}
	if req.Sport == "" {
		return nil, ErrMissingSport
	}

	date, ok := workout.ParseDate(dateText)
	if !ok {
		return nil, ErrInvalidDate
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "Race"
	}

	race := &domain.Race{
		AthleteID:   athleteID,
		Title:       title,
		Date:        date,
		Sport:       req.Sport,
		Location:    strings.TrimSpace(req.Location),
		Distance:    strings.TrimSpace(req.Distance),
		Description: strings.TrimSpace(req.Description),
	}

	// A malformed objective is dropped rather than rejected; the race is
	// still worth recording without it.
	if req.TimeObjective != "" {
		if target, ok := workout.ParseDuration(req.TimeObjective); ok {
			race.TargetTime = &target
		}
	}

	id, err := s.raceRepo.Create(ctx, race)
	if err != nil {
		return nil, err
	}
	race.ID = id
	return race, nil
}

func (s *eventService) createCustomEvent(ctx context.Context, athleteID primitive.ObjectID, req EventCreateRequest) (*domain.CustomEvent, error) {
	startText := req.DateStart
	if startText == "" {
		startText = req.Date
	}
	if startText == "" {
		return nil, ErrMissingDate
	}

	start, ok := workout.ParseDate(startText)
	if !ok {
		return nil, ErrInvalidDate
	}

	title := req.Title
	if title == "" {
		title = "Event"
	}

	event := &domain.CustomEvent{
		AthleteID:   athleteID,
		Title:       title,
		Date:        start,
		Location:    req.Location,
		Description: req.Description,
		Color:       normalizeEventColor(req.CustomEventColor),
	}

	if req.DateEnd != "" {
		if end, ok := workout.ParseDate(req.DateEnd); ok {
			// An end before the start collapses to a single-day event.
			if end.Before(start) {
				end = start
			}
			event.DateEnd = &end
		}
	}

	id, err := s.customEventRepo.Create(ctx, event)
	if err != nil {
		return nil, err
	}
	event.ID = id
	return event, nil
}

// normalizeEventColor accepts both color names and the builder's hex values,
// defaulting to blue.
func normalizeEventColor(raw string) string {
	color := strings.ToLower(strings.TrimSpace(raw))
	if mapped := workout.MapEventColor(color); mapped != "" {
		color = mapped
	}
	for _, known := range domain.EventColors {
		if color == known {
			return color
		}
	}
	return "blue"
}

// ListCustomEvents lists custom events across every calendar the actor can see.
func (s *eventService) ListCustomEvents(ctx context.Context, actor *domain.User, filter repository.EventFilter) ([]domain.CustomEvent, error) {
	ids, err := visibleAthleteIDs(ctx, s.assignmentRepo, actor)
	if err != nil {
		return nil, err
	}
	return s.customEventRepo.ListByAthletes(ctx, ids, filter)
}

// UpdateCustomEvent applies the mutable request fields to an existing event.
func (s *eventService) UpdateCustomEvent(ctx context.Context, actor *domain.User, id primitive.ObjectID, req EventCreateRequest) (*domain.CustomEvent, error) {
	event, err := s.customEventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	allowed, err := canAccessAthlete(ctx, s.assignmentRepo, actor, event.AthleteID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrPermissionDenied
	}

	if req.Title != "" {
		event.Title = req.Title
	}
	if startText := req.DateStart; startText != "" {
		if start, ok := workout.ParseDate(startText); ok {
			event.Date = start
		}
	}
	if req.DateEnd != "" {
		if end, ok := workout.ParseDate(req.DateEnd); ok {
			if end.Before(event.Date) {
				end = event.Date
			}
			event.DateEnd = &end
		}
	}
	if req.Location != "" {
		event.Location = req.Location
	}
	if req.Description != "" {
		event.Description = req.Description
	}
	if req.CustomEventColor != "" {
		event.Color = normalizeEventColor(req.CustomEventColor)
	}

	if err := s.customEventRepo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// DeleteCustomEvent removes a custom event after an access check.
func (s *eventService) DeleteCustomEvent(ctx context.Context, actor *domain.User, id primitive.ObjectID) error {
	event, err := s.customEventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEventNotFound
		}
		return err
	}

	allowed, err := canAccessAthlete(ctx, s.assignmentRepo, actor, event.AthleteID)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrPermissionDenied
	}

	return s.customEventRepo.Delete(ctx, id)
}
