package service

import (
	"context"
	"errors"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"promethia/training-api/internal/domain"
	"promethia/training-api/internal/mailer"
	"promethia/training-api/internal/repository"
)

// --- Error Definitions ---
var (
	ErrCoachCodeNotFound   = errors.New("no user holds this coach code")
	ErrSelfCoachAccess     = errors.New("cannot grant coach access to yourself")
	ErrAlreadyConnected    = errors.New("this coach already has access to your calendar")
	ErrAssignmentNotFound  = errors.New("coach access grant not found")
	ErrNotGrantParticipant = errors.New("only the mentee or the coach can revoke this grant")
)

// Connection pairs a grant with the user on its other side, ready for
// rendering in athlete and coach lists.
type Connection struct {
	Assignment domain.CoachAssignment `json:"assignment"`
	User       domain.User            `json:"user"`
}

// CoachService manages coach-access grants between users.
type CoachService interface {
	// GrantAccess lets the mentee grant calendar access to the holder of the
	// given coach code.
	GrantAccess(ctx context.Context, menteeID primitive.ObjectID, coachCode string, notes string) (*domain.CoachAssignment, error)
	// MyAthletes lists active grants where the user is the coach.
	MyAthletes(ctx context.Context, coachID primitive.ObjectID) ([]Connection, error)
	// MyCoaches lists active grants where the user is the mentee.
	MyCoaches(ctx context.Context, menteeID primitive.ObjectID) ([]Connection, error)
	// RevokeAccess deactivates a grant. Either side may revoke.
	RevokeAccess(ctx context.Context, actorID, assignmentID primitive.ObjectID) error
}

type coachService struct {
	userRepo       repository.UserRepository
	assignmentRepo repository.AssignmentRepository
	mail           mailer.Mailer
}

// NewCoachService creates a new instance of coachService.
func NewCoachService(
	userRepo repository.UserRepository,
	assignmentRepo repository.AssignmentRepository,
	mail mailer.Mailer,
) CoachService {
	return &coachService{
		userRepo:       userRepo,
		assignmentRepo: assignmentRepo,
		mail:           mail,
	}
}

// GrantAccess resolves the coach code and creates an active grant.
func (s *coachService) GrantAccess(ctx context.Context, menteeID primitive.ObjectID, coachCode string, notes string) (*domain.CoachAssignment, error) {
	if menteeID == primitive.NilObjectID || coachCode == "" {
		return nil, errors.New("mentee ID and coach code are required")
	}

	coach, err := s.userRepo.GetByCoachID(ctx, coachCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCoachCodeNotFound
		}
		return nil, err
	}

	if coach.ID == menteeID {
		return nil, ErrSelfCoachAccess
	}

	// Reject duplicates up front for a friendly error; the partial unique
	// index still backstops races.
	_, err = s.assignmentRepo.FindActive(ctx, menteeID, coach.ID)
	if err == nil {
		return nil, ErrAlreadyConnected
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	assignment := &domain.CoachAssignment{
		MenteeID: menteeID,
		CoachID:  coach.ID,
		IsActive: true,
		Notes:    notes,
	}

	id, err := s.assignmentRepo.Create(ctx, assignment)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyConnected
		}
		return nil, err
	}
	assignment.ID = id

	mentee, err := s.userRepo.GetByID(ctx, menteeID)
	if err == nil {
		go func(coachEmail, coachName, menteeName string) {
			if mailErr := s.mail.SendCoachAccessGranted(coachEmail, coachName, menteeName); mailErr != nil {
				log.Printf("WARN: coach-access email to %s failed: %v", coachEmail, mailErr)
			}
		}(coach.Email, coach.FullName(), mentee.FullName())
	}

	return assignment, nil
}

// MyAthletes lists the users who granted this coach access.
func (s *coachService) MyAthletes(ctx context.Context, coachID primitive.ObjectID) ([]Connection, error) {
	assignments, err := s.assignmentRepo.GetActiveByCoach(ctx, coachID)
	if err != nil {
		return nil, err
	}
	return s.resolveConnections(ctx, assignments, func(a domain.CoachAssignment) primitive.ObjectID {
		return a.MenteeID
	})
}

// MyCoaches lists the coaches this user has granted access to.
func (s *coachService) MyCoaches(ctx context.Context, menteeID primitive.ObjectID) ([]Connection, error) {
	assignments, err := s.assignmentRepo.GetActiveByMentee(ctx, menteeID)
	if err != nil {
		return nil, err
	}
	return s.resolveConnections(ctx, assignments, func(a domain.CoachAssignment) primitive.ObjectID {
		return a.CoachID
	})
}

func (s *coachService) resolveConnections(ctx context.Context, assignments []domain.CoachAssignment, other func(domain.CoachAssignment) primitive.ObjectID) ([]Connection, error) {
	connections := make([]Connection, 0, len(assignments))
	for _, assignment := range assignments {
		user, err := s.userRepo.GetByID(ctx, other(assignment))
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				// Orphaned grant; skip rather than fail the whole listing.
				continue
			}
			return nil, err
		}
		user.PasswordHash = ""
		connections = append(connections, Connection{Assignment: assignment, User: *user})
	}
	return connections, nil
}

// RevokeAccess deactivates a grant after checking the actor is a participant.
func (s *coachService) RevokeAccess(ctx context.Context, actorID, assignmentID primitive.ObjectID) error {
	assignment, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}

	if assignment.MenteeID != actorID && assignment.CoachID != actorID {
		return ErrNotGrantParticipant
	}

	return s.assignmentRepo.Deactivate(ctx, assignmentID)
}
