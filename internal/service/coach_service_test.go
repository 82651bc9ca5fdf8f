package service

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"promethia/training-api/internal/domain"
	"promethia/training-api/internal/repository"
)

type fakeUserRepo struct {
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	f := &fakeUserRepo{users: map[primitive.ObjectID]*domain.User{}}
	for _, u := range users {
		if u.ID == primitive.NilObjectID {
			u.ID = primitive.NewObjectID()
		}
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	for _, existing := range f.users {
		if existing.Email == user.Email || existing.CoachID == user.CoachID {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	// Store a snapshot so later caller-side mutations don't alter the
	// "persisted" record, mirroring the real repo's BSON marshal at insert.
	copy := *user
	f.users[user.ID] = &copy
	return user.ID, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	if u, ok := f.users[id]; ok {
		copy := *u
		return &copy, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByCoachID(_ context.Context, coachID string) (*domain.User, error) {
	for _, u := range f.users {
		if u.CoachID == coachID {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) CoachIDExists(_ context.Context, coachID string) (bool, error) {
	for _, u := range f.users {
		if u.CoachID == coachID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) SetProfileImageKey(_ context.Context, id primitive.ObjectID, objectKey string) error {
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.ProfileImageKey = objectKey
	return nil
}

type noopMailer struct{}

func (noopMailer) SendWelcome(string, string) error                    { return nil }
func (noopMailer) SendCoachAccessGranted(string, string, string) error { return nil }

func TestGrantAccess(t *testing.T) {
	t.Parallel()

	mentee := &domain.User{ID: primitive.NewObjectID(), Email: "mentee@example.com", FirstName: "Alix", CoachID: "AAA111!!"}
	coach := &domain.User{ID: primitive.NewObjectID(), Email: "coach@example.com", FirstName: "Sam", CoachID: "BBB222@@"}
	users := newFakeUserRepo(mentee, coach)
	assignments := newFakeAssignmentRepo()
	svc := NewCoachService(users, assignments, noopMailer{})

	assignment, err := svc.GrantAccess(context.Background(), mentee.ID, coach.CoachID, "season prep")
	if err != nil {
		t.Fatalf("GrantAccess: %v", err)
	}
	if assignment.MenteeID != mentee.ID || assignment.CoachID != coach.ID {
		t.Errorf("grant pairs %s -> %s, want mentee -> coach", assignment.MenteeID.Hex(), assignment.CoachID.Hex())
	}
	if !assignment.IsActive {
		t.Error("new grant should be active")
	}
	if assignment.Notes != "season prep" {
		t.Errorf("notes = %q", assignment.Notes)
	}

	// Granting the same coach twice fails.
	if _, err := svc.GrantAccess(context.Background(), mentee.ID, coach.CoachID, ""); !errors.Is(err, ErrAlreadyConnected) {
		t.Errorf("err = %v, want ErrAlreadyConnected", err)
	}
}

func TestGrantAccessRejections(t *testing.T) {
	t.Parallel()

	mentee := &domain.User{ID: primitive.NewObjectID(), Email: "mentee@example.com", CoachID: "AAA111!!"}
	users := newFakeUserRepo(mentee)
	svc := NewCoachService(users, newFakeAssignmentRepo(), noopMailer{})

	if _, err := svc.GrantAccess(context.Background(), mentee.ID, "ZZZ999**", ""); !errors.Is(err, ErrCoachCodeNotFound) {
		t.Errorf("unknown code: err = %v, want ErrCoachCodeNotFound", err)
	}
	if _, err := svc.GrantAccess(context.Background(), mentee.ID, mentee.CoachID, ""); !errors.Is(err, ErrSelfCoachAccess) {
		t.Errorf("own code: err = %v, want ErrSelfCoachAccess", err)
	}
	if _, err := svc.GrantAccess(context.Background(), mentee.ID, "", ""); err == nil {
		t.Error("empty code: expected an error")
	}
}

func TestMyAthletesAndMyCoaches(t *testing.T) {
	t.Parallel()

	mentee := &domain.User{ID: primitive.NewObjectID(), Email: "mentee@example.com", FirstName: "Alix", CoachID: "AAA111!!", PasswordHash: "secret"}
	coach := &domain.User{ID: primitive.NewObjectID(), Email: "coach@example.com", FirstName: "Sam", CoachID: "BBB222@@", PasswordHash: "secret"}
	users := newFakeUserRepo(mentee, coach)
	assignments := newFakeAssignmentRepo()
	assignments.grant(mentee.ID, coach.ID)
	// An orphaned grant whose mentee no longer exists is skipped.
	assignments.grant(primitive.NewObjectID(), coach.ID)

	svc := NewCoachService(users, assignments, noopMailer{})

	athletes, err := svc.MyAthletes(context.Background(), coach.ID)
	if err != nil {
		t.Fatalf("MyAthletes: %v", err)
	}
	if len(athletes) != 1 {
		t.Fatalf("MyAthletes returned %d connections, want 1", len(athletes))
	}
	if athletes[0].User.ID != mentee.ID {
		t.Errorf("connection user = %s, want mentee", athletes[0].User.ID.Hex())
	}
	if athletes[0].User.PasswordHash != "" {
		t.Error("password hash leaked into the connection listing")
	}

	coaches, err := svc.MyCoaches(context.Background(), mentee.ID)
	if err != nil {
		t.Fatalf("MyCoaches: %v", err)
	}
	if len(coaches) != 1 || coaches[0].User.ID != coach.ID {
		t.Fatalf("MyCoaches = %+v, want the one coach", coaches)
	}
}

func TestRevokeAccess(t *testing.T) {
	t.Parallel()

	menteeID := primitive.NewObjectID()
	coachID := primitive.NewObjectID()
	assignments := newFakeAssignmentRepo()
	assignments.grant(menteeID, coachID)
	grant := assignments.grants[pairKey{menteeID, coachID}]

	svc := NewCoachService(newFakeUserRepo(), assignments, noopMailer{})

	if err := svc.RevokeAccess(context.Background(), primitive.NewObjectID(), grant.ID); !errors.Is(err, ErrNotGrantParticipant) {
		t.Fatalf("outsider revoke: err = %v, want ErrNotGrantParticipant", err)
	}

	if err := svc.RevokeAccess(context.Background(), coachID, grant.ID); err != nil {
		t.Fatalf("RevokeAccess: %v", err)
	}
	if grant.IsActive {
		t.Error("grant still active after revocation")
	}

	if err := svc.RevokeAccess(context.Background(), menteeID, primitive.NewObjectID()); !errors.Is(err, ErrAssignmentNotFound) {
		t.Errorf("err = %v, want ErrAssignmentNotFound", err)
	}
}
