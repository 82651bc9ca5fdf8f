package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"promethia/training-api/internal/domain"
	"promethia/training-api/internal/repository"
)

type fakeProfileRepo struct {
	athletic     map[primitive.ObjectID]*domain.AthleticProfile
	professional map[primitive.ObjectID]*domain.ProfessionalProfile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{
		athletic:     map[primitive.ObjectID]*domain.AthleticProfile{},
		professional: map[primitive.ObjectID]*domain.ProfessionalProfile{},
	}
}

func (f *fakeProfileRepo) CreateAthletic(_ context.Context, profile *domain.AthleticProfile) (primitive.ObjectID, error) {
	profile.ID = primitive.NewObjectID()
	f.athletic[profile.UserID] = profile
	return profile.ID, nil
}

func (f *fakeProfileRepo) GetAthleticByUserID(_ context.Context, userID primitive.ObjectID) (*domain.AthleticProfile, error) {
	if p, ok := f.athletic[userID]; ok {
		return p, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeProfileRepo) UpdateAthletic(_ context.Context, profile *domain.AthleticProfile) error {
	if _, ok := f.athletic[profile.UserID]; !ok {
		return repository.ErrNotFound
	}
	f.athletic[profile.UserID] = profile
	return nil
}

func (f *fakeProfileRepo) CreateProfessional(_ context.Context, profile *domain.ProfessionalProfile) (primitive.ObjectID, error) {
	profile.ID = primitive.NewObjectID()
	f.professional[profile.UserID] = profile
	return profile.ID, nil
}

func (f *fakeProfileRepo) GetProfessionalByUserID(_ context.Context, userID primitive.ObjectID) (*domain.ProfessionalProfile, error) {
	if p, ok := f.professional[userID]; ok {
		return p, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeProfileRepo) UpdateProfessional(_ context.Context, profile *domain.ProfessionalProfile) error {
	if _, ok := f.professional[profile.UserID]; !ok {
		return repository.ErrNotFound
	}
	f.professional[profile.UserID] = profile
	return nil
}

func TestRegister(t *testing.T) {
	t.Parallel()

	users := newFakeUserRepo()
	profiles := newFakeProfileRepo()
	svc := NewAuthService(users, profiles, noopMailer{}, "test-secret", time.Hour)

	user, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Alix",
		LastName:  "Moreau",
		Email:     "alix@example.com",
		Password:  "hunter2hunter2",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	// The advisory role defaults to athlete.
	if user.Role != domain.RoleAthlete {
		t.Errorf("role = %q, want %q", user.Role, domain.RoleAthlete)
	}
	if user.PasswordHash != "" {
		t.Error("password hash leaked out of registration")
	}
	if !regexp.MustCompile(`^[A-Z]{3}[0-9]{3}[!@#$%&*+=-]{2}$`).MatchString(user.CoachID) {
		t.Errorf("coach code %q has the wrong shape", user.CoachID)
	}

	// Both profile kinds exist immediately, regardless of role.
	if _, err := profiles.GetAthleticByUserID(context.Background(), user.ID); err != nil {
		t.Errorf("athletic profile missing: %v", err)
	}
	if _, err := profiles.GetProfessionalByUserID(context.Background(), user.ID); err != nil {
		t.Errorf("professional profile missing: %v", err)
	}

	// The stored hash is a real bcrypt hash, never the plaintext.
	stored, err := users.GetByEmail(context.Background(), "alix@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if stored.PasswordHash == "" || stored.PasswordHash == "hunter2hunter2" {
		t.Error("password not hashed before storage")
	}

	// Re-registering the same email fails.
	if _, err := svc.Register(context.Background(), RegisterInput{
		Email:    "alix@example.com",
		Password: "hunter2hunter2",
	}); !errors.Is(err, ErrUserAlreadyExists) {
		t.Errorf("err = %v, want ErrUserAlreadyExists", err)
	}
}

func TestRegisterExplicitCoachRole(t *testing.T) {
	t.Parallel()

	svc := NewAuthService(newFakeUserRepo(), newFakeProfileRepo(), noopMailer{}, "test-secret", time.Hour)

	user, err := svc.Register(context.Background(), RegisterInput{
		Email:    "coach@example.com",
		Password: "hunter2hunter2",
		Role:     domain.RoleCoach,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Role != domain.RoleCoach {
		t.Errorf("role = %q, want %q", user.Role, domain.RoleCoach)
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	users := newFakeUserRepo()
	svc := NewAuthService(users, newFakeProfileRepo(), noopMailer{}, "test-secret", time.Hour)

	if _, err := svc.Register(context.Background(), RegisterInput{
		Email:    "alix@example.com",
		Password: "hunter2hunter2",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "alix@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Error("empty token on successful login")
	}
	if user == nil || user.Email != "alix@example.com" {
		t.Fatalf("user = %+v", user)
	}
	if user.PasswordHash != "" {
		t.Error("password hash leaked out of login")
	}

	if _, _, err := svc.Login(context.Background(), "alix@example.com", "wrong"); !errors.Is(err, ErrAuthenticationFailed) {
		t.Errorf("wrong password: err = %v, want ErrAuthenticationFailed", err)
	}
	if _, _, err := svc.Login(context.Background(), "nobody@example.com", "hunter2hunter2"); !errors.Is(err, ErrAuthenticationFailed) {
		t.Errorf("unknown email: err = %v, want ErrAuthenticationFailed", err)
	}
	if _, _, err := svc.Login(context.Background(), "", ""); err == nil {
		t.Error("empty credentials: expected an error")
	}
}
