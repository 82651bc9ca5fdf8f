package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"promethia/training-api/internal/domain"
	"promethia/training-api/internal/mailer"
	"promethia/training-api/internal/repository"
)

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
)

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	FirstName     string
	LastName      string
	Email         string
	Password      string
	Role          domain.Role
	CountryNumber string
	PhoneNumber   string
	DateOfBirth   *time.Time
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	GetJWTSecret() string
}

// authService implements the AuthService interface.
type authService struct {
	userRepo      repository.UserRepository
	profileRepo   repository.ProfileRepository
	mail          mailer.Mailer
	jwtSecret     string
	jwtExpiration time.Duration
}

// NewAuthService creates a new instance of authService.
func NewAuthService(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	mail mailer.Mailer,
	jwtSecret string,
	jwtExpiration time.Duration,
) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty")
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour * 24
	}
	return &authService{
		userRepo:      userRepo,
		profileRepo:   profileRepo,
		mail:          mail,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// Register handles new user registration. Every account gets a unique coach
// code and both profile kinds up front; the role only picks the default view.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if input.Email == "" || input.Password == "" {
		return nil, errors.New("email and password cannot be empty")
	}
	if input.Role == "" {
		input.Role = domain.RoleAthlete
	}

	_, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	coachID, err := AllocateCoachID(ctx, s.userRepo)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:         input.Email,
		PasswordHash:  string(hashedPassword),
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		Role:          input.Role,
		CountryNumber: input.CountryNumber,
		PhoneNumber:   input.PhoneNumber,
		DateOfBirth:   input.DateOfBirth,
		CoachID:       coachID,
	}

	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		// The unique index closes the race between the GetByEmail check and
		// this insert.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}
	user.ID = userID

	// Both profile kinds exist for every account from day one.
	if _, err := s.profileRepo.CreateAthletic(ctx, &domain.AthleticProfile{UserID: userID}); err != nil {
		return nil, err
	}
	if _, err := s.profileRepo.CreateProfessional(ctx, &domain.ProfessionalProfile{UserID: userID}); err != nil {
		return nil, err
	}

	// Fire and forget: a failed email never fails the registration.
	go func(email, firstName string) {
		if err := s.mail.SendWelcome(email, firstName); err != nil {
			log.Printf("WARN: welcome email to %s failed: %v", email, err)
		}
	}(user.Email, user.FirstName)

	user.PasswordHash = ""
	return user, nil
}

// Login handles user authentication and JWT generation.
func (s *authService) Login(ctx context.Context, email, password string) (token string, user *domain.User, err error) {
	if email == "" || password == "" {
		err = errors.New("email and password cannot be empty")
		return
	}

	user, err = s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			err = ErrAuthenticationFailed
			return
		}
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		err = ErrAuthenticationFailed
		user = nil
		return
	}

	token, err = s.generateJWT(user)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	user.PasswordHash = ""
	return token, user, nil
}

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// generateJWT creates a new JWT token for the given user.
func (s *authService) generateJWT(user *domain.User) (string, error) {
	expirationTime := time.Now().Add(s.jwtExpiration)
	claims := &jwtClaims{
		UserID: user.ID.Hex(),
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "promethia",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

// GetJWTSecret returns the JWT secret for middleware authentication
func (s *authService) GetJWTSecret() string {
	return s.jwtSecret
}
