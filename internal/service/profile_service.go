package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"promethia/training-api/internal/domain"
	"promethia/training-api/internal/repository"
	"promethia/training-api/internal/storage"
)

// --- Error Definitions ---
var (
	ErrProfileNotFound        = errors.New("profile not found")
	ErrAchievementNotFound    = errors.New("achievement not found")
	ErrProfileAccessDenied    = errors.New("you can only modify your own profile")
	ErrUnsupportedImageFormat = errors.New("profile image must be jpeg, png, or webp")
)

var allowedImageContentTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// ProfileUpdateInput carries the editable profile fields. Nil pointers leave
// the stored value untouched.
type ProfileUpdateInput struct {
	ExperienceYears *int
	AboutNotes      *string
	SportsInvolved  []string
}

// MetricsInput carries the performance metric fields. CSS arrives as the
// mm:ss display format.
type MetricsInput struct {
	MAS *float64
	FPP *float64
	CSS *string
}

// AchievementInput is shared by athlete and coach achievements.
type AchievementInput struct {
	Category    string
	Year        int
	Title       string
	Description string
}

// CertificationInput carries the coaching credential fields.
type CertificationInput struct {
	Sport               string
	Year                int
	Title               string
	IssuingOrganization string
}

// ImageUploadTicket is a presigned PUT URL plus the object key the client
// must upload to.
type ImageUploadTicket struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// ProfileService manages the dual profiles, their achievements and
// certifications, performance metrics, and profile images.
type ProfileService interface {
	GetAthleticProfile(ctx context.Context, userID primitive.ObjectID) (*domain.AthleticProfile, error)
	UpdateAthleticProfile(ctx context.Context, userID primitive.ObjectID, input ProfileUpdateInput) (*domain.AthleticProfile, error)
	GetProfessionalProfile(ctx context.Context, userID primitive.ObjectID) (*domain.ProfessionalProfile, error)
	UpdateProfessionalProfile(ctx context.Context, userID primitive.ObjectID, input ProfileUpdateInput) (*domain.ProfessionalProfile, error)

	UpdateMetrics(ctx context.Context, userID primitive.ObjectID, input MetricsInput) (*domain.User, error)

	AddAchievement(ctx context.Context, userID primitive.ObjectID, input AchievementInput) (*domain.Achievement, error)
	ListAchievements(ctx context.Context, userID primitive.ObjectID) ([]domain.Achievement, error)
	AddCoachAchievement(ctx context.Context, userID primitive.ObjectID, input AchievementInput) (*domain.CoachAchievement, error)
	ListCoachAchievements(ctx context.Context, userID primitive.ObjectID) ([]domain.CoachAchievement, error)
	AddCertification(ctx context.Context, userID primitive.ObjectID, input CertificationInput) (*domain.Certification, error)
	ListCertifications(ctx context.Context, userID primitive.ObjectID) ([]domain.Certification, error)

	// RequestProfileImageUpload issues a presigned PUT URL and records the
	// object key on the user.
	RequestProfileImageUpload(ctx context.Context, userID primitive.ObjectID, contentType string) (*ImageUploadTicket, error)
	// ProfileImageURL issues a presigned GET URL for the user's current image,
	// or "" when none is set.
	ProfileImageURL(ctx context.Context, userID primitive.ObjectID) (string, error)
}

type profileService struct {
	userRepo             repository.UserRepository
	profileRepo          repository.ProfileRepository
	achievementRepo      repository.AchievementRepository
	coachAchievementRepo repository.CoachAchievementRepository
	certificationRepo    repository.CertificationRepository
	fileStorage          storage.FileStorage
	now                  func() time.Time
}

// NewProfileService creates a new instance of profileService.
func NewProfileService(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	achievementRepo repository.AchievementRepository,
	coachAchievementRepo repository.CoachAchievementRepository,
	certificationRepo repository.CertificationRepository,
	fileStorage storage.FileStorage,
) ProfileService {
	return &profileService{
		userRepo:             userRepo,
		profileRepo:          profileRepo,
		achievementRepo:      achievementRepo,
		coachAchievementRepo: coachAchievementRepo,
		certificationRepo:    certificationRepo,
		fileStorage:          fileStorage,
		now:                  func() time.Time { return time.Now().UTC() },
	}
}

func (s *profileService) GetAthleticProfile(ctx context.Context, userID primitive.ObjectID) (*domain.AthleticProfile, error) {
	profile, err := s.profileRepo.GetAthleticByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (s *profileService) UpdateAthleticProfile(ctx context.Context, userID primitive.ObjectID, input ProfileUpdateInput) (*domain.AthleticProfile, error) {
	profile, err := s.GetAthleticProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.ExperienceYears != nil {
		profile.ExperienceYears = input.ExperienceYears
	}
	if input.AboutNotes != nil {
		profile.AboutNotes = *input.AboutNotes
	}
	if input.SportsInvolved != nil {
		profile.SportsInvolved = input.SportsInvolved
	}

	if err := s.profileRepo.UpdateAthletic(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *profileService) GetProfessionalProfile(ctx context.Context, userID primitive.ObjectID) (*domain.ProfessionalProfile, error) {
	profile, err := s.profileRepo.GetProfessionalByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (s *profileService) UpdateProfessionalProfile(ctx context.Context, userID primitive.ObjectID, input ProfileUpdateInput) (*domain.ProfessionalProfile, error) {
	profile, err := s.GetProfessionalProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.ExperienceYears != nil {
		profile.ExperienceYears = input.ExperienceYears
	}
	if input.AboutNotes != nil {
		profile.AboutNotes = *input.AboutNotes
	}

	if err := s.profileRepo.UpdateProfessional(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateMetrics validates and stores the performance metrics.
func (s *profileService) UpdateMetrics(ctx context.Context, userID primitive.ObjectID, input MetricsInput) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	if input.MAS != nil {
		user.MAS = input.MAS
	}
	if input.FPP != nil {
		user.FPP = input.FPP
	}
	if input.CSS != nil {
		seconds, err := domain.CSSParse(*input.CSS)
		if err != nil {
			return nil, err
		}
		user.CSS = &seconds
	}

	if err := user.ValidateMetrics(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *profileService) AddAchievement(ctx context.Context, userID primitive.ObjectID, input AchievementInput) (*domain.Achievement, error) {
	if err := domain.ValidateYear(input.Year, s.now()); err != nil {
		return nil, err
	}
	profile, err := s.GetAthleticProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	achievement := &domain.Achievement{
		ProfileID:   profile.ID,
		Category:    input.Category,
		Year:        input.Year,
		Title:       input.Title,
		Description: input.Description,
	}
	id, err := s.achievementRepo.Create(ctx, achievement)
	if err != nil {
		return nil, err
	}
	achievement.ID = id
	return achievement, nil
}

func (s *profileService) ListAchievements(ctx context.Context, userID primitive.ObjectID) ([]domain.Achievement, error) {
	profile, err := s.GetAthleticProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.achievementRepo.GetByProfileID(ctx, profile.ID)
}

func (s *profileService) AddCoachAchievement(ctx context.Context, userID primitive.ObjectID, input AchievementInput) (*domain.CoachAchievement, error) {
	if err := domain.ValidateYear(input.Year, s.now()); err != nil {
		return nil, err
	}
	profile, err := s.GetProfessionalProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	achievement := &domain.CoachAchievement{
		ProfileID:   profile.ID,
		Category:    input.Category,
		Year:        input.Year,
		Title:       input.Title,
		Description: input.Description,
	}
	id, err := s.coachAchievementRepo.Create(ctx, achievement)
	if err != nil {
		return nil, err
	}
	achievement.ID = id
	return achievement, nil
}

func (s *profileService) ListCoachAchievements(ctx context.Context, userID primitive.ObjectID) ([]domain.CoachAchievement, error) {
	profile, err := s.GetProfessionalProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.coachAchievementRepo.GetByProfileID(ctx, profile.ID)
}

func (s *profileService) AddCertification(ctx context.Context, userID primitive.ObjectID, input CertificationInput) (*domain.Certification, error) {
	if err := domain.ValidateYear(input.Year, s.now()); err != nil {
		return nil, err
	}
	profile, err := s.GetProfessionalProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	certification := &domain.Certification{
		ProfileID:           profile.ID,
		Sport:               input.Sport,
		Year:                input.Year,
		Title:               input.Title,
		IssuingOrganization: input.IssuingOrganization,
	}
	id, err := s.certificationRepo.Create(ctx, certification)
	if err != nil {
		return nil, err
	}
	certification.ID = id
	return certification, nil
}

func (s *profileService) ListCertifications(ctx context.Context, userID primitive.ObjectID) ([]domain.Certification, error) {
	profile, err := s.GetProfessionalProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.certificationRepo.GetByProfileID(ctx, profile.ID)
}

func (s *profileService) RequestProfileImageUpload(ctx context.Context, userID primitive.ObjectID, contentType string) (*ImageUploadTicket, error) {
	ext, ok := allowedImageContentTypes[strings.ToLower(contentType)]
	if !ok {
		return nil, ErrUnsupportedImageFormat
	}

	objectKey := fmt.Sprintf("profile-images/%s/%s.%s", userID.Hex(), uuid.NewString(), ext)

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, err
	}

	// Replace any previous image; the old object is deleted best-effort.
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.ProfileImageKey != "" {
		_ = s.fileStorage.DeleteObject(ctx, user.ProfileImageKey)
	}

	if err := s.userRepo.SetProfileImageKey(ctx, userID, objectKey); err != nil {
		return nil, err
	}

	return &ImageUploadTicket{UploadURL: uploadURL, ObjectKey: objectKey}, nil
}

func (s *profileService) ProfileImageURL(ctx context.Context, userID primitive.ObjectID) (string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrProfileNotFound
		}
		return "", err
	}
	if user.ProfileImageKey == "" {
		return "", nil
	}
	return s.fileStorage.GeneratePresignedDownloadURL(ctx, user.ProfileImageKey, storage.DefaultPresignedURLExpiry)
}
