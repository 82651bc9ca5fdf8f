package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"promethia/training-api/internal/domain"
	"promethia/training-api/internal/service"
)

// ProfileHandler exposes the dual profiles, their achievements and
// certifications, performance metrics, and profile images.
type ProfileHandler struct {
	profileService service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// --- Request Structs ---

type ProfileUpdateRequest struct {
	ExperienceYears *int     `json:"experienceYears"`
	AboutNotes      *string  `json:"aboutNotes"`
	SportsInvolved  []string `json:"sportsInvolved"`
}

type MetricsRequest struct {
	MAS *float64 `json:"mas"`
	FPP *float64 `json:"fpp"`
	CSS *string  `json:"css"` // mm:ss
}

type AchievementRequest struct {
	Category    string `json:"category" binding:"required"`
	Year        int    `json:"year" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type CertificationRequest struct {
	Sport               string `json:"sport" binding:"required"`
	Year                int    `json:"year" binding:"required"`
	Title               string `json:"title" binding:"required"`
	IssuingOrganization string `json:"issuingOrganization"`
}

type ImageUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

func respondProfileError(c *gin.Context, err error) {
	var yearErr *domain.YearError
	switch {
	case errors.As(err, &yearErr):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrProfileNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrUnsupportedImageFormat),
		errors.Is(err, domain.ErrInvalidMAS),
		errors.Is(err, domain.ErrInvalidFPP),
		errors.Is(err, domain.ErrInvalidCSS):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// --- Profiles ---

// GetAthleticProfile returns the actor's athletic profile.
func (h *ProfileHandler) GetAthleticProfile(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	profile, err := h.profileService.GetAthleticProfile(c.Request.Context(), userID)
	if err != nil {
		respondProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateAthleticProfile applies partial updates to the athletic profile.
func (h *ProfileHandler) UpdateAthleticProfile(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	var req ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	profile, err := h.profileService.UpdateAthleticProfile(c.Request.Context(), userID, service.ProfileUpdateInput{
		ExperienceYears: req.ExperienceYears,
		AboutNotes:      req.AboutNotes,
		SportsInvolved:  req.SportsInvolved,
	})
	if err != nil {
		respondProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetProfessionalProfile returns the actor's professional profile.
func (h *ProfileHandler) GetProfessionalProfile(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	profile, err := h.profileService.GetProfessionalProfile(c.Request.Context(), userID)
	if err != nil {
		respondProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfessionalProfile applies partial updates to the professional profile.
func (h *ProfileHandler) UpdateProfessionalProfile(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	var req ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	profile, err := h.profileService.UpdateProfessionalProfile(c.Request.Context(), userID, service.ProfileUpdateInput{
		ExperienceYears: req.ExperienceYears,
		AboutNotes:      req.AboutNotes,
	})
	if err != nil {
		respondProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateMetrics validates and stores the performance metrics.
func (h *ProfileHandler) UpdateMetrics(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	var req MetricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.profileService.UpdateMetrics(c.Request.Context(), userID, service.MetricsInput{
		MAS: req.MAS,
		FPP: req.FPP,
		CSS: req.CSS,
	})
	if err != nil {
		respondProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// --- Achievements and Certifications ---

// AddAchievement records an athlete accomplishment.
func (h *ProfileHandler) AddAchievement(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	var req AchievementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	achievement, err := h.profileService.AddAchievement(c.Request.Context(), userID, service.AchievementInput{
		Category:    req.Category,
		Year:        req.Year,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		respondProfileError(c, err)
		return
	}
	c.JSON(http.StatusCreated, achievement)
}

// ListAchievements lists the actor's athlete accomplishments.
func (h *ProfileHandler) ListAchievements(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	achievements, err := h.profileService.ListAchievements(c.Request.Context(), userID)
	if err != nil {
		respondProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, achievements)
}

// AddCoachAchievement records a coaching accomplishment.
func (h *ProfileHandler) AddCoachAchievement(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	var req AchievementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	achievement, err := h.profileService.AddCoachAchievement(c.Request.Context(), userID, service.AchievementInput{
		Category:    req.Category,
		Year:        req.Year,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		respondProfileError(c, err)
		return
	}
	c.JSON(http.StatusCreated, achievement)
}

// ListCoachAchievements lists the actor's coaching accomplishments.
func (h *ProfileHandler) ListCoachAchievements(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	achievements, err := h.profileService.ListCoachAchievements(c.Request.Context(), userID)
	if err != nil {
		respondProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, achievements)
}

// AddCertification records a coaching credential.
func (h *ProfileHandler) AddCertification(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	var req CertificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	certification, err := h.profileService.AddCertification(c.Request.Context(), userID, service.CertificationInput{
		Sport:               req.Sport,
		Year:                req.Year,
		Title:               req.Title,
		IssuingOrganization: req.IssuingOrganization,
	})
	if err != nil {
		respondProfileError(c, err)
		return
	}
	c.JSON(http.StatusCreated, certification)
}

// ListCertifications lists the actor's coaching credentials.
func (h *ProfileHandler) ListCertifications(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	certifications, err := h.profileService.ListCertifications(c.Request.Context(), userID)
	if err != nil {
		respondProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, certifications)
}

// --- Profile Images ---

// RequestImageUpload issues a presigned PUT URL for a new profile image.
func (h *ProfileHandler) RequestImageUpload(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	var req ImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ticket, err := h.profileService.RequestProfileImageUpload(c.Request.Context(), userID, req.ContentType)
	if err != nil {
		respondProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

// GetImageURL issues a presigned GET URL for the current profile image.
func (h *ProfileHandler) GetImageURL(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	url, err := h.profileService.ProfileImageURL(c.Request.Context(), userID)
	if err != nil {
		respondProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
