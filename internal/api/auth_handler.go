package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"promethia/training-api/internal/domain"
	"promethia/training-api/internal/service"
	"promethia/training-api/internal/workout"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request/Response Structs ---

type RegisterRequest struct {
	FirstName     string      `json:"firstName" binding:"required"`
	LastName      string      `json:"lastName" binding:"required"`
	Email         string      `json:"email" binding:"required,email"`
	Password      string      `json:"password" binding:"required,min=8"`
	Role          domain.Role `json:"role" binding:"omitempty,oneof=athlete coach"`
	CountryNumber string      `json:"countryNumber"`
	PhoneNumber   string      `json:"phoneNumber"`
	DateOfBirth   string      `json:"dateOfBirth"` // YYYY-MM-DD
}

// UserResponse excludes sensitive info like password hash
type UserResponse struct {
	ID            string      `json:"id"`
	Email         string      `json:"email"`
	FirstName     string      `json:"firstName"`
	LastName      string      `json:"lastName"`
	Role          domain.Role `json:"role"`
	CoachID       string      `json:"coachId"`
	CountryNumber string      `json:"countryNumber,omitempty"`
	PhoneNumber   string      `json:"phoneNumber,omitempty"`
	DateOfBirth   *time.Time  `json:"dateOfBirth,omitempty"`
	MAS           *float64    `json:"mas,omitempty"`
	FPP           *float64    `json:"fpp,omitempty"`
	CSS           string      `json:"css,omitempty"` // mm:ss display form
	CreatedAt     time.Time   `json:"createdAt"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// --- Handler Methods ---

// Register creates a new account with its coach code and both profiles.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	input := service.RegisterInput{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Password:      req.Password,
		Role:          req.Role,
		CountryNumber: req.CountryNumber,
		PhoneNumber:   req.PhoneNumber,
	}
	if req.DateOfBirth != "" {
		dob, ok := workout.ParseDate(req.DateOfBirth)
		if !ok {
			abortWithError(c, http.StatusBadRequest, "dateOfBirth must be YYYY-MM-DD")
			return
		}
		input.DateOfBirth = &dob
	}

	user, err := h.authService.Register(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			abortWithError(c, http.StatusConflict, err.Error())
		} else if errors.Is(err, service.ErrHashingFailed) {
			abortWithError(c, http.StatusInternalServerError, "Could not process registration")
		} else {
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during registration")
		}
		return
	}

	c.JSON(http.StatusCreated, MapUserToResponse(user))
}

// Login authenticates a user and returns a JWT token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationFailed) {
			abortWithError(c, http.StatusUnauthorized, err.Error())
		} else if errors.Is(err, service.ErrTokenGeneration) {
			abortWithError(c, http.StatusInternalServerError, "Could not process login")
		} else {
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during login")
		}
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		User:  MapUserToResponse(user),
	})
}

// MapUserToResponse converts a domain User to a UserResponse DTO.
// Crucially excludes PasswordHash and converts ObjectIDs to strings.
func MapUserToResponse(user *domain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}

	return UserResponse{
		ID:            user.ID.Hex(),
		Email:         user.Email,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		Role:          user.Role,
		CoachID:       user.CoachID,
		CountryNumber: user.CountryNumber,
		PhoneNumber:   user.PhoneNumber,
		DateOfBirth:   user.DateOfBirth,
		MAS:           user.MAS,
		FPP:           user.FPP,
		CSS:           domain.CSSDisplay(user.CSS),
		CreatedAt:     user.CreatedAt,
	}
}
