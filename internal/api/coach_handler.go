package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"promethia/training-api/internal/service"
)

// CoachHandler exposes coach-access grant management.
type CoachHandler struct {
	coachService service.CoachService
}

// NewCoachHandler creates a new CoachHandler.
func NewCoachHandler(coachService service.CoachService) *CoachHandler {
	return &CoachHandler{coachService: coachService}
}

type GrantAccessRequest struct {
	CoachCode string `json:"coachCode" binding:"required"`
	Notes     string `json:"notes"`
}

// GrantAccess connects the actor's calendar to the holder of a coach code.
func (h *CoachHandler) GrantAccess(c *gin.Context) {
	actorID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	var req GrantAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	assignment, err := h.coachService.GrantAccess(c.Request.Context(), actorID, req.CoachCode, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCoachCodeNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrSelfCoachAccess):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrAlreadyConnected):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
		}
		return
	}

	c.JSON(http.StatusCreated, assignment)
}

// MyAthletes lists the users who granted the actor coach access.
func (h *CoachHandler) MyAthletes(c *gin.Context) {
	actorID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	connections, err := h.coachService.MyAthletes(c.Request.Context(), actorID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}
	c.JSON(http.StatusOK, connections)
}

// MyCoaches lists the coaches the actor has granted access to.
func (h *CoachHandler) MyCoaches(c *gin.Context) {
	actorID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	connections, err := h.coachService.MyCoaches(c.Request.Context(), actorID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}
	c.JSON(http.StatusOK, connections)
}

// RevokeAccess deactivates a grant; either participant may call it.
func (h *CoachHandler) RevokeAccess(c *gin.Context) {
	actorID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	assignmentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid assignment ID format")
		return
	}

	if err := h.coachService.RevokeAccess(c.Request.Context(), actorID, assignmentID); err != nil {
		switch {
		case errors.Is(err, service.ErrAssignmentNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrNotGrantParticipant):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
		}
		return
	}
	c.Status(http.StatusNoContent)
}
