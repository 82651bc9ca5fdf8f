package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"promethia/training-api/internal/service"
	"promethia/training-api/internal/workout"
)

// EventHandler exposes the unified event dispatcher and custom events.
type EventHandler struct {
	eventService service.EventService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// CreateEvent routes a creation request to trainings, races, or custom
// events based on its type field.
func (h *EventHandler) CreateEvent(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	var req service.EventCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	kind, event, err := h.eventService.CreateEvent(c.Request.Context(), actor, req)
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"type": kind, "event": event})
}

// ListCustomEvents lists custom events on every calendar the actor can see.
func (h *EventHandler) ListCustomEvents(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	events, err := h.eventService.ListCustomEvents(c.Request.Context(), actor, eventFilterFromQuery(c))
	if err != nil {
		respondEventError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// UpdateCustomEvent updates a custom event by ID.
func (h *EventHandler) UpdateCustomEvent(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid event ID format")
		return
	}

	var req service.EventCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	event, err := h.eventService.UpdateCustomEvent(c.Request.Context(), actor, id, req)
	if err != nil {
		respondEventError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// DeleteCustomEvent deletes a custom event by ID.
func (h *EventHandler) DeleteCustomEvent(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid event ID format")
		return
	}

	if err := h.eventService.DeleteCustomEvent(c.Request.Context(), actor, id); err != nil {
		respondEventError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// respondEventError maps calendar service errors to HTTP statuses.
func respondEventError(c *gin.Context, err error) {
	var schemaErr *workout.SchemaError
	switch {
	case errors.As(err, &schemaErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":      "training data validation failed",
			"violations": schemaErr.Violations,
		})
	case errors.Is(err, service.ErrPermissionDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrAthleteNotFound),
		errors.Is(err, service.ErrEventNotFound),
		errors.Is(err, service.ErrTrainingNotFound),
		errors.Is(err, service.ErrRaceNotFound),
		errors.Is(err, service.ErrTemplateNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrUnsupportedEventType),
		errors.Is(err, service.ErrMissingDate),
		errors.Is(err, service.ErrMissingSport),
		errors.Is(err, service.ErrInvalidDate):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrTemplateAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
