package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"promethia/training-api/internal/service"
	"promethia/training-api/internal/workout"
)

// TrainingHandler exposes training sessions and saved workout templates.
type TrainingHandler struct {
	trainingService service.TrainingService
	savedService    service.SavedTrainingService
}

// NewTrainingHandler creates a new TrainingHandler.
func NewTrainingHandler(trainingService service.TrainingService, savedService service.SavedTrainingService) *TrainingHandler {
	return &TrainingHandler{
		trainingService: trainingService,
		savedService:    savedService,
	}
}

// --- Request Structs ---

type TrainingUpdateRequest struct {
	Title          string          `json:"title"`
	Date           string          `json:"date"`
	Time           string          `json:"time"`
	Duration       string          `json:"duration"`
	Sport          string          `json:"sport"`
	Notes          *string         `json:"notes"`
	TrainingBlocks []workout.Block `json:"trainingBlocks"`
}

type DuplicateRequest struct {
	Date string `json:"date"`
}

type SavedTrainingRequest struct {
	Name           string          `json:"name" binding:"required"`
	Sport          string          `json:"sport"`
	Description    string          `json:"description"`
	IsPublic       bool            `json:"isPublic"`
	TrainingBlocks []workout.Block `json:"trainingBlocks"`
}

// --- Training Sessions ---

// ListTrainings lists sessions on every calendar the actor can see.
func (h *TrainingHandler) ListTrainings(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	trainings, err := h.trainingService.List(c.Request.Context(), actor, eventFilterFromQuery(c))
	if err != nil {
		respondEventError(c, err)
		return
	}
	c.JSON(http.StatusOK, trainings)
}

// GetTraining returns one session by ID.
func (h *TrainingHandler) GetTraining(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid training ID format")
		return
	}

	training, err := h.trainingService.Get(c.Request.Context(), actor, id)
	if err != nil {
		respondEventError(c, err)
		return
	}
	c.JSON(http.StatusOK, training)
}

// UpdateTraining applies partial updates to a session.
func (h *TrainingHandler) UpdateTraining(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid training ID format")
		return
	}

	var req TrainingUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	training, err := h.trainingService.Update(c.Request.Context(), actor, id, service.TrainingUpdateInput{
		Title:          req.Title,
		Date:           req.Date,
		Time:           req.Time,
		Duration:       req.Duration,
		Sport:          req.Sport,
		Notes:          req.Notes,
		TrainingBlocks: req.TrainingBlocks,
	})
	if err != nil {
		respondEventError(c, err)
		return
	}
	c.JSON(http.StatusOK, training)
}

// DeleteTraining removes a session.
func (h *TrainingHandler) DeleteTraining(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid training ID format")
		return
	}

	if err := h.trainingService.Delete(c.Request.Context(), actor, id); err != nil {
		respondEventError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DuplicateTraining clones a session onto a new date.
func (h *TrainingHandler) DuplicateTraining(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid training ID format")
		return
	}

	var req DuplicateRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	training, err := h.trainingService.Duplicate(c.Request.Context(), actor, id, req.Date)
	if err != nil {
		respondEventError(c, err)
		return
	}
	c.JSON(http.StatusCreated, training)
}

// UpcomingTrainings lists sessions from today onward.
func (h *TrainingHandler) UpcomingTrainings(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	trainings, err := h.trainingService.Upcoming(c.Request.Context(), actor)
	if err != nil {
		respondEventError(c, err)
		return
	}
	c.JSON(http.StatusOK, trainings)
}

// ThisWeekTrainings lists sessions in the current week.
func (h *TrainingHandler) ThisWeekTrainings(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	trainings, err := h.trainingService.ThisWeek(c.Request.Context(), actor)
	if err != nil {
		respondEventError(c, err)
		return
	}
	c.JSON(http.StatusOK, trainings)
}

// TrainingStats aggregates sessions over the query window.
func (h *TrainingHandler) TrainingStats(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	stats, err := h.trainingService.Stats(c.Request.Context(), actor, eventFilterFromQuery(c))
	if err != nil {
		respondEventError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// --- Saved Trainings ---

// CreateSavedTraining stores a reusable workout template.
func (h *TrainingHandler) CreateSavedTraining(c *gin.Context) {
	actorID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	var req SavedTrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	saved, err := h.savedService.Create(c.Request.Context(), actorID, service.SavedTrainingInput{
		Name:           req.Name,
		Sport:          req.Sport,
		Description:    req.Description,
		IsPublic:       req.IsPublic,
		TrainingBlocks: req.TrainingBlocks,
	})
	if err != nil {
		respondEventError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// ListSavedTrainings lists the actor's templates plus the public library.
func (h *TrainingHandler) ListSavedTrainings(c *gin.Context) {
	actorID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	templates, err := h.savedService.List(c.Request.Context(), actorID)
	if err != nil {
		respondEventError(c, err)
		return
	}
	c.JSON(http.StatusOK, templates)
}

// UpdateSavedTraining updates a template the actor created.
func (h *TrainingHandler) UpdateSavedTraining(c *gin.Context) {
	actorID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid saved training ID format")
		return
	}

	var req SavedTrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	saved, err := h.savedService.Update(c.Request.Context(), actorID, id, service.SavedTrainingInput{
		Name:           req.Name,
		Sport:          req.Sport,
		Description:    req.Description,
		IsPublic:       req.IsPublic,
		TrainingBlocks: req.TrainingBlocks,
	})
	if err != nil {
		respondEventError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// DeleteSavedTraining removes a template the actor created.
func (h *TrainingHandler) DeleteSavedTraining(c *gin.Context) {
	actorID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid saved training ID format")
		return
	}

	if err := h.savedService.Delete(c.Request.Context(), actorID, id); err != nil {
		respondEventError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
