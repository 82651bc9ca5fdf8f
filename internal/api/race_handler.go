package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"promethia/training-api/internal/service"
)

// RaceHandler exposes race events and their results.
type RaceHandler struct {
	raceService service.RaceService
}

// NewRaceHandler creates a new RaceHandler.
func NewRaceHandler(raceService service.RaceService) *RaceHandler {
	return &RaceHandler{raceService: raceService}
}

type RaceUpdateRequest struct {
	Title         string  `json:"title"`
	Date          string  `json:"date"`
	Sport         string  `json:"sport"`
	Location      string  `json:"location"`
	Distance      string  `json:"distance"`
	Description   *string `json:"description"`
	TimeObjective string  `json:"timeObjective"`
	FinishTime    string  `json:"finishTime"`
}

// ListRaces lists races on every calendar the actor can see.
func (h *RaceHandler) ListRaces(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	races, err := h.raceService.List(c.Request.Context(), actor, eventFilterFromQuery(c))
	if err != nil {
		respondEventError(c, err)
		return
	}
	c.JSON(http.StatusOK, races)
}

// GetRace returns one race by ID.
func (h *RaceHandler) GetRace(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid race ID format")
		return
	}

	race, err := h.raceService.Get(c.Request.Context(), actor, id)
	if err != nil {
		respondEventError(c, err)
		return
	}
	c.JSON(http.StatusOK, race)
}

// UpdateRace applies partial updates, including result recording.
func (h *RaceHandler) UpdateRace(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid race ID format")
		return
	}

	var req RaceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	race, err := h.raceService.Update(c.Request.Context(), actor, id, service.RaceUpdateInput{
		Title:         req.Title,
		Date:          req.Date,
		Sport:         req.Sport,
		Location:      req.Location,
		Distance:      req.Distance,
		Description:   req.Description,
		TimeObjective: req.TimeObjective,
		FinishTime:    req.FinishTime,
	})
	if err != nil {
		respondEventError(c, err)
		return
	}
	c.JSON(http.StatusOK, race)
}

// DeleteRace removes a race.
func (h *RaceHandler) DeleteRace(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid race ID format")
		return
	}

	if err := h.raceService.Delete(c.Request.Context(), actor, id); err != nil {
		respondEventError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpcomingRaces lists races from today onward.
func (h *RaceHandler) UpcomingRaces(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	races, err := h.raceService.Upcoming(c.Request.Context(), actor)
	if err != nil {
		respondEventError(c, err)
		return
	}
	c.JSON(http.StatusOK, races)
}

// RaceResults lists completed races with pacing, newest first.
func (h *RaceHandler) RaceResults(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	results, err := h.raceService.Results(c.Request.Context(), actor)
	if err != nil {
		respondEventError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}
