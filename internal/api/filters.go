package api

import (
	"github.com/gin-gonic/gin"

	"promethia/training-api/internal/repository"
	"promethia/training-api/internal/workout"
)

// eventFilterFromQuery reads the shared calendar query parameters:
// ?sport=running&sport=cycling&from=2026-01-01&to=2026-02-01
func eventFilterFromQuery(c *gin.Context) repository.EventFilter {
	filter := repository.EventFilter{}
	if sports := c.QueryArray("sport"); len(sports) > 0 {
		filter.Sports = sports
	}
	if from := c.Query("from"); from != "" {
		if t, ok := workout.ParseDate(from); ok {
			filter.After = &t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, ok := workout.ParseDate(to); ok {
			filter.Before = &t
		}
	}
	return filter
}
