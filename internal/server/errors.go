package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vkarpov/plantmind/internal/scheduling"
)

// writeError maps engine errors to HTTP status codes: validation failures are
// 400, capacity and placement conflicts 409, missing records 404, everything
// else 500.
func writeError(c *gin.Context, err error) {
	var verr *scheduling.ValidationError
	var cerr *scheduling.CapacityError
	var perr *scheduling.PlacementError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
	case errors.As(err, &cerr):
		c.JSON(http.StatusConflict, gin.H{
			"error":           cerr.Error(),
			"required_hours":  cerr.RequiredHours,
			"available_hours": cerr.AvailableHours,
		})
	case errors.As(err, &perr):
		c.JSON(http.StatusConflict, gin.H{"error": perr.Error()})
	case errors.Is(err, scheduling.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// badRequest reports a malformed request body or parameter.
func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
