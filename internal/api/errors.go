package api

import (
	"errors"   // Typed error matching
	"net/http" // HTTP status codes

	"taxease/internal/xerrors" // Typed service errors

	"github.com/gin-gonic/gin" // Gin web framework
)

// respondServiceError maps the core's typed errors to transport-level
// responses; the core itself never speaks HTTP
func respondServiceError(c *gin.Context, err error) {
	var validationErr *xerrors.ValidationError
	var limitErr *xerrors.LimitExceededError
	var notFoundErr *xerrors.NotFoundError
	var conflictErr *xerrors.ConflictError
	switch {
	case errors.As(err, &validationErr):
		// Malformed input, never retried
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Reason})
	case errors.As(err, &limitErr):
		// Limit breach carries the cap and the attempted total
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     limitErr.Error(),
			"limit":     limitErr.Limit,
			"attempted": limitErr.Attempted,
		})
	case errors.As(err, &notFoundErr):
		// Referenced ledger, slot or record does not exist
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
	case errors.As(err, &conflictErr):
		// Only reached after the service's internal retries ran out
		c.JSON(http.StatusConflict, gin.H{"error": "Wallet is busy, please retry"})
	default:
		// Anything else is an internal failure
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
