package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/govolunteer/govolunteer-api/internal/logger"
	"github.com/govolunteer/govolunteer-api/internal/records"
	"github.com/govolunteer/govolunteer-api/internal/retrieve"
	"github.com/govolunteer/govolunteer-api/internal/scraper"
)

// statusFor maps an error kind to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, scraper.ErrContentNotFound):
		return http.StatusNotFound
	case errors.Is(err, retrieve.ErrRetrievalFailed),
		errors.Is(err, records.ErrDataSourceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError logs err and replies with detail under the mapped status.
func abortWithError(c *gin.Context, detail string, err error) {
	status := statusFor(err)
	logger.Error(detail, logger.Fields{
		"path":       c.Request.URL.Path,
		"status":     status,
		"request_id": c.GetString(requestIDKey),
	}, err)
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

func abortWithDetail(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}
