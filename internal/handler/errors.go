package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/torarnehave1/VegvisrCrossCulturalSearch/internal/gateway"
	"github.com/torarnehave1/VegvisrCrossCulturalSearch/internal/llm"
)

// statusFor maps gateway failures onto HTTP statuses: a missing
// credential is a service-configuration problem, a malformed model
// payload is an upstream fault, everything else is internal.
func statusFor(err error) int {
	switch {
	case errors.Is(err, llm.ErrMissingAPIKey):
		return http.StatusServiceUnavailable
	case errors.Is(err, gateway.ErrNoScript):
		return http.StatusNotFound
	case errors.Is(err, gateway.ErrMalformedResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
