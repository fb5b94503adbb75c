package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/grupo16/tutoring-center-api/internal/middleware"
	"github.com/grupo16/tutoring-center-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

func principalFromContext(c *gin.Context) models.Principal {
	return claimsFromContext(c).Principal()
}

// parseDate accepts plain calendar dates and full timestamps.
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func parseDateQuery(c *gin.Context, key string) *time.Time {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	t, err := parseDate(raw)
	if err != nil {
		return nil
	}
	return &t
}
