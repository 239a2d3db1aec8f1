package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/eduverse-labs/eduverse-api/internal/middleware"
	"github.com/eduverse-labs/eduverse-api/internal/models"
	"github.com/eduverse-labs/eduverse-api/internal/policy"
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

func subjectFromContext(c *gin.Context) policy.Subject {
	return policy.SubjectFromClaims(claimsFromContext(c))
}
