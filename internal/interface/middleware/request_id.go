package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/contactshub/contacts-api/pkg/response"
)

// RequestIDMiddleware injects a unique request id into the Gin context for every request
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.New().String()
		c.Set(response.CtxRequestIDKey, id)
		c.Next()
	}
}
