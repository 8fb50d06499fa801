package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"platereader/pkg/auth"
)

// jwtAuthMiddleware requires a bearer token signed with jwtSecret. It lets
// every request through when no secret is configured.
func jwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(jwtSecret) == 0 {
			c.Next()
			return
		}
		authHeader := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			c.Abort()
			return
		}
		sub, err := auth.Verify(jwtSecret, tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		c.Set("subject", sub)
		c.Next()
	}
}
