package middleware

import (
	"net/http"
	"strings"

	"divyajyotisha/utils"

	"github.com/gin-gonic/gin"
)

// AuthRequired guards dashboard mutation routes with a bearer token issued by
// the auth handlers. The admin id is stored on the context as "adminID".
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			utils.JSONError(c, http.StatusUnauthorized, "Authorization required", "missing Authorization header")
			c.Abort()
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		if token == header || token == "" {
			utils.JSONError(c, http.StatusUnauthorized, "Authorization required", "expected Bearer token")
			c.Abort()
			return
		}

		adminID, err := utils.ExtractIDFromToken(token)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "Invalid token", err.Error())
			c.Abort()
			return
		}

		c.Set("adminID", adminID)
		c.Next()
	}
}
