package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/danisworo/pos-station/utils"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the backend-issued bearer token and puts the
// principal identity on the request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("authorization header missing"))
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ParseToken(tokenString)
		if err != nil || claims == nil {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid or expired token"))
			c.Abort()
			return
		}

		if claims.PrincipalID == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid principal in token"))
			c.Abort()
			return
		}

		c.Set("principalID", claims.PrincipalID)
		c.Set("email", claims.Email)

		c.Next()
	}
}
