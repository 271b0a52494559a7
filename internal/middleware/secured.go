package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"sos-service/helper"
	"sos-service/pkg/constants"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Secured reads the caller identity from the bearer token. Signatures are checked
// at the gateway, so the claims are only parsed here.
func Secured() gin.HandlerFunc {
	parser := jwt.NewParser()

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			helper.SendError(c, http.StatusUnauthorized, fmt.Errorf("missing bearer token"), helper.ErrUnauthorized)
			c.Abort()
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

		claims := jwt.MapClaims{}
		if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
			helper.SendError(c, http.StatusUnauthorized, fmt.Errorf("malformed token: %w", err), helper.ErrUnauthorized)
			c.Abort()
			return
		}

		username, _ := claims["username"].(string)
		if username == "" {
			username, _ = claims.GetSubject()
		}
		if username == "" {
			helper.SendError(c, http.StatusUnauthorized, fmt.Errorf("token has no subject"), helper.ErrUnauthorized)
			c.Abort()
			return
		}

		c.Set(constants.Token, tokenString)
		c.Set(constants.Username, username)
		c.Next()
	}
}
