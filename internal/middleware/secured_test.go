package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"sos-service/pkg/constants"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", Secured(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(constants.Username))
	})
	return r
}

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("gateway-secret"))
	require.NoError(t, err)
	return s
}

func TestSecured(t *testing.T) {
	r := newRouter()

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{name: "no header", header: "", status: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", status: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not-a-jwt", status: http.StatusUnauthorized},
		{name: "no subject", header: "Bearer " + sign(t, jwt.MapClaims{"role": "user"}), status: http.StatusUnauthorized},
		{name: "subject claim", header: "Bearer " + sign(t, jwt.MapClaims{"sub": "alice"}), status: http.StatusOK, body: "alice"},
		{name: "username claim wins", header: "Bearer " + sign(t, jwt.MapClaims{"sub": "42", "username": "bob"}), status: http.StatusOK, body: "bob"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}
