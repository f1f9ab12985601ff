package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"clinic-app-server/internal/config"
	"clinic-app-server/internal/models"
	"clinic-app-server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRouter(cfg *config.Config, logOut *bytes.Buffer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(zerolog.New(logOut)))
	private := r.Group("/", AuthMiddleware(cfg))
	private.GET("/me", func(c *gin.Context) {
		id, _ := GetUserIDFromContext(c)
		role, _ := GetUserRoleFromContext(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "role": role})
	})
	private.GET("/admin", RoleAuthMiddleware(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func bearer(t *testing.T, cfg *config.Config, role models.Role) string {
	t.Helper()
	pair, err := utils.GenerateTokens(&models.User{BaseModel: models.BaseModel{ID: "u-1"}, Role: role}, cfg)
	require.NoError(t, err)
	return "Bearer " + pair.AccessToken
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecret: "s", JWTRefreshSecret: "r", JWTExpirationMinutes: 5, JWTRefreshExpirationHours: 1}
	var logs bytes.Buffer
	r := testRouter(cfg, &logs)

	pair, err := utils.GenerateTokens(&models.User{BaseModel: models.BaseModel{ID: "u-1"}, Role: models.RolePatient}, cfg)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"refresh token is not an access token", "Bearer " + pair.RefreshToken, http.StatusUnauthorized},
		{"valid", bearer(t, cfg, models.RolePatient), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}

	assert.Contains(t, logs.String(), `"path":"/me"`)
	assert.Contains(t, logs.String(), `"user_id":"u-1"`)
}

func TestRoleAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecret: "s", JWTRefreshSecret: "r", JWTExpirationMinutes: 5, JWTRefreshExpirationHours: 1}
	r := testRouter(cfg, &bytes.Buffer{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", bearer(t, cfg, models.RoleDoctor))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", bearer(t, cfg, models.RoleAdmin))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
