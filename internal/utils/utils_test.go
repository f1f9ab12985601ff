package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"clinic-app-server/internal/config"
	"clinic-app-server/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:                 "access-secret",
		JWTRefreshSecret:          "refresh-secret",
		JWTExpirationMinutes:      20,
		JWTRefreshExpirationHours: 168,
	}
}

func TestGenerateAndValidateTokens(t *testing.T) {
	cfg := testConfig()
	user := &models.User{BaseModel: models.BaseModel{ID: "user-1"}, Role: models.RoleDoctor}

	pair, err := GenerateTokens(user, cfg)
	require.NoError(t, err)

	claims, err := ValidateToken(pair.AccessToken, cfg.JWTSecret, AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleDoctor, claims.Role)

	_, err = ValidateToken(pair.RefreshToken, cfg.JWTRefreshSecret, RefreshToken)
	require.NoError(t, err)

	// wrong secret, wrong kind
	_, err = ValidateToken(pair.AccessToken, cfg.JWTRefreshSecret, AccessToken)
	assert.Error(t, err)
	_, err = ValidateToken(pair.RefreshToken, cfg.JWTRefreshSecret, AccessToken)
	assert.Error(t, err)

	again, err := GenerateTokens(user, cfg)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, again.RefreshToken)
}

func TestExpiredToken(t *testing.T) {
	cfg := testConfig()
	cfg.JWTExpirationMinutes = -1
	pair, err := GenerateTokens(&models.User{BaseModel: models.BaseModel{ID: "u"}}, cfg)
	require.NoError(t, err)

	_, err = ValidateToken(pair.AccessToken, cfg.JWTSecret, AccessToken)
	assert.Error(t, err)
}

func TestParseDateAndClock(t *testing.T) {
	d, err := ParseDate("2026-10-20")
	require.NoError(t, err)
	assert.Equal(t, "2026-10-20", models.FormatDate(d))

	_, err = ParseDate("20/10/2026")
	assert.Error(t, err)

	c, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, "09:30:00", c.String())

	c, err = ParseClock("17:05:30")
	require.NoError(t, err)
	assert.Equal(t, "17:05:30", c.String())

	_, err = ParseClock("25:00")
	assert.Error(t, err)

	opt, err := ParseOptionalClock(nil)
	require.NoError(t, err)
	assert.Nil(t, opt)
}

type phoneRequest struct {
	Phone string `json:"phone" binding:"omitempty,phone"`
	Name  string `json:"name" binding:"required"`
}

func TestBindAndValidate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		body   string
		ok     bool
		substr string
	}{
		{"valid", `{"phone":"+15551234567","name":"Ada"}`, true, ""},
		{"bad phone", `{"phone":"call me","name":"Ada"}`, false, "format '+999999999'"},
		{"missing name", `{"phone":"+15551234567"}`, false, "Name is required"},
		{"malformed", `{"phone":`, false, "Invalid request payload"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var req phoneRequest
			assert.Equal(t, tt.ok, BindAndValidate(c, &req))
			if !tt.ok {
				assert.Equal(t, http.StatusBadRequest, w.Code)
				assert.Contains(t, w.Body.String(), tt.substr)
			}
		})
	}
}

func TestRejectedCarriesKindAndDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Rejected(c, http.StatusConflict, "SCHEDULING_CONFLICT", "taken", gin.H{"startTime": "09:00:00"})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"status":409,"message":"Request rejected","error":"taken","kind":"SCHEDULING_CONFLICT","detail":{"startTime":"09:00:00"}}`, w.Body.String())
}
