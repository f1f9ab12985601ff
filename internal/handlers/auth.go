package handlers

import (
	"errors"
	"strings"
	"time"

	"clinic-app-server/internal/config"
	"clinic-app-server/internal/middleware"
	"clinic-app-server/internal/models"
	"clinic-app-server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const refreshCookie = "refresh_token"

// AuthHandler handles authentication-related requests.
type AuthHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{DB: db, Cfg: cfg}
}

// RegisterRequest represents the request body for user registration.
// Admin accounts are created by other admins or the createsuperuser command.
type RegisterRequest struct {
	FirstName   string  `json:"firstName" binding:"required,max=100"`
	LastName    string  `json:"lastName" binding:"required,max=100"`
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=8"`
	Role        string  `json:"role" binding:"omitempty,oneof=patient doctor"`
	PhoneNumber string  `json:"phoneNumber" binding:"omitempty,phone"`
	DateOfBirth *string `json:"dateOfBirth"`
}

// Register handles user registration.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	role := models.RolePatient
	if req.Role != "" {
		role = models.Role(req.Role)
	}

	user, ok := buildUser(c, req.Email, req.Password, req.FirstName, req.LastName, role, req.PhoneNumber, req.DateOfBirth)
	if !ok {
		return
	}

	if err := createUser(h.DB, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.BadRequest(c, "User with this email already exists")
			return
		}
		utils.InternalError(c, "Failed to create user", err)
		return
	}

	utils.Created(c, "User registered successfully", user.Sanitize())
}

// buildUser assembles a new active user from request fields, responding
// with 400 on bad input.
func buildUser(c *gin.Context, email, password, first, last string, role models.Role, phone string, dob *string) (*models.User, bool) {
	user := &models.User{
		Email:       strings.ToLower(strings.TrimSpace(email)),
		FirstName:   first,
		LastName:    last,
		Role:        role,
		PhoneNumber: phone,
		IsActive:    true,
	}
	if dob != nil && *dob != "" {
		d, err := time.Parse("2006-01-02", *dob)
		if err != nil {
			utils.BadRequest(c, "dateOfBirth must be YYYY-MM-DD")
			return nil, false
		}
		user.DateOfBirth = &d
	}
	if err := user.SetPassword(password); err != nil {
		utils.InternalError(c, "Failed to hash password", err)
		return nil, false
	}
	return user, true
}

// createUser inserts user after an explicit email check, so drivers without
// error translation still report duplicates as gorm.ErrDuplicatedKey.
func createUser(db *gorm.DB, user *models.User) error {
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return gorm.ErrDuplicatedKey
	}
	return db.Create(user).Error
}

// LoginRequest represents the request body for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response body for successful login.
type LoginResponse struct {
	AccessToken  string               `json:"accessToken"`
	RefreshToken string               `json:"refreshToken"`
	User         models.UserSanitized `json:"user"`
}

// Login handles user login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var user models.User
	if err := h.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Unauthorized(c, "Invalid email or password")
		} else {
			utils.InternalError(c, "Failed to load user", err)
		}
		return
	}

	if !user.CheckPassword(req.Password) {
		utils.Unauthorized(c, "Invalid email or password")
		return
	}
	if !user.IsActive {
		utils.Unauthorized(c, "Account is disabled")
		return
	}

	pair, err := h.issueTokens(h.DB, &user)
	if err != nil {
		utils.InternalError(c, "Failed to issue tokens", err)
		return
	}
	h.setRefreshCookie(c, pair.RefreshToken)

	log.Info().Str("user_id", user.ID).Msg("user logged in")
	utils.Success(c, "Login successful", LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         user.Sanitize(),
	})
}

func (h *AuthHandler) issueTokens(db *gorm.DB, user *models.User) (*utils.TokenPair, error) {
	pair, err := utils.GenerateTokens(user, h.Cfg)
	if err != nil {
		return nil, err
	}
	stored := models.RefreshToken{
		UserID:    user.ID,
		Token:     pair.RefreshToken,
		ExpiresAt: pair.RefreshExpiresAt,
	}
	if err := db.Create(&stored).Error; err != nil {
		return nil, err
	}
	return pair, nil
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	maxAge := h.Cfg.JWTRefreshExpirationHours * 60 * 60
	if token == "" {
		maxAge = -1
	}
	c.SetCookie(refreshCookie, token, maxAge, "/", "", h.Cfg.Environment != "development", true)
}

// RefreshTokenRequest represents the request body for token refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RefreshTokenResponse represents the response body for successful token refresh.
type RefreshTokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

var errTokenUnusable = errors.New("refresh token not found, expired, or revoked")

// RefreshToken exchanges a refresh token for a new pair and revokes the old
// one. The cookie wins over the request body when both are present.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	raw, err := c.Cookie(refreshCookie)
	if err != nil || raw == "" {
		var req RefreshTokenRequest
		if !utils.BindAndValidate(c, &req) {
			return
		}
		raw = req.RefreshToken
	}

	claims, err := utils.ValidateToken(raw, h.Cfg.JWTRefreshSecret, utils.RefreshToken)
	if err != nil {
		utils.Unauthorized(c, "Invalid refresh token")
		return
	}

	var pair *utils.TokenPair
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		var stored models.RefreshToken
		if err := tx.Where("token = ? AND user_id = ?", raw, claims.UserID).First(&stored).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errTokenUnusable
			}
			return err
		}
		if !stored.Usable(time.Now()) {
			return errTokenUnusable
		}

		var user models.User
		if err := tx.First(&user, "id = ?", claims.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errTokenUnusable
			}
			return err
		}
		if !user.IsActive {
			return errTokenUnusable
		}

		stored.IsRevoked = true
		if err := tx.Save(&stored).Error; err != nil {
			return err
		}

		var err error
		pair, err = h.issueTokens(tx, &user)
		return err
	})
	if err != nil {
		if errors.Is(err, errTokenUnusable) {
			utils.Unauthorized(c, "Refresh token not found, expired, or revoked")
			return
		}
		utils.InternalError(c, "Failed to refresh tokens", err)
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	utils.Success(c, "Access token refreshed successfully", RefreshTokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// LogoutRequest represents the request body for user logout.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Logout revokes the presented refresh token. Unknown or already revoked
// tokens still log out successfully.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req LogoutRequest
	_ = c.ShouldBindJSON(&req)
	if req.RefreshToken == "" {
		req.RefreshToken, _ = c.Cookie(refreshCookie)
	}
	if req.RefreshToken == "" {
		utils.BadRequest(c, "Refresh token is required")
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	res := h.DB.Model(&models.RefreshToken{}).
		Where("token = ? AND user_id = ? AND is_revoked = ?", req.RefreshToken, userID, false).
		Updates(map[string]interface{}{"is_revoked": true, "expires_at": time.Now().UTC()})
	if res.Error != nil {
		utils.InternalError(c, "Failed to revoke refresh token", res.Error)
		return
	}

	h.setRefreshCookie(c, "")
	utils.Success(c, "Logout successful", nil)
}

// GetProfile handles fetching the currently authenticated user's profile.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		respondLookupError(c, err, "User profile")
		return
	}

	utils.Success(c, "Profile fetched successfully", user.Sanitize())
}

// UpdateProfileRequest represents the request body for updating user profile.
type UpdateProfileRequest struct {
	FirstName   *string `json:"firstName" binding:"omitempty,max=100"`
	LastName    *string `json:"lastName" binding:"omitempty,max=100"`
	PhoneNumber *string `json:"phoneNumber" binding:"omitempty,phone"`
	DateOfBirth *string `json:"dateOfBirth"`
}

// UpdateProfile handles updating the currently authenticated user's profile.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var req UpdateProfileRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		respondLookupError(c, err, "User")
		return
	}

	if !applyProfile(c, &user, req.FirstName, req.LastName, req.PhoneNumber, req.DateOfBirth) {
		return
	}

	if err := h.DB.Save(&user).Error; err != nil {
		utils.InternalError(c, "Failed to update profile", err)
		return
	}

	utils.Success(c, "Profile updated successfully", user.Sanitize())
}

func applyProfile(c *gin.Context, user *models.User, first, last, phone, dob *string) bool {
	if first != nil && *first != "" {
		user.FirstName = *first
	}
	if last != nil && *last != "" {
		user.LastName = *last
	}
	if phone != nil {
		user.PhoneNumber = *phone
	}
	if dob != nil {
		if *dob == "" {
			user.DateOfBirth = nil
		} else {
			d, err := time.Parse("2006-01-02", *dob)
			if err != nil {
				utils.BadRequest(c, "dateOfBirth must be YYYY-MM-DD")
				return false
			}
			user.DateOfBirth = &d
		}
	}
	return true
}
