package handlers

import (
	"errors"
	"strings"

	"clinic-app-server/internal/middleware"
	"clinic-app-server/internal/models"
	"clinic-app-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UserHandler handles user management (admin operations).
type UserHandler struct {
	DB *gorm.DB
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{DB: db}
}

// CreateUserRequest represents the request body for creating a user by an admin.
type CreateUserRequest struct {
	FirstName   string  `json:"firstName" binding:"required,max=100"`
	LastName    string  `json:"lastName" binding:"required,max=100"`
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=8"`
	Role        string  `json:"role" binding:"required,oneof=patient doctor admin"`
	PhoneNumber string  `json:"phoneNumber" binding:"omitempty,phone"`
	DateOfBirth *string `json:"dateOfBirth"`
}

// CreateUser handles creating a new user (admin).
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	user, ok := buildUser(c, req.Email, req.Password, req.FirstName, req.LastName, models.Role(req.Role), req.PhoneNumber, req.DateOfBirth)
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

	utils.Created(c, "User created successfully", user.Sanitize())
}

// GetUsers lists users, optionally filtered by ?role=.
func (h *UserHandler) GetUsers(c *gin.Context) {
	q := h.DB.Order("last_name asc, first_name asc")
	if role := c.Query("role"); role != "" {
		q = q.Where("role = ?", role)
	}

	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		utils.InternalError(c, "Failed to fetch users", err)
		return
	}

	sanitizedUsers := make([]models.UserSanitized, len(users))
	for i := range users {
		sanitizedUsers[i] = users[i].Sanitize()
	}

	utils.Success(c, "Users fetched successfully", sanitizedUsers)
}

// GetUserByID handles fetching a single user by ID (admin).
func (h *UserHandler) GetUserByID(c *gin.Context) {
	userID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		respondLookupError(c, err, "User")
		return
	}
	utils.Success(c, "User fetched successfully", user.Sanitize())
}

// UpdateUserRequest represents the request body for updating a user by an admin.
// Passwords are changed by the user through a dedicated flow, never here.
type UpdateUserRequest struct {
	FirstName   *string `json:"firstName" binding:"omitempty,max=100"`
	LastName    *string `json:"lastName" binding:"omitempty,max=100"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Role        *string `json:"role" binding:"omitempty,oneof=patient doctor admin"`
	PhoneNumber *string `json:"phoneNumber" binding:"omitempty,phone"`
	DateOfBirth *string `json:"dateOfBirth"`
	IsActive    *bool   `json:"isActive"`
}

// UpdateUser handles updating a user by ID (admin). PUT and PATCH both apply
// only the fields present in the body.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateUserRequest
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
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != user.Email {
			var count int64
			if err := h.DB.Model(&models.User{}).Where("email = ? AND id <> ?", email, user.ID).Count(&count).Error; err != nil {
				utils.InternalError(c, "Failed to check email", err)
				return
			}
			if count > 0 {
				utils.BadRequest(c, "New email is already in use")
				return
			}
			user.Email = email
		}
	}
	if req.Role != nil {
		user.Role = models.Role(*req.Role)
	}
	if req.IsActive != nil {
		currentID, _ := middleware.GetUserIDFromContext(c)
		if currentID == user.ID && !*req.IsActive {
			utils.BadRequest(c, "You cannot deactivate your own account")
			return
		}
		user.IsActive = *req.IsActive
	}

	if err := h.DB.Save(&user).Error; err != nil {
		respondWriteError(c, err, "User")
		return
	}

	utils.Success(c, "User updated successfully", user.Sanitize())
}

// DeleteUser handles deleting a user by ID (admin). The user's refresh
// tokens go with it.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, ok := idParam(c, "id")
	if !ok {
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "User not found")
			return
		}
		respondWriteError(c, err, "User")
		return
	}

	utils.Success(c, "User deleted successfully", nil)
}
