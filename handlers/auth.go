package handlers

import (
	"net/http"
	"strings"

	"quickbite/config"
	"quickbite/identity"
	"quickbite/middleware"
	"quickbite/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required,min=6"`
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates a new account. Public registration always produces a
// customer profile; restaurant staff accounts are provisioned internally.
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.User
	if err := config.DB.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username already taken"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		profile := models.Profile{
			UserID:    user.ID,
			Role:      models.RoleCustomer,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Phone:     req.Phone,
			Address:   req.Address,
		}
		return tx.Create(&profile).Error
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created successfully",
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     models.RoleCustomer,
		},
	})
}

// Login authenticates by email or username and returns a token pair. The
// identifier is tried as an email first, then as a username; when several
// matching accounts verify, a restaurant-role account wins.
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	identifier := strings.ToLower(strings.TrimSpace(req.Email))
	if identifier == "" {
		identifier = strings.ToLower(strings.TrimSpace(req.Username))
	}
	if identifier == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email/username and password are required"})
		return
	}

	var candidates []models.User
	config.DB.Where("lower(email) = ?", identifier).Order("id").Find(&candidates)
	if len(candidates) == 0 {
		config.DB.Where("lower(username) = ?", identifier).Order("id").Find(&candidates)
	}
	if len(candidates) == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	var matched []models.User
	for _, candidate := range candidates {
		if bcrypt.CompareHashAndPassword([]byte(candidate.PasswordHash), []byte(req.Password)) == nil {
			matched = append(matched, candidate)
		}
	}
	if len(matched) == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	// Prefer a restaurant staff account when the identifier is ambiguous
	user := matched[0]
	for _, candidate := range matched {
		if identity.ResolveForRead(config.DB, candidate.ID) == models.RoleRestaurant {
			user = candidate
			break
		}
	}

	access, refresh, err := middleware.GenerateTokenPair(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access":  access,
		"refresh": refresh,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     identity.ResolveForRead(config.DB, user.ID),
		},
	})
}

type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// RefreshToken exchanges a valid refresh token for a new access token
func RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims, err := middleware.ParseToken(req.Refresh)
	if err != nil || claims.TokenType != middleware.TokenTypeRefresh {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
		return
	}

	var user models.User
	if err := config.DB.First(&user, claims.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
		return
	}

	access, err := middleware.GenerateAccessToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access": access})
}

// GetProfile returns the caller's profile
func GetProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var profile models.Profile
	if err := config.DB.Preload("User").Where("user_id = ?", userID).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}
	c.JSON(http.StatusOK, profileJSON(&profile))
}

type UpdateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
}

// UpdateProfile partially updates the caller's contact fields. The role is
// never updatable through the API.
func UpdateProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var profile models.Profile
	if err := config.DB.Preload("User").Where("user_id = ?", userID).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.FirstName != nil {
		profile.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		profile.LastName = *req.LastName
	}
	if req.Phone != nil {
		profile.Phone = *req.Phone
	}
	if req.Address != nil {
		profile.Address = *req.Address
	}
	if err := config.DB.Save(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, profileJSON(&profile))
}

func profileJSON(profile *models.Profile) gin.H {
	return gin.H{
		"id":         profile.ID,
		"username":   profile.User.Username,
		"email":      profile.User.Email,
		"role":       profile.Role,
		"first_name": profile.FirstName,
		"last_name":  profile.LastName,
		"full_name":  profile.FullName(),
		"phone":      profile.Phone,
		"address":    profile.Address,
	}
}
