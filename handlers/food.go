package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"quickbite/config"
	"quickbite/identity"
	"quickbite/middleware"
	"quickbite/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ListFoods applies the catalog visibility rules: restaurant staff see their
// own items including unavailable ones, everyone else sees only available
// items. Newest first.
func ListFoods(c *gin.Context) {
	query := config.DB.Order("id desc")
	if userID, ok := middleware.CallerID(c); ok && identity.IsRestaurant(config.DB, userID) {
		query = query.Where("restaurant_id = ?", userID)
	} else {
		query = query.Where("available = ?", true)
	}

	var foods []models.Food
	query.Find(&foods)

	out := make([]gin.H, 0, len(foods))
	for i := range foods {
		out = append(out, foodJSON(c, &foods[i]))
	}
	c.JSON(http.StatusOK, out)
}

type CreateFoodRequest struct {
	Name        string              `json:"name" binding:"required"`
	Description string              `json:"description"`
	Price       float64             `json:"price" binding:"required,gt=0"`
	Stock       uint                `json:"stock"`
	Category    models.FoodCategory `json:"category" binding:"omitempty,oneof=Main Appetizer Dessert Drink Side"`
	Available   *bool               `json:"available"`
}

// CreateFood adds a menu item owned by the caller (restaurant role is
// enforced by the route)
func CreateFood(c *gin.Context) {
	ownerID := middleware.GetUserID(c)
	var req CreateFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Category == "" {
		req.Category = models.CategoryMain
	}
	available := true
	if req.Available != nil {
		available = *req.Available
	}

	food := models.Food{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		Stock:        req.Stock,
		Category:     req.Category,
		RestaurantID: &ownerID,
		Available:    available,
	}
	if err := config.DB.Create(&food).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create food"})
		return
	}
	c.JSON(http.StatusCreated, foodJSON(c, &food))
}

type UpdateFoodRequest struct {
	Name        *string              `json:"name"`
	Description *string              `json:"description"`
	Price       *float64             `json:"price" binding:"omitempty,gt=0"`
	Stock       *uint                `json:"stock"`
	Category    *models.FoodCategory `json:"category" binding:"omitempty,oneof=Main Appetizer Dessert Drink Side"`
	Available   *bool                `json:"available"`
}

// UpdateFood mutates a food item through the owner-scoped lookup; a foreign
// item resolves as not found
func UpdateFood(c *gin.Context) {
	ownerID := middleware.GetUserID(c)
	var food models.Food
	if err := config.DB.Where("id = ? AND restaurant_id = ?", c.Param("id"), ownerID).First(&food).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Food not found"})
		return
	}

	var req UpdateFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != nil {
		food.Name = *req.Name
	}
	if req.Description != nil {
		food.Description = *req.Description
	}
	if req.Price != nil {
		food.Price = *req.Price
	}
	if req.Stock != nil {
		food.Stock = *req.Stock
	}
	if req.Category != nil {
		food.Category = *req.Category
	}
	if req.Available != nil {
		food.Available = *req.Available
	}
	if err := config.DB.Save(&food).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update food"})
		return
	}
	c.JSON(http.StatusOK, foodJSON(c, &food))
}

// UploadImage replaces a food item's stored image. Role and ownership checks
// live here rather than on the route because the error messages distinguish
// the failure modes.
func UploadImage(c *gin.Context) {
	userID := middleware.GetUserID(c)

	role, err := identity.ResolveForWrite(config.DB, userID)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "User profile not found"})
		return
	}
	if role != models.RoleRestaurant {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only restaurant staff can upload images"})
		return
	}

	var food models.Food
	if err := config.DB.First(&food, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Food not found"})
		return
	}
	if food.RestaurantID != nil && *food.RestaurantID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only update your own food items"})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}

	rel := filepath.Join("foods", uuid.NewString()+filepath.Ext(file.Filename))
	dst := filepath.Join(config.MediaRoot, rel)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image upload failed: " + err.Error()})
		return
	}
	if err := c.SaveUploadedFile(file, dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image upload failed: " + err.Error()})
		return
	}

	food.Image = filepath.ToSlash(rel)
	if err := config.DB.Save(&food).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image upload failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Image uploaded successfully",
		"food":    foodJSON(c, &food),
	})
}
