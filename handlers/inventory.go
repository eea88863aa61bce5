package handlers

import (
	"net/http"

	"quickbite/config"
	"quickbite/identity"
	"quickbite/middleware"
	"quickbite/models"

	"github.com/gin-gonic/gin"
)

// ListInventory returns the caller's own stock ledger. Every non-restaurant
// caller, including one without a profile, gets an empty list rather than an
// error.
func ListInventory(c *gin.Context) {
	userID := middleware.GetUserID(c)

	items := make([]models.Inventory, 0)
	if identity.IsRestaurant(config.DB, userID) {
		config.DB.Where("restaurant_id = ?", userID).Order("id desc").Find(&items)
	}

	out := make([]gin.H, 0, len(items))
	for i := range items {
		out = append(out, inventoryJSON(&items[i]))
	}
	c.JSON(http.StatusOK, out)
}

type CreateInventoryRequest struct {
	Name     string               `json:"name" binding:"required"`
	Quantity float64              `json:"quantity" binding:"omitempty,gte=0"`
	Unit     models.InventoryUnit `json:"unit" binding:"omitempty,oneof=kg g l ml pcs boxes packs"`
	Supplier string               `json:"supplier"`
}

// CreateInventory adds a ledger row owned by the caller
func CreateInventory(c *gin.Context) {
	ownerID := middleware.GetUserID(c)
	var req CreateInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Unit == "" {
		req.Unit = models.UnitKilograms
	}

	item := models.Inventory{
		Name:         req.Name,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		Supplier:     req.Supplier,
		RestaurantID: ownerID,
	}
	if err := config.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create inventory item"})
		return
	}
	c.JSON(http.StatusCreated, inventoryJSON(&item))
}

type UpdateInventoryRequest struct {
	Name     *string               `json:"name"`
	Quantity *float64              `json:"quantity" binding:"omitempty,gte=0"`
	Unit     *models.InventoryUnit `json:"unit" binding:"omitempty,oneof=kg g l ml pcs boxes packs"`
	Supplier *string               `json:"supplier"`
}

// UpdateInventory mutates an owned ledger row; a foreign id resolves as not
// found through the scoped lookup
func UpdateInventory(c *gin.Context) {
	item, ok := ownedInventory(c)
	if !ok {
		return
	}

	var req UpdateInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	if req.Unit != nil {
		item.Unit = *req.Unit
	}
	if req.Supplier != nil {
		item.Supplier = *req.Supplier
	}
	if err := config.DB.Save(item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update inventory item"})
		return
	}
	c.JSON(http.StatusOK, inventoryJSON(item))
}

// DeleteInventory removes an owned ledger row
func DeleteInventory(c *gin.Context) {
	item, ok := ownedInventory(c)
	if !ok {
		return
	}
	if err := config.DB.Delete(item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete inventory item"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Inventory item deleted"})
}

type UpdateQuantityRequest struct {
	Quantity *float64 `json:"quantity"`
}

// UpdateQuantity sets the quantity of an owned ledger row
func UpdateQuantity(c *gin.Context) {
	item, ok := ownedInventory(c)
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	_ = c.ShouldBindJSON(&req)
	if req.Quantity == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity not provided"})
		return
	}

	if err := config.DB.Model(item).Update("quantity", *req.Quantity).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update quantity"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "Quantity updated",
		"quantity": *req.Quantity,
	})
}

func ownedInventory(c *gin.Context) (*models.Inventory, bool) {
	ownerID := middleware.GetUserID(c)
	var item models.Inventory
	if err := config.DB.Where("id = ? AND restaurant_id = ?", c.Param("id"), ownerID).First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Inventory item not found"})
		return nil, false
	}
	return &item, true
}

func inventoryJSON(item *models.Inventory) gin.H {
	return gin.H{
		"id":         item.ID,
		"name":       item.Name,
		"quantity":   item.Quantity,
		"unit":       item.Unit,
		"supplier":   item.Supplier,
		"created_at": item.CreatedAt,
		"updated_at": item.UpdatedAt,
	}
}
