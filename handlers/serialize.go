package handlers

import (
	"github.com/gin-gonic/gin"

	"quickbite/config"
	"quickbite/models"

	log "github.com/sirupsen/logrus"
)

// absoluteMediaURL builds a full URL for a stored media path from the
// request's own origin, so clients can render images directly.
func absoluteMediaURL(c *gin.Context, rel string) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host + "/media/" + rel
}

func foodJSON(c *gin.Context, food *models.Food) gin.H {
	var image interface{}
	if food.Image != "" {
		image = absoluteMediaURL(c, food.Image)
	}
	return gin.H{
		"id":          food.ID,
		"name":        food.Name,
		"description": food.Description,
		"price":       food.Price,
		"stock":       food.Stock,
		"category":    food.Category,
		"image":       image,
		"available":   food.Available,
		"restaurant":  food.RestaurantID,
	}
}

// orderJSON renders an order with its items; Items.Food and Customer must be
// preloaded by the caller.
func orderJSON(order *models.Order) gin.H {
	items := make([]gin.H, 0, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		items = append(items, gin.H{
			"id":         item.ID,
			"food":       item.FoodID,
			"food_name":  item.Food.Name,
			"food_price": item.Food.Price,
			"quantity":   item.Quantity,
			"price":      item.Price,
		})
	}
	return gin.H{
		"id":                order.ID,
		"customer":          order.CustomerID,
		"customer_username": order.Customer.Username,
		"customer_email":    order.Customer.Email,
		"items":             items,
		"status":            order.Status,
		"total_price":       order.TotalPrice,
		"delivery_address":  order.DeliveryAddress,
		"created_at":        order.CreatedAt,
		"updated_at":        order.UpdatedAt,
	}
}

// notify appends a mailbox row for a user. Notification delivery is
// best-effort: failures are logged and swallowed so they can never fail the
// state transition that triggered them.
func notify(userID uint, orderID *uint, kind models.NotificationType, message string) {
	n := models.Notification{
		UserID:  userID,
		OrderID: orderID,
		Type:    kind,
		Message: message,
	}
	if err := config.DB.Create(&n).Error; err != nil {
		log.WithError(err).WithFields(log.Fields{
			"user": userID,
			"type": kind,
		}).Warn("failed to create notification")
	}
}
