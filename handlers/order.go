package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"quickbite/config"
	"quickbite/identity"
	"quickbite/middleware"
	"quickbite/models"
	"quickbite/statemachine"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type OrderItemRequest struct {
	Food     uint `json:"food" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,min=1"`
}

type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	DeliveryAddress string             `json:"delivery_address" binding:"required"`
}

// CreateOrder creates an order from a cart of food items. Pricing is always
// computed server-side from current food prices; the order row and all item
// rows are written in a single transaction.
func CreateOrder(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	if identity.ResolveForRead(config.DB, customerID) == models.RoleRestaurant {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only customers can place orders"})
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ids := make([]uint, 0, len(req.Items))
	for _, item := range req.Items {
		ids = append(ids, item.Food)
	}

	// The whole cart is validated against the currently available set; one
	// bad id rejects the entire order.
	var foods []models.Food
	config.DB.Where("id IN ? AND available = ?", ids, true).Find(&foods)
	byID := make(map[uint]models.Food, len(foods))
	for _, food := range foods {
		byID[food.ID] = food
	}
	var missing []uint
	seen := map[uint]bool{}
	for _, id := range ids {
		if _, ok := byID[id]; !ok && !seen[id] {
			missing = append(missing, id)
			seen[id] = true
		}
	}
	if len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Food items not available: %v", missing)})
		return
	}

	var total float64
	for _, item := range req.Items {
		total += byID[item.Food].Price * float64(item.Quantity)
	}

	order := models.Order{
		CustomerID:      customerID,
		Status:          models.StatusPending,
		TotalPrice:      total,
		DeliveryAddress: req.DeliveryAddress,
	}
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for _, item := range req.Items {
			orderItem := models.OrderItem{
				OrderID:  order.ID,
				FoodID:   item.Food,
				Quantity: item.Quantity,
				Price:    byID[item.Food].Price,
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		return
	}

	if err := config.DB.Preload("Items.Food").Preload("Customer").First(&order, order.ID).Error; err != nil {
		log.WithError(err).WithField("order", order.ID).Error("failed to reload order after create")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		return
	}

	// Broadcast to every restaurant staff account after the transaction has
	// committed; the order stands even if none of these rows get written.
	var staff []models.User
	config.DB.Joins("JOIN profiles ON profiles.user_id = users.id").
		Where("profiles.role = ?", models.RoleRestaurant).
		Find(&staff)
	for _, user := range staff {
		notify(user.ID, &order.ID, models.NotifyNewOrder,
			fmt.Sprintf("New order #%d received from %s (total %.2f)", order.ID, order.Customer.Username, order.TotalPrice))
	}

	c.JSON(http.StatusCreated, orderJSON(&order))
}

// ListOrders returns the caller-scoped order set: customers get their own
// orders, restaurant staff get the distinct set of orders containing at
// least one of their food items.
func ListOrders(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var orders []models.Order
	scopedOrderQuery(userID).Order("orders.id desc").Find(&orders)

	out := make([]gin.H, 0, len(orders))
	for i := range orders {
		out = append(out, orderJSON(&orders[i]))
	}
	c.JSON(http.StatusOK, out)
}

// GetOrder returns one order from the caller's scoped set; anything outside
// that set resolves as not found
func GetOrder(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var order models.Order
	if err := scopedOrderQuery(userID).Where("orders.id = ?", c.Param("id")).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, orderJSON(&order))
}

// scopedOrderQuery builds the role-scoped base query. The restaurant branch
// joins through order items to foods and deduplicates, since one order can
// contain several items from the same owner.
func scopedOrderQuery(userID uint) *gorm.DB {
	query := config.DB.Preload("Items.Food").Preload("Customer")
	if identity.ResolveForRead(config.DB, userID) == models.RoleRestaurant {
		return query.
			Joins("JOIN order_items ON order_items.order_id = orders.id").
			Joins("JOIN foods ON foods.id = order_items.food_id").
			Where("foods.restaurant_id = ?", userID).
			Distinct("orders.*")
	}
	return query.Where("customer_id = ?", userID)
}

// StaffOrders returns every order in the system for restaurant staff,
// optionally filtered by exact status. Staff visibility is platform-wide,
// not scoped to the caller's own food.
func StaffOrders(c *gin.Context) {
	userID := middleware.GetUserID(c)

	role, err := identity.ResolveForWrite(config.DB, userID)
	if err != nil {
		if errors.Is(err, identity.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve role"})
		return
	}
	if role != models.RoleRestaurant {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only restaurant staff can view orders"})
		return
	}

	query := config.DB.Preload("Items.Food").Preload("Customer").Order("created_at desc, id desc")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	query.Find(&orders)

	out := make([]gin.H, 0, len(orders))
	for i := range orders {
		out = append(out, orderJSON(&orders[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"total":  len(orders),
		"orders": out,
	})
}

// ApproveOrder moves a pending order to approved. Beyond the role check the
// caller must own at least one food item inside the order.
func ApproveOrder(c *gin.Context) {
	userID := middleware.GetUserID(c)

	order, ok := authorizeOrderAction(c, userID, "approve")
	if !ok {
		return
	}

	if err := config.DB.Model(order).Update("status", models.StatusApproved).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve order"})
		return
	}

	notify(order.CustomerID, &order.ID, models.NotifyApproved,
		fmt.Sprintf("Your order #%d has been approved!", order.ID))

	c.JSON(http.StatusOK, gin.H{
		"status":   models.StatusApproved,
		"message":  "Order approved successfully",
		"order_id": order.ID,
	})
}

type RejectOrderRequest struct {
	Reason string `json:"reason"`
}

// RejectOrder cancels a pending order with a free-text reason. Rejection
// reuses the cancelled status; there is no separate rejected state.
func RejectOrder(c *gin.Context) {
	userID := middleware.GetUserID(c)

	order, ok := authorizeOrderAction(c, userID, "reject")
	if !ok {
		return
	}

	var req RejectOrderRequest
	_ = c.ShouldBindJSON(&req) // body is optional
	if req.Reason == "" {
		req.Reason = "No reason provided"
	}

	if err := config.DB.Model(order).Update("status", models.StatusCancelled).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject order"})
		return
	}

	notify(order.CustomerID, &order.ID, models.NotifyRejected,
		fmt.Sprintf("Your order #%d has been rejected. Reason: %s", order.ID, req.Reason))

	c.JSON(http.StatusOK, gin.H{
		"status":   models.StatusCancelled,
		"message":  "Order rejected successfully",
		"reason":   req.Reason,
		"order_id": order.ID,
	})
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// UpdateOrderStatus drives the post-approval lifecycle (preparing, on the
// way, delivered) under the same ownership gate as approve/reject, validated
// against the state machine.
func UpdateOrderStatus(c *gin.Context) {
	userID := middleware.GetUserID(c)

	order, ok := authorizeOrderAction(c, userID, "update")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := statemachine.CanTransition(order.Status, req.Status, "restaurant"); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":             "Invalid state transition",
			"current_status":    order.Status,
			"requested":         req.Status,
			"reason":            err.Error(),
			"valid_next_states": statemachine.ValidTransitionsFrom(order.Status),
		})
		return
	}

	prevStatus := order.Status
	if err := config.DB.Model(order).Update("status", req.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
		return
	}

	kind := models.NotifyStatusUpdate
	if req.Status == models.StatusDelivered {
		kind = models.NotifyDelivered
	}
	notify(order.CustomerID, &order.ID, kind,
		fmt.Sprintf("Your order #%d is now %s", order.ID, req.Status))

	c.JSON(http.StatusOK, gin.H{
		"message":         "Order status updated",
		"order_id":        order.ID,
		"previous_status": prevStatus,
		"current_status":  req.Status,
	})
}

// authorizeOrderAction loads the order and enforces the two-level gate for
// staff actions: restaurant role (missing profile is a hard forbidden), then
// item ownership — the caller must own at least one food in the order. On
// failure it writes the response and returns ok=false.
func authorizeOrderAction(c *gin.Context, userID uint, verb string) (*models.Order, bool) {
	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return nil, false
	}

	role, err := identity.ResolveForWrite(config.DB, userID)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "User profile not found"})
		return nil, false
	}
	if role != models.RoleRestaurant {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only restaurant staff can " + verb + " orders"})
		return nil, false
	}

	var count int64
	config.DB.Model(&models.OrderItem{}).
		Joins("JOIN foods ON foods.id = order_items.food_id").
		Where("order_items.order_id = ? AND foods.restaurant_id = ?", order.ID, userID).
		Count(&count)
	if count == 0 {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only " + verb + " orders with your food"})
		return nil, false
	}
	return &order, true
}
