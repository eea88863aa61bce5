package routes

import (
	"quickbite/handlers"
	"quickbite/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {
	api := r.Group("/api")

	// ── Public routes ──────────────────────────────────────────────
	api.POST("/register", handlers.Register)
	api.POST("/login", handlers.Login)
	api.POST("/token/refresh", handlers.RefreshToken)
	api.GET("/state-machine", handlers.GetStateMachineInfo)

	// Catalog listing is public but scopes results when a token is present
	api.GET("/foods", middleware.OptionalAuth(), handlers.ListFoods)

	// ── Authenticated routes ───────────────────────────────────────
	auth := api.Group("")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/profile", handlers.GetProfile)
		auth.PUT("/profile", handlers.UpdateProfile)

		// Catalog mutations; creation/update are restaurant-gated at the
		// route, upload_image does its own checks for distinct errors
		auth.POST("/foods", middleware.RestaurantOnly(), handlers.CreateFood)
		auth.PUT("/foods/:id", middleware.RestaurantOnly(), handlers.UpdateFood)
		auth.POST("/foods/:id/upload_image", handlers.UploadImage)

		// Orders
		auth.POST("/orders", handlers.CreateOrder)
		auth.GET("/orders", handlers.ListOrders)
		auth.GET("/orders/staff_orders", handlers.StaffOrders)
		auth.GET("/orders/:id", handlers.GetOrder)
		auth.POST("/orders/:id/approve", handlers.ApproveOrder)
		auth.POST("/orders/:id/reject", handlers.RejectOrder)
		auth.PUT("/orders/:id/status", handlers.UpdateOrderStatus)

		// Inventory; listing stays open so non-restaurant roles get an
		// empty set instead of a forbidden error
		auth.GET("/inventory", handlers.ListInventory)
		auth.POST("/inventory", middleware.RestaurantOnly(), handlers.CreateInventory)
		auth.PUT("/inventory/:id", middleware.RestaurantOnly(), handlers.UpdateInventory)
		auth.DELETE("/inventory/:id", middleware.RestaurantOnly(), handlers.DeleteInventory)
		auth.POST("/inventory/:id/update_quantity", middleware.RestaurantOnly(), handlers.UpdateQuantity)

		// Notification mailbox
		auth.GET("/notifications", handlers.ListNotifications)
		auth.GET("/notifications/unread_count", handlers.UnreadCount)
		auth.POST("/notifications/:id/mark_as_read", handlers.MarkAsRead)
		auth.POST("/notifications/mark_all_as_read", handlers.MarkAllAsRead)
	}
}
