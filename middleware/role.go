package middleware

import (
	"net/http"

	"quickbite/config"
	"quickbite/identity"
	"quickbite/models"

	"github.com/gin-gonic/gin"
)

// RestaurantOnly gates role-restricted write routes. A caller without a
// profile row is rejected here even though read paths would treat the same
// caller as a customer.
func RestaurantOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := identity.ResolveForWrite(config.DB, GetUserID(c))
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "User profile not found"})
			c.Abort()
			return
		}
		if role != models.RoleRestaurant {
			c.JSON(http.StatusForbidden, gin.H{"error": "Restaurant role required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
