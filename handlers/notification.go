package handlers

import (
	"net/http"

	"quickbite/config"
	"quickbite/middleware"
	"quickbite/models"

	"github.com/gin-gonic/gin"
)

// ListNotifications returns the caller's mailbox, newest first
func ListNotifications(c *gin.Context) {
	userID := middleware.GetUserID(c)
	notifications := make([]models.Notification, 0)
	config.DB.Where("user_id = ?", userID).Order("created_at desc, id desc").Find(&notifications)
	c.JSON(http.StatusOK, notifications)
}

// UnreadCount returns how many of the caller's notifications are unread
func UnreadCount(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var count int64
	config.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count)
	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

// MarkAsRead flags one of the caller's notifications as read. The lookup is
// scoped to the caller, so a foreign notification resolves as not found.
func MarkAsRead(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var notification models.Notification
	if err := config.DB.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&notification).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	if err := config.DB.Model(&notification).Update("is_read", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notification as read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "marked as read"})
}

// MarkAllAsRead flags all of the caller's unread notifications and reports
// how many rows changed; calling it again returns zero.
func MarkAllAsRead(c *gin.Context) {
	userID := middleware.GetUserID(c)
	result := config.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notifications as read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked_as_read": result.RowsAffected})
}
