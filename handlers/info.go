package handlers

import (
	"net/http"

	"quickbite/models"
	"quickbite/statemachine"

	"github.com/gin-gonic/gin"
)

// GetStateMachineInfo returns the full order state machine for informational
// purposes
func GetStateMachineInfo(c *gin.Context) {
	transitions := statemachine.GetAllTransitions()
	info := make([]gin.H, 0, len(transitions))
	for _, t := range transitions {
		info = append(info, gin.H{"from": t.From, "to": t.To, "actor": t.Actor})
	}
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   info,
		"terminal_states": []models.OrderStatus{models.StatusDelivered, models.StatusCancelled},
		"description":     "Order Lifecycle State Machine",
	})
}
