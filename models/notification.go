package models

import "time"

// NotificationType tags what triggered a mailbox entry
type NotificationType string

const (
	NotifyNewOrder     NotificationType = "new_order"
	NotifyApproved     NotificationType = "order_approved"
	NotifyRejected     NotificationType = "order_rejected"
	NotifyOutOfStock   NotificationType = "order_out_of_stock"
	NotifyStatusUpdate NotificationType = "order_status_update"
	NotifyDelivered    NotificationType = "order_delivered"
)

// Notification is an append-only per-user mailbox entry; only IsRead is ever
// mutated after creation. Rows are written exclusively by order transitions.
type Notification struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	UserID    uint             `json:"-" gorm:"not null;index"`
	User      User             `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	OrderID   *uint            `json:"order"`
	Order     *Order           `json:"-" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Type      NotificationType `json:"type" gorm:"not null"`
	Message   string           `json:"message"`
	IsRead    bool             `json:"is_read" gorm:"default:false"`
	CreatedAt time.Time        `json:"created_at"`
}
