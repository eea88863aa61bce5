package models

import "time"

// OrderStatus represents all possible states of an order
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusApproved  OrderStatus = "approved"
	StatusPreparing OrderStatus = "preparing"
	StatusOnTheWay  OrderStatus = "on the way"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID              uint        `json:"id" gorm:"primaryKey"`
	CustomerID      uint        `json:"customer" gorm:"not null"`
	Customer        User        `json:"-" gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	Status          OrderStatus `json:"status" gorm:"not null;default:'pending'"`
	TotalPrice      float64     `json:"total_price"`
	DeliveryAddress string      `json:"delivery_address"`
	Items           []OrderItem `json:"-" gorm:"foreignKey:OrderID"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

type OrderItem struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	OrderID  uint    `json:"-" gorm:"not null"`
	FoodID   uint    `json:"food" gorm:"not null"`
	Food     Food    `json:"-" gorm:"foreignKey:FoodID;constraint:OnDelete:CASCADE"`
	Quantity int     `json:"quantity" gorm:"not null"`
	Price    float64 `json:"price" gorm:"not null"` // unit price captured at order time
}
