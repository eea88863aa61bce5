package models

import "time"

// FoodCategory groups menu items for display
type FoodCategory string

const (
	CategoryMain      FoodCategory = "Main"
	CategoryAppetizer FoodCategory = "Appetizer"
	CategoryDessert   FoodCategory = "Dessert"
	CategoryDrink     FoodCategory = "Drink"
	CategorySide      FoodCategory = "Side"
)

type Food struct {
	ID           uint         `json:"id" gorm:"primaryKey"`
	Name         string       `json:"name" gorm:"not null"`
	Description  string       `json:"description"`
	Price        float64      `json:"price" gorm:"not null"`
	Stock        uint         `json:"stock" gorm:"default:0"`
	Category     FoodCategory `json:"category" gorm:"default:'Main'"`
	Image        string       `json:"-"` // relative path under the media root
	RestaurantID *uint        `json:"restaurant"`
	Restaurant   *User        `json:"-" gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE"`
	Available    bool         `json:"available" gorm:"default:true"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
