package models

import "time"

// InventoryUnit is the measurement unit for a stock ledger entry
type InventoryUnit string

const (
	UnitKilograms   InventoryUnit = "kg"
	UnitGrams       InventoryUnit = "g"
	UnitLiters      InventoryUnit = "l"
	UnitMilliliters InventoryUnit = "ml"
	UnitPieces      InventoryUnit = "pcs"
	UnitBoxes       InventoryUnit = "boxes"
	UnitPacks       InventoryUnit = "packs"
)

// Inventory is a per-restaurant stock ledger row. It has no structural link
// to Food or Order and is mutated independently.
type Inventory struct {
	ID           uint          `json:"id" gorm:"primaryKey"`
	Name         string        `json:"name" gorm:"not null"`
	Quantity     float64       `json:"quantity" gorm:"default:0"`
	Unit         InventoryUnit `json:"unit" gorm:"default:'kg'"`
	Supplier     string        `json:"supplier"`
	RestaurantID uint          `json:"-" gorm:"not null"`
	Restaurant   User          `json:"-" gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}
