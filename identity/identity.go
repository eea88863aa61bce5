// Package identity resolves a caller's role from their Profile row.
//
// The two entry points differ on a missing profile: read paths fall back to
// the customer role, while role-gated write paths fail hard. Both behaviors
// are part of the external contract and must not be unified silently.
package identity

import (
	"errors"

	"quickbite/models"

	"gorm.io/gorm"
)

// ErrProfileNotFound is returned by ResolveForWrite when the caller has no
// Profile row.
var ErrProfileNotFound = errors.New("profile not found")

// ResolveForRead returns the caller's role for query scoping. A user without
// a profile is treated as a customer.
func ResolveForRead(db *gorm.DB, userID uint) models.Role {
	var profile models.Profile
	if err := db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return models.RoleCustomer
	}
	return profile.Role
}

// ResolveForWrite returns the caller's role for role-gated mutations. A user
// without a profile is rejected with ErrProfileNotFound.
func ResolveForWrite(db *gorm.DB, userID uint) (models.Role, error) {
	var profile models.Profile
	if err := db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrProfileNotFound
		}
		return "", err
	}
	return profile.Role, nil
}

// IsRestaurant reports whether the user currently holds the restaurant role.
func IsRestaurant(db *gorm.DB, userID uint) bool {
	return ResolveForRead(db, userID) == models.RoleRestaurant
}
