package config

import (
	"os"

	"quickbite/models"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// JWTSecret signs both access and refresh tokens — read from env or fallback
var JWTSecret = []byte(getEnv("JWT_SECRET", "quickbite_super_secret_2024"))

// MediaRoot is where uploaded food images are stored; served under /media
var MediaRoot = getEnv("MEDIA_ROOT", "media")

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads an optional .env file and refreshes env-derived settings
func Load() {
	if err := godotenv.Load(); err == nil {
		log.Info("loaded environment from .env")
	}
	JWTSecret = []byte(getEnv("JWT_SECRET", "quickbite_super_secret_2024"))
	MediaRoot = getEnv("MEDIA_ROOT", "media")
}

func InitDB() {
	var err error
	DB, err = gorm.Open(sqlite.Open(getEnv("DB_PATH", "quickbite.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}

	if err := Migrate(DB); err != nil {
		log.WithError(err).Fatal("failed to migrate database")
	}

	log.Info("database connected and migrated")
}

// Migrate runs the schema migration for every model
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Food{},
		&models.Inventory{},
		&models.Order{},
		&models.OrderItem{},
		&models.Notification{},
	)
}

// SetDB swaps the global handle; used by tests
func SetDB(db *gorm.DB) {
	DB = db
}

// SeedStaffUser provisions a restaurant-role account from env vars. Public
// registration only ever creates customers, so staff accounts enter the
// system here.
func SeedStaffUser() error {
	username := os.Getenv("STAFF_USERNAME")
	password := os.Getenv("STAFF_PASSWORD")
	if username == "" || password == "" {
		log.Debug("skip staff seed: STAFF_USERNAME/STAFF_PASSWORD not set")
		return nil
	}

	var count int64
	DB.Model(&models.User{}).Where("username = ?", username).Count(&count)
	if count > 0 {
		log.WithField("username", username).Info("staff account already exists")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	staff := models.User{
		Username:     username,
		Email:        getEnv("STAFF_EMAIL", username+"@quickbite.local"),
		PasswordHash: string(hash),
	}
	return DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&staff).Error; err != nil {
			return err
		}
		return tx.Create(&models.Profile{UserID: staff.ID, Role: models.RoleRestaurant}).Error
	})
}
