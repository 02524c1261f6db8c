package database

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pharmaline/pos-api/internal/config"
	"github.com/pharmaline/pos-api/internal/domain/entity"
	"github.com/pharmaline/pos-api/pkg/utils"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// Store and user entities
		&entity.Store{},
		&entity.User{},

		// Product-related entities
		&entity.Category{},
		&entity.Product{},
		&entity.ProductBatch{},

		// Contact entities
		&entity.Customer{},
		&entity.Supplier{},

		// Transaction entities
		&entity.Sale{},
		&entity.SaleItem{},
		&entity.SaleReturn{},
		&entity.SaleReturnItem{},
		&entity.Purchase{},
		&entity.PurchaseItem{},

		// System entities
		&entity.HeldOrderSlot{},
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData seeds the database with a default store, its walk-in
// customer, and a super admin user when configured via environment variables.
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	storeName := viper.GetString("DEFAULT_STORE_NAME")
	if storeName == "" {
		storeName = "Main Pharmacy"
	}

	var store entity.Store
	if err := db.Where("slug = ?", utils.Slugify(storeName)).First(&store).Error; err != nil {
		store = entity.Store{
			Name:     storeName,
			Slug:     utils.Slugify(storeName),
			Settings: entity.DefaultStoreSettings(),
		}
		if err := db.Create(&store).Error; err != nil {
			return fmt.Errorf("failed to create default store: %w", err)
		}
		log.Printf("Default store created: %s", store.Name)
	}

	// Every store carries one walk-in customer for anonymous sales
	var walkIn entity.Customer
	if err := db.Where("store_id = ? AND is_walk_in = ?", store.ID, true).First(&walkIn).Error; err != nil {
		walkIn = entity.Customer{
			StoreID:  store.ID,
			Name:     entity.WalkInCustomerName,
			IsWalkIn: true,
		}
		if err := db.Create(&walkIn).Error; err != nil {
			log.Printf("Warning: failed to create walk-in customer: %v", err)
		}
	}

	adminEmail := viper.GetString("ADMIN_EMAIL")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	adminName := viper.GetString("ADMIN_NAME")

	if adminEmail != "" && adminPassword != "" {
		var existingAdmin entity.User
		if err := db.Where("email = ?", adminEmail).First(&existingAdmin).Error; err != nil {
			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
			if err != nil {
				log.Printf("Warning: failed to hash admin password: %v", err)
			} else {
				if adminName == "" {
					adminName = "Super Admin"
				}
				firstName := adminName
				lastName := ""
				for i, c := range adminName {
					if c == ' ' {
						firstName = adminName[:i]
						lastName = adminName[i+1:]
						break
					}
				}
				adminUser := entity.User{
					StoreID:   store.ID,
					FirstName: firstName,
					LastName:  lastName,
					Email:     adminEmail,
					Password:  string(hashedPassword),
					Role:      entity.RoleSuperAdmin,
				}
				if err := db.Create(&adminUser).Error; err != nil {
					log.Printf("Warning: failed to create super admin user: %v", err)
				} else {
					log.Printf("Super admin user created: %s", adminEmail)
				}
			}
		} else {
			log.Printf("Super admin user already exists: %s", adminEmail)
		}
	}

	log.Println("Default data seeding completed")
	return nil
}
