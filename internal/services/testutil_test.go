// internal/services/testutil_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/procurex/orders-backend/internal/config"
	"github.com/procurex/orders-backend/internal/models"
	"github.com/procurex/orders-backend/internal/tasks"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// In-memory sqlite gives every pooled connection its own database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.PasswordResetToken{},
		&models.Contact{},
		&models.Shop{},
		&models.Category{},
		&models.Product{},
		&models.ProductInfo{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.AuditLog{},
	)
	require.NoError(t, err)

	return db
}

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
		},
		Email: config.EmailConfig{
			FromEmail:  "noreply@orders.test",
			FromName:   "Orders",
			AdminEmail: "admin@orders.test",
		},
		Export: config.ExportConfig{
			Dir: t.TempDir(),
		},
		Tasks: config.TasksConfig{
			Workers:   1,
			QueueSize: 16,
		},
		Site: config.SiteConfig{
			BaseURL: "http://localhost:8080",
		},
	}
}

func newTestQueue() *tasks.Queue {
	return tasks.NewQueue(1, 16)
}

func createTestUser(t *testing.T, db *gorm.DB, email string, role models.UserRole) *models.User {
	t.Helper()

	user := &models.User{
		Email:     email,
		FirstName: "Test",
		Role:      role,
		IsActive:  true,
	}
	require.NoError(t, user.SetPassword("password1"))
	require.NoError(t, db.Create(user).Error)
	return user
}

// createTestListing builds the full chain shop -> category -> product ->
// listing and returns the listing.
func createTestListing(t *testing.T, db *gorm.DB, shopName, productName string, price float64, quantity int) *models.ProductInfo {
	t.Helper()

	var shop models.Shop
	if err := db.Where("name = ?", shopName).First(&shop).Error; err != nil {
		shop = models.Shop{Name: shopName, State: true}
		require.NoError(t, db.Create(&shop).Error)
	}

	var category models.Category
	if err := db.Where("name = ?", "test-category").First(&category).Error; err != nil {
		category = models.Category{Name: "test-category"}
		require.NoError(t, db.Create(&category).Error)
	}

	product := models.Product{Name: productName, CategoryID: category.ID}
	require.NoError(t, db.Create(&product).Error)

	listing := models.ProductInfo{
		ProductID: product.ID,
		ShopID:    shop.ID,
		Model:     "base",
		Price:     price,
		Quantity:  quantity,
	}
	require.NoError(t, db.Create(&listing).Error)
	return &listing
}

func listingQuantity(t *testing.T, db *gorm.DB, listingID uuid.UUID) int {
	t.Helper()

	var listing models.ProductInfo
	require.NoError(t, db.First(&listing, "id = ?", listingID).Error)
	return listing.Quantity
}

func orderStatus(t *testing.T, db *gorm.DB, orderID uuid.UUID) models.OrderStatus {
	t.Helper()

	var order models.Order
	require.NoError(t, db.First(&order, "id = ?", orderID).Error)
	return order.Status
}
