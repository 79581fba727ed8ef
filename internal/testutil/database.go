// Package testutil provides test helpers for setting up in-memory databases,
// creating fixtures, and making assertions.
package testutil

import (
	"fmt"
	"testing"

	"homeplanner/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// allModels is the list of all GORM models to auto-migrate in tests.
var allModels = []interface{}{
	&models.User{},
	&models.Category{},
	&models.Tag{},
	&models.Item{},
	&models.ItemTag{},
	&models.ItemLink{},
	&models.BudgetSettings{},
	&models.ItemSuggestion{},
	&models.AuditLog{},
}

// OpenTestDB opens a fresh named in-memory SQLite database with all models
// migrated. The name keeps parallel or sequential tests from sharing state.
func OpenTestDB(name string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open test database: %w", err)
	}
	if err := models.SetupJoinTables(db); err != nil {
		return nil, fmt.Errorf("set up join tables: %w", err)
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		return nil, fmt.Errorf("migrate test database: %w", err)
	}
	// Mirrors the partial index in migrations/000001_init.up.sql.
	if err := db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_item_links_selected ON item_links (item_id) WHERE is_selected").Error; err != nil {
		return nil, fmt.Errorf("create selected link index: %w", err)
	}
	return db, nil
}

// SetupTestDB creates an in-memory SQLite database with all models migrated.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := OpenTestDB(fmt.Sprintf("testdb%d", nextID()))
	if err != nil {
		t.Fatalf("failed to set up test database: %v", err)
	}
	return db
}

// TeardownTestDB closes the underlying database connection.
func TeardownTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()

	sqlDB, err := db.DB()
	if err != nil {
		t.Errorf("failed to get underlying DB for teardown: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Errorf("failed to close test database: %v", err)
	}
}
