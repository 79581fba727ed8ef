package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"homeplanner/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Money parses a decimal literal and returns a pointer to it.
func Money(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithEmail(t, db, fmt.Sprintf("user%d@test.com", nextID()))
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a category with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string) *models.Category {
	t.Helper()
	n := nextID()
	return CreateTestCategoryWith(t, db, userID, fmt.Sprintf("Category %d", n), int(n), nil)
}

// CreateTestCategoryWith creates a category with explicit fields.
func CreateTestCategoryWith(t *testing.T, db *gorm.DB, userID, name string, order int, budget *decimal.Decimal) *models.Category {
	t.Helper()

	cat := &models.Category{
		UserID: userID,
		Name:   name,
		Order:  order,
		Budget: budget,
	}
	if err := db.Create(cat).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return cat
}

// ItemOption customises a fixture item before it is saved.
type ItemOption func(*models.Item)

// WithPlannedPrice sets the planned price.
func WithPlannedPrice(price string) ItemOption {
	return func(i *models.Item) { i.PlannedPrice = Money(price) }
}

// WithCategory places the item in a category.
func WithCategory(categoryID string) ItemOption {
	return func(i *models.Item) { i.CategoryID = &categoryID }
}

// WithBought marks the item bought at price.
func WithBought(price string) ItemOption {
	return func(i *models.Item) {
		i.MarkBought(true, time.Now())
		if price != "" {
			i.BoughtPrice = Money(price)
		}
	}
}

// WithPriority sets the priority.
func WithPriority(p int) ItemOption {
	return func(i *models.Item) { i.Priority = p }
}

// WithName sets the item name.
func WithName(name string) ItemOption {
	return func(i *models.Item) { i.Name = name }
}

// CreateTestItem creates an item owned by userID.
func CreateTestItem(t *testing.T, db *gorm.DB, userID string, opts ...ItemOption) *models.Item {
	t.Helper()

	item := &models.Item{
		UserID:   userID,
		Name:     fmt.Sprintf("Item %d", nextID()),
		Priority: models.PriorityMedium,
	}
	for _, opt := range opts {
		opt(item)
	}
	if err := db.Omit("Tags", "Links", "Category").Create(item).Error; err != nil {
		t.Fatalf("failed to create test item: %v", err)
	}
	return item
}

// CreateTestLink creates a purchase link for an item.
func CreateTestLink(t *testing.T, db *gorm.DB, itemID, price string, selected bool) *models.ItemLink {
	t.Helper()

	link := &models.ItemLink{
		ItemID:     itemID,
		Store:      fmt.Sprintf("Store %d", nextID()),
		URL:        "https://example.com/product",
		Price:      decimal.RequireFromString(price),
		IsSelected: selected,
	}
	if err := db.Create(link).Error; err != nil {
		t.Fatalf("failed to create test link: %v", err)
	}
	return link
}

// CreateTestTag creates a tag with a unique name.
func CreateTestTag(t *testing.T, db *gorm.DB, userID string) *models.Tag {
	t.Helper()

	tag := &models.Tag{
		UserID: userID,
		Name:   fmt.Sprintf("tag-%d", nextID()),
	}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("failed to create test tag: %v", err)
	}
	return tag
}

// TagItem attaches a tag to an item.
func TagItem(t *testing.T, db *gorm.DB, itemID, tagID string) {
	t.Helper()

	if err := db.Create(&models.ItemTag{ItemID: itemID, TagID: tagID}).Error; err != nil {
		t.Fatalf("failed to tag item: %v", err)
	}
}

// CreateTestSuggestion creates a suggestion. An empty userID makes it a
// system suggestion.
func CreateTestSuggestion(t *testing.T, db *gorm.DB, userID, name string, usage int) *models.ItemSuggestion {
	t.Helper()

	s := &models.ItemSuggestion{Name: name, UsageCount: usage, IsSystem: userID == ""}
	if userID != "" {
		s.UserID = &userID
	}
	if err := db.Create(s).Error; err != nil {
		t.Fatalf("failed to create test suggestion: %v", err)
	}
	return s
}
