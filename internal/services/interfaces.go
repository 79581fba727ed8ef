package services

import (
	"context"

	"github.com/shopspring/decimal"

	"homeplanner/internal/models"
	"homeplanner/internal/nullable"
	"homeplanner/internal/pagination"
	"homeplanner/internal/planner"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(ctx context.Context, email, password, name string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(ctx context.Context, email, password string) (*models.User, error)
	StoreRefreshTokenHash(ctx context.Context, userID, tokenHash string) error
	GetRefreshTokenHash(ctx context.Context, userID string) (string, error)
}

// CategoryInput holds the fields for a new category.
type CategoryInput struct {
	Name   string
	Icon   *string
	Budget *decimal.Decimal
}

// CategoryPatch holds optional category changes. Icon and Budget may be
// set to null to clear them.
type CategoryPatch struct {
	Name   *string
	Icon   nullable.Field[string]
	Budget nullable.Field[decimal.Decimal]
	Order  *int
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	ListCategories(ctx context.Context, userID string) ([]models.Category, error)
	GetCategoryByID(ctx context.Context, userID, categoryID string) (*models.Category, error)
	CreateCategory(ctx context.Context, userID string, in CategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, userID, categoryID string, patch CategoryPatch) (*models.Category, error)
	SetCategoryBudget(ctx context.Context, userID, categoryID string, budget *decimal.Decimal) (*models.Category, error)
	DeleteCategory(ctx context.Context, userID, categoryID string) error
	ReorderCategories(ctx context.Context, userID string, orderedIDs []string) error
	SeedDefaultCategories(ctx context.Context, userID string) (int, error)
}

// ItemInput holds the fields for a new item.
type ItemInput struct {
	Name         string
	Notes        *string
	Priority     int
	PlannedPrice *decimal.Decimal
	CategoryID   *string
	TagIDs       []string
}

// ItemPatch holds optional item changes. Nullable fields distinguish
// "leave alone" from "clear"; a null CategoryID moves the item to
// Uncategorized.
type ItemPatch struct {
	Name         *string
	Notes        nullable.Field[string]
	Priority     *int
	PlannedPrice nullable.Field[decimal.Decimal]
	BoughtPrice  nullable.Field[decimal.Decimal]
	IsBought     *bool
	CategoryID   nullable.Field[string]
}

// ItemQuery selects and orders a user's items.
type ItemQuery struct {
	Criteria planner.Criteria
	Sort     planner.Sort
}

// LinkInput holds the fields for a new purchase link.
type LinkInput struct {
	Store string
	URL   string
	Price decimal.Decimal
	Notes *string
}

// LinkPatch holds optional link changes.
type LinkPatch struct {
	Store *string
	URL   *string
	Price *decimal.Decimal
	Notes nullable.Field[string]
}

// ItemServicer defines the contract for item and purchase-link logic.
type ItemServicer interface {
	ListItems(ctx context.Context, userID string, q ItemQuery) ([]models.Item, error)
	CountItems(ctx context.Context, userID string) (planner.Counts, error)
	GetItemByID(ctx context.Context, userID, itemID string) (*models.Item, error)
	CreateItem(ctx context.Context, userID string, in ItemInput) (*models.Item, error)
	UpdateItem(ctx context.Context, userID, itemID string, patch ItemPatch) (*models.Item, error)
	ToggleBought(ctx context.Context, userID, itemID string) (*models.Item, error)
	DeleteItem(ctx context.Context, userID, itemID string) error
	AddLink(ctx context.Context, userID, itemID string, in LinkInput) (*models.ItemLink, error)
	UpdateLink(ctx context.Context, userID, linkID string, patch LinkPatch) (*models.ItemLink, error)
	DeleteLink(ctx context.Context, userID, linkID string) error
	SelectLink(ctx context.Context, userID, itemID, linkID string) (*models.Item, error)
}

// TagPatch holds optional tag changes.
type TagPatch struct {
	Name  *string
	Color nullable.Field[string]
}

// TagServicer defines the contract for tag-related business logic.
type TagServicer interface {
	ListTags(ctx context.Context, userID string) ([]models.Tag, error)
	CreateTag(ctx context.Context, userID, name string, color *string) (*models.Tag, error)
	UpdateTag(ctx context.Context, userID, tagID string, patch TagPatch) (*models.Tag, error)
	DeleteTag(ctx context.Context, userID, tagID string) error
	AddTagToItem(ctx context.Context, userID, itemID, tagID string) error
	RemoveTagFromItem(ctx context.Context, userID, itemID, tagID string) error
}

// BudgetServicer defines the contract for budget settings and summaries.
type BudgetServicer interface {
	GetSettings(ctx context.Context, userID string) (*models.BudgetSettings, error)
	UpsertSettings(ctx context.Context, userID string, totalBudget decimal.Decimal, currency string) (*models.BudgetSettings, error)
	GetSummary(ctx context.Context, userID string) (*planner.BudgetSummary, error)
}

// SuggestionServicer defines the contract for item-name suggestions.
type SuggestionServicer interface {
	ListSuggestions(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.ItemSuggestion], error)
	SearchSuggestions(ctx context.Context, userID, query string, limit int) ([]models.ItemSuggestion, error)
	CreateSuggestion(ctx context.Context, userID, name string, categoryName *string) (*models.ItemSuggestion, error)
	UseSuggestion(ctx context.Context, userID, suggestionID string) (*models.ItemSuggestion, error)
	SeedSystemSuggestions(ctx context.Context) (int, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(ctx context.Context, userID, action, resourceType, resourceID, ipAddress string, changes map[string]any)
}
