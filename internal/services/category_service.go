package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "homeplanner/internal/errors"
	"homeplanner/internal/models"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// seedDefaultCategories gives a user the default category set. Users who
// already have categories are left alone.
func seedDefaultCategories(tx *gorm.DB, userID string) (int, error) {
	var count int64
	if err := tx.Model(&models.Category{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	categories := make([]models.Category, len(models.DefaultCategories))
	for i, d := range models.DefaultCategories {
		categories[i] = models.Category{
			UserID:    userID,
			Name:      d.Name,
			IsDefault: true,
			Order:     d.Order,
		}
	}
	if err := tx.Create(&categories).Error; err != nil {
		return 0, err
	}
	return len(categories), nil
}

// ListCategories returns the user's categories in display order with
// their item counts.
func (s *categoryService) ListCategories(ctx context.Context, userID string) ([]models.Category, error) {
	db := s.db.WithContext(ctx)

	var categories []models.Category
	if err := db.Where("user_id = ?", userID).Order("sort_order ASC").Order("created_at ASC").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var rows []struct {
		CategoryID string
		Count      int64
	}
	err := db.Model(&models.Item{}).
		Select("category_id, COUNT(*) AS count").
		Where("user_id = ? AND category_id IS NOT NULL", userID).
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.CategoryID] = r.Count
	}
	for i := range categories {
		categories[i].ItemCount = counts[categories[i].ID]
	}
	return categories, nil
}

func (s *categoryService) findCategory(db *gorm.DB, userID, categoryID string) (*models.Category, error) {
	var category models.Category
	if err := db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// GetCategoryByID retrieves a category owned by the user.
func (s *categoryService) GetCategoryByID(ctx context.Context, userID, categoryID string) (*models.Category, error) {
	category, err := s.findCategory(s.db.WithContext(ctx), userID, categoryID)
	if err != nil {
		return nil, err
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Item{}).
		Where("user_id = ? AND category_id = ?", userID, categoryID).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	category.ItemCount = count
	return category, nil
}

func (s *categoryService) nameTaken(db *gorm.DB, userID, name, exceptID string) (bool, error) {
	q := db.Model(&models.Category{}).Where("user_id = ? AND name = ?", userID, name)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateCategory adds a category at the end of the user's list.
func (s *categoryService) CreateCategory(ctx context.Context, userID string, in CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Category name is required")
	}
	if !nonNegative(in.Budget) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Budget cannot be negative")
	}

	category := &models.Category{
		UserID: userID,
		Name:   name,
		Icon:   trimmedPtr(in.Icon),
		Budget: in.Budget,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := s.nameTaken(tx, userID, name, "")
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if taken {
			return apperrors.ErrDuplicateCategory
		}

		var maxOrder int
		if err := tx.Model(&models.Category{}).
			Where("user_id = ?", userID).
			Select("COALESCE(MAX(sort_order), 0)").
			Scan(&maxOrder).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		category.Order = maxOrder + 1

		if err := tx.Create(category).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory applies a partial update.
func (s *categoryService) UpdateCategory(ctx context.Context, userID, categoryID string, patch CategoryPatch) (*models.Category, error) {
	db := s.db.WithContext(ctx)
	category, err := s.findCategory(db, userID, categoryID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Category name is required")
		}
		taken, err := s.nameTaken(db, userID, name, categoryID)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if taken {
			return nil, apperrors.ErrDuplicateCategory
		}
		updates["name"] = name
	}
	if patch.Icon.IsSet() {
		updates["icon"] = patch.Icon.Ptr()
	}
	if patch.Budget.IsSet() {
		if !nonNegative(patch.Budget.Ptr()) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Budget cannot be negative")
		}
		updates["budget"] = patch.Budget.Ptr()
	}
	if patch.Order != nil {
		updates["sort_order"] = *patch.Order
	}

	if len(updates) > 0 {
		if err := db.Model(category).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return s.GetCategoryByID(ctx, userID, categoryID)
}

// SetCategoryBudget sets or, with nil, clears a category's budget cap.
func (s *categoryService) SetCategoryBudget(ctx context.Context, userID, categoryID string, budget *decimal.Decimal) (*models.Category, error) {
	return s.UpdateCategory(ctx, userID, categoryID, CategoryPatch{Budget: nullableDecimal(budget)})
}

// DeleteCategory removes a category. Its items become uncategorized.
func (s *categoryService) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.findCategory(tx, userID, categoryID); err != nil {
			return err
		}
		if err := tx.Model(&models.Item{}).
			Where("user_id = ? AND category_id = ?", userID, categoryID).
			Update("category_id", nil).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Where("id = ? AND user_id = ?", categoryID, userID).Delete(&models.Category{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// ReorderCategories assigns positions 1..n in the given order. Repeated ids
// are INVALID_INPUT; an id the user does not own is CATEGORY_NOT_FOUND and
// nothing changes.
func (s *categoryService) ReorderCategories(ctx context.Context, userID string, orderedIDs []string) error {
	seen := make(map[string]struct{}, len(orderedIDs))
	for _, id := range orderedIDs {
		if _, dup := seen[id]; dup {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "Category ids must be unique")
		}
		seen[id] = struct{}{}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range orderedIDs {
			res := tx.Model(&models.Category{}).
				Where("id = ? AND user_id = ?", id, userID).
				Update("sort_order", i+1)
			if res.Error != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
			}
			if res.RowsAffected == 0 {
				return apperrors.ErrCategoryNotFound
			}
		}
		return nil
	})
}

// SeedDefaultCategories creates the default categories for a user who has
// none and reports how many were created.
func (s *categoryService) SeedDefaultCategories(ctx context.Context, userID string) (int, error) {
	var created int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := seedDefaultCategories(tx, userID)
		created = n
		return err
	})
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return created, nil
}
