package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "homeplanner/internal/errors"
	"homeplanner/internal/models"
	"homeplanner/internal/planner"
)

// budgetService handles the global budget and summary roll-ups.
type budgetService struct {
	db              *gorm.DB
	defaultCurrency string
}

// NewBudgetService creates a new BudgetServicer. defaultCurrency is used
// for users who never saved budget settings.
func NewBudgetService(db *gorm.DB, defaultCurrency string) BudgetServicer {
	return &budgetService{db: db, defaultCurrency: strings.ToUpper(defaultCurrency)}
}

// GetSettings returns the user's budget settings, or nil when none exist.
func (s *budgetService) GetSettings(ctx context.Context, userID string) (*models.BudgetSettings, error) {
	var settings models.BudgetSettings
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &settings, nil
}

// UpsertSettings creates or replaces the user's global budget.
func (s *budgetService) UpsertSettings(ctx context.Context, userID string, totalBudget decimal.Decimal, currency string) (*models.BudgetSettings, error) {
	if totalBudget.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Budget cannot be negative")
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = s.defaultCurrency
	}

	settings := &models.BudgetSettings{
		UserID:      userID,
		TotalBudget: totalBudget,
		Currency:    currency,
	}
	db := s.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_budget", "currency", "updated_at"}),
	}).Create(settings).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetSettings(ctx, userID)
}

// GetSummary rolls the user's items up into per-category and global totals.
func (s *budgetService) GetSummary(ctx context.Context, userID string) (*planner.BudgetSummary, error) {
	settings, err := s.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var categories []models.Category
	if err := db.Where("user_id = ?", userID).Order("sort_order ASC").Order("created_at ASC").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var items []models.Item
	if err := db.Preload("Links").Where("user_id = ?", userID).Find(&items).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := planner.Summarize(settings, categories, items, planner.SummaryOptions{
		DefaultCurrency: s.defaultCurrency,
	})
	return &summary, nil
}
