package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "homeplanner/internal/errors"
	"homeplanner/internal/logger"
	"homeplanner/internal/models"
	"homeplanner/internal/pagination"
)

const (
	defaultSuggestionLimit = 10
	maxSuggestionLimit     = 50
)

// suggestionService handles item-name autocomplete data.
type suggestionService struct {
	db *gorm.DB
}

// NewSuggestionService creates a new SuggestionServicer.
func NewSuggestionService(db *gorm.DB) SuggestionServicer {
	return &suggestionService{db: db}
}

// visibleTo limits a query to system suggestions plus the user's own.
func visibleTo(userID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("is_system = ? OR user_id = ?", true, userID)
	}
}

// ListSuggestions pages through every suggestion visible to the user,
// most used first.
func (s *suggestionService) ListSuggestions(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.ItemSuggestion], error) {
	page.Defaults()
	db := s.db.WithContext(ctx).Model(&models.ItemSuggestion{}).Scopes(visibleTo(userID))

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var suggestions []models.ItemSuggestion
	if err := db.Scopes(pagination.Paginate(page)).
		Order("usage_count DESC").Order("name ASC").
		Find(&suggestions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(suggestions, page.Page, page.PageSize, total)
	return &resp, nil
}

// SearchSuggestions matches names containing query, case-insensitively,
// most used first.
func (s *suggestionService) SearchSuggestions(ctx context.Context, userID, query string, limit int) ([]models.ItemSuggestion, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.ItemSuggestion{}, nil
	}
	if limit <= 0 {
		limit = defaultSuggestionLimit
	}
	if limit > maxSuggestionLimit {
		limit = maxSuggestionLimit
	}

	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	var suggestions []models.ItemSuggestion
	err := s.db.WithContext(ctx).
		Scopes(visibleTo(userID)).
		Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern).
		Order("usage_count DESC").Order("name ASC").
		Limit(limit).
		Find(&suggestions).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return suggestions, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// CreateSuggestion records a personal suggestion for the user.
func (s *suggestionService) CreateSuggestion(ctx context.Context, userID, name string, categoryName *string) (*models.ItemSuggestion, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Suggestion name is required")
	}
	suggestion := &models.ItemSuggestion{
		Name:         name,
		CategoryName: trimmedPtr(categoryName),
		UserID:       &userID,
	}
	if err := s.db.WithContext(ctx).Create(suggestion).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return suggestion, nil
}

// UseSuggestion bumps a suggestion's usage count.
func (s *suggestionService) UseSuggestion(ctx context.Context, userID, suggestionID string) (*models.ItemSuggestion, error) {
	db := s.db.WithContext(ctx)
	res := db.Model(&models.ItemSuggestion{}).
		Where("id = ?", suggestionID).
		Scopes(visibleTo(userID)).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
	if res.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.ErrSuggestionNotFound
	}

	var suggestion models.ItemSuggestion
	if err := db.First(&suggestion, "id = ?", suggestionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSuggestionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &suggestion, nil
}

// SeedSystemSuggestions inserts the built-in suggestions that are not yet
// present and returns how many were added.
func (s *suggestionService) SeedSystemSuggestions(ctx context.Context) (int, error) {
	db := s.db.WithContext(ctx)

	var existing []string
	if err := db.Model(&models.ItemSuggestion{}).Where("is_system = ?", true).Pluck("name", &existing).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	have := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		have[name] = struct{}{}
	}

	var missing []models.ItemSuggestion
	for _, d := range models.DefaultSuggestions {
		if _, ok := have[d.Name]; ok {
			continue
		}
		category := d.Category
		missing = append(missing, models.ItemSuggestion{
			Name:         d.Name,
			CategoryName: &category,
			IsSystem:     true,
		})
	}
	if len(missing) == 0 {
		return 0, nil
	}

	if err := db.CreateInBatches(&missing, 50).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	logger.Named("suggestions").Infow("Seeded system suggestions", "count", len(missing))
	return len(missing), nil
}
