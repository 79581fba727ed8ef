package services

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "homeplanner/internal/errors"
	"homeplanner/internal/models"
	"homeplanner/internal/planner"
	"homeplanner/internal/uuid"
)

// itemService handles items and their purchase links.
type itemService struct {
	db       *gorm.DB
	sortOpts []planner.SortOption
	now      func() time.Time
}

// NewItemService creates a new ItemServicer. Sort options (such as the
// collation language) apply to every listing.
func NewItemService(db *gorm.DB, sortOpts ...planner.SortOption) ItemServicer {
	return &itemService{db: db, sortOpts: sortOpts, now: time.Now}
}

// hydrate preloads everything the planner reads from an item.
func hydrate(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Category").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name ASC") }).
		Preload("Links", func(db *gorm.DB) *gorm.DB { return db.Order("item_links.created_at ASC") })
}

func (s *itemService) loadItems(ctx context.Context, userID string) ([]models.Item, error) {
	var items []models.Item
	if err := hydrate(s.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return items, nil
}

// ListItems returns the user's items narrowed and ordered by q. A zero
// sort means newest first.
func (s *itemService) ListItems(ctx context.Context, userID string, q ItemQuery) ([]models.Item, error) {
	items, err := s.loadItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	sort := q.Sort
	if sort == (planner.Sort{}) {
		sort = planner.DefaultSort
	}

	result, err := planner.FilterAndSort(items, q.Criteria, sort, s.sortOpts...)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.WithMessage(apperrors.ErrInvalidSort, err.Error()), err)
	}
	return result, nil
}

// CountItems returns badge counts over all of the user's items.
func (s *itemService) CountItems(ctx context.Context, userID string) (planner.Counts, error) {
	items, err := s.loadItems(ctx, userID)
	if err != nil {
		return planner.Counts{}, err
	}
	return planner.FilterCounts(items), nil
}

func findItem(db *gorm.DB, userID, itemID string) (*models.Item, error) {
	var item models.Item
	if err := db.Where("id = ? AND user_id = ?", itemID, userID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrItemNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &item, nil
}

// GetItemByID retrieves a fully hydrated item owned by the user.
func (s *itemService) GetItemByID(ctx context.Context, userID, itemID string) (*models.Item, error) {
	return findItem(hydrate(s.db.WithContext(ctx)), userID, itemID)
}

func checkCategory(db *gorm.DB, userID string, categoryID *string) error {
	if categoryID == nil {
		return nil
	}
	if uuid.IsReserved(*categoryID) {
		return apperrors.ErrCategoryNotFound
	}
	var count int64
	if err := db.Model(&models.Category{}).Where("id = ? AND user_id = ?", *categoryID, userID).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}

func checkTags(db *gorm.DB, userID string, tagIDs []string) error {
	if len(tagIDs) == 0 {
		return nil
	}
	var count int64
	if err := db.Model(&models.Tag{}).Where("id IN ? AND user_id = ?", tagIDs, userID).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if int(count) != len(tagIDs) {
		return apperrors.ErrTagNotFound
	}
	return nil
}

func validPriority(p int) bool {
	return p >= models.PriorityLow && p <= models.PriorityHigh
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// CreateItem adds an item, optionally tagged, in one transaction.
func (s *itemService) CreateItem(ctx context.Context, userID string, in ItemInput) (*models.Item, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Item name is required")
	}
	priority := in.Priority
	if priority == 0 {
		priority = models.PriorityMedium
	}
	if !validPriority(priority) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Priority must be 1, 2 or 3")
	}
	if !nonNegative(in.PlannedPrice) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Planned price cannot be negative")
	}
	tagIDs := dedupe(in.TagIDs)

	item := &models.Item{
		UserID:       userID,
		Name:         name,
		Notes:        trimmedPtr(in.Notes),
		Priority:     priority,
		PlannedPrice: in.PlannedPrice,
		CategoryID:   in.CategoryID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkCategory(tx, userID, in.CategoryID); err != nil {
			return err
		}
		if err := checkTags(tx, userID, tagIDs); err != nil {
			return err
		}
		if err := tx.Omit("Category", "Tags", "Links").Create(item).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		for _, tagID := range tagIDs {
			if err := tx.Create(&models.ItemTag{ItemID: item.ID, TagID: tagID}).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetItemByID(ctx, userID, item.ID)
}

// UpdateItem applies a partial update. Changing IsBought keeps BoughtAt in
// step; a null CategoryID moves the item to Uncategorized.
func (s *itemService) UpdateItem(ctx context.Context, userID, itemID string, patch ItemPatch) (*models.Item, error) {
	db := s.db.WithContext(ctx)
	item, err := findItem(db, userID, itemID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Item name is required")
		}
		updates["name"] = name
	}
	if patch.Notes.IsSet() {
		updates["notes"] = trimmedPtr(patch.Notes.Ptr())
	}
	if patch.Priority != nil {
		if !validPriority(*patch.Priority) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Priority must be 1, 2 or 3")
		}
		updates["priority"] = *patch.Priority
	}
	if patch.PlannedPrice.IsSet() {
		if !nonNegative(patch.PlannedPrice.Ptr()) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Planned price cannot be negative")
		}
		updates["planned_price"] = patch.PlannedPrice.Ptr()
	}
	if patch.BoughtPrice.IsSet() {
		if !nonNegative(patch.BoughtPrice.Ptr()) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Bought price cannot be negative")
		}
		updates["bought_price"] = patch.BoughtPrice.Ptr()
	}
	if patch.IsBought != nil && *patch.IsBought != item.IsBought {
		item.MarkBought(*patch.IsBought, s.now())
		updates["is_bought"] = item.IsBought
		updates["bought_at"] = item.BoughtAt
	}
	if patch.CategoryID.IsSet() {
		categoryID := patch.CategoryID.Ptr()
		if err := checkCategory(db, userID, categoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = categoryID
	}

	if len(updates) > 0 {
		if err := db.Model(item).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return s.GetItemByID(ctx, userID, itemID)
}

// ToggleBought flips the bought flag, stamping or clearing BoughtAt.
func (s *itemService) ToggleBought(ctx context.Context, userID, itemID string) (*models.Item, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := findItem(tx, userID, itemID)
		if err != nil {
			return err
		}
		item.MarkBought(!item.IsBought, s.now())
		if err := tx.Model(item).Updates(map[string]any{
			"is_bought": item.IsBought,
			"bought_at": item.BoughtAt,
		}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetItemByID(ctx, userID, itemID)
}

// DeleteItem removes an item together with its links and tag assignments.
func (s *itemService) DeleteItem(ctx context.Context, userID, itemID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findItem(tx, userID, itemID); err != nil {
			return err
		}
		if err := tx.Where("item_id = ?", itemID).Delete(&models.ItemTag{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Where("item_id = ?", itemID).Delete(&models.ItemLink{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(&models.Item{}, "id = ?", itemID).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

func validLinkURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// AddLink attaches a purchase link. An item's first link starts selected.
func (s *itemService) AddLink(ctx context.Context, userID, itemID string, in LinkInput) (*models.ItemLink, error) {
	store := strings.TrimSpace(in.Store)
	rawURL := strings.TrimSpace(in.URL)
	if store == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Store is required")
	}
	if !validLinkURL(rawURL) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "A valid http(s) URL is required")
	}
	if in.Price.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Price cannot be negative")
	}

	link := &models.ItemLink{
		ItemID: itemID,
		Store:  store,
		URL:    rawURL,
		Price:  in.Price,
		Notes:  trimmedPtr(in.Notes),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findItem(tx, userID, itemID); err != nil {
			return err
		}
		var existing int64
		if err := tx.Model(&models.ItemLink{}).Where("item_id = ?", itemID).Count(&existing).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		link.IsSelected = existing == 0
		return createLink(tx, link)
	})
	if err != nil {
		return nil, err
	}
	return link, nil
}

// createLink inserts link inside tx. A selected insert that loses the
// item's single selected slot to a concurrent first link is stored
// unselected instead.
func createLink(tx *gorm.DB, link *models.ItemLink) error {
	err := tx.Transaction(func(sp *gorm.DB) error {
		return sp.Create(link).Error
	})
	if err != nil && link.IsSelected && errors.Is(err, gorm.ErrDuplicatedKey) {
		link.IsSelected = false
		err = tx.Create(link).Error
	}
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// findLink loads a link, checking ownership through its item.
func findLink(db *gorm.DB, userID, linkID string) (*models.ItemLink, error) {
	var link models.ItemLink
	err := db.Joins("JOIN items ON items.id = item_links.item_id").
		Where("item_links.id = ? AND items.user_id = ?", linkID, userID).
		First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrLinkNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &link, nil
}

// UpdateLink applies a partial update to a link. Selection is changed only
// through SelectLink.
func (s *itemService) UpdateLink(ctx context.Context, userID, linkID string, patch LinkPatch) (*models.ItemLink, error) {
	db := s.db.WithContext(ctx)
	link, err := findLink(db, userID, linkID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if patch.Store != nil {
		store := strings.TrimSpace(*patch.Store)
		if store == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Store is required")
		}
		updates["store"] = store
	}
	if patch.URL != nil {
		rawURL := strings.TrimSpace(*patch.URL)
		if !validLinkURL(rawURL) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "A valid http(s) URL is required")
		}
		updates["url"] = rawURL
	}
	if patch.Price != nil {
		if patch.Price.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Price cannot be negative")
		}
		updates["price"] = *patch.Price
	}
	if patch.Notes.IsSet() {
		updates["notes"] = trimmedPtr(patch.Notes.Ptr())
	}

	if len(updates) > 0 {
		if err := db.Model(&models.ItemLink{}).Where("id = ?", link.ID).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return findLink(db, userID, linkID)
}

// DeleteLink removes a link. Deleting the selected link leaves the item
// with no selection, so its planned price applies again.
func (s *itemService) DeleteLink(ctx context.Context, userID, linkID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		link, err := findLink(tx, userID, linkID)
		if err != nil {
			return err
		}
		if err := tx.Delete(&models.ItemLink{}, "id = ?", link.ID).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// SelectLink makes linkID the item's only selected link. Clearing and
// setting happen in one transaction; a link that is not the item's rolls
// the whole change back.
func (s *itemService) SelectLink(ctx context.Context, userID, itemID, linkID string) (*models.Item, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findItem(tx, userID, itemID); err != nil {
			return err
		}
		if err := tx.Model(&models.ItemLink{}).
			Where("item_id = ?", itemID).
			Update("is_selected", false).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		res := tx.Model(&models.ItemLink{}).
			Where("id = ? AND item_id = ?", linkID, itemID).
			Update("is_selected", true)
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}
		if res.RowsAffected != 1 {
			return apperrors.ErrLinkNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetItemByID(ctx, userID, itemID)
}
