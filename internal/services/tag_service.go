package services

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "homeplanner/internal/errors"
	"homeplanner/internal/models"
)

// tagService handles tag-related business logic.
type tagService struct {
	db *gorm.DB
}

// NewTagService creates a new TagServicer.
func NewTagService(db *gorm.DB) TagServicer {
	return &tagService{db: db}
}

// ListTags returns the user's tags by name with item counts.
func (s *tagService) ListTags(ctx context.Context, userID string) ([]models.Tag, error) {
	db := s.db.WithContext(ctx)

	var tags []models.Tag
	if err := db.Where("user_id = ?", userID).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var rows []struct {
		TagID string
		Count int64
	}
	err := db.Model(&models.ItemTag{}).
		Select("item_tags.tag_id, COUNT(*) AS count").
		Joins("JOIN tags ON tags.id = item_tags.tag_id").
		Where("tags.user_id = ?", userID).
		Group("item_tags.tag_id").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.TagID] = r.Count
	}
	for i := range tags {
		tags[i].ItemCount = counts[tags[i].ID]
	}
	return tags, nil
}

func findTag(db *gorm.DB, userID, tagID string) (*models.Tag, error) {
	var tag models.Tag
	if err := db.Where("id = ? AND user_id = ?", tagID, userID).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTagNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &tag, nil
}

func tagNameTaken(db *gorm.DB, userID, name, exceptID string) (bool, error) {
	q := db.Model(&models.Tag{}).Where("user_id = ? AND name = ?", userID, name)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateTag creates a tag. Names are compared after normalisation, so
// "Urgent " and "urgent" collide.
func (s *tagService) CreateTag(ctx context.Context, userID, name string, color *string) (*models.Tag, error) {
	name = models.NormalizeTagName(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Tag name is required")
	}

	db := s.db.WithContext(ctx)
	taken, err := tagNameTaken(db, userID, name, "")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if taken {
		return nil, apperrors.ErrDuplicateTag
	}

	tag := &models.Tag{UserID: userID, Name: name, Color: trimmedPtr(color)}
	if err := db.Create(tag).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return tag, nil
}

// UpdateTag renames or recolours a tag.
func (s *tagService) UpdateTag(ctx context.Context, userID, tagID string, patch TagPatch) (*models.Tag, error) {
	db := s.db.WithContext(ctx)
	tag, err := findTag(db, userID, tagID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if patch.Name != nil {
		name := models.NormalizeTagName(*patch.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Tag name is required")
		}
		taken, err := tagNameTaken(db, userID, name, tag.ID)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if taken {
			return nil, apperrors.ErrDuplicateTag
		}
		updates["name"] = name
	}
	if patch.Color.IsSet() {
		updates["color"] = trimmedPtr(patch.Color.Ptr())
	}

	if len(updates) > 0 {
		if err := db.Model(tag).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return findTag(db, userID, tagID)
}

// DeleteTag removes a tag and detaches it from every item.
func (s *tagService) DeleteTag(ctx context.Context, userID, tagID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findTag(tx, userID, tagID); err != nil {
			return err
		}
		if err := tx.Where("tag_id = ?", tagID).Delete(&models.ItemTag{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(&models.Tag{}, "id = ?", tagID).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// AddTagToItem tags an item. Adding a tag twice is a no-op.
func (s *tagService) AddTagToItem(ctx context.Context, userID, itemID, tagID string) error {
	db := s.db.WithContext(ctx)
	if _, err := findItem(db, userID, itemID); err != nil {
		return err
	}
	if _, err := findTag(db, userID, tagID); err != nil {
		return err
	}
	err := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.ItemTag{ItemID: itemID, TagID: tagID}).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// RemoveTagFromItem untags an item. Removing an absent tag is a no-op.
func (s *tagService) RemoveTagFromItem(ctx context.Context, userID, itemID, tagID string) error {
	db := s.db.WithContext(ctx)
	if _, err := findItem(db, userID, itemID); err != nil {
		return err
	}
	if _, err := findTag(db, userID, tagID); err != nil {
		return err
	}
	if err := db.Where("item_id = ? AND tag_id = ?", itemID, tagID).Delete(&models.ItemTag{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
