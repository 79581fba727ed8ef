package models

import "strings"

// Tag is a free-form label. Names are stored trimmed and lower-cased.
type Tag struct {
	Base
	UserID string  `gorm:"type:uuid;not null;uniqueIndex:idx_tags_user_name" json:"user_id"`
	Name   string  `gorm:"not null;uniqueIndex:idx_tags_user_name" json:"name"`
	Color  *string `json:"color"`

	ItemCount int64 `gorm:"-" json:"item_count,omitempty"`
}

// NormalizeTagName returns the canonical stored form of a tag name.
func NormalizeTagName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
