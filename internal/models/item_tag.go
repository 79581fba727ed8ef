package models

import (
	"time"

	"gorm.io/gorm"
)

// ItemTag is the join row between items and tags.
type ItemTag struct {
	ItemID    string    `gorm:"type:uuid;primaryKey" json:"item_id"`
	TagID     string    `gorm:"type:uuid;primaryKey" json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`
}

// SetupJoinTables registers ItemTag as the join model for Item.Tags.
// It must run before any association query on tags.
func SetupJoinTables(db *gorm.DB) error {
	return db.SetupJoinTable(&Item{}, "Tags", &ItemTag{})
}
