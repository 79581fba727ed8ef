package models

import "github.com/shopspring/decimal"

// Category groups items, e.g. a room of the house. Budget is an optional
// spending cap; without one the category's target is its planned total.
type Category struct {
	Base
	UserID    string           `gorm:"type:uuid;not null;uniqueIndex:idx_categories_user_name" json:"user_id"`
	Name      string           `gorm:"not null;uniqueIndex:idx_categories_user_name" json:"name"`
	Icon      *string          `json:"icon"`
	IsDefault bool             `gorm:"not null;default:false" json:"is_default"`
	Order     int              `gorm:"column:sort_order;not null;default:0" json:"order"`
	Budget    *decimal.Decimal `gorm:"type:numeric(12,2)" json:"budget"`

	// ItemCount is filled in by list queries.
	ItemCount int64 `gorm:"-" json:"item_count"`
}
