package models

import "github.com/shopspring/decimal"

// ItemLink is one purchase option for an item. At most one link per item
// is selected at a time.
type ItemLink struct {
	Base
	ItemID     string          `gorm:"type:uuid;not null;index" json:"item_id"`
	Store      string          `gorm:"not null" json:"store"`
	URL        string          `gorm:"not null" json:"url"`
	Price      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	IsSelected bool            `gorm:"not null;default:false" json:"is_selected"`
	Notes      *string         `json:"notes"`
}
