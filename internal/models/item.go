package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Priority levels for items.
const (
	PriorityLow    = 1
	PriorityMedium = 2
	PriorityHigh   = 3
)

// Item is something the user plans to buy.
type Item struct {
	Base
	UserID       string           `gorm:"type:uuid;not null;index" json:"user_id"`
	Name         string           `gorm:"not null" json:"name"`
	Notes        *string          `json:"notes"`
	Priority     int              `gorm:"not null;default:2" json:"priority"`
	PlannedPrice *decimal.Decimal `gorm:"type:numeric(12,2)" json:"planned_price"`
	BoughtPrice  *decimal.Decimal `gorm:"type:numeric(12,2)" json:"bought_price"`
	IsBought     bool             `gorm:"not null;default:false;index" json:"is_bought"`
	BoughtAt     *time.Time       `json:"bought_at"`
	CategoryID   *string          `gorm:"type:uuid;index" json:"category_id"`

	// Relationships
	Category *Category  `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Tags     []Tag      `gorm:"many2many:item_tags" json:"tags"`
	Links    []ItemLink `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"links"`
}

// MarkBought flips the bought flag and keeps BoughtAt in step with it.
func (i *Item) MarkBought(bought bool, now time.Time) {
	if bought == i.IsBought {
		return
	}
	i.IsBought = bought
	if bought {
		i.BoughtAt = &now
	} else {
		i.BoughtAt = nil
	}
}
