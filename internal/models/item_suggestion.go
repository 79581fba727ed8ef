package models

// ItemSuggestion is autocomplete data for item names. System rows have no
// owner and are shared by everyone.
type ItemSuggestion struct {
	Base
	Name         string  `gorm:"not null;index" json:"name"`
	CategoryName *string `json:"category_name"`
	Icon         *string `json:"icon"`
	IsSystem     bool    `gorm:"not null;default:false" json:"is_system"`
	UsageCount   int     `gorm:"not null;default:0" json:"usage_count"`
	UserID       *string `gorm:"type:uuid;index" json:"user_id"`
}
