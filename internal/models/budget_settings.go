package models

import "github.com/shopspring/decimal"

// BudgetSettings is the user's global budget. There is at most one row per user.
type BudgetSettings struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	TotalBudget decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_budget"`
	Currency    string          `gorm:"size:3;not null" json:"currency"`
}

// TableName pins the table name; gorm would otherwise guess at the plural.
func (BudgetSettings) TableName() string { return "budget_settings" }
