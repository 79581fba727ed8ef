// Package planner holds the pure derived-data rules of the purchase
// planner: price resolution, budget aggregation, and item filtering and
// sorting. Nothing here performs I/O; callers hand in user-scoped data that
// has already been loaded.
package planner

import (
	"homeplanner/internal/models"

	"github.com/shopspring/decimal"
)

// SelectedLink returns the item's selected purchase link, or nil.
func SelectedLink(item *models.Item) *models.ItemLink {
	for i := range item.Links {
		if item.Links[i].IsSelected {
			return &item.Links[i]
		}
	}
	return nil
}

// EffectivePlanned is what the item is expected to cost: the selected
// link's price, else the planned price, else zero. A selected link priced
// at zero still wins over the planned price.
func EffectivePlanned(item *models.Item) decimal.Decimal {
	if link := SelectedLink(item); link != nil {
		return link.Price
	}
	if item.PlannedPrice != nil {
		return *item.PlannedPrice
	}
	return decimal.Zero
}

// EffectiveSpent is what the item actually cost. Items not yet bought, and
// bought items with no recorded price, contribute zero.
func EffectiveSpent(item *models.Item) decimal.Decimal {
	if !item.IsBought || item.BoughtPrice == nil {
		return decimal.Zero
	}
	return *item.BoughtPrice
}

// LowestLinkPrice returns the cheapest link price, or nil if the item has
// no links.
func LowestLinkPrice(item *models.Item) *decimal.Decimal {
	if len(item.Links) == 0 {
		return nil
	}
	lowest := item.Links[0].Price
	for _, link := range item.Links[1:] {
		if link.Price.LessThan(lowest) {
			lowest = link.Price
		}
	}
	return &lowest
}
