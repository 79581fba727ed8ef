package planner

import (
	"homeplanner/internal/models"
	"homeplanner/internal/uuid"
)

// FilterAndSort filters items by c and orders the result by s.
func FilterAndSort(items []models.Item, c Criteria, s Sort, opts ...SortOption) ([]models.Item, error) {
	return SortItems(FilterItems(items, c), s, opts...)
}

// Counts are badge totals for each filter option.
type Counts struct {
	Bought     int            `json:"bought"`
	NotBought  int            `json:"not_bought"`
	ByCategory map[string]int `json:"by_category"`
	ByPriority map[int]int    `json:"by_priority"`
	ByTag      map[string]int `json:"by_tag"`
}

// FilterCounts tallies the whole collection in one pass. Callers pass the
// unfiltered items so badges show totals rather than the current view.
func FilterCounts(items []models.Item) Counts {
	counts := Counts{
		ByCategory: make(map[string]int),
		ByPriority: map[int]int{
			models.PriorityLow:    0,
			models.PriorityMedium: 0,
			models.PriorityHigh:   0,
		},
		ByTag: make(map[string]int),
	}

	for i := range items {
		item := &items[i]
		if item.IsBought {
			counts.Bought++
		} else {
			counts.NotBought++
		}
		counts.ByCategory[categoryKey(item)]++
		counts.ByPriority[item.Priority]++
		for _, t := range item.Tags {
			counts.ByTag[t.ID]++
		}
	}
	return counts
}

// GroupByCategory buckets items by category id, using the uncategorized
// id for items without one. Order within a bucket follows the input.
func GroupByCategory(items []models.Item) map[string][]models.Item {
	groups := make(map[string][]models.Item)
	for i := range items {
		key := categoryKey(&items[i])
		groups[key] = append(groups[key], items[i])
	}
	return groups
}

// GroupByBoughtStatus splits items into those still to buy and those bought.
func GroupByBoughtStatus(items []models.Item) (toBuy, bought []models.Item) {
	for i := range items {
		if items[i].IsBought {
			bought = append(bought, items[i])
		} else {
			toBuy = append(toBuy, items[i])
		}
	}
	return toBuy, bought
}

func categoryKey(item *models.Item) string {
	if item.CategoryID == nil {
		return uuid.Uncategorized
	}
	return *item.CategoryID
}
