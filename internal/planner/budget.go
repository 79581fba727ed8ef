package planner

import (
	"sort"

	"homeplanner/internal/models"
	"homeplanner/internal/uuid"

	"github.com/shopspring/decimal"
)

// Synthetic bucket for items without a (known) category.
const (
	UncategorizedName = "Uncategorized"
	UncategorizedIcon = "📌"
	fallbackCurrency  = "USD"
)

var hundred = decimal.NewFromInt(100)

// CategorySummary is the rollup of one category's items.
type CategorySummary struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Icon         *string          `json:"icon"`
	Budget       *decimal.Decimal `json:"budget"`
	Planned      decimal.Decimal  `json:"planned"`
	Spent        decimal.Decimal  `json:"spent"`
	Remaining    decimal.Decimal  `json:"remaining"`
	PercentSpent float64          `json:"percent_spent"`
	ItemCount    int              `json:"item_count"`
	BoughtCount  int              `json:"bought_count"`
}

// BudgetSummary is the per-category and global view of planned versus
// spent money.
type BudgetSummary struct {
	TotalBudget    decimal.Decimal   `json:"total_budget"`
	TotalPlanned   decimal.Decimal   `json:"total_planned"`
	TotalSpent     decimal.Decimal   `json:"total_spent"`
	Remaining      decimal.Decimal   `json:"remaining"`
	PercentSpent   float64           `json:"percent_spent"`
	PercentPlanned float64           `json:"percent_planned"`
	Currency       string            `json:"currency"`
	HasBudget      bool              `json:"has_budget"`
	Categories     []CategorySummary `json:"categories"`
}

// SummaryOptions tunes Summarize.
type SummaryOptions struct {
	// DefaultCurrency is used when the user has no budget settings.
	// Empty means USD.
	DefaultCurrency string
}

// Summarize builds the budget summary for one user's data.
//
// Named categories are emitted in ascending Order (ties keep input order),
// followed by an Uncategorized bucket when any item has no category or
// points at a category not in the input. Global totals are summed from the
// emitted rollups so they always reconcile.
func Summarize(settings *models.BudgetSettings, categories []models.Category, items []models.Item, opts SummaryOptions) BudgetSummary {
	known := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		known[c.ID] = struct{}{}
	}

	byCategory := make(map[string][]*models.Item, len(categories)+1)
	for i := range items {
		key := uuid.Uncategorized
		if id := items[i].CategoryID; id != nil {
			if _, ok := known[*id]; ok {
				key = *id
			}
		}
		byCategory[key] = append(byCategory[key], &items[i])
	}

	ordered := make([]models.Category, len(categories))
	copy(ordered, categories)
	sort.SliceStable(ordered, func(a, b int) bool { return ordered[a].Order < ordered[b].Order })

	rollups := make([]CategorySummary, 0, len(ordered)+1)
	for _, c := range ordered {
		rollups = append(rollups, rollup(c.ID, c.Name, c.Icon, c.Budget, byCategory[c.ID]))
	}
	if bucket := byCategory[uuid.Uncategorized]; len(bucket) > 0 {
		icon := UncategorizedIcon
		rollups = append(rollups, rollup(uuid.Uncategorized, UncategorizedName, &icon, nil, bucket))
	}

	summary := BudgetSummary{
		TotalPlanned: decimal.Zero,
		TotalSpent:   decimal.Zero,
		Categories:   rollups,
	}
	for _, r := range rollups {
		summary.TotalPlanned = summary.TotalPlanned.Add(r.Planned)
		summary.TotalSpent = summary.TotalSpent.Add(r.Spent)
	}

	if settings != nil {
		summary.TotalBudget = settings.TotalBudget
		summary.HasBudget = true
	} else {
		summary.TotalBudget = summary.TotalPlanned
	}
	summary.Remaining = summary.TotalBudget.Sub(summary.TotalSpent)
	summary.PercentSpent = percent(summary.TotalSpent, summary.TotalBudget)
	summary.PercentPlanned = percent(summary.TotalPlanned, summary.TotalBudget)

	switch {
	case settings != nil && settings.Currency != "":
		summary.Currency = settings.Currency
	case opts.DefaultCurrency != "":
		summary.Currency = opts.DefaultCurrency
	default:
		summary.Currency = fallbackCurrency
	}

	return summary
}

func rollup(id, name string, icon *string, budget *decimal.Decimal, items []*models.Item) CategorySummary {
	r := CategorySummary{
		ID:        id,
		Name:      name,
		Icon:      icon,
		Budget:    budget,
		Planned:   decimal.Zero,
		Spent:     decimal.Zero,
		ItemCount: len(items),
	}
	for _, item := range items {
		r.Planned = r.Planned.Add(EffectivePlanned(item))
		r.Spent = r.Spent.Add(EffectiveSpent(item))
		if item.IsBought {
			r.BoughtCount++
		}
	}
	if budget != nil {
		r.Remaining = budget.Sub(r.Spent)
	} else {
		r.Remaining = r.Planned.Sub(r.Spent)
	}
	r.PercentSpent = percent(r.Spent, r.Planned)
	return r
}

// percent returns part/whole*100, or 0 when whole is not positive.
func percent(part, whole decimal.Decimal) float64 {
	if !whole.IsPositive() {
		return 0
	}
	return part.Mul(hundred).Div(whole).InexactFloat64()
}
