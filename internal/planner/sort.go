package planner

import (
	"errors"
	"fmt"
	"slices"

	"homeplanner/internal/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortField names an item attribute items can be ordered by.
type SortField string

// SortOrder is the direction of a sort.
type SortOrder string

const (
	SortByName      SortField = "name"
	SortByPrice     SortField = "price"
	SortByPriority  SortField = "priority"
	SortByCreatedAt SortField = "createdAt"

	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// Sort errors.
var (
	ErrUnsupportedSortField = errors.New("unsupported sort field")
	ErrUnsupportedSortOrder = errors.New("unsupported sort order")
)

// Sort is a field and direction pair.
type Sort struct {
	Field SortField `json:"field"`
	Order SortOrder `json:"order"`
}

// DefaultSort lists the newest items first.
var DefaultSort = Sort{Field: SortByCreatedAt, Order: Descending}

// Valid reports whether f is a supported field.
func (f SortField) Valid() bool {
	switch f {
	case SortByName, SortByPrice, SortByPriority, SortByCreatedAt:
		return true
	}
	return false
}

// Valid reports whether o is a supported order.
func (o SortOrder) Valid() bool {
	return o == Ascending || o == Descending
}

// ParseSort builds a Sort from raw query values. Empty values fall back to
// DefaultSort's field and order.
func ParseSort(field, order string) (Sort, error) {
	s := DefaultSort
	if field != "" {
		s.Field = SortField(field)
	}
	if order != "" {
		s.Order = SortOrder(order)
	}
	if err := s.validate(); err != nil {
		return Sort{}, err
	}
	return s, nil
}

func (s Sort) validate() error {
	if !s.Field.Valid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedSortField, s.Field)
	}
	if !s.Order.Valid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedSortOrder, s.Order)
	}
	return nil
}

type sortConfig struct {
	lang language.Tag
}

// SortOption configures SortItems.
type SortOption func(*sortConfig)

// WithLanguage sets the collation language used for name ordering.
func WithLanguage(tag language.Tag) SortOption {
	return func(c *sortConfig) { c.lang = tag }
}

// SortItems returns a sorted copy of items. The sort is stable, so equal
// keys keep their input order, and descending order is the exact reverse
// comparison of ascending.
func SortItems(items []models.Item, s Sort, opts ...SortOption) ([]models.Item, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	cfg := sortConfig{lang: language.Und}
	for _, opt := range opts {
		opt(&cfg)
	}

	cmp := comparator(s.Field, cfg)
	if s.Order == Descending {
		asc := cmp
		cmp = func(a, b *models.Item) int { return -asc(a, b) }
	}

	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b models.Item) int { return cmp(&a, &b) })
	return sorted, nil
}

func comparator(field SortField, cfg sortConfig) func(a, b *models.Item) int {
	switch field {
	case SortByName:
		col := collate.New(cfg.lang)
		return func(a, b *models.Item) int { return col.CompareString(a.Name, b.Name) }
	case SortByPrice:
		return func(a, b *models.Item) int { return EffectivePlanned(a).Cmp(EffectivePlanned(b)) }
	case SortByPriority:
		return func(a, b *models.Item) int { return a.Priority - b.Priority }
	default:
		return func(a, b *models.Item) int { return a.CreatedAt.Compare(b.CreatedAt) }
	}
}
