package planner

import (
	"slices"
	"strings"

	"homeplanner/internal/models"
	"homeplanner/internal/nullable"

	"golang.org/x/text/cases"
)

// Criteria narrows an item collection. Every present field must match.
//
// CategoryID is tri-state: absent means any category, null means only
// uncategorized items, and a value means exactly that category.
type Criteria struct {
	IsBought   *bool
	CategoryID nullable.Field[string]
	Priority   *int
	TagIDs     []string
	Search     string
}

// HasActiveFilters reports whether c constrains anything.
func HasActiveFilters(c Criteria) bool {
	return c.IsBought != nil ||
		c.CategoryID.IsSet() ||
		c.Priority != nil ||
		len(c.TagIDs) > 0 ||
		c.Search != ""
}

// FilterItems returns the items matching c, in their original order.
// The input slice is not modified.
func FilterItems(items []models.Item, c Criteria) []models.Item {
	if !HasActiveFilters(c) {
		return slices.Clone(items)
	}

	m := newMatcher(c)
	out := make([]models.Item, 0, len(items))
	for i := range items {
		if m.match(&items[i]) {
			out = append(out, items[i])
		}
	}
	return out
}

type matcher struct {
	c      Criteria
	tags   map[string]struct{}
	fold   cases.Caser
	search string
}

func newMatcher(c Criteria) *matcher {
	m := &matcher{c: c, fold: cases.Fold()}
	if len(c.TagIDs) > 0 {
		m.tags = make(map[string]struct{}, len(c.TagIDs))
		for _, id := range c.TagIDs {
			m.tags[id] = struct{}{}
		}
	}
	if c.Search != "" {
		m.search = m.fold.String(c.Search)
	}
	return m
}

func (m *matcher) match(item *models.Item) bool {
	if m.c.IsBought != nil && item.IsBought != *m.c.IsBought {
		return false
	}

	if m.c.CategoryID.IsSet() {
		want, ok := m.c.CategoryID.Get()
		if !ok {
			if item.CategoryID != nil {
				return false
			}
		} else if item.CategoryID == nil || *item.CategoryID != want {
			return false
		}
	}

	if m.c.Priority != nil && item.Priority != *m.c.Priority {
		return false
	}

	if m.tags != nil && !m.hasAnyTag(item) {
		return false
	}

	if m.search != "" && !m.matchesSearch(item) {
		return false
	}

	return true
}

func (m *matcher) hasAnyTag(item *models.Item) bool {
	for _, t := range item.Tags {
		if _, ok := m.tags[t.ID]; ok {
			return true
		}
	}
	return false
}

func (m *matcher) matchesSearch(item *models.Item) bool {
	if m.contains(item.Name) {
		return true
	}
	if item.Notes != nil && m.contains(*item.Notes) {
		return true
	}
	return item.Category != nil && m.contains(item.Category.Name)
}

func (m *matcher) contains(s string) bool {
	return strings.Contains(m.fold.String(s), m.search)
}
