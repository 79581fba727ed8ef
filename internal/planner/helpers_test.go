package planner

import (
	"time"

	"homeplanner/internal/models"

	"github.com/shopspring/decimal"
)

var epoch = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func moneyPtr(s string) *decimal.Decimal {
	d := money(s)
	return &d
}

func strPtr(s string) *string { return &s }

type itemOpt func(*models.Item)

func newItem(id string, opts ...itemOpt) models.Item {
	it := models.Item{Name: id, Priority: models.PriorityMedium}
	it.ID = id
	it.CreatedAt = epoch
	for _, opt := range opts {
		opt(&it)
	}
	return it
}

func planned(s string) itemOpt { return func(i *models.Item) { i.PlannedPrice = moneyPtr(s) } }

func bought(price string) itemOpt {
	return func(i *models.Item) {
		i.IsBought = true
		if price != "" {
			i.BoughtPrice = moneyPtr(price)
		}
	}
}

func inCategory(id string) itemOpt { return func(i *models.Item) { i.CategoryID = strPtr(id) } }

func link(id, price string, selected bool) itemOpt {
	return func(i *models.Item) {
		l := models.ItemLink{ItemID: i.ID, Store: "store", URL: "https://example.com/" + id, Price: money(price), IsSelected: selected}
		l.ID = id
		i.Links = append(i.Links, l)
	}
}

func tagged(ids ...string) itemOpt {
	return func(i *models.Item) {
		for _, id := range ids {
			t := models.Tag{Name: id}
			t.ID = id
			i.Tags = append(i.Tags, t)
		}
	}
}

func createdAt(offset time.Duration) itemOpt {
	return func(i *models.Item) { i.CreatedAt = epoch.Add(offset) }
}

func named(name string) itemOpt { return func(i *models.Item) { i.Name = name } }

func priority(p int) itemOpt { return func(i *models.Item) { i.Priority = p } }

func notes(n string) itemOpt { return func(i *models.Item) { i.Notes = strPtr(n) } }

func category(id, name string, order int, budget *decimal.Decimal) models.Category {
	c := models.Category{Name: name, Order: order, Budget: budget}
	c.ID = id
	return c
}

func ids(items []models.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
