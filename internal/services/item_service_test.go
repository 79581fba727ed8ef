package services

import (
	"context"
	"testing"

	"homeplanner/internal/models"
	"homeplanner/internal/nullable"
	"homeplanner/internal/planner"
	"homeplanner/internal/testutil"
	"homeplanner/internal/uuid"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func intPtr(i int) *int                { return &i }
func boolPtr(b bool) *bool             { return &b }
func decPtr(s string) *decimal.Decimal { return testutil.Money(s) }

func selectedCount(item *models.Item) int {
	n := 0
	for _, l := range item.Links {
		if l.IsSelected {
			n++
		}
	}
	return n
}

func TestCreateItem(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewItemService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)
		tag := testutil.CreateTestTag(t, db, user.ID)

		item, err := svc.CreateItem(ctx, user.ID, ItemInput{
			Name:         " Sofa ",
			PlannedPrice: decPtr("1200"),
			CategoryID:   &cat.ID,
			TagIDs:       []string{tag.ID, tag.ID},
		})
		testutil.AssertNoError(t, err)

		if item.Name != "Sofa" {
			t.Errorf("expected trimmed name, got %q", item.Name)
		}
		if item.Priority != models.PriorityMedium {
			t.Errorf("expected default priority %d, got %d", models.PriorityMedium, item.Priority)
		}
		if item.Category == nil || item.Category.ID != cat.ID {
			t.Error("expected category to be preloaded")
		}
		if len(item.Tags) != 1 || item.Tags[0].ID != tag.ID {
			t.Errorf("expected one tag, got %d", len(item.Tags))
		}
		if item.IsBought || item.BoughtAt != nil {
			t.Error("new items start unbought")
		}
	})

	t.Run("invalid_input", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewItemService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateItem(ctx, user.ID, ItemInput{Name: ""})
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.CreateItem(ctx, user.ID, ItemInput{Name: "X", Priority: 4})
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.CreateItem(ctx, user.ID, ItemInput{Name: "X", PlannedPrice: decPtr("-5")})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("foreign_category_or_tag", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewItemService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, other.ID)
		tag := testutil.CreateTestTag(t, db, other.ID)

		_, err := svc.CreateItem(ctx, user.ID, ItemInput{Name: "X", CategoryID: &cat.ID})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")

		_, err = svc.CreateItem(ctx, user.ID, ItemInput{Name: "X", TagIDs: []string{tag.ID}})
		testutil.AssertAppError(t, err, "TAG_NOT_FOUND")

		reserved := uuid.Uncategorized
		_, err = svc.CreateItem(ctx, user.ID, ItemInput{Name: "X", CategoryID: &reserved})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")

		var count int64
		db.Model(&models.Item{}).Count(&count)
		if count != 0 {
			t.Errorf("expected no items created, got %d", count)
		}
	})
}

func TestListItems(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewItemService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	cat := testutil.CreateTestCategory(t, db, user.ID)

	lamp := testutil.CreateTestItem(t, db, user.ID, testutil.WithName("Lamp"), testutil.WithPlannedPrice("40"), testutil.WithCategory(cat.ID))
	bed := testutil.CreateTestItem(t, db, user.ID, testutil.WithName("Bed"), testutil.WithPlannedPrice("900"), testutil.WithBought("850"))
	testutil.CreateTestItem(t, db, user.ID, testutil.WithName("Chair"), testutil.WithPlannedPrice("120"), testutil.WithCategory(cat.ID))
	testutil.CreateTestItem(t, db, other.ID, testutil.WithName("Foreign"))
	testutil.CreateTestLink(t, db, lamp.ID, "35", true)

	t.Run("only_own_items", func(t *testing.T) {
		items, err := svc.ListItems(ctx, user.ID, ItemQuery{})
		testutil.AssertNoError(t, err)
		if len(items) != 3 {
			t.Fatalf("expected 3 items, got %d", len(items))
		}
	})

	t.Run("filter_and_sort_by_price", func(t *testing.T) {
		items, err := svc.ListItems(ctx, user.ID, ItemQuery{
			Criteria: planner.Criteria{CategoryID: nullable.Of(cat.ID)},
			Sort:     planner.Sort{Field: planner.SortByPrice, Order: planner.Ascending},
		})
		testutil.AssertNoError(t, err)
		if len(items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(items))
		}
		if items[0].Name != "Lamp" || items[1].Name != "Chair" {
			t.Errorf("unexpected order %s, %s", items[0].Name, items[1].Name)
		}
		if len(items[0].Links) != 1 {
			t.Error("expected links to be preloaded")
		}
	})

	t.Run("uncategorized", func(t *testing.T) {
		items, err := svc.ListItems(ctx, user.ID, ItemQuery{
			Criteria: planner.Criteria{CategoryID: nullable.Null[string]()},
		})
		testutil.AssertNoError(t, err)
		if len(items) != 1 || items[0].ID != bed.ID {
			t.Errorf("expected only the uncategorized item, got %d items", len(items))
		}
	})

	t.Run("invalid_sort", func(t *testing.T) {
		_, err := svc.ListItems(ctx, user.ID, ItemQuery{Sort: planner.Sort{Field: "weight", Order: planner.Ascending}})
		testutil.AssertAppError(t, err, "INVALID_SORT")
	})

	t.Run("counts", func(t *testing.T) {
		counts, err := svc.CountItems(ctx, user.ID)
		testutil.AssertNoError(t, err)
		if counts.Bought != 1 || counts.NotBought != 2 {
			t.Errorf("unexpected bought counts %d/%d", counts.Bought, counts.NotBought)
		}
		if counts.ByCategory[cat.ID] != 2 {
			t.Errorf("expected 2 in category, got %d", counts.ByCategory[cat.ID])
		}
	})
}

func TestUpdateItem(t *testing.T) {
	ctx := context.Background()

	t.Run("partial", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewItemService(db)
		user := testutil.CreateTestUser(t, db)
		item := testutil.CreateTestItem(t, db, user.ID, testutil.WithName("Desk"), testutil.WithPlannedPrice("300"))

		updated, err := svc.UpdateItem(ctx, user.ID, item.ID, ItemPatch{
			Priority: intPtr(models.PriorityHigh),
			Notes:    nullable.Of("oak"),
		})
		testutil.AssertNoError(t, err)

		if updated.Name != "Desk" {
			t.Errorf("name should be untouched, got %q", updated.Name)
		}
		if updated.Priority != models.PriorityHigh {
			t.Errorf("expected priority high, got %d", updated.Priority)
		}
		testutil.AssertMoney(t, "300", *updated.PlannedPrice)
	})

	t.Run("null_category_and_price", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewItemService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)
		item := testutil.CreateTestItem(t, db, user.ID, testutil.WithCategory(cat.ID), testutil.WithPlannedPrice("10"))

		updated, err := svc.UpdateItem(ctx, user.ID, item.ID, ItemPatch{
			CategoryID:   nullable.Null[string](),
			PlannedPrice: nullable.Null[decimal.Decimal](),
		})
		testutil.AssertNoError(t, err)

		if updated.CategoryID != nil {
			t.Errorf("expected category cleared, got %s", *updated.CategoryID)
		}
		if updated.PlannedPrice != nil {
			t.Errorf("expected planned price cleared, got %s", updated.PlannedPrice)
		}
	})

	t.Run("bought_flag_sets_timestamp", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewItemService(db)
		user := testutil.CreateTestUser(t, db)
		item := testutil.CreateTestItem(t, db, user.ID)

		updated, err := svc.UpdateItem(ctx, user.ID, item.ID, ItemPatch{
			IsBought:    boolPtr(true),
			BoughtPrice: nullable.Of(decimal.RequireFromString("99.90")),
		})
		testutil.AssertNoError(t, err)
		if !updated.IsBought || updated.BoughtAt == nil {
			t.Error("expected item bought with timestamp")
		}
		testutil.AssertMoney(t, "99.9", *updated.BoughtPrice)
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewItemService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		item := testutil.CreateTestItem(t, db, other.ID)

		_, err := svc.UpdateItem(ctx, user.ID, item.ID, ItemPatch{Name: strPtr("Mine")})
		testutil.AssertAppError(t, err, "ITEM_NOT_FOUND")
	})
}

func TestToggleBought(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewItemService(db)
	user := testutil.CreateTestUser(t, db)
	item := testutil.CreateTestItem(t, db, user.ID)

	toggled, err := svc.ToggleBought(ctx, user.ID, item.ID)
	testutil.AssertNoError(t, err)
	if !toggled.IsBought || toggled.BoughtAt == nil {
		t.Fatal("expected item to be bought with a timestamp")
	}

	toggled, err = svc.ToggleBought(ctx, user.ID, item.ID)
	testutil.AssertNoError(t, err)
	if toggled.IsBought || toggled.BoughtAt != nil {
		t.Error("expected item back to unbought with no timestamp")
	}
}

func TestDeleteItem(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewItemService(db)
	user := testutil.CreateTestUser(t, db)
	item := testutil.CreateTestItem(t, db, user.ID)
	tag := testutil.CreateTestTag(t, db, user.ID)
	testutil.TagItem(t, db, item.ID, tag.ID)
	testutil.CreateTestLink(t, db, item.ID, "10", true)

	testutil.AssertNoError(t, svc.DeleteItem(ctx, user.ID, item.ID))

	var links, tags int64
	db.Model(&models.ItemLink{}).Where("item_id = ?", item.ID).Count(&links)
	db.Model(&models.ItemTag{}).Where("item_id = ?", item.ID).Count(&tags)
	if links != 0 || tags != 0 {
		t.Errorf("expected dependents removed, got %d links and %d tags", links, tags)
	}

	_, err := svc.GetItemByID(ctx, user.ID, item.ID)
	testutil.AssertAppError(t, err, "ITEM_NOT_FOUND")
}

func TestLinks(t *testing.T) {
	ctx := context.Background()

	t.Run("first_link_is_selected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewItemService(db)
		user := testutil.CreateTestUser(t, db)
		item := testutil.CreateTestItem(t, db, user.ID)

		first, err := svc.AddLink(ctx, user.ID, item.ID, LinkInput{Store: " IKEA ", URL: "https://ikea.example/sofa", Price: decimal.RequireFromString("899")})
		testutil.AssertNoError(t, err)
		second, err := svc.AddLink(ctx, user.ID, item.ID, LinkInput{Store: "Etsy", URL: "https://etsy.example/sofa", Price: decimal.RequireFromString("950")})
		testutil.AssertNoError(t, err)

		if !first.IsSelected || second.IsSelected {
			t.Errorf("expected only the first link selected, got %v/%v", first.IsSelected, second.IsSelected)
		}
		if first.Store != "IKEA" {
			t.Errorf("expected trimmed store, got %q", first.Store)
		}
	})

	t.Run("concurrent_first_link_stored_unselected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		item := testutil.CreateTestItem(t, db, user.ID)
		winner := testutil.CreateTestLink(t, db, item.ID, "899", true)

		// The loser counted zero links before the winner committed.
		loser := &models.ItemLink{ItemID: item.ID, Store: "Etsy", URL: "https://etsy.example/sofa", Price: decimal.RequireFromString("950"), IsSelected: true}
		err := db.Transaction(func(tx *gorm.DB) error { return createLink(tx, loser) })
		testutil.AssertNoError(t, err)

		if loser.IsSelected {
			t.Error("expected the losing link to be stored unselected")
		}
		var links []models.ItemLink
		db.Where("item_id = ?", item.ID).Find(&links)
		if len(links) != 2 {
			t.Fatalf("expected 2 links, got %d", len(links))
		}
		for _, l := range links {
			if l.IsSelected != (l.ID == winner.ID) {
				t.Errorf("link %s selected=%v, want only %s selected", l.ID, l.IsSelected, winner.ID)
			}
		}
	})

	t.Run("invalid_link", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewItemService(db)
		user := testutil.CreateTestUser(t, db)
		item := testutil.CreateTestItem(t, db, user.ID)

		cases := []LinkInput{
			{Store: "", URL: "https://a.example", Price: decimal.Zero},
			{Store: "A", URL: "ftp://a.example", Price: decimal.Zero},
			{Store: "A", URL: "not a url", Price: decimal.Zero},
			{Store: "A", URL: "https://a.example", Price: decimal.RequireFromString("-1")},
		}
		for _, in := range cases {
			_, err := svc.AddLink(ctx, user.ID, item.ID, in)
			testutil.AssertAppError(t, err, "INVALID_INPUT")
		}
	})

	t.Run("select_leaves_exactly_one", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewItemService(db)
		user := testutil.CreateTestUser(t, db)
		item := testutil.CreateTestItem(t, db, user.ID, testutil.WithPlannedPrice("1000"))
		testutil.CreateTestLink(t, db, item.ID, "899", true)
		cheaper := testutil.CreateTestLink(t, db, item.ID, "850", false)

		updated, err := svc.SelectLink(ctx, user.ID, item.ID, cheaper.ID)
		testutil.AssertNoError(t, err)

		if n := selectedCount(updated); n != 1 {
			t.Fatalf("expected exactly one selected link, got %d", n)
		}
		testutil.AssertMoney(t, "850", planner.EffectivePlanned(updated))
	})

	t.Run("select_foreign_link_rolls_back", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewItemService(db)
		user := testutil.CreateTestUser(t, db)
		item := testutil.CreateTestItem(t, db, user.ID)
		otherItem := testutil.CreateTestItem(t, db, user.ID)
		current := testutil.CreateTestLink(t, db, item.ID, "10", true)
		elsewhere := testutil.CreateTestLink(t, db, otherItem.ID, "5", true)

		_, err := svc.SelectLink(ctx, user.ID, item.ID, elsewhere.ID)
		testutil.AssertAppError(t, err, "LINK_NOT_FOUND")

		reloaded, err := svc.GetItemByID(ctx, user.ID, item.ID)
		testutil.AssertNoError(t, err)
		if sel := planner.SelectedLink(reloaded); sel == nil || sel.ID != current.ID {
			t.Error("expected original selection to survive")
		}
	})

	t.Run("update_link", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewItemService(db)
		user := testutil.CreateTestUser(t, db)
		item := testutil.CreateTestItem(t, db, user.ID)
		link := testutil.CreateTestLink(t, db, item.ID, "10", true)

		price := decimal.RequireFromString("12.50")
		updated, err := svc.UpdateLink(ctx, user.ID, link.ID, LinkPatch{Price: &price, Notes: nullable.Of("sale")})
		testutil.AssertNoError(t, err)
		testutil.AssertMoney(t, "12.5", updated.Price)
		if updated.Notes == nil || *updated.Notes != "sale" {
			t.Errorf("expected notes set, got %v", updated.Notes)
		}
		if !updated.IsSelected {
			t.Error("update must not change selection")
		}

		other := testutil.CreateTestUser(t, db)
		_, err = svc.UpdateLink(ctx, other.ID, link.ID, LinkPatch{Price: &price})
		testutil.AssertAppError(t, err, "LINK_NOT_FOUND")
	})

	t.Run("delete_selected_link", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewItemService(db)
		user := testutil.CreateTestUser(t, db)
		item := testutil.CreateTestItem(t, db, user.ID, testutil.WithPlannedPrice("200"))
		selected := testutil.CreateTestLink(t, db, item.ID, "150", true)
		testutil.CreateTestLink(t, db, item.ID, "170", false)

		testutil.AssertNoError(t, svc.DeleteLink(ctx, user.ID, selected.ID))

		reloaded, err := svc.GetItemByID(ctx, user.ID, item.ID)
		testutil.AssertNoError(t, err)
		if selectedCount(reloaded) != 0 {
			t.Error("expected no selected link after deleting the selection")
		}
		testutil.AssertMoney(t, "200", planner.EffectivePlanned(reloaded))

		err = svc.DeleteLink(ctx, user.ID, selected.ID)
		testutil.AssertAppError(t, err, "LINK_NOT_FOUND")
	})
}
