package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"homeplanner/internal/models"
	"homeplanner/internal/planner"
	"homeplanner/internal/services"
)

type mockBudgetService struct {
	getSettingsFn    func(userID string) (*models.BudgetSettings, error)
	upsertSettingsFn func(userID string, total decimal.Decimal, currency string) (*models.BudgetSettings, error)
	getSummaryFn     func(userID string) (*planner.BudgetSummary, error)
}

func (m *mockBudgetService) GetSettings(_ context.Context, userID string) (*models.BudgetSettings, error) {
	if m.getSettingsFn != nil {
		return m.getSettingsFn(userID)
	}
	return nil, nil
}

func (m *mockBudgetService) UpsertSettings(_ context.Context, userID string, total decimal.Decimal, currency string) (*models.BudgetSettings, error) {
	if m.upsertSettingsFn != nil {
		return m.upsertSettingsFn(userID, total, currency)
	}
	return &models.BudgetSettings{UserID: userID, TotalBudget: total, Currency: currency}, nil
}

func (m *mockBudgetService) GetSummary(_ context.Context, userID string) (*planner.BudgetSummary, error) {
	if m.getSummaryFn != nil {
		return m.getSummaryFn(userID)
	}
	return &planner.BudgetSummary{}, nil
}

var _ services.BudgetServicer = (*mockBudgetService)(nil)

func setupBudgetRouter(svc services.BudgetServicer, audit *mockAuditService) *gin.Engine {
	r := gin.New()
	h := NewBudgetHandler(svc, audit)
	g := r.Group("", injectUserID(testUserID))
	g.GET("/budget/settings", h.GetSettings)
	g.PUT("/budget/settings", h.UpsertSettings)
	g.GET("/budget/summary", h.GetSummary)
	return r
}

func TestBudgetHandler_GetSettings(t *testing.T) {
	t.Run("returns null before any settings exist", func(t *testing.T) {
		r := setupBudgetRouter(&mockBudgetService{}, &mockAuditService{})

		rec := doRequest(r, "GET", "/budget/settings", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if v, ok := result["settings"]; !ok || v != nil {
			t.Errorf("expected settings null, got %v", result)
		}
	})

	t.Run("returns stored settings", func(t *testing.T) {
		svc := &mockBudgetService{
			getSettingsFn: func(userID string) (*models.BudgetSettings, error) {
				return &models.BudgetSettings{UserID: userID, TotalBudget: decimal.NewFromInt(5000), Currency: "EUR"}, nil
			},
		}
		r := setupBudgetRouter(svc, &mockAuditService{})

		rec := doRequest(r, "GET", "/budget/settings", "")

		settings := parseJSON(t, rec)["settings"].(map[string]interface{})
		if settings["total_budget"] != "5000" || settings["currency"] != "EUR" {
			t.Errorf("unexpected settings %v", settings)
		}
	})
}

func TestBudgetHandler_UpsertSettings(t *testing.T) {
	t.Run("saves settings", func(t *testing.T) {
		var gotTotal decimal.Decimal
		var gotCurrency string
		svc := &mockBudgetService{
			upsertSettingsFn: func(userID string, total decimal.Decimal, currency string) (*models.BudgetSettings, error) {
				gotTotal, gotCurrency = total, currency
				return &models.BudgetSettings{UserID: userID, TotalBudget: total, Currency: "EUR"}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupBudgetRouter(svc, audit)

		rec := doRequest(r, "PUT", "/budget/settings", `{"total_budget":"2500.75","currency":"EUR"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !gotTotal.Equal(decimal.RequireFromString("2500.75")) || gotCurrency != "EUR" {
			t.Errorf("unexpected input %s %s", gotTotal, gotCurrency)
		}
		if len(audit.actions) != 1 || audit.actions[0] != "UPDATE_BUDGET_SETTINGS" {
			t.Errorf("unexpected audit trail %v", audit.actions)
		}
	})

	t.Run("rejects negative totals and unknown currencies", func(t *testing.T) {
		r := setupBudgetRouter(&mockBudgetService{}, &mockAuditService{})

		for _, body := range []string{
			`{"total_budget":"-1"}`,
			`{"total_budget":"10","currency":"XYZ"}`,
		} {
			rec := doRequest(r, "PUT", "/budget/settings", body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("%s: expected 400, got %d", body, rec.Code)
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		}
	})
}

func TestBudgetHandler_GetSummary(t *testing.T) {
	svc := &mockBudgetService{
		getSummaryFn: func(string) (*planner.BudgetSummary, error) {
			return &planner.BudgetSummary{
				TotalBudget:  decimal.NewFromInt(1000),
				TotalPlanned: decimal.NewFromInt(280),
				TotalSpent:   decimal.NewFromInt(140),
				Remaining:    decimal.NewFromInt(860),
				PercentSpent: 14,
				Currency:     "EUR",
				HasBudget:    true,
				Categories:   []planner.CategorySummary{},
			}, nil
		},
	}
	r := setupBudgetRouter(svc, &mockAuditService{})

	rec := doRequest(r, "GET", "/budget/summary", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	summary := parseJSON(t, rec)["summary"].(map[string]interface{})
	if summary["remaining"] != "860" || summary["percent_spent"] != float64(14) || summary["has_budget"] != true {
		t.Errorf("unexpected summary %v", summary)
	}
}
