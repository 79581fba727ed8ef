package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "homeplanner/internal/errors"
	"homeplanner/internal/models"
	"homeplanner/internal/services"
)

type mockCategoryService struct {
	listFn    func(userID string) ([]models.Category, error)
	getFn     func(userID, id string) (*models.Category, error)
	createFn  func(userID string, in services.CategoryInput) (*models.Category, error)
	updateFn  func(userID, id string, patch services.CategoryPatch) (*models.Category, error)
	budgetFn  func(userID, id string, budget *decimal.Decimal) (*models.Category, error)
	deleteFn  func(userID, id string) error
	reorderFn func(userID string, ids []string) error
	seedFn    func(userID string) (int, error)
}

func (m *mockCategoryService) ListCategories(_ context.Context, userID string) ([]models.Category, error) {
	if m.listFn != nil {
		return m.listFn(userID)
	}
	return []models.Category{}, nil
}

func (m *mockCategoryService) GetCategoryByID(_ context.Context, userID, id string) (*models.Category, error) {
	if m.getFn != nil {
		return m.getFn(userID, id)
	}
	return &models.Category{Base: models.Base{ID: id}}, nil
}

func (m *mockCategoryService) CreateCategory(_ context.Context, userID string, in services.CategoryInput) (*models.Category, error) {
	if m.createFn != nil {
		return m.createFn(userID, in)
	}
	return &models.Category{Base: models.Base{ID: testCatID}, UserID: userID, Name: in.Name}, nil
}

func (m *mockCategoryService) UpdateCategory(_ context.Context, userID, id string, patch services.CategoryPatch) (*models.Category, error) {
	if m.updateFn != nil {
		return m.updateFn(userID, id, patch)
	}
	return &models.Category{Base: models.Base{ID: id}}, nil
}

func (m *mockCategoryService) SetCategoryBudget(_ context.Context, userID, id string, budget *decimal.Decimal) (*models.Category, error) {
	if m.budgetFn != nil {
		return m.budgetFn(userID, id, budget)
	}
	return &models.Category{Base: models.Base{ID: id}, Budget: budget}, nil
}

func (m *mockCategoryService) DeleteCategory(_ context.Context, userID, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(userID, id)
	}
	return nil
}

func (m *mockCategoryService) ReorderCategories(_ context.Context, userID string, ids []string) error {
	if m.reorderFn != nil {
		return m.reorderFn(userID, ids)
	}
	return nil
}

func (m *mockCategoryService) SeedDefaultCategories(_ context.Context, userID string) (int, error) {
	if m.seedFn != nil {
		return m.seedFn(userID)
	}
	return 0, nil
}

var _ services.CategoryServicer = (*mockCategoryService)(nil)

func setupCategoryRouter(svc services.CategoryServicer, audit *mockAuditService) *gin.Engine {
	r := gin.New()
	h := NewCategoryHandler(svc, audit)
	g := r.Group("", injectUserID(testUserID))
	g.GET("/categories", h.ListCategories)
	g.POST("/categories", h.CreateCategory)
	g.POST("/categories/seed", h.SeedDefaultCategories)
	g.PUT("/categories/reorder", h.ReorderCategories)
	g.GET("/categories/:id", h.GetCategory)
	g.PATCH("/categories/:id", h.UpdateCategory)
	g.PUT("/categories/:id/budget", h.SetCategoryBudget)
	g.DELETE("/categories/:id", h.DeleteCategory)
	return r
}

func TestCategoryHandler_Create(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var got services.CategoryInput
		svc := &mockCategoryService{
			createFn: func(userID string, in services.CategoryInput) (*models.Category, error) {
				got = in
				return &models.Category{Base: models.Base{ID: testCatID}, UserID: userID, Name: in.Name, Budget: in.Budget}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupCategoryRouter(svc, audit)

		rec := doRequest(r, "POST", "/categories", `{"name":"Kitchen","icon":"🍳","budget":"300.50"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Budget == nil || !got.Budget.Equal(decimal.RequireFromString("300.50")) {
			t.Errorf("expected budget 300.50, got %v", got.Budget)
		}
		if got.Icon == nil || *got.Icon != "🍳" {
			t.Errorf("expected icon to be passed through")
		}
		cat := parseJSON(t, rec)["category"].(map[string]interface{})
		if cat["name"] != "Kitchen" || cat["budget"] != "300.5" {
			t.Errorf("unexpected category %v", cat)
		}
		if len(audit.actions) != 1 || audit.actions[0] != "CREATE_CATEGORY" {
			t.Errorf("expected CREATE_CATEGORY audit, got %v", audit.actions)
		}
	})

	t.Run("returns 400 on missing name or negative budget", func(t *testing.T) {
		r := setupCategoryRouter(&mockCategoryService{}, &mockAuditService{})

		for _, body := range []string{`{}`, `{"name":"Kitchen","budget":"-1"}`} {
			rec := doRequest(r, "POST", "/categories", body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("%s: expected 400, got %d", body, rec.Code)
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		}
	})

	t.Run("returns 409 on duplicate name", func(t *testing.T) {
		svc := &mockCategoryService{
			createFn: func(string, services.CategoryInput) (*models.Category, error) {
				return nil, apperrors.ErrDuplicateCategory
			},
		}
		r := setupCategoryRouter(svc, &mockAuditService{})

		rec := doRequest(r, "POST", "/categories", `{"name":"Kitchen"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_CATEGORY")
	})
}

func TestCategoryHandler_List(t *testing.T) {
	svc := &mockCategoryService{
		listFn: func(userID string) ([]models.Category, error) {
			if userID != testUserID {
				t.Errorf("expected user %s, got %s", testUserID, userID)
			}
			return []models.Category{{Name: "Kitchen", ItemCount: 3}, {Name: "Bathroom"}}, nil
		},
	}
	r := setupCategoryRouter(svc, &mockAuditService{})

	rec := doRequest(r, "GET", "/categories", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	cats := parseJSON(t, rec)["categories"].([]interface{})
	if len(cats) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(cats))
	}
	if cats[0].(map[string]interface{})["item_count"] != float64(3) {
		t.Errorf("expected item_count 3, got %v", cats[0])
	}
}

func TestCategoryHandler_Get(t *testing.T) {
	t.Run("returns 400 for malformed and reserved ids", func(t *testing.T) {
		r := setupCategoryRouter(&mockCategoryService{}, &mockAuditService{})

		for _, id := range []string{"not-a-uuid", "uncategorized"} {
			rec := doRequest(r, "GET", "/categories/"+id, "")
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("%s: expected 400, got %d", id, rec.Code)
			}
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockCategoryService{
			getFn: func(string, string) (*models.Category, error) { return nil, apperrors.ErrCategoryNotFound },
		}
		r := setupCategoryRouter(svc, &mockAuditService{})

		rec := doRequest(r, "GET", "/categories/"+testCatID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CATEGORY_NOT_FOUND")
	})
}

func TestCategoryHandler_Update(t *testing.T) {
	t.Run("distinguishes null from absent", func(t *testing.T) {
		var got services.CategoryPatch
		svc := &mockCategoryService{
			updateFn: func(_, id string, patch services.CategoryPatch) (*models.Category, error) {
				got = patch
				return &models.Category{Base: models.Base{ID: id}}, nil
			},
		}
		r := setupCategoryRouter(svc, &mockAuditService{})

		rec := doRequest(r, "PATCH", "/categories/"+testCatID, `{"budget":null,"order":2}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !got.Budget.IsNull() {
			t.Error("expected budget to be cleared")
		}
		if got.Icon.IsSet() {
			t.Error("expected icon to be left alone")
		}
		if got.Name != nil {
			t.Error("expected name to be left alone")
		}
		if got.Order == nil || *got.Order != 2 {
			t.Errorf("expected order 2, got %v", got.Order)
		}
	})

	t.Run("rejects a negative budget", func(t *testing.T) {
		r := setupCategoryRouter(&mockCategoryService{}, &mockAuditService{})

		rec := doRequest(r, "PATCH", "/categories/"+testCatID, `{"budget":"-5"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestCategoryHandler_SetBudget(t *testing.T) {
	t.Run("sets a budget", func(t *testing.T) {
		var got *decimal.Decimal
		svc := &mockCategoryService{
			budgetFn: func(_, id string, budget *decimal.Decimal) (*models.Category, error) {
				got = budget
				return &models.Category{Base: models.Base{ID: id}, Budget: budget}, nil
			},
		}
		r := setupCategoryRouter(svc, &mockAuditService{})

		rec := doRequest(r, "PUT", "/categories/"+testCatID+"/budget", `{"budget":"0"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got == nil || !got.IsZero() {
			t.Errorf("expected explicit zero budget, got %v", got)
		}
	})

	t.Run("clears a budget with null", func(t *testing.T) {
		called := false
		svc := &mockCategoryService{
			budgetFn: func(_, id string, budget *decimal.Decimal) (*models.Category, error) {
				called = true
				if budget != nil {
					t.Errorf("expected nil budget, got %v", budget)
				}
				return &models.Category{Base: models.Base{ID: id}}, nil
			},
		}
		r := setupCategoryRouter(svc, &mockAuditService{})

		rec := doRequest(r, "PUT", "/categories/"+testCatID+"/budget", `{"budget":null}`)

		if rec.Code != http.StatusOK || !called {
			t.Fatalf("expected 200 and a service call, got %d", rec.Code)
		}
	})
}

func TestCategoryHandler_Delete(t *testing.T) {
	audit := &mockAuditService{}
	var deleted string
	svc := &mockCategoryService{
		deleteFn: func(_, id string) error {
			deleted = id
			return nil
		},
	}
	r := setupCategoryRouter(svc, audit)

	rec := doRequest(r, "DELETE", "/categories/"+testCatID, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if deleted != testCatID {
		t.Errorf("expected %s deleted, got %s", testCatID, deleted)
	}
	if len(audit.actions) != 1 || audit.actions[0] != "DELETE_CATEGORY" {
		t.Errorf("expected DELETE_CATEGORY audit, got %v", audit.actions)
	}
}

func TestCategoryHandler_Reorder(t *testing.T) {
	t.Run("passes ids in order and returns the list", func(t *testing.T) {
		var got []string
		svc := &mockCategoryService{
			reorderFn: func(_ string, ids []string) error {
				got = ids
				return nil
			},
			listFn: func(string) ([]models.Category, error) {
				return []models.Category{{Base: models.Base{ID: testItemID}}, {Base: models.Base{ID: testCatID}}}, nil
			},
		}
		r := setupCategoryRouter(svc, &mockAuditService{})

		rec := doRequest(r, "PUT", "/categories/reorder",
			`{"category_ids":["`+testItemID+`","`+testCatID+`"]}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(got) != 2 || got[0] != testItemID || got[1] != testCatID {
			t.Errorf("unexpected order %v", got)
		}
		if len(parseJSON(t, rec)["categories"].([]interface{})) != 2 {
			t.Error("expected the reordered list")
		}
	})

	t.Run("rejects empty and malformed id lists", func(t *testing.T) {
		r := setupCategoryRouter(&mockCategoryService{}, &mockAuditService{})

		for _, body := range []string{`{"category_ids":[]}`, `{"category_ids":["kitchen"]}`} {
			rec := doRequest(r, "PUT", "/categories/reorder", body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("%s: expected 400, got %d", body, rec.Code)
			}
		}
	})

	t.Run("returns 404 for a foreign id", func(t *testing.T) {
		svc := &mockCategoryService{
			reorderFn: func(string, []string) error { return apperrors.ErrCategoryNotFound },
		}
		r := setupCategoryRouter(svc, &mockAuditService{})

		rec := doRequest(r, "PUT", "/categories/reorder", `{"category_ids":["`+testCatID+`"]}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestCategoryHandler_Seed(t *testing.T) {
	svc := &mockCategoryService{seedFn: func(string) (int, error) { return 8, nil }}
	r := setupCategoryRouter(svc, &mockAuditService{})

	rec := doRequest(r, "POST", "/categories/seed", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if parseJSON(t, rec)["created"] != float64(8) {
		t.Errorf("expected created 8, got %s", rec.Body.String())
	}
}
