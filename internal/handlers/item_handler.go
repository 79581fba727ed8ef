package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "homeplanner/internal/errors"
	"homeplanner/internal/models"
	"homeplanner/internal/nullable"
	"homeplanner/internal/pagination"
	"homeplanner/internal/planner"
	"homeplanner/internal/services"
	"homeplanner/internal/uuid"
)

// ItemHandler handles item and purchase-link requests.
type ItemHandler struct {
	itemService  services.ItemServicer
	auditService services.AuditServicer
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(itemService services.ItemServicer, auditService services.AuditServicer) *ItemHandler {
	return &ItemHandler{itemService: itemService, auditService: auditService}
}

// CreateItemRequest represents the request payload for creating an item
type CreateItemRequest struct {
	Name         string           `json:"name" binding:"required,min=1,max=200"`
	Notes        *string          `json:"notes" binding:"omitempty,max=2000"`
	Priority     int              `json:"priority" binding:"omitempty,priority"`
	PlannedPrice *decimal.Decimal `json:"planned_price" swaggertype:"string" binding:"omitempty,gte=0"`
	CategoryID   *string          `json:"category_id" binding:"omitempty,uuid"`
	TagIDs       []string         `json:"tag_ids" binding:"omitempty,dive,uuid"`
}

// UpdateItemRequest represents a partial item update. Nullable fields
// accept null to clear them; a null category_id moves the item to
// Uncategorized.
type UpdateItemRequest struct {
	Name         *string                         `json:"name" binding:"omitempty,min=1,max=200"`
	Notes        nullable.Field[string]          `json:"notes" swaggertype:"string"`
	Priority     *int                            `json:"priority" binding:"omitempty,priority"`
	PlannedPrice nullable.Field[decimal.Decimal] `json:"planned_price" swaggertype:"string" binding:"omitempty,gte=0"`
	BoughtPrice  nullable.Field[decimal.Decimal] `json:"bought_price" swaggertype:"string" binding:"omitempty,gte=0"`
	IsBought     *bool                           `json:"is_bought"`
	CategoryID   nullable.Field[string]          `json:"category_id" swaggertype:"string" binding:"omitempty,uuid"`
}

// CreateLinkRequest represents a new purchase link
type CreateLinkRequest struct {
	Store string          `json:"store" binding:"required,min=1,max=100"`
	URL   string          `json:"url" binding:"required,url,max=2048"`
	Price decimal.Decimal `json:"price" swaggertype:"string" binding:"gte=0"`
	Notes *string         `json:"notes" binding:"omitempty,max=500"`
}

// UpdateLinkRequest represents a partial link update
type UpdateLinkRequest struct {
	Store *string                `json:"store" binding:"omitempty,min=1,max=100"`
	URL   *string                `json:"url" binding:"omitempty,url,max=2048"`
	Price *decimal.Decimal       `json:"price" swaggertype:"string" binding:"omitempty,gte=0"`
	Notes nullable.Field[string] `json:"notes" swaggertype:"string"`
}

// ItemResponse is an item plus the prices derived from its links.
type ItemResponse struct {
	models.Item
	EffectivePrice decimal.Decimal  `json:"effective_price"`
	LowestPrice    *decimal.Decimal `json:"lowest_price"`
	SelectedLink   *models.ItemLink `json:"selected_link"`
}

func toItemResponse(item *models.Item) ItemResponse {
	if item.Tags == nil {
		item.Tags = []models.Tag{}
	}
	if item.Links == nil {
		item.Links = []models.ItemLink{}
	}
	return ItemResponse{
		Item:           *item,
		EffectivePrice: planner.EffectivePlanned(item),
		LowestPrice:    planner.LowestLinkPrice(item),
		SelectedLink:   planner.SelectedLink(item),
	}
}

func toItemResponses(items []models.Item) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i := range items {
		out[i] = toItemResponse(&items[i])
	}
	return out
}

// parseItemQuery turns list query parameters into a service query.
func parseItemQuery(c *gin.Context) (services.ItemQuery, error) {
	var q services.ItemQuery

	if raw := c.Query("is_bought"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return q, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid is_bought")
		}
		q.Criteria.IsBought = &b
	}

	if raw := c.Query("category_id"); raw != "" {
		switch {
		case raw == uuid.Uncategorized:
			q.Criteria.CategoryID = nullable.Null[string]()
		case uuid.IsValid(raw):
			q.Criteria.CategoryID = nullable.Of(raw)
		default:
			return q, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid category_id")
		}
	}

	if raw := c.Query("priority"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil || p < models.PriorityLow || p > models.PriorityHigh {
			return q, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid priority")
		}
		q.Criteria.Priority = &p
	}

	for _, id := range splitList(c.Query("tag_ids")) {
		if !uuid.IsValid(id) {
			return q, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid tag_ids")
		}
		q.Criteria.TagIDs = append(q.Criteria.TagIDs, id)
	}

	q.Criteria.Search = c.Query("search")

	sort, err := planner.ParseSort(c.Query("sort"), c.Query("order"))
	if err != nil {
		return q, apperrors.Wrap(apperrors.WithMessage(apperrors.ErrInvalidSort, err.Error()), err)
	}
	q.Sort = sort

	return q, nil
}

// ListItems returns a filtered, sorted page of the user's items
// @Summary     List items
// @Description List the authenticated user's items with filters, sorting and pagination
// @Tags        items
// @Produce     json
// @Security    BearerAuth
// @Param       is_bought   query bool   false "Bought status"
// @Param       category_id query string false "Category ID, or 'uncategorized'"
// @Param       priority    query int    false "Priority (1-3)"
// @Param       tag_ids     query string false "Comma-separated tag IDs (any match)"
// @Param       search      query string false "Case-insensitive text in name, notes or category name"
// @Param       sort        query string false "name, price, priority or createdAt"
// @Param       order       query string false "asc or desc"
// @Param       page        query int    false "Page number"
// @Param       page_size   query int    false "Page size"
// @Success     200 {object} pagination.PageResponse[ItemResponse] "Items"
// @Failure     400 {object} ErrorResponse "Invalid filter or sort"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /items [get]
func (h *ItemHandler) ListItems(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	query, err := parseItemQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	items, err := h.itemService.ListItems(c.Request.Context(), userID, query)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, pagination.Slice(toItemResponses(items), parsePageRequest(c)))
}

// CountItems returns filter badge counts
// @Summary     Item counts
// @Description Totals per bought status, category, priority and tag over all of the user's items
// @Tags        items
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} planner.Counts "Counts"
// @Router      /items/counts [get]
func (h *ItemHandler) CountItems(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	counts, err := h.itemService.CountItems(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"counts": counts})
}

// CreateItem adds an item
// @Summary     Create an item
// @Tags        items
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateItemRequest true "Item details"
// @Success     201 {object} ItemResponse "Item created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Category or tag not found"
// @Router      /items [post]
func (h *ItemHandler) CreateItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	item, err := h.itemService.CreateItem(c.Request.Context(), userID, services.ItemInput{
		Name:         req.Name,
		Notes:        req.Notes,
		Priority:     req.Priority,
		PlannedPrice: req.PlannedPrice,
		CategoryID:   req.CategoryID,
		TagIDs:       req.TagIDs,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "CREATE_ITEM", "item", item.ID, c.ClientIP(),
		map[string]any{"name": item.Name})

	c.JSON(http.StatusCreated, gin.H{"item": toItemResponse(item)})
}

// GetItem returns one item
// @Summary     Get item by ID
// @Tags        items
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Item ID"
// @Success     200 {object} ItemResponse "Item"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Router      /items/{id} [get]
func (h *ItemHandler) GetItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	itemID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	item, err := h.itemService.GetItemByID(c.Request.Context(), userID, itemID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": toItemResponse(item)})
}

// UpdateItem applies a partial update
// @Summary     Update an item
// @Tags        items
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Item ID"
// @Param       request body UpdateItemRequest true "Fields to change"
// @Success     200 {object} ItemResponse "Updated item"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Router      /items/{id} [patch]
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	itemID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	item, err := h.itemService.UpdateItem(c.Request.Context(), userID, itemID, services.ItemPatch{
		Name:         req.Name,
		Notes:        req.Notes,
		Priority:     req.Priority,
		PlannedPrice: req.PlannedPrice,
		BoughtPrice:  req.BoughtPrice,
		IsBought:     req.IsBought,
		CategoryID:   req.CategoryID,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "UPDATE_ITEM", "item", itemID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"item": toItemResponse(item)})
}

// ToggleBought flips an item's bought status
// @Summary     Toggle bought
// @Tags        items
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Item ID"
// @Success     200 {object} ItemResponse "Updated item"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Router      /items/{id}/toggle [post]
func (h *ItemHandler) ToggleBought(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	itemID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	item, err := h.itemService.ToggleBought(c.Request.Context(), userID, itemID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "TOGGLE_ITEM", "item", itemID, c.ClientIP(),
		map[string]any{"is_bought": item.IsBought})

	c.JSON(http.StatusOK, gin.H{"item": toItemResponse(item)})
}

// DeleteItem removes an item
// @Summary     Delete an item
// @Tags        items
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Item ID"
// @Success     200 {object} map[string]string "Deleted"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Router      /items/{id} [delete]
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	itemID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.itemService.DeleteItem(c.Request.Context(), userID, itemID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "DELETE_ITEM", "item", itemID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
}

// AddLink attaches a purchase link to an item
// @Summary     Add a purchase link
// @Description Add a store link. The first link of an item is selected automatically.
// @Tags        links
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Item ID"
// @Param       request body CreateLinkRequest true "Link details"
// @Success     201 {object} models.ItemLink "Link created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Router      /items/{id}/links [post]
func (h *ItemHandler) AddLink(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	itemID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	link, err := h.itemService.AddLink(c.Request.Context(), userID, itemID, services.LinkInput{
		Store: req.Store,
		URL:   req.URL,
		Price: req.Price,
		Notes: req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "CREATE_LINK", "item_link", link.ID, c.ClientIP(),
		map[string]any{"item_id": itemID, "store": link.Store})

	c.JSON(http.StatusCreated, gin.H{"link": link})
}

// SelectLink makes a link the item's chosen purchase option
// @Summary     Select a purchase link
// @Description Select one link; every other link of the item is deselected
// @Tags        links
// @Produce     json
// @Security    BearerAuth
// @Param       id     path string true "Item ID"
// @Param       linkId path string true "Link ID"
// @Success     200 {object} ItemResponse "Updated item"
// @Failure     404 {object} ErrorResponse "Item or link not found"
// @Router      /items/{id}/links/{linkId}/select [post]
func (h *ItemHandler) SelectLink(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	itemID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	linkID, err := parsePathID(c, "linkId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	item, err := h.itemService.SelectLink(c.Request.Context(), userID, itemID, linkID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "SELECT_LINK", "item_link", linkID, c.ClientIP(),
		map[string]any{"item_id": itemID})

	c.JSON(http.StatusOK, gin.H{"item": toItemResponse(item)})
}

// UpdateLink applies a partial update to a link
// @Summary     Update a purchase link
// @Tags        links
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Link ID"
// @Param       request body UpdateLinkRequest true "Fields to change"
// @Success     200 {object} models.ItemLink "Updated link"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Link not found"
// @Router      /links/{id} [patch]
func (h *ItemHandler) UpdateLink(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	linkID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	link, err := h.itemService.UpdateLink(c.Request.Context(), userID, linkID, services.LinkPatch{
		Store: req.Store,
		URL:   req.URL,
		Price: req.Price,
		Notes: req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "UPDATE_LINK", "item_link", linkID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"link": link})
}

// DeleteLink removes a purchase link
// @Summary     Delete a purchase link
// @Description Delete a link. Removing the selected link leaves the item without a selection.
// @Tags        links
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Link ID"
// @Success     200 {object} map[string]string "Deleted"
// @Failure     404 {object} ErrorResponse "Link not found"
// @Router      /links/{id} [delete]
func (h *ItemHandler) DeleteLink(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	linkID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.itemService.DeleteLink(c.Request.Context(), userID, linkID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "DELETE_LINK", "item_link", linkID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Link deleted"})
}
