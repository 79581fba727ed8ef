package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "homeplanner/internal/errors"
	"homeplanner/internal/nullable"
	"homeplanner/internal/services"
)

// TagHandler handles tag-related requests.
type TagHandler struct {
	tagService   services.TagServicer
	auditService services.AuditServicer
}

// NewTagHandler creates a new TagHandler.
func NewTagHandler(tagService services.TagServicer, auditService services.AuditServicer) *TagHandler {
	return &TagHandler{tagService: tagService, auditService: auditService}
}

// CreateTagRequest represents the request payload for creating a tag
type CreateTagRequest struct {
	Name  string  `json:"name" binding:"required,min=1,max=50"`
	Color *string `json:"color" binding:"omitempty,hex_color"`
}

// UpdateTagRequest represents a partial tag update
type UpdateTagRequest struct {
	Name  *string                `json:"name" binding:"omitempty,min=1,max=50"`
	Color nullable.Field[string] `json:"color" swaggertype:"string" binding:"omitempty,hex_color"`
}

// ListTags returns the user's tags
// @Summary     List tags
// @Description List the authenticated user's tags by name with item counts
// @Tags        tags
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]models.Tag "Tags"
// @Router      /tags [get]
func (h *TagHandler) ListTags(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tags, err := h.tagService.ListTags(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// CreateTag creates a tag
// @Summary     Create a tag
// @Description Create a tag. Names are stored trimmed and lower-cased.
// @Tags        tags
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTagRequest true "Tag details"
// @Success     201 {object} models.Tag "Tag created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Tag already exists"
// @Router      /tags [post]
func (h *TagHandler) CreateTag(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	tag, err := h.tagService.CreateTag(c.Request.Context(), userID, req.Name, req.Color)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "CREATE_TAG", "tag", tag.ID, c.ClientIP(),
		map[string]any{"name": tag.Name})

	c.JSON(http.StatusCreated, gin.H{"tag": tag})
}

// UpdateTag renames or recolours a tag
// @Summary     Update a tag
// @Tags        tags
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string           true "Tag ID"
// @Param       request body UpdateTagRequest true "Fields to change"
// @Success     200 {object} models.Tag "Updated tag"
// @Failure     404 {object} ErrorResponse "Tag not found"
// @Failure     409 {object} ErrorResponse "Tag already exists"
// @Router      /tags/{id} [patch]
func (h *TagHandler) UpdateTag(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	tagID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	tag, err := h.tagService.UpdateTag(c.Request.Context(), userID, tagID, services.TagPatch{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "UPDATE_TAG", "tag", tagID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"tag": tag})
}

// DeleteTag removes a tag
// @Summary     Delete a tag
// @Description Delete a tag and remove it from every item
// @Tags        tags
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Tag ID"
// @Success     200 {object} map[string]string "Deleted"
// @Failure     404 {object} ErrorResponse "Tag not found"
// @Router      /tags/{id} [delete]
func (h *TagHandler) DeleteTag(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	tagID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.tagService.DeleteTag(c.Request.Context(), userID, tagID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "DELETE_TAG", "tag", tagID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Tag deleted"})
}

// AddTagToItem tags an item
// @Summary     Tag an item
// @Tags        tags
// @Produce     json
// @Security    BearerAuth
// @Param       id    path string true "Item ID"
// @Param       tagId path string true "Tag ID"
// @Success     200 {object} map[string]string "Tagged"
// @Failure     404 {object} ErrorResponse "Item or tag not found"
// @Router      /items/{id}/tags/{tagId} [post]
func (h *TagHandler) AddTagToItem(c *gin.Context) {
	h.changeItemTag(c, true)
}

// RemoveTagFromItem untags an item
// @Summary     Untag an item
// @Tags        tags
// @Produce     json
// @Security    BearerAuth
// @Param       id    path string true "Item ID"
// @Param       tagId path string true "Tag ID"
// @Success     200 {object} map[string]string "Untagged"
// @Failure     404 {object} ErrorResponse "Item or tag not found"
// @Router      /items/{id}/tags/{tagId} [delete]
func (h *TagHandler) RemoveTagFromItem(c *gin.Context) {
	h.changeItemTag(c, false)
}

func (h *TagHandler) changeItemTag(c *gin.Context, add bool) {
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
	tagID, err := parsePathID(c, "tagId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	action, message := "TAG_ITEM", "Tag added"
	if add {
		err = h.tagService.AddTagToItem(ctx, userID, itemID, tagID)
	} else {
		action, message = "UNTAG_ITEM", "Tag removed"
		err = h.tagService.RemoveTagFromItem(ctx, userID, itemID, tagID)
	}
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(ctx, userID, action, "item", itemID, c.ClientIP(), map[string]any{"tag_id": tagID})

	c.JSON(http.StatusOK, gin.H{"message": message})
}
