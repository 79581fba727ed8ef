package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "homeplanner/internal/errors"
	"homeplanner/internal/logger"
	"homeplanner/internal/services"
)

// SuggestionHandler handles item-name suggestion requests.
type SuggestionHandler struct {
	suggestionService services.SuggestionServicer
}

// NewSuggestionHandler creates a new SuggestionHandler.
func NewSuggestionHandler(suggestionService services.SuggestionServicer) *SuggestionHandler {
	return &SuggestionHandler{suggestionService: suggestionService}
}

// CreateSuggestionRequest represents a personal suggestion
type CreateSuggestionRequest struct {
	Name         string  `json:"name" binding:"required,min=1,max=200"`
	CategoryName *string `json:"category_name" binding:"omitempty,max=100"`
}

// ListSuggestions pages through visible suggestions
// @Summary     List suggestions
// @Description Browse system and personal suggestions, most used first
// @Tags        suggestions
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.ItemSuggestion] "Suggestions"
// @Router      /suggestions [get]
func (h *SuggestionHandler) ListSuggestions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.suggestionService.ListSuggestions(c.Request.Context(), userID, parsePageRequest(c))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SearchSuggestions autocompletes item names
// @Summary     Search suggestions
// @Tags        suggestions
// @Produce     json
// @Security    BearerAuth
// @Param       q     query string true  "Text to match"
// @Param       limit query int    false "Maximum results (default 10, max 50)"
// @Success     200 {object} map[string][]models.ItemSuggestion "Matches"
// @Router      /suggestions/search [get]
func (h *SuggestionHandler) SearchSuggestions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid limit"))
			return
		}
	}

	suggestions, err := h.suggestionService.SearchSuggestions(c.Request.Context(), userID, c.Query("q"), limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// CreateSuggestion records a personal suggestion
// @Summary     Create a suggestion
// @Tags        suggestions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateSuggestionRequest true "Suggestion"
// @Success     201 {object} models.ItemSuggestion "Created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /suggestions [post]
func (h *SuggestionHandler) CreateSuggestion(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateSuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	suggestion, err := h.suggestionService.CreateSuggestion(c.Request.Context(), userID, req.Name, req.CategoryName)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"suggestion": suggestion})
}

// UseSuggestion records that a suggestion was picked
// @Summary     Use a suggestion
// @Description Increment a suggestion's usage count. Failures are logged and reported as success.
// @Tags        suggestions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Suggestion ID"
// @Success     200 {object} map[string]bool "Recorded"
// @Router      /suggestions/{id}/use [post]
func (h *SuggestionHandler) UseSuggestion(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	suggestionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if _, err := h.suggestionService.UseSuggestion(c.Request.Context(), userID, suggestionID); err != nil {
		logger.Named("suggestions").Warnw("failed to record suggestion use",
			"suggestion_id", suggestionID,
			"user_id", userID,
			"error", err,
		)
		c.JSON(http.StatusOK, gin.H{"recorded": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recorded": true})
}
