package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homeplanner/internal/logger"
	"homeplanner/internal/services"
)

// AdminHandler serves operator endpoints guarded by the admin API key.
type AdminHandler struct {
	suggestionService services.SuggestionServicer
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(suggestionService services.SuggestionServicer) *AdminHandler {
	return &AdminHandler{suggestionService: suggestionService}
}

// SeedSuggestions inserts any missing system suggestions
// @Summary     Seed system suggestions
// @Description Insert built-in suggestions that are not present yet
// @Tags        admin
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} map[string]int "Number of suggestions created"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     503 {object} ErrorResponse "Admin API not configured"
// @Router      /admin/suggestions/seed [post]
func (h *AdminHandler) SeedSuggestions(c *gin.Context) {
	created, err := h.suggestionService.SeedSystemSuggestions(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	logger.Named("admin").Infow("system suggestions seeded", "created", created, "ip", c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"created": created})
}
