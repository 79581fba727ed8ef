// Package server wires services, handlers and middleware into the HTTP router.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"homeplanner/internal/config"
	apperrors "homeplanner/internal/errors"
	"homeplanner/internal/handlers"
	"homeplanner/internal/middleware"
	"homeplanner/internal/planner"
	"homeplanner/internal/services"

	_ "homeplanner/internal/docs" // swagger docs
)

// Services bundles every service the router needs.
type Services struct {
	Users       services.UserServicer
	Categories  services.CategoryServicer
	Items       services.ItemServicer
	Tags        services.TagServicer
	Budget      services.BudgetServicer
	Suggestions services.SuggestionServicer
	Audit       services.AuditServicer
}

// NewServices builds the service layer on db using the planner settings
// in cfg.
func NewServices(db *gorm.DB, cfg *config.Config) *Services {
	var sortOpts []planner.SortOption
	if cfg.SortLanguage != "" {
		if tag, err := language.Parse(cfg.SortLanguage); err == nil {
			sortOpts = append(sortOpts, planner.WithLanguage(tag))
		}
	}

	return &Services{
		Users:       services.NewUserService(db),
		Categories:  services.NewCategoryService(db),
		Items:       services.NewItemService(db, sortOpts...),
		Tags:        services.NewTagService(db),
		Budget:      services.NewBudgetService(db, cfg.DefaultCurrency),
		Suggestions: services.NewSuggestionService(db),
		Audit:       services.NewAuditService(db),
	}
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID, "+middleware.APIKeyHeader)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// NewRouter returns the API engine with every route registered.
func NewRouter(svc *Services, cfg *config.Config) *gin.Engine {
	authHandler := handlers.NewAuthHandler(svc.Users, svc.Audit)
	categoryHandler := handlers.NewCategoryHandler(svc.Categories, svc.Audit)
	itemHandler := handlers.NewItemHandler(svc.Items, svc.Audit)
	tagHandler := handlers.NewTagHandler(svc.Tags, svc.Audit)
	budgetHandler := handlers.NewBudgetHandler(svc.Budget, svc.Audit)
	suggestionHandler := handlers.NewSuggestionHandler(svc.Suggestions)
	adminHandler := handlers.NewAdminHandler(svc.Suggestions)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors())

	router.NoRoute(func(c *gin.Context) {
		_ = c.Error(apperrors.ErrNotFound)
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout)

	// Operator routes
	admin := v1.Group("/admin")
	admin.Use(middleware.AdminAPIKeyMiddleware(cfg.AdminAPIKey))
	admin.POST("/suggestions/seed", adminHandler.SeedSuggestions)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	categories := protected.Group("/categories")
	categories.GET("", categoryHandler.ListCategories)
	categories.POST("", categoryHandler.CreateCategory)
	categories.POST("/seed", categoryHandler.SeedDefaultCategories)
	categories.PUT("/reorder", categoryHandler.ReorderCategories)
	categories.GET("/:id", categoryHandler.GetCategory)
	categories.PATCH("/:id", categoryHandler.UpdateCategory)
	categories.PUT("/:id/budget", categoryHandler.SetCategoryBudget)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	items := protected.Group("/items")
	items.GET("", itemHandler.ListItems)
	items.GET("/counts", itemHandler.CountItems)
	items.POST("", itemHandler.CreateItem)
	items.GET("/:id", itemHandler.GetItem)
	items.PATCH("/:id", itemHandler.UpdateItem)
	items.POST("/:id/toggle", itemHandler.ToggleBought)
	items.DELETE("/:id", itemHandler.DeleteItem)
	items.POST("/:id/links", itemHandler.AddLink)
	items.POST("/:id/links/:linkId/select", itemHandler.SelectLink)
	items.POST("/:id/tags/:tagId", tagHandler.AddTagToItem)
	items.DELETE("/:id/tags/:tagId", tagHandler.RemoveTagFromItem)

	links := protected.Group("/links")
	links.PATCH("/:id", itemHandler.UpdateLink)
	links.DELETE("/:id", itemHandler.DeleteLink)

	tags := protected.Group("/tags")
	tags.GET("", tagHandler.ListTags)
	tags.POST("", tagHandler.CreateTag)
	tags.PATCH("/:id", tagHandler.UpdateTag)
	tags.DELETE("/:id", tagHandler.DeleteTag)

	budget := protected.Group("/budget")
	budget.GET("/settings", budgetHandler.GetSettings)
	budget.PUT("/settings", budgetHandler.UpsertSettings)
	budget.GET("/summary", budgetHandler.GetSummary)

	suggestions := protected.Group("/suggestions")
	suggestions.GET("", suggestionHandler.ListSuggestions)
	suggestions.GET("/search", suggestionHandler.SearchSuggestions)
	suggestions.POST("", suggestionHandler.CreateSuggestion)
	suggestions.POST("/:id/use", suggestionHandler.UseSuggestion)

	return router
}
