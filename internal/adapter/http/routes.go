package http

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers all search API routes.
// It creates a versioned API group and attaches the handler methods.
func RegisterRoutes(e *echo.Echo, h *SearchHandler) {
	// Health check endpoint (no version prefix)
	e.GET("/health", h.Health)

	// API v1 group
	api := e.Group("/api/v1")

	// Searches group
	searches := api.Group("/searches")
	searches.POST("/estimate", h.Estimate)
	searches.POST("", h.StartSearch)
	searches.GET("/:id", h.GetSearch)
	searches.GET("/:id/matrix", h.GetMatrix)
	searches.GET("/:id/deals", h.GetDeals)
	searches.DELETE("/:id", h.CancelSearch)
}
