// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"waymark/internal/delivery/http/middleware"
	"waymark/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	RouteHandler   *handler.RouteHandler
	SearchHandler  *handler.SearchHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	routeHandler   *handler.RouteHandler
	searchHandler  *handler.SearchHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		routeHandler:   params.RouteHandler,
		searchHandler:  params.SearchHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Public spatial discovery. Static path wins over /routes/:id.
	e.GET("/routes/search", r.searchHandler.SearchRoutes)

	// Route management requires authentication
	routeGroup := e.Group("/routes", r.authMiddleware.Authenticate)
	{
		routeGroup.POST("", r.routeHandler.IngestRoute)
		routeGroup.GET("", r.routeHandler.ListRoutes)
		routeGroup.GET("/:id", r.routeHandler.GetRoute)
		routeGroup.PATCH("/:id", r.routeHandler.UpdateRoute)
		routeGroup.DELETE("/:id", r.routeHandler.DeleteRoute)
		routeGroup.GET("/:id/download", r.routeHandler.GetDownloadLink)
	}
}
