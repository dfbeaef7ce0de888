package server

import (
	"cafe_directory/internal/api"        // Route handlers
	"cafe_directory/internal/app"        // Application context
	"cafe_directory/internal/middleware" // Session and guards
	"cafe_directory/internal/web"        // Page templates
	"fmt"                                // Error wrapping
	"net/http"                           // HTTP methods

	"github.com/gin-gonic/gin" // Gin web framework
)

var (
	getOnly     = []string{http.MethodGet}
	getOrPost   = []string{http.MethodGet, http.MethodPost}
	getOrDelete = []string{http.MethodGet, http.MethodDelete}
	getOrPatch  = []string{http.MethodGet, http.MethodPatch}
)

// NewRouter builds the route table on top of the application context
func NewRouter(a *app.App) (*gin.Engine, error) {
	r := gin.New() // Gin router instance
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		return nil, fmt.Errorf("failed to set trusted proxies: %w", err)
	}
	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	// Every route sees the current user, if any
	r.Use(middleware.SessionMiddleware(a))

	// Directory
	handle(r, getOnly, "/", api.HomeHandler(a))
	handle(r, getOnly, "/random", api.RandomCafeHandler(a))
	handle(r, getOnly, "/search", api.SearchCafeHandler(a))
	handle(r, getOrPost, "/cafe/:id", api.ShowCafeHandler(a))
	handle(r, getOrPost, "/add", api.AddCafeHandler(a))
	handle(r, getOrPost, "/edit-cafe/:id", middleware.AdminOnlyMiddleware(), api.EditCafeHandler(a))
	handle(r, getOrDelete, "/report-closed/:id", api.DeleteCafeHandler(a))
	handle(r, getOrPatch, "/update-price/:id", middleware.LoginRequiredMiddleware(), api.UpdatePriceHandler(a))

	// Auth
	handle(r, getOrPost, "/register", api.RegisterHandler(a))
	handle(r, getOrPost, "/login", api.LoginHandler(a))
	handle(r, getOnly, "/logout", api.LogoutHandler(a))

	// Admin routes
	adminGroup := r.Group("/admin", middleware.AdminOnlyMiddleware())
	handle(adminGroup, getOnly, "/users", api.ListUsersHandler(a))

	return r, nil
}

// handle registers the same handler chain for several methods
func handle(r gin.IRoutes, methods []string, path string, handlers ...gin.HandlerFunc) {
	for _, m := range methods {
		r.Handle(m, path, handlers...)
	}
}
