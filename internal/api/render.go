package api

import (
	"cafe_directory/internal/app"        // Application context
	"cafe_directory/internal/domain"     // Importing domain models
	"cafe_directory/internal/middleware" // Session helpers
	"cafe_directory/internal/utils"      // Utility functions
	"context"                            // Context for cache operations
	"errors"                             // Error inspection
	"net/http"                           // HTTP status codes
	"strconv"                            // String conversion

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// render executes a page template with the values every page shows
func render(c *gin.Context, a *app.App, code int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if user := middleware.CurrentUser(c); user != nil {
		data["CurrentUser"] = user // Navigation shows the logged in user
	}
	if msg := middleware.PopFlash(c, a); msg != "" {
		data["Flash"] = msg // One-time notice from the previous request
	}
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = map[string]string{}
	}
	c.HTML(code, name, data)
}

// jsonError writes an error body of the form {"error": {kind: message}}
func jsonError(c *gin.Context, code int, kind, message string) {
	c.JSON(code, gin.H{"error": gin.H{kind: message}})
}

// internalError logs err and answers with a 500 page
func internalError(c *gin.Context, msg string, err error) {
	_ = c.Error(err) // Picked up by the request logger
	logrus.WithFields(logrus.Fields{
		"path":  c.Request.URL.Path, // Request path
		"error": err.Error(),        // Error message
	}).Error(msg)
	c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

// parseID reads a positive integer path parameter
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// findCafe looks up a cafe by id; a missing row returns nil without error
func findCafe(ctx context.Context, db *gorm.DB, id uint) (*domain.Cafe, error) {
	var cafe domain.Cafe
	err := db.WithContext(ctx).First(&cafe, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cafe, nil
}

// loadCafes returns every cafe ordered by id, served from Redis when cached
func loadCafes(ctx context.Context, a *app.App) ([]domain.Cafe, error) {
	var cafes []domain.Cafe
	found, err := utils.GetCache(ctx, a.Redis, utils.CafeListCacheKey, &cafes)
	if err == nil && found {
		return cafes, nil
	}
	if err != nil {
		logrus.WithField("error", err.Error()).Warn("Cafe cache read failed")
		cafes = nil
	}
	if err := a.DB.WithContext(ctx).Order("id").Find(&cafes).Error; err != nil {
		return nil, err
	}
	// Cache the listing for future requests
	if err := utils.SetCache(ctx, a.Redis, utils.CafeListCacheKey, cafes, utils.CafeListCacheTTL); err != nil {
		logrus.WithField("error", err.Error()).Warn("Cafe cache write failed")
	}
	return cafes, nil
}

// invalidateCafes drops the cached listing after a write
func invalidateCafes(ctx context.Context, a *app.App) {
	if err := utils.DeleteCache(ctx, a.Redis, utils.CafeListCacheKey); err != nil {
		logrus.WithField("error", err.Error()).Warn("Cafe cache invalidation failed")
	}
}

// cafeMaps converts cafes to their client field mapping
func cafeMaps(cafes []domain.Cafe) []map[string]any {
	out := make([]map[string]any, len(cafes))
	for i, cafe := range cafes {
		out[i] = cafe.ToMap()
	}
	return out
}
