package middleware

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
)

// AdminOnlyMiddleware allows the request only for the administrator session.
// It is not applied globally; compose it on the routes that need it.
func AdminOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Anonymous users and everyone but the admin are refused
		if !CurrentUser(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": gin.H{"Forbidden": "Sorry, only the admin can do that."}})
			return
		}
		c.Next() // If admin, proceed to the next handler
	}
}

// LoginRequiredMiddleware allows the request only for logged in users
func LoginRequiredMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAuthenticated(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": gin.H{"Forbidden": "Sorry, that's not allowed. Make sure you are logged in."}})
			return
		}
		c.Next()
	}
}
