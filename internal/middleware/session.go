package middleware

import (
	"cafe_directory/internal/app"    // Application context
	"cafe_directory/internal/domain" // Importing domain models
	"cafe_directory/internal/utils"  // Session token utilities
	"errors"                         // Error inspection
	"net/http"                       // Cookie attributes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
	"gorm.io/gorm"               // GORM ORM library
)

// Cookie and context keys
const (
	SessionCookie  = "session"     // Signed login session
	FlashCookie    = "flash"       // One-time notice
	UserIDKey      = "userID"      // uint id of the logged in user
	CurrentUserKey = "currentUser" // *domain.User of the logged in user
)

// SessionMiddleware resolves the session cookie into the current user.
// Requests without a valid session continue anonymously.
func SessionMiddleware(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(SessionCookie) // Read the session cookie
		if err != nil || tokenStr == "" {
			c.Next() // Anonymous request
			return
		}
		claims, err := utils.ParseSessionToken(tokenStr, a.Config.SecretKey)
		if err != nil {
			clearCookie(c, a, SessionCookie) // Drop stale or forged cookies
			c.Next()
			return
		}
		var user domain.User // Load the user like a user loader would
		err = a.DB.WithContext(c.Request.Context()).First(&user, claims.UserID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithField("user_id", claims.UserID).Warn("Session user not found")
			clearCookie(c, a, SessionCookie) // The account no longer exists
			c.Next()
			return
		}
		if err != nil {
			// Keep the cookie, the session may resolve on the next request
			logrus.WithFields(logrus.Fields{
				"user_id": claims.UserID, // User ID from the token
				"error":   err.Error(),   // Error message
			}).Error("Failed to load session user")
			c.Next()
			return
		}
		c.Set(UserIDKey, user.ID)    // Store userID in context
		c.Set(CurrentUserKey, &user) // Store the user in context
		c.Next()                     // Proceed to the next handler
	}
}

// CurrentUser returns the logged in user, or nil for anonymous requests
func CurrentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(CurrentUserKey); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}

// IsAuthenticated reports whether the request carries a valid session
func IsAuthenticated(c *gin.Context) bool {
	return CurrentUser(c) != nil
}

// Login establishes a session for the given user
func Login(c *gin.Context, a *app.App, user *domain.User) error {
	token, err := utils.GenerateSessionToken(user.ID, a.Config.SecretKey, a.Config.SessionTTL)
	if err != nil {
		return err
	}
	setCookie(c, a, SessionCookie, token, int(a.Config.SessionTTL.Seconds()))
	c.Set(UserIDKey, user.ID)
	c.Set(CurrentUserKey, user)
	return nil
}

// Logout clears the session
func Logout(c *gin.Context, a *app.App) {
	clearCookie(c, a, SessionCookie)
}

// Flash attaches a notice to the next rendered page
func Flash(c *gin.Context, a *app.App, message string) {
	setCookie(c, a, FlashCookie, message, 0)
}

// PopFlash returns the pending notice and clears it
func PopFlash(c *gin.Context, a *app.App) string {
	message, err := c.Cookie(FlashCookie)
	if err != nil || message == "" {
		return ""
	}
	clearCookie(c, a, FlashCookie)
	return message
}

// setCookie writes an HttpOnly, SameSite=Lax cookie on the root path
func setCookie(c *gin.Context, a *app.App, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", a.Config.IsProd, true)
}

// clearCookie expires a cookie immediately
func clearCookie(c *gin.Context, a *app.App, name string) {
	setCookie(c, a, name, "", -1)
}
