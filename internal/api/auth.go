package api

import (
	"cafe_directory/internal/app"        // Application context
	"cafe_directory/internal/domain"     // Importing domain models
	"cafe_directory/internal/middleware" // Session helpers
	"errors"                             // Error inspection
	"net/http"                           // HTTP status codes
	"time"                               // Timestamps for logs

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// Notices flashed by the authentication handlers
const (
	msgAlreadyRegistered = "You've already signed up with that email, log in instead!"
	msgUnknownEmail      = "That email does not exist, please try again."
	msgWrongPassword     = "Password incorrect, please try again."
)

// emailTaken reports whether a user already registered with email
func emailTaken(c *gin.Context, db *gorm.DB, email string) (bool, error) {
	var count int64
	err := db.WithContext(c.Request.Context()).Model(&domain.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// RegisterHandler renders and processes the sign up form
func RegisterHandler(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form RegisterForm
		if c.Request.Method != http.MethodPost {
			render(c, a, http.StatusOK, "register.html", gin.H{"Title": "Register", "Form": form})
			return
		}
		// Validate the submitted form
		if errs := bindForm(c, &form); errs != nil {
			render(c, a, http.StatusBadRequest, "register.html", gin.H{"Title": "Register", "Form": form, "Errors": errs})
			return
		}
		// Refuse a second account for the same email
		taken, err := emailTaken(c, a.DB, form.Email)
		if err != nil {
			internalError(c, "Failed to look up user", err)
			return
		}
		if taken {
			middleware.Flash(c, a, msgAlreadyRegistered)
			c.Redirect(http.StatusFound, "/login")
			return
		}
		// Hash the password with a random salt
		hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
		if err != nil {
			internalError(c, "Failed to hash password", err)
			return
		}
		user := domain.User{Email: form.Email, Name: form.Name, Password: string(hash)}
		if err := a.DB.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
			// A concurrent registration may have won the unique index
			taken := errors.Is(err, gorm.ErrDuplicatedKey)
			if !taken {
				var lookupErr error
				if taken, lookupErr = emailTaken(c, a.DB, form.Email); lookupErr != nil {
					err = errors.Join(err, lookupErr)
				}
			}
			if taken {
				middleware.Flash(c, a, msgAlreadyRegistered)
				c.Redirect(http.StatusFound, "/login")
				return
			}
			internalError(c, "Failed to create user", err)
			return
		}
		if err := middleware.Login(c, a, &user); err != nil {
			internalError(c, "Failed to start session", err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":   user.ID,                         // User ID
			"timestamp": time.Now().Format(time.RFC3339), // Current timestamp
		}).Info("User registered")
		c.Redirect(http.StatusFound, "/")
	}
}

// LoginHandler renders and processes the sign in form
func LoginHandler(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form LoginForm
		if c.Request.Method != http.MethodPost {
			render(c, a, http.StatusOK, "login.html", gin.H{"Title": "Log in", "Form": form})
			return
		}
		// Validate the submitted form
		if errs := bindForm(c, &form); errs != nil {
			render(c, a, http.StatusBadRequest, "login.html", gin.H{"Title": "Log in", "Form": form, "Errors": errs})
			return
		}
		var user domain.User // Fetch user from database
		err := a.DB.WithContext(c.Request.Context()).Where("email = ?", form.Email).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			middleware.Flash(c, a, msgUnknownEmail)
			c.Redirect(http.StatusFound, "/login")
			return
		}
		if err != nil {
			internalError(c, "Failed to look up user", err)
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(form.Password)); err != nil {
			logrus.WithField("user_id", user.ID).Warn("Login with wrong password")
			middleware.Flash(c, a, msgWrongPassword)
			c.Redirect(http.StatusFound, "/login")
			return
		}
		if err := middleware.Login(c, a, &user); err != nil {
			internalError(c, "Failed to start session", err)
			return
		}
		logrus.WithField("user_id", user.ID).Info("User logged in")
		c.Redirect(http.StatusFound, "/")
	}
}

// LogoutHandler clears the session
func LogoutHandler(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.Logout(c, a)
		c.Redirect(http.StatusFound, "/")
	}
}
