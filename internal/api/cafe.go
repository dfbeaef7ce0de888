package api

import (
	"cafe_directory/internal/app"        // Application context
	"cafe_directory/internal/domain"     // Importing domain models
	"cafe_directory/internal/middleware" // Session helpers
	"errors"                             // Error inspection
	"math/rand"                          // Random cafe selection
	"net/http"                           // HTTP status codes
	"strconv"                            // String conversion
	"time"                               // Timestamps for logs

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Messages returned by the cafe handlers
const (
	msgCafeAdded      = "Successfully added the new cafe."
	msgCafeDeleted    = "Successfully deleted the cafe from the database."
	msgPriceUpdated   = "Successfully updated the price."
	msgCafeNotFound   = "Sorry a cafe with that id was not found in the database."
	msgNoCafes        = "Sorry, there are no cafes in the database."
	msgNoCafeAtLoc    = "Sorry, we don't have a cafe at that location."
	msgLoginRequired  = "Sorry, that's not allowed. Make sure you are logged in."
	msgDuplicateName  = "A cafe with that name already exists."
	msgMissingPrice   = "The new_price query parameter is required."
	errKindNotFound   = "Not Found"
	errKindForbidden  = "Forbidden"
	errKindBadRequest = "Bad Request"
)

// HomeHandler renders the directory listing
func HomeHandler(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		cafes, err := loadCafes(c.Request.Context(), a)
		if err != nil {
			internalError(c, "Failed to fetch cafes", err)
			return
		}
		render(c, a, http.StatusOK, "index.html", gin.H{
			"Cafes":    cafes,           // Rows for the table
			"CafeMaps": cafeMaps(cafes), // Field mappings for client-side scripts
		})
	}
}

// RandomCafeHandler returns one cafe chosen uniformly at random
func RandomCafeHandler(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		cafes, err := loadCafes(c.Request.Context(), a)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cafes"})
			return
		}
		if len(cafes) == 0 {
			jsonError(c, http.StatusNotFound, errKindNotFound, msgNoCafes)
			return
		}
		cafe := cafes[rand.Intn(len(cafes))]
		c.JSON(http.StatusOK, gin.H{"cafe": cafe.ToMap()})
	}
}

// ShowCafeHandler renders the detail page of a cafe. Unknown ids render
// the page's empty state with a 404 status.
func ShowCafeHandler(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			render(c, a, http.StatusNotFound, "cafe.html", gin.H{"Cafe": nil})
			return
		}
		cafe, err := findCafe(c.Request.Context(), a.DB, id)
		if err != nil {
			internalError(c, "Failed to fetch cafe", err)
			return
		}
		if cafe == nil {
			render(c, a, http.StatusNotFound, "cafe.html", gin.H{"Cafe": nil})
			return
		}
		render(c, a, http.StatusOK, "cafe.html", gin.H{"Title": cafe.Name, "Cafe": cafe})
	}
}

// nameTaken reports whether another cafe already uses name
func nameTaken(c *gin.Context, a *app.App, name string, exceptID uint) (bool, error) {
	var count int64
	err := a.DB.WithContext(c.Request.Context()).Model(&domain.Cafe{}).
		Where("name = ? AND id <> ?", name, exceptID).
		Count(&count).Error
	return count > 0, err
}

// duplicateName reports whether a failed write lost a race for the unique
// cafe name. The returned error is non-nil when the write failed for another
// reason or the re-check itself failed.
func duplicateName(c *gin.Context, a *app.App, writeErr error, name string, exceptID uint) (bool, error) {
	if errors.Is(writeErr, gorm.ErrDuplicatedKey) {
		return true, nil
	}
	taken, err := nameTaken(c, a, name, exceptID)
	if err != nil {
		return false, errors.Join(writeErr, err)
	}
	if taken {
		return true, nil
	}
	return false, writeErr
}

// AddCafeHandler renders and processes the new cafe form. A successful
// submission re-renders an empty form with a notice.
func AddCafeHandler(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := gin.H{"Title": "Add a cafe", "Action": "/add"}
		var form CafeForm
		if c.Request.Method != http.MethodPost {
			page["Form"] = form
			render(c, a, http.StatusOK, "make-cafe.html", page)
			return
		}
		// Validate the submitted form
		if errs := bindForm(c, &form); errs != nil {
			page["Form"], page["Errors"] = form, errs
			render(c, a, http.StatusBadRequest, "make-cafe.html", page)
			return
		}
		taken, err := nameTaken(c, a, form.Name, 0)
		if err != nil {
			internalError(c, "Failed to check cafe name", err)
			return
		}
		if taken {
			page["Form"], page["Errors"] = form, map[string]string{"name": msgDuplicateName}
			render(c, a, http.StatusConflict, "make-cafe.html", page)
			return
		}
		var cafe domain.Cafe
		form.Apply(&cafe)
		if err := a.DB.WithContext(c.Request.Context()).Create(&cafe).Error; err != nil {
			// A concurrent submission may have won the unique index
			if dup, err := duplicateName(c, a, err, form.Name, 0); dup {
				page["Form"], page["Errors"] = form, map[string]string{"name": msgDuplicateName}
				render(c, a, http.StatusConflict, "make-cafe.html", page)
			} else {
				internalError(c, "Failed to create cafe", err)
			}
			return
		}
		invalidateCafes(c.Request.Context(), a)
		logrus.WithFields(logrus.Fields{
			"cafe_id":   cafe.ID,                         // Cafe ID
			"name":      cafe.Name,                       // Cafe name
			"timestamp": time.Now().Format(time.RFC3339), // Current timestamp
		}).Info("Cafe created")
		page["Form"], page["Notice"] = CafeForm{}, msgCafeAdded
		render(c, a, http.StatusOK, "make-cafe.html", page)
	}
}

// EditCafeHandler renders the pre-filled cafe form and overwrites the cafe
// on a valid submission
func EditCafeHandler(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			render(c, a, http.StatusNotFound, "cafe.html", gin.H{"Cafe": nil})
			return
		}
		cafe, err := findCafe(c.Request.Context(), a.DB, id)
		if err != nil {
			internalError(c, "Failed to fetch cafe", err)
			return
		}
		if cafe == nil {
			render(c, a, http.StatusNotFound, "cafe.html", gin.H{"Cafe": nil})
			return
		}
		page := gin.H{"Title": "Edit " + cafe.Name, "IsEdit": true, "Action": "/edit-cafe/" + strconv.FormatUint(uint64(cafe.ID), 10)}
		if c.Request.Method != http.MethodPost {
			page["Form"] = CafeFormFrom(cafe)
			render(c, a, http.StatusOK, "make-cafe.html", page)
			return
		}
		var form CafeForm
		if errs := bindForm(c, &form); errs != nil {
			page["Form"], page["Errors"] = form, errs
			render(c, a, http.StatusBadRequest, "make-cafe.html", page)
			return
		}
		taken, err := nameTaken(c, a, form.Name, cafe.ID)
		if err != nil {
			internalError(c, "Failed to check cafe name", err)
			return
		}
		if taken {
			page["Form"], page["Errors"] = form, map[string]string{"name": msgDuplicateName}
			render(c, a, http.StatusConflict, "make-cafe.html", page)
			return
		}
		form.Apply(cafe) // Every column gets a scalar value
		if err := a.DB.WithContext(c.Request.Context()).Save(cafe).Error; err != nil {
			if dup, err := duplicateName(c, a, err, form.Name, cafe.ID); dup {
				page["Form"], page["Errors"] = form, map[string]string{"name": msgDuplicateName}
				render(c, a, http.StatusConflict, "make-cafe.html", page)
			} else {
				internalError(c, "Failed to update cafe", err)
			}
			return
		}
		invalidateCafes(c.Request.Context(), a)
		logrus.WithFields(logrus.Fields{
			"cafe_id": cafe.ID,                      // Cafe ID
			"user_id": middleware.CurrentUser(c).ID, // Editor
		}).Info("Cafe updated")
		c.Redirect(http.StatusFound, "/cafe/"+strconv.FormatUint(uint64(cafe.ID), 10))
	}
}

// DeleteCafeHandler removes a cafe reported as closed. Missing cafes answer
// 404 for everyone; existing cafes need a logged in user.
func DeleteCafeHandler(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			jsonError(c, http.StatusNotFound, errKindNotFound, msgCafeNotFound)
			return
		}
		cafe, err := findCafe(c.Request.Context(), a.DB, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cafe"})
			return
		}
		if cafe == nil {
			jsonError(c, http.StatusNotFound, errKindNotFound, msgCafeNotFound)
			return
		}
		if !middleware.IsAuthenticated(c) {
			jsonError(c, http.StatusForbidden, errKindForbidden, msgLoginRequired)
			return
		}
		if err := a.DB.WithContext(c.Request.Context()).Delete(cafe).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"cafe_id": cafe.ID,     // Cafe ID
				"error":   err.Error(), // Error message
			}).Error("Delete failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete cafe"})
			return
		}
		invalidateCafes(c.Request.Context(), a)
		logrus.WithFields(logrus.Fields{
			"cafe_id": cafe.ID,                      // Cafe ID
			"user_id": middleware.CurrentUser(c).ID, // Reporting user
		}).Info("Cafe reported closed")
		c.JSON(http.StatusOK, gin.H{"response": gin.H{"success": msgCafeDeleted}})
	}
}

// SearchCafeHandler returns the cafes at an exact location
func SearchCafeHandler(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var cafes []domain.Cafe
		err := a.DB.WithContext(c.Request.Context()).Where("location = ?", c.Query("loc")).Order("id").Find(&cafes).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search cafes"})
			return
		}
		if len(cafes) == 0 {
			jsonError(c, http.StatusNotFound, errKindNotFound, msgNoCafeAtLoc)
			return
		}
		c.JSON(http.StatusOK, gin.H{"cafes": cafeMaps(cafes)})
	}
}

// UpdatePriceHandler sets the coffee price of a cafe from the new_price
// query parameter
func UpdatePriceHandler(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			jsonError(c, http.StatusNotFound, errKindNotFound, msgCafeNotFound)
			return
		}
		newPrice := c.Query("new_price")
		if newPrice == "" {
			jsonError(c, http.StatusBadRequest, errKindBadRequest, msgMissingPrice)
			return
		}
		cafe, err := findCafe(c.Request.Context(), a.DB, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cafe"})
			return
		}
		if cafe == nil {
			jsonError(c, http.StatusNotFound, errKindNotFound, msgCafeNotFound)
			return
		}
		if err := a.DB.WithContext(c.Request.Context()).Model(cafe).Update("coffee_price", newPrice).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update price"})
			return
		}
		invalidateCafes(c.Request.Context(), a)
		logrus.WithFields(logrus.Fields{
			"cafe_id": cafe.ID,  // Cafe ID
			"price":   newPrice, // New price
		}).Info("Coffee price updated")
		c.JSON(http.StatusOK, gin.H{"response": gin.H{"success": msgPriceUpdated}})
	}
}
