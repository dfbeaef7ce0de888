package api

import (
	"cafe_directory/internal/domain" // Importing domain models
	"errors"                         // Unwrapping validation errors
	"reflect"                        // Struct tag lookup
	"strings"                        // String manipulation

	"github.com/gin-gonic/gin"               // Gin web framework
	"github.com/gin-gonic/gin/binding"       // Form decoding
	"github.com/go-playground/validator/v10" // Declarative field validation
)

// validate checks the `validate` tags of submitted forms. Field errors are
// reported under the form field name.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0] // Use the form field name
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Messages shown next to an invalid field
var fieldMessages = map[string]string{
	"required": "This field is required.",
	"url":      "Invalid URL.",
}

// form is implemented by every submitted form
type form interface {
	normalize() // Trim whitespace before validation
}

// CafeForm is the add/edit cafe form. Checkbox fields keep the raw submitted
// string, any non-empty value counts as checked.
type CafeForm struct {
	Name         string `form:"name" validate:"required"`        // Cafe Name
	MapURL       string `form:"map_url" validate:"required,url"` // Map URL
	ImgURL       string `form:"img_url" validate:"required,url"` // Cafe Image URL
	Location     string `form:"location" validate:"required"`    // Location
	HasSockets   string `form:"has_sockets"`                     // Does the Cafe have sockets?
	HasToilet    string `form:"has_toilet"`                      // Does the Cafe have toilets?
	HasWifi      string `form:"has_wifi"`                        // Does the Cafe have wifi?
	CanTakeCalls string `form:"can_take_calls"`                  // Does the Cafe allow users to take calls?
	Seats        string `form:"seats" validate:"required"`       // Number of seats
	CoffeePrice  string `form:"coffee_price"`                    // Coffee Price

	// Short field names posted by older clients of /add
	Loc     string `form:"loc"`     // Alias of location
	Sockets string `form:"sockets"` // Alias of has_sockets
	Toilet  string `form:"toilet"`  // Alias of has_toilet
	Wifi    string `form:"wifi"`    // Alias of has_wifi
	Calls   string `form:"calls"`   // Alias of can_take_calls
}

func (f *CafeForm) normalize() {
	f.Location = firstNonEmpty(f.Location, f.Loc)
	f.HasSockets = firstNonEmpty(f.HasSockets, f.Sockets)
	f.HasToilet = firstNonEmpty(f.HasToilet, f.Toilet)
	f.HasWifi = firstNonEmpty(f.HasWifi, f.Wifi)
	f.CanTakeCalls = firstNonEmpty(f.CanTakeCalls, f.Calls)
	f.Loc, f.Sockets, f.Toilet, f.Wifi, f.Calls = "", "", "", "", ""
	f.Name = strings.TrimSpace(f.Name)
	f.MapURL = strings.TrimSpace(f.MapURL)
	f.ImgURL = strings.TrimSpace(f.ImgURL)
	f.Location = strings.TrimSpace(f.Location)
	f.Seats = strings.TrimSpace(f.Seats)
	f.CoffeePrice = strings.TrimSpace(f.CoffeePrice)
}

// Apply overwrites every cafe column with the submitted values
func (f *CafeForm) Apply(cafe *domain.Cafe) {
	cafe.Name = f.Name
	cafe.MapURL = f.MapURL
	cafe.ImgURL = f.ImgURL
	cafe.Location = f.Location
	cafe.HasSockets = truthy(f.HasSockets)
	cafe.HasToilet = truthy(f.HasToilet)
	cafe.HasWifi = truthy(f.HasWifi)
	cafe.CanTakeCalls = truthy(f.CanTakeCalls)
	cafe.Seats = f.Seats
	cafe.CoffeePrice = nil // Empty price is stored as NULL
	if f.CoffeePrice != "" {
		price := f.CoffeePrice
		cafe.CoffeePrice = &price
	}
}

// CafeFormFrom pre-fills the form with a stored cafe
func CafeFormFrom(cafe *domain.Cafe) CafeForm {
	f := CafeForm{
		Name:     cafe.Name,
		MapURL:   cafe.MapURL,
		ImgURL:   cafe.ImgURL,
		Location: cafe.Location,
		Seats:    cafe.Seats,
	}
	f.HasSockets = checkbox(cafe.HasSockets)
	f.HasToilet = checkbox(cafe.HasToilet)
	f.HasWifi = checkbox(cafe.HasWifi)
	f.CanTakeCalls = checkbox(cafe.CanTakeCalls)
	if cafe.CoffeePrice != nil {
		f.CoffeePrice = *cafe.CoffeePrice
	}
	return f
}

// RegisterForm is the sign up form
type RegisterForm struct {
	Email    string `form:"email" validate:"required"`    // Email
	Password string `form:"password" validate:"required"` // Password
	Name     string `form:"name" validate:"required"`     // Name
}

func (f *RegisterForm) normalize() {
	f.Email = strings.TrimSpace(f.Email)
	f.Name = strings.TrimSpace(f.Name)
}

// LoginForm is the sign in form
type LoginForm struct {
	Email    string `form:"email" validate:"required"`    // Email
	Password string `form:"password" validate:"required"` // Password
}

func (f *LoginForm) normalize() {
	f.Email = strings.TrimSpace(f.Email)
}

// bindForm decodes the submitted form into f and validates it. It returns
// the per-field messages, or nil when the form is accepted.
func bindForm(c *gin.Context, f form) map[string]string {
	if err := c.ShouldBindWith(f, binding.Form); err != nil {
		return map[string]string{"form": "Invalid submission."}
	}
	f.normalize()
	return fieldErrors(validate.Struct(f))
}

// fieldErrors translates validator errors into form field messages
func fieldErrors(err error) map[string]string {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"form": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue // First failing validator wins
		}
		msg, ok := fieldMessages[fe.Tag()]
		if !ok {
			msg = "Invalid value."
		}
		out[fe.Field()] = msg
	}
	return out
}

// truthy mirrors checkbox semantics: any non-empty submission is true
func truthy(raw string) bool {
	return raw != ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func checkbox(b bool) string {
	if b {
		return "y"
	}
	return ""
}
