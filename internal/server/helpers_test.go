package server

import (
	"cafe_directory/internal/app"
	"cafe_directory/internal/config"
	"cafe_directory/internal/domain"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestApp builds the application on a private in-memory SQLite database.
// opts adjust the configuration before the app starts.
func newTestApp(t *testing.T, opts ...func(*config.Config)) (*app.App, http.Handler) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	cfg := &config.Config{
		SecretKey:   "test-secret",
		DBDriver:    config.DriverSQLite,
		DBPath:      "file:" + name + "?mode=memory&cache=shared",
		SessionTTL:  time.Hour,
		AutoMigrate: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	a, err := app.New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	r, err := NewRouter(a)
	require.NoError(t, err)
	return a, r
}

// client replays cookies between requests like a browser
type client struct {
	t       *testing.T
	h       http.Handler
	cookies map[string]*http.Cookie
}

func newClient(t *testing.T, h http.Handler) *client {
	return &client{t: t, h: h, cookies: map[string]*http.Cookie{}}
}

func (c *client) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	c.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, ck := range c.cookies {
		req.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
	}
	w := httptest.NewRecorder()
	c.h.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 || ck.Value == "" {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return w
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(http.MethodGet, path, nil)
}

func (c *client) post(path string, form url.Values) *httptest.ResponseRecorder {
	return c.do(http.MethodPost, path, form)
}

func (c *client) hasSession() bool {
	_, ok := c.cookies["session"]
	return ok
}

// flash returns the pending notice without consuming it
func (c *client) flash() string {
	ck, ok := c.cookies["flash"]
	if !ok {
		return ""
	}
	v, err := url.QueryUnescape(ck.Value)
	require.NoError(c.t, err)
	return v
}

// register signs a new user up and returns the logged in client
func register(t *testing.T, h http.Handler, email, password, name string) *client {
	t.Helper()
	c := newClient(t, h)
	w := c.post("/register", url.Values{"email": {email}, "password": {password}, "name": {name}})
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))
	require.True(t, c.hasSession())
	return c
}

func seedCafe(t *testing.T, a *app.App, name, location string) domain.Cafe {
	t.Helper()
	price := "£2.50"
	cafe := domain.Cafe{
		Name:        name,
		MapURL:      "https://maps.example.com/" + name,
		ImgURL:      "https://img.example.com/" + name + ".jpg",
		Location:    location,
		HasSockets:  true,
		HasWifi:     true,
		Seats:       "20-30",
		CoffeePrice: &price,
	}
	require.NoError(t, a.DB.Create(&cafe).Error)
	return cafe
}

func countRows(t *testing.T, a *app.App, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, a.DB.Model(model).Count(&n).Error)
	return n
}

// afterNextCount runs write right after the next COUNT query on table, the
// way a concurrent request committing between a check and an insert would.
func afterNextCount(t *testing.T, a *app.App, table string, write func(tx *gorm.DB) error) {
	t.Helper()
	var once sync.Once
	err := a.DB.Callback().Query().After("gorm:query").Register("test:write_after_count_"+table, func(tx *gorm.DB) {
		if tx.Statement.Table != table {
			return
		}
		if _, isCount := tx.Statement.Dest.(*int64); !isCount {
			return
		}
		once.Do(func() {
			require.NoError(t, write(tx.Session(&gorm.Session{NewDB: true})))
		})
	})
	require.NoError(t, err)
}
