package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"portfolioPro/internal/database"
)

func newSettingsRouter(db *gorm.DB, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handler := NewSettingsHandler(db, nil)

	owned := router.Group("/me")
	owned.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	})
	handler.Register(owned)

	return router
}

func seedUser(t *testing.T, db *gorm.DB, email, username string) *database.User {
	t.Helper()
	user := database.User{Email: email, Username: username, IsActive: true, IsVisible: true}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return &user
}

func TestSettingsGetCreatesDefaults(t *testing.T) {
	db := newTestDB(t, &database.User{}, &database.UserSettings{})
	user := seedUser(t, db, "a@example.com", "alice")
	router := newSettingsRouter(db, user.ID)

	w := doJSON(t, router, http.MethodGet, "/me/settings", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d, body = %s", w.Code, w.Body.String())
	}

	var settings database.UserSettings
	if err := json.Unmarshal(w.Body.Bytes(), &settings); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	if settings.Language != "en" || settings.Theme != "custom" || settings.LayoutStyle != "modern" {
		t.Fatalf("unexpected defaults: %+v", settings)
	}
	if settings.PrimaryTheme != "#171717" || settings.Accent != "#05df72" {
		t.Fatalf("unexpected theme defaults: %+v", settings)
	}

	// The lazily created row must be persisted, not rebuilt per request.
	var n int64
	db.Model(&database.UserSettings{}).Where("user_id = ?", user.ID).Count(&n)
	if n != 1 {
		t.Fatalf("settings rows = %d, want 1", n)
	}
}

func TestSettingsPartialUpdate(t *testing.T) {
	db := newTestDB(t, &database.User{}, &database.UserSettings{})
	user := seedUser(t, db, "a@example.com", "alice")
	router := newSettingsRouter(db, user.ID)

	w := doJSON(t, router, http.MethodPut, "/me/settings", gin.H{
		"theme":  "dark",
		"accent": "#ff0000",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("put status = %d, body = %s", w.Code, w.Body.String())
	}

	var settings database.UserSettings
	if err := json.Unmarshal(w.Body.Bytes(), &settings); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	if settings.Theme != "dark" || settings.Accent != "#ff0000" {
		t.Fatalf("update not applied: %+v", settings)
	}
	// Untouched fields keep their defaults.
	if settings.Language != "en" || settings.LayoutStyle != "modern" {
		t.Fatalf("untouched fields changed: %+v", settings)
	}
}

func TestAccountInfoRoundTrip(t *testing.T) {
	db := newTestDB(t, &database.User{}, &database.UserSettings{})
	user := seedUser(t, db, "a@example.com", "alice")
	router := newSettingsRouter(db, user.ID)

	w := doJSON(t, router, http.MethodPut, "/me/settings/info", gin.H{
		"username":   "alice2",
		"first_name": "Alice",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("put status = %d, body = %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/me/settings/info", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var info map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &info); err != nil {
		t.Fatalf("decode info: %v", err)
	}
	if info["username"] != "alice2" || info["first_name"] != "Alice" {
		t.Fatalf("unexpected info: %v", info)
	}
	// Email was not part of the payload and must be unchanged.
	if info["email"] != "a@example.com" {
		t.Fatalf("email changed: %v", info)
	}
}

func TestAccountInfoUniqueness(t *testing.T) {
	db := newTestDB(t, &database.User{}, &database.UserSettings{})
	user := seedUser(t, db, "a@example.com", "alice")
	seedUser(t, db, "b@example.com", "bob")
	router := newSettingsRouter(db, user.ID)

	w := doJSON(t, router, http.MethodPut, "/me/settings/info", gin.H{"username": "bob"})
	if w.Code != http.StatusConflict {
		t.Fatalf("username conflict status = %d, body = %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPut, "/me/settings/info", gin.H{"email": "B@example.com"})
	if w.Code != http.StatusConflict {
		t.Fatalf("email conflict status = %d, body = %s", w.Code, w.Body.String())
	}

	// Re-submitting the caller's own identifiers is not a conflict.
	w = doJSON(t, router, http.MethodPut, "/me/settings/info", gin.H{"username": "alice", "email": "a@example.com"})
	if w.Code != http.StatusOK {
		t.Fatalf("self update status = %d, body = %s", w.Code, w.Body.String())
	}
}
