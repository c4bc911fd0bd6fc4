package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"portfolioPro/internal/database"
	"portfolioPro/internal/resource"
)

func newTestDB(t *testing.T, models ...any) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(models...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// newEducationRouter mounts the education handler behind a stub auth
// middleware that injects the given principal.
func newEducationRouter(db *gorm.DB, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handler := NewEducationHandler(resource.NewEducationService(db))

	owned := router.Group("/me")
	owned.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	})
	public := router.Group("/public")
	handler.Register(owned, public, "education")

	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewBuffer(raw)
	} else {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestEducationCreateAndGet(t *testing.T) {
	db := newTestDB(t, &database.Education{})
	userID := uuid.New()
	router := newEducationRouter(db, userID)

	w := doJSON(t, router, http.MethodPost, "/me/education", gin.H{
		"institution": "MIT",
		"degree":      "BSc",
		"start_year":  2018,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}

	var created database.Education
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	if created.UserID != userID {
		t.Fatalf("owner = %s, want %s", created.UserID, userID)
	}

	w = doJSON(t, router, http.MethodGet, "/me/education/"+created.ID.String(), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
}

func TestEducationCreateMissingIdentityField(t *testing.T) {
	db := newTestDB(t, &database.Education{})
	router := newEducationRouter(db, uuid.New())

	w := doJSON(t, router, http.MethodPost, "/me/education", gin.H{
		"institution": "MIT",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestEducationDuplicateReturnsConflict(t *testing.T) {
	db := newTestDB(t, &database.Education{})
	router := newEducationRouter(db, uuid.New())

	payload := gin.H{"institution": "MIT", "degree": "BSc"}
	if w := doJSON(t, router, http.MethodPost, "/me/education", payload); w.Code != http.StatusCreated {
		t.Fatalf("first create status = %d", w.Code)
	}
	if w := doJSON(t, router, http.MethodPost, "/me/education", payload); w.Code != http.StatusConflict {
		t.Fatalf("second create status = %d, want 409", w.Code)
	}
}

func TestEducationUpdateAndDelete(t *testing.T) {
	db := newTestDB(t, &database.Education{})
	router := newEducationRouter(db, uuid.New())

	w := doJSON(t, router, http.MethodPost, "/me/education", gin.H{"institution": "MIT", "degree": "BSc"})
	var created database.Education
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}

	w = doJSON(t, router, http.MethodPatch, "/me/education/"+created.ID.String(), gin.H{"degree": "MSc"})
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", w.Code, w.Body.String())
	}
	var updated database.Education
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode updated: %v", err)
	}
	if updated.Degree != "MSc" {
		t.Fatalf("degree = %q, want MSc", updated.Degree)
	}

	w = doJSON(t, router, http.MethodDelete, "/me/education/"+created.ID.String(), nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}
	w = doJSON(t, router, http.MethodGet, "/me/education/"+created.ID.String(), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", w.Code)
	}
}

func TestEducationPublicListFilters(t *testing.T) {
	db := newTestDB(t, &database.Education{})
	router := newEducationRouter(db, uuid.New())

	for _, rec := range []gin.H{
		{"institution": "MIT", "degree": "BSc"},
		{"institution": "Stanford", "degree": "MSc"},
	} {
		if w := doJSON(t, router, http.MethodPost, "/me/education", rec); w.Code != http.StatusCreated {
			t.Fatalf("seed create status = %d", w.Code)
		}
	}

	w := doJSON(t, router, http.MethodGet, "/public/education?institution=stan", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("public list status = %d", w.Code)
	}
	var page struct {
		Items []database.Education `json:"items"`
		Total int64                `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].Institution != "Stanford" {
		t.Fatalf("filtered items = %+v", page.Items)
	}
	if page.Total != 1 {
		t.Fatalf("total = %d, want 1", page.Total)
	}
}

func TestEducationOwnershipInvisibleAcrossUsers(t *testing.T) {
	db := newTestDB(t, &database.Education{})
	owner := uuid.New()
	ownerRouter := newEducationRouter(db, owner)

	w := doJSON(t, ownerRouter, http.MethodPost, "/me/education", gin.H{"institution": "MIT", "degree": "BSc"})
	var created database.Education
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}

	otherRouter := newEducationRouter(db, uuid.New())
	if w := doJSON(t, otherRouter, http.MethodGet, "/me/education/"+created.ID.String(), nil); w.Code != http.StatusNotFound {
		t.Fatalf("foreign get status = %d, want 404", w.Code)
	}
	if w := doJSON(t, otherRouter, http.MethodDelete, "/me/education/"+created.ID.String(), nil); w.Code != http.StatusNotFound {
		t.Fatalf("foreign delete status = %d, want 404", w.Code)
	}
}
