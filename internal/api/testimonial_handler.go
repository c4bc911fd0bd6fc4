package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"portfolioPro/internal/api/middleware"
	"portfolioPro/internal/database"
	"portfolioPro/internal/notify"
)

// TestimonialHandler handles testimonials written by one user about another.
// A testimonial stays private until the subject approves it.
type TestimonialHandler struct {
	db       *gorm.DB
	notifier *notify.Service
	logger   *slog.Logger
}

func NewTestimonialHandler(db *gorm.DB, notifier *notify.Service, logger *slog.Logger) *TestimonialHandler {
	return &TestimonialHandler{db: db, notifier: notifier, logger: logger}
}

func (h *TestimonialHandler) Register(owned, public *gin.RouterGroup) {
	owned.POST("/users/:userID/testimonials", h.Create)
	owned.GET("/testimonials", h.ListMine)
	owned.POST("/testimonials/:id/approve", h.Approve)
	owned.DELETE("/testimonials/:id", h.Delete)

	public.GET("/users/:userID/testimonials", h.ListApproved)
}

type createTestimonialRequest struct {
	AuthorName         string  `json:"author_name" binding:"required,max=128"`
	AuthorTitle        *string `json:"author_title"`
	AuthorCompany      *string `json:"author_company"`
	AuthorRelationship *string `json:"author_relationship"`
	Content            string  `json:"content" binding:"required"`
	Rating             *int    `json:"rating" binding:"omitempty,min=1,max=5"`
}

// Create records a testimonial about the user in the path, authored by the
// caller, and notifies the subject.
func (h *TestimonialHandler) Create(c *gin.Context) {
	authorID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	subjectID, ok := idParam(c, "userID")
	if !ok {
		BadRequest(c, "invalid user id")
		return
	}
	if subjectID == authorID {
		BadRequest(c, "cannot write a testimonial about yourself")
		return
	}

	var req createTestimonialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	var subject database.User
	if err := h.db.WithContext(ctx).Where("id = ? AND is_active = ?", subjectID, true).First(&subject).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "user not found")
			return
		}
		h.loggerFromContext(c).Error("load subject failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	testimonial := database.Testimonial{
		UserID:             subjectID,
		AuthorUserID:       authorID,
		AuthorName:         req.AuthorName,
		AuthorTitle:        req.AuthorTitle,
		AuthorCompany:      req.AuthorCompany,
		AuthorRelationship: req.AuthorRelationship,
		Content:            req.Content,
		Rating:             req.Rating,
	}
	if err := h.db.WithContext(ctx).Create(&testimonial).Error; err != nil {
		h.loggerFromContext(c).Error("create testimonial failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	if err := h.notifier.Notify(ctx, notify.Event{
		UserID:  subjectID,
		ActorID: &authorID,
		Type:    "testimonial",
		Message: req.AuthorName + " wrote you a testimonial",
		Metadata: map[string]any{
			"testimonial_id": testimonial.ID,
		},
	}); err != nil {
		h.loggerFromContext(c).Warn("notify testimonial failed", slog.Any("error", err))
	}

	c.JSON(http.StatusCreated, testimonial)
}

// ListMine returns everything written about the caller, approved or not.
func (h *TestimonialHandler) ListMine(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	h.list(c, func(q *gorm.DB) *gorm.DB {
		return q.Where("user_id = ?", userID)
	})
}

// ListApproved returns only approved testimonials about the user in the path.
func (h *TestimonialHandler) ListApproved(c *gin.Context) {
	subjectID, ok := idParam(c, "userID")
	if !ok {
		BadRequest(c, "invalid user id")
		return
	}

	h.list(c, func(q *gorm.DB) *gorm.DB {
		return q.Where("user_id = ? AND is_approved = ?", subjectID, true)
	})
}

func (h *TestimonialHandler) list(c *gin.Context, scope func(*gorm.DB) *gorm.DB) {
	ctx := c.Request.Context()
	page := pageFromQuery(c)
	page = page.Normalize()

	base := scope(h.db.WithContext(ctx).Model(&database.Testimonial{})).Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		h.loggerFromContext(c).Error("count testimonials failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	var items []database.Testimonial
	if err := base.Order("created_at DESC").Offset(page.Offset).Limit(page.Limit).Find(&items).Error; err != nil {
		h.loggerFromContext(c).Error("list testimonials failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":  items,
		"total":  total,
		"offset": page.Offset,
		"limit":  page.Limit,
	})
}

// Approve marks a testimonial about the caller as approved.
func (h *TestimonialHandler) Approve(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		BadRequest(c, "invalid id")
		return
	}

	ctx := c.Request.Context()
	result := h.db.WithContext(ctx).Model(&database.Testimonial{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_approved", true)
	if result.Error != nil {
		h.loggerFromContext(c).Error("approve testimonial failed", slog.Any("error", result.Error))
		Internal(c, "internal error")
		return
	}
	if result.RowsAffected == 0 {
		NotFound(c, "testimonial not found")
		return
	}

	var testimonial database.Testimonial
	if err := h.db.WithContext(ctx).Where("id = ?", id).First(&testimonial).Error; err != nil {
		Internal(c, "internal error")
		return
	}
	c.JSON(http.StatusOK, testimonial)
}

// Delete removes a testimonial. The subject can always remove it; the author
// can retract their own.
func (h *TestimonialHandler) Delete(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		BadRequest(c, "invalid id")
		return
	}

	result := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND (user_id = ? OR author_user_id = ?)", id, userID, userID).
		Delete(&database.Testimonial{})
	if result.Error != nil {
		h.loggerFromContext(c).Error("delete testimonial failed", slog.Any("error", result.Error))
		Internal(c, "internal error")
		return
	}
	if result.RowsAffected == 0 {
		NotFound(c, "testimonial not found")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TestimonialHandler) loggerFromContext(c *gin.Context) *slog.Logger {
	if logger := middleware.LoggerFromContext(c); logger != nil {
		return logger
	}
	if h.logger != nil {
		return h.logger
	}
	return slog.Default()
}
