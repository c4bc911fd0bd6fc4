package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"portfolioPro/internal/api/middleware"
	"portfolioPro/internal/database"
)

// ProfileHandler serves the 1:1 bio block and the public profile page.
type ProfileHandler struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewProfileHandler(db *gorm.DB, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{db: db, logger: logger}
}

func (h *ProfileHandler) Register(owned, public *gin.RouterGroup) {
	owned.GET("/profile", h.GetMine)
	owned.PUT("/profile", h.Upsert)

	public.GET("/profiles/:username", h.GetPublic)
}

func (h *ProfileHandler) GetMine(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var profile database.UserProfile
	err := h.db.WithContext(c.Request.Context()).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "profile not found")
			return
		}
		h.loggerFromContext(c).Error("load profile failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}
	c.JSON(http.StatusOK, profile)
}

type upsertProfileRequest struct {
	Bio               *string `json:"bio"`
	Profession        *string `json:"profession"`
	JobTitle          *string `json:"job_title"`
	YearsOfExperience *int    `json:"years_of_experience"`
	GithubUsername    *string `json:"github_username"`
	WebsiteURL        *string `json:"website_url"`
	Location          *string `json:"location"`
	OpenToWork        bool    `json:"open_to_work"`
	Availability      *string `json:"availability"`
}

// Upsert replaces the caller's profile wholesale. PUT semantics keep this
// simpler than field-wise merging for what is one JSON-shaped row.
func (h *ProfileHandler) Upsert(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var req upsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	profile := database.UserProfile{
		UserID:            userID,
		Bio:               req.Bio,
		Profession:        req.Profession,
		JobTitle:          req.JobTitle,
		YearsOfExperience: req.YearsOfExperience,
		GithubUsername:    req.GithubUsername,
		WebsiteURL:        req.WebsiteURL,
		Location:          req.Location,
		OpenToWork:        req.OpenToWork,
		Availability:      req.Availability,
	}

	err := h.db.WithContext(c.Request.Context()).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(&profile).Error
	if err != nil {
		h.loggerFromContext(c).Error("upsert profile failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetPublic returns a visible user's account basics together with the
// profile row, keyed by username.
func (h *ProfileHandler) GetPublic(c *gin.Context) {
	username := c.Param("username")
	ctx := c.Request.Context()

	var user database.User
	err := h.db.WithContext(ctx).
		Where("username = ? AND is_active = ? AND is_visible = ?", username, true, true).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "profile not found")
			return
		}
		h.loggerFromContext(c).Error("load user failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	var profile database.UserProfile
	if err := h.db.WithContext(ctx).Where("user_id = ?", user.ID).First(&profile).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		h.loggerFromContext(c).Error("load profile failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":    user.ID,
		"username":   user.Username,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"profile":    profile,
	})
}

func (h *ProfileHandler) loggerFromContext(c *gin.Context) *slog.Logger {
	if logger := middleware.LoggerFromContext(c); logger != nil {
		return logger
	}
	if h.logger != nil {
		return h.logger
	}
	return slog.Default()
}
