package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"portfolioPro/internal/api/middleware"
	"portfolioPro/internal/database"
)

// SettingsHandler serves the caller's presentation preferences and account
// basics. The settings row is created lazily with its defaults, so a fresh
// account can GET before ever writing.
type SettingsHandler struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewSettingsHandler(db *gorm.DB, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{db: db, logger: logger}
}

func (h *SettingsHandler) Register(owned *gin.RouterGroup) {
	owned.GET("/settings", h.Get)
	owned.PUT("/settings", h.Update)
	owned.GET("/settings/info", h.GetAccountInfo)
	owned.PUT("/settings/info", h.UpdateAccountInfo)
}

func (h *SettingsHandler) Get(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	settings, err := h.loadOrCreate(c, userID)
	if err != nil {
		h.loggerFromContext(c).Error("load settings failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}
	c.JSON(http.StatusOK, settings)
}

type updateSettingsRequest struct {
	Language           *string `json:"language"`
	Loader             *string `json:"loader"`
	Theme              *string `json:"theme"`
	PrimaryTheme       *string `json:"primary_theme"`
	SecondaryTheme     *string `json:"secondary_theme"`
	Accent             *string `json:"accent"`
	PrimaryThemeDark   *string `json:"primary_theme_dark"`
	SecondaryThemeDark *string `json:"secondary_theme_dark"`
	LayoutStyle        *string `json:"layout_style"`
}

// Update merges the provided fields into the settings row, creating it first
// when the caller never read their settings.
func (h *SettingsHandler) Update(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	updates := map[string]any{}
	for column, value := range map[string]*string{
		"language":             req.Language,
		"loader":               req.Loader,
		"theme":                req.Theme,
		"primary_theme":        req.PrimaryTheme,
		"secondary_theme":      req.SecondaryTheme,
		"accent":               req.Accent,
		"primary_theme_dark":   req.PrimaryThemeDark,
		"secondary_theme_dark": req.SecondaryThemeDark,
		"layout_style":         req.LayoutStyle,
	} {
		if value != nil {
			updates[column] = *value
		}
	}

	settings, err := h.loadOrCreate(c, userID)
	if err != nil {
		h.loggerFromContext(c).Error("load settings failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	if len(updates) > 0 {
		if err := h.db.WithContext(c.Request.Context()).Model(settings).Updates(updates).Error; err != nil {
			h.loggerFromContext(c).Error("update settings failed", slog.Any("error", err))
			Internal(c, "internal error")
			return
		}
		if err := h.db.WithContext(c.Request.Context()).First(settings, "id = ?", settings.ID).Error; err != nil {
			h.loggerFromContext(c).Error("reload settings failed", slog.Any("error", err))
			Internal(c, "internal error")
			return
		}
	}
	c.JSON(http.StatusOK, settings)
}

// GetAccountInfo returns the account fields the settings page edits.
func (h *SettingsHandler) GetAccountInfo(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var user database.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, "id = ?", userID).Error; err != nil {
		h.loggerFromContext(c).Error("load user failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"username":   user.Username,
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
	})
}

type updateAccountInfoRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email" binding:"omitempty,email"`
	FirstName *string `json:"first_name" binding:"omitempty,max=64"`
	LastName  *string `json:"last_name" binding:"omitempty,max=64"`
}

// UpdateAccountInfo applies a partial update to username, email and names.
// Username and email stay globally unique; as with registration, the column
// indexes settle races and the lookup just makes the common case readable.
func (h *SettingsHandler) UpdateAccountInfo(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var req updateAccountInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	logger := h.loggerFromContext(c)

	updates := map[string]any{}
	if req.Username != nil && strings.TrimSpace(*req.Username) != "" {
		updates["username"] = strings.TrimSpace(*req.Username)
	}
	if req.Email != nil && strings.TrimSpace(*req.Email) != "" {
		updates["email"] = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}

	if username, ok := updates["username"]; ok {
		taken, err := h.identifierTaken(c, "username", username.(string), userID)
		if err != nil {
			logger.Error("username lookup failed", slog.Any("error", err))
			Internal(c, "internal error")
			return
		}
		if taken {
			Conflict(c, "username already taken")
			return
		}
	}
	if email, ok := updates["email"]; ok {
		taken, err := h.identifierTaken(c, "email", email.(string), userID)
		if err != nil {
			logger.Error("email lookup failed", slog.Any("error", err))
			Internal(c, "internal error")
			return
		}
		if taken {
			Conflict(c, "email already taken")
			return
		}
	}

	var user database.User
	if err := h.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		logger.Error("load user failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	if len(updates) > 0 {
		if err := h.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				Conflict(c, "username or email already taken")
				return
			}
			logger.Error("update account info failed", slog.Any("error", err))
			Internal(c, "internal error")
			return
		}
		if err := h.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
			logger.Error("reload user failed", slog.Any("error", err))
			Internal(c, "internal error")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"username":   user.Username,
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
	})
}

func (h *SettingsHandler) loadOrCreate(c *gin.Context, userID uuid.UUID) (*database.UserSettings, error) {
	ctx := c.Request.Context()
	var settings database.UserSettings
	err := h.db.WithContext(ctx).Where("user_id = ?", userID).First(&settings).Error
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	settings = database.UserSettings{
		UserID:             userID,
		Language:           "en",
		Loader:             "portfolio-pro",
		Theme:              "custom",
		PrimaryTheme:       "#171717",
		SecondaryTheme:     "#ffffff",
		Accent:             "#05df72",
		PrimaryThemeDark:   "#ededed",
		SecondaryThemeDark: "#0a0a0a",
		LayoutStyle:        "modern",
	}
	if err := h.db.WithContext(ctx).Create(&settings).Error; err != nil {
		// Another request may have created the row between the read and
		// the write; re-read instead of failing.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			err = h.db.WithContext(ctx).Where("user_id = ?", userID).First(&settings).Error
		}
		if err != nil {
			return nil, err
		}
	}
	return &settings, nil
}

func (h *SettingsHandler) identifierTaken(c *gin.Context, column, value string, selfID uuid.UUID) (bool, error) {
	var n int64
	err := h.db.WithContext(c.Request.Context()).
		Model(&database.User{}).
		Where(column+" = ? AND id <> ?", value, selfID).
		Count(&n).Error
	return n > 0, err
}

func (h *SettingsHandler) loggerFromContext(c *gin.Context) *slog.Logger {
	if logger := middleware.LoggerFromContext(c); logger != nil {
		return logger
	}
	if h.logger != nil {
		return h.logger
	}
	return slog.Default()
}
