// Package notify persists user notifications and fans them out over Redis
// pub/sub so open websocket connections see them live.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"portfolioPro/internal/apperr"
	"portfolioPro/internal/database"
	"portfolioPro/internal/resource"
)

// ChannelFor names the Redis pub/sub channel carrying one user's notifications.
func ChannelFor(userID uuid.UUID) string {
	return "user_notify:" + userID.String()
}

// Event describes a notification to record and push.
type Event struct {
	UserID    uuid.UUID
	ActorID   *uuid.UUID
	Message   string
	Type      string
	Metadata  map[string]any
	ActionURL *string
}

// Service stores notification rows and publishes them.
type Service struct {
	db     *gorm.DB
	redis  redis.UniversalClient
	logger *slog.Logger
}

func NewService(db *gorm.DB, redisClient redis.UniversalClient, logger *slog.Logger) *Service {
	return &Service{db: db, redis: redisClient, logger: logger}
}

// Notify records the event and publishes it to the recipient's channel. The
// pub/sub push is best effort: a closed Redis connection must not fail the
// request that triggered the notification.
func (s *Service) Notify(ctx context.Context, event Event) error {
	if event.Type == "" {
		event.Type = "alert"
	}

	var meta datatypes.JSON
	if event.Metadata != nil {
		raw, err := json.Marshal(event.Metadata)
		if err != nil {
			return fmt.Errorf("encode notification metadata: %w", err)
		}
		meta = datatypes.JSON(raw)
	}

	row := database.Notification{
		UserID:           event.UserID,
		ActorID:          event.ActorID,
		Message:          event.Message,
		NotificationType: event.Type,
		Metadata:         meta,
		ActionURL:        event.ActionURL,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	if s.redis != nil {
		payload, err := json.Marshal(row)
		if err == nil {
			err = s.redis.Publish(ctx, ChannelFor(event.UserID), payload).Err()
		}
		if err != nil && s.logger != nil {
			s.logger.Warn("publish notification failed",
				slog.String("user_id", event.UserID.String()),
				slog.Any("error", err),
			)
		}
	}

	return nil
}

// List returns the user's notifications, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID, page resource.Page, unreadOnly bool) (*resource.PageResult[database.Notification], error) {
	page = page.Normalize()

	scope := func(q *gorm.DB) *gorm.DB {
		q = q.Where("user_id = ?", userID)
		if unreadOnly {
			q = q.Where("is_read = ?", false)
		}
		return q
	}

	var total int64
	if err := scope(s.db.WithContext(ctx).Model(&database.Notification{})).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count notifications: %w", err)
	}

	var items []database.Notification
	if err := scope(s.db.WithContext(ctx)).
		Order("created_at DESC").
		Offset(page.Offset).
		Limit(page.Limit).
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	return &resource.PageResult[database.Notification]{
		Items:  items,
		Total:  total,
		Offset: page.Offset,
		Limit:  page.Limit,
	}, nil
}

// MarkRead flags one of the user's notifications as read.
func (s *Service) MarkRead(ctx context.Context, id, userID uuid.UUID) (*database.Notification, error) {
	var row database.Notification
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("notification not found")
		}
		return nil, fmt.Errorf("query notification: %w", err)
	}

	if !row.IsRead {
		now := time.Now()
		updates := map[string]any{"is_read": true, "read_at": now}
		if err := s.db.WithContext(ctx).Model(&row).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("mark notification read: %w", err)
		}
		row.IsRead = true
		row.ReadAt = &now
	}
	return &row, nil
}

// MarkAllRead flags every unread notification of the user and returns how
// many were touched.
func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	now := time.Now()
	res := s.db.WithContext(ctx).
		Model(&database.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]any{"is_read": true, "read_at": now})
	if res.Error != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", res.Error)
	}
	return res.RowsAffected, nil
}
