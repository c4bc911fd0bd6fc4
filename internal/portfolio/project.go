package portfolio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"portfolioPro/internal/apperr"
	"portfolioPro/internal/database"
	"portfolioPro/internal/notify"
	"portfolioPro/internal/resource"
)

type ProjectBase = resource.Service[database.Project, *database.Project]

// ProjectService serves projects through the shared owned-resource contract
// and adds the social surface: membership, likes, threaded comments, and an
// audit trail on mutations.
type ProjectService struct {
	db       *gorm.DB
	base     *ProjectBase
	notifier *notify.Service
	logger   *slog.Logger
}

func NewProjectService(db *gorm.DB, notifier *notify.Service, logger *slog.Logger) *ProjectService {
	base := resource.NewService[database.Project](db, resource.Definition[database.Project]{
		Singular: "project",
		Identity: []resource.Field[database.Project]{
			{Column: "name", Label: "project name", Value: func(p *database.Project) any { return p.Name }},
		},
		OrderBy: "created_at DESC",
		Filters: map[string]string{
			"name":     "name",
			"category": "category",
		},
	})
	return &ProjectService{db: db, base: base, notifier: notifier, logger: logger}
}

// Create inserts the project, its owner membership row, and the first audit
// entry in one transaction.
func (s *ProjectService) Create(ctx context.Context, ownerID uuid.UUID, p *database.Project) (*database.Project, error) {
	var created *database.Project
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := s.base.WithDB(tx).Create(ctx, ownerID, p)
		if err != nil {
			return err
		}
		member := database.ProjectMember{
			ProjectID: rec.ID,
			UserID:    ownerID,
			CanEdit:   true,
		}
		if err := tx.Create(&member).Error; err != nil {
			return fmt.Errorf("create owner membership: %w", err)
		}
		if err := writeAudit(tx, rec.ID, ownerID, "created", map[string]any{"name": rec.Name}); err != nil {
			return err
		}
		created = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *ProjectService) ListOwned(ctx context.Context, ownerID uuid.UUID, page resource.Page) (*resource.PageResult[database.Project], error) {
	return s.base.ListOwned(ctx, ownerID, page)
}

// ListPublic lists public projects across all users with the usual filters.
func (s *ProjectService) ListPublic(ctx context.Context, page resource.Page, filters map[string]string) (*resource.PageResult[database.Project], error) {
	scoped := s.db.Where("is_public = ?", true).Session(&gorm.Session{})
	return s.base.WithDB(scoped).ListPublic(ctx, page, filters)
}

func (s *ProjectService) GetOwned(ctx context.Context, id, ownerID uuid.UUID) (*database.Project, error) {
	return s.base.GetOwned(ctx, id, ownerID)
}

// GetPublic returns a project only when it is publicly visible.
func (s *ProjectService) GetPublic(ctx context.Context, id uuid.UUID) (*database.Project, error) {
	var p database.Project
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_public = ?", id, true).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("project not found")
		}
		return nil, fmt.Errorf("query project: %w", err)
	}
	return &p, nil
}

// Update applies the partial update and records what changed.
func (s *ProjectService) Update(ctx context.Context, id, ownerID uuid.UUID, updates map[string]any) (*database.Project, error) {
	rec, err := s.base.Update(ctx, id, ownerID, updates)
	if err != nil {
		return nil, err
	}
	changed := make([]string, 0, len(updates))
	for column := range updates {
		changed = append(changed, column)
	}
	if err := writeAudit(s.db.WithContext(ctx), id, ownerID, "updated", map[string]any{"fields": changed}); err != nil && s.logger != nil {
		s.logger.Warn("write project audit failed", slog.Any("error", err))
	}
	return rec, nil
}

// Delete removes the project. Likes, comments, memberships, audit rows, and
// portfolio links go with it via the schema's cascade rules.
func (s *ProjectService) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	return s.base.Delete(ctx, id, ownerID)
}

// AddMember records a collaborator on one of the owner's projects.
func (s *ProjectService) AddMember(ctx context.Context, projectID, ownerID, memberID uuid.UUID, role, contribution *string, canEdit bool) (*database.ProjectMember, error) {
	if _, err := s.GetOwned(ctx, projectID, ownerID); err != nil {
		return nil, err
	}

	member := database.ProjectMember{
		ProjectID:    projectID,
		UserID:       memberID,
		Role:         role,
		Contribution: contribution,
		CanEdit:      canEdit,
	}
	if err := s.db.WithContext(ctx).Create(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("user is already a member of this project")
		}
		return nil, fmt.Errorf("add project member: %w", err)
	}
	return &member, nil
}

// ToggleLike likes a public project, or removes the caller's existing like.
// Returns the resulting state and the new like count.
func (s *ProjectService) ToggleLike(ctx context.Context, projectID, userID uuid.UUID) (liked bool, count int64, err error) {
	project, err := s.GetPublic(ctx, projectID)
	if err != nil {
		return false, 0, err
	}

	var existing database.ProjectLike
	lookupErr := s.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&existing).Error

	switch {
	case lookupErr == nil:
		if err := s.db.WithContext(ctx).Delete(&existing).Error; err != nil {
			return false, 0, fmt.Errorf("remove like: %w", err)
		}
		liked = false
	case errors.Is(lookupErr, gorm.ErrRecordNotFound):
		like := database.ProjectLike{ProjectID: projectID, UserID: userID}
		if err := s.db.WithContext(ctx).Create(&like).Error; err != nil {
			// A concurrent like from the same user already won; treat as liked.
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return false, 0, fmt.Errorf("create like: %w", err)
			}
		}
		liked = true
	default:
		return false, 0, fmt.Errorf("query like: %w", lookupErr)
	}

	if err := s.db.WithContext(ctx).
		Model(&database.ProjectLike{}).
		Where("project_id = ?", projectID).
		Count(&count).Error; err != nil {
		return liked, 0, fmt.Errorf("count likes: %w", err)
	}

	if liked && project.UserID != userID {
		s.notifyOwner(ctx, project, userID, "like", "Someone liked your project")
	}
	return liked, count, nil
}

// AddComment comments on a public project; parent, when present, must be a
// comment on the same project.
func (s *ProjectService) AddComment(ctx context.Context, projectID, userID uuid.UUID, content string, parentID *uuid.UUID) (*database.ProjectComment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperr.Validation("content is required")
	}

	project, err := s.GetPublic(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if parentID != nil {
		var parent database.ProjectComment
		err := s.db.WithContext(ctx).
			Where("id = ? AND project_id = ?", *parentID, projectID).
			First(&parent).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("parent comment not found")
			}
			return nil, fmt.Errorf("query parent comment: %w", err)
		}
	}

	comment := database.ProjectComment{
		ProjectID:       projectID,
		UserID:          userID,
		Content:         content,
		ParentCommentID: parentID,
	}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	if project.UserID != userID {
		s.notifyOwner(ctx, project, userID, "comment", "Someone commented on your project")
	}
	return &comment, nil
}

// ListComments returns a project's comments, oldest first.
func (s *ProjectService) ListComments(ctx context.Context, projectID uuid.UUID, page resource.Page) (*resource.PageResult[database.ProjectComment], error) {
	if _, err := s.GetPublic(ctx, projectID); err != nil {
		return nil, err
	}
	page = page.Normalize()

	var total int64
	if err := s.db.WithContext(ctx).
		Model(&database.ProjectComment{}).
		Where("project_id = ?", projectID).
		Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}

	var items []database.ProjectComment
	if err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Offset(page.Offset).
		Limit(page.Limit).
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	return &resource.PageResult[database.ProjectComment]{
		Items:  items,
		Total:  total,
		Offset: page.Offset,
		Limit:  page.Limit,
	}, nil
}

// DeleteComment removes the caller's own comment.
func (s *ProjectService) DeleteComment(ctx context.Context, commentID, userID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", commentID, userID).
		Delete(&database.ProjectComment{})
	if res.Error != nil {
		return fmt.Errorf("delete comment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("comment not found")
	}
	return nil
}

// AuditLog returns the owner's view of a project's mutation history.
func (s *ProjectService) AuditLog(ctx context.Context, projectID, ownerID uuid.UUID, page resource.Page) (*resource.PageResult[database.ProjectAudit], error) {
	if _, err := s.GetOwned(ctx, projectID, ownerID); err != nil {
		return nil, err
	}
	page = page.Normalize()

	var total int64
	if err := s.db.WithContext(ctx).
		Model(&database.ProjectAudit{}).
		Where("project_id = ?", projectID).
		Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count audit rows: %w", err)
	}

	var items []database.ProjectAudit
	if err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Offset(page.Offset).
		Limit(page.Limit).
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list audit rows: %w", err)
	}

	return &resource.PageResult[database.ProjectAudit]{
		Items:  items,
		Total:  total,
		Offset: page.Offset,
		Limit:  page.Limit,
	}, nil
}

func (s *ProjectService) notifyOwner(ctx context.Context, project *database.Project, actorID uuid.UUID, kind, message string) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.Notify(ctx, notify.Event{
		UserID:   project.UserID,
		ActorID:  &actorID,
		Message:  message,
		Type:     kind,
		Metadata: map[string]any{"project_id": project.ID, "project_name": project.Name},
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("notify project owner failed",
			slog.String("project_id", project.ID.String()),
			slog.Any("error", err),
		)
	}
}

func writeAudit(db *gorm.DB, projectID, userID uuid.UUID, action string, details map[string]any) error {
	var payload datatypes.JSON
	if details != nil {
		raw, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("encode audit details: %w", err)
		}
		payload = datatypes.JSON(raw)
	}
	row := database.ProjectAudit{
		ProjectID: projectID,
		UserID:    userID,
		Action:    action,
		Details:   payload,
	}
	if err := db.Create(&row).Error; err != nil {
		return fmt.Errorf("write audit row: %w", err)
	}
	return nil
}
