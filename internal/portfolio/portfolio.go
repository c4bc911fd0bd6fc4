// Package portfolio holds the services behind portfolios and projects: the
// owned-resource contract plus the behaviors that do not generalize (slug
// generation, project ordering, likes, comments, audit trail).
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"portfolioPro/internal/apperr"
	"portfolioPro/internal/database"
	"portfolioPro/internal/resource"
)

type PortfolioBase = resource.Service[database.Portfolio, *database.Portfolio]

// PortfolioService wraps the generic owned-resource service with slug
// handling and project membership.
type PortfolioService struct {
	db   *gorm.DB
	base *PortfolioBase
}

func NewPortfolioService(db *gorm.DB) *PortfolioService {
	base := resource.NewService[database.Portfolio](db, resource.Definition[database.Portfolio]{
		Singular: "portfolio",
		Identity: []resource.Field[database.Portfolio]{
			{Column: "slug", Label: "slug", Value: func(p *database.Portfolio) any { return p.Slug }},
		},
		OrderBy: "created_at DESC",
		Filters: map[string]string{
			"name": "name",
			"slug": "slug",
		},
	})
	return &PortfolioService{db: db, base: base}
}

var slugScrub = regexp.MustCompile(`[^a-z0-9\-_]+`)
var slugDashes = regexp.MustCompile(`-+`)

// Slugify reduces a portfolio name to a URL-safe slug.
func Slugify(name string) string {
	s := slugScrub.ReplaceAllString(strings.ToLower(name), "-")
	s = slugDashes.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Create stores a portfolio; the slug is derived from the name (with a short
// random suffix) when the caller does not send one.
func (s *PortfolioService) Create(ctx context.Context, ownerID uuid.UUID, p *database.Portfolio) (*database.Portfolio, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, apperr.Validation("name is required")
	}
	if strings.TrimSpace(p.Slug) == "" {
		p.Slug = fmt.Sprintf("%s-%s", Slugify(p.Name), uuid.NewString()[:8])
	}
	return s.base.Create(ctx, ownerID, p)
}

func (s *PortfolioService) ListOwned(ctx context.Context, ownerID uuid.UUID, page resource.Page) (*resource.PageResult[database.Portfolio], error) {
	return s.base.ListOwned(ctx, ownerID, page)
}

// ListPublic lists public portfolios across all users.
func (s *PortfolioService) ListPublic(ctx context.Context, page resource.Page, filters map[string]string) (*resource.PageResult[database.Portfolio], error) {
	scoped := s.db.Where("is_public = ?", true).Session(&gorm.Session{})
	return s.base.WithDB(scoped).ListPublic(ctx, page, filters)
}

func (s *PortfolioService) GetOwned(ctx context.Context, id, ownerID uuid.UUID) (*database.Portfolio, error) {
	return s.base.GetOwned(ctx, id, ownerID)
}

// GetPublicBySlug resolves a user's public portfolio by slug.
func (s *PortfolioService) GetPublicBySlug(ctx context.Context, userID uuid.UUID, slug string) (*database.Portfolio, error) {
	var p database.Portfolio
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND slug = ? AND is_public = ?", userID, slug, true).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("portfolio not found")
		}
		return nil, fmt.Errorf("query portfolio: %w", err)
	}
	return &p, nil
}

func (s *PortfolioService) Update(ctx context.Context, id, ownerID uuid.UUID, updates map[string]any) (*database.Portfolio, error) {
	return s.base.Update(ctx, id, ownerID, updates)
}

func (s *PortfolioService) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	return s.base.Delete(ctx, id, ownerID)
}

// AttachProject links one of the owner's projects to the portfolio, appended
// at the end unless a position is provided.
func (s *PortfolioService) AttachProject(ctx context.Context, portfolioID, projectID, ownerID uuid.UUID, position *int, notes *string) (*database.PortfolioProjectLink, error) {
	if _, err := s.GetOwned(ctx, portfolioID, ownerID); err != nil {
		return nil, err
	}

	var project database.Project
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", projectID, ownerID).
		First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("project not found")
		}
		return nil, fmt.Errorf("query project: %w", err)
	}

	var existing int64
	if err := s.db.WithContext(ctx).
		Model(&database.PortfolioProjectLink{}).
		Where("portfolio_id = ? AND project_id = ?", portfolioID, projectID).
		Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("check portfolio link: %w", err)
	}
	if existing > 0 {
		return nil, apperr.Conflict("project already attached to this portfolio")
	}

	link := database.PortfolioProjectLink{
		PortfolioID: portfolioID,
		ProjectID:   projectID,
		Notes:       notes,
	}
	if position != nil {
		link.Position = *position
	} else {
		var maxPos *int
		row := s.db.WithContext(ctx).
			Model(&database.PortfolioProjectLink{}).
			Where("portfolio_id = ?", portfolioID).
			Select("MAX(position)").
			Row()
		if err := row.Scan(&maxPos); err == nil && maxPos != nil {
			link.Position = *maxPos + 1
		}
	}

	if err := s.db.WithContext(ctx).Create(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("project already attached to this portfolio")
		}
		return nil, fmt.Errorf("attach project: %w", err)
	}
	return &link, nil
}

// DetachProject removes the link; the project itself is untouched.
func (s *PortfolioService) DetachProject(ctx context.Context, portfolioID, projectID, ownerID uuid.UUID) error {
	if _, err := s.GetOwned(ctx, portfolioID, ownerID); err != nil {
		return err
	}

	res := s.db.WithContext(ctx).
		Where("portfolio_id = ? AND project_id = ?", portfolioID, projectID).
		Delete(&database.PortfolioProjectLink{})
	if res.Error != nil {
		return fmt.Errorf("detach project: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("project not attached to this portfolio")
	}
	return nil
}

// ReorderProjects rewrites link positions to match the given order.
func (s *PortfolioService) ReorderProjects(ctx context.Context, portfolioID, ownerID uuid.UUID, projectIDs []uuid.UUID) error {
	if _, err := s.GetOwned(ctx, portfolioID, ownerID); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, projectID := range projectIDs {
			res := tx.Model(&database.PortfolioProjectLink{}).
				Where("portfolio_id = ? AND project_id = ?", portfolioID, projectID).
				Update("position", i)
			if res.Error != nil {
				return fmt.Errorf("reorder project %s: %w", projectID, res.Error)
			}
			if res.RowsAffected == 0 {
				return apperr.NotFound("project not attached to this portfolio")
			}
		}
		return nil
	})
}

// Projects returns the portfolio's projects in display order.
func (s *PortfolioService) Projects(ctx context.Context, portfolioID uuid.UUID) ([]database.Project, error) {
	var projects []database.Project
	err := s.db.WithContext(ctx).
		Joins("JOIN portfolio_project_links ON portfolio_project_links.project_id = projects.id").
		Where("portfolio_project_links.portfolio_id = ?", portfolioID).
		Order("portfolio_project_links.position ASC").
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("list portfolio projects: %w", err)
	}
	return projects, nil
}
