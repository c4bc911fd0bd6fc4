package api

import (
	"github.com/gin-gonic/gin"

	"portfolioPro/internal/database"
	"portfolioPro/internal/resource"
)

type createCustomSectionRequest struct {
	SectionType string  `json:"section_type" binding:"required"`
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	Position    int     `json:"position"`
	IsVisible   *bool   `json:"is_visible"`
}

type updateCustomSectionRequest struct {
	SectionType *string `json:"section_type"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Position    *int    `json:"position"`
	IsVisible   *bool   `json:"is_visible"`
}

func NewCustomSectionHandler(svc *resource.CustomSectionService) *ResourceHandler[database.CustomSection, *database.CustomSection] {
	return NewResourceHandler(svc,
		func(c *gin.Context) (*database.CustomSection, error) {
			var req createCustomSectionRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				return nil, err
			}
			section := &database.CustomSection{
				SectionType: req.SectionType,
				Title:       req.Title,
				Description: req.Description,
				Position:    req.Position,
				IsVisible:   true,
			}
			if req.IsVisible != nil {
				section.IsVisible = *req.IsVisible
			}
			return section, nil
		},
		func(c *gin.Context) (map[string]any, error) {
			var req updateCustomSectionRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				return nil, err
			}
			updates := map[string]any{}
			if req.SectionType != nil {
				updates["section_type"] = *req.SectionType
			}
			if req.Title != nil {
				updates["title"] = *req.Title
			}
			if req.Description != nil {
				updates["description"] = req.Description
			}
			if req.Position != nil {
				updates["position"] = *req.Position
			}
			if req.IsVisible != nil {
				updates["is_visible"] = *req.IsVisible
			}
			return updates, nil
		},
	)
}
