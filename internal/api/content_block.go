package api

import (
	"github.com/gin-gonic/gin"

	"portfolioPro/internal/database"
	"portfolioPro/internal/resource"
)

type createContentBlockRequest struct {
	BlockType string  `json:"block_type" binding:"required"`
	Content   string  `json:"content" binding:"required"`
	Title     *string `json:"title"`
	Position  int     `json:"position"`
	IsVisible *bool   `json:"is_visible"`
}

type updateContentBlockRequest struct {
	BlockType *string `json:"block_type"`
	Content   *string `json:"content"`
	Title     *string `json:"title"`
	Position  *int    `json:"position"`
	IsVisible *bool   `json:"is_visible"`
}

// NewContentBlockHandler decodes content-block payloads. A create without a
// position gets one assigned at the end of its block type's sequence.
func NewContentBlockHandler(svc *resource.ContentBlockService) *ResourceHandler[database.ContentBlock, *database.ContentBlock] {
	return NewResourceHandler(svc,
		func(c *gin.Context) (*database.ContentBlock, error) {
			var req createContentBlockRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				return nil, err
			}
			block := &database.ContentBlock{
				BlockType: req.BlockType,
				Content:   req.Content,
				Title:     req.Title,
				Position:  req.Position,
			}
			if req.IsVisible != nil {
				block.IsVisible = *req.IsVisible
			}
			return block, nil
		},
		func(c *gin.Context) (map[string]any, error) {
			var req updateContentBlockRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				return nil, err
			}
			updates := map[string]any{}
			if req.BlockType != nil {
				updates["block_type"] = *req.BlockType
			}
			if req.Content != nil {
				updates["content"] = *req.Content
			}
			if req.Title != nil {
				updates["title"] = req.Title
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
