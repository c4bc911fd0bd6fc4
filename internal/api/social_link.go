package api

import (
	"github.com/gin-gonic/gin"

	"portfolioPro/internal/database"
	"portfolioPro/internal/resource"
)

type createSocialLinkRequest struct {
	PlatformName string `json:"platform_name" binding:"required"`
	ProfileURL   string `json:"profile_url" binding:"required,url"`
}

type updateSocialLinkRequest struct {
	PlatformName *string `json:"platform_name"`
	ProfileURL   *string `json:"profile_url"`
}

func NewSocialLinkHandler(svc *resource.SocialLinkService) *ResourceHandler[database.SocialLink, *database.SocialLink] {
	return NewResourceHandler(svc,
		func(c *gin.Context) (*database.SocialLink, error) {
			var req createSocialLinkRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				return nil, err
			}
			return &database.SocialLink{
				PlatformName: req.PlatformName,
				ProfileURL:   req.ProfileURL,
			}, nil
		},
		func(c *gin.Context) (map[string]any, error) {
			var req updateSocialLinkRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				return nil, err
			}
			updates := map[string]any{}
			if req.PlatformName != nil {
				updates["platform_name"] = *req.PlatformName
			}
			if req.ProfileURL != nil {
				updates["profile_url"] = *req.ProfileURL
			}
			return updates, nil
		},
	)
}
