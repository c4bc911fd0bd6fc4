package api

import (
	"github.com/gin-gonic/gin"

	"portfolioPro/internal/database"
	"portfolioPro/internal/resource"
)

type createSkillRequest struct {
	SkillName        string `json:"skill_name" binding:"required"`
	ProficiencyLevel string `json:"proficiency_level"`
}

type updateSkillRequest struct {
	SkillName        *string `json:"skill_name"`
	ProficiencyLevel *string `json:"proficiency_level"`
}

func NewSkillHandler(svc *resource.SkillService) *ResourceHandler[database.Skill, *database.Skill] {
	return NewResourceHandler(svc,
		func(c *gin.Context) (*database.Skill, error) {
			var req createSkillRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				return nil, err
			}
			return &database.Skill{
				SkillName:        req.SkillName,
				ProficiencyLevel: req.ProficiencyLevel,
			}, nil
		},
		func(c *gin.Context) (map[string]any, error) {
			var req updateSkillRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				return nil, err
			}
			updates := map[string]any{}
			if req.SkillName != nil {
				updates["skill_name"] = *req.SkillName
			}
			if req.ProficiencyLevel != nil {
				updates["proficiency_level"] = *req.ProficiencyLevel
			}
			return updates, nil
		},
	)
}
