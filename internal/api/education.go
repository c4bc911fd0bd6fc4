package api

import (
	"github.com/gin-gonic/gin"

	"portfolioPro/internal/database"
	"portfolioPro/internal/resource"
)

type createEducationRequest struct {
	Institution  string  `json:"institution" binding:"required"`
	Degree       string  `json:"degree" binding:"required"`
	FieldOfStudy *string `json:"field_of_study"`
	StartYear    *int    `json:"start_year"`
	EndYear      *int    `json:"end_year"`
	IsCurrent    bool    `json:"is_current"`
	Description  *string `json:"description"`
}

// updateEducationRequest uses pointer fields so absent keys stay out of the
// update set entirely.
type updateEducationRequest struct {
	Institution  *string `json:"institution"`
	Degree       *string `json:"degree"`
	FieldOfStudy *string `json:"field_of_study"`
	StartYear    *int    `json:"start_year"`
	EndYear      *int    `json:"end_year"`
	IsCurrent    *bool   `json:"is_current"`
	Description  *string `json:"description"`
}

func NewEducationHandler(svc *resource.EducationService) *ResourceHandler[database.Education, *database.Education] {
	return NewResourceHandler(svc,
		func(c *gin.Context) (*database.Education, error) {
			var req createEducationRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				return nil, err
			}
			return &database.Education{
				Institution:  req.Institution,
				Degree:       req.Degree,
				FieldOfStudy: req.FieldOfStudy,
				StartYear:    req.StartYear,
				EndYear:      req.EndYear,
				IsCurrent:    req.IsCurrent,
				Description:  req.Description,
			}, nil
		},
		func(c *gin.Context) (map[string]any, error) {
			var req updateEducationRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				return nil, err
			}
			updates := map[string]any{}
			if req.Institution != nil {
				updates["institution"] = *req.Institution
			}
			if req.Degree != nil {
				updates["degree"] = *req.Degree
			}
			if req.FieldOfStudy != nil {
				updates["field_of_study"] = req.FieldOfStudy
			}
			if req.StartYear != nil {
				updates["start_year"] = req.StartYear
			}
			if req.EndYear != nil {
				updates["end_year"] = req.EndYear
			}
			if req.IsCurrent != nil {
				updates["is_current"] = *req.IsCurrent
			}
			if req.Description != nil {
				updates["description"] = req.Description
			}
			return updates, nil
		},
	)
}
