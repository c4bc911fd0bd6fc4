package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"portfolioPro/internal/database"
	"portfolioPro/internal/resource"
)

type createCertificationRequest struct {
	CertificationName   string     `json:"certification_name" binding:"required"`
	IssuingOrganization string     `json:"issuing_organization" binding:"required"`
	IssueDate           *time.Time `json:"issue_date"`
	ExpirationDate      *time.Time `json:"expiration_date"`
	CredentialURL       *string    `json:"credential_url"`
}

type updateCertificationRequest struct {
	CertificationName   *string    `json:"certification_name"`
	IssuingOrganization *string    `json:"issuing_organization"`
	IssueDate           *time.Time `json:"issue_date"`
	ExpirationDate      *time.Time `json:"expiration_date"`
	CredentialURL       *string    `json:"credential_url"`
}

func NewCertificationHandler(svc *resource.CertificationService) *ResourceHandler[database.Certification, *database.Certification] {
	return NewResourceHandler(svc,
		func(c *gin.Context) (*database.Certification, error) {
			var req createCertificationRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				return nil, err
			}
			return &database.Certification{
				CertificationName:   req.CertificationName,
				IssuingOrganization: req.IssuingOrganization,
				IssueDate:           req.IssueDate,
				ExpirationDate:      req.ExpirationDate,
				CredentialURL:       req.CredentialURL,
			}, nil
		},
		func(c *gin.Context) (map[string]any, error) {
			var req updateCertificationRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				return nil, err
			}
			updates := map[string]any{}
			if req.CertificationName != nil {
				updates["certification_name"] = *req.CertificationName
			}
			if req.IssuingOrganization != nil {
				updates["issuing_organization"] = *req.IssuingOrganization
			}
			if req.IssueDate != nil {
				updates["issue_date"] = req.IssueDate
			}
			if req.ExpirationDate != nil {
				updates["expiration_date"] = req.ExpirationDate
			}
			if req.CredentialURL != nil {
				updates["credential_url"] = req.CredentialURL
			}
			return updates, nil
		},
	)
}
