package resource

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"portfolioPro/internal/database"
)

// Concrete service types for the entities served by the generic contract.
type (
	EducationService     = Service[database.Education, *database.Education]
	CertificationService = Service[database.Certification, *database.Certification]
	SkillService         = Service[database.Skill, *database.Skill]
	SocialLinkService    = Service[database.SocialLink, *database.SocialLink]
	MediaItemService     = Service[database.MediaItem, *database.MediaItem]
	ContentBlockService  = Service[database.ContentBlock, *database.ContentBlock]
	CustomSectionService = Service[database.CustomSection, *database.CustomSection]
)

// NewEducationService serves education records ordered by start year, newest
// first, with records missing a start year sorted to the bottom.
func NewEducationService(db *gorm.DB) *EducationService {
	return NewService[database.Education](db, Definition[database.Education]{
		Singular: "education record",
		Identity: []Field[database.Education]{
			{Column: "institution", Label: "institution", Value: func(e *database.Education) any { return e.Institution }},
			{Column: "degree", Label: "degree", Value: func(e *database.Education) any { return e.Degree }},
		},
		OrderBy: "start_year DESC NULLS LAST",
		Filters: map[string]string{
			"institution":    "institution",
			"degree":         "degree",
			"field_of_study": "field_of_study",
		},
	})
}

func NewCertificationService(db *gorm.DB) *CertificationService {
	return NewService[database.Certification](db, Definition[database.Certification]{
		Singular: "certification",
		Identity: []Field[database.Certification]{
			{Column: "certification_name", Label: "certification name", Value: func(c *database.Certification) any { return c.CertificationName }},
			{Column: "issuing_organization", Label: "issuing organization", Value: func(c *database.Certification) any { return c.IssuingOrganization }},
		},
		OrderBy: "issue_date DESC NULLS LAST",
		Filters: map[string]string{
			"certification_name":   "certification_name",
			"issuing_organization": "issuing_organization",
		},
	})
}

func NewSkillService(db *gorm.DB) *SkillService {
	return NewService[database.Skill](db, Definition[database.Skill]{
		Singular: "skill",
		Identity: []Field[database.Skill]{
			{Column: "skill_name", Label: "skill name", Value: func(s *database.Skill) any { return s.SkillName }},
		},
		OrderBy: "created_at DESC",
		Filters: map[string]string{
			"skill_name":        "skill_name",
			"proficiency_level": "proficiency_level",
		},
	})
}

func NewSocialLinkService(db *gorm.DB) *SocialLinkService {
	return NewService[database.SocialLink](db, Definition[database.SocialLink]{
		Singular: "social link",
		Identity: []Field[database.SocialLink]{
			{Column: "platform_name", Label: "platform name", Value: func(s *database.SocialLink) any { return s.PlatformName }},
		},
		OrderBy: "created_at DESC",
		Filters: map[string]string{
			"platform_name": "platform_name",
		},
	})
}

// NewMediaItemService serves media rows. Object keys are server-generated on
// upload, so the identity check never trips for well-behaved clients; the
// unique index still guards direct writes.
func NewMediaItemService(db *gorm.DB) *MediaItemService {
	return NewService[database.MediaItem](db, Definition[database.MediaItem]{
		Singular: "media item",
		Identity: []Field[database.MediaItem]{
			{Column: "object_key", Label: "object key", Value: func(m *database.MediaItem) any { return m.ObjectKey }},
		},
		OrderBy: "created_at DESC",
		Filters: map[string]string{
			"media_type": "media_type",
			"title":      "title",
		},
	})
}

// NewContentBlockService serves content blocks. Blocks of the same type form
// a per-user sequence starting at 1; a create that leaves position at zero is
// appended to the end of its type's sequence, while an explicit position that
// is already taken is rejected as a conflict.
func NewContentBlockService(db *gorm.DB) *ContentBlockService {
	return NewService[database.ContentBlock](db, Definition[database.ContentBlock]{
		Singular: "content block",
		Identity: []Field[database.ContentBlock]{
			{Column: "block_type", Label: "block type", Value: func(b *database.ContentBlock) any { return b.BlockType }},
			{Column: "position", Label: "position", Value: func(b *database.ContentBlock) any { return b.Position }},
		},
		OrderBy: "block_type ASC, position ASC",
		Filters: map[string]string{
			"block_type": "block_type",
			"title":      "title",
		},
		Prepare: func(ctx context.Context, db *gorm.DB, ownerID uuid.UUID, rec *database.ContentBlock) error {
			if rec.Position != 0 {
				return nil
			}
			var next int
			err := db.WithContext(ctx).
				Model(&database.ContentBlock{}).
				Where("user_id = ? AND block_type = ?", ownerID, rec.BlockType).
				Select("COALESCE(MAX(position), 0) + 1").
				Scan(&next).Error
			if err != nil {
				return err
			}
			rec.Position = next
			return nil
		},
	})
}

func NewCustomSectionService(db *gorm.DB) *CustomSectionService {
	return NewService[database.CustomSection](db, Definition[database.CustomSection]{
		Singular: "custom section",
		Identity: []Field[database.CustomSection]{
			{Column: "section_type", Label: "section type", Value: func(c *database.CustomSection) any { return c.SectionType }},
			{Column: "title", Label: "title", Value: func(c *database.CustomSection) any { return c.Title }},
		},
		OrderBy: "position ASC",
		Filters: map[string]string{
			"section_type": "section_type",
			"title":        "title",
		},
	})
}
