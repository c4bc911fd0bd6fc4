package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Base carries the UUID primary key and timestamps shared by all tables.
// IDs are generated server-side just before insert.
type Base struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Base) BeforeCreate(_ *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// User is the identity anchor every owned resource points at.
type User struct {
	Base
	Email        string `gorm:"uniqueIndex;size:255" json:"email"`
	Username     string `gorm:"uniqueIndex;size:64" json:"username"`
	FirstName    string `gorm:"size:64" json:"first_name"`
	LastName     string `gorm:"size:64" json:"last_name"`
	PasswordHash string `gorm:"size:255" json:"-"`
	Role         string `gorm:"size:16;default:user" json:"role"` // admin | premium | user
	IsActive     bool   `gorm:"default:true" json:"is_active"`
	IsVisible    bool   `gorm:"default:true" json:"is_visible"`

	Educations     []Education     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Certifications []Certification `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Skills         []Skill         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	SocialLinks    []SocialLink    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	MediaItems     []MediaItem     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ContentBlocks  []ContentBlock  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CustomSections []CustomSection `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Portfolios     []Portfolio     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Settings       *UserSettings   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// UserSettings is the 1:1 presentation preferences row. A row is created
// lazily with these defaults the first time the user reads their settings.
type UserSettings struct {
	Base
	UserID             uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"user_id"`
	Language           string    `gorm:"size:8;default:en" json:"language"`
	Loader             string    `gorm:"size:32;default:portfolio-pro" json:"loader"`
	Theme              string    `gorm:"size:32;default:custom" json:"theme"`
	PrimaryTheme       string    `gorm:"size:16;default:#171717" json:"primary_theme"`
	SecondaryTheme     string    `gorm:"size:16;default:#ffffff" json:"secondary_theme"`
	Accent             string    `gorm:"size:16;default:#05df72" json:"accent"`
	PrimaryThemeDark   string    `gorm:"size:16;default:#ededed" json:"primary_theme_dark"`
	SecondaryThemeDark string    `gorm:"size:16;default:#0a0a0a" json:"secondary_theme_dark"`
	LayoutStyle        string    `gorm:"size:32;default:modern" json:"layout_style"`
}

// UserProfile is the 1:1 public-facing bio block.
type UserProfile struct {
	Base
	UserID            uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"user_id"`
	Bio               *string   `json:"bio"`
	Profession        *string   `gorm:"size:128" json:"profession"`
	JobTitle          *string   `gorm:"size:128" json:"job_title"`
	YearsOfExperience *int      `json:"years_of_experience"`
	GithubUsername    *string   `gorm:"size:64" json:"github_username"`
	WebsiteURL        *string   `gorm:"size:512" json:"website_url"`
	Location          *string   `gorm:"size:128" json:"location"`
	OpenToWork        bool      `gorm:"default:false" json:"open_to_work"`
	Availability      *string   `gorm:"size:64" json:"availability"`
}

// Education is the representative owned resource. The composite unique index
// over (user_id, institution, degree) is the authoritative duplicate guard;
// service-level pre-checks only exist for friendlier errors.
type Education struct {
	Base
	UserID       uuid.UUID `gorm:"type:uuid;index;uniqueIndex:uq_education_identity" json:"user_id"`
	Institution  string    `gorm:"size:255;uniqueIndex:uq_education_identity" json:"institution"`
	Degree       string    `gorm:"size:255;uniqueIndex:uq_education_identity" json:"degree"`
	FieldOfStudy *string   `gorm:"size:255" json:"field_of_study"`
	StartYear    *int      `json:"start_year"`
	EndYear      *int      `json:"end_year"`
	IsCurrent    bool      `gorm:"default:false" json:"is_current"`
	Description  *string   `json:"description"`
}

type Certification struct {
	Base
	UserID              uuid.UUID  `gorm:"type:uuid;index;uniqueIndex:uq_certification_identity" json:"user_id"`
	CertificationName   string     `gorm:"size:255;uniqueIndex:uq_certification_identity" json:"certification_name"`
	IssuingOrganization string     `gorm:"size:255;uniqueIndex:uq_certification_identity" json:"issuing_organization"`
	IssueDate           *time.Time `json:"issue_date"`
	ExpirationDate      *time.Time `json:"expiration_date"`
	CredentialURL       *string    `gorm:"size:512" json:"credential_url"`
}

type Skill struct {
	Base
	UserID           uuid.UUID `gorm:"type:uuid;index;uniqueIndex:uq_skill_identity" json:"user_id"`
	SkillName        string    `gorm:"size:128;uniqueIndex:uq_skill_identity" json:"skill_name"`
	ProficiencyLevel string    `gorm:"size:32" json:"proficiency_level"`
}

type SocialLink struct {
	Base
	UserID       uuid.UUID `gorm:"type:uuid;index;uniqueIndex:uq_social_link_identity" json:"user_id"`
	PlatformName string    `gorm:"size:64;uniqueIndex:uq_social_link_identity" json:"platform_name"`
	ProfileURL   string    `gorm:"size:512" json:"profile_url"`
}

// MediaItem rows reference binaries living in object storage. ObjectKey is
// generated server-side on upload, so the identity tuple never collides in
// practice; the index still backs the shared uniqueness contract.
type MediaItem struct {
	Base
	UserID      uuid.UUID `gorm:"type:uuid;index;uniqueIndex:uq_media_item_identity" json:"user_id"`
	MediaType   string    `gorm:"size:32" json:"media_type"`
	ObjectKey   string    `gorm:"size:512;uniqueIndex:uq_media_item_identity" json:"object_key"`
	Title       *string   `gorm:"size:255" json:"title"`
	Description *string   `json:"description"`
	IsFeatured  bool      `gorm:"default:false" json:"is_featured"`
}

// ContentBlock is a free-form chunk of page content. Blocks of the same
// type form a per-user sequence; position is assigned from the end of that
// sequence when the caller leaves it at zero.
type ContentBlock struct {
	Base
	UserID    uuid.UUID `gorm:"type:uuid;index;uniqueIndex:uq_content_block_identity" json:"user_id"`
	BlockType string    `gorm:"size:64;uniqueIndex:uq_content_block_identity" json:"block_type"`
	Position  int       `gorm:"uniqueIndex:uq_content_block_identity" json:"position"`
	Title     *string   `gorm:"size:255" json:"title"`
	Content   string    `json:"content"`
	IsVisible bool      `gorm:"default:false" json:"is_visible"`
}

type CustomSection struct {
	Base
	UserID      uuid.UUID `gorm:"type:uuid;index;uniqueIndex:uq_custom_section_identity" json:"user_id"`
	SectionType string    `gorm:"size:64;uniqueIndex:uq_custom_section_identity" json:"section_type"`
	Title       string    `gorm:"size:255;uniqueIndex:uq_custom_section_identity" json:"title"`
	Description *string   `json:"description"`
	Position    int       `gorm:"default:0" json:"position"`
	IsVisible   bool      `gorm:"default:true" json:"is_visible"`
}

// Portfolio groups projects under a per-user unique slug.
type Portfolio struct {
	Base
	UserID        uuid.UUID `gorm:"type:uuid;index;uniqueIndex:uq_portfolio_slug" json:"user_id"`
	Name          string    `gorm:"size:120" json:"name"`
	Slug          string    `gorm:"size:120;uniqueIndex:uq_portfolio_slug" json:"slug"`
	Description   *string   `json:"description"`
	IsPublic      bool      `gorm:"default:true" json:"is_public"`
	IsDefault     bool      `gorm:"default:false" json:"is_default"`
	CoverImageURL *string   `gorm:"size:512" json:"cover_image_url"`

	ProjectLinks []PortfolioProjectLink `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// Project is owned by its creator; additional collaborators are tracked as
// ProjectMember rows.
type Project struct {
	Base
	UserID      uuid.UUID `gorm:"type:uuid;index;uniqueIndex:uq_project_identity" json:"user_id"`
	Name        string    `gorm:"size:255;uniqueIndex:uq_project_identity" json:"name"`
	Description *string   `json:"description"`
	Category    *string   `gorm:"size:64" json:"category"`
	URL         *string   `gorm:"size:512" json:"url"`
	ImageURL    *string   `gorm:"size:512" json:"image_url"`
	IsCompleted bool      `gorm:"default:false" json:"is_completed"`
	IsConcept   bool      `gorm:"default:false" json:"is_concept"`
	IsPublic    bool      `gorm:"default:true" json:"is_public"`

	Members   []ProjectMember        `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Likes     []ProjectLike          `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Comments  []ProjectComment       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	AuditLogs []ProjectAudit         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Links     []PortfolioProjectLink `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// ProjectMember is a collaborator association on a project.
type ProjectMember struct {
	ProjectID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"project_id"`
	UserID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Role         *string   `gorm:"size:64" json:"role"`
	Contribution *string   `json:"contribution"`
	CanEdit      bool      `gorm:"default:false" json:"can_edit"`
	CreatedAt    time.Time `json:"created_at"`
}

// PortfolioProjectLink orders projects inside a portfolio.
type PortfolioProjectLink struct {
	PortfolioID uuid.UUID `gorm:"type:uuid;primaryKey" json:"portfolio_id"`
	ProjectID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"project_id"`
	Position    int       `gorm:"default:0;index:idx_portfolio_order" json:"position"`
	Notes       *string   `gorm:"size:255" json:"notes"`
	AddedAt     time.Time `json:"added_at"`
}

// ProjectLike holds one like per user per project.
type ProjectLike struct {
	Base
	ProjectID uuid.UUID `gorm:"type:uuid;index;uniqueIndex:uq_project_like" json:"project_id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_project_like" json:"user_id"`
}

type ProjectComment struct {
	Base
	ProjectID       uuid.UUID  `gorm:"type:uuid;index" json:"project_id"`
	UserID          uuid.UUID  `gorm:"type:uuid;index" json:"user_id"`
	Content         string     `json:"content"`
	ParentCommentID *uuid.UUID `gorm:"type:uuid" json:"parent_comment_id"`
}

// ProjectAudit records mutations on a project for the owner's activity feed.
type ProjectAudit struct {
	Base
	ProjectID uuid.UUID      `gorm:"type:uuid;index" json:"project_id"`
	UserID    uuid.UUID      `gorm:"type:uuid;index" json:"user_id"`
	Action    string         `gorm:"size:50;index" json:"action"`
	Details   datatypes.JSON `json:"details"`
	IPAddress *string        `gorm:"size:45" json:"ip_address"`
}

// Testimonial is written by one user about another. It is public only once
// the subject approves it.
type Testimonial struct {
	Base
	UserID             uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	AuthorUserID       uuid.UUID `gorm:"type:uuid;index" json:"author_user_id"`
	AuthorName         string    `gorm:"size:128" json:"author_name"`
	AuthorTitle        *string   `gorm:"size:128" json:"author_title"`
	AuthorCompany      *string   `gorm:"size:128" json:"author_company"`
	AuthorRelationship *string   `gorm:"size:64" json:"author_relationship"`
	Content            string    `json:"content"`
	Rating             *int      `json:"rating"`
	IsApproved         bool      `gorm:"default:false" json:"is_approved"`
}

type Notification struct {
	Base
	UserID           uuid.UUID      `gorm:"type:uuid;index:idx_notification_user_unread" json:"user_id"`
	ActorID          *uuid.UUID     `gorm:"type:uuid" json:"actor_id"`
	Message          string         `gorm:"size:255" json:"message"`
	NotificationType string         `gorm:"size:20;default:alert" json:"notification_type"`
	IsRead           bool           `gorm:"default:false;index:idx_notification_user_unread" json:"is_read"`
	ReadAt           *time.Time     `json:"read_at"`
	Metadata         datatypes.JSON `json:"metadata"`
	ActionURL        *string        `gorm:"size:512" json:"action_url"`
}

// AllModels is the migration set in dependency order.
func AllModels() []any {
	return []any{
		&User{},
		&UserProfile{},
		&UserSettings{},
		&Education{},
		&Certification{},
		&Skill{},
		&SocialLink{},
		&MediaItem{},
		&ContentBlock{},
		&CustomSection{},
		&Portfolio{},
		&Project{},
		&ProjectMember{},
		&PortfolioProjectLink{},
		&ProjectLike{},
		&ProjectComment{},
		&ProjectAudit{},
		&Testimonial{},
		&Notification{},
	}
}
