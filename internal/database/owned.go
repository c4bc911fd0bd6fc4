package database

import "github.com/google/uuid"

// PK satisfies the resource.Ownable contract for every model embedding Base.
func (b *Base) PK() uuid.UUID { return b.ID }

func (e *Education) Owner() uuid.UUID      { return e.UserID }
func (e *Education) SetOwner(id uuid.UUID) { e.UserID = id }

func (c *Certification) Owner() uuid.UUID      { return c.UserID }
func (c *Certification) SetOwner(id uuid.UUID) { c.UserID = id }

func (s *Skill) Owner() uuid.UUID      { return s.UserID }
func (s *Skill) SetOwner(id uuid.UUID) { s.UserID = id }

func (s *SocialLink) Owner() uuid.UUID      { return s.UserID }
func (s *SocialLink) SetOwner(id uuid.UUID) { s.UserID = id }

func (m *MediaItem) Owner() uuid.UUID      { return m.UserID }
func (m *MediaItem) SetOwner(id uuid.UUID) { m.UserID = id }

func (c *ContentBlock) Owner() uuid.UUID      { return c.UserID }
func (c *ContentBlock) SetOwner(id uuid.UUID) { c.UserID = id }

func (c *CustomSection) Owner() uuid.UUID      { return c.UserID }
func (c *CustomSection) SetOwner(id uuid.UUID) { c.UserID = id }

func (p *Portfolio) Owner() uuid.UUID      { return p.UserID }
func (p *Portfolio) SetOwner(id uuid.UUID) { p.UserID = id }

func (p *Project) Owner() uuid.UUID      { return p.UserID }
func (p *Project) SetOwner(id uuid.UUID) { p.UserID = id }
