// Package resource implements the CRUD contract shared by every user-owned
// record type (education, certifications, skills, social links, media,
// content blocks, custom sections). One generic service instance per entity replaces the
// near-identical per-entity services that tend to drift apart.
package resource

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"portfolioPro/internal/apperr"
)

// Ownable constrains the pointer type of a served model: every record knows
// its primary key and its owning user.
type Ownable[T any] interface {
	*T
	PK() uuid.UUID
	Owner() uuid.UUID
	SetOwner(uuid.UUID)
}

// Field names one identity-defining column and how to read its value off a
// record. Values are usually strings; numeric identity columns (positions)
// return their native type so the uniqueness check compares them as such.
type Field[T any] struct {
	Column string
	Label  string
	Value  func(*T) any
}

// Definition parameterizes the service for one entity type.
type Definition[T any] struct {
	// Singular is used in error messages, e.g. "education record".
	Singular string
	// Identity is the set of required fields that, together with the owning
	// user, must be unique. Never empty.
	Identity []Field[T]
	// OrderBy is the listing order, e.g. "start_year DESC NULLS LAST".
	OrderBy string
	// Filters maps public-listing query parameters to columns matched with a
	// case-insensitive substring.
	Filters map[string]string
	// Prepare, when set, fills derived fields on a new record before
	// validation, e.g. appending to a per-user position sequence.
	Prepare func(ctx context.Context, db *gorm.DB, ownerID uuid.UUID, rec *T) error
}

// missingIdentity reports whether an identity value counts as absent. Numeric
// values are always present once Prepare has run.
func missingIdentity(v any) bool {
	switch value := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(value) == ""
	default:
		return false
	}
}

// Service is the generic owned-resource CRUD service. It holds no mutable
// state and is safe for concurrent use; each call runs against the caller's
// context as independent statements.
type Service[T any, P Ownable[T]] struct {
	db  *gorm.DB
	def Definition[T]
}

// NewService builds a Service for one entity definition.
func NewService[T any, P Ownable[T]](db *gorm.DB, def Definition[T]) *Service[T, P] {
	if len(def.Identity) == 0 {
		panic("resource: definition for " + def.Singular + " has no identity fields")
	}
	return &Service[T, P]{db: db, def: def}
}

// Definition exposes the entity definition, mainly for handlers that need the
// public filter parameter names.
func (s *Service[T, P]) Definition() Definition[T] {
	return s.def
}

// WithDB returns a copy of the service bound to another handle, typically a
// transaction, so callers can compose resource writes with neighboring rows
// atomically.
func (s *Service[T, P]) WithDB(db *gorm.DB) *Service[T, P] {
	return &Service[T, P]{db: db, def: s.def}
}

// Create validates the identity fields, stamps the owner from the
// authenticated principal, and inserts the record. The pre-check produces a
// friendly conflict before writing; the composite unique index remains the
// authority under concurrent creates, so a duplicate-key error from the
// insert itself maps to the same conflict.
func (s *Service[T, P]) Create(ctx context.Context, ownerID uuid.UUID, rec *T) (*T, error) {
	if s.def.Prepare != nil {
		if err := s.def.Prepare(ctx, s.db, ownerID, rec); err != nil {
			return nil, err
		}
	}
	for _, f := range s.def.Identity {
		if missingIdentity(f.Value(rec)) {
			return nil, apperr.Validation(f.Label + " is required")
		}
	}
	P(rec).SetOwner(ownerID)

	taken, err := s.identityTaken(ctx, ownerID, s.identityValues(rec), uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, s.conflict()
	}

	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.conflict()
		}
		return nil, fmt.Errorf("create %s: %w", s.def.Singular, err)
	}
	return rec, nil
}

// ListOwned returns a page of the owner's records.
func (s *Service[T, P]) ListOwned(ctx context.Context, ownerID uuid.UUID, page Page) (*PageResult[T], error) {
	return s.list(ctx, page, func(q *gorm.DB) *gorm.DB {
		return q.Where("user_id = ?", ownerID)
	})
}

// ListByUser is the public per-user listing; it ignores ownership beyond the
// scoping itself.
func (s *Service[T, P]) ListByUser(ctx context.Context, userID uuid.UUID, page Page) (*PageResult[T], error) {
	return s.ListOwned(ctx, userID, page)
}

// ListPublic scans records across all users. Each present filter value is
// matched as a case-insensitive substring; filters are ANDed.
func (s *Service[T, P]) ListPublic(ctx context.Context, page Page, filters map[string]string) (*PageResult[T], error) {
	return s.list(ctx, page, func(q *gorm.DB) *gorm.DB {
		for param, column := range s.def.Filters {
			if value := strings.TrimSpace(filters[param]); value != "" {
				q = q.Where("LOWER("+column+") LIKE ?", "%"+strings.ToLower(value)+"%")
			}
		}
		return q
	})
}

// GetOwned fetches one record for editing. Absence and foreign ownership are
// both reported as not-found.
func (s *Service[T, P]) GetOwned(ctx context.Context, id, ownerID uuid.UUID) (*T, error) {
	var rec T
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, s.notFound()
		}
		return nil, fmt.Errorf("query %s: %w", s.def.Singular, err)
	}
	return &rec, nil
}

// GetPublic fetches one record regardless of owner.
func (s *Service[T, P]) GetPublic(ctx context.Context, id uuid.UUID) (*T, error) {
	var rec T
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, s.notFound()
		}
		return nil, fmt.Errorf("query %s: %w", s.def.Singular, err)
	}
	return &rec, nil
}

// Update applies a partial update. Only the columns present in updates are
// touched. When any identity column changes, the uniqueness check reruns
// against the new tuple, excluding the row being updated.
func (s *Service[T, P]) Update(ctx context.Context, id, ownerID uuid.UUID, updates map[string]any) (*T, error) {
	existing, err := s.GetOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return existing, nil
	}

	identityChanged := false
	newValues := make([]any, len(s.def.Identity))
	for i, f := range s.def.Identity {
		newValues[i] = f.Value(existing)
		raw, present := updates[f.Column]
		if !present {
			continue
		}
		if missingIdentity(raw) {
			return nil, apperr.Validation(f.Label + " must not be empty")
		}
		if raw != newValues[i] {
			identityChanged = true
		}
		newValues[i] = raw
	}

	if identityChanged {
		taken, err := s.identityTaken(ctx, ownerID, newValues, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, s.conflict()
		}
	}

	if err := s.db.WithContext(ctx).Model(existing).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.conflict()
		}
		return nil, fmt.Errorf("update %s: %w", s.def.Singular, err)
	}

	return s.GetOwned(ctx, id, ownerID)
}

// Delete permanently removes the record. No soft delete, no cascades beyond
// what the schema itself declares.
func (s *Service[T, P]) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	existing, err := s.GetOwned(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(existing).Error; err != nil {
		return fmt.Errorf("delete %s: %w", s.def.Singular, err)
	}
	return nil
}

func (s *Service[T, P]) list(ctx context.Context, page Page, scope func(*gorm.DB) *gorm.DB) (*PageResult[T], error) {
	page = page.Normalize()

	var total int64
	if err := scope(s.db.WithContext(ctx).Model(new(T))).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count %s: %w", s.def.Singular, err)
	}

	var items []T
	if err := scope(s.db.WithContext(ctx)).
		Order(s.def.OrderBy).
		Offset(page.Offset).
		Limit(page.Limit).
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", s.def.Singular, err)
	}

	return &PageResult[T]{
		Items:  items,
		Total:  total,
		Offset: page.Offset,
		Limit:  page.Limit,
	}, nil
}

func (s *Service[T, P]) identityTaken(ctx context.Context, ownerID uuid.UUID, values []any, excludeID uuid.UUID) (bool, error) {
	q := s.db.WithContext(ctx).Model(new(T)).Where("user_id = ?", ownerID)
	for i, f := range s.def.Identity {
		q = q.Where(f.Column+" = ?", values[i])
	}
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, fmt.Errorf("check %s uniqueness: %w", s.def.Singular, err)
	}
	return n > 0, nil
}

func (s *Service[T, P]) identityValues(rec *T) []any {
	values := make([]any, len(s.def.Identity))
	for i, f := range s.def.Identity {
		values[i] = f.Value(rec)
	}
	return values
}

func (s *Service[T, P]) conflict() error {
	return apperr.Conflict(s.def.Singular + " already exists for this user")
}

func (s *Service[T, P]) notFound() error {
	return apperr.NotFound(s.def.Singular + " not found")
}
