package resource

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"portfolioPro/internal/apperr"
	"portfolioPro/internal/database"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&database.Education{}, &database.Skill{}, &database.ContentBlock{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func strptr(s string) *string { return &s }
func intptr(i int) *int       { return &i }

func mustCreate(t *testing.T, svc *EducationService, owner uuid.UUID, institution, degree string, startYear *int) *database.Education {
	t.Helper()
	rec, err := svc.Create(context.Background(), owner, &database.Education{
		Institution: institution,
		Degree:      degree,
		StartYear:   startYear,
	})
	if err != nil {
		t.Fatalf("create %s/%s: %v", institution, degree, err)
	}
	return rec
}

func TestCreateDistinctTuples(t *testing.T) {
	svc := NewEducationService(newTestDB(t))
	owner := uuid.New()

	a := mustCreate(t, svc, owner, "MIT", "BSc", intptr(2015))
	b := mustCreate(t, svc, owner, "MIT", "MSc", intptr(2019))
	c := mustCreate(t, svc, owner, "Stanford", "BSc", nil)

	seen := map[uuid.UUID]bool{a.ID: true, b.ID: true, c.ID: true}
	if len(seen) != 3 {
		t.Fatalf("expected 3 distinct ids, got %d", len(seen))
	}
	for _, rec := range []*database.Education{a, b, c} {
		if rec.ID == uuid.Nil {
			t.Fatal("expected server-generated id")
		}
		if rec.UserID != owner {
			t.Fatalf("owner not stamped: %v", rec.UserID)
		}
	}
}

func TestCreateDuplicateConflicts(t *testing.T) {
	svc := NewEducationService(newTestDB(t))
	owner := uuid.New()
	ctx := context.Background()

	mustCreate(t, svc, owner, "MIT", "BSc", nil)

	_, err := svc.Create(ctx, owner, &database.Education{Institution: "MIT", Degree: "BSc"})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	page, err := svc.ListOwned(ctx, owner, Page{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("duplicate create persisted a row, total=%d", page.Total)
	}

	// Same tuple under a different user is fine.
	if _, err := svc.Create(ctx, uuid.New(), &database.Education{Institution: "MIT", Degree: "BSc"}); err != nil {
		t.Fatalf("create for other user: %v", err)
	}
}

func TestCreateValidatesIdentityFields(t *testing.T) {
	svc := NewEducationService(newTestDB(t))
	ctx := context.Background()

	cases := []database.Education{
		{},
		{Institution: "MIT"},
		{Degree: "BSc"},
		{Institution: "   ", Degree: "BSc"},
	}
	for _, rec := range cases {
		if _, err := svc.Create(ctx, uuid.New(), &rec); !errors.Is(err, apperr.ErrValidation) {
			t.Fatalf("expected validation error for %+v, got %v", rec, err)
		}
	}
}

func TestCreateStampsOwnerFromPrincipal(t *testing.T) {
	svc := NewEducationService(newTestDB(t))
	owner := uuid.New()

	// A client-supplied owner reference must be overwritten.
	rec, err := svc.Create(context.Background(), owner, &database.Education{
		UserID:      uuid.New(),
		Institution: "MIT",
		Degree:      "BSc",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.UserID != owner {
		t.Fatalf("owner taken from client input: %v", rec.UserID)
	}
}

func TestRoundTrip(t *testing.T) {
	svc := NewEducationService(newTestDB(t))
	owner := uuid.New()
	ctx := context.Background()

	created, err := svc.Create(ctx, owner, &database.Education{
		Institution:  "MIT",
		Degree:       "BSc",
		FieldOfStudy: strptr("EECS"),
		StartYear:    intptr(2015),
		EndYear:      intptr(2019),
		IsCurrent:    false,
		Description:  strptr("undergrad"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.GetOwned(ctx, created.ID, owner)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Institution != "MIT" || got.Degree != "BSc" ||
		got.FieldOfStudy == nil || *got.FieldOfStudy != "EECS" ||
		got.StartYear == nil || *got.StartYear != 2015 ||
		got.EndYear == nil || *got.EndYear != 2019 ||
		got.Description == nil || *got.Description != "undergrad" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestUpdateNonIdentityFields(t *testing.T) {
	svc := NewEducationService(newTestDB(t))
	owner := uuid.New()
	ctx := context.Background()

	rec := mustCreate(t, svc, owner, "MIT", "BSc", intptr(2015))

	updated, err := svc.Update(ctx, rec.ID, owner, map[string]any{
		"field_of_study": "EECS",
		"is_current":     true,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Institution != "MIT" || updated.Degree != "BSc" {
		t.Fatalf("identity fields changed: %+v", updated)
	}
	if updated.FieldOfStudy == nil || *updated.FieldOfStudy != "EECS" || !updated.IsCurrent {
		t.Fatalf("update not applied: %+v", updated)
	}
	if updated.StartYear == nil || *updated.StartYear != 2015 {
		t.Fatalf("unset field was touched: %+v", updated)
	}
}

func TestUpdateIdentityCollision(t *testing.T) {
	svc := NewEducationService(newTestDB(t))
	owner := uuid.New()
	ctx := context.Background()

	mustCreate(t, svc, owner, "MIT", "BSc", nil)
	other := mustCreate(t, svc, owner, "MIT", "MSc", nil)

	_, err := svc.Update(ctx, other.ID, owner, map[string]any{"degree": "BSc"})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	unchanged, err := svc.GetOwned(ctx, other.ID, owner)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if unchanged.Degree != "MSc" {
		t.Fatalf("row mutated despite conflict: %+v", unchanged)
	}
}

func TestUpdateIdentityToOwnTupleIsNoConflict(t *testing.T) {
	svc := NewEducationService(newTestDB(t))
	owner := uuid.New()

	rec := mustCreate(t, svc, owner, "MIT", "BSc", nil)

	// Re-sending the current identity must not collide with the row itself.
	updated, err := svc.Update(context.Background(), rec.ID, owner, map[string]any{
		"institution": "MIT",
		"degree":      "BSc",
		"is_current":  true,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.IsCurrent {
		t.Fatalf("update not applied: %+v", updated)
	}
}

func TestDeleteIdempotence(t *testing.T) {
	svc := NewEducationService(newTestDB(t))
	owner := uuid.New()
	ctx := context.Background()

	rec := mustCreate(t, svc, owner, "MIT", "BSc", nil)

	if err := svc.Delete(ctx, rec.ID, owner); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, rec.ID, owner); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("second delete: expected not found, got %v", err)
	}
	if _, err := svc.GetOwned(ctx, rec.ID, owner); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("row still present after delete")
	}
}

func TestOwnershipIsolation(t *testing.T) {
	svc := NewEducationService(newTestDB(t))
	userA, userB := uuid.New(), uuid.New()
	ctx := context.Background()

	mustCreate(t, svc, userA, "MIT", "BSc", nil)
	recB := mustCreate(t, svc, userB, "Stanford", "PhD", nil)

	page, err := svc.ListOwned(ctx, userA, Page{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, item := range page.Items {
		if item.UserID != userA {
			t.Fatalf("foreign record in private listing: %+v", item)
		}
	}

	if _, err := svc.GetOwned(ctx, recB.ID, userA); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for foreign record, got %v", err)
	}
	// The public path only distinguishes true absence.
	if _, err := svc.GetPublic(ctx, recB.ID); err != nil {
		t.Fatalf("public get: %v", err)
	}
	if _, err := svc.GetPublic(ctx, uuid.New()); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for absent id, got %v", err)
	}
}

func TestPaginationDisjointUnion(t *testing.T) {
	svc := NewEducationService(newTestDB(t))
	owner := uuid.New()
	ctx := context.Background()

	years := []int{2011, 2013, 2015, 2017, 2019}
	for i, y := range years {
		mustCreate(t, svc, owner, "School", "Degree-"+string(rune('A'+i)), intptr(y))
	}

	first, err := svc.ListOwned(ctx, owner, Page{Offset: 0, Limit: 2})
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	second, err := svc.ListOwned(ctx, owner, Page{Offset: 2, Limit: 2})
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}
	all, err := svc.ListOwned(ctx, owner, Page{Offset: 0, Limit: 1000})
	if err != nil {
		t.Fatalf("full page: %v", err)
	}

	if first.Total != int64(len(years)) || second.Total != int64(len(years)) {
		t.Fatalf("total must reflect the unfiltered count, got %d/%d", first.Total, second.Total)
	}
	if all.Limit != MaxPageSize {
		t.Fatalf("limit not clamped: %d", all.Limit)
	}

	union := map[uuid.UUID]bool{}
	for _, item := range append(first.Items, second.Items...) {
		if union[item.ID] {
			t.Fatalf("pages overlap on %v", item.ID)
		}
		union[item.ID] = true
	}
	for _, item := range all.Items[:4] {
		if !union[item.ID] {
			t.Fatalf("union of pages missing %v", item.ID)
		}
	}
}

func TestOrderingNullsLast(t *testing.T) {
	svc := NewEducationService(newTestDB(t))
	owner := uuid.New()

	mustCreate(t, svc, owner, "NoYear", "BSc", nil)
	mustCreate(t, svc, owner, "Old", "BSc", intptr(2005))
	mustCreate(t, svc, owner, "New", "BSc", intptr(2021))

	page, err := svc.ListOwned(context.Background(), owner, Page{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(page.Items))
	}
	if page.Items[0].Institution != "New" || page.Items[1].Institution != "Old" {
		t.Fatalf("expected start_year descending, got %s, %s", page.Items[0].Institution, page.Items[1].Institution)
	}
	if page.Items[2].StartYear != nil {
		t.Fatalf("record without start year must sort last")
	}
}

func TestListPublicFilters(t *testing.T) {
	svc := NewEducationService(newTestDB(t))
	ctx := context.Background()

	mustCreate(t, svc, uuid.New(), "Massachusetts Institute of Technology", "BSc", nil)
	mustCreate(t, svc, uuid.New(), "Stanford University", "BSc", nil)
	mustCreate(t, svc, uuid.New(), "Stanford University", "MSc", nil)

	page, err := svc.ListPublic(ctx, Page{}, map[string]string{"institution": "stanford"})
	if err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("case-insensitive substring filter failed, total=%d", page.Total)
	}

	// Filters are ANDed.
	page, err = svc.ListPublic(ctx, Page{}, map[string]string{"institution": "stanford", "degree": "msc"})
	if err != nil {
		t.Fatalf("anded list: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("anded filters failed, total=%d", page.Total)
	}

	// No filters scans across all users.
	page, err = svc.ListPublic(ctx, Page{}, nil)
	if err != nil {
		t.Fatalf("unfiltered list: %v", err)
	}
	if page.Total != 3 {
		t.Fatalf("public listing must cross users, total=%d", page.Total)
	}
}

func TestScenarioUpdatedTupleBlocksCreate(t *testing.T) {
	svc := NewEducationService(newTestDB(t))
	owner := uuid.New()
	ctx := context.Background()

	rec := mustCreate(t, svc, owner, "MIT", "BSc", nil)

	if _, err := svc.Create(ctx, owner, &database.Education{Institution: "MIT", Degree: "BSc"}); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict on duplicate, got %v", err)
	}
	if _, err := svc.Update(ctx, rec.ID, owner, map[string]any{"degree": "MSc"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := svc.Create(ctx, owner, &database.Education{Institution: "MIT", Degree: "MSc"}); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict with updated tuple, got %v", err)
	}
	// The original tuple is free again.
	if _, err := svc.Create(ctx, owner, &database.Education{Institution: "MIT", Degree: "BSc"}); err != nil {
		t.Fatalf("create freed tuple: %v", err)
	}
}

func TestUniqueIndexBacksPreCheck(t *testing.T) {
	db := newTestDB(t)
	svc := NewEducationService(db)
	owner := uuid.New()

	mustCreate(t, svc, owner, "MIT", "BSc", nil)

	// Simulate the insert racing past the pre-check: a direct insert must be
	// rejected by the database constraint, not just the service.
	err := db.Create(&database.Education{UserID: owner, Institution: "MIT", Degree: "BSc"}).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected duplicate key from constraint, got %v", err)
	}
}

func TestSingleFieldIdentity(t *testing.T) {
	svc := NewSkillService(newTestDB(t))
	owner := uuid.New()
	ctx := context.Background()

	if _, err := svc.Create(ctx, owner, &database.Skill{SkillName: "Go", ProficiencyLevel: "expert"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, owner, &database.Skill{SkillName: "Go", ProficiencyLevel: "novice"}); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict on duplicate skill, got %v", err)
	}
}

func mustCreateBlock(t *testing.T, svc *ContentBlockService, owner uuid.UUID, blockType string, position int) *database.ContentBlock {
	t.Helper()
	rec, err := svc.Create(context.Background(), owner, &database.ContentBlock{
		BlockType: blockType,
		Content:   "body",
		Position:  position,
	})
	if err != nil {
		t.Fatalf("create %s block: %v", blockType, err)
	}
	return rec
}

func TestContentBlockAutoPosition(t *testing.T) {
	svc := NewContentBlockService(newTestDB(t))
	owner := uuid.New()

	// Zero position means "append"; positions start at 1 per block type.
	a := mustCreateBlock(t, svc, owner, "hero", 0)
	b := mustCreateBlock(t, svc, owner, "hero", 0)
	if a.Position != 1 || b.Position != 2 {
		t.Fatalf("expected positions 1,2, got %d,%d", a.Position, b.Position)
	}

	// A different block type starts its own sequence.
	c := mustCreateBlock(t, svc, owner, "about", 0)
	if c.Position != 1 {
		t.Fatalf("expected fresh sequence for about, got %d", c.Position)
	}

	// Appending continues from the highest explicit position.
	mustCreateBlock(t, svc, owner, "hero", 7)
	d := mustCreateBlock(t, svc, owner, "hero", 0)
	if d.Position != 8 {
		t.Fatalf("expected append after explicit position 7, got %d", d.Position)
	}
}

func TestContentBlockExplicitPositionConflict(t *testing.T) {
	svc := NewContentBlockService(newTestDB(t))
	owner := uuid.New()
	ctx := context.Background()

	mustCreateBlock(t, svc, owner, "hero", 1)

	_, err := svc.Create(ctx, owner, &database.ContentBlock{BlockType: "hero", Content: "body", Position: 1})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict on taken position, got %v", err)
	}

	// Same position under another block type or another user is fine.
	mustCreateBlock(t, svc, owner, "about", 1)
	mustCreateBlock(t, svc, uuid.New(), "hero", 1)
}

func TestContentBlockOrdering(t *testing.T) {
	svc := NewContentBlockService(newTestDB(t))
	owner := uuid.New()
	ctx := context.Background()

	mustCreateBlock(t, svc, owner, "hero", 2)
	mustCreateBlock(t, svc, owner, "about", 1)
	mustCreateBlock(t, svc, owner, "hero", 1)

	page, err := svc.ListOwned(ctx, owner, Page{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got := make([]string, 0, len(page.Items))
	for _, b := range page.Items {
		got = append(got, fmt.Sprintf("%s/%d", b.BlockType, b.Position))
	}
	want := []string{"about/1", "hero/1", "hero/2"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order mismatch at %d: got %v, want %v", i, got, want)
		}
	}
}
