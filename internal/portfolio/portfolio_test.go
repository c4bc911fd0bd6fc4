package portfolio

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"portfolioPro/internal/apperr"
	"portfolioPro/internal/database"
	"portfolioPro/internal/notify"
	"portfolioPro/internal/resource"
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
	if err := db.AutoMigrate(
		&database.Portfolio{},
		&database.Project{},
		&database.ProjectMember{},
		&database.PortfolioProjectLink{},
		&database.ProjectLike{},
		&database.ProjectComment{},
		&database.ProjectAudit{},
		&database.Notification{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newServices(t *testing.T) (*PortfolioService, *ProjectService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	notifier := notify.NewService(db, nil, nil)
	return NewPortfolioService(db), NewProjectService(db, notifier, nil), db
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"My Portfolio":        "my-portfolio",
		"  Design -- Work  ":  "design-work",
		"C++ & Go!":           "c-go",
		"already-slugged_101": "already-slugged_101",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPortfolioSlugGeneratedAndUnique(t *testing.T) {
	portfolios, _, _ := newServices(t)
	owner := uuid.New()
	ctx := context.Background()

	a, err := portfolios.Create(ctx, owner, &database.Portfolio{Name: "My Work"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.Slug == "" || a.Slug == "my-work" {
		t.Fatalf("expected generated slug with suffix, got %q", a.Slug)
	}

	// Same name twice is fine thanks to the random suffix.
	if _, err := portfolios.Create(ctx, owner, &database.Portfolio{Name: "My Work"}); err != nil {
		t.Fatalf("create with same name: %v", err)
	}

	// Explicit slug collision conflicts.
	if _, err := portfolios.Create(ctx, owner, &database.Portfolio{Name: "Other", Slug: a.Slug}); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected slug conflict, got %v", err)
	}
	// Same slug for a different user is allowed.
	if _, err := portfolios.Create(ctx, uuid.New(), &database.Portfolio{Name: "Other", Slug: a.Slug}); err != nil {
		t.Fatalf("create for other user: %v", err)
	}
}

func TestPortfolioCreateRequiresName(t *testing.T) {
	portfolios, _, _ := newServices(t)
	if _, err := portfolios.Create(context.Background(), uuid.New(), &database.Portfolio{}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAttachDetachReorder(t *testing.T) {
	portfolios, projects, _ := newServices(t)
	owner := uuid.New()
	ctx := context.Background()

	pf, err := portfolios.Create(ctx, owner, &database.Portfolio{Name: "Main"})
	if err != nil {
		t.Fatalf("create portfolio: %v", err)
	}
	p1, err := projects.Create(ctx, owner, &database.Project{Name: "One"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	p2, err := projects.Create(ctx, owner, &database.Project{Name: "Two"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	if _, err := portfolios.AttachProject(ctx, pf.ID, p1.ID, owner, nil, nil); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if _, err := portfolios.AttachProject(ctx, pf.ID, p2.ID, owner, nil, nil); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if _, err := portfolios.AttachProject(ctx, pf.ID, p1.ID, owner, nil, nil); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected duplicate attach conflict, got %v", err)
	}

	// Attaching someone else's project reads as not found.
	foreign, err := projects.Create(ctx, uuid.New(), &database.Project{Name: "Foreign"})
	if err != nil {
		t.Fatalf("create foreign project: %v", err)
	}
	if _, err := portfolios.AttachProject(ctx, pf.ID, foreign.ID, owner, nil, nil); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for foreign project, got %v", err)
	}

	if err := portfolios.ReorderProjects(ctx, pf.ID, owner, []uuid.UUID{p2.ID, p1.ID}); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	ordered, err := portfolios.Projects(ctx, pf.ID)
	if err != nil {
		t.Fatalf("projects: %v", err)
	}
	if len(ordered) != 2 || ordered[0].ID != p2.ID || ordered[1].ID != p1.ID {
		t.Fatalf("unexpected order: %+v", ordered)
	}

	if err := portfolios.DetachProject(ctx, pf.ID, p1.ID, owner); err != nil {
		t.Fatalf("detach: %v", err)
	}
	if err := portfolios.DetachProject(ctx, pf.ID, p1.ID, owner); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found on second detach, got %v", err)
	}
}

func TestProjectCreateWritesMembershipAndAudit(t *testing.T) {
	_, projects, db := newServices(t)
	owner := uuid.New()
	ctx := context.Background()

	p, err := projects.Create(ctx, owner, &database.Project{Name: "Audit Me"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var members int64
	db.Model(&database.ProjectMember{}).Where("project_id = ? AND user_id = ? AND can_edit = ?", p.ID, owner, true).Count(&members)
	if members != 1 {
		t.Fatalf("owner membership missing")
	}

	log, err := projects.AuditLog(ctx, p.ID, owner, resource.Page{})
	if err != nil {
		t.Fatalf("audit log: %v", err)
	}
	if log.Total != 1 || log.Items[0].Action != "created" {
		t.Fatalf("expected created audit row, got %+v", log.Items)
	}

	if _, err := projects.Update(ctx, p.ID, owner, map[string]any{"category": "tools"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	log, err = projects.AuditLog(ctx, p.ID, owner, resource.Page{})
	if err != nil {
		t.Fatalf("audit log: %v", err)
	}
	if log.Total != 2 {
		t.Fatalf("expected audit row per mutation, total=%d", log.Total)
	}
}

func TestLikeToggleAndNotification(t *testing.T) {
	_, projects, db := newServices(t)
	owner, fan := uuid.New(), uuid.New()
	ctx := context.Background()

	p, err := projects.Create(ctx, owner, &database.Project{Name: "Likeable"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	liked, count, err := projects.ToggleLike(ctx, p.ID, fan)
	if err != nil {
		t.Fatalf("like: %v", err)
	}
	if !liked || count != 1 {
		t.Fatalf("expected liked with count 1, got %v/%d", liked, count)
	}

	liked, count, err = projects.ToggleLike(ctx, p.ID, fan)
	if err != nil {
		t.Fatalf("unlike: %v", err)
	}
	if liked || count != 0 {
		t.Fatalf("expected unliked with count 0, got %v/%d", liked, count)
	}

	var notifications int64
	db.Model(&database.Notification{}).Where("user_id = ?", owner).Count(&notifications)
	if notifications != 1 {
		t.Fatalf("expected one like notification for the owner, got %d", notifications)
	}

	// Liking a private project is not possible.
	hidden, err := projects.Create(ctx, owner, &database.Project{Name: "Hidden", IsPublic: false})
	if err != nil {
		t.Fatalf("create hidden: %v", err)
	}
	db.Model(&database.Project{}).Where("id = ?", hidden.ID).Update("is_public", false)
	if _, _, err := projects.ToggleLike(ctx, hidden.ID, fan); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for private project, got %v", err)
	}
}

func TestCommentsThreadAndOwnership(t *testing.T) {
	_, projects, _ := newServices(t)
	owner, visitor := uuid.New(), uuid.New()
	ctx := context.Background()

	p, err := projects.Create(ctx, owner, &database.Project{Name: "Discussable"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := projects.AddComment(ctx, p.ID, visitor, "  ", nil); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error for empty content, got %v", err)
	}

	root, err := projects.AddComment(ctx, p.ID, visitor, "nice work", nil)
	if err != nil {
		t.Fatalf("comment: %v", err)
	}
	reply, err := projects.AddComment(ctx, p.ID, owner, "thanks", &root.ID)
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if reply.ParentCommentID == nil || *reply.ParentCommentID != root.ID {
		t.Fatalf("reply not threaded: %+v", reply)
	}

	bogus := uuid.New()
	if _, err := projects.AddComment(ctx, p.ID, visitor, "orphan", &bogus); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for bogus parent, got %v", err)
	}

	page, err := projects.ListComments(ctx, p.ID, resource.Page{})
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("expected 2 comments, got %d", page.Total)
	}

	if err := projects.DeleteComment(ctx, root.ID, owner); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("deleting another user's comment must read as not found, got %v", err)
	}
	if err := projects.DeleteComment(ctx, root.ID, visitor); err != nil {
		t.Fatalf("delete own comment: %v", err)
	}
}
