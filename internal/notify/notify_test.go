package notify

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"portfolioPro/internal/database"
	"portfolioPro/internal/resource"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&database.Notification{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// No Redis in unit tests; the push side is best effort anyway.
	return NewService(db, nil, nil)
}

func TestNotifyPersistsRow(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	actorID := uuid.New()

	err := svc.Notify(ctx, Event{
		UserID:  userID,
		ActorID: &actorID,
		Message: "someone liked your project",
		Type:    "like",
		Metadata: map[string]any{
			"project_id": uuid.New().String(),
		},
	})
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}

	page, err := svc.List(ctx, userID, resource.Page{}, false)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(page.Items))
	}
	row := page.Items[0]
	if row.Message != "someone liked your project" || row.NotificationType != "like" {
		t.Fatalf("row = %+v", row)
	}
	if row.IsRead {
		t.Fatal("new notification must start unread")
	}
	if row.Metadata == nil {
		t.Fatal("metadata not persisted")
	}
}

func TestMarkReadScopedToOwner(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	if err := svc.Notify(ctx, Event{UserID: userID, Message: "hello"}); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	page, err := svc.List(ctx, userID, resource.Page{}, true)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	id := page.Items[0].ID

	if _, err := svc.MarkRead(ctx, id, uuid.New()); err == nil {
		t.Fatal("foreign MarkRead must fail")
	}

	row, err := svc.MarkRead(ctx, id, userID)
	if err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if !row.IsRead || row.ReadAt == nil {
		t.Fatalf("row not marked read: %+v", row)
	}

	unread, err := svc.List(ctx, userID, resource.Page{}, true)
	if err != nil {
		t.Fatalf("List unread: %v", err)
	}
	if len(unread.Items) != 0 {
		t.Fatalf("unread items = %d, want 0", len(unread.Items))
	}
}

func TestMarkAllRead(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	for i := 0; i < 3; i++ {
		if err := svc.Notify(ctx, Event{UserID: userID, Message: "m"}); err != nil {
			t.Fatalf("Notify: %v", err)
		}
	}
	// Another user's feed must stay untouched.
	other := uuid.New()
	if err := svc.Notify(ctx, Event{UserID: other, Message: "m"}); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	updated, err := svc.MarkAllRead(ctx, userID)
	if err != nil {
		t.Fatalf("MarkAllRead: %v", err)
	}
	if updated != 3 {
		t.Fatalf("updated = %d, want 3", updated)
	}

	otherUnread, err := svc.List(ctx, other, resource.Page{}, true)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(otherUnread.Items) != 1 {
		t.Fatalf("other user unread = %d, want 1", len(otherUnread.Items))
	}
}

func TestChannelFor(t *testing.T) {
	id := uuid.New()
	if got, want := ChannelFor(id), "user_notify:"+id.String(); got != want {
		t.Fatalf("ChannelFor = %q, want %q", got, want)
	}
}
