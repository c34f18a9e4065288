package bell

import (
	"testing"
	"time"

	"github.com/Kusa331/ORBIT/internal/models"
)

func admin() models.Viewer {
	return models.Viewer{ID: "adm-1", Email: "admin@orbit.edu", IsAdmin: true}
}

func TestReconcileDedupKeepsLatest(t *testing.T) {
	early := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	late := early.Add(2 * time.Hour)
	scoped := []models.AlertRecord{
		{ID: "a1", Title: "Equipment update", Message: "Projector ready\nold details", CreatedAt: early},
		{ID: "a2", Title: "Equipment update", Message: "Projector ready\nnew details", CreatedAt: late},
	}

	view := Reconcile(scoped, nil, admin(), nil)
	if len(view.Alerts) != 1 {
		t.Fatalf("expected 1 alert after dedup, got %d", len(view.Alerts))
	}
	if view.Alerts[0].ID != "a2" {
		t.Fatalf("expected the later record to win, got %s", view.Alerts[0].ID)
	}
}

func TestReconcileSortsDescending(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	scoped := []models.AlertRecord{
		{ID: "old", Title: "t1", Message: "m1", CreatedAt: base},
		{ID: "new", Title: "t2", Message: "m2", CreatedAt: base.Add(time.Hour)},
	}
	view := Reconcile(scoped, nil, admin(), nil)
	if view.Alerts[0].ID != "new" || view.Alerts[1].ID != "old" {
		t.Fatalf("expected newest first, got %s then %s", view.Alerts[0].ID, view.Alerts[1].ID)
	}
}

func TestReconcileCrossScopeEmailMatch(t *testing.T) {
	cross := []models.AlertRecord{
		{ID: "x1", Title: "Equipment update", Message: "prepared for someone@else.com", CreatedAt: time.Now()},
	}

	me := models.Viewer{ID: "u1", Email: "me@x.com"}
	if view := Reconcile(nil, cross, me, nil); len(view.Alerts) != 0 {
		t.Fatalf("alert for someone else leaked to %s", me.Email)
	}

	owner := models.Viewer{ID: "u2", Email: "someone@else.com"}
	if view := Reconcile(nil, cross, owner, nil); len(view.Alerts) != 1 {
		t.Fatal("expected cross-scope alert for the mentioned email")
	}
}

func TestReconcileCrossScopeRequiresGlobalScope(t *testing.T) {
	cross := []models.AlertRecord{
		{ID: "x1", Title: "t", Message: "for someone@else.com", UserID: "other-user", CreatedAt: time.Now()},
	}
	owner := models.Viewer{ID: "u2", Email: "someone@else.com"}
	if view := Reconcile(nil, cross, owner, nil); len(view.Alerts) != 0 {
		t.Fatal("user-scoped record must not be recovered via email match")
	}
}

func TestReconcileNonAdminScopedFilter(t *testing.T) {
	scoped := []models.AlertRecord{
		{ID: "mine", Title: "t1", Message: "m1", UserID: "u1", CreatedAt: time.Now()},
		{ID: "theirs", Title: "t2", Message: "m2", UserID: "u9", CreatedAt: time.Now()},
	}
	view := Reconcile(scoped, nil, models.Viewer{ID: "u1", Email: "u1@x.com"}, nil)
	if len(view.Alerts) != 1 || view.Alerts[0].ID != "mine" {
		t.Fatalf("expected only the viewer's record, got %+v", view.Alerts)
	}
}

func TestReconcileUnreadExcludesHidden(t *testing.T) {
	now := time.Now()
	scoped := []models.AlertRecord{
		{ID: "a1", Title: "t1", Message: "m1", CreatedAt: now},
		{ID: "a2", Title: "t2", Message: "m2", CreatedAt: now.Add(time.Second)},
		{ID: "a3", Title: "t3", Message: "m3", CreatedAt: now.Add(2 * time.Second)},
	}
	view := Reconcile(scoped, nil, admin(), map[string]bool{"a2": true})
	if view.UnreadCount != 2 {
		t.Fatalf("expected unread count 2, got %d", view.UnreadCount)
	}
	for _, a := range view.Alerts {
		if a.ID == "a2" {
			t.Fatal("hidden alert must not appear in the list")
		}
	}
}

func TestReconcileReadAlertsNotCounted(t *testing.T) {
	scoped := []models.AlertRecord{
		{ID: "a1", Title: "t1", Message: "m1", IsRead: true, CreatedAt: time.Now()},
		{ID: "a2", Title: "t2", Message: "m2", CreatedAt: time.Now()},
	}
	view := Reconcile(scoped, nil, admin(), nil)
	if view.UnreadCount != 1 {
		t.Fatalf("expected unread count 1, got %d", view.UnreadCount)
	}
}
