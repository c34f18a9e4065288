package alerttext

import (
	"reflect"
	"testing"
	"time"

	"github.com/Kusa331/ORBIT/internal/models"
)

func TestParseLegacyTitleRewrite(t *testing.T) {
	p := Parse(models.AlertRecord{
		ID:      "a1",
		Title:   "Booking request submitted — alice@x.com",
		Message: "Room 204 reserved for Thursday",
	})
	if p.VisibleTitle != "Booking Scheduled" {
		t.Fatalf("expected canonical title, got %q", p.VisibleTitle)
	}
	if p.TitleRequesterEmail != "alice@x.com" {
		t.Fatalf("expected requester email, got %q", p.TitleRequesterEmail)
	}
}

func TestParseHyphenEmailSuffix(t *testing.T) {
	p := Parse(models.AlertRecord{Title: "Equipment update - bob@lab.edu"})
	if p.TitleRequesterEmail != "bob@lab.edu" {
		t.Fatalf("expected requester email, got %q", p.TitleRequesterEmail)
	}
	if p.VisibleTitle != "Equipment update" {
		t.Fatalf("expected stripped title, got %q", p.VisibleTitle)
	}
}

func TestParseItemsSupersedeEquipment(t *testing.T) {
	p := Parse(models.AlertRecord{
		Title:   "Equipment update",
		Message: `Requested equipment: hdmi {"items":{"hdmi":"prepared"}}`,
	})
	want := []models.ItemWithStatus{{Label: "HDMI Cable", Status: models.StatusPrepared}}
	if !reflect.DeepEqual(p.Items, want) {
		t.Fatalf("expected items %v, got %v", want, p.Items)
	}
	if p.Equipment != nil {
		t.Fatalf("items and equipment must never both render, got %v", p.Equipment)
	}
}

func TestParseFlatEquipmentList(t *testing.T) {
	p := Parse(models.AlertRecord{
		Title:   "Equipment request",
		Message: "Requested equipment: projector, extra_chairs",
	})
	want := []string{"Projector", "Extra Chairs"}
	if !reflect.DeepEqual(p.Equipment, want) {
		t.Fatalf("expected %v, got %v", want, p.Equipment)
	}
	if p.Items != nil {
		t.Fatalf("no statuses expected, got %v", p.Items)
	}
}

func TestParseCleanedNeverLeaksJSON(t *testing.T) {
	p := Parse(models.AlertRecord{
		Title:   "Equipment update",
		Message: `Your items are handled {"items":{"hdmi":"prepared"}} [booking:b-9]`,
	})
	if p.Cleaned != "Your items are handled" {
		t.Fatalf("unexpected cleaned text: %q", p.Cleaned)
	}
}

func TestParseDetailsMergedWhenDistinct(t *testing.T) {
	p := Parse(models.AlertRecord{
		Title:   "Note",
		Message: "first part",
		Details: "second part",
	})
	if p.Cleaned != "first part second part" {
		t.Fatalf("unexpected cleaned text: %q", p.Cleaned)
	}
}

func TestParseStructuredNoteWins(t *testing.T) {
	p := Parse(models.AlertRecord{
		Title:          "Equipment update",
		Message:        `{"items":{"projector":"no"}}`,
		StructuredNote: map[string]any{"items": map[string]any{"projector": "yes"}},
		CreatedAt:      time.Now(),
	})
	want := []models.ItemWithStatus{{Label: "Projector", Status: models.StatusPrepared}}
	if !reflect.DeepEqual(p.Items, want) {
		t.Fatalf("structured note must be authoritative, got %v", p.Items)
	}
}

func TestBookingRef(t *testing.T) {
	if got := BookingRef("approved, see [booking:b-42] for details"); got != "b-42" {
		t.Fatalf("expected b-42, got %q", got)
	}
	if got := BookingRef("no tag here"); got != "" {
		t.Fatalf("expected empty ref, got %q", got)
	}
}

func TestRequesterEmail(t *testing.T) {
	if got := RequesterEmail("Booking request submitted — alice@x.com"); got != "alice@x.com" {
		t.Fatalf("expected alice@x.com, got %q", got)
	}
	if got := RequesterEmail("Plain title"); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}
