package bell

import (
	"sort"
	"strings"

	"github.com/Kusa331/ORBIT/internal/alerttext"
	"github.com/Kusa331/ORBIT/internal/models"
)

// Reconcile merges the viewer-scoped and cross-scope alert feeds into the
// final bell list. Admin viewers see the admin feed as-is; everyone else sees
// their own records plus admin-authored updates that mention their email,
// since equipment responses were historically filed without a matching user
// id. Hidden ids are suppressed from the list; the unread count is taken
// over what remains.
func Reconcile(scoped, crossScope []models.AlertRecord, viewer models.Viewer, hidden map[string]bool) models.BellView {
	var visible []models.AlertRecord
	if viewer.IsAdmin {
		visible = scoped
	} else {
		for _, a := range scoped {
			if a.UserID == viewer.ID {
				visible = append(visible, a)
			}
		}
		for _, a := range crossScope {
			if a.UserID == "" && matchesViewerEmail(a, viewer.Email) {
				visible = append(visible, a)
			}
		}
	}

	visible = dedupe(visible)
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].CreatedAt.After(visible[j].CreatedAt)
	})

	view := models.BellView{Alerts: make([]models.ParsedAlert, 0, len(visible))}
	for _, a := range visible {
		if hidden[a.ID] {
			continue
		}
		parsed := alerttext.Parse(a)
		view.Alerts = append(view.Alerts, parsed)
		if !parsed.IsRead {
			view.UnreadCount++
		}
	}
	return view
}

// dedupe keeps a single record per (title, first message line) pair, the one
// with the latest CreatedAt. Double-submitted approvals and re-logged
// equipment updates collapse here.
func dedupe(records []models.AlertRecord) []models.AlertRecord {
	best := make(map[string]models.AlertRecord, len(records))
	order := make([]string, 0, len(records))
	for _, a := range records {
		key := dedupeKey(a)
		prev, seen := best[key]
		if !seen {
			order = append(order, key)
			best[key] = a
			continue
		}
		if a.CreatedAt.After(prev.CreatedAt) {
			best[key] = a
		}
	}

	out := make([]models.AlertRecord, 0, len(order))
	for _, key := range order {
		out = append(out, best[key])
	}
	return out
}

func dedupeKey(a models.AlertRecord) string {
	text := a.Message
	if strings.TrimSpace(text) == "" {
		text = a.Details
	}
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return a.Title + "||" + strings.TrimSpace(text)
}

func matchesViewerEmail(a models.AlertRecord, email string) bool {
	if email == "" {
		return false
	}
	if e := alerttext.RequesterEmail(a.Title); e != "" && strings.EqualFold(e, email) {
		return true
	}
	blob := strings.ToLower(a.Title + "\n" + a.Message + "\n" + a.Details)
	return strings.Contains(blob, strings.ToLower(email))
}
