package models

import "time"

// Item status values produced by the needs classifier.
const (
	StatusPrepared     = "prepared"
	StatusNotAvailable = "not_available"
	StatusPending      = "pending"
)

// AlertRecord is a raw notification row as stored by the alert subsystem.
// Message and Details are free text and may carry embedded JSON, escaped
// JSON, or inline "label: status" fragments from older app versions.
type AlertRecord struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Message        string         `json:"message"`
	Details        string         `json:"details,omitempty"`
	StructuredNote map[string]any `json:"structured_note,omitempty"`
	UserID         string         `json:"user_id,omitempty"` // empty = admin-scope alert
	IsRead         bool           `json:"is_read"`
	CreatedAt      time.Time      `json:"created_at"`
}

// ItemWithStatus is one equipment entry with its resolved status.
type ItemWithStatus struct {
	Label  string `json:"label"`
	Status string `json:"status"`
}

// ParsedAlert is the display-ready form of an AlertRecord. It is derived per
// render and never persisted.
type ParsedAlert struct {
	ID                  string           `json:"id"`
	VisibleTitle        string           `json:"visible_title"`
	TitleRequesterEmail string           `json:"title_requester_email,omitempty"`
	Equipment           []string         `json:"equipment,omitempty"`
	OthersText          string           `json:"others_text,omitempty"`
	Items               []ItemWithStatus `json:"items,omitempty"`
	Cleaned             string           `json:"cleaned"`
	IsRead              bool             `json:"is_read"`
	CreatedAt           time.Time        `json:"created_at"`
}

// BellView is what the reconciler hands to the presentation layer.
type BellView struct {
	Alerts      []ParsedAlert `json:"alerts"`
	UnreadCount int           `json:"unread_count"`
}
