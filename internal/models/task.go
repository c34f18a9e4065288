package models

// Task is one alert handed from ingestion to the dispatch worker pool. An
// empty UserID means the alert is admin-scope and goes to the admin channel.
type Task struct {
	AlertID   string `json:"alert_id"`
	UserID    string `json:"user_id,omitempty"`
	UserEmail string `json:"user_email,omitempty"`
	Title     string `json:"title"`
	Body      string `json:"body"`
}
