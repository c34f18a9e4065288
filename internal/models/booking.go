package models

import "time"

// Facility is a bookable room or lab station.
type Facility struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"` // "room" or "station"
	Capacity int    `json:"capacity"`
	Status   string `json:"status"`
}

// Booking is a reservation of a facility for a time window.
type Booking struct {
	ID            string    `json:"id"`
	FacilityID    string    `json:"facility_id"`
	UserID        string    `json:"user_id"`
	UserEmail     string    `json:"user_email"`
	Purpose       string    `json:"purpose"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Status        string    `json:"status"` // pending, approved, rejected
	AdminResponse string    `json:"admin_response,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// BookingCreate is the request body for creating a booking.
type BookingCreate struct {
	FacilityID string    `json:"facility_id" binding:"required"`
	Purpose    string    `json:"purpose" binding:"required"`
	StartTime  time.Time `json:"start_time" binding:"required"`
	EndTime    time.Time `json:"end_time" binding:"required"`
}

// EquipmentRequest asks admins to prepare equipment for a booking.
type EquipmentRequest struct {
	ID            string    `json:"id"`
	BookingID     string    `json:"booking_id"`
	UserID        string    `json:"user_id"`
	Items         []string  `json:"items"`
	OthersText    string    `json:"others_text,omitempty"`
	Status        string    `json:"status"` // pending, responded
	AdminResponse string    `json:"admin_response,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// EquipmentRequestCreate is the request body for filing an equipment request.
type EquipmentRequestCreate struct {
	BookingID  string   `json:"booking_id" binding:"required"`
	Items      []string `json:"items" binding:"required"`
	OthersText string   `json:"others_text,omitempty"`
}

// Viewer is the authenticated identity attached to a request. Authentication
// itself lives in the gateway; this service trusts the forwarded headers.
type Viewer struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}
