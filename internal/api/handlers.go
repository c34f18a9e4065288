package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Kusa331/ORBIT/internal/bell"
	"github.com/Kusa331/ORBIT/internal/db"
	"github.com/Kusa331/ORBIT/internal/logging"
	"github.com/Kusa331/ORBIT/internal/models"
	"github.com/Kusa331/ORBIT/internal/notification"
)

type Handler struct {
	db     *db.DB
	bell   *bell.Service
	notif  *notification.Service
	logger *logging.Logger
}

func NewHandler(db *db.DB, bellSvc *bell.Service, notif *notification.Service, logger *logging.Logger) *Handler {
	return &Handler{db: db, bell: bellSvc, notif: notif, logger: logger}
}

// fileAlert persists an alert row and queues its out-of-band delivery. The
// bell picks the row up on the next render.
func (h *Handler) fileAlert(c *gin.Context, record models.AlertRecord, email string) {
	if err := h.db.CreateAlert(c.Request.Context(), record); err != nil {
		h.logger.Errorf("Failed to file alert %s: %v", record.ID, err)
		return
	}
	h.notif.QueueTask(models.Task{
		AlertID:   record.ID,
		UserID:    record.UserID,
		UserEmail: email,
		Title:     record.Title,
		Body:      record.Message,
	})
}

func (h *Handler) GetFacilities(c *gin.Context) {
	facilities, err := h.db.ListFacilities(c.Request.Context())
	if err != nil {
		h.logger.Errorf("Failed to get facilities: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get facilities"})
		return
	}
	c.JSON(http.StatusOK, facilities)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var body models.BookingCreate
	if err := c.ShouldBindJSON(&body); err != nil {
		h.logger.Errorf("Invalid request body for booking: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if !body.EndTime.After(body.StartTime) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_time must be after start_time"})
		return
	}

	viewer := currentViewer(c)
	booking := models.Booking{
		ID:         uuid.NewString(),
		FacilityID: body.FacilityID,
		UserID:     viewer.ID,
		UserEmail:  viewer.Email,
		Purpose:    body.Purpose,
		StartTime:  body.StartTime,
		EndTime:    body.EndTime,
		Status:     "pending",
		CreatedAt:  time.Now(),
	}
	if err := h.db.CreateBooking(c.Request.Context(), booking); err != nil {
		h.logger.Errorf("Failed to create booking: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create booking"})
		return
	}

	h.fileAlert(c, models.AlertRecord{
		ID:    uuid.NewString(),
		Title: fmt.Sprintf("New Booking Request - %s", viewer.Email),
		Message: fmt.Sprintf("%s booked facility %s for %q (%s to %s) [booking:%s]",
			viewer.Email, booking.FacilityID, booking.Purpose,
			booking.StartTime.Format(time.RFC3339), booking.EndTime.Format(time.RFC3339),
			booking.ID),
		CreatedAt: time.Now(),
	}, "")

	h.logger.Infof("Created booking: %s", booking.ID)
	c.JSON(http.StatusCreated, booking)
}

func (h *Handler) GetMyBookings(c *gin.Context) {
	viewer := currentViewer(c)
	bookings, err := h.db.BookingsByUser(c.Request.Context(), viewer.ID)
	if err != nil {
		h.logger.Errorf("Failed to get bookings for user %s: %v", viewer.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get bookings"})
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *Handler) GetAllBookings(c *gin.Context) {
	bookings, err := h.db.AllBookings(c.Request.Context())
	if err != nil {
		h.logger.Errorf("Failed to get bookings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get bookings"})
		return
	}
	c.JSON(http.StatusOK, bookings)
}

type bookingDecision struct {
	AdminResponse string `json:"admin_response"`
}

func (h *Handler) ApproveBooking(c *gin.Context) {
	h.decideBooking(c, "approved", "Booking Scheduled", "approved")
}

func (h *Handler) RejectBooking(c *gin.Context) {
	h.decideBooking(c, "rejected", "Booking Rejected", "rejected")
}

func (h *Handler) decideBooking(c *gin.Context, status, alertTitle, verb string) {
	id := c.Param("id")
	var body bookingDecision
	if err := c.ShouldBindJSON(&body); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	booking, err := h.db.BookingByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Errorf("Failed to get booking %s: %v", id, err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}
	if err := h.db.UpdateBookingStatus(c.Request.Context(), id, status, body.AdminResponse); err != nil {
		h.logger.Errorf("Failed to update booking %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update booking"})
		return
	}

	message := fmt.Sprintf("Your booking for facility %s was %s [booking:%s]", booking.FacilityID, verb, id)
	if body.AdminResponse != "" {
		message = fmt.Sprintf("%s\n%s", message, body.AdminResponse)
	}
	h.fileAlert(c, models.AlertRecord{
		ID:        uuid.NewString(),
		Title:     alertTitle,
		Message:   message,
		UserID:    booking.UserID,
		CreatedAt: time.Now(),
	}, booking.UserEmail)

	h.logger.Infof("Booking %s %s", id, status)
	c.JSON(http.StatusOK, gin.H{"status": status})
}

func (h *Handler) CreateEquipmentRequest(c *gin.Context) {
	var body models.EquipmentRequestCreate
	if err := c.ShouldBindJSON(&body); err != nil {
		h.logger.Errorf("Invalid request body for equipment request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	viewer := currentViewer(c)
	booking, err := h.db.BookingByID(c.Request.Context(), body.BookingID)
	if err != nil {
		h.logger.Errorf("Failed to get booking %s: %v", body.BookingID, err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}
	if !viewer.IsAdmin && booking.UserID != viewer.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your booking"})
		return
	}

	req := models.EquipmentRequest{
		ID:         uuid.NewString(),
		BookingID:  body.BookingID,
		UserID:     viewer.ID,
		Items:      body.Items,
		OthersText: body.OthersText,
		Status:     "pending",
		CreatedAt:  time.Now(),
	}
	if err := h.db.CreateEquipmentRequest(c.Request.Context(), req); err != nil {
		h.logger.Errorf("Failed to create equipment request: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create equipment request"})
		return
	}

	items := make([]any, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, item)
	}
	h.fileAlert(c, models.AlertRecord{
		ID:    uuid.NewString(),
		Title: fmt.Sprintf("Equipment Request - %s", viewer.Email),
		Message: fmt.Sprintf("%s requested equipment for booking [booking:%s]",
			viewer.Email, req.BookingID),
		StructuredNote: map[string]any{
			"items":  items,
			"others": req.OthersText,
		},
		CreatedAt: time.Now(),
	}, "")

	h.logger.Infof("Created equipment request: %s", req.ID)
	c.JSON(http.StatusCreated, req)
}

func (h *Handler) GetMyEquipmentRequests(c *gin.Context) {
	viewer := currentViewer(c)
	requests, err := h.db.EquipmentRequestsByUser(c.Request.Context(), viewer.ID)
	if err != nil {
		h.logger.Errorf("Failed to get equipment requests for user %s: %v", viewer.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get equipment requests"})
		return
	}
	c.JSON(http.StatusOK, requests)
}

func (h *Handler) GetAllEquipmentRequests(c *gin.Context) {
	requests, err := h.db.AllEquipmentRequests(c.Request.Context())
	if err != nil {
		h.logger.Errorf("Failed to get equipment requests: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get equipment requests"})
		return
	}
	c.JSON(http.StatusOK, requests)
}

type equipmentResponse struct {
	Items map[string]string `json:"items" binding:"required"`
	Note  string            `json:"note,omitempty"`
}

// RespondEquipmentRequest records per-item decisions. The statuses land in
// the requester's alert as a structured note and on the booking's admin
// response so later renders can recover them.
func (h *Handler) RespondEquipmentRequest(c *gin.Context) {
	id := c.Param("id")
	var body equipmentResponse
	if err := c.ShouldBindJSON(&body); err != nil {
		h.logger.Errorf("Invalid request body for equipment response: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	req, err := h.db.EquipmentRequestByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Errorf("Failed to get equipment request %s: %v", id, err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Equipment request not found"})
		return
	}

	items := make(map[string]any, len(body.Items))
	for label, status := range body.Items {
		items[label] = status
	}
	note, err := json.Marshal(map[string]any{"items": items})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid items"})
		return
	}

	if err := h.db.RespondEquipmentRequest(c.Request.Context(), id, string(note)); err != nil {
		h.logger.Errorf("Failed to respond to equipment request %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to respond to equipment request"})
		return
	}

	booking, err := h.db.BookingByID(c.Request.Context(), req.BookingID)
	if err == nil {
		if err := h.db.UpdateBookingStatus(c.Request.Context(), booking.ID, booking.Status, string(note)); err != nil {
			h.logger.Warnf("Failed to record equipment statuses on booking %s: %v", booking.ID, err)
		}
	}

	message := fmt.Sprintf("Your equipment request was reviewed [booking:%s]", req.BookingID)
	if body.Note != "" {
		message = fmt.Sprintf("%s\n%s", message, body.Note)
	}
	h.fileAlert(c, models.AlertRecord{
		ID:             uuid.NewString(),
		Title:          "Equipment Request Update",
		Message:        message,
		StructuredNote: map[string]any{"items": items},
		UserID:         req.UserID,
		CreatedAt:      time.Now(),
	}, booking.UserEmail)

	h.logger.Infof("Responded to equipment request: %s", id)
	c.JSON(http.StatusOK, gin.H{"status": "responded"})
}

func (h *Handler) GetBell(c *gin.Context) {
	viewer := currentViewer(c)
	view, err := h.bell.View(c.Request.Context(), viewer)
	if err != nil {
		h.logger.Errorf("Failed to render bell for viewer %s: %v", viewer.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load notifications"})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) MarkAlertRead(c *gin.Context) {
	viewer := currentViewer(c)
	id := c.Param("id")
	if err := h.bell.MarkRead(c.Request.Context(), viewer, id); err != nil {
		h.logger.Errorf("Failed to mark alert %s read: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark alert read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "read"})
}

func (h *Handler) HideAlert(c *gin.Context) {
	viewer := currentViewer(c)
	id := c.Param("id")
	if err := h.bell.Hide(c.Request.Context(), viewer, id); err != nil {
		h.logger.Errorf("Failed to hide alert %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hide alert"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "hidden"})
}
