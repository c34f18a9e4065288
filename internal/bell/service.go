package bell

import (
	"context"
	"fmt"
	"sync"

	"github.com/Kusa331/ORBIT/internal/alerttext"
	"github.com/Kusa331/ORBIT/internal/logging"
	"github.com/Kusa331/ORBIT/internal/models"
)

// FeedStore is the slice of storage the bell needs.
type FeedStore interface {
	AdminAlerts(ctx context.Context) ([]models.AlertRecord, error)
	UserAlerts(ctx context.Context, userID string) ([]models.AlertRecord, error)
	MarkAlertRead(ctx context.Context, id string) error
	BookingByID(ctx context.Context, id string) (models.Booking, error)
}

// Overlay persists the per-viewer hidden-alert-id set.
type Overlay interface {
	Hidden(ctx context.Context, viewerID string) (map[string]bool, error)
	Hide(ctx context.Context, viewerID, alertID string) error
}

// Service assembles the bell view and owns the two externally visible
// mutations: mark-as-read and dismiss. Parsing itself is pure; the service
// only adds feed fetching, booking enrichment, and the optimistic read state.
type Service struct {
	store   FeedStore
	overlay Overlay
	logger  *logging.Logger

	mu      sync.Mutex
	pending map[string]struct{}        // alert ids with a mark-read in flight
	cache   map[string]models.BellView // last rendered view per viewer id
}

func NewService(store FeedStore, overlay Overlay, logger *logging.Logger) *Service {
	return &Service{
		store:   store,
		overlay: overlay,
		logger:  logger,
		pending: make(map[string]struct{}),
		cache:   make(map[string]models.BellView),
	}
}

// View fetches the viewer's feeds, reconciles them, and enriches status-less
// alerts from their referenced booking. A failed cross-scope fetch or overlay
// read degrades to empty rather than failing the whole render.
func (s *Service) View(ctx context.Context, viewer models.Viewer) (models.BellView, error) {
	var scoped, cross []models.AlertRecord
	var err error

	if viewer.IsAdmin {
		scoped, err = s.store.AdminAlerts(ctx)
		if err != nil {
			return models.BellView{}, fmt.Errorf("fetch admin alerts: %w", err)
		}
	} else {
		scoped, err = s.store.UserAlerts(ctx, viewer.ID)
		if err != nil {
			return models.BellView{}, fmt.Errorf("fetch alerts for user %s: %w", viewer.ID, err)
		}
		cross, err = s.store.AdminAlerts(ctx)
		if err != nil {
			s.logger.Warnf("Cross-scope feed unavailable for viewer %s: %v", viewer.ID, err)
			cross = nil
		}
	}

	hidden, err := s.overlay.Hidden(ctx, viewer.ID)
	if err != nil {
		s.logger.Warnf("Hidden overlay unavailable for viewer %s: %v", viewer.ID, err)
		hidden = nil
	}

	view := Reconcile(scoped, cross, viewer, hidden)
	s.enrichFromBookings(ctx, append(scoped, cross...), &view)

	s.mu.Lock()
	s.cache[viewer.ID] = view
	s.mu.Unlock()
	return view, nil
}

// enrichFromBookings fills in per-item status for alerts that carry none by
// cross-referencing the admin response of the booking they point at.
func (s *Service) enrichFromBookings(ctx context.Context, records []models.AlertRecord, view *models.BellView) {
	byID := make(map[string]models.AlertRecord, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}

	for i := range view.Alerts {
		if len(view.Alerts[i].Items) > 0 {
			continue
		}
		record, ok := byID[view.Alerts[i].ID]
		if !ok {
			continue
		}
		ref := alerttext.BookingRef(alerttext.CombinedText(record))
		if ref == "" {
			continue
		}
		booking, err := s.store.BookingByID(ctx, ref)
		if err != nil {
			s.logger.Debugf("Booking %s not found for alert %s: %v", ref, record.ID, err)
			continue
		}
		if booking.AdminResponse == "" {
			continue
		}
		if inf := alerttext.Infer(nil, booking.AdminResponse); len(inf.Items) > 0 {
			view.Alerts[i].Items = inf.Items
			view.Alerts[i].Equipment = nil
		}
	}
}

// MarkRead flips an alert to read, optimistically and at most once in flight
// per alert id. On upstream failure the cached view rolls back to its
// pre-mutation snapshot; either way the pending marker is cleared and the
// authoritative feed is refetched.
func (s *Service) MarkRead(ctx context.Context, viewer models.Viewer, id string) error {
	s.mu.Lock()
	if _, inFlight := s.pending[id]; inFlight {
		s.mu.Unlock()
		return nil
	}
	s.pending[id] = struct{}{}
	snapshot, hadView := s.cache[viewer.ID]
	if hadView {
		s.cache[viewer.ID] = markReadLocally(snapshot, id)
	}
	s.mu.Unlock()

	err := s.store.MarkAlertRead(ctx, id)

	s.mu.Lock()
	delete(s.pending, id)
	if err != nil && hadView {
		s.cache[viewer.ID] = snapshot
	}
	s.mu.Unlock()

	if _, verr := s.View(ctx, viewer); verr != nil {
		s.logger.Warnf("Refetch after mark-read for viewer %s failed: %v", viewer.ID, verr)
	}

	if err != nil {
		return fmt.Errorf("mark alert %s read: %w", id, err)
	}
	return nil
}

// Hide dismisses an alert from the viewer's bell. Read state is untouched.
func (s *Service) Hide(ctx context.Context, viewer models.Viewer, id string) error {
	if err := s.overlay.Hide(ctx, viewer.ID, id); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.cache, viewer.ID)
	s.mu.Unlock()
	return nil
}

// CachedView returns the last rendered view for the viewer, if any.
func (s *Service) CachedView(viewerID string) (models.BellView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	view, ok := s.cache[viewerID]
	return view, ok
}

func markReadLocally(view models.BellView, id string) models.BellView {
	out := models.BellView{Alerts: make([]models.ParsedAlert, len(view.Alerts))}
	copy(out.Alerts, view.Alerts)
	for i := range out.Alerts {
		if out.Alerts[i].ID == id {
			out.Alerts[i].IsRead = true
		}
		if !out.Alerts[i].IsRead {
			out.UnreadCount++
		}
	}
	return out
}
