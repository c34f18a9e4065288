package bell

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kusa331/ORBIT/internal/logging"
	"github.com/Kusa331/ORBIT/internal/models"
)

type fakeStore struct {
	admin    []models.AlertRecord
	user     map[string][]models.AlertRecord
	bookings map[string]models.Booking

	adminErr error
	userErr  error
	markErr  error

	marked []string
}

func (f *fakeStore) AdminAlerts(ctx context.Context) ([]models.AlertRecord, error) {
	if f.adminErr != nil {
		return nil, f.adminErr
	}
	return f.admin, nil
}

func (f *fakeStore) UserAlerts(ctx context.Context, userID string) ([]models.AlertRecord, error) {
	if f.userErr != nil {
		return nil, f.userErr
	}
	return f.user[userID], nil
}

func (f *fakeStore) MarkAlertRead(ctx context.Context, id string) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.marked = append(f.marked, id)
	for i := range f.admin {
		if f.admin[i].ID == id {
			f.admin[i].IsRead = true
		}
	}
	for userID := range f.user {
		for i := range f.user[userID] {
			if f.user[userID][i].ID == id {
				f.user[userID][i].IsRead = true
			}
		}
	}
	return nil
}

func (f *fakeStore) BookingByID(ctx context.Context, id string) (models.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return models.Booking{}, errors.New("booking not found")
	}
	return b, nil
}

type fakeOverlay struct {
	hidden    map[string]map[string]bool
	hiddenErr error
	hideErr   error
}

func (f *fakeOverlay) Hidden(ctx context.Context, viewerID string) (map[string]bool, error) {
	if f.hiddenErr != nil {
		return nil, f.hiddenErr
	}
	return f.hidden[viewerID], nil
}

func (f *fakeOverlay) Hide(ctx context.Context, viewerID, alertID string) error {
	if f.hideErr != nil {
		return f.hideErr
	}
	if f.hidden == nil {
		f.hidden = make(map[string]map[string]bool)
	}
	if f.hidden[viewerID] == nil {
		f.hidden[viewerID] = make(map[string]bool)
	}
	f.hidden[viewerID][alertID] = true
	return nil
}

func testLogger() *logging.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return &logging.Logger{Logger: l}
}

func newTestService(store *fakeStore, overlay *fakeOverlay) *Service {
	return NewService(store, overlay, testLogger())
}

func TestViewCrossScopeFailureTolerated(t *testing.T) {
	store := &fakeStore{
		user: map[string][]models.AlertRecord{
			"u1": {{ID: "a1", Title: "Booking Scheduled", Message: "Room 1", UserID: "u1", CreatedAt: time.Now()}},
		},
		adminErr: errors.New("unauthorized"),
	}
	svc := newTestService(store, &fakeOverlay{})

	view, err := svc.View(context.Background(), models.Viewer{ID: "u1", Email: "u1@x.com"})
	require.NoError(t, err)
	assert.Len(t, view.Alerts, 1)
	assert.Equal(t, 1, view.UnreadCount)
}

func TestViewOverlayFailureTolerated(t *testing.T) {
	store := &fakeStore{
		admin: []models.AlertRecord{{ID: "a1", Title: "t", Message: "m", CreatedAt: time.Now()}},
	}
	svc := newTestService(store, &fakeOverlay{hiddenErr: errors.New("redis down")})

	view, err := svc.View(context.Background(), models.Viewer{ID: "adm", IsAdmin: true})
	require.NoError(t, err)
	assert.Len(t, view.Alerts, 1)
}

func TestViewEnrichesFromBooking(t *testing.T) {
	store := &fakeStore{
		user: map[string][]models.AlertRecord{
			"u1": {{
				ID:        "a1",
				Title:     "Equipment update",
				Message:   "Your request was handled [booking:b1]",
				UserID:    "u1",
				CreatedAt: time.Now(),
			}},
		},
		bookings: map[string]models.Booking{
			"b1": {ID: "b1", AdminResponse: `{"items":{"hdmi":"prepared","projector":"no"}}`},
		},
	}
	svc := newTestService(store, &fakeOverlay{})

	view, err := svc.View(context.Background(), models.Viewer{ID: "u1", Email: "u1@x.com"})
	require.NoError(t, err)
	require.Len(t, view.Alerts, 1)
	want := []models.ItemWithStatus{
		{Label: "HDMI Cable", Status: models.StatusPrepared},
		{Label: "Projector", Status: models.StatusNotAvailable},
	}
	assert.Equal(t, want, view.Alerts[0].Items)
	assert.Nil(t, view.Alerts[0].Equipment)
}

func TestMarkReadSuccess(t *testing.T) {
	store := &fakeStore{
		admin: []models.AlertRecord{{ID: "a1", Title: "t", Message: "m", CreatedAt: time.Now()}},
	}
	svc := newTestService(store, &fakeOverlay{})
	viewer := models.Viewer{ID: "adm", IsAdmin: true}

	_, err := svc.View(context.Background(), viewer)
	require.NoError(t, err)

	require.NoError(t, svc.MarkRead(context.Background(), viewer, "a1"))
	assert.Equal(t, []string{"a1"}, store.marked)

	view, ok := svc.CachedView("adm")
	require.True(t, ok)
	assert.Equal(t, 0, view.UnreadCount)
	assert.True(t, view.Alerts[0].IsRead)
}

func TestMarkReadRollbackOnFailure(t *testing.T) {
	store := &fakeStore{
		admin: []models.AlertRecord{{ID: "a1", Title: "t", Message: "m", CreatedAt: time.Now()}},
	}
	svc := newTestService(store, &fakeOverlay{})
	viewer := models.Viewer{ID: "adm", IsAdmin: true}

	_, err := svc.View(context.Background(), viewer)
	require.NoError(t, err)

	// Upstream mutation and the follow-up refetch both fail: the cached view
	// must be back at its pre-mutation snapshot.
	store.markErr = errors.New("write failed")
	store.adminErr = errors.New("feed down")

	err = svc.MarkRead(context.Background(), viewer, "a1")
	require.Error(t, err)

	view, ok := svc.CachedView("adm")
	require.True(t, ok)
	assert.False(t, view.Alerts[0].IsRead)
	assert.Equal(t, 1, view.UnreadCount)
}

func TestMarkReadAtMostOnceInFlight(t *testing.T) {
	store := &fakeStore{
		admin: []models.AlertRecord{{ID: "a1", Title: "t", Message: "m", CreatedAt: time.Now()}},
	}
	svc := newTestService(store, &fakeOverlay{})
	viewer := models.Viewer{ID: "adm", IsAdmin: true}

	svc.pending["a1"] = struct{}{}
	require.NoError(t, svc.MarkRead(context.Background(), viewer, "a1"))
	assert.Empty(t, store.marked, "a second submission for an in-flight id must not hit the store")
}

func TestHideInvalidatesCache(t *testing.T) {
	store := &fakeStore{
		admin: []models.AlertRecord{{ID: "a1", Title: "t", Message: "m", CreatedAt: time.Now()}},
	}
	overlay := &fakeOverlay{}
	svc := newTestService(store, overlay)
	viewer := models.Viewer{ID: "adm", IsAdmin: true}

	_, err := svc.View(context.Background(), viewer)
	require.NoError(t, err)

	require.NoError(t, svc.Hide(context.Background(), viewer, "a1"))
	_, ok := svc.CachedView("adm")
	assert.False(t, ok)

	view, err := svc.View(context.Background(), viewer)
	require.NoError(t, err)
	assert.Empty(t, view.Alerts)
	assert.Equal(t, 0, view.UnreadCount)
}
