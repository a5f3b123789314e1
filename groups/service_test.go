package groups

import (
	"bytes"
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourdesk/models"
	"tourdesk/utils"
)

// memStore mirrors the guarded updates of the Mongo store under one mutex.
type memStore struct {
	mu        sync.Mutex
	groups    map[string]models.Group
	tourists  map[string]models.Tourist
	createErr error
}

func newMemStore() *memStore {
	return &memStore{groups: map[string]models.Group{}, tourists: map[string]models.Tourist{}}
}

func (m *memStore) List(_ context.Context, f Filter) ([]models.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Group{}
	for _, g := range m.groups {
		if (f.Date == "" || g.Date == f.Date) && (f.ExcursionID == "" || g.ExcursionID == f.ExcursionID) && (f.Status == "" || g.Status == f.Status) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *memStore) Get(_ context.Context, id string) (models.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.groups[id]
	if !ok {
		return g, utils.NotFound("group")
	}
	return g, nil
}

func (m *memStore) Create(_ context.Context, g models.Group) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups[g.ID] = g
	return nil
}

func (m *memStore) Update(_ context.Context, g models.Group) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.groups[g.ID]
	if !ok {
		return utils.NotFound("group")
	}
	if cur.BookedSeats > g.TotalSeats {
		return utils.Capacity("totalSeats below booked seats")
	}
	g.BookedSeats = cur.BookedSeats
	m.groups[g.ID] = g
	return nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.groups[id]; !ok {
		return utils.NotFound("group")
	}
	delete(m.groups, id)
	return nil
}

func (m *memStore) ReserveSeats(_ context.Context, groupID string, n int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.groups[groupID]
	if !ok || g.BookedSeats+n > g.TotalSeats {
		return false, nil
	}
	g.BookedSeats += n
	m.groups[groupID] = g
	return true, nil
}

func (m *memStore) ReleaseSeats(_ context.Context, groupID string, n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.groups[groupID]
	if !ok {
		return nil
	}
	g.BookedSeats = max(0, g.BookedSeats-n)
	m.groups[groupID] = g
	return nil
}

func (m *memStore) ListTourists(_ context.Context, groupID string) ([]models.Tourist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Tourist{}
	for _, t := range m.tourists {
		if t.GroupID == groupID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memStore) GetTourist(_ context.Context, groupID, touristID string) (models.Tourist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tourists[touristID]
	if !ok || t.GroupID != groupID {
		return models.Tourist{}, utils.NotFound("tourist")
	}
	return t, nil
}

func (m *memStore) CreateTourist(_ context.Context, t models.Tourist) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.tourists[t.ID] = t
	return nil
}

func (m *memStore) DeleteTourist(_ context.Context, groupID, touristID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tourists[touristID]
	if !ok || t.GroupID != groupID {
		return utils.NotFound("tourist")
	}
	delete(m.tourists, touristID)
	return nil
}

func (m *memStore) DeleteTouristsByGroup(_ context.Context, groupID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, t := range m.tourists {
		if t.GroupID == groupID {
			delete(m.tourists, id)
		}
	}
	return nil
}

func (m *memStore) booked(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.groups[id].BookedSeats
}

type staticCatalog map[string][]models.Ticket

func (c staticCatalog) TicketCatalog(_ context.Context, excursionID string) ([]models.Ticket, error) {
	return c[excursionID], nil
}

type knownExcursions []string

func (k knownExcursions) Exists(_ context.Context, id string) (bool, error) {
	for _, e := range k {
		if e == id {
			return true, nil
		}
	}
	return false, nil
}

func newTestService() (*Service, *memStore) {
	store := newMemStore()
	catalog := staticCatalog{
		"walk": {
			{Type: models.TicketAdult, Name: "Adult", Price: 1000},
			{Type: models.TicketChild, Name: "Child", Price: 500},
		},
	}
	return NewService(store, catalog, knownExcursions{"walk", "boat"}), store
}

func adults(n int) []models.TicketLine {
	return []models.TicketLine{{Type: models.TicketAdult, Count: n}}
}

func newGroup(t *testing.T, svc *Service, seats int) models.Group {
	t.Helper()
	g, err := svc.Create(context.Background(), models.Group{ExcursionID: "walk", Date: "2026-06-01", Time: "10:00", TotalSeats: seats})
	require.NoError(t, err)
	return g
}

// Ten seats: add 4, add 5, a third add of 2 is rejected, remove the first,
// then the add of 2 succeeds and 7 seats are booked.
func TestSeatAccountingScenario(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	g := newGroup(t, svc, 10)

	first, err := svc.AddTourist(ctx, g.ID, models.Tourist{Name: "Ann", Tickets: adults(4)})
	require.NoError(t, err)
	_, err = svc.AddTourist(ctx, g.ID, models.Tourist{Name: "Bob", Tickets: []models.TicketLine{{Type: "adult", Count: 3}, {Type: "child", Count: 2}}})
	require.NoError(t, err)
	assert.Equal(t, 9, store.booked(g.ID))

	_, err = svc.AddTourist(ctx, g.ID, models.Tourist{Name: "Cid", Tickets: adults(2)})
	require.ErrorIs(t, err, utils.ErrCapacity)
	assert.Equal(t, 9, store.booked(g.ID))

	require.NoError(t, svc.RemoveTourist(ctx, g.ID, first.ID))
	assert.Equal(t, 5, store.booked(g.ID))

	_, err = svc.AddTourist(ctx, g.ID, models.Tourist{Name: "Cid", Tickets: adults(2)})
	require.NoError(t, err)
	assert.Equal(t, 7, store.booked(g.ID))

	list, err := svc.ListTourists(ctx, g.ID)
	require.NoError(t, err)
	sum := 0
	for _, tr := range list {
		sum += tr.Seats()
	}
	assert.Equal(t, store.booked(g.ID), sum)
}

func TestAddTourist_Preconditions(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	g := newGroup(t, svc, 5)

	tests := []struct {
		name    string
		tourist models.Tourist
		err     error
		msg     string
	}{
		{"missing name", models.Tourist{Name: " ", Tickets: adults(1)}, utils.ErrValidation, "name is required"},
		{"no tickets", models.Tourist{Name: "Ann"}, utils.ErrValidation, "at least one ticket"},
		{"zero count", models.Tourist{Name: "Ann", Tickets: adults(0)}, utils.ErrValidation, "count must be at least 1"},
		{"unknown type", models.Tourist{Name: "Ann", Tickets: []models.TicketLine{{Type: "additional", Count: 1}}}, utils.ErrValidation, `"additional"`},
		{"count above limit", models.Tourist{Name: "Ann", Tickets: adults(models.MaxTicketCount + 1)}, utils.ErrValidation, "count must be at most"},
		{"over capacity", models.Tourist{Name: "Ann", Tickets: adults(6)}, utils.ErrCapacity, "6 seats requested, 5 free"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddTourist(ctx, g.ID, tt.tourist)
			require.ErrorIs(t, err, tt.err)
			assert.Contains(t, err.Error(), tt.msg)
			assert.Equal(t, 0, store.booked(g.ID))
			assert.Empty(t, store.tourists)
		})
	}

	_, err := svc.AddTourist(ctx, "missing", models.Tourist{Name: "Ann", Tickets: adults(1)})
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestAddTourist_HugeCountsCannotWrapSeats(t *testing.T) {
	svc, store := newTestService()
	g := newGroup(t, svc, 10)

	half := math.MaxInt/2 + 1
	_, err := svc.AddTourist(context.Background(), g.ID, models.Tourist{
		Name:    "Ann",
		Tickets: []models.TicketLine{{Type: models.TicketAdult, Count: half}, {Type: models.TicketAdult, Count: half}},
	})
	require.ErrorIs(t, err, utils.ErrValidation)
	assert.Equal(t, 0, store.booked(g.ID))
	assert.Empty(t, store.tourists)
}

func TestAddTourist_GroupWithoutProductRejectsTickets(t *testing.T) {
	svc, _ := newTestService()
	g, err := svc.Create(context.Background(), models.Group{ExcursionID: "boat", TotalSeats: 10})
	require.NoError(t, err)

	_, err = svc.AddTourist(context.Background(), g.ID, models.Tourist{Name: "Ann", Tickets: adults(1)})
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestAddTourist_ReleasesSeatsWhenInsertFails(t *testing.T) {
	svc, store := newTestService()
	g := newGroup(t, svc, 5)
	store.createErr = errors.New("disk full")

	_, err := svc.AddTourist(context.Background(), g.ID, models.Tourist{Name: "Ann", Tickets: adults(3)})
	require.Error(t, err)
	assert.Equal(t, 0, store.booked(g.ID))
}

func TestRemoveTourist_Unknown(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	g := newGroup(t, svc, 5)
	other := newGroup(t, svc, 5)

	tr, err := svc.AddTourist(ctx, g.ID, models.Tourist{Name: "Ann", Tickets: adults(2)})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.RemoveTourist(ctx, g.ID, "ghost"), utils.ErrNotFound)
	assert.ErrorIs(t, svc.RemoveTourist(ctx, other.ID, tr.ID), utils.ErrNotFound)
	assert.ErrorIs(t, svc.RemoveTourist(ctx, g.ID, ""), utils.ErrValidation)
	assert.Equal(t, 2, store.booked(g.ID))
}

func TestConcurrentAddsNeverOverbook(t *testing.T) {
	svc, store := newTestService()
	g := newGroup(t, svc, 10)

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.AddTourist(context.Background(), g.ID, models.Tourist{Name: "T", Tickets: adults(1)}); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, accepted)
	assert.Equal(t, 10, store.booked(g.ID))
	assert.Len(t, store.tourists, 10)
}

func TestUpdate_CannotShrinkBelowBooked(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	g := newGroup(t, svc, 10)
	_, err := svc.AddTourist(ctx, g.ID, models.Tourist{Name: "Ann", Tickets: adults(6)})
	require.NoError(t, err)

	_, err = svc.Update(ctx, g.ID, models.Group{ExcursionID: "walk", TotalSeats: 5})
	assert.ErrorIs(t, err, utils.ErrCapacity)

	updated, err := svc.Update(ctx, g.ID, models.Group{ExcursionID: "walk", TotalSeats: 6, BookedSeats: 0, Status: models.GroupCompleted})
	require.NoError(t, err)
	assert.Equal(t, 6, updated.BookedSeats)
	assert.Equal(t, models.GroupCompleted, updated.Status)
	assert.Equal(t, 6, store.booked(g.ID))
}

func TestCreate_Validation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	g, err := svc.Create(ctx, models.Group{TotalSeats: 3, BookedSeats: 3})
	require.NoError(t, err)
	assert.Equal(t, 0, g.BookedSeats)
	assert.Equal(t, models.GroupActive, g.Status)

	bad := []models.Group{
		{TotalSeats: -1},
		{Status: "paused"},
		{Date: "01.06.2026"},
		{Time: "9am"},
		{ExcursionID: "nowhere"},
	}
	for _, in := range bad {
		_, err := svc.Create(ctx, in)
		assert.ErrorIs(t, err, utils.ErrValidation)
	}
}

func TestAssignAndDelete(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	g, err := svc.Create(ctx, models.Group{TotalSeats: 4})
	require.NoError(t, err)

	_, err = svc.Assign(ctx, g.ID, "nowhere", "10:00")
	assert.ErrorIs(t, err, utils.ErrValidation)
	_, err = svc.Assign(ctx, g.ID, "walk", "25:00")
	assert.ErrorIs(t, err, utils.ErrValidation)

	assigned, err := svc.Assign(ctx, g.ID, "walk", "09:30")
	require.NoError(t, err)
	assert.Equal(t, "walk", assigned.ExcursionID)
	assert.Equal(t, "09:30", assigned.Time)

	_, err = svc.AddTourist(ctx, g.ID, models.Tourist{Name: "Ann", Tickets: adults(2)})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, g.ID))
	assert.Empty(t, store.groups)
	assert.Empty(t, store.tourists)
}

func TestHandlers(t *testing.T) {
	svc, _ := newTestService()
	g := newGroup(t, svc, 2)
	h := NewHandler(svc)

	router := httprouter.New()
	router.POST("/api/groups/:id/tourists", h.AddTourist)
	router.DELETE("/api/groups/:id/tourists", h.RemoveTourist)
	router.GET("/api/groups/:id/manifest.pdf", h.Manifest)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
		return rec
	}

	rec := do(http.MethodPost, "/api/groups/"+g.ID+"/tourists", `{"name":"Анна","phone":"+7","tickets":[{"type":"adult","count":2}]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(http.MethodPost, "/api/groups/"+g.ID+"/tourists", `{"name":"Bob","tickets":[{"type":"adult","count":1}]}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(http.MethodPost, "/api/groups/"+g.ID+"/tourists", `{"name":"Bob","tickets":[{"type":"senior","count":1}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "senior")

	rec = do(http.MethodDelete, "/api/groups/"+g.ID+"/tourists?touristId=ghost", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(http.MethodGet, "/api/groups/"+g.ID+"/manifest.pdf", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	rec = do(http.MethodGet, "/api/groups/missing/manifest.pdf", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRenderManifest(t *testing.T) {
	g := models.Group{
		ID: "g1", Date: "2026-06-01", Time: "10:00", TotalSeats: 10, BookedSeats: 3,
		Guide:     &models.Guide{Name: "Olga", Phone: "+7 900"},
		Transport: []models.Transport{{Type: "bus", Number: "A123"}},
		CreatedAt: time.Now(),
	}
	pdf, err := renderManifest(g, []models.Tourist{{Name: "Ann", Tickets: adults(3)}, {Name: "Иван Петров", Tickets: adults(1)}}, nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
	assert.Equal(t, "group:g1", CheckInPayload("g1"))
}

func TestManifestFont_FallbackTransliteratesCyrillic(t *testing.T) {
	family, tr := manifestFont(gofpdf.New("P", "mm", "A4", ""), nil)

	assert.Equal(t, "Arial", family)
	assert.Equal(t, "Ivan Petrov", tr("Иван Петров"))
	assert.Equal(t, "Zhanna Shchukina", tr("Жанна Щукина"))
	assert.Equal(t, "Anna 2x", tr("Anna 2x"))
}
