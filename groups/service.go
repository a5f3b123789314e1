// Package groups schedules departures and keeps their seat count in step
// with the tourists booked onto them.
package groups

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"tourdesk/models"
	"tourdesk/utils"
)

// TicketCatalog yields the tickets sold for an excursion.
type TicketCatalog interface {
	TicketCatalog(ctx context.Context, excursionID string) ([]models.Ticket, error)
}

type Excursions interface {
	Exists(ctx context.Context, id string) (bool, error)
}

var statuses = []string{models.GroupActive, models.GroupCompleted, models.GroupCancelled}

type Service struct {
	store      Store
	tickets    TicketCatalog
	excursions Excursions
	now        func() time.Time

	manifestFont []byte
}

func NewService(store Store, tickets TicketCatalog, excursions Excursions) *Service {
	return &Service{
		store:      store,
		tickets:    tickets,
		excursions: excursions,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) List(ctx context.Context, f Filter) ([]models.Group, error) {
	if f.Date != "" && !utils.ValidDate(f.Date) {
		return nil, utils.Validation("date must be YYYY-MM-DD")
	}
	if f.Status != "" && !slices.Contains(statuses, f.Status) {
		return nil, utils.Validation("unknown status %q", f.Status)
	}
	return s.store.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, id string) (models.Group, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) checkExcursion(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	ok, err := s.excursions.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return utils.Validation("excursion %s does not exist", id)
	}
	return nil
}

func (s *Service) normalize(ctx context.Context, g *models.Group) error {
	g.ExcursionID = strings.TrimSpace(g.ExcursionID)
	if g.TotalSeats < 0 {
		return utils.Validation("totalSeats must not be negative")
	}
	if g.Status == "" {
		g.Status = models.GroupActive
	}
	if !slices.Contains(statuses, g.Status) {
		return utils.Validation("unknown status %q", g.Status)
	}
	if g.Date != "" && !utils.ValidDate(g.Date) {
		return utils.Validation("date must be YYYY-MM-DD")
	}
	if g.Time != "" && !utils.ValidClock(g.Time) {
		return utils.Validation("time must be HH:MM")
	}
	return s.checkExcursion(ctx, g.ExcursionID)
}

// Create stores a new group. bookedSeats always starts at zero.
func (s *Service) Create(ctx context.Context, in models.Group) (models.Group, error) {
	if err := s.normalize(ctx, &in); err != nil {
		return models.Group{}, err
	}
	now := s.now()
	in.ID = utils.GetUUID()
	in.BookedSeats = 0
	in.CreatedAt, in.UpdatedAt = now, now
	if err := s.store.Create(ctx, in); err != nil {
		return models.Group{}, err
	}
	return in, nil
}

// Update replaces the editable fields. bookedSeats in the input is ignored.
func (s *Service) Update(ctx context.Context, id string, in models.Group) (models.Group, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return models.Group{}, err
	}
	if err := s.normalize(ctx, &in); err != nil {
		return models.Group{}, err
	}
	if in.TotalSeats < current.BookedSeats {
		return models.Group{}, utils.Capacity("totalSeats %d is below the %d seats already booked", in.TotalSeats, current.BookedSeats)
	}
	in.ID = current.ID
	in.CreatedAt = current.CreatedAt
	in.UpdatedAt = s.now()
	if err := s.store.Update(ctx, in); err != nil {
		return models.Group{}, err
	}
	return s.store.Get(ctx, id)
}

// Delete removes the group and every tourist in it.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteTouristsByGroup(ctx, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// Assign attaches the group to an excursion departure time.
func (s *Service) Assign(ctx context.Context, id, excursionID, clock string) (models.Group, error) {
	excursionID = strings.TrimSpace(excursionID)
	if excursionID == "" {
		return models.Group{}, utils.Validation("excursionId is required")
	}
	if !utils.ValidClock(clock) {
		return models.Group{}, utils.Validation("time must be HH:MM")
	}
	g, err := s.store.Get(ctx, id)
	if err != nil {
		return models.Group{}, err
	}
	if err := s.checkExcursion(ctx, excursionID); err != nil {
		return models.Group{}, err
	}
	g.ExcursionID = excursionID
	g.Time = clock
	g.UpdatedAt = s.now()
	if err := s.store.Update(ctx, g); err != nil {
		return models.Group{}, err
	}
	return s.store.Get(ctx, id)
}

func (s *Service) ListTourists(ctx context.Context, groupID string) ([]models.Tourist, error) {
	if _, err := s.store.Get(ctx, groupID); err != nil {
		return nil, err
	}
	return s.store.ListTourists(ctx, groupID)
}

// AddTourist books a tourist onto a group. The checks run in order: name,
// ticket lines, ticket types against the excursion's catalog, then free
// seats. Seats are reserved with a guarded increment so concurrent adds
// cannot overbook.
func (s *Service) AddTourist(ctx context.Context, groupID string, in models.Tourist) (models.Tourist, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return models.Tourist{}, utils.Validation("name is required")
	}
	if len(in.Tickets) == 0 {
		return models.Tourist{}, utils.Validation("at least one ticket is required")
	}
	for _, t := range in.Tickets {
		if t.Count < 1 {
			return models.Tourist{}, utils.Validation("ticket %q: count must be at least 1", t.Type)
		}
		if t.Count > models.MaxTicketCount {
			return models.Tourist{}, utils.Validation("ticket %q: count must be at most %d", t.Type, models.MaxTicketCount)
		}
	}

	g, err := s.store.Get(ctx, groupID)
	if err != nil {
		return models.Tourist{}, err
	}

	catalog, err := s.tickets.TicketCatalog(ctx, g.ExcursionID)
	if err != nil {
		return models.Tourist{}, err
	}
	for _, t := range in.Tickets {
		if !slices.ContainsFunc(catalog, func(c models.Ticket) bool { return c.Type == t.Type }) {
			return models.Tourist{}, utils.Validation("ticket type %q is not sold for this excursion", t.Type)
		}
	}

	seats := in.Seats()
	if seats < 1 || seats > g.FreeSeats() {
		return models.Tourist{}, utils.Capacity("%d seats requested, %d free", seats, g.FreeSeats())
	}
	ok, err := s.store.ReserveSeats(ctx, groupID, seats)
	if err != nil {
		return models.Tourist{}, err
	}
	if !ok {
		return models.Tourist{}, utils.Capacity("%d seats requested, not enough free", seats)
	}

	in.ID = utils.GetUUID()
	in.GroupID = groupID
	in.CreatedAt = s.now()
	if err := s.store.CreateTourist(ctx, in); err != nil {
		if rerr := s.store.ReleaseSeats(ctx, groupID, seats); rerr != nil {
			slog.ErrorContext(ctx, "release reserved seats", "group_id", groupID, "seats", seats, "error", rerr)
		}
		return models.Tourist{}, fmt.Errorf("save tourist: %w", err)
	}
	return in, nil
}

// RemoveTourist deletes a tourist of the group and frees their seats.
func (s *Service) RemoveTourist(ctx context.Context, groupID, touristID string) error {
	if strings.TrimSpace(touristID) == "" {
		return utils.Validation("touristId is required")
	}
	t, err := s.store.GetTourist(ctx, groupID, touristID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteTourist(ctx, groupID, touristID); err != nil {
		return err
	}
	return s.store.ReleaseSeats(ctx, groupID, t.Seats())
}
