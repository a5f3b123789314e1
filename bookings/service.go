// Package bookings captures leads from the public booking form and lets the
// office move them through their status labels.
package bookings

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode"

	"tourdesk/models"
	"tourdesk/notify"
	"tourdesk/utils"
)

// Event types published to the live feed.
const (
	EventCreated = "booking.created"
	EventUpdated = "booking.updated"
)

const notifyTimeout = 30 * time.Second

// StatusAll lists bookings regardless of status.
const StatusAll = "all"

type Excursions interface {
	Get(ctx context.Context, id string) (models.ExcursionCard, error)
}

type Events interface {
	Emit(ctx context.Context, event models.BookingEvent)
}

type Service struct {
	store      Store
	excursions Excursions
	notifier   notify.Notifier
	events     Events
	wg         sync.WaitGroup
	now        func() time.Time
}

func NewService(store Store, excursions Excursions, notifier notify.Notifier, events Events) *Service {
	if notifier == nil {
		notifier = notify.LogNotifier{}
	}
	return &Service{
		store:      store,
		excursions: excursions,
		notifier:   notifier,
		events:     events,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Wait blocks until every notification started so far has finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) List(ctx context.Context, status string) ([]models.Booking, error) {
	if status == StatusAll {
		status = ""
	}
	if status != "" && !slices.Contains(models.BookingStatuses, status) {
		return nil, utils.Validation("unknown status %q", status)
	}
	return s.store.List(ctx, status)
}

func (s *Service) Get(ctx context.Context, id string) (models.Booking, error) {
	return s.store.Get(ctx, id)
}

func normalize(b *models.Booking) error {
	b.FullName = strings.TrimSpace(b.FullName)
	b.Phone = strings.TrimSpace(b.Phone)
	b.Email = strings.TrimSpace(b.Email)
	b.ExcursionID = strings.TrimSpace(b.ExcursionID)
	if b.FullName == "" {
		return utils.Validation("fullName is required")
	}
	if b.Phone == "" {
		return utils.Validation("phone is required")
	}
	if hasControl(b.FullName) || hasControl(b.Phone) || hasControl(b.Email) {
		return utils.Validation("fullName, phone and email must not contain control characters")
	}
	if b.Email != "" {
		if _, err := mail.ParseAddress(b.Email); err != nil {
			return utils.Validation("email is not valid")
		}
	}
	if b.PaymentType != "" && !slices.Contains([]string{models.PaymentFull, models.PaymentPrepayment, models.PaymentOnsite}, b.PaymentType) {
		return utils.Validation("unknown paymentType %q", b.PaymentType)
	}
	if b.Date != "" && !utils.ValidDate(b.Date) {
		return utils.Validation("date must be YYYY-MM-DD")
	}
	if b.Time != "" && !utils.ValidClock(b.Time) {
		return utils.Validation("time must be HH:MM")
	}
	if b.TicketCount < 0 || b.TicketCount > models.MaxTicketCount {
		return utils.Validation("ticketCount must be between 0 and %d", models.MaxTicketCount)
	}
	for _, t := range b.Tickets {
		if strings.TrimSpace(t.Type) == "" {
			return utils.Validation("every ticket needs a type")
		}
		if t.Count < 1 || t.Count > models.MaxTicketCount {
			return utils.Validation("ticket %q: count must be between 1 and %d", t.Type, models.MaxTicketCount)
		}
	}

	// Older forms send a single ticketType/ticketCount pair.
	if len(b.Tickets) == 0 && b.TicketType != "" {
		b.Tickets = []models.TicketLine{{Type: b.TicketType, Count: max(b.TicketCount, 1)}}
	}
	return nil
}

func hasControl(s string) bool {
	return strings.ContainsFunc(s, unicode.IsControl)
}

// Create stores a new lead with status new, then notifies the office in the
// background. Notification failures are logged and never fail the booking.
func (s *Service) Create(ctx context.Context, in models.Booking) (models.Booking, error) {
	if err := normalize(&in); err != nil {
		return models.Booking{}, err
	}

	var excursionTitle string
	if in.ExcursionID != "" {
		card, err := s.excursions.Get(ctx, in.ExcursionID)
		if errors.Is(err, utils.ErrNotFound) {
			return models.Booking{}, utils.Validation("excursion %s does not exist", in.ExcursionID)
		}
		if err != nil {
			return models.Booking{}, err
		}
		excursionTitle = card.Title
	}

	now := s.now()
	in.ID = utils.GetUUID()
	in.Status = models.BookingNew
	in.CreatedAt, in.UpdatedAt = now, now
	if err := s.store.Create(ctx, in); err != nil {
		return models.Booking{}, err
	}

	s.emit(ctx, EventCreated, in)
	s.notify(in, excursionTitle)
	return in, nil
}

func (s *Service) notify(b models.Booking, excursionTitle string) {
	subject, body := notify.BookingMessage(b, excursionTitle)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.notifier.Notify(ctx, subject, body); err != nil {
			slog.Warn("booking notification failed", "booking_id", b.ID, "error", err)
		}
	}()
}

func (s *Service) emit(ctx context.Context, typ string, b models.Booking) {
	if s.events == nil {
		return
	}
	s.events.Emit(ctx, models.BookingEvent{Type: typ, Booking: b})
}

// SetStatus moves a booking to any known status.
func (s *Service) SetStatus(ctx context.Context, id, status string) (models.Booking, error) {
	if !slices.Contains(models.BookingStatuses, status) {
		return models.Booking{}, utils.Validation("unknown status %q", status)
	}
	b, err := s.store.SetStatus(ctx, id, status, s.now())
	if err != nil {
		return models.Booking{}, err
	}
	s.emit(ctx, EventUpdated, b)
	return b, nil
}

// Delete is a soft delete: the booking stays stored with status deleted.
func (s *Service) Delete(ctx context.Context, id string) (models.Booking, error) {
	return s.SetStatus(ctx, id, models.BookingDeleted)
}
