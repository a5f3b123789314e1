// Package products manages the sellable side of an excursion: tickets,
// schedule, payment options and meeting points.
package products

import (
	"context"
	"strings"
	"time"

	"tourdesk/models"
	"tourdesk/utils"
)

// Excursions is what products need from the excursion cards.
type Excursions interface {
	Exists(ctx context.Context, id string) (bool, error)
	LinkProduct(ctx context.Context, excursionID, productID string) error
	UnlinkProduct(ctx context.Context, excursionID, productID string) error
	InvalidateCatalog(ctx context.Context)
}

type Service struct {
	store      Store
	excursions Excursions
	now        func() time.Time
}

func NewService(store Store, excursions Excursions) *Service {
	return &Service{store: store, excursions: excursions, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Service) List(ctx context.Context, excursionID string, published *bool) ([]models.ExcursionProduct, error) {
	return s.store.List(ctx, excursionID, published)
}

func (s *Service) Get(ctx context.Context, id string) (models.ExcursionProduct, error) {
	return s.store.Get(ctx, id)
}

// getPublic hides unpublished products from public endpoints.
func (s *Service) getPublic(ctx context.Context, id string) (models.ExcursionProduct, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return p, err
	}
	if !p.Published {
		return models.ExcursionProduct{}, utils.NotFound("product")
	}
	return p, nil
}

// checkLink verifies the excursion exists and is not sold by another product.
func (s *Service) checkLink(ctx context.Context, excursionID, productID string) error {
	if excursionID == "" {
		return nil
	}
	ok, err := s.excursions.Exists(ctx, excursionID)
	if err != nil {
		return err
	}
	if !ok {
		return utils.Validation("excursion %s does not exist", excursionID)
	}
	other, err := s.store.FindByExcursion(ctx, excursionID)
	if err != nil {
		return err
	}
	if other != nil && other.ID != productID {
		return utils.Conflict("excursion %s is already linked to product %s", excursionID, other.ID)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, in models.ExcursionProduct) (models.ExcursionProduct, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.ExcursionID = strings.TrimSpace(in.ExcursionID)
	if err := normalize(&in); err != nil {
		return models.ExcursionProduct{}, err
	}
	in.ID = utils.GetUUID()
	if err := s.checkLink(ctx, in.ExcursionID, in.ID); err != nil {
		return models.ExcursionProduct{}, err
	}

	now := s.now()
	in.CreatedAt, in.UpdatedAt = now, now
	if err := s.store.Create(ctx, in); err != nil {
		return models.ExcursionProduct{}, err
	}
	if in.ExcursionID != "" {
		if err := s.excursions.LinkProduct(ctx, in.ExcursionID, in.ID); err != nil {
			return models.ExcursionProduct{}, err
		}
	}
	s.excursions.InvalidateCatalog(ctx)
	return in, nil
}

// Update replaces the product and moves the card link when excursionId
// changes.
func (s *Service) Update(ctx context.Context, id string, in models.ExcursionProduct) (models.ExcursionProduct, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return models.ExcursionProduct{}, err
	}
	in.Title = strings.TrimSpace(in.Title)
	in.ExcursionID = strings.TrimSpace(in.ExcursionID)
	if err := normalize(&in); err != nil {
		return models.ExcursionProduct{}, err
	}
	if err := s.checkLink(ctx, in.ExcursionID, id); err != nil {
		return models.ExcursionProduct{}, err
	}

	in.ID = current.ID
	in.CreatedAt = current.CreatedAt
	in.UpdatedAt = s.now()
	if err := s.store.Update(ctx, in); err != nil {
		return models.ExcursionProduct{}, err
	}

	if current.ExcursionID != "" && current.ExcursionID != in.ExcursionID {
		if err := s.excursions.UnlinkProduct(ctx, current.ExcursionID, id); err != nil {
			return models.ExcursionProduct{}, err
		}
	}
	if in.ExcursionID != "" {
		if err := s.excursions.LinkProduct(ctx, in.ExcursionID, id); err != nil {
			return models.ExcursionProduct{}, err
		}
	}
	s.excursions.InvalidateCatalog(ctx)
	return in, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	if current.ExcursionID != "" {
		if err := s.excursions.UnlinkProduct(ctx, current.ExcursionID, id); err != nil {
			return err
		}
	}
	s.excursions.InvalidateCatalog(ctx)
	return nil
}

// PublishedProductFor returns the published product selling an excursion, or
// nil.
func (s *Service) PublishedProductFor(ctx context.Context, excursionID string) (*models.ExcursionProduct, error) {
	p, err := s.store.FindByExcursion(ctx, excursionID)
	if err != nil || p == nil || !p.Published {
		return nil, err
	}
	return p, nil
}

// UnlinkExcursion drops the reference of every product to a deleted
// excursion.
func (s *Service) UnlinkExcursion(ctx context.Context, excursionID string) error {
	return s.store.ClearExcursion(ctx, excursionID)
}

// TicketCatalog lists the tickets of the product linked to an excursion. An
// excursion without a product has an empty catalog.
func (s *Service) TicketCatalog(ctx context.Context, excursionID string) ([]models.Ticket, error) {
	if excursionID == "" {
		return nil, nil
	}
	p, err := s.store.FindByExcursion(ctx, excursionID)
	if err != nil || p == nil {
		return nil, err
	}
	return p.Tickets, nil
}
