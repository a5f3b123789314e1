// Package excursions owns the excursion cards and the public catalog built
// from them.
package excursions

import (
	"context"
	"errors"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"tourdesk/models"
	"tourdesk/rdx"
	"tourdesk/utils"
)

// CachePrefix namespaces every cached catalog response.
const CachePrefix = "catalog:"

// Taxonomy resolves the tags and filter items a card may reference.
type Taxonomy interface {
	FirstUnknownTag(ctx context.Context, ids []string) (string, error)
	FirstUnknownFilterItem(ctx context.Context, ids []string) (string, error)
	TagBySlug(ctx context.Context, slug string) (models.Tag, error)
}

// Products is the part of the product service the catalog needs.
type Products interface {
	PublishedProductFor(ctx context.Context, excursionID string) (*models.ExcursionProduct, error)
	UnlinkExcursion(ctx context.Context, excursionID string) error
}

type Service struct {
	store    Store
	taxonomy Taxonomy
	products Products
	cache    rdx.Cache
	cacheTTL time.Duration
	now      func() time.Time
}

func NewService(store Store, taxonomy Taxonomy, cache rdx.Cache, cacheTTL time.Duration) *Service {
	if cache == nil {
		cache = rdx.NopCache{}
	}
	return &Service{
		store:    store,
		taxonomy: taxonomy,
		cache:    cache,
		cacheTTL: cacheTTL,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SetProducts wires the product service, which itself depends on this one.
func (s *Service) SetProducts(p Products) {
	s.products = p
}

type ListResult struct {
	Items []models.ExcursionCard `json:"items"`
	Total int64                  `json:"total"`
	Page  int                    `json:"page"`
	Limit int                    `json:"limit"`
}

// CatalogEntry is a published card with the published product linked to it.
type CatalogEntry struct {
	Excursion models.ExcursionCard     `json:"excursion"`
	Product   *models.ExcursionProduct `json:"product"`
}

func (s *Service) List(ctx context.Context, f Filter) (ListResult, error) {
	cards, total, err := s.store.List(ctx, f)
	if err != nil {
		return ListResult{}, err
	}
	return ListResult{Items: cards, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

func (s *Service) Get(ctx context.Context, id string) (models.ExcursionCard, error) {
	return s.store.Get(ctx, id)
}

// Exists reports whether an excursion card with id is stored.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.store.Get(ctx, id)
	if errors.Is(err, utils.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *Service) normalize(ctx context.Context, c *models.ExcursionCard) error {
	c.Title = strings.TrimSpace(c.Title)
	if c.Title == "" {
		return utils.Validation("title is required")
	}
	slug := utils.Slugify(c.Slug)
	if slug == "" {
		slug = utils.Slugify(c.Title)
	}
	if slug == "" {
		return utils.Validation("slug is empty after normalisation")
	}
	c.Slug = slug

	for i, rv := range c.Reviews {
		if rv.Rating < 1 || rv.Rating > 5 {
			return utils.Validation("review %d: rating must be between 1 and 5", i+1)
		}
	}
	if c.Duration.Hours < 0 {
		return utils.Validation("duration hours must not be negative")
	}
	if c.Duration.Minutes < 0 || c.Duration.Minutes > 59 {
		return utils.Validation("duration minutes must be between 0 and 59")
	}

	c.Tags = utils.Dedupe(c.Tags)
	c.FilterItems = utils.Dedupe(c.FilterItems)
	c.Images = utils.Dedupe(c.Images)
	if c.Attractions == nil {
		c.Attractions = []string{}
	}
	if c.Reviews == nil {
		c.Reviews = []models.Review{}
	}

	if s.taxonomy == nil {
		return nil
	}
	missing, err := s.taxonomy.FirstUnknownTag(ctx, c.Tags)
	if err != nil {
		return err
	}
	if missing != "" {
		return utils.Validation("unknown tag %s", missing)
	}
	missing, err = s.taxonomy.FirstUnknownFilterItem(ctx, c.FilterItems)
	if err != nil {
		return err
	}
	if missing != "" {
		return utils.Validation("unknown filter item %s", missing)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, in models.ExcursionCard) (models.ExcursionCard, error) {
	if err := s.normalize(ctx, &in); err != nil {
		return models.ExcursionCard{}, err
	}
	now := s.now()
	in.ID = utils.GetUUID()
	in.ProductID = ""
	in.CreatedAt, in.UpdatedAt = now, now
	if err := s.store.Create(ctx, in); err != nil {
		return models.ExcursionCard{}, err
	}
	s.InvalidateCatalog(ctx)
	return in, nil
}

// Update replaces the editable fields of a card. productId is owned by the
// product side and survives updates unchanged.
func (s *Service) Update(ctx context.Context, id string, in models.ExcursionCard) (models.ExcursionCard, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return models.ExcursionCard{}, err
	}
	if err := s.normalize(ctx, &in); err != nil {
		return models.ExcursionCard{}, err
	}
	in.ID = current.ID
	in.ProductID = current.ProductID
	in.CreatedAt = current.CreatedAt
	in.UpdatedAt = s.now()
	if err := s.store.Update(ctx, in); err != nil {
		return models.ExcursionCard{}, err
	}
	s.InvalidateCatalog(ctx)
	return in, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	if s.products != nil {
		if err := s.products.UnlinkExcursion(ctx, id); err != nil {
			return err
		}
	}
	s.InvalidateCatalog(ctx)
	return nil
}

// LinkProduct records productID on the card as its derived product link.
func (s *Service) LinkProduct(ctx context.Context, excursionID, productID string) error {
	if err := s.store.SetProductID(ctx, excursionID, productID); err != nil {
		return err
	}
	s.InvalidateCatalog(ctx)
	return nil
}

func (s *Service) UnlinkProduct(ctx context.Context, excursionID, productID string) error {
	if err := s.store.ClearProductID(ctx, excursionID, productID); err != nil {
		return err
	}
	s.InvalidateCatalog(ctx)
	return nil
}

func (s *Service) PullTag(ctx context.Context, tagID string) error {
	if err := s.store.PullTag(ctx, tagID); err != nil {
		return err
	}
	s.InvalidateCatalog(ctx)
	return nil
}

func (s *Service) PullFilterItems(ctx context.Context, itemIDs []string) error {
	if err := s.store.PullFilterItems(ctx, itemIDs); err != nil {
		return err
	}
	s.InvalidateCatalog(ctx)
	return nil
}

func (s *Service) InvalidateCatalog(ctx context.Context) {
	rdx.Invalidate(ctx, s.cache, CachePrefix)
}

// CatalogQuery is the public listing request.
type CatalogQuery struct {
	TagSlug     string
	FilterItems []string
	Search      string
	Page        int
	Limit       int
}

func (q CatalogQuery) cacheKey() string {
	items := slices.Clone(q.FilterItems)
	slices.Sort(items)
	v := url.Values{}
	v.Set("tag", q.TagSlug)
	v["filter"] = items
	v.Set("search", strings.ToLower(q.Search))
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("limit", strconv.Itoa(q.Limit))
	return CachePrefix + "list:" + v.Encode()
}

// Catalog lists published cards. An unknown tag slug yields an empty page.
func (s *Service) Catalog(ctx context.Context, q CatalogQuery) (ListResult, error) {
	key := q.cacheKey()
	var cached ListResult
	if rdx.GetJSON(ctx, s.cache, key, &cached) {
		return cached, nil
	}

	published := true
	f := Filter{
		Published:   &published,
		FilterItems: utils.Dedupe(q.FilterItems),
		Search:      q.Search,
		Page:        q.Page,
		Limit:       q.Limit,
	}
	if q.TagSlug != "" {
		tag, err := s.taxonomy.TagBySlug(ctx, q.TagSlug)
		if errors.Is(err, utils.ErrNotFound) {
			return ListResult{Items: []models.ExcursionCard{}, Page: q.Page, Limit: q.Limit}, nil
		}
		if err != nil {
			return ListResult{}, err
		}
		f.TagID = tag.ID
	}

	res, err := s.List(ctx, f)
	if err != nil {
		return ListResult{}, err
	}
	rdx.SetJSON(ctx, s.cache, key, res, s.cacheTTL)
	return res, nil
}

// CatalogBySlug returns a published card with its published product.
func (s *Service) CatalogBySlug(ctx context.Context, slug string) (CatalogEntry, error) {
	key := CachePrefix + "slug:" + slug
	var entry CatalogEntry
	if rdx.GetJSON(ctx, s.cache, key, &entry) {
		return entry, nil
	}

	card, err := s.store.GetBySlug(ctx, slug)
	if err != nil {
		return CatalogEntry{}, err
	}
	if !card.Published {
		return CatalogEntry{}, utils.NotFound("excursion")
	}
	entry.Excursion = card
	if s.products != nil {
		entry.Product, err = s.products.PublishedProductFor(ctx, card.ID)
		if err != nil {
			return CatalogEntry{}, err
		}
	}
	rdx.SetJSON(ctx, s.cache, key, entry, s.cacheTTL)
	return entry, nil
}
