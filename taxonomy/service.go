// Package taxonomy manages tags and the filter groups and items the public
// catalog is faceted by.
package taxonomy

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"tourdesk/models"
	"tourdesk/utils"
)

// ReferenceCleaner removes deleted taxonomy ids from the excursion cards
// that still point at them.
type ReferenceCleaner interface {
	PullTag(ctx context.Context, tagID string) error
	PullFilterItems(ctx context.Context, itemIDs []string) error
}

type Service struct {
	store Store
	refs  ReferenceCleaner
	now   func() time.Time
}

func NewService(store Store, refs ReferenceCleaner) *Service {
	return &Service{store: store, refs: refs, now: func() time.Time { return time.Now().UTC() }}
}

// SetReferenceCleaner wires the excursion side after both services exist.
func (s *Service) SetReferenceCleaner(refs ReferenceCleaner) {
	s.refs = refs
}

// nameAndSlug trims the name and resolves the slug: an explicit slug is
// normalised, otherwise it is derived from the name.
func nameAndSlug(name, slug string) (string, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", utils.Validation("name is required")
	}
	s := utils.Slugify(slug)
	if s == "" {
		s = utils.Slugify(name)
	}
	if s == "" {
		return "", "", utils.Validation("slug is empty after normalisation")
	}
	return name, s, nil
}

// Tags

func (s *Service) ListTags(ctx context.Context, activeOnly bool) ([]models.Tag, error) {
	return s.store.ListTags(ctx, activeOnly)
}

func (s *Service) GetTag(ctx context.Context, id string) (models.Tag, error) {
	return s.store.GetTag(ctx, id)
}

func (s *Service) TagBySlug(ctx context.Context, slug string) (models.Tag, error) {
	return s.store.GetTagBySlug(ctx, slug)
}

func (s *Service) CreateTag(ctx context.Context, in models.Tag) (models.Tag, error) {
	name, slug, err := nameAndSlug(in.Name, in.Slug)
	if err != nil {
		return models.Tag{}, err
	}
	now := s.now()
	in.ID = utils.GetUUID()
	in.Name, in.Slug = name, slug
	in.CreatedAt, in.UpdatedAt = now, now
	if err := s.store.CreateTag(ctx, in); err != nil {
		return models.Tag{}, err
	}
	return in, nil
}

func (s *Service) UpdateTag(ctx context.Context, id string, in models.Tag) (models.Tag, error) {
	current, err := s.store.GetTag(ctx, id)
	if err != nil {
		return models.Tag{}, err
	}
	name, slug, err := nameAndSlug(in.Name, in.Slug)
	if err != nil {
		return models.Tag{}, err
	}
	in.ID, in.CreatedAt = current.ID, current.CreatedAt
	in.Name, in.Slug = name, slug
	in.UpdatedAt = s.now()
	if err := s.store.UpdateTag(ctx, in); err != nil {
		return models.Tag{}, err
	}
	return in, nil
}

func (s *Service) DeleteTag(ctx context.Context, id string) error {
	if _, err := s.store.GetTag(ctx, id); err != nil {
		return err
	}
	if s.refs != nil {
		if err := s.refs.PullTag(ctx, id); err != nil {
			return err
		}
	}
	return s.store.DeleteTag(ctx, id)
}

// Filter groups

func (s *Service) ListFilterGroups(ctx context.Context, visibleOnly, withItems bool) ([]models.FilterGroup, error) {
	groups, err := s.store.ListFilterGroups(ctx, visibleOnly)
	if err != nil || !withItems {
		return groups, err
	}

	items, err := s.store.ListFilterItems(ctx, "", visibleOnly)
	if err != nil {
		return nil, err
	}
	byGroup := make(map[string][]models.FilterItem)
	for _, it := range items {
		byGroup[it.GroupID] = append(byGroup[it.GroupID], it)
	}
	for i := range groups {
		groups[i].Items = byGroup[groups[i].ID]
		if groups[i].Items == nil {
			groups[i].Items = []models.FilterItem{}
		}
	}
	return groups, nil
}

func (s *Service) GetFilterGroup(ctx context.Context, id string) (models.FilterGroup, error) {
	g, err := s.store.GetFilterGroup(ctx, id)
	if err != nil {
		return g, err
	}
	g.Items, err = s.store.ListFilterItems(ctx, id, false)
	return g, err
}

func (s *Service) CreateFilterGroup(ctx context.Context, in models.FilterGroup) (models.FilterGroup, error) {
	name, slug, err := nameAndSlug(in.Name, in.Slug)
	if err != nil {
		return models.FilterGroup{}, err
	}
	now := s.now()
	in.ID = utils.GetUUID()
	in.Name, in.Slug = name, slug
	in.Items = nil
	in.CreatedAt, in.UpdatedAt = now, now
	if err := s.store.CreateFilterGroup(ctx, in); err != nil {
		return models.FilterGroup{}, err
	}
	return in, nil
}

func (s *Service) UpdateFilterGroup(ctx context.Context, id string, in models.FilterGroup) (models.FilterGroup, error) {
	current, err := s.store.GetFilterGroup(ctx, id)
	if err != nil {
		return models.FilterGroup{}, err
	}
	name, slug, err := nameAndSlug(in.Name, in.Slug)
	if err != nil {
		return models.FilterGroup{}, err
	}
	in.ID, in.CreatedAt = current.ID, current.CreatedAt
	in.Name, in.Slug = name, slug
	in.Items = nil
	in.UpdatedAt = s.now()
	if err := s.store.UpdateFilterGroup(ctx, in); err != nil {
		return models.FilterGroup{}, err
	}
	return in, nil
}

// DeleteFilterGroup removes the group together with its items, after pulling
// those items off every excursion.
func (s *Service) DeleteFilterGroup(ctx context.Context, id string) error {
	if _, err := s.store.GetFilterGroup(ctx, id); err != nil {
		return err
	}
	items, err := s.store.ListFilterItems(ctx, id, false)
	if err != nil {
		return err
	}
	if len(items) > 0 {
		ids := make([]string, 0, len(items))
		for _, it := range items {
			ids = append(ids, it.ID)
		}
		if s.refs != nil {
			if err := s.refs.PullFilterItems(ctx, ids); err != nil {
				return err
			}
		}
		if err := s.store.DeleteFilterItemsByGroup(ctx, id); err != nil {
			return err
		}
	}
	return s.store.DeleteFilterGroup(ctx, id)
}

// Filter items

func (s *Service) ListFilterItems(ctx context.Context, groupID string, visibleOnly bool) ([]models.FilterItem, error) {
	return s.store.ListFilterItems(ctx, groupID, visibleOnly)
}

func (s *Service) GetFilterItem(ctx context.Context, id string) (models.FilterItem, error) {
	return s.store.GetFilterItem(ctx, id)
}

func (s *Service) checkGroup(ctx context.Context, groupID string) error {
	if strings.TrimSpace(groupID) == "" {
		return utils.Validation("groupId is required")
	}
	if _, err := s.store.GetFilterGroup(ctx, groupID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.Validation("filter group %s does not exist", groupID)
		}
		return err
	}
	return nil
}

func (s *Service) CreateFilterItem(ctx context.Context, in models.FilterItem) (models.FilterItem, error) {
	name, slug, err := nameAndSlug(in.Name, in.Slug)
	if err != nil {
		return models.FilterItem{}, err
	}
	if err := s.checkGroup(ctx, in.GroupID); err != nil {
		return models.FilterItem{}, err
	}
	now := s.now()
	in.ID = utils.GetUUID()
	in.Name, in.Slug = name, slug
	in.CreatedAt, in.UpdatedAt = now, now
	if err := s.store.CreateFilterItem(ctx, in); err != nil {
		return models.FilterItem{}, err
	}
	return in, nil
}

func (s *Service) UpdateFilterItem(ctx context.Context, id string, in models.FilterItem) (models.FilterItem, error) {
	current, err := s.store.GetFilterItem(ctx, id)
	if err != nil {
		return models.FilterItem{}, err
	}
	name, slug, err := nameAndSlug(in.Name, in.Slug)
	if err != nil {
		return models.FilterItem{}, err
	}
	if in.GroupID == "" {
		in.GroupID = current.GroupID
	} else if in.GroupID != current.GroupID {
		if err := s.checkGroup(ctx, in.GroupID); err != nil {
			return models.FilterItem{}, err
		}
	}
	in.ID, in.CreatedAt = current.ID, current.CreatedAt
	in.Name, in.Slug = name, slug
	in.UpdatedAt = s.now()
	if err := s.store.UpdateFilterItem(ctx, in); err != nil {
		return models.FilterItem{}, err
	}
	return in, nil
}

func (s *Service) DeleteFilterItem(ctx context.Context, id string) error {
	if _, err := s.store.GetFilterItem(ctx, id); err != nil {
		return err
	}
	if s.refs != nil {
		if err := s.refs.PullFilterItems(ctx, []string{id}); err != nil {
			return err
		}
	}
	return s.store.DeleteFilterItem(ctx, id)
}

// FirstUnknownTag returns the first id in ids with no tag behind it, or "".
func (s *Service) FirstUnknownTag(ctx context.Context, ids []string) (string, error) {
	found, err := s.store.ExistingTagIDs(ctx, ids)
	if err != nil {
		return "", err
	}
	return firstMissing(ids, found), nil
}

// FirstUnknownFilterItem is FirstUnknownTag for filter items.
func (s *Service) FirstUnknownFilterItem(ctx context.Context, ids []string) (string, error) {
	found, err := s.store.ExistingFilterItemIDs(ctx, ids)
	if err != nil {
		return "", err
	}
	return firstMissing(ids, found), nil
}

func firstMissing(want, found []string) string {
	for _, id := range want {
		if !slices.Contains(found, id) {
			return id
		}
	}
	return ""
}
