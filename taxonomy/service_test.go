package taxonomy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"slices"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourdesk/models"
	"tourdesk/utils"
)

type memStore struct {
	mu     sync.Mutex
	tags   map[string]models.Tag
	groups map[string]models.FilterGroup
	items  map[string]models.FilterItem
}

func newMemStore() *memStore {
	return &memStore{
		tags:   map[string]models.Tag{},
		groups: map[string]models.FilterGroup{},
		items:  map[string]models.FilterItem{},
	}
}

func sortedValues[T any](m map[string]T, keep func(T) bool, order func(a, b T) bool) []T {
	out := []T{}
	for _, v := range m {
		if keep(v) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return order(out[i], out[j]) })
	return out
}

func (m *memStore) ListTags(_ context.Context, activeOnly bool) ([]models.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return sortedValues(m.tags, func(t models.Tag) bool { return !activeOnly || t.Active },
		func(a, b models.Tag) bool { return a.SortOrder < b.SortOrder }), nil
}

func (m *memStore) GetTag(_ context.Context, id string) (models.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tags[id]
	if !ok {
		return t, utils.NotFound("tag")
	}
	return t, nil
}

func (m *memStore) GetTagBySlug(_ context.Context, slug string) (models.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tags {
		if t.Slug == slug {
			return t, nil
		}
	}
	return models.Tag{}, utils.NotFound("tag")
}

func (m *memStore) tagSlugTaken(slug, except string) bool {
	for _, t := range m.tags {
		if t.Slug == slug && t.ID != except {
			return true
		}
	}
	return false
}

func (m *memStore) CreateTag(_ context.Context, t models.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tagSlugTaken(t.Slug, t.ID) {
		return utils.Conflict("tag slug already in use")
	}
	m.tags[t.ID] = t
	return nil
}

func (m *memStore) UpdateTag(_ context.Context, t models.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tags[t.ID]; !ok {
		return utils.NotFound("tag")
	}
	if m.tagSlugTaken(t.Slug, t.ID) {
		return utils.Conflict("tag slug already in use")
	}
	m.tags[t.ID] = t
	return nil
}

func (m *memStore) DeleteTag(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tags[id]; !ok {
		return utils.NotFound("tag")
	}
	delete(m.tags, id)
	return nil
}

func (m *memStore) ExistingTagIDs(_ context.Context, ids []string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, id := range ids {
		if _, ok := m.tags[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (m *memStore) ListFilterGroups(_ context.Context, visibleOnly bool) ([]models.FilterGroup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return sortedValues(m.groups, func(g models.FilterGroup) bool { return !visibleOnly || g.Visible },
		func(a, b models.FilterGroup) bool { return a.SortOrder < b.SortOrder }), nil
}

func (m *memStore) GetFilterGroup(_ context.Context, id string) (models.FilterGroup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.groups[id]
	if !ok {
		return g, utils.NotFound("filter group")
	}
	return g, nil
}

func (m *memStore) CreateFilterGroup(_ context.Context, g models.FilterGroup) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups[g.ID] = g
	return nil
}

func (m *memStore) UpdateFilterGroup(_ context.Context, g models.FilterGroup) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups[g.ID] = g
	return nil
}

func (m *memStore) DeleteFilterGroup(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.groups[id]; !ok {
		return utils.NotFound("filter group")
	}
	delete(m.groups, id)
	return nil
}

func (m *memStore) ListFilterItems(_ context.Context, groupID string, visibleOnly bool) ([]models.FilterItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return sortedValues(m.items, func(it models.FilterItem) bool {
		return (groupID == "" || it.GroupID == groupID) && (!visibleOnly || it.Visible)
	}, func(a, b models.FilterItem) bool { return a.SortOrder < b.SortOrder }), nil
}

func (m *memStore) GetFilterItem(_ context.Context, id string) (models.FilterItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return it, utils.NotFound("filter item")
	}
	return it, nil
}

func (m *memStore) CreateFilterItem(_ context.Context, it models.FilterItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[it.ID] = it
	return nil
}

func (m *memStore) UpdateFilterItem(_ context.Context, it models.FilterItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[it.ID] = it
	return nil
}

func (m *memStore) DeleteFilterItem(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return utils.NotFound("filter item")
	}
	delete(m.items, id)
	return nil
}

func (m *memStore) DeleteFilterItemsByGroup(_ context.Context, groupID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, it := range m.items {
		if it.GroupID == groupID {
			delete(m.items, id)
		}
	}
	return nil
}

func (m *memStore) ExistingFilterItemIDs(_ context.Context, ids []string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, id := range ids {
		if _, ok := m.items[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

type recordingRefs struct {
	tags  []string
	items []string
}

func (r *recordingRefs) PullTag(_ context.Context, id string) error {
	r.tags = append(r.tags, id)
	return nil
}

func (r *recordingRefs) PullFilterItems(_ context.Context, ids []string) error {
	r.items = append(r.items, ids...)
	return nil
}

func TestCreateTag_Slug(t *testing.T) {
	svc := NewService(newMemStore(), nil)
	ctx := context.Background()

	derived, err := svc.CreateTag(ctx, models.Tag{Name: "  Boat Trips  "})
	require.NoError(t, err)
	assert.Equal(t, "Boat Trips", derived.Name)
	assert.Equal(t, "boat-trips", derived.Slug)
	assert.NotEmpty(t, derived.ID)

	explicit, err := svc.CreateTag(ctx, models.Tag{Name: "Night", Slug: "After Dark!"})
	require.NoError(t, err)
	assert.Equal(t, "after-dark", explicit.Slug)

	_, err = svc.CreateTag(ctx, models.Tag{Name: "boat trips"})
	assert.ErrorIs(t, err, utils.ErrConflict)

	_, err = svc.CreateTag(ctx, models.Tag{Name: "   "})
	assert.ErrorIs(t, err, utils.ErrValidation)

	_, err = svc.CreateTag(ctx, models.Tag{Name: "!!!"})
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestDeleteTag_PullsReferences(t *testing.T) {
	refs := &recordingRefs{}
	svc := NewService(newMemStore(), refs)
	ctx := context.Background()

	tag, err := svc.CreateTag(ctx, models.Tag{Name: "Food"})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteTag(ctx, tag.ID))
	assert.Equal(t, []string{tag.ID}, refs.tags)

	assert.ErrorIs(t, svc.DeleteTag(ctx, tag.ID), utils.ErrNotFound)
}

func TestFilterItemRequiresGroup(t *testing.T) {
	svc := NewService(newMemStore(), nil)
	_, err := svc.CreateFilterItem(context.Background(), models.FilterItem{Name: "Kids", GroupID: "nope"})
	assert.ErrorIs(t, err, utils.ErrValidation)

	_, err = svc.CreateFilterItem(context.Background(), models.FilterItem{Name: "Kids"})
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestDeleteFilterGroup_Cascades(t *testing.T) {
	store := newMemStore()
	refs := &recordingRefs{}
	svc := NewService(store, refs)
	ctx := context.Background()

	g, err := svc.CreateFilterGroup(ctx, models.FilterGroup{Name: "Audience", Visible: true})
	require.NoError(t, err)
	kids, err := svc.CreateFilterItem(ctx, models.FilterItem{GroupID: g.ID, Name: "Kids", Visible: true})
	require.NoError(t, err)
	adults, err := svc.CreateFilterItem(ctx, models.FilterItem{GroupID: g.ID, Name: "Adults", SortOrder: 1})
	require.NoError(t, err)

	withItems, err := svc.ListFilterGroups(ctx, false, true)
	require.NoError(t, err)
	require.Len(t, withItems, 1)
	assert.Len(t, withItems[0].Items, 2)

	visible, err := svc.ListFilterGroups(ctx, true, true)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, []models.FilterItem{kids}, visible[0].Items)

	require.NoError(t, svc.DeleteFilterGroup(ctx, g.ID))
	assert.Empty(t, store.groups)
	assert.Empty(t, store.items)
	assert.True(t, slices.Contains(refs.items, kids.ID))
	assert.True(t, slices.Contains(refs.items, adults.ID))
}

func TestFirstUnknown(t *testing.T) {
	svc := NewService(newMemStore(), nil)
	ctx := context.Background()
	tag, err := svc.CreateTag(ctx, models.Tag{Name: "Walks"})
	require.NoError(t, err)

	id, err := svc.FirstUnknownTag(ctx, []string{tag.ID, "ghost", "other"})
	require.NoError(t, err)
	assert.Equal(t, "ghost", id)

	id, err = svc.FirstUnknownTag(ctx, []string{tag.ID})
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestHandlers_CreateAndConflict(t *testing.T) {
	h := NewHandler(NewService(newMemStore(), nil))
	router := httprouter.New()
	router.POST("/api/tags", h.CreateTag)
	router.DELETE("/api/tags/:id", h.DeleteTag)

	post := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/tags", strings.NewReader(body)))
		return rec
	}

	assert.Equal(t, http.StatusCreated, post(`{"name":"Museums"}`).Code)

	rec := post(`{"name":"museums"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "slug already in use")

	assert.Equal(t, http.StatusBadRequest, post(`{"name":""}`).Code)

	del := httptest.NewRecorder()
	router.ServeHTTP(del, httptest.NewRequest(http.MethodDelete, "/api/tags/missing", nil))
	assert.Equal(t, http.StatusNotFound, del.Code)
}
