package rdx_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourdesk/rdx"
)

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	err  error
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, false, m.err
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memCache) Set(_ context.Context, key string, val []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = val
	return nil
}

func (m *memCache) DeletePrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			delete(m.data, k)
		}
	}
	return nil
}

type payload struct {
	Title string `json:"title"`
}

func TestJSONRoundTripAndInvalidate(t *testing.T) {
	ctx := context.Background()
	c := &memCache{data: map[string][]byte{}}

	rdx.SetJSON(ctx, c, "catalog:list", payload{Title: "Night walk"}, time.Minute)
	rdx.SetJSON(ctx, c, "other:key", payload{Title: "keep"}, time.Minute)

	var got payload
	require.True(t, rdx.GetJSON(ctx, c, "catalog:list", &got))
	assert.Equal(t, "Night walk", got.Title)

	rdx.Invalidate(ctx, c, "catalog:")
	assert.False(t, rdx.GetJSON(ctx, c, "catalog:list", &got))
	assert.True(t, rdx.GetJSON(ctx, c, "other:key", &got))
}

func TestGetJSON_ErrorIsMiss(t *testing.T) {
	c := &memCache{data: map[string][]byte{}, err: errors.New("down")}
	var got payload
	assert.False(t, rdx.GetJSON(context.Background(), c, "k", &got))
}

func TestNopCache(t *testing.T) {
	var c rdx.Cache = rdx.NopCache{}
	rdx.SetJSON(context.Background(), c, "k", payload{Title: "x"}, time.Minute)
	var got payload
	assert.False(t, rdx.GetJSON(context.Background(), c, "k", &got))
}
