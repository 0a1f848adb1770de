package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testQuery struct {
	ID      string
	invalid bool
}

func (q testQuery) Validate() error {
	if q.invalid {
		return errors.New("invalid query")
	}
	return nil
}

func TestQueryBus_RegisterAndAsk(t *testing.T) {
	b := NewQueryBus()
	require.NoError(t, b.Register(testQuery{}, QueryHandlerFunc(func(_ context.Context, q Query) (interface{}, error) {
		return "result for " + q.(testQuery).ID, nil
	})))

	result, err := b.Ask(context.Background(), testQuery{ID: "abc"})

	require.NoError(t, err)
	assert.Equal(t, "result for abc", result)
}

func TestQueryBus_Ask_NoHandler(t *testing.T) {
	b := NewQueryBus()

	_, err := b.Ask(context.Background(), testQuery{})

	assert.Error(t, err)
}

func TestQueryBus_Ask_ValidationFailure(t *testing.T) {
	b := NewQueryBus()
	require.NoError(t, b.Register(testQuery{}, QueryHandlerFunc(func(context.Context, Query) (interface{}, error) {
		t.Fatal("handler must not run for an invalid query")
		return nil, nil
	})))

	_, err := b.Ask(context.Background(), testQuery{invalid: true})

	assert.Error(t, err)
}

type mapCache struct {
	values map[string]interface{}
}

func (c *mapCache) Get(_ context.Context, key string) (interface{}, bool) {
	v, ok := c.values[key]
	return v, ok
}

func (c *mapCache) Set(_ context.Context, key string, value interface{}, _ int) error {
	c.values[key] = value
	return nil
}

func TestCachingMiddleware(t *testing.T) {
	cache := &mapCache{values: make(map[string]interface{})}
	calls := 0
	handler := NewCachingMiddleware(cache, 60).Wrap(QueryHandlerFunc(func(context.Context, Query) (interface{}, error) {
		calls++
		return "fresh", nil
	}))

	first, err := handler.Handle(context.Background(), testQuery{ID: "abc"})
	require.NoError(t, err)
	second, err := handler.Handle(context.Background(), testQuery{ID: "abc"})
	require.NoError(t, err)

	assert.Equal(t, "fresh", first)
	assert.Equal(t, "fresh", second)
	assert.Equal(t, 1, calls, "second ask must come from cache")

	// A different query misses
	_, err = handler.Handle(context.Background(), testQuery{ID: "xyz"})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestCachingMiddleware_ErrorsNotCached(t *testing.T) {
	cache := &mapCache{values: make(map[string]interface{})}
	calls := 0
	handler := NewCachingMiddleware(cache, 60).Wrap(QueryHandlerFunc(func(context.Context, Query) (interface{}, error) {
		calls++
		return nil, errors.New("boom")
	}))

	_, err := handler.Handle(context.Background(), testQuery{})
	require.Error(t, err)
	_, err = handler.Handle(context.Background(), testQuery{})
	require.Error(t, err)

	assert.Equal(t, 2, calls)
}
