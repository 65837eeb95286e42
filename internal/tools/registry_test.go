package tools

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequenceSource replays a fixed list of indexes.
type sequenceSource struct {
	mu   sync.Mutex
	vals []int
	pos  int
}

func (s *sequenceSource) IntN(int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.vals[s.pos%len(s.vals)]
	s.pos++
	return v
}

type stubTool struct {
	out string
	err error
}

func (s stubTool) Description() string { return "stub" }

func (s stubTool) Invoke(context.Context) (string, error) { return s.out, s.err }

type panicTool struct{}

func (panicTool) Description() string { return "panics" }

func (panicTool) Invoke(context.Context) (string, error) { panic("kaboom") }

func TestParseName(t *testing.T) {
	for _, n := range Names() {
		got, err := ParseName(string(n))
		require.NoError(t, err)
		assert.Equal(t, n, got)
	}

	for _, s := range []string{"", "nope", "Validate", "joke-generator ", "joke_generator"} {
		_, err := ParseName(s)
		assert.ErrorIs(t, err, ErrUnknownTool, "input %q", s)
	}
}

func TestRegistry_JokeGeneratorUsesRandomSource(t *testing.T) {
	catalog := DefaultCatalog()
	rnd := &sequenceSource{vals: []int{2, 0, 4}}
	r, err := NewRegistry(catalog, rnd)
	require.NoError(t, err)

	jokes := catalog.Jokes()
	for _, idx := range []int{2, 0, 4} {
		res, err := r.Invoke(context.Background(), "joke-generator")
		require.NoError(t, err)
		assert.Equal(t, JokeGenerator, res.Name)
		assert.Equal(t, jokes[idx], res.Output)
	}
}

func TestRegistry_JokeGeneratorDefaultSource(t *testing.T) {
	catalog := DefaultCatalog()
	r, err := NewRegistry(catalog, nil)
	require.NoError(t, err)

	for i := 0; i < 200; i++ {
		res, err := r.Invoke(context.Background(), string(JokeGenerator))
		require.NoError(t, err)
		assert.Contains(t, catalog.Jokes(), res.Output)
	}
}

func TestRegistry_Validate(t *testing.T) {
	r, err := NewRegistry(DefaultCatalog().WithValidationNumber("+44-20-7946-0000"), nil)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		res, err := r.Invoke(context.Background(), "validate")
		require.NoError(t, err)
		assert.Equal(t, Validate, res.Name)
		assert.Equal(t, "+44-20-7946-0000", res.Output)
	}
}

func TestRegistry_UnknownTool(t *testing.T) {
	r, err := NewRegistry(DefaultCatalog(), nil)
	require.NoError(t, err)

	_, err = r.Invoke(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrUnknownTool)
}

func TestRegistry_ToolError(t *testing.T) {
	boom := errors.New("boom")
	r, err := NewRegistry(DefaultCatalog(), nil, WithTool(Validate, stubTool{err: boom}))
	require.NoError(t, err)

	_, err = r.Invoke(context.Background(), "validate")
	assert.ErrorIs(t, err, boom)
}

func TestRegistry_RecoversPanic(t *testing.T) {
	r, err := NewRegistry(DefaultCatalog(), nil, WithTool(JokeGenerator, panicTool{}))
	require.NoError(t, err)

	_, err = r.Invoke(context.Background(), "joke-generator")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
}

func TestRegistry_OutOfRangeSourceIsAnError(t *testing.T) {
	r, err := NewRegistry(DefaultCatalog(), &sequenceSource{vals: []int{99}})
	require.NoError(t, err)

	_, err = r.Invoke(context.Background(), "joke-generator")
	assert.Error(t, err)
}

func TestWithTool_RejectsUnknownName(t *testing.T) {
	_, err := NewRegistry(DefaultCatalog(), nil, WithTool("weather", stubTool{}))
	assert.ErrorIs(t, err, ErrUnknownTool)

	_, err = NewRegistry(DefaultCatalog(), nil, WithTool(Validate, nil))
	assert.Error(t, err)
}

func TestNewRegistry_ZeroCatalog(t *testing.T) {
	_, err := NewRegistry(Catalog{}, nil)
	assert.ErrorIs(t, err, ErrEmptyJokeSet)
}

func TestRegistry_Describe(t *testing.T) {
	r, err := NewRegistry(DefaultCatalog(), nil)
	require.NoError(t, err)

	d := r.Describe()
	require.Len(t, d, 2)
	assert.Equal(t, JokeGenerator, d[0].Name)
	assert.Equal(t, Validate, d[1].Name)
	assert.NotEmpty(t, d[0].Description)
}

func TestRegistry_ConcurrentInvoke(t *testing.T) {
	r, err := NewRegistry(DefaultCatalog(), nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Invoke(context.Background(), "joke-generator")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}
