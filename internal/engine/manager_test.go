package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenui/lumen/internal/state"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(ManagerConfig{})
	t.Cleanup(m.Shutdown)
	return m
}

func TestManagerOpen(t *testing.T) {
	m := newTestManager(t)

	inst, err := m.Open([]byte(counterDoc), FormatJSON)
	require.NoError(t, err)
	assert.NotEmpty(t, inst.ID)
	assert.Equal(t, "counter", inst.Doc.ID)

	got, ok := m.Get(inst.ID)
	require.True(t, ok)
	assert.Same(t, inst, got)
}

func TestManagerOpenYAML(t *testing.T) {
	m := newTestManager(t)

	inst, err := m.Open([]byte(`
id: yaml-doc
state:
  greeting: hello
root:
  type: label
  text: "${greeting}"
`), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "hello", inst.Tree().Text)
}

func TestManagerOpenErrors(t *testing.T) {
	m := newTestManager(t)

	t.Run("invalid document", func(t *testing.T) {
		_, err := m.Open([]byte(`{"id": "x"}`), FormatJSON)
		assert.Error(t, err)
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, err := m.Open([]byte(`{}`), Format("toml"))
		assert.Error(t, err)
	})

	t.Run("empty format defaults to json", func(t *testing.T) {
		_, err := m.Open([]byte(counterDoc), "")
		assert.NoError(t, err)
	})
}

func TestManagerInstancesAreIsolated(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	first, err := m.Open([]byte(counterDoc), FormatJSON)
	require.NoError(t, err)
	second, err := m.Open([]byte(counterDoc), FormatJSON)
	require.NoError(t, err)

	require.NoError(t, first.DispatchEvent(ctx, "plus", "tap"))
	require.NoError(t, first.DispatchEvent(ctx, "plus", "tap"))

	assert.Equal(t, "Count: 2", first.Tree().Children[0].Text)
	assert.Equal(t, "Count: 0", second.Tree().Children[0].Text)
}

func TestManagerClose(t *testing.T) {
	m := newTestManager(t)

	inst, err := m.Open([]byte(counterDoc), FormatJSON)
	require.NoError(t, err)

	assert.True(t, m.Close(inst.ID))
	_, ok := m.Get(inst.ID)
	assert.False(t, ok)

	assert.False(t, m.Close(inst.ID), "closing twice reports not found")
}

func TestManagerListAndStats(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Open([]byte(counterDoc), FormatJSON)
	require.NoError(t, err)
	_, err = m.Open([]byte(counterDoc), FormatJSON)
	require.NoError(t, err)

	assert.Len(t, m.List(), 2)

	stats := m.Stats()
	assert.Equal(t, 2, stats["total_instances"])
	assert.Equal(t, map[string]int{"counter": 2}, stats["by_document"])
}

func TestManagerSharedRegistry(t *testing.T) {
	m := newTestManager(t)

	called := false
	m.Registry().Register("host.refresh", func(context.Context, map[string]any, *state.Store) error {
		called = true
		return nil
	})

	inst, err := m.Open([]byte(`{
		"id": "custom",
		"root": {
			"type": "button",
			"id": "btn",
			"text": "Go",
			"actions": {"tap": {"type": "custom", "name": "host.refresh"}}
		}
	}`), FormatJSON)
	require.NoError(t, err)

	require.NoError(t, inst.DispatchEvent(context.Background(), "btn", "tap"))
	assert.True(t, called)
}

func TestManagerShutdown(t *testing.T) {
	m := NewManager(ManagerConfig{})

	inst, err := m.Open([]byte(counterDoc), FormatJSON)
	require.NoError(t, err)

	m.Shutdown()
	assert.Empty(t, m.List())
	err = inst.DispatchEvent(context.Background(), "plus", "tap")
	assert.Error(t, err)
}
