package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lumenui/lumen/internal/action"
	"github.com/lumenui/lumen/internal/engine"
	"github.com/lumenui/lumen/tests/helpers/testutil"
)

// TestDocumentLifecycle exercises the full path: open a document, interact
// with it through events, observe render trees, and tear it down.
func TestDocumentLifecycle(t *testing.T) {
	manager := engine.NewManager(engine.ManagerConfig{})
	defer manager.Shutdown()
	ctx := context.Background()

	inst, err := manager.Open([]byte(testutil.CounterDocument), engine.FormatJSON)
	require.NoError(t, err)

	t.Run("initial tree reflects seed state", func(t *testing.T) {
		tree := inst.Tree()
		require.NotNil(t, tree)
		assert.Equal(t, "Count: 0", tree.Children[0].Text)
	})

	t.Run("events drive state into fresh trees", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			require.NoError(t, inst.DispatchEvent(ctx, "plus", "tap"))
		}
		assert.Equal(t, "Count: 3", inst.Tree().Children[0].Text)
	})

	t.Run("close tears down the instance", func(t *testing.T) {
		require.True(t, manager.Close(inst.ID))
		err := inst.DispatchEvent(ctx, "plus", "tap")
		assert.ErrorIs(t, err, action.ErrClosed)
	})
}

// TestShoppingFilterFlow models the selection pattern: chips that toggle
// membership in a filter array and switch styles off that membership.
func TestShoppingFilterFlow(t *testing.T) {
	manager := engine.NewManager(engine.ManagerConfig{})
	defer manager.Shutdown()
	ctx := context.Background()

	inst, err := manager.Open([]byte(`{
		"id": "filters",
		"state": {"selected": []},
		"styles": {
			"chip": {"color": "gray"},
			"chipOn": {"inherits": "chip", "color": "blue"}
		},
		"actions": {
			"toggleSale": {"type": "toggleInArray", "path": "selected", "value": "sale"}
		},
		"root": {
			"type": "hstack",
			"children": [
				{
					"type": "button",
					"id": "saleChip",
					"text": "Sale (${selected.count})",
					"styles": {"normal": "chip", "selected": "chipOn"},
					"isSelectedBinding": "selected.count > 0",
					"actions": {"tap": "toggleSale"}
				}
			]
		}
	}`), engine.FormatJSON)
	require.NoError(t, err)

	chip := func() map[string]any {
		return inst.Tree().Children[0].Style
	}

	assert.Equal(t, "gray", chip()["color"])

	require.NoError(t, inst.DispatchEvent(ctx, "saleChip", "tap"))
	assert.Equal(t, "blue", chip()["color"])
	assert.Equal(t, "Sale (1)", inst.Tree().Children[0].Text)

	require.NoError(t, inst.DispatchEvent(ctx, "saleChip", "tap"))
	assert.Equal(t, "gray", chip()["color"])
	assert.Equal(t, "Sale (0)", inst.Tree().Children[0].Text)
}

// TestRequestFlow wires a mocked transport through a request action and
// verifies the response lands in state and re-renders the tree.
func TestRequestFlow(t *testing.T) {
	transport := new(testutil.MockTransport)
	transport.On("Perform", mock.Anything, "GET", "https://api.example.com/profile/7").
		Return(map[string]any{"name": "Ada"}, nil)

	manager := engine.NewManager(engine.ManagerConfig{Transport: transport})
	defer manager.Shutdown()

	inst, err := manager.Open([]byte(`{
		"id": "profile",
		"state": {"userId": 7},
		"root": {
			"type": "vstack",
			"children": [
				{"type": "label", "id": "name", "text": "${profile.name}"},
				{
					"type": "button",
					"id": "load",
					"text": "Load",
					"actions": {"tap": {
						"type": "request",
						"url": "https://api.example.com/profile/${userId}",
						"loadingPath": "loading",
						"responsePath": "profile",
						"errorPath": "loadError"
					}}
				}
			]
		}
	}`), engine.FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, "", inst.Tree().Children[0].Text)

	require.NoError(t, inst.DispatchEvent(context.Background(), "load", "tap"))

	assert.Equal(t, "Ada", inst.Tree().Children[0].Text)
	loading, _ := inst.Store().Get("loading")
	assert.Equal(t, false, loading)
	_, hasErr := inst.Store().Get("loadError")
	assert.False(t, hasErr)

	transport.AssertExpectations(t)
}

// TestChecklistFlow drives a sequence action: append an item, then record
// the new count, and verify later steps observe earlier writes.
func TestChecklistFlow(t *testing.T) {
	manager := engine.NewManager(engine.ManagerConfig{})
	defer manager.Shutdown()

	inst, err := manager.Open([]byte(`{
		"id": "checklist",
		"state": {"items": [], "lastCount": 0},
		"root": {
			"type": "button",
			"id": "add",
			"text": "Add",
			"actions": {"tap": {
				"type": "sequence",
				"steps": [
					{"type": "appendToArray", "path": "items", "value": "task"},
					{"type": "setState", "path": "lastCount", "value": {"$expr": "${items.count}"}}
				]
			}}
		}
	}`), engine.FormatJSON)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, inst.DispatchEvent(ctx, "add", "tap"))
	require.NoError(t, inst.DispatchEvent(ctx, "add", "tap"))

	count, _ := inst.Store().Get("lastCount")
	assert.Equal(t, float64(2), count)

	items, _ := inst.Store().Get("items")
	assert.Equal(t, []any{"task", "task"}, items)
}
