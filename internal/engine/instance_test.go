package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenui/lumen/internal/action"
	"github.com/lumenui/lumen/internal/document"
	"github.com/lumenui/lumen/internal/render"
)

const counterDoc = `{
	"id": "counter",
	"state": {"count": 0},
	"styles": {
		"num": {"fontSize": 32}
	},
	"actions": {
		"bump": {"type": "setState", "path": "count", "value": {"$expr": "${count + 1}"}}
	},
	"root": {
		"type": "vstack",
		"id": "root",
		"children": [
			{"type": "label", "id": "display", "text": "Count: ${count}", "styleId": "num"},
			{"type": "button", "id": "plus", "text": "+", "actions": {"tap": "bump"}}
		]
	}
}`

type recordingSink struct {
	trees   []*render.Node
	intents []action.Intent
}

func (s *recordingSink) Tree(tree *render.Node)      { s.trees = append(s.trees, tree) }
func (s *recordingSink) Intent(intent action.Intent) { s.intents = append(s.intents, intent) }

func newTestInstance(t *testing.T, docJSON string) *Instance {
	t.Helper()
	doc, err := document.Parse([]byte(docJSON))
	require.NoError(t, err)
	inst, err := NewInstance("test-instance", doc, Options{})
	require.NoError(t, err)
	t.Cleanup(inst.Close)
	return inst
}

func TestInstanceInitialTree(t *testing.T) {
	inst := newTestInstance(t, counterDoc)

	tree := inst.Tree()
	require.NotNil(t, tree)
	require.Len(t, tree.Children, 2)
	assert.Equal(t, "Count: 0", tree.Children[0].Text)
	assert.Equal(t, float64(32), tree.Children[0].Style["fontSize"])
}

func TestInstanceRefreshesOnStateChange(t *testing.T) {
	inst := newTestInstance(t, counterDoc)

	inst.Store().Set("count", float64(5))
	assert.Equal(t, "Count: 5", inst.Tree().Children[0].Text)
}

func TestDispatchEvent(t *testing.T) {
	inst := newTestInstance(t, counterDoc)
	ctx := context.Background()

	t.Run("bound event runs the action", func(t *testing.T) {
		require.NoError(t, inst.DispatchEvent(ctx, "plus", "tap"))
		assert.Equal(t, "Count: 1", inst.Tree().Children[0].Text)
	})

	t.Run("unknown node is a no-op", func(t *testing.T) {
		assert.NoError(t, inst.DispatchEvent(ctx, "ghost", "tap"))
	})

	t.Run("unbound event is a no-op", func(t *testing.T) {
		assert.NoError(t, inst.DispatchEvent(ctx, "plus", "longPress"))
	})
}

func TestSinkReceivesTrees(t *testing.T) {
	inst := newTestInstance(t, counterDoc)

	sink := &recordingSink{}
	detach := inst.AttachSink(sink)

	require.Len(t, sink.trees, 1, "attach pushes the current tree")
	assert.Equal(t, "Count: 0", sink.trees[0].Children[0].Text)

	inst.Store().Set("count", float64(2))
	require.Len(t, sink.trees, 2)
	assert.Equal(t, "Count: 2", sink.trees[1].Children[0].Text)

	detach()
	inst.Store().Set("count", float64(3))
	assert.Len(t, sink.trees, 2, "detached sinks receive nothing")
}

func TestSinkReceivesIntents(t *testing.T) {
	inst := newTestInstance(t, `{
		"id": "alerts",
		"root": {
			"type": "button",
			"id": "warn",
			"text": "Warn",
			"actions": {"tap": {"type": "showAlert", "title": "Careful"}}
		}
	}`)

	sink := &recordingSink{}
	inst.AttachSink(sink)

	require.NoError(t, inst.DispatchEvent(context.Background(), "warn", "tap"))
	require.Len(t, sink.intents, 1)
	assert.Equal(t, "showAlert", sink.intents[0].Type)
	assert.Equal(t, "Careful", sink.intents[0].Title)
}

func TestInstanceClose(t *testing.T) {
	inst := newTestInstance(t, counterDoc)
	inst.Close()

	err := inst.DispatchEvent(context.Background(), "plus", "tap")
	assert.ErrorIs(t, err, action.ErrClosed)

	// Closing twice is safe.
	inst.Close()
}

func TestCyclicStylesFailLoad(t *testing.T) {
	doc, err := document.Parse([]byte(`{
		"id": "cyclic",
		"styles": {
			"a": {"inherits": "b"},
			"b": {"inherits": "a"}
		},
		"root": {"type": "spacer"}
	}`))
	require.NoError(t, err)

	_, err = NewInstance("x", doc, Options{})
	assert.Error(t, err)
}

func TestSectionLayoutResolvesThroughInstance(t *testing.T) {
	inst := newTestInstance(t, `{
		"id": "sections",
		"state": {"title": "Featured"},
		"root": {
			"type": "sectionLayout",
			"id": "layout",
			"sections": [{
				"id": "main",
				"layout": {"type": "grid", "columns": 2, "itemSpacing": 8},
				"header": {"type": "label", "text": "${title}"},
				"children": [
					{"type": "label", "text": "a"},
					{"type": "label", "text": "b"}
				]
			}]
		}
	}`)

	tree := inst.Tree()
	require.NotNil(t, tree.Plan)
	require.Len(t, tree.Plan.Sections, 1)

	section := tree.Plan.Sections[0]
	assert.Equal(t, "grid", section.Layout.Mode)
	assert.Equal(t, 2, section.Layout.Columns)
	assert.Equal(t, "Featured", section.Header.Text)
	assert.Len(t, section.Items, 2)
}
