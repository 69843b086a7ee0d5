package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenui/lumen/internal/document"
	"github.com/lumenui/lumen/internal/expr"
	"github.com/lumenui/lumen/internal/style"
)

func newResolver(t *testing.T, docJSON string) *Resolver {
	t.Helper()
	doc, err := document.Parse([]byte(docJSON))
	require.NoError(t, err)
	styles, err := style.NewResolver(doc.Styles, nil)
	require.NoError(t, err)
	return NewResolver(doc, styles, expr.New(nil), nil)
}

func TestResolveLabel(t *testing.T) {
	r := newResolver(t, `{
		"id": "d",
		"styles": {"title": {"fontSize": 24}},
		"root": {"type": "label", "id": "l", "text": "Hello, ${name}!", "styleId": "title"}
	}`)

	node := r.ResolveRoot(expr.Vars{"name": "Ada"})
	assert.Equal(t, "label", node.Kind)
	assert.Equal(t, "Hello, Ada!", node.Text)
	assert.Equal(t, float64(24), node.Style["fontSize"])
}

func TestResolvedTreeCarriesNoResidue(t *testing.T) {
	r := newResolver(t, `{
		"id": "d",
		"styles": {"s": {"color": "red"}},
		"root": {"type": "vstack", "children": [
			{"type": "label", "text": "${missing}", "styleId": "s"},
			{"type": "textfield", "placeholder": "name", "bindingPath": "user.name"}
		]}
	}`)

	node := r.ResolveRoot(expr.Vars{"user": map[string]any{"name": "Ada"}})
	require.Len(t, node.Children, 2)

	label := node.Children[0]
	assert.Equal(t, "", label.Text) // unresolvable binding degrades to empty
	assert.Equal(t, style.Properties{"color": "red"}, label.Style)

	field := node.Children[1]
	assert.Equal(t, "Ada", field.Value)
	assert.Equal(t, "name", field.Placeholder)
}

func TestResolveDeterministic(t *testing.T) {
	r := newResolver(t, `{
		"id": "d",
		"root": {"type": "vstack", "children": [
			{"type": "label", "text": "${count} items"},
			{"type": "slider", "bindingPath": "volume", "min": 0, "max": 10, "step": 1}
		]}
	}`)

	vars := expr.Vars{"count": float64(3), "volume": float64(5)}
	first := r.ResolveRoot(vars)
	second := r.ResolveRoot(vars)
	assert.Equal(t, first, second)
}

func TestVariantStyleSelection(t *testing.T) {
	r := newResolver(t, `{
		"id": "d",
		"styles": {
			"chip": {"color": "gray"},
			"chipOn": {"inherits": "chip", "color": "blue"}
		},
		"root": {
			"type": "button",
			"text": "Filter",
			"styles": {"normal": "chip", "selected": "chipOn"},
			"isSelectedBinding": "filters.active"
		}
	}`)

	t.Run("selected", func(t *testing.T) {
		node := r.ResolveRoot(expr.Vars{"filters": map[string]any{"active": true}})
		assert.Equal(t, "blue", node.Style["color"])
	})

	t.Run("normal", func(t *testing.T) {
		node := r.ResolveRoot(expr.Vars{"filters": map[string]any{"active": false}})
		assert.Equal(t, "gray", node.Style["color"])
	})

	t.Run("missing binding is falsy", func(t *testing.T) {
		node := r.ResolveRoot(expr.Vars{})
		assert.Equal(t, "gray", node.Style["color"])
	})
}

func TestInlineStyleOverrides(t *testing.T) {
	r := newResolver(t, `{
		"id": "d",
		"styles": {"base": {"color": "black", "fontSize": 14}},
		"root": {"type": "label", "text": "x", "styleId": "base", "style": {"color": "red"}}
	}`)

	node := r.ResolveRoot(nil)
	assert.Equal(t, "red", node.Style["color"])
	assert.Equal(t, float64(14), node.Style["fontSize"])
}

func TestUnknownStyleDegradesToInline(t *testing.T) {
	r := newResolver(t, `{
		"id": "d",
		"root": {"type": "label", "text": "x", "styleId": "ghost", "style": {"color": "red"}}
	}`)

	node := r.ResolveRoot(nil)
	assert.Equal(t, style.Properties{"color": "red"}, node.Style)
}

func TestDataSources(t *testing.T) {
	r := newResolver(t, `{
		"id": "d",
		"dataSources": {
			"fixed":    {"type": "static", "value": "constant"},
			"path":     {"type": "binding", "path": "cart.total"},
			"computed": {"type": "binding", "template": "${cart.total * 2}"}
		},
		"root": {"type": "vstack", "children": [
			{"type": "label", "dataSourceId": "fixed"},
			{"type": "label", "dataSourceId": "path"},
			{"type": "label", "dataSourceId": "computed"},
			{"type": "label", "dataSourceId": "ghost", "text": "fallback"}
		]}
	}`)

	node := r.ResolveRoot(expr.Vars{"cart": map[string]any{"total": float64(21)}})
	require.Len(t, node.Children, 4)

	assert.Equal(t, "constant", node.Children[0].Text)
	assert.Equal(t, "21", node.Children[1].Text)
	assert.Equal(t, float64(21), node.Children[1].Value)
	assert.Equal(t, "42", node.Children[2].Text)
	assert.Equal(t, "fallback", node.Children[3].Text)
}

func TestEventsSorted(t *testing.T) {
	r := newResolver(t, `{
		"id": "d",
		"actions": {
			"a": {"type": "toggleState", "path": "x"},
			"b": {"type": "toggleState", "path": "y"}
		},
		"root": {"type": "button", "text": "b", "actions": {"tap": "a", "longPress": "b"}}
	}`)

	node := r.ResolveRoot(nil)
	assert.Equal(t, []string{"longPress", "tap"}, node.Events)
}

func TestGradientAndShapePassthrough(t *testing.T) {
	r := newResolver(t, `{
		"id": "d",
		"root": {"type": "vstack", "children": [
			{"type": "shape", "shape": "capsule"},
			{"type": "gradient", "colors": ["#000", "#fff"], "startPoint": "top", "endPoint": "bottom"}
		]}
	}`)

	node := r.ResolveRoot(nil)
	assert.Equal(t, "capsule", node.Children[0].Shape)
	assert.Equal(t, []string{"#000", "#fff"}, node.Children[1].Colors)
	assert.Equal(t, "top", node.Children[1].StartPoint)
}

func TestSectionLayoutWithoutPlanner(t *testing.T) {
	r := newResolver(t, `{
		"id": "d",
		"root": {"type": "sectionLayout", "sections": [
			{"layout": {"type": "list"}, "children": [{"type": "label", "text": "x"}]}
		]}
	}`)

	node := r.ResolveRoot(nil)
	assert.Nil(t, node.Plan)
}
