package render

import (
	"sort"

	"go.uber.org/zap"

	"github.com/lumenui/lumen/internal/document"
	"github.com/lumenui/lumen/internal/expr"
	"github.com/lumenui/lumen/internal/style"
)

// Planner resolves a sectionLayout node into a layout plan. Implemented by
// the layout package and injected to avoid a package cycle.
type Planner interface {
	PlanSections(n *document.Node, vars expr.Vars) (*Plan, error)
}

// Resolver turns document node specs into render nodes against a state
// snapshot.
type Resolver struct {
	doc     *document.Document
	styles  *style.Resolver
	eval    *expr.Evaluator
	planner Planner
	logger  *zap.Logger
}

// NewResolver creates a resolver bound to one document.
func NewResolver(doc *document.Document, styles *style.Resolver, eval *expr.Evaluator, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{doc: doc, styles: styles, eval: eval, logger: logger}
}

// SetPlanner wires the section layout planner.
func (r *Resolver) SetPlanner(p Planner) { r.planner = p }

// ResolveRoot resolves the document's root node.
func (r *Resolver) ResolveRoot(vars expr.Vars) *Node {
	return r.Resolve(r.doc.Root, vars)
}

// Resolve produces a fresh render node for spec n. Resolution never fails:
// unresolvable bindings degrade to neutral values and are logged.
func (r *Resolver) Resolve(n *document.Node, vars expr.Vars) *Node {
	if n == nil {
		return nil
	}

	out := &Node{
		Kind:  string(n.Kind),
		ID:    n.ID,
		Style: r.resolveStyle(n, vars),
	}

	for event := range n.Actions {
		out.Events = append(out.Events, event)
	}
	sort.Strings(out.Events)

	switch n.Kind {
	case document.KindLabel:
		r.resolveLabel(n, out, vars)
	case document.KindButton:
		out.Text = r.eval.Compile(n.Text).String(vars)
	case document.KindTextField:
		out.Placeholder = r.eval.Compile(n.Placeholder).String(vars)
		out.Value = r.binding(n.BindingPath, vars)
	case document.KindToggle:
		out.Value = r.binding(n.BindingPath, vars)
	case document.KindSlider:
		out.Min, out.Max, out.Step = n.Min, n.Max, n.Step
		out.Value = r.binding(n.BindingPath, vars)
	case document.KindImage:
		out.URL = r.eval.Compile(n.URL).String(vars)
	case document.KindShape:
		out.Shape = n.Shape
	case document.KindGradient:
		out.Colors = append([]string(nil), n.Colors...)
		out.StartPoint = n.StartPoint
		out.EndPoint = n.EndPoint
	case document.KindSectionLayout:
		r.resolvePlan(n, out, vars)
	}

	for _, child := range n.Children {
		out.Children = append(out.Children, r.Resolve(child, vars))
	}
	return out
}

// resolveLabel fills a label's text, preferring its data source when one is
// referenced.
func (r *Resolver) resolveLabel(n *document.Node, out *Node, vars expr.Vars) {
	if n.DataSourceID != "" {
		value, ok := r.dataSource(n.DataSourceID, vars)
		if ok {
			out.Value = value
			out.Text = expr.Stringify(value)
			return
		}
	}
	out.Text = r.eval.Compile(n.Text).String(vars)
}

// dataSource dereferences a named data source against the snapshot.
func (r *Resolver) dataSource(id string, vars expr.Vars) (any, bool) {
	source, ok := r.doc.DataSources[id]
	if !ok {
		r.logger.Warn("node references undefined data source", zap.String("data_source", id))
		return nil, false
	}
	switch source.Type {
	case document.SourceStatic:
		return source.Value, true
	case document.SourceBinding:
		if source.Template != "" {
			return r.eval.Compile(source.Template).Value(vars), true
		}
		return r.binding(source.Path, vars), true
	default:
		return nil, false
	}
}

// binding evaluates a direct binding path to its raw value.
func (r *Resolver) binding(path string, vars expr.Vars) any {
	if path == "" {
		return nil
	}
	return r.eval.CompileExpr(path).Value(vars)
}

// resolveStyle picks the node's style (variant selection first), resolves
// the cascade, and merges inline overrides.
func (r *Resolver) resolveStyle(n *document.Node, vars expr.Vars) style.Properties {
	styleID := n.StyleID
	if n.Variants != nil && n.IsSelectedBinding != "" {
		if r.eval.CompileExpr(n.IsSelectedBinding).Bool(vars) {
			styleID = n.Variants.Selected
		} else {
			styleID = n.Variants.Normal
		}
	}

	if styleID == "" {
		if len(n.Inline) == 0 {
			return nil
		}
		props := make(style.Properties, len(n.Inline))
		for k, v := range n.Inline {
			props[k] = v
		}
		return props
	}

	props, err := r.styles.Resolve(styleID, n.Inline)
	if err != nil {
		// Already logged by the style resolver; props degrade to the
		// inline overrides.
		return props
	}
	return props
}

// resolvePlan delegates sectionLayout nodes to the planner.
func (r *Resolver) resolvePlan(n *document.Node, out *Node, vars expr.Vars) {
	if r.planner == nil {
		r.logger.Warn("sectionLayout node without a planner", zap.String("node_id", n.ID))
		return
	}
	plan, err := r.planner.PlanSections(n, vars)
	if err != nil {
		r.logger.Warn("section layout failed",
			zap.String("node_id", n.ID),
			zap.Error(err))
		return
	}
	out.Plan = plan
}
