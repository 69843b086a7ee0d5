package layout

import (
	"errors"
	"fmt"

	"github.com/lumenui/lumen/internal/document"
	"github.com/lumenui/lumen/internal/expr"
	"github.com/lumenui/lumen/internal/render"
)

// ErrInvalidColumns reports a grid section whose column count is below 1.
// Validation fails before any plan is produced.
var ErrInvalidColumns = errors.New("grid layout requires columns >= 1")

// Resolver plans sectionLayout nodes. It satisfies render.Planner.
type Resolver struct {
	nodes *render.Resolver
}

// NewResolver creates a planner over the document resolver.
func NewResolver(nodes *render.Resolver) *Resolver {
	return &Resolver{nodes: nodes}
}

// PlanSections validates every section first and only then resolves headers
// and children into a plan.
func (r *Resolver) PlanSections(n *document.Node, vars expr.Vars) (*render.Plan, error) {
	for i, section := range n.Sections {
		if section.Layout == nil {
			return nil, fmt.Errorf("section %d: layout is required", i)
		}
		if !section.Layout.Mode.Valid() {
			return nil, fmt.Errorf("section %d: unknown layout type %q", i, section.Layout.Mode)
		}
		if section.Layout.Mode == document.LayoutGrid && section.Layout.Columns < 1 {
			return nil, fmt.Errorf("section %d: %w, got %d", i, ErrInvalidColumns, section.Layout.Columns)
		}
	}

	plan := &render.Plan{Sections: make([]*render.PlanSection, 0, len(n.Sections))}
	for _, section := range n.Sections {
		resolved := &render.PlanSection{
			ID:     section.ID,
			Layout: params(section.Layout),
			Items:  make([]*render.Node, 0, len(section.Children)),
		}
		if section.Header != nil {
			resolved.Header = r.nodes.Resolve(section.Header, vars)
		}
		for _, child := range section.Children {
			resolved.Items = append(resolved.Items, r.nodes.Resolve(child, vars))
		}
		plan.Sections = append(plan.Sections, resolved)
	}
	return plan, nil
}

func params(l *document.SectionLayout) render.LayoutParams {
	return render.LayoutParams{
		Mode:         string(l.Mode),
		ItemSpacing:  l.ItemSpacing,
		LineSpacing:  l.LineSpacing,
		Columns:      l.Columns,
		ShowsDivider: l.ShowsDivider,
		Insets:       collapseInsets(l.Insets),
	}
}

// collapseInsets applies the inset precedence: all is the base, the axis
// shorthands override it, and specific edges override everything.
func collapseInsets(in *document.Insets) render.Insets {
	var out render.Insets
	if in == nil {
		return out
	}
	if in.All != nil {
		out.Top, out.Bottom, out.Leading, out.Trailing = *in.All, *in.All, *in.All, *in.All
	}
	if in.Horizontal != nil {
		out.Leading, out.Trailing = *in.Horizontal, *in.Horizontal
	}
	if in.Vertical != nil {
		out.Top, out.Bottom = *in.Vertical, *in.Vertical
	}
	if in.Top != nil {
		out.Top = *in.Top
	}
	if in.Bottom != nil {
		out.Bottom = *in.Bottom
	}
	if in.Leading != nil {
		out.Leading = *in.Leading
	}
	if in.Trailing != nil {
		out.Trailing = *in.Trailing
	}
	return out
}
