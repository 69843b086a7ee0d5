package render

import "github.com/lumenui/lumen/internal/style"

// Node is a fully resolved render tree node. All fields are plain values.
type Node struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`

	Style style.Properties `json:"style,omitempty"`

	Text        string   `json:"text,omitempty"`
	Value       any      `json:"value,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
	Min         float64  `json:"min,omitempty"`
	Max         float64  `json:"max,omitempty"`
	Step        float64  `json:"step,omitempty"`
	URL         string   `json:"url,omitempty"`
	Shape       string   `json:"shape,omitempty"`
	Colors      []string `json:"colors,omitempty"`
	StartPoint  string   `json:"startPoint,omitempty"`
	EndPoint    string   `json:"endPoint,omitempty"`

	// Events lists the event names this node responds to, so a renderer
	// knows which interactions to report back.
	Events []string `json:"events,omitempty"`

	Children []*Node `json:"children,omitempty"`

	// Plan is set on sectionLayout nodes only.
	Plan *Plan `json:"plan,omitempty"`
}

// Plan is the resolved layout plan of a sectionLayout node. It is pure
// data: the renderer performs all pixel arithmetic.
type Plan struct {
	Sections []*PlanSection `json:"sections"`
}

// PlanSection is one resolved section: its header and items plus the
// layout parameters the renderer applies to them.
type PlanSection struct {
	ID     string       `json:"id,omitempty"`
	Header *Node        `json:"header,omitempty"`
	Items  []*Node      `json:"items"`
	Layout LayoutParams `json:"layout"`
}

// LayoutParams are the flattened layout parameters of a section.
type LayoutParams struct {
	Mode         string  `json:"mode"`
	ItemSpacing  float64 `json:"itemSpacing"`
	LineSpacing  float64 `json:"lineSpacing"`
	Columns      int     `json:"columns,omitempty"`
	ShowsDivider bool    `json:"showsDivider,omitempty"`
	Insets       Insets  `json:"insets"`
}

// Insets are resolved edge insets after precedence collapsing.
type Insets struct {
	Top      float64 `json:"top"`
	Bottom   float64 `json:"bottom"`
	Leading  float64 `json:"leading"`
	Trailing float64 `json:"trailing"`
}
