package document

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// NodeKind identifies a node variant in the document tree.
type NodeKind string

const (
	KindVStack        NodeKind = "vstack"
	KindHStack        NodeKind = "hstack"
	KindZStack        NodeKind = "zstack"
	KindLabel         NodeKind = "label"
	KindButton        NodeKind = "button"
	KindTextField     NodeKind = "textfield"
	KindToggle        NodeKind = "toggle"
	KindSlider        NodeKind = "slider"
	KindImage         NodeKind = "image"
	KindShape         NodeKind = "shape"
	KindGradient      NodeKind = "gradient"
	KindSpacer        NodeKind = "spacer"
	KindDivider       NodeKind = "divider"
	KindSectionLayout NodeKind = "sectionLayout"
)

// Valid reports whether the kind is a known node variant.
func (k NodeKind) Valid() bool {
	switch k {
	case KindVStack, KindHStack, KindZStack, KindLabel, KindButton,
		KindTextField, KindToggle, KindSlider, KindImage, KindShape,
		KindGradient, KindSpacer, KindDivider, KindSectionLayout:
		return true
	}
	return false
}

// Container reports whether the kind carries ordered children.
func (k NodeKind) Container() bool {
	switch k {
	case KindVStack, KindHStack, KindZStack:
		return true
	}
	return false
}

// Node is a single node spec in the document tree. The Kind tag selects
// which of the kind-specific fields are meaningful.
type Node struct {
	Kind NodeKind `json:"type"`
	ID   string   `json:"id,omitempty"`

	StyleID           string                    `json:"styleId,omitempty"`
	Inline            map[string]any            `json:"style,omitempty"`
	Variants          *StyleVariants            `json:"styles,omitempty"`
	IsSelectedBinding string                    `json:"isSelectedBinding,omitempty"`
	Actions           map[string]*ActionBinding `json:"actions,omitempty"`
	Children          []*Node                   `json:"children,omitempty"`

	// label, button
	Text string `json:"text,omitempty"`

	// textfield, toggle, slider
	Placeholder string  `json:"placeholder,omitempty"`
	BindingPath string  `json:"bindingPath,omitempty"`
	Min         float64 `json:"min,omitempty"`
	Max         float64 `json:"max,omitempty"`
	Step        float64 `json:"step,omitempty"`

	// image
	URL string `json:"url,omitempty"`

	// shape, gradient
	Shape      string   `json:"shape,omitempty"`
	Colors     []string `json:"colors,omitempty"`
	StartPoint string   `json:"startPoint,omitempty"`
	EndPoint   string   `json:"endPoint,omitempty"`

	// label value sourcing
	DataSourceID string `json:"dataSourceId,omitempty"`

	// sectionLayout
	Sections []*Section `json:"sections,omitempty"`
}

// StyleVariants names the styles a node switches between based on its
// selection predicate.
type StyleVariants struct {
	Normal   string `json:"normal"`
	Selected string `json:"selected"`
}

// Style is a named property bag with at most one inheritance parent.
type Style struct {
	Inherits   string
	Properties map[string]any
}

// UnmarshalJSON splits the inheritance pointer out of the property bag.
// Both "inherits" and "baseStyle" spellings are accepted.
func (s *Style) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Properties = make(map[string]any, len(raw))
	for k, v := range raw {
		switch k {
		case "inherits", "baseStyle":
			str, ok := v.(string)
			if !ok {
				return fmt.Errorf("style %s must be a string", k)
			}
			s.Inherits = str
		default:
			s.Properties[k] = v
		}
	}
	return nil
}

// ActionType identifies an action variant.
type ActionType string

const (
	ActionSetState      ActionType = "setState"
	ActionToggleState   ActionType = "toggleState"
	ActionAppendToArray ActionType = "appendToArray"
	ActionToggleInArray ActionType = "toggleInArray"
	ActionSequence      ActionType = "sequence"
	ActionRequest       ActionType = "request"
	ActionShowAlert     ActionType = "showAlert"
	ActionDismiss       ActionType = "dismiss"
	ActionNavigate      ActionType = "navigate"
	ActionCustom        ActionType = "custom"
)

// Valid reports whether the action type is a known variant.
func (t ActionType) Valid() bool {
	switch t {
	case ActionSetState, ActionToggleState, ActionAppendToArray,
		ActionToggleInArray, ActionSequence, ActionRequest,
		ActionShowAlert, ActionDismiss, ActionNavigate, ActionCustom:
		return true
	}
	return false
}

// Action is a single action spec. The Type tag selects which fields apply.
type Action struct {
	Type ActionType `json:"type"`

	// setState, toggleState, appendToArray, toggleInArray
	Path  string   `json:"path,omitempty"`
	Value *Dynamic `json:"value,omitempty"`

	// sequence
	Steps []*Action `json:"steps,omitempty"`

	// request
	Method       string `json:"method,omitempty"`
	URL          string `json:"url,omitempty"`
	LoadingPath  string `json:"loadingPath,omitempty"`
	ResponsePath string `json:"responsePath,omitempty"`
	ErrorPath    string `json:"errorPath,omitempty"`

	// showAlert
	Title   string        `json:"title,omitempty"`
	Message string        `json:"message,omitempty"`
	Buttons []AlertButton `json:"buttons,omitempty"`

	// navigate
	Destination string `json:"destination,omitempty"`

	// custom
	Name   string         `json:"name,omitempty"`
	Params map[string]any `json:"params,omitempty"`
}

// AlertButton is one button of a showAlert intent.
type AlertButton struct {
	Label  string         `json:"label"`
	Role   string         `json:"role,omitempty"`
	Action *ActionBinding `json:"action,omitempty"`
}

// ActionBinding is either a reference to a named document action or an
// inline action spec.
type ActionBinding struct {
	Ref    string
	Inline *Action
}

// UnmarshalJSON accepts a bare string (named reference) or an action object.
func (b *ActionBinding) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return sonic.Unmarshal(data, &b.Ref)
	}
	b.Inline = &Action{}
	return sonic.Unmarshal(data, b.Inline)
}

// Dynamic is a value that is either a literal or a template expression
// wrapped as {"$expr": "<template>"}.
type Dynamic struct {
	Literal any
	Expr    string
}

// UnmarshalJSON recognizes the single-key $expr wrapper; anything else is
// kept as a literal.
func (d *Dynamic) UnmarshalJSON(data []byte) error {
	var raw any
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return err
	}
	if m, ok := raw.(map[string]any); ok && len(m) == 1 {
		if e, ok := m["$expr"].(string); ok {
			d.Expr = e
			return nil
		}
	}
	d.Literal = raw
	return nil
}

// DataSourceType identifies a data source variant.
type DataSourceType string

const (
	SourceStatic  DataSourceType = "static"
	SourceBinding DataSourceType = "binding"
)

// DataSource supplies a value to nodes that reference it by name: a constant,
// a direct state path read, or a template evaluation.
type DataSource struct {
	Type     DataSourceType `json:"type"`
	Value    any            `json:"value,omitempty"`
	Path     string         `json:"path,omitempty"`
	Template string         `json:"template,omitempty"`
}

// LayoutMode identifies a section layout algorithm.
type LayoutMode string

const (
	LayoutList       LayoutMode = "list"
	LayoutGrid       LayoutMode = "grid"
	LayoutHorizontal LayoutMode = "horizontal"
	LayoutFlow       LayoutMode = "flow"
)

// Valid reports whether the mode is a known layout algorithm.
func (m LayoutMode) Valid() bool {
	switch m {
	case LayoutList, LayoutGrid, LayoutHorizontal, LayoutFlow:
		return true
	}
	return false
}

// Section is one section of a sectionLayout node.
type Section struct {
	ID       string         `json:"id,omitempty"`
	Header   *Node          `json:"header,omitempty"`
	Children []*Node        `json:"children,omitempty"`
	Layout   *SectionLayout `json:"layout"`
}

// SectionLayout is the layout descriptor of a section.
type SectionLayout struct {
	Mode         LayoutMode `json:"type"`
	ItemSpacing  float64    `json:"itemSpacing,omitempty"`
	LineSpacing  float64    `json:"lineSpacing,omitempty"`
	Columns      int        `json:"columns,omitempty"`
	ShowsDivider bool       `json:"showsDivider,omitempty"`
	Insets       *Insets    `json:"contentInsets,omitempty"`
}

// Insets is the content inset spec. Later, more specific fields override
// earlier ones: all < horizontal/vertical < specific edge.
type Insets struct {
	All        *float64 `json:"all,omitempty"`
	Horizontal *float64 `json:"horizontal,omitempty"`
	Vertical   *float64 `json:"vertical,omitempty"`
	Top        *float64 `json:"top,omitempty"`
	Bottom     *float64 `json:"bottom,omitempty"`
	Leading    *float64 `json:"leading,omitempty"`
	Trailing   *float64 `json:"trailing,omitempty"`
}

// Document is the parsed, immutable document definition.
type Document struct {
	ID          string                 `json:"id"`
	Version     string                 `json:"version,omitempty"`
	State       map[string]any         `json:"state,omitempty"`
	Styles      map[string]*Style      `json:"styles,omitempty"`
	Actions     map[string]*Action     `json:"actions,omitempty"`
	DataSources map[string]*DataSource `json:"dataSources,omitempty"`
	Root        *Node                  `json:"root"`
}
