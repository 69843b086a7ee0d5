package document

import "fmt"

// Validate checks the document for load-time fatal problems: missing
// required fields, unknown node/action/layout type tags, leaf nodes with
// children, grid sections with columns < 1, and action references that
// name no defined action. Errors carry the path of the offending spec.
func (d *Document) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("document id is required")
	}
	if d.Root == nil {
		return fmt.Errorf("document %s: root node is required", d.ID)
	}
	if err := d.validateNode(d.Root, "root"); err != nil {
		return err
	}
	for name, action := range d.Actions {
		if action == nil {
			return fmt.Errorf("actions.%s: action is empty", name)
		}
		if err := d.validateAction(action, "actions."+name); err != nil {
			return err
		}
	}
	for name, source := range d.DataSources {
		if source == nil {
			return fmt.Errorf("dataSources.%s: data source is empty", name)
		}
		switch source.Type {
		case SourceStatic, SourceBinding:
		default:
			return fmt.Errorf("dataSources.%s: unknown data source type %q", name, source.Type)
		}
	}
	return nil
}

func (d *Document) validateNode(n *Node, path string) error {
	if n == nil {
		return fmt.Errorf("%s: node is empty", path)
	}
	if !n.Kind.Valid() {
		return fmt.Errorf("%s: unknown node type %q", path, n.Kind)
	}
	if !n.Kind.Container() && n.Kind != KindSectionLayout && len(n.Children) > 0 {
		return fmt.Errorf("%s: %s nodes cannot have children", path, n.Kind)
	}
	for event, binding := range n.Actions {
		if err := d.validateBinding(binding, fmt.Sprintf("%s.actions.%s", path, event)); err != nil {
			return err
		}
	}
	for i, child := range n.Children {
		if err := d.validateNode(child, fmt.Sprintf("%s.children[%d]", path, i)); err != nil {
			return err
		}
	}
	if n.Kind == KindSectionLayout {
		if err := d.validateSections(n, path); err != nil {
			return err
		}
	}
	return nil
}

func (d *Document) validateSections(n *Node, path string) error {
	for i, section := range n.Sections {
		sectionPath := fmt.Sprintf("%s.sections[%d]", path, i)
		if section.Layout == nil {
			return fmt.Errorf("%s: layout is required", sectionPath)
		}
		if !section.Layout.Mode.Valid() {
			return fmt.Errorf("%s: unknown layout type %q", sectionPath, section.Layout.Mode)
		}
		if section.Layout.Mode == LayoutGrid && section.Layout.Columns < 1 {
			return fmt.Errorf("%s: grid layout requires columns >= 1, got %d", sectionPath, section.Layout.Columns)
		}
		if section.Header != nil {
			if err := d.validateNode(section.Header, sectionPath+".header"); err != nil {
				return err
			}
		}
		for j, child := range section.Children {
			if err := d.validateNode(child, fmt.Sprintf("%s.children[%d]", sectionPath, j)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *Document) validateAction(a *Action, path string) error {
	if !a.Type.Valid() {
		return fmt.Errorf("%s: unknown action type %q", path, a.Type)
	}
	switch a.Type {
	case ActionSetState, ActionToggleState, ActionAppendToArray, ActionToggleInArray:
		if a.Path == "" {
			return fmt.Errorf("%s: %s requires a path", path, a.Type)
		}
	case ActionSequence:
		for i, step := range a.Steps {
			if err := d.validateAction(step, fmt.Sprintf("%s.steps[%d]", path, i)); err != nil {
				return err
			}
		}
	case ActionRequest:
		if a.URL == "" {
			return fmt.Errorf("%s: request requires a url", path)
		}
	case ActionShowAlert:
		for i, button := range a.Buttons {
			if button.Action != nil {
				if err := d.validateBinding(button.Action, fmt.Sprintf("%s.buttons[%d].action", path, i)); err != nil {
					return err
				}
			}
		}
	case ActionCustom:
		if a.Name == "" {
			return fmt.Errorf("%s: custom action requires a name", path)
		}
	}
	return nil
}

func (d *Document) validateBinding(b *ActionBinding, path string) error {
	if b == nil {
		return fmt.Errorf("%s: action binding is empty", path)
	}
	if b.Ref != "" {
		if _, ok := d.Actions[b.Ref]; !ok {
			return fmt.Errorf("%s: references undefined action %q", path, b.Ref)
		}
		return nil
	}
	if b.Inline == nil {
		return fmt.Errorf("%s: action binding is empty", path)
	}
	return d.validateAction(b.Inline, path)
}
