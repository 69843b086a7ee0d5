package document

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
)

// Parse decodes and validates a JSON document definition. Every node is
// guaranteed an ID afterwards; missing IDs are generated as kind-N in
// tree order so event dispatch can address nodes deterministically.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := sonic.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse document JSON: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	assignIDs(&doc)
	return &doc, nil
}

// ParseYAML decodes a YAML-authored document by converting it to JSON first,
// so both formats go through the same typed decode and validation.
func ParseYAML(data []byte) (*Document, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse document YAML: %w", err)
	}
	jsonData, err := sonic.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to convert YAML document: %w", err)
	}
	return Parse(jsonData)
}

// assignIDs fills in missing node IDs with a per-document counter.
func assignIDs(doc *Document) {
	counter := 0
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		if n.ID == "" {
			n.ID = fmt.Sprintf("%s-%d", n.Kind, counter)
			counter++
		}
		for _, child := range n.Children {
			walk(child)
		}
		for _, section := range n.Sections {
			walk(section.Header)
			for _, child := range section.Children {
				walk(child)
			}
		}
	}
	walk(doc.Root)
}

// FindNode returns the node with the given ID, searching the whole tree
// including section headers and children.
func (d *Document) FindNode(id string) *Node {
	var found *Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil || found != nil {
			return
		}
		if n.ID == id {
			found = n
			return
		}
		for _, child := range n.Children {
			walk(child)
		}
		for _, section := range n.Sections {
			walk(section.Header)
			for _, child := range section.Children {
				walk(child)
			}
		}
	}
	walk(d.Root)
	return found
}
