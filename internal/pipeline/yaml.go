package pipeline

import (
	"iter"
	"strings"

	"gopkg.in/yaml.v3"
)

// Follows alias nodes to the node they refer to.
func deref(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

// Returns the value stored under key in a mapping node, or nil.
func lookup(n *yaml.Node, key string) *yaml.Node {
	n = deref(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return deref(n.Content[i+1])
		}
	}
	return nil
}

// Iterates over the key/value pairs of a mapping node in document order.
func pairs(n *yaml.Node) iter.Seq2[string, *yaml.Node] {
	return func(yield func(string, *yaml.Node) bool) {
		n = deref(n)
		if n == nil || n.Kind != yaml.MappingNode {
			return
		}
		for i := 0; i+1 < len(n.Content); i += 2 {
			if !yield(n.Content[i].Value, deref(n.Content[i+1])) {
				return
			}
		}
	}
}

func isMap(n *yaml.Node) bool {
	n = deref(n)
	return n != nil && n.Kind == yaml.MappingNode
}

func isList(n *yaml.Node) bool {
	n = deref(n)
	return n != nil && n.Kind == yaml.SequenceNode
}

func isScalar(n *yaml.Node) bool {
	n = deref(n)
	return n != nil && n.Kind == yaml.ScalarNode
}

// Whether the node is an explicit or implicit YAML null.
func isNull(n *yaml.Node) bool {
	n = deref(n)
	return n != nil && n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}

// Returns the items of a sequence node, dereferenced.
func items(n *yaml.Node) []*yaml.Node {
	n = deref(n)
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil
	}
	out := make([]*yaml.Node, len(n.Content))
	for i, c := range n.Content {
		out[i] = deref(c)
	}
	return out
}

// Reads a node holding either a single string or a list of strings.
//
// A null node yields an empty list. Returns false if the node is neither,
// or if a list item is not a scalar.
func stringList(n *yaml.Node) ([]string, bool) {
	n = deref(n)
	switch {
	case isNull(n):
		return nil, true
	case isScalar(n):
		return []string{n.Value}, true
	case isList(n):
		out := make([]string, 0, len(n.Content))
		for _, item := range items(n) {
			if !isScalar(item) {
				return nil, false
			}
			out = append(out, item.Value)
		}
		return out, true
	}
	return nil, false
}

// Parses a document and returns its root node.
//
// An empty document yields an empty mapping so that missing sections are
// reported by the caller rather than as a parse error.
func parseDocument(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return &yaml.Node{Kind: yaml.MappingNode}, nil
	}
	root := deref(doc.Content[0])
	if root.Kind == yaml.ScalarNode && strings.TrimSpace(root.Value) == "" {
		return &yaml.Node{Kind: yaml.MappingNode}, nil
	}
	return root, nil
}
