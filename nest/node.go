// Package nest builds arbitrarily deep nested mappings from flat tables and
// provides traversal over the result. A nested result is a tree of Branch
// nodes, one level per hierarchy column, terminating in a Leaf (single value
// column) or a Record (several value columns). Nesting depth always equals
// the hierarchy length.
package nest

import "github.com/huongly92/nestmap/table"

// Node is one level of a nested result: a Branch, a Leaf or a Record.
type Node interface {
	isNode()
}

// Leaf is a terminal slot holding a single value.
type Leaf struct {
	Value table.Value
}

// Record is a terminal slot holding one value per selected column, in the
// caller-given column order.
type Record struct {
	Columns []string
	Values  []table.Value
}

// Get returns the value of a named column.
func (r *Record) Get(col string) (table.Value, bool) {
	for i, c := range r.Columns {
		if c == col {
			return r.Values[i], true
		}
	}
	return table.Null(), false
}

// Branch maps key values to child nodes, preserving first-appearance order.
type Branch struct {
	keys     []table.Value
	children map[string]Node
}

// NewBranch creates an empty branch.
func NewBranch() *Branch {
	return &Branch{children: make(map[string]Node)}
}

// Keys returns the branch keys in first-appearance order.
func (b *Branch) Keys() []table.Value {
	out := make([]table.Value, len(b.keys))
	copy(out, b.keys)
	return out
}

// Len returns the number of keys in the branch.
func (b *Branch) Len() int {
	return len(b.keys)
}

// Child returns the node under the given key.
func (b *Branch) Child(key table.Value) (Node, bool) {
	n, ok := b.children[key.Key()]
	return n, ok
}

// put writes a child node, overwriting any existing node under key.
// Key order records only the first appearance.
func (b *Branch) put(key table.Value, n Node) {
	k := key.Key()
	if _, exists := b.children[k]; !exists {
		b.keys = append(b.keys, key)
	}
	b.children[k] = n
}

// descend returns the child branch under key, creating it if absent.
func (b *Branch) descend(key table.Value) *Branch {
	if n, ok := b.Child(key); ok {
		if sub, ok := n.(*Branch); ok {
			return sub
		}
	}
	sub := NewBranch()
	b.put(key, sub)
	return sub
}

func (*Leaf) isNode()   {}
func (*Record) isNode() {}
func (*Branch) isNode() {}
