package nest

import "github.com/huongly92/nestmap/table"

// KeysAt enumerates the keys found level steps below the node reached by
// descending path from root. Level 1 returns the immediate child keys of the
// located node; higher levels walk a breadth-first frontier across every
// branch reached so far. A missing path segment or a frontier that runs out
// of sub-mappings yields an empty result, never an error.
func KeysAt(root Node, path []table.Value, level int) []table.Value {
	node, ok := descendPath(root, path)
	if !ok {
		return nil
	}
	if level < 1 {
		level = 1
	}

	frontier := []Node{node}
	for step := 1; step < level; step++ {
		var next []Node
		for _, n := range frontier {
			next = append(next, subMappings(n)...)
		}
		frontier = next
		if len(frontier) == 0 {
			return nil
		}
	}

	var keys []table.Value
	for _, n := range frontier {
		keys = append(keys, childKeys(n)...)
	}
	return keys
}

// KeysAtAll unions KeysAt over several start paths, de-duplicated, in
// first-appearance order.
func KeysAtAll(root Node, paths [][]table.Value, level int) []table.Value {
	seen := make(map[string]bool)
	var keys []table.Value
	for _, path := range paths {
		for _, key := range KeysAt(root, path, level) {
			k := key.Key()
			if !seen[k] {
				seen[k] = true
				keys = append(keys, key)
			}
		}
	}
	return keys
}

func descendPath(root Node, path []table.Value) (Node, bool) {
	current := root
	for _, seg := range path {
		switch n := current.(type) {
		case *Branch:
			child, ok := n.Child(seg)
			if !ok {
				return nil, false
			}
			current = child
		case *Record:
			v, ok := n.Get(seg.AsString())
			if !ok {
				return nil, false
			}
			current = &Leaf{Value: v}
		default:
			return nil, false
		}
	}
	return current, true
}

// subMappings returns the dict-like children of a node, in key order.
func subMappings(n Node) []Node {
	branch, ok := n.(*Branch)
	if !ok {
		return nil
	}
	var out []Node
	for _, key := range branch.keys {
		child := branch.children[key.Key()]
		switch child.(type) {
		case *Branch, *Record:
			out = append(out, child)
		}
	}
	return out
}

func childKeys(n Node) []table.Value {
	switch node := n.(type) {
	case *Branch:
		return node.Keys()
	case *Record:
		keys := make([]table.Value, len(node.Columns))
		for i, col := range node.Columns {
			keys[i] = table.StrVal(col)
		}
		return keys
	default:
		return nil
	}
}
