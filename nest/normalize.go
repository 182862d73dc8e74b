package nest

import "github.com/huongly92/nestmap/table"

// Normalize walks a nested result and reinterprets every string leaf that
// encodes a literal tuple as a structured tuple value. Branch keys are left
// alone. The pass is idempotent: an already-structured tuple is no longer a
// string and passes through untouched, and a tuple-looking string that fails
// to parse stays exactly as it was.
func Normalize(n Node) Node {
	switch node := n.(type) {
	case *Branch:
		for _, key := range node.keys {
			k := key.Key()
			node.children[k] = Normalize(node.children[k])
		}
		return node
	case *Leaf:
		node.Value = normalizeValue(node.Value)
		return node
	case *Record:
		for i, v := range node.Values {
			node.Values[i] = normalizeValue(v)
		}
		return node
	default:
		return n
	}
}

func normalizeValue(v table.Value) table.Value {
	switch v.Type {
	case table.TypeString:
		if tup, ok := parseTupleLiteral(v.Str); ok {
			return tup
		}
		return v
	case table.TypeList:
		for i, item := range v.Items {
			v.Items[i] = normalizeValue(item)
		}
		return v
	default:
		return v
	}
}
