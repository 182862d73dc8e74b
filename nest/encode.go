package nest

import (
	"bytes"
	"encoding/json"

	"github.com/huongly92/nestmap/table"
	"gopkg.in/yaml.v3"
)

// goValue renders a table value as a plain Go value for encoding.
func goValue(v table.Value) any {
	switch v.Type {
	case table.TypeNull:
		return nil
	case table.TypeInt:
		return v.Int
	case table.TypeFloat:
		return v.Float
	case table.TypeString:
		return v.Str
	case table.TypeBool:
		return v.Bool
	case table.TypeTuple, table.TypeList:
		items := make([]any, len(v.Items))
		for i, item := range v.Items {
			items[i] = goValue(item)
		}
		return items
	default:
		return nil
	}
}

// MarshalJSON encodes the branch as a JSON object with keys in
// first-appearance order.
func (b *Branch) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range b.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(key.AsString())
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		cb, err := json.Marshal(b.children[key.Key()])
		if err != nil {
			return nil, err
		}
		buf.Write(cb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON encodes the record as a JSON object in column order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(goValue(r.Values[i]))
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (l *Leaf) MarshalJSON() ([]byte, error) {
	return json.Marshal(goValue(l.Value))
}

// MarshalYAML encodes the branch as a YAML mapping with keys in
// first-appearance order.
func (b *Branch) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range b.keys {
		keyNode := &yaml.Node{}
		if err := keyNode.Encode(key.AsString()); err != nil {
			return nil, err
		}
		valNode := &yaml.Node{}
		if err := valNode.Encode(b.children[key.Key()]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}

// MarshalYAML encodes the record as a YAML mapping in column order.
func (r *Record) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for i, col := range r.Columns {
		keyNode := &yaml.Node{}
		if err := keyNode.Encode(col); err != nil {
			return nil, err
		}
		valNode := &yaml.Node{}
		if err := valNode.Encode(goValue(r.Values[i])); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}

func (l *Leaf) MarshalYAML() (interface{}, error) {
	return goValue(l.Value), nil
}
