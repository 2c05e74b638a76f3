package model

import (
	"strconv"
)

// Kind tags the variant held by a Node.
type Kind int

const (
	KindNull Kind = iota
	KindNumber
	KindString
	KindBool
	KindMap
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindMap:
		return "map"
	case KindList:
		return "list"
	default:
		return "null"
	}
}

// Node is a generic document value: a scalar, a mapping, or a sequence.
// Mapping keys keep their document order.
type Node struct {
	Kind Kind

	num  float64
	str  string
	b    bool
	keys []string
	vals map[string]Node
	list []Node
}

// Field is one key/value pair of a mapping Node.
type Field struct {
	Key   string
	Value Node
}

func Null() Node { return Node{Kind: KindNull} }
func Number(v float64) Node { return Node{Kind: KindNumber, num: v} }
func String(v string) Node { return Node{Kind: KindString, str: v} }
func Bool(v bool) Node { return Node{Kind: KindBool, b: v} }
func List(items ...Node) Node { return Node{Kind: KindList, list: items} }

// Object builds a mapping Node. A repeated key keeps its first position and
// its last value, the way JSON decoders resolve duplicate members.
func Object(fields ...Field) Node {
	n := Node{Kind: KindMap, vals: make(map[string]Node, len(fields))}
	for _, f := range fields {
		if _, seen := n.vals[f.Key]; !seen {
			n.keys = append(n.keys, f.Key)
		}
		n.vals[f.Key] = f.Value
	}
	return n
}

// IsScalar reports whether n is a leaf value (number, string, bool or null).
func (n Node) IsScalar() bool {
	return n.Kind != KindMap && n.Kind != KindList
}

// Keys returns mapping keys in document order. Nil for non-mappings.
func (n Node) Keys() []string {
	return n.keys
}

// Get returns the child stored under key in a mapping.
func (n Node) Get(key string) (Node, bool) {
	if n.Kind != KindMap {
		return Node{}, false
	}
	v, ok := n.vals[key]
	return v, ok
}

// Items returns the elements of a sequence.
func (n Node) Items() []Node {
	return n.list
}

// Len is the number of children of a mapping or sequence, 0 for scalars.
func (n Node) Len() int {
	switch n.Kind {
	case KindMap:
		return len(n.keys)
	case KindList:
		return len(n.list)
	}
	return 0
}

// Float returns the numeric value of a number node.
func (n Node) Float() (float64, bool) {
	if n.Kind != KindNumber {
		return 0, false
	}
	return n.num, true
}

// Text renders a scalar as a stable string key: numbers in their shortest
// decimal form (1 -> "1"), strings verbatim, bools as "true"/"false".
// Null, mappings and sequences have no text form.
func (n Node) Text() (string, bool) {
	switch n.Kind {
	case KindNumber:
		return strconv.FormatFloat(n.num, 'f', -1, 64), true
	case KindString:
		return n.str, true
	case KindBool:
		return strconv.FormatBool(n.b), true
	}
	return "", false
}
