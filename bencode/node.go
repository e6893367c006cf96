package bencode

import (
	"bytes"
	"fmt"
	"math"
)

// Node is a lightweight, read-only view over (buffer, tokens, tokenIndex).
// Node values share the buffer and token array they were built from rather
// than copying anything; a Node is cheap to construct and cheap to discard.
//
// For Dict and List nodes, construction eagerly computes and caches the
// direct-child token indexes and count, so Len, ListItem, DictItem, and
// DictFind never re-walk the token stream.
type Node struct {
	buf         []byte
	tokens      []Token
	index       int
	itemIndexes []int
	count       int
}

func newNode(buf []byte, tokens []Token, index int) *Node {
	n := &Node{buf: buf, tokens: tokens, index: index}
	switch n.Kind() {
	case KindDict, KindList:
		n.itemIndexes, n.count = buildChildIndex(tokens, index)
	}
	return n
}

// Kind returns the node's syntactic category, or KindNone if the index is
// past the end of the token array.
func (n *Node) Kind() Kind {
	if n.index < 0 || n.index >= len(n.tokens) {
		return KindNone
	}
	return n.tokens[n.index].Kind()
}

func (n *Node) token() Token { return n.tokens[n.index] }

// AsInt returns the decoded value of an Int node. It panics if the node is
// not an Int. It returns a recoverable *Error with kind Overflow if the
// digit run cannot be represented in an int64.
func (n *Node) AsInt() (int64, error) {
	if n.Kind() != KindInt {
		panic(fmt.Sprintf("bencode: AsInt on non-Int node (kind %s)", n.Kind()))
	}
	start := n.token().Offset() + 1 // past 'i'
	end := n.tokens[n.index+1].Offset() - 1 // before 'e'
	return parseInt(n.buf[start:end])
}

func parseInt(digits []byte) (int64, error) {
	neg := false
	if len(digits) > 0 && digits[0] == '-' {
		neg = true
		digits = digits[1:]
	}

	var v int64
	for _, c := range digits {
		d := int64(c - '0')
		if v > (math.MaxInt64-d)/10 {
			return 0, errOverflow("integer exceeds int64 range")
		}
		v = v*10 + d
	}
	if neg {
		v = -v
	}
	return v, nil
}

// AsString returns a zero-copy slice of the buffer holding a Str node's
// payload bytes. It panics if the node is not a Str.
func (n *Node) AsString() []byte {
	if n.Kind() != KindStr {
		panic(fmt.Sprintf("bencode: AsString on non-Str node (kind %s)", n.Kind()))
	}
	tok := n.token()
	start := tok.Offset() + tok.HeaderSize() + 1
	end := n.tokens[n.index+1].Offset()
	return n.buf[start:end]
}

// Len returns the number of direct children of a Dict or List node (entry
// count for a dict, element count for a list). It panics on any other
// kind.
func (n *Node) Len() int {
	switch n.Kind() {
	case KindDict, KindList:
		return n.count
	default:
		panic(fmt.Sprintf("bencode: Len on non-container node (kind %s)", n.Kind()))
	}
}

// ListItem returns a view on the i-th element of a List node. It panics if
// the node is not a List or if i is out of range.
func (n *Node) ListItem(i int) *Node {
	if n.Kind() != KindList {
		panic(fmt.Sprintf("bencode: ListItem on non-List node (kind %s)", n.Kind()))
	}
	if i < 0 || i >= n.count {
		panic(fmt.Sprintf("bencode: ListItem index %d out of range [0,%d)", i, n.count))
	}
	return newNode(n.buf, n.tokens, n.itemIndexes[i])
}

// ListItemAsInt is a convenience for ListItem(i).AsInt().
func (n *Node) ListItemAsInt(i int) (int64, error) { return n.ListItem(i).AsInt() }

// ListItemAsString is a convenience for ListItem(i).AsString().
func (n *Node) ListItemAsString(i int) []byte { return n.ListItem(i).AsString() }

// DictItem returns the key and value views of the i-th entry of a Dict
// node. It panics if the node is not a Dict or if i is out of range.
func (n *Node) DictItem(i int) (key, value *Node) {
	if n.Kind() != KindDict {
		panic(fmt.Sprintf("bencode: DictItem on non-Dict node (kind %s)", n.Kind()))
	}
	if i < 0 || i >= n.count {
		panic(fmt.Sprintf("bencode: DictItem index %d out of range [0,%d)", i, n.count))
	}
	keyIdx := n.itemIndexes[i]
	valIdx := keyIdx + n.tokens[keyIdx].NextItem()
	return newNode(n.buf, n.tokens, keyIdx), newNode(n.buf, n.tokens, valIdx)
}

// DictFind linearly scans a Dict node's cached key indexes for a key whose
// payload bytes equal key, and returns the value immediately following it.
// It returns nil if no key matches. It panics if the node is not a Dict.
func (n *Node) DictFind(key []byte) *Node {
	if n.Kind() != KindDict {
		panic(fmt.Sprintf("bencode: DictFind on non-Dict node (kind %s)", n.Kind()))
	}
	for _, keyIdx := range n.itemIndexes {
		keyNode := newNode(n.buf, n.tokens, keyIdx)
		if bytes.Equal(keyNode.AsString(), key) {
			valIdx := keyIdx + n.tokens[keyIdx].NextItem()
			return newNode(n.buf, n.tokens, valIdx)
		}
	}
	return nil
}

// DictFindAsString composes DictFind with a Str extraction. ok is false if
// the key is missing or the value is not a Str.
func (n *Node) DictFindAsString(key []byte) (s []byte, ok bool) {
	v := n.DictFind(key)
	if v == nil || v.Kind() != KindStr {
		return nil, false
	}
	return v.AsString(), true
}

// DictFindAsInt composes DictFind with an Int extraction. ok is false if
// the key is missing, the value is not an Int, or the integer overflows
// int64 (overflow is suppressed at this layer, not returned as an error).
func (n *Node) DictFindAsInt(key []byte) (v int64, ok bool) {
	node := n.DictFind(key)
	if node == nil || node.Kind() != KindInt {
		return 0, false
	}
	val, err := node.AsInt()
	if err != nil {
		return 0, false
	}
	return val, true
}

// DictFindAsList composes DictFind with a List-kind check. ok is false if
// the key is missing or the value is not a List.
func (n *Node) DictFindAsList(key []byte) (list *Node, ok bool) {
	v := n.DictFind(key)
	if v == nil || v.Kind() != KindList {
		return nil, false
	}
	return v, true
}

// DictFindAsDict composes DictFind with a Dict-kind check. ok is false if
// the key is missing or the value is not a Dict.
func (n *Node) DictFindAsDict(key []byte) (dict *Node, ok bool) {
	v := n.DictFind(key)
	if v == nil || v.Kind() != KindDict {
		return nil, false
	}
	return v, true
}
