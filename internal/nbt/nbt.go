// Package nbt decodes Minecraft's named binary tag format into a generic
// tagged tree. The game server writes its vault data (bounties, black
// market, crafted modifiers, proficiency) as gzip-compressed NBT files;
// everything downstream of this package walks the decoded tree.
package nbt

import (
	"fmt"
	"strconv"
)

// Kind is the declared tag type of a node. Values match the on-disk tag ids.
type Kind byte

const (
	KindEnd Kind = iota
	KindByte
	KindShort
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindByteArray
	KindString
	KindList
	KindCompound
	KindIntArray
	KindLongArray
)

func (k Kind) String() string {
	switch k {
	case KindEnd:
		return "end"
	case KindByte:
		return "byte"
	case KindShort:
		return "short"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindByteArray:
		return "byte_array"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindCompound:
		return "compound"
	case KindIntArray:
		return "int_array"
	case KindLongArray:
		return "long_array"
	}
	return fmt.Sprintf("kind(%d)", byte(k))
}

// Node is one decoded tag. Nodes are immutable after decoding; the declared
// width of numeric tags is preserved so values string-ize losslessly.
type Node struct {
	kind Kind

	num   int64   // byte, short, int, long
	flt   float64 // float, double
	str   string
	raw   []byte  // byte array
	ints  []int32 // int array
	longs []int64 // long array

	elems []*Node // list

	keys   []string // compound, insertion order
	fields map[string]*Node
}

// Kind reports the declared tag type. A nil node reports KindEnd.
func (n *Node) Kind() Kind {
	if n == nil {
		return KindEnd
	}
	return n.kind
}

// Number returns the integer value of a byte/short/int/long tag, or a
// float/double truncated toward zero. Zero for everything else.
func (n *Node) Number() int64 {
	if n == nil {
		return 0
	}
	switch n.kind {
	case KindByte, KindShort, KindInt, KindLong:
		return n.num
	case KindFloat, KindDouble:
		return int64(n.flt)
	}
	return 0
}

// Float returns the floating point value of a numeric tag.
func (n *Node) Float() float64 {
	if n == nil {
		return 0
	}
	switch n.kind {
	case KindByte, KindShort, KindInt, KindLong:
		return float64(n.num)
	case KindFloat, KindDouble:
		return n.flt
	}
	return 0
}

// Text returns a string tag's value, or the lossless decimal form of a
// numeric tag. The bounty refresh-time handling depends on the decimal
// string of a long keeping every digit.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	switch n.kind {
	case KindString:
		return n.str
	case KindByte, KindShort, KindInt, KindLong:
		return strconv.FormatInt(n.num, 10)
	case KindFloat:
		return strconv.FormatFloat(n.flt, 'g', -1, 32)
	case KindDouble:
		return strconv.FormatFloat(n.flt, 'g', -1, 64)
	}
	return ""
}

// Bytes returns the payload of a byte-array tag.
func (n *Node) Bytes() []byte {
	if n == nil {
		return nil
	}
	return n.raw
}

// Ints returns the payload of an int-array tag.
func (n *Node) Ints() []int32 {
	if n == nil {
		return nil
	}
	return n.ints
}

// Longs returns the payload of a long-array tag.
func (n *Node) Longs() []int64 {
	if n == nil {
		return nil
	}
	return n.longs
}

// Len returns the element count of a list, the key count of a compound, or
// the length of an array tag.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	switch n.kind {
	case KindList:
		return len(n.elems)
	case KindCompound:
		return len(n.keys)
	case KindByteArray:
		return len(n.raw)
	case KindIntArray:
		return len(n.ints)
	case KindLongArray:
		return len(n.longs)
	}
	return 0
}

// Elem returns the i-th element of a list tag, or nil out of range.
func (n *Node) Elem(i int) *Node {
	if n == nil || n.kind != KindList || i < 0 || i >= len(n.elems) {
		return nil
	}
	return n.elems[i]
}

// Elems returns a list tag's elements in order.
func (n *Node) Elems() []*Node {
	if n == nil {
		return nil
	}
	return n.elems
}

// Keys returns a compound tag's keys in insertion order.
func (n *Node) Keys() []string {
	if n == nil {
		return nil
	}
	return n.keys
}

// Field looks up a direct child of a compound tag.
func (n *Node) Field(key string) (*Node, bool) {
	if n == nil || n.kind != KindCompound {
		return nil, false
	}
	c, ok := n.fields[key]
	return c, ok
}

// At descends through nested compounds by key. The extractors routinely
// probe for optional sub-trees, so a missing step is (nil, false), never a
// panic.
func (n *Node) At(keys ...string) (*Node, bool) {
	cur := n
	for _, k := range keys {
		next, ok := cur.Field(k)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, cur != nil
}

// DecodeError reports an absent, truncated, or malformed NBT document.
type DecodeError struct {
	Path string // file path when known, "" for raw streams
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("nbt: %v", e.Err)
	}
	return fmt.Sprintf("nbt: %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
