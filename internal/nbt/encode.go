package nbt

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/klauspost/compress/gzip"
)

// Builders for assembling trees in code. Used by tools and fixtures; the
// live data path only ever decodes what the game server wrote.

func Byte(v int8) *Node     { return &Node{kind: KindByte, num: int64(v)} }
func Short(v int16) *Node   { return &Node{kind: KindShort, num: int64(v)} }
func Int(v int32) *Node     { return &Node{kind: KindInt, num: int64(v)} }
func Long(v int64) *Node    { return &Node{kind: KindLong, num: v} }
func Float(v float32) *Node { return &Node{kind: KindFloat, flt: float64(v)} }
func Double(v float64) *Node {
	return &Node{kind: KindDouble, flt: v}
}
func String(s string) *Node      { return &Node{kind: KindString, str: s} }
func ByteArray(b []byte) *Node   { return &Node{kind: KindByteArray, raw: b} }
func IntArray(v []int32) *Node   { return &Node{kind: KindIntArray, ints: v} }
func LongArray(v []int64) *Node  { return &Node{kind: KindLongArray, longs: v} }
func List(elems ...*Node) *Node  { return &Node{kind: KindList, elems: elems} }

// Compound returns an empty compound node; populate it with Set.
func Compound() *Node {
	return &Node{kind: KindCompound, fields: map[string]*Node{}}
}

// Set adds or replaces a compound field and returns the node for chaining.
// It panics on non-compound receivers, which is a programming error.
func (n *Node) Set(key string, child *Node) *Node {
	if n.kind != KindCompound {
		panic("nbt: Set on " + n.kind.String())
	}
	if _, dup := n.fields[key]; !dup {
		n.keys = append(n.keys, key)
	}
	n.fields[key] = child
	return n
}

// EncodeFile writes root as a gzip-compressed NBT document, the framing the
// game server uses for its .dat files.
func EncodeFile(path string, root *Node) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	if err := Encode(gz, root); err != nil {
		_ = gz.Close()
		return err
	}
	return gz.Close()
}

// Encode writes root as an uncompressed NBT document with an unnamed root
// compound.
func Encode(w io.Writer, root *Node) error {
	if root.Kind() != KindCompound {
		return fmt.Errorf("nbt: root tag is %s, want compound", root.Kind())
	}
	bw := bufio.NewWriter(w)
	e := &encoder{w: bw}
	e.writeByte(byte(KindCompound))
	e.writeString("")
	if err := e.writePayload(root); err != nil {
		return err
	}
	if e.err != nil {
		return e.err
	}
	return bw.Flush()
}

type encoder struct {
	w   *bufio.Writer
	err error
}

func (e *encoder) writeByte(b byte) {
	if e.err == nil {
		e.err = e.w.WriteByte(b)
	}
}

func (e *encoder) writeFull(b []byte) {
	if e.err == nil {
		_, e.err = e.w.Write(b)
	}
}

func (e *encoder) writeInt16(v int16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(v))
	e.writeFull(b[:])
}

func (e *encoder) writeInt32(v int32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	e.writeFull(b[:])
}

func (e *encoder) writeInt64(v int64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	e.writeFull(b[:])
}

func (e *encoder) writeString(s string) {
	if len(s) > math.MaxInt16 {
		e.err = fmt.Errorf("nbt: string longer than %d", math.MaxInt16)
		return
	}
	e.writeInt16(int16(len(s)))
	e.writeFull([]byte(s))
}

func (e *encoder) writePayload(n *Node) error {
	switch n.Kind() {
	case KindByte:
		e.writeByte(byte(int8(n.num)))
	case KindShort:
		e.writeInt16(int16(n.num))
	case KindInt:
		e.writeInt32(int32(n.num))
	case KindLong:
		e.writeInt64(n.num)
	case KindFloat:
		e.writeInt32(int32(math.Float32bits(float32(n.flt))))
	case KindDouble:
		e.writeInt64(int64(math.Float64bits(n.flt)))
	case KindByteArray:
		e.writeInt32(int32(len(n.raw)))
		e.writeFull(n.raw)
	case KindString:
		e.writeString(n.str)
	case KindList:
		elemKind := KindEnd
		if len(n.elems) > 0 {
			elemKind = n.elems[0].Kind()
		}
		for _, el := range n.elems {
			if el.Kind() != elemKind {
				return fmt.Errorf("nbt: mixed list of %s and %s", elemKind, el.Kind())
			}
		}
		e.writeByte(byte(elemKind))
		e.writeInt32(int32(len(n.elems)))
		for _, el := range n.elems {
			if err := e.writePayload(el); err != nil {
				return err
			}
		}
	case KindCompound:
		for _, k := range n.keys {
			child := n.fields[k]
			e.writeByte(byte(child.Kind()))
			e.writeString(k)
			if err := e.writePayload(child); err != nil {
				return err
			}
		}
		e.writeByte(byte(KindEnd))
	case KindIntArray:
		e.writeInt32(int32(len(n.ints)))
		for _, v := range n.ints {
			e.writeInt32(v)
		}
	case KindLongArray:
		e.writeInt32(int32(len(n.longs)))
		for _, v := range n.longs {
			e.writeInt64(v)
		}
	default:
		return fmt.Errorf("nbt: cannot encode %s tag", n.Kind())
	}
	return e.err
}
