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

// maxNesting bounds list/compound recursion so a corrupt file cannot blow
// the stack.
const maxNesting = 256

// DecodeFile reads one NBT document from disk. Gzip compression (the game's
// default for .dat files) is detected and handled transparently.
func DecodeFile(path string) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	defer f.Close()

	root, err := Decode(f)
	if err != nil {
		if de, ok := err.(*DecodeError); ok {
			de.Path = path
			return nil, de
		}
		return nil, &DecodeError{Path: path, Err: err}
	}
	return root, nil
}

// Decode reads one NBT document from r. The root must be a named compound
// tag, per the Java-edition file framing.
func Decode(r io.Reader) (*Node, error) {
	br := bufio.NewReader(r)

	magic, err := br.Peek(2)
	if err != nil {
		return nil, &DecodeError{Err: fmt.Errorf("read header: %w", err)}
	}
	if magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, &DecodeError{Err: fmt.Errorf("gzip: %w", err)}
		}
		defer gz.Close()
		br = bufio.NewReader(gz)
	}

	d := &decoder{r: br}
	kind, err := d.readKind()
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	if kind != KindCompound {
		return nil, &DecodeError{Err: fmt.Errorf("root tag is %s, want compound", kind)}
	}
	if _, err := d.readString(); err != nil { // root name, conventionally ""
		return nil, &DecodeError{Err: err}
	}
	root, err := d.readPayload(KindCompound, 0)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return root, nil
}

type decoder struct {
	r   *bufio.Reader
	off int
}

func (d *decoder) readFull(b []byte) error {
	n, err := io.ReadFull(d.r, b)
	d.off += n
	if err != nil {
		return fmt.Errorf("truncated at offset %d: %w", d.off, err)
	}
	return nil
}

func (d *decoder) readKind() (Kind, error) {
	var b [1]byte
	if err := d.readFull(b[:]); err != nil {
		return KindEnd, err
	}
	if b[0] > byte(KindLongArray) {
		return KindEnd, fmt.Errorf("unknown tag %d at offset %d", b[0], d.off)
	}
	return Kind(b[0]), nil
}

func (d *decoder) readInt16() (int16, error) {
	var b [2]byte
	if err := d.readFull(b[:]); err != nil {
		return 0, err
	}
	return int16(binary.BigEndian.Uint16(b[:])), nil
}

func (d *decoder) readInt32() (int32, error) {
	var b [4]byte
	if err := d.readFull(b[:]); err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b[:])), nil
}

func (d *decoder) readInt64() (int64, error) {
	var b [8]byte
	if err := d.readFull(b[:]); err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b[:])), nil
}

func (d *decoder) readString() (string, error) {
	n, err := d.readInt16()
	if err != nil {
		return "", err
	}
	if n < 0 {
		return "", fmt.Errorf("negative string length at offset %d", d.off)
	}
	b := make([]byte, int(n))
	if err := d.readFull(b); err != nil {
		return "", err
	}
	return string(b), nil
}

func (d *decoder) readPayload(kind Kind, depth int) (*Node, error) {
	if depth > maxNesting {
		return nil, fmt.Errorf("nesting deeper than %d at offset %d", maxNesting, d.off)
	}

	switch kind {
	case KindByte:
		var b [1]byte
		if err := d.readFull(b[:]); err != nil {
			return nil, err
		}
		return &Node{kind: KindByte, num: int64(int8(b[0]))}, nil

	case KindShort:
		v, err := d.readInt16()
		if err != nil {
			return nil, err
		}
		return &Node{kind: KindShort, num: int64(v)}, nil

	case KindInt:
		v, err := d.readInt32()
		if err != nil {
			return nil, err
		}
		return &Node{kind: KindInt, num: int64(v)}, nil

	case KindLong:
		v, err := d.readInt64()
		if err != nil {
			return nil, err
		}
		return &Node{kind: KindLong, num: v}, nil

	case KindFloat:
		v, err := d.readInt32()
		if err != nil {
			return nil, err
		}
		return &Node{kind: KindFloat, flt: float64(math.Float32frombits(uint32(v)))}, nil

	case KindDouble:
		v, err := d.readInt64()
		if err != nil {
			return nil, err
		}
		return &Node{kind: KindDouble, flt: math.Float64frombits(uint64(v))}, nil

	case KindByteArray:
		n, err := d.readInt32()
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("negative byte array length at offset %d", d.off)
		}
		raw := make([]byte, int(n))
		if err := d.readFull(raw); err != nil {
			return nil, err
		}
		return &Node{kind: KindByteArray, raw: raw}, nil

	case KindString:
		s, err := d.readString()
		if err != nil {
			return nil, err
		}
		return &Node{kind: KindString, str: s}, nil

	case KindList:
		elemKind, err := d.readKind()
		if err != nil {
			return nil, err
		}
		n, err := d.readInt32()
		if err != nil {
			return nil, err
		}
		if n < 0 {
			n = 0
		}
		if elemKind == KindEnd && n > 0 {
			return nil, fmt.Errorf("non-empty list of end tags at offset %d", d.off)
		}
		elems := make([]*Node, 0, int(n))
		for i := 0; i < int(n); i++ {
			e, err := d.readPayload(elemKind, depth+1)
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
		}
		return &Node{kind: KindList, elems: elems}, nil

	case KindCompound:
		node := &Node{kind: KindCompound, fields: map[string]*Node{}}
		for {
			childKind, err := d.readKind()
			if err != nil {
				return nil, err
			}
			if childKind == KindEnd {
				return node, nil
			}
			name, err := d.readString()
			if err != nil {
				return nil, err
			}
			child, err := d.readPayload(childKind, depth+1)
			if err != nil {
				return nil, err
			}
			if _, dup := node.fields[name]; !dup {
				node.keys = append(node.keys, name)
			}
			node.fields[name] = child
		}

	case KindIntArray:
		n, err := d.readInt32()
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("negative int array length at offset %d", d.off)
		}
		ints := make([]int32, 0, int(n))
		for i := 0; i < int(n); i++ {
			v, err := d.readInt32()
			if err != nil {
				return nil, err
			}
			ints = append(ints, v)
		}
		return &Node{kind: KindIntArray, ints: ints}, nil

	case KindLongArray:
		n, err := d.readInt32()
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("negative long array length at offset %d", d.off)
		}
		longs := make([]int64, 0, int(n))
		for i := 0; i < int(n); i++ {
			v, err := d.readInt64()
			if err != nil {
				return nil, err
			}
			longs = append(longs, v)
		}
		return &Node{kind: KindLongArray, longs: longs}, nil
	}

	return nil, fmt.Errorf("unexpected tag %s at offset %d", kind, d.off)
}
