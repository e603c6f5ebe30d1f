package testutil

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// HDF5 object header message types.
const (
	h5Dataspace = 0x01
	h5Datatype  = 0x03
	h5Link      = 0x06
	h5Layout    = 0x08
	h5Attribute = 0x0C
)

const (
	h5SuperblockSize = 96
	h5Undefined      = ^uint64(0)
)

var le = binary.LittleEndian

// WriteHDF5 writes a minimal HDF5 file: a version 0 superblock and a root
// group whose attributes and one-dimensional float64 datasets are linked
// directly from its object header. Dataset values are stored compactly
// inside their object headers. Attribute values must be non-empty strings
// or float64.
func WriteHDF5(t testing.TB, name string, attrs []NCAttr, vars ...NCVar) string {
	t.Helper()

	datasets := make([][]byte, len(vars))
	for i, v := range vars {
		if len(v.Values)*8 > math.MaxUint16 {
			t.Fatalf("hdf5 fixture: dataset %s too large for compact storage", v.Name)
		}
		datasets[i] = h5Dataset(v.Values)
	}

	// Link messages have a fixed size per name, so the root header size is
	// known before the dataset addresses are.
	var rootMsgs [][]byte
	for _, a := range attrs {
		msg, ok := h5AttributeMessage(a)
		if !ok {
			t.Fatalf("hdf5 fixture: attribute %s has unsupported value %v", a.Name, a.Value)
		}
		rootMsgs = append(rootMsgs, msg)
	}
	nAttrs := len(rootMsgs)
	for _, v := range vars {
		rootMsgs = append(rootMsgs, h5Message(h5Link, h5LinkData(v.Name, 0)))
	}
	rootSize := len(h5ObjectHeader(rootMsgs...))

	addr := uint64(h5SuperblockSize + rootSize)
	for i, v := range vars {
		rootMsgs[nAttrs+i] = h5Message(h5Link, h5LinkData(v.Name, addr))
		addr += uint64(len(datasets[i]))
	}

	var body []byte
	body = append(body, h5ObjectHeader(rootMsgs...)...)
	for _, d := range datasets {
		body = append(body, d...)
	}
	buf := append(h5Superblock(uint64(h5SuperblockSize+len(body)), h5SuperblockSize), body...)

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write hdf5 fixture: %v", err)
	}
	return path
}

func h5Superblock(eof, rootAddr uint64) []byte {
	b := []byte("\x89HDF\r\n\x1a\n")
	// versions: superblock, free space, root symbol table, reserved,
	// shared header; then offset and length sizes and a reserved byte
	b = append(b, 0, 0, 0, 0, 0, 8, 8, 0)
	b = le.AppendUint16(b, 4)  // group leaf node K
	b = le.AppendUint16(b, 16) // group internal node K
	b = le.AppendUint32(b, 0)  // consistency flags
	b = le.AppendUint64(b, 0)  // base address
	b = le.AppendUint64(b, h5Undefined)
	b = le.AppendUint64(b, eof)
	b = le.AppendUint64(b, h5Undefined) // driver information
	// root group symbol table entry
	b = le.AppendUint64(b, 0)
	b = le.AppendUint64(b, rootAddr)
	b = le.AppendUint32(b, 0) // no cached data
	b = le.AppendUint32(b, 0)
	return append(b, make([]byte, 16)...)
}

func h5ObjectHeader(msgs ...[]byte) []byte {
	var body []byte
	for _, m := range msgs {
		body = append(body, m...)
	}
	b := []byte{1, 0}
	b = le.AppendUint16(b, uint16(len(msgs)))
	b = le.AppendUint32(b, 1) // reference count
	b = le.AppendUint32(b, uint32(len(body)))
	b = append(b, 0, 0, 0, 0)
	return append(b, body...)
}

func h5Message(typ uint16, data []byte) []byte {
	data = h5Pad(data)
	b := le.AppendUint16(nil, typ)
	b = le.AppendUint16(b, uint16(len(data)))
	b = append(b, 0, 0, 0, 0) // flags and reserved
	return append(b, data...)
}

func h5Pad(b []byte) []byte {
	for len(b)%8 != 0 {
		b = append(b, 0)
	}
	return b
}

func h5LinkData(name string, addr uint64) []byte {
	b := []byte{1, 0, byte(len(name))}
	b = append(b, name...)
	return le.AppendUint64(b, addr)
}

func h5DataspaceData(dims ...uint64) []byte {
	b := []byte{1, byte(len(dims)), 0, 0, 0, 0, 0, 0}
	for _, d := range dims {
		b = le.AppendUint64(b, d)
	}
	return b
}

// h5Float64Type describes an IEEE little-endian double.
func h5Float64Type() []byte {
	b := []byte{0x11, 0x20, 63, 0}
	b = le.AppendUint32(b, 8)
	b = le.AppendUint16(b, 0)  // bit offset
	b = le.AppendUint16(b, 64) // precision
	b = append(b, 52, 11, 0, 52)
	return le.AppendUint32(b, 1023)
}

// h5StringType describes a fixed-length, null-terminated ASCII string.
func h5StringType(n int) []byte {
	return le.AppendUint32([]byte{0x13, 0, 0, 0}, uint32(n))
}

func h5Dataset(values []float64) []byte {
	layout := []byte{3, 0}
	layout = le.AppendUint16(layout, uint16(8*len(values)))
	for _, v := range values {
		layout = le.AppendUint64(layout, math.Float64bits(v))
	}
	return h5ObjectHeader(
		h5Message(h5Dataspace, h5DataspaceData(uint64(len(values)))),
		h5Message(h5Datatype, h5Float64Type()),
		h5Message(h5Layout, layout),
	)
}

func h5AttributeMessage(a NCAttr) ([]byte, bool) {
	var dtype, space, data []byte
	switch v := a.Value.(type) {
	case string:
		if v == "" {
			return nil, false
		}
		dtype, space, data = h5StringType(len(v)), h5DataspaceData(), []byte(v)
	case float64:
		dtype, space = h5Float64Type(), h5DataspaceData(1)
		data = le.AppendUint64(nil, math.Float64bits(v))
	default:
		return nil, false
	}

	b := []byte{1, 0}
	b = le.AppendUint16(b, uint16(len(a.Name)+1))
	b = le.AppendUint16(b, uint16(len(dtype)))
	b = le.AppendUint16(b, uint16(len(space)))
	b = append(b, h5Pad(append([]byte(a.Name), 0))...)
	b = append(b, h5Pad(dtype)...)
	b = append(b, h5Pad(space)...)
	return h5Message(h5Attribute, append(b, data...)), true
}
