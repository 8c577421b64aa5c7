package binbuf

import (
	"encoding/binary"
	"math"

	"github.com/qmuntal/gltf"

	"github.com/binzume/gltfasm/internal/holder"
)

// ViewTable manages the document's buffer views, backing every one of
// them by the same Buffer.
type ViewTable struct {
	buf         *Buffer
	bufferViews *holder.Table[*gltf.BufferView]
}

// NewViewTable returns a ViewTable appending views/bytes through buf.
func NewViewTable(buf *Buffer) *ViewTable {
	return &ViewTable{buf: buf, bufferViews: holder.New(&buf.Doc().BufferViews)}
}

// componentSize returns the byte width of one component of ct.
func componentSize(ct gltf.ComponentType) int {
	switch ct {
	case gltf.ComponentByte, gltf.ComponentUbyte:
		return 1
	case gltf.ComponentShort, gltf.ComponentUshort:
		return 2
	case gltf.ComponentUint, gltf.ComponentFloat:
		return 4
	default:
		return 4
	}
}

// GetAligned appends a fresh, empty buffer view to the document whose
// start offset already satisfies max(4, alignment), and returns its
// index. Subsequent CopyToBufferView calls extend it.
func (v *ViewTable) GetAligned(target gltf.Target, alignment int) uint32 {
	if alignment < 4 {
		alignment = 4
	}
	offset := v.buf.AppendAligned(nil, alignment)
	view := &gltf.BufferView{
		Buffer:     0,
		ByteOffset: uint32(offset),
		ByteLength: 0,
	}
	if target != gltf.TargetNone {
		view.Target = target
	}
	return v.bufferViews.Add(view)
}

// RawBufferView appends bytes verbatim (no natural-alignment padding
// between elements, used for pre-encoded compressed blobs) and returns
// a buffer view index covering exactly that range.
func (v *ViewTable) RawBufferView(data []byte) uint32 {
	offset := v.buf.RawAppend(data)
	return v.bufferViews.Add(&gltf.BufferView{
		Buffer:     0,
		ByteOffset: uint32(offset),
		ByteLength: uint32(len(data)),
	})
}

// CopyToBufferView little-endian-encodes values and appends them to
// view at the component type's natural alignment, extending the view's
// byte length to cover the new bytes. values must be one of the
// component-scalar slice types below.
func (v *ViewTable) CopyToBufferView(view uint32, ct gltf.ComponentType, values interface{}) {
	data := encodeComponents(ct, values)
	doc := v.buf.Doc()
	bv := doc.BufferViews[view]
	// Natural alignment: pad the shared arena, but only if this would
	// not disturb bytes already claimed by this view (the view always
	// grows from the buffer's current tail while it's being filled).
	size := componentSize(ct)
	offset := v.buf.AppendAligned(data, size)
	if bv.ByteLength == 0 {
		bv.ByteOffset = uint32(offset)
	}
	bv.ByteLength = uint32(offset+len(data)) - bv.ByteOffset
}

func encodeComponents(ct gltf.ComponentType, values interface{}) []byte {
	switch vs := values.(type) {
	case []byte:
		return vs
	case []int8:
		out := make([]byte, len(vs))
		for i, x := range vs {
			out[i] = byte(x)
		}
		return out
	case []uint16:
		out := make([]byte, len(vs)*2)
		for i, x := range vs {
			binary.LittleEndian.PutUint16(out[i*2:], x)
		}
		return out
	case []int16:
		out := make([]byte, len(vs)*2)
		for i, x := range vs {
			binary.LittleEndian.PutUint16(out[i*2:], uint16(x))
		}
		return out
	case []uint32:
		out := make([]byte, len(vs)*4)
		for i, x := range vs {
			binary.LittleEndian.PutUint32(out[i*4:], x)
		}
		return out
	case []float32:
		out := make([]byte, len(vs)*4)
		for i, x := range vs {
			binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(x))
		}
		return out
	default:
		panic("binbuf: unsupported component slice type")
	}
}
