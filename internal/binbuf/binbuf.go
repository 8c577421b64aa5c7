// Package binbuf implements the single contiguous binary blob a glTF
// document's buffer views point into, plus the buffer-view bookkeeping
// layered on top of it. It works directly against a *gltf.Document the
// same way github.com/qmuntal/gltf's own modeler package does (appending
// to Buffers[0].Data and pushing BufferView/Accessor entries onto the
// document's slices) but exposes the lower-level append/align primitives
// modeler doesn't, which the sparse-accessor and interleaved-attribute
// paths need.
package binbuf

import (
	"github.com/qmuntal/gltf"

	"github.com/binzume/gltfasm/internal/holder"
)

// Buffer wraps the append-only byte arena backing doc.Buffers[0].
type Buffer struct {
	doc *gltf.Document
}

// New returns a Buffer appending to doc's single binary buffer, creating
// it if doc has none yet.
func New(doc *gltf.Document) *Buffer {
	if len(doc.Buffers) == 0 {
		holder.New(&doc.Buffers).Add(&gltf.Buffer{})
	}
	return &Buffer{doc: doc}
}

func (b *Buffer) buf() *gltf.Buffer {
	return b.doc.Buffers[0]
}

// Size returns the current length of the underlying byte arena.
func (b *Buffer) Size() int {
	return len(b.buf().Data)
}

// AppendAligned pads the arena up to alignment bytes, appends data, and
// returns the offset of the first appended byte. alignment of 0 or 1 is
// a no-op pad.
func (b *Buffer) AppendAligned(data []byte, alignment int) int {
	buf := b.buf()
	if alignment > 1 {
		if pad := len(buf.Data) % alignment; pad != 0 {
			buf.Data = append(buf.Data, make([]byte, alignment-pad)...)
		}
	}
	offset := len(buf.Data)
	buf.Data = append(buf.Data, data...)
	buf.ByteLength = uint32(len(buf.Data))
	return offset
}

// RawAppend appends data with no padding, for pre-encoded blobs
// (compressed mesh payloads, embedded images) that must sit at an exact
// byte offset relative to whatever came right before them.
func (b *Buffer) RawAppend(data []byte) int {
	buf := b.buf()
	offset := len(buf.Data)
	buf.Data = append(buf.Data, data...)
	buf.ByteLength = uint32(len(buf.Data))
	return offset
}

// Bytes returns the byte range [offset, offset+length) of the arena.
// The returned slice aliases the buffer's backing array.
func (b *Buffer) Bytes(offset, length int) []byte {
	return b.buf().Data[offset : offset+length]
}

// Doc returns the underlying document, for components that also need to
// append accessors/buffer views directly.
func (b *Buffer) Doc() *gltf.Document {
	return b.doc
}
