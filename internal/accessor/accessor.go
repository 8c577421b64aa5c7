// Package accessor builds glTF accessors on top of package binbuf,
// including the sparse-accessor and min/max bookkeeping the pack's
// modeler helpers don't expose directly.
package accessor

import (
	"github.com/qmuntal/gltf"

	"github.com/binzume/gltfasm/internal/binbuf"
	"github.com/binzume/gltfasm/internal/holder"
)

// Table appends accessors and their backing buffer views to a document.
type Table struct {
	doc   *gltf.Document
	buf   *binbuf.Buffer
	views *binbuf.ViewTable

	accessors *holder.Table[*gltf.Accessor]

	dummyIndexViews map[gltf.ComponentType]uint32
	dummyValueView  *uint32
}

// New returns a Table writing into doc through buf/views.
func New(doc *gltf.Document, buf *binbuf.Buffer, views *binbuf.ViewTable) *Table {
	return &Table{doc: doc, buf: buf, views: views, accessors: holder.New(&doc.Accessors)}
}

// Data is anything AddAccessorAndView/AddAccessorWithView know how to
// count and copy: a slice of one of the fixed-size vector/scalar types
// glTF accessors carry.
type Data interface {
	Len() int
	Type() gltf.AccessorType
	Raw() interface{}
}

// AddAccessorAndView creates a fresh buffer view sized and targeted for
// data, copies data into it, and returns the new accessor's index. Data
// of length zero must not be passed in; callers are expected to skip
// accessor creation entirely for empty attributes (see the tie-break
// rule on SetMinMax below).
func (t *Table) AddAccessorAndView(ct gltf.ComponentType, target gltf.Target, data Data) uint32 {
	view := t.views.GetAligned(target, 4)
	return t.AddAccessorWithView(view, ct, data, "")
}

// AddAccessorWithView appends data to an existing view (for interleaved
// or batched writes) and creates an accessor over the newly-appended
// range.
func (t *Table) AddAccessorWithView(view uint32, ct gltf.ComponentType, data Data, name string) uint32 {
	bv := t.doc.BufferViews[view]
	byteOffsetBefore := bv.ByteLength
	t.views.CopyToBufferView(view, ct, data.Raw())

	acc := &gltf.Accessor{
		BufferView:    gltf.Index(view),
		ByteOffset:    uint32(byteOffsetBefore),
		ComponentType: ct,
		Type:          data.Type(),
		Count:         uint32(data.Len()),
		Name:          name,
	}
	return t.accessors.Add(acc)
}

// AddAccessorNoView creates an accessor with count entries of type ct
// and no backing buffer view, for primitives whose actual data lives
// in a compressed extension instead of a plain accessor range (the
// glTF spec allows an accessor with bufferView omitted for this case;
// readers that don't understand the compression extension fall back to
// treating it as entirely zero-filled).
func (t *Table) AddAccessorNoView(ct gltf.ComponentType, typ gltf.AccessorType, count uint32, name string) uint32 {
	acc := &gltf.Accessor{
		ComponentType: ct,
		Type:          typ,
		Count:         count,
		Name:          name,
	}
	return t.accessors.Add(acc)
}

// SetMinMax sets explicit min/max on an already-created accessor. Per
// the tie-break rule, callers must not call this for a zero-length
// accessor (which should never have been created); a length-one
// accessor gets identical min and max.
func (t *Table) SetMinMax(acc uint32, min, max []float32) {
	a := t.doc.Accessors[acc]
	a.Min = min
	a.Max = max
}

// dummyViews lazily creates the singleton dummy views shared by every
// empty sparse morph channel: one zero index view per indicesCT (a
// document can mix component types across surfaces of different vertex
// counts, and each width needs its own view) and a single zero Vec3
// value view reused regardless of width.
func (t *Table) dummyViews(indicesCT gltf.ComponentType) (indexView, valueView uint32) {
	if t.dummyIndexViews == nil {
		t.dummyIndexViews = make(map[gltf.ComponentType]uint32)
	}
	if v, ok := t.dummyIndexViews[indicesCT]; ok {
		indexView = v
	} else {
		indexView = t.views.RawBufferView(zeroIndexBytes(indicesCT))
		t.dummyIndexViews[indicesCT] = indexView
	}
	if t.dummyValueView == nil {
		v := t.views.RawBufferView(make([]byte, 12)) // one zero Vec3
		t.dummyValueView = &v
	}
	return indexView, *t.dummyValueView
}

func zeroIndexBytes(ct gltf.ComponentType) []byte {
	switch ct {
	case gltf.ComponentUbyte:
		return []byte{0}
	case gltf.ComponentUshort:
		return []byte{0, 0}
	default:
		return []byte{0, 0, 0, 0}
	}
}

// AddSparseAccessor creates a sparse accessor whose non-sparse fields
// mirror base (so a reader that ignores sparse entirely still sees a
// coherent, if stale, accessor). indicesView/valuesView must already
// hold count entries of indicesCT/valuesCT respectively.
func (t *Table) AddSparseAccessor(base uint32, count uint32, indicesView uint32, indicesCT gltf.ComponentType, valuesView uint32, valuesCT gltf.ComponentType, name string) uint32 {
	baseAcc := t.doc.Accessors[base]
	acc := &gltf.Accessor{
		BufferView:    baseAcc.BufferView,
		ByteOffset:    baseAcc.ByteOffset,
		ComponentType: baseAcc.ComponentType,
		Type:          baseAcc.Type,
		Count:         baseAcc.Count,
		Name:          name,
		Sparse: &gltf.Sparse{
			Count: count,
			Indices: gltf.SparseIndices{
				BufferView:    indicesView,
				ComponentType: indicesCT,
			},
			Values: gltf.SparseValues{
				BufferView: valuesView,
			},
		},
	}
	_ = valuesCT // component type of sparse values is implied by the base accessor per the glTF spec
	return t.accessors.Add(acc)
}

// AddSparseAccessorWithView copies values into a fresh view first, then
// builds the sparse accessor exactly as AddSparseAccessor.
func (t *Table) AddSparseAccessorWithView(base uint32, indicesView uint32, indicesCT gltf.ComponentType, valuesCT gltf.ComponentType, values Data, name string) uint32 {
	valuesView := t.views.GetAligned(gltf.TargetNone, 4)
	t.views.CopyToBufferView(valuesView, valuesCT, values.Raw())
	return t.AddSparseAccessor(base, uint32(values.Len()), indicesView, indicesCT, valuesView, valuesCT, name)
}

// AddEmptySparseAccessor builds a sparse accessor over base using the
// shared dummy index/value views: the accessor reports the base's full
// count, and sparse substitution touches exactly one vertex with a
// zero delta, semantically a no-op. This is the dummy-view protocol for
// morph channels with zero modified vertices.
func (t *Table) AddEmptySparseAccessor(base uint32, indicesCT gltf.ComponentType, name string) uint32 {
	indexView, valueView := t.dummyViews(indicesCT)
	return t.AddSparseAccessor(base, 1, indexView, indicesCT, valueView, gltf.ComponentFloat, name)
}

// NewIndicesView reserves a dedicated buffer view sized for a sparse
// channel's modified-vertex index list and copies indices into it.
func (t *Table) NewIndicesView(indicesCT gltf.ComponentType, indices Data) uint32 {
	view := t.views.GetAligned(gltf.TargetNone, 4)
	t.views.CopyToBufferView(view, indicesCT, indices.Raw())
	return view
}
