// Package holder implements the generic index-assignment table shared
// by the document-level collections this module builds (nodes, meshes,
// materials, skins, cameras, animations, accessors, buffer views,
// buffers, scenes): appending an entry and computing its dense index
// happens in exactly one place instead of being repeated at every call
// site. Lights and textures/images/samplers are appended directly.
package holder

// Table appends items to the slice pointed at by s, in insertion order,
// and hands back the dense index each item was assigned.
type Table[T any] struct {
	s *[]T
}

// New returns a Table that appends into *s. s typically points at a
// *gltf.Document field (doc.Nodes, doc.Meshes, ...) so the table and the
// document always agree on indices.
func New[T any](s *[]T) *Table[T] {
	return &Table[T]{s: s}
}

// Add appends item and returns the index it now occupies.
func (t *Table[T]) Add(item T) uint32 {
	*t.s = append(*t.s, item)
	return uint32(len(*t.s) - 1)
}

// Len returns the current number of items.
func (t *Table[T]) Len() int {
	return len(*t.s)
}
