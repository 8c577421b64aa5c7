package assemble

import (
	"io"

	"github.com/qmuntal/gltf"
)

// WriteText encodes doc as plain-JSON glTF onto w, matching
// gltf.Encoder's default (AsBinary false) mode used throughout the
// pack's own text-output paths.
func WriteText(doc *gltf.Document, w io.Writer) error {
	return gltf.NewEncoder(w).Encode(doc)
}

// WriteGLB encodes doc as a single binary .glb container onto w,
// grounded on vrm/vrm_writer.go and cmd/modelconv/utils.go's AsBinary
// usage. Unlike gltf.SaveBinary, this takes an io.Writer rather than a
// path, so the caller owns the output stream (e.g. writing to a
// zip entry or an in-memory buffer as well as a plain file).
func WriteGLB(doc *gltf.Document, w io.Writer) error {
	enc := gltf.NewEncoder(w)
	enc.AsBinary = true
	return enc.Encode(doc)
}
