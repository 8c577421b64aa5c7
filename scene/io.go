package scene

import (
	"encoding/json"
	"io"
)

// LoadSource decodes a JSON-encoded Source from r. The upstream loader
// that actually parses an authoring-tool export is out of scope for
// this module (see the package doc comment); JSON is this module's own
// wire format for an already-parsed scene, the same way package gltf
// round-trips its own Document type through encoding/json rather than
// a bespoke codec.
func LoadSource(r io.Reader) (*Source, error) {
	var src Source
	if err := json.NewDecoder(r).Decode(&src); err != nil {
		return nil, err
	}
	return &src, nil
}

// WriteSource encodes src as indented JSON onto w, the inverse of
// LoadSource. Useful for producing or inspecting fixtures.
func WriteSource(src *Source, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(src)
}
