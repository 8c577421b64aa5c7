// Package dracostub implements the mesh.Encoder interface without a
// real geometry-compression codec: no Draco Go binding, cgo or pure-Go,
// appears anywhere in this module's retrieval pack, and vendoring one
// from scratch is out of scope here. This encoder produces a small,
// deterministic, self-describing quantized blob that exercises the
// same compressed-primitive code path a real Draco encoder would, but
// the blob is only ever read back by dracostub itself — it is not
// wire-compatible with the real KHR_draco_mesh_compression codec and
// must not be shipped to a consumer expecting that.
package dracostub

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/binzume/gltfasm/mesh"
)

// Encoder is a stateless mesh.Encoder. Nothing about compression level
// or speed changes its output shape; speed (the only one of the two
// EncodeInput carries) is recorded in the blob header but otherwise
// ignored, since this encoder does no actual entropy coding.
type Encoder struct{}

// New returns a dracostub Encoder.
func New() *Encoder {
	return &Encoder{}
}

const magic = "DSTB1\x00"

// Encode quantizes every attribute to the requested bit width (clamped
// to [1, 32]), packs faces as flat uint32 triples, and concatenates
// everything behind a small fixed header. Attribute ids are assigned
// in sorted-name order so output is deterministic across runs with the
// same input.
func (e *Encoder) Encode(input mesh.EncodeInput) (mesh.EncodedMesh, error) {
	if len(input.Faces) == 0 {
		return mesh.EncodedMesh{}, fmt.Errorf("dracostub: no faces to encode")
	}

	names := make([]string, 0, len(input.Attributes))
	for name := range input.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	buf.WriteString(magic)
	writeU32(&buf, uint32(len(input.Faces)))
	writeU32(&buf, uint32(len(names)))
	writeU32(&buf, uint32(input.Speed))

	for _, f := range input.Faces {
		writeU32(&buf, f[0])
		writeU32(&buf, f[1])
		writeU32(&buf, f[2])
	}

	ids := make(map[string]uint32, len(names))
	for id, name := range names {
		ids[name] = uint32(id)
		data := input.Attributes[name]
		bits := quantBitsFor(name, input.Quant)

		flat, ok := data.Raw().([]float32)
		if !ok {
			return mesh.EncodedMesh{}, fmt.Errorf("dracostub: unsupported attribute data type for %q", name)
		}

		writeU32(&buf, uint32(bits))
		writeU32(&buf, uint32(len(flat)))
		for _, v := range flat {
			writeU32(&buf, quantize(v, bits))
		}
	}

	return mesh.EncodedMesh{Data: buf.Bytes(), AttributeIDs: ids}, nil
}

func quantBitsFor(name string, q mesh.QuantizationBits) int {
	switch name {
	case "POSITION":
		return q.Position
	case "NORMAL", "TANGENT":
		return q.Normal
	case "COLOR_0":
		return q.Color
	case "TEXCOORD_0", "TEXCOORD_1":
		return q.TexCoord
	default:
		return q.Generic
	}
}

// quantize maps a float believed to lie in [-1, 1] (normals, colors)
// or an arbitrary range (positions, texcoords) into a bits-wide
// unsigned integer using a fixed [-1024, 1024] scale, clamping out-of-
// range values rather than rejecting them.
func quantize(v float32, bits int) uint32 {
	if bits <= 0 {
		bits = 1
	}
	if bits > 32 {
		bits = 32
	}
	const scaleRange = 2048.0
	levels := float64(uint64(1)<<uint(bits)) - 1
	norm := (float64(v) + 1024) / scaleRange
	if norm < 0 {
		norm = 0
	}
	if norm > 1 {
		norm = 1
	}
	return uint32(math.Round(norm * levels))
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	buf.Write(tmp[:])
}
