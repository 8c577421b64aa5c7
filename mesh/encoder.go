package mesh

import (
	"sort"

	"github.com/qmuntal/gltf"

	"github.com/binzume/gltfasm/internal/accessor"
)

// attributeOrder is the fixed emission order for compressed-primitive
// attribute accessors: POSITION/NORMAL/TANGENT/COLOR_0/TEXCOORD_i first
// (matching the uncompressed path in mesh.go), then any other names
// (JOINTS_i/WEIGHTS_i) in lexical order, so two runs over the same
// input always assign the same accessor indices regardless of Go's
// unspecified map iteration order.
var attributeOrder = []string{"POSITION", "NORMAL", "TANGENT", "COLOR_0", "TEXCOORD_0", "TEXCOORD_1"}

// sortedAttributeNames returns attrs's keys in attributeOrder, with any
// remaining names appended in lexical order after.
func sortedAttributeNames(attrs map[string]accessor.Data) []string {
	seen := make(map[string]bool, len(attrs))
	names := make([]string, 0, len(attrs))
	for _, n := range attributeOrder {
		if _, ok := attrs[n]; ok {
			names = append(names, n)
			seen[n] = true
		}
	}
	rest := make([]string, 0, len(attrs)-len(names))
	for n := range attrs {
		if !seen[n] {
			rest = append(rest, n)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

const dracoExtension = "KHR_draco_mesh_compression"

// QuantizationBits carries the per-attribute quantization the encoder
// should target, taken directly from DracoOptions.
type QuantizationBits struct {
	Position int
	TexCoord int
	Normal   int
	Color    int
	Generic  int
}

// EncodeInput is one primitive's geometry handed to the compression
// collaborator: triangle indices as vertex triples, and every
// attribute array the primitive would otherwise have written as plain
// accessors, keyed by glTF attribute semantic (POSITION, NORMAL, ...).
type EncodeInput struct {
	Faces      [][3]uint32
	Attributes map[string]accessor.Data
	Quant      QuantizationBits
	Speed      int
}

// EncodedMesh is the result of compressing one primitive: the raw
// encoded byte blob to embed as a buffer view, and the encoder's
// internal id for each attribute it encoded (the KHR_draco_mesh_
// compression extension references attributes by these ids, not by
// accessor index).
type EncodedMesh struct {
	Data         []byte
	AttributeIDs map[string]uint32
}

// Encoder is the geometry-compression collaborator. No implementation
// in this module performs real Draco compression; internal/dracostub
// provides a disclosed stand-in that exercises this interface without
// claiming compatibility with the real codec.
type Encoder interface {
	Encode(input EncodeInput) (EncodedMesh, error)
}

// buildCompressedPrimitive implements the compressed variant of
// AddSurface's indices/attributes construction (§4.7 steps 3 and 6): a
// stand-alone indices accessor with no buffer view, per-attribute
// stand-alone accessors sized to the vertex count, and a single
// KHR_draco_mesh_compression extension on the primitive pointing at
// the encoded blob and listing the attribute ids the encoder assigned.
func (a *Assembler) buildCompressedPrimitive(prim *gltf.Primitive, sm SurfaceModel) error {
	faces := make([][3]uint32, len(sm.Triangles))
	for i, tri := range sm.Triangles {
		faces[i] = [3]uint32{uint32(tri[0]), uint32(tri[1]), uint32(tri[2])}
	}

	attrs := a.compressedAttributeData(sm)

	q := a.opt.Draco.Quant()
	speed := 10 - a.opt.Draco.CompressionLevel
	encoded, err := a.encoder.Encode(EncodeInput{Faces: faces, Attributes: attrs, Quant: q, Speed: speed})
	if err != nil {
		return err
	}

	idxCT := a.indexWidth(len(sm.Vertices))
	idxAcc := a.acc.AddAccessorNoView(idxCT, gltf.AccessorScalar, uint32(3*len(sm.Triangles)), "")
	prim.Indices = gltf.Index(idxAcc)

	for _, name := range sortedAttributeNames(attrs) {
		data := attrs[name]
		acc := a.acc.AddAccessorNoView(componentTypeFor(name), data.Type(), uint32(data.Len()), "")
		prim.Attributes[name] = acc
		if name == "POSITION" {
			a.acc.SetMinMax(acc, sm.BoundsMin[:], sm.BoundsMax[:])
		}
	}

	view := a.views.RawBufferView(encoded.Data)
	if prim.Extensions == nil {
		prim.Extensions = gltf.Extensions{}
	}
	prim.Extensions[dracoExtension] = map[string]interface{}{
		"bufferView": view,
		"attributes": encoded.AttributeIDs,
	}
	a.doc.ExtensionsUsed = appendUnique(a.doc.ExtensionsUsed, dracoExtension)
	a.doc.ExtensionsRequired = appendUnique(a.doc.ExtensionsRequired, dracoExtension)
	return nil
}

// compressedAttributeData builds the same attribute arrays
// buildAttributes would, but as plain in-memory Data rather than
// bytes written to a buffer view; the encoder consumes and compresses
// them itself.
func (a *Assembler) compressedAttributeData(sm SurfaceModel) map[string]accessor.Data {
	n := len(sm.Vertices)
	out := map[string]accessor.Data{}

	positions := make(accessor.Vec3, n)
	for i, v := range sm.Vertices {
		positions[i] = v.Position
	}
	out["POSITION"] = positions

	if sm.Attrs.Normal {
		normals := make(accessor.Vec3, n)
		for i, v := range sm.Vertices {
			normals[i] = v.Normal
		}
		out["NORMAL"] = normals
	}
	if sm.Attrs.Tangent {
		tangents := make(accessor.Vec4, n)
		for i, v := range sm.Vertices {
			tangents[i] = v.Tangent
		}
		out["TANGENT"] = tangents
	}
	if sm.Attrs.Color {
		colors := make(accessor.Vec4, n)
		for i, v := range sm.Vertices {
			colors[i] = v.Color
		}
		out["COLOR_0"] = colors
	}
	if sm.Attrs.UV0 {
		uv0 := make(accessor.Vec2, n)
		for i, v := range sm.Vertices {
			uv0[i] = v.UV0
		}
		out["TEXCOORD_0"] = uv0
	}
	if sm.Attrs.UV1 {
		uv1 := make(accessor.Vec2, n)
		for i, v := range sm.Vertices {
			uv1[i] = v.UV1
		}
		out["TEXCOORD_1"] = uv1
	}
	return out
}

func componentTypeFor(attrName string) gltf.ComponentType {
	switch attrName {
	case "NORMAL", "TANGENT", "POSITION", "TEXCOORD_0", "TEXCOORD_1", "COLOR_0":
		return gltf.ComponentFloat
	default:
		return gltf.ComponentFloat
	}
}

// Quant converts DracoOptions' flat per-attribute bit widths into the
// grouped shape Encoder.Encode expects.
func (o DracoOptions) Quant() QuantizationBits {
	return QuantizationBits{
		Position: o.QuantBitsPosition,
		TexCoord: o.QuantBitsTexCoord,
		Normal:   o.QuantBitsNormal,
		Color:    o.QuantBitsColor,
		Generic:  o.QuantBitsGeneric,
	}
}
