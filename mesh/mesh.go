// Package mesh builds glTF meshes, primitives, skins, cameras, lights
// and animations from a source scene, using package accessor and
// package binbuf for the underlying byte-level work.
package mesh

import (
	"math"

	"github.com/qmuntal/gltf"

	"github.com/binzume/gltfasm/internal/accessor"
	"github.com/binzume/gltfasm/internal/binbuf"
	"github.com/binzume/gltfasm/internal/diag"
	"github.com/binzume/gltfasm/internal/holder"
	"github.com/binzume/gltfasm/scene"
)

// IndexWidth selects the index component width for a primitive.
type IndexWidth int

const (
	IndexWidthAuto IndexWidth = iota
	IndexWidthNever
	IndexWidthAlways
)

// Options controls MeshAssembler behavior that isn't implied by the
// source scene itself.
type Options struct {
	LongIndices IndexWidth

	DisableSparseBlendShapes bool
	UseBlendShapeNormals     bool
	UseBlendShapeTangents    bool

	UseLightsPunctual bool

	Draco DracoOptions
}

// DracoOptions configures optional geometry compression through the
// Encoder collaborator.
type DracoOptions struct {
	Enabled            bool
	CompressionLevel   int
	QuantBitsPosition  int
	QuantBitsTexCoord  int
	QuantBitsNormal    int
	QuantBitsColor     int
	QuantBitsGeneric   int
}

// Assembler builds mesh/skin/camera/light/animation entities for one
// document, writing bytes through the shared accessor.Table.
type Assembler struct {
	doc   *gltf.Document
	buf   *binbuf.Buffer
	views *binbuf.ViewTable
	acc   *accessor.Table
	warn  diag.Sink

	src *scene.Source
	opt Options

	meshes     *holder.Table[*gltf.Mesh]
	animations *holder.Table[*gltf.Animation]
	skins      *holder.Table[*gltf.Skin]
	cameras    *holder.Table[*gltf.Camera]

	surfaceMeshIndex map[scene.ID]uint32
	// elementView is never set or read: buildIndices allocates a fresh
	// element-array view for every surface model.
	elementView *uint32

	skinBySurface map[scene.ID]uint32
	extraSkins    map[int][]scene.ID // extraSkinIndex -> node ids

	nodeIndex map[scene.ID]uint32

	encoder Encoder
}

// New returns an Assembler writing into doc. nodeIndex maps every
// source node id to its already-created glTF node index (node holder
// construction happens before mesh assembly per the data-flow order).
func New(doc *gltf.Document, buf *binbuf.Buffer, views *binbuf.ViewTable, acc *accessor.Table, src *scene.Source, nodeIndex map[scene.ID]uint32, opt Options, warn diag.Sink) *Assembler {
	if warn == nil {
		warn = diag.Nop{}
	}
	return &Assembler{
		doc:              doc,
		buf:              buf,
		views:            views,
		acc:              acc,
		warn:             warn,
		src:              src,
		opt:              opt,
		meshes:           holder.New(&doc.Meshes),
		animations:       holder.New(&doc.Animations),
		skins:            holder.New(&doc.Skins),
		cameras:          holder.New(&doc.Cameras),
		surfaceMeshIndex: map[scene.ID]uint32{},
		skinBySurface:    map[scene.ID]uint32{},
		extraSkins:       map[int][]scene.ID{},
		nodeIndex:        nodeIndex,
	}
}

// SetEncoder installs the geometry-compression collaborator used when
// opt.Draco.Enabled is set. Without one, compression is silently
// skipped even if requested (a fatal collaborator-failure would be the
// wrong response to a caller that simply never wired an encoder).
func (a *Assembler) SetEncoder(e Encoder) {
	a.encoder = e
}

// SurfaceModel is one per-material slice of a source surface, the
// MeshAssembler's declared input shape: the upstream splits raw
// geometry per material before handing it here.
type SurfaceModel struct {
	SurfaceID  scene.ID
	MaterialID scene.ID
	MaterialIx uint32

	Vertices  []scene.Vertex
	Triangles [][3]int // indices into Vertices

	Attrs VertexAttributes

	BoundsMin [3]float32
	BoundsMax [3]float32
}

// VertexAttributes flags which vertex channels a surface model carries.
type VertexAttributes struct {
	Normal   bool
	Tangent  bool
	Color    bool
	UV0      bool
	UV1      bool
	Joints   int // number of JOINTS_i/WEIGHTS_i groups, 0 if unskinned
}

// resolveMesh returns the mesh index for surfaceID, creating an empty
// mesh on first use so multiple per-material surface models targeting
// the same source surface share one Mesh with multiple primitives.
func (a *Assembler) resolveMesh(surf *scene.Surface) uint32 {
	if ix, ok := a.surfaceMeshIndex[surf.ID]; ok {
		return ix
	}
	m := &gltf.Mesh{Name: surf.Name}
	if len(surf.BlendChannels) > 0 {
		weights := make([]float32, len(surf.BlendChannels))
		for i, c := range surf.BlendChannels {
			weights[i] = c.DefaultDeform
		}
		m.Weights = weights
	}
	ix := a.meshes.Add(m)
	a.surfaceMeshIndex[surf.ID] = ix
	return ix
}

// indexWidth decides UINT16 vs UINT32 for a surface model's indices.
func (a *Assembler) indexWidth(vertexCount int) gltf.ComponentType {
	switch a.opt.LongIndices {
	case IndexWidthAlways:
		return gltf.ComponentUint
	case IndexWidthAuto:
		if vertexCount > 65535 {
			return gltf.ComponentUint
		}
		return gltf.ComponentUshort
	default:
		return gltf.ComponentUshort
	}
}

// AddSurface builds one primitive for sm and appends it to the mesh
// resolved for sm.SurfaceID, per §4.7 steps 1-7. A collaborator failure
// from the compression encoder is fatal, per the assembler's error
// taxonomy, and is returned rather than silently falling back to an
// uncompressed primitive.
func (a *Assembler) AddSurface(surf *scene.Surface, sm SurfaceModel, materials map[scene.ID]uint32) (uint32, error) {
	meshIx := a.resolveMesh(surf)

	prim := &gltf.Primitive{
		Mode:       gltf.PrimitiveTriangles,
		Attributes: map[string]uint32{},
	}
	if matIx, ok := materials[sm.MaterialID]; ok {
		prim.Material = gltf.Index(matIx)
	}

	if a.opt.Draco.Enabled && a.encoder != nil {
		if err := a.buildCompressedPrimitive(prim, sm); err != nil {
			return 0, err
		}
	} else {
		a.buildIndices(prim, sm)
		a.buildAttributes(prim, sm)
	}

	a.buildMorphTargets(prim, sm, surf)

	mesh := a.doc.Meshes[meshIx]
	mesh.Primitives = append(mesh.Primitives, prim)
	return meshIx, nil
}

func (a *Assembler) buildIndices(prim *gltf.Primitive, sm SurfaceModel) {
	ct := a.indexWidth(len(sm.Vertices))
	flat := make([]uint32, 0, len(sm.Triangles)*3)
	for _, tri := range sm.Triangles {
		flat = append(flat, uint32(tri[0]), uint32(tri[1]), uint32(tri[2]))
	}
	view := a.views.GetAligned(gltf.TargetElementArrayBuffer, 4)
	var accIx uint32
	if ct == gltf.ComponentUshort {
		u16 := make([]uint16, len(flat))
		for i, v := range flat {
			u16[i] = uint16(v)
		}
		accIx = a.acc.AddAccessorWithView(view, ct, accessor.ScalarU16(u16), "")
	} else {
		accIx = a.acc.AddAccessorWithView(view, ct, accessor.ScalarU32(flat), "")
	}
	prim.Indices = gltf.Index(accIx)
}

func (a *Assembler) buildAttributes(prim *gltf.Primitive, sm SurfaceModel) {
	n := len(sm.Vertices)
	positions := make(accessor.Vec3, n)
	for i, v := range sm.Vertices {
		positions[i] = v.Position
	}
	posAcc := a.acc.AddAccessorAndView(gltf.ComponentFloat, gltf.TargetArrayBuffer, positions)
	a.acc.SetMinMax(posAcc, sm.BoundsMin[:], sm.BoundsMax[:])
	prim.Attributes["POSITION"] = posAcc

	if sm.Attrs.Normal {
		normals := make(accessor.Vec3, n)
		for i, v := range sm.Vertices {
			normals[i] = v.Normal
		}
		prim.Attributes["NORMAL"] = a.acc.AddAccessorAndView(gltf.ComponentFloat, gltf.TargetArrayBuffer, normals)
	}
	if sm.Attrs.Tangent {
		tangents := make(accessor.Vec4, n)
		for i, v := range sm.Vertices {
			tangents[i] = v.Tangent
		}
		prim.Attributes["TANGENT"] = a.acc.AddAccessorAndView(gltf.ComponentFloat, gltf.TargetArrayBuffer, tangents)
	}
	if sm.Attrs.Color {
		colors := make(accessor.Vec4, n)
		for i, v := range sm.Vertices {
			colors[i] = v.Color
		}
		prim.Attributes["COLOR_0"] = a.acc.AddAccessorAndView(gltf.ComponentFloat, gltf.TargetArrayBuffer, colors)
	}
	if sm.Attrs.UV0 {
		uv0 := make(accessor.Vec2, n)
		for i, v := range sm.Vertices {
			uv0[i] = v.UV0
		}
		prim.Attributes["TEXCOORD_0"] = a.acc.AddAccessorAndView(gltf.ComponentFloat, gltf.TargetArrayBuffer, uv0)
	}
	if sm.Attrs.UV1 {
		uv1 := make(accessor.Vec2, n)
		for i, v := range sm.Vertices {
			uv1[i] = v.UV1
		}
		prim.Attributes["TEXCOORD_1"] = a.acc.AddAccessorAndView(gltf.ComponentFloat, gltf.TargetArrayBuffer, uv1)
	}
	for g := 0; g < sm.Attrs.Joints; g++ {
		joints := make(accessor.Vec4U16, n)
		weights := make(accessor.Vec4, n)
		for i, v := range sm.Vertices {
			if g < len(v.JointIndices) {
				joints[i] = v.JointIndices[g]
			}
			if g < len(v.JointWeights) {
				weights[i] = v.JointWeights[g]
			}
		}
		prim.Attributes[jointsName(g)] = a.acc.AddAccessorAndView(gltf.ComponentUshort, gltf.TargetArrayBuffer, joints)
		prim.Attributes[weightsName(g)] = a.acc.AddAccessorAndView(gltf.ComponentFloat, gltf.TargetArrayBuffer, weights)
	}
}

func jointsName(i int) string {
	if i == 0 {
		return "JOINTS_0"
	}
	return "JOINTS_" + itoa(i)
}

func weightsName(i int) string {
	if i == 0 {
		return "WEIGHTS_0"
	}
	return "WEIGHTS_" + itoa(i)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	digits := []byte{}
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	return string(digits)
}

// radians converts degrees to radians for camera FOV.
func radians(deg float32) float32 {
	return deg * float32(math.Pi) / 180
}
