// Package assemble is the SceneSerializer: it composes package scene's
// input contract with binbuf/accessor/texture/material/mesh into a
// finished glTF document, then writes it as plain-JSON+.bin or as a
// single .glb container.
package assemble

import (
	"github.com/qmuntal/gltf"

	"github.com/binzume/gltfasm/internal/accessor"
	"github.com/binzume/gltfasm/internal/binbuf"
	"github.com/binzume/gltfasm/internal/diag"
	"github.com/binzume/gltfasm/internal/dracostub"
	"github.com/binzume/gltfasm/internal/holder"
	"github.com/binzume/gltfasm/material"
	"github.com/binzume/gltfasm/mesh"
	"github.com/binzume/gltfasm/scene"
	"github.com/binzume/gltfasm/texture"
)

// unlitExtension is finalized here because it has no owning component
// call site; KHR_lights_punctual and KHR_draco_mesh_compression are
// registered directly by mesh.Assembler.AddLights and
// mesh.Assembler.buildCompressedPrimitive respectively.
const unlitExtension = "KHR_materials_unlit"

// Options is the assembler's full flag surface (spec.md §6.4), a plain
// struct rather than a builder or functional-options API to match the
// teacher's own `MQOToGLTFOption` shape in converter/mqo2gltf.go.
type Options struct {
	LongIndices mesh.IndexWidth

	KeepAttribs scene.VertexAttributes

	UseKHRMaterialsUnlit     bool
	UseKHRLightsPunctual     bool
	UsePBRMetRough           bool
	EnableUserProperties     bool
	DisableSparseBlendShapes bool
	UseBlendShapeNormals     bool
	UseBlendShapeTangents    bool

	OutputBinary bool
	OutputFolder string

	Draco mesh.DracoOptions

	Verbose bool
}

// DefaultOptions mirrors converter/mqo2gltf.go's NewMQOToGLTFConverter
// nil-option defaulting: a caller that only sets the fields it cares
// about gets a sane baseline for the rest.
func DefaultOptions() Options {
	return Options{
		LongIndices:          mesh.IndexWidthAuto,
		KeepAttribs:          scene.VertexAttributes{Normal: true, Tangent: true, Color: true, UV0: true, UV1: true, Joints: 8},
		UsePBRMetRough:       true,
		UseBlendShapeNormals: true,
	}
}

// Assembler is the top-level entry point, analogous to the teacher's
// converter.MQOToGLTFConverter.
type Assembler struct {
	SrcDir string
	Warn   diag.Sink
}

// New returns an Assembler reading source-relative texture paths from
// srcDir and reporting warnings/summaries to warn (nil defaults to a
// discarding sink).
func New(srcDir string, warn diag.Sink) *Assembler {
	if warn == nil {
		warn = diag.Nop{}
	}
	return &Assembler{SrcDir: srcDir, Warn: warn}
}

// Run implements the full data-flow order: node holder, then
// animations, then per-material texture/material resolution, then
// per-surface mesh assembly, then node→mesh/skin/camera/light
// assignment, then extension bookkeeping and the root scene.
func (a *Assembler) Run(src *scene.Source, opts Options) (*gltf.Document, error) {
	if opts.Verbose {
		a.Warn.Summaryf("nodes=%d surfaces=%d materials=%d animations=%d cameras=%d lights=%d textures=%d",
			len(src.Nodes), len(src.Surfaces), len(src.Materials), len(src.Animations), len(src.Cameras), len(src.Lights), len(src.Textures))
	}

	doc := gltf.NewDocument()
	buf := binbuf.New(doc)
	views := binbuf.NewViewTable(buf)
	acc := accessor.New(doc, buf, views)

	nodeIndex := buildNodes(doc, src, a.Warn)

	meshOpt := mesh.Options{
		LongIndices:              opts.LongIndices,
		DisableSparseBlendShapes: opts.DisableSparseBlendShapes,
		UseBlendShapeNormals:     opts.UseBlendShapeNormals,
		UseBlendShapeTangents:    opts.UseBlendShapeTangents,
		UseLightsPunctual:        opts.UseKHRLightsPunctual,
		Draco:                    opts.Draco,
	}
	assembler := mesh.New(doc, buf, views, acc, src, nodeIndex, meshOpt, a.Warn)
	if opts.Draco.Enabled {
		assembler.SetEncoder(dracostub.New())
	}

	// Animations run immediately after the node holder, ahead of any
	// material/texture/mesh work, so their accessors occupy the indices
	// the data-flow order calls for rather than whatever mesh assembly
	// leaves behind.
	assembler.AddAnimations(src)

	texBuilder := texture.NewFileBuilder(doc, src, a.SrcDir, opts.OutputFolder, a.Warn)
	matResolver := material.New(texBuilder, src, material.Options{
		PBRMetRough: opts.UsePBRMetRough,
		Unlit:       opts.UseKHRMaterialsUnlit,
	})

	materials := make(map[scene.ID]uint32, len(src.Materials))
	matTable := holder.New(&doc.Materials)
	for _, srcMat := range src.Materials {
		if opts.Verbose {
			a.Warn.Summaryf("material %q: %s", srcMat.Name, ormSummary(srcMat))
		}
		gm := matResolver.Resolve(srcMat)
		if opts.EnableUserProperties && len(srcMat.UserProperties) > 0 {
			gm.Extras = srcMat.UserProperties
		}
		materials[srcMat.ID] = matTable.Add(gm)
	}

	for _, surf := range src.Surfaces {
		models := splitByMaterial(surf, opts.KeepAttribs)
		for _, sm := range models {
			if _, err := assembler.AddSurface(surf, sm, materials); err != nil {
				return nil, err
			}
		}
	}

	assembler.AssignNodeMeshesAndSkins(src)
	assembler.AssignExtraSkins(src)
	assembler.AddCameras(src)
	assembler.AddLights(src)

	if opts.EnableUserProperties {
		applyNodeUserProperties(doc, src, nodeIndex)
	}

	finalizeExtensions(doc, opts)
	setRootScene(doc, nodeIndex, src.RootID)

	return doc, nil
}

func ormSummary(m *scene.Material) string {
	occ := m.Texture(scene.TextureUsageOcclusion) >= 0
	rough := m.Texture(scene.TextureUsageRoughness) >= 0
	metal := m.Texture(scene.TextureUsageMetallic) >= 0
	switch {
	case occ && rough && metal:
		return "detected 3 ORM textures"
	case occ || rough || metal:
		return "single ORM texture"
	default:
		return "no ORM textures"
	}
}

func applyNodeUserProperties(doc *gltf.Document, src *scene.Source, nodeIndex map[scene.ID]uint32) {
	for _, n := range src.Nodes {
		if len(n.UserProperties) == 0 {
			continue
		}
		if ix, ok := nodeIndex[n.ID]; ok {
			doc.Nodes[ix].Extras = n.UserProperties
		}
	}
}

// finalizeExtensions computes extensionsUsed/extensionsRequired from
// the flags actually exercised, per spec.md §4.8: unlit is used iff
// requested, punctual lights iff requested and any lights exist,
// compression used and required iff requested (AddLights/AddSurface
// already register the lights/draco tags themselves; this only adds
// the unlit tag, which has no owning component call site).
func finalizeExtensions(doc *gltf.Document, opts Options) {
	if opts.UseKHRMaterialsUnlit {
		doc.ExtensionsUsed = appendUniqueTag(doc.ExtensionsUsed, unlitExtension)
	}
}

func appendUniqueTag(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}

// setRootScene points the document's single scene at the source's root
// node, per spec.md's Scene entity: (name, root node).
func setRootScene(doc *gltf.Document, nodeIndex map[scene.ID]uint32, rootID scene.ID) {
	rootIx, ok := nodeIndex[rootID]
	if !ok {
		return
	}
	if len(doc.Scenes) == 0 {
		doc.Scene = gltf.Index(holder.New(&doc.Scenes).Add(&gltf.Scene{}))
	}
	doc.Scenes[0].Nodes = []uint32{rootIx}
}
