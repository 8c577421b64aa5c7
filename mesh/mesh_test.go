package mesh

import (
	"testing"

	"github.com/qmuntal/gltf"

	"github.com/binzume/gltfasm/internal/accessor"
	"github.com/binzume/gltfasm/internal/binbuf"
	"github.com/binzume/gltfasm/internal/diag"
	"github.com/binzume/gltfasm/scene"
)

func newAssembler(t *testing.T, opt Options) (*Assembler, *gltf.Document) {
	t.Helper()
	doc := &gltf.Document{}
	buf := binbuf.New(doc)
	views := binbuf.NewViewTable(buf)
	acc := accessor.New(doc, buf, views)
	nodeIndex := map[scene.ID]uint32{}
	a := New(doc, buf, views, acc, &scene.Source{}, nodeIndex, opt, diag.Nop{})
	return a, doc
}

func triangleSurfaceModel() (surf *scene.Surface, sm SurfaceModel) {
	surf = &scene.Surface{ID: 1, Name: "tri"}
	sm = SurfaceModel{
		SurfaceID:  1,
		MaterialID: 5,
		Vertices: []scene.Vertex{
			{Position: [3]float32{0, 0, 0}, Normal: [3]float32{0, 0, 1}},
			{Position: [3]float32{1, 0, 0}, Normal: [3]float32{0, 0, 1}},
			{Position: [3]float32{0, 1, 0}, Normal: [3]float32{0, 0, 1}},
		},
		Triangles: [][3]int{{0, 1, 2}},
		Attrs:     VertexAttributes{Normal: true},
		BoundsMin: [3]float32{0, 0, 0},
		BoundsMax: [3]float32{1, 1, 0},
	}
	return
}

func TestAddSurfaceSingleTriangle(t *testing.T) {
	a, doc := newAssembler(t, Options{})
	surf, sm := triangleSurfaceModel()

	meshIx, err := a.AddSurface(surf, sm, map[scene.ID]uint32{5: 0})
	if err != nil {
		t.Fatal(err)
	}
	if meshIx != 0 || len(doc.Meshes) != 1 {
		t.Fatalf("expected exactly one mesh, got %d meshes", len(doc.Meshes))
	}
	prim := doc.Meshes[0].Primitives[0]
	if prim.Indices == nil {
		t.Fatal("expected an indices accessor")
	}
	posIx, ok := prim.Attributes["POSITION"]
	if !ok {
		t.Fatal("expected a POSITION attribute")
	}
	posAcc := doc.Accessors[posIx]
	if posAcc.Count != 3 {
		t.Errorf("expected 3 positions, got %d", posAcc.Count)
	}
	if posAcc.Min == nil || posAcc.Max == nil {
		t.Error("expected min/max set on POSITION accessor")
	}
	if prim.Material == nil || *prim.Material != 0 {
		t.Error("expected material index 0 resolved from the materials map")
	}
}

func TestIndexWidthAutoSwitchesAtThreshold(t *testing.T) {
	a, _ := newAssembler(t, Options{LongIndices: IndexWidthAuto})
	if ct := a.indexWidth(65535); ct != gltf.ComponentUshort {
		t.Errorf("expected UNSIGNED_SHORT at 65535 vertices, got %v", ct)
	}
	if ct := a.indexWidth(70000); ct != gltf.ComponentUint {
		t.Errorf("expected UNSIGNED_INT at 70000 vertices, got %v", ct)
	}
}

func TestIndexWidthAlwaysForcesLong(t *testing.T) {
	a, _ := newAssembler(t, Options{LongIndices: IndexWidthAlways})
	if ct := a.indexWidth(3); ct != gltf.ComponentUint {
		t.Errorf("expected UNSIGNED_INT when forced, got %v", ct)
	}
}

func TestMultiplePrimitivesShareOneMeshPerSurface(t *testing.T) {
	a, doc := newAssembler(t, Options{})
	surf, sm := triangleSurfaceModel()
	sm2 := sm
	sm2.MaterialID = 6

	if _, err := a.AddSurface(surf, sm, map[scene.ID]uint32{5: 0}); err != nil {
		t.Fatal(err)
	}
	if _, err := a.AddSurface(surf, sm2, map[scene.ID]uint32{6: 1}); err != nil {
		t.Fatal(err)
	}
	if len(doc.Meshes) != 1 {
		t.Fatalf("expected one mesh, got %d", len(doc.Meshes))
	}
	if len(doc.Meshes[0].Primitives) != 2 {
		t.Fatalf("expected two primitives on the shared mesh, got %d", len(doc.Meshes[0].Primitives))
	}
}
