package assemble

import (
	"bytes"
	"testing"

	"github.com/binzume/gltfasm/scene"
)

func triangleSource() *scene.Source {
	return &scene.Source{
		RootID: 0,
		Nodes: []*scene.Node{
			{ID: 0, Name: "root", ChildIDs: []scene.ID{1}, SurfaceID: -1, LightIndex: -1, ExtraSkinIndex: -1},
			{ID: 1, Name: "mesh", SurfaceID: 1, LightIndex: -1, ExtraSkinIndex: -1},
		},
		Surfaces: []*scene.Surface{
			{
				ID:        1,
				Name:      "tri",
				BoundsMin: [3]float32{0, 0, 0},
				BoundsMax: [3]float32{1, 1, 0},
				Attrs:     scene.VertexAttributes{Normal: true},
				Vertices: []scene.Vertex{
					{Position: [3]float32{0, 0, 0}, Normal: [3]float32{0, 0, 1}},
					{Position: [3]float32{1, 0, 0}, Normal: [3]float32{0, 0, 1}},
					{Position: [3]float32{0, 1, 0}, Normal: [3]float32{0, 0, 1}},
				},
				Triangles: []scene.Triangle{{Verts: [3]int{0, 1, 2}, MaterialID: 9}},
			},
		},
		Materials: []*scene.Material{
			{ID: 9, Name: "mat", ShadingModel: scene.ShadingPBRMetRough, MetRough: &scene.MetRoughProps{DiffuseFactor: [4]float32{1, 1, 1, 1}},
				Textures: [8]scene.ID{-1, -1, -1, -1, -1, -1, -1, -1}},
		},
	}
}

func TestRunAssemblesSingleTriangleDocument(t *testing.T) {
	a := New("", nil)
	doc, err := a.Run(triangleSource(), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(doc.Nodes))
	}
	if len(doc.Meshes) != 1 || len(doc.Meshes[0].Primitives) != 1 {
		t.Fatalf("expected one mesh with one primitive, got %+v", doc.Meshes)
	}
	if len(doc.Materials) != 1 {
		t.Fatalf("expected one resolved material, got %d", len(doc.Materials))
	}
	if doc.Nodes[1].Mesh == nil {
		t.Fatal("expected the mesh-bearing node to reference the assembled mesh")
	}
	if len(doc.Scenes) != 1 || len(doc.Scenes[0].Nodes) != 1 || doc.Scenes[0].Nodes[0] != 0 {
		t.Fatalf("expected the root scene to point at node 0, got %+v", doc.Scenes)
	}
}

func TestRunUnlitRegistersExtensionUsed(t *testing.T) {
	a := New("", nil)
	opts := DefaultOptions()
	opts.UseKHRMaterialsUnlit = true
	doc, err := a.Run(triangleSource(), opts)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, ext := range doc.ExtensionsUsed {
		if ext == unlitExtension {
			found = true
		}
	}
	if !found {
		t.Errorf("expected %q in extensionsUsed, got %v", unlitExtension, doc.ExtensionsUsed)
	}
}

func TestWriteTextProducesValidJSON(t *testing.T) {
	a := New("", nil)
	doc, err := a.Run(triangleSource(), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteText(doc, &buf); err != nil {
		t.Fatal(err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected non-empty JSON output")
	}
	if buf.Bytes()[0] != '{' {
		t.Errorf("expected JSON object, got %q", buf.Bytes()[:1])
	}
}

func TestWriteGLBProducesBinaryContainer(t *testing.T) {
	a := New("", nil)
	doc, err := a.Run(triangleSource(), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteGLB(doc, &buf); err != nil {
		t.Fatal(err)
	}
	if buf.Len() < 12 {
		t.Fatal("expected at least a 12-byte glTF binary header")
	}
	if string(buf.Bytes()[0:4]) != "glTF" {
		t.Errorf("expected glTF magic, got %q", buf.Bytes()[0:4])
	}
}
