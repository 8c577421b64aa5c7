package mesh

import (
	"testing"

	"github.com/qmuntal/gltf"

	"github.com/binzume/gltfasm/scene"
)

func TestAssignNodeMeshesAndSkinsBuildsSkinFromJoints(t *testing.T) {
	a, doc := newAssembler(t, Options{})
	surf, sm := triangleSurfaceModel()
	surf.JointIDs = []scene.ID{10, 11}
	surf.InverseBindMatrices = [][4][4]float32{identity4(), scaled4(2)}
	surf.SkeletonRootID = 10

	if _, err := a.AddSurface(surf, sm, map[scene.ID]uint32{5: 0}); err != nil {
		t.Fatal(err)
	}

	doc.Nodes = []*gltf.Node{{}, {}, {}}
	a.nodeIndex[100] = 0
	a.nodeIndex[10] = 1
	a.nodeIndex[11] = 2

	src := &scene.Source{Nodes: []*scene.Node{
		{ID: 100, SurfaceID: 1},
		{ID: 10, SurfaceID: -1},
		{ID: 11, SurfaceID: -1},
	}}

	a.AssignNodeMeshesAndSkins(src)

	node := doc.Nodes[0]
	if node.Mesh == nil || *node.Mesh != 0 {
		t.Fatal("expected node 100 to get mesh 0")
	}
	if node.Skin == nil {
		t.Fatal("expected node 100 to get a skin")
	}
	skin := doc.Skins[*node.Skin]
	if len(skin.Joints) != 2 || skin.Joints[0] != 1 || skin.Joints[1] != 2 {
		t.Errorf("unexpected joints %v", skin.Joints)
	}
	if skin.Skeleton == nil || *skin.Skeleton != 1 {
		t.Error("expected skeleton root to resolve to node index 1")
	}
	if skin.InverseBindMatrices == nil {
		t.Fatal("expected inverse bind matrices accessor")
	}
	ibmAcc := doc.Accessors[*skin.InverseBindMatrices]
	if ibmAcc.Count != 2 {
		t.Errorf("expected 2 inverse bind matrices, got %d", ibmAcc.Count)
	}
}

func TestAssignExtraSkinsBucketsByIndex(t *testing.T) {
	a, doc := newAssembler(t, Options{})
	doc.Nodes = []*gltf.Node{{}, {}, {}}
	a.nodeIndex[1] = 0
	a.nodeIndex[2] = 1
	a.nodeIndex[3] = 2

	src := &scene.Source{Nodes: []*scene.Node{
		{ID: 1, ExtraSkinIndex: 0},
		{ID: 2, ExtraSkinIndex: 0},
		{ID: 3, ExtraSkinIndex: -1},
	}}

	a.AssignExtraSkins(src)

	if len(doc.Skins) != 1 {
		t.Fatalf("expected one rigid skin, got %d", len(doc.Skins))
	}
	if doc.Nodes[2].Skin != nil {
		t.Error("node with negative extraSkinIndex should not get a skin")
	}
	if doc.Nodes[0].Skin == nil || doc.Nodes[1].Skin == nil {
		t.Error("both bucketed nodes should get the rigid skin")
	}
}

func identity4() [4][4]float32 {
	var m [4][4]float32
	for i := 0; i < 4; i++ {
		m[i][i] = 1
	}
	return m
}

func scaled4(s float32) [4][4]float32 {
	m := identity4()
	for i := 0; i < 3; i++ {
		m[i][i] = s
	}
	return m
}
