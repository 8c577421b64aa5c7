package mesh

import (
	"sort"

	"github.com/qmuntal/gltf"

	"github.com/binzume/gltfasm/geom"
	"github.com/binzume/gltfasm/internal/accessor"
	"github.com/binzume/gltfasm/scene"
)

// AssignNodeMeshesAndSkins walks every source node with a surface and
// attaches the corresponding mesh (and, for skinned surfaces, a skin)
// to the matching glTF node, per §4.7's node→mesh/skin assignment pass.
// Must run after every AddSurface call for the document's surfaces.
func (a *Assembler) AssignNodeMeshesAndSkins(src *scene.Source) {
	for _, n := range src.Nodes {
		if n.SurfaceID < 0 {
			continue
		}
		surf := src.SurfaceByID(n.SurfaceID)
		if surf == nil {
			a.warn.Warnf("node %q references unknown surface %d", n.Name, n.SurfaceID)
			continue
		}
		meshIx, ok := a.surfaceMeshIndex[surf.ID]
		if !ok {
			continue
		}
		nodeIx, ok := a.nodeIndex[n.ID]
		if !ok {
			continue
		}
		node := a.doc.Nodes[nodeIx]
		node.Mesh = gltf.Index(meshIx)

		if len(surf.JointIDs) > 0 {
			skinIx, ok := a.skinBySurface[surf.ID]
			if !ok {
				skinIx = a.buildSkin(surf)
				a.skinBySurface[surf.ID] = skinIx
			}
			node.Skin = gltf.Index(skinIx)
		}
	}
}

// buildSkin creates a skin for surf: inverse-bind-matrices accessor
// (each matrix transposed to column-major), resolved joint node
// indices, and a reference to the skeleton-root node.
func (a *Assembler) buildSkin(surf *scene.Surface) uint32 {
	joints := make([]uint32, 0, len(surf.JointIDs))
	for _, id := range surf.JointIDs {
		if ix, ok := a.nodeIndex[id]; ok {
			joints = append(joints, ix)
		} else {
			a.warn.Warnf("skin joint references unknown node %d", id)
			joints = append(joints, 0)
		}
	}

	skin := &gltf.Skin{Joints: joints}
	if len(surf.InverseBindMatrices) > 0 {
		mats := make(accessor.Mat4, len(surf.InverseBindMatrices))
		for i, m := range surf.InverseBindMatrices {
			mats[i] = transpose4(m)
		}
		ix := a.acc.AddAccessorAndView(gltf.ComponentFloat, gltf.TargetNone, mats)
		skin.InverseBindMatrices = gltf.Index(ix)
	}
	if rootIx, ok := a.nodeIndex[surf.SkeletonRootID]; ok {
		skin.Skeleton = gltf.Index(rootIx)
	}
	return a.skins.Add(skin)
}

// transpose4 converts a row-major-as-authored matrix into glTF's
// column-major accessor layout ([col][row]), built on geom.Matrix4
// rather than hand-rolled index swapping.
func transpose4(m [4][4]float32) [4][4]float32 {
	flat := make([]geom.Element, 0, 16)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			flat = append(flat, m[i][j])
		}
	}
	return geom.NewMatrix4FromSlice(flat).Transposed().ToMat4Array()
}

// AssignExtraSkins buckets nodes by extraSkinIndex and emits one rigid
// skin (joints only, no inverse-bind matrices) per bucket, attaching it
// to every node in that bucket. Nodes with a negative ExtraSkinIndex
// are excluded.
func (a *Assembler) AssignExtraSkins(src *scene.Source) {
	buckets := map[int][]scene.ID{}
	for _, n := range src.Nodes {
		if n.ExtraSkinIndex < 0 {
			continue
		}
		buckets[n.ExtraSkinIndex] = append(buckets[n.ExtraSkinIndex], n.ID)
	}
	keys := make([]int, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, k := range keys {
		nodeIDs := buckets[k]
		joints := make([]uint32, 0, len(nodeIDs))
		for _, id := range nodeIDs {
			if ix, ok := a.nodeIndex[id]; ok {
				joints = append(joints, ix)
			}
		}
		skinIx := a.skins.Add(&gltf.Skin{Joints: joints})
		for _, id := range nodeIDs {
			if ix, ok := a.nodeIndex[id]; ok {
				a.doc.Nodes[ix].Skin = gltf.Index(skinIx)
			}
		}
	}
}
