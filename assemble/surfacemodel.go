package assemble

import (
	"github.com/binzume/gltfasm/geom"
	"github.com/binzume/gltfasm/mesh"
	"github.com/binzume/gltfasm/scene"
)

// splitByMaterial groups a Surface's triangles by MaterialID and
// remaps each group's vertex references into a dense per-model
// vertex list, since a glTF primitive may reference exactly one
// material and one contiguous attribute set. keep intersects with the
// surface's own detected attributes so a caller can drop channels
// (e.g. to force-strip vertex colors) without the surface needing to
// know about that policy.
func splitByMaterial(surf *scene.Surface, keep scene.VertexAttributes) []mesh.SurfaceModel {
	attrs := intersectAttrs(surf.Attrs, keep)

	order := make([]scene.ID, 0, 4)
	groups := make(map[scene.ID][]scene.Triangle, 4)
	for _, tri := range surf.Triangles {
		if _, ok := groups[tri.MaterialID]; !ok {
			order = append(order, tri.MaterialID)
		}
		groups[tri.MaterialID] = append(groups[tri.MaterialID], tri)
	}

	models := make([]mesh.SurfaceModel, 0, len(order))
	for _, matID := range order {
		tris := groups[matID]
		remap := make(map[int]int, len(tris)*3)
		vertices := make([]scene.Vertex, 0, len(tris)*3)
		outTris := make([][3]int, 0, len(tris))

		for _, tri := range tris {
			var outTri [3]int
			for i, srcIx := range tri.Verts {
				newIx, ok := remap[srcIx]
				if !ok {
					newIx = len(vertices)
					remap[srcIx] = newIx
					vertices = append(vertices, surf.Vertices[srcIx])
				}
				outTri[i] = newIx
			}
			outTris = append(outTris, outTri)
		}

		min, max := positionBounds(vertices)
		models = append(models, mesh.SurfaceModel{
			SurfaceID:  surf.ID,
			MaterialID: matID,
			Vertices:   vertices,
			Triangles:  outTris,
			Attrs:      attrs,
			BoundsMin:  min,
			BoundsMax:  max,
		})
	}
	return models
}

// positionBounds recomputes tight POSITION min/max for one split-off
// model rather than reusing the whole surface's bounds, since a single
// surface's per-material groups rarely span its full envelope.
func positionBounds(vertices []scene.Vertex) (min, max [3]float32) {
	b := geom.NewBounds3()
	for _, v := range vertices {
		p := v.Position
		b.AddPoint(&geom.Vector3{X: p[0], Y: p[1], Z: p[2]})
	}
	return b.MinArray(), b.MaxArray()
}

func intersectAttrs(a, b scene.VertexAttributes) mesh.VertexAttributes {
	joints := a.Joints
	if b.Joints < joints {
		joints = b.Joints
	}
	return mesh.VertexAttributes{
		Normal:  a.Normal && b.Normal,
		Tangent: a.Tangent && b.Tangent,
		Color:   a.Color && b.Color,
		UV0:     a.UV0 && b.UV0,
		UV1:     a.UV1 && b.UV1,
		Joints:  joints,
	}
}
