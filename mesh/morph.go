package mesh

import (
	"github.com/qmuntal/gltf"

	"github.com/binzume/gltfasm/internal/accessor"
	"github.com/binzume/gltfasm/scene"
)

// buildMorphTargets appends one target (position, optional normal,
// optional tangent) per blend channel on surf to prim, per §4.7 step 5.
func (a *Assembler) buildMorphTargets(prim *gltf.Primitive, sm SurfaceModel, surf *scene.Surface) {
	posAcc := prim.Attributes["POSITION"]
	normalAcc, hasNormalAttr := prim.Attributes["NORMAL"]

	for ci, ch := range surf.BlendChannels {
		target := a.buildMorphTarget(sm, ch, ci, posAcc, normalAcc, hasNormalAttr)
		prim.Targets = append(prim.Targets, target)
	}
}

// buildMorphTarget builds one (position, normal?, tangent?) target for
// blend channel ci.
func (a *Assembler) buildMorphTarget(sm SurfaceModel, ch scene.BlendChannel, ci int, basePosAcc uint32, baseNormalAcc uint32, hasNormalAttr bool) map[string]uint32 {
	n := len(sm.Vertices)

	var sparseIndices []int
	positions := make(accessor.Vec3, 0, n)
	normals := make(accessor.Vec3, 0, n)
	tangents := make(accessor.Vec4, 0, n)
	var minB, maxB [3]float32
	haveBounds := false

	for i, v := range sm.Vertices {
		var delta scene.BlendDelta
		if ci < len(v.Blends) {
			delta = v.Blends[ci]
		}
		if a.opt.DisableSparseBlendShapes || nonZero3(delta.Position) {
			sparseIndices = append(sparseIndices, i)
			positions = append(positions, delta.Position)
			normals = append(normals, delta.Normal)
			tangents = append(tangents, delta.Tangent)
			if !haveBounds {
				minB, maxB = delta.Position, delta.Position
				haveBounds = true
			} else {
				extend(&minB, &maxB, delta.Position)
			}
		}
	}

	target := map[string]uint32{}

	if a.opt.DisableSparseBlendShapes {
		posAcc := a.acc.AddAccessorAndView(gltf.ComponentFloat, gltf.TargetNone, densify(positions, n))
		if haveBounds {
			a.acc.SetMinMax(posAcc, minB[:], maxB[:])
		}
		target["POSITION"] = posAcc
		if a.opt.UseBlendShapeNormals && ch.HasNormals {
			target["NORMAL"] = a.acc.AddAccessorAndView(gltf.ComponentFloat, gltf.TargetNone, densify(normals, n))
		}
		if a.opt.UseBlendShapeTangents && ch.HasTangents {
			target["TANGENT"] = a.acc.AddAccessorAndView(gltf.ComponentFloat, gltf.TargetNone, densifyVec4(tangents, n))
		}
		return target
	}

	if len(sparseIndices) == 0 {
		indicesCT := sparseIndexComponentType(n)
		target["POSITION"] = a.acc.AddEmptySparseAccessor(basePosAcc, indicesCT, "")
		return target
	}

	indicesCT := sparseIndexComponentType(n)
	idxData := makeSparseIndices(sparseIndices, indicesCT)
	indicesView := a.acc.NewIndicesView(indicesCT, idxData)

	posSparse := a.acc.AddSparseAccessorWithView(basePosAcc, indicesView, indicesCT, gltf.ComponentFloat, positions, "")
	if haveBounds {
		a.acc.SetMinMax(posSparse, minB[:], maxB[:])
	}
	target["POSITION"] = posSparse

	if a.opt.UseBlendShapeNormals && ch.HasNormals {
		target["NORMAL"] = a.acc.AddSparseAccessorWithView(tangentBugBase(baseNormalAcc, basePosAcc, hasNormalAttr), indicesView, indicesCT, gltf.ComponentFloat, normals, "")
	}
	if a.opt.UseBlendShapeTangents && ch.HasTangents {
		// Preserved from source behavior: the tangent sparse accessor's
		// base is the NORMAL base accessor, not a tangent base accessor
		// (see tangentBugBase).
		target["TANGENT"] = a.acc.AddSparseAccessorWithView(tangentBugBase(baseNormalAcc, basePosAcc, hasNormalAttr), indicesView, indicesCT, gltf.ComponentFloat, tangents, "")
	}
	return target
}

// tangentBugBase picks the base accessor the tangent (and, per the
// preserved source behavior, the normal) sparse accessor is built
// against: the NORMAL base accessor when the primitive has one,
// falling back to the position accessor for primitives with no NORMAL
// attribute at all.
func tangentBugBase(normalAcc, posAcc uint32, hasNormal bool) uint32 {
	if hasNormal {
		return normalAcc
	}
	return posAcc
}

func nonZero3(v [3]float32) bool {
	return v[0] != 0 || v[1] != 0 || v[2] != 0
}

func extend(min, max *[3]float32, v [3]float32) {
	for i := 0; i < 3; i++ {
		if v[i] < min[i] {
			min[i] = v[i]
		}
		if v[i] > max[i] {
			max[i] = v[i]
		}
	}
}

func sparseIndexComponentType(vertexCount int) gltf.ComponentType {
	if vertexCount <= 256 {
		return gltf.ComponentUbyte
	}
	if vertexCount <= 65536 {
		return gltf.ComponentUshort
	}
	return gltf.ComponentUint
}

func makeSparseIndices(indices []int, ct gltf.ComponentType) accessor.Data {
	switch ct {
	case gltf.ComponentUbyte:
		out := make([]byte, len(indices))
		for i, v := range indices {
			out[i] = byte(v)
		}
		return rawScalarBytes(out)
	case gltf.ComponentUshort:
		out := make([]uint16, len(indices))
		for i, v := range indices {
			out[i] = uint16(v)
		}
		return accessor.ScalarU16(out)
	default:
		out := make([]uint32, len(indices))
		for i, v := range indices {
			out[i] = uint32(v)
		}
		return accessor.ScalarU32(out)
	}
}

// rawScalarBytes adapts a []byte index list (UBYTE component type) to
// the accessor.Data interface.
type rawScalarBytes []byte

func (s rawScalarBytes) Len() int                { return len(s) }
func (s rawScalarBytes) Type() gltf.AccessorType { return gltf.AccessorScalar }
func (s rawScalarBytes) Raw() interface{}        { return []byte(s) }

func densify(sparse accessor.Vec3, n int) accessor.Vec3 {
	if len(sparse) == n {
		return sparse
	}
	out := make(accessor.Vec3, n)
	copy(out, sparse)
	return out
}

func densifyVec4(sparse accessor.Vec4, n int) accessor.Vec4 {
	if len(sparse) == n {
		return sparse
	}
	out := make(accessor.Vec4, n)
	copy(out, sparse)
	return out
}
