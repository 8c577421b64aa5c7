package accessor

import "github.com/qmuntal/gltf"

// Scalar wraps a flat list of single-component values (indices, morph
// weights, animation times).
type Scalar []float32

func (s Scalar) Len() int                 { return len(s) }
func (s Scalar) Type() gltf.AccessorType  { return gltf.AccessorScalar }
func (s Scalar) Raw() interface{}         { return []float32(s) }

// ScalarU16 is Scalar for UNSIGNED_SHORT-backed data, e.g. triangle
// indices under the 65535-vertex threshold.
type ScalarU16 []uint16

func (s ScalarU16) Len() int                { return len(s) }
func (s ScalarU16) Type() gltf.AccessorType { return gltf.AccessorScalar }
func (s ScalarU16) Raw() interface{}        { return []uint16(s) }

// ScalarU32 is Scalar for UNSIGNED_INT-backed data, used once a mesh's
// vertex count forces long indices.
type ScalarU32 []uint32

func (s ScalarU32) Len() int                { return len(s) }
func (s ScalarU32) Type() gltf.AccessorType { return gltf.AccessorScalar }
func (s ScalarU32) Raw() interface{}        { return []uint32(s) }

// Vec2 wraps texture-coordinate data.
type Vec2 [][2]float32

func (v Vec2) Len() int                { return len(v) }
func (v Vec2) Type() gltf.AccessorType { return gltf.AccessorVec2 }
func (v Vec2) Raw() interface{} {
	out := make([]float32, 0, len(v)*2)
	for _, e := range v {
		out = append(out, e[0], e[1])
	}
	return out
}

// Vec3 wraps position/normal/color-rgb data.
type Vec3 [][3]float32

func (v Vec3) Len() int                { return len(v) }
func (v Vec3) Type() gltf.AccessorType { return gltf.AccessorVec3 }
func (v Vec3) Raw() interface{} {
	out := make([]float32, 0, len(v)*3)
	for _, e := range v {
		out = append(out, e[0], e[1], e[2])
	}
	return out
}

// Vec4 wraps tangent/color-rgba/rotation data.
type Vec4 [][4]float32

func (v Vec4) Len() int                { return len(v) }
func (v Vec4) Type() gltf.AccessorType { return gltf.AccessorVec4 }
func (v Vec4) Raw() interface{} {
	out := make([]float32, 0, len(v)*4)
	for _, e := range v {
		out = append(out, e[0], e[1], e[2], e[3])
	}
	return out
}

// Vec4U16 wraps joint-index data (JOINTS_0).
type Vec4U16 [][4]uint16

func (v Vec4U16) Len() int                { return len(v) }
func (v Vec4U16) Type() gltf.AccessorType { return gltf.AccessorVec4 }
func (v Vec4U16) Raw() interface{} {
	out := make([]uint16, 0, len(v)*4)
	for _, e := range v {
		out = append(out, e[0], e[1], e[2], e[3])
	}
	return out
}

// Mat4 wraps a flat list of column-major 4x4 matrices (inverse-bind
// matrices).
type Mat4 [][4][4]float32

func (m Mat4) Len() int                { return len(m) }
func (m Mat4) Type() gltf.AccessorType { return gltf.AccessorMat4 }
func (m Mat4) Raw() interface{} {
	out := make([]float32, 0, len(m)*16)
	for _, mat := range m {
		for _, col := range mat {
			out = append(out, col[0], col[1], col[2], col[3])
		}
	}
	return out
}
