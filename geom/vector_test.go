package geom

import "testing"

func TestVector2(t *testing.T) {
	zero := NewVector2(0, 0)
	if zero.Len() != 0 || zero.LenSqr() != 0 || zero.Dot(zero) != 0 {
		t.Error("len != 0")
	}

	if *NewVector2(1, 0).Add(NewVector2(0, 1)) != *NewVector2(1, 1) {
		t.Error("Vector2.Add()")
	}

	if *NewVector2(3, 4).Sub(NewVector2(1, 1)) != *NewVector2(2, 3) {
		t.Error("Vector2.Sub()")
	}
}

func TestVector3(t *testing.T) {
	zero := NewVector3(0, 0, 0)
	if zero.Len() != 0 || zero.LenSqr() != 0 || zero.Dot(zero) != 0 {
		t.Error("len != 0")
	}

	if *zero.Normalize() != *NewVector3(1, 0, 0) {
		t.Error("Normalize should return a unit vector.", zero.Normalize())
	}

	if *NewVector3(1, 0, 0).Add(NewVector3(0, 1, 0)) != *NewVector3(1, 1, 0) {
		t.Error("Vector3.Add()")
	}

	cross := NewVector3(1, 0, 0).Cross(NewVector3(0, 1, 0))
	if *cross != *NewVector3(0, 0, 1) {
		t.Error("Vector3.Cross()", cross)
	}
}

func TestVector4(t *testing.T) {
	zero := NewVector4(0, 0, 0, 0)
	if zero.Len() != 0 || zero.LenSqr() != 0 || zero.Dot(zero) != 0 {
		t.Error("len != 0")
	}

	if *zero.Normalize() != *NewVector4(0, 0, 0, 1) {
		t.Error("Normalize should return the identity quaternion.", zero.Normalize())
	}

	if *NewVector4(1, 0, 0, 0).Add(NewVector4(0, 1, 0, 0)) != *NewVector4(1, 1, 0, 0) {
		t.Error("Vector4.Add()")
	}
}
