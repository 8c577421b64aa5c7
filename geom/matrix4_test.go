package geom

import (
	"testing"
)

const eps = 0.000001

func almostEqualVec3(a, b *Vector3) bool {
	return a.Sub(b).Len() < eps
}

func TestMatrix4Identity(t *testing.T) {
	m := NewMatrix4()
	v := NewVector3(1, 2, 3)
	if !almostEqualVec3(m.ApplyTo(v), v) {
		t.Error("identity matrix should not move the point", m.ApplyTo(v))
	}
}

func TestMatrix4Translate(t *testing.T) {
	m := NewTranslateMatrix4(1, 2, 3)
	got := m.ApplyTo(NewVector3(0, 0, 0))
	want := NewVector3(1, 2, 3)
	if !almostEqualVec3(got, want) {
		t.Error("translate mismatch", got, want)
	}
}

func TestMatrix4Transposed(t *testing.T) {
	m := NewTranslateMatrix4(1, 2, 3)
	tt := m.Transposed().Transposed()
	for i := range m {
		if m[i] != tt[i] {
			t.Error("double transpose should be identity", m, tt)
		}
	}
}

func TestMatrix4ToMat4Array(t *testing.T) {
	m := NewTranslateMatrix4(1, 2, 3)
	cols := m.ToMat4Array()
	if cols[3] != [4]Element{1, 2, 3, 1} {
		t.Error("translation should live in the last column", cols[3])
	}
}
