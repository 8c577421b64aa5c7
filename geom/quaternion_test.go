package geom

import (
	"math"
	"testing"
)

func TestQuaternionMulInverse(t *testing.T) {
	half := float32(math.Pi / 6)
	q := NewVector4(0, float32(math.Sin(float64(half))), 0, float32(math.Cos(float64(half))))
	id := q.Mul(q.Inverse())
	if math.Abs(float64(id.X)) > eps || math.Abs(float64(id.Y)) > eps || math.Abs(float64(id.Z)) > eps {
		t.Error("q * q^-1 should be the identity quaternion", id)
	}
	if math.Abs(float64(id.W)-1) > eps {
		t.Error("q * q^-1 should have W == 1", id)
	}
}
