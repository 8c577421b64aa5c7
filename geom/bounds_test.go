package geom

import "testing"

func TestBounds3AddPoint(t *testing.T) {
	b := NewBounds3()
	b.AddPoint(NewVector3(1, -1, 0))
	b.AddPoint(NewVector3(-1, 1, 2))

	if b.MinArray() != [3]float32{-1, -1, 0} {
		t.Error("min mismatch", b.MinArray())
	}
	if b.MaxArray() != [3]float32{1, 1, 2} {
		t.Error("max mismatch", b.MaxArray())
	}
}
