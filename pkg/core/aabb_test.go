package core

import (
	"math"
	"testing"
)

func TestAABB_Intersect(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))

	tests := []struct {
		name      string
		origin    Vec3
		direction Vec3
		wantHit   bool
		wantT     float64
	}{
		{"Head on along Z", NewVec3(0, 0, -5), NewVec3(0, 0, 1), true, 4},
		{"Pointing away", NewVec3(0, 0, -5), NewVec3(0, 0, -1), false, 0},
		{"Passing beside", NewVec3(2, 0, -5), NewVec3(0, 0, 1), false, 0},
		{"Diagonal", NewVec3(-5, -5, -5), NewVec3(1, 1, 1).Normalize(), true, 4 * math.Sqrt(3)},
		{"Origin inside reports miss", NewVec3(0, 0, 0), NewVec3(0, 0, 1), false, 0},
		{"Origin on slab plane with zero component", NewVec3(1, 1, -5), NewVec3(0, 0, 1), false, 0},
		{"Skimming face", NewVec3(0.5, 1, -5), NewVec3(0, 0.01, 1).Normalize(), false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dist, hit := box.Intersect(tt.origin, tt.direction)
			if hit != tt.wantHit {
				t.Fatalf("Expected hit=%v, got %v", tt.wantHit, hit)
			}
			if hit && math.Abs(dist-tt.wantT) > 1e-9 {
				t.Errorf("Expected distance %f, got %f", tt.wantT, dist)
			}
		})
	}
}

func TestAABB_IsInside(t *testing.T) {
	box := NewAABB(NewVec3(0, 0, 0), NewVec3(1, 2, 3))

	if !box.IsInside(NewVec3(0.5, 1, 1.5)) {
		t.Error("Expected center to be inside")
	}
	if !box.IsInside(NewVec3(1, 2, 3)) {
		t.Error("Expected max corner to be inside (inclusive)")
	}
	if box.IsInside(NewVec3(1.0001, 1, 1)) {
		t.Error("Expected point past max X to be outside")
	}
}

func TestAABB_UnionAndGrow(t *testing.T) {
	a := NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 1))
	b := NewAABB(NewVec3(-1, 2, 0.5), NewVec3(0.5, 3, 4))

	u := a.Union(b)
	if u.Min != NewVec3(-1, 0, 0) || u.Max != NewVec3(1, 3, 4) {
		t.Errorf("Unexpected union %v", u)
	}

	g := a.Grow(NewVec3(-2, 0.5, 5))
	if g.Min != NewVec3(-2, 0, 0) || g.Max != NewVec3(1, 1, 5) {
		t.Errorf("Unexpected grown box %v", g)
	}

	if c := u.Center(); c != NewVec3(0, 1.5, 2) {
		t.Errorf("Expected center (0,1.5,2), got %v", c)
	}
}

func TestNewAABB_OrdersCorners(t *testing.T) {
	box := NewAABB(NewVec3(1, -1, 3), NewVec3(-1, 1, 2))
	if !box.IsValid() {
		t.Fatalf("Expected valid box, got %v", box)
	}
	if box.Size() != NewVec3(2, 2, 1) {
		t.Errorf("Expected size (2,2,1), got %v", box.Size())
	}
}
