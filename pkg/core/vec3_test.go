package core

import (
	"math"
	"testing"
)

func TestVec3_Reflect(t *testing.T) {
	tests := []struct {
		name     string
		incoming Vec3
		normal   Vec3
		expected Vec3
	}{
		{"Straight down", NewVec3(0, -1, 0), NewVec3(0, 1, 0), NewVec3(0, 1, 0)},
		{"45 degrees", NewVec3(1, -1, 0), NewVec3(0, 1, 0), NewVec3(1, 1, 0)},
		{"Grazing", NewVec3(1, 0, 0), NewVec3(0, 1, 0), NewVec3(1, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.incoming.Reflect(tt.normal)
			if result.Subtract(tt.expected).Length() > 1e-9 {
				t.Errorf("Expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestVec3_HasNaN(t *testing.T) {
	if NewVec3(1, 2, 3).HasNaN() {
		t.Error("Expected finite vector to have no NaN")
	}
	if !NewVec3(1, math.NaN(), 3).HasNaN() {
		t.Error("Expected NaN to be detected")
	}
}

func TestVec3_MaxComponent(t *testing.T) {
	if got := NewVec3(0.2, 0.9, 0.5).MaxComponent(); got != 0.9 {
		t.Errorf("Expected 0.9, got %f", got)
	}
}

func TestVec3_NormalizeZero(t *testing.T) {
	if got := NewVec3(0, 0, 0).Normalize(); !got.IsZero() {
		t.Errorf("Expected zero vector, got %v", got)
	}
}
