package geometry

import (
	"github.com/df07/go-octree-pathtracer/pkg/core"
	"github.com/df07/go-octree-pathtracer/pkg/material"
)

// parallelEpsilon is the largest dot(direction, normal) a plane still rejects
const parallelEpsilon = 1e-6

// Plane represents an infinite one-sided plane. It is hit only by rays
// travelling against its normal and never enters the BVH.
type Plane struct {
	Point    core.Vec3 // A point on the plane
	Normal   core.Vec3 // Unit normal of the visible side
	Material material.Material
}

// NewPlane creates a new plane from a point and a normal
func NewPlane(point, normal core.Vec3, material material.Material) *Plane {
	return &Plane{
		Point:    point,
		Normal:   normal.Normalize(),
		Material: material,
	}
}

// Intersect returns the distance to the plane along direction
func (p *Plane) Intersect(origin, direction core.Vec3) (float64, SurfaceData, bool) {
	denom := direction.Dot(p.Normal)
	if denom >= -parallelEpsilon {
		return 0, SurfaceData{}, false
	}

	t := p.Point.Subtract(origin).Dot(p.Normal) / denom
	if t < 0 {
		return 0, SurfaceData{}, false
	}

	return t, SurfaceData{Normal: p.Normal, Material: p.Material}, true
}
