package scene

import (
	"github.com/df07/go-octree-pathtracer/pkg/core"
	"github.com/df07/go-octree-pathtracer/pkg/geometry"
	"github.com/df07/go-octree-pathtracer/pkg/material"
)

// NewDefaultScene creates a row of spheres over a checkered ground with a sphere light
func NewDefaultScene() *Setup {
	ground := material.NewTexturedLambertian(material.NewCheckerTexture(
		core.NewVec3(0.48, 0.48, 0.0),
		core.NewVec3(0.2, 0.3, 0.1),
		200,
	))
	red := material.NewLambertian(core.NewVec3(0.65, 0.25, 0.2))
	blue := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	glass := material.NewDielectric(1.5)

	coatedRed := material.NewSpecularCoated(core.NewVec3(0.65, 0.25, 0.2), 0.05, 1.5)
	silver := material.NewMirror(core.NewVec3(0.8, 0.8, 0.8))
	roughGold := material.NewSpecularCoated(core.NewVec3(0.8, 0.6, 0.2), 0.3, 2.5)
	dusty := material.NewMix(red, blue, 0.5)

	// sphere UVs put v=0 at the zenith
	sky := material.NewTexturedEmissive(material.NewGradientTexture(
		core.NewVec3(1.0, 1.0, 1.0),
		core.NewVec3(1.0, 1.0, 1.0),
		core.NewVec3(0.5, 0.7, 1.0),
		core.NewVec3(0.5, 0.7, 1.0),
	), 1.0)

	objects := []geometry.Object{
		NewGroundQuad(core.NewVec3(0, 0, 0), 100, ground),

		geometry.NewSphere(core.NewVec3(0, 0.5, -1), 0.5, coatedRed),
		geometry.NewSphere(core.NewVec3(-1, 0.5, -1), 0.5, silver),
		geometry.NewSphere(core.NewVec3(1, 0.5, -1), 0.5, roughGold),
		geometry.NewSphere(core.NewVec3(0.5, 0.25, -0.5), 0.25, glass),
		geometry.NewSphere(core.NewVec3(-0.5, 0.2, -0.4), 0.2, dusty),

		// Distant sun and a large textured dome standing in for the sky
		geometry.NewSphere(core.NewVec3(30, 30.5, 15), 10, material.NewEmissive(core.NewVec3(15.0, 14.0, 13.0))),
		geometry.NewSphere(core.NewVec3(0, 0, 0), 500, sky),
	}

	return &Setup{
		Scene:           New(objects...),
		Eye:             core.NewVec3(0, 0.75, 2),
		LookAt:          core.NewVec3(0, 0.5, -1),
		FOV:             40,
		Aperture:        0.05,
		Width:           400,
		Height:          225,
		SamplesPerPixel: 200,
		MaxBounces:      50,
	}
}

// NewGroundQuad creates a large horizontal quad facing up, centered at center.
// Unlike a plane it is bounded and carries UVs for textured ground.
func NewGroundQuad(center core.Vec3, size float64, mat material.Material) *geometry.Quad {
	corner := core.NewVec3(center.X-size/2, center.Y, center.Z-size/2)
	// u × v = (0,0,size) × (size,0,0) points along +Y
	u := core.NewVec3(0, 0, size)
	v := core.NewVec3(size, 0, 0)
	return geometry.NewQuad(corner, u, v, mat)
}
