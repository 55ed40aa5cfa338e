package scene

import (
	"github.com/df07/go-octree-pathtracer/pkg/core"
	"github.com/df07/go-octree-pathtracer/pkg/geometry"
	"github.com/df07/go-octree-pathtracer/pkg/material"
)

// NewCornellScene creates a classic Cornell box with quad walls and a ceiling panel light
func NewCornellScene() *Setup {
	white := material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73))
	red := material.NewLambertian(core.NewVec3(0.65, 0.05, 0.05))
	green := material.NewLambertian(core.NewVec3(0.12, 0.45, 0.15))

	// Cornell box dimensions (standard 555x555x555 units)
	boxSize := 555.0

	// Quads are one-sided, every wall faces the interior
	floor := geometry.NewQuad(
		core.NewVec3(0, 0, 0),
		core.NewVec3(0, 0, boxSize),
		core.NewVec3(boxSize, 0, 0),
		white,
	)
	ceiling := geometry.NewQuad(
		core.NewVec3(0, boxSize, 0),
		core.NewVec3(boxSize, 0, 0),
		core.NewVec3(0, 0, boxSize),
		white,
	)
	backWall := geometry.NewQuad(
		core.NewVec3(0, 0, boxSize),
		core.NewVec3(0, boxSize, 0),
		core.NewVec3(boxSize, 0, 0),
		white,
	)
	leftWall := geometry.NewQuad(
		core.NewVec3(0, 0, 0),
		core.NewVec3(0, boxSize, 0),
		core.NewVec3(0, 0, boxSize),
		red,
	)
	rightWall := geometry.NewQuad(
		core.NewVec3(boxSize, 0, 0),
		core.NewVec3(0, 0, boxSize),
		core.NewVec3(0, boxSize, 0),
		green,
	)

	// Ceiling light, slightly below the ceiling and facing down
	lightSize := 130.0
	lightOffset := (boxSize - lightSize) / 2.0
	light := geometry.NewQuad(
		core.NewVec3(lightOffset, boxSize-1, lightOffset),
		core.NewVec3(lightSize, 0, 0),
		core.NewVec3(0, 0, lightSize),
		material.NewEmissive(core.NewVec3(15.0, 15.0, 15.0)),
	)

	// Tall rotated block and two spheres
	tallBox := geometry.NewBox(
		core.NewVec3(368, 165, 351),
		core.NewVec3(82.5, 165, 82.5),
		core.NewVec3(0, 0.3, 0),
		material.NewPerfectSpecularCoated(core.NewVec3(0.73, 0.73, 0.73), 1.5),
	)
	mirrorSphere := geometry.NewSphere(
		core.NewVec3(185, 82.5, 169),
		82.5,
		material.NewMirror(core.NewVec3(0.8, 0.8, 0.9)),
	)
	glassSphere := geometry.NewSphere(
		core.NewVec3(400, 60, 130),
		60,
		material.NewDielectric(1.5),
	)

	return &Setup{
		Scene: New(floor, ceiling, backWall, leftWall, rightWall, light,
			tallBox, mirrorSphere, glassSphere),
		Eye:             core.NewVec3(278, 278, -800),
		LookAt:          core.NewVec3(278, 278, 0),
		FOV:             40,
		Width:           400,
		Height:          400,
		SamplesPerPixel: 150,
		MaxBounces:      40,
	}
}
