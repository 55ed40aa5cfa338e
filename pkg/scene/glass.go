package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-octree-pathtracer/pkg/core"
	"github.com/df07/go-octree-pathtracer/pkg/geometry"
	"github.com/df07/go-octree-pathtracer/pkg/material"
)

// NewGlassScene creates a caustic study: faceted glass prisms lit by a
// small panel light over a diffuse floor
func NewGlassScene() *Setup {
	floor := material.NewLambertian(core.NewVec3(0.64, 0.64, 0.64))
	glass := material.NewDielectric(1.25)
	tinted := &material.Dielectric{RefractiveIndex: 1.5, Tint: material.NewSolidTexture(core.NewVec3(0.9, 1.0, 0.95))}

	tall := NewPrismMesh(6, 1, 3, glass)
	tall.Transform(mgl64.Translate3D(-4.75, 0, 0).Mul4(mgl64.HomogRotate3DY(0.4)))

	squat := NewPrismMesh(3, 1.2, 1, tinted)
	squat.Transform(mgl64.Translate3D(-2.5, 0, -1.5))

	light := geometry.NewQuad(
		core.NewVec3(-2, 8, 5),
		core.NewVec3(2, 0, 0),
		core.NewVec3(0, 0, 2),
		material.NewEmissive(core.NewVec3(60, 51, 45)),
	)

	return &Setup{
		Scene: New(
			geometry.NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), floor),
			tall, squat, light,
		),
		Eye:             core.NewVec3(-5.5, 7, -5.5),
		LookAt:          core.NewVec3(-4.75, 2.25, 0),
		FOV:             45,
		Environment:     core.NewVec3(0.1, 0.1, 0.1),
		Width:           525,
		Height:          750,
		SamplesPerPixel: 1024,
		MaxBounces:      20,
	}
}

// NewPrismMesh builds a closed regular prism standing on y=0 with the given
// number of sides, circumradius and height, centered on the Y axis
func NewPrismMesh(sides int, radius, height float64, mat material.Material) *geometry.Mesh {
	vertices := make([]geometry.Vertex, 0, 2*sides+2)
	for i := 0; i < sides; i++ {
		angle := 2 * math.Pi * float64(i) / float64(sides)
		x, z := radius*math.Cos(angle), radius*math.Sin(angle)
		u := float64(i) / float64(sides)
		vertices = append(vertices,
			geometry.Vertex{Position: core.NewVec3(x, 0, z), UV: core.NewVec2(u, 0)},
			geometry.Vertex{Position: core.NewVec3(x, height, z), UV: core.NewVec2(u, 1)},
		)
	}
	bottomCenter := len(vertices)
	vertices = append(vertices,
		geometry.Vertex{Position: core.NewVec3(0, 0, 0), UV: core.NewVec2(0.5, 0)},
		geometry.Vertex{Position: core.NewVec3(0, height, 0), UV: core.NewVec2(0.5, 1)},
	)
	topCenter := bottomCenter + 1

	faces := make([]geometry.Face, 0, 4*sides)
	for i := 0; i < sides; i++ {
		b0, t0 := 2*i, 2*i+1
		b1, t1 := 2*((i+1)%sides), 2*((i+1)%sides)+1
		faces = append(faces,
			geometry.Face{Indices: [3]int{b0, t0, b1}},
			geometry.Face{Indices: [3]int{b1, t0, t1}},
			geometry.Face{Indices: [3]int{bottomCenter, b0, b1}},
			geometry.Face{Indices: [3]int{topCenter, t1, t0}},
		)
	}

	return geometry.NewMesh(vertices, faces, []material.Material{mat}, geometry.MeshOptions{Cull: geometry.CullNone})
}
