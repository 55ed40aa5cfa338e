package loaders

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-octree-pathtracer/pkg/core"
	"github.com/df07/go-octree-pathtracer/pkg/geometry"
	"github.com/df07/go-octree-pathtracer/pkg/material"
)

const boxScene = `
camera:
  position: [0, 1, -5]
  look_at: [0, 1, 0]
  fov: 50
image:
  width: 64
  height: 48
  samples_per_pixel: 8
  max_bounces: 6
environment: [0.1, 0.2, 0.3]
textures:
  - name: floor
    type: checker
    even: [1, 1, 1]
    odd: [0, 0, 0]
    scale: 4
  - name: sky
    type: gradient
    corners: [[1, 1, 1], [1, 1, 1], [0.5, 0.7, 1], [0.5, 0.7, 1]]
  - name: wood
    type: image
    path: wood.png
materials:
  - name: white
    type: lambertian
    albedo: [0.8, 0.8, 0.8]
  - name: checker
    type: lambertian
    texture: floor
  - name: panel
    type: lambertian
    texture: wood
  - name: lamp
    type: emissive
    emission: [10, 10, 10]
  - name: skylight
    type: emissive
    texture: sky
    multiplier: 0.5
  - name: glass
    type: dielectric
    ior: 1.33
  - name: chrome
    type: mirror
  - name: paint
    type: specular_coated
    albedo: [0.7, 0.1, 0.1]
    roughness: 0.2
  - name: lacquer
    type: perfect_specular_coated
  - name: dusty
    type: mix
    materials: [chrome, white]
    ratio: 0.3
objects:
  - type: plane
    point: [0, 0, 0]
    normal: [0, 1, 0]
    material: checker
  - type: sphere
    center: [0, 1, 0]
    radius: 1
    material: glass
  - type: quad
    corner: [-0.5, 3, -0.5]
    u: [0, 0, 1]
    v: [1, 0, 0]
    material: lamp
  - type: box
    center: [2, 0.5, 0]
    size: [0.5, 0.5, 0.5]
    rotation: [0, 45, 0]
    material: paint
  - type: mesh
    material: white
    materials: [chrome]
    cull: front
    vertices: [[0, 0, 0], [1, 0, 0], [1, 1, 0], [0, 1, 0]]
    uvs: [[0, 0], [1, 0], [1, 1], [0, 1]]
    faces: [[0, 1, 2, 3]]
    face_materials: [1]
    transform:
      - scale: [2, 2, 2]
      - translation: [0, 0, 10]
  - type: mesh
    file: square.ply
    material: panel
  - type: mesh
    file: tri.yaml
    material: dusty
`

// writeSceneFiles writes boxScene together with the files it references
func writeSceneFiles(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, SaveImage(filepath.Join(dir, "wood.png"), testImage()))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "square.ply"),
		createTestPLY(t, binary.LittleEndian, true, false, false), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tri.yaml"),
		[]byte("vertices: [[0, 0, 5], [1, 0, 5], [0, 1, 5]]\nfaces: [[0, 1, 2]]\n"), 0644))

	path := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(boxScene), 0644))
	return path
}

func TestLoadScene(t *testing.T) {
	setup, err := LoadScene(writeSceneFiles(t))
	require.NoError(t, err)

	assert.Equal(t, core.NewVec3(0, 1, -5), setup.Eye)
	assert.Equal(t, core.NewVec3(0, 1, 0), setup.LookAt)
	assert.Equal(t, 50.0, setup.FOV)
	assert.Equal(t, 64, setup.Width)
	assert.Equal(t, 48, setup.Height)
	assert.Equal(t, 8, setup.SamplesPerPixel)
	assert.Equal(t, 6, setup.MaxBounces)
	assert.Equal(t, core.NewVec3(0.1, 0.2, 0.3), setup.Environment)

	objects := setup.Scene.Objects()
	require.Len(t, objects, 7)
	assert.IsType(t, &geometry.Plane{}, objects[0])
	assert.IsType(t, &geometry.Sphere{}, objects[1])
	assert.IsType(t, &geometry.Quad{}, objects[2])
	assert.IsType(t, &geometry.Box{}, objects[3])

	sphere := objects[1].(*geometry.Sphere)
	require.IsType(t, &material.Dielectric{}, sphere.Material)
	assert.Equal(t, 1.33, sphere.Material.(*material.Dielectric).RefractiveIndex)

	// the quad is fanned into two triads, scaled then moved to z=10
	inline := objects[4].(*geometry.Mesh)
	require.Len(t, inline.Triads, 2)
	assert.Equal(t, geometry.CullFront, inline.Options.Cull)
	assert.True(t, inline.Options.HasUV)
	assert.IsType(t, &material.Mirror{}, inline.Triads[0].Material)
	assert.Equal(t, core.NewVec3(2, 2, 10), inline.Triads[0].Vertices[2].Position)

	ply := objects[5].(*geometry.Mesh)
	assert.Len(t, ply.Triads, 2)
	assert.IsType(t, &material.Lambertian{}, ply.Triads[0].Material)

	tri := objects[6].(*geometry.Mesh)
	require.Len(t, tri.Triads, 1)
	assert.IsType(t, &material.Mix{}, tri.Triads[0].Material)

	setup.Scene.Build()
	assert.Len(t, setup.Scene.EmissionProfiles(), 1)

	hit := setup.Scene.Trace(setup.Eye, setup.Direction())
	require.True(t, hit.Valid)
	assert.InDelta(t, 4.0, hit.Distance, 1e-9)
}

func TestParseSceneCamera(t *testing.T) {
	tests := []struct {
		name     string
		camera   string
		lookAt   core.Vec3
		fov      float64
		aperture float64
	}{
		{"direction", "position: [1, 2, 3]\n  direction: [0, 0, 2]", core.NewVec3(1, 2, 4), defaultFOV, 0},
		{"yaw", "position: [0, 0, 0]\n  yaw: 90", core.NewVec3(1, 0, 0), defaultFOV, 0},
		{"pitch", "position: [0, 0, 0]\n  yaw: 0\n  pitch: -90", core.NewVec3(0, -1, 0), defaultFOV, 0},
		{"physical", "position: [0, 0, 0]\n  look_at: [0, 0, 1]\n  physical:\n    focal_length: 0.05\n    sensor_size: 0.1\n    f_stop: 5\n    focus_distance: 3",
			core.NewVec3(0, 0, 1), 90, 0.005},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setup, err := ParseScene([]byte("camera:\n  "+tt.camera+"\n"), "")
			require.NoError(t, err)

			assert.InDelta(t, tt.lookAt.X, setup.LookAt.X, 1e-9)
			assert.InDelta(t, tt.lookAt.Y, setup.LookAt.Y, 1e-9)
			assert.InDelta(t, tt.lookAt.Z, setup.LookAt.Z, 1e-9)
			assert.InDelta(t, tt.fov, setup.FOV, 1e-9)
			assert.InDelta(t, tt.aperture, setup.Aperture, 1e-12)
			assert.Equal(t, defaultWidth, setup.Width)
			assert.Equal(t, defaultHeight, setup.Height)
		})
	}
}

func TestParseSceneErrors(t *testing.T) {
	const camera = "camera:\n  position: [0, 0, 0]\n  look_at: [0, 0, 1]\n"
	const white = "materials:\n  - name: white\n    type: lambertian\n"

	tests := []struct {
		name    string
		content string
	}{
		{"no camera target", "camera:\n  position: [0, 0, 0]\n"},
		{"look_at equals position", "camera:\n  position: [1, 1, 1]\n  look_at: [1, 1, 1]\n"},
		{"short vector", "camera:\n  position: [0, 0]\n  look_at: [0, 0, 1]\n"},
		{"unknown field", camera + "exposure: 2\n"},
		{"unknown texture type", camera + "textures:\n  - name: t\n    type: noise\n"},
		{"duplicate texture", camera + "textures:\n  - {name: t, type: solid, color: [1, 1, 1]}\n  - {name: t, type: solid, color: [1, 1, 1]}\n"},
		{"missing image", camera + "textures:\n  - {name: t, type: image, path: missing.png}\n"},
		{"image without path after image", camera + "textures:\n  - {name: a, type: image, path: missing.png}\n  - {name: b, type: image}\n"},
		{"unknown material type", camera + "materials:\n  - name: m\n    type: velvet\n"},
		{"unknown texture reference", camera + "materials:\n  - {name: m, type: lambertian, texture: nope}\n"},
		{"mix of unknown", camera + white + "  - {name: m, type: mix, materials: [white, nope]}\n"},
		{"bad ior", camera + "materials:\n  - {name: g, type: dielectric, ior: 0.5}\n"},
		{"unknown object", camera + white + "objects:\n  - {type: torus, material: white}\n"},
		{"unknown material reference", camera + "objects:\n  - {type: sphere, center: [0, 0, 0], radius: 1, material: white}\n"},
		{"zero radius", camera + white + "objects:\n  - {type: sphere, center: [0, 0, 0], radius: 0, material: white}\n"},
		{"transform on sphere", camera + white + "objects:\n  - {type: sphere, center: [0, 0, 0], radius: 1, material: white, transform: [{scale: [2, 2, 2]}]}\n"},
		{"mesh index out of range", camera + white + "objects:\n  - {type: mesh, material: white, vertices: [[0, 0, 0], [1, 0, 0], [0, 1, 0]], faces: [[0, 1, 3]]}\n"},
		{"mesh material out of range", camera + white + "objects:\n  - {type: mesh, material: white, vertices: [[0, 0, 0], [1, 0, 0], [0, 1, 0]], faces: [[0, 1, 2]], face_materials: [1]}\n"},
		{"mesh bad cull", camera + white + "objects:\n  - {type: mesh, material: white, cull: sideways, vertices: [[0, 0, 0], [1, 0, 0], [0, 1, 0]], faces: [[0, 1, 2]]}\n"},
		{"mesh two transforms in one entry", camera + white + "objects:\n  - {type: mesh, material: white, vertices: [[0, 0, 0], [1, 0, 0], [0, 1, 0]], faces: [[0, 1, 2]], transform: [{scale: [2, 2, 2], translation: [1, 0, 0]}]}\n"},
		{"mesh short matrix", camera + white + "objects:\n  - {type: mesh, material: white, vertices: [[0, 0, 0], [1, 0, 0], [0, 1, 0]], faces: [[0, 1, 2]], transform: [{matrix: [1, 0, 0]}]}\n"},
		{"mesh unsupported file", camera + white + "objects:\n  - {type: mesh, material: white, file: model.obj}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScene([]byte(tt.content), t.TempDir())
			assert.Error(t, err)
		})
	}
}

func TestParseSceneImagePathCheckedFirst(t *testing.T) {
	content := "camera:\n  position: [0, 0, 0]\n  look_at: [0, 0, 1]\n" +
		"textures:\n  - {name: a, type: image, path: missing.png}\n  - {name: b, type: image}\n"

	_, err := ParseScene([]byte(content), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `texture "b": image needs a path`)
}

func TestComposeTransforms(t *testing.T) {
	transform, err := composeTransforms([]transformSpec{
		{Rotation: &rotationSpec{Axis: vec3{0, 1, 0}, Angle: 90}},
		{Translation: &vec3{1, 2, 3}},
		{Matrix: []float64{
			2, 0, 0, 0,
			0, 1, 0, 0,
			0, 0, 1, 0,
			0, 0, 0, 1,
		}},
	})
	require.NoError(t, err)

	// (1,0,0) rotates to (0,0,-1), moves to (1,2,2), then x doubles
	p := transform.Mul4x1(mgl64.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 2.0, p[0], 1e-9)
	assert.InDelta(t, 2.0, p[1], 1e-9)
	assert.InDelta(t, 2.0, p[2], 1e-9)

	// a row-major matrix carries its translation in the last column
	translate, err := composeTransforms([]transformSpec{{Matrix: []float64{
		1, 0, 0, 5,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}}})
	require.NoError(t, err)
	q := translate.Mul4x1(mgl64.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 5.0, q[0], 1e-9)
	assert.InDelta(t, 0.0, q[1], 1e-9)
}
