package loaders

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/df07/go-octree-pathtracer/pkg/core"
	"github.com/df07/go-octree-pathtracer/pkg/geometry"
	"github.com/df07/go-octree-pathtracer/pkg/material"
	"github.com/df07/go-octree-pathtracer/pkg/renderer"
	"github.com/df07/go-octree-pathtracer/pkg/scene"
)

// Defaults for settings a scene file leaves out
const (
	defaultWidth  = 400
	defaultHeight = 300
	defaultFOV    = 40.0
)

// vec3 decodes a three element YAML sequence
type vec3 [3]float64

func (v *vec3) UnmarshalYAML(node *yaml.Node) error {
	var values []float64
	if err := node.Decode(&values); err != nil {
		return err
	}
	if len(values) != 3 {
		return fmt.Errorf("line %d: expected 3 components, got %d", node.Line, len(values))
	}
	copy(v[:], values)
	return nil
}

func (v vec3) Vec3() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

// vec2 decodes a two element YAML sequence
type vec2 [2]float64

func (v *vec2) UnmarshalYAML(node *yaml.Node) error {
	var values []float64
	if err := node.Decode(&values); err != nil {
		return err
	}
	if len(values) != 2 {
		return fmt.Errorf("line %d: expected 2 components, got %d", node.Line, len(values))
	}
	copy(v[:], values)
	return nil
}

type sceneFile struct {
	Camera      cameraSpec     `yaml:"camera"`
	Image       imageSpec      `yaml:"image"`
	Environment *vec3          `yaml:"environment"`
	Textures    []textureSpec  `yaml:"textures"`
	Materials   []materialSpec `yaml:"materials"`
	Objects     []objectSpec   `yaml:"objects"`
}

type cameraSpec struct {
	Position      vec3             `yaml:"position"`
	LookAt        *vec3            `yaml:"look_at"`
	Direction     *vec3            `yaml:"direction"`
	Yaw           *float64         `yaml:"yaw"` // Degrees
	Pitch         float64          `yaml:"pitch"`
	FOV           float64          `yaml:"fov"` // Degrees
	Aperture      float64          `yaml:"aperture"`
	FocusDistance float64          `yaml:"focus_distance"`
	Physical      *physicalSection `yaml:"physical"`
}

type imageSpec struct {
	Width           int `yaml:"width"`
	Height          int `yaml:"height"`
	SamplesPerPixel int `yaml:"samples_per_pixel"`
	MaxBounces      int `yaml:"max_bounces"`
}

type textureSpec struct {
	Name    string  `yaml:"name"`
	Type    string  `yaml:"type"`
	Color   *vec3   `yaml:"color"`
	Corners []vec3  `yaml:"corners"` // top left, top right, bottom right, bottom left
	Even    *vec3   `yaml:"even"`
	Odd     *vec3   `yaml:"odd"`
	Scale   float64 `yaml:"scale"`
	Path    string  `yaml:"path"`
}

type materialSpec struct {
	Name       string   `yaml:"name"`
	Type       string   `yaml:"type"`
	Albedo     *vec3    `yaml:"albedo"`
	Texture    string   `yaml:"texture"`
	Emission   *vec3    `yaml:"emission"`
	Multiplier *float64 `yaml:"multiplier"`
	Tint       *vec3    `yaml:"tint"`
	IOR        float64  `yaml:"ior"`
	Roughness  float64  `yaml:"roughness"`
	Materials  []string `yaml:"materials"`
	Ratio      float64  `yaml:"ratio"`
}

type objectSpec struct {
	Type      string          `yaml:"type"`
	Material  string          `yaml:"material"`
	Materials []string        `yaml:"materials"`
	Center    *vec3           `yaml:"center"`
	Radius    float64         `yaml:"radius"`
	Point     *vec3           `yaml:"point"`
	Normal    *vec3           `yaml:"normal"`
	Corner    *vec3           `yaml:"corner"`
	U         *vec3           `yaml:"u"`
	V         *vec3           `yaml:"v"`
	Size      *vec3           `yaml:"size"`     // Box half-extents
	Rotation  *vec3           `yaml:"rotation"` // Box rotation in degrees
	File      string          `yaml:"file"`
	Cull      string          `yaml:"cull"`
	Transform []transformSpec `yaml:"transform"`
	meshSpec  `yaml:",inline"`
}

// meshSpec is an inline mesh, also the layout of a .yaml mesh file
type meshSpec struct {
	Vertices      []vec3  `yaml:"vertices"`
	UVs           []vec2  `yaml:"uvs"`
	Faces         [][]int `yaml:"faces"`
	FaceMaterials []int   `yaml:"face_materials"`
}

type transformSpec struct {
	Matrix      []float64     `yaml:"matrix"` // Row-major 4x4
	Translation *vec3         `yaml:"translation"`
	Scale       *vec3         `yaml:"scale"`
	Rotation    *rotationSpec `yaml:"rotation"`
}

type rotationSpec struct {
	Axis  vec3    `yaml:"axis"`
	Angle float64 `yaml:"angle"` // Degrees
}

// LoadScene reads a YAML (or JSON) scene description. Relative file paths
// inside it resolve against the scene file's directory.
func LoadScene(filename string) (*scene.Setup, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}

	setup, err := ParseScene(content, filepath.Dir(filename))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	logger.Infof("loaded scene %s: %d objects", filename, len(setup.Scene.Objects()))
	return setup, nil
}

// ParseScene decodes a scene description, resolving relative paths against dir
func ParseScene(content []byte, dir string) (*scene.Setup, error) {
	var file sceneFile
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}

	b := &sceneBuilder{
		dir:       dir,
		textures:  make(map[string]material.Texture),
		materials: make(map[string]material.Material),
	}
	return b.build(&file)
}

type sceneBuilder struct {
	dir       string
	textures  map[string]material.Texture
	materials map[string]material.Material
}

func (b *sceneBuilder) build(file *sceneFile) (*scene.Setup, error) {
	if err := b.buildTextures(file.Textures); err != nil {
		return nil, err
	}
	for i := range file.Materials {
		if err := b.buildMaterial(&file.Materials[i]); err != nil {
			return nil, fmt.Errorf("material %d (%q): %w", i, file.Materials[i].Name, err)
		}
	}

	objects := make([]geometry.Object, 0, len(file.Objects))
	for i := range file.Objects {
		object, err := b.buildObject(&file.Objects[i])
		if err != nil {
			return nil, fmt.Errorf("object %d (%s): %w", i, file.Objects[i].Type, err)
		}
		objects = append(objects, object)
	}

	setup := &scene.Setup{
		Scene:           scene.New(objects...),
		Width:           file.Image.Width,
		Height:          file.Image.Height,
		SamplesPerPixel: file.Image.SamplesPerPixel,
		MaxBounces:      file.Image.MaxBounces,
	}
	if setup.Width == 0 {
		setup.Width = defaultWidth
	}
	if setup.Height == 0 {
		setup.Height = defaultHeight
	}
	if setup.Width < 0 || setup.Height < 0 {
		return nil, fmt.Errorf("image size %dx%d is invalid", setup.Width, setup.Height)
	}
	if file.Environment != nil {
		setup.Environment = file.Environment.Vec3()
	}
	if err := applyCamera(setup, file.Camera); err != nil {
		return nil, fmt.Errorf("camera: %w", err)
	}
	return setup, nil
}

func applyCamera(setup *scene.Setup, spec cameraSpec) error {
	setup.Eye = spec.Position.Vec3()

	switch {
	case spec.LookAt != nil:
		setup.LookAt = spec.LookAt.Vec3()
	case spec.Direction != nil:
		dir := spec.Direction.Vec3().Normalize()
		if dir.IsZero() {
			return fmt.Errorf("direction must not be zero")
		}
		setup.LookAt = setup.Eye.Add(dir)
	case spec.Yaw != nil:
		camera := renderer.NewCameraYawPitch(setup.Eye, radians(*spec.Yaw), radians(spec.Pitch))
		setup.LookAt = setup.Eye.Add(camera.Direction)
	default:
		return fmt.Errorf("one of look_at, direction or yaw is required")
	}
	if setup.LookAt == setup.Eye {
		return fmt.Errorf("look_at must differ from position")
	}

	setup.FOV = spec.FOV
	setup.Aperture = spec.Aperture
	setup.FocusDistance = spec.FocusDistance
	if p := spec.Physical; p != nil {
		if p.FocalLength <= 0 || p.SensorSize <= 0 || p.FStop <= 0 {
			return fmt.Errorf("physical lens dimensions must be positive")
		}
		lens := renderer.LensFromPhysical(p.FocalLength, p.SensorSize, p.FStop, p.FocusDistance)
		setup.FOV = lens.FOV * 180 / math.Pi
		setup.Aperture = lens.DefocusDiskRadius
		setup.FocusDistance = lens.FocalPlaneDistance
	}
	if setup.FOV == 0 {
		setup.FOV = defaultFOV
	}
	return nil
}

// buildTextures decodes image textures concurrently, then registers every texture
func (b *sceneBuilder) buildTextures(specs []textureSpec) error {
	for _, spec := range specs {
		if spec.Type == "image" && spec.Path == "" {
			return fmt.Errorf("texture %q: image needs a path", spec.Name)
		}
	}

	images := make([]*ImageData, len(specs))
	var g errgroup.Group
	for i, spec := range specs {
		if spec.Type != "image" {
			continue
		}
		g.Go(func() error {
			data, err := LoadImage(b.resolve(spec.Path))
			if err != nil {
				return fmt.Errorf("texture %q: %w", spec.Name, err)
			}
			images[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, spec := range specs {
		if spec.Name == "" {
			return fmt.Errorf("texture %d has no name", i)
		}
		if _, exists := b.textures[spec.Name]; exists {
			return fmt.Errorf("texture %q is defined twice", spec.Name)
		}

		var texture material.Texture
		switch spec.Type {
		case "solid":
			if spec.Color == nil {
				return fmt.Errorf("texture %q: solid needs a color", spec.Name)
			}
			texture = material.NewSolidTexture(spec.Color.Vec3())
		case "gradient":
			if len(spec.Corners) != 4 {
				return fmt.Errorf("texture %q: gradient needs 4 corners, got %d", spec.Name, len(spec.Corners))
			}
			texture = material.NewGradientTexture(spec.Corners[0].Vec3(), spec.Corners[1].Vec3(),
				spec.Corners[2].Vec3(), spec.Corners[3].Vec3())
		case "checker":
			if spec.Even == nil || spec.Odd == nil || spec.Scale <= 0 {
				return fmt.Errorf("texture %q: checker needs even, odd and a positive scale", spec.Name)
			}
			texture = material.NewCheckerTexture(spec.Even.Vec3(), spec.Odd.Vec3(), spec.Scale)
		case "image":
			texture = images[i].Texture()
		default:
			return fmt.Errorf("texture %q: unknown type %q", spec.Name, spec.Type)
		}
		b.textures[spec.Name] = texture
	}
	return nil
}

// color resolves a material's color from either a literal or a named texture
func (b *sceneBuilder) color(literal *vec3, textureName string, fallback core.Vec3) (material.Texture, error) {
	if textureName != "" {
		texture, ok := b.textures[textureName]
		if !ok {
			return nil, fmt.Errorf("unknown texture %q", textureName)
		}
		return texture, nil
	}
	if literal != nil {
		return material.NewSolidTexture(literal.Vec3()), nil
	}
	return material.NewSolidTexture(fallback), nil
}

func (b *sceneBuilder) buildMaterial(spec *materialSpec) error {
	if spec.Name == "" {
		return fmt.Errorf("material has no name")
	}
	if _, exists := b.materials[spec.Name]; exists {
		return fmt.Errorf("defined twice")
	}

	ior := spec.IOR
	if ior == 0 {
		ior = 1.5
	}
	if ior < 1 {
		return fmt.Errorf("ior must be at least 1, got %g", ior)
	}

	var mat material.Material
	switch spec.Type {
	case "lambertian", "diffuse":
		albedo, err := b.color(spec.Albedo, spec.Texture, core.Splat(0.5))
		if err != nil {
			return err
		}
		mat = material.NewTexturedLambertian(albedo)
	case "emissive", "light":
		emission, err := b.color(spec.Emission, spec.Texture, core.Splat(1))
		if err != nil {
			return err
		}
		multiplier := 1.0
		if spec.Multiplier != nil {
			multiplier = *spec.Multiplier
		}
		mat = material.NewTexturedEmissive(emission, multiplier)
	case "mirror":
		tint, err := b.color(spec.Tint, spec.Texture, core.Splat(1))
		if err != nil {
			return err
		}
		mat = &material.Mirror{Tint: tint}
	case "dielectric", "glass":
		dielectric := material.NewDielectric(ior)
		if spec.Tint != nil || spec.Texture != "" {
			tint, err := b.color(spec.Tint, spec.Texture, core.Splat(1))
			if err != nil {
				return err
			}
			dielectric.Tint = tint
		}
		mat = dielectric
	case "specular_coated":
		albedo, err := b.color(spec.Albedo, spec.Texture, core.Splat(0.5))
		if err != nil {
			return err
		}
		if spec.Roughness < 0 || spec.Roughness > 1 {
			return fmt.Errorf("roughness must be within [0, 1], got %g", spec.Roughness)
		}
		mat = &material.SpecularCoated{
			Albedo:    albedo,
			Roughness: material.NewSolidTexture(core.Splat(spec.Roughness)),
			IOR:       ior,
		}
	case "perfect_specular_coated":
		albedo, err := b.color(spec.Albedo, spec.Texture, core.Splat(0.5))
		if err != nil {
			return err
		}
		mat = &material.PerfectSpecularCoated{Albedo: albedo, IOR: ior}
	case "mix":
		if len(spec.Materials) != 2 {
			return fmt.Errorf("mix needs 2 materials, got %d", len(spec.Materials))
		}
		first, err := b.material(spec.Materials[0])
		if err != nil {
			return err
		}
		second, err := b.material(spec.Materials[1])
		if err != nil {
			return err
		}
		mat = material.NewMix(first, second, spec.Ratio)
	default:
		return fmt.Errorf("unknown type %q", spec.Type)
	}

	b.materials[spec.Name] = mat
	return nil
}

func (b *sceneBuilder) material(name string) (material.Material, error) {
	if name == "" {
		return nil, fmt.Errorf("no material given")
	}
	mat, ok := b.materials[name]
	if !ok {
		return nil, fmt.Errorf("unknown material %q", name)
	}
	return mat, nil
}

func (b *sceneBuilder) buildObject(spec *objectSpec) (geometry.Object, error) {
	if spec.Type != "mesh" && len(spec.Transform) > 0 {
		return nil, fmt.Errorf("transform is only supported on meshes")
	}

	switch spec.Type {
	case "sphere":
		mat, err := b.material(spec.Material)
		if err != nil {
			return nil, err
		}
		if spec.Center == nil || spec.Radius <= 0 {
			return nil, fmt.Errorf("sphere needs a center and a positive radius")
		}
		return geometry.NewSphere(spec.Center.Vec3(), spec.Radius, mat), nil

	case "plane":
		mat, err := b.material(spec.Material)
		if err != nil {
			return nil, err
		}
		if spec.Point == nil || spec.Normal == nil || spec.Normal.Vec3().IsZero() {
			return nil, fmt.Errorf("plane needs a point and a non-zero normal")
		}
		return geometry.NewPlane(spec.Point.Vec3(), spec.Normal.Vec3(), mat), nil

	case "quad":
		mat, err := b.material(spec.Material)
		if err != nil {
			return nil, err
		}
		if spec.Corner == nil || spec.U == nil || spec.V == nil {
			return nil, fmt.Errorf("quad needs corner, u and v")
		}
		if spec.U.Vec3().Cross(spec.V.Vec3()).IsZero() {
			return nil, fmt.Errorf("quad edges must not be parallel")
		}
		return geometry.NewQuad(spec.Corner.Vec3(), spec.U.Vec3(), spec.V.Vec3(), mat), nil

	case "box":
		mat, err := b.material(spec.Material)
		if err != nil {
			return nil, err
		}
		if spec.Center == nil || spec.Size == nil {
			return nil, fmt.Errorf("box needs a center and a size")
		}
		var rotation core.Vec3
		if spec.Rotation != nil {
			rotation = spec.Rotation.Vec3().Multiply(math.Pi / 180)
		}
		return geometry.NewBox(spec.Center.Vec3(), spec.Size.Vec3(), rotation, mat), nil

	case "mesh":
		return b.buildMesh(spec)

	default:
		return nil, fmt.Errorf("unknown object type %q", spec.Type)
	}
}

func (b *sceneBuilder) buildMesh(spec *objectSpec) (*geometry.Mesh, error) {
	cull, err := parseCull(spec.Cull)
	if err != nil {
		return nil, err
	}

	names := spec.Materials
	if spec.Material != "" {
		names = append([]string{spec.Material}, names...)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("mesh needs at least one material")
	}
	materials := make([]material.Material, len(names))
	for i, name := range names {
		if materials[i], err = b.material(name); err != nil {
			return nil, err
		}
	}

	data := spec.meshSpec
	if spec.File != "" {
		if len(data.Vertices) > 0 || len(data.Faces) > 0 {
			return nil, fmt.Errorf("mesh has both a file and inline data")
		}
		if data, err = b.loadMeshFile(spec.File); err != nil {
			return nil, err
		}
	}

	mesh, err := data.build(materials, cull)
	if err != nil {
		return nil, err
	}

	if len(spec.Transform) > 0 {
		transform, err := composeTransforms(spec.Transform)
		if err != nil {
			return nil, err
		}
		mesh.Transform(transform)
	}
	return mesh, nil
}

// loadMeshFile reads a .ply or a .yaml mesh into the inline layout
func (b *sceneBuilder) loadMeshFile(name string) (meshSpec, error) {
	path := b.resolve(name)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".ply":
		ply, err := LoadPLY(path)
		if err != nil {
			return meshSpec{}, err
		}
		data := meshSpec{
			Vertices: make([]vec3, len(ply.Vertices)),
			Faces:    make([][]int, len(ply.Faces)),
		}
		for i, v := range ply.Vertices {
			data.Vertices[i] = vec3{v.X, v.Y, v.Z}
		}
		if ply.HasTexCoords() {
			data.UVs = make([]vec2, len(ply.TexCoords))
			for i, uv := range ply.TexCoords {
				data.UVs[i] = vec2{uv.X, uv.Y}
			}
		}
		for i, f := range ply.Faces {
			data.Faces[i] = f[:]
		}
		return data, nil

	case ".yaml", ".yml":
		content, err := os.ReadFile(path)
		if err != nil {
			return meshSpec{}, fmt.Errorf("failed to read mesh file: %w", err)
		}
		var data meshSpec
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&data); err != nil {
			return meshSpec{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return data, nil

	default:
		return meshSpec{}, fmt.Errorf("unsupported mesh file %q", name)
	}
}

// build validates the indices and fans polygons into triangles
func (m meshSpec) build(materials []material.Material, cull geometry.CullMode) (*geometry.Mesh, error) {
	if len(m.Vertices) == 0 || len(m.Faces) == 0 {
		return nil, fmt.Errorf("mesh needs vertices and faces")
	}
	hasUV := len(m.UVs) > 0
	if hasUV && len(m.UVs) != len(m.Vertices) {
		return nil, fmt.Errorf("mesh has %d uvs for %d vertices", len(m.UVs), len(m.Vertices))
	}
	if len(m.FaceMaterials) > 0 && len(m.FaceMaterials) != len(m.Faces) {
		return nil, fmt.Errorf("mesh has %d face materials for %d faces", len(m.FaceMaterials), len(m.Faces))
	}

	vertices := make([]geometry.Vertex, len(m.Vertices))
	for i, v := range m.Vertices {
		vertices[i].Position = v.Vec3()
		if hasUV {
			vertices[i].UV = core.NewVec2(m.UVs[i][0], m.UVs[i][1])
		}
	}

	faces := make([]geometry.Face, 0, len(m.Faces))
	for i, polygon := range m.Faces {
		if len(polygon) < 3 {
			return nil, fmt.Errorf("face %d has %d vertices", i, len(polygon))
		}
		for _, idx := range polygon {
			if idx < 0 || idx >= len(vertices) {
				return nil, fmt.Errorf("face %d references vertex %d of %d", i, idx, len(vertices))
			}
		}
		matIndex := 0
		if len(m.FaceMaterials) > 0 {
			matIndex = m.FaceMaterials[i]
			if matIndex < 0 || matIndex >= len(materials) {
				return nil, fmt.Errorf("face %d references material %d of %d", i, matIndex, len(materials))
			}
		}
		for k := 1; k+1 < len(polygon); k++ {
			faces = append(faces, geometry.Face{
				Indices:  [3]int{polygon[0], polygon[k], polygon[k+1]},
				Material: matIndex,
			})
		}
	}

	return geometry.NewMesh(vertices, faces, materials, geometry.MeshOptions{Cull: cull, HasUV: hasUV}), nil
}

func parseCull(name string) (geometry.CullMode, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return geometry.CullNone, nil
	case "front":
		return geometry.CullFront, nil
	case "back":
		return geometry.CullBack, nil
	}
	return geometry.CullNone, fmt.Errorf("unknown cull mode %q", name)
}

// composeTransforms multiplies the list so that the first entry applies first
func composeTransforms(specs []transformSpec) (mgl64.Mat4, error) {
	result := mgl64.Ident4()
	for i, spec := range specs {
		var m mgl64.Mat4
		set := 0
		if spec.Matrix != nil {
			if len(spec.Matrix) != 16 {
				return result, fmt.Errorf("transform %d: matrix needs 16 values, got %d", i, len(spec.Matrix))
			}
			copy(m[:], spec.Matrix)
			m = m.Transpose()
			set++
		}
		if spec.Translation != nil {
			m = mgl64.Translate3D(spec.Translation[0], spec.Translation[1], spec.Translation[2])
			set++
		}
		if spec.Scale != nil {
			m = mgl64.Scale3D(spec.Scale[0], spec.Scale[1], spec.Scale[2])
			set++
		}
		if spec.Rotation != nil {
			axis := mgl64.Vec3(spec.Rotation.Axis)
			if axis.Len() == 0 {
				return result, fmt.Errorf("transform %d: rotation axis must not be zero", i)
			}
			m = mgl64.HomogRotate3D(radians(spec.Rotation.Angle), axis.Normalize())
			set++
		}
		if set != 1 {
			return result, fmt.Errorf("transform %d: expected exactly one of matrix, translation, scale or rotation", i)
		}
		result = m.Mul4(result)
	}
	return result, nil
}

func (b *sceneBuilder) resolve(path string) string {
	if filepath.IsAbs(path) || b.dir == "" {
		return path
	}
	return filepath.Join(b.dir, path)
}

func radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
