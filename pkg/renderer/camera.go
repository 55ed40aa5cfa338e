package renderer

import (
	"math"

	"github.com/df07/go-octree-pathtracer/pkg/core"
)

// Camera is a viewpoint with a unit viewing direction
type Camera struct {
	Position  core.Vec3
	Direction core.Vec3
}

// NewCamera creates a camera looking along direction
func NewCamera(position, direction core.Vec3) Camera {
	return Camera{Position: position, Direction: direction.Normalize()}
}

// NewCameraLookAt creates a camera at position looking at target
func NewCameraLookAt(position, target core.Vec3) Camera {
	return NewCamera(position, target.Subtract(position))
}

// NewCameraYawPitch creates a camera from angles in radians. Yaw 0 looks
// along +Z and grows toward +X; pitch grows upward.
func NewCameraYawPitch(position core.Vec3, yaw, pitch float64) Camera {
	direction := core.NewVec3(
		math.Sin(yaw)*math.Cos(pitch),
		math.Sin(pitch),
		math.Cos(yaw)*math.Cos(pitch),
	)
	return NewCamera(position, direction)
}

// Basis returns the camera's right and up vectors. World +Y is up unless the
// camera looks straight up or down, where -Z (looking down) or +Z (looking up)
// takes its place.
func (c Camera) Basis() (right, up core.Vec3) {
	worldUp := core.NewVec3(0, 1, 0)
	right = c.Direction.Cross(worldUp)
	if right.LengthSquared() < 1e-12 {
		worldUp = core.NewVec3(0, 0, c.Direction.Y)
		right = c.Direction.Cross(worldUp)
	}
	right = right.Normalize()
	up = right.Cross(c.Direction).Normalize()
	return right, up
}

// Viewport maps normalized device coordinates of one image to camera rays
type Viewport struct {
	position      core.Vec3
	forward       core.Vec3
	right         core.Vec3
	up            core.Vec3
	scaleX        float64 // tan(fov/2) times the aspect correction
	scaleY        float64
	diskRadius    float64
	focalDistance float64
}

// Viewport prepares ray generation for a width x height image. The narrower
// image axis spans the lens field of view and the wider one is scaled by the
// aspect ratio.
func (c Camera) Viewport(lens LensConfig, width, height int) Viewport {
	right, up := c.Basis()
	tanHalf := math.Tan(lens.FOV / 2)
	aspect := float64(width) / float64(height)

	scaleX, scaleY := tanHalf, tanHalf
	if aspect > 1 {
		scaleX *= aspect
	} else {
		scaleY /= aspect
	}

	return Viewport{
		position:      c.Position,
		forward:       c.Direction,
		right:         right,
		up:            up,
		scaleX:        scaleX,
		scaleY:        scaleY,
		diskRadius:    lens.DefocusDiskRadius,
		focalDistance: lens.FocalPlaneDistance,
	}
}

// PixelNDC maps a position inside pixel (x, y) to [-1, 1]², y pointing up.
// offset is the position within the pixel, (0.5, 0.5) being its center.
func PixelNDC(x, y, width, height int, offset core.Vec2) core.Vec2 {
	return core.NewVec2(
		((float64(x)+offset.X)/float64(width)-0.5)*2,
		-((float64(y)+offset.Y)/float64(height)-0.5)*2,
	)
}

// GetRay returns the ray through ndc. lensSample picks the point on the
// defocus disk; it is ignored for a pinhole.
func (v Viewport) GetRay(ndc, lensSample core.Vec2) core.Ray {
	toPlane := v.right.Multiply(ndc.X * v.scaleX).
		Add(v.up.Multiply(ndc.Y * v.scaleY)).
		Add(v.forward)

	if v.diskRadius <= 0 {
		return core.NewRay(v.position, toPlane.Normalize())
	}

	disk := core.SamplePointInUnitDisk(lensSample)
	defocus := v.right.Multiply(disk.X).Add(v.up.Multiply(disk.Y)).Multiply(v.diskRadius)
	focusPoint := toPlane.Multiply(v.focalDistance)

	return core.NewRay(v.position.Add(defocus), focusPoint.Subtract(defocus).Normalize())
}
