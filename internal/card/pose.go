package card

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

const (
	presetAngle = 15.0
	presetShift = 10.0
	restingTilt = -15.0
	floatScale  = 1.2
	flipAngle   = 180.0
)

// Pose is the target transform the renderer animates towards.
type Pose struct {
	RotateX    float64 `json:"rotateX"`
	RotateY    float64 `json:"rotateY"`
	RotateZ    float64 `json:"rotateZ"`
	TranslateX float64 `json:"translateX"`
	TranslateY float64 `json:"translateY"`
	Scale      float64 `json:"scale"`
}

// presetTilt is the fixed tilt and perpendicular shift of a side.
func presetTilt(side Side) (Rotation, float64, float64) {
	switch side {
	case SideTop:
		return Rotation{X: presetAngle}, 0, -presetShift
	case SideRight:
		return Rotation{Y: presetAngle}, presetShift, 0
	case SideBottom:
		return Rotation{X: -presetAngle}, 0, presetShift
	case SideLeft:
		return Rotation{Y: -presetAngle}, -presetShift, 0
	default:
		return Rotation{}, 0, 0
	}
}

// Pose returns the target transform for the current state.
func (m *Machine) Pose() Pose {
	switch m.state.(type) {
	case Grounded:
		return Pose{RotateZ: restingTilt, Scale: 1}
	case Expanded:
		return Pose{RotateY: flipAngle, Scale: 1}
	}
	if m.Dragging() {
		return Pose{RotateX: m.rotation.X, RotateY: m.rotation.Y, Scale: floatScale}
	}
	r, tx, ty := presetTilt(m.tiltSide())
	return Pose{RotateX: r.X, RotateY: r.Y, TranslateX: tx, TranslateY: ty, Scale: floatScale}
}

// Matrix returns the pose as a 4x4 homogeneous transform, applied in the
// order translate, rotate X, rotate Y, rotate Z, scale.
func (p Pose) Matrix() *mat.Dense {
	scale := p.Scale
	if scale == 0 {
		scale = 1
	}
	out := translation(p.TranslateX, p.TranslateY)
	for _, step := range []*mat.Dense{
		rotationX(p.RotateX),
		rotationY(p.RotateY),
		rotationZ(p.RotateZ),
		scaling(scale),
	} {
		var next mat.Dense
		next.Mul(out, step)
		out = &next
	}
	return out
}

// Matrix3D formats the pose as a CSS matrix3d() value.
func (p Pose) Matrix3D() string {
	m := p.Matrix()
	values := make([]string, 0, 16)
	// CSS lists the matrix column by column.
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			v := m.At(row, col)
			if math.Abs(v) < 1e-9 {
				v = 0
			}
			values = append(values, strconv.FormatFloat(v, 'f', 6, 64))
		}
	}
	return fmt.Sprintf("matrix3d(%s)", strings.Join(values, ", "))
}

// Reflection positions the decorative highlight, in percent, moving
// against the tilt.
func Reflection(r Rotation) Point {
	return Point{X: 50 - r.Y*2, Y: 50 + r.X*2}
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func translation(x, y float64) *mat.Dense {
	return mat.NewDense(4, 4, []float64{
		1, 0, 0, x,
		0, 1, 0, y,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
}

func rotationX(deg float64) *mat.Dense {
	s, c := math.Sincos(radians(deg))
	return mat.NewDense(4, 4, []float64{
		1, 0, 0, 0,
		0, c, -s, 0,
		0, s, c, 0,
		0, 0, 0, 1,
	})
}

func rotationY(deg float64) *mat.Dense {
	s, c := math.Sincos(radians(deg))
	return mat.NewDense(4, 4, []float64{
		c, 0, s, 0,
		0, 1, 0, 0,
		-s, 0, c, 0,
		0, 0, 0, 1,
	})
}

func rotationZ(deg float64) *mat.Dense {
	s, c := math.Sincos(radians(deg))
	return mat.NewDense(4, 4, []float64{
		c, -s, 0, 0,
		s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
}

func scaling(k float64) *mat.Dense {
	return mat.NewDense(4, 4, []float64{
		k, 0, 0, 0,
		0, k, 0, 0,
		0, 0, k, 0,
		0, 0, 0, 1,
	})
}
