package globe

import "math"

// Vec3 is a point or direction in globe space.
type Vec3 [3]float64

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]} }

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]} }

func (v Vec3) Scale(f float64) Vec3 { return Vec3{v[0] * f, v[1] * f, v[2] * f} }

func (v Vec3) Len() float64 { return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2]) }

// Lerp moves v the fraction t of the way toward o.
func (v Vec3) Lerp(o Vec3, t float64) Vec3 { return v.Add(o.Sub(v).Scale(t)) }

func (v Vec3) Dist(o Vec3) float64 { return o.Sub(v).Len() }

// Pose is what the renderer needs per frame: camera position and look-at.
type Pose struct {
	Position Vec3 `json:"position"`
	LookAt   Vec3 `json:"lookAt"`
}
