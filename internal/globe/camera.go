package globe

type CameraConfig struct {
	// LerpIdle and LerpZoom are the per-tick interpolation fractions.
	LerpIdle float64
	LerpZoom float64
	// ActivationProgress is the scroll progress above which an active
	// entity pulls the camera to its pose.
	ActivationProgress float64
	// ZoomCompletion is the share of the view distance that must be covered
	// before a zoom counts as complete.
	ZoomCompletion float64
	// Epsilon is the distance under which the camera counts as settled.
	Epsilon float64
	// ZoomPose is the near-origin target used while zooming into detail.
	ZoomPose Pose
}

func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		LerpIdle:           0.05,
		LerpZoom:           0.12,
		ActivationProgress: 0.1,
		ZoomCompletion:     0.98,
		Epsilon:            0.001,
		ZoomPose: Pose{
			Position: Vec3{0, 0, -0.5},
			LookAt:   Vec3{0, 0, 0},
		},
	}
}

// ViewDistance is the distance of the default view for a viewport width in
// CSS pixels.
func ViewDistance(width int) float64 {
	switch {
	case width < 768:
		return 4.5
	case width < 1024:
		return 4.0
	case width < 1440:
		return 3.5
	default:
		return 3.0
	}
}

// CameraInput is the navigator state the camera follows.
type CameraInput struct {
	EntityIndex   int
	Progress      float64
	Zooming       bool
	ViewportWidth int
}

// Camera eases its pose toward a target derived from CameraInput. It is not
// safe for concurrent use.
type Camera struct {
	cfg    CameraConfig
	poses  []Pose
	input  CameraInput
	pose   Pose
	done   bool
	onZoom []func()
}

// NewCamera creates a camera resting at the default view. poses holds the
// precomputed pose of each entity in section order.
func NewCamera(cfg CameraConfig, poses []Pose, viewportWidth int) *Camera {
	c := &Camera{
		cfg:   cfg,
		poses: poses,
		input: CameraInput{EntityIndex: -1, ViewportWidth: viewportWidth},
	}
	c.pose = c.Target(c.input)
	return c
}

// Target is the pose the camera converges to for in.
func (c *Camera) Target(in CameraInput) Pose {
	if in.Zooming {
		return c.cfg.ZoomPose
	}
	if in.EntityIndex >= 0 && in.EntityIndex < len(c.poses) && in.Progress > c.cfg.ActivationProgress {
		return c.poses[in.EntityIndex]
	}
	return Pose{
		Position: Vec3{0, 0, ViewDistance(in.ViewportWidth)},
		LookAt:   Vec3{0, 0, 0},
	}
}

// SetInput updates what the camera follows. Starting a new zoom re-arms the
// completion signal.
func (c *Camera) SetInput(in CameraInput) {
	if in.Zooming && !c.input.Zooming {
		c.done = false
	}
	c.input = in
}

func (c *Camera) Input() CameraInput { return c.input }

// OnZoomComplete registers fn to run once per zoom when the camera has
// covered ZoomCompletion of the way to the zoom target.
func (c *Camera) OnZoomComplete(fn func()) {
	c.onZoom = append(c.onZoom, fn)
}

// Tick advances the pose one frame and returns it.
func (c *Camera) Tick() Pose {
	target := c.Target(c.input)
	factor := c.cfg.LerpIdle
	if c.input.Zooming {
		factor = c.cfg.LerpZoom
	}
	c.pose = Pose{
		Position: c.pose.Position.Lerp(target.Position, factor),
		LookAt:   c.pose.LookAt.Lerp(target.LookAt, factor),
	}

	if c.input.Zooming && !c.done {
		remaining := c.pose.Position.Dist(target.Position) / ViewDistance(c.input.ViewportWidth)
		if 1-remaining > c.cfg.ZoomCompletion {
			c.done = true
			for _, fn := range c.onZoom {
				fn()
			}
		}
	}
	return c.pose
}

func (c *Camera) Pose() Pose { return c.pose }

// Settled reports whether the pose is within Epsilon of its target.
func (c *Camera) Settled() bool {
	target := c.Target(c.input)
	return c.pose.Position.Dist(target.Position) < c.cfg.Epsilon &&
		c.pose.LookAt.Dist(target.LookAt) < c.cfg.Epsilon
}
