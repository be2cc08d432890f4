package game

import "math"

// PathSamples is the fixed number of output samples of a built path,
// regardless of how many control points the curve descriptor carried.
const PathSamples = 100

// Vec is a point in the 512x384 logical playfield space.
type Vec struct {
	X, Y float64
}

func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec) Dist(o Vec) float64 {
	return math.Hypot(v.X-o.X, v.Y-o.Y)
}

// SampledPath is an arc-length uniform sampling of a slider's control point
// polyline. It is built once by the parser and shared by the session for
// ball animation and hit testing.
type SampledPath struct {
	points []Vec
	length float64
}

// BuildPath connects the control points with straight segments, measures the
// cumulative arc length, and resamples to exactly PathSamples evenly spaced
// points. Fewer than two distinct control points yield a stationary path.
func BuildPath(control []Vec) SampledPath {
	// drop zero length steps so segment walking below never divides by zero
	pts := make([]Vec, 0, len(control))
	for _, p := range control {
		if len(pts) == 0 || pts[len(pts)-1] != p {
			pts = append(pts, p)
		}
	}

	if len(pts) < 2 {
		single := Vec{}
		if len(pts) == 1 {
			single = pts[0]
		}
		out := make([]Vec, PathSamples)
		for i := range out {
			out[i] = single
		}
		return SampledPath{points: out}
	}

	segments := make([]float64, len(pts)-1)
	total := 0.0
	for i := 1; i < len(pts); i++ {
		segments[i-1] = pts[i].Dist(pts[i-1])
		total += segments[i-1]
	}

	out := make([]Vec, PathSamples)
	step := total / float64(PathSamples-1)
	seg := 0
	walked := 0.0
	for i := 0; i < PathSamples; i++ {
		target := float64(i) * step
		for seg < len(segments)-1 && walked+segments[seg] < target {
			walked += segments[seg]
			seg++
		}
		f := (target - walked) / segments[seg]
		if f > 1 {
			f = 1
		}
		a, b := pts[seg], pts[seg+1]
		out[i] = Vec{
			X: a.X + (b.X-a.X)*f,
			Y: a.Y + (b.Y-a.Y)*f,
		}
	}

	return SampledPath{points: out, length: total}
}

// Length is the total arc length of the original polyline.
func (p SampledPath) Length() float64 {
	return p.length
}

// PositionAt returns the point at fraction t of the path's arc length.
// t outside [0,1] is clamped.
func (p SampledPath) PositionAt(t float64) Vec {
	if len(p.points) == 0 {
		return Vec{}
	}
	if t <= 0 {
		return p.points[0]
	}
	if t >= 1 {
		return p.points[len(p.points)-1]
	}
	scaled := t * float64(len(p.points)-1)
	i := int(scaled)
	f := scaled - float64(i)
	a, b := p.points[i], p.points[i+1]
	return Vec{
		X: a.X + (b.X-a.X)*f,
		Y: a.Y + (b.Y-a.Y)*f,
	}
}

// Progress folds elapsed time into a path fraction, reversing direction on
// odd passes so the ball bounces between the ends on repeat sliders.
func Progress(elapsed, duration float64, repeats int) float64 {
	if duration <= 0 {
		return 1
	}
	if elapsed <= 0 {
		return 0
	}
	if elapsed >= duration {
		if repeats%2 == 1 {
			return 0
		}
		return 1
	}
	passes := float64(repeats + 1)
	passDuration := duration / passes
	pass := int(elapsed / passDuration)
	f := (elapsed - float64(pass)*passDuration) / passDuration
	if pass%2 == 1 {
		return 1 - f
	}
	return f
}
