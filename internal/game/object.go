package game

// Kind discriminates the hit object variants.
type Kind uint8

const (
	KindCircle Kind = iota
	KindSlider
	KindSpinner
)

func (k Kind) String() string {
	switch k {
	case KindSlider:
		return "slider"
	case KindSpinner:
		return "spinner"
	}
	return "circle"
}

// HitObject is one timed object of the beatmap. Playfield positions are in
// the 512x384 logical space regardless of what the renderer does with them.
type HitObject struct {
	Kind Kind
	// Time is the song relative start time in ms
	Time int64
	Pos  Vec

	// ComboNumber is 1-based and resets on a new combo
	ComboNumber int
	// ComboColour is an abstract palette index, see ComboColours
	ComboColour int

	// Sound selection flags, opaque to the session
	HitSound  uint8
	SampleSet uint8

	// Slider fields. Curve is the declared curve type letter, the sampled
	// path itself is a linear approximation of the control points.
	Curve byte
	Path  SampledPath
	// Repeats is the number of extra passes over the path, 0 = single pass
	Repeats int

	// Duration is how long the object stays active in ms, 0 for circles
	Duration float64
}

// EndTime is the song time at which the object stops being active.
func (o *HitObject) EndTime() float64 {
	return float64(o.Time) + o.Duration
}
