package game

// ComboColours is the size of the combo colour palette. The parser assigns
// each object a colour index modulo this, the theme resolves the actual colour.
const ComboColours = 4

// Beatmap is a single difficulty's worth of parsed hit object data.
// It is immutable once produced, all run state lives in the session.
type Beatmap struct {
	Title  string
	Artist string
	// Version is the difficulty name within the set
	Version string
	// Sum is the content hash of the source file, the identity key for scores
	Sum string

	Audio      string
	Background string

	Difficulty Difficulty
	Timing     TimingTable

	// Objects are sorted ascending by start time, file order on ties
	Objects []*HitObject

	// Duration is the total length in ms, including the end of song grace
	Duration float64
}

// Difficulty holds the four 0-10 scale parameters plus the base slider
// velocity, before any mods are applied.
type Difficulty struct {
	CircleSize        float64
	ApproachRate      float64
	OverallDifficulty float64
	DrainRate         float64
	SliderMultiplier  float64
}

// CircleRadius is the hit circle radius in playfield pixels.
func (d Difficulty) CircleRadius() float64 {
	return 54.4 - 4.48*d.CircleSize
}
