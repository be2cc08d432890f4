package game

// DefaultBeatLength corresponds to 120 BPM and is used when a beatmap
// carries no timing points at all.
const DefaultBeatLength = 500.0

// TimingPoint is one entry of the [TimingPoints] timeline. An uninherited
// point sets the base beat length, an inherited point scales the most recent
// uninherited one by its velocity multiplier.
type TimingPoint struct {
	Time       int64
	BeatLength float64
	Inherited  bool
	// Multiplier is -100/beatLength for inherited points, 1 otherwise
	Multiplier float64
}

// TimingTable resolves the effective beat length at any song time.
// Points are sorted ascending by time.
type TimingTable struct {
	Points []TimingPoint
	// BaseBeatLength is the fallback when no point applies
	BaseBeatLength float64
}

// EffectiveBeatLength returns the ms per beat in effect at the given song
// time: the latest applicable uninherited beat length divided by the latest
// applicable inherited multiplier.
func (t *TimingTable) EffectiveBeatLength(at float64) float64 {
	base := t.BaseBeatLength
	if base <= 0 {
		base = DefaultBeatLength
	}
	multiplier := 1.0
	for _, p := range t.Points {
		if float64(p.Time) > at {
			break
		}
		if p.Inherited {
			multiplier = p.Multiplier
		} else {
			base = p.BeatLength
		}
	}
	if multiplier <= 0 {
		multiplier = 1.0
	}
	return base / multiplier
}

// BPM is a convenience for display.
func (t *TimingTable) BPM(at float64) float64 {
	return 60000.0 / t.EffectiveBeatLength(at)
}
