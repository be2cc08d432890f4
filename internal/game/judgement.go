package game

// Tier is the accuracy tier assigned to a hit attempt.
type Tier uint8

const (
	TierGreat Tier = iota
	TierGood
	TierMeh
	TierMiss
)

func (t Tier) String() string {
	switch t {
	case TierGreat:
		return "Great"
	case TierGood:
		return "Good"
	case TierMeh:
		return "Meh"
	}
	return "Miss"
}

// BaseValue is the raw score value of the tier, before the combo factor.
func (t Tier) BaseValue() int64 {
	switch t {
	case TierGreat:
		return 300
	case TierGood:
		return 100
	case TierMeh:
		return 50
	}
	return 0
}

// HealthDelta is the health adjustment applied when the tier is awarded.
func (t Tier) HealthDelta() float64 {
	switch t {
	case TierGreat:
		return 0.05
	case TierGood:
		return 0.025
	case TierMeh:
		return 0.01
	}
	return -0.10
}

// HitWindow is the maximum |songTime - startTime| in ms still eligible for
// the tier, given the overall difficulty. The miss tier shares the meh
// window, beyond it an input no longer reaches the object at all.
func HitWindow(t Tier, od float64) float64 {
	switch t {
	case TierGreat:
		return 80 - 6*od
	case TierGood:
		return 140 - 8*od
	}
	return 200 - 10*od
}

// ApproachWindow is the ms an object is visible before its start time,
// piecewise linear in the approach rate and continuous at AR 5.
func ApproachWindow(ar float64) float64 {
	switch {
	case ar < 5:
		return 1200 + 600*(5-ar)/5
	case ar > 5:
		return 1200 - 750*(ar-5)/5
	}
	return 1200
}
