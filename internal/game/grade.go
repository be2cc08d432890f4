package game

// Grade is the letter grade of a completed play.
type Grade uint8

const (
	GradeSS Grade = iota
	GradeS
	GradeA
	GradeB
	GradeC
	GradeD
)

func (g Grade) String() string {
	switch g {
	case GradeSS:
		return "SS"
	case GradeS:
		return "S"
	case GradeA:
		return "A"
	case GradeB:
		return "B"
	case GradeC:
		return "C"
	}
	return "D"
}

// GradeFor computes the grade from the final judgement counts. The rules are
// checked in order, the first that matches wins.
func GradeFor(great, good, meh, miss int) Grade {
	total := great + good + meh + miss
	if total == 0 {
		return GradeSS
	}
	greatRatio := float64(great) / float64(total)
	mehRatio := float64(meh) / float64(total)
	switch {
	case greatRatio == 1.0:
		return GradeSS
	case greatRatio > 0.9 && mehRatio <= 0.01 && miss == 0:
		return GradeS
	case (greatRatio > 0.8 && miss == 0) || greatRatio > 0.9:
		return GradeA
	case (greatRatio > 0.7 && miss == 0) || greatRatio > 0.8:
		return GradeB
	case greatRatio > 0.6:
		return GradeC
	}
	return GradeD
}
