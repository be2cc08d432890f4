package game

import "time"

// Score is the immutable record of a finished play, produced exactly once
// when a session ends. Ownership passes to whoever persists it.
type Score struct {
	// Sum identifies the beatmap the play was against
	Sum string

	Score    int64
	Accuracy float64
	MaxCombo int

	Great int
	Good  int
	Meh   int
	Miss  int

	Mods  Mods
	Grade Grade
	Stamp time.Time
}
