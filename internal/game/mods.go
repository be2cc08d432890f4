package game

import (
	"fmt"
	"strings"
)

// Mod is a single named modifier flag.
type Mod uint16

const (
	ModEasy Mod = 1 << iota
	ModHardRock
	ModReallyEasy
	ModHalfTime
	ModDoubleTime
	ModNightcore
	ModSuddenDeath
	ModPerfect
	ModNoFail
	ModRelax
	ModAutopilot
	ModAutoplay
)

// Members of a group are mutually exclusive, enabling one clears the others.
var modGroups = [...]Mod{
	ModEasy | ModHardRock | ModReallyEasy,
	ModHalfTime | ModDoubleTime | ModNightcore,
	ModSuddenDeath | ModPerfect | ModNoFail,
	ModRelax | ModAutopilot | ModAutoplay,
}

var modAcronyms = map[string]Mod{
	"EZ": ModEasy,
	"HR": ModHardRock,
	"RE": ModReallyEasy,
	"HT": ModHalfTime,
	"DT": ModDoubleTime,
	"NC": ModNightcore,
	"SD": ModSuddenDeath,
	"PF": ModPerfect,
	"NF": ModNoFail,
	"RX": ModRelax,
	"AP": ModAutopilot,
	"AT": ModAutoplay,
}

var modOrder = [...]struct {
	mod        Mod
	acronym    string
	multiplier float64
}{
	{ModEasy, "EZ", 0.5},
	{ModHardRock, "HR", 1.06},
	{ModReallyEasy, "RE", 0.4},
	{ModHalfTime, "HT", 0.3},
	{ModDoubleTime, "DT", 1.12},
	{ModNightcore, "NC", 1.12},
	{ModSuddenDeath, "SD", 1.0},
	{ModPerfect, "PF", 1.0},
	{ModNoFail, "NF", 0.5},
	{ModRelax, "RX", 0},
	{ModAutopilot, "AP", 0},
	{ModAutoplay, "AT", 0},
}

// Mods is the active modifier set.
type Mods uint16

// Enable turns a mod on, clearing the other members of its exclusion group.
func (m *Mods) Enable(mod Mod) {
	for _, group := range modGroups {
		if group&mod != 0 {
			*m &^= Mods(group)
		}
	}
	*m |= Mods(mod)
}

// Disable turns a mod off.
func (m *Mods) Disable(mod Mod) {
	*m &^= Mods(mod)
}

func (m Mods) Has(mod Mod) bool {
	return m&Mods(mod) != 0
}

// Multiplier is the score multiplier, a product over the active mods.
// An assisted play (relax, autopilot, autoplay) is worth nothing.
func (m Mods) Multiplier() float64 {
	multiplier := 1.0
	for _, e := range modOrder {
		if m.Has(e.mod) {
			multiplier *= e.multiplier
		}
	}
	return multiplier
}

// Rate is the playback speed factor implied by the active mods.
func (m Mods) Rate() float64 {
	switch {
	case m.Has(ModHalfTime):
		return 0.75
	case m.Has(ModDoubleTime), m.Has(ModNightcore):
		return 1.5
	}
	return 1.0
}

// Apply scales the difficulty parameters the way the active mods demand.
// The result is what the session derives its windows and radii from.
func (m Mods) Apply(d Difficulty) Difficulty {
	switch {
	case m.Has(ModHardRock):
		d.CircleSize = capped(d.CircleSize * 1.3)
		d.ApproachRate = capped(d.ApproachRate * 1.4)
		d.OverallDifficulty = capped(d.OverallDifficulty * 1.4)
		d.DrainRate = capped(d.DrainRate * 1.4)
	case m.Has(ModEasy):
		d.CircleSize /= 2
		d.ApproachRate /= 2
		d.OverallDifficulty /= 2
		d.DrainRate /= 2
	case m.Has(ModReallyEasy):
		d.CircleSize /= 4
		d.ApproachRate /= 4
		d.OverallDifficulty /= 4
		d.DrainRate /= 4
	}
	return d
}

func capped(v float64) float64 {
	if v > 10 {
		return 10
	}
	return v
}

// ParseMods reads a comma separated list of acronyms, for example "HR,DT".
func ParseMods(s string) (Mods, error) {
	var mods Mods
	s = strings.TrimSpace(s)
	if s == "" {
		return mods, nil
	}
	for _, part := range strings.Split(s, ",") {
		part = strings.ToUpper(strings.TrimSpace(part))
		mod, ok := modAcronyms[part]
		if !ok {
			return mods, fmt.Errorf("unknown mod acronym %q", part)
		}
		mods.Enable(mod)
	}
	return mods, nil
}

func (m Mods) String() string {
	if m == 0 {
		return ""
	}
	parts := []string{}
	for _, e := range modOrder {
		if m.Has(e.mod) {
			parts = append(parts, e.acronym)
		}
	}
	return strings.Join(parts, ",")
}
