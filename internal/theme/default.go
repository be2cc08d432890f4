package theme

import (
	"image/color"
	"strconv"

	"git.lost.host/meutraa/tosu/internal/game"
)

type DefaultTheme struct {
}

var (
	comboColours = [game.ComboColours]color.RGBA{
		{R: 236, G: 30, B: 0},
		{R: 0, G: 118, B: 236},
		{R: 236, G: 195, B: 0},
		{R: 0, G: 236, B: 128},
	}
	judgementColours = map[game.Tier]color.RGBA{
		game.TierGreat: {R: 173, G: 236, B: 236},
		game.TierGood:  {R: 0, G: 236, B: 128},
		game.TierMeh:   {R: 236, G: 128, B: 0},
		game.TierMiss:  {R: 236, G: 30, B: 0},
	}
	// shrinking approach indicator, outermost first
	approachSyms = [...]string{"◎", "◉", "●"}

	spinnerSym = "◌"
	ballSym    = "·"
)

func (t *DefaultTheme) ComboColour(index int) color.RGBA {
	return comboColours[index%game.ComboColours]
}

func (t *DefaultTheme) RenderObject(kind game.Kind, comboNumber int) string {
	if kind == game.KindSpinner {
		return spinnerSym
	}
	if comboNumber < 10 {
		return strconv.Itoa(comboNumber)
	}
	return "◉"
}

func (t *DefaultTheme) RenderBall() string {
	return ballSym
}

// RenderApproach picks the indicator for how far through the approach
// window the object is, 0 just spawned, 1 at its hit time.
func (t *DefaultTheme) RenderApproach(fraction float64) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	i := int(fraction * float64(len(approachSyms)))
	if i >= len(approachSyms) {
		i = len(approachSyms) - 1
	}
	return approachSyms[i]
}

func (t *DefaultTheme) JudgementColour(tier game.Tier) color.RGBA {
	return judgementColours[tier]
}
