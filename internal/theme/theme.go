package theme

import (
	"image/color"

	"git.lost.host/meutraa/tosu/internal/game"
)

type Theme interface {
	// ComboColour resolves the abstract palette index the core emits
	ComboColour(index int) color.RGBA

	RenderObject(kind game.Kind, comboNumber int) string
	RenderBall() string
	RenderApproach(fraction float64) string

	JudgementColour(tier game.Tier) color.RGBA
}
