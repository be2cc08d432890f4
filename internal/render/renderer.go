package render

import (
	"image/color"
	"time"

	"git.lost.host/meutraa/tosu/internal/game"
)

type Renderer interface {
	Init() error
	Deinit() error

	// Size is the terminal size in cells, columns then rows
	Size() (int, int)
	// Project maps a logical playfield position to a terminal row, column
	Project(pos game.Vec) (int, int)

	AddDecoration(row, col int, content string, frames int)
	RenderLoop(delay time.Duration, render func(duration time.Duration) bool)
	Fill(row, col int, message string)
	FillColor(row, col int, c color.RGBA, message string)
	Clear()
}
