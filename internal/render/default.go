package render

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"
	"time"

	"git.lost.host/meutraa/tosu/internal/config"
	"git.lost.host/meutraa/tosu/internal/game"
	"golang.org/x/term"
)

// Playfield is the logical coordinate space of every hit object.
const (
	PlayfieldWidth  = 512.0
	PlayfieldHeight = 384.0
)

type DefaultRenderer struct {
	buffer       strings.Builder
	restoreState *term.State
	decorations  []*decoration

	columns, rows int
}

type decoration struct {
	Row, Col int
	Content  string
	Frames   int // remaining frames until removed
}

func (r *DefaultRenderer) Init() error {
	columns, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if nil != err {
		return fmt.Errorf("unable to get terminal size: %w", err)
	}
	r.columns, r.rows = columns, rows

	state, err := term.MakeRaw(int(os.Stdout.Fd()))
	if nil != err {
		return err
	}
	r.restoreState = state

	fmt.Printf("%s%s%s",
		"\033[?1049h", // Enable alternate buffer
		"\033[?25l",   // Make the cursor invisible
		"\033[J",      // Clear the screen
	)
	return nil
}

func (r *DefaultRenderer) Deinit() error {
	fmt.Printf("%s%s",
		"\033[?1049l", // Disable alternate buffer
		"\033[?25h",   // Make the cursor visible
	)
	return term.Restore(int(os.Stdout.Fd()), r.restoreState)
}

func (r *DefaultRenderer) Size() (int, int) {
	return r.columns, r.rows
}

// Project maps the 512x384 playfield onto the terminal, preserving the 4:3
// aspect as well as half-height character cells allow.
func (r *DefaultRenderer) Project(pos game.Vec) (int, int) {
	// terminal cells are roughly twice as tall as wide
	width := float64(r.rows-2) * 2 * PlayfieldWidth / PlayfieldHeight
	if width > float64(r.columns-2) {
		width = float64(r.columns - 2)
	}
	height := width / 2 * PlayfieldHeight / PlayfieldWidth
	left := (float64(r.columns) - width) / 2
	top := (float64(r.rows) - height) / 2

	col := 1 + int(left+pos.X/PlayfieldWidth*(width-1))
	row := 1 + int(top+pos.Y/PlayfieldHeight*(height-1))
	return row, col
}

func (r *DefaultRenderer) AddDecoration(row, col int, content string, frames int) {
	r.decorations = append(r.decorations, &decoration{
		Row:     row,
		Col:     col,
		Content: content,
		Frames:  frames,
	})
	r.Fill(row, col, content)
}

func (r *DefaultRenderer) tickDecorations() {
	nd := make([]*decoration, 0, len(r.decorations))
	for _, d := range r.decorations {
		if d.Frames == 0 {
			r.Fill(d.Row, d.Col, " ")
			continue
		}
		// redrawn every frame, the caller may have cleared the screen
		r.Fill(d.Row, d.Col, d.Content)
		nd = append(nd, d)
		d.Frames--
	}
	r.decorations = nd
}

func (r *DefaultRenderer) RenderLoop(
	delay time.Duration,
	render func(duration time.Duration) bool,
) {
	cont := true
	startTime := time.Now().Add(delay)
	for cont {
		now := time.Now()
		deadline := now.Add(*config.FramePeriod)

		cont = render(now.Sub(startTime))

		r.tickDecorations()
		r.flush()

		time.Sleep(deadline.Sub(time.Now()))
	}
}

func (r *DefaultRenderer) Clear() {
	r.buffer.WriteString("\033[2J")
}

func (r *DefaultRenderer) Fill(row, col int, message string) {
	r.buffer.WriteString("\033[")
	r.buffer.WriteString(strconv.FormatInt(int64(row), 10))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.FormatInt(int64(col), 10))
	r.buffer.WriteString("H")
	r.buffer.WriteString(message)
}

func (r *DefaultRenderer) FillColor(row, col int, c color.RGBA, message string) {
	r.buffer.WriteString("\033[")
	r.buffer.WriteString(strconv.FormatInt(int64(row), 10))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.FormatInt(int64(col), 10))
	r.buffer.WriteString("H\033[38;2;")
	r.buffer.WriteString(strconv.FormatInt(int64(c.R), 10))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.FormatInt(int64(c.G), 10))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.FormatInt(int64(c.B), 10))
	r.buffer.WriteString("m")
	r.buffer.WriteString(message)
	r.buffer.WriteString("\033[0m")
}

func (r *DefaultRenderer) flush() {
	os.Stdout.Write([]byte(r.buffer.String()))
	r.buffer.Reset()
}
