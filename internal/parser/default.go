package parser

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"sort"
	"strconv"
	"strings"

	"git.lost.host/meutraa/tosu/internal/game"
)

var (
	// ErrNotFound means the beatmap file itself is missing, fatal to the parse
	ErrNotFound = errors.New("beatmap not found")
	// ErrMalformed means the input produced no usable hit objects at all.
	// A malformed individual object line is skipped, not fatal.
	ErrMalformed = errors.New("beatmap is malformed")
)

// Difficulty defaults when the [Difficulty] section omits a field. These
// feed the hit windows so they have to match reference behaviour exactly.
const (
	defaultCircleSize        = 4.0
	defaultApproachRate      = 9.0
	defaultOverallDifficulty = 8.0
	defaultDrainRate         = 5.0
	defaultSliderMultiplier  = 1.4

	// trailing grace after the last object, ms
	endGrace = 2000.0
)

// type flag bitmask of a hit object line
const (
	flagCircle   = 1 << 0
	flagSlider   = 1 << 1
	flagNewCombo = 1 << 2
	flagSpinner  = 1 << 3
	// three bit combo colour skip count above the spinner bit
	flagSkipShift = 4
	flagSkipMask  = 0x7
)

type DefaultParser struct{}

func (p *DefaultParser) Parse(file string) (*game.Beatmap, error) {
	data, err := ioutil.ReadFile(file)
	if nil != err {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%v: %w", file, ErrNotFound)
		}
		return nil, err
	}
	return p.Decode(file, data)
}

// Decode parses raw beatmap text. Sections may appear in any order, so hit
// object lines are collected first and built once the timing table is known.
func (p *DefaultParser) Decode(name string, data []byte) (*game.Beatmap, error) {
	sum := sha256.Sum256(data)

	b := &game.Beatmap{
		Sum: base64.StdEncoding.EncodeToString(sum[:]),
		Difficulty: game.Difficulty{
			CircleSize:        defaultCircleSize,
			ApproachRate:      defaultApproachRate,
			OverallDifficulty: defaultOverallDifficulty,
			DrainRate:         defaultDrainRate,
			SliderMultiplier:  defaultSliderMultiplier,
		},
	}

	section := ""
	objectLines := []string{}

	str := strings.ReplaceAll(string(data), "\r", "")
	for _, line := range strings.Split(str, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.ToLower(line[1 : len(line)-1])
			continue
		}

		switch section {
		case "general":
			key, value := splitKeyValue(line)
			if strings.EqualFold(key, "AudioFilename") {
				b.Audio = value
			}
		case "metadata":
			key, value := splitKeyValue(line)
			switch strings.ToLower(key) {
			case "title":
				b.Title = value
			case "artist":
				b.Artist = value
			case "version":
				b.Version = value
			}
		case "difficulty":
			key, value := splitKeyValue(line)
			switch strings.ToLower(key) {
			case "circlesize":
				b.Difficulty.CircleSize = parseFloat(value, defaultCircleSize)
			case "approachrate":
				b.Difficulty.ApproachRate = parseFloat(value, defaultApproachRate)
			case "overalldifficulty":
				b.Difficulty.OverallDifficulty = parseFloat(value, defaultOverallDifficulty)
			case "hpdrainrate":
				b.Difficulty.DrainRate = parseFloat(value, defaultDrainRate)
			case "slidermultiplier":
				b.Difficulty.SliderMultiplier = parseFloat(value, defaultSliderMultiplier)
			}
		case "events":
			parts := strings.Split(line, ",")
			if len(parts) >= 3 && (parts[0] == "0" || strings.EqualFold(parts[0], "Background")) {
				b.Background = strings.Trim(parts[2], "\"")
			}
		case "timingpoints":
			point, ok := parseTimingPoint(line)
			if ok {
				b.Timing.Points = append(b.Timing.Points, point)
			}
		case "hitobjects":
			objectLines = append(objectLines, line)
		}
		// unrecognised sections are ignored, not fatal
	}

	sort.SliceStable(b.Timing.Points, func(i, j int) bool {
		return b.Timing.Points[i].Time < b.Timing.Points[j].Time
	})
	b.Timing.BaseBeatLength = game.DefaultBeatLength

	comboNumber := 0
	comboColour := 0
	for _, line := range objectLines {
		object, ok := p.parseObject(b, line)
		if !ok {
			// a single malformed object is skipped, real world maps have them
			continue
		}
		if comboNumber == 0 || object.newCombo {
			comboNumber = 0
			comboColour = (comboColour + 1 + object.colourSkip) % game.ComboColours
		}
		comboNumber++
		object.o.ComboNumber = comboNumber
		object.o.ComboColour = comboColour
		b.Objects = append(b.Objects, object.o)
	}

	if len(b.Objects) == 0 {
		return nil, fmt.Errorf("%v: no hit objects: %w", name, ErrMalformed)
	}

	sort.SliceStable(b.Objects, func(i, j int) bool {
		return b.Objects[i].Time < b.Objects[j].Time
	})

	last := b.Objects[len(b.Objects)-1]
	b.Duration = last.EndTime() + endGrace

	return b, nil
}

type parsedObject struct {
	o          *game.HitObject
	newCombo   bool
	colourSkip int
}

// parseObject decodes one x,y,time,type,hitSound,... line. Malformed
// required fields reject the object.
func (p *DefaultParser) parseObject(b *game.Beatmap, line string) (parsedObject, bool) {
	parts := strings.Split(line, ",")
	if len(parts) < 5 {
		return parsedObject{}, false
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	t, errT := strconv.ParseInt(strings.TrimSpace(parts[2]), 10, 64)
	flags, errF := strconv.ParseInt(strings.TrimSpace(parts[3]), 10, 64)
	if nil != errX || nil != errY || nil != errT || nil != errF {
		return parsedObject{}, false
	}

	o := &game.HitObject{
		Time:     t,
		Pos:      game.Vec{X: x, Y: y},
		HitSound: uint8(parseInt(parts[4], 0)),
	}

	switch {
	case flags&flagSlider != 0:
		o.Kind = game.KindSlider
		if !p.parseSlider(b, o, parts) {
			return parsedObject{}, false
		}
	case flags&flagSpinner != 0:
		o.Kind = game.KindSpinner
		if len(parts) < 6 {
			return parsedObject{}, false
		}
		end, err := strconv.ParseInt(strings.TrimSpace(parts[5]), 10, 64)
		if nil != err || end < t {
			return parsedObject{}, false
		}
		o.Duration = float64(end - t)
	case flags&flagCircle != 0:
		o.Kind = game.KindCircle
	default:
		return parsedObject{}, false
	}

	// optional trailing hit sample field, only the sample set is kept
	tail := parts[len(parts)-1]
	if strings.Contains(tail, ":") {
		o.SampleSet = uint8(parseInt(strings.SplitN(tail, ":", 2)[0], 0))
	}

	return parsedObject{
		o:          o,
		newCombo:   flags&flagNewCombo != 0,
		colourSkip: int(flags >> flagSkipShift & flagSkipMask),
	}, true
}

// parseSlider decodes the pipe delimited curve descriptor and the repeat and
// length fields, builds the sampled path and resolves the active duration
// against the timing table.
func (p *DefaultParser) parseSlider(b *game.Beatmap, o *game.HitObject, parts []string) bool {
	if len(parts) < 8 {
		return false
	}

	tokens := strings.Split(parts[5], "|")
	if len(tokens) < 2 || len(tokens[0]) != 1 {
		return false
	}
	o.Curve = tokens[0][0]

	control := []game.Vec{o.Pos}
	for _, token := range tokens[1:] {
		xy := strings.Split(strings.TrimSpace(token), ":")
		if len(xy) != 2 {
			return false
		}
		cx, errX := strconv.ParseFloat(xy[0], 64)
		cy, errY := strconv.ParseFloat(xy[1], 64)
		if nil != errX || nil != errY {
			return false
		}
		control = append(control, game.Vec{X: cx, Y: cy})
	}
	o.Path = game.BuildPath(control)

	slides, err := strconv.Atoi(strings.TrimSpace(parts[6]))
	if nil != err || slides < 1 {
		return false
	}
	o.Repeats = slides - 1

	length, err := strconv.ParseFloat(strings.TrimSpace(parts[7]), 64)
	if nil != err || length < 0 {
		return false
	}

	// velocity in px/ms, then one pass duration scaled by the pass count
	beatLength := b.Timing.EffectiveBeatLength(float64(o.Time))
	velocity := b.Difficulty.SliderMultiplier * 100 / beatLength
	o.Duration = length / velocity * float64(o.Repeats+1)

	return true
}

func parseTimingPoint(line string) (game.TimingPoint, bool) {
	parts := strings.Split(line, ",")
	if len(parts) < 2 {
		return game.TimingPoint{}, false
	}
	t, errT := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	beatLength, errB := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if nil != errT || nil != errB || beatLength == 0 {
		return game.TimingPoint{}, false
	}
	point := game.TimingPoint{Time: int64(t), Multiplier: 1}
	if beatLength < 0 {
		// an inherited point scales the last uninherited beat length
		point.Inherited = true
		point.Multiplier = -100 / beatLength
	} else {
		point.BeatLength = beatLength
	}
	return point, true
}

func splitKeyValue(line string) (string, string) {
	i := strings.Index(line, ":")
	if i < 0 {
		return strings.TrimSpace(line), ""
	}
	return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:])
}

func parseInt(s string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if nil != err {
		return def
	}
	return v
}

func parseFloat(s string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if nil != err {
		return def
	}
	return v
}
