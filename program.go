package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"git.lost.host/meutraa/tosu/internal/audio"
	"git.lost.host/meutraa/tosu/internal/config"
	"git.lost.host/meutraa/tosu/internal/game"
	"git.lost.host/meutraa/tosu/internal/parser"
	"git.lost.host/meutraa/tosu/internal/render"
	"git.lost.host/meutraa/tosu/internal/score"
	"git.lost.host/meutraa/tosu/internal/session"
	"git.lost.host/meutraa/tosu/internal/theme"
	"github.com/eiannone/keyboard"
)

type Program struct {
	Parser   parser.Parser
	Scorer   score.Scorer
	Renderer render.Renderer
	Theme    theme.Theme
	Player   audio.Player

	beatmap *game.Beatmap
	mods    game.Mods
	session *session.Session

	audioFile string
	rate      float64
	keys      []rune

	paused      bool
	pausedAt    time.Duration
	pausedTotal time.Duration

	failed     bool
	finalScore *game.Score
	history    []game.Score

	keyChannel <-chan keyboard.KeyEvent
}

func (p *Program) Init() error {
	// Ensure our Default implementations are used as interfaces
	p.Parser = &parser.DefaultParser{}
	p.Scorer = &score.DefaultScorer{}
	p.Renderer = &render.DefaultRenderer{}
	p.Theme = &theme.DefaultTheme{}
	p.Player = &audio.DefaultPlayer{}

	mods, err := game.ParseMods(*config.ModString)
	if nil != err {
		return err
	}
	p.mods = mods
	p.rate = *config.Rate * mods.Rate()
	p.keys = []rune(*config.Keys)
	if len(p.keys) == 0 {
		return errors.New("at least one hit key is required")
	}

	keyChannel, err := keyboard.GetKeys(128)
	if nil != err {
		return fmt.Errorf("unable to open keyboard: %w", err)
	}
	p.keyChannel = keyChannel

	var charts []string
	var mp3File, ogg string
	if err := filepath.Walk(*config.Directory, func(fp string, info os.FileInfo, err error) error {
		if nil != err {
			return err
		}
		switch path.Ext(info.Name()) {
		case ".mp3":
			mp3File = fp
		case ".ogg":
			ogg = fp
		case ".osu":
			charts = append(charts, fp)
		}
		return nil
	}); nil != err {
		return fmt.Errorf("unable to walk song directory: %w", err)
	}
	if len(charts) == 0 {
		return errors.New("unable to find an .osu file in given directory")
	}

	// Parsing is pure, a bad difficulty only removes itself from the list
	beatmaps := []*game.Beatmap{}
	for _, chart := range charts {
		b, err := p.Parser.Parse(chart)
		if nil != err {
			log.Println("skipping difficulty:", err)
			continue
		}
		beatmaps = append(beatmaps, b)
	}
	if len(beatmaps) == 0 {
		return errors.New("no difficulty parsed cleanly")
	}

	beatmap, err := p.selectDifficulty(beatmaps)
	if nil != err {
		return err
	}
	p.beatmap = beatmap

	p.audioFile = path.Join(*config.Directory, beatmap.Audio)
	if _, err := os.Stat(p.audioFile); nil != err {
		// fall back to whatever audio the directory walk found
		p.audioFile = mp3File
		if ogg != "" {
			p.audioFile = ogg
		}
	}
	if !*config.Silent {
		if p.audioFile == "" {
			return errors.New("unable to find .mp3/.ogg file in given directory")
		}
		if err := p.Player.Open(p.audioFile, p.rate); nil != err {
			return err
		}
	}

	if err := p.Scorer.Init(*config.Database); nil != err {
		return err
	}
	history, err := p.Scorer.Load(beatmap.Sum)
	if nil != err {
		log.Println("unable to load score history:", err)
	}
	p.history = history

	p.session = session.New(beatmap, p.mods, p)
	return nil
}

func (p *Program) Deinit() {
	p.Scorer.Deinit()
	p.Player.Close()
	if err := keyboard.Close(); nil != err {
		log.Println("unable to close keyboard:", err)
	}
}

func (p *Program) selectDifficulty(beatmaps []*game.Beatmap) (*game.Beatmap, error) {
	if len(beatmaps) == 1 {
		return beatmaps[0], nil
	}
	for i, b := range beatmaps {
		fmt.Printf("%2v) %-24v %4v objects  OD%-4v AR%-4v\n",
			i, b.Version, len(b.Objects),
			b.Difficulty.OverallDifficulty, b.Difficulty.ApproachRate)
	}
	key := <-p.keyChannel
	index, err := strconv.ParseInt(string(key.Rune), 10, 64)
	if nil != err || index >= int64(len(beatmaps)) {
		return nil, errors.New("no difficulty selected")
	}
	return beatmaps[index], nil
}

// OnEvent is the session observer, fanning judgements and requests out to
// the renderer, audio and score collaborators.
func (p *Program) OnEvent(e session.Event) {
	switch e := e.(type) {
	case session.AudioStartRequested:
		if !*config.Silent {
			p.Player.Start(*config.Delay)
		}
	case session.HitSoundRequested:
		// no sample banks are shipped, the request is dropped
	case session.JudgementResolved:
		row, col := p.Renderer.Project(e.Pos)
		sym := "+"
		if e.Tier == game.TierMiss {
			sym = "⨯"
		}
		c := p.Theme.JudgementColour(e.Tier)
		p.Renderer.AddDecoration(row, col,
			fmt.Sprintf("\033[38;2;%v;%v;%vm%v\033[0m", c.R, c.G, c.B, sym), 60)
	case session.SessionFailed:
		p.failed = true
	case session.SessionEnded:
		sc := e.Score
		p.finalScore = &sc
		if err := p.Scorer.Save(&sc); nil != err {
			log.Println("unable to save score:", err)
		}
	}
}

func (p *Program) isHitKey(r rune) bool {
	for _, k := range p.keys {
		if r == k {
			return true
		}
	}
	return false
}

func (p *Program) togglePause(duration time.Duration) {
	if p.paused {
		p.pausedTotal += duration - p.pausedAt
		p.paused = false
		p.session.Resume()
		p.Player.Pause(false)
		return
	}
	p.paused = true
	p.pausedAt = duration
	p.session.Pause()
	p.Player.Pause(true)
}

// songTime maps the wall clock duration of the render loop to song ms,
// skipping over however long the session spent paused.
func (p *Program) songTime(duration time.Duration) float64 {
	active := duration - p.pausedTotal
	return float64(active.Milliseconds())*p.rate + float64(config.Offset.Milliseconds())
}

func (p *Program) Run() error {
	if err := p.Renderer.Init(); nil != err {
		return err
	}
	defer func() {
		if err := p.Renderer.Deinit(); nil != err {
			log.Println("unable to restore terminal:", err)
		}
	}()

	p.session.Start()

	p.Renderer.RenderLoop(*config.Delay, func(duration time.Duration) bool {
		songTime := p.songTime(duration)

		// get the key inputs that occured so far
		for i := 0; i < len(p.keyChannel); i++ {
			key := <-p.keyChannel
			if key.Key == keyboard.KeyEsc {
				return false
			}
			if key.Rune == 'p' || key.Key == keyboard.KeySpace {
				p.togglePause(duration)
				continue
			}
			if p.paused || !p.isHitKey(key.Rune) {
				continue
			}
			// a key has no position of its own, aim at the pending object
			if pos, _, ok := p.session.NextTarget(); ok {
				p.session.Press(pos, songTime)
			}
		}

		if p.paused {
			p.renderFrame(songTime)
			return true
		}

		if p.mods.Has(game.ModAutoplay) {
			for {
				pos, t, ok := p.session.NextTarget()
				if !ok || songTime < float64(t) {
					break
				}
				p.session.Press(pos, songTime)
			}
		}

		p.session.Tick(songTime)
		p.renderFrame(songTime)

		switch p.session.Phase() {
		case session.PhaseEnded, session.PhaseFailed:
			return false
		}
		return true
	})

	return p.results()
}

func (p *Program) renderFrame(songTime float64) {
	r := p.Renderer
	r.Clear()

	for i, o := range p.beatmap.Objects {
		if !p.session.Spawned(i) {
			continue
		}

		row, col := r.Project(o.Pos)
		colour := p.Theme.ComboColour(o.ComboColour)
		r.FillColor(row, col, colour, p.Theme.RenderObject(o.Kind, o.ComboNumber))

		if songTime < float64(o.Time) {
			fraction := 1 - (float64(o.Time)-songTime)/p.session.Preempt()
			r.FillColor(row, col+1, colour, p.Theme.RenderApproach(fraction))
		} else if o.Kind != game.KindCircle && p.session.Judged(i) {
			ballRow, ballCol := r.Project(o.Path.PositionAt(p.session.PathProgress(i)))
			r.Fill(ballRow, ballCol, p.Theme.RenderBall())
		}
	}

	columns, rows := r.Size()
	sideCol := columns - 26
	if sideCol < 2 {
		sideCol = 2
	}
	great, good, meh, miss := p.session.Counts()
	r.Fill(2, sideCol, fmt.Sprintf("  Score: %9v", p.session.Score()))
	r.Fill(3, sideCol, fmt.Sprintf("  Combo: %6vx (%v)", p.session.Combo(), p.session.MaxCombo()))
	r.Fill(4, sideCol, fmt.Sprintf("    Acc: %8.2f%%", p.session.Accuracy()*100))
	r.Fill(5, sideCol, fmt.Sprintf(" Health: %v", healthBar(p.session.Health())))
	r.Fill(7, sideCol, fmt.Sprintf("  Great: %7v", great))
	r.Fill(8, sideCol, fmt.Sprintf("   Good: %7v", good))
	r.Fill(9, sideCol, fmt.Sprintf("    Meh: %7v", meh))
	r.Fill(10, sideCol, fmt.Sprintf("   Miss: %7v", miss))
	if p.paused {
		r.Fill(rows/2, columns/2-3, "PAUSED")
	}
}

func healthBar(health float64) string {
	const width = 10
	filled := int(health * width)
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}

func (p *Program) results() error {
	if p.failed {
		fmt.Printf("Failed %v [%v]\n", p.beatmap.Title, p.beatmap.Version)
		return nil
	}
	if nil == p.finalScore {
		return nil
	}

	sc := p.finalScore
	fmt.Printf("%v - %v [%v]\n", p.beatmap.Artist, p.beatmap.Title, p.beatmap.Version)
	if mods := sc.Mods.String(); mods != "" {
		fmt.Printf("  Mods: %v\n", mods)
	}
	fmt.Printf(" Grade: %v\n", sc.Grade)
	fmt.Printf(" Score: %v\n", sc.Score)
	fmt.Printf("   Acc: %.2f%%\n", sc.Accuracy*100)
	fmt.Printf(" Combo: %vx\n", sc.MaxCombo)
	fmt.Printf("        %v/%v/%v/%v\n", sc.Great, sc.Good, sc.Meh, sc.Miss)
	for i, h := range p.history {
		if i >= 5 {
			break
		}
		fmt.Printf("%2v) %9v %6.2f%% %v\n", i+1, h.Score, h.Accuracy*100, h.Grade)
	}
	<-p.keyChannel
	return nil
}
