package audio

import (
	"fmt"
	"math"
	"os"
	"path"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
)

// DefaultPlayer plays the song through the beep speaker. Rate shifting is
// done by initialising the speaker at a scaled sample rate, so Position
// still reads in song time.
type DefaultPlayer struct {
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	file     *os.File
}

func (p *DefaultPlayer) Open(file string, rate float64) error {
	f, err := os.Open(file)
	if nil != err {
		return err
	}

	switch path.Ext(file) {
	case ".ogg":
		p.streamer, p.format, err = vorbis.Decode(f)
	case ".mp3":
		p.streamer, p.format, err = mp3.Decode(f)
	default:
		f.Close()
		return fmt.Errorf("unsupported audio format: %v", file)
	}
	if nil != err {
		f.Close()
		return err
	}

	p.file = f
	p.ctrl = &beep.Ctrl{Streamer: p.streamer}

	sr := beep.SampleRate(math.Round(float64(p.format.SampleRate) * rate))
	return speaker.Init(sr, p.format.SampleRate.N(time.Second/60))
}

func (p *DefaultPlayer) Start(delay time.Duration) {
	go func() {
		time.Sleep(delay)
		speaker.Play(p.ctrl)
	}()
}

func (p *DefaultPlayer) Pause(paused bool) {
	if nil == p.ctrl {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = paused
	speaker.Unlock()
}

// Position is the song time consumed so far, unaffected by the rate the
// speaker drains samples at.
func (p *DefaultPlayer) Position() time.Duration {
	if nil == p.streamer {
		return 0
	}
	speaker.Lock()
	position := p.streamer.Position()
	speaker.Unlock()
	return p.format.SampleRate.D(position)
}

func (p *DefaultPlayer) Close() {
	if nil != p.streamer {
		p.streamer.Close()
	}
	if nil != p.file {
		p.file.Close()
	}
}
