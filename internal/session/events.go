package session

import "git.lost.host/meutraa/tosu/internal/game"

// Event is the sum type the session emits synchronously from Tick and Press.
// Collecting them into a slice is all a test needs to observe a whole play.
type Event interface {
	event()
}

// ObjectSpawned fires when an object enters its approach window.
type ObjectSpawned struct {
	Index  int
	Object *game.HitObject
	// Preempt is the ms the object stays visible before its start time
	Preempt float64
}

// JudgementResolved fires when a tier is awarded, including misses.
type JudgementResolved struct {
	Index int
	Tier  game.Tier
	Pos   game.Vec
	Combo int
}

type SessionPaused struct{}

type SessionResumed struct{}

// SessionFailed fires once when health empties without no-fail active.
type SessionFailed struct{}

// SessionEnded carries the final score record, emitted exactly once.
type SessionEnded struct {
	Score game.Score
}

// HitSoundRequested asks the audio collaborator for a sample. The flags are
// the opaque selection bits from the beatmap.
type HitSoundRequested struct {
	SampleSet uint8
	HitSound  uint8
}

// AudioStartRequested asks the audio collaborator to begin playback.
type AudioStartRequested struct {
	File string
}

func (ObjectSpawned) event()       {}
func (JudgementResolved) event()   {}
func (SessionPaused) event()       {}
func (SessionResumed) event()      {}
func (SessionFailed) event()       {}
func (SessionEnded) event()        {}
func (HitSoundRequested) event()   {}
func (AudioStartRequested) event() {}

// Observer consumes session events. Callbacks are fire and forget, the
// session never inspects a return value.
type Observer interface {
	OnEvent(e Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(e Event)

func (f ObserverFunc) OnEvent(e Event) {
	f(e)
}
