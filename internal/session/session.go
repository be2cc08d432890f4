package session

import (
	"math"
	"time"

	"git.lost.host/meutraa/tosu/internal/game"
)

// Phase is the session level state.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseActive
	PhasePaused
	PhaseEnded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhasePaused:
		return "paused"
	case PhaseEnded:
		return "ended"
	case PhaseFailed:
		return "failed"
	}
	return "idle"
}

// objectState is the per object lifecycle tag. The order matters, anything
// >= stateHit is resolved.
type objectState uint8

const (
	stateUnspawned objectState = iota
	stateSpawned
	stateHit
	stateMissed
)

// runState is the mutable per object state, parallel to Beatmap.Objects.
// The parsed beatmap itself is never touched so it can be replayed.
type runState struct {
	state objectState
	// judged means a tier has been awarded, a slider head press counts
	judged   bool
	tracking bool
	progress float64
}

// health drain per ms, per point of drain rate
const drainPerMs = 2e-6

// Session is the gameplay state machine. It is driven by Tick once per frame
// and by Press/Release per input event, all from one goroutine, and emits
// its side effects as events to a single observer.
type Session struct {
	beatmap  *game.Beatmap
	mods     game.Mods
	diff     game.Difficulty
	observer Observer

	preempt     float64
	windowGreat float64
	windowGood  float64
	windowMeh   float64
	radius      float64
	multiplier  float64

	phase  Phase
	now    float64
	ticked bool

	objects       []runState
	spawnCursor   int
	resolveCursor int
	resolvedCount int

	score    int64
	combo    int
	maxCombo int
	great    int
	good     int
	meh      int
	miss     int
	accuracy float64
	health   float64
}

// New derives the mod adjusted difficulty and prepares an idle session.
// Windows are in song time, so rate mods change them implicitly through the
// clock rather than here.
func New(beatmap *game.Beatmap, mods game.Mods, observer Observer) *Session {
	diff := mods.Apply(beatmap.Difficulty)
	return &Session{
		beatmap:     beatmap,
		mods:        mods,
		diff:        diff,
		observer:    observer,
		preempt:     game.ApproachWindow(diff.ApproachRate),
		windowGreat: game.HitWindow(game.TierGreat, diff.OverallDifficulty),
		windowGood:  game.HitWindow(game.TierGood, diff.OverallDifficulty),
		windowMeh:   game.HitWindow(game.TierMeh, diff.OverallDifficulty),
		radius:      diff.CircleRadius(),
		multiplier:  mods.Multiplier(),
		objects:     make([]runState, len(beatmap.Objects)),
		accuracy:    1,
		health:      1,
	}
}

// Start resets all counters, marks every object unspawned and goes active.
func (s *Session) Start() {
	for i := range s.objects {
		s.objects[i] = runState{}
	}
	s.spawnCursor = 0
	s.resolveCursor = 0
	s.resolvedCount = 0
	s.score = 0
	s.combo = 0
	s.maxCombo = 0
	s.great, s.good, s.meh, s.miss = 0, 0, 0, 0
	s.accuracy = 1
	s.health = 1
	s.ticked = false
	s.phase = PhaseActive
	s.emit(AudioStartRequested{File: s.beatmap.Audio})
}

// Tick advances the session to the given song time. Calls must be
// monotonic while active, a regression is dropped. The internal order is
// spawn check, miss check, continuous update, health drain, end check.
func (s *Session) Tick(songTime float64) {
	if s.phase != PhaseActive {
		return
	}
	dt := 0.0
	if s.ticked {
		dt = songTime - s.now
		if dt < 0 {
			return
		}
	}
	s.ticked = true
	s.now = songTime

	s.spawn(songTime)
	s.expire(songTime)
	if s.phase != PhaseActive {
		return
	}
	s.advance(songTime)
	s.drain(dt)
	if s.phase != PhaseActive {
		return
	}
	s.finish(songTime)
}

func (s *Session) spawn(songTime float64) {
	for s.spawnCursor < len(s.objects) {
		o := s.beatmap.Objects[s.spawnCursor]
		if float64(o.Time)-s.preempt > songTime {
			break
		}
		s.objects[s.spawnCursor].state = stateSpawned
		s.emit(ObjectSpawned{Index: s.spawnCursor, Object: o, Preempt: s.preempt})
		s.spawnCursor++
	}
}

// expire misses every unjudged object whose widest hit window has passed,
// so nothing stays pending forever.
func (s *Session) expire(songTime float64) {
	for i := s.resolveCursor; i < s.spawnCursor; i++ {
		rs := &s.objects[i]
		if rs.state != stateSpawned || rs.judged {
			continue
		}
		if float64(s.beatmap.Objects[i].Time)+s.windowMeh < songTime {
			s.applyJudgement(i, game.TierMiss)
			if s.phase != PhaseActive {
				return
			}
		}
	}
	for s.resolveCursor < len(s.objects) && s.objects[s.resolveCursor].state >= stateHit {
		s.resolveCursor++
	}
}

// advance recomputes slider/spinner animation progress and resolves judged
// objects whose full duration has elapsed. The head judgement already
// happened, completion credit produces no second judgement.
func (s *Session) advance(songTime float64) {
	for i := s.resolveCursor; i < s.spawnCursor; i++ {
		rs := &s.objects[i]
		if rs.state != stateSpawned {
			continue
		}
		o := s.beatmap.Objects[i]
		if o.Kind == game.KindCircle {
			continue
		}
		elapsed := songTime - float64(o.Time)
		if o.Kind == game.KindSlider {
			rs.progress = game.Progress(elapsed, o.Duration, o.Repeats)
		} else if o.Duration <= 0 || elapsed >= o.Duration {
			rs.progress = 1
		} else if elapsed > 0 {
			rs.progress = elapsed / o.Duration
		}
		if rs.judged && songTime >= o.EndTime() {
			rs.state = stateHit
			s.resolvedCount++
		}
	}
}

func (s *Session) drain(dt float64) {
	s.health -= s.diff.DrainRate * drainPerMs * dt
	if s.health > 1 {
		s.health = 1
	}
	if s.health <= 0 {
		if s.mods.Has(game.ModNoFail) {
			s.health = 0
			return
		}
		s.fail()
	}
}

func (s *Session) finish(songTime float64) {
	if s.resolvedCount < len(s.objects) || songTime <= s.beatmap.Duration {
		return
	}
	s.phase = PhaseEnded
	s.emit(SessionEnded{Score: game.Score{
		Sum:      s.beatmap.Sum,
		Score:    s.score,
		Accuracy: s.accuracy,
		MaxCombo: s.maxCombo,
		Great:    s.great,
		Good:     s.good,
		Meh:      s.meh,
		Miss:     s.miss,
		Mods:     s.mods,
		Grade:    game.GradeFor(s.great, s.good, s.meh, s.miss),
		Stamp:    time.Now(),
	}})
}

// Press resolves an input event against the spawned, unresolved objects.
// An input that reaches nothing is a no-op, not an error.
func (s *Session) Press(pos game.Vec, songTime float64) {
	if s.phase != PhaseActive {
		return
	}
	index, ok := s.candidate(pos, songTime)
	if !ok {
		return
	}
	o := s.beatmap.Objects[index]
	offset := math.Abs(songTime - float64(o.Time))
	tier := game.TierMeh
	switch {
	case offset <= s.windowGreat:
		tier = game.TierGreat
	case offset <= s.windowGood:
		tier = game.TierGood
	}
	s.emit(HitSoundRequested{SampleSet: o.SampleSet, HitSound: o.HitSound})
	s.applyJudgement(index, tier)
}

// Release clears slider/spinner tracking. Completion credit is decided at
// the head press, so an early release does not revoke it.
func (s *Session) Release() {
	if s.phase != PhaseActive {
		return
	}
	for i := s.resolveCursor; i < s.spawnCursor; i++ {
		s.objects[i].tracking = false
	}
}

// Pause stops judgement until Resume. The host owns the clock and must
// re-derive song time over the gap, Tick while paused is dropped.
func (s *Session) Pause() {
	if s.phase != PhaseActive {
		return
	}
	s.phase = PhasePaused
	s.emit(SessionPaused{})
}

func (s *Session) Resume() {
	if s.phase != PhasePaused {
		return
	}
	s.phase = PhaseActive
	s.emit(SessionResumed{})
}

// candidate is the hit test: the object closest in time among the spawned,
// unresolved ones within both the spatial and the temporal tolerance.
// Equal offsets keep the earlier index.
func (s *Session) candidate(pos game.Vec, songTime float64) (int, bool) {
	best := -1
	bestOffset := 0.0
	for i := s.resolveCursor; i < s.spawnCursor; i++ {
		rs := &s.objects[i]
		if rs.state != stateSpawned || rs.judged {
			continue
		}
		o := s.beatmap.Objects[i]
		offset := math.Abs(songTime - float64(o.Time))
		if offset > s.windowMeh {
			continue
		}
		// a spinner has no positional requirement
		if o.Kind != game.KindSpinner && pos.Dist(o.Pos) > s.radius {
			continue
		}
		if best == -1 || offset < bestOffset {
			best = i
			bestOffset = offset
		}
	}
	return best, best != -1
}

func (s *Session) applyJudgement(index int, tier game.Tier) {
	rs := &s.objects[index]
	o := s.beatmap.Objects[index]
	rs.judged = true
	if tier == game.TierMiss {
		s.miss++
		s.combo = 0
		rs.state = stateMissed
		s.resolvedCount++
	} else {
		switch tier {
		case game.TierGreat:
			s.great++
		case game.TierGood:
			s.good++
		default:
			s.meh++
		}
		s.score += int64(math.Round(float64(tier.BaseValue()) * float64(s.combo+1) * s.multiplier))
		s.combo++
		if s.combo > s.maxCombo {
			s.maxCombo = s.combo
		}
		if o.Kind == game.KindCircle {
			rs.state = stateHit
			s.resolvedCount++
		} else {
			rs.tracking = true
		}
	}
	s.health += tier.HealthDelta()
	if s.health > 1 {
		s.health = 1
	}
	total := s.great + s.good + s.meh + s.miss
	s.accuracy = float64(s.great*300+s.good*100+s.meh*50) / float64(total*300)
	s.emit(JudgementResolved{Index: index, Tier: tier, Pos: o.Pos, Combo: s.combo})

	if tier == game.TierMiss && (s.mods.Has(game.ModSuddenDeath) || s.mods.Has(game.ModPerfect)) {
		s.fail()
		return
	}
	if tier != game.TierGreat && s.mods.Has(game.ModPerfect) {
		s.fail()
		return
	}
	if s.health <= 0 {
		if s.mods.Has(game.ModNoFail) {
			s.health = 0
			return
		}
		s.fail()
	}
}

func (s *Session) fail() {
	s.phase = PhaseFailed
	s.emit(SessionFailed{})
}

func (s *Session) emit(e Event) {
	if nil != s.observer {
		s.observer.OnEvent(e)
	}
}

// ---- read side, used by the host and the renderer ----

func (s *Session) Phase() Phase      { return s.phase }
func (s *Session) Score() int64      { return s.score }
func (s *Session) Combo() int        { return s.combo }
func (s *Session) MaxCombo() int     { return s.maxCombo }
func (s *Session) Accuracy() float64 { return s.accuracy }
func (s *Session) Health() float64   { return s.health }
func (s *Session) Preempt() float64  { return s.preempt }
func (s *Session) Radius() float64   { return s.radius }

// Counts returns the per tier judgement counts great, good, meh, miss.
func (s *Session) Counts() (int, int, int, int) {
	return s.great, s.good, s.meh, s.miss
}

// Spawned reports whether the object is visible and unresolved.
func (s *Session) Spawned(index int) bool {
	return s.objects[index].state == stateSpawned
}

// Judged reports whether a tier has been awarded to the object.
func (s *Session) Judged(index int) bool {
	return s.objects[index].judged
}

// Tracking reports whether the object is currently held.
func (s *Session) Tracking(index int) bool {
	return s.objects[index].tracking
}

// PathProgress is the slider ball / spin fraction for rendering.
func (s *Session) PathProgress(index int) float64 {
	return s.objects[index].progress
}

// NextTarget is the earliest pending object, which a positionless input
// device treats as the cursor location.
func (s *Session) NextTarget() (game.Vec, int64, bool) {
	for i := s.resolveCursor; i < s.spawnCursor; i++ {
		rs := &s.objects[i]
		if rs.state != stateSpawned || rs.judged {
			continue
		}
		o := s.beatmap.Objects[i]
		return o.Pos, o.Time, true
	}
	return game.Vec{}, 0, false
}
