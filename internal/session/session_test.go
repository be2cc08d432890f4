package session

import (
	"math"
	"testing"

	"git.lost.host/meutraa/tosu/internal/game"
)

// collector keeps every emitted event so a test can replay a whole session
type collector struct {
	events []Event
}

func (c *collector) OnEvent(e Event) {
	c.events = append(c.events, e)
}

func (c *collector) judgements() []JudgementResolved {
	out := []JudgementResolved{}
	for _, e := range c.events {
		if j, ok := e.(JudgementResolved); ok {
			out = append(out, j)
		}
	}
	return out
}

func (c *collector) count(match func(e Event) bool) int {
	n := 0
	for _, e := range c.events {
		if match(e) {
			n++
		}
	}
	return n
}

var testDifficulty = game.Difficulty{
	CircleSize:        4,
	ApproachRate:      9,
	OverallDifficulty: 8,
	DrainRate:         5,
	SliderMultiplier:  1.4,
}

// OD 8: windows 32/76/120ms. AR 9: preempt 600ms. CS 4: radius 36.48px.

func circleAt(t int64) *game.HitObject {
	return &game.HitObject{
		Kind: game.KindCircle,
		Time: t,
		Pos:  game.Vec{X: 256, Y: 192},
	}
}

func sliderAt(t int64, duration float64) *game.HitObject {
	return &game.HitObject{
		Kind:     game.KindSlider,
		Time:     t,
		Pos:      game.Vec{X: 100, Y: 100},
		Path:     game.BuildPath([]game.Vec{{X: 100, Y: 100}, {X: 300, Y: 100}}),
		Duration: duration,
	}
}

func spinnerAt(t int64, duration float64) *game.HitObject {
	return &game.HitObject{
		Kind:     game.KindSpinner,
		Time:     t,
		Pos:      game.Vec{X: 256, Y: 192},
		Duration: duration,
	}
}

func testBeatmap(objects ...*game.HitObject) *game.Beatmap {
	duration := 0.0
	for _, o := range objects {
		if o.EndTime() > duration {
			duration = o.EndTime()
		}
	}
	return &game.Beatmap{
		Title:      "test",
		Sum:        "sum",
		Audio:      "audio.mp3",
		Difficulty: testDifficulty,
		Objects:    objects,
		Duration:   duration + 2000,
	}
}

func newSession(mods game.Mods, objects ...*game.HitObject) (*Session, *collector) {
	c := &collector{}
	s := New(testBeatmap(objects...), mods, c)
	s.Start()
	return s, c
}

func TestStartRequestsAudio(t *testing.T) {
	s, c := newSession(0, circleAt(1000))
	if s.Phase() != PhaseActive {
		t.Fatal("phase", s.Phase())
	}
	if len(c.events) != 1 {
		t.Fatal("events", c.events)
	}
	start, ok := c.events[0].(AudioStartRequested)
	if !ok || start.File != "audio.mp3" {
		t.Log("event", c.events[0])
		t.Fail()
	}
}

func TestSpawnAtApproachWindow(t *testing.T) {
	s, c := newSession(0, circleAt(1000))

	s.Tick(399)
	if s.Spawned(0) {
		t.Fail()
	}

	s.Tick(400) // 1000 - preempt(600)
	if !s.Spawned(0) {
		t.Fail()
	}
	spawned := 0
	for _, e := range c.events {
		if sp, ok := e.(ObjectSpawned); ok {
			spawned++
			if sp.Index != 0 || sp.Preempt != 600 {
				t.Log("spawn", sp)
				t.Fail()
			}
		}
	}
	if spawned != 1 {
		t.Log("spawn count", spawned)
		t.Fail()
	}
}

func TestPressTiers(t *testing.T) {
	tests := map[float64]game.Tier{
		1000: game.TierGreat,
		1032: game.TierGreat,
		1033: game.TierGood,
		924:  game.TierGood, // 76ms early
		1077: game.TierMeh,
		1120: game.TierMeh,
	}
	for at, expected := range tests {
		s, c := newSession(0, circleAt(1000))
		s.Tick(at)
		s.Press(game.Vec{X: 256, Y: 192}, at)

		judgements := c.judgements()
		if len(judgements) != 1 || judgements[0].Tier != expected {
			t.Log("at", at, "judgements", judgements, "expected", expected)
			t.Fail()
		}
	}
}

func TestPressScoring(t *testing.T) {
	s, c := newSession(0, circleAt(1000), circleAt(2000), circleAt(3000))

	s.Tick(1000)
	s.Press(game.Vec{X: 256, Y: 192}, 1000) // Great, 300 * 1
	s.Tick(2050)
	s.Press(game.Vec{X: 256, Y: 192}, 2050) // Good, 100 * 2
	s.Tick(3100)
	s.Press(game.Vec{X: 256, Y: 192}, 3100) // Meh, 50 * 3

	if s.Score() != 300+200+150 {
		t.Log("score", s.Score())
		t.Fail()
	}
	if s.Combo() != 3 || s.MaxCombo() != 3 {
		t.Log("combo", s.Combo(), s.MaxCombo())
		t.Fail()
	}
	great, good, meh, miss := s.Counts()
	if great != 1 || good != 1 || meh != 1 || miss != 0 {
		t.Log("counts", great, good, meh, miss)
		t.Fail()
	}
	// (300 + 100 + 50) / (3 * 300)
	if math.Abs(s.Accuracy()-0.5) > 1e-9 {
		t.Log("accuracy", s.Accuracy())
		t.Fail()
	}
	sounds := c.count(func(e Event) bool { _, ok := e.(HitSoundRequested); return ok })
	if sounds != 3 {
		t.Log("hit sounds", sounds)
		t.Fail()
	}
}

func TestPressOutOfToleranceIsNoOp(t *testing.T) {
	s, c := newSession(0, circleAt(1000))
	s.Tick(1000)

	// spatially out, radius is 36.48
	s.Press(game.Vec{X: 256 + 40, Y: 192}, 1000)
	// temporally out
	s.Press(game.Vec{X: 256, Y: 192}, 1121)

	if len(c.judgements()) != 0 || s.Score() != 0 || s.Combo() != 0 || s.Health() != 1 {
		t.Log("judgements", c.judgements(), "score", s.Score())
		t.Fail()
	}
}

func TestDoublePressJudgesOnce(t *testing.T) {
	s, c := newSession(0, circleAt(1000))
	s.Tick(1000)
	s.Press(game.Vec{X: 256, Y: 192}, 1000)
	s.Press(game.Vec{X: 256, Y: 192}, 1001)

	if len(c.judgements()) != 1 {
		t.Log("judgements", c.judgements())
		t.Fail()
	}
}

func TestMissOnTimeout(t *testing.T) {
	s, c := newSession(0, circleAt(1000))

	s.Tick(1120) // still inside the meh window
	if len(c.judgements()) != 0 {
		t.Fatal("early judgement", c.judgements())
	}

	s.Tick(1121)
	judgements := c.judgements()
	if len(judgements) != 1 || judgements[0].Tier != game.TierMiss {
		t.Fatal("judgements", judgements)
	}
	if judgements[0].Combo != 0 {
		t.Fail()
	}
	great, good, meh, miss := s.Counts()
	if great != 0 || good != 0 || meh != 0 || miss != 1 {
		t.Log("counts", great, good, meh, miss)
		t.Fail()
	}
}

func TestMissResetsCombo(t *testing.T) {
	s, _ := newSession(0, circleAt(1000), circleAt(2000), circleAt(3000))

	s.Tick(1000)
	s.Press(game.Vec{X: 256, Y: 192}, 1000)
	s.Tick(2000)
	s.Press(game.Vec{X: 256, Y: 192}, 2000)
	if s.Combo() != 2 {
		t.Fatal("combo", s.Combo())
	}

	s.Tick(3121) // third circle times out
	if s.Combo() != 0 {
		t.Log("combo", s.Combo())
		t.Fail()
	}
	// max combo never decreases
	if s.MaxCombo() != 2 {
		t.Log("max combo", s.MaxCombo())
		t.Fail()
	}
}

func TestSpawnBeforeMissWithinOneTick(t *testing.T) {
	s, c := newSession(0, circleAt(1000))
	// one big jump spawns and misses in the same tick
	s.Tick(5000)

	var spawnIndex, missIndex = -1, -1
	for i, e := range c.events {
		switch e.(type) {
		case ObjectSpawned:
			spawnIndex = i
		case JudgementResolved:
			missIndex = i
		}
	}
	if spawnIndex == -1 || missIndex == -1 || spawnIndex > missIndex {
		t.Log("events", c.events)
		t.Fail()
	}
}

func TestSliderCompletionCredit(t *testing.T) {
	s, c := newSession(0, sliderAt(1000, 700))

	s.Tick(1000)
	s.Press(game.Vec{X: 100, Y: 100}, 1000)

	judgements := c.judgements()
	if len(judgements) != 1 || judgements[0].Tier != game.TierGreat {
		t.Fatal("judgements", judgements)
	}
	if !s.Spawned(0) || !s.Tracking(0) {
		t.Fatal("slider should stay active until its duration elapses")
	}

	// ball halfway along the path
	s.Tick(1350)
	if math.Abs(s.PathProgress(0)-0.5) > 1e-9 {
		t.Log("progress", s.PathProgress(0))
		t.Fail()
	}

	// an early release does not revoke completion credit
	s.Release()
	if s.Tracking(0) {
		t.Fail()
	}

	s.Tick(1700)
	if s.Spawned(0) {
		t.Fail()
	}
	if len(c.judgements()) != 1 {
		t.Log("judgements", c.judgements())
		t.Fail()
	}
}

func TestSliderHeadMiss(t *testing.T) {
	s, c := newSession(0, sliderAt(1000, 700))
	s.Tick(1121)

	judgements := c.judgements()
	if len(judgements) != 1 || judgements[0].Tier != game.TierMiss {
		t.Log("judgements", judgements)
		t.Fail()
	}
	if s.Spawned(0) {
		t.Fail()
	}
}

func TestSpinner(t *testing.T) {
	s, c := newSession(0, spinnerAt(1000, 1000))

	// a spinner has no positional requirement
	s.Tick(1010)
	s.Press(game.Vec{X: 0, Y: 0}, 1010)
	if len(c.judgements()) != 1 {
		t.Fatal("judgements", c.judgements())
	}
	if !s.Spawned(0) {
		t.Fatal("spinner resolves at its end time")
	}

	s.Tick(1500)
	if math.Abs(s.PathProgress(0)-0.5) > 1e-9 {
		t.Log("spin", s.PathProgress(0))
		t.Fail()
	}

	s.Tick(2000)
	if s.Spawned(0) || len(c.judgements()) != 1 {
		t.Fail()
	}
}

func TestEndEmitsScoreOnce(t *testing.T) {
	s, c := newSession(0, circleAt(1000))
	s.Tick(1000)
	s.Press(game.Vec{X: 256, Y: 192}, 1000)

	s.Tick(3000) // beatmap duration
	if s.Phase() != PhaseActive {
		t.Fatal("ended too early", s.Phase())
	}

	s.Tick(3001)
	if s.Phase() != PhaseEnded {
		t.Fatal("phase", s.Phase())
	}
	s.Tick(4000)
	s.Press(game.Vec{X: 256, Y: 192}, 4000)

	ends := 0
	for _, e := range c.events {
		if end, ok := e.(SessionEnded); ok {
			ends++
			sc := end.Score
			if sc.Sum != "sum" || sc.Score != 300 || sc.MaxCombo != 1 ||
				sc.Great != 1 || sc.Grade != game.GradeSS || sc.Accuracy != 1.0 {
				t.Log("score", sc)
				t.Fail()
			}
		}
	}
	if ends != 1 {
		t.Log("ends", ends)
		t.Fail()
	}
}

func TestGradeInScoreMatchesCounts(t *testing.T) {
	objects := []*game.HitObject{}
	for i := 0; i < 10; i++ {
		objects = append(objects, circleAt(int64(1000+500*i)))
	}
	s, c := newSession(0, objects...)

	// 8 greats, 2 goods, no misses is exactly the B boundary
	for i, o := range objects {
		offset := 0.0
		if i >= 8 {
			offset = 50
		}
		at := float64(o.Time) + offset
		s.Tick(at)
		s.Press(o.Pos, at)
	}
	s.Tick(s.beatmap.Duration + 1)

	for _, e := range c.events {
		if end, ok := e.(SessionEnded); ok {
			if end.Score.Grade != game.GradeB {
				t.Log("grade", end.Score.Grade)
				t.Fail()
			}
			return
		}
	}
	t.Fatal("session never ended")
}

func TestFailOnEmptyHealth(t *testing.T) {
	objects := []*game.HitObject{}
	for i := 0; i < 15; i++ {
		objects = append(objects, circleAt(int64(1000+200*i)))
	}
	s, c := newSession(0, objects...)

	for at := 0.0; at < 10000; at += 50 {
		s.Tick(at)
		if s.Phase() == PhaseFailed {
			break
		}
	}

	if s.Phase() != PhaseFailed {
		t.Fatal("phase", s.Phase())
	}
	if c.count(func(e Event) bool { _, ok := e.(SessionFailed); return ok }) != 1 {
		t.Fail()
	}
	// terminal, no further processing
	before := len(c.events)
	s.Tick(20000)
	s.Press(game.Vec{X: 256, Y: 192}, 20000)
	if len(c.events) != before {
		t.Fail()
	}
}

func TestNoFailKeepsPlaying(t *testing.T) {
	var mods game.Mods
	mods.Enable(game.ModNoFail)

	objects := []*game.HitObject{}
	for i := 0; i < 15; i++ {
		objects = append(objects, circleAt(int64(1000+200*i)))
	}
	s, c := newSession(mods, objects...)

	for at := 0.0; at < 7000; at += 50 {
		s.Tick(at)
	}

	if s.Phase() != PhaseEnded {
		t.Fatal("phase", s.Phase())
	}
	if s.Health() != 0 {
		t.Log("health", s.Health())
		t.Fail()
	}
	if c.count(func(e Event) bool { _, ok := e.(SessionFailed); return ok }) != 0 {
		t.Fail()
	}
}

func TestSuddenDeathFailsOnMiss(t *testing.T) {
	var mods game.Mods
	mods.Enable(game.ModSuddenDeath)
	s, _ := newSession(mods, circleAt(1000), circleAt(2000))

	s.Tick(1121)
	if s.Phase() != PhaseFailed {
		t.Log("phase", s.Phase())
		t.Fail()
	}
}

func TestPerfectFailsOnGood(t *testing.T) {
	var mods game.Mods
	mods.Enable(game.ModPerfect)
	s, _ := newSession(mods, circleAt(1000), circleAt(2000))

	s.Tick(1050)
	s.Press(game.Vec{X: 256, Y: 192}, 1050)
	if s.Phase() != PhaseFailed {
		t.Log("phase", s.Phase())
		t.Fail()
	}
}

func TestAssistedPlayScoresNothing(t *testing.T) {
	var mods game.Mods
	mods.Enable(game.ModAutoplay)
	s, _ := newSession(mods, circleAt(1000))

	s.Tick(1000)
	s.Press(game.Vec{X: 256, Y: 192}, 1000)
	if s.Score() != 0 {
		t.Log("score", s.Score())
		t.Fail()
	}
	// the judgement itself still counts
	if s.Combo() != 1 {
		t.Fail()
	}
}

func TestPauseStopsJudgement(t *testing.T) {
	s, c := newSession(0, circleAt(1000))
	s.Tick(900)

	s.Pause()
	if s.Phase() != PhasePaused {
		t.Fatal("phase", s.Phase())
	}

	// ticks and presses during the pause are dropped
	s.Tick(5000)
	s.Press(game.Vec{X: 256, Y: 192}, 1000)
	if len(c.judgements()) != 0 {
		t.Fatal("judgements", c.judgements())
	}

	s.Resume()
	if s.Phase() != PhaseActive {
		t.Fatal("phase", s.Phase())
	}

	// the host resumes the clock where it left off, nothing was missed
	s.Tick(1000)
	s.Press(game.Vec{X: 256, Y: 192}, 1000)
	judgements := c.judgements()
	if len(judgements) != 1 || judgements[0].Tier != game.TierGreat {
		t.Log("judgements", judgements)
		t.Fail()
	}

	paused := c.count(func(e Event) bool { _, ok := e.(SessionPaused); return ok })
	resumed := c.count(func(e Event) bool { _, ok := e.(SessionResumed); return ok })
	if paused != 1 || resumed != 1 {
		t.Fail()
	}
}

func TestPauseMidSliderKeepsProgress(t *testing.T) {
	s, _ := newSession(0, sliderAt(1000, 700))
	s.Tick(1000)
	s.Press(game.Vec{X: 100, Y: 100}, 1000)
	s.Tick(1350)
	if math.Abs(s.PathProgress(0)-0.5) > 1e-9 {
		t.Fatal("progress", s.PathProgress(0))
	}

	s.Pause()
	s.Tick(9000) // wall clock marches on, the session does not
	s.Resume()

	s.Tick(1351)
	if math.Abs(s.PathProgress(0)-0.5) > 0.01 {
		t.Log("progress", s.PathProgress(0))
		t.Fail()
	}
}

func TestTickRegressionDropped(t *testing.T) {
	s, c := newSession(0, circleAt(1000))
	s.Tick(500)
	before := len(c.events)

	s.Tick(400)
	if len(c.events) != before {
		t.Fail()
	}
	if s.Phase() != PhaseActive {
		t.Fail()
	}
}

func TestPressBeforeStartIsNoOp(t *testing.T) {
	c := &collector{}
	s := New(testBeatmap(circleAt(1000)), 0, c)
	s.Press(game.Vec{X: 256, Y: 192}, 1000)
	s.Tick(1000)
	if len(c.events) != 0 {
		t.Log("events", c.events)
		t.Fail()
	}
}

func TestHitTestPrefersClosestInTime(t *testing.T) {
	// two overlapping circles, the press lands between them but closer
	// to the second
	a := circleAt(1000)
	b := circleAt(1100)
	b.Pos = a.Pos
	s, c := newSession(0, a, b)

	s.Tick(1080)
	s.Press(a.Pos, 1080)

	judgements := c.judgements()
	if len(judgements) != 1 || judgements[0].Index != 1 {
		t.Log("judgements", judgements)
		t.Fail()
	}
}

func TestAccuracyDefinedWithoutJudgements(t *testing.T) {
	s, _ := newSession(0, circleAt(1000))
	if s.Accuracy() != 1.0 {
		t.Fail()
	}
	s.Tick(500)
	if s.Accuracy() != 1.0 {
		t.Fail()
	}
}
