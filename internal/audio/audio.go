package audio

import "time"

// Player is what the gameplay host needs from the audio engine: start
// playback once, read the playback position, pause over the session pause.
type Player interface {
	Open(file string, rate float64) error
	Start(delay time.Duration)
	Pause(paused bool)
	Position() time.Duration
	Close()
}
