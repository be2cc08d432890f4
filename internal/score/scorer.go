package score

import "git.lost.host/meutraa/tosu/internal/game"

type Scorer interface {
	Init(database string) error
	Deinit()

	// Save persists a finished play
	Save(score *game.Score) error

	// Load returns the play history for a beatmap, best score first
	Load(sum string) ([]game.Score, error)
}
