package parser

import "git.lost.host/meutraa/tosu/internal/game"

type Parser interface {
	Parse(file string) (*game.Beatmap, error)
	Decode(name string, data []byte) (*game.Beatmap, error)
}
