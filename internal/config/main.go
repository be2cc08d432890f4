package config

import (
	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	Directory   = kingpin.Arg("directory", "Beatmap set directory").Required().ExistingDir()
	Rate        = kingpin.Flag("rate", "Playback speed").Default("1.0").Short('r').Float64()
	Offset      = kingpin.Flag("offset", "Global offset").Default("0ms").Short('o').Duration()
	Delay       = kingpin.Flag("delay", "Start delay").Default("1.5s").Short('d').Duration()
	FramePeriod = kingpin.Flag("frame-period", "Render frame period").Default("4ms").Short('p').Duration()
	ModString   = kingpin.Flag("mods", "Comma separated mod acronyms, EZ,HR,RE,HT,DT,NC,SD,PF,NF,RX,AP,AT").Default("").Short('m').String()
	Keys        = kingpin.Flag("keys", "Hit keys").Default("zx").Short('k').String()
	Database    = kingpin.Flag("database", "Score database path").Default("./scores.db").String()
	Silent      = kingpin.Flag("silent", "Run without audio playback").Bool()
)

func init() {
	kingpin.Version("0.1.0")
	kingpin.Parse()
}
