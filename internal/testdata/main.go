package testdata

// Text is a small but complete beatmap covering every object kind, an
// inherited timing point and a combo colour skip.
const Text = `osu file format v14

[General]
AudioFilename: audio.mp3
AudioLeadIn: 0
Mode: 0

[Metadata]
Title:Test Song
Artist:Test Artist
Version:Normal
Tags:test

[Difficulty]
HPDrainRate:5
CircleSize:4
OverallDifficulty:8
ApproachRate:9
SliderMultiplier:1.4
SliderTickRate:1

[Events]
//Background and Video events
0,0,"bg.jpg",0,0

[TimingPoints]
0,500,4,2,0,100,1,0
4000,-50,4,2,0,100,0,0

[HitObjects]
256,192,1000,1,0,0:0:0:0:
100,100,2000,5,0,0:0:0:0:
300,100,2500,2,0,L|500:100,1,200,0|0,0:0|0:0,0:0:0:0:
256,192,5000,12,0,6000,0:0:0:0:
200,300,7000,53,0,0:0:0:0:
`

// Broken holds the well formed objects of Text plus assorted malformed
// lines a permissive parser has to skip.
const Broken = `[Difficulty]
OverallDifficulty:6

[TimingPoints]
0,400,4,2,0,100,1,0

[HitObjects]
256,192,1000,1,0
nonsense line
100,abc,2000,1,0
300,100,2500,2,0
300,100,3000,2,0,L|500,1,200
256,192,5000,12,0
100,100,4000,1,0
`
