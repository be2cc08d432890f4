package score

import (
	"database/sql"
	"time"

	"git.lost.host/meutraa/tosu/internal/game"
	_ "github.com/mattn/go-sqlite3"
)

type DefaultScorer struct {
	db *sql.DB
}

func (s *DefaultScorer) Init(database string) error {
	db, err := sql.Open("sqlite3", database)
	if nil != err {
		return err
	}

	initStatement := `
	create table if not exists scores
	  (
		  id integer not null primary key,
		  sum text,
		  score integer,
		  accuracy real,
		  max_combo integer,
		  great integer,
		  good integer,
		  meh integer,
		  miss integer,
		  mods text,
		  grade text,
		  stamp integer
	  );
	`
	_, err = db.Exec(initStatement)
	if nil != err {
		return err
	}

	s.db = db
	return nil
}

func (s *DefaultScorer) Deinit() {
	if nil != s.db {
		s.db.Close()
	}
}

func (s *DefaultScorer) Save(sc *game.Score) error {
	_, err := s.db.Exec(
		"insert into scores(sum, score, accuracy, max_combo, great, good, meh, miss, mods, grade, stamp) values(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		sc.Sum, sc.Score, sc.Accuracy, sc.MaxCombo,
		sc.Great, sc.Good, sc.Meh, sc.Miss,
		sc.Mods.String(), sc.Grade.String(), sc.Stamp.Unix(),
	)
	return err
}

func (s *DefaultScorer) Load(sum string) ([]game.Score, error) {
	scores := []game.Score{}
	rows, err := s.db.Query(
		"select score, accuracy, max_combo, great, good, meh, miss, mods, stamp from scores where sum = ? order by score desc",
		sum,
	)
	if nil != err {
		if err == sql.ErrNoRows {
			return scores, nil
		}
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		sc := game.Score{Sum: sum}
		var mods string
		var stamp int64
		if err := rows.Scan(
			&sc.Score, &sc.Accuracy, &sc.MaxCombo,
			&sc.Great, &sc.Good, &sc.Meh, &sc.Miss,
			&mods, &stamp,
		); nil != err {
			return nil, err
		}
		sc.Mods, _ = game.ParseMods(mods)
		sc.Grade = game.GradeFor(sc.Great, sc.Good, sc.Meh, sc.Miss)
		sc.Stamp = time.Unix(stamp, 0)
		scores = append(scores, sc)
	}
	return scores, rows.Err()
}
