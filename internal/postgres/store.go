// Package postgres persists the course catalog and stored grade
// distributions in PostgreSQL.
//
// Table Structure:
//   - emner(emnekode PK, navn, studiepoeng, semester, fakultet, underviser, ...)
//   - eksamensresultater(emnekode, ar, prosent_a..prosent_f,
//     prosent_bestatt, prosent_ikke_bestatt), unique on (emnekode, ar)
package postgres

import (
	"context"

	sq "github.com/Masterminds/squirrel"
)

const (
	coursesTable = "emner"
	gradesTable  = "eksamensresultater"
)

// psql builds statements with $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Store reads and writes portal data.
type Store struct {
	db Querier
}

func NewStore(db Querier) *Store {
	return &Store{db: db}
}

// Ping reports whether the database answers.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
