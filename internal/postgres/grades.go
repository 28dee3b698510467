package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/Eik-Lab/studieveileder/internal/types"
)

var gradeColumns = []string{
	"emnekode",
	"COALESCE(emnenavn, '')",
	"ar",
	"prosent_a",
	"prosent_b",
	"prosent_c",
	"prosent_d",
	"prosent_e",
	"prosent_f",
	"prosent_bestatt",
	"prosent_ikke_bestatt",
}

// GetGradeRow returns the stored distribution for a course and year, or an
// error wrapping types.ErrNotFound.
func (s *Store) GetGradeRow(ctx context.Context, courseCode string, year int) (*types.GradeRow, error) {
	query, args, err := psql.Select(gradeColumns...).
		From(gradesTable).
		Where(sq.Eq{"emnekode": courseCode, "ar": year}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get grade row: %w", err)
	}

	var r types.GradeRow
	err = s.db.QueryRow(ctx, query, args...).Scan(
		&r.CourseCode, &r.CourseName, &r.Year,
		&r.PctA, &r.PctB, &r.PctC, &r.PctD, &r.PctE, &r.PctF,
		&r.PctPass, &r.PctFail,
	)
	if err != nil {
		return nil, mapError(err, "grade row", fmt.Sprintf("%s/%d", courseCode, year))
	}

	return &r, nil
}

// UpsertGradeRows inserts rows, replacing any existing row for the same
// (emnekode, ar). Returns the number of rows written.
func (s *Store) UpsertGradeRows(ctx context.Context, rows []types.GradeRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	insert := psql.Insert(gradesTable).Columns(
		"emnekode", "emnenavn", "ar",
		"prosent_a", "prosent_b", "prosent_c", "prosent_d", "prosent_e", "prosent_f",
		"prosent_bestatt", "prosent_ikke_bestatt",
	)
	for _, r := range rows {
		insert = insert.Values(
			r.CourseCode, r.CourseName, r.Year,
			r.PctA, r.PctB, r.PctC, r.PctD, r.PctE, r.PctF,
			r.PctPass, r.PctFail,
		)
	}

	query, args, err := insert.Suffix(`ON CONFLICT (emnekode, ar) DO UPDATE SET
	emnenavn = EXCLUDED.emnenavn,
	prosent_a = EXCLUDED.prosent_a,
	prosent_b = EXCLUDED.prosent_b,
	prosent_c = EXCLUDED.prosent_c,
	prosent_d = EXCLUDED.prosent_d,
	prosent_e = EXCLUDED.prosent_e,
	prosent_f = EXCLUDED.prosent_f,
	prosent_bestatt = EXCLUDED.prosent_bestatt,
	prosent_ikke_bestatt = EXCLUDED.prosent_ikke_bestatt`).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build upsert grade rows: %w", err)
	}

	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("upsert grade rows: %w", err)
	}

	return tag.RowsAffected(), nil
}
