package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Eik-Lab/studieveileder/internal/types"
)

var summaryColumns = []string{
	"emnekode",
	"COALESCE(navn, '')",
	"COALESCE(studiepoeng, 0)",
	"COALESCE(semester, '')",
	"COALESCE(fakultet, '')",
	"COALESCE(underviser, '')",
}

var detailColumns = append(append([]string{}, summaryColumns...),
	"språk",
	"dette_lærer_du",
	"forkunnskaper",
	"læringsaktiviteter",
	"vurderingsordning",
	"obligatoriske_aktiviteter",
	"fortrinnsrett",
	"antall_plasser",
	"merknader",
)

// placeholderCourseName is a scraper artefact: the institution page itself.
const placeholderCourseName = "NMBU"

// ListCourses returns every named course ordered by code.
func (s *Store) ListCourses(ctx context.Context) ([]types.Course, error) {
	query, args, err := psql.Select(summaryColumns...).
		From(coursesTable).
		Where(sq.And{
			sq.NotEq{"navn": nil},
			sq.NotEq{"navn": ""},
			sq.NotEq{"navn": placeholderCourseName},
		}).
		OrderBy("emnekode").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list courses: %w", err)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	courses := []types.Course{}
	for rows.Next() {
		var c types.Course
		if err := rows.Scan(&c.Code, &c.Name, &c.Credits, &c.Semester, &c.Faculty, &c.Lecturer); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	return courses, nil
}

// GetCourse returns the course with the given code. A miss on the exact code
// is retried with the code upper-cased, since links often carry "inf120".
func (s *Store) GetCourse(ctx context.Context, code string) (*types.Course, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: course code is required", types.ErrInvalidInput)
	}

	course, err := s.getCourse(ctx, code)
	if err == nil {
		return course, nil
	}
	if upper := strings.ToUpper(code); upper != code && isNoRows(err) {
		course, err = s.getCourse(ctx, upper)
		if err == nil {
			return course, nil
		}
	}

	return nil, mapError(err, "course", code)
}

func (s *Store) getCourse(ctx context.Context, code string) (*types.Course, error) {
	query, args, err := psql.Select(detailColumns...).
		From(coursesTable).
		Where(sq.Eq{"emnekode": code}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get course: %w", err)
	}

	var c types.Course
	err = s.db.QueryRow(ctx, query, args...).Scan(
		&c.Code, &c.Name, &c.Credits, &c.Semester, &c.Faculty, &c.Lecturer,
		&c.Language,
		&c.LearningOutcomes,
		&c.Prerequisites,
		&c.LearningActivities,
		&c.Assessment,
		&c.MandatoryActivities,
		&c.Priority,
		&c.Seats,
		&c.Remarks,
	)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

var courseWriteColumns = []string{
	"emnekode",
	"navn",
	"studiepoeng",
	"semester",
	"fakultet",
	"underviser",
	"språk",
	"dette_lærer_du",
	"forkunnskaper",
	"læringsaktiviteter",
	"vurderingsordning",
	"obligatoriske_aktiviteter",
	"fortrinnsrett",
	"antall_plasser",
	"merknader",
}

// UpsertCourses inserts courses, replacing every column of an existing row
// with the same emnekode. Empty names, labels and zero credits are stored as
// NULL. Returns the number of rows written.
func (s *Store) UpsertCourses(ctx context.Context, courses []types.Course) (int64, error) {
	if len(courses) == 0 {
		return 0, nil
	}

	insert := psql.Insert(coursesTable).Columns(courseWriteColumns...)
	for _, c := range courses {
		insert = insert.Values(
			c.Code,
			nullIfEmpty(c.Name),
			nullIfZero(c.Credits),
			nullIfEmpty(c.Semester),
			nullIfEmpty(c.Faculty),
			nullIfEmpty(c.Lecturer),
			c.Language,
			c.LearningOutcomes,
			c.Prerequisites,
			c.LearningActivities,
			c.Assessment,
			c.MandatoryActivities,
			c.Priority,
			c.Seats,
			c.Remarks,
		)
	}

	updates := make([]string, 0, len(courseWriteColumns)-1)
	for _, col := range courseWriteColumns[1:] {
		updates = append(updates, col+" = EXCLUDED."+col)
	}

	query, args, err := insert.
		Suffix("ON CONFLICT (emnekode) DO UPDATE SET " + strings.Join(updates, ", ")).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build upsert courses: %w", err)
	}

	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("upsert courses: %w", err)
	}

	return tag.RowsAffected(), nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullIfZero(f float64) *float64 {
	if f == 0 {
		return nil
	}
	return &f
}
