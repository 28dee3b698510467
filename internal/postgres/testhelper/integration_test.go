package testhelper

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Eik-Lab/studieveileder/internal/postgres"
	"github.com/Eik-Lab/studieveileder/internal/types"
)

func ptr[T any](v T) *T { return &v }

func TestStore_Integration(t *testing.T) {
	pool := SetupTestDB(t)
	ctx := context.Background()
	store := postgres.NewStore(pool)

	_, err := pool.Exec(ctx, `INSERT INTO emner (emnekode, navn, studiepoeng, semester, fakultet)
		VALUES ('INF120', 'Programmering og databehandling', 10, 'Høst', 'Realtek'),
		       ('NMBU', 'NMBU', NULL, NULL, NULL)
		ON CONFLICT DO NOTHING`)
	require.NoError(t, err)

	courses, err := store.ListCourses(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "INF120", courses[0].Code)

	course, err := store.GetCourse(ctx, "inf120")
	require.NoError(t, err)
	assert.Equal(t, 10.0, course.Credits)

	n, err := store.UpsertGradeRows(ctx, []types.GradeRow{
		{CourseCode: "INF120", CourseName: "Programmering", Year: 2023, PctA: ptr(20.0), PctF: ptr(10.0)},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// Second import of the same (code, year) replaces the row.
	_, err = store.UpsertGradeRows(ctx, []types.GradeRow{
		{CourseCode: "INF120", CourseName: "Programmering", Year: 2023, PctA: ptr(25.0), PctF: ptr(5.0)},
	})
	require.NoError(t, err)

	row, err := store.GetGradeRow(ctx, "INF120", 2023)
	require.NoError(t, err)
	require.NotNil(t, row.PctA)
	assert.Equal(t, 25.0, *row.PctA)

	_, err = store.GetGradeRow(ctx, "INF120", 1999)
	require.ErrorIs(t, err, types.ErrNotFound)

	require.NoError(t, store.Ping(ctx))
}

func TestStore_UpsertCourses_Integration(t *testing.T) {
	pool := SetupTestDB(t)
	ctx := context.Background()
	store := postgres.NewStore(pool)
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM emner WHERE emnekode IN ('DAT200', 'TOM100')`)
	})

	n, err := store.UpsertCourses(ctx, []types.Course{
		{Code: "DAT200", Name: "Algoritmer", Credits: 7.5, Semester: "Vår", Seats: ptr(40)},
		{Code: "TOM100"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = store.UpsertCourses(ctx, []types.Course{
		{Code: "DAT200", Name: "Algoritmer og datastrukturer", Credits: 10, Semester: "Høst"},
	})
	require.NoError(t, err)

	course, err := store.GetCourse(ctx, "DAT200")
	require.NoError(t, err)
	assert.Equal(t, "Algoritmer og datastrukturer", course.Name)
	assert.Equal(t, 10.0, course.Credits)
	assert.Equal(t, "Høst", course.Semester)
	assert.Nil(t, course.Seats)

	unnamed, err := store.GetCourse(ctx, "TOM100")
	require.NoError(t, err)
	assert.Empty(t, unnamed.Name)
	assert.Zero(t, unnamed.Credits)
}
