package gradestats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Eik-Lab/studieveileder/internal/types"
)

func pct(v float64) *float64 { return &v }

func TestNormalizeRow_PassFail(t *testing.T) {
	t.Parallel()

	row := types.GradeRow{
		CourseCode: "MILJ300",
		Year:       2022,
		PctA:       pct(0), PctB: pct(0), PctC: pct(0), PctD: pct(0), PctE: pct(0), PctF: pct(0),
		PctPass: pct(92), PctFail: pct(8),
	}

	stats := NormalizeRow(row)

	assert.Equal(t, types.SchemePassFail, stats.Scheme)
	assert.Equal(t, []types.GradeShare{
		{Grade: types.GradePass, Percentage: 92},
		{Grade: types.GradeFail, Percentage: 8},
	}, stats.Grades)
	assert.Equal(t, 8.0, stats.FailRate)
	assert.Nil(t, stats.AverageGrade)
	assert.Nil(t, stats.TotalStudents)
	assert.Equal(t, types.SourceDatabase, stats.Source)
	assert.Equal(t, 2022, stats.Year)
}

func TestNormalizeRow_PassFailWithNullLetters(t *testing.T) {
	t.Parallel()

	stats := NormalizeRow(types.GradeRow{Year: 2021, PctPass: pct(100)})

	assert.Equal(t, types.SchemePassFail, stats.Scheme)
	assert.Len(t, stats.Grades, 2)
	assert.Zero(t, stats.FailRate)
	assert.Nil(t, stats.AverageGrade)
}

func TestNormalizeRow_NoiseBelowThresholdIsPassFail(t *testing.T) {
	t.Parallel()

	stats := NormalizeRow(types.GradeRow{Year: 2021, PctA: pct(0.004), PctC: pct(0.005), PctPass: pct(97), PctFail: pct(3)})

	assert.Equal(t, types.SchemePassFail, stats.Scheme)
	assert.Equal(t, 3.0, stats.FailRate)
}

func TestNormalizeRow_Lettered(t *testing.T) {
	t.Parallel()

	row := types.GradeRow{
		CourseCode: "INF120",
		Year:       2023,
		PctA:       pct(20), PctB: pct(30), PctC: pct(25), PctD: pct(10), PctE: pct(5), PctF: pct(10),
	}

	stats := NormalizeRow(row)

	assert.Equal(t, types.SchemeLettered, stats.Scheme)
	require.Len(t, stats.Grades, 6)
	for i, letter := range []string{"A", "B", "C", "D", "E", "F"} {
		assert.Equal(t, letter, stats.Grades[i].Grade)
		assert.Nil(t, stats.Grades[i].Count)
	}
	assert.Equal(t, 20.0, stats.Grades[0].Percentage)
	assert.Equal(t, 10.0, stats.FailRate)
	assert.Nil(t, stats.TotalStudents)

	// (5*20 + 4*30 + 3*25 + 2*10 + 1*5) / 90
	require.NotNil(t, stats.AverageGrade)
	assert.InDelta(t, 320.0/90.0, *stats.AverageGrade, 1e-9)
}

func TestNormalizeRow_AllFailed(t *testing.T) {
	t.Parallel()

	stats := NormalizeRow(types.GradeRow{Year: 2020, PctF: pct(100)})

	assert.Equal(t, types.SchemeLettered, stats.Scheme)
	require.NotNil(t, stats.AverageGrade)
	assert.Zero(t, *stats.AverageGrade)
	assert.Equal(t, 100.0, stats.FailRate)
}

func TestNormalizeRow_SchemeDeterminesGradeSet(t *testing.T) {
	t.Parallel()

	rows := []types.GradeRow{
		{Year: 2020, PctA: pct(50), PctB: pct(50)},
		{Year: 2020, PctPass: pct(80), PctFail: pct(20)},
		{Year: 2020},
		{Year: 2020, PctE: pct(0.02)},
	}

	for _, row := range rows {
		stats := NormalizeRow(row)
		switch stats.Scheme {
		case types.SchemeLettered:
			require.Len(t, stats.Grades, 6)
			assert.NotNil(t, stats.AverageGrade)
		case types.SchemePassFail:
			require.Len(t, stats.Grades, 2)
			assert.Equal(t, types.GradePass, stats.Grades[0].Grade)
			assert.Equal(t, types.GradeFail, stats.Grades[1].Grade)
			assert.Nil(t, stats.AverageGrade)
		default:
			t.Fatalf("unexpected scheme %q", stats.Scheme)
		}
	}
}
