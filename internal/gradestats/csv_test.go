package gradestats

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Eik-Lab/studieveileder/internal/types"
)

func sharesSum(stats types.GradeStatistics) float64 {
	var sum float64
	for _, g := range stats.Grades {
		sum += g.Percentage
	}
	return sum
}

func share(t *testing.T, stats types.GradeStatistics, grade string) types.GradeShare {
	t.Helper()
	for _, g := range stats.Grades {
		if g.Grade == grade {
			return g
		}
	}
	t.Fatalf("grade %q not in %v", grade, stats.Grades)
	return types.GradeShare{}
}

func TestParseCSV_TwoGrades(t *testing.T) {
	t.Parallel()

	stats := ParseCSV("h1;h2;h3\nNO;ABC101;2023;A;10\nNO;ABC101;2023;F;2", 2023)

	require.NotNil(t, stats.TotalStudents)
	assert.Equal(t, 12, *stats.TotalStudents)
	assert.Equal(t, types.SchemeLettered, stats.Scheme)
	assert.Equal(t, types.SourceDBH, stats.Source)
	assert.Equal(t, 2023, stats.Year)
	assert.InDelta(t, 83.33, share(t, stats, "A").Percentage, 0.01)
	assert.InDelta(t, 16.67, share(t, stats, "F").Percentage, 0.01)
	assert.InDelta(t, 16.67, stats.FailRate, 0.01)
	require.NotNil(t, stats.AverageGrade)
	assert.Equal(t, 5.0, *stats.AverageGrade)

	got := make([]string, 0, len(stats.Grades))
	for _, g := range stats.Grades {
		got = append(got, g.Grade)
	}
	assert.Equal(t, []string{"A", "B", "C", "D", "E", "F"}, got)
}

func TestParseCSV_Idempotent(t *testing.T) {
	t.Parallel()

	input := "Institusjonskode,Emnekode,Årstall,Karakter,Antall\n" +
		"\"1173\",\"INF120\",\"2022\",\"B\",\"31\"\n" +
		"\"1173\",\"INF120\",\"2022\",\"C\",\"17\"\n" +
		"\"1173\",\"INF120\",\"2022\",\"A\",\"9\"\n" +
		"\"1173\",\"INF120\",\"2022\",\"E\",\"4\"\n" +
		"\"1173\",\"INF120\",\"2022\",\"F\",\"7\"\n"

	first := ParseCSV(input, 2022)
	second := ParseCSV(input, 2022)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("ParseCSV not idempotent (-first +second):\n%s", diff)
	}
}

func TestParseCSV_SumsRepeatedGradeRows(t *testing.T) {
	t.Parallel()

	input := "header\n" +
		"1173;AOS110;2021;A;3\n" +
		"1173;AOS110;2021;A;2\n" +
		"1173;AOS110;2021;C;5\n"

	stats := ParseCSV(input, 2021)

	require.NotNil(t, stats.TotalStudents)
	assert.Equal(t, 10, *stats.TotalStudents)
	a := share(t, stats, "A")
	require.NotNil(t, a.Count)
	assert.Equal(t, 5, *a.Count)
	assert.InDelta(t, 50.0, a.Percentage, 1e-9)
	require.NotNil(t, stats.AverageGrade)
	assert.InDelta(t, 4.0, *stats.AverageGrade, 1e-9)
	assert.Zero(t, stats.FailRate)
}

func TestParseCSV_PercentagesSumToHundred(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"h\nx;A;1\nx;B;1\nx;C;1",
		"h\nx;A;7\nx;B;13\nx;C;29\nx;D;3\nx;E;11\nx;F;2",
		"h\n1173,EDS200,2020,F,4",
	}

	for _, input := range inputs {
		stats := ParseCSV(input, 2020)
		assert.InDelta(t, 100.0, sharesSum(stats), 0.5, "input %q", input)
	}
}

func TestParseCSV_AverageWithinBounds(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"h\nx;F;10",
		"h\nx;E;10",
		"h\nx;A;10",
		"h\nx;A;1\nx;E;1\nx;F;8",
	}

	for _, input := range inputs {
		stats := ParseCSV(input, 2020)
		require.NotNil(t, stats.AverageGrade)
		assert.GreaterOrEqual(t, *stats.AverageGrade, 0.0)
		assert.LessOrEqual(t, *stats.AverageGrade, 5.0)
	}
}

func TestParseCSV_EmptyInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "empty string", input: ""},
		{name: "header only", input: "Institusjonskode;Emnekode;Årstall;Karakter;Antall"},
		{name: "header and blank lines", input: "h1;h2\n\n   \n"},
		{name: "no grade rows", input: "h1;h2\n1173;INF120;2023;G;4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stats := ParseCSV(tt.input, 2023)

			require.NotNil(t, stats.TotalStudents)
			assert.Zero(t, *stats.TotalStudents)
			assert.Equal(t, types.SchemeLettered, stats.Scheme)
			assert.Len(t, stats.Grades, 6)
			for _, g := range stats.Grades {
				assert.Zero(t, g.Percentage)
			}
			assert.Zero(t, sharesSum(stats))
			assert.Zero(t, stats.FailRate)
		})
	}
}

func TestParseCSV_SkipsMalformedRows(t *testing.T) {
	t.Parallel()

	input := "h\n" +
		"1173;INF120;2023;A;ti\n" + // non-numeric count
		"1173;INF120;2023;B\n" + // no count column
		"1173;INF120;2023;C;;4\n" + // empty count cell
		"1173;INF120;2023;D;-2\n" + // negative count
		"1173;INF120;2023;E;4\n"

	stats := ParseCSV(input, 2023)

	require.NotNil(t, stats.TotalStudents)
	assert.Equal(t, 4, *stats.TotalStudents)
	for _, grade := range []string{"A", "B", "C", "D"} {
		g := share(t, stats, grade)
		require.NotNil(t, g.Count)
		assert.Zero(t, *g.Count, "grade %s", grade)
	}
	assert.InDelta(t, 100.0, share(t, stats, "E").Percentage, 1e-9)
}

func TestParseCSV_WindowsLineEndings(t *testing.T) {
	t.Parallel()

	stats := ParseCSV("h\r\n1173;X;2023;B;3\r\n1173;X;2023;D;1\r\n", 2023)

	require.NotNil(t, stats.TotalStudents)
	assert.Equal(t, 4, *stats.TotalStudents)
	require.NotNil(t, stats.AverageGrade)
	assert.InDelta(t, 3.5, *stats.AverageGrade, 1e-9)
}

func TestFindGradeColumn(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		cells  []string
		want   int
		wantOK bool
	}{
		{name: "typical layout", cells: []string{"1173", "INF120", "2023", "B", "12"}, want: 3, wantOK: true},
		{name: "grade first", cells: []string{"F", "3"}, want: 0, wantOK: true},
		{name: "first match wins", cells: []string{"x", "A", "E", "1"}, want: 1, wantOK: true},
		{name: "lowercase is not a grade", cells: []string{"a", "b"}, want: -1, wantOK: false},
		{name: "multi-letter cell", cells: []string{"AB", "10"}, want: -1, wantOK: false},
		{name: "no cells", cells: nil, want: -1, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := FindGradeColumn(tt.cells)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}
