// Package gradestats turns upstream grade data (pre-aggregated percentage rows
// or raw DBH CSV exports) into display-ready grade statistics.
package gradestats

import (
	"github.com/Eik-Lab/studieveileder/internal/types"
)

// Letter grades in display order. Index 5 (F) is the failing grade.
var letters = [6]string{"A", "B", "C", "D", "E", "F"}

// weights used for the average grade; F never contributes.
var weights = [6]float64{5, 4, 3, 2, 1, 0}

const failIndex = 5

// Sums at or below this are floating-point noise, not lettered data.
const letteredEpsilon = 0.01

// EmptyStatistics returns a lettered statistic with every grade at zero.
func EmptyStatistics(year int, source types.StatisticsSource) types.GradeStatistics {
	var counts [6]int
	grades := make([]types.GradeShare, len(letters))
	for i, letter := range letters {
		grades[i] = types.GradeShare{Grade: letter, Count: &counts[i]}
	}

	total := 0
	average := 0.0

	return types.GradeStatistics{
		Scheme:        types.SchemeLettered,
		Grades:        grades,
		AverageGrade:  &average,
		FailRate:      0,
		Year:          year,
		TotalStudents: &total,
		Source:        source,
	}
}

// fromCounts builds a lettered statistic from per-grade student counts.
func fromCounts(counts [6]int, year int, source types.StatisticsSource) types.GradeStatistics {
	total := 0
	for _, n := range counts {
		total += n
	}
	if total == 0 {
		return EmptyStatistics(year, source)
	}

	var values [6]float64
	grades := make([]types.GradeShare, len(letters))
	for i, letter := range letters {
		count := counts[i]
		values[i] = float64(count)
		grades[i] = types.GradeShare{
			Grade:      letter,
			Percentage: float64(count) / float64(total) * 100,
			Count:      &count,
		}
	}

	average := weightedAverage(values)

	return types.GradeStatistics{
		Scheme:        types.SchemeLettered,
		Grades:        grades,
		AverageGrade:  &average,
		FailRate:      float64(counts[failIndex]) / float64(total) * 100,
		Year:          year,
		TotalStudents: &total,
		Source:        source,
	}
}

// weightedAverage is the mean grade value over passing grades only. values
// may be counts or percentages. Returns 0 when nobody passed.
func weightedAverage(values [6]float64) float64 {
	var points, passed float64
	for i, v := range values {
		if i == failIndex || v <= 0 {
			continue
		}
		points += weights[i] * v
		passed += v
	}
	if passed == 0 {
		return 0
	}
	return points / passed
}
