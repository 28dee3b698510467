package gradestats

import (
	"github.com/Eik-Lab/studieveileder/internal/types"
)

// NormalizeRow converts a stored percentage row into a statistic.
//
// Rows whose lettered percentages sum to (practically) zero belong to
// pass/fail courses: the result then has exactly the Bestått and Ikke bestått
// shares and no average grade.
func NormalizeRow(row types.GradeRow) types.GradeStatistics {
	pcts := [6]float64{
		valueOrZero(row.PctA),
		valueOrZero(row.PctB),
		valueOrZero(row.PctC),
		valueOrZero(row.PctD),
		valueOrZero(row.PctE),
		valueOrZero(row.PctF),
	}

	var sum float64
	for _, p := range pcts {
		sum += p
	}

	if sum > letteredEpsilon {
		grades := make([]types.GradeShare, len(letters))
		for i, letter := range letters {
			grades[i] = types.GradeShare{Grade: letter, Percentage: pcts[i]}
		}
		average := weightedAverage(pcts)

		return types.GradeStatistics{
			Scheme:       types.SchemeLettered,
			Grades:       grades,
			AverageGrade: &average,
			FailRate:     pcts[failIndex],
			Year:         row.Year,
			Source:       types.SourceDatabase,
		}
	}

	pass := valueOrZero(row.PctPass)
	fail := valueOrZero(row.PctFail)

	return types.GradeStatistics{
		Scheme: types.SchemePassFail,
		Grades: []types.GradeShare{
			{Grade: types.GradePass, Percentage: pass},
			{Grade: types.GradeFail, Percentage: fail},
		},
		FailRate: fail,
		Year:     row.Year,
		Source:   types.SourceDatabase,
	}
}

func valueOrZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
