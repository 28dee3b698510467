package gradestats

import (
	"strconv"
	"strings"

	"github.com/Eik-Lab/studieveileder/internal/types"
)

// ParseCSV aggregates a DBH grade export into a lettered statistic.
//
// The first line is a header. Every other line is split on ';' or ',' and
// scanned for a grade cell (see FindGradeColumn); the cell after it is the
// student count. Lines without a grade cell or with a non-numeric count are
// skipped. A course may have several lines per grade (one per exam session);
// their counts are summed.
func ParseCSV(csvText string, year int) types.GradeStatistics {
	lines := strings.Split(strings.TrimSpace(csvText), "\n")
	if len(lines) < 2 {
		return EmptyStatistics(year, types.SourceDBH)
	}

	var counts [6]int
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		cells := splitCells(line)
		gradeCol, ok := FindGradeColumn(cells)
		if !ok || gradeCol+1 >= len(cells) {
			continue
		}

		count, err := strconv.Atoi(cells[gradeCol+1])
		if err != nil || count < 0 {
			continue
		}

		counts[letterIndex(cells[gradeCol])] += count
	}

	return fromCounts(counts, year, types.SourceDBH)
}

// FindGradeColumn returns the index of the first cell that is exactly one of
// A..F. Column order in DBH exports depends on the groupBy of the query, so
// the position is never assumed.
func FindGradeColumn(cells []string) (int, bool) {
	for i, cell := range cells {
		if letterIndex(cell) >= 0 {
			return i, true
		}
	}
	return -1, false
}

func splitCells(line string) []string {
	cells := strings.Split(strings.ReplaceAll(line, ",", ";"), ";")
	for i, cell := range cells {
		cells[i] = strings.TrimSpace(strings.ReplaceAll(cell, `"`, ""))
	}
	return cells
}

func letterIndex(cell string) int {
	for i, letter := range letters {
		if cell == letter {
			return i
		}
	}
	return -1
}
