package importer

import (
	"github.com/Eik-Lab/studieveileder/internal/types"
)

// DefaultThreshold is the minimum similarity for a sheet row to count as a
// course's row.
const DefaultThreshold = 0.85

type catalogEntry struct {
	course types.Course
	norm   string
}

// MatchRows pairs each course with its most similar sheet row and returns one
// GradeRow per matched course for year, deduplicated on (code, year) with the
// first occurrence kept.
func MatchRows(courses []types.Course, rows []SheetRow, year int, threshold float64) []types.GradeRow {
	entries := make([]catalogEntry, 0, len(courses))
	for _, c := range courses {
		entries = append(entries, catalogEntry{course: c, norm: NormalizeName(c.Name)})
	}

	seen := make(map[string]struct{})
	var out []types.GradeRow
	for _, e := range entries {
		best, ok := bestMatch(e.norm, rows, threshold)
		if !ok {
			continue
		}
		if _, dup := seen[e.course.Code]; dup {
			continue
		}
		seen[e.course.Code] = struct{}{}

		out = append(out, types.GradeRow{
			CourseCode: e.course.Code,
			CourseName: e.course.Name,
			Year:       year,
			PctA:       best.Values[0],
			PctB:       best.Values[1],
			PctC:       best.Values[2],
			PctD:       best.Values[3],
			PctE:       best.Values[4],
			PctF:       best.Values[5],
			PctPass:    best.Values[6],
			PctFail:    best.Values[7],
		})
	}
	return out
}

// bestMatch returns the first row with the highest similarity, if it reaches
// threshold.
func bestMatch(norm string, rows []SheetRow, threshold float64) (SheetRow, bool) {
	var best SheetRow
	bestScore := 0.0
	for _, r := range rows {
		if score := Similarity(norm, r.Norm); score > bestScore {
			best, bestScore = r, score
		}
	}
	return best, bestScore >= threshold && bestScore > 0
}
