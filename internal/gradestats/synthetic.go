package gradestats

import (
	"math"

	"github.com/Eik-Lab/studieveileder/internal/types"
)

// syntheticShape is the fixed A..F distribution, in percent, of placeholder statistics.
var syntheticShape = [6]float64{15, 25, 30, 15, 10, 5}

// SyntheticGenerator produces placeholder statistics tagged SourceSynthetic.
type SyntheticGenerator struct {
	min  int
	max  int
	intN func(n int) int
}

// NewSyntheticGenerator returns a generator drawing totals uniformly from
// [minStudents, maxStudents] using intN, which must be safe for concurrent use.
func NewSyntheticGenerator(minStudents, maxStudents int, intN func(n int) int) SyntheticGenerator {
	if maxStudents < minStudents {
		minStudents, maxStudents = maxStudents, minStudents
	}
	return SyntheticGenerator{min: minStudents, max: maxStudents, intN: intN}
}

// Generate returns a synthetic statistic for year.
func (g SyntheticGenerator) Generate(year int) types.GradeStatistics {
	total := g.min + g.intN(g.max-g.min+1)
	return fromCounts(apportion(total, syntheticShape), year, types.SourceSynthetic)
}

// apportion splits total into whole counts following shape, using largest
// remainders so the counts always add up to total.
func apportion(total int, shape [6]float64) [6]int {
	var counts [6]int
	var remainders [6]float64

	assigned := 0
	for i, pct := range shape {
		exact := float64(total) * pct / 100
		counts[i] = int(math.Floor(exact))
		remainders[i] = exact - float64(counts[i])
		assigned += counts[i]
	}

	for assigned < total {
		best := 0
		for i := 1; i < len(remainders); i++ {
			if remainders[i] > remainders[best] {
				best = i
			}
		}
		counts[best]++
		remainders[best] = -1
		assigned++
	}

	return counts
}
