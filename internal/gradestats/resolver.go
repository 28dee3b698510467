package gradestats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Eik-Lab/studieveileder/internal/types"
)

// ErrNoData means the upstream knows nothing about the course in that year.
// It is a normal outcome, not a failure.
var ErrNoData = errors.New("no grade data for this year")

// FailurePolicy decides what Resolve returns when the upstream fails.
type FailurePolicy string

const (
	// PolicyDefault keeps each source's historical behaviour: synthetic
	// data for the DBH export, an empty statistic for the database.
	PolicyDefault   FailurePolicy = ""
	PolicyEmpty     FailurePolicy = "empty"
	PolicySynthetic FailurePolicy = "synthetic"
)

const (
	DefaultTimeout      = 10 * time.Second
	DefaultSyntheticMin = 40
	DefaultSyntheticMax = 120
)

// Options tune a Resolver. Zero values select the defaults.
type Options struct {
	Timeout           time.Duration
	OnUpstreamFailure FailurePolicy
	SyntheticMin      int
	SyntheticMax      int
	// IntN draws synthetic totals; defaults to math/rand/v2.IntN.
	IntN func(n int) int
}

// Resolver produces grade statistics for a course and year from one source.
// It is safe for concurrent use.
type Resolver struct {
	source    Source
	timeout   time.Duration
	policy    FailurePolicy
	synthetic SyntheticGenerator
	log       *slog.Logger
}

func NewResolver(source Source, opts Options, logger *slog.Logger) *Resolver {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.SyntheticMin <= 0 {
		opts.SyntheticMin = DefaultSyntheticMin
	}
	if opts.SyntheticMax <= 0 {
		opts.SyntheticMax = DefaultSyntheticMax
	}
	if opts.IntN == nil {
		opts.IntN = rand.IntN
	}

	policy := opts.OnUpstreamFailure
	if policy == PolicyDefault {
		policy = PolicyEmpty
		if source.Kind() == types.SourceDBH {
			policy = PolicySynthetic
		}
	}

	return &Resolver{
		source:    source,
		timeout:   opts.Timeout,
		policy:    policy,
		synthetic: NewSyntheticGenerator(opts.SyntheticMin, opts.SyntheticMax, opts.IntN),
		log:       logger.With("component", "gradestats"),
	}
}

// Policy returns the failure policy in effect.
func (r *Resolver) Policy() FailurePolicy {
	return r.policy
}

// Resolve returns the statistic for courseCode in year.
//
// Invalid input yields an error wrapping types.ErrInvalidInput before any
// upstream call. A missing row yields ErrNoData. Upstream failures and
// timeouts are never returned: they are logged and replaced by the
// fallback statistic chosen by the failure policy.
func (r *Resolver) Resolve(ctx context.Context, courseCode string, year int) (types.GradeStatistics, error) {
	courseCode = strings.TrimSpace(courseCode)
	if courseCode == "" {
		return types.GradeStatistics{}, fmt.Errorf("%w: course code is required", types.ErrInvalidInput)
	}
	if year < 1000 || year > 9999 {
		return types.GradeStatistics{}, fmt.Errorf("%w: year must have four digits, got %d", types.ErrInvalidInput, year)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	stats, err := r.source.Fetch(fetchCtx, courseCode, year)
	if err == nil {
		return stats, nil
	}
	if errors.Is(err, types.ErrNotFound) {
		return types.GradeStatistics{}, ErrNoData
	}

	r.log.WarnContext(ctx, "grade upstream unavailable, using fallback",
		slog.String("course", courseCode),
		slog.Int("year", year),
		slog.String("source", string(r.source.Kind())),
		slog.String("policy", string(r.policy)),
		slog.String("error", err.Error()),
	)

	return r.fallback(year), nil
}

func (r *Resolver) fallback(year int) types.GradeStatistics {
	if r.policy == PolicySynthetic {
		return r.synthetic.Generate(year)
	}
	return EmptyStatistics(year, types.SourceEmpty)
}

var yearPattern = regexp.MustCompile(`^[1-9]\d{3}$`)

// ParseYear parses a four-digit year parameter.
func ParseYear(value string) (int, error) {
	value = strings.TrimSpace(value)
	if !yearPattern.MatchString(value) {
		return 0, fmt.Errorf("%w: year must have four digits, got %q", types.ErrInvalidInput, value)
	}
	return strconv.Atoi(value)
}
