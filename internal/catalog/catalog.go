// Package catalog serves course search over the full course list, which is
// small enough to keep in memory between refreshes.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/Eik-Lab/studieveileder/internal/types"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100

	SortByName    = "navn"
	SortByCode    = "kode"
	SortByCredits = "studiepoeng"

	allCoursesKey = "courses:all"
)

// CourseStore is the persistence the catalog reads from.
type CourseStore interface {
	ListCourses(ctx context.Context) ([]types.Course, error)
	GetCourse(ctx context.Context, code string) (*types.Course, error)
}

// Page is one page of search results.
type Page struct {
	Courses []types.Course
	Total   int
	HasNext bool
}

type Service struct {
	store CourseStore
	cache *cache.Cache
	log   *slog.Logger
}

// NewService caches the course list and single courses for ttl.
func NewService(store CourseStore, ttl time.Duration, logger *slog.Logger) *Service {
	return &Service{
		store: store,
		cache: cache.New(ttl, 2*ttl),
		log:   logger.With("component", "catalog"),
	}
}

// Search filters, sorts and paginates the catalog.
func (s *Service) Search(ctx context.Context, q types.CourseQuery) (Page, error) {
	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = SortByName
	}
	if sortBy != SortByName && sortBy != SortByCode && sortBy != SortByCredits {
		return Page{}, fmt.Errorf("%w: sort must be one of navn, kode, studiepoeng", types.ErrInvalidInput)
	}
	if q.Offset < 0 {
		return Page{}, fmt.Errorf("%w: offset must not be negative", types.ErrInvalidInput)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)

	all, err := s.all(ctx)
	if err != nil {
		return Page{}, err
	}

	matched := filter(all, q)
	sortCourses(matched, sortBy)

	total := len(matched)
	start := min(q.Offset, total)
	end := min(start+limit, total)

	return Page{
		Courses: matched[start:end],
		Total:   total,
		HasNext: end < total,
	}, nil
}

// Get returns a single course, or an error wrapping types.ErrNotFound.
// Entries are keyed by the requested code and by the code the store matched,
// so a cached course is only served for codes the store resolves to it.
func (s *Service) Get(ctx context.Context, code string) (*types.Course, error) {
	code = strings.TrimSpace(code)
	if cached, ok := s.cache.Get(courseKey(code)); ok {
		return cached.(*types.Course), nil
	}

	course, err := s.store.GetCourse(ctx, code)
	if err != nil {
		return nil, err
	}

	s.cache.SetDefault(courseKey(code), course)
	s.cache.SetDefault(courseKey(course.Code), course)
	return course, nil
}

func courseKey(code string) string {
	return "course:" + code
}

// Faculties returns the distinct faculty names in Norwegian sort order.
func (s *Service) Faculties(ctx context.Context) ([]string, error) {
	all, err := s.all(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	faculties := []string{}
	for _, c := range all {
		if c.Faculty == "" {
			continue
		}
		if _, ok := seen[c.Faculty]; ok {
			continue
		}
		seen[c.Faculty] = struct{}{}
		faculties = append(faculties, c.Faculty)
	}

	collate.New(language.Norwegian).SortStrings(faculties)
	return faculties, nil
}

// Invalidate drops every cached entry. cmd/api calls it on SIGHUP.
func (s *Service) Invalidate() {
	s.cache.Flush()
}

func (s *Service) all(ctx context.Context) ([]types.Course, error) {
	if cached, ok := s.cache.Get(allCoursesKey); ok {
		return cached.([]types.Course), nil
	}

	courses, err := s.store.ListCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	s.log.DebugContext(ctx, "catalog loaded", slog.Int("courses", len(courses)))
	s.cache.SetDefault(allCoursesKey, courses)
	return courses, nil
}

// filter returns a new slice; the cached list is never reordered.
func filter(all []types.Course, q types.CourseQuery) []types.Course {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]types.Course, 0, len(all))
	for _, c := range all {
		if search != "" &&
			!strings.Contains(strings.ToLower(c.Name), search) &&
			!strings.Contains(strings.ToLower(c.Code), search) {
			continue
		}
		if q.Faculty != "" && c.Faculty != q.Faculty {
			continue
		}
		if q.Semester != "" && c.Semester != q.Semester {
			continue
		}
		if q.Credits > 0 && c.Credits != q.Credits {
			continue
		}
		out = append(out, c)
	}
	return out
}

func sortCourses(courses []types.Course, sortBy string) {
	if sortBy == SortByCredits {
		slices.SortStableFunc(courses, func(a, b types.Course) int {
			switch {
			case a.Credits < b.Credits:
				return -1
			case a.Credits > b.Credits:
				return 1
			}
			return 0
		})
		return
	}

	// Collators keep scratch buffers, so each sort gets its own.
	col := collate.New(language.Norwegian)
	slices.SortStableFunc(courses, func(a, b types.Course) int {
		if sortBy == SortByCode {
			return col.CompareString(a.Code, b.Code)
		}
		return col.CompareString(a.Name, b.Name)
	})
}
