package importer

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Eik-Lab/studieveileder/internal/types"
)

// CourseStore receives parsed course pages.
type CourseStore interface {
	UpsertCourses(ctx context.Context, courses []types.Course) (int64, error)
}

// CourseReport summarizes one course import run.
type CourseReport struct {
	Files   int
	Parsed  int
	Written int64
	Skipped []string
}

// courseBatchSize keeps one upsert well under the bind parameter limit.
const courseBatchSize = 200

// minMeaningfulFields is how many fields longer than meaningfulLength a page
// needs before it counts as a course page. Error pages and stubs have fewer.
const (
	minMeaningfulFields = 3
	meaningfulLength    = 20
)

// coursePattern extracts one field from the plain-text course page.
type coursePattern struct {
	field string
	re    *regexp.Regexp
}

// Matched in multi-line mode, so a bare $ ends the capture at the line end.
var coursePatterns = []coursePattern{
	{"navn", regexp.MustCompile(`(?m)^(.+?)\s*\|\s*NMBU\s*\|\s*NMBU`)},
	{"studiepoeng", regexp.MustCompile(`(?m)Studiepoeng:\s*(.+)`)},
	{"semester", regexp.MustCompile(`(?m)Undervisningstermin:\s*(.+)`)},
	{"fakultet", regexp.MustCompile(`(?m)Ansvarlig fakultet:\s*(.+)`)},
	{"underviser", regexp.MustCompile(`(?m)Emneansvarlig:\s*(.+)`)},
	{"språk", regexp.MustCompile(`(?m)Undervisningens språk:\s*(.+)`)},
	{"antall_plasser", regexp.MustCompile(`(?m)Antall plasser:\s*(.+)`)},
	{"dette_lærer_du", regexp.MustCompile(`(?m)Dette lærer du([\s\S]+?)(?:Læringsaktiviteter|Pensum|Forutsatte forkunnskaper)`)},
	{"forkunnskaper", regexp.MustCompile(`(?m)Forutsatte forkunnskaper[:\s]*([\s\S]+?)(?:Vurderingsordning|Obligatorisk|Merknader|Undervisningstider|$)`)},
	{"læringsaktiviteter", regexp.MustCompile(`(?m)Læringsaktiviteter([\s\S]+?)(?:Læringsstøtte|Pensum|Forutsatte forkunnskaper)`)},
	{"vurderingsordning", regexp.MustCompile(`(?m)Vurderingsordning, hjelpemiddel og eksamen([\s\S]+?)(?:Om bruk av KI|Sensorordning|Obligatorisk aktivitet)`)},
	{"obligatoriske_aktiviteter", regexp.MustCompile(`(?m)Obligatorisk aktivitet\s*([\s\S]+?)(?:Merknader|Undervisningstimer|Opptakskrav|$)`)},
	{"merknader", regexp.MustCompile(`(?m)Merknader\s*([\s\S]+?)(?:Undervisningstider|Opptakskrav|$)`)},
	{"fortrinnsrett", regexp.MustCompile(`(?m)Fortrinnsrett\s*([\s\S]+?)(?:Opptakskrav|Merknader|$)`)},
}

var (
	firstInteger = regexp.MustCompile(`\d+`)
	firstNumber  = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// ParseCoursePage extracts a course from the plain text of its course page.
// The course code is the file name without extension. ok is false when the
// page holds too little text to be a real course page.
func ParseCoursePage(name string, data []byte) (course types.Course, ok bool) {
	code := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	content := string(data)

	fields := make(map[string]string, len(coursePatterns))
	meaningful := 0
	if utf8.RuneCountInString(code) > meaningfulLength {
		meaningful++
	}
	for _, p := range coursePatterns {
		m := p.re.FindStringSubmatch(content)
		if m == nil {
			continue
		}
		value := cleanText(m[1])
		if value == "" {
			continue
		}
		fields[p.field] = value
		if utf8.RuneCountInString(value) > meaningfulLength {
			meaningful++
		}
	}
	if meaningful < minMeaningfulFields {
		return types.Course{}, false
	}

	course = types.Course{
		Code:                code,
		Name:                fields["navn"],
		Credits:             NormalizeCredits(fields["studiepoeng"]),
		Semester:            NormalizeSemester(fields["semester"]),
		Faculty:             fields["fakultet"],
		Lecturer:            fields["underviser"],
		Language:            optional(fields["språk"]),
		LearningOutcomes:    optional(fields["dette_lærer_du"]),
		Prerequisites:       optional(fields["forkunnskaper"]),
		LearningActivities:  optional(fields["læringsaktiviteter"]),
		Assessment:          optional(fields["vurderingsordning"]),
		MandatoryActivities: optional(fields["obligatoriske_aktiviteter"]),
		Priority:            optional(fields["fortrinnsrett"]),
		Seats:               NormalizeInteger(fields["antall_plasser"]),
		Remarks:             optional(fields["merknader"]),
	}
	return course, true
}

// NormalizeSemester maps a teaching-term text to "Høst", "Vår" or
// "Hele året". Anything else is "".
func NormalizeSemester(value string) string {
	v := strings.ToLower(value)
	autumn, spring := strings.Contains(v, "høst"), strings.Contains(v, "vår")
	switch {
	case autumn && spring:
		return "Hele året"
	case autumn:
		return "Høst"
	case spring:
		return "Vår"
	}
	return ""
}

// NormalizeInteger returns the first digit run in value, or nil.
func NormalizeInteger(value string) *int {
	m := firstInteger.FindString(value)
	if m == "" {
		return nil
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return nil
	}
	return &n
}

// NormalizeCredits returns the first number in value, accepting a decimal
// comma ("7,5 studiepoeng"). Zero means unknown.
func NormalizeCredits(value string) float64 {
	m := firstNumber.FindString(value)
	if m == "" {
		return 0
	}
	f, err := strconv.ParseFloat(strings.Replace(m, ",", ".", 1), 64)
	if err != nil {
		return 0
	}
	return f
}

func cleanText(text string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// CourseImporter loads plain-text course pages into the course table.
type CourseImporter struct {
	store  CourseStore
	dryRun bool
	log    *slog.Logger
}

func NewCourseImporter(store CourseStore, dryRun bool, logger *slog.Logger) *CourseImporter {
	return &CourseImporter{store: store, dryRun: dryRun, log: logger.With("component", "course-importer")}
}

// Run parses every .txt page from src and upserts the courses on their code.
// Pages too thin to be course pages are skipped; a failed write aborts.
func (im *CourseImporter) Run(ctx context.Context, src SheetSource) (CourseReport, error) {
	var report CourseReport

	files, err := src.Sheets(ctx)
	if err != nil {
		return report, fmt.Errorf("list course pages: %w", err)
	}
	slices.SortFunc(files, func(a, b types.SheetFile) int { return strings.Compare(a.Name, b.Name) })

	var courses []types.Course
	for _, f := range files {
		if !strings.EqualFold(filepath.Ext(f.Name), ".txt") {
			continue
		}
		report.Files++

		course, ok := ParseCoursePage(f.Name, f.Data)
		if !ok {
			report.Skipped = append(report.Skipped, f.Name)
			im.log.DebugContext(ctx, "skipping thin course page", slog.String("file", f.Name))
			continue
		}
		courses = append(courses, course)
	}
	report.Parsed = len(courses)

	im.log.InfoContext(ctx, "parsed course pages",
		slog.Int("files", report.Files),
		slog.Int("parsed", report.Parsed),
		slog.Int("skipped", len(report.Skipped)),
	)

	if im.dryRun {
		return report, nil
	}

	for batch := range slices.Chunk(courses, courseBatchSize) {
		n, err := im.store.UpsertCourses(ctx, batch)
		if err != nil {
			return report, fmt.Errorf("write courses %s..%s: %w", batch[0].Code, batch[len(batch)-1].Code, err)
		}
		report.Written += n
	}

	return report, nil
}
