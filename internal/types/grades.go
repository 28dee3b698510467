package types

// GradeRow is a pre-aggregated grade distribution for one course and year,
// stored in the eksamensresultater table. Percentages are in [0,100] and nil
// when the source sheet left the cell empty.
type GradeRow struct {
	CourseCode string   `json:"emnekode"`
	CourseName string   `json:"emnenavn,omitempty"`
	Year       int      `json:"ar"`
	PctA       *float64 `json:"prosent_a"`
	PctB       *float64 `json:"prosent_b"`
	PctC       *float64 `json:"prosent_c"`
	PctD       *float64 `json:"prosent_d"`
	PctE       *float64 `json:"prosent_e"`
	PctF       *float64 `json:"prosent_f"`
	PctPass    *float64 `json:"prosent_bestatt"`
	PctFail    *float64 `json:"prosent_ikke_bestatt"`
}

// GradingScheme tells how a course is graded.
type GradingScheme string

const (
	SchemeLettered GradingScheme = "lettered"
	SchemePassFail GradingScheme = "passfail"
)

// StatisticsSource tells where a GradeStatistics came from. Consumers must
// branch on it: synthetic and empty statistics are not real data.
type StatisticsSource string

const (
	SourceDatabase  StatisticsSource = "database"
	SourceDBH       StatisticsSource = "dbh"
	SourceSynthetic StatisticsSource = "synthetic"
	SourceEmpty     StatisticsSource = "empty"
)

// Pass/fail grade labels.
const (
	GradePass = "Bestått"
	GradeFail = "Ikke bestått"
)

// GradeShare is one bar of a grade distribution.
type GradeShare struct {
	Grade      string  `json:"grade"`
	Percentage float64 `json:"percentage"`
	Count      *int    `json:"count,omitempty"`
}

// GradeStatistics is a display-ready grade distribution for one course and year.
type GradeStatistics struct {
	Scheme        GradingScheme    `json:"scheme"`
	Grades        []GradeShare     `json:"grades"`
	AverageGrade  *float64         `json:"averageGrade,omitempty"`
	FailRate      float64          `json:"failRate"`
	Year          int              `json:"year"`
	TotalStudents *int             `json:"totalStudents,omitempty"`
	Source        StatisticsSource `json:"source"`
}
