package types

// Course represents a course ("emne") stored in the emner table.
//
// Table Structure:
//   - emner(emnekode PRIMARY KEY, navn, studiepoeng, semester, fakultet, ...)
//
// The JSON keys keep the column names the portal front end already renders.
// Long text fields are nil when the course page did not contain the section.
type Course struct {
	// Core identifiers
	Code string `json:"emnekode"` // e.g., "INF120"
	Name string `json:"navn"`     // Course title

	// Course metadata
	Credits  float64 `json:"studiepoeng"` // e.g., 5, 7.5, 10
	Semester string  `json:"semester"`    // "Høst", "Vår", "Hele året"
	Faculty  string  `json:"fakultet"`    // Responsible faculty
	Lecturer string  `json:"underviser"`  // Course coordinator

	// Course page sections
	Language            *string `json:"språk,omitempty"`
	LearningOutcomes    *string `json:"dette_lærer_du,omitempty"`
	Prerequisites       *string `json:"forkunnskaper,omitempty"`
	LearningActivities  *string `json:"læringsaktiviteter,omitempty"`
	Assessment          *string `json:"vurderingsordning,omitempty"`
	MandatoryActivities *string `json:"obligatoriske_aktiviteter,omitempty"`
	Priority            *string `json:"fortrinnsrett,omitempty"`
	Seats               *int    `json:"antall_plasser,omitempty"`
	Remarks             *string `json:"merknader,omitempty"`
}

// CourseQuery contains parameters for searching the catalog
type CourseQuery struct {
	Search   string  // Matches code or name (case-insensitive substring)
	Faculty  string  // Exact faculty name
	Semester string  // Exact semester label
	Credits  float64 // 0 for any
	SortBy   string  // "navn", "kode" or "studiepoeng"
	Limit    int     // Max results to return (0 for no limit)
	Offset   int     // Number of results to skip
}
