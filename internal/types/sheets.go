package types

// SheetFile is one downloaded import file (grade sheet or course page),
// before parsing.
type SheetFile struct {
	Name string // base file name, e.g. "karakterer_2023.csv" or "INF120.txt"
	Data []byte
}
