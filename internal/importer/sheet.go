package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// sheetColumns is the fixed column order of a grade sheet:
// course name, A..F, bestått, ikke bestått (percentages).
const sheetColumns = 9

var yearInName = regexp.MustCompile(`\d{4}`)

// SheetRow is one course line of a grade sheet.
type SheetRow struct {
	RawName string
	Norm    string
	// A..F, bestått, ikke bestått; nil for empty cells.
	Values [8]*float64
}

// YearFromFilename returns the first four-digit run in name.
func YearFromFilename(name string) (int, error) {
	match := yearInName.FindString(name)
	if match == "" {
		return 0, fmt.Errorf("could not extract year from filename: %s", name)
	}
	return strconv.Atoi(match)
}

// ParseSheet reads a grade sheet exported as CSV. The delimiter is ';' when
// the header contains one, otherwise ','. The header row is skipped, as are
// rows without a course name. Percentages may use a decimal comma.
func ParseSheet(data []byte) ([]SheetRow, error) {
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	if header, _, _ := bytes.Cut(data, []byte("\n")); bytes.Contains(header, []byte(";")) {
		reader.Comma = ';'
	}

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	var rows []SheetRow
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		name := strings.TrimSpace(record[0])
		if name == "" {
			continue
		}
		if len(record) < sheetColumns {
			return nil, fmt.Errorf("line %d: want %d columns, got %d", line, sheetColumns, len(record))
		}

		row := SheetRow{RawName: name, Norm: NormalizeName(name)}
		for i := range row.Values {
			v, err := parsePercent(record[i+1])
			if err != nil {
				return nil, fmt.Errorf("line %d column %d: %w", line, i+2, err)
			}
			row.Values[i] = v
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func parsePercent(cell string) (*float64, error) {
	cell = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(cell), "%"))
	if cell == "" || cell == "-" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.Replace(cell, ",", ".", 1), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid percentage %q", cell)
	}
	return &v, nil
}
