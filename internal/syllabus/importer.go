package syllabus

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ImportMonthWorkbook reads a month's subject buckets from an Excel
// workbook, the bulk-entry format used by the admin content editor.
// Expected columns on the first sheet, one topic per row:
//
//	A: subject  B: icon  C: topic  D: hours  E: days
//
// A header row is detected and skipped. Rows keep their file order, which
// becomes the rotation order, and consecutive rows sharing a subject fold
// into one bucket.
func ImportMonthWorkbook(r io.Reader) ([]Subject, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}

	var subjects []Subject
	index := make(map[string]int)
	for i, row := range rows {
		if len(row) < 3 {
			continue
		}
		name := strings.TrimSpace(cell(row, 0))
		topicName := strings.TrimSpace(cell(row, 2))
		if name == "" || topicName == "" {
			continue
		}
		if i == 0 && strings.EqualFold(name, "subject") {
			continue
		}

		hours, err := parseCount(cell(row, 3))
		if err != nil {
			return nil, fmt.Errorf("row %d: hours: %w", i+1, err)
		}
		days, err := parseCount(cell(row, 4))
		if err != nil {
			return nil, fmt.Errorf("row %d: days: %w", i+1, err)
		}

		j, ok := index[name]
		if !ok {
			j = len(subjects)
			index[name] = j
			subjects = append(subjects, Subject{
				SubjectName: name,
				Icon:        strings.TrimSpace(cell(row, 1)),
			})
		}
		subjects[j].Topics = append(subjects[j].Topics, Topic{
			Name:  topicName,
			Hours: hours,
			Days:  days,
		})
	}

	if len(subjects) == 0 {
		return nil, fmt.Errorf("workbook contains no topic rows")
	}
	return subjects, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func parseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("not a whole number: %q", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative value: %d", n)
	}
	return n, nil
}
