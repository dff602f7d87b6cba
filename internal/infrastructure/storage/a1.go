package storage

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Range is a parsed A1 range. Rows and columns are 1-based and inclusive.
// An open row bound is represented by math.MaxInt.
type Range struct {
	StartCol, EndCol int
	StartRow, EndRow int
}

// Cell is a parsed single-cell reference
type Cell struct {
	Col, Row int
}

// ParseRange parses "A:E", "B2:C10", "A3:E" or "E7".
// A leading "Sheet!" prefix is accepted and ignored.
func ParseRange(s string) (Range, error) {
	s = stripTable(s)
	if s == "" {
		return Range{}, fmt.Errorf("empty range")
	}

	start, end, found := strings.Cut(s, ":")
	if !found {
		c, err := ParseCell(start)
		if err != nil {
			return Range{}, err
		}
		return Range{StartCol: c.Col, EndCol: c.Col, StartRow: c.Row, EndRow: c.Row}, nil
	}

	startCol, startRow, err := parseRef(start)
	if err != nil {
		return Range{}, fmt.Errorf("invalid range %q: %w", s, err)
	}
	endCol, endRow, err := parseRef(end)
	if err != nil {
		return Range{}, fmt.Errorf("invalid range %q: %w", s, err)
	}
	if startRow == 0 {
		startRow = 1
	}
	if endRow == 0 {
		endRow = math.MaxInt
	}
	if endCol < startCol || endRow < startRow {
		return Range{}, fmt.Errorf("invalid range %q: end before start", s)
	}

	return Range{StartCol: startCol, EndCol: endCol, StartRow: startRow, EndRow: endRow}, nil
}

// ParseCell parses a single cell reference such as "E7"
func ParseCell(s string) (Cell, error) {
	col, row, err := parseRef(stripTable(s))
	if err != nil {
		return Cell{}, fmt.Errorf("invalid cell %q: %w", s, err)
	}
	if row == 0 {
		return Cell{}, fmt.Errorf("invalid cell %q: missing row", s)
	}
	return Cell{Col: col, Row: row}, nil
}

// ColumnName converts a 1-based column index to letters (1 -> A, 27 -> AA)
func ColumnName(col int) string {
	var name []byte
	for col > 0 {
		col--
		name = append([]byte{byte('A' + col%26)}, name...)
		col /= 26
	}
	return string(name)
}

// parseRef splits "AB12" into column 28 and row 12. The row is 0 when absent.
func parseRef(ref string) (int, int, error) {
	ref = strings.ToUpper(strings.TrimSpace(ref))
	i := 0
	col := 0
	for i < len(ref) && ref[i] >= 'A' && ref[i] <= 'Z' {
		col = col*26 + int(ref[i]-'A'+1)
		i++
	}
	if col == 0 {
		return 0, 0, fmt.Errorf("missing column")
	}
	if i == len(ref) {
		return col, 0, nil
	}
	row, err := strconv.Atoi(ref[i:])
	if err != nil || row < 1 {
		return 0, 0, fmt.Errorf("bad row %q", ref[i:])
	}
	return col, row, nil
}

func stripTable(s string) string {
	if idx := strings.LastIndex(s, "!"); idx >= 0 {
		return s[idx+1:]
	}
	return s
}
