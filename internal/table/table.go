// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package table sorts, filters and renders the HTML game table. Sorting
// honours per-column value types and filtering hides rows whose text does
// not match a case-insensitive pattern; visible rows are restriped after
// either operation.
package table

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// ColumnType selects how a column's cells compare.
type ColumnType string

const (
	Text     ColumnType = "text"
	Numeric  ColumnType = "numeric"
	Date     ColumnType = "date"
	Currency ColumnType = "currency"
)

// Row classes.
const (
	ClassEven   = "entry0"
	ClassOdd    = "entry1"
	ClassHidden = "hidden"
)

// Column is a header cell.
type Column struct {
	Name string
	Type ColumnType
}

// Row is one table row.
type Row struct {
	Cells  []string
	Hidden bool
	Class  string
}

// Text returns the row's cells joined by spaces, the text a filter
// pattern is matched against.
func (r Row) Text() string {
	return strings.Join(r.Cells, " ")
}

// Table holds columns and rows in display order.
type Table struct {
	Columns []Column
	Rows    []Row
}

// New returns a table with every row visible and striped.
func New(cols []Column, rows [][]string) *Table {
	t := &Table{Columns: cols}
	for _, cells := range rows {
		t.Rows = append(t.Rows, Row{Cells: cells})
	}
	t.Restripe()
	return t
}

// Sort orders rows by column col. The ascending order is stable;
// descending is the exact reverse of it.
func (t *Table) Sort(col int, desc bool) error {
	if col < 0 || col >= len(t.Columns) {
		return fmt.Errorf("sort column %d out of range (0-%d)", col, len(t.Columns)-1)
	}
	less := comparator(t.Columns[col].Type)
	slices.SortStableFunc(t.Rows, func(a, b Row) int {
		return less(cell(a, col), cell(b, col))
	})
	if desc {
		slices.Reverse(t.Rows)
	}
	t.Restripe()
	return nil
}

// Filter hides rows whose text does not match pattern, case-insensitively.
// A pattern that is not a valid regular expression matches literally. An
// empty pattern shows every row. It returns the number of visible rows.
func (t *Table) Filter(pattern string) int {
	re := compileFilter(pattern)
	for i := range t.Rows {
		t.Rows[i].Hidden = re != nil && !re.MatchString(t.Rows[i].Text())
	}
	return t.Restripe()
}

// Restripe assigns alternating classes to visible rows and the hidden
// class to the rest. It returns the number of visible rows.
func (t *Table) Restripe() int {
	visible := 0
	for i := range t.Rows {
		switch {
		case t.Rows[i].Hidden:
			t.Rows[i].Class = ClassHidden
		case visible%2 == 0:
			t.Rows[i].Class = ClassEven
			visible++
		default:
			t.Rows[i].Class = ClassOdd
			visible++
		}
	}
	return visible
}

// ColumnIndex returns the index of the column named name, ignoring case,
// or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if strings.EqualFold(c.Name, name) {
			return i
		}
	}
	return -1
}

func cell(r Row, col int) string {
	if col < len(r.Cells) {
		return r.Cells[col]
	}
	return ""
}

func compileFilter(pattern string) *regexp.Regexp {
	if pattern == "" {
		return nil
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		re = regexp.MustCompile("(?i)" + regexp.QuoteMeta(pattern))
	}
	return re
}

func comparator(typ ColumnType) func(a, b string) int {
	switch typ {
	case Numeric:
		return func(a, b string) int { return cmpFloat(leadingFloat(a), leadingFloat(b)) }
	case Currency:
		return func(a, b string) int { return cmpFloat(currencyValue(a), currencyValue(b)) }
	case Date:
		return func(a, b string) int { return strings.Compare(dateKey(a), dateKey(b)) }
	default:
		return func(a, b string) int { return strings.Compare(strings.ToLower(a), strings.ToLower(b)) }
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// leadingFloat parses the longest numeric prefix of s, or 0 when s does
// not start with a number.
func leadingFloat(s string) float64 {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	seenDigit, seenDot := false, false
scan:
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
		case r == '.' && !seenDot:
			seenDot = true
		case (r == '-' || r == '+') && i == 0:
		default:
			break scan
		}
		end = i + 1
	}
	if !seenDigit {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		return 0
	}
	return v
}

var nonCurrency = regexp.MustCompile(`[^0-9.]`)

func currencyValue(s string) float64 {
	return leadingFloat(nonCurrency.ReplaceAllString(s, ""))
}

// dateKey turns dd/mm/yyyy or dd/mm/yy into a sortable yyyymmdd key. Two
// digit years below 50 are in the 2000s, the rest in the 1900s. Values that
// are not dates sort by their raw text.
func dateKey(s string) string {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return s
	}
	day, month, year := parts[0], parts[1], parts[2]
	if len(year) == 2 {
		yy, err := strconv.Atoi(year)
		if err != nil {
			return s
		}
		if yy < 50 {
			year = "20" + year
		} else {
			year = "19" + year
		}
	}
	if len(day) == 1 {
		day = "0" + day
	}
	if len(month) == 1 {
		month = "0" + month
	}
	return year + month + day
}
