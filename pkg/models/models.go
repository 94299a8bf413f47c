package models

import (
	"math"
	"strconv"
	"strings"
)

// Value is a single table cell, either raw text or a coerced number
type Value struct {
	Text    string
	Num     float64
	Numeric bool
}

// Text creates a text value
func Text(s string) Value {
	return Value{Text: s}
}

// Number creates a numeric value. NaN marks a missing number.
func Number(f float64) Value {
	return Value{Num: f, Numeric: true}
}

// Missing is the numeric value used when coercion fails
func Missing() Value {
	return Number(math.NaN())
}

// Coerce turns raw cell text into a numeric value, yielding NaN when the
// text is not a number. Thousand separators are ignored.
func Coerce(s string) Value {
	return Number(ParseFloat(s))
}

// ParseFloat parses a stats cell, returning NaN for blanks and garbage
func ParseFloat(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// Float returns the numeric form of the value, coercing text on the fly
func (v Value) Float() float64 {
	if v.Numeric {
		return v.Num
	}
	return ParseFloat(v.Text)
}

// IsMissing reports whether the value carries no usable data
func (v Value) IsMissing() bool {
	if v.Numeric {
		return math.IsNaN(v.Num)
	}
	return strings.TrimSpace(v.Text) == ""
}

// String renders the value the way it is exported. Missing numbers are blank.
func (v Value) String() string {
	if !v.Numeric {
		return v.Text
	}
	if math.IsNaN(v.Num) {
		return ""
	}
	return strconv.FormatFloat(v.Num, 'f', -1, 64)
}

// Record maps flat column names to cell values for one table row
type Record map[string]Value

// Get returns the value for a column, or an empty text value if absent
func (r Record) Get(column string) Value {
	return r[column]
}

// Float returns the numeric value of a column, NaN when absent
func (r Record) Float(column string) float64 {
	v, ok := r[column]
	if !ok {
		return math.NaN()
	}
	return v.Float()
}

// String returns the text of a column
func (r Record) String(column string) string {
	return r[column].String()
}

// RecordSet is an ordered collection of records sharing one column layout
type RecordSet struct {
	Columns []string
	Records []Record
}

// NewRecordSet creates an empty record set with the given columns
func NewRecordSet(columns []string) *RecordSet {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &RecordSet{Columns: cols}
}

// Len returns the number of records
func (s *RecordSet) Len() int {
	return len(s.Records)
}

// HasColumn reports whether the column is part of the layout
func (s *RecordSet) HasColumn(column string) bool {
	for _, c := range s.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// AddColumn appends a column to the layout if it is not already present
func (s *RecordSet) AddColumn(column string) {
	if !s.HasColumn(column) {
		s.Columns = append(s.Columns, column)
	}
}

// WithRecords returns a set with the same layout holding the given records
func (s *RecordSet) WithRecords(records []Record) *RecordSet {
	out := NewRecordSet(s.Columns)
	out.Records = records
	return out
}

// Link is an optional entity detail page reference
type Link struct {
	URL   string
	Valid bool
}

// NoLink is the absent link
var NoLink = Link{}

// NewLink creates a present link
func NewLink(url string) Link {
	return Link{URL: url, Valid: true}
}

// String returns the URL or an empty string when absent
func (l Link) String() string {
	if !l.Valid {
		return ""
	}
	return l.URL
}
