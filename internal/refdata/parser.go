package refdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	lifespanHeaderLines   = 1
	indexationHeaderLines = 2
	lifespanColumns       = 1 + MonthsPerAge
	indexationColumns     = 4
)

// SkippedRow records a data row rejected by the parser
type SkippedRow struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// ParseStats summarizes one table parse
type ParseStats struct {
	Rows     int          `json:"rows"`
	Accepted int          `json:"accepted"`
	Skipped  []SkippedRow `json:"skipped,omitempty"`
}

func (ps *ParseStats) skip(line int, format string, args ...any) {
	ps.Skipped = append(ps.Skipped, SkippedRow{Line: line, Reason: fmt.Sprintf(format, args...)})
}

// Parser converts raw delimited text into reference tables. Malformed rows are
// skipped and recorded in ParseStats; parsing itself never fails on row content.
type Parser struct {
	Comma rune // Field delimiter, ',' when zero
}

// NewParser creates a parser for the given delimiter ("" means comma, "\t" is accepted)
func NewParser(delimiter string) Parser {
	p := Parser{Comma: ','}
	switch delimiter {
	case "":
	case `\t`, "tab":
		p.Comma = '\t'
	default:
		p.Comma = []rune(delimiter)[0]
	}
	return p
}

func (p Parser) comma() rune {
	if p.Comma == 0 {
		return ','
	}
	return p.Comma
}

func (p Parser) newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = p.comma()
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	return cr
}

// number parses a numeric cell, accepting a decimal comma when the delimiter is not a comma
func (p Parser) number(cell string) (decimal.Decimal, error) {
	s := strings.TrimSpace(cell)
	if p.comma() != ',' {
		s = strings.ReplaceAll(s, ",", ".")
	}
	return decimal.NewFromString(s)
}

// eachRow reads records after skipping header lines, calling fn with the line number
func (p Parser) eachRow(r io.Reader, headerLines int, stats *ParseStats, fn func(line int, fields []string)) {
	cr := p.newReader(r)
	record := 0
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return
		}
		record++
		if record <= headerLines {
			continue
		}
		stats.Rows++
		if err != nil {
			line := 0
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				line = perr.Line
			}
			stats.skip(line, "malformed row: %v", err)
			continue
		}
		line, _ := cr.FieldPos(0)
		fn(line, fields)
	}
}

// ParseLifespan parses a life-expectancy table: a header line followed by rows of an
// age and twelve monthly values.
func (p Parser) ParseLifespan(r io.Reader) (*LifespanTable, ParseStats) {
	var stats ParseStats
	rows := make(map[int][]decimal.Decimal)

	p.eachRow(r, lifespanHeaderLines, &stats, func(line int, fields []string) {
		if len(fields) < lifespanColumns {
			stats.skip(line, "expected %d columns, got %d", lifespanColumns, len(fields))
			return
		}
		age, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			stats.skip(line, "invalid age %q", fields[0])
			return
		}
		if _, dup := rows[age]; dup {
			stats.skip(line, "duplicate age %d", age)
			return
		}

		values := make([]decimal.Decimal, 0, MonthsPerAge)
		for _, cell := range fields[1:lifespanColumns] {
			v, err := p.number(cell)
			if err != nil {
				stats.skip(line, "invalid month value %q", cell)
				return
			}
			values = append(values, v)
		}
		rows[age] = values
		stats.Accepted++
	})

	return NewLifespanTable(rows), stats
}

// ParseIndexation parses the quarterly indexation table: two metadata/header lines
// followed by rows of year, quarter label, primary percentage and sub percentage.
func (p Parser) ParseIndexation(r io.Reader) (*IndexationSeries, ParseStats) {
	var stats ParseStats
	var records []IndexationRecord
	seen := make(map[domain.YearQuarter]bool)

	p.eachRow(r, indexationHeaderLines, &stats, func(line int, fields []string) {
		if len(fields) < indexationColumns {
			stats.skip(line, "expected %d columns, got %d", indexationColumns, len(fields))
			return
		}
		year, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			stats.skip(line, "invalid year %q", fields[0])
			return
		}
		quarter, ok := domain.ParseQuarter(fields[1])
		if !ok {
			stats.skip(line, "invalid quarter %q", fields[1])
			return
		}
		primary, ok := ParsePercentage(fields[2])
		if !ok || !primary.IsPositive() {
			stats.skip(line, "invalid primary percentage %q", fields[2])
			return
		}
		sub, ok := ParsePercentage(fields[3])
		if !ok || !sub.IsPositive() {
			stats.skip(line, "invalid sub percentage %q", fields[3])
			return
		}

		key := domain.YearQuarter{Year: year, Quarter: quarter}
		if seen[key] {
			stats.skip(line, "duplicate entry %s", key)
			return
		}
		seen[key] = true

		records = append(records, IndexationRecord{
			Year:          year,
			Quarter:       quarter,
			PrimaryFactor: primary,
			SubFactor:     sub,
		})
		stats.Accepted++
	})

	return NewIndexationSeries(records), stats
}

// ParsePercentage converts a percentage string such as "112.02%" into the factor
// 1.1202. A trailing "%" is optional and a decimal comma is accepted.
// ok is false for empty or non-numeric input.
func ParsePercentage(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	if s == "" {
		return decimal.Zero, false
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d.Shift(-2), true
}
