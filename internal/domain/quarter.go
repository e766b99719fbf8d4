package domain

import (
	"fmt"
	"strings"
	"time"
)

// Quarter is a calendar quarter, 1 through 4, labelled with roman numerals
type Quarter int

const (
	QuarterI Quarter = iota + 1
	QuarterII
	QuarterIII
	QuarterIV
)

var quarterLabels = [...]string{"", "I", "II", "III", "IV"}

// String returns the roman-numeral label ("I".."IV")
func (q Quarter) String() string {
	if !q.Valid() {
		return fmt.Sprintf("Quarter(%d)", int(q))
	}
	return quarterLabels[q]
}

// Valid reports whether q is in range
func (q Quarter) Valid() bool {
	return q >= QuarterI && q <= QuarterIV
}

// ParseQuarter accepts roman labels ("III"), digits ("3") and "Q3"
func ParseQuarter(label string) (Quarter, bool) {
	s := strings.ToUpper(strings.TrimSpace(label))
	s = strings.TrimPrefix(s, "Q")
	switch s {
	case "I", "1":
		return QuarterI, true
	case "II", "2":
		return QuarterII, true
	case "III", "3":
		return QuarterIII, true
	case "IV", "4":
		return QuarterIV, true
	}
	return 0, false
}

// QuarterOf returns the quarter containing the given month
func QuarterOf(m time.Month) Quarter {
	return Quarter((int(m)-1)/3 + 1)
}

// MarshalText implements encoding.TextMarshaler so yaml/json carry the label
func (q Quarter) MarshalText() ([]byte, error) {
	if !q.Valid() {
		return nil, fmt.Errorf("invalid quarter %d", int(q))
	}
	return []byte(q.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (q *Quarter) UnmarshalText(text []byte) error {
	parsed, ok := ParseQuarter(string(text))
	if !ok {
		return fmt.Errorf("invalid quarter label %q", string(text))
	}
	*q = parsed
	return nil
}

// YearQuarter identifies one entry of the quarterly indexation series
type YearQuarter struct {
	Year    int     `yaml:"year" json:"year"`
	Quarter Quarter `yaml:"quarter" json:"quarter"`
}

func (yq YearQuarter) String() string {
	return fmt.Sprintf("%d/%s", yq.Year, yq.Quarter)
}

// YearQuarterOf returns the year and quarter of t
func YearQuarterOf(t time.Time) YearQuarter {
	return YearQuarter{Year: t.Year(), Quarter: QuarterOf(t.Month())}
}
