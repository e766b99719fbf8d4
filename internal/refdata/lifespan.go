package refdata

import (
	"sort"

	"github.com/shopspring/decimal"
)

// MonthsPerAge is the number of birth-month columns per age row
const MonthsPerAge = 12

// LifespanTable maps an age and a birth-month index (0-11) to the remaining
// expected months of life. The table is sparse; lookups for absent ages resolve to
// the nearest available age at or above the requested one.
// A LifespanTable is never mutated after construction.
type LifespanTable struct {
	rows map[int][]decimal.Decimal
	ages []int // sorted ascending
}

// NewLifespanTable builds a table from age rows. Rows are copied.
func NewLifespanTable(rows map[int][]decimal.Decimal) *LifespanTable {
	t := &LifespanTable{
		rows: make(map[int][]decimal.Decimal, len(rows)),
		ages: make([]int, 0, len(rows)),
	}
	for age, values := range rows {
		t.rows[age] = append([]decimal.Decimal(nil), values...)
		t.ages = append(t.ages, age)
	}
	sort.Ints(t.ages)
	return t
}

// Len returns the number of ages present in the table
func (t *LifespanTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.ages)
}

// Ages returns the ages present in the table in ascending order
func (t *LifespanTable) Ages() []int {
	if t == nil {
		return nil
	}
	return append([]int(nil), t.ages...)
}

// MaxAge returns the oldest age in the table
func (t *LifespanTable) MaxAge() (int, bool) {
	if t.Len() == 0 {
		return 0, false
	}
	return t.ages[len(t.ages)-1], true
}

// ResolveAge returns the age whose row answers a lookup for the requested age:
// the age itself when present, else the smallest present age above it, else the
// table maximum.
func (t *LifespanTable) ResolveAge(age int) (int, bool) {
	if t.Len() == 0 {
		return 0, false
	}
	if _, ok := t.rows[age]; ok {
		return age, true
	}
	for _, candidate := range t.ages {
		if candidate >= age {
			return candidate, true
		}
	}
	return t.ages[len(t.ages)-1], true
}

// Row returns a copy of the birth-month values stored for exactly age
func (t *LifespanTable) Row(age int) ([]decimal.Decimal, bool) {
	if t == nil {
		return nil, false
	}
	values, ok := t.rows[age]
	if !ok {
		return nil, false
	}
	return append([]decimal.Decimal(nil), values...), true
}

// RemainingLifeMonths returns the remaining expected months of life for the given
// age and birth month. birthMonth is clamped to [0,11]. Zero is returned when the
// resolved age has no data.
func (t *LifespanTable) RemainingLifeMonths(age, birthMonth int) decimal.Decimal {
	resolved, ok := t.ResolveAge(age)
	if !ok {
		return decimal.Zero
	}
	values := t.rows[resolved]
	if len(values) == 0 {
		return decimal.Zero
	}

	month := clampMonth(birthMonth)
	if month >= len(values) {
		month = len(values) - 1
	}
	return values[month]
}

func clampMonth(m int) int {
	if m < 0 {
		return 0
	}
	if m > MonthsPerAge-1 {
		return MonthsPerAge - 1
	}
	return m
}
