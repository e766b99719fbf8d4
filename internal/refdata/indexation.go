package refdata

import (
	"sort"

	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/shopspring/decimal"
)

// IndexationRecord is one quarterly capital-indexation entry. Factors are
// multipliers: 1.1202 means +12.02%.
type IndexationRecord struct {
	Year          int             `json:"year"`
	Quarter       domain.Quarter  `json:"quarter"`
	PrimaryFactor decimal.Decimal `json:"primaryFactor"`
	SubFactor     decimal.Decimal `json:"subFactor"`
}

// Key returns the (year, quarter) key of the record
func (r IndexationRecord) Key() domain.YearQuarter {
	return domain.YearQuarter{Year: r.Year, Quarter: r.Quarter}
}

// IndexationSeries is the ordered, immutable sequence of quarterly factors
type IndexationSeries struct {
	records []IndexationRecord
	index   map[domain.YearQuarter]int
}

// NewIndexationSeries builds a series ordered by (year, quarter). When two records
// share a key the first one wins.
func NewIndexationSeries(records []IndexationRecord) *IndexationSeries {
	s := &IndexationSeries{
		records: make([]IndexationRecord, 0, len(records)),
		index:   make(map[domain.YearQuarter]int, len(records)),
	}
	seen := make(map[domain.YearQuarter]bool, len(records))
	for _, r := range records {
		if seen[r.Key()] {
			continue
		}
		seen[r.Key()] = true
		s.records = append(s.records, r)
	}
	sort.SliceStable(s.records, func(i, j int) bool {
		if s.records[i].Year != s.records[j].Year {
			return s.records[i].Year < s.records[j].Year
		}
		return s.records[i].Quarter < s.records[j].Quarter
	})
	for i, r := range s.records {
		s.index[r.Key()] = i
	}
	return s
}

// Len returns the number of records
func (s *IndexationSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.records)
}

// Records returns a copy of the ordered records
func (s *IndexationSeries) Records() []IndexationRecord {
	if s == nil {
		return nil
	}
	return append([]IndexationRecord(nil), s.records...)
}

// IndexationFor returns the record for an exact (year, quarter) key. It never
// guesses: ok is false when the entry is absent.
func (s *IndexationSeries) IndexationFor(year int, quarter domain.Quarter) (IndexationRecord, bool) {
	if s == nil {
		return IndexationRecord{}, false
	}
	i, ok := s.index[domain.YearQuarter{Year: year, Quarter: quarter}]
	if !ok {
		return IndexationRecord{}, false
	}
	return s.records[i], true
}

// MapQuarter returns the indexation quarter used to valorize capital for a benefit
// determined in quarter q of year. Indexation is published with a lag:
// I → (year-1, III), II → (year-1, IV), III → (year, I), IV → (year, II).
func MapQuarter(year int, q domain.Quarter) domain.YearQuarter {
	switch q {
	case domain.QuarterI:
		return domain.YearQuarter{Year: year - 1, Quarter: domain.QuarterIII}
	case domain.QuarterII:
		return domain.YearQuarter{Year: year - 1, Quarter: domain.QuarterIV}
	case domain.QuarterIII:
		return domain.YearQuarter{Year: year, Quarter: domain.QuarterI}
	case domain.QuarterIV:
		return domain.YearQuarter{Year: year, Quarter: domain.QuarterII}
	}
	return domain.YearQuarter{Year: year, Quarter: q}
}

// Valorize applies the factors of the mapped indexation quarter to the primary and
// sub-account capital. When the entry is missing the capital is returned unchanged
// and Found is false; callers must read that as missing data, not zero growth.
func (s *IndexationSeries) Valorize(primary, sub decimal.Decimal, determination domain.YearQuarter) domain.Valorization {
	target := MapQuarter(determination.Year, determination.Quarter)
	v := domain.Valorization{
		Determination: determination,
		Indexation:    target,
		PrimaryFactor: decimal.NewFromInt(1),
		SubFactor:     decimal.NewFromInt(1),
		PrimaryBefore: primary,
		PrimaryAfter:  primary,
		SubBefore:     sub,
		SubAfter:      sub,
	}

	rec, ok := s.IndexationFor(target.Year, target.Quarter)
	if !ok {
		return v
	}

	v.Found = true
	v.PrimaryFactor = rec.PrimaryFactor
	v.SubFactor = rec.SubFactor
	v.PrimaryAfter = primary.Mul(rec.PrimaryFactor).Round(2)
	v.SubAfter = sub.Mul(rec.SubFactor).Round(2)
	return v
}
