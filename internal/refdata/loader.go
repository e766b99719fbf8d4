package refdata

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/shopspring/decimal"
)

//go:embed data/lifespan.csv
var defaultLifespan string

//go:embed data/indexation.csv
var defaultIndexation string

// Table names used in LoadError
const (
	TableLifespan   = "lifespan"
	TableIndexation = "indexation"
)

// ErrNoSource is returned (wrapped in a LoadError) when a table has no source
var ErrNoSource = errors.New("no source provided")

// LoadError reports that the raw text of a table could not be obtained. It is
// distinct from row-level defects, which are skipped during parsing.
type LoadError struct {
	Table  string
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("load %s table from %s: %v", e.Table, e.Source, e.Err)
	}
	return fmt.Sprintf("load %s table: %v", e.Table, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ReferenceData is the immutable reference data model consulted by the engine.
// It is safe for concurrent readers.
type ReferenceData struct {
	Lifespan        *LifespanTable
	Indexation      *IndexationSeries
	LifespanStats   ParseStats
	IndexationStats ParseStats
}

// RemainingLifeMonths looks up the life table; zero when no table is loaded
func (rd *ReferenceData) RemainingLifeMonths(age, birthMonth int) decimal.Decimal {
	if rd == nil || rd.Lifespan == nil {
		return decimal.Zero
	}
	return rd.Lifespan.RemainingLifeMonths(age, birthMonth)
}

// IndexationFor looks up an exact (year, quarter) entry
func (rd *ReferenceData) IndexationFor(year int, quarter domain.Quarter) (IndexationRecord, bool) {
	if rd == nil {
		return IndexationRecord{}, false
	}
	return rd.Indexation.IndexationFor(year, quarter)
}

// Valorize valorizes capital for a benefit determined at the given quarter
func (rd *ReferenceData) Valorize(primary, sub decimal.Decimal, determination domain.YearQuarter) domain.Valorization {
	var series *IndexationSeries
	if rd != nil {
		series = rd.Indexation
	}
	return series.Valorize(primary, sub, determination)
}

// Loader reads raw tables and parses them into ReferenceData
type Loader struct {
	Parser Parser
}

// NewLoader creates a loader for the given delimiter ("" means comma)
func NewLoader(delimiter string) *Loader {
	return &Loader{Parser: NewParser(delimiter)}
}

// Load reads both tables from readers
func Load(lifespan, indexation io.Reader) (*ReferenceData, error) {
	return NewLoader("").Load(lifespan, indexation)
}

// Load reads both tables. Only a failure to read the raw text is an error.
func (l *Loader) Load(lifespan, indexation io.Reader) (*ReferenceData, error) {
	lifespanRaw, err := readAll(TableLifespan, "", lifespan)
	if err != nil {
		return nil, err
	}
	indexationRaw, err := readAll(TableIndexation, "", indexation)
	if err != nil {
		return nil, err
	}
	return l.parse(lifespanRaw, indexationRaw), nil
}

// LoadFiles reads both tables from disk
func (l *Loader) LoadFiles(lifespanPath, indexationPath string) (*ReferenceData, error) {
	lifespanRaw, err := readFile(TableLifespan, lifespanPath)
	if err != nil {
		return nil, err
	}
	indexationRaw, err := readFile(TableIndexation, indexationPath)
	if err != nil {
		return nil, err
	}
	return l.parse(lifespanRaw, indexationRaw), nil
}

// LoadDefault parses the embedded illustrative tables (comma-delimited)
func LoadDefault() *ReferenceData {
	return NewLoader("").parse([]byte(defaultLifespan), []byte(defaultIndexation))
}

// LoadConfigured loads tables per the input configuration. A table without a
// configured path comes from the embedded defaults.
func LoadConfigured(cfg domain.ReferenceDataConfig) (*ReferenceData, error) {
	if cfg.LifespanFile == "" && cfg.IndexationFile == "" {
		return LoadDefault(), nil
	}

	l := NewLoader(cfg.Delimiter)
	lifespan := io.Reader(strings.NewReader(defaultLifespan))
	indexation := io.Reader(strings.NewReader(defaultIndexation))
	lifespanParser, indexationParser := l.Parser, l.Parser

	if cfg.LifespanFile != "" {
		raw, err := readFile(TableLifespan, cfg.LifespanFile)
		if err != nil {
			return nil, err
		}
		lifespan = bytes.NewReader(raw)
	} else {
		lifespanParser = NewParser("")
	}
	if cfg.IndexationFile != "" {
		raw, err := readFile(TableIndexation, cfg.IndexationFile)
		if err != nil {
			return nil, err
		}
		indexation = bytes.NewReader(raw)
	} else {
		indexationParser = NewParser("")
	}

	table, lifespanStats := lifespanParser.ParseLifespan(lifespan)
	series, indexationStats := indexationParser.ParseIndexation(indexation)
	return &ReferenceData{
		Lifespan:        table,
		Indexation:      series,
		LifespanStats:   lifespanStats,
		IndexationStats: indexationStats,
	}, nil
}

func (l *Loader) parse(lifespanRaw, indexationRaw []byte) *ReferenceData {
	table, lifespanStats := l.Parser.ParseLifespan(bytes.NewReader(lifespanRaw))
	series, indexationStats := l.Parser.ParseIndexation(bytes.NewReader(indexationRaw))
	return &ReferenceData{
		Lifespan:        table,
		Indexation:      series,
		LifespanStats:   lifespanStats,
		IndexationStats: indexationStats,
	}
}

func readAll(table, source string, r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, &LoadError{Table: table, Source: source, Err: ErrNoSource}
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, &LoadError{Table: table, Source: source, Err: err}
	}
	return raw, nil
}

func readFile(table, path string) ([]byte, error) {
	if path == "" {
		return nil, &LoadError{Table: table, Err: ErrNoSource}
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Table: table, Source: path, Err: err}
	}
	return raw, nil
}
