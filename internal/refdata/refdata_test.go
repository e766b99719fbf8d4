package refdata

import (
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePercentage(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"112.02%", "1.1202", true},
		{" 98.5 % ", "0.985", true},
		{"100", "1", true},
		{"103,68%", "1.0368", true},
		{"", "0", false},
		{"%", "0", false},
		{"abc", "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParsePercentage(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestMapQuarter(t *testing.T) {
	tests := []struct {
		q    domain.Quarter
		want domain.YearQuarter
	}{
		{domain.QuarterI, domain.YearQuarter{Year: 2024, Quarter: domain.QuarterIII}},
		{domain.QuarterII, domain.YearQuarter{Year: 2024, Quarter: domain.QuarterIV}},
		{domain.QuarterIII, domain.YearQuarter{Year: 2025, Quarter: domain.QuarterI}},
		{domain.QuarterIV, domain.YearQuarter{Year: 2025, Quarter: domain.QuarterII}},
	}
	for _, tt := range tests {
		t.Run(tt.q.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, MapQuarter(2025, tt.q))
		})
	}
}

func TestLifespanLookup(t *testing.T) {
	input := "age,m0,m1,m2,m3,m4,m5,m6,m7,m8,m9,m10,m11\n" +
		"60,260,259,258,257,256,255,254,253,252,251,250,249\n" +
		"65,220,219,218,217,216,215,214,213,212,211,210,209\n" +
		"70,180,179,178,177,176,175,174,173,172,171,170,169\n"

	table, stats := NewParser("").ParseLifespan(strings.NewReader(input))
	require.Equal(t, 3, table.Len())
	assert.Equal(t, 3, stats.Accepted)
	assert.Empty(t, stats.Skipped)

	tests := []struct {
		name       string
		age, month int
		want       int64
	}{
		{"exact age", 65, 0, 220},
		{"birth month", 65, 3, 217},
		{"missing age resolves upward", 62, 0, 220},
		{"below table resolves to first", 40, 0, 260},
		{"above table uses maximum age", 95, 0, 180},
		{"month clamped low", 60, -4, 260},
		{"month clamped high", 60, 20, 249},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := table.RemainingLifeMonths(tt.age, tt.month)
			assert.True(t, got.Equal(decimal.NewFromInt(tt.want)), "got %s", got)
		})
	}

	maxAge, ok := table.MaxAge()
	require.True(t, ok)
	assert.True(t, table.RemainingLifeMonths(maxAge+10, 5).Equal(table.RemainingLifeMonths(maxAge, 5)))
}

func TestLifespanLookup_EmptyTable(t *testing.T) {
	var table *LifespanTable
	assert.True(t, table.RemainingLifeMonths(65, 0).IsZero())

	empty := NewLifespanTable(nil)
	assert.True(t, empty.RemainingLifeMonths(65, 0).IsZero())
}

func TestParseLifespan_SkipsMalformedRows(t *testing.T) {
	input := "age,m0,m1,m2,m3,m4,m5,m6,m7,m8,m9,m10,m11\n" +
		"60,260,259,258,257,256,255,254,253,252,251,250,249\n" +
		"61,1,2,3\n" +
		"x,1,1,1,1,1,1,1,1,1,1,1,1\n" +
		"62,1,1,1,1,1,bad,1,1,1,1,1,1\n" +
		"60,9,9,9,9,9,9,9,9,9,9,9,9\n" +
		"63,250,249,248,247,246,245,244,243,242,241,240,239\n"

	table, stats := NewParser("").ParseLifespan(strings.NewReader(input))

	assert.Equal(t, []int{60, 63}, table.Ages())
	assert.Equal(t, 6, stats.Rows)
	assert.Equal(t, 2, stats.Accepted)
	require.Len(t, stats.Skipped, 4)
	assert.Equal(t, 3, stats.Skipped[0].Line)
	assert.Contains(t, stats.Skipped[3].Reason, "duplicate age")

	// first occurrence of a duplicate age is kept
	assert.True(t, table.RemainingLifeMonths(60, 0).Equal(decimal.NewFromInt(260)))
}

func TestParseLifespan_SemicolonDelimiter(t *testing.T) {
	input := "age;m0;m1;m2;m3;m4;m5;m6;m7;m8;m9;m10;m11\n" +
		"60;260,5;259;258;257;256;255;254;253;252;251;250;249\n"

	table, stats := NewParser(";").ParseLifespan(strings.NewReader(input))
	require.Equal(t, 1, stats.Accepted)
	assert.True(t, table.RemainingLifeMonths(60, 0).Equal(decimal.RequireFromString("260.5")))
}

func TestParseIndexation(t *testing.T) {
	input := "Quarterly indexation\n" +
		"year,quarter,primary,sub\n" +
		"2024,III,106.52%,106.68%\n" +
		"2024,I,109.91%,109.44%\n" +
		"2024,V,101%,101%\n" +
		"2024,IV,,104.92%\n" +
		"2024,II,-3%,101%\n" +
		"2024,III,150%,150%\n" +
		"short,row\n"

	series, stats := NewParser("").ParseIndexation(strings.NewReader(input))

	assert.Equal(t, 2, series.Len())
	assert.Equal(t, 2, stats.Accepted)
	assert.Len(t, stats.Skipped, 5)

	records := series.Records()
	assert.Equal(t, domain.QuarterI, records[0].Quarter, "records are ordered by quarter")

	rec, ok := series.IndexationFor(2024, domain.QuarterIII)
	require.True(t, ok)
	assert.True(t, rec.PrimaryFactor.Equal(decimal.RequireFromString("1.0652")))

	_, ok = series.IndexationFor(2024, domain.QuarterIV)
	assert.False(t, ok, "lookups never guess")
}

func TestValorize(t *testing.T) {
	series := NewIndexationSeries([]IndexationRecord{
		{Year: 2024, Quarter: domain.QuarterIV, PrimaryFactor: decimal.RequireFromString("1.0179"), SubFactor: decimal.RequireFromString("1.0492")},
	})
	primary := decimal.NewFromInt(100000)
	sub := decimal.NewFromInt(20000)

	t.Run("found", func(t *testing.T) {
		v := series.Valorize(primary, sub, domain.YearQuarter{Year: 2025, Quarter: domain.QuarterII})
		assert.True(t, v.Found)
		assert.Equal(t, domain.YearQuarter{Year: 2024, Quarter: domain.QuarterIV}, v.Indexation)
		assert.True(t, v.PrimaryAfter.Equal(decimal.NewFromInt(101790)), "got %s", v.PrimaryAfter)
		assert.True(t, v.SubAfter.Equal(decimal.NewFromInt(20984)), "got %s", v.SubAfter)
	})

	t.Run("missing entry leaves capital unchanged", func(t *testing.T) {
		v := series.Valorize(primary, sub, domain.YearQuarter{Year: 2030, Quarter: domain.QuarterI})
		assert.False(t, v.Found)
		assert.True(t, v.PrimaryFactor.Equal(decimal.NewFromInt(1)))
		assert.True(t, v.PrimaryAfter.Equal(primary))
		assert.True(t, v.SubAfter.Equal(sub))
	})
}

func TestLoadDefault(t *testing.T) {
	rd := LoadDefault()

	assert.Empty(t, rd.LifespanStats.Skipped)
	assert.Empty(t, rd.IndexationStats.Skipped)
	assert.Greater(t, rd.Lifespan.Len(), 20)
	assert.Greater(t, rd.Indexation.Len(), 30)

	assert.True(t, rd.RemainingLifeMonths(50, 0).Equal(decimal.RequireFromString("370.8")))

	rec, ok := rd.IndexationFor(2025, domain.QuarterII)
	require.True(t, ok)
	assert.True(t, rec.SubFactor.Equal(decimal.RequireFromString("1.0753")))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestLoad_Errors(t *testing.T) {
	_, err := Load(nil, strings.NewReader(""))
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, TableLifespan, loadErr.Table)
	assert.ErrorIs(t, err, ErrNoSource)

	_, err = Load(strings.NewReader(""), failingReader{})
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, TableIndexation, loadErr.Table)

	_, err = NewLoader("").LoadFiles("/nonexistent/lifespan.csv", "/nonexistent/indexation.csv")
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "/nonexistent/lifespan.csv", loadErr.Source)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoad_EmptyTablesAreNotErrors(t *testing.T) {
	rd, err := Load(strings.NewReader(""), strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, rd.Lifespan.Len())
	assert.Equal(t, 0, rd.Indexation.Len())
	assert.True(t, rd.RemainingLifeMonths(60, 0).IsZero())
}

func TestProvider_LoadsOnce(t *testing.T) {
	calls := 0
	p := NewProvider(func() (*ReferenceData, error) {
		calls++
		return LoadDefault(), nil
	})

	first, err := p.Get()
	require.NoError(t, err)
	second, err := p.Get()
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Same(t, first, second)
}

func TestProvider_MemoizesError(t *testing.T) {
	p := NewConfiguredProvider(domain.ReferenceDataConfig{LifespanFile: "/nonexistent/lifespan.csv"})

	_, err := p.Get()
	require.Error(t, err)
	_, err2 := p.Get()
	assert.Equal(t, err, err2)
}
