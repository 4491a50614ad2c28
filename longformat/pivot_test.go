package longformat

import (
	"errors"
	"testing"
	"time"

	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libbarrace/race"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func utCountries() *LongTable {
	return &LongTable{
		Columns: []string{"year", "country", "value"},
		Rows: [][]any{
			{2020, "A", 10},
			{2020, "B", 20},
			{2021, "A", 30},
			{2021, "B", 40},
			{2021, "C", 50},
			{2022, "A", 60},
			{2022, "C", 70},
		},
	}
}

// utScenario leaves A out of 2021, B out of 2022 and C out of 2020.
func utScenario() *LongTable {
	return &LongTable{
		Columns: []string{"year", "country", "value"},
		Rows: [][]any{
			{2020, "A", 10},
			{2020, "B", 20},
			{2021, "B", 40},
			{2021, "C", 50},
			{2022, "A", 60},
			{2022, "C", 70},
		},
	}
}

var utPivot = PivotSpec{Period: "year", Category: "country", Value: "value"}

func year(y float64) race.Label {
	return race.NumberLabel(y)
}

func TestPrepareLongData(t *testing.T) {
	opts := race.DefaultOptions()
	opts.StepsPerPeriod = 1
	opts.InterpolatePeriod = false

	fill := 0.0
	opts.BoundaryFill = &fill

	res, err := Prepare(utCountries(), utPivot, opts)
	require.Nil(t, err)

	assert.Equal(t, 3, res.Values.Len())
	assert.Equal(t, []string{"A", "B", "C"}, res.Values.Categories())

	v, ok := res.Values.Lookup(year(2020), "A")
	assert.True(t, ok)
	assert.EqualValues(t, 10, v)

	v, ok = res.Values.Lookup(year(2021), "B")
	assert.True(t, ok)
	assert.EqualValues(t, 40, v)

	v, ok = res.Values.Lookup(year(2022), "C")
	assert.True(t, ok)
	assert.EqualValues(t, 70, v)

	v, ok = res.Values.Lookup(year(2022), "B")
	assert.True(t, ok)
	assert.EqualValues(t, 40, v)

	for k := 0; k < res.Values.Len(); k++ {
		for _, v := range res.Values.Row(k) {
			assert.False(t, race.IsNull(v))
		}
	}

	k, ok := res.Ranks.IndexOf(year(2022))
	require.True(t, ok)
	assert.ElementsMatch(t, []int{1, 2, 3}, res.Ranks.Row(k))

	r, ok := res.Ranks.Lookup(year(2022), "A")
	assert.True(t, ok)
	assert.Equal(t, 2, r)
}

func TestPrepareLongDataLeadingNull(t *testing.T) {
	opts := race.DefaultOptions()
	opts.StepsPerPeriod = 1

	_, err := Prepare(utCountries(), utPivot, opts)
	assert.True(t, errors.Is(err, race.ErrUnresolvedMissingValue))
}

func TestPivotNoBackwardFill(t *testing.T) {
	tbl, err := Pivot(utCountries(), utPivot)
	require.Nil(t, err)

	c, ok := tbl.CategoryIndex("C")
	require.True(t, ok)

	col := tbl.Column(c)
	assert.True(t, race.IsNull(col[0]))
	assert.Equal(t, []float64{50, 70}, col[1:])
}

func TestPivotAggregation(t *testing.T) {
	lt := &LongTable{
		Columns: []string{"day", "team", "score"},
		Rows: [][]any{
			{2, "x", 4},
			{1, "x", 1.5},
			{1, "x", "2.5"},
			{1, "y", nil},
			{1, "y", 6},
			{1, "x", 8},
			{2, "y", 1},
			{2, "y", 3},
		},
	}

	cases := map[string][2][]float64{
		AggSum:    {{12, 6}, {4, 4}},
		AggMean:   {{4, 6}, {4, 2}},
		AggMin:    {{1.5, 6}, {4, 1}},
		AggMax:    {{8, 6}, {4, 3}},
		AggCount:  {{3, 1}, {1, 2}},
		AggFirst:  {{1.5, 6}, {4, 1}},
		AggLast:   {{8, 6}, {4, 3}},
		AggMedian: {{2.5, 6}, {4, 2}},
		AggProd:   {{30, 6}, {4, 3}},
	}

	for name, want := range cases {
		tbl, err := Pivot(lt, PivotSpec{Period: "day", Category: "team", Value: "score", AggFunc: name})
		require.Nil(t, err, name)
		require.Equal(t, 2, tbl.Periods())
		assert.EqualValues(t, 1, tbl.Label(0).Number())

		for p := 0; p < 2; p++ {
			assert.Equal(t, want[p], []float64{tbl.Value(p, 0), tbl.Value(p, 1)}, "%s period %d", name, p)
		}
	}

	_, err := Pivot(lt, PivotSpec{Period: "day", Category: "team", Value: "score", AggFunc: AggNone})
	assert.True(t, errors.Is(err, race.ErrDataShape))

	_, err = Pivot(lt, PivotSpec{Period: "day", Category: "team", Value: "score", AggFunc: "mode"})
	assert.True(t, errors.Is(err, race.ErrConfiguration))
}

func TestPivotStrictUnique(t *testing.T) {
	tbl, err := Pivot(utCountries(), PivotSpec{Period: "year", Category: "country", Value: "value", AggFunc: "NONE"})
	require.Nil(t, err)
	assert.Equal(t, 3, tbl.Periods())
}

func TestPivotTimePeriods(t *testing.T) {
	d0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	lt := &LongTable{
		Columns: []string{"date", "name", "v"},
		Rows: [][]any{
			{d0.AddDate(0, 0, 2), "a", 3},
			{d0, "a", 1},
			{d0.AddDate(0, 0, 1), "b", 2},
			{d0, "b", 0},
		},
	}

	tbl, err := Pivot(lt, PivotSpec{Period: "date", Category: "name", Value: "v"})
	require.Nil(t, err)
	assert.Equal(t, race.LabelTime, tbl.LabelKind())
	assert.True(t, tbl.Label(0).Time().Equal(d0))
	assert.True(t, tbl.Label(2).Time().Equal(d0.AddDate(0, 0, 2)))
	assert.Equal(t, []float64{1, 1, 3}, tbl.Column(0))
	assert.Equal(t, []float64{0, 2, 2}, tbl.Column(1))
}

func TestPivotBadInput(t *testing.T) {
	_, err := Pivot(utCountries(), PivotSpec{Period: "year", Category: "nation", Value: "value"})
	assert.True(t, errors.Is(err, race.ErrConfiguration))

	lt := utCountries()
	lt.Rows = append(lt.Rows, []any{"2023", "A", 1})
	_, err = Pivot(lt, utPivot)
	assert.True(t, errors.Is(err, race.ErrDataShape))

	lt = utCountries()
	lt.Rows = append(lt.Rows, []any{nil, "A", 1})
	_, err = Pivot(lt, utPivot)
	assert.True(t, errors.Is(err, race.ErrDataShape))

	lt = utCountries()
	lt.Rows = append(lt.Rows, []any{2023, "A", "lots"})
	_, err = Pivot(lt, utPivot)
	assert.True(t, errors.Is(err, race.ErrDataShape))

	lt = utCountries()
	lt.Rows = append(lt.Rows, []any{2023, "A"})
	_, err = Pivot(lt, utPivot)
	assert.True(t, errors.Is(err, race.ErrDataShape))

	_, err = Pivot(&LongTable{Columns: utCountries().Columns}, utPivot)
	assert.True(t, errors.Is(err, race.ErrDataShape))
}

func TestPrepareLongDataHeldGaps(t *testing.T) {
	opts := race.DefaultOptions()
	opts.StepsPerPeriod = 1
	opts.InterpolatePeriod = false

	fill := 0.0
	opts.BoundaryFill = &fill

	res, err := Prepare(utScenario(), utPivot, opts, race.WithLogger(l.NewNopLoggerWrapper()))
	require.Nil(t, err)
	require.Equal(t, 3, res.Values.Len())

	v, ok := res.Values.Lookup(year(2020), "A")
	assert.True(t, ok)
	assert.EqualValues(t, 10, v)

	v, ok = res.Values.Lookup(year(2021), "A")
	assert.True(t, ok)
	assert.EqualValues(t, 10, v)

	v, ok = res.Values.Lookup(year(2021), "B")
	assert.True(t, ok)
	assert.EqualValues(t, 40, v)

	v, ok = res.Values.Lookup(year(2022), "C")
	assert.True(t, ok)
	assert.EqualValues(t, 70, v)

	k, ok := res.Values.IndexOf(year(2022))
	require.True(t, ok)
	assert.Equal(t, []float64{60, 40, 70}, res.Values.Row(k))

	v, ok = res.Values.Lookup(year(2020), "C")
	assert.True(t, ok)
	assert.EqualValues(t, fill, v)

	for k := 0; k < res.Values.Len(); k++ {
		for _, v := range res.Values.Row(k) {
			assert.False(t, race.IsNull(v))
		}
	}

	k, ok = res.Ranks.IndexOf(year(2022))
	require.True(t, ok)
	assert.ElementsMatch(t, []int{1, 2, 3}, res.Ranks.Row(k))

	r, ok := res.Ranks.Lookup(year(2022), "A")
	assert.True(t, ok)
	assert.Equal(t, 2, r)
}

type rangeData struct {
	lo, hi float64
}

func (o rangeData) Combine(v float64) Accumulator {
	return rangeData{lo: min(o.lo, v), hi: max(o.hi, v)}
}

func (o rangeData) Calc() float64 {
	return o.hi - o.lo
}

func TestPivotCustomAggFunc(t *testing.T) {
	lt := &LongTable{
		Columns: []string{"day", "team", "score"},
		Rows: [][]any{
			{1, "x", 1.5},
			{1, "x", 8},
			{1, "x", 2.5},
			{1, "y", 6},
			{2, "x", 4},
			{2, "y", 1},
			{2, "y", 3},
		},
	}

	pvt := PivotSpec{Period: "day", Category: "team", Value: "score", AggFunc: "mode",
		Func: func(v float64) Accumulator { return rangeData{lo: v, hi: v} }}

	tbl, err := Pivot(lt, pvt)
	require.Nil(t, err)
	assert.Equal(t, []float64{6.5, 0}, tbl.Column(0))
	assert.Equal(t, []float64{0, 2}, tbl.Column(1))

	pvt.AggFunc = AggNone
	_, err = Pivot(lt, pvt)
	assert.Nil(t, err)
}

func TestPivotLogsFailure(t *testing.T) {
	logger := race.LoggerFrom(race.WithLogger(l.NewNopLoggerWrapper()))
	assert.NotNil(t, logger)
	assert.NotNil(t, race.LoggerFrom())

	_, err := Pivot(utCountries(), PivotSpec{Period: "year", Category: "nation", Value: "value"},
		race.WithLogger(logger))
	assert.True(t, errors.Is(err, race.ErrConfiguration))

	lt := utCountries()
	lt.Rows = append(lt.Rows, []any{2023, "A", "+Inf"})
	_, err = Pivot(lt, utPivot, race.WithLogger(logger))
	assert.True(t, errors.Is(err, race.ErrDataShape))
}
