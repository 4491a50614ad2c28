package longformat

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libbarrace/race"
	"github.com/spf13/cast"
)

// LongTable holds one observation per row. Rows[i][j] is the value of
// Columns[j]; cells may be any type spf13/cast understands.
type LongTable struct {
	Columns []string
	Rows    [][]any
}

func (lt *LongTable) columnIndex(name string) (int, error) {
	for idx, column := range lt.Columns {
		if column == name {
			return idx, nil
		}
	}

	return -1, fmt.Errorf("%w: no column %q", race.ErrConfiguration, name)
}

// PivotSpec selects the period, category and value columns and the
// aggregation applied to repeated (period, category) pairs.
type PivotSpec struct {
	Period   string `yaml:"period"`
	Category string `yaml:"category"`
	Value    string `yaml:"value"`
	// AggFunc defaults to AggSum.
	AggFunc string `yaml:"agg_func,omitempty"`
	// Func, when set, is used instead of AggFunc.
	Func AggFunc `yaml:"-"`
}

func (pvt PivotSpec) aggregation() (fn AggFunc, strict bool, err error) {
	if pvt.Func != nil {
		return pvt.Func, false, nil
	}

	name := pvt.AggFunc
	if name == "" {
		name = AggSum
	}

	fn, err = LookupAggFunc(name)
	if err != nil {
		return
	}

	strict = strings.EqualFold(strings.TrimSpace(name), AggNone)

	return
}

type cellKey struct {
	period   string
	category string
}

// Pivot aggregates lt into a wide table: periods ascending, categories
// ascending, each category forward filled down the periods. Cells before a
// category's first observation stay null. Only the logger of option is
// used.
func Pivot(lt *LongTable, pvt PivotSpec, option ...race.PrepareOption) (*race.WideTable, error) {
	logger := race.LoggerFrom(option...).WithFields(l.StringField(l.ClsKey, "longformatPivot"))

	tbl, err := pivot(lt, pvt)
	if err != nil {
		logger.WithFields(l.ErrorField(err), l.StringField("period", pvt.Period),
			l.StringField("category", pvt.Category), l.StringField("value", pvt.Value)).Error("pivot failed")

		return nil, err
	}

	logger.WithFields(l.IntField("rows", len(lt.Rows)), l.IntField("periods", tbl.Periods()),
		l.IntField("categories", len(tbl.Categories()))).Debug("pivoted")

	return tbl, nil
}

func pivot(lt *LongTable, pvt PivotSpec) (*race.WideTable, error) {
	aggFunc, strict, err := pvt.aggregation()
	if err != nil {
		return nil, err
	}

	pi, err := lt.columnIndex(pvt.Period)
	if err != nil {
		return nil, err
	}

	ci, err := lt.columnIndex(pvt.Category)
	if err != nil {
		return nil, err
	}

	vi, err := lt.columnIndex(pvt.Value)
	if err != nil {
		return nil, err
	}

	periods := make(map[string]race.Label)
	categories := make(map[string]struct{})
	seen := make(map[cellKey]struct{})
	cells := make(map[cellKey]Accumulator)
	kind := race.LabelNull

	for idx, row := range lt.Rows {
		if len(row) != len(lt.Columns) {
			return nil, fmt.Errorf("%w: row %d has %d cells for %d columns", race.ErrDataShape, idx, len(row), len(lt.Columns))
		}

		period, e := race.LabelOf(row[pi])
		if e != nil {
			return nil, fmt.Errorf("row %d: %w", idx, e)
		}

		if period.IsNull() {
			return nil, fmt.Errorf("%w: row %d has a null period", race.ErrDataShape, idx)
		}

		if kind == race.LabelNull {
			kind = period.Kind()
		} else if kind != period.Kind() {
			return nil, fmt.Errorf("%w: row %d has a %s period among %s periods", race.ErrDataShape, idx, period.Kind(), kind)
		}

		category, e := cast.ToStringE(row[ci])
		if e != nil || category == "" {
			return nil, fmt.Errorf("%w: row %d has an invalid category %v", race.ErrDataShape, idx, row[ci])
		}

		periods[period.Key()] = period
		categories[category] = struct{}{}

		key := cellKey{period: period.Key(), category: category}

		if strict {
			if _, ok := seen[key]; ok {
				return nil, fmt.Errorf("%w: duplicate observation for period %s, category %q", race.ErrDataShape, period, category)
			}

			seen[key] = struct{}{}
		}

		if row[vi] == nil {
			continue
		}

		v, e := cast.ToFloat64E(row[vi])
		if e != nil {
			return nil, fmt.Errorf("%w: row %d value %v: %v", race.ErrDataShape, idx, row[vi], e)
		}

		if math.IsNaN(v) {
			continue
		}

		if acc, ok := cells[key]; ok {
			cells[key] = acc.Combine(v)
		} else {
			cells[key] = aggFunc(v)
		}
	}

	labels := make([]race.Label, 0, len(periods))
	for _, label := range periods {
		labels = append(labels, label)
	}

	slices.SortFunc(labels, race.Label.Compare)

	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}

	sort.Strings(names)

	rows := make([][]float64, len(labels))

	for p, label := range labels {
		rows[p] = make([]float64, len(names))

		for c, name := range names {
			if acc, ok := cells[cellKey{period: label.Key(), category: name}]; ok {
				rows[p][c] = acc.Calc()
			} else {
				rows[p][c] = race.Null()
			}
		}
	}

	forwardFill(rows)

	return race.NewWideTable(labels, names, rows)
}

func forwardFill(rows [][]float64) {
	for p := 1; p < len(rows); p++ {
		for c, v := range rows[p] {
			if race.IsNull(v) {
				rows[p][c] = rows[p-1][c]
			}
		}
	}
}

// Prepare pivots lt and expands the result with race.Prepare.
func Prepare(lt *LongTable, pvt PivotSpec, opts race.Options, option ...race.PrepareOption) (*race.Result, error) {
	tbl, err := Pivot(lt, pvt, option...)
	if err != nil {
		return nil, err
	}

	return race.Prepare(tbl, opts, option...)
}
