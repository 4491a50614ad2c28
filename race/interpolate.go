package race

import (
	"fmt"
	"math"
)

// InterpolateSeries expands one category's per-period values to
// (len(values)-1)*stepsPerPeriod+1 points, linear between known values.
// Every known value is reproduced exactly at its anchor ordinal. Nulls
// between known values are bridged; nulls at either end are replaced by
// *boundaryFill, or reported as ErrUnresolvedMissingValue when it is nil.
// Infinite values are rejected with ErrDataShape.
func InterpolateSeries(values []float64, stepsPerPeriod int, boundaryFill *float64) ([]float64, error) {
	n, err := ExpandedLen(len(values), stepsPerPeriod)
	if err != nil {
		return nil, err
	}

	vs := append([]float64(nil), values...)
	known := make([]int, 0, len(vs))

	for idx, v := range vs {
		if math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: infinite value at period %d", ErrDataShape, idx)
		}

		if !IsNull(v) {
			known = append(known, idx)
		}
	}

	if len(known) == 0 || known[0] != 0 || known[len(known)-1] != len(vs)-1 {
		if boundaryFill == nil {
			return nil, fmt.Errorf("%w: null at sequence boundary", ErrUnresolvedMissingValue)
		}

		known = fillBoundaries(vs, known, *boundaryFill)
	}

	out := make([]float64, n)
	out[0] = vs[0]

	for i := 1; i < len(known); i++ {
		lo, hi := known[i-1], known[i]
		k0, k1 := AnchorOrdinal(lo, stepsPerPeriod), AnchorOrdinal(hi, stepsPerPeriod)

		for k := k0 + 1; k < k1; k++ {
			out[k] = lerp(vs[lo], vs[hi], k-k0, k1-k0)
		}

		out[k1] = vs[hi]
	}

	return out, nil
}

// fillBoundaries writes fill over leading and trailing nulls and returns
// the updated list of known positions.
func fillBoundaries(vs []float64, known []int, fill float64) []int {
	if len(known) == 0 {
		filled := make([]int, len(vs))
		for idx := range vs {
			vs[idx] = fill
			filled[idx] = idx
		}

		return filled
	}

	first, last := known[0], known[len(known)-1]
	filled := make([]int, 0, len(vs))

	for idx := 0; idx < first; idx++ {
		vs[idx] = fill
		filled = append(filled, idx)
	}

	filled = append(filled, known...)

	for idx := last + 1; idx < len(vs); idx++ {
		vs[idx] = fill
		filled = append(filled, idx)
	}

	return filled
}

// interpolateTable returns expanded values indexed [step][category].
func interpolateTable(tbl *WideTable, opts *Options) ([][]float64, error) {
	n, err := ExpandedLen(tbl.Periods(), opts.StepsPerPeriod)
	if err != nil {
		return nil, err
	}

	columns := make([][]float64, len(tbl.categories))

	err = fanOut(len(columns), opts.Parallelism, func(idx int) error {
		column, e := InterpolateSeries(tbl.Column(idx), opts.StepsPerPeriod, opts.BoundaryFill)
		if e != nil {
			return fmt.Errorf("category %q: %w", tbl.categories[idx], e)
		}

		columns[idx] = column

		return nil
	})
	if err != nil {
		return nil, err
	}

	rows := make([][]float64, n)
	for k := range rows {
		row := make([]float64, len(columns))
		for idx, column := range columns {
			row[idx] = column[k]
		}

		rows[k] = row
	}

	return rows, nil
}
