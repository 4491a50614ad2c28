package race

import (
	"fmt"
	"math"
)

// Null marks a missing cell.
func Null() float64 {
	return math.NaN()
}

func IsNull(v float64) bool {
	return math.IsNaN(v)
}

// WideTable is the immutable input: one row per period, one column per
// category. Missing cells hold NaN.
type WideTable struct {
	labels     []Label
	categories []string
	rows       [][]float64
	kind       LabelKind
}

// NewWideTable copies its arguments, so later changes by the caller do not
// reach the table. rows[i][j] is the value of categories[j] at labels[i].
// Cells must be finite or null. Non-null time and number labels must be
// strictly monotonic, ascending or descending; ordinal labels keep the
// order they are given in.
func NewWideTable(labels []Label, categories []string, rows [][]float64) (*WideTable, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("%w: no periods", ErrDataShape)
	}

	if len(rows) != len(labels) {
		return nil, fmt.Errorf("%w: %d rows for %d periods", ErrDataShape, len(rows), len(labels))
	}

	seenCategories := make(map[string]struct{}, len(categories))

	for _, category := range categories {
		if category == "" {
			return nil, fmt.Errorf("%w: empty category name", ErrDataShape)
		}

		if _, ok := seenCategories[category]; ok {
			return nil, fmt.Errorf("%w: duplicate category %q", ErrDataShape, category)
		}

		seenCategories[category] = struct{}{}
	}

	kind := LabelNull
	seenLabels := make(map[string]struct{}, len(labels))

	for idx, label := range labels {
		if label.IsNull() {
			continue
		}

		if kind == LabelNull {
			kind = label.Kind()
		} else if kind != label.Kind() {
			return nil, fmt.Errorf("%w: period %d is a %s label in a %s index", ErrDataShape, idx, label.Kind(), kind)
		}

		k := label.Key()
		if _, ok := seenLabels[k]; ok {
			return nil, fmt.Errorf("%w: duplicate period label %s", ErrDataShape, label)
		}

		seenLabels[k] = struct{}{}
	}

	if err := checkMonotonic(labels, kind); err != nil {
		return nil, err
	}

	tbl := &WideTable{
		labels:     append([]Label(nil), labels...),
		categories: append([]string(nil), categories...),
		rows:       make([][]float64, len(rows)),
		kind:       kind,
	}

	for idx, row := range rows {
		if len(row) != len(categories) {
			return nil, fmt.Errorf("%w: row %d has %d cells for %d categories", ErrDataShape, idx, len(row), len(categories))
		}

		for c, v := range row {
			if math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: infinite value at period %d, category %q", ErrDataShape, idx, categories[c])
			}
		}

		tbl.rows[idx] = append([]float64(nil), row...)
	}

	return tbl, nil
}

func checkMonotonic(labels []Label, kind LabelKind) error {
	if kind != LabelTime && kind != LabelNumber {
		return nil
	}

	var (
		prev      Label
		direction int
	)

	for idx, label := range labels {
		if label.IsNull() {
			continue
		}

		if !prev.IsNull() {
			d := prev.Compare(label)
			if direction == 0 {
				direction = d
			} else if d != direction {
				return fmt.Errorf("%w: period %d label %s breaks the label order", ErrDataShape, idx, label)
			}
		}

		prev = label
	}

	return nil
}

// Periods returns the number of original periods.
func (tbl *WideTable) Periods() int {
	return len(tbl.labels)
}

func (tbl *WideTable) Categories() []string {
	return append([]string(nil), tbl.categories...)
}

func (tbl *WideTable) Label(period int) Label {
	return tbl.labels[period]
}

func (tbl *WideTable) Labels() []Label {
	return append([]Label(nil), tbl.labels...)
}

// LabelKind is the kind shared by every non-null label, LabelNull if all
// labels are null.
func (tbl *WideTable) LabelKind() LabelKind {
	return tbl.kind
}

func (tbl *WideTable) Value(period, category int) float64 {
	return tbl.rows[period][category]
}

// Column returns a copy of one category's values in period order.
func (tbl *WideTable) Column(category int) []float64 {
	vs := make([]float64, len(tbl.rows))
	for idx, row := range tbl.rows {
		vs[idx] = row[category]
	}

	return vs
}

// CategoryIndex returns the declared position of a category.
func (tbl *WideTable) CategoryIndex(name string) (int, bool) {
	for idx, category := range tbl.categories {
		if category == name {
			return idx, true
		}
	}

	return -1, false
}
