package race

import (
	"fmt"
	"time"
)

// ResolveLabels assigns a label to every expanded ordinal.
//
// With interpolate set, time and number indexes are evenly spaced from the
// first to the last label, both kept exact. Otherwise each period's label
// is held from its own anchor up to the sub-step before the next anchor, so
// the label switches on the first sub-step of the following period.
func ResolveLabels(tbl *WideTable, stepsPerPeriod int, interpolate bool) ([]Label, error) {
	n, err := ExpandedLen(tbl.Periods(), stepsPerPeriod)
	if err != nil {
		return nil, err
	}

	if interpolate {
		return interpolateLabels(tbl, n)
	}

	return holdLabels(tbl, stepsPerPeriod, n)
}

func holdLabels(tbl *WideTable, stepsPerPeriod, n int) ([]Label, error) {
	filled := make([]Label, tbl.Periods())

	for idx, label := range tbl.labels {
		if !label.IsNull() {
			filled[idx] = label

			continue
		}

		if idx == 0 {
			return nil, fmt.Errorf("%w: first period label is null", ErrUnresolvedMissingValue)
		}

		filled[idx] = filled[idx-1]
	}

	labels := make([]Label, n)
	for k := range labels {
		labels[k] = filled[periodOf(k, stepsPerPeriod, len(filled))]
	}

	return labels, nil
}

func interpolateLabels(tbl *WideTable, n int) ([]Label, error) {
	switch tbl.LabelKind() {
	case LabelTime:
		first, last := tbl.labels[0], tbl.labels[len(tbl.labels)-1]
		if first.IsNull() || last.IsNull() {
			return nil, fmt.Errorf("%w: time index needs non-null first and last labels", ErrUnresolvedMissingValue)
		}

		return spaceTimes(first.Time(), last.Time(), n), nil
	case LabelNumber:
		filled, err := fillNumberLabels(tbl.labels)
		if err != nil {
			return nil, err
		}

		return spaceNumbers(filled[0], filled[len(filled)-1], n), nil
	case LabelOrdinal:
		return nil, fmt.Errorf("%w: cannot interpolate an ordinal index", ErrConfiguration)
	default:
		return nil, fmt.Errorf("%w: every period label is null", ErrUnresolvedMissingValue)
	}
}

func spaceTimes(first, last time.Time, n int) []Label {
	labels := make([]Label, n)
	labels[0] = TimeLabel(first)

	if n == 1 {
		return labels
	}

	span := last.Sub(first)
	div := time.Duration(n - 1)
	q, r := span/div, span%div

	for k := 1; k < n-1; k++ {
		kd := time.Duration(k)
		labels[k] = TimeLabel(first.Add(q*kd + r*kd/div))
	}

	labels[n-1] = TimeLabel(last)

	return labels
}

func spaceNumbers(first, last float64, n int) []Label {
	labels := make([]Label, n)
	labels[0] = NumberLabel(first)

	if n == 1 {
		return labels
	}

	for k := 1; k < n-1; k++ {
		labels[k] = NumberLabel(lerp(first, last, k, n-1))
	}

	labels[n-1] = NumberLabel(last)

	return labels
}

// fillNumberLabels fills null labels in both directions: interior gaps
// linearly by position, leading and trailing gaps with the nearest label.
func fillNumberLabels(labels []Label) ([]float64, error) {
	vs := make([]float64, len(labels))
	known := make([]int, 0, len(labels))

	for idx, label := range labels {
		if label.IsNull() {
			continue
		}

		vs[idx] = label.Number()
		known = append(known, idx)
	}

	if len(known) == 0 {
		return nil, fmt.Errorf("%w: every period label is null", ErrUnresolvedMissingValue)
	}

	bridgeGaps(vs, known)

	return vs, nil
}

// bridgeGaps fills every position of vs that is not in known (sorted
// ascending, non-empty): linearly between known neighbours, and with the
// nearest known value before the first or after the last.
func bridgeGaps(vs []float64, known []int) {
	first, last := known[0], known[len(known)-1]

	for idx := 0; idx < first; idx++ {
		vs[idx] = vs[first]
	}

	for idx := last + 1; idx < len(vs); idx++ {
		vs[idx] = vs[last]
	}

	for i := 1; i < len(known); i++ {
		lo, hi := known[i-1], known[i]
		for idx := lo + 1; idx < hi; idx++ {
			vs[idx] = lerp(vs[lo], vs[hi], idx-lo, hi-lo)
		}
	}
}

func lerp(a, b float64, offset, span int) float64 {
	return a + (b-a)*float64(offset)/float64(span)
}
