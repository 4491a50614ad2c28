package race

// Frames is one table over the expanded steps: a row per step, a column
// per category, in declared order.
type Frames[T float64 | int] struct {
	labels     []Label
	categories []string
	rows       [][]T

	firstRow map[string]int
}

type (
	// ValueFrames holds interpolated values.
	ValueFrames = Frames[float64]
	// RankFrames holds per-step ranks.
	RankFrames = Frames[int]
)

func newFrames[T float64 | int](labels []Label, categories []string, rows [][]T) *Frames[T] {
	f := &Frames[T]{
		labels:     labels,
		categories: categories,
		rows:       rows,
		firstRow:   make(map[string]int, len(labels)),
	}

	for k, label := range labels {
		if _, ok := f.firstRow[label.Key()]; !ok {
			f.firstRow[label.Key()] = k
		}
	}

	return f
}

func newValueFrames(labels []Label, categories []string, rows [][]float64) *ValueFrames {
	return newFrames(labels, categories, rows)
}

func newRankFrames(labels []Label, categories []string, rows [][]int) *RankFrames {
	return newFrames(labels, categories, rows)
}

// Len is the number of expanded steps.
func (f *Frames[T]) Len() int {
	return len(f.rows)
}

func (f *Frames[T]) Categories() []string {
	return append([]string(nil), f.categories...)
}

func (f *Frames[T]) Label(step int) Label {
	return f.labels[step]
}

func (f *Frames[T]) Labels() []Label {
	return append([]Label(nil), f.labels...)
}

func (f *Frames[T]) Row(step int) []T {
	return append([]T(nil), f.rows[step]...)
}

func (f *Frames[T]) At(step, category int) T {
	return f.rows[step][category]
}

func (f *Frames[T]) Column(category int) []T {
	vs := make([]T, len(f.rows))
	for k, row := range f.rows {
		vs[k] = row[category]
	}

	return vs
}

func (f *Frames[T]) CategoryIndex(name string) (int, bool) {
	for idx, category := range f.categories {
		if category == name {
			return idx, true
		}
	}

	return -1, false
}

// IndexOf returns the first step carrying label. With held labels that is
// the step reproducing the original period.
func (f *Frames[T]) IndexOf(label Label) (int, bool) {
	k, ok := f.firstRow[label.Key()]

	return k, ok
}

// Lookup returns the cell of category at the first step carrying label.
func (f *Frames[T]) Lookup(label Label, category string) (v T, ok bool) {
	k, ok := f.IndexOf(label)
	if !ok {
		return
	}

	idx, ok := f.CategoryIndex(category)
	if !ok {
		return
	}

	return f.rows[k][idx], true
}
