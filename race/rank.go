package race

import (
	"slices"
	"strings"
)

// Category identifies a column by name and declared position.
type Category struct {
	Name  string
	Index int
}

// TieBreaker orders two categories holding the same value: negative puts a
// first. When it returns 0 the declared order decides, so ranks stay a
// permutation.
type TieBreaker func(a, b Category) int

// DeclaredOrder ranks the earlier declared column first.
func DeclaredOrder(a, b Category) int {
	return a.Index - b.Index
}

// ByName ranks the lexically smaller name first.
func ByName(a, b Category) int {
	return strings.Compare(a.Name, b.Name)
}

// competitionRanks ranks values descending, 1 for the largest, with ties
// resolved by tb and then by declared position.
func competitionRanks(values []float64, categories []Category, tb TieBreaker) []int {
	order := make([]int, len(values))
	for idx := range order {
		order[idx] = idx
	}

	slices.SortFunc(order, func(i, j int) int {
		switch {
		case values[i] > values[j]:
			return -1
		case values[i] < values[j]:
			return 1
		}

		if c := tb(categories[i], categories[j]); c != 0 {
			return c
		}

		return i - j
	})

	ranks := make([]int, len(values))
	for pos, idx := range order {
		ranks[idx] = pos + 1
	}

	return ranks
}

// clipAndFlip collapses ranks past the visible window into nBars+1 and
// mirrors them when the drawing direction requires it.
func clipAndFlip(ranks []int, nBars int, flip bool) {
	for idx, r := range ranks {
		if r > nBars {
			r = nBars + 1
		}

		if flip {
			r = nBars + 1 - r
		}

		ranks[idx] = r
	}
}

func rankRows(rows [][]float64, names []string, opts *Options, tb TieBreaker) ([][]int, error) {
	categories := make([]Category, len(names))
	for idx, name := range names {
		categories[idx] = Category{Name: name, Index: idx}
	}

	nBars := opts.NBars.effective(len(names))
	flip := opts.flipRanks()

	ranks := make([][]int, len(rows))

	workers := opts.Parallelism
	if workers < 1 {
		workers = 1
	}

	blockSize := (len(rows) + workers - 1) / workers
	if blockSize < 1 {
		blockSize = 1
	}

	blocks := (len(rows) + blockSize - 1) / blockSize

	err := fanOut(blocks, workers, func(block int) error {
		end := min((block+1)*blockSize, len(rows))

		for k := block * blockSize; k < end; k++ {
			r := competitionRanks(rows[k], categories, tb)
			clipAndFlip(r, nBars, flip)
			ranks[k] = r
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return ranks, nil
}

// RankValues ranks already interpolated frames under opts.
func RankValues(values *ValueFrames, opts Options, option ...PrepareOption) (*RankFrames, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	po := prepareOptionsNew(option...)

	ranks, err := rankRows(values.rows, values.categories, &opts, po.tieBreaker)
	if err != nil {
		return nil, err
	}

	return newRankFrames(values.labels, values.categories, ranks), nil
}
