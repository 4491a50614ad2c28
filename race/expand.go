package race

import (
	"fmt"
	"math"
)

// ExpandedLen returns the number of expanded steps for periods originals
// split into stepsPerPeriod sub-steps each: (periods-1)*stepsPerPeriod + 1.
func ExpandedLen(periods, stepsPerPeriod int) (int, error) {
	if stepsPerPeriod < 1 {
		return 0, fmt.Errorf("%w: steps per period must be >= 1, got %d", ErrConfiguration, stepsPerPeriod)
	}

	if periods < 1 {
		return 0, fmt.Errorf("%w: no periods", ErrDataShape)
	}

	if periods > 1 && stepsPerPeriod > (math.MaxInt-1)/(periods-1) {
		return 0, fmt.Errorf("%w: %d periods of %d steps overflow the expanded index", ErrConfiguration, periods, stepsPerPeriod)
	}

	return (periods-1)*stepsPerPeriod + 1, nil
}

// AnchorOrdinal is the expanded ordinal that reproduces an original period.
func AnchorOrdinal(period, stepsPerPeriod int) int {
	return period * stepsPerPeriod
}

// periodOf is the period whose label an expanded ordinal holds when labels
// are not interpolated.
func periodOf(ordinal, stepsPerPeriod, periods int) int {
	p := ordinal / stepsPerPeriod
	if p > periods-1 {
		p = periods - 1
	}

	return p
}
