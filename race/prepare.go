package race

import (
	"github.com/sgostarter/i/l"
)

// Result is the output of Prepare. Ranks is nil unless ranks were requested.
type Result struct {
	Values *ValueFrames
	Ranks  *RankFrames
}

// Prepare expands tbl into animation frames: resolved labels, interpolated
// values, and, with ComputeRanks, the rank of every category at every step.
// It returns a complete Result or an error, never a partial result, and
// does not modify tbl.
func Prepare(tbl *WideTable, opts Options, option ...PrepareOption) (*Result, error) {
	po := prepareOptionsNew(option...)
	logger := po.logger.WithFields(l.StringField(l.ClsKey, "racePrepare"))

	if err := opts.Validate(); err != nil {
		logger.WithFields(l.ErrorField(err)).Error("invalid options")

		return nil, err
	}

	n, err := ExpandedLen(tbl.Periods(), opts.StepsPerPeriod)
	if err != nil {
		logger.WithFields(l.ErrorField(err)).Error("expand failed")

		return nil, err
	}

	logger = logger.WithFields(l.IntField("periods", tbl.Periods()), l.IntField("steps", n),
		l.IntField("categories", len(tbl.categories)))
	logger.Debug("prepare frames")

	labels, err := ResolveLabels(tbl, opts.StepsPerPeriod, opts.InterpolatePeriod)
	if err != nil {
		logger.WithFields(l.ErrorField(err)).Error("resolve labels failed")

		return nil, err
	}

	rows, err := interpolateTable(tbl, &opts)
	if err != nil {
		logger.WithFields(l.ErrorField(err)).Error("interpolate values failed")

		return nil, err
	}

	categories := tbl.Categories()
	result := &Result{
		Values: newValueFrames(labels, categories, rows),
	}

	if !opts.ComputeRanks {
		return result, nil
	}

	ranks, err := rankRows(rows, categories, &opts, po.tieBreaker)
	if err != nil {
		logger.WithFields(l.ErrorField(err)).Error("rank failed")

		return nil, err
	}

	result.Ranks = newRankFrames(labels, categories, ranks)

	logger.WithFields(l.IntField("nBars", opts.NBars.effective(len(categories))),
		l.StringField("orientation", string(opts.Orientation)), l.StringField("sort", string(opts.Sort))).
		Debug("ranks computed")

	return result, nil
}
