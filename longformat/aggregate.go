package longformat

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/sgostarter/libbarrace/race"
)

// Accumulator folds the observations of one (period, category) cell.
// Combine never modifies the receiver.
type Accumulator interface {
	Combine(v float64) Accumulator
	Calc() float64
}

// AggFunc starts an accumulator from the first observation of a cell.
type AggFunc func(v float64) Accumulator

const (
	AggSum    = "sum"
	AggMean   = "mean"
	AggMin    = "min"
	AggMax    = "max"
	AggCount  = "count"
	AggFirst  = "first"
	AggLast   = "last"
	AggMedian = "median"
	AggProd   = "prod"
	// AggNone rejects any (period, category) pair seen twice.
	AggNone = "none"
)

var aggFuncs = map[string]AggFunc{
	AggSum:    func(v float64) Accumulator { return sumData{sum: v} },
	AggMean:   func(v float64) Accumulator { return meanData{sum: v, count: 1} },
	AggMin:    func(v float64) Accumulator { return minData{v: v} },
	AggMax:    func(v float64) Accumulator { return maxData{v: v} },
	AggCount:  func(float64) Accumulator { return countData{count: 1} },
	AggFirst:  func(v float64) Accumulator { return firstData{v: v} },
	AggLast:   func(v float64) Accumulator { return lastData{v: v} },
	AggMedian: func(v float64) Accumulator { return medianData{vs: []float64{v}} },
	AggProd:   func(v float64) Accumulator { return prodData{prod: v} },
	AggNone:   func(v float64) Accumulator { return lastData{v: v} },
}

// LookupAggFunc resolves an aggregation name, case-insensitively.
func LookupAggFunc(name string) (AggFunc, error) {
	fn, ok := aggFuncs[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: unknown aggregation function %q (have %s)", race.ErrConfiguration, name,
			strings.Join(AggFuncNames(), ", "))
	}

	return fn, nil
}

func AggFuncNames() []string {
	names := make([]string, 0, len(aggFuncs))
	for name := range aggFuncs {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

type sumData struct {
	sum float64
}

func (o sumData) Combine(v float64) Accumulator {
	return sumData{sum: o.sum + v}
}

func (o sumData) Calc() float64 {
	return o.sum
}

type meanData struct {
	sum   float64
	count int
}

func (o meanData) Combine(v float64) Accumulator {
	return meanData{sum: o.sum + v, count: o.count + 1}
}

func (o meanData) Calc() float64 {
	return o.sum / float64(o.count)
}

type minData struct {
	v float64
}

func (o minData) Combine(v float64) Accumulator {
	return minData{v: math.Min(o.v, v)}
}

func (o minData) Calc() float64 {
	return o.v
}

type maxData struct {
	v float64
}

func (o maxData) Combine(v float64) Accumulator {
	return maxData{v: math.Max(o.v, v)}
}

func (o maxData) Calc() float64 {
	return o.v
}

type countData struct {
	count int
}

func (o countData) Combine(float64) Accumulator {
	return countData{count: o.count + 1}
}

func (o countData) Calc() float64 {
	return float64(o.count)
}

type firstData struct {
	v float64
}

func (o firstData) Combine(float64) Accumulator {
	return o
}

func (o firstData) Calc() float64 {
	return o.v
}

type lastData struct {
	v float64
}

func (o lastData) Combine(v float64) Accumulator {
	return lastData{v: v}
}

func (o lastData) Calc() float64 {
	return o.v
}

type medianData struct {
	vs []float64
}

func (o medianData) Combine(v float64) Accumulator {
	return medianData{vs: append(slices.Clip(o.vs), v)}
}

func (o medianData) Calc() float64 {
	vs := slices.Clone(o.vs)
	slices.Sort(vs)

	mid := len(vs) / 2
	if len(vs)%2 == 1 {
		return vs[mid]
	}

	return (vs[mid-1] + vs[mid]) / 2
}

type prodData struct {
	prod float64
}

func (o prodData) Combine(v float64) Accumulator {
	return prodData{prod: o.prod * v}
}

func (o prodData) Calc() float64 {
	return o.prod
}
