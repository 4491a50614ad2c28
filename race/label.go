package race

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

type LabelKind int

const (
	LabelNull LabelKind = iota
	LabelTime
	LabelNumber
	LabelOrdinal
)

func (k LabelKind) String() string {
	switch k {
	case LabelTime:
		return "time"
	case LabelNumber:
		return "number"
	case LabelOrdinal:
		return "ordinal"
	default:
		return "null"
	}
}

// Label is one period label: an instant, a number, an ordinal name, or null.
// Time and number labels can be interpolated, ordinal labels only keep
// their declared playback order.
type Label struct {
	kind LabelKind
	t    time.Time
	n    float64
	s    string
}

func TimeLabel(t time.Time) Label {
	return Label{kind: LabelTime, t: t}
}

// NumberLabel returns a number label, or a null label for NaN.
func NumberLabel(n float64) Label {
	if math.IsNaN(n) {
		return Label{}
	}

	return Label{kind: LabelNumber, n: n}
}

func OrdinalLabel(s string) Label {
	return Label{kind: LabelOrdinal, s: s}
}

func NullLabel() Label {
	return Label{}
}

// LabelOf converts a loosely typed value into a Label.
func LabelOf(v any) (Label, error) {
	switch tv := v.(type) {
	case nil:
		return NullLabel(), nil
	case Label:
		return tv, nil
	case time.Time:
		return TimeLabel(tv), nil
	case *time.Time:
		if tv == nil {
			return NullLabel(), nil
		}

		return TimeLabel(*tv), nil
	case string:
		return OrdinalLabel(tv), nil
	case json.Number:
		n, err := cast.ToFloat64E(tv.String())
		if err != nil {
			return NullLabel(), fmt.Errorf("%w: label %q: %v", ErrDataShape, tv, err)
		}

		return NumberLabel(n), nil
	case fmt.Stringer:
		return OrdinalLabel(tv.String()), nil
	}

	n, err := cast.ToFloat64E(v)
	if err != nil {
		return NullLabel(), fmt.Errorf("%w: label %v (%T): %v", ErrDataShape, v, v, err)
	}

	return NumberLabel(n), nil
}

func (lb Label) Kind() LabelKind {
	return lb.kind
}

func (lb Label) IsNull() bool {
	return lb.kind == LabelNull
}

func (lb Label) Time() time.Time {
	return lb.t
}

func (lb Label) Number() float64 {
	return lb.n
}

func (lb Label) Ordinal() string {
	return lb.s
}

func (lb Label) Equal(o Label) bool {
	if lb.kind != o.kind {
		return false
	}

	switch lb.kind {
	case LabelTime:
		return lb.t.Equal(o.t)
	case LabelNumber:
		return lb.n == o.n
	case LabelOrdinal:
		return lb.s == o.s
	default:
		return true
	}
}

// Compare orders labels of the same kind. Labels of different kinds are
// ordered by kind.
func (lb Label) Compare(o Label) int {
	if lb.kind != o.kind {
		if lb.kind < o.kind {
			return -1
		}

		return 1
	}

	switch lb.kind {
	case LabelTime:
		return lb.t.Compare(o.t)
	case LabelNumber:
		switch {
		case lb.n < o.n:
			return -1
		case lb.n > o.n:
			return 1
		}

		return 0
	case LabelOrdinal:
		return strings.Compare(lb.s, o.s)
	default:
		return 0
	}
}

func (lb Label) String() string {
	switch lb.kind {
	case LabelTime:
		return lb.t.Format(time.RFC3339Nano)
	case LabelNumber:
		return strconv.FormatFloat(lb.n, 'f', -1, 64)
	case LabelOrdinal:
		return lb.s
	default:
		return "<null>"
	}
}

// Key is a map key that agrees with Equal.
func (lb Label) Key() string {
	switch lb.kind {
	case LabelTime:
		return "t:" + strconv.FormatInt(lb.t.UnixNano(), 10)
	case LabelNumber:
		if lb.n == 0 {
			return "n:0"
		}

		return "n:" + strconv.FormatFloat(lb.n, 'g', -1, 64)
	case LabelOrdinal:
		return "o:" + lb.s
	default:
		return "null"
	}
}
