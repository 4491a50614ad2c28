package race

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/sgostarter/i/l"
	"gopkg.in/yaml.v3"
)

type Orientation string

const (
	Horizontal Orientation = "h"
	Vertical   Orientation = "v"
)

func (o Orientation) normalize() Orientation {
	switch strings.ToLower(string(o)) {
	case "h", "horizontal":
		return Horizontal
	case "v", "vertical":
		return Vertical
	}

	return o
}

type SortOrder string

const (
	Desc SortOrder = "desc"
	Asc  SortOrder = "asc"
)

func (s SortOrder) normalize() SortOrder {
	switch strings.ToLower(string(s)) {
	case "desc", "descending":
		return Desc
	case "asc", "ascending":
		return Asc
	}

	return s
}

// BarCount caps the number of visible categories. AllBars shows every
// category.
type BarCount int

const AllBars BarCount = 0

func parseBarCount(s string) (BarCount, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return AllBars, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return AllBars, fmt.Errorf("%w: n_bars must be a positive integer or \"all\", got %q", ErrConfiguration, s)
	}

	return BarCount(n), nil
}

// Decode implements envconfig.Decoder.
func (bc *BarCount) Decode(value string) error {
	n, err := parseBarCount(value)
	if err != nil {
		return err
	}

	*bc = n

	return nil
}

func (bc *BarCount) UnmarshalYAML(value *yaml.Node) error {
	return bc.Decode(value.Value)
}

func (bc BarCount) MarshalYAML() (interface{}, error) {
	if bc == AllBars {
		return "all", nil
	}

	return int(bc), nil
}

func (bc BarCount) String() string {
	if bc == AllBars {
		return "all"
	}

	return strconv.Itoa(int(bc))
}

// effective resolves the cap against the number of categories; a cap above
// the category count shows all of them.
func (bc BarCount) effective(categories int) int {
	if bc == AllBars || int(bc) > categories {
		return categories
	}

	return int(bc)
}

// Options configures Prepare.
type Options struct {
	Orientation       Orientation `yaml:"orientation" envconfig:"ORIENTATION" default:"h" validate:"oneof=h v"`
	Sort              SortOrder   `yaml:"sort" envconfig:"SORT" default:"desc" validate:"oneof=desc asc"`
	NBars             BarCount    `yaml:"n_bars" envconfig:"N_BARS" default:"all" validate:"gte=0"`
	InterpolatePeriod bool        `yaml:"interpolate_period" envconfig:"INTERPOLATE_PERIOD" default:"false"`
	StepsPerPeriod    int         `yaml:"steps_per_period" envconfig:"STEPS_PER_PERIOD" default:"10" validate:"gte=1"`
	ComputeRanks      bool        `yaml:"compute_ranks" envconfig:"COMPUTE_RANKS" default:"true"`
	// Parallelism above 1 spreads interpolation and ranking over that many
	// goroutines. Output does not depend on it.
	Parallelism int `yaml:"parallelism" envconfig:"PARALLELISM" default:"0" validate:"gte=0"`
	// BoundaryFill, when set, replaces nulls before a category's first or
	// after its last known value.
	BoundaryFill *float64 `yaml:"boundary_fill,omitempty" envconfig:"BOUNDARY_FILL"`
}

func DefaultOptions() Options {
	return Options{
		Orientation:    Horizontal,
		Sort:           Desc,
		NBars:          AllBars,
		StepsPerPeriod: 10,
		ComputeRanks:   true,
	}
}

// ParseOptionsYAML decodes options over DefaultOptions and validates them.
func ParseOptionsYAML(d []byte) (opts Options, err error) {
	opts = DefaultOptions()

	if err = yaml.Unmarshal(d, &opts); err != nil {
		err = fmt.Errorf("%w: %v", ErrConfiguration, err)

		return
	}

	err = opts.Validate()

	return
}

// LoadOptionsFromEnv reads options from <prefix>_ORIENTATION, <prefix>_SORT
// and so on, then validates them.
func LoadOptionsFromEnv(prefix string) (opts Options, err error) {
	if err = envconfig.Process(prefix, &opts); err != nil {
		err = fmt.Errorf("%w: %v", ErrConfiguration, err)

		return
	}

	err = opts.Validate()

	return
}

var optionsValidator = validator.New()

// Validate normalizes spelling variants ("horizontal", "ascending") in place
// and checks every field.
func (opts *Options) Validate() error {
	opts.Orientation = opts.Orientation.normalize()
	opts.Sort = opts.Sort.normalize()

	if err := optionsValidator.Struct(opts); err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	if opts.BoundaryFill != nil && (math.IsNaN(*opts.BoundaryFill) || math.IsInf(*opts.BoundaryFill, 0)) {
		return fmt.Errorf("%w: boundary fill must be finite, got %v", ErrConfiguration, *opts.BoundaryFill)
	}

	return nil
}

// flipRanks reports whether rank 1 has to be mirrored to stay the first
// position drawn.
func (opts *Options) flipRanks() bool {
	return (opts.Sort == Desc && opts.Orientation == Horizontal) ||
		(opts.Sort == Asc && opts.Orientation == Vertical)
}

type prepareOptions struct {
	logger     l.Wrapper
	tieBreaker TieBreaker
}

type PrepareOption func(o *prepareOptions)

func prepareOptionsNew(option ...PrepareOption) *prepareOptions {
	opts := &prepareOptions{}
	for _, o := range option {
		o(opts)
	}

	if opts.logger == nil {
		opts.logger = l.NewNopLoggerWrapper()
	}

	if opts.tieBreaker == nil {
		opts.tieBreaker = DeclaredOrder
	}

	return opts
}

func WithLogger(logger l.Wrapper) PrepareOption {
	return func(o *prepareOptions) {
		o.logger = logger
	}
}

// WithTieBreaker sets the order among categories with equal values.
func WithTieBreaker(tb TieBreaker) PrepareOption {
	return func(o *prepareOptions) {
		o.tieBreaker = tb
	}
}

// LoggerFrom returns the logger set by WithLogger, or a nop logger.
func LoggerFrom(option ...PrepareOption) l.Wrapper {
	return prepareOptionsNew(option...).logger
}
