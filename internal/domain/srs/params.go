package srs

// Params defines all configurable parameters for the SM-2 algorithm
type Params struct {
	// Core limits
	MinEaseFactor     float64
	InitialEaseFactor float64

	// Intervals (in days) for the fixed early steps of the schedule
	FirstInterval  int
	SecondInterval int

	// Interval (in days) applied after a failed review
	FailureInterval int
}

// ParamsConfig allows overriding the default parameters when creating a new
// Params instance. Zero values leave the corresponding default untouched.
type ParamsConfig struct {
	MinEaseFactor     float64
	InitialEaseFactor float64
	FirstInterval     int
	SecondInterval    int
	FailureInterval   int
}

// NewDefaultParams creates a new Params instance with the canonical SM-2
// values: ease floor 1.3, initial ease 2.5, first two intervals of 1 and 6
// days, and a 1-day interval after any failure.
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor:     1.3,
		InitialEaseFactor: 2.5,
		FirstInterval:     1,
		SecondInterval:    6,
		FailureInterval:   1,
	}
}

// NewParams creates a new Params instance with custom configuration
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.InitialEaseFactor > 0 {
		params.InitialEaseFactor = config.InitialEaseFactor
	}
	if config.FirstInterval > 0 {
		params.FirstInterval = config.FirstInterval
	}
	if config.SecondInterval > 0 {
		params.SecondInterval = config.SecondInterval
	}
	if config.FailureInterval > 0 {
		params.FailureInterval = config.FailureInterval
	}

	return params
}
