package ntk

import (
	"errors"
	"fmt"
	"math/big"
)

// Error kinds returned by the toolkit. Callers match them with errors.Is.
var (
	ErrNoInverse           = errors.New("no modular inverse")
	ErrNotQuadraticResidue = errors.New("not a quadratic residue")
	ErrNoSolution          = errors.New("no solution")
	ErrNoFactorFound       = errors.New("no factor found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrInvalidCurve        = errors.New("invalid curve")
	ErrInvalidParameters   = errors.New("invalid parameters")
	ErrUnknownExercise     = errors.New("unknown exercise kind")

	// ErrSingularSystem is returned when a linear system mod n cannot be
	// solved with the relations gathered so far.
	ErrSingularSystem = fmt.Errorf("singular linear system: %w", ErrNoSolution)
)

// Element is a group element that can be used as a map key and printed.
type Element interface {
	// Key returns a canonical encoding; equal elements have equal keys.
	Key() string

	// String returns a human-readable form.
	String() string
}

// Step is one labeled intermediate value of a computation.
type Step struct {
	Label string
	Value interface{}
}

// Trace collects the intermediate values of a computation in order.
// A nil *Trace records nothing, so solvers can record unconditionally.
type Trace struct {
	Steps []Step
}

// Record appends a step. *big.Int values are copied.
func (t *Trace) Record(label string, value interface{}) {
	if t == nil {
		return
	}
	if v, ok := value.(*big.Int); ok && v != nil {
		value = new(big.Int).Set(v)
	}
	t.Steps = append(t.Steps, Step{Label: label, Value: value})
}

// Len returns the number of recorded steps.
func (t *Trace) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Steps)
}

// Last returns the most recent step with the given label.
func (t *Trace) Last(label string) (Step, bool) {
	if t == nil {
		return Step{}, false
	}
	for i := len(t.Steps) - 1; i >= 0; i-- {
		if t.Steps[i].Label == label {
			return t.Steps[i], true
		}
	}
	return Step{}, false
}

// Default solver limits.
const (
	DefaultMaxIterations = 1000000
	DefaultMaxRelations  = 1000
)

// Config holds solver knobs. Build it with NewConfig.
type Config struct {
	Trace         *Trace
	MaxIterations int
	MaxRelations  int

	// Partition assigns an element to one of three walk classes.
	// Nil means the group's own partition.
	Partition func(Element) int
}

// Option configures a solver.
type Option func(*Config)

// NewConfig applies opts over the defaults.
func NewConfig(opts ...Option) *Config {
	cfg := &Config{
		MaxIterations: DefaultMaxIterations,
		MaxRelations:  DefaultMaxRelations,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// WithTrace records intermediate values into t.
func WithTrace(t *Trace) Option {
	return func(c *Config) { c.Trace = t }
}

// WithMaxIterations bounds random walks. Non-positive values are ignored.
func WithMaxIterations(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.MaxIterations = n
		}
	}
}

// WithMaxRelations bounds the number of exponents tried while gathering
// relations. Non-positive values are ignored.
func WithMaxRelations(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.MaxRelations = n
		}
	}
}

// WithPartition substitutes the class function of a Pollard rho walk.
func WithPartition(f func(Element) int) Option {
	return func(c *Config) { c.Partition = f }
}
