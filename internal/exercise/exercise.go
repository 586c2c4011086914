package exercise

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/smallyu/go-ntkit/pkg/ntk"
	"gopkg.in/yaml.v3"
)

// Exercise is one problem instance. Params hold decimal (or 0x) integers,
// comma separated lists and "(x, y)" point literals as strings.
type Exercise struct {
	Name   string            `yaml:"name" json:"name"`
	Kind   string            `yaml:"kind" json:"kind"`
	Params map[string]string `yaml:"params" json:"params"`
}

// Result is the outcome of solving an Exercise. Values are the answers in
// the order the solver produced them.
type Result struct {
	Exercise Exercise
	Values   []ntk.Step
	Trace    *ntk.Trace
	Err      error
}

// Value returns the answer with the given label.
func (r *Result) Value(label string) (interface{}, bool) {
	for _, s := range r.Values {
		if s.Label == label {
			return s.Value, true
		}
	}
	return nil, false
}

func (r *Result) add(label string, value interface{}) {
	r.Values = append(r.Values, ntk.Step{Label: label, Value: value})
}

type solver func(p params, r *Result, opts []ntk.Option) error

// Kinds lists the exercise kinds Solve understands.
func Kinds() []string {
	kinds := make([]string, 0, len(solvers))
	for k := range solvers {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Solve dispatches ex to the solver for its kind. The returned Result
// carries the full trace; its Err mirrors the returned error.
func Solve(ex Exercise, opts ...ntk.Option) (*Result, error) {
	res := &Result{Exercise: ex, Trace: &ntk.Trace{}}

	run, ok := solvers[ex.Kind]
	if !ok {
		res.Err = fmt.Errorf("exercise %q: %q: %w", ex.Name, ex.Kind, ntk.ErrUnknownExercise)
		return res, res.Err
	}

	p := params(ex.Params)
	limits, err := p.options()
	if err != nil {
		res.Err = fmt.Errorf("exercise %q: %w", ex.Name, err)
		return res, res.Err
	}
	// Limits from the exercise win over the caller's; the result always
	// owns its trace.
	all := append(append(opts[:len(opts):len(opts)], limits...), ntk.WithTrace(res.Trace))

	if err := run(p, res, all); err != nil {
		res.Err = fmt.Errorf("exercise %q (%s): %w", ex.Name, ex.Kind, err)
		return res, res.Err
	}
	return res, nil
}

// Load reads a stream of YAML documents, one exercise each. A document
// may also hold a list of exercises under the "exercises" key.
func Load(r io.Reader) ([]Exercise, error) {
	dec := yaml.NewDecoder(r)

	var out []Exercise
	for n := 1; ; n++ {
		var doc struct {
			Exercise  `yaml:",inline"`
			Exercises []Exercise `yaml:"exercises"`
		}
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("exercise: decoding document %d: %w", n, err)
		}
		if doc.Kind != "" {
			out = append(out, doc.Exercise)
		}
		out = append(out, doc.Exercises...)
	}

	for i := range out {
		if out[i].Kind == "" {
			return nil, fmt.Errorf("exercise: entry %d (%q) has no kind: %w", i+1, out[i].Name, ntk.ErrInvalidParameters)
		}
		if out[i].Name == "" {
			out[i].Name = fmt.Sprintf("%s-%d", out[i].Kind, i+1)
		}
	}
	return out, nil
}

// LoadFile reads exercises from a YAML file.
func LoadFile(path string) ([]Exercise, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("exercise: %w", err)
	}
	defer f.Close()
	return Load(f)
}
