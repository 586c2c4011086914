//go:build js && wasm

package main

import (
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/smallyu/go-ntkit/internal/exercise"
	"github.com/smallyu/go-ntkit/internal/render"
)

func main() {
	c := make(chan struct{}, 0)

	fmt.Println("Go NTK WASM Initialized")

	// Expose Go functions to JS
	js.Global().Set("GoNTK", map[string]interface{}{
		"Solve": js.FuncOf(Solve),
		"Kinds": js.FuncOf(Kinds),
	})

	<-c
}

// Solve runs one exercise.
// Arguments:
// 0: JSON string {"name": ..., "kind": ..., "params": {...}}
// Returns:
// JSON string with the answers, the trace and an error message if any
func Solve(this js.Value, args []js.Value) interface{} {
	if len(args) != 1 {
		return "error: expected 1 argument (jsonExercise)"
	}

	var ex exercise.Exercise
	if err := json.Unmarshal([]byte(args[0].String()), &ex); err != nil {
		return fmt.Sprintf("error: invalid json: %v", err)
	}

	res, _ := exercise.Solve(ex)
	return marshalResult(res)
}

// Kinds returns the supported exercise kinds as a JSON array.
func Kinds(this js.Value, args []js.Value) interface{} {
	b, _ := json.Marshal(exercise.Kinds())
	return string(b)
}

// Helpers

type stepDTO struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Values are rendered as strings so large integers survive in JS.
type resultDTO struct {
	Name   string    `json:"name"`
	Kind   string    `json:"kind"`
	Values []stepDTO `json:"values"`
	Trace  []stepDTO `json:"trace"`
	Error  string    `json:"error,omitempty"`
}

func marshalResult(res *exercise.Result) string {
	out := resultDTO{Name: res.Exercise.Name, Kind: res.Exercise.Kind}
	for _, s := range res.Values {
		out.Values = append(out.Values, stepDTO{Label: s.Label, Value: render.Format(s.Value)})
	}
	if res.Trace != nil {
		for _, s := range res.Trace.Steps {
			out.Trace = append(out.Trace, stepDTO{Label: s.Label, Value: render.Format(s.Value)})
		}
	}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}

	b, err := json.Marshal(out)
	if err != nil {
		return fmt.Sprintf("error: marshal result failed: %v", err)
	}
	return string(b)
}
