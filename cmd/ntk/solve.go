package main

import (
	"strings"

	"github.com/smallyu/go-ntkit/internal/exercise"
	"github.com/spf13/cobra"
)

// problem describes a one-shot subcommand. Every flag becomes the exercise
// parameter of the same name with dashes turned into underscores. pick
// chooses the exercise kind from the flags that were set.
type problem struct {
	use, short string
	flags      []string
	usage      map[string]string
	pick       func(set map[string]string) string
}

func (p problem) command(out *output) *cobra.Command {
	values := make(map[string]*string, len(p.flags))
	cmd := &cobra.Command{
		Use:   p.use,
		Short: p.short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := make(map[string]string)
			for name, v := range values {
				if cmd.Flags().Changed(name) {
					params[strings.ReplaceAll(name, "-", "_")] = *v
				}
			}
			ex := exercise.Exercise{Name: p.use, Kind: p.pick(params), Params: params}
			res, err := exercise.Solve(ex)
			if emitErr := out.emit(cmd, []*exercise.Result{res}); emitErr != nil {
				return emitErr
			}
			return err
		},
	}
	for _, name := range p.flags {
		values[name] = cmd.Flags().String(name, "", p.usage[name])
	}
	return cmd
}

func kind(name string) func(map[string]string) string {
	return func(map[string]string) string { return name }
}

// byCurve picks the curve variant when a curve is named or given by p, a, b.
func byCurve(modP, curve string) func(map[string]string) string {
	return func(set map[string]string) string {
		if _, ok := set["curve"]; ok {
			return curve
		}
		if _, ok := set["Q"]; ok {
			return curve
		}
		return modP
	}
}

var dlogUsage = map[string]string{
	"g":              "generator of (Z/pZ)*",
	"h":              "target value",
	"p":              "prime modulus, or curve field prime with --a/--b",
	"order":          "group order (default p-1)",
	"curve":          "preset curve name",
	"a":              "curve coefficient a",
	"b":              "curve coefficient b",
	"G":              "base point (x, y)",
	"n":              "order of G",
	"Q":              "target point (x, y)",
	"max-iterations": "iteration cap",
}

func bsgsCmd(out *output) *cobra.Command {
	return problem{
		use:   "bsgs",
		short: "Discrete logarithm by baby-step giant-step.",
		flags: []string{"g", "h", "p", "order", "curve", "a", "b", "G", "n", "Q"},
		usage: dlogUsage,
		pick:  byCurve("bsgs", "bsgs-curve"),
	}.command(out)
}

func rhoCmd(out *output) *cobra.Command {
	return problem{
		use:   "rho",
		short: "Discrete logarithm by Pollard's rho.",
		flags: []string{"g", "h", "p", "order", "curve", "a", "b", "G", "n", "Q", "max-iterations"},
		usage: dlogUsage,
		pick:  byCurve("rho", "rho-curve"),
	}.command(out)
}

func factorCmd(out *output) *cobra.Command {
	return problem{
		use:   "factor",
		short: "Factor n by trial division, Pollard's rho or a quadratic sieve.",
		flags: []string{"n", "method", "x0", "c", "max-iterations", "bound", "max-relations"},
		usage: map[string]string{
			"n":              "number to factor",
			"method":         "trial, rho or sieve (default trial)",
			"x0":             "rho start value (default 2)",
			"c":              "rho polynomial constant in x^2 + c (default 1)",
			"max-iterations": "rho iteration cap",
			"bound":          "sieve smoothness bound",
			"max-relations":  "sieve relation count",
		},
		pick: func(set map[string]string) string {
			switch set["method"] {
			case "rho":
				return "factor-rho"
			case "sieve":
				return "quadratic-sieve"
			}
			return "factor"
		},
	}.command(out)
}

func sqrtCmd(out *output) *cobra.Command {
	return problem{
		use:   "sqrt",
		short: "Square roots (Tonelli-Shanks) or fourth roots modulo a prime.",
		flags: []string{"n", "a", "p"},
		usage: map[string]string{
			"n": "radicand for x^2 = n",
			"a": "radicand for x^4 = a",
			"p": "odd prime modulus",
		},
		pick: func(set map[string]string) string {
			if _, ok := set["a"]; ok {
				return "fourth-root"
			}
			return "sqrt"
		},
	}.command(out)
}

func crtCmd(out *output) *cobra.Command {
	return problem{
		use:   "crt",
		short: "Chinese remainder theorem over comma separated residues and moduli.",
		flags: []string{"residues", "moduli"},
		usage: map[string]string{
			"residues": "residues, e.g. 2,3,2",
			"moduli":   "moduli, e.g. 3,5,7",
		},
		pick: kind("crt"),
	}.command(out)
}

func orderCmd(out *output) *cobra.Command {
	return problem{
		use:   "order",
		short: "Multiplicative order of a mod m, or the order of a curve point.",
		flags: []string{"a", "m", "curve", "p", "b", "P"},
		usage: map[string]string{
			"a":     "element (or curve coefficient a with --p/--b)",
			"m":     "modulus",
			"curve": "preset curve name",
			"p":     "curve field prime",
			"b":     "curve coefficient b",
			"P":     "curve point (x, y)",
		},
		pick: func(set map[string]string) string {
			if _, ok := set["P"]; ok {
				return "ec-order"
			}
			return "order"
		},
	}.command(out)
}
