package main

import (
	"fmt"
	"strings"

	"github.com/smallyu/go-ntkit/internal/batch"
	"github.com/smallyu/go-ntkit/internal/exercise"
	"github.com/spf13/cobra"
)

func runCmd(out *output) *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "run FILE...",
		Short: "Solve every exercise in the given YAML files.",
		Long: `Solve every exercise in the given YAML files concurrently.
Results are printed in file order; failures are reported per exercise.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var all []exercise.Exercise
			for _, path := range args {
				exs, err := exercise.LoadFile(path)
				if err != nil {
					return err
				}
				all = append(all, exs...)
			}

			results, err := batch.Solve(cmd.Context(), all, workers)
			if emitErr := out.emit(cmd, results); emitErr != nil {
				return emitErr
			}
			if err != nil {
				return err
			}
			if s := batch.Summarize(results); s.Failed > 0 {
				return fmt.Errorf("%d of %d exercises failed", s.Failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "number of concurrent solvers (default GOMAXPROCS)")
	return cmd
}

func kindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the exercise kinds understood by run.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(exercise.Kinds(), "\n"))
			return err
		},
	}
}
