package main

import (
	"fmt"
	"io"
	"os"

	"github.com/smallyu/go-ntkit/internal/exercise"
	"github.com/smallyu/go-ntkit/internal/render"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// output holds the flags shared by every subcommand.
type output struct {
	trace  bool
	format string
	level  string
	dump   bool
}

func (o *output) logger(w io.Writer) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(o.level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", o.level, err)
	}
	if o.trace && lvl > zapcore.DebugLevel {
		lvl = zapcore.DebugLevel
	}
	return render.NewLogger(w, lvl), nil
}

// emit prints results in the selected format.
func (o *output) emit(cmd *cobra.Command, results []*exercise.Result) error {
	w := cmd.OutOrStdout()
	switch o.format {
	case "text":
		for _, res := range results {
			if res == nil {
				continue
			}
			if err := render.Text(w, res, o.trace); err != nil {
				return err
			}
			if o.dump {
				fmt.Fprint(w, render.Dump(res.Values))
			}
		}
	case "log":
		logger, err := o.logger(w)
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck
		for _, res := range results {
			if res != nil {
				render.Log(logger, res, o.trace)
			}
		}
	default:
		return fmt.Errorf("unknown output format %q (want text or log)", o.format)
	}
	return nil
}

func newMainCmd() *cobra.Command {
	out := &output{}
	mainCmd := &cobra.Command{
		Use:           "ntk",
		Short:         "Number theory and elliptic-curve exercise solver.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := mainCmd.PersistentFlags()
	flags.BoolVar(&out.trace, "trace", false, "show intermediate steps")
	flags.StringVar(&out.format, "format", "text", "output format: text or log")
	flags.StringVar(&out.level, "log-level", "info", "log level for --format=log")
	flags.BoolVar(&out.dump, "dump", false, "dump raw answer values")

	mainCmd.AddCommand(runCmd(out))
	mainCmd.AddCommand(kindsCmd())
	mainCmd.AddCommand(bsgsCmd(out))
	mainCmd.AddCommand(rhoCmd(out))
	mainCmd.AddCommand(factorCmd(out))
	mainCmd.AddCommand(sqrtCmd(out))
	mainCmd.AddCommand(crtCmd(out))
	mainCmd.AddCommand(orderCmd(out))
	return mainCmd
}

func main() {
	mainCmd := newMainCmd()
	if err := mainCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
