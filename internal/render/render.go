package render

import (
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/smallyu/go-ntkit/internal/exercise"
	"github.com/smallyu/go-ntkit/pkg/ntk"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Format renders a step value. Slices print as comma separated lists.
func Format(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "?"
	case *big.Int:
		if x == nil {
			return "?"
		}
		return x.String()
	case []*big.Int:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = e.String()
		}
		return strings.Join(parts, ", ")
	case []ntk.Element:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = e.String()
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(x)
	}
}

// Field turns a step into a zap field keyed by its label.
func Field(s ntk.Step) zap.Field {
	switch v := s.Value.(type) {
	case int:
		return zap.Int(s.Label, v)
	case int64:
		return zap.Int64(s.Label, v)
	case bool:
		return zap.Bool(s.Label, v)
	default:
		return zap.String(s.Label, Format(v))
	}
}

// Fields converts steps in order.
func Fields(steps []ntk.Step) []zap.Field {
	fields := make([]zap.Field, len(steps))
	for i, s := range steps {
		fields[i] = Field(s)
	}
	return fields
}

// Error keeps zap from attaching the verbose form of wrapped errors.
func Error(err error) zap.Field {
	if err == nil {
		return zap.Skip()
	}
	return zap.Error(struct{ error }{err})
}

// NewLogger returns a console logger writing to w at the given level.
func NewLogger(w io.Writer, level zapcore.Level) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = ""
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(w), level)
	return zap.New(core)
}

// Log writes one entry per result: its answers at info level or its error
// at error level. With trace set, every recorded step is logged at debug
// level first.
func Log(logger *zap.Logger, res *exercise.Result, trace bool) {
	l := logger.With(zap.String("exercise", res.Exercise.Name), zap.String("kind", res.Exercise.Kind))
	if trace && res.Trace != nil {
		for i, s := range res.Trace.Steps {
			l.Debug("step", zap.Int("n", i+1), Field(s))
		}
	}
	if res.Err != nil {
		l.Error("failed", Error(res.Err))
		return
	}
	l.Info("solved", Fields(res.Values)...)
}

// Text writes a plain report of res to w.
func Text(w io.Writer, res *exercise.Result, trace bool) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", res.Exercise.Name, res.Exercise.Kind)
	if trace && res.Trace != nil {
		for _, s := range res.Trace.Steps {
			fmt.Fprintf(&b, "  . %s = %s\n", s.Label, Format(s.Value))
		}
	}
	if res.Err != nil {
		fmt.Fprintf(&b, "  error: %v\n", res.Err)
	} else {
		for _, s := range res.Values {
			fmt.Fprintf(&b, "  %s = %s\n", s.Label, Format(s.Value))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Dump returns a deep, deterministic dump of v for debugging.
func Dump(v interface{}) string {
	return dumper.Sdump(v)
}
