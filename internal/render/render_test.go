package render

import (
	"bytes"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/smallyu/go-ntkit/internal/crypto/curves"
	"github.com/smallyu/go-ntkit/internal/exercise"
	"github.com/smallyu/go-ntkit/pkg/ntk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func solved(t *testing.T) *exercise.Result {
	t.Helper()
	res, err := exercise.Solve(exercise.Exercise{
		Name:   "bsgs-113",
		Kind:   "bsgs",
		Params: map[string]string{"g": "3", "h": "57", "p": "113"},
	})
	require.NoError(t, err)
	return res
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "?", Format(nil))
	assert.Equal(t, "?", Format((*big.Int)(nil)))
	assert.Equal(t, "42", Format(big.NewInt(42)))
	assert.Equal(t, "27, 56", Format([]*big.Int{big.NewInt(27), big.NewInt(56)}))
	assert.Equal(t, "(0, 18)", Format(curves.NewPoint(0, 18)))
	assert.Equal(t, "O", Format(curves.Infinity()))
	assert.Equal(t, "true", Format(true))
}

func TestText(t *testing.T) {
	res := solved(t)

	var buf bytes.Buffer
	require.NoError(t, Text(&buf, res, false))
	assert.Equal(t, "bsgs-113 (bsgs)\n  x = 100\n", buf.String())

	buf.Reset()
	require.NoError(t, Text(&buf, res, true))
	assert.Contains(t, buf.String(), "  . m = 11\n")

	buf.Reset()
	failed := &exercise.Result{Exercise: exercise.Exercise{Name: "x", Kind: "nope"}, Err: ntk.ErrUnknownExercise}
	require.NoError(t, Text(&buf, failed, true))
	assert.Equal(t, "x (nope)\n  error: unknown exercise kind\n", buf.String())
}

func TestLog(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, zapcore.DebugLevel)

	Log(logger, solved(t), true)
	require.NoError(t, logger.Sync())

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Greater(t, len(lines), 1)
	assert.Contains(t, lines[0], "DEBUG")
	assert.Contains(t, lines[len(lines)-1], "INFO")
	assert.Contains(t, lines[len(lines)-1], `"x": "100"`)

	buf.Reset()
	Log(logger, &exercise.Result{Exercise: exercise.Exercise{Name: "x"}, Err: errors.New("boom")}, false)
	assert.Contains(t, buf.String(), "ERROR")
	assert.Contains(t, buf.String(), "boom")
}

func TestFields(t *testing.T) {
	fields := Fields([]ntk.Step{{Label: "i", Value: 3}, {Label: "ok", Value: true}, {Label: "x", Value: big.NewInt(7)}})
	require.Len(t, fields, 3)
	assert.Equal(t, zap.Int("i", 3), fields[0])
	assert.Equal(t, zap.Bool("ok", true), fields[1])
	assert.Equal(t, zap.String("x", "7"), fields[2])
	assert.Equal(t, zap.Skip(), Error(nil))
}

func TestDump(t *testing.T) {
	out := Dump(solved(t).Values)
	assert.Contains(t, out, "Label: (string) (len=1) \"x\"")
	assert.NotContains(t, out, "0x")
}
