package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/zephyrtronium/rootfind/internal/config"
	"github.com/zephyrtronium/rootfind/methods"
)

// testCmd resets global state and returns a command writing to a buffer.
func testCmd(t *testing.T, format string) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	cfg = config.Default()
	logger = zaptest.NewLogger(t)
	rootFlags.format = format
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetIn(strings.NewReader(""))
	return cmd, &buf
}

func TestCommandsRegistered(t *testing.T) {
	names := []string{"bisection", "falseposition", "fixedpoint", "newton", "multiple", "eval", "deriv", "sample", "batch", "serve", "env", "version"}
	for _, name := range names {
		cmd, _, err := rootCmd.Find([]string{name})
		if assert.NoError(t, err, name) {
			assert.Equal(t, name, cmd.Name())
		}
	}
	cmd, _, err := rootCmd.Find([]string{"regula-falsi"})
	require.NoError(t, err)
	assert.Equal(t, "falseposition", cmd.Name())
}

func TestSetup(t *testing.T) {
	testCmd(t, formatText)
	rootFlags.logLevel = "debug"
	defer func() { rootFlags.logLevel = "" }()
	require.NoError(t, setup(rootCmd, nil))
	assert.Equal(t, "debug", cfg.Level)

	rootFlags.logLevel = "loud"
	assert.Error(t, setup(rootCmd, nil))

	rootFlags.logLevel = ""
	rootFlags.format = "xml"
	assert.Error(t, setup(rootCmd, nil))
	rootFlags.format = formatText
}

func TestSolveText(t *testing.T) {
	cmd, buf := testCmd(t, formatText)
	solveFlags = solveOptions{f: "x^2 - 3", a: "1", b: "2", tolerance: "0.01"}
	require.NoError(t, solve(cmd, methods.MethodBisection))

	out := buf.String()
	assert.Contains(t, out, "bisection: converged")
	assert.Contains(t, out, "f = x^2 - 3")
	for _, col := range methods.MethodBisection.Columns() {
		assert.Contains(t, out, col)
	}
	assert.Contains(t, out, "1.73")
	assert.Contains(t, out, "iterations")
}

func TestSolveNewtonText(t *testing.T) {
	cmd, buf := testCmd(t, formatText)
	solveFlags = solveOptions{f: "x^2 - 3", x0: "1"}
	require.NoError(t, solve(cmd, methods.MethodNewton))
	assert.Contains(t, buf.String(), "f' = 2 * x")
	assert.Contains(t, buf.String(), "1.732050808")
}

func TestSolveJSON(t *testing.T) {
	cmd, buf := testCmd(t, formatJSON)
	solveFlags = solveOptions{f: "a*x - 1", x0: "1", given: []string{"a=4"}}
	require.NoError(t, solve(cmd, methods.MethodNewton))

	var rep methods.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rep))
	assert.Equal(t, methods.Converged, rep.Status)
	assert.InDelta(t, 0.25, rep.Root, 1e-9)
	assert.Equal(t, "a", rep.Derivative)
}

func TestSolveFailure(t *testing.T) {
	cmd, buf := testCmd(t, formatText)
	solveFlags = solveOptions{f: "x^2 - 3", a: "2", b: "3"}
	err := solve(cmd, methods.MethodBisection)
	require.Error(t, err)
	assert.ErrorIs(t, err, methods.ErrInvalidInput)
	assert.Contains(t, buf.String(), "bisection: invalid input")
	assert.NotContains(t, buf.String(), "root")
}

func TestParseGiven(t *testing.T) {
	got, err := parseGiven([]string{"a=2", " b = pi/2 "})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "2", "b": "1.5707963267948966"}, got)

	got, err = parseGiven(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = parseGiven([]string{"a"})
	assert.Error(t, err)
	_, err = parseGiven([]string{"a=ln(0)"})
	assert.Error(t, err)
}

func TestEval(t *testing.T) {
	cmd, buf := testCmd(t, formatText)
	evalFlags.in, evalFlags.verb, evalFlags.echo = "", "%g", false
	evalFlags.given = []string{"a=2", "b=pi"}
	require.NoError(t, runEval(cmd, []string{"2^10", "a*b", "ln(-1)"}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "1024", lines[0])
	assert.Equal(t, "6.283185307179586", lines[1])
	assert.Contains(t, lines[2], "ln")
}

func TestEvalInput(t *testing.T) {
	cmd, buf := testCmd(t, formatText)
	evalFlags.in, evalFlags.verb, evalFlags.echo, evalFlags.given = "", "%.2f", false, nil
	cmd.SetIn(strings.NewReader("1/4\n\n  sqrt 2\n"))
	require.NoError(t, runEval(cmd, nil))
	assert.Equal(t, "0.25\n1.41\n", buf.String())

	path := filepath.Join(t.TempDir(), "in.txt")
	require.NoError(t, os.WriteFile(path, []byte("3*3\n"), 0o644))
	cmd, buf = testCmd(t, formatText)
	evalFlags.in, evalFlags.verb = path, "%g"
	require.NoError(t, runEval(cmd, []string{"1+1"}))
	assert.Equal(t, "9\n2\n", buf.String())
	evalFlags.in = ""
}

func TestEvalParseError(t *testing.T) {
	cmd, _ := testCmd(t, formatText)
	evalFlags.in, evalFlags.verb, evalFlags.echo, evalFlags.given = "", "%g", false, nil
	assert.Error(t, runEval(cmd, []string{"2 +"}))
}

func TestEvalJSON(t *testing.T) {
	cmd, buf := testCmd(t, formatJSON)
	evalFlags.in, evalFlags.verb, evalFlags.echo, evalFlags.given = "", "%g", false, nil
	require.NoError(t, runEval(cmd, []string{"1 + 2", "y"}))
	var got []evalResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	require.NotNil(t, got[0].Value)
	assert.Equal(t, 3.0, *got[0].Value)
	assert.Nil(t, got[1].Value)
	assert.Contains(t, got[1].Error, "y")
}

func TestDeriv(t *testing.T) {
	cmd, buf := testCmd(t, formatText)
	derivFlags.order, derivFlags.variable, derivFlags.given = 2, "", nil
	require.NoError(t, runDeriv(cmd, []string{"x^3 - 2*x^2 + 4/3*x - 8/27"}))
	assert.Equal(t, "f' = 3 * x^2 - 4 * x + 4 / 3\nf'' = 6 * x - 4\n", buf.String())

	cmd, _ = testCmd(t, formatText)
	derivFlags.order = 0
	assert.Error(t, runDeriv(cmd, []string{"x"}))
}

func TestDerivGiven(t *testing.T) {
	cmd, buf := testCmd(t, formatJSON)
	derivFlags.order, derivFlags.variable, derivFlags.given = 1, "t", []string{"k=2"}
	require.NoError(t, runDeriv(cmd, []string{"k*t^2"}))
	assert.JSONEq(t, `{"f":"k*t^2","derivatives":["k * (2 * t)"]}`, buf.String())
	derivFlags.variable, derivFlags.given = "", nil
}

func TestSample(t *testing.T) {
	cmd, buf := testCmd(t, formatText)
	sampleFlags.min, sampleFlags.max, sampleFlags.count = -1, 1, 3
	sampleFlags.variable, sampleFlags.given = "", nil
	require.NoError(t, runSample(cmd, []string{"sqrt(x)"}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"x", "f(x)"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"-1", "undefined"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"1", "1"}, strings.Fields(lines[3]))

	cmd, _ = testCmd(t, formatText)
	sampleFlags.count = 1
	assert.Error(t, runSample(cmd, []string{"x"}))
}

const testJob = `
defaults:
  tolerance: 1e-8
runs:
  - method: newton
    f: x^2 - 3
    x0: 1
  - method: bisection
    f: x^2 - 3
    a: 2
    b: 3
`

func TestBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testJob), 0o644))

	cmd, buf := testCmd(t, formatText)
	batchFlags.workers, batchFlags.watch = 2, false
	err := runBatch(cmd, []string{path})
	require.Error(t, err)
	assert.Equal(t, "1 of 2 runs failed", err.Error())

	out := buf.String()
	assert.Contains(t, out, "newton")
	assert.Contains(t, out, "converged")
	assert.Contains(t, out, "invalid input")

	cmd, buf = testCmd(t, formatJSON)
	require.Error(t, runBatch(cmd, []string{path}))
	var reps []methods.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &reps))
	require.Len(t, reps, 2)
	assert.InDelta(t, 1.7320508, reps[0].Root, 1e-7)
	assert.NotEmpty(t, reps[0].ID)
}

func TestBatchMissingFile(t *testing.T) {
	cmd, _ := testCmd(t, formatText)
	batchFlags.workers, batchFlags.watch = 0, false
	err := runBatch(cmd, []string{filepath.Join(t.TempDir(), "nope.yaml")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEnv(t *testing.T) {
	var buf bytes.Buffer
	envCmd.SetOut(&buf)
	defer envCmd.SetOut(nil)
	require.NoError(t, envCmd.RunE(envCmd, nil))
	assert.Contains(t, buf.String(), "ROOTFIND_TOLERANCE")
}
