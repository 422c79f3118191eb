// File: cmd/cmd_test.go
package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	json "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/driftline/internal/observability"
	"github.com/xkilldash9x/driftline/internal/trajectory"
)

// executeCommand runs a fresh root command with the given args and captures
// its combined output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	observability.ResetForTest()

	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(append(args, "--log-level", "error"))

	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

// -- Flag Parsing Tests --

func TestParseCoordinate(t *testing.T) {
	testCases := []struct {
		name    string
		raw     string
		want    trajectory.Vector2D
		wantErr bool
	}{
		{name: "plain", raw: "100,200", want: trajectory.Vector2D{X: 100, Y: 200}},
		{name: "spaced_and_negative", raw: " 3.5 , -7 ", want: trajectory.Vector2D{X: 3.5, Y: -7}},
		{name: "not_numeric", raw: "abc,2", wantErr: true},
		{name: "single_value", raw: "42", wantErr: true},
		{name: "too_many_values", raw: "1,2,3", wantErr: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseCoordinate(tc.raw)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

// -- Command Tests --

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "driftline "+Version)
}

func TestGenerateWritesFile(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "path.json")

	out, err := executeCommand(t,
		"generate", "--start", "10,10", "--end", "250,180", "--seed", "7", "--output", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote")

	body, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var doc moveDocument
	require.NoError(t, json.Unmarshal(body, &doc))
	require.GreaterOrEqual(t, len(doc.Points), 2)
	assert.InDelta(t, 10.0, doc.Points[0].X, 3.5)
	assert.InDelta(t, 10.0, doc.Points[0].Y, 3.5)
	assert.Empty(t, doc.Events)
}

func TestGenerateCountEmitsArrayWithEvents(t *testing.T) {
	out, err := executeCommand(t,
		"generate", "--start", "5,5", "--end", "420,300", "--count", "2", "--events", "--seed", "3")
	require.NoError(t, err)

	var docs []moveDocument
	require.NoError(t, json.Unmarshal([]byte(out), &docs))
	require.Len(t, docs, 2)
	for _, doc := range docs {
		assert.GreaterOrEqual(t, len(doc.Points), 2)
		require.NotEmpty(t, doc.Events)
		assert.Len(t, doc.Events, len(doc.Points))
		assert.Zero(t, doc.Events[0].DelayMs)
	}
}

func TestGenerateRejectsBadInput(t *testing.T) {
	_, err := executeCommand(t, "generate", "--start", "nope", "--end", "1,2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be in the form X,Y")

	_, err = executeCommand(t, "generate", "--start", "1,2", "--end", "3,4", "--count", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--count")
}

func TestGenerateRequiresEndpoints(t *testing.T) {
	_, err := executeCommand(t, "generate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}

func TestWanderCommand(t *testing.T) {
	out, err := executeCommand(t, "wander", "--center", "400,300", "--seconds", "0.5", "--seed", "11")
	require.NoError(t, err)

	var doc moveDocument
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.GreaterOrEqual(t, len(doc.Points), 2)

	elapsed := doc.Points[len(doc.Points)-1].Timestamp - doc.Points[0].Timestamp
	assert.InDelta(t, 0.5, elapsed, 1e-9)
	for _, pt := range doc.Points {
		assert.InDelta(t, 400.0, pt.X, 10.0)
		assert.InDelta(t, 300.0, pt.Y, 10.0)
	}
}

func TestEnqueueValidation(t *testing.T) {
	t.Run("Drag Needs Offset Or Image", func(t *testing.T) {
		_, err := executeCommand(t, "enqueue", "--kind", "DRAG", "--start", "60,250")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--offset or --image")
	})

	t.Run("Unknown Kind", func(t *testing.T) {
		_, err := executeCommand(t, "enqueue", "--kind", "FLY", "--start", "1,2")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown task kind")
	})

	t.Run("Move Needs End", func(t *testing.T) {
		_, err := executeCommand(t, "enqueue", "--kind", "MOVE", "--start", "1,2")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing --end")
	})

	t.Run("Solver Disabled", func(t *testing.T) {
		_, err := executeCommand(t, "enqueue", "--kind", "DRAG", "--start", "1,2", "--image", "missing.png")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "solver is disabled")
	})
}

func TestConfigFromContextMissing(t *testing.T) {
	bare := &cobra.Command{Use: "bare"}
	bare.SetContext(context.Background())

	_, err := configFromContext(bare)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration missing")
}
