package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and stdin, returning stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()

	var out, errOut bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReplayFromStdin(t *testing.T) {
	out, err := execute(t, "INCREMENT\nINCREMENT\nUNDO\n", "replay")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "present=0")
	assert.Contains(t, lines[2], "past=[0 1] present=2")
	assert.Contains(t, lines[3], "past=[0] present=1 future=[2]")
}

func TestReplayScriptWithConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "rewind.toml", "limit = 1\n[filter]\nexclude = [\"DECREMENT\"]\n")
	script := writeFile(t, dir, "actions.rw", "# bump\nINCREMENT\nINCREMENT\nINCREMENT\nDECREMENT\n")

	out, err := execute(t, "", "replay", "--config", cfg, script)
	require.NoError(t, err)

	assert.Contains(t, out, "past=[2] present=3")
	assert.NotContains(t, out, "past=[1 2]")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "past=[2] present=3 future=[]"))
}

func TestReplayPreloadHistory(t *testing.T) {
	preload := writeFile(t, t.TempDir(), "history.yaml", "past: [0]\npresent: 1\nfuture: [2]\n")

	out, err := execute(t, "REDO\n", "replay", "--preload", preload)
	require.NoError(t, err)
	assert.Contains(t, out, "past=[0 1] present=2 future=[]")
}

func TestReplayLuaReducer(t *testing.T) {
	script := writeFile(t, t.TempDir(), "double.lua", `
function reduce(state, action)
    if action.type == "DOUBLE" then
        return state * 2
    elseif action.type == "INCREMENT" then
        return state + 1
    end
end
`)

	out, err := execute(t, "INCREMENT\nDOUBLE\nDOUBLE\nUNDO\n", "replay", "--reducer", script)
	require.NoError(t, err)
	assert.Contains(t, out, "past=[0 1 2] present=4")
	assert.Contains(t, out, "past=[0 1] present=2 future=[4]")
}

func TestReplayPreloadState(t *testing.T) {
	preload := writeFile(t, t.TempDir(), "state.toml", "state = 40\n")

	out, err := execute(t, "ADD 2\n", "replay", "-p", preload)
	require.NoError(t, err)
	assert.Contains(t, out, "past=[40] present=42")
}

func TestReplayMetrics(t *testing.T) {
	out, err := execute(t, "INCREMENT\nNOOP\n", "replay", "--metrics", "-")
	require.NoError(t, err)

	assert.Contains(t, out, `rewind_store_dispatches_total{kind="forward",outcome="changed"} 1`)
	assert.Contains(t, out, `rewind_store_dispatches_total{kind="forward",outcome="unchanged"} 1`)
	assert.Contains(t, out, "rewind_history_past_length 1")
}

func TestReplayErrors(t *testing.T) {
	dir := t.TempDir()
	badConfig := writeFile(t, dir, "bad.yaml", "limit: -5\n")
	failing := writeFile(t, dir, "fail.lua", `function reduce(s, a) if a.type == "X" then error("nope") end end`)

	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{"bad script line", "JUMP x\n", []string{"replay"}, "stdin:1:"},
		{"missing script", "", []string{"replay", filepath.Join(dir, "none.rw")}, "opening script"},
		{"invalid settings", "", []string{"replay", "--config", badConfig}, "invalid settings"},
		{"missing preload", "", []string{"replay", "--preload", filepath.Join(dir, "none.yaml")}, "none.yaml"},
		{"missing lua reducer", "", []string{"replay", "--reducer", filepath.Join(dir, "none.lua")}, "lua reducer"},
		{"failing lua reducer", "X\n", []string{"replay", "--reducer", failing}, "reducer panic"},
		{"bad log level", "", []string{"--log-level", "loud", "replay"}, "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.stdin, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConfigCommand(t *testing.T) {
	cfg := writeFile(t, t.TempDir(), "rewind.yaml", "limit: 5\nfilter:\n  distinct: true\n")

	out, err := execute(t, "", "config", "--config", cfg, "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "limit: 5")
	assert.Contains(t, out, "distinct: true")
	assert.Contains(t, out, "@@INIT")

	out, err = execute(t, "", "config", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "limit = 5")

	_, err = execute(t, "", "config", "--format", "ini")
	assert.Error(t, err)
}

func TestTUIWatchNeedsConfig(t *testing.T) {
	_, err := execute(t, "", "tui", "--watch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--config")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "rewind dev")
}
