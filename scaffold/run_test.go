package scaffold_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plonkish-zk/scaffold/circuits/quadratic"
	"github.com/plonkish-zk/scaffold/scaffold"
)

func TestMockStageEndToEnd(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "quadratic.in.json")
	require.NoError(t, os.WriteFile(input, []byte(`{"x": "3"}`), 0o644))

	cli := &scaffold.Cli{
		Command:    "mock",
		Name:       "quadratic",
		InputPath:  input,
		ConfigPath: dir,
		DataPath:   dir,
	}
	require.NoError(t, scaffold.Run(quadratic.Circuit, cli))
}

func TestMockStageRequiresInput(t *testing.T) {
	dir := t.TempDir()
	cli := &scaffold.Cli{Command: "mock", Name: "quadratic", ConfigPath: dir, DataPath: dir}
	err := scaffold.Run(quadratic.Circuit, cli)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read input")
}

// verify consumes only the artifacts a keygen/prove run left behind; it
// must get as far as the verifying key without an input file.
func TestVerifyStageNeedsNoInput(t *testing.T) {
	dir := t.TempDir()
	cli := &scaffold.Cli{Command: "verify", Name: "quadratic", ConfigPath: dir, DataPath: dir}
	err := scaffold.Run(quadratic.Circuit, cli)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "read input")
	assert.Contains(t, err.Error(), filepath.Join(dir, "quadratic.vk"))
}

func TestUnknownCommandRejected(t *testing.T) {
	dir := t.TempDir()
	cli := &scaffold.Cli{Command: "bench", Name: "quadratic", ConfigPath: dir, DataPath: dir}
	err := scaffold.Run(quadratic.Circuit, cli)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}
