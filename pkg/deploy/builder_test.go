package deploy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nearlabs/nftoken/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeRunner records executed commands and runs per-command hooks
// instead of real tools.
type fakeRunner struct {
	commands []string
	hooks    map[string]func() error
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{hooks: make(map[string]func() error)}
}

func (r *fakeRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	line := strings.Join(append([]string{name}, args...), " ")
	r.commands = append(r.commands, line)
	for pfx, hook := range r.hooks {
		if strings.HasPrefix(line, pfx) {
			return hook()
		}
	}
	return nil
}

func testBuildConfig(t *testing.T) config.BuildConfiguration {
	dir := t.TempDir()
	return config.BuildConfiguration{
		WorkDir:  filepath.Join(dir, "contract"),
		Command:  "cargo build --target wasm32-unknown-unknown --release",
		Artifact: "target/contract.wasm",
		OutDir:   filepath.Join(dir, "out"),
		OutName:  "main.wasm",
	}
}

// writeArtifact simulates a successful compiler run.
func writeArtifact(cfg config.BuildConfiguration, content string) func() error {
	return func() error {
		path := filepath.Join(cfg.WorkDir, cfg.Artifact)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		return os.WriteFile(path, []byte(content), 0644)
	}
}

func TestBuild(t *testing.T) {
	cfg := testBuildConfig(t)
	run := newFakeRunner()
	run.hooks["cargo build"] = writeArtifact(cfg, "\x00asm")

	b := NewBuilder(cfg, run, zaptest.NewLogger(t))
	out, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.OutDir, "main.wasm"), out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "\x00asm", string(data))

	require.Len(t, run.commands, 1)
	assert.Equal(t, "cargo build --target wasm32-unknown-unknown --release", run.commands[0])
}

func TestBuildReplacesPriorArtifact(t *testing.T) {
	cfg := testBuildConfig(t)
	run := newFakeRunner()
	run.hooks["cargo build"] = writeArtifact(cfg, "new")

	b := NewBuilder(cfg, run, zaptest.NewLogger(t))
	require.NoError(t, os.MkdirAll(cfg.OutDir, 0755))
	require.NoError(t, os.WriteFile(b.OutPath(), []byte("old"), 0644))

	out, err := b.Build(context.Background())
	require.NoError(t, err)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestBuildStrip(t *testing.T) {
	cfg := testBuildConfig(t)
	cfg.StripCommand = "wasm-strip"
	run := newFakeRunner()
	run.hooks["cargo build"] = writeArtifact(cfg, "\x00asm")

	b := NewBuilder(cfg, run, zaptest.NewLogger(t))
	_, err := b.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, run.commands, 2)
	assert.Equal(t, fmt.Sprintf("wasm-strip %s", filepath.Join(cfg.WorkDir, cfg.Artifact)), run.commands[1])
}

func TestBuildFailures(t *testing.T) {
	cfg := testBuildConfig(t)

	t.Run("no command", func(t *testing.T) {
		c := cfg
		c.Command = ""
		_, err := NewBuilder(c, newFakeRunner(), zaptest.NewLogger(t)).Build(context.Background())
		require.ErrorIs(t, err, ErrEmptyBuildCommand)
	})

	t.Run("compiler error", func(t *testing.T) {
		run := newFakeRunner()
		run.hooks["cargo build"] = func() error { return errors.New("compilation error") }
		_, err := NewBuilder(cfg, run, zaptest.NewLogger(t)).Build(context.Background())
		require.ErrorContains(t, err, "compilation failed")
	})

	t.Run("missing artifact", func(t *testing.T) {
		// Compiler "succeeds" but produces nothing.
		_, err := NewBuilder(cfg, newFakeRunner(), zaptest.NewLogger(t)).Build(context.Background())
		require.ErrorContains(t, err, "missing build artifact")
	})
}
