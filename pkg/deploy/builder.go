package deploy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kballard/go-shellquote"
	"github.com/nearlabs/nftoken/pkg/config"
	"go.uber.org/zap"
)

// ErrEmptyBuildCommand is returned when the configuration has no
// compile command.
var ErrEmptyBuildCommand = errors.New("build command is not configured")

// Builder compiles the contract to a wasm artifact and places it at
// the fixed output path.
type Builder struct {
	cfg config.BuildConfiguration
	run Runner
	log *zap.Logger
}

// NewBuilder creates a Builder with the given configuration.
func NewBuilder(cfg config.BuildConfiguration, run Runner, log *zap.Logger) *Builder {
	return &Builder{cfg: cfg, run: run, log: log}
}

// OutPath is the fixed path the built binary ends up at.
func (b *Builder) OutPath() string {
	return filepath.Join(b.cfg.OutDir, b.cfg.OutName)
}

// Build runs the compile command, optionally strips the artifact and
// copies it to OutPath, removing any prior file there first. Any
// failing step aborts the build.
func (b *Builder) Build(ctx context.Context) (string, error) {
	if b.cfg.Command == "" {
		return "", ErrEmptyBuildCommand
	}
	words, err := shellquote.Split(b.cfg.Command)
	if err != nil {
		return "", fmt.Errorf("malformed build command: %w", err)
	}
	if err := b.run.Run(ctx, b.cfg.WorkDir, words[0], words[1:]...); err != nil {
		return "", fmt.Errorf("compilation failed: %w", err)
	}

	artifact := filepath.Join(b.cfg.WorkDir, b.cfg.Artifact)
	if b.cfg.StripCommand != "" {
		words, err := shellquote.Split(b.cfg.StripCommand)
		if err != nil {
			return "", fmt.Errorf("malformed strip command: %w", err)
		}
		if err := b.run.Run(ctx, "", words[0], append(words[1:], artifact)...); err != nil {
			return "", fmt.Errorf("stripping failed: %w", err)
		}
	}

	if err := os.MkdirAll(b.cfg.OutDir, 0755); err != nil {
		return "", err
	}
	out := b.OutPath()
	if err := os.RemoveAll(out); err != nil {
		return "", err
	}
	data, err := os.ReadFile(artifact)
	if err != nil {
		return "", fmt.Errorf("missing build artifact: %w", err)
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return "", err
	}
	b.log.Info("contract built", zap.String("artifact", out), zap.Int("size", len(data)))
	return out, nil
}
