/*
Package deploy orchestrates building the contract wasm artifact and
deploying it to a network through the external near CLI. Both
pipelines are strictly sequential and fail-fast: the first failing
step aborts the run and the underlying tool's diagnostics are passed
through as-is.
*/
package deploy

import (
	"context"
	"os"
	"os/exec"

	"go.uber.org/zap"
)

// Runner executes external commands. The build and deploy pipelines go
// through it so tests can substitute the compiler and network CLI.
type Runner interface {
	// Run executes name with args in dir (the current directory when
	// dir is empty), streaming its output to the operator.
	Run(ctx context.Context, dir, name string, args ...string) error
}

// ExecRunner runs commands through os/exec with inherited stdio.
type ExecRunner struct {
	log *zap.Logger
}

// NewExecRunner creates a Runner logging each command it executes.
func NewExecRunner(log *zap.Logger) *ExecRunner {
	return &ExecRunner{log: log}
}

// Run implements the Runner interface.
func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	r.log.Info("running command", zap.String("cmd", name), zap.Strings("args", args), zap.String("dir", dir))
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
