// Package sitegen runs the external tools behind the mirror target: git for
// staging and pushing, hugo for rebuilding the site, and a plain folder copy
// for the local preview tree.
package sitegen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// TextCodeTransportFailed marks a failed external command.
const TextCodeTransportFailed = "TRANSPORT_FAILED"

// CommandRunner executes a command in dir.
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) (stdout []byte, stderr []byte, exitCode int, err error)
}

// ExecRunner executes commands on the local host.
type ExecRunner struct{}

// Run executes name with args in dir. Exit code 127 means the binary could
// not be started.
func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, []byte, int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.Bytes(), stderr.Bytes(), 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return stdout.Bytes(), stderr.Bytes(), exitErr.ExitCode(), err
	}

	exitCode := 1
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		exitCode = 127
	}
	return stdout.Bytes(), stderr.Bytes(), exitCode, err
}

func run(ctx context.Context, runner CommandRunner, dir, name string, args ...string) ([]byte, error) {
	stdout, stderr, code, err := runner.Run(ctx, dir, name, args...)
	if err == nil && code == 0 {
		return stdout, nil
	}
	if err == nil {
		err = fmt.Errorf("exit status %d", code)
	}
	return stdout, goerrors.Wrap(err, goerrors.CategoryExternal, fmt.Sprintf("sitegen: %s %s failed", name, firstArg(args))).
		WithTextCode(TextCodeTransportFailed).
		WithMetadata(map[string]any{
			"command":   name + " " + strings.Join(args, " "),
			"dir":       dir,
			"exit_code": code,
			"stderr":    strings.TrimSpace(string(stderr)),
		})
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
