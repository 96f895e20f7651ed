// SPDX-License-Identifier: MPL-2.0

package moduleinfo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// DefaultBuildCommand builds the index target with make. The command sees
// ROOT (repository root) and TARGET (index path relative to ROOT).
const DefaultBuildCommand = `make -j -C "$ROOT" "$TARGET"`

// ErrIndexMissing is returned by Ensure when the index is absent and no builder is configured.
var ErrIndexMissing = errors.New("module index not found")

type (
	// Builder generates the module index file.
	Builder interface {
		Build(ctx context.Context, root, target string) error
	}

	// ShellBuilder runs a shell command line with the embedded sh interpreter.
	ShellBuilder struct {
		// Command is the shell source to run. Empty means DefaultBuildCommand.
		Command string
		// Env holds extra KEY=VALUE pairs appended to the process environment.
		Env    []string
		Stdout io.Writer
		Stderr io.Writer
	}

	// BuildError reports a build command that exited unsuccessfully.
	BuildError struct {
		Command  string
		Target   string
		ExitCode int
	}
)

func (e *BuildError) Error() string {
	return fmt.Sprintf("build of %s failed with exit code %d (command: %s)", e.Target, e.ExitCode, e.Command)
}

// Build runs the configured command in root.
func (b *ShellBuilder) Build(ctx context.Context, root, target string) error {
	command := b.Command
	if strings.TrimSpace(command) == "" {
		command = DefaultBuildCommand
	}

	prog, err := syntax.NewParser().Parse(strings.NewReader(command), "build_command")
	if err != nil {
		return fmt.Errorf("parse build command: %w", err)
	}

	env := append(os.Environ(), b.Env...)
	env = append(env, "ROOT="+root, "TARGET="+target)

	stdout, stderr := b.Stdout, b.Stderr
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	runner, err := interp.New(
		interp.Dir(root),
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(nil, stdout, stderr),
	)
	if err != nil {
		return fmt.Errorf("create shell runner: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return &BuildError{Command: command, Target: target, ExitCode: int(status)}
		}
		return fmt.Errorf("run build command: %w", err)
	}
	return nil
}

// IndexPath returns the location of the index file within outDir.
func IndexPath(outDir string) string {
	return filepath.Join(outDir, FileName)
}

// Ensure loads the index from outDir, generating it with builder first when
// the file does not exist. A nil builder makes a missing index an error.
func Ensure(ctx context.Context, root, outDir string, builder Builder, logger *log.Logger) (*Index, error) {
	if outDir == "" {
		return nil, fmt.Errorf("%w: no output directory configured", ErrIndexMissing)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	file := IndexPath(outDir)
	if _, err := os.Stat(file); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat module index: %w", err)
		}
		if builder == nil {
			return nil, fmt.Errorf("%w: %s", ErrIndexMissing, file)
		}

		target := file
		if rel, relErr := filepath.Rel(root, file); relErr == nil && !strings.HasPrefix(rel, "..") {
			target = rel
		}
		logger.Info("Generating module-info.json, this is required for initial runs", "target", target)
		if err := builder.Build(ctx, root, target); err != nil {
			return nil, err
		}
	}

	logger.Debug("loading module index", "path", file)
	return Load(file)
}
