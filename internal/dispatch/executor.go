// internal/dispatch/executor.go
package dispatch

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
)

// Executor runs one task. Submit returns when the task has finished.
type Executor interface {
	Submit(ctx context.Context, t *Task) error
}

// ExecutorFunc adapts a func to Executor.
type ExecutorFunc func(ctx context.Context, t *Task) error

func (f ExecutorFunc) Submit(ctx context.Context, t *Task) error { return f(ctx, t) }

// Handle is an in-flight submission on an asynchronous substrate.
type Handle interface {
	Wait(ctx context.Context) error
}

// Starter launches tasks without waiting for them, like a batch scheduler.
type Starter interface {
	Start(ctx context.Context, t *Task) (Handle, error)
}

// Async turns a Starter into an Executor.
func Async(s Starter) Executor {
	return ExecutorFunc(func(ctx context.Context, t *Task) error {
		h, err := s.Start(ctx, t)
		if err != nil {
			return err
		}
		return h.Wait(ctx)
	})
}

const stderrTail = 2048

// Local runs internal tasks in-process and external tasks as child processes.
type Local struct{}

func (Local) Submit(ctx context.Context, t *Task) error {
	if t.Command == nil {
		if t.Run == nil {
			return ErrNoWork
		}
		return t.Run(ctx)
	}
	return runCommand(ctx, t.Command)
}

func runCommand(ctx context.Context, c *Command) error {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Dir = c.Dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if c.Stdout != "" {
		fh, err := os.Create(c.Stdout)
		if err != nil {
			return &ExternalToolFailure{Tool: c.Tool, ExitCode: -1, Err: err}
		}
		defer fh.Close()
		cmd.Stdout = fh
	}
	err := cmd.Run()
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	code := -1
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		code = ee.ExitCode()
	}
	return &ExternalToolFailure{Tool: c.Tool, ExitCode: code, Stderr: tail(stderr.String()), Err: err}
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > stderrTail {
		s = s[len(s)-stderrTail:]
	}
	return s
}
