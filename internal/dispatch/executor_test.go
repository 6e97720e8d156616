// internal/dispatch/executor_test.go
package dispatch

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalCommand(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("no sh")
	}
	out := filepath.Join(t.TempDir(), "out.txt")
	err := Local{}.Submit(context.Background(), &Task{Command: &Command{
		Tool: "sh", Path: "sh", Args: []string{"-c", "echo hello"}, Stdout: out,
	}})
	require.NoError(t, err)
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(b))

	err = Local{}.Submit(context.Background(), &Task{Command: &Command{
		Tool: "sh", Path: "sh", Args: []string{"-c", "echo broken >&2; exit 3"},
	}})
	var ef *ExternalToolFailure
	require.ErrorAs(t, err, &ef)
	assert.Equal(t, 3, ef.ExitCode)
	assert.Equal(t, "broken", ef.Stderr)
}

func TestLocalMissingBinary(t *testing.T) {
	err := Local{}.Submit(context.Background(), &Task{Command: &Command{
		Tool: "impute2", Path: filepath.Join(t.TempDir(), "impute2"),
	}})
	var ef *ExternalToolFailure
	require.ErrorAs(t, err, &ef)
	assert.Equal(t, -1, ef.ExitCode)
}

func TestLocalInternal(t *testing.T) {
	boom := errors.New("boom")
	err := Local{}.Submit(context.Background(), &Task{Run: func(context.Context) error { return boom }})
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, Local{}.Submit(context.Background(), &Task{}), ErrNoWork)
}
