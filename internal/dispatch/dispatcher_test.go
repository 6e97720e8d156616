// internal/dispatch/dispatcher_test.go
package dispatch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"guidance/core/stage"
	"guidance/internal/artifact"
)

type world struct {
	t   *testing.T
	dir string
	mu  sync.Mutex
	ran []string
}

func newWorld(t *testing.T) *world { return &world{t: t, dir: t.TempDir()} }

func (w *world) art(name string) artifact.Artifact {
	return artifact.Artifact{ID: artifact.ID(filepath.Join(w.dir, name)), Kind: artifact.Filtered}
}

// internal builds a task that writes its outputs after recording its start.
func (w *world) internal(id string, ins []string, outs ...string) *Task {
	t := &Task{ID: id, Stage: stage.MergeTwoChunks}
	for _, in := range ins {
		t.Inputs = append(t.Inputs, w.art(in).ID)
	}
	for _, o := range outs {
		t.Outputs = append(t.Outputs, w.art(o))
	}
	t.Run = func(context.Context) error {
		for _, in := range t.Inputs {
			if !artifact.Exists(string(in)) {
				return errors.New("input missing: " + string(in))
			}
		}
		w.mu.Lock()
		w.ran = append(w.ran, id)
		w.mu.Unlock()
		for _, o := range t.Outputs {
			if err := os.WriteFile(o.Path(), []byte("x\n"), 0o644); err != nil {
				return err
			}
		}
		return nil
	}
	return t
}

func (w *world) external(id string, ins []string, outs ...string) *Task {
	t := w.internal(id, ins, outs...)
	t.Stage = stage.ImputeWithImpute
	t.Command = &Command{Tool: "impute2", Path: "impute2"}
	return t
}

func indexOf(xs []string, s string) int {
	for i, x := range xs {
		if x == s {
			return i
		}
	}
	return -1
}

func TestRunOrdersByArtifacts(t *testing.T) {
	defer goleak.VerifyNone(t)
	w := newWorld(t)
	tasks := []*Task{
		w.internal("join", []string{"l", "r"}, "top"),
		w.internal("left", []string{"root"}, "l"),
		w.internal("right", []string{"root"}, "r"),
		w.internal("root", nil, "root"),
	}
	rep, err := New(Local{}, Options{Parallel: 3}).Run(context.Background(), tasks)
	require.NoError(t, err)
	require.NoError(t, rep.Err())
	assert.Equal(t, 4, rep.Count(Completed))
	assert.Less(t, indexOf(w.ran, "root"), indexOf(w.ran, "left"))
	assert.Less(t, indexOf(w.ran, "root"), indexOf(w.ran, "right"))
	assert.Equal(t, "join", w.ran[3])
}

func TestExternalFailureIsWarning(t *testing.T) {
	defer goleak.VerifyNone(t)
	w := newWorld(t)
	imp := w.external("impute", nil, "chunk.gen", "chunk.info")
	down := w.internal("filter", []string{"chunk.info"}, "filtered")
	exec := ExecutorFunc(func(ctx context.Context, t *Task) error {
		if t.Command != nil {
			return &ExternalToolFailure{Tool: t.Command.Tool, ExitCode: 1, Err: errors.New("exit status 1")}
		}
		return Local{}.Submit(ctx, t)
	})
	rep, err := New(exec, Options{}).Run(context.Background(), []*Task{imp, down})
	require.NoError(t, err)
	require.NoError(t, rep.Err())

	res, _ := rep.Lookup("impute")
	assert.Equal(t, Warned, res.Outcome)
	assert.ElementsMatch(t, artifact.IDs(imp.Outputs...), res.Placeholders)
	var tf *ExternalToolFailure
	require.ErrorAs(t, res.Err, &tf)
	assert.Equal(t, 1, tf.ExitCode)

	res, _ = rep.Lookup("filter")
	assert.Equal(t, Completed, res.Outcome)
	assert.Len(t, rep.Warnings(), 1)
}

func TestInternalFailureSkipsSubtree(t *testing.T) {
	defer goleak.VerifyNone(t)
	w := newWorld(t)
	bad := w.internal("bad", nil, "a")
	bad.Run = func(context.Context) error { return errors.New("header mismatch") }
	tasks := []*Task{
		bad,
		w.internal("child", []string{"a"}, "b"),
		w.internal("grandchild", []string{"b"}, "c"),
		w.internal("other", nil, "z"),
	}
	rep, err := New(Local{}, Options{Parallel: 2}).Run(context.Background(), tasks)
	require.NoError(t, err)

	var inf *InternalFailure
	require.ErrorAs(t, rep.Err(), &inf)
	assert.Equal(t, "bad", inf.Task)
	assert.Equal(t, 1, rep.Count(Failed))
	assert.Equal(t, 2, rep.Count(Skipped))
	res, _ := rep.Lookup("grandchild")
	assert.ErrorIs(t, res.Err, ErrUpstream)
	res, _ = rep.Lookup("other")
	assert.Equal(t, Completed, res.Outcome)
	assert.NoFileExists(t, w.art("c").Path())
}

func TestInternalMissingOutputFails(t *testing.T) {
	defer goleak.VerifyNone(t)
	w := newWorld(t)
	lazy := w.internal("lazy", nil, "never")
	lazy.Run = func(context.Context) error { return nil }
	rep, err := New(Local{}, Options{}).Run(context.Background(), []*Task{lazy})
	require.NoError(t, err)
	assert.ErrorIs(t, rep.Err(), ErrMissingOutput)
}

func TestGraphValidation(t *testing.T) {
	w := newWorld(t)
	err := Validate([]*Task{w.internal("a", nil, "x"), w.internal("b", nil, "x")})
	assert.ErrorIs(t, err, ErrDuplicateProducer)

	err = Validate([]*Task{w.internal("a", []string{"y"}, "x"), w.internal("b", []string{"x"}, "y")})
	assert.ErrorIs(t, err, ErrCycle)

	err = Validate([]*Task{w.internal("a", nil, "x"), w.internal("a", nil, "y")})
	assert.ErrorIs(t, err, ErrDuplicateTask)

	_, err = New(Local{}, Options{}).Run(context.Background(), []*Task{w.internal("a", []string{"a"}, "a")})
	assert.ErrorIs(t, err, ErrCycle)
}

func TestParallelBound(t *testing.T) {
	defer goleak.VerifyNone(t)
	w := newWorld(t)
	var cur, peak atomic.Int32
	exec := ExecutorFunc(func(ctx context.Context, t *Task) error {
		n := cur.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		cur.Add(-1)
		return t.Run(ctx)
	})
	var tasks []*Task
	for _, n := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		tasks = append(tasks, w.internal(n, nil, n))
	}
	rep, err := New(exec, Options{Parallel: 2}).Run(context.Background(), tasks)
	require.NoError(t, err)
	require.NoError(t, rep.Err())
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

type recorder struct {
	mu  sync.Mutex
	got map[string]Outcome
}

func (r *recorder) Record(_ context.Context, res Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got[res.TaskID] = res.Outcome
	return nil
}

type handle struct{ ch chan error }

func (h handle) Wait(ctx context.Context) error {
	select {
	case err := <-h.ch:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

type starter struct{}

func (starter) Start(ctx context.Context, t *Task) (Handle, error) {
	h := handle{ch: make(chan error, 1)}
	go func() { h.ch <- Local{}.Submit(ctx, t) }()
	return h, nil
}

func TestAsyncExecutorAndRecorder(t *testing.T) {
	defer goleak.VerifyNone(t)
	w := newWorld(t)
	rec := &recorder{got: map[string]Outcome{}}
	tasks := []*Task{
		w.internal("leaf", nil, "leaf"),
		w.internal("node", []string{"leaf"}, "node"),
	}
	rep, err := New(Async(starter{}), Options{Parallel: 4, Recorder: rec}).Run(context.Background(), tasks)
	require.NoError(t, err)
	require.NoError(t, rep.Err())
	assert.Equal(t, map[string]Outcome{"leaf": Completed, "node": Completed}, rec.got)
}

func TestCanceledRun(t *testing.T) {
	defer goleak.VerifyNone(t)
	w := newWorld(t)
	ctx, cancel := context.WithCancel(context.Background())
	first := w.internal("first", nil, "first")
	first.Run = func(ctx context.Context) error {
		cancel()
		<-ctx.Done()
		return ctx.Err()
	}
	rep, err := New(Local{}, Options{}).Run(ctx, []*Task{first, w.internal("second", []string{"first"}, "second")})
	require.NoError(t, err)
	assert.ErrorIs(t, rep.Err(), context.Canceled)
	res, _ := rep.Lookup("second")
	assert.Equal(t, Skipped, res.Outcome)
}

func TestCommandString(t *testing.T) {
	c := Command{Tool: "qctool", Path: "/opt/qctool", Args: []string{"-g", "in.gen", "-og", "out.gen"}, Stdout: "log.txt"}
	assert.Equal(t, "/opt/qctool -g in.gen -og out.gen > log.txt", c.String())
}
