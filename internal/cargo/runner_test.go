package cargo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/cargo-manager/internal/model"
)

// fakeCargo writes a shell script standing in for cargo and returns its path
func fakeCargo(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake cargo script needs a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "cargo")
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

type lineCollector struct {
	mu    sync.Mutex
	lines []string
}

func (c *lineCollector) add(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, line)
}

func (c *lineCollector) all() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.lines...)
}

func TestCompile_StreamsMergedOutput(t *testing.T) {
	bin := fakeCargo(t, `echo "args: $*"
echo "   Compiling hello v0.1.0" >&2
echo "pwd: $(pwd)"`)
	dir := t.TempDir()

	var out lineCollector
	err := NewRunner(bin).Compile(context.Background(), dir, model.DefaultCompileOptions(), out.add)
	require.NoError(t, err)

	lines := out.all()
	require.Len(t, lines, 3)
	assert.Equal(t, "args: build --color never --jobs 8", lines[0])
	assert.Contains(t, lines, "   Compiling hello v0.1.0")

	resolved, _ := filepath.EvalSymlinks(dir)
	pwd := strings.TrimPrefix(lines[2], "pwd: ")
	resolvedPwd, _ := filepath.EvalSymlinks(pwd)
	assert.Equal(t, resolved, resolvedPwd)
}

func TestCompile_RejectsRunMode(t *testing.T) {
	err := NewRunner("cargo").Compile(context.Background(), t.TempDir(), model.CompileOptions{Mode: model.ActionRun}, nil)
	assert.Error(t, err)
}

func TestRun_FailureIsCommandError(t *testing.T) {
	bin := fakeCargo(t, `echo "   Compiling hello v0.1.0"
echo "error[E0425]: cannot find value x in this scope" >&2
echo "error: could not compile hello" >&2
echo "warning: build failed, waiting for other jobs" >&2
exit 101`)

	err := NewRunner(bin).Run(context.Background(), t.TempDir(), model.DefaultCompileOptions(), []string{"a"}, nil)
	require.Error(t, err)

	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, model.ActionRun, cmdErr.Action)
	assert.Equal(t, 101, cmdErr.ExitCode)
	assert.Len(t, cmdErr.Tail, 4)
	assert.Equal(t, "error: could not compile hello", cmdErr.LastLine())
	assert.Contains(t, cmdErr.Error(), "cargo run failed (exit code 101)")
	assert.Contains(t, cmdErr.Output(), "E0425")
}

func TestCommandError_TailIsBounded(t *testing.T) {
	bin := fakeCargo(t, `i=0
while [ $i -lt 50 ]; do echo "line $i"; i=$((i+1)); done
exit 1`)

	err := NewRunner(bin).Update(context.Background(), t.TempDir(), false, nil)
	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Len(t, cmdErr.Tail, TailLines)
	assert.Equal(t, "line 49", cmdErr.LastLine())
	assert.Equal(t, "line 30", cmdErr.Tail[0])
}

func TestInstall_PassesRegistry(t *testing.T) {
	bin := fakeCargo(t, `echo "$*"`)

	var out lineCollector
	err := NewRunner(bin).Install(context.Background(), "corp", "ripgrep", model.CompileOptions{}, out.add)
	require.NoError(t, err)
	assert.Equal(t, []string{"install --color never --registry corp ripgrep"}, out.all())

	err = NewRunner(bin).Install(context.Background(), "", " ", model.CompileOptions{}, nil)
	assert.Error(t, err)
}

func TestInit_CreatesDirectory(t *testing.T) {
	bin := fakeCargo(t, `echo "$*"`)
	target := filepath.Join(t.TempDir(), "new", "pkg")

	var out lineCollector
	err := NewRunner(bin).Init(context.Background(), model.NewOptions{Path: target, Kind: model.KindBin}, out.add)
	require.NoError(t, err)

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, []string{"init --color never --bin " + target}, out.all())
}

func TestCancelledContextStopsProcess(t *testing.T) {
	bin := fakeCargo(t, `echo started
sleep 10`)

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	var once sync.Once

	errCh := make(chan error, 1)
	go func() {
		errCh <- NewRunner(bin).Publish(ctx, t.TempDir(), model.CompileOptions{}, func(string) {
			once.Do(func() { close(started) })
		})
	}()

	<-started
	cancel()

	select {
	case err := <-errCh:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(5 * time.Second):
		t.Fatal("process was not stopped")
	}
}

func TestMissingBinary(t *testing.T) {
	err := NewRunner(filepath.Join(t.TempDir(), "no-cargo")).Update(context.Background(), t.TempDir(), false, nil)
	require.Error(t, err)
	var cmdErr *CommandError
	assert.False(t, errors.As(err, &cmdErr))
	assert.Contains(t, err.Error(), "failed to start")
}

func TestWithEnv(t *testing.T) {
	bin := fakeCargo(t, `echo "$CARGO_TERM_PROGRESS_WHEN"`)

	var out lineCollector
	r := NewRunner(bin).WithEnv("CARGO_TERM_PROGRESS_WHEN=never")
	require.NoError(t, r.Update(context.Background(), t.TempDir(), false, out.add))
	assert.Equal(t, []string{"never"}, out.all())
	assert.Equal(t, DefaultBinary, NewRunner("").Binary())
}
