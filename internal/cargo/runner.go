package cargo

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/ytget/cargo-manager/internal/model"
	"github.com/ytget/cargo-manager/internal/platform"
)

// Runner constants
const (
	DefaultBinary = "cargo"
	TailLines     = 20
	MaxLineSize   = 1024 * 1024
	WaitDelay     = 2 * time.Second
)

// LineFunc receives each output line of a running cargo process
type LineFunc func(line string)

// CommandError reports a cargo process that exited unsuccessfully
type CommandError struct {
	Action   model.Action
	ExitCode int
	Tail     []string // last output lines, oldest first
	Err      error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("cargo %s failed", e.Action)
	if e.ExitCode >= 0 {
		msg += fmt.Sprintf(" (exit code %d)", e.ExitCode)
	}
	if last := e.LastLine(); last != "" {
		msg += ": " + last
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// LastLine returns the most informative tail line, preferring cargo's error lines
func (e *CommandError) LastLine() string {
	for i := len(e.Tail) - 1; i >= 0; i-- {
		if strings.HasPrefix(e.Tail[i], "error") {
			return e.Tail[i]
		}
	}
	if len(e.Tail) > 0 {
		return e.Tail[len(e.Tail)-1]
	}
	return ""
}

// Output returns the captured tail as a single string
func (e *CommandError) Output() string {
	return strings.Join(e.Tail, "\n")
}

// Runner executes cargo subcommands
type Runner struct {
	binary string
	env    []string
}

// NewRunner creates a runner for the cargo executable at binary.
// An empty binary means "cargo" looked up on PATH.
func NewRunner(binary string) *Runner {
	if strings.TrimSpace(binary) == "" {
		binary = DefaultBinary
	}
	return &Runner{binary: binary}
}

// WithEnv returns a copy of the runner that adds env to every process
func (r *Runner) WithEnv(env ...string) *Runner {
	cp := *r
	cp.env = append(append([]string(nil), r.env...), env...)
	return &cp
}

// Binary returns the cargo executable the runner invokes
func (r *Runner) Binary() string {
	return r.binary
}

// Compile runs build, test, bench or doc in dir according to opts.Mode
func (r *Runner) Compile(ctx context.Context, dir string, opts model.CompileOptions, onLine LineFunc) error {
	if !opts.Mode.IsCompileMode() || opts.Mode == model.ActionRun {
		return fmt.Errorf("not a compile mode: %q", opts.Mode)
	}
	return r.exec(ctx, opts.Mode, dir, BuildArgs(opts, nil), onLine)
}

// Run builds and runs the package binary, passing args to it
func (r *Runner) Run(ctx context.Context, dir string, opts model.CompileOptions, args []string, onLine LineFunc) error {
	opts = opts.WithMode(model.ActionRun)
	return r.exec(ctx, model.ActionRun, dir, BuildArgs(opts, args), onLine)
}

// Install installs crate name from registry (empty for the default one)
func (r *Runner) Install(ctx context.Context, registry, name string, opts model.CompileOptions, onLine LineFunc) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("crate name is empty")
	}
	return r.exec(ctx, model.ActionInstall, "", InstallArgs(registry, name, opts), onLine)
}

// Init creates a new package, creating o.Path first if needed
func (r *Runner) Init(ctx context.Context, o model.NewOptions, onLine LineFunc) error {
	if strings.TrimSpace(o.Path) == "" {
		return errors.New("package path is empty")
	}
	if err := platform.CreateDirectoryIfNotExists(o.Path); err != nil {
		return fmt.Errorf("create package directory: %w", err)
	}
	return r.exec(ctx, model.ActionInit, o.Path, InitArgs(o), onLine)
}

// Publish uploads the package in dir to its registry
func (r *Runner) Publish(ctx context.Context, dir string, opts model.CompileOptions, onLine LineFunc) error {
	return r.exec(ctx, model.ActionPublish, dir, PublishArgs(opts), onLine)
}

// Update refreshes Cargo.lock in dir
func (r *Runner) Update(ctx context.Context, dir string, offline bool, onLine LineFunc) error {
	return r.exec(ctx, model.ActionUpdate, dir, UpdateArgs(offline), onLine)
}

// DocIndexPath returns where cargo doc writes the index page of crate
func DocIndexPath(dir, crate, target string) string {
	parts := []string{dir, "target"}
	if target != "" {
		parts = append(parts, target)
	}
	parts = append(parts, "doc", strings.ReplaceAll(crate, "-", "_"), "index.html")
	return filepath.Join(parts...)
}

// exec starts cargo and streams its merged stdout/stderr line by line.
// A cancelled ctx kills the process and is returned as ctx.Err().
func (r *Runner) exec(ctx context.Context, action model.Action, dir string, args []string, onLine LineFunc) error {
	cmd := exec.CommandContext(ctx, r.binary, args...)
	cmd.Dir = dir
	cmd.WaitDelay = WaitDelay
	if len(r.env) > 0 {
		cmd.Env = append(cmd.Environ(), r.env...)
	}

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	log.Printf("cargo: running %s %s in %q", r.binary, strings.Join(args, " "), dir)

	if err := cmd.Start(); err != nil {
		pw.Close()
		pr.Close()
		return fmt.Errorf("failed to start %s: %w", r.binary, err)
	}

	tail := newTail(TailLines)
	done := make(chan struct{})
	go func() {
		defer close(done)
		scanner := bufio.NewScanner(pr)
		scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
		for scanner.Scan() {
			line := strings.TrimRight(scanner.Text(), "\r")
			tail.add(line)
			if onLine != nil {
				onLine(line)
			}
		}
		// keep the writer side from blocking if the scanner gave up early
		_, _ = io.Copy(io.Discard, pr)
	}()

	err := cmd.Wait()
	pw.Close()
	<-done

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return &CommandError{Action: action, ExitCode: code, Tail: tail.lines(), Err: err}
	}
	return nil
}

// tail keeps the last n lines written to it
type tail struct {
	buf  []string
	size int
}

func newTail(n int) *tail {
	return &tail{size: n}
}

func (t *tail) add(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	t.buf = append(t.buf, line)
	if len(t.buf) > t.size {
		t.buf = t.buf[len(t.buf)-t.size:]
	}
}

func (t *tail) lines() []string {
	return append([]string(nil), t.buf...)
}
