package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ytget/cargo-manager/internal/model"
	"github.com/ytget/cargo-manager/internal/platform"
)

// Service limits
const (
	MinParallel       = 1
	MaxParallel       = 8
	DefaultParallel   = 2
	DefaultRetryDelay = 2 * time.Second
	MaxNetworkRetries = 1
	JobIDPrefix       = "job-"
)

var (
	// ErrAlreadyRunning is returned when the same action is already queued or running for a package
	ErrAlreadyRunning = errors.New("action already running for this package")

	// ErrJobNotFound is returned for unknown job IDs
	ErrJobNotFound = errors.New("job not found")
)

// Spec describes a cargo action to run
type Spec struct {
	Action   model.Action
	Dir      string               // package directory; unused for install
	Label    string               // display name, derived when empty
	Options  model.CompileOptions // compile knobs for build/test/bench/doc/run/install/publish
	Args     []string             // program arguments for run
	Registry string               // install: registry name, empty for default
	Crate    string               // install: crate to install
	New      model.NewOptions     // init: package to create
}

// key identifies duplicate work: the same action on the same package or crate
func (s Spec) key() string {
	subject := s.Dir
	switch s.Action {
	case model.ActionInstall:
		subject = s.Registry + "/" + s.Crate
	case model.ActionInit:
		subject = s.New.Path
	}
	if subject != "" && s.Action != model.ActionInstall {
		if abs, err := filepath.Abs(subject); err == nil {
			subject = abs
		}
	}
	return s.Action.String() + "\x00" + subject
}

func (s Spec) validate() error {
	if _, err := model.ParseAction(s.Action.String()); err != nil {
		return err
	}
	switch s.Action {
	case model.ActionInstall:
		if strings.TrimSpace(s.Crate) == "" {
			return errors.New("crate name is required")
		}
	case model.ActionInit:
		if strings.TrimSpace(s.New.Path) == "" {
			return errors.New("package path is required")
		}
	default:
		if strings.TrimSpace(s.Dir) == "" {
			return errors.New("package directory is required")
		}
	}
	return nil
}

type entry struct {
	job    *model.Job
	spec   Spec
	cancel context.CancelFunc
}

// Service runs cargo jobs
type Service struct {
	tasks       map[string]*entry
	order       []string // job IDs in submission order
	tasksMutex  sync.RWMutex
	maxParallel int
	activeCount int
	cargo       Cargo
	lockRoot    string
	retryDelay  time.Duration
	onUpdate    func(*model.Job) // callback for UI updates
}

// Option configures a Service
type Option func(*Service)

// WithLockRoot enables per-package locking with lock files under root
func WithLockRoot(root string) Option {
	return func(s *Service) {
		s.lockRoot = root
	}
}

// WithRetryDelay sets the backoff before retrying a network-bound job
func WithRetryDelay(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.retryDelay = d
		}
	}
}

// NewService creates a new jobs service
func NewService(runner Cargo, maxParallel int, opts ...Option) *Service {
	s := &Service{
		tasks:       make(map[string]*entry),
		maxParallel: clampParallel(maxParallel),
		cargo:       runner,
		retryDelay:  DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func clampParallel(n int) int {
	if n < MinParallel {
		return MinParallel
	}
	if n > MaxParallel {
		return MaxParallel
	}
	return n
}

// SetUpdateCallback sets the callback function for job updates. The callback
// receives a snapshot and runs on the goroutine that changed the job.
func (s *Service) SetUpdateCallback(callback func(*model.Job)) {
	s.tasksMutex.Lock()
	s.onUpdate = callback
	s.tasksMutex.Unlock()
}

// SetMaxParallel sets how many jobs may run at once, clamped to 1..8
func (s *Service) SetMaxParallel(max int) {
	s.tasksMutex.Lock()
	s.maxParallel = clampParallel(max)
	s.tasksMutex.Unlock()

	s.startPendingJobs()
}

// MaxParallelJobs returns the current parallelism limit
func (s *Service) MaxParallelJobs() int {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	return s.maxParallel
}

// Submit queues a job. It starts immediately when a slot is free.
func (s *Service) Submit(spec Spec) (*model.Job, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}
	if spec.Action == model.ActionInit && spec.New.Path != "" {
		spec.Dir = spec.New.Path
	}
	if spec.Label == "" {
		spec.Label = deriveLabel(spec)
	}

	s.tasksMutex.Lock()
	key := spec.key()
	for _, e := range s.tasks {
		if e.spec.key() == key && !e.job.Status.IsFinished() {
			s.tasksMutex.Unlock()
			return nil, fmt.Errorf("%w: %s", ErrAlreadyRunning, e.job.GetDisplayTitle())
		}
	}

	job := &model.Job{
		ID:        generateJobID(),
		Action:    spec.Action,
		Dir:       spec.Dir,
		Label:     spec.Label,
		Status:    model.JobStatusPending,
		StartedAt: time.Now(),
	}
	s.tasks[job.ID] = &entry{job: job, spec: spec}
	s.order = append(s.order, job.ID)
	snap := job.Snapshot()
	s.tasksMutex.Unlock()

	s.notifyUpdate(job)
	s.startPendingJobs()
	return snap, nil
}

func deriveLabel(spec Spec) string {
	switch spec.Action {
	case model.ActionInstall:
		return spec.Crate
	case model.ActionInit:
		if spec.New.Name != "" {
			return spec.New.Name
		}
		return filepath.Base(filepath.Clean(spec.New.Path))
	}
	return ""
}

// Get returns a snapshot of a job by ID
func (s *Service) Get(id string) (*model.Job, bool) {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	e, exists := s.tasks[id]
	if !exists {
		return nil, false
	}
	return e.job.Snapshot(), true
}

// All returns snapshots of all jobs in submission order
func (s *Service) All() []*model.Job {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()

	jobs := make([]*model.Job, 0, len(s.order))
	for _, id := range s.order {
		jobs = append(jobs, s.tasks[id].job.Snapshot())
	}
	return jobs
}

// Stop cancels a pending or running job
func (s *Service) Stop(id string) error {
	s.tasksMutex.Lock()
	e, exists := s.tasks[id]
	if !exists {
		s.tasksMutex.Unlock()
		return fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}

	job := e.job
	switch {
	case job.Status == model.JobStatusPending:
		job.Status = model.JobStatusStopped
		job.FinishedAt = time.Now()
	case job.Status.IsActive():
		job.Status = model.JobStatusStopping
		if e.cancel != nil {
			e.cancel()
		}
	default:
		s.tasksMutex.Unlock()
		return fmt.Errorf("job is not active: %s", job.Status)
	}
	s.tasksMutex.Unlock()

	s.notifyUpdate(job)
	return nil
}

// StopAll cancels every pending and running job
func (s *Service) StopAll() {
	for _, job := range s.All() {
		if !job.Status.IsFinished() {
			_ = s.Stop(job.ID)
		}
	}
}

// Remove forgets a finished job
func (s *Service) Remove(id string) error {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	e, exists := s.tasks[id]
	if !exists {
		return fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	if !e.job.Status.IsFinished() {
		return fmt.Errorf("cannot remove job in state %s", e.job.Status)
	}

	delete(s.tasks, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// startPendingJobs starts pending jobs in submission order while slots are
// free. A job whose package already has an active job stays pending, so jobs
// on one package run one after another in the order they were submitted.
func (s *Service) startPendingJobs() {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	busy := make(map[string]bool)
	for _, e := range s.tasks {
		if e.job.Status.IsActive() {
			if dir := packageKey(e.spec.Dir); dir != "" {
				busy[dir] = true
			}
		}
	}

	for _, id := range s.order {
		if s.activeCount >= s.maxParallel {
			return
		}
		e := s.tasks[id]
		if e.job.Status != model.JobStatusPending {
			continue
		}
		dir := packageKey(e.spec.Dir)
		if dir != "" {
			if busy[dir] {
				continue
			}
			busy[dir] = true
		}

		ctx, cancel := context.WithCancel(context.Background())
		e.cancel = cancel
		e.job.Status = model.JobStatusStarting
		s.activeCount++
		go s.runJob(ctx, e)
	}
}

// packageKey normalizes a package directory; empty for jobs without one
func packageKey(dir string) string {
	if strings.TrimSpace(dir) == "" {
		return ""
	}
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return filepath.Clean(dir)
}

// runJob performs the job on its own goroutine
func (s *Service) runJob(ctx context.Context, e *entry) {
	job := e.job
	s.notifyUpdate(job)

	defer func() {
		s.tasksMutex.Lock()
		s.activeCount--
		s.tasksMutex.Unlock()

		s.startPendingJobs()
	}()
	defer e.cancel()

	unlock, err := s.lockPackage(ctx, e.spec)
	if err != nil {
		s.finishJob(ctx, job, err)
		return
	}
	defer unlock()

	s.tasksMutex.Lock()
	if job.Status == model.JobStatusStarting {
		job.Status = model.JobStatusRunning
	}
	s.tasksMutex.Unlock()
	s.notifyUpdate(job)

	err = s.executeWithRetry(ctx, e)
	s.finishJob(ctx, job, err)
}

func (s *Service) lockPackage(ctx context.Context, spec Spec) (func(), error) {
	if s.lockRoot == "" || spec.Dir == "" {
		return func() {}, nil
	}
	return platform.LockDir(ctx, s.lockRoot, spec.Dir)
}

// executeWithRetry runs the action, retrying network-bound actions once
func (s *Service) executeWithRetry(ctx context.Context, e *entry) error {
	maxRetries := 0
	if e.spec.Action.NeedsNetwork() && !e.spec.Options.Offline {
		maxRetries = MaxNetworkRetries
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(s.retryDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
			log.Printf("Retrying %s for job %s, attempt %d", e.spec.Action, e.job.ID, attempt+1)
		}

		s.tasksMutex.Lock()
		e.job.Attempts++
		s.tasksMutex.Unlock()

		err := s.execute(ctx, e)
		if err == nil {
			return nil
		}

		lastErr = err
		log.Printf("%s attempt %d failed for job %s: %v", e.spec.Action, attempt+1, e.job.ID, err)

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	return lastErr
}

func (s *Service) execute(ctx context.Context, e *entry) error {
	spec := e.spec
	onLine := func(line string) {
		s.tasksMutex.Lock()
		e.job.AppendOutput(line)
		s.tasksMutex.Unlock()
		s.notifyUpdate(e.job)
	}

	switch spec.Action {
	case model.ActionRun:
		return s.cargo.Run(ctx, spec.Dir, spec.Options, spec.Args, onLine)
	case model.ActionBuild, model.ActionTest, model.ActionBench, model.ActionDoc:
		return s.cargo.Compile(ctx, spec.Dir, spec.Options.WithMode(spec.Action), onLine)
	case model.ActionPublish:
		return s.cargo.Publish(ctx, spec.Dir, spec.Options, onLine)
	case model.ActionUpdate:
		return s.cargo.Update(ctx, spec.Dir, spec.Options.Offline, onLine)
	case model.ActionInstall:
		return s.cargo.Install(ctx, spec.Registry, spec.Crate, spec.Options, onLine)
	case model.ActionInit:
		return s.cargo.Init(ctx, spec.New, onLine)
	default:
		return fmt.Errorf("unsupported action: %s", spec.Action)
	}
}

// finishJob records the final status of a job
func (s *Service) finishJob(ctx context.Context, job *model.Job, err error) {
	s.tasksMutex.Lock()
	switch {
	case ctx.Err() == context.Canceled:
		job.Status = model.JobStatusStopped
	case err != nil:
		job.Status = model.JobStatusFailed
		job.LastError = err.Error()
	default:
		job.Status = model.JobStatusSucceeded
	}
	job.FinishedAt = time.Now()
	s.tasksMutex.Unlock()

	s.notifyUpdate(job)
}

// notifyUpdate calls the update callback with a snapshot if set
func (s *Service) notifyUpdate(job *model.Job) {
	s.tasksMutex.RLock()
	callback := s.onUpdate
	snap := job.Snapshot()
	s.tasksMutex.RUnlock()

	if callback != nil {
		callback(snap)
	}
}

// generateJobID generates a unique, time-ordered job ID
func generateJobID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(JobIDPrefix+"%d", time.Now().UnixNano())
	}
	return JobIDPrefix + id.String()
}
