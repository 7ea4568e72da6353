package jobs

import (
	"context"

	"github.com/ytget/cargo-manager/internal/cargo"
	"github.com/ytget/cargo-manager/internal/model"
)

// Manager defines the interface for the jobs service.
type Manager interface {
	SetUpdateCallback(func(*model.Job))
	Submit(spec Spec) (*model.Job, error)
	Get(id string) (*model.Job, bool)
	All() []*model.Job
	Stop(id string) error
	Remove(id string) error
	SetMaxParallel(max int)
	StopAll()
}

// Cargo is the part of the cargo runner the service drives
type Cargo interface {
	Compile(ctx context.Context, dir string, opts model.CompileOptions, onLine cargo.LineFunc) error
	Run(ctx context.Context, dir string, opts model.CompileOptions, args []string, onLine cargo.LineFunc) error
	Install(ctx context.Context, registry, name string, opts model.CompileOptions, onLine cargo.LineFunc) error
	Init(ctx context.Context, o model.NewOptions, onLine cargo.LineFunc) error
	Publish(ctx context.Context, dir string, opts model.CompileOptions, onLine cargo.LineFunc) error
	Update(ctx context.Context, dir string, offline bool, onLine cargo.LineFunc) error
}

var (
	_ Manager = (*Service)(nil)
	_ Cargo   = (*cargo.Runner)(nil)
)
