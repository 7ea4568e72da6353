package model

import "fmt"

// Action is a cargo subcommand the app can run on behalf of the user
type Action string

const (
	ActionBuild   Action = "build"
	ActionTest    Action = "test"
	ActionBench   Action = "bench"
	ActionDoc     Action = "doc"
	ActionRun     Action = "run"
	ActionPublish Action = "publish"
	ActionUpdate  Action = "update"
	ActionInstall Action = "install"
	ActionInit    Action = "init"
)

// CompileModes lists the actions that go through cargo's compile pipeline
var CompileModes = []Action{ActionBuild, ActionTest, ActionBench, ActionDoc, ActionRun}

// String returns the cargo subcommand name
func (a Action) String() string {
	return string(a)
}

// IsCompileMode reports whether the action is one of build/test/bench/doc/run
func (a Action) IsCompileMode() bool {
	for _, m := range CompileModes {
		if m == a {
			return true
		}
	}
	return false
}

// NeedsNetwork reports whether the action talks to the registry and may fail transiently
func (a Action) NeedsNetwork() bool {
	return a == ActionInstall || a == ActionUpdate
}

// ParseAction converts a subcommand name into an Action
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionBuild, ActionTest, ActionBench, ActionDoc, ActionRun,
		ActionPublish, ActionUpdate, ActionInstall, ActionInit:
		return a, nil
	}
	return "", fmt.Errorf("unknown action: %q", s)
}
