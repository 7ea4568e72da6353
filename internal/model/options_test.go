package model

import (
	"reflect"
	"testing"
)

func TestParseAction(t *testing.T) {
	for _, name := range []string{"build", "test", "bench", "doc", "run", "publish", "update", "install", "init"} {
		a, err := ParseAction(name)
		if err != nil {
			t.Errorf("ParseAction(%s) returned error: %v", name, err)
		}
		if a.String() != name {
			t.Errorf("ParseAction(%s) = %s", name, a)
		}
	}

	if _, err := ParseAction("fmt"); err == nil {
		t.Error("Expected error for unknown action")
	}
}

func TestAction_Classification(t *testing.T) {
	tests := []struct {
		action  Action
		compile bool
		network bool
	}{
		{ActionBuild, true, false},
		{ActionTest, true, false},
		{ActionBench, true, false},
		{ActionDoc, true, false},
		{ActionRun, true, false},
		{ActionPublish, false, false},
		{ActionUpdate, false, true},
		{ActionInstall, false, true},
		{ActionInit, false, false},
	}

	for _, test := range tests {
		if got := test.action.IsCompileMode(); got != test.compile {
			t.Errorf("%s.IsCompileMode() = %v, expected %v", test.action, got, test.compile)
		}
		if got := test.action.NeedsNetwork(); got != test.network {
			t.Errorf("%s.NeedsNetwork() = %v, expected %v", test.action, got, test.network)
		}
	}
}

func TestDefaultCompileOptions(t *testing.T) {
	opts := DefaultCompileOptions()

	if opts.Jobs != DefaultJobs {
		t.Errorf("Expected %d jobs, got %d", DefaultJobs, opts.Jobs)
	}
	if opts.Mode != ActionBuild {
		t.Errorf("Expected build mode, got %s", opts.Mode)
	}
	if opts.Release {
		t.Error("Expected debug profile by default")
	}
}

func TestCompileOptions_WithModeCopiesSlices(t *testing.T) {
	opts := DefaultCompileOptions()
	opts.Features = []string{"serde"}

	test := opts.WithMode(ActionTest)
	test.Features[0] = "changed"

	if opts.Mode != ActionBuild || test.Mode != ActionTest {
		t.Errorf("Unexpected modes: %s, %s", opts.Mode, test.Mode)
	}
	if opts.Features[0] != "serde" {
		t.Error("WithMode should not share the features slice")
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"", nil},
		{"  ", nil},
		{"serde", []string{"serde"}},
		{"serde, derive  tokio", []string{"serde", "derive", "tokio"}},
		{"a,,b", []string{"a", "b"}},
	}

	for _, test := range tests {
		result := SplitList(test.input)
		if !reflect.DeepEqual(result, test.expected) {
			t.Errorf("SplitList(%q) = %v, expected %v", test.input, result, test.expected)
		}
	}
}

func TestPackageInfo_FirstAuthor(t *testing.T) {
	p := &PackageInfo{}
	if p.FirstAuthor() != "" {
		t.Error("Expected empty author")
	}
	p.Authors = []string{"Ferris <ferris@example.com>", "Other"}
	if p.FirstAuthor() != "Ferris <ferris@example.com>" {
		t.Errorf("Unexpected first author: %s", p.FirstAuthor())
	}

	v := &PackageInfo{Workspace: true}
	if !v.IsVirtual() {
		t.Error("Workspace manifest without package should be virtual")
	}
}
