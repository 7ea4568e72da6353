package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ytget/cargo-manager/internal/model"
)

// FileName is the manifest file cargo looks for in a package directory
const FileName = "Cargo.toml"

// ErrNotFound is returned when the path holds no Cargo.toml
var ErrNotFound = errors.New("no Cargo.toml found")

// ParseError reports a manifest that exists but cannot be used
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type document struct {
	Package *packageSection `toml:"package"`
}

// packageSection keeps fields as primitives because any of them may be a
// table of the form { workspace = true } instead of a plain value.
type packageSection struct {
	Name        string         `toml:"name"`
	Version     toml.Primitive `toml:"version"`
	Authors     toml.Primitive `toml:"authors"`
	Description toml.Primitive `toml:"description"`
	License     toml.Primitive `toml:"license"`
	Repository  toml.Primitive `toml:"repository"`
	Edition     toml.Primitive `toml:"edition"`
}

type inherited struct {
	Workspace bool `toml:"workspace"`
}

// Locate resolves path to a manifest file. path may point at the manifest
// itself or at the directory containing it.
func Locate(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", ErrNotFound
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w at %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("stat %s: %w", path, err)
	}

	if info.IsDir() {
		path = filepath.Join(path, FileName)
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return "", fmt.Errorf("%w in %s", ErrNotFound, filepath.Dir(path))
			}
			return "", fmt.Errorf("stat %s: %w", path, err)
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	return abs, nil
}

// ForPath reads the package metadata of the manifest at (or in) path
func ForPath(path string) (*model.PackageInfo, error) {
	manifestPath, err := Locate(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", manifestPath, err)
	}

	info, err := Parse(data)
	if err != nil {
		return nil, &ParseError{Path: manifestPath, Err: err}
	}
	info.ManifestPath = manifestPath
	info.Dir = filepath.Dir(manifestPath)
	return info, nil
}

// Parse decodes manifest contents
func Parse(data []byte) (*model.PackageInfo, error) {
	var doc document
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, err
	}

	info := &model.PackageInfo{Workspace: md.IsDefined("workspace")}
	if doc.Package == nil {
		if info.Workspace {
			return info, nil
		}
		return nil, errors.New("manifest has neither [package] nor [workspace]")
	}

	p := doc.Package
	if strings.TrimSpace(p.Name) == "" {
		return nil, errors.New("package.name is missing")
	}
	info.Name = p.Name

	fields := []struct {
		key string
		raw toml.Primitive
		dst *string
	}{
		{"version", p.Version, &info.Version},
		{"description", p.Description, &info.Description},
		{"license", p.License, &info.License},
		{"repository", p.Repository, &info.Repository},
		{"edition", p.Edition, &info.Edition},
	}
	for _, f := range fields {
		if !md.IsDefined("package", f.key) {
			continue
		}
		v, err := decodeString(md, f.raw)
		if err != nil {
			return nil, fmt.Errorf("package.%s: %w", f.key, err)
		}
		*f.dst = v
	}

	if md.IsDefined("package", "authors") {
		authors, err := decodeStrings(md, p.Authors)
		if err != nil {
			return nil, fmt.Errorf("package.authors: %w", err)
		}
		info.Authors = authors
	}

	return info, nil
}

func decodeString(md toml.MetaData, raw toml.Primitive) (string, error) {
	var s string
	if err := md.PrimitiveDecode(raw, &s); err == nil {
		return s, nil
	}
	var inh inherited
	if err := md.PrimitiveDecode(raw, &inh); err == nil && inh.Workspace {
		return model.InheritedField, nil
	}
	return "", errors.New("expected a string or { workspace = true }")
}

func decodeStrings(md toml.MetaData, raw toml.Primitive) ([]string, error) {
	var list []string
	if err := md.PrimitiveDecode(raw, &list); err == nil {
		return list, nil
	}
	var inh inherited
	if err := md.PrimitiveDecode(raw, &inh); err == nil && inh.Workspace {
		return []string{model.InheritedField}, nil
	}
	return nil, errors.New("expected an array of strings or { workspace = true }")
}
