// Package manifest reads package metadata out of Cargo.toml files.
package manifest
