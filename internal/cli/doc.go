// Package cli implements the cargo-manager command line: the root command
// starts the desktop application, search queries crates.io headlessly and
// version prints build information.
package cli
