// Package cargo drives the cargo executable: it builds argument lists for
// each supported action and runs them with merged, line-streamed output.
package cargo
