package registry

// Package registry is a small client for the crates.io HTTP API. It only
// covers what the app needs: free-text crate search with typed errors, and
// client-side reordering of results.
