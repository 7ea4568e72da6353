package model

// Package model defines domain data structures shared across the app: registry
// crates and result sets, cargo actions and their options, local package
// metadata, and background jobs with their status transitions.
