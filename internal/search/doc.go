package search

// Package search hands registry queries to background workers and delivers
// their results to the UI goroutine. Each submission is tagged with a
// generation so that a slow, superseded query can never overwrite the answer
// to a newer one.
