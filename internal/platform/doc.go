package platform

// Package platform contains OS integration glue: filesystem helpers,
// per-package locks shared with other app instances, and OS open/reveal.
