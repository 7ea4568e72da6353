package ui

// Package ui contains the Fyne desktop interface: the Local Package, Online
// Search and New Package pages, the options dialog and the jobs panel. Search
// results arrive from the search dispatcher and job updates from the jobs
// service; both are marshalled onto the UI goroutine with fyne.Do. All UI
// strings are localized via Localization.
