package ui

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconPlay     = "▶"
	IconStop     = "⏹"
	IconWaiting  = "⏳"
	IconFolder   = "📁"
	IconClose    = "×"
	IconError    = "❌"
	IconDone     = "✔"
)

// Text fragments
const (
	MiddleDotSeparator = " · "
	DashPlaceholder    = "—"
)

// Layout sizing (JobRow / jobs panel / results table)
const (
	StatusLabelWidth  float32 = 110
	ElapsedLabelWidth float32 = 64

	RowMinWidth  float32 = 360
	RowMinHeight float32 = 64

	ColumnPackageWidth     float32 = 180
	ColumnDescriptionWidth float32 = 380
	ColumnVersionWidth     float32 = 90
	ColumnDownloadsWidth   float32 = 110

	OutputDialogWidth  float32 = 640
	OutputDialogHeight float32 = 420

	OptionsDialogWidth  float32 = 520
	OptionsDialogHeight float32 = 560

	LogoSize float32 = 32
)
