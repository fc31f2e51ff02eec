package ui

import "time"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconFolder   = "📁"
	IconCopy     = "📋"
	IconClose    = "×"
	IconError    = "❌"
	IconRetry    = "↻"
)

// Text fragments
const (
	MiddleDotSeparator = " · "
	DashPlaceholder    = "—"
)

// Layout sizing (RecordRow / lists)
const (
	StatusLabelWidth float32 = 110
	RowMinWidth      float32 = 420
	RowMinHeight     float32 = 72
)

// Toast notification sizing and behavior
const (
	ToastWidth    float32 = 300
	ToastHeight   float32 = 120
	ToastMargin   float32 = 20
	ToastAutoHide         = 5 * time.Second
)
