// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Video Surface - these keys control what the looping surface shows and how.
const (
	VideoDefaultClip = "video.default_clip"
	VideoLoop        = "video.loop"
	VideoFullscreen  = "video.fullscreen"
)

// Media Playback - these keys select and tune the external playback engine.
const (
	Player = "player.default"
)

// Picker - these keys configure where and what the clip picker browses.
const (
	PickerDirectory  = "picker.directory"
	PickerExtensions = "picker.extensions"
)

// Persistence - these keys select the backend holding the chosen clip reference.
const (
	StoreBackend = "store.backend"
)

// Terminal User Interface (TUI)
const (
	TUIShowSource  = "tui.show_source"
	TUIItemSpacing = "tui.item_spacing"
	TUIShowTaps    = "tui.show_taps"
)

// Iconography
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment
const (
	CliColored = "cli.colored"
)
