// Package player drives the external playback engine behind the looping surface.
// The primary backend is mpv, controlled over its JSON-IPC socket.
package player

// Player is a playback backend.
type Player interface {
	// Play loads target, starting the backend when it is not running.
	Play(target string, title string) error

	// Resume clears the paused state.
	Resume() error

	// Set assigns a backend property.
	Set(property string, value any) error

	// IsRunning reports whether the backend answers commands.
	IsRunning() bool

	// Socket returns the IPC endpoint, empty before the first Play.
	Socket() string

	// Wait returns a channel closed when the backend process exits.
	Wait() <-chan struct{}

	// Close terminates the backend and releases its resources.
	Close() error
}

// Orientation is implemented by backends that can lift rotation locks.
type Orientation interface {
	// UnlockRotation lets the picture follow the display orientation. Fire and forget.
	UnlockRotation()
}
