package selector

import (
	"errors"
	"fmt"

	"github.com/vidloop/vidloop/source"
)

var (
	// ErrPermissionDenied is shown when library access was refused.
	ErrPermissionDenied = errors.New("permission to access your videos was denied")

	// ErrSelectionCancelled is shown when the picker closed without a choice.
	ErrSelectionCancelled = errors.New("no video selected")
)

// PlaybackError reports a source the playback engine could not play.
type PlaybackError struct {
	Source source.Source
	Err    error
}

func (e *PlaybackError) Error() string {
	return fmt.Sprintf("cannot play %s: %v", e.Source, e.Err)
}

func (e *PlaybackError) Unwrap() error {
	return e.Err
}
