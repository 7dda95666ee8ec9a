// Package selector owns the active playback source and mediates every
// transition between the bundled default clip and a picked one.
//
// Transitions are pure: each method updates the in-memory state and returns
// the effects (persist, play, prompt) the caller must carry out. Apply runs
// the non-interactive ones against injected collaborators.
package selector

import (
	"errors"

	"github.com/samber/mo"
	"github.com/vidloop/vidloop/picker"
	"github.com/vidloop/vidloop/source"
)

// Choice is an entry of the selection menu.
type Choice int

const (
	ChoiceDefault Choice = iota
	ChoicePick
	ChoiceClearCache
	ChoiceCancel
)

var choiceLabels = map[Choice]string{
	ChoiceDefault:    "Use default clip",
	ChoicePick:       "Pick new clip",
	ChoiceClearCache: "Clear cache",
	ChoiceCancel:     "Cancel",
}

func (c Choice) String() string {
	return choiceLabels[c]
}

// Choices returns the menu entries in display order.
func Choices() []Choice {
	return []Choice{ChoiceDefault, ChoicePick, ChoiceClearCache, ChoiceCancel}
}

// phase tracks which modal collaborator call, if any, is outstanding.
type phase int

const (
	phaseIdle phase = iota
	phaseMenu
	phasePermission
	phasePicking
)

// Selector is the playback source state machine.
type Selector struct {
	active source.Source
	phase  phase
}

// New returns a Selector on the default source. Call Initialize before use.
func New() *Selector {
	return &Selector{active: source.Default()}
}

// Active returns the active source.
func (s *Selector) Active() source.Source {
	return s.active
}

// Pending reports whether a menu, permission prompt or picker is open.
func (s *Selector) Pending() bool {
	return s.phase != phaseIdle
}

// Initialize restores the active source from the persisted reference and
// starts playing it.
func (s *Selector) Initialize(persisted mo.Option[string]) []Effect {
	s.phase = phaseIdle
	s.active = source.Default()

	if ref, ok := persisted.Get(); ok {
		if external, err := source.External(ref); err == nil {
			s.active = external
		}
	}

	return []Effect{play(s.active)}
}

// ResumePlayback resumes the active source without changing it.
func (s *Selector) ResumePlayback() []Effect {
	return []Effect{{Kind: EffectResume, Source: s.active}}
}

// OpenSelectionMenu presents the menu. It does nothing while another modal call is open.
func (s *Selector) OpenSelectionMenu() []Effect {
	if s.Pending() {
		return nil
	}
	s.phase = phaseMenu
	return []Effect{{Kind: EffectPresentMenu}}
}

// Choose dispatches the menu choice.
func (s *Selector) Choose(c Choice) []Effect {
	if s.phase != phaseMenu {
		return nil
	}
	s.phase = phaseIdle

	switch c {
	case ChoiceDefault:
		return s.ResetToDefault()
	case ChoicePick:
		return s.SelectExternal()
	case ChoiceClearCache:
		return s.ClearCache()
	default:
		return nil
	}
}

// SelectExternal starts the pick flow by requesting library access.
func (s *Selector) SelectExternal() []Effect {
	if s.Pending() {
		return nil
	}
	s.phase = phasePermission
	return []Effect{{Kind: EffectRequestPermission}}
}

// PermissionResolved continues the pick flow with the permission answer.
func (s *Selector) PermissionResolved(p picker.Permission) []Effect {
	if s.phase != phasePermission {
		return nil
	}

	if p != picker.Granted {
		s.phase = phaseIdle
		return []Effect{notice(ErrPermissionDenied)}
	}

	s.phase = phasePicking
	return []Effect{{Kind: EffectPickVideo}}
}

// PickResolved completes the pick flow. A successful pick replaces the
// active source, persists its reference and plays it.
func (s *Selector) PickResolved(r picker.Result) []Effect {
	if s.phase != phasePicking {
		return nil
	}
	s.phase = phaseIdle

	if r.Canceled {
		return []Effect{notice(ErrSelectionCancelled)}
	}

	external, err := source.External(r.Reference)
	if err != nil {
		return []Effect{notice(ErrSelectionCancelled)}
	}

	s.active = external
	return []Effect{
		{Kind: EffectPersist, Ref: external.Ref()},
		play(external),
	}
}

// ResetToDefault switches to the default clip. The persisted reference is kept.
func (s *Selector) ResetToDefault() []Effect {
	s.active = source.Default()
	return []Effect{play(s.active)}
}

// ClearCache forgets the persisted reference and switches to the default clip.
func (s *Selector) ClearCache() []Effect {
	return append([]Effect{{Kind: EffectErase}}, s.ResetToDefault()...)
}

// PlaybackFailed reports a playback error. The active source is left as is.
func (s *Selector) PlaybackFailed(err error) []Effect {
	if err == nil {
		return nil
	}

	var pe *PlaybackError
	if !errors.As(err, &pe) {
		err = &PlaybackError{Source: s.active, Err: err}
	}
	return []Effect{notice(err)}
}
