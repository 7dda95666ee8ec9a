package selector

import (
	"fmt"

	"github.com/vidloop/vidloop/source"
)

// EffectKind enumerates the side effects a transition can request.
type EffectKind int

const (
	// EffectPlay starts playback of Source.
	EffectPlay EffectKind = iota
	// EffectResume resumes playback of Source.
	EffectResume
	// EffectPersist writes Ref to the store.
	EffectPersist
	// EffectErase removes the persisted reference.
	EffectErase
	// EffectPresentMenu shows the selection menu.
	EffectPresentMenu
	// EffectRequestPermission asks for media library access.
	EffectRequestPermission
	// EffectPickVideo opens the media picker.
	EffectPickVideo
	// EffectNotice shows Err to the user.
	EffectNotice
)

var effectNames = map[EffectKind]string{
	EffectPlay:              "play",
	EffectResume:            "resume",
	EffectPersist:           "persist",
	EffectErase:             "erase",
	EffectPresentMenu:       "present-menu",
	EffectRequestPermission: "request-permission",
	EffectPickVideo:         "pick-video",
	EffectNotice:            "notice",
}

func (k EffectKind) String() string {
	if name, ok := effectNames[k]; ok {
		return name
	}
	return fmt.Sprintf("effect(%d)", int(k))
}

// Effect is a side effect requested by a transition.
type Effect struct {
	Kind   EffectKind
	Source source.Source
	Ref    string
	Err    error
}

// Interactive reports whether the effect needs the user interface to carry it out.
func (e Effect) Interactive() bool {
	switch e.Kind {
	case EffectPresentMenu, EffectRequestPermission, EffectPickVideo, EffectNotice:
		return true
	default:
		return false
	}
}

func play(s source.Source) Effect {
	return Effect{Kind: EffectPlay, Source: s}
}

func notice(err error) Effect {
	return Effect{Kind: EffectNotice, Err: err}
}
