package selector

import (
	"context"

	"github.com/vidloop/vidloop/log"
	"github.com/vidloop/vidloop/source"
	"github.com/vidloop/vidloop/store"
)

// Engine plays sources.
type Engine interface {
	Play(src source.Source) error
	Resume(src source.Source) error
}

// Env holds the collaborators Apply runs effects against.
// A nil Engine skips playback effects.
type Env struct {
	Store  store.Store
	Engine Engine
}

// Apply carries out storage and playback effects in order and returns the
// interactive effects left for the user interface. The first playback
// failure is returned as a *PlaybackError; later effects still run.
//
// Storage failures are logged and otherwise ignored: the in-memory state
// stays authoritative for the running session.
func Apply(ctx context.Context, env Env, effects []Effect) ([]Effect, error) {
	var (
		interactive []Effect
		failure     error
	)

	for _, e := range effects {
		if err := ctx.Err(); err != nil {
			return interactive, err
		}

		if e.Interactive() {
			interactive = append(interactive, e)
			continue
		}

		switch e.Kind {
		case EffectPersist:
			if err := env.Store.Set(store.RefKey, e.Ref); err != nil {
				log.Warnf("persist clip reference: %v", err)
			}
		case EffectErase:
			if err := env.Store.Remove(store.RefKey); err != nil {
				log.Warnf("erase clip reference: %v", err)
			}
		case EffectPlay, EffectResume:
			if env.Engine == nil {
				continue
			}

			var err error
			if e.Kind == EffectPlay {
				err = env.Engine.Play(e.Source)
			} else {
				err = env.Engine.Resume(e.Source)
			}

			if err != nil && failure == nil {
				log.Errorf("%s %s: %v", e.Kind, e.Source, err)
				failure = &PlaybackError{Source: e.Source, Err: err}
			}
		}
	}

	return interactive, failure
}
