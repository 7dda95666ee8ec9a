package player

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
	"github.com/vidloop/vidloop/constant"
	"github.com/vidloop/vidloop/filesystem"
	"github.com/vidloop/vidloop/key"
	"github.com/vidloop/vidloop/log"
	"github.com/vidloop/vidloop/source"
)

const eventBuffer = 16

// Target resolves the media target mpv should open for src.
func Target(src source.Source) string {
	if src.IsExternal() {
		return src.Ref()
	}

	if clip := strings.TrimSpace(viper.GetString(key.VideoDefaultClip)); clip != "" {
		return clip
	}
	return constant.BundledClip
}

// Title is the window title shown for src.
func Title(src source.Source) string {
	if !src.IsExternal() {
		return constant.App
	}
	return fmt.Sprintf("%s - %s", constant.App, filepath.Base(src.Ref()))
}

// Surface adapts a Player to the selector engine and relays its events.
type Surface struct {
	player   Player
	events   chan Event
	mu       sync.Mutex
	listener *EventListener
	watched  string
}

// NewSurface wraps p.
func NewSurface(p Player) *Surface {
	return &Surface{
		player: p,
		events: make(chan Event, eventBuffer),
	}
}

// Events delivers backend events once playback has started.
// Events are dropped while the buffer is full.
func (s *Surface) Events() <-chan Event {
	return s.events
}

// Player returns the wrapped backend.
func (s *Surface) Player() Player {
	return s.player
}

// Play loads src on the surface. Missing local files fail before mpv is touched.
func (s *Surface) Play(src source.Source) error {
	target := Target(src)

	if isLocal(target) {
		exists, err := filesystem.API().Exists(target)
		if err != nil {
			return fmt.Errorf("stat %s: %w", target, err)
		}
		if !exists {
			return fmt.Errorf("%w: %s does not exist", ErrPlaybackFailed, target)
		}
	}

	if err := s.player.Play(target, Title(src)); err != nil {
		return err
	}

	s.watch()
	return nil
}

// Resume continues src, relaunching it when the player has gone away.
func (s *Surface) Resume(src source.Source) error {
	if !s.player.IsRunning() {
		return s.Play(src)
	}
	return s.player.Resume()
}

// UnlockRotation forwards to the backend when it supports it.
func (s *Surface) UnlockRotation() {
	if o, ok := s.player.(Orientation); ok {
		o.UnlockRotation()
	}
}

// Close stops event delivery and shuts the backend down.
func (s *Surface) Close() error {
	s.mu.Lock()
	listener := s.listener
	s.listener = nil
	s.mu.Unlock()

	if listener != nil {
		listener.Stop()
	}
	return s.player.Close()
}

// watch (re)attaches the event listener to the backend socket.
// A restarted backend drops the old connection, so Start is retried on every play.
func (s *Surface) watch() {
	socket := s.player.Socket()
	if socket == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil || s.watched != socket {
		if s.listener != nil {
			s.listener.Stop()
		}
		s.listener = NewEventListener(socket, s.publish)
		s.watched = socket
	}

	if err := s.listener.Start(); err != nil {
		log.Warnf("watch player events: %v", err)
	}
}

func (s *Surface) publish(e Event) {
	select {
	case s.events <- e:
	default:
		log.Debugf("dropping player event %s", e.Name)
	}
}

func isLocal(target string) bool {
	return !strings.Contains(target, "://")
}
