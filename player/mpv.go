package player

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/vidloop/vidloop/constant"
	"github.com/vidloop/vidloop/key"
	"github.com/vidloop/vidloop/log"
	"github.com/vidloop/vidloop/where"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
	closeTimeout      = 3 * time.Second
)

// ErrNotRunning is returned by IPC calls made while mpv is down.
var ErrNotRunning = errors.New("mpv is not running")

// Options tune how mpv is launched.
type Options struct {
	Binary     string
	Loop       bool
	Fullscreen bool
}

// OptionsFromConfig reads Options from the video and player settings.
func OptionsFromConfig() Options {
	return Options{
		Binary:     viper.GetString(key.Player),
		Loop:       viper.GetBool(key.VideoLoop),
		Fullscreen: viper.GetBool(key.VideoFullscreen),
	}
}

// MPV implements Player using mpv's JSON-IPC protocol.
type MPV struct {
	options        Options
	socketPath     string
	cmd            *exec.Cmd
	exited         chan struct{}
	unlockRotation bool
	command        func(name string, args ...string) *exec.Cmd
	mu             sync.Mutex // guards socket writes
}

// NewMPV returns an idle mpv backend.
func NewMPV(options Options) *MPV {
	if options.Binary == "" {
		options.Binary = "mpv"
	}

	exited := make(chan struct{})
	close(exited)

	return &MPV{
		options: options,
		exited:  exited,
		command: exec.Command,
	}
}

// Play loads target. A running instance is reused via loadfile; otherwise
// mpv is started and Play waits for its IPC socket.
func (m *MPV) Play(target string, title string) error {
	safeTarget, err := sanitizeMediaTarget(target)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}
	safeTitle := sanitizeTitle(title)

	if m.IsRunning() {
		if _, err := m.sendCommand([]any{"loadfile", safeTarget, "replace"}); err != nil {
			return fmt.Errorf("load %s: %w", safeTarget, err)
		}
		return m.Set("force-media-title", safeTitle)
	}

	return m.launch(safeTarget, safeTitle)
}

func (m *MPV) launch(target, title string) error {
	if m.socketPath == "" {
		m.socketPath = filepath.Join(where.Temp(), fmt.Sprintf("%s-%s.sock", constant.App, uuid.NewString()[:8]))
	}

	m.cmd = m.command(m.options.Binary, m.args(target, title)...)
	m.cmd.SysProcAttr = sysProcAttr()
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	exited := make(chan struct{})
	m.exited = exited
	cmd := m.cmd
	go func() {
		_ = cmd.Wait()
		close(exited)
	}()

	if err := m.waitForSocket(); err != nil {
		select {
		case <-exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = killProcess(cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	log.Infof("mpv started on %s playing %s", m.socketPath, target)
	return nil
}

// args builds the mpv command line. The user's mpv.conf is respected:
// only surface-related switches are passed.
func (m *MPV) args(target, title string) []string {
	args := []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", m.socketPath),
		fmt.Sprintf("--force-media-title=%s", title),
		fmt.Sprintf("--title=%s", title),
		"--force-window=yes",
		"--idle=yes",
	}

	if m.options.Loop {
		args = append(args, "--loop-file=inf")
	}
	if m.options.Fullscreen {
		args = append(args, "--fullscreen")
	}
	if m.unlockRotation {
		args = append(args, "--video-rotate=no")
	}

	// "--" ends option parsing so a target can never be read as a flag.
	return append(args, "--", target)
}

// UnlockRotation drops rotation metadata so the picture follows the window.
func (m *MPV) UnlockRotation() {
	m.unlockRotation = true
	if !m.IsRunning() {
		return
	}

	go func() {
		if err := m.Set("video-rotate", "no"); err != nil {
			log.Warnf("unlock rotation: %v", err)
		}
	}()
}

// Resume clears the pause flag.
func (m *MPV) Resume() error {
	if !m.IsRunning() {
		return ErrNotRunning
	}
	return m.Set("pause", false)
}

// Set assigns an mpv property.
func (m *MPV) Set(property string, value any) error {
	_, err := m.sendCommand([]any{"set_property", property, value})
	return err
}

// Wait returns a channel closed when the mpv process exits.
func (m *MPV) Wait() <-chan struct{} {
	return m.exited
}

// Socket returns the IPC socket path.
func (m *MPV) Socket() string {
	return m.socketPath
}

// IsRunning reports whether mpv is responding to IPC commands.
func (m *MPV) IsRunning() bool {
	if m.socketPath == "" {
		return false
	}

	select {
	case <-m.exited:
		return false
	default:
	}

	_, err := m.sendCommand([]any{"get_property", "pid"})
	return err == nil
}

// Close quits mpv, killing it when it does not exit in time.
func (m *MPV) Close() error {
	if m.socketPath == "" {
		return nil
	}

	_, _ = m.sendCommand([]any{"quit"})

	select {
	case <-m.exited:
	case <-time.After(closeTimeout):
		_ = killProcess(m.cmd)
	}

	_ = os.Remove(m.socketPath)
	return nil
}

func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return errors.New("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			_ = conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// sanitizeMediaTarget validates that a target is safe to pass to mpv.
func sanitizeMediaTarget(target string) (string, error) {
	t := strings.TrimSpace(target)
	if t == "" {
		return "", errors.New("empty target")
	}

	if strings.ContainsAny(t, "\x00\n\r") {
		return "", errors.New("invalid control characters in target")
	}

	if strings.HasPrefix(t, "-") {
		return "", errors.New("target must not start with '-'")
	}

	if scheme, _, ok := strings.Cut(t, "://"); ok {
		switch strings.ToLower(scheme) {
		case "av":
			// lavfi filter graphs are not URLs
			return t, nil
		case "http", "https", "file":
			if _, err := url.Parse(t); err != nil {
				return "", fmt.Errorf("invalid URL: %w", err)
			}
			return t, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", scheme)
		}
	}

	return filepath.Clean(t), nil
}

func sanitizeTitle(title string) string {
	r := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "")
	return strings.TrimSpace(r.Replace(title))
}
