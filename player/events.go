package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/vidloop/vidloop/log"
)

// ErrPlaybackFailed is reported when mpv ends a file with an error.
var ErrPlaybackFailed = errors.New("playback failed")

// Event is a decoded mpv notification.
type Event struct {
	Name   string
	Reason string
	Data   any
	ID     int
}

// Failed reports whether the event ends playback with an error.
func (e Event) Failed() bool {
	return e.Name == "end-file" && e.Reason == "error"
}

// Err returns ErrPlaybackFailed for failing events, nil otherwise.
func (e Event) Err() error {
	if !e.Failed() {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrPlaybackFailed, e.Name)
}

type rawEvent struct {
	Event  string `json:"event"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
	Data   any    `json:"data"`
	ID     int    `json:"id"`
}

// EventCallback receives every event read from the socket.
type EventCallback func(Event)

// observed properties, keyed by observer id.
var observed = map[int]string{
	1: "pause",
	2: "eof-reached",
}

// EventListener follows mpv events over a dedicated connection.
type EventListener struct {
	socketPath string
	conn       net.Conn
	callback   EventCallback
	mu         sync.Mutex
	listening  bool
	done       chan struct{}
}

// NewEventListener creates a listener for socketPath.
func NewEventListener(socketPath string, callback EventCallback) *EventListener {
	return &EventListener{
		socketPath: socketPath,
		callback:   callback,
	}
}

// Start subscribes to property changes and begins the read loop.
func (el *EventListener) Start() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.listening {
		return nil
	}

	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	// observe_property only reports on the connection that issued it
	for id, name := range observed {
		payload, err := json.Marshal(ipcCommand{Command: []any{"observe_property", id, name}})
		if err != nil {
			_ = conn.Close()
			return err
		}
		if _, err := conn.Write(append(payload, '\n')); err != nil {
			_ = conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	el.conn = conn
	el.listening = true
	el.done = make(chan struct{})

	go el.readLoop(conn, el.done)

	log.Infof("mpv event listener started on %s", el.socketPath)
	return nil
}

// Stop closes the connection and waits for the read loop to finish.
func (el *EventListener) Stop() {
	el.mu.Lock()
	if !el.listening {
		el.mu.Unlock()
		return
	}
	_ = el.conn.Close()
	done := el.done
	el.mu.Unlock()

	<-done
}

func (el *EventListener) readLoop(r io.Reader, done chan struct{}) {
	defer func() {
		el.mu.Lock()
		el.listening = false
		el.mu.Unlock()
		close(done)
	}()

	el.consume(r)
}

// consume dispatches newline-delimited events until r is exhausted.
func (el *EventListener) consume(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		event, ok := decodeEvent(scanner.Bytes())
		if ok && el.callback != nil {
			el.callback(event)
		}
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		log.Warnf("event listener read error: %v", err)
	}
}

// decodeEvent parses one line. Command replies and junk are dropped.
func decodeEvent(line []byte) (Event, bool) {
	var raw rawEvent
	if err := json.Unmarshal(line, &raw); err != nil || raw.Event == "" {
		return Event{}, false
	}

	if raw.Event == "property-change" {
		return Event{Name: raw.Name, Data: raw.Data, ID: raw.ID}, raw.Name != ""
	}

	return Event{Name: raw.Event, Reason: raw.Reason, Data: raw.Data, ID: raw.ID}, true
}
