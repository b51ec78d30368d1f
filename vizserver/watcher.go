package vizserver

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lixenwraith/peloton/event"
	"github.com/lixenwraith/peloton/parameter"
)

// message is the envelope of every websocket frame
type message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Message types
const (
	msgInit     = "init"
	msgSnapshot = "snapshot"
	msgEvents   = "events"
)

// initData is sent once when a watcher connects
type initData struct {
	Session     string  `json:"session"`
	Watcher     string  `json:"watcher"`
	TrackLength float64 `json:"track_length"`
	RoadWidth   float64 `json:"road_width"`
	IntervalMS  int64   `json:"interval_ms"`
}

// watcher is one websocket client with its own event backlog
type watcher struct {
	id    uuid.UUID
	conn  *websocket.Conn
	queue *event.Queue
	sub   int
}

func newWatcher(conn *websocket.Conn) *watcher {
	return &watcher{
		id:    uuid.New(),
		conn:  conn,
		queue: event.NewQueue(),
	}
}

// send writes one frame; only the watcher's handler goroutine writes
func (w *watcher) send(m message) error {
	if err := w.conn.SetWriteDeadline(time.Now().Add(parameter.VizWriteTimeout)); err != nil {
		return err
	}
	return w.conn.WriteJSON(m)
}

type watcherSet struct {
	mu   sync.Mutex
	pool map[uuid.UUID]*watcher
}

func newWatcherSet() *watcherSet {
	return &watcherSet{pool: make(map[uuid.UUID]*watcher)}
}

func (s *watcherSet) add(w *watcher) {
	s.mu.Lock()
	s.pool[w.id] = w
	s.mu.Unlock()
}

func (s *watcherSet) remove(id uuid.UUID) {
	s.mu.Lock()
	delete(s.pool, id)
	s.mu.Unlock()
}

func (s *watcherSet) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pool)
}

// closeAll drops every connection; handlers notice through their read loop
func (s *watcherSet) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.pool {
		w.conn.Close()
	}
}
