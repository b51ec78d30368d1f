package vizserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/lixenwraith/peloton/core"
)

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Printf("viz: encode response: %v", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("ok\n"))
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	snap := s.src.Snapshot()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"session":  snap.Session,
		"tick":     snap.Tick,
		"watchers": s.watchers.size(),
		"metrics":  s.src.Status().Snapshot(),
	})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.src.Snapshot())
}

func (s *Server) handleRider(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad rider id"})
		return
	}
	rd, ok := s.src.Snapshot().Rider(id)
	if !ok {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown rider"})
		return
	}
	s.writeJSON(w, http.StatusOK, rd)
}

// handleWebsocket streams snapshots at the server interval, preceded by any events drained since the last frame
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("viz: upgrade: %v", err)
		return
	}

	wt := newWatcher(conn)
	bus := s.src.Events()
	wt.sub = bus.Subscribe(wt.queue)
	s.watchers.add(wt)
	s.logger.Printf("viz: watcher %s connected (%d)", wt.id, s.watchers.size())

	defer func() {
		bus.Unsubscribe(wt.sub)
		s.watchers.remove(wt.id)
		conn.Close()
		s.logger.Printf("viz: watcher %s left (%d)", wt.id, s.watchers.size())
	}()

	// Reading is mandatory to notice a client-side close
	closed := make(chan struct{})
	core.Go(func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	snap := s.src.Snapshot()
	err = wt.send(message{Type: msgInit, Data: initData{
		Session:     snap.Session,
		Watcher:     wt.id.String(),
		TrackLength: snap.TrackLength,
		RoadWidth:   snap.RoadWidth,
		IntervalMS:  s.interval.Milliseconds(),
	}})
	if err != nil {
		s.logger.Printf("viz: init %s: %v", wt.id, err)
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case <-ticker.C:
			if evs := wt.queue.Drain(); len(evs) > 0 {
				if err := wt.send(message{Type: msgEvents, Data: evs}); err != nil {
					s.logger.Printf("viz: write %s: %v", wt.id, err)
					return
				}
			}
			if err := wt.send(message{Type: msgSnapshot, Data: s.src.Snapshot()}); err != nil {
				s.logger.Printf("viz: write %s: %v", wt.id, err)
				return
			}
		}
	}
}
