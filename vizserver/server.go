// Package vizserver streams race snapshots and events to external viewers over HTTP and websocket
package vizserver

import (
	"context"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/lixenwraith/peloton/event"
	"github.com/lixenwraith/peloton/parameter"
	"github.com/lixenwraith/peloton/sim"
	"github.com/lixenwraith/peloton/status"
)

// Source is the race the server publishes
type Source interface {
	Snapshot() sim.Snapshot
	Status() *status.Registry
	Events() *event.Bus
}

// Server serves the race over HTTP; one goroutine per websocket watcher
type Server struct {
	src      Source
	interval time.Duration
	logger   *log.Logger
	watchers *watcherSet
	upgrader websocket.Upgrader
	router   *mux.Router
}

// New builds a server streaming at interval, parameter.VizStreamInterval when interval <= 0
func New(src Source, interval time.Duration, logger *log.Logger) *Server {
	if interval <= 0 {
		interval = parameter.VizStreamInterval
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &Server{
		src:      src,
		interval: interval,
		logger:   logger,
		watchers: newWatcherSet(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	router := mux.NewRouter()
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	router.HandleFunc("/snapshot", s.handleSnapshot).Methods(http.MethodGet)
	router.HandleFunc("/snapshot/riders/{id:[0-9]+}", s.handleRider).Methods(http.MethodGet)
	router.HandleFunc("/ws", s.handleWebsocket).Methods(http.MethodGet)
	s.router = router
	return s
}

// Handler returns the route table
func (s *Server) Handler() http.Handler { return s.router }

// Watchers returns the number of connected websocket clients
func (s *Server) Watchers() int { return s.watchers.size() }

// ListenAndServe serves on addr until ctx is done, then closes every watcher
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Printf("viz: listening on %s", addr)

	select {
	case err := <-errCh:
		return errors.Wrapf(err, "viz listen %s", addr)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), parameter.VizWriteTimeout)
	defer cancel()
	s.watchers.closeAll()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "viz shutdown")
	}
	return nil
}
