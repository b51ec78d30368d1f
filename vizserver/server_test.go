package vizserver

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/peloton/event"
	"github.com/lixenwraith/peloton/sim"
	"github.com/lixenwraith/peloton/status"
)

type fakeSource struct {
	bus *event.Bus
	reg *status.Registry
}

func (f *fakeSource) Snapshot() sim.Snapshot {
	return sim.Snapshot{
		Session:     "race-1",
		Tick:        42,
		TrackLength: 1000,
		RoadWidth:   12,
		Riders: []sim.RiderSnapshot{
			{ID: 1, Team: 0, TrackDist: 10, Mode: "follower"},
			{ID: 2, Team: 1, TrackDist: 20, Mode: "relay"},
		},
	}
}
func (f *fakeSource) Status() *status.Registry { return f.reg }
func (f *fakeSource) Events() *event.Bus       { return f.bus }

func newTestServer(t *testing.T) (*Server, *fakeSource, *httptest.Server) {
	t.Helper()
	src := &fakeSource{bus: event.NewBus(), reg: status.NewRegistry()}
	src.reg.Ints.Get(status.KeyTicks).Store(42)
	s := New(src, 10*time.Millisecond, nil)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, src, ts
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHTTPRoutes(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok\n", string(body))

	var snap sim.Snapshot
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/snapshot", &snap))
	assert.Equal(t, int64(42), snap.Tick)
	assert.Len(t, snap.Riders, 2)

	var rd sim.RiderSnapshot
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/snapshot/riders/2", &rd))
	assert.Equal(t, "relay", rd.Mode)
	assert.Equal(t, http.StatusNotFound, getJSON(t, ts.URL+"/snapshot/riders/9", nil))

	var st struct {
		Session  string         `json:"session"`
		Watchers int            `json:"watchers"`
		Metrics  map[string]any `json:"metrics"`
	}
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/status", &st))
	assert.Equal(t, "race-1", st.Session)
	assert.Equal(t, 0, st.Watchers)
	assert.EqualValues(t, 42, st.Metrics[status.KeyTicks])

	resp, err = http.Post(ts.URL+"/snapshot", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

type frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// TestWebsocketStream checks init, periodic snapshots, drained events and cleanup on close
func TestWebsocketStream(t *testing.T) {
	s, src, ts := newTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	var f frame
	require.NoError(t, conn.ReadJSON(&f))
	require.Equal(t, msgInit, f.Type)
	var init initData
	require.NoError(t, json.Unmarshal(f.Data, &init))
	assert.Equal(t, "race-1", init.Session)
	assert.NotEmpty(t, init.Watcher)
	assert.Equal(t, int64(10), init.IntervalMS)

	require.Eventually(t, func() bool { return src.bus.Len() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, s.Watchers())

	src.bus.Emit(event.Event{Type: event.EventAttackStarted, Payload: &event.AttackPayload{Rider: 2}, Tick: 7})

	var sawSnapshot bool
	var events []struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
		Tick    int64           `json:"tick"`
	}
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for events == nil || !sawSnapshot {
		require.NoError(t, conn.ReadJSON(&f))
		switch f.Type {
		case msgSnapshot:
			var snap sim.Snapshot
			require.NoError(t, json.Unmarshal(f.Data, &snap))
			assert.Equal(t, int64(42), snap.Tick)
			sawSnapshot = true
		case msgEvents:
			require.NoError(t, json.Unmarshal(f.Data, &events))
		}
	}
	require.Len(t, events, 1)
	assert.Equal(t, "attackStarted", events[0].Type)
	assert.Equal(t, int64(7), events[0].Tick)
	assert.JSONEq(t, `{"rider":2}`, string(events[0].Payload))

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return s.Watchers() == 0 && src.bus.Len() == 0 },
		2*time.Second, 5*time.Millisecond, "watcher unsubscribed after close")
}
