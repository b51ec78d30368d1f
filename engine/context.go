package engine

import (
	"io"
	"log"
	"sort"

	"github.com/lixenwraith/peloton/config"
	"github.com/lixenwraith/peloton/event"
	"github.com/lixenwraith/peloton/physics"
	"github.com/lixenwraith/peloton/rider"
	"github.com/lixenwraith/peloton/status"
	"github.com/lixenwraith/peloton/track"
)

// Wind is the crosswind acting on the field
// Direction +1 blows from the inside edge outward, so shelter is found on the smaller offset side
type Wind struct {
	Direction int
	Strength  float64
}

// ClusterStats summarizes the relay line of one team
type ClusterStats struct {
	Count  int
	Mean   float64
	StdDev float64
}

// Context owns all mutable race state; systems receive it on every update
type Context struct {
	Config config.Config
	Track  track.Track

	Riders    []*rider.Rider // Ordered by ID
	Teams     map[int]*rider.TeamRelayState
	Breakaway BreakawayState
	Clusters  map[int]ClusterStats
	Wind      Wind

	Physics physics.Adapter
	Events  event.Sink
	Status  *status.Registry
	Log     *log.Logger

	Tick    int64
	Elapsed float64

	byID    map[rider.ID]*rider.Rider
	teamIDs []int
}

// NewContext creates an empty context; nil sink and logger fall back to discard
func NewContext(cfg config.Config, adapter physics.Adapter, sink event.Sink, logger *log.Logger) *Context {
	if sink == nil {
		sink = event.Discard
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Context{
		Config:   cfg,
		Track:    track.New(cfg.Track.Length, cfg.Track.RoadWidth),
		Teams:    make(map[int]*rider.TeamRelayState),
		Clusters: make(map[int]ClusterStats),
		Wind:     Wind{Direction: cfg.Wind.Direction, Strength: cfg.Wind.Strength},
		Physics:  adapter,
		Events:   sink,
		Status:   status.NewRegistry(),
		Log:      logger,
		byID:     make(map[rider.ID]*rider.Rider),
	}
}

// AddRider registers a rider and its team rotation state
func (c *Context) AddRider(r *rider.Rider) {
	c.byID[r.ID] = r
	i := sort.Search(len(c.Riders), func(i int) bool { return c.Riders[i].ID >= r.ID })
	c.Riders = append(c.Riders, nil)
	copy(c.Riders[i+1:], c.Riders[i:])
	c.Riders[i] = r

	if _, ok := c.Teams[r.Team]; !ok {
		c.Teams[r.Team] = rider.NewTeamRelayState()
		c.teamIDs = append(c.teamIDs, r.Team)
		sort.Ints(c.teamIDs)
	}
}

// Rider looks up a rider by ID
func (c *Context) Rider(id rider.ID) (*rider.Rider, bool) {
	r, ok := c.byID[id]
	return r, ok
}

// TeamIDs returns team numbers in ascending order
func (c *Context) TeamIDs() []int {
	return c.teamIDs
}

// TeamRiders returns the riders of a team in ID order
func (c *Context) TeamRiders(team int) []*rider.Rider {
	var out []*rider.Rider
	for _, r := range c.Riders {
		if r.Team == team {
			out = append(out, r)
		}
	}
	return out
}

// ByProgress returns the riders sorted by descending TrackDist, ties broken by ID
func (c *Context) ByProgress() []*rider.Rider {
	return SortByProgress(c.Riders)
}

// ByRoad returns the riders in physical order on the loop, walking back from the race leader
// A lapped rider sorts among the riders it is actually riding with
func (c *Context) ByRoad() []*rider.Rider {
	return SortByRoad(c.Riders, c.Track.Length)
}

// SortByRoad orders riders by forward distance behind the furthest-progressed rider, ties broken by ID
func SortByRoad(riders []*rider.Rider, length float64) []*rider.Rider {
	out := SortByProgress(riders)
	if len(out) == 0 {
		return out
	}
	front := out[0].TrackDist
	sort.SliceStable(out, func(i, j int) bool {
		bi := track.AheadDistance(out[i].TrackDist, front, length)
		bj := track.AheadDistance(out[j].TrackDist, front, length)
		if bi != bj {
			return bi < bj
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// SortByProgress returns a copy of riders sorted by descending TrackDist, ties broken by ID
func SortByProgress(riders []*rider.Rider) []*rider.Rider {
	out := make([]*rider.Rider, len(riders))
	copy(out, riders)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TrackDist != out[j].TrackDist {
			return out[i].TrackDist > out[j].TrackDist
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Emit stamps the current tick and forwards to the sink
func (c *Context) Emit(t event.EventType, payload any) {
	c.Events.Emit(event.Event{Type: t, Payload: payload, Tick: c.Tick})
}

// MaxLaneOffset returns the lateral clamp for riders
func (c *Context) MaxLaneOffset() float64 {
	return c.Config.MaxLaneOffset()
}
