package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/peloton/config"
)

// TestLayoutField verifies the grid size, identities, leaders and placement bounds
func TestLayoutField(t *testing.T) {
	cfg := config.Default()
	riders := LayoutField(cfg)
	require.Len(t, riders, cfg.Field.Teams*cfg.Field.RidersPerTeam)

	maxLane := cfg.MaxLaneOffset()
	seen := map[int]bool{}
	leaders := map[int]int{}
	minBase, maxBase := 0.0, 0.0
	for i, r := range riders {
		assert.Equal(t, i+1, int(r.ID))
		assert.False(t, seen[int(r.ID)])
		seen[int(r.ID)] = true
		if r.IsLeader {
			leaders[r.Team]++
		}
		assert.Less(t, r.TrackDist, 0.0)
		assert.Equal(t, -1, r.Lap)
		assert.InDelta(t, cfg.Track.Length+r.TrackDist, r.PrevDist, 1e-9)
		assert.LessOrEqual(t, r.LaneOffset, maxLane)
		assert.GreaterOrEqual(t, r.LaneOffset, -maxLane)
		minBase = min(minBase, r.BaseLaneOffset)
		maxBase = max(maxBase, r.BaseLaneOffset)
	}
	assert.Len(t, leaders, cfg.Field.Teams)
	for team, n := range leaders {
		assert.Equal(t, 1, n, "team %d", team)
	}
	assert.InDelta(t, -maxLane, minBase, 1e-9)
	assert.InDelta(t, maxLane, maxBase, 1e-9)
}

// TestLayoutFieldSeeded verifies the jitter is reproducible per seed
func TestLayoutFieldSeeded(t *testing.T) {
	cfg := smallConfig()
	a, b := LayoutField(cfg), LayoutField(cfg)
	for i := range a {
		assert.Equal(t, a[i].TrackDist, b[i].TrackDist)
		assert.Equal(t, a[i].LaneOffset, b[i].LaneOffset)
	}

	cfg.Field.Seed = 99
	c := LayoutField(cfg)
	differs := false
	for i := range a {
		if a[i].TrackDist != c[i].TrackDist {
			differs = true
		}
	}
	assert.True(t, differs)
}
