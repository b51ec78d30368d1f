package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/peloton/event"
	"github.com/lixenwraith/peloton/rider"
)

// TestIntensityAttack verifies the attack level, gauge drain and exhaustion
func TestIntensityAttack(t *testing.T) {
	f := newFixture(t)
	r := f.add(t, 1, 0, 100, 0)
	r.IsAttacking = true
	sys := NewIntensitySystem(f.ctx)

	sys.Update(f.ctx, 0.1)
	assert.Equal(t, 95.0, r.Intensity)
	assert.InDelta(t, 95, r.AttackGauge, 1e-9)

	r.SetAttackGauge(2)
	sys.Update(f.ctx, 0.1)
	assert.False(t, r.IsAttacking)
	assert.Equal(t, 0.0, r.AttackGauge)
	assert.Equal(t, r.BaseIntensity, r.Intensity)
	require.Len(t, f.rec.ofType(event.EventAttackEnded), 1)

	sys.Update(f.ctx, 0.1)
	assert.InDelta(t, 1, r.AttackGauge, 1e-9)
}

// TestIntensityModes verifies the solo, follower and pull shortcuts
func TestIntensityModes(t *testing.T) {
	f := newFixture(t)
	lead := f.add(t, 1, 0, 200, 0)
	lead.Mode = rider.ModeSolo
	lead.SetBaseIntensity(85)

	dropped := f.add(t, 2, 0, 150, 0)
	dropped.SetBaseIntensity(80)

	puller := f.add(t, 3, 1, 100, 0)
	puller.Mode = rider.ModeRelay
	puller.SetRelaySetting(65)
	puller.RelayPhase = rider.PhasePull

	NewIntensitySystem(f.ctx).Update(f.ctx, testDT)
	assert.Equal(t, 85.0, lead.Intensity)
	assert.Equal(t, 50.0, dropped.Intensity)
	assert.Equal(t, 65.0, puller.Intensity)
}

// TestIntensityFloorsAndPeloton verifies role floors, following and the rejoin ramp
func TestIntensityFloorsAndPeloton(t *testing.T) {
	f := newFixture(t)
	front := f.add(t, 1, 0, 200, 0)
	front.Mode = rider.ModeSolo
	front.SetBaseIntensity(60)
	front.Intensity = 60

	wheel := f.add(t, 2, 1, 198, 0)
	wheel.Mode = rider.ModeRelay
	wheel.SetBaseIntensity(40)

	chaser := f.add(t, 3, 1, 196, 0)
	chaser.Mode = rider.ModeRelay
	chaser.RelayChasing = true

	escapee := f.add(t, 4, 2, 195, 0)
	escapee.Mode = rider.ModeRelay
	escapee.InBreakaway = true

	gapped := f.add(t, 5, 2, 150, 0)
	gapped.Mode = rider.ModeRelay
	gapped.SetBaseIntensity(30)
	gapped.Intensity = 40

	NewIntensitySystem(f.ctx).Update(f.ctx, 0.5)
	assert.Equal(t, 60.0, wheel.Intensity)
	assert.Equal(t, 70.0, chaser.Intensity)
	assert.Equal(t, 75.0, escapee.Intensity)
	assert.InDelta(t, 45, gapped.Intensity, 1e-9)
}

// TestIntensityLeaderAtLimit verifies a flat-out leader lifts the non-solo field
func TestIntensityLeaderAtLimit(t *testing.T) {
	f := newFixture(t)
	lead := f.add(t, 1, 0, 200, 0)
	lead.Mode = rider.ModeSolo
	lead.SetBaseIntensity(100)

	pack := f.add(t, 2, 1, 100, 0)
	solo := f.add(t, 3, 2, 90, 0)
	solo.Mode = rider.ModeSolo
	attacker := f.add(t, 4, 3, 80, 0)
	attacker.IsAttacking = true

	NewIntensitySystem(f.ctx).Update(f.ctx, testDT)
	assert.Equal(t, 100.0, pack.Intensity)
	assert.Equal(t, 50.0, solo.Intensity)
	assert.Equal(t, 95.0, attacker.Intensity)
}

// TestIntensityChangeEvents verifies one event per changed rider and none for steady riders
func TestIntensityChangeEvents(t *testing.T) {
	f := newFixture(t)
	steady := f.add(t, 1, 0, 100, 0)
	steady.Mode = rider.ModeSolo
	changed := f.add(t, 2, 1, 50, 0)
	changed.Mode = rider.ModeSolo
	changed.SetBaseIntensity(72)

	sys := NewIntensitySystem(f.ctx)
	sys.Update(f.ctx, testDT)
	evs := f.rec.ofType(event.EventIntensityChange)
	require.Len(t, evs, 1)
	p := evs[0].Payload.(*event.IntensityChangePayload)
	assert.Equal(t, 2, p.Rider)
	assert.Equal(t, 50.0, p.Previous)
	assert.Equal(t, 72.0, p.Current)

	sys.Update(f.ctx, testDT)
	assert.Len(t, f.rec.ofType(event.EventIntensityChange), 1)
}
