package sim

import (
	"math"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/lixenwraith/peloton/engine"
	"github.com/lixenwraith/peloton/event"
	"github.com/lixenwraith/peloton/rider"
	"github.com/lixenwraith/peloton/vmath"
)

// Control writes are validated on call and applied at the start of the next tick
// Values are clamped to their domain rather than rejected

// SetBaseIntensity sets the rider's preferred effort
func (r *Race) SetBaseIntensity(id rider.ID, v float64) error {
	if math.IsNaN(v) {
		return errors.Wrapf(ErrInvalidControl, "rider %d base intensity is NaN", id)
	}
	return r.riderControl(id, func(rd *rider.Rider) { rd.SetBaseIntensity(v) })
}

// SetRelaySetting sets the rider's pull effort, zero opts out of the rotation
func (r *Race) SetRelaySetting(id rider.ID, v float64) error {
	if math.IsNaN(v) {
		return errors.Wrapf(ErrInvalidControl, "rider %d relay setting is NaN", id)
	}
	return r.riderControl(id, func(rd *rider.Rider) { rd.SetRelaySetting(v) })
}

// SetMode switches the rider's tactical mode
func (r *Race) SetMode(id rider.ID, m rider.Mode) error {
	if !m.Valid() {
		return errors.Wrapf(ErrInvalidControl, "mode %d", m)
	}
	return r.riderControl(id, func(rd *rider.Rider) { rd.Mode = m })
}

// SetProtectLeader makes the rider shadow its team leader and keeps the leader out of relays
func (r *Race) SetProtectLeader(id rider.ID, on bool) error {
	return r.riderControl(id, func(rd *rider.Rider) { rd.ProtectLeader = on })
}

// Attack launches a gauge-limited surge; ignored while already attacking or with an empty gauge
func (r *Race) Attack(id rider.ID) error {
	return r.riderControlCtx(id, func(ctx *engine.Context, rd *rider.Rider) {
		if rd.IsAttacking || rd.AttackGauge <= 0 {
			return
		}
		rd.IsAttacking = true
		r.statAttacks.Add(1)
		ctx.Emit(event.EventAttackStarted, &event.AttackPayload{Rider: int(rd.ID)})
	})
}

// SetTeamMode switches every rider of a team
func (r *Race) SetTeamMode(team int, m rider.Mode) error {
	if !m.Valid() {
		return errors.Wrapf(ErrInvalidControl, "mode %d", m)
	}
	return r.teamControl(team, func(rd *rider.Rider) { rd.Mode = m })
}

// SetTeamRelaySetting sets the pull effort of every rider of a team
func (r *Race) SetTeamRelaySetting(team int, v float64) error {
	if math.IsNaN(v) {
		return errors.Wrapf(ErrInvalidControl, "team %d relay setting is NaN", team)
	}
	return r.teamControl(team, func(rd *rider.Rider) { rd.SetRelaySetting(v) })
}

// SetTeamBaseIntensity sets the preferred effort of every rider of a team
func (r *Race) SetTeamBaseIntensity(team int, v float64) error {
	if math.IsNaN(v) {
		return errors.Wrapf(ErrInvalidControl, "team %d base intensity is NaN", team)
	}
	return r.teamControl(team, func(rd *rider.Rider) { rd.SetBaseIntensity(v) })
}

// SetWind changes the crosswind; direction is reduced to its sign, strength clamped to [0, 1]
func (r *Race) SetWind(direction int, strength float64) error {
	if math.IsNaN(strength) {
		return errors.Wrap(ErrInvalidControl, "wind strength is NaN")
	}
	w := engine.Wind{
		Direction: int(vmath.Sign(float64(direction))),
		Strength:  vmath.Clamp(strength, 0, 1),
	}
	r.enqueue(func(ctx *engine.Context) { ctx.Wind = w })
	return nil
}

func (r *Race) riderControl(id rider.ID, apply func(*rider.Rider)) error {
	return r.riderControlCtx(id, func(_ *engine.Context, rd *rider.Rider) { apply(rd) })
}

func (r *Race) riderControlCtx(id rider.ID, apply func(*engine.Context, *rider.Rider)) error {
	rd, ok := r.ctx.Rider(id)
	if !ok {
		r.logger.Printf("control: unknown rider %d", id)
		return errors.Wrapf(ErrUnknownRider, "rider %d", id)
	}
	r.enqueue(func(ctx *engine.Context) { apply(ctx, rd) })
	return nil
}

func (r *Race) teamControl(team int, apply func(*rider.Rider)) error {
	if !lo.Contains(r.ctx.TeamIDs(), team) {
		r.logger.Printf("control: unknown team %d", team)
		return errors.Wrapf(ErrUnknownTeam, "team %d", team)
	}
	r.enqueue(func(ctx *engine.Context) {
		for _, rd := range ctx.TeamRiders(team) {
			apply(rd)
		}
	})
	return nil
}
