// Package config holds the tunable race parameters, one section per subsystem
package config

import (
	"time"

	"github.com/pkg/errors"

	"github.com/lixenwraith/peloton/parameter"
)

// ErrInvalid is returned by Validate and Load for out-of-range settings
var ErrInvalid = errors.New("invalid configuration")

// Config is the full simulation configuration
type Config struct {
	Track     TrackConfig     `mapstructure:"track"`
	Field     FieldConfig     `mapstructure:"field"`
	Rider     RiderConfig     `mapstructure:"rider"`
	Draft     DraftConfig     `mapstructure:"draft"`
	Bordure   BordureConfig   `mapstructure:"bordure"`
	Breakaway BreakawayConfig `mapstructure:"breakaway"`
	Energy    EnergyConfig    `mapstructure:"energy"`
	Relay     RelayConfig     `mapstructure:"relay"`
	Intensity IntensityConfig `mapstructure:"intensity"`
	Lane      LaneConfig      `mapstructure:"lane"`
	Overlap   OverlapConfig   `mapstructure:"overlap"`
	Pace      PaceConfig      `mapstructure:"pace"`
	Wind      WindConfig      `mapstructure:"wind"`
	Loop      LoopConfig      `mapstructure:"loop"`
}

type TrackConfig struct {
	Length     float64 `mapstructure:"length"`
	RoadWidth  float64 `mapstructure:"road_width"`
	RowSpacing float64 `mapstructure:"row_spacing"`
}

type FieldConfig struct {
	Teams         int   `mapstructure:"teams"`
	RidersPerTeam int   `mapstructure:"riders_per_team"`
	Seed          int64 `mapstructure:"seed"`
}

type RiderConfig struct {
	Width      float64 `mapstructure:"width"`
	LateralGap float64 `mapstructure:"lateral_gap"`
	Mass       float64 `mapstructure:"mass"`
	Radius     float64 `mapstructure:"radius"`
}

type DraftConfig struct {
	Window         float64 `mapstructure:"window"`
	LateralWindow  float64 `mapstructure:"lateral_window"`
	Scale          float64 `mapstructure:"scale"`
	ShelterDist    float64 `mapstructure:"shelter_dist"`
	ShelterLateral float64 `mapstructure:"shelter_lateral"`
	ExposedPenalty float64 `mapstructure:"exposed_penalty"`
	RollingDamping float64 `mapstructure:"rolling_damping"`
}

type BordureConfig struct {
	StrongWind float64 `mapstructure:"strong_wind"`
	LaneGap    float64 `mapstructure:"lane_gap"`
	Penalty    float64 `mapstructure:"penalty"`
}

type BreakawayConfig struct {
	TriggerGap      float64 `mapstructure:"trigger_gap"`
	CaptureGap      float64 `mapstructure:"capture_gap"`
	MinGap          float64 `mapstructure:"min_gap"`
	ClosingBaseline float64 `mapstructure:"closing_baseline"`
}

type EnergyConfig struct {
	FatigueRate         float64 `mapstructure:"fatigue_rate"`
	RecoveryRate        float64 `mapstructure:"recovery_rate"`
	Threshold           float64 `mapstructure:"threshold"`
	ExposedMultiplier   float64 `mapstructure:"exposed_multiplier"`
	ShelteredMultiplier float64 `mapstructure:"sheltered_multiplier"`
}

type RelayConfig struct {
	MinDist            float64 `mapstructure:"min_dist"`
	MaxDist            float64 `mapstructure:"max_dist"`
	JoinGap            float64 `mapstructure:"join_gap"`
	TargetGap          float64 `mapstructure:"target_gap"`
	BaseInterval       float64 `mapstructure:"base_interval"`
	PullOffTime        float64 `mapstructure:"pull_off_time"`
	PullOffset         float64 `mapstructure:"pull_offset"`
	CorrectionGain     float64 `mapstructure:"correction_gain"`
	SpeedBoost         float64 `mapstructure:"speed_boost"`
	PullOffSpeedFactor float64 `mapstructure:"pull_off_speed_factor"`
}

type IntensityConfig struct {
	Default         float64 `mapstructure:"default"`
	Attack          float64 `mapstructure:"attack"`
	AttackDrain     float64 `mapstructure:"attack_drain"`
	AttackRecovery  float64 `mapstructure:"attack_recovery"`
	RelayChase      float64 `mapstructure:"relay_chase"`
	RelayLeader     float64 `mapstructure:"relay_leader"`
	Breakaway       float64 `mapstructure:"breakaway"`
	FollowerComfort float64 `mapstructure:"follower_comfort"`
	FollowerOpenGap float64 `mapstructure:"follower_open_gap"`
	PelotonGap      float64 `mapstructure:"peloton_gap"`
	RejoinRamp      float64 `mapstructure:"rejoin_ramp"`
}

type LaneConfig struct {
	SafeDist        float64 `mapstructure:"safe_dist"`
	BlockGap        float64 `mapstructure:"block_gap"`
	ShiftStep       float64 `mapstructure:"shift_step"`
	ChangeRate      float64 `mapstructure:"change_rate"`
	RelayRate       float64 `mapstructure:"relay_rate"`
	LateralForce    float64 `mapstructure:"lateral_force"`
	MaxLateralSpeed float64 `mapstructure:"max_lateral_speed"`
}

type OverlapConfig struct {
	Gain      float64 `mapstructure:"gain"`
	MaxPasses int     `mapstructure:"max_passes"`
}

type PaceConfig struct {
	BaseSpeed  float64 `mapstructure:"base_speed"`
	SpeedGain  float64 `mapstructure:"speed_gain"`
	BoostBlend float64 `mapstructure:"boost_blend"`
	MaxSpeed   float64 `mapstructure:"max_speed"`
}

type WindConfig struct {
	Direction int     `mapstructure:"direction"`
	Strength  float64 `mapstructure:"strength"`
}

type LoopConfig struct {
	TickRate       int           `mapstructure:"tick_rate"`
	MaxDelta       float64       `mapstructure:"max_delta"`
	StreamInterval time.Duration `mapstructure:"stream_interval"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Track: TrackConfig{
			Length:     parameter.TrackLength,
			RoadWidth:  parameter.RoadWidth,
			RowSpacing: parameter.RowSpacing,
		},
		Field: FieldConfig{
			Teams:         parameter.NumTeams,
			RidersPerTeam: parameter.RidersPerTeam,
			Seed:          parameter.FieldSeed,
		},
		Rider: RiderConfig{
			Width:      parameter.RiderWidth,
			LateralGap: parameter.MinLateralGap,
			Mass:       parameter.RiderMass,
			Radius:     parameter.RiderRadius,
		},
		Draft: DraftConfig{
			Window:         parameter.DraftWindow,
			LateralWindow:  parameter.DraftLateralWindow,
			Scale:          parameter.DraftScale,
			ShelterDist:    parameter.DraftShelterDist,
			ShelterLateral: parameter.DraftShelterLateral,
			ExposedPenalty: parameter.DraftExposedPenalty,
			RollingDamping: parameter.BaseRollingDamping,
		},
		Bordure: BordureConfig{
			StrongWind: parameter.StrongWind,
			LaneGap:    parameter.BordureLaneGap,
			Penalty:    parameter.BordurePenalty,
		},
		Breakaway: BreakawayConfig{
			TriggerGap:      parameter.BreakawayTriggerGap,
			CaptureGap:      parameter.BreakawayCaptureGap,
			MinGap:          parameter.BreakawayMinGap,
			ClosingBaseline: parameter.ClosingRateBaseline,
		},
		Energy: EnergyConfig{
			FatigueRate:         parameter.FatigueRate,
			RecoveryRate:        parameter.RecoveryRate,
			Threshold:           parameter.EnergyThreshold,
			ExposedMultiplier:   parameter.ExposedFatigueMultiplier,
			ShelteredMultiplier: parameter.ShelteredFatigueMultiplier,
		},
		Relay: RelayConfig{
			MinDist:            parameter.RelayMinDist,
			MaxDist:            parameter.RelayMaxDist,
			JoinGap:            parameter.RelayJoinGap,
			TargetGap:          parameter.RelayTargetGap,
			BaseInterval:       parameter.BaseRelayInterval,
			PullOffTime:        parameter.PullOffTime,
			PullOffset:         parameter.PullOffset,
			CorrectionGain:     parameter.RelayCorrectionGain,
			SpeedBoost:         parameter.RelaySpeedBoost,
			PullOffSpeedFactor: parameter.PullOffSpeedFactor,
		},
		Intensity: IntensityConfig{
			Default:         parameter.DefaultIntensity,
			Attack:          parameter.AttackIntensity,
			AttackDrain:     parameter.AttackDrain,
			AttackRecovery:  parameter.AttackRecovery,
			RelayChase:      parameter.RelayChaseIntensity,
			RelayLeader:     parameter.RelayLeaderIntensity,
			Breakaway:       parameter.BreakawayIntensity,
			FollowerComfort: parameter.FollowerComfortIntensity,
			FollowerOpenGap: parameter.FollowerOpenGap,
			PelotonGap:      parameter.PelotonGap,
			RejoinRamp:      parameter.RejoinRamp,
		},
		Lane: LaneConfig{
			SafeDist:        parameter.LaneSafeDist,
			BlockGap:        parameter.LaneBlockGap,
			ShiftStep:       parameter.LaneShiftStep,
			ChangeRate:      parameter.LaneChangeRate,
			RelayRate:       parameter.RelayLaneRate,
			LateralForce:    parameter.LateralForce,
			MaxLateralSpeed: parameter.MaxLateralSpeed,
		},
		Overlap: OverlapConfig{
			Gain:      parameter.OverlapGain,
			MaxPasses: parameter.OverlapMaxPasses,
		},
		Pace: PaceConfig{
			BaseSpeed:  parameter.BaseSpeed,
			SpeedGain:  parameter.SpeedGain,
			BoostBlend: parameter.BoostBlend,
			MaxSpeed:   parameter.MaxRiderSpeed,
		},
		Wind: WindConfig{
			Direction: parameter.WindDirection,
			Strength:  parameter.WindStrength,
		},
		Loop: LoopConfig{
			TickRate:       parameter.TickRate,
			MaxDelta:       parameter.MaxTickDelta,
			StreamInterval: parameter.VizStreamInterval,
		},
	}
}

// Validate checks cross-field constraints
func (c Config) Validate() error {
	switch {
	case c.Track.Length <= 0:
		return errors.Wrapf(ErrInvalid, "track length %v must be positive", c.Track.Length)
	case c.Track.RoadWidth <= 0:
		return errors.Wrapf(ErrInvalid, "road width %v must be positive", c.Track.RoadWidth)
	case c.Track.RoadWidth/2 <= c.Rider.Width/2+c.Rider.LateralGap/2:
		return errors.Wrapf(ErrInvalid, "road width %v leaves no lane for rider width %v", c.Track.RoadWidth, c.Rider.Width)
	case c.Field.Teams < 0 || c.Field.RidersPerTeam < 0:
		return errors.Wrap(ErrInvalid, "field size must not be negative")
	case c.Breakaway.CaptureGap >= c.Breakaway.TriggerGap:
		return errors.Wrapf(ErrInvalid, "capture gap %v must be below trigger gap %v", c.Breakaway.CaptureGap, c.Breakaway.TriggerGap)
	case c.Relay.MinDist > c.Relay.MaxDist:
		return errors.Wrapf(ErrInvalid, "relay min distance %v exceeds max %v", c.Relay.MinDist, c.Relay.MaxDist)
	case c.Relay.BaseInterval <= 0 || c.Relay.PullOffTime <= 0:
		return errors.Wrap(ErrInvalid, "relay interval and pull-off time must be positive")
	case c.Wind.Direction < -1 || c.Wind.Direction > 1:
		return errors.Wrapf(ErrInvalid, "wind direction %d must be -1, 0 or 1", c.Wind.Direction)
	case c.Pace.MaxSpeed <= 0:
		return errors.Wrapf(ErrInvalid, "max speed %v must be positive", c.Pace.MaxSpeed)
	case c.Overlap.MaxPasses < 1:
		return errors.Wrapf(ErrInvalid, "overlap passes %d must be at least 1", c.Overlap.MaxPasses)
	case c.Loop.TickRate <= 0:
		return errors.Wrapf(ErrInvalid, "tick rate %d must be positive", c.Loop.TickRate)
	case c.Loop.MaxDelta <= 0:
		return errors.Wrapf(ErrInvalid, "max delta %v must be positive", c.Loop.MaxDelta)
	}
	return nil
}

// TickInterval returns the fixed step duration
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.Loop.TickRate)
}

// ContactDist returns the centre spacing below which two riders overlap
func (c Config) ContactDist() float64 {
	return c.Rider.Width + c.Rider.LateralGap
}

// MaxLaneOffset returns the lateral clamp of the configured road and rider body
func (c Config) MaxLaneOffset() float64 {
	return c.Track.RoadWidth/2 - c.Rider.Width/2 - c.Rider.LateralGap/2
}
