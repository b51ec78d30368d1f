package parameter

// Circuit geometry
const (
	TrackLength = 1000.0 // Closed loop length, also the lap wrap
	RoadWidth   = 12.0   // Six riders abreast
	RowSpacing  = 2.0    // Longitudinal spacing of the start grid
)

// Field composition
const (
	NumTeams      = 23
	RidersPerTeam = 8
	FieldSeed     = 1
)

// Rider body
const (
	RiderWidth    = 1.7
	MinLateralGap = 0.3
	RiderMass     = 1.0
	RiderRadius   = 0.5 // Collision body radius for rigid-body backends
)

// Effort and physiology
const (
	BaseSpeed        = 8.0  // Speed at intensity 50 without draft
	DefaultIntensity = 50.0 // Starting base intensity
	MaxStat          = 100.0
	FatigueRate      = 5.0  // Energy units per second while working
	RecoveryRate     = 3.0  // Energy units per second while sheltered
	EnergyThreshold  = 20.0

	ExposedFatigueMultiplier   = 1.2
	ShelteredFatigueMultiplier = 1.0
)

// Draft model
const (
	DraftWindow         = 12.0  // Longitudinal look-ahead
	DraftLateralWindow  = 1.5   // Lateral band counted as same line
	DraftScale          = 0.625 // k in draftFactor = 1 + k(1-drag)
	DraftShelterDist    = 2.0
	DraftShelterLateral = 2.0
	DraftExposedPenalty = 0.2
	BaseRollingDamping  = 0.2
)

// Bordure detector
const (
	StrongWind     = 0.7
	BordureLaneGap = 1.0
	BordurePenalty = 0.2
)

// Breakaway manager
const (
	BreakawayTriggerGap = 10.0
	BreakawayCaptureGap = 5.0
	BreakawayMinGap     = 15.0 // Below this the front group pays a surcharge
	ClosingRateBaseline = 50.0
)

// Relay queue controller
const (
	RelayMinDist        = 1.0
	RelayMaxDist        = 3.0
	RelayJoinGap        = 10.0
	RelayTargetGap      = 1.5
	BaseRelayInterval   = 5.0 // Seconds, divided by queue size
	PullOffTime         = 2.0
	PullOffset          = 1.5
	RelayCorrectionGain = 5.0
	RelaySpeedBoost     = 0.5
	PullOffSpeedFactor  = 0.7
)

// Intensity resolver
const (
	AttackIntensity          = 95.0
	AttackDrain              = 50.0 // Gauge units per second
	AttackRecovery           = 10.0
	RelayChaseIntensity      = 70.0
	RelayLeaderIntensity     = 70.0
	BreakawayIntensity       = 75.0
	FollowerComfortIntensity = 50.0
	FollowerOpenGap          = 8.0
	PelotonGap               = 5.0
	RejoinRamp               = 10.0 // Intensity points per second
)

// Lane negotiator
const (
	LaneSafeDist    = 4.0
	LaneBlockGap    = 1.2
	LaneShiftStep   = 2.0
	LaneChangeRate  = 2.0 // Lerp rate for free riders
	RelayLaneRate   = 1.0 // Slower lerp inside the relay line
	LateralForce    = 3.0
	MaxLateralSpeed = 3.0
)

// Overlap resolver
const (
	OverlapGain      = 10.0
	OverlapMaxPasses = 3
)

// Pace control
const (
	SpeedGain     = 0.3
	BoostBlend    = 2.0 // Lerp rate of the relay boost
	MaxRiderSpeed = 16.0
)

// Wind defaults
const (
	WindDirection = 1
	WindStrength  = 0.5
)
