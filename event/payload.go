package event

// IntensityChangePayload carries the previous and resolved intensity of a rider
type IntensityChangePayload struct {
	Rider    int     `json:"rider"`
	Previous float64 `json:"previous"`
	Current  float64 `json:"current"`
}

// PhaseChangePayload carries a relay phase edge
type PhaseChangePayload struct {
	Rider int    `json:"rider"`
	Team  int    `json:"team"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// AttackPayload identifies the attacking rider
type AttackPayload struct {
	Rider int `json:"rider"`
}

// BreakawayPayload describes the front group at the moment of the edge
type BreakawayPayload struct {
	Members []int   `json:"members"`
	Gap     float64 `json:"gap"`
}

// RiderSanitizedPayload reports where a corrupted rider was restored to
type RiderSanitizedPayload struct {
	Rider     int     `json:"rider"`
	TrackDist float64 `json:"track_dist"`
	Lane      float64 `json:"lane"`
}
