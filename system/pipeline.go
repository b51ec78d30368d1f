package system

import "github.com/lixenwraith/peloton/engine"

// Pipeline returns every race stage for ctx; World.AddSystem orders them by priority
func Pipeline(ctx *engine.Context) []engine.System {
	return []engine.System{
		NewSyncSystem(ctx),
		NewBordureSystem(ctx),
		NewDraftSystem(),
		NewBreakawaySystem(ctx),
		NewEnergySystem(),
		NewRelaySystem(ctx),
		NewIntensitySystem(ctx),
		NewPaceSystem(),
		NewLaneSystem(),
		NewOverlapSystem(ctx),
	}
}
