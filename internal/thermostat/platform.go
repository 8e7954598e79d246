package thermostat

import (
	"context"
	"log/slog"

	"github.com/clambin/warmup-bridge/internal/bridge"
	"github.com/clambin/warmup-bridge/internal/climate"
	"github.com/clambin/warmup-bridge/internal/executor"
	"github.com/clambin/warmup-bridge/internal/host"
	"github.com/clambin/warmup-bridge/pkg/warmup"
)

// RoomSource provides the rooms of an account and the client to control them
type RoomSource interface {
	Rooms() []warmup.Room
	API() bridge.API
}

var _ RoomSource = &bridge.Bridge{}

var _ host.Platform = Platform{}

// Platform creates a Thermostat for each room of a RoomSource
type Platform struct {
	Source   RoomSource
	Executor *executor.Executor
	Logger   *slog.Logger
}

func (p Platform) Name() string {
	return "climate"
}

func (p Platform) SetupEntry(ctx context.Context, _ host.ConfigEntry, add host.AddEntitiesFunc) error {
	api := p.Source.API()
	rooms := p.Source.Rooms()
	entities := make([]climate.Entity, len(rooms))
	for i, room := range rooms {
		entities[i] = New(room, api, p.Executor, p.Logger)
	}
	return add(ctx, entities, true)
}
