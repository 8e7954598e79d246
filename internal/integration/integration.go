// Package integration sets up Warmup config entries: it creates the bridge for the entry's account and hands it to the
// climate platform.
package integration

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/clambin/warmup-bridge/internal/bridge"
	"github.com/clambin/warmup-bridge/internal/configflow"
	"github.com/clambin/warmup-bridge/internal/host"
	"github.com/clambin/warmup-bridge/internal/thermostat"
)

const Domain = configflow.Domain

// Platforms lists the entity platforms set up for each config entry
var Platforms = []string{"climate"}

var _ host.Integration = &Integration{}

// Integration holds the bridge of each loaded config entry
type Integration struct {
	factory bridge.APIFactory
	logger  *slog.Logger
	lock    sync.RWMutex
	bridges map[string]*bridge.Bridge
}

func New(factory bridge.APIFactory, logger *slog.Logger) *Integration {
	return &Integration{
		factory: factory,
		logger:  logger,
		bridges: make(map[string]*bridge.Bridge),
	}
}

func (i *Integration) Domain() string {
	return Domain
}

// SetupEntry creates the bridge for the entry, retrieves its rooms and sets up the platforms
func (i *Integration) SetupEntry(ctx context.Context, h *host.Host, entry host.ConfigEntry) error {
	email, token := entry.Data[configflow.FieldEmail], entry.Data[configflow.FieldAccessToken]
	if email == "" || token == "" {
		return fmt.Errorf("config entry %s: missing credentials", entry.EntryID)
	}

	b := bridge.New(email, token, i.factory, h.Executor(), i.logger.With("component", "bridge", "email", email))
	if err := b.Refresh(ctx); err != nil {
		return fmt.Errorf("refresh: %w", err)
	}

	if err := h.ForwardEntrySetups(ctx, entry, i.platforms(h, b)...); err != nil {
		return err
	}

	i.lock.Lock()
	i.bridges[entry.EntryID] = b
	i.lock.Unlock()
	return nil
}

// UnloadEntry unloads the entry's platforms. Once all are unloaded, the entry's bridge is dropped.
func (i *Integration) UnloadEntry(ctx context.Context, h *host.Host, entry host.ConfigEntry) (bool, error) {
	b, _ := i.Bridge(entry.EntryID)
	ok, err := h.ForwardEntryUnloads(ctx, entry, i.platforms(h, b)...)
	if err != nil || !ok {
		return ok, err
	}
	i.lock.Lock()
	delete(i.bridges, entry.EntryID)
	i.lock.Unlock()
	return true, nil
}

// Bridge returns the bridge of a loaded config entry
func (i *Integration) Bridge(entryID string) (*bridge.Bridge, bool) {
	i.lock.RLock()
	defer i.lock.RUnlock()
	b, ok := i.bridges[entryID]
	return b, ok
}

// Bridges returns the bridges of all loaded config entries
func (i *Integration) Bridges() []*bridge.Bridge {
	i.lock.RLock()
	defer i.lock.RUnlock()
	bridges := make([]*bridge.Bridge, 0, len(i.bridges))
	for _, b := range i.bridges {
		bridges = append(bridges, b)
	}
	return bridges
}

func (i *Integration) platforms(h *host.Host, b *bridge.Bridge) []host.Platform {
	platforms := make([]host.Platform, 0, len(Platforms))
	for _, name := range Platforms {
		switch name {
		case "climate":
			platforms = append(platforms, thermostat.Platform{
				Source:   b,
				Executor: h.Executor(),
				Logger:   i.logger.With("component", "thermostat"),
			})
		}
	}
	return platforms
}
