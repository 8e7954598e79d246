// Package host runs integrations: it sets up their config entries, keeps the registry of the entities they create
// and dispatches service calls to those entities.
package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/clambin/warmup-bridge/internal/climate"
	"github.com/clambin/warmup-bridge/internal/executor"
	"golang.org/x/sync/errgroup"
)

// ErrEntityNotFound is returned when a service call refers to an unknown entity
var ErrEntityNotFound = errors.New("entity not found")

// An Integration connects a vendor to the host. The host calls SetupEntry for each of the integration's config entries.
type Integration interface {
	Domain() string
	SetupEntry(ctx context.Context, h *Host, entry ConfigEntry) error
	UnloadEntry(ctx context.Context, h *Host, entry ConfigEntry) (bool, error)
}

// A Platform creates the entities of one type for a config entry.
type Platform interface {
	Name() string
	SetupEntry(ctx context.Context, entry ConfigEntry, add AddEntitiesFunc) error
}

// AddEntitiesFunc registers entities with the host. If updateBeforeAdd is set, each entity is updated before it is registered.
type AddEntitiesFunc func(ctx context.Context, entities []climate.Entity, updateBeforeAdd bool) error

type registeredEntity struct {
	entity    climate.Entity
	entryID   string
	platform  string
	available bool
}

// Host holds the loaded config entries and their entities
type Host struct {
	executor     *executor.Executor
	logger       *slog.Logger
	lock         sync.RWMutex
	integrations map[string]Integration
	entries      map[string]ConfigEntry
	entities     map[string]*registeredEntity
}

func New(exec *executor.Executor, logger *slog.Logger) *Host {
	return &Host{
		executor:     exec,
		logger:       logger,
		integrations: make(map[string]Integration),
		entries:      make(map[string]ConfigEntry),
		entities:     make(map[string]*registeredEntity),
	}
}

// Executor returns the executor on which integrations should run their blocking calls
func (h *Host) Executor() *executor.Executor {
	return h.executor
}

// Register makes an integration available to set up config entries for its domain
func (h *Host) Register(integration Integration) {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.integrations[integration.Domain()] = integration
}

// SetupEntry loads a config entry with the integration registered for its domain
func (h *Host) SetupEntry(ctx context.Context, entry ConfigEntry) error {
	h.lock.RLock()
	integration, ok := h.integrations[entry.Domain]
	_, loaded := h.entries[entry.EntryID]
	h.lock.RUnlock()

	if !ok {
		return fmt.Errorf("no integration for domain %q", entry.Domain)
	}
	if loaded {
		return fmt.Errorf("config entry %s already loaded", entry.EntryID)
	}

	logger := h.logger.With("domain", entry.Domain, "entry", entry.EntryID)
	logger.Debug("setting up config entry")
	if err := integration.SetupEntry(ctx, h, entry); err != nil {
		return fmt.Errorf("setup %s (%s): %w", entry.Domain, entry.Title, err)
	}

	h.lock.Lock()
	h.entries[entry.EntryID] = entry
	h.lock.Unlock()
	logger.Info("config entry loaded")
	return nil
}

// UnloadEntry unloads a previously loaded config entry
func (h *Host) UnloadEntry(ctx context.Context, entryID string) (bool, error) {
	h.lock.RLock()
	entry, loaded := h.entries[entryID]
	integration := h.integrations[entry.Domain]
	h.lock.RUnlock()

	if !loaded {
		return false, fmt.Errorf("%s: %w", entryID, ErrEntryNotFound)
	}

	ok, err := integration.UnloadEntry(ctx, h, entry)
	if err != nil {
		return false, fmt.Errorf("unload %s (%s): %w", entry.Domain, entry.Title, err)
	}
	if ok {
		h.lock.Lock()
		delete(h.entries, entryID)
		h.lock.Unlock()
		h.logger.Info("config entry unloaded", "domain", entry.Domain, "entry", entryID)
	}
	return ok, nil
}

// ForwardEntrySetups sets up the platforms for a config entry. Platforms are set up concurrently.
func (h *Host) ForwardEntrySetups(ctx context.Context, entry ConfigEntry, platforms ...Platform) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, platform := range platforms {
		g.Go(func() error {
			if err := platform.SetupEntry(ctx, entry, h.addEntitiesFunc(entry, platform.Name())); err != nil {
				return fmt.Errorf("%s: %w", platform.Name(), err)
			}
			return nil
		})
	}
	return g.Wait()
}

// ForwardEntryUnloads removes the entities the platforms created for a config entry.
func (h *Host) ForwardEntryUnloads(_ context.Context, entry ConfigEntry, platforms ...Platform) (bool, error) {
	h.lock.Lock()
	defer h.lock.Unlock()
	for _, platform := range platforms {
		for id, registered := range h.entities {
			if registered.entryID == entry.EntryID && registered.platform == platform.Name() {
				delete(h.entities, id)
			}
		}
	}
	return true, nil
}

func (h *Host) addEntitiesFunc(entry ConfigEntry, platform string) AddEntitiesFunc {
	return func(ctx context.Context, entities []climate.Entity, updateBeforeAdd bool) error {
		for _, entity := range entities {
			available := true
			if updateBeforeAdd {
				if err := entity.Update(ctx); err != nil {
					h.logger.Warn("entity update failed", "entity", entity.UniqueID(), "err", err)
					available = false
				}
			}

			h.lock.Lock()
			if _, exists := h.entities[entity.UniqueID()]; exists {
				h.lock.Unlock()
				h.logger.Error("duplicate entity ignored", "entity", entity.UniqueID(), "platform", platform)
				continue
			}
			h.entities[entity.UniqueID()] = &registeredEntity{
				entity:    entity,
				entryID:   entry.EntryID,
				platform:  platform,
				available: available,
			}
			h.lock.Unlock()
			h.logger.Debug("entity added", "entity", entity.UniqueID(), "name", entity.Name(), "platform", platform)
		}
		return nil
	}
}

// EntityIDs returns the IDs of all registered entities, sorted
func (h *Host) EntityIDs() []string {
	h.lock.RLock()
	defer h.lock.RUnlock()
	ids := make([]string, 0, len(h.entities))
	for id := range h.entities {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Entities returns all registered entities, sorted by ID
func (h *Host) Entities() []climate.Entity {
	ids := h.EntityIDs()
	entities := make([]climate.Entity, 0, len(ids))
	for _, id := range ids {
		if entity, ok := h.Entity(id); ok {
			entities = append(entities, entity)
		}
	}
	return entities
}

// Available returns false if the entity's last update failed
func (h *Host) Available(entityID string) bool {
	h.lock.RLock()
	defer h.lock.RUnlock()
	registered, ok := h.entities[entityID]
	return ok && registered.available
}

// Entity returns a registered entity
func (h *Host) Entity(entityID string) (climate.Entity, bool) {
	h.lock.RLock()
	defer h.lock.RUnlock()
	registered, ok := h.entities[entityID]
	if !ok {
		return nil, false
	}
	return registered.entity, true
}

// UpdateEntity refreshes the entity and returns its new state. If the update fails, the entity is marked unavailable
// and its state reflects the last successful update.
func (h *Host) UpdateEntity(ctx context.Context, entityID string) (climate.State, error) {
	h.lock.RLock()
	registered, ok := h.entities[entityID]
	h.lock.RUnlock()
	if !ok {
		return climate.State{}, fmt.Errorf("%s: %w", entityID, ErrEntityNotFound)
	}

	err := registered.entity.Update(ctx)
	if err != nil {
		h.logger.Warn("entity update failed", "entity", entityID, "err", err)
	}

	h.lock.Lock()
	registered.available = err == nil
	h.lock.Unlock()

	return climate.Snapshot(registered.entity, err == nil), err
}

// SetHVACMode calls the entity's SetHVACMode
func (h *Host) SetHVACMode(ctx context.Context, entityID string, mode climate.HVACMode) error {
	entity, ok := h.Entity(entityID)
	if !ok {
		return fmt.Errorf("%s: %w", entityID, ErrEntityNotFound)
	}
	h.logger.Debug("set hvac mode", "entity", entityID, "mode", mode)
	return entity.SetHVACMode(ctx, mode)
}

// SetTemperature calls the entity's SetTemperature
func (h *Host) SetTemperature(ctx context.Context, entityID string, request climate.SetTemperatureRequest) error {
	entity, ok := h.Entity(entityID)
	if !ok {
		return fmt.Errorf("%s: %w", entityID, ErrEntityNotFound)
	}
	if !entity.Capabilities().Supports(climate.FeatureTargetTemperature) {
		return climate.ErrNotSupported
	}
	h.logger.Debug("set temperature", "entity", entityID)
	return entity.SetTemperature(ctx, request)
}

// SetPresetMode calls the entity's SetPresetMode, if the entity declares support for presets
func (h *Host) SetPresetMode(ctx context.Context, entityID string, preset string) error {
	entity, ok := h.Entity(entityID)
	if !ok {
		return fmt.Errorf("%s: %w", entityID, ErrEntityNotFound)
	}
	if !entity.Capabilities().Supports(climate.FeaturePresetMode) {
		return climate.ErrNotSupported
	}
	return entity.SetPresetMode(ctx, preset)
}
