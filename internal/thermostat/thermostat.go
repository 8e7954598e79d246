// Package thermostat exposes each Warmup room as a climate entity.
package thermostat

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/clambin/go-common/set"
	"github.com/clambin/warmup-bridge/internal/bridge"
	"github.com/clambin/warmup-bridge/internal/climate"
	"github.com/clambin/warmup-bridge/internal/executor"
	"github.com/clambin/warmup-bridge/pkg/warmup"
)

var programModes = map[warmup.ProgramMode]climate.HVACMode{
	warmup.ProgramModeProgram: climate.HVACModeAuto,
	warmup.ProgramModeFixed:   climate.HVACModeHeat,
}

var deviceInfo = climate.DeviceInfo{Manufacturer: "Warmup", Model: "Warmup 4iE"}

var _ climate.Entity = &Thermostat{}

// Thermostat is the climate entity of one Warmup room. Its state is the room as last received from the Warmup service.
type Thermostat struct {
	roomID     int
	locationID int
	api        bridge.API
	executor   *executor.Executor
	logger     *slog.Logger
	lock       sync.RWMutex
	room       warmup.Room
}

func New(room warmup.Room, api bridge.API, exec *executor.Executor, logger *slog.Logger) *Thermostat {
	return &Thermostat{
		roomID:     room.ID,
		locationID: room.Location.ID,
		api:        api,
		executor:   exec,
		logger:     logger.With("room", room.Name),
		room:       room,
	}
}

func (t *Thermostat) UniqueID() string {
	return "warmup_" + strconv.Itoa(t.roomID)
}

func (t *Thermostat) Name() string {
	return t.snapshot().Name
}

// Update retrieves the room from the Warmup service and replaces the entity's state
func (t *Thermostat) Update(ctx context.Context) error {
	room, err := executor.Call(ctx, t.executor, func(ctx context.Context) (warmup.Room, error) {
		return t.api.GetRoom(ctx, t.roomID)
	})
	if err != nil {
		return err
	}
	t.lock.Lock()
	t.room = room
	t.lock.Unlock()
	t.logger.Debug("room updated", "data", room)
	return nil
}

func (t *Thermostat) Capabilities() climate.Capabilities {
	return climate.Capabilities{
		Features:  climate.FeatureTargetTemperature,
		HVACModes: set.New(climate.HVACModeOff, climate.HVACModeAuto, climate.HVACModeHeat),
	}
}

// HVACModes returns the modes a room can be set to, in sorted order
func (t *Thermostat) HVACModes() []climate.HVACMode {
	return t.Capabilities().HVACModes.ListOrdered()
}

func (t *Thermostat) DeviceInfo() climate.DeviceInfo {
	return deviceInfo
}

// TemperatureUnit returns Celsius. The Warmup service reports all temperatures in Celsius.
func (t *Thermostat) TemperatureUnit() climate.TemperatureUnit {
	return climate.Celsius
}

func (t *Thermostat) CurrentTemperature() (float64, bool) {
	return value(t.snapshot().CurrentTemp)
}

func (t *Thermostat) TargetTemperature() (float64, bool) {
	return value(t.snapshot().TargetTemp)
}

// MinTemp returns the lower bound of the room's target temperature
func (t *Thermostat) MinTemp() (float64, bool) {
	return value(t.snapshot().TargetTempLow)
}

// MaxTemp returns the upper bound of the room's target temperature
func (t *Thermostat) MaxTemp() (float64, bool) {
	return value(t.snapshot().TargetTempHigh)
}

// HVACMode returns off if the room's location is switched off. Otherwise, it maps the room's program mode.
// A program mode without a mapping is reported as unknown.
func (t *Thermostat) HVACMode() (climate.HVACMode, bool) {
	room := t.snapshot()
	if room.Location.Mode == warmup.LocationModeOff {
		return climate.HVACModeOff, true
	}
	mode, ok := programModes[room.Mode]
	return mode, ok
}

func (t *Thermostat) HVACAction() (climate.HVACAction, error) {
	return "", climate.ErrNotSupported
}

// SetHVACMode switches the room to its program (auto), to a fixed temperature (heat) or switches off the room's location (off).
// Other modes are ignored.
func (t *Thermostat) SetHVACMode(ctx context.Context, mode climate.HVACMode) error {
	var call func(context.Context) error
	switch mode {
	case climate.HVACModeAuto:
		call = func(ctx context.Context) error { return t.api.SetTemperatureToAuto(ctx, t.roomID) }
	case climate.HVACModeHeat:
		call = func(ctx context.Context) error { return t.api.SetTemperatureToManual(ctx, t.roomID) }
	case climate.HVACModeOff:
		call = func(ctx context.Context) error { return t.api.SetLocationToOff(ctx, t.locationID) }
	default:
		t.logger.Debug("hvac mode ignored", "mode", mode)
		return nil
	}
	t.logger.Debug("setting hvac mode", "mode", mode)
	return t.executor.Run(ctx, call)
}

// SetTemperature sets the room to a fixed target temperature. If the request has no temperature, nothing is changed.
func (t *Thermostat) SetTemperature(ctx context.Context, request climate.SetTemperatureRequest) error {
	if request.Temperature == nil {
		return nil
	}
	temperature := *request.Temperature
	t.logger.Debug("setting temperature", "temperature", temperature)
	return t.executor.Run(ctx, func(ctx context.Context) error {
		return t.api.SetTemperature(ctx, t.roomID, temperature)
	})
}

func (t *Thermostat) PresetMode() string {
	return climate.PresetNone
}

func (t *Thermostat) SetPresetMode(_ context.Context, _ string) error {
	return climate.ErrNotSupported
}

// Room returns the last received state of the room
func (t *Thermostat) Room() warmup.Room {
	return t.snapshot()
}

func (t *Thermostat) snapshot() warmup.Room {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.room
}

func value(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}
