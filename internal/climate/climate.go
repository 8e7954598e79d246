// Package climate defines the climate entity model: the operating modes, features and state a thermostat exposes to the rest of the system.
package climate

import (
	"context"
	"errors"

	"github.com/clambin/go-common/set"
)

// ErrNotSupported is returned when an entity is asked to do something it doesn't declare in its Capabilities.
var ErrNotSupported = errors.New("not supported")

// HVACMode is the operating mode of a climate entity
type HVACMode string

const (
	HVACModeOff      HVACMode = "off"
	HVACModeHeat     HVACMode = "heat"
	HVACModeCool     HVACMode = "cool"
	HVACModeHeatCool HVACMode = "heat_cool"
	HVACModeAuto     HVACMode = "auto"
	HVACModeDry      HVACMode = "dry"
	HVACModeFanOnly  HVACMode = "fan_only"
)

// HVACAction is what the entity is currently doing
type HVACAction string

const (
	HVACActionOff     HVACAction = "off"
	HVACActionHeating HVACAction = "heating"
	HVACActionIdle    HVACAction = "idle"
)

// PresetNone is the preset mode of an entity that has no preset active
const PresetNone = "none"

// TemperatureUnit is the unit in which an entity reports and accepts temperatures
type TemperatureUnit string

const (
	Celsius    TemperatureUnit = "°C"
	Fahrenheit TemperatureUnit = "°F"
)

// Feature is a bitmask of optional capabilities
type Feature int

const (
	FeatureTargetTemperature Feature = 1 << iota
	FeatureTargetTemperatureRange
	FeaturePresetMode
	FeatureHVACAction
)

// Capabilities declares what an entity supports. Accessors and setters for anything not declared return ErrNotSupported.
type Capabilities struct {
	Features  Feature
	HVACModes set.Set[HVACMode]
}

// Supports returns true if the entity declares the feature
func (c Capabilities) Supports(feature Feature) bool {
	return c.Features&feature == feature
}

// SupportsHVACMode returns true if the entity can be set to the mode
func (c Capabilities) SupportsHVACMode(mode HVACMode) bool {
	return c.HVACModes.Contains(mode)
}

// DeviceInfo identifies the physical device behind an entity
type DeviceInfo struct {
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
}

// SetTemperatureRequest holds the arguments of a set temperature call. Arguments that are nil were not provided.
type SetTemperatureRequest struct {
	Temperature *float64
}

// Entity is a climate device
type Entity interface {
	UniqueID() string
	Name() string
	Update(ctx context.Context) error
	Capabilities() Capabilities
	DeviceInfo() DeviceInfo

	TemperatureUnit() TemperatureUnit
	CurrentTemperature() (float64, bool)
	TargetTemperature() (float64, bool)
	MinTemp() (float64, bool)
	MaxTemp() (float64, bool)

	HVACMode() (HVACMode, bool)
	HVACAction() (HVACAction, error)
	SetHVACMode(ctx context.Context, mode HVACMode) error
	SetTemperature(ctx context.Context, request SetTemperatureRequest) error

	PresetMode() string
	SetPresetMode(ctx context.Context, preset string) error
}
