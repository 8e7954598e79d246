package climate

import (
	"time"
)

// State is a point-in-time snapshot of an entity. Unknown values are nil.
type State struct {
	EntityID           string          `json:"entity_id"`
	Name               string          `json:"name"`
	Available          bool            `json:"available"`
	HVACMode           *HVACMode       `json:"hvac_mode"`
	HVACModes          []HVACMode      `json:"hvac_modes"`
	HVACAction         *HVACAction     `json:"hvac_action,omitempty"`
	CurrentTemperature *float64        `json:"current_temperature"`
	TargetTemperature  *float64        `json:"temperature"`
	MinTemp            *float64        `json:"min_temp"`
	MaxTemp            *float64        `json:"max_temp"`
	Unit               TemperatureUnit `json:"temperature_unit"`
	PresetMode         *string         `json:"preset_mode,omitempty"`
	Device             DeviceInfo      `json:"device"`
	LastUpdated        time.Time       `json:"last_updated"`
}

// Snapshot returns the current State of the entity
func Snapshot(e Entity, available bool) State {
	capabilities := e.Capabilities()
	state := State{
		EntityID:           e.UniqueID(),
		Name:               e.Name(),
		Available:          available,
		HVACModes:          capabilities.HVACModes.ListOrdered(),
		CurrentTemperature: optional(e.CurrentTemperature()),
		TargetTemperature:  optional(e.TargetTemperature()),
		MinTemp:            optional(e.MinTemp()),
		MaxTemp:            optional(e.MaxTemp()),
		Unit:               e.TemperatureUnit(),
		Device:             e.DeviceInfo(),
		LastUpdated:        time.Now(),
	}
	state.HVACMode = optional(e.HVACMode())
	if capabilities.Supports(FeatureHVACAction) {
		if action, err := e.HVACAction(); err == nil {
			state.HVACAction = &action
		}
	}
	if capabilities.Supports(FeaturePresetMode) {
		preset := e.PresetMode()
		state.PresetMode = &preset
	}
	return state
}

func optional[T any](value T, ok bool) *T {
	if !ok {
		return nil
	}
	return &value
}
