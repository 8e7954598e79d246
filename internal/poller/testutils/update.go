package testutils

import (
	"time"

	"github.com/clambin/warmup-bridge/internal/climate"
	"github.com/clambin/warmup-bridge/internal/poller"
)

func Update(options ...UpdateOption) poller.Update {
	u := poller.Update{States: make(map[string]climate.State)}
	for _, option := range options {
		option(&u)
	}
	return u
}

type UpdateOption func(*poller.Update)

func WithState(id string, name string, mode climate.HVACMode, current float64, target float64, options ...StateOption) UpdateOption {
	return func(u *poller.Update) {
		state := climate.State{
			EntityID:           id,
			Name:               name,
			Available:          true,
			HVACMode:           &mode,
			HVACModes:          []climate.HVACMode{climate.HVACModeAuto, climate.HVACModeHeat, climate.HVACModeOff},
			CurrentTemperature: &current,
			TargetTemperature:  &target,
			Unit:               climate.Celsius,
			Device:             climate.DeviceInfo{Manufacturer: "Warmup", Model: "Warmup 4iE"},
			LastUpdated:        time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC),
		}
		for _, option := range options {
			option(&state)
		}
		u.States[id] = state
	}
}

type StateOption func(*climate.State)

func WithUnavailable() StateOption {
	return func(s *climate.State) {
		s.Available = false
	}
}

func WithBounds(minTemp, maxTemp float64) StateOption {
	return func(s *climate.State) {
		s.MinTemp = &minTemp
		s.MaxTemp = &maxTemp
	}
}

func WithUnknownMode() StateOption {
	return func(s *climate.State) {
		s.HVACMode = nil
	}
}

func WithUnknownTemperature() StateOption {
	return func(s *climate.State) {
		s.CurrentTemperature = nil
	}
}
