package mqtt

import (
	"github.com/clambin/warmup-bridge/internal/climate"
)

// discoveryConfig is the Home Assistant MQTT discovery payload for a climate entity
type discoveryConfig struct {
	Name                       string             `json:"name"`
	UniqueID                   string             `json:"unique_id"`
	Device                     discoveryDevice    `json:"device"`
	Availability               []availability     `json:"availability"`
	AvailabilityMode           string             `json:"availability_mode"`
	Modes                      []climate.HVACMode `json:"modes"`
	ModeStateTopic             string             `json:"mode_state_topic"`
	ModeStateTemplate          string             `json:"mode_state_template"`
	ModeCommandTopic           string             `json:"mode_command_topic"`
	TemperatureStateTopic      string             `json:"temperature_state_topic"`
	TemperatureStateTemplate   string             `json:"temperature_state_template"`
	TemperatureCommandTopic    string             `json:"temperature_command_topic"`
	CurrentTemperatureTopic    string             `json:"current_temperature_topic"`
	CurrentTemperatureTemplate string             `json:"current_temperature_template"`
	JSONAttributesTopic        string             `json:"json_attributes_topic"`
	MinTemp                    float64            `json:"min_temp,omitempty"`
	MaxTemp                    float64            `json:"max_temp,omitempty"`
	TempStep                   float64            `json:"temp_step"`
	TemperatureUnit            string             `json:"temperature_unit"`
	Platform                   string             `json:"platform"`
}

// availability requires both the bridge and the entity to be online
type availability struct {
	Topic               string `json:"topic"`
	ValueTemplate       string `json:"value_template,omitempty"`
	PayloadAvailable    string `json:"payload_available"`
	PayloadNotAvailable string `json:"payload_not_available"`
}

type discoveryDevice struct {
	Identifiers  []string `json:"identifiers"`
	Manufacturer string   `json:"manufacturer,omitempty"`
	Model        string   `json:"model,omitempty"`
	Name         string   `json:"name,omitempty"`
}

func (b *Bridge) discoveryTopic(entityID string) string {
	return b.cfg.DiscoveryPrefix + "/climate/" + entityID + "/config"
}

func (b *Bridge) discoveryMessage(state climate.State) discoveryConfig {
	stateTopic := b.stateTopic(state.EntityID)
	cfg := discoveryConfig{
		Name:     state.Name,
		UniqueID: state.EntityID,
		Device: discoveryDevice{
			Identifiers:  []string{state.EntityID},
			Manufacturer: state.Device.Manufacturer,
			Model:        state.Device.Model,
			Name:         state.Name,
		},
		Availability: []availability{
			{Topic: b.statusTopic(), PayloadAvailable: PayloadOnline, PayloadNotAvailable: PayloadOffline},
			{
				Topic:               stateTopic,
				ValueTemplate:       "{{ 'online' if value_json.available else 'offline' }}",
				PayloadAvailable:    PayloadOnline,
				PayloadNotAvailable: PayloadOffline,
			},
		},
		AvailabilityMode:           "all",
		Modes:                      state.HVACModes,
		ModeStateTopic:             stateTopic,
		ModeStateTemplate:          "{{ value_json.hvac_mode }}",
		ModeCommandTopic:           b.commandTopic(state.EntityID, commandMode),
		TemperatureStateTopic:      stateTopic,
		TemperatureStateTemplate:   "{{ value_json.temperature }}",
		TemperatureCommandTopic:    b.commandTopic(state.EntityID, commandTemperature),
		CurrentTemperatureTopic:    stateTopic,
		CurrentTemperatureTemplate: "{{ value_json.current_temperature }}",
		JSONAttributesTopic:        stateTopic,
		TempStep:                   0.5,
		TemperatureUnit:            "C",
		Platform:                   "mqtt",
	}
	if state.MinTemp != nil {
		cfg.MinTemp = *state.MinTemp
	}
	if state.MaxTemp != nil {
		cfg.MaxTemp = *state.MaxTemp
	}
	if state.Unit == climate.Fahrenheit {
		cfg.TemperatureUnit = "F"
	}
	return cfg
}
