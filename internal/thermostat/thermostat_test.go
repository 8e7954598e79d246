package thermostat

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/clambin/warmup-bridge/internal/bridge"
	"github.com/clambin/warmup-bridge/internal/bridge/mocks"
	"github.com/clambin/warmup-bridge/internal/climate"
	"github.com/clambin/warmup-bridge/internal/executor"
	"github.com/clambin/warmup-bridge/internal/host"
	"github.com/clambin/warmup-bridge/pkg/warmup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

var bathroom = warmup.Room{
	ID:             12,
	Name:           "Bathroom",
	CurrentTemp:    ptr(21.5),
	TargetTemp:     ptr(22),
	TargetTempHigh: ptr(30),
	TargetTempLow:  ptr(5),
	Mode:           warmup.ProgramModeProgram,
	Location:       warmup.Location{ID: 1, Name: "Home", Mode: warmup.LocationModeProgram},
}

func TestThermostat_Read(t *testing.T) {
	th := New(bathroom, mocks.NewAPI(t), executor.New(1, slog.Default()), slog.Default())

	assert.Equal(t, "warmup_12", th.UniqueID())
	assert.Equal(t, "Bathroom", th.Name())
	assert.Equal(t, climate.Celsius, th.TemperatureUnit())
	assert.Equal(t, climate.DeviceInfo{Manufacturer: "Warmup", Model: "Warmup 4iE"}, th.DeviceInfo())

	for _, tt := range []struct {
		name   string
		getter func() (float64, bool)
		want   float64
	}{
		{"current", th.CurrentTemperature, 21.5},
		{"target", th.TargetTemperature, 22},
		{"min", th.MinTemp, 5},
		{"max", th.MaxTemp, 30},
	} {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.getter()
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	capabilities := th.Capabilities()
	assert.True(t, capabilities.Supports(climate.FeatureTargetTemperature))
	assert.False(t, capabilities.Supports(climate.FeaturePresetMode))
	assert.False(t, capabilities.Supports(climate.FeatureHVACAction))
	for _, mode := range []climate.HVACMode{climate.HVACModeOff, climate.HVACModeAuto, climate.HVACModeHeat} {
		assert.True(t, capabilities.SupportsHVACMode(mode), mode)
	}
	assert.False(t, capabilities.SupportsHVACMode(climate.HVACModeCool))
	assert.Equal(t, []climate.HVACMode{climate.HVACModeAuto, climate.HVACModeHeat, climate.HVACModeOff}, th.HVACModes())

	assert.Equal(t, climate.PresetNone, th.PresetMode())
	assert.ErrorIs(t, th.SetPresetMode(t.Context(), "away"), climate.ErrNotSupported)
	_, err := th.HVACAction()
	assert.ErrorIs(t, err, climate.ErrNotSupported)
}

func TestThermostat_Read_Unknown(t *testing.T) {
	th := New(warmup.Room{ID: 1, Name: "Kitchen", Mode: warmup.ProgramModeFixed}, mocks.NewAPI(t), executor.New(1, slog.Default()), slog.Default())

	for _, getter := range []func() (float64, bool){th.CurrentTemperature, th.TargetTemperature, th.MinTemp, th.MaxTemp} {
		_, ok := getter()
		assert.False(t, ok)
	}
}

func TestThermostat_HVACMode(t *testing.T) {
	tests := []struct {
		name     string
		program  warmup.ProgramMode
		location warmup.LocationMode
		wantOK   bool
		want     climate.HVACMode
	}{
		{name: "program", program: warmup.ProgramModeProgram, location: warmup.LocationModeProgram, wantOK: true, want: climate.HVACModeAuto},
		{name: "fixed", program: warmup.ProgramModeFixed, location: warmup.LocationModeProgram, wantOK: true, want: climate.HVACModeHeat},
		{name: "location off (program)", program: warmup.ProgramModeProgram, location: warmup.LocationModeOff, wantOK: true, want: climate.HVACModeOff},
		{name: "location off (fixed)", program: warmup.ProgramModeFixed, location: warmup.LocationModeOff, wantOK: true, want: climate.HVACModeOff},
		{name: "location off (unknown)", program: "holiday", location: warmup.LocationModeOff, wantOK: true, want: climate.HVACModeOff},
		{name: "frost", program: warmup.ProgramModeFixed, location: warmup.LocationModeFrost, wantOK: true, want: climate.HVACModeHeat},
		{name: "unknown", program: "holiday", location: warmup.LocationModeProgram, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			room := warmup.Room{ID: 1, Mode: tt.program, Location: warmup.Location{ID: 1, Mode: tt.location}}
			th := New(room, mocks.NewAPI(t), executor.New(1, slog.Default()), slog.Default())
			mode, ok := th.HVACMode()
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, mode)
			}
		})
	}
}

func TestThermostat_SetHVACMode(t *testing.T) {
	tests := []struct {
		name   string
		mode   climate.HVACMode
		expect func(api *mocks.API)
	}{
		{
			name:   "auto",
			mode:   climate.HVACModeAuto,
			expect: func(api *mocks.API) { api.On("SetTemperatureToAuto", mock.Anything, 12).Return(nil).Once() },
		},
		{
			name:   "heat",
			mode:   climate.HVACModeHeat,
			expect: func(api *mocks.API) { api.On("SetTemperatureToManual", mock.Anything, 12).Return(nil).Once() },
		},
		{
			name:   "off",
			mode:   climate.HVACModeOff,
			expect: func(api *mocks.API) { api.On("SetLocationToOff", mock.Anything, 1).Return(nil).Once() },
		},
		{
			name: "cool",
			mode: climate.HVACModeCool,
		},
		{
			name: "invalid",
			mode: "foo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := mocks.NewAPI(t)
			if tt.expect != nil {
				tt.expect(api)
			}
			th := New(bathroom, api, executor.New(1, slog.Default()), slog.Default())
			assert.NoError(t, th.SetHVACMode(t.Context(), tt.mode))
		})
	}
}

func TestThermostat_SetHVACMode_Failure(t *testing.T) {
	api := mocks.NewAPI(t)
	api.On("SetTemperatureToAuto", mock.Anything, 12).Return(&warmup.Error{Method: "setProgramme", StatusCode: 503}).Once()
	th := New(bathroom, api, executor.New(1, slog.Default()), slog.Default())

	var warmupErr *warmup.Error
	assert.ErrorAs(t, th.SetHVACMode(t.Context(), climate.HVACModeAuto), &warmupErr)
}

func TestThermostat_SetTemperature(t *testing.T) {
	api := mocks.NewAPI(t)
	th := New(bathroom, api, executor.New(1, slog.Default()), slog.Default())

	require.NoError(t, th.SetTemperature(t.Context(), climate.SetTemperatureRequest{}))

	api.On("SetTemperature", mock.Anything, 12, 19.5).Return(nil).Once()
	require.NoError(t, th.SetTemperature(t.Context(), climate.SetTemperatureRequest{Temperature: ptr(19.5)}))

	// no bounds validation: out-of-range values are passed as-is
	api.On("SetTemperature", mock.Anything, 12, 45.0).Return(nil).Once()
	require.NoError(t, th.SetTemperature(t.Context(), climate.SetTemperatureRequest{Temperature: ptr(45)}))
}

func TestThermostat_Update(t *testing.T) {
	api := mocks.NewAPI(t)
	th := New(bathroom, api, executor.New(1, slog.Default()), slog.Default())

	updated := warmup.Room{
		ID:         12,
		Name:       "Bathroom",
		TargetTemp: ptr(18),
		Mode:       warmup.ProgramModeFixed,
		Location:   warmup.Location{ID: 1, Mode: warmup.LocationModeProgram},
	}
	api.On("GetRoom", mock.Anything, 12).Return(updated, nil).Once()
	require.NoError(t, th.Update(t.Context()))

	assert.Equal(t, updated, th.Room())
	_, ok := th.CurrentTemperature()
	assert.False(t, ok, "fields missing from the update are unknown")
	mode, ok := th.HVACMode()
	require.True(t, ok)
	assert.Equal(t, climate.HVACModeHeat, mode)

	api.On("GetRoom", mock.Anything, 12).Return(warmup.Room{}, errors.New("unreachable")).Once()
	assert.Error(t, th.Update(t.Context()))
	assert.Equal(t, updated, th.Room())
}

func TestPlatform_SetupEntry(t *testing.T) {
	api := mocks.NewAPI(t)
	kitchen := warmup.Room{ID: 13, Name: "Kitchen", Mode: warmup.ProgramModeFixed, Location: bathroom.Location}
	api.On("GetRoom", mock.Anything, 12).Return(bathroom, nil).Once()
	api.On("GetRoom", mock.Anything, 13).Return(kitchen, nil).Once()

	p := Platform{
		Source:   fakeSource{rooms: []warmup.Room{bathroom, kitchen}, api: api},
		Executor: executor.New(1, slog.Default()),
		Logger:   slog.Default(),
	}
	assert.Equal(t, "climate", p.Name())

	var added []climate.Entity
	err := p.SetupEntry(t.Context(), host.ConfigEntry{}, func(ctx context.Context, entities []climate.Entity, updateBeforeAdd bool) error {
		assert.True(t, updateBeforeAdd)
		for _, e := range entities {
			if err := e.Update(ctx); err != nil {
				return err
			}
		}
		added = entities
		return nil
	})
	require.NoError(t, err)
	require.Len(t, added, 2)
	assert.Equal(t, "warmup_12", added[0].UniqueID())
	assert.Equal(t, "warmup_13", added[1].UniqueID())
}

type fakeSource struct {
	rooms []warmup.Room
	api   bridge.API
}

func (f fakeSource) Rooms() []warmup.Room { return f.rooms }
func (f fakeSource) API() bridge.API      { return f.api }
