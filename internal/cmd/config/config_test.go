package config_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/clambin/warmup-bridge/internal/cmd/config"
	"github.com/clambin/warmup-bridge/internal/cmd/config/mocks"
	"github.com/clambin/warmup-bridge/pkg/warmup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestShowConfig(t *testing.T) {
	ctx := context.Background()
	target := 21.5
	home := warmup.Location{ID: 1, Name: "Home", Mode: warmup.LocationModeProgram}
	c := mocks.NewRoomGetter(t)
	c.EXPECT().GetRooms(ctx).Return([]warmup.Room{
		{ID: 10, Name: "Bathroom", Mode: warmup.ProgramModeProgram, TargetTemp: &target, Location: home},
		{ID: 11, Name: "Kitchen", Mode: warmup.ProgramModeFixed, Location: home},
		{ID: 20, Name: "Office", Mode: warmup.ProgramModeProgram, Location: warmup.Location{ID: 2, Name: "Work", Mode: warmup.LocationModeOff}},
	}, nil)

	var out bytes.Buffer
	require.NoError(t, config.ShowConfig(ctx, "foo@example.com", c, json.NewEncoder(&out)))
	assert.Equal(t, `{"Email":"foo@example.com","Locations":[{"ID":1,"Name":"Home","Mode":"prog","Rooms":[{"ID":10,"Name":"Bathroom","Mode":"prog","Target":21.5},{"ID":11,"Name":"Kitchen","Mode":"fixed"}]},{"ID":2,"Name":"Work","Mode":"off","Rooms":[{"ID":20,"Name":"Office","Mode":"prog"}]}]}
`, out.String())

	out.Reset()
	require.NoError(t, config.ShowConfig(ctx, "foo@example.com", c, yaml.NewEncoder(&out)))
	var report struct {
		Email     string
		Locations []struct {
			Name  string
			Rooms []struct {
				Name   string
				Target float64
			}
		}
	}
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, "foo@example.com", report.Email)
	require.Len(t, report.Locations, 2)
	assert.Equal(t, "Home", report.Locations[0].Name)
	require.Len(t, report.Locations[0].Rooms, 2)
	assert.Equal(t, 21.5, report.Locations[0].Rooms[0].Target)
}

func TestShowConfig_Failure(t *testing.T) {
	ctx := context.Background()
	c := mocks.NewRoomGetter(t)
	c.EXPECT().GetRooms(ctx).Return(nil, errors.New("unreachable"))

	var out bytes.Buffer
	err := config.ShowConfig(ctx, "foo@example.com", c, json.NewEncoder(&out))
	assert.ErrorContains(t, err, "unreachable")
	assert.Empty(t, out.String())
}
