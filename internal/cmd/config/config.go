package config

import (
	"context"
	"fmt"

	"github.com/clambin/warmup-bridge/pkg/warmup"
)

type Encoder interface {
	Encode(any) error
}

//go:generate mockery --name RoomGetter --with-expecter
type RoomGetter interface {
	GetRooms(context.Context) ([]warmup.Room, error)
}

type room struct {
	ID     int
	Name   string
	Mode   string
	Target *float64 `json:",omitempty" yaml:",omitempty"`
}

type location struct {
	ID    int
	Name  string
	Mode  string
	Rooms []room
}

type report struct {
	Email     string
	Locations []location
}

// ShowConfig writes the locations and rooms of the account to e
func ShowConfig(ctx context.Context, email string, c RoomGetter, e Encoder) error {
	rooms, err := c.GetRooms(ctx)
	if err != nil {
		return fmt.Errorf("warmup: rooms: %w", err)
	}

	r := report{Email: email}
	index := make(map[int]int)
	for _, rm := range rooms {
		i, ok := index[rm.Location.ID]
		if !ok {
			i = len(r.Locations)
			index[rm.Location.ID] = i
			r.Locations = append(r.Locations, location{
				ID:   rm.Location.ID,
				Name: rm.Location.Name,
				Mode: string(rm.Location.Mode),
			})
		}
		r.Locations[i].Rooms = append(r.Locations[i].Rooms, room{
			ID:     rm.ID,
			Name:   rm.Name,
			Mode:   string(rm.Mode),
			Target: rm.TargetTemp,
		})
	}

	return e.Encode(r)
}
