package warmup

import (
	"context"
	"fmt"
)

// GetAccessToken exchanges the user's email & password for a long-lived access token.
// If the credentials are rejected, the returned error wraps ErrInvalidToken.
func GetAccessToken(ctx context.Context, email, password string, options ...Option) (string, error) {
	c := New(email, "", options...)
	var resp struct {
		Token string `json:"token"`
	}
	err := c.call(ctx, "userLogin", params{
		"email":    email,
		"password": password,
		"appId":    appID,
	}, &resp)
	if err == nil && resp.Token == "" {
		err = &Error{Method: "userLogin", Result: resultSuccess, Message: "no token received"}
	}
	return resp.Token, err
}

// GetLocations returns all locations of the user
func (c *APIClient) GetLocations(ctx context.Context) ([]Location, error) {
	var resp struct {
		Locations []Location `json:"locations"`
	}
	err := c.call(ctx, "getLocations", nil, &resp)
	return resp.Locations, err
}

// GetRooms returns the rooms of all the user's locations
func (c *APIClient) GetRooms(ctx context.Context) ([]Room, error) {
	locations, err := c.GetLocations(ctx)
	if err != nil {
		return nil, err
	}
	var rooms []Room
	for _, location := range locations {
		locationRooms, err := c.getRooms(ctx, location)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, locationRooms...)
	}
	return rooms, nil
}

func (c *APIClient) getRooms(ctx context.Context, location Location) ([]Room, error) {
	var resp struct {
		Rooms []apiRoom `json:"rooms"`
	}
	if err := c.call(ctx, "getRooms", params{"locId": location.ID}, &resp); err != nil {
		return nil, err
	}
	rooms := make([]Room, len(resp.Rooms))
	for i, r := range resp.Rooms {
		rooms[i] = r.toRoom(location)
	}
	return rooms, nil
}

// GetRoom returns the current state of a single room, including the mode of its location
func (c *APIClient) GetRoom(ctx context.Context, roomID int) (Room, error) {
	var resp struct {
		Room apiRoom `json:"room"`
	}
	if err := c.call(ctx, "getRoom", params{"roomId": roomID}, &resp); err != nil {
		return Room{}, err
	}
	locations, err := c.GetLocations(ctx)
	if err != nil {
		return Room{}, err
	}
	for _, location := range locations {
		if location.ID == resp.Room.LocationID {
			return resp.Room.toRoom(location), nil
		}
	}
	return Room{}, fmt.Errorf("getRoom: room %d: location %d not found", roomID, resp.Room.LocationID)
}

// SetTemperature sets the fixed target temperature of a room, in degrees Celsius. This switches the room to ProgramModeFixed.
func (c *APIClient) SetTemperature(ctx context.Context, roomID int, temperature float64) error {
	return c.call(ctx, "setProgramme", params{
		"roomId":   roomID,
		"roomMode": ProgramModeFixed,
		"fixed":    params{"fixedTemp": toTenths(temperature)},
	}, nil)
}

// SetTemperatureToAuto lets the room follow its program
func (c *APIClient) SetTemperatureToAuto(ctx context.Context, roomID int) error {
	return c.setProgramMode(ctx, roomID, ProgramModeProgram)
}

// SetTemperatureToManual lets the room follow its fixed target temperature
func (c *APIClient) SetTemperatureToManual(ctx context.Context, roomID int) error {
	return c.setProgramMode(ctx, roomID, ProgramModeFixed)
}

func (c *APIClient) setProgramMode(ctx context.Context, roomID int, mode ProgramMode) error {
	return c.call(ctx, "setProgramme", params{"roomId": roomID, "roomMode": mode}, nil)
}

// SetLocationToOff switches off all rooms in the location
func (c *APIClient) SetLocationToOff(ctx context.Context, locationID int) error {
	return c.call(ctx, "setModes", params{
		"values": params{
			"holEnd":    "-",
			"fixedTemp": "",
			"holStart":  "-",
			"geoMode":   "0",
			"holTemp":   "-",
			"locId":     locationID,
			"locMode":   LocationModeOff,
		},
	}, nil)
}
