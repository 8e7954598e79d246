package warmup

import (
	"log/slog"
	"math"
	"strconv"
)

// ProgramMode is the scheduling mode of a room
type ProgramMode string

const (
	// ProgramModeProgram: the room follows its weekly program
	ProgramModeProgram ProgramMode = "prog"
	// ProgramModeFixed: the room follows a fixed target temperature
	ProgramModeFixed ProgramMode = "fixed"
)

// LocationMode is the mode of a location. It applies to all rooms in that location.
type LocationMode string

const (
	LocationModeOff     LocationMode = "off"
	LocationModeProgram LocationMode = "prog"
	LocationModeFrost   LocationMode = "frost"
)

// Location groups a set of rooms
type Location struct {
	ID   int          `json:"id"`
	Name string       `json:"name"`
	Mode LocationMode `json:"locMode"`
}

// Room is a zone controlled by one Warmup thermostat. Temperatures are in degrees Celsius and are nil if not reported.
type Room struct {
	ID             int
	Name           string
	CurrentTemp    *float64
	TargetTemp     *float64
	TargetTempHigh *float64
	TargetTempLow  *float64
	Mode           ProgramMode
	Location       Location
}

func (r Room) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("id", r.ID),
		slog.String("name", r.Name),
		slog.String("mode", string(r.Mode)),
		slog.String("current", formatTemperature(r.CurrentTemp)),
		slog.String("target", formatTemperature(r.TargetTemp)),
		slog.Group("location",
			slog.Int("id", r.Location.ID),
			slog.String("mode", string(r.Location.Mode)),
		),
	)
}

func formatTemperature(t *float64) string {
	if t == nil {
		return "unknown"
	}
	return strconv.FormatFloat(*t, 'f', 1, 64)
}

// room as returned by the API. Temperatures are reported in tenths of a degree.
type apiRoom struct {
	ID          int    `json:"roomId"`
	Name        string `json:"roomName"`
	LocationID  int    `json:"locId"`
	RunMode     string `json:"runMode"`
	CurrentTemp *int   `json:"currentTemp"`
	TargetTemp  *int   `json:"targetTemp"`
	MaxTemp     *int   `json:"maxTemp"`
	MinTemp     *int   `json:"minTemp"`
}

func (r apiRoom) toRoom(location Location) Room {
	return Room{
		ID:             r.ID,
		Name:           r.Name,
		CurrentTemp:    fromTenths(r.CurrentTemp),
		TargetTemp:     fromTenths(r.TargetTemp),
		TargetTempHigh: fromTenths(r.MaxTemp),
		TargetTempLow:  fromTenths(r.MinTemp),
		Mode:           ProgramMode(r.RunMode),
		Location:       location,
	}
}

func fromTenths(v *int) *float64 {
	if v == nil {
		return nil
	}
	t := float64(*v) / 10
	return &t
}

func toTenths(v float64) string {
	return strconv.Itoa(int(math.Round(v * 10)))
}
