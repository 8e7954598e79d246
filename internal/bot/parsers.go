package bot

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/clambin/warmup-bridge/internal/climate"
)

type setRoomCommand struct {
	roomName    string
	mode        climate.HVACMode
	temperature float64
}

func parseSetRoom(args ...string) (setRoomCommand, error) {
	if len(args) < 2 {
		return setRoomCommand{}, errors.New("missing parameters\nUsage: set <room> [auto|heat|off|<temperature>]")
	}

	cmd := setRoomCommand{roomName: args[0]}

	switch mode := climate.HVACMode(args[1]); mode {
	case climate.HVACModeAuto, climate.HVACModeHeat, climate.HVACModeOff:
		cmd.mode = mode
		return cmd, nil
	}

	var err error
	if cmd.temperature, err = strconv.ParseFloat(args[1], 64); err != nil {
		return setRoomCommand{}, fmt.Errorf("invalid target temperature: %q", args[1])
	}
	return cmd, nil
}
