package collector

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/clambin/warmup-bridge/internal/climate"
	"github.com/clambin/warmup-bridge/internal/poller/testutils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	c := Collector{Logger: slog.Default()}

	assert.Zero(t, testutil.CollectAndCount(&c))

	c.process(testutils.Update(
		testutils.WithState("warmup_1", "Bathroom", climate.HVACModeAuto, 21.5, 22, testutils.WithBounds(5, 30)),
		testutils.WithState("warmup_2", "Kitchen", climate.HVACModeHeat, 19, 20, testutils.WithUnavailable(), testutils.WithUnknownTemperature()),
		testutils.WithState("warmup_3", "Office", climate.HVACModeOff, 17, 18, testutils.WithUnknownMode()),
	))

	require.NoError(t, testutil.CollectAndCompare(&c, strings.NewReader(`
# HELP warmup_room_available 1 if the room's last update succeeded
# TYPE warmup_room_available gauge
warmup_room_available{id="warmup_1",room="Bathroom"} 1
warmup_room_available{id="warmup_2",room="Kitchen"} 0
warmup_room_available{id="warmup_3",room="Office"} 1

# HELP warmup_room_max_temp_celsius Highest target temperature of this room in degrees celsius
# TYPE warmup_room_max_temp_celsius gauge
warmup_room_max_temp_celsius{id="warmup_1",room="Bathroom"} 30

# HELP warmup_room_min_temp_celsius Lowest target temperature of this room in degrees celsius
# TYPE warmup_room_min_temp_celsius gauge
warmup_room_min_temp_celsius{id="warmup_1",room="Bathroom"} 5

# HELP warmup_room_mode Operating mode of the room. Always 1. Label mode specifies the mode
# TYPE warmup_room_mode gauge
warmup_room_mode{id="warmup_1",mode="auto",room="Bathroom"} 1
warmup_room_mode{id="warmup_2",mode="heat",room="Kitchen"} 1

# HELP warmup_room_target_temp_celsius Target temperature of this room in degrees celsius
# TYPE warmup_room_target_temp_celsius gauge
warmup_room_target_temp_celsius{id="warmup_1",room="Bathroom"} 22
warmup_room_target_temp_celsius{id="warmup_2",room="Kitchen"} 20
warmup_room_target_temp_celsius{id="warmup_3",room="Office"} 18

# HELP warmup_room_temperature_celsius Current temperature of this room in degrees celsius
# TYPE warmup_room_temperature_celsius gauge
warmup_room_temperature_celsius{id="warmup_1",room="Bathroom"} 21.5
warmup_room_temperature_celsius{id="warmup_3",room="Office"} 17
`)))
}

func TestCollector_SameRoomName(t *testing.T) {
	c := Collector{Logger: slog.Default()}
	c.process(testutils.Update(
		testutils.WithState("warmup_1", "Bathroom", climate.HVACModeAuto, 21.5, 22),
		testutils.WithState("warmup_2", "Bathroom", climate.HVACModeHeat, 19, 20),
	))

	r := prometheus.NewPedanticRegistry()
	r.MustRegister(&c)
	metrics, err := r.Gather()
	require.NoError(t, err)
	assert.Len(t, metrics, 4)

	require.NoError(t, testutil.CollectAndCompare(&c, strings.NewReader(`
# HELP warmup_room_temperature_celsius Current temperature of this room in degrees celsius
# TYPE warmup_room_temperature_celsius gauge
warmup_room_temperature_celsius{id="warmup_1",room="Bathroom"} 21.5
warmup_room_temperature_celsius{id="warmup_2",room="Bathroom"} 19
`), "warmup_room_temperature_celsius"))
}
