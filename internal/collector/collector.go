package collector

import (
	"context"
	"log/slog"
	"sync"

	"github.com/clambin/warmup-bridge/internal/climate"
	"github.com/clambin/warmup-bridge/internal/poller"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	warmupRoomAvailable = prometheus.NewDesc(
		prometheus.BuildFQName("warmup", "room", "available"),
		"1 if the room's last update succeeded",
		[]string{"room", "id"},
		nil,
	)
	warmupRoomTemperatureCelsius = prometheus.NewDesc(
		prometheus.BuildFQName("warmup", "room", "temperature_celsius"),
		"Current temperature of this room in degrees celsius",
		[]string{"room", "id"},
		nil,
	)
	warmupRoomTargetTempCelsius = prometheus.NewDesc(
		prometheus.BuildFQName("warmup", "room", "target_temp_celsius"),
		"Target temperature of this room in degrees celsius",
		[]string{"room", "id"},
		nil,
	)
	warmupRoomMinTempCelsius = prometheus.NewDesc(
		prometheus.BuildFQName("warmup", "room", "min_temp_celsius"),
		"Lowest target temperature of this room in degrees celsius",
		[]string{"room", "id"},
		nil,
	)
	warmupRoomMaxTempCelsius = prometheus.NewDesc(
		prometheus.BuildFQName("warmup", "room", "max_temp_celsius"),
		"Highest target temperature of this room in degrees celsius",
		[]string{"room", "id"},
		nil,
	)
	warmupRoomMode = prometheus.NewDesc(
		prometheus.BuildFQName("warmup", "room", "mode"),
		"Operating mode of the room. Always 1. Label mode specifies the mode",
		[]string{"room", "id", "mode"},
		nil,
	)
)

// Collector exports the state of all rooms from the last update as Prometheus metrics
type Collector struct {
	Poller     poller.Poller
	Logger     *slog.Logger
	lock       sync.RWMutex
	lastUpdate *poller.Update
}

var _ prometheus.Collector = &Collector{}

func (c *Collector) Run(ctx context.Context) error {
	c.Logger.Debug("started")
	defer c.Logger.Debug("stopped")

	ch := c.Poller.Subscribe()
	defer c.Poller.Unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			return nil
		case update := <-ch:
			c.process(update)
		}
	}
}

func (c *Collector) process(update poller.Update) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.lastUpdate = &update
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- warmupRoomAvailable
	ch <- warmupRoomTemperatureCelsius
	ch <- warmupRoomTargetTempCelsius
	ch <- warmupRoomMinTempCelsius
	ch <- warmupRoomMaxTempCelsius
	ch <- warmupRoomMode
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	if c.lastUpdate == nil {
		return
	}
	for _, id := range c.lastUpdate.EntityIDs() {
		c.collectRoom(ch, id, c.lastUpdate.States[id])
	}
}

func (c *Collector) collectRoom(ch chan<- prometheus.Metric, id string, state climate.State) {
	var value float64
	if state.Available {
		value = 1
	}
	ch <- prometheus.MustNewConstMetric(warmupRoomAvailable, prometheus.GaugeValue, value, state.Name, id)

	for desc, temperature := range map[*prometheus.Desc]*float64{
		warmupRoomTemperatureCelsius: state.CurrentTemperature,
		warmupRoomTargetTempCelsius:  state.TargetTemperature,
		warmupRoomMinTempCelsius:     state.MinTemp,
		warmupRoomMaxTempCelsius:     state.MaxTemp,
	} {
		if temperature != nil {
			ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, *temperature, state.Name, id)
		}
	}

	if state.HVACMode != nil {
		ch <- prometheus.MustNewConstMetric(warmupRoomMode, prometheus.GaugeValue, 1, state.Name, id, string(*state.HVACMode))
	}
}
