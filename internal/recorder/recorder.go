// Package recorder writes every room update to InfluxDB, so the history of each room can be graphed.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/clambin/warmup-bridge/internal/climate"
	"github.com/clambin/warmup-bridge/internal/poller"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

const measurement = "climate"

var ErrUnhealthy = errors.New("influxdb server not healthy")

type Config struct {
	URL           string
	Token         string
	Org           string
	Bucket        string
	BatchSize     uint
	FlushInterval time.Duration
}

// PointWriter is the subset of the InfluxDB non-blocking write API used by the Recorder
type PointWriter interface {
	WritePoint(point *write.Point)
	Flush()
	Errors() <-chan error
}

type Recorder struct {
	writer PointWriter
	close  func()
	poller poller.Poller
	logger *slog.Logger
}

// Connect creates an InfluxDB client and verifies the server is reachable
func Connect(ctx context.Context, cfg Config, p poller.Poller, logger *slog.Logger) (*Recorder, error) {
	options := influxdb2.DefaultOptions()
	if cfg.BatchSize > 0 {
		options.SetBatchSize(cfg.BatchSize)
	}
	if cfg.FlushInterval > 0 {
		options.SetFlushInterval(uint(cfg.FlushInterval.Milliseconds()))
	}
	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token, options)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	healthy, err := client.Ping(ctx)
	if err == nil && !healthy {
		err = ErrUnhealthy
	}
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("influxdb ping: %w", err)
	}

	return New(client.WriteAPI(cfg.Org, cfg.Bucket), client.Close, p, logger), nil
}

func New(writer PointWriter, closer func(), p poller.Poller, logger *slog.Logger) *Recorder {
	if closer == nil {
		closer = func() {}
	}
	return &Recorder{
		writer: writer,
		close:  closer,
		poller: p,
		logger: logger,
	}
}

func (r *Recorder) Run(ctx context.Context) error {
	r.logger.Debug("started")
	defer r.logger.Debug("stopped")

	ch := r.poller.Subscribe()
	defer r.poller.Unsubscribe(ch)
	errCh := r.writer.Errors()

	for {
		select {
		case <-ctx.Done():
			r.writer.Flush()
			r.close()
			return nil
		case update := <-ch:
			r.record(update)
		case err := <-errCh:
			r.logger.Warn("failed to write to influxdb", "err", err)
		}
	}
}

func (r *Recorder) record(update poller.Update) {
	for _, id := range update.EntityIDs() {
		r.writer.WritePoint(makePoint(update.States[id]))
	}
	r.logger.Debug("update recorded", "rooms", len(update.States))
}

func makePoint(state climate.State) *write.Point {
	fields := map[string]any{
		"available": state.Available,
	}
	if state.HVACMode != nil {
		fields["mode"] = string(*state.HVACMode)
	}
	for key, value := range map[string]*float64{
		"current": state.CurrentTemperature,
		"target":  state.TargetTemperature,
		"min":     state.MinTemp,
		"max":     state.MaxTemp,
	} {
		if value != nil {
			fields[key] = *value
		}
	}

	timestamp := state.LastUpdated
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	return write.NewPoint(
		measurement,
		map[string]string{"entity_id": state.EntityID, "name": state.Name},
		fields,
		timestamp,
	)
}
