package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/clambin/warmup-bridge/internal/poller"
)

const (
	StatusOK          = "ok"
	StatusDegraded    = "degraded"
	StatusUnavailable = "unavailable"
)

// Report is the body of a /health response
type Report struct {
	Status     string                  `json:"status"`
	LastUpdate time.Time               `json:"last_update"`
	Entities   map[string]EntityReport `json:"entities"`
}

// EntityReport holds the availability of one entity after the last update
type EntityReport struct {
	Name        string    `json:"name"`
	Available   bool      `json:"available"`
	LastUpdated time.Time `json:"last_updated"`
}

// Health reports the availability of all entities in the last published update.
//
// The service is unavailable (503) until the first update arrives, when the update holds no entities,
// or when the last update failed for every entity. If only some entities failed, it reports itself as degraded.
type Health struct {
	poller poller.Poller
	logger *slog.Logger
	lock   sync.RWMutex
	report *Report
}

func New(p poller.Poller, logger *slog.Logger) *Health {
	return &Health{
		poller: p,
		logger: logger,
	}
}

func (h *Health) Run(ctx context.Context) error {
	h.logger.Debug("started")
	defer h.logger.Debug("stopped")

	ch := h.poller.Subscribe()
	defer h.poller.Unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			return nil
		case update := <-ch:
			report := makeReport(update, time.Now())
			if report.Status != StatusOK {
				h.logger.Warn("not all rooms available", "status", report.Status, "rooms", len(report.Entities))
			}
			h.lock.Lock()
			h.report = &report
			h.lock.Unlock()
		}
	}
}

func makeReport(update poller.Update, received time.Time) Report {
	report := Report{
		LastUpdate: received,
		Entities:   make(map[string]EntityReport, len(update.States)),
	}
	var available int
	for id, state := range update.States {
		report.Entities[id] = EntityReport{
			Name:        state.Name,
			Available:   state.Available,
			LastUpdated: state.LastUpdated,
		}
		if state.Available {
			available++
		}
	}
	switch {
	case available == 0:
		report.Status = StatusUnavailable
	case available < len(update.States):
		report.Status = StatusDegraded
	default:
		report.Status = StatusOK
	}
	return report
}

func (h *Health) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	h.lock.RLock()
	defer h.lock.RUnlock()
	if h.report == nil {
		http.Error(w, "no update yet", http.StatusServiceUnavailable)
		h.poller.Refresh()
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if h.report.Status == StatusUnavailable {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(h.report); err != nil {
		h.logger.Error("failed to encode health report", "err", err)
	}
}
