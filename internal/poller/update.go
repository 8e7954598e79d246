package poller

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/clambin/warmup-bridge/internal/climate"
)

// Update holds the state of all entities after a poll, keyed by entity ID
type Update struct {
	States map[string]climate.State
}

// EntityIDs returns the IDs of all entities in the update, sorted
func (u Update) EntityIDs() []string {
	ids := make([]string, 0, len(u.States))
	for id := range u.States {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// GetEntityID returns the ID of the entity with the provided name or entity ID. Names are matched case-insensitively.
// A name shared by more than one entity matches none of them.
func (u Update) GetEntityID(name string) (string, bool) {
	if _, ok := u.States[name]; ok {
		return name, true
	}
	var match string
	for id, state := range u.States {
		if strings.EqualFold(state.Name, name) {
			if match != "" {
				return "", false
			}
			match = id
		}
	}
	return match, match != ""
}

func (u Update) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(u.States))
	for _, id := range u.EntityIDs() {
		attrs = append(attrs, slog.Group(id, logState(u.States[id])...))
	}
	return slog.GroupValue(attrs...)
}

func logState(state climate.State) []any {
	attrs := make([]any, 2, 5)
	attrs[0] = slog.String("name", state.Name)
	attrs[1] = slog.Bool("available", state.Available)
	if state.HVACMode != nil {
		attrs = append(attrs, slog.String("mode", string(*state.HVACMode)))
	}
	if state.CurrentTemperature != nil {
		attrs = append(attrs, slog.Float64("current", *state.CurrentTemperature))
	}
	if state.TargetTemperature != nil {
		attrs = append(attrs, slog.Float64("target", *state.TargetTemperature))
	}
	return attrs
}
