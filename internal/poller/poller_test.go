package poller_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/clambin/warmup-bridge/internal/climate"
	"github.com/clambin/warmup-bridge/internal/poller"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityPoller_Run(t *testing.T) {
	source := &fakeSource{states: map[string]climate.State{
		"warmup_1": {EntityID: "warmup_1", Name: "Bathroom", Available: true},
		"warmup_2": {EntityID: "warmup_2", Name: "Kitchen", Available: true},
	}}
	p := poller.New(source, time.Hour, 2, slog.Default())
	ch := p.Subscribe()
	defer p.Unsubscribe(ch)

	ctx, cancel := context.WithCancel(t.Context())
	errCh := make(chan error)
	go func() { errCh <- p.Run(ctx) }()

	update := <-ch
	require.Len(t, update.States, 2)
	assert.True(t, update.States["warmup_1"].Available)

	source.fail("warmup_2")
	p.Refresh()
	update = <-ch
	require.Len(t, update.States, 2)
	assert.False(t, update.States["warmup_2"].Available)

	cancel()
	assert.NoError(t, <-errCh)
}

func TestEntityPoller_Refresh(t *testing.T) {
	p := poller.New(&fakeSource{}, time.Hour, 1, slog.Default())
	// Refresh doesn't block when the poller isn't running
	p.Refresh()
	p.Refresh()
}

type fakeSource struct {
	lock   sync.Mutex
	states map[string]climate.State
	failed map[string]bool
}

func (f *fakeSource) fail(id string) {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.failed == nil {
		f.failed = make(map[string]bool)
	}
	f.failed[id] = true
}

func (f *fakeSource) EntityIDs() []string {
	f.lock.Lock()
	defer f.lock.Unlock()
	ids := make([]string, 0, len(f.states))
	for id := range f.states {
		ids = append(ids, id)
	}
	return ids
}

func (f *fakeSource) UpdateEntity(_ context.Context, id string) (climate.State, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	state := f.states[id]
	if f.failed[id] {
		state.Available = false
		return state, errors.New("failed")
	}
	return state, nil
}
