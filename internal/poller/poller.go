// Package poller periodically updates all registered entities and publishes their state.
package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/clambin/warmup-bridge/internal/climate"
	"github.com/clambin/warmup-bridge/internal/host"
	"github.com/clambin/warmup-bridge/pkg/pubsub"
	"golang.org/x/sync/errgroup"
)

// Poller publishes an Update after each poll
//
//go:generate mockery --name Poller --with-expecter
type Poller interface {
	Subscribe() chan Update
	Unsubscribe(ch chan Update)
	Refresh()
}

// EntitySource holds the entities to poll
type EntitySource interface {
	EntityIDs() []string
	UpdateEntity(ctx context.Context, entityID string) (climate.State, error)
}

var _ EntitySource = &host.Host{}

var _ Poller = &EntityPoller{}

const DefaultInterval = 30 * time.Second

// EntityPoller updates all entities of an EntitySource and publishes their state to its subscribers.
type EntityPoller struct {
	Source EntitySource
	*pubsub.Publisher[Update]
	interval time.Duration
	parallel int
	logger   *slog.Logger
	refresh  chan struct{}
}

func New(source EntitySource, interval time.Duration, parallel int, logger *slog.Logger) *EntityPoller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if parallel < 1 {
		parallel = 1
	}
	return &EntityPoller{
		Source:    source,
		Publisher: pubsub.New[Update](logger.With(slog.String("component", "pubsub"))),
		interval:  interval,
		parallel:  parallel,
		logger:    logger,
		refresh:   make(chan struct{}, 1),
	}
}

func (p *EntityPoller) Run(ctx context.Context) error {
	p.logger.Debug("started", slog.Duration("interval", p.interval))
	defer p.logger.Debug("stopped")

	timer := time.NewTicker(p.interval)
	defer timer.Stop()

	p.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		case <-p.refresh:
		}
		p.poll(ctx)
	}
}

// Refresh requests an immediate poll. It does not block: if a poll is already pending, the request is dropped.
func (p *EntityPoller) Refresh() {
	select {
	case p.refresh <- struct{}{}:
	default:
	}
}

func (p *EntityPoller) poll(ctx context.Context) {
	start := time.Now()
	update := p.update(ctx)
	p.Publisher.Publish(update)
	p.logger.Debug("poll completed", slog.Duration("duration", time.Since(start)), slog.Any("update", update))
}

// update refreshes all entities. Entities that fail to update are reported as unavailable; the host logs the error.
func (p *EntityPoller) update(ctx context.Context) Update {
	update := Update{States: make(map[string]climate.State)}
	var lock sync.Mutex

	var g errgroup.Group
	g.SetLimit(p.parallel)
	for _, id := range p.Source.EntityIDs() {
		g.Go(func() error {
			state, _ := p.Source.UpdateEntity(ctx, id)
			if state.EntityID == "" {
				// entity was removed while polling
				return nil
			}
			lock.Lock()
			update.States[id] = state
			lock.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return update
}
