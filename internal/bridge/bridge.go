// Package bridge holds the session with the Warmup service for one config entry and the latest list of rooms.
package bridge

import (
	"context"
	"log/slog"
	"sync"

	"github.com/clambin/warmup-bridge/internal/executor"
	"github.com/clambin/warmup-bridge/pkg/warmup"
)

// API is the subset of the Warmup client used by the bridge and its entities
//
//go:generate mockery --name API
type API interface {
	GetRooms(ctx context.Context) ([]warmup.Room, error)
	GetRoom(ctx context.Context, roomID int) (warmup.Room, error)
	SetTemperature(ctx context.Context, roomID int, temperature float64) error
	SetTemperatureToAuto(ctx context.Context, roomID int) error
	SetTemperatureToManual(ctx context.Context, roomID int) error
	SetLocationToOff(ctx context.Context, locationID int) error
}

var _ API = &warmup.APIClient{}

// APIFactory creates the client for a set of credentials
type APIFactory func(email, token string) API

// DefaultFactory returns a factory that creates a Warmup client with the provided options
func DefaultFactory(options ...warmup.Option) APIFactory {
	return func(email, token string) API {
		return warmup.New(email, token, options...)
	}
}

// Bridge keeps the client for an account and the rooms it last saw.
// The client is created on first use.
type Bridge struct {
	email    string
	token    string
	factory  APIFactory
	executor *executor.Executor
	logger   *slog.Logger

	once  sync.Once
	api   API
	lock  sync.RWMutex
	rooms []warmup.Room
}

func New(email, token string, factory APIFactory, exec *executor.Executor, logger *slog.Logger) *Bridge {
	return &Bridge{
		email:    email,
		token:    token,
		factory:  factory,
		executor: exec,
		logger:   logger,
	}
}

// Email returns the account the bridge logs in with
func (b *Bridge) Email() string {
	return b.email
}

// API returns the Warmup client
func (b *Bridge) API() API {
	b.once.Do(func() {
		b.api = b.factory(b.email, b.token)
	})
	return b.api
}

// Refresh retrieves all rooms and replaces the stored list. Errors are returned as-is.
func (b *Bridge) Refresh(ctx context.Context) error {
	api := b.API()
	rooms, err := executor.Call(ctx, b.executor, api.GetRooms)
	if err != nil {
		return err
	}
	b.lock.Lock()
	b.rooms = rooms
	b.lock.Unlock()
	b.logger.Debug("rooms refreshed", "count", len(rooms))
	return nil
}

// Rooms returns the rooms found by the last successful Refresh
func (b *Bridge) Rooms() []warmup.Room {
	b.lock.RLock()
	defer b.lock.RUnlock()
	return b.rooms
}
