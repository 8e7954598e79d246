// Package mqtt publishes the state of all entities to an MQTT broker, announces them through Home Assistant MQTT discovery
// and accepts mode and temperature commands.
package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/clambin/go-common/set"
	"github.com/clambin/warmup-bridge/internal/climate"
	"github.com/clambin/warmup-bridge/internal/poller"
	paho "github.com/eclipse/paho.mqtt.golang"
)

const (
	PayloadOnline  = "online"
	PayloadOffline = "offline"

	commandMode        = "mode"
	commandTemperature = "temperature"
)

type Config struct {
	BrokerURL       string
	ClientID        string
	Username        string
	Password        string
	BaseTopic       string
	DiscoveryPrefix string
	QoS             byte
}

// Controller sets the state of an entity
type Controller interface {
	SetHVACMode(ctx context.Context, entityID string, mode climate.HVACMode) error
	SetTemperature(ctx context.Context, entityID string, request climate.SetTemperatureRequest) error
}

// Bridge connects the entities to an MQTT broker
type Bridge struct {
	cfg        Config
	controller Controller
	poller     poller.Poller
	logger     *slog.Logger
	newClient  func(*paho.ClientOptions) paho.Client

	lock       sync.Mutex
	ctx        context.Context
	client     paho.Client
	discovered set.Set[string]
}

func New(cfg Config, controller Controller, p poller.Poller, logger *slog.Logger) (*Bridge, error) {
	if cfg.BrokerURL == "" {
		cfg.BrokerURL = "tcp://localhost:1883"
	}
	if cfg.BaseTopic == "" {
		cfg.BaseTopic = "warmup"
	}
	cfg.BaseTopic = strings.TrimRight(cfg.BaseTopic, "/")
	if cfg.DiscoveryPrefix == "" {
		cfg.DiscoveryPrefix = "homeassistant"
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "warmup-bridge"
	}
	if cfg.QoS > 1 {
		return nil, errors.New("mqtt: QoS must be 0 or 1")
	}
	return &Bridge{
		cfg:        cfg,
		controller: controller,
		poller:     p,
		logger:     logger,
		newClient:  paho.NewClient,
		ctx:        context.Background(),
		discovered: set.New[string](),
	}, nil
}

func (b *Bridge) options() *paho.ClientOptions {
	opts := paho.NewClientOptions().
		AddBroker(b.cfg.BrokerURL).
		SetClientID(b.cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(2*time.Second).
		SetWill(b.statusTopic(), PayloadOffline, b.cfg.QoS, true)
	if b.cfg.Username != "" {
		opts.SetUsername(b.cfg.Username)
		opts.SetPassword(b.cfg.Password)
	}
	opts.OnConnect = b.onConnect
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		b.logger.Warn("connection lost", "err", err)
	}
	return opts
}

func (b *Bridge) Run(ctx context.Context) error {
	b.logger.Debug("started", "broker", b.cfg.BrokerURL)
	defer b.logger.Debug("stopped")

	b.lock.Lock()
	b.ctx = ctx
	b.lock.Unlock()
	b.client = b.newClient(b.options())

	// onConnect triggers a refresh: subscribe first so the bridge receives it
	ch := b.poller.Subscribe()
	defer b.poller.Unsubscribe(ch)

	if tok := b.client.Connect(); tok.Wait() && tok.Error() != nil {
		return fmt.Errorf("mqtt connect: %w", tok.Error())
	}

	for {
		select {
		case <-ctx.Done():
			b.client.Publish(b.statusTopic(), b.cfg.QoS, true, PayloadOffline).WaitTimeout(time.Second)
			b.client.Disconnect(250)
			return nil
		case update := <-ch:
			b.publish(update)
		}
	}
}

// onConnect subscribes to the command topics and announces the bridge. Called on every (re)connect.
func (b *Bridge) onConnect(client paho.Client) {
	topic := b.cfg.BaseTopic + "/+/+/set"
	if tok := client.Subscribe(topic, b.cfg.QoS, b.onMessage); tok.Wait() && tok.Error() != nil {
		b.logger.Error("failed to subscribe", "topic", topic, "err", tok.Error())
	}
	client.Publish(b.statusTopic(), b.cfg.QoS, true, PayloadOnline)

	// announce all entities again after reconnecting
	b.lock.Lock()
	b.discovered = set.New[string]()
	b.lock.Unlock()
	b.poller.Refresh()
}

func (b *Bridge) publish(update poller.Update) {
	for _, id := range update.EntityIDs() {
		state := update.States[id]
		if b.announce(id) {
			b.publishJSON(b.discoveryTopic(id), b.discoveryMessage(state))
		}
		b.publishJSON(b.stateTopic(id), state)
	}
}

// announce returns true if the entity still needs to be announced, and marks it as announced
func (b *Bridge) announce(entityID string) bool {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.discovered.Contains(entityID) {
		return false
	}
	b.discovered.Add(entityID)
	return true
}

func (b *Bridge) publishJSON(topic string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		b.logger.Error("failed to encode payload", "topic", topic, "err", err)
		return
	}
	b.client.Publish(topic, b.cfg.QoS, true, body)
}

func (b *Bridge) onMessage(_ paho.Client, msg paho.Message) {
	entityID, command, ok := b.parseCommandTopic(msg.Topic())
	if !ok {
		b.logger.Debug("ignoring message", "topic", msg.Topic())
		return
	}
	payload := strings.TrimSpace(string(msg.Payload()))

	b.lock.Lock()
	ctx := b.ctx
	b.lock.Unlock()

	var err error
	switch command {
	case commandMode:
		err = b.controller.SetHVACMode(ctx, entityID, climate.HVACMode(payload))
	case commandTemperature:
		var temperature float64
		if temperature, err = strconv.ParseFloat(payload, 64); err != nil {
			err = fmt.Errorf("invalid temperature %q", payload)
			break
		}
		err = b.controller.SetTemperature(ctx, entityID, climate.SetTemperatureRequest{Temperature: &temperature})
	default:
		err = fmt.Errorf("unsupported command %q", command)
	}

	if err != nil {
		b.logger.Warn("command failed", "entity", entityID, "command", command, "payload", payload, "err", err)
		return
	}
	b.logger.Debug("command executed", "entity", entityID, "command", command, "payload", payload)
	b.poller.Refresh()
}

// parseCommandTopic splits <base>/<entity>/<command>/set
func (b *Bridge) parseCommandTopic(topic string) (string, string, bool) {
	rest, ok := strings.CutPrefix(topic, b.cfg.BaseTopic+"/")
	if !ok {
		return "", "", false
	}
	parts := strings.Split(rest, "/")
	if len(parts) != 3 || parts[2] != "set" || parts[0] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func (b *Bridge) statusTopic() string {
	return b.cfg.BaseTopic + "/status"
}

func (b *Bridge) stateTopic(entityID string) string {
	return b.cfg.BaseTopic + "/" + entityID + "/state"
}

func (b *Bridge) commandTopic(entityID, command string) string {
	return b.cfg.BaseTopic + "/" + entityID + "/" + command + "/set"
}
