package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/clambin/go-common/slackbot"
	"github.com/clambin/warmup-bridge/internal/climate"
	"github.com/clambin/warmup-bridge/internal/host"
	"github.com/clambin/warmup-bridge/internal/poller"
	"github.com/slack-go/slack"
)

// Bot lets Slack users view and control their rooms
type Bot struct {
	controller Controller
	slack      SlackBot
	poller     poller.Poller
	logger     *slog.Logger
	lock       sync.RWMutex
	update     poller.Update
	updated    bool
}

//go:generate mockery --name SlackBot
type SlackBot interface {
	Register(name string, command slackbot.CommandFunc)
	Run(ctx context.Context) error
	Send(channel string, attachments []slack.Attachment) error
}

// Controller sets the state of an entity
//
//go:generate mockery --name Controller
type Controller interface {
	SetHVACMode(ctx context.Context, entityID string, mode climate.HVACMode) error
	SetTemperature(ctx context.Context, entityID string, request climate.SetTemperatureRequest) error
}

var _ Controller = &host.Host{}

func New(controller Controller, warmupBot SlackBot, p poller.Poller, logger *slog.Logger) *Bot {
	b := Bot{
		controller: controller,
		slack:      warmupBot,
		poller:     p,
		logger:     logger,
	}
	warmupBot.Register("rooms", b.ReportRooms)
	warmupBot.Register("set", b.SetRoom)
	warmupBot.Register("refresh", b.DoRefresh)
	return &b
}

// Run the bot
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Debug("started")
	defer b.logger.Debug("stopped")

	ch := b.poller.Subscribe()
	defer b.poller.Unsubscribe(ch)
	for {
		select {
		case <-ctx.Done():
			return nil
		case update := <-ch:
			b.lock.Lock()
			b.update = update
			b.updated = true
			b.lock.Unlock()
		}
	}
}

func (b *Bot) ReportRooms(_ context.Context, _ ...string) []slack.Attachment {
	b.lock.RLock()
	defer b.lock.RUnlock()

	if !b.updated {
		return []slack.Attachment{{
			Color: "bad",
			Text:  "no updates yet. please check back later",
		}}
	}

	text := make([]string, 0, len(b.update.States))
	for _, id := range b.update.EntityIDs() {
		text = append(text, formatRoom(b.update.States[id]))
	}

	if len(text) == 0 {
		return []slack.Attachment{{
			Color: "bad",
			Text:  "no rooms found",
		}}
	}

	return []slack.Attachment{{
		Color: "good",
		Title: "rooms:",
		Text:  strings.Join(text, "\n"),
	}}
}

func formatRoom(state climate.State) string {
	if !state.Available {
		return state.Name + ": unavailable"
	}
	text := state.Name + ": "
	if state.CurrentTemperature != nil {
		text += fmt.Sprintf("%.1fºC", *state.CurrentTemperature)
	} else {
		text += "unknown"
	}
	mode := "unknown"
	if state.HVACMode != nil {
		mode = string(*state.HVACMode)
	}
	text += " (" + mode
	if state.TargetTemperature != nil && (state.HVACMode == nil || *state.HVACMode != climate.HVACModeOff) {
		text += fmt.Sprintf(", target: %.1fºC", *state.TargetTemperature)
	}
	return text + ")"
}

func (b *Bot) SetRoom(ctx context.Context, args ...string) []slack.Attachment {
	text, err := b.setRoom(ctx, args...)
	if err != nil {
		return []slack.Attachment{{
			Color: "bad",
			Text:  err.Error(),
		}}
	}

	b.poller.Refresh()
	return []slack.Attachment{{
		Color: "good",
		Text:  text,
	}}
}

func (b *Bot) setRoom(ctx context.Context, args ...string) (string, error) {
	cmd, err := parseSetRoom(args...)
	if err != nil {
		return "", fmt.Errorf("invalid command: %w", err)
	}

	b.lock.RLock()
	entityID, ok := b.update.GetEntityID(cmd.roomName)
	b.lock.RUnlock()
	if !ok {
		return "", fmt.Errorf("invalid room name: %q", cmd.roomName)
	}

	if cmd.mode != "" {
		if err = b.controller.SetHVACMode(ctx, entityID, cmd.mode); err != nil {
			return "", fmt.Errorf("failed to set %s to %s: %w", cmd.roomName, cmd.mode, err)
		}
		return "Setting " + cmd.roomName + " to " + string(cmd.mode) + " mode", nil
	}

	if err = b.controller.SetTemperature(ctx, entityID, climate.SetTemperatureRequest{Temperature: &cmd.temperature}); err != nil {
		return "", fmt.Errorf("failed to set target temperature for %s: %w", cmd.roomName, err)
	}
	return fmt.Sprintf("Setting target temperature for %s to %.1fºC", cmd.roomName, cmd.temperature), nil
}

func (b *Bot) DoRefresh(_ context.Context, _ ...string) []slack.Attachment {
	b.poller.Refresh()
	return []slack.Attachment{{
		Text: "refreshing Warmup data",
	}}
}
