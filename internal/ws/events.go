package ws

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/playpool/racer/internal/logging"
	"github.com/redis/go-redis/v9"
)

// Publisher publishes race results on a redis channel.
type Publisher struct {
	rdb     *redis.Client
	channel string
}

func NewPublisher(rdb *redis.Client, channel string) *Publisher {
	return &Publisher{rdb: rdb, channel: channel}
}

func (p *Publisher) PublishResult(ctx context.Context, result RaceResult) error {
	payload, err := json.Marshal(raceEvent{Type: TypeRaceResult, Result: result})
	if err != nil {
		return fmt.Errorf("marshal race event: %w", err)
	}
	if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish race event: %w", err)
	}
	return nil
}

type raceEvent struct {
	Type   string     `json:"type"`
	Result RaceResult `json:"result"`
}

// Announcer relays announcements to every viewer.
type Announcer interface {
	BroadcastAll(msg Message)
}

// StartRaceEventSubscriber subscribes to the race events channel and
// announces every race result to all connected viewers.
func StartRaceEventSubscriber(ctx context.Context, rdb *redis.Client, channel string, out Announcer) {
	logger := logging.For("ws")
	if rdb == nil {
		logger.Info().Msg("redis client not set; race event subscriber not started")
		return
	}

	pubsub := rdb.Subscribe(ctx, channel)
	ch := pubsub.Channel()
	go func() {
		<-ctx.Done()
		pubsub.Close()
	}()
	go func() {
		logger.Info().Str("channel", channel).Msg("race event subscriber started")
		for msg := range ch {
			if err := relayRaceEvent(msg.Payload, out); err != nil {
				logger.Warn().Err(err).Str("payload", msg.Payload).Msg("invalid race event")
			}
		}
	}()
}

func relayRaceEvent(payload string, out Announcer) error {
	var ev raceEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return err
	}
	if ev.Type != TypeRaceResult {
		return fmt.Errorf("unknown event type %q", ev.Type)
	}
	out.BroadcastAll(Message{Type: TypeRaceAnnouncement, Data: ev.Result})
	return nil
}
