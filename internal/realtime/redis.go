package realtime

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// ChannelPrefix namespaces the per-showtime pub/sub channels.
const ChannelPrefix = "seat-updates:"

// RedisNotifier publishes seat updates to Redis so every instance's Hub
// fans them out, not only the instance that changed the seats.
type RedisNotifier struct {
	rdb *redis.Client
	hub *Hub
	log zerolog.Logger
}

func NewRedisNotifier(rdb *redis.Client, hub *Hub, log zerolog.Logger) *RedisNotifier {
	return &RedisNotifier{rdb: rdb, hub: hub, log: log.With().Str("component", "realtime-redis").Logger()}
}

// BroadcastSeats publishes to seat-updates:<showtimeID>. If Redis is
// unreachable the update is still delivered to local clients.
func (n *RedisNotifier) BroadcastSeats(ctx context.Context, showtimeID string, state model.SeatState) {
	payload, err := EncodeSeatUpdate(showtimeID, state)
	if err != nil {
		n.log.Error().Err(err).Msg("encode seat update")
		return
	}
	if err := n.rdb.Publish(ctx, ChannelPrefix+showtimeID, payload).Err(); err != nil {
		n.log.Warn().Err(err).Str("showtime_id", showtimeID).Msg("redis publish failed, delivering locally")
		n.hub.Deliver(showtimeID, payload)
	}
}

// Run relays every seat-updates:* message to the local Hub until ctx is
// canceled.
func (n *RedisNotifier) Run(ctx context.Context) error {
	sub := n.rdb.PSubscribe(ctx, ChannelPrefix+"*")
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			n.hub.Deliver(strings.TrimPrefix(msg.Channel, ChannelPrefix), []byte(msg.Payload))
		}
	}
}
