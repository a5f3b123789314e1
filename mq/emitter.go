package mq

import (
	"context"
	"encoding/json"
	"log/slog"

	"tourdesk/livefeed"
	"tourdesk/models"
	"tourdesk/rdx"

	"github.com/redis/go-redis/v9"
)

// Channel carries booking events between server instances.
const Channel = "booking-events"

// Emitter publishes booking events. With Redis every instance's worker
// relays them to its own admins; without Redis they go straight to the local
// hub.
type Emitter struct {
	conn *redis.Client
	hub  *livefeed.Hub
}

func NewEmitter(conn *redis.Client, hub *livefeed.Hub) *Emitter {
	return &Emitter{conn: conn, hub: hub}
}

// Emit is best effort: failures are logged and never reach the caller.
func (e *Emitter) Emit(ctx context.Context, event models.BookingEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		slog.WarnContext(ctx, "marshal booking event", "type", event.Type, "error", err)
		return
	}

	if e.conn == nil {
		e.hub.Broadcast(livefeed.BookingsRoom, data)
		return
	}

	if err := rdx.Publish(ctx, e.conn, Channel, data); err != nil {
		slog.WarnContext(ctx, "publish booking event", "type", event.Type, "booking_id", event.Booking.ID, "error", err)
	}
}

// StartWorker relays published events to the hub until ctx is done. It is a
// no-op without Redis.
func (e *Emitter) StartWorker(ctx context.Context) {
	if e.conn == nil {
		return
	}
	slog.Info("booking event worker listening", "channel", Channel)
	rdx.Subscribe(ctx, e.conn, Channel, func(payload []byte) {
		e.hub.Broadcast(livefeed.BookingsRoom, payload)
	})
}
