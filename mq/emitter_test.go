package mq_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourdesk/livefeed"
	"tourdesk/models"
	"tourdesk/mq"
)

func TestEmit_WithoutRedisGoesToHub(t *testing.T) {
	hub := livefeed.NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &livefeed.Client{Send: make(chan []byte, 1), Room: livefeed.BookingsRoom}
	hub.Register(client)

	e := mq.NewEmitter(nil, hub)
	e.Emit(context.Background(), models.BookingEvent{
		Type:    "booking.created",
		Booking: models.Booking{ID: "b1", FullName: "Anna"},
	})

	select {
	case raw := <-client.Send:
		var got models.BookingEvent
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, "booking.created", got.Type)
		assert.Equal(t, "b1", got.Booking.ID)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}

	// returns immediately without Redis
	e.StartWorker(context.Background())
}
