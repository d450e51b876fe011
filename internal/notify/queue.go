package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tripnest/server/internal/metrics"
)

const QueueKey = "tripnest:notifications:booking_confirmation"

// Task is one queued confirmation request.
type Task struct {
	BookingID  string    `json:"booking_id"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// Dispatcher pushes confirmation tasks onto a Redis list consumed by the
// notification worker. Delivery is fire-and-forget: callers only learn
// whether the enqueue itself succeeded.
type Dispatcher struct {
	client *redis.Client
}

func NewDispatcher(client *redis.Client) *Dispatcher {
	return &Dispatcher{client: client}
}

func (d *Dispatcher) EnqueueBookingConfirmation(ctx context.Context, bookingID string) error {
	if d.client == nil {
		return fmt.Errorf("redis client is nil")
	}

	task := Task{
		BookingID:  bookingID,
		EnqueuedAt: time.Now(),
	}
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	if err := d.client.LPush(ctx, QueueKey, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	metrics.IncNotificationEnqueued()
	return nil
}
