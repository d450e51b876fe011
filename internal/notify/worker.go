package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tripnest/server/internal/metrics"
	"github.com/tripnest/server/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const popTimeout = 5 * time.Second

// Worker consumes confirmation tasks from the Redis queue and emails the
// guest. Processing is best-effort: a task that fails is logged and dropped,
// it never blocks the queue.
type Worker struct {
	client   *redis.Client
	bookings models.BookingRepo
	listings models.ListingRepo
	mailer   Mailer
	logger   *slog.Logger
}

func NewWorker(client *redis.Client, bookings models.BookingRepo, listings models.ListingRepo, mailer Mailer, logger *slog.Logger) *Worker {
	return &Worker{
		client:   client,
		bookings: bookings,
		listings: listings,
		mailer:   mailer,
		logger:   logger,
	}
}

// Run blocks consuming the queue until ctx is canceled.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("Notification worker started", "queue", QueueKey)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Notification worker stopped")
			return
		default:
		}

		res, err := w.client.BRPop(ctx, popTimeout, QueueKey).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				w.logger.Info("Notification worker stopped")
				return
			}
			w.logger.Error("Failed to pop notification task", "error", err)
			time.Sleep(time.Second)
			continue
		}
		// BRPop returns [key, value].
		if len(res) != 2 {
			continue
		}

		if err := w.process(ctx, []byte(res[1])); err != nil {
			metrics.IncEmailSent("failure")
			w.logger.Error("Failed to process notification task", "error", err)
			continue
		}
		metrics.IncEmailSent("success")
	}
}

// ProcessOne handles a single raw task. Exposed for the worker loop and
// tests.
func (w *Worker) ProcessOne(ctx context.Context, raw []byte) error {
	return w.process(ctx, raw)
}

func (w *Worker) process(ctx context.Context, raw []byte) error {
	var task Task
	if err := json.Unmarshal(raw, &task); err != nil {
		return fmt.Errorf("unmarshal task: %w", err)
	}

	bookingID, err := primitive.ObjectIDFromHex(task.BookingID)
	if err != nil {
		return fmt.Errorf("invalid booking id %q: %w", task.BookingID, err)
	}

	booking, err := w.bookings.GetBookingByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking == nil {
		return fmt.Errorf("booking %s does not exist", task.BookingID)
	}
	if booking.GuestEmail == "" {
		w.logger.Info("Booking has no guest email, skipping confirmation", "booking_id", task.BookingID)
		return nil
	}

	listing, err := w.listings.GetListingByID(ctx, booking.ListingID)
	if err != nil {
		return err
	}
	if listing == nil {
		return fmt.Errorf("listing %s does not exist", booking.ListingID.Hex())
	}

	subject, body := composeConfirmation(booking, listing)
	if err := w.mailer.Send(ctx, booking.GuestEmail, subject, body); err != nil {
		return err
	}

	w.logger.Info("Booking confirmation sent",
		"booking_id", task.BookingID,
		"to", booking.GuestEmail,
	)
	return nil
}

func composeConfirmation(booking *models.Booking, listing *models.Listing) (subject, body string) {
	name := booking.GuestFirstName
	if name == "" {
		name = "Guest"
	}

	subject = fmt.Sprintf("Booking Confirmation: %s", listing.Title)
	body = fmt.Sprintf(
		"Hi %s,\n\n"+
			"Your booking for %s has been confirmed!\n"+
			"Check-in: %s\n"+
			"Check-out: %s\n"+
			"Total Price: $%.2f\n\n"+
			"Thank you for booking with us!",
		name,
		listing.Title,
		booking.CheckInDate,
		booking.CheckOutDate,
		booking.TotalPrice,
	)
	return subject, body
}
