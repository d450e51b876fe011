package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/tripnest/server/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notifier enqueues a best-effort booking confirmation. Implementations must
// not block on delivery.
type Notifier interface {
	EnqueueBookingConfirmation(ctx context.Context, bookingID string) error
}

// BookingCreateResult carries the persisted booking together with the payment
// initiation outcome. PaymentErr is non-nil when initiation failed; the
// booking is valid either way.
type BookingCreateResult struct {
	Booking    *models.Booking
	Payment    *InitiationResult
	PaymentErr error
}

type BookingService struct {
	bookings models.BookingRepo
	listings models.ListingRepo
	payments *PaymentService
	notifier Notifier
	logger   *slog.Logger
}

func NewBookingService(bookings models.BookingRepo, listings models.ListingRepo, payments *PaymentService, notifier Notifier, logger *slog.Logger) *BookingService {
	return &BookingService{
		bookings: bookings,
		listings: listings,
		payments: payments,
		notifier: notifier,
		logger:   logger,
	}
}

// Create persists the booking, enqueues the confirmation notification and
// initiates payment. Neither a notification failure nor a payment failure
// rolls the booking back.
func (bs *BookingService) Create(ctx context.Context, booking *models.Booking, guest GuestIdentity) (*BookingCreateResult, error) {
	if err := models.Validate.Struct(booking); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	if err := validateStayDates(booking.CheckInDate, booking.CheckOutDate); err != nil {
		return nil, err
	}

	listing, err := bs.listings.GetListingByID(ctx, booking.ListingID)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, ErrNotFound
	}

	created, err := bs.bookings.CreateBooking(ctx, booking)
	if err != nil {
		return nil, err
	}

	if err := bs.notifier.EnqueueBookingConfirmation(ctx, created.ID.Hex()); err != nil {
		bs.logger.Warn("Failed to enqueue booking confirmation",
			"booking_id", created.ID.Hex(),
			"error", err,
		)
	}

	initiation, paymentErr := bs.payments.Initiate(ctx, created, guest)

	return &BookingCreateResult{
		Booking:    created,
		Payment:    initiation,
		PaymentErr: paymentErr,
	}, nil
}

func (bs *BookingService) GetBookingByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	booking, err := bs.bookings.GetBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrNotFound
	}
	return booking, nil
}

// GetBookingForGuest resolves a booking scoped to its owner. An ownership
// mismatch is indistinguishable from a missing booking.
func (bs *BookingService) GetBookingForGuest(ctx context.Context, id primitive.ObjectID, guestID string) (*models.Booking, error) {
	booking, err := bs.bookings.GetBookingForGuest(ctx, id, guestID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrNotFound
	}
	return booking, nil
}

func (bs *BookingService) ListBookings(ctx context.Context, offset, limit int) ([]*models.Booking, int, error) {
	return bs.bookings.ListBookings(ctx, offset, limit)
}

func (bs *BookingService) UpdateBooking(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Booking, error) {
	if len(updates) == 0 {
		return nil, &ValidationError{Message: "no fields to update"}
	}
	delete(updates, "id")
	delete(updates, "_id")
	delete(updates, "created_at")
	delete(updates, "updated_at")

	updated, err := bs.bookings.UpdateBooking(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

func (bs *BookingService) DeleteBooking(ctx context.Context, id primitive.ObjectID) error {
	return bs.bookings.DeleteBooking(ctx, id)
}

// InitiatePayment re-runs payment initiation for an existing booking. Each
// call generates a fresh transaction reference, so retries create distinct
// gateway transactions.
func (bs *BookingService) InitiatePayment(ctx context.Context, booking *models.Booking, guest GuestIdentity) (*InitiationResult, error) {
	return bs.payments.Initiate(ctx, booking, guest)
}

func validateStayDates(checkIn, checkOut string) error {
	in, err := time.Parse("2006-01-02", checkIn)
	if err != nil {
		return &ValidationError{Message: "check_in_date must be YYYY-MM-DD"}
	}
	out, err := time.Parse("2006-01-02", checkOut)
	if err != nil {
		return &ValidationError{Message: "check_out_date must be YYYY-MM-DD"}
	}
	if !out.After(in) {
		return &ValidationError{Message: "check_out_date must be after check_in_date"}
	}
	return nil
}
