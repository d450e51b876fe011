package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/tripnest/server/internal/gateway"
	"github.com/tripnest/server/internal/metrics"
	"github.com/tripnest/server/internal/models"
)

// GuestIdentity is the payer identity forwarded to the gateway. Empty fields
// fall back to placeholder values.
type GuestIdentity struct {
	Email     string
	FirstName string
	LastName  string
}

type InitiationResult struct {
	Message     string `json:"message"`
	CheckoutURL string `json:"checkout_url"`
	PaymentID   string `json:"payment_id"`
}

// PaymentConfig carries the gateway-facing settings injected at construction
// time; nothing here is read from the environment during request handling.
type PaymentConfig struct {
	Currency    string
	CallbackURL string
	ReturnURL   string
}

// PaymentService owns the payment state machine across initiation and
// verification.
type PaymentService struct {
	payments models.PaymentRepo
	gateway  gateway.PaymentGateway
	cfg      PaymentConfig
	logger   *slog.Logger
}

func NewPaymentService(payments models.PaymentRepo, gw gateway.PaymentGateway, cfg PaymentConfig, logger *slog.Logger) *PaymentService {
	return &PaymentService{
		payments: payments,
		gateway:  gw,
		cfg:      cfg,
		logger:   logger,
	}
}

// Initiate starts a checkout for the booking. A Payment row is created only
// after the gateway accepts the transaction; failed initiations leave no
// persisted trail, matching the verification contract that only pending rows
// are actionable.
func (ps *PaymentService) Initiate(ctx context.Context, booking *models.Booking, guest GuestIdentity) (*InitiationResult, error) {
	if booking == nil {
		return nil, &ValidationError{Message: "booking is required"}
	}

	txRef, err := newTxRef(booking.ID.Hex())
	if err != nil {
		return nil, fmt.Errorf("generate transaction reference: %v", err)
	}

	req := gateway.InitializeRequest{
		Amount:      strconv.FormatFloat(booking.TotalPrice, 'f', 2, 64),
		Currency:    ps.cfg.Currency,
		Email:       orDefault(guest.Email, "test@example.com"),
		FirstName:   orDefault(guest.FirstName, "Test"),
		LastName:    orDefault(guest.LastName, "User"),
		TxRef:       txRef,
		CallbackURL: ps.cfg.CallbackURL,
		ReturnURL:   ps.cfg.ReturnURL,
		Title:       "Travel Booking Payment",
		Description: fmt.Sprintf("Payment for booking %s", booking.ID.Hex()),
	}

	res, err := ps.gateway.Initialize(ctx, req)
	if err != nil {
		metrics.IncPaymentInitiated("failure")
		ps.logger.Warn("Payment initiation failed",
			"booking_id", booking.ID.Hex(),
			"tx_ref", txRef,
			"error", err,
		)
		return nil, err
	}

	payment := &models.Payment{
		BookingID: booking.ID,
		TxRef:     txRef,
		Amount:    booking.TotalPrice,
		Status:    models.PaymentPending,
	}
	created, err := ps.payments.CreatePayment(ctx, payment)
	if err != nil {
		metrics.IncPaymentInitiated("failure")
		return nil, fmt.Errorf("persist payment: %v", err)
	}

	metrics.IncPaymentInitiated("success")
	ps.logger.Info("Payment initiated",
		"booking_id", booking.ID.Hex(),
		"payment_id", created.ID.Hex(),
		"tx_ref", txRef,
	)

	return &InitiationResult{
		Message:     "Payment initiated",
		CheckoutURL: res.CheckoutURL,
		PaymentID:   created.ID.Hex(),
	}, nil
}

// Verify finalizes a pending payment by querying the gateway. The pending
// payment transitions to completed only when the gateway reports overall
// success and the transaction's own status is "success"; every other outcome,
// including a transport failure on the verify call itself, transitions it to
// failed. Completed and failed are terminal.
func (ps *PaymentService) Verify(ctx context.Context, txRef string) (*models.Payment, error) {
	if txRef == "" {
		return nil, &ValidationError{Message: "Transaction reference is required"}
	}

	pending, err := ps.payments.FindPendingByTxRef(ctx, txRef)
	if err != nil {
		return nil, err
	}
	if pending == nil {
		return nil, ErrNotFound
	}

	res, err := ps.gateway.Verify(ctx, txRef)
	if err != nil {
		if errors.Is(err, gateway.ErrNotConfigured) {
			// Credential missing: nothing was asked of the gateway, so the
			// payment stays pending.
			return nil, err
		}
		var unavailable *gateway.UnavailableError
		if errors.As(err, &unavailable) {
			failed, terr := ps.payments.TransitionFromPending(ctx, txRef, models.PaymentFailed, unavailable.Error())
			if terr != nil {
				return nil, terr
			}
			if failed == nil {
				return nil, ErrNotFound
			}
			metrics.IncPaymentVerified("unavailable")
			ps.logger.Error("Payment verification failed against gateway",
				"tx_ref", txRef,
				"payment_id", failed.ID.Hex(),
				"error", err,
			)
			return failed, err
		}
		return nil, err
	}

	if res.Paid {
		completed, err := ps.payments.TransitionFromPending(ctx, txRef, models.PaymentCompleted, "")
		if err != nil {
			return nil, err
		}
		if completed == nil {
			// A concurrent verification won the transition.
			return nil, ErrNotFound
		}
		metrics.IncPaymentVerified("completed")
		ps.logger.Info("Payment verified and completed",
			"tx_ref", txRef,
			"payment_id", completed.ID.Hex(),
		)
		return completed, nil
	}

	failed, err := ps.payments.TransitionFromPending(ctx, txRef, models.PaymentFailed, res.Message)
	if err != nil {
		return nil, err
	}
	if failed == nil {
		return nil, ErrNotFound
	}
	metrics.IncPaymentVerified("failed")
	ps.logger.Info("Payment verification rejected by gateway",
		"tx_ref", txRef,
		"payment_id", failed.ID.Hex(),
		"reason", res.Message,
	)
	return failed, &gateway.RejectedError{Message: res.Message}
}

// newTxRef builds a namespaced reference with fresh entropy so concurrent
// initiations for the same booking cannot collide.
func newTxRef(bookingID string) (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return fmt.Sprintf("booking-payment-%s-%s", bookingID, hex.EncodeToString(buf)), nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
