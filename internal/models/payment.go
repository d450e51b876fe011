package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// Payment tracks one gateway transaction attempt for a booking. A payment is
// created in the pending state and transitions exactly once, to completed or
// failed; both are terminal.
type Payment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	BookingID     primitive.ObjectID `bson:"booking_id" json:"booking_id"`
	TxRef         string             `bson:"tx_ref" json:"tx_ref"`
	Amount        float64            `bson:"amount" json:"amount"`
	Status        PaymentStatus      `bson:"status" json:"status"`
	FailureReason string             `bson:"failure_reason,omitempty" json:"failure_reason,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

type PaymentRepo interface {
	CreatePayment(ctx context.Context, payment *Payment) (*Payment, error)
	GetPaymentByID(ctx context.Context, id primitive.ObjectID) (*Payment, error)
	// FindPendingByTxRef returns nil, nil when no pending payment carries the
	// given transaction reference.
	FindPendingByTxRef(ctx context.Context, txRef string) (*Payment, error)
	// TransitionFromPending atomically moves the payment identified by txRef
	// from pending to the given terminal status. Returns nil, nil when no
	// pending payment matched, i.e. a concurrent caller already finalized it.
	TransitionFromPending(ctx context.Context, txRef string, to PaymentStatus, reason string) (*Payment, error)
	ListPendingOlderThan(ctx context.Context, age time.Duration, limit int) ([]*Payment, error)
}
