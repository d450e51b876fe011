package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/tripnest/server/internal/models"
)

const sweepBatchSize = 50

// PaymentVerifier finalizes a pending payment by its transaction reference.
type PaymentVerifier interface {
	Verify(ctx context.Context, txRef string) (*models.Payment, error)
}

// Reconciler periodically re-verifies payments stuck in pending, covering
// webhooks that never arrived. The gateway's answer is the source of truth.
type Reconciler struct {
	payments models.PaymentRepo
	verifier PaymentVerifier
	interval time.Duration
	minAge   time.Duration
	logger   *slog.Logger
}

func NewReconciler(payments models.PaymentRepo, verifier PaymentVerifier, interval, minAge time.Duration, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		payments: payments,
		verifier: verifier,
		interval: interval,
		minAge:   minAge,
		logger:   logger,
	}
}

// Run sweeps on a fixed interval until ctx is canceled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("Payment reconciliation worker started",
		"interval", r.interval,
		"min_age", r.minAge,
	)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Payment reconciliation worker stopped")
			return
		case <-ticker.C:
			if err := r.Sweep(ctx); err != nil {
				r.logger.Error("Reconciliation sweep failed", "error", err)
			}
		}
	}
}

// Sweep verifies every sufficiently old pending payment once. Verification
// errors on individual payments are expected (rejected transactions surface
// as errors) and only logged.
func (r *Reconciler) Sweep(ctx context.Context) error {
	stuck, err := r.payments.ListPendingOlderThan(ctx, r.minAge, sweepBatchSize)
	if err != nil {
		return err
	}
	if len(stuck) == 0 {
		return nil
	}

	r.logger.Info("Reconciling stale pending payments", "count", len(stuck))

	for _, payment := range stuck {
		finalized, err := r.verifier.Verify(ctx, payment.TxRef)
		if err != nil {
			status := "unknown"
			if finalized != nil {
				status = string(finalized.Status)
			}
			r.logger.Info("Reconciled payment did not complete",
				"tx_ref", payment.TxRef,
				"status", status,
				"error", err,
			)
			continue
		}
		r.logger.Info("Reconciled payment completed",
			"tx_ref", payment.TxRef,
			"payment_id", finalized.ID.Hex(),
		)
	}
	return nil
}
