package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/tripnest/server/internal/gateway"
	"github.com/tripnest/server/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakePaymentRepo struct {
	mu        sync.Mutex
	payments  map[string]*models.Payment // keyed by tx_ref
	createErr error
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[string]*models.Payment)}
}

func (r *fakePaymentRepo) CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	if payment.ID.IsZero() {
		payment.ID = primitive.NewObjectID()
	}
	now := time.Now()
	payment.CreatedAt = now
	payment.UpdatedAt = now
	clone := *payment
	r.payments[payment.TxRef] = &clone
	return payment, nil
}

func (r *fakePaymentRepo) GetPaymentByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.ID == id {
			clone := *p
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakePaymentRepo) FindPendingByTxRef(ctx context.Context, txRef string) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[txRef]
	if !ok || p.Status != models.PaymentPending {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (r *fakePaymentRepo) TransitionFromPending(ctx context.Context, txRef string, to models.PaymentStatus, reason string) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[txRef]
	if !ok || p.Status != models.PaymentPending {
		return nil, nil
	}
	p.Status = to
	p.FailureReason = reason
	p.UpdatedAt = time.Now()
	clone := *p
	return &clone, nil
}

func (r *fakePaymentRepo) ListPendingOlderThan(ctx context.Context, age time.Duration, limit int) ([]*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := time.Now().Add(-age)
	out := make([]*models.Payment, 0)
	for _, p := range r.payments {
		if p.Status == models.PaymentPending && p.CreatedAt.Before(cutoff) && len(out) < limit {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.payments)
}

func (r *fakePaymentRepo) byTxRef(txRef string) *models.Payment {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[txRef]
	if !ok {
		return nil
	}
	clone := *p
	return &clone
}

func (r *fakePaymentRepo) seed(p *models.Payment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	r.payments[p.TxRef] = p
}

type fakeGateway struct {
	mu           sync.Mutex
	initResult   *gateway.InitializeResult
	initErr      error
	verifyResult *gateway.VerifyResult
	verifyErr    error
	initCalls    int
	verifyCalls  int
	lastInit     gateway.InitializeRequest
}

func (g *fakeGateway) Initialize(ctx context.Context, req gateway.InitializeRequest) (*gateway.InitializeResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.initCalls++
	g.lastInit = req
	if g.initErr != nil {
		return nil, g.initErr
	}
	return g.initResult, nil
}

func (g *fakeGateway) Verify(ctx context.Context, txRef string) (*gateway.VerifyResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.verifyCalls++
	if g.verifyErr != nil {
		return nil, g.verifyErr
	}
	return g.verifyResult, nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[primitive.ObjectID]*models.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[primitive.ObjectID]*models.Booking)}
}

func (r *fakeBookingRepo) CreateBooking(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}
	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	clone := *booking
	r.bookings[booking.ID] = &clone
	return booking, nil
}

func (r *fakeBookingRepo) GetBookingByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	clone := *b
	return &clone, nil
}

func (r *fakeBookingRepo) GetBookingForGuest(ctx context.Context, id primitive.ObjectID, guestID string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || b.GuestID != guestID {
		return nil, nil
	}
	clone := *b
	return &clone, nil
}

func (r *fakeBookingRepo) ListBookings(ctx context.Context, offset, limit int) ([]*models.Booking, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		clone := *b
		out = append(out, &clone)
	}
	return out, len(out), nil
}

func (r *fakeBookingRepo) UpdateBooking(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	clone := *b
	return &clone, nil
}

func (r *fakeBookingRepo) DeleteBooking(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bookings, id)
	return nil
}

func (r *fakeBookingRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bookings)
}

type fakeListingRepo struct {
	mu       sync.Mutex
	listings map[primitive.ObjectID]*models.Listing
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{listings: make(map[primitive.ObjectID]*models.Listing)}
}

func (r *fakeListingRepo) CreateListing(ctx context.Context, listing *models.Listing) (*models.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if listing.ID.IsZero() {
		listing.ID = primitive.NewObjectID()
	}
	clone := *listing
	r.listings[listing.ID] = &clone
	return listing, nil
}

func (r *fakeListingRepo) GetListingByID(ctx context.Context, id primitive.ObjectID) (*models.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[id]
	if !ok {
		return nil, nil
	}
	clone := *l
	return &clone, nil
}

func (r *fakeListingRepo) ListListings(ctx context.Context, offset, limit int) ([]*models.Listing, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Listing, 0, len(r.listings))
	for _, l := range r.listings {
		clone := *l
		out = append(out, &clone)
	}
	return out, len(out), nil
}

func (r *fakeListingRepo) UpdateListing(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[id]
	if !ok {
		return nil, nil
	}
	clone := *l
	return &clone, nil
}

func (r *fakeListingRepo) DeleteListing(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.listings, id)
	return nil
}

func (r *fakeListingRepo) DeleteAllListings(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.listings))
	r.listings = make(map[primitive.ObjectID]*models.Listing)
	return n, nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	err   error
	calls []string
}

func (n *fakeNotifier) EnqueueBookingConfirmation(ctx context.Context, bookingID string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, bookingID)
	return n.err
}

func (n *fakeNotifier) callCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}
