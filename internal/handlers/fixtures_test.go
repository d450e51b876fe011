package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"github.com/tripnest/server/internal/gateway"
	"github.com/tripnest/server/internal/helpers"
	"github.com/tripnest/server/internal/models"
	"github.com/tripnest/server/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memPayments struct {
	models.PaymentRepo
	mu       sync.Mutex
	payments map[string]*models.Payment
}

func newMemPayments() *memPayments {
	return &memPayments{payments: make(map[string]*models.Payment)}
}

func (r *memPayments) CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if payment.ID.IsZero() {
		payment.ID = primitive.NewObjectID()
	}
	clone := *payment
	r.payments[payment.TxRef] = &clone
	return payment, nil
}

func (r *memPayments) FindPendingByTxRef(ctx context.Context, txRef string) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[txRef]
	if !ok || p.Status != models.PaymentPending {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (r *memPayments) TransitionFromPending(ctx context.Context, txRef string, to models.PaymentStatus, reason string) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[txRef]
	if !ok || p.Status != models.PaymentPending {
		return nil, nil
	}
	p.Status = to
	p.FailureReason = reason
	clone := *p
	return &clone, nil
}

func (r *memPayments) seed(p *models.Payment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	r.payments[p.TxRef] = p
}

type memBookings struct {
	models.BookingRepo
	mu       sync.Mutex
	bookings map[primitive.ObjectID]*models.Booking
}

func newMemBookings() *memBookings {
	return &memBookings{bookings: make(map[primitive.ObjectID]*models.Booking)}
}

func (r *memBookings) CreateBooking(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}
	clone := *booking
	r.bookings[booking.ID] = &clone
	return booking, nil
}

func (r *memBookings) GetBookingByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	clone := *b
	return &clone, nil
}

func (r *memBookings) GetBookingForGuest(ctx context.Context, id primitive.ObjectID, guestID string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || b.GuestID != guestID {
		return nil, nil
	}
	clone := *b
	return &clone, nil
}

func (r *memBookings) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bookings)
}

type memListings struct {
	models.ListingRepo
	mu       sync.Mutex
	listings map[primitive.ObjectID]*models.Listing
}

func newMemListings() *memListings {
	return &memListings{listings: make(map[primitive.ObjectID]*models.Listing)}
}

func (r *memListings) GetListingByID(ctx context.Context, id primitive.ObjectID) (*models.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[id]
	if !ok {
		return nil, nil
	}
	clone := *l
	return &clone, nil
}

func (r *memListings) seed(l *models.Listing) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l.ID.IsZero() {
		l.ID = primitive.NewObjectID()
	}
	r.listings[l.ID] = l
}

type scriptedGateway struct {
	initResult   *gateway.InitializeResult
	initErr      error
	verifyResult *gateway.VerifyResult
	verifyErr    error
}

func (g *scriptedGateway) Initialize(ctx context.Context, req gateway.InitializeRequest) (*gateway.InitializeResult, error) {
	if g.initErr != nil {
		return nil, g.initErr
	}
	return g.initResult, nil
}

func (g *scriptedGateway) Verify(ctx context.Context, txRef string) (*gateway.VerifyResult, error) {
	if g.verifyErr != nil {
		return nil, g.verifyErr
	}
	return g.verifyResult, nil
}

type noopNotifier struct{}

func (noopNotifier) EnqueueBookingConfirmation(ctx context.Context, bookingID string) error {
	return nil
}

type handlerFixture struct {
	router   *gin.Engine
	payments *memPayments
	bookings *memBookings
	listings *memListings
	listing  *models.Listing
}

// newHandlerFixture wires real services over in-memory repositories and a
// scripted gateway behind the same routes the server registers, with the
// authenticated guest injected directly into the context.
func newHandlerFixture(t *testing.T, gw gateway.PaymentGateway) *handlerFixture {
	t.Helper()

	payments := newMemPayments()
	bookings := newMemBookings()
	listings := newMemListings()

	listing := &models.Listing{
		ID:    primitive.NewObjectID(),
		Title: "Lakeside Cottage",
		Price: 50.00,
	}
	listings.seed(listing)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	paymentService := services.NewPaymentService(payments, gw, services.PaymentConfig{
		Currency:    "ETB",
		CallbackURL: "http://localhost:8080/api/v1/payment-verify",
		ReturnURL:   "http://localhost:3000/payment-success",
	}, logger)
	bookingService := services.NewBookingService(bookings, listings, paymentService, noopNotifier{}, logger)

	router := gin.New()
	authenticated := router.Group("/api/v1", func(c *gin.Context) {
		c.Set("user", &helpers.Claims{
			Email:     "guest@example.com",
			FirstName: "Abel",
			LastName:  "Tesfaye",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "guest-1",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
		c.Next()
	})
	authenticated.POST("/bookings", CreateBooking(bookingService))
	authenticated.POST("/payment-initiate", InitiatePayment(bookingService))
	router.GET("/api/v1/payment-verify", VerifyPayment(paymentService))

	return &handlerFixture{
		router:   router,
		payments: payments,
		bookings: bookings,
		listings: listings,
		listing:  listing,
	}
}

func (f *handlerFixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func (f *handlerFixture) seedOwnedBooking(guestID string) *models.Booking {
	booking := &models.Booking{
		ID:           primitive.NewObjectID(),
		ListingID:    f.listing.ID,
		GuestID:      guestID,
		GuestEmail:   "guest@example.com",
		CheckInDate:  "2026-09-01",
		CheckOutDate: "2026-09-04",
		TotalPrice:   150.00,
	}
	clone := *booking
	f.bookings.mu.Lock()
	f.bookings.bookings[booking.ID] = &clone
	f.bookings.mu.Unlock()
	return booking
}
