package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripnest/server/internal/gateway"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func bookingPayload(listingID string) map[string]interface{} {
	return map[string]interface{}{
		"listing_id":     listingID,
		"check_in_date":  "2026-09-01",
		"check_out_date": "2026-09-04",
		"total_price":    150.00,
	}
}

func TestCreateBookingReturnsBookingAndPayment(t *testing.T) {
	f := newHandlerFixture(t, &scriptedGateway{
		initResult: &gateway.InitializeResult{CheckoutURL: "https://pay/abc"},
	})

	rec := f.do(t, http.MethodPost, "/api/v1/bookings", bookingPayload(f.listing.ID.Hex()))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	booking, ok := body["booking"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "guest-1", booking["guest_id"])
	assert.Equal(t, "guest@example.com", booking["guest_email"])

	payment, ok := body["payment"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Payment initiated", payment["message"])
	assert.Equal(t, "https://pay/abc", payment["checkout_url"])

	assert.Equal(t, 1, f.bookings.count())
}

func TestCreateBookingPaymentFailureKeepsBooking(t *testing.T) {
	f := newHandlerFixture(t, &scriptedGateway{
		initErr: &gateway.UnavailableError{Op: "initialize", Err: errors.New("connection refused")},
	})

	rec := f.do(t, http.MethodPost, "/api/v1/bookings", bookingPayload(f.listing.ID.Hex()))

	// Status mirrors the payment outcome, but the booking is persisted and
	// returned alongside the payment error.
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	body := decodeBody(t, rec)
	booking, ok := body["booking"].(map[string]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, booking["id"])

	payment, ok := body["payment"].(map[string]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, payment["error"])

	assert.Equal(t, 1, f.bookings.count())
}

func TestCreateBookingGatewayRejectedIsBadRequest(t *testing.T) {
	f := newHandlerFixture(t, &scriptedGateway{
		initErr: &gateway.RejectedError{Message: "Invalid currency"},
	})

	rec := f.do(t, http.MethodPost, "/api/v1/bookings", bookingPayload(f.listing.ID.Hex()))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 1, f.bookings.count())
}

func TestCreateBookingUnknownListing(t *testing.T) {
	f := newHandlerFixture(t, &scriptedGateway{})

	rec := f.do(t, http.MethodPost, "/api/v1/bookings", bookingPayload(primitive.NewObjectID().Hex()))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 0, f.bookings.count())
}

func TestCreateBookingInvalidDates(t *testing.T) {
	f := newHandlerFixture(t, &scriptedGateway{})

	payload := bookingPayload(f.listing.ID.Hex())
	payload["check_out_date"] = "2026-08-30"

	rec := f.do(t, http.MethodPost, "/api/v1/bookings", payload)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, f.bookings.count())
}

func TestCreateBookingMalformedBody(t *testing.T) {
	f := newHandlerFixture(t, &scriptedGateway{})

	rec := f.do(t, http.MethodPost, "/api/v1/bookings", "not an object")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
