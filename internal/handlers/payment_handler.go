package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tripnest/server/internal/helpers"
	"github.com/tripnest/server/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InitiatePayment starts a checkout for a booking the caller owns.
func InitiatePayment(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := guestClaims(c)
		if !ok {
			return
		}

		var body struct {
			BookingID string `json:"booking_id"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || body.BookingID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Booking ID is required"})
			return
		}

		bookingID, err := primitive.ObjectIDFromHex(helpers.StringTrim(body.BookingID))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking ID format"})
			return
		}

		booking, err := bs.GetBookingForGuest(c.Request.Context(), bookingID, claims.UserID())
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found or does not belong to user"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		result, err := bs.InitiatePayment(c.Request.Context(), booking, guestIdentity(claims))
		if err != nil {
			c.JSON(statusForError(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// VerifyPayment is the webhook/redirect target Chapa calls after checkout.
// It is deliberately unauthenticated.
func VerifyPayment(ps *services.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		txRef := c.Query("trx_ref")
		if txRef == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Transaction reference is required"})
			return
		}

		payment, err := ps.Verify(c.Request.Context(), txRef)
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pending payment not found for this transaction reference"})
			return
		}
		if err != nil {
			c.JSON(statusForError(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":    "Payment verified and completed",
			"payment_id": payment.ID.Hex(),
		})
	}
}
