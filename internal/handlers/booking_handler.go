package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tripnest/server/internal/helpers"
	"github.com/tripnest/server/internal/models"
	"github.com/tripnest/server/internal/services"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreateBooking persists the booking, fires the confirmation notification
// and initiates payment. The response embeds the payment outcome next to the
// booking, and the status code mirrors the payment outcome; the booking is
// persisted regardless.
func CreateBooking(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := guestClaims(c)
		if !ok {
			return
		}

		var booking models.Booking
		if err := c.ShouldBindJSON(&booking); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}

		booking.GuestID = claims.UserID()
		booking.GuestEmail = claims.Email
		booking.GuestFirstName = claims.FirstName
		booking.GuestLastName = claims.LastName

		result, err := bs.Create(c.Request.Context(), &booking, guestIdentity(claims))
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, helpers.ErrorResponse("listing not found"))
			return
		}
		if err != nil {
			c.JSON(statusForError(err), helpers.ErrorResponse(err.Error()))
			return
		}

		if result.PaymentErr != nil {
			c.JSON(statusForError(result.PaymentErr), gin.H{
				"booking": result.Booking,
				"payment": gin.H{"error": result.PaymentErr.Error()},
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"booking": result.Booking,
			"payment": result.Payment,
		})
	}
}

func ListBookings(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limitInt, offsetInt, ok := paginationParams(c)
		if !ok {
			return
		}

		bookings, total, err := bs.ListBookings(c.Request.Context(), offsetInt, limitInt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, helpers.ErrorResponse(err.Error()))
			return
		}

		page := (offsetInt / limitInt) + 1
		c.JSON(http.StatusOK, helpers.PaginatedResponse(bookings, page, limitInt, total))
	}
}

func GetBookingByID(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := objectIDParam(c, "booking")
		if !ok {
			return
		}

		booking, err := bs.GetBookingByID(c.Request.Context(), id)
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, helpers.ErrorResponse("booking not found"))
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, helpers.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, helpers.SuccessResponse(booking, ""))
	}
}

func UpdateBooking(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := objectIDParam(c, "booking")
		if !ok {
			return
		}

		var updates map[string]interface{}
		if err := c.ShouldBindJSON(&updates); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}

		updated, err := bs.UpdateBooking(c.Request.Context(), id, updates)
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, helpers.ErrorResponse("booking not found"))
			return
		}
		if err != nil {
			c.JSON(statusForError(err), helpers.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, helpers.SuccessResponse(updated, "Booking updated successfully"))
	}
}

func DeleteBooking(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := objectIDParam(c, "booking")
		if !ok {
			return
		}

		if err := bs.DeleteBooking(c.Request.Context(), id); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				c.JSON(http.StatusNotFound, helpers.ErrorResponse("booking not found"))
				return
			}
			c.JSON(http.StatusInternalServerError, helpers.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, helpers.SuccessResponse(nil, "booking deleted successfully"))
	}
}

func guestClaims(c *gin.Context) (*helpers.Claims, bool) {
	userClaims, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, helpers.ErrorResponse("unauthorized"))
		return nil, false
	}
	claims, ok := userClaims.(*helpers.Claims)
	if !ok {
		c.JSON(http.StatusInternalServerError, helpers.ErrorResponse("invalid user claims"))
		return nil, false
	}
	return claims, true
}

func guestIdentity(claims *helpers.Claims) services.GuestIdentity {
	return services.GuestIdentity{
		Email:     claims.Email,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
	}
}
