package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Booking struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ListingID primitive.ObjectID `bson:"listing_id" json:"listing_id" validate:"required"`

	// Guest identity captured from the authenticated caller at creation time.
	GuestID        string `bson:"guest_id" json:"guest_id,omitempty"`
	GuestEmail     string `bson:"guest_email" json:"guest_email,omitempty"`
	GuestFirstName string `bson:"guest_first_name" json:"guest_first_name,omitempty"`
	GuestLastName  string `bson:"guest_last_name" json:"guest_last_name,omitempty"`

	CheckInDate  string  `bson:"check_in_date" json:"check_in_date" validate:"required,datetime=2006-01-02"`
	CheckOutDate string  `bson:"check_out_date" json:"check_out_date" validate:"required,datetime=2006-01-02"`
	TotalPrice   float64 `bson:"total_price" json:"total_price" validate:"required,gt=0"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

type BookingRepo interface {
	CreateBooking(ctx context.Context, booking *Booking) (*Booking, error)
	GetBookingByID(ctx context.Context, id primitive.ObjectID) (*Booking, error)
	// GetBookingForGuest returns nil, nil when the booking is absent or owned
	// by a different guest. Callers cannot distinguish the two cases.
	GetBookingForGuest(ctx context.Context, id primitive.ObjectID, guestID string) (*Booking, error)
	ListBookings(ctx context.Context, offset, limit int) ([]*Booking, int, error)
	UpdateBooking(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*Booking, error)
	DeleteBooking(ctx context.Context, id primitive.ObjectID) error
}
