package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Listing struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title       string             `bson:"title" json:"title" validate:"required"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price" validate:"required,gt=0"`
	Address     string             `bson:"address" json:"address" validate:"required"`
	Country     string             `bson:"country" json:"country" validate:"required"`
	City        string             `bson:"city" json:"city" validate:"required"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

type ListingRepo interface {
	CreateListing(ctx context.Context, listing *Listing) (*Listing, error)
	GetListingByID(ctx context.Context, id primitive.ObjectID) (*Listing, error)
	ListListings(ctx context.Context, offset, limit int) ([]*Listing, int, error)
	UpdateListing(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*Listing, error)
	DeleteListing(ctx context.Context, id primitive.ObjectID) error
	DeleteAllListings(ctx context.Context) (int64, error)
}
