package services

import (
	"context"

	"github.com/tripnest/server/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ListingService struct {
	listings models.ListingRepo
}

func NewListingService(listings models.ListingRepo) *ListingService {
	return &ListingService{
		listings: listings,
	}
}

func (ls *ListingService) CreateListing(ctx context.Context, listing *models.Listing) (*models.Listing, error) {
	if err := models.Validate.Struct(listing); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	return ls.listings.CreateListing(ctx, listing)
}

func (ls *ListingService) GetListingByID(ctx context.Context, id primitive.ObjectID) (*models.Listing, error) {
	listing, err := ls.listings.GetListingByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, ErrNotFound
	}
	return listing, nil
}

func (ls *ListingService) ListListings(ctx context.Context, offset, limit int) ([]*models.Listing, int, error) {
	return ls.listings.ListListings(ctx, offset, limit)
}

func (ls *ListingService) UpdateListing(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Listing, error) {
	if len(updates) == 0 {
		return nil, &ValidationError{Message: "no fields to update"}
	}
	// Identity and timestamps are repo-owned.
	delete(updates, "id")
	delete(updates, "_id")
	delete(updates, "created_at")
	delete(updates, "updated_at")

	updated, err := ls.listings.UpdateListing(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

func (ls *ListingService) DeleteListing(ctx context.Context, id primitive.ObjectID) error {
	return ls.listings.DeleteListing(ctx, id)
}

func (ls *ListingService) DeleteAllListings(ctx context.Context) (int64, error) {
	return ls.listings.DeleteAllListings(ctx)
}
