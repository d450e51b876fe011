package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (mdb *MongodbRepo) CreateListing(ctx context.Context, listing *Listing) (*Listing, error) {
	col, err := mdb.GetCollection(ctx, DbName, ListingsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	now := time.Now()
	listing.CreatedAt = now
	listing.UpdatedAt = now
	if listing.ID.IsZero() {
		listing.ID = primitive.NewObjectID()
	}

	if _, err := col.InsertOne(ctx, listing); err != nil {
		return nil, fmt.Errorf("error inserting listing: %v", err)
	}
	return listing, nil
}

func (mdb *MongodbRepo) GetListingByID(ctx context.Context, id primitive.ObjectID) (*Listing, error) {
	col, err := mdb.GetCollection(ctx, DbName, ListingsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var listing Listing
	err = col.FindOne(ctx, bson.M{"_id": id}).Decode(&listing)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error finding listing: %v", err)
	}
	return &listing, nil
}

func (mdb *MongodbRepo) ListListings(ctx context.Context, offset, limit int) ([]*Listing, int, error) {
	col, err := mdb.GetCollection(ctx, DbName, ListingsColName)
	if err != nil {
		return nil, 0, fmt.Errorf("error getting collection: %v", err)
	}

	total, err := col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("error counting listings: %v", err)
	}

	opts := options.Find().
		SetSkip(int64(offset)).
		SetLimit(int64(limit)).
		SetSort(bson.M{"created_at": -1})

	cursor, err := col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("error finding listings: %v", err)
	}
	defer cursor.Close(ctx)

	listings := make([]*Listing, 0)
	for cursor.Next(ctx) {
		var listing Listing
		if err := cursor.Decode(&listing); err != nil {
			return nil, 0, fmt.Errorf("error decoding listing: %v", err)
		}
		listings = append(listings, &listing)
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("cursor error: %v", err)
	}

	return listings, int(total), nil
}

func (mdb *MongodbRepo) UpdateListing(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*Listing, error) {
	col, err := mdb.GetCollection(ctx, DbName, ListingsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	updates["updated_at"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Listing
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": updates}, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error updating listing: %v", err)
	}
	return &updated, nil
}

func (mdb *MongodbRepo) DeleteListing(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, DbName, ListingsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting listing: %v", err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (mdb *MongodbRepo) DeleteAllListings(ctx context.Context) (int64, error) {
	col, err := mdb.GetCollection(ctx, DbName, ListingsColName)
	if err != nil {
		return 0, fmt.Errorf("error getting collection: %v", err)
	}

	res, err := col.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("error deleting listings: %v", err)
	}
	return res.DeletedCount, nil
}
