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

func (mdb *MongodbRepo) CreatePayment(ctx context.Context, payment *Payment) (*Payment, error) {
	col, err := mdb.GetCollection(ctx, DbName, PaymentsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	now := time.Now()
	payment.CreatedAt = now
	payment.UpdatedAt = now
	if payment.ID.IsZero() {
		payment.ID = primitive.NewObjectID()
	}

	if _, err := col.InsertOne(ctx, payment); err != nil {
		return nil, fmt.Errorf("error inserting payment: %v", err)
	}
	return payment, nil
}

func (mdb *MongodbRepo) GetPaymentByID(ctx context.Context, id primitive.ObjectID) (*Payment, error) {
	col, err := mdb.GetCollection(ctx, DbName, PaymentsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var payment Payment
	err = col.FindOne(ctx, bson.M{"_id": id}).Decode(&payment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error finding payment: %v", err)
	}
	return &payment, nil
}

func (mdb *MongodbRepo) FindPendingByTxRef(ctx context.Context, txRef string) (*Payment, error) {
	col, err := mdb.GetCollection(ctx, DbName, PaymentsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var payment Payment
	err = col.FindOne(ctx, bson.M{"tx_ref": txRef, "status": PaymentPending}).Decode(&payment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error finding pending payment: %v", err)
	}
	return &payment, nil
}

// TransitionFromPending filters on status=pending so two concurrent callers
// cannot both finalize the same payment; the loser gets nil back.
func (mdb *MongodbRepo) TransitionFromPending(ctx context.Context, txRef string, to PaymentStatus, reason string) (*Payment, error) {
	col, err := mdb.GetCollection(ctx, DbName, PaymentsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	set := bson.M{
		"status":     to,
		"updated_at": time.Now(),
	}
	if reason != "" {
		set["failure_reason"] = reason
	}

	filter := bson.M{"tx_ref": txRef, "status": PaymentPending}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Payment
	err = col.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error transitioning payment: %v", err)
	}
	return &updated, nil
}

func (mdb *MongodbRepo) ListPendingOlderThan(ctx context.Context, age time.Duration, limit int) ([]*Payment, error) {
	col, err := mdb.GetCollection(ctx, DbName, PaymentsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	cutoff := time.Now().Add(-age)
	filter := bson.M{
		"status":     PaymentPending,
		"created_at": bson.M{"$lt": cutoff},
	}
	opts := options.Find().
		SetLimit(int64(limit)).
		SetSort(bson.M{"created_at": 1})

	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding stale pending payments: %v", err)
	}
	defer cursor.Close(ctx)

	payments := make([]*Payment, 0)
	for cursor.Next(ctx) {
		var payment Payment
		if err := cursor.Decode(&payment); err != nil {
			return nil, fmt.Errorf("error decoding payment: %v", err)
		}
		payments = append(payments, &payment)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	return payments, nil
}
