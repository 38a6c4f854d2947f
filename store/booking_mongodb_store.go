package store

import (
	"context"

	"booking_backend/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/trace"
)

const (
	BOOKING_COLLECTION = "bookings"
)

type BookingMongoDBStore struct {
	bookings *mongo.Collection
	tracer   trace.Tracer
}

func NewBookingMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.BookingStore {
	bookings := client.Database(DATABASE).Collection(BOOKING_COLLECTION)
	return &BookingMongoDBStore{
		bookings: bookings,
		tracer:   tracer,
	}
}

func (store *BookingMongoDBStore) Insert(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	ctx, span := store.tracer.Start(ctx, "BookingStore.Insert")
	defer span.End()

	booking.ID = primitive.NewObjectID()
	result, err := store.bookings.InsertOne(ctx, booking)
	if err != nil {
		return nil, err
	}
	booking.ID = result.InsertedID.(primitive.ObjectID)
	return booking, nil
}

// GetByUserWithPlace returns the caller's bookings with the referenced
// place document inlined, the aggregation stands in for a relational join.
func (store *BookingMongoDBStore) GetByUserWithPlace(ctx context.Context, user primitive.ObjectID) ([]*domain.BookingWithPlace, error) {
	ctx, span := store.tracer.Start(ctx, "BookingStore.GetByUserWithPlace")
	defer span.End()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user": user}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         PLACE_COLLECTION,
			"localField":   "place",
			"foreignField": "_id",
			"as":           "place",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$place",
			"preserveNullAndEmptyArrays": true,
		}}},
	}

	cursor, err := store.bookings.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeBookings(ctx, cursor)
}

func decodeBookings(ctx context.Context, cursor *mongo.Cursor) (bookings []*domain.BookingWithPlace, err error) {
	for cursor.Next(ctx) {
		var booking domain.BookingWithPlace
		err = cursor.Decode(&booking)
		if err != nil {
			return
		}
		bookings = append(bookings, &booking)
	}
	err = cursor.Err()
	return
}
