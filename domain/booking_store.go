package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingStore interface {
	Insert(ctx context.Context, booking *Booking) (*Booking, error)
	GetByUserWithPlace(ctx context.Context, user primitive.ObjectID) ([]*BookingWithPlace, error)
}
