package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AccountStore interface {
	Insert(ctx context.Context, account *Account) (*Account, error)
	Get(ctx context.Context, id primitive.ObjectID) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
}
