package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PlaceStore interface {
	Insert(ctx context.Context, place *Place) (*Place, error)
	GetAll(ctx context.Context) ([]*Place, error)
	Get(ctx context.Context, id primitive.ObjectID) (*Place, error)
	GetByOwner(ctx context.Context, owner primitive.ObjectID) ([]*Place, error)
	GetByTitle(ctx context.Context, title string) (*Place, error)
	Update(ctx context.Context, place *Place) error
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
}
