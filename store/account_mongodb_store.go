package store

import (
	"context"

	"booking_backend/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/trace"
)

const (
	DATABASE           = "booking"
	ACCOUNT_COLLECTION = "accounts"
)

type AccountMongoDBStore struct {
	accounts *mongo.Collection
	tracer   trace.Tracer
}

func NewAccountMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.AccountStore {
	accounts := client.Database(DATABASE).Collection(ACCOUNT_COLLECTION)
	return &AccountMongoDBStore{
		accounts: accounts,
		tracer:   tracer,
	}
}

// EnsureEmailIndex makes the unique-email invariant a database
// constraint rather than a read-then-write race.
func (store *AccountMongoDBStore) EnsureEmailIndex(ctx context.Context) error {
	index := mongo.IndexModel{
		Keys:    bson.M{"email": 1},
		Options: options.Index().SetUnique(true),
	}
	_, err := store.accounts.Indexes().CreateOne(ctx, index)
	return err
}

func (store *AccountMongoDBStore) Insert(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	ctx, span := store.tracer.Start(ctx, "AccountStore.Insert")
	defer span.End()

	account.ID = primitive.NewObjectID()
	result, err := store.accounts.InsertOne(ctx, account)
	if err != nil {
		return nil, err
	}
	account.ID = result.InsertedID.(primitive.ObjectID)
	return account, nil
}

func (store *AccountMongoDBStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Account, error) {
	ctx, span := store.tracer.Start(ctx, "AccountStore.Get")
	defer span.End()

	filter := bson.M{"_id": id}
	return store.filterOne(ctx, filter)
}

func (store *AccountMongoDBStore) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	ctx, span := store.tracer.Start(ctx, "AccountStore.GetByEmail")
	defer span.End()

	filter := bson.M{"email": email}

	account, err := store.filterOne(ctx, filter)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return account, nil
}

func (store *AccountMongoDBStore) filterOne(ctx context.Context, filter interface{}) (account *domain.Account, err error) {
	result := store.accounts.FindOne(ctx, filter)
	err = result.Err()
	if err != nil {
		return nil, err
	}
	err = result.Decode(&account)
	return
}
