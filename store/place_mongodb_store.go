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
	PLACE_COLLECTION = "places"
)

type PlaceMongoDBStore struct {
	places *mongo.Collection
	tracer trace.Tracer
}

func NewPlaceMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.PlaceStore {
	places := client.Database(DATABASE).Collection(PLACE_COLLECTION)
	return &PlaceMongoDBStore{
		places: places,
		tracer: tracer,
	}
}

func (store *PlaceMongoDBStore) Insert(ctx context.Context, place *domain.Place) (*domain.Place, error) {
	ctx, span := store.tracer.Start(ctx, "PlaceStore.Insert")
	defer span.End()

	place.ID = primitive.NewObjectID()
	result, err := store.places.InsertOne(ctx, place)
	if err != nil {
		return nil, err
	}
	place.ID = result.InsertedID.(primitive.ObjectID)
	return place, nil
}

func (store *PlaceMongoDBStore) GetAll(ctx context.Context) ([]*domain.Place, error) {
	ctx, span := store.tracer.Start(ctx, "PlaceStore.GetAll")
	defer span.End()

	filter := bson.D{{}}
	return store.filter(ctx, filter)
}

func (store *PlaceMongoDBStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Place, error) {
	ctx, span := store.tracer.Start(ctx, "PlaceStore.Get")
	defer span.End()

	filter := bson.M{"_id": id}
	return store.filterOne(ctx, filter)
}

func (store *PlaceMongoDBStore) GetByOwner(ctx context.Context, owner primitive.ObjectID) ([]*domain.Place, error) {
	ctx, span := store.tracer.Start(ctx, "PlaceStore.GetByOwner")
	defer span.End()

	filter := bson.M{"owner": owner}
	return store.filter(ctx, filter)
}

func (store *PlaceMongoDBStore) GetByTitle(ctx context.Context, title string) (*domain.Place, error) {
	ctx, span := store.tracer.Start(ctx, "PlaceStore.GetByTitle")
	defer span.End()

	filter := bson.M{"title": title}
	return store.filterOne(ctx, filter)
}

func (store *PlaceMongoDBStore) Update(ctx context.Context, place *domain.Place) error {
	ctx, span := store.tracer.Start(ctx, "PlaceStore.Update")
	defer span.End()

	updateData := bson.M{
		"title":       place.Title,
		"address":     place.Address,
		"photos":      place.Photos,
		"description": place.Description,
		"perks":       place.Perks,
		"extraInfo":   place.ExtraInfo,
		"checkIn":     place.CheckIn,
		"checkOut":    place.CheckOut,
		"maxGuests":   place.MaxGuests,
		"price":       place.Price,
	}

	filter := bson.M{"_id": place.ID}
	update := bson.M{"$set": updateData}

	_, err := store.places.UpdateOne(ctx, filter, update)
	return err
}

func (store *PlaceMongoDBStore) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	ctx, span := store.tracer.Start(ctx, "PlaceStore.Delete")
	defer span.End()

	filter := bson.M{"_id": id}
	result, err := store.places.DeleteOne(ctx, filter)
	if err != nil {
		return false, err
	}

	return result.DeletedCount == 1, nil
}

func (store *PlaceMongoDBStore) filter(ctx context.Context, filter interface{}) ([]*domain.Place, error) {
	cursor, err := store.places.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodePlaces(ctx, cursor)
}

func (store *PlaceMongoDBStore) filterOne(ctx context.Context, filter interface{}) (place *domain.Place, err error) {
	result := store.places.FindOne(ctx, filter)
	if result.Err() == mongo.ErrNoDocuments {
		return nil, nil
	}
	err = result.Decode(&place)
	return
}

func decodePlaces(ctx context.Context, cursor *mongo.Cursor) (places []*domain.Place, err error) {
	for cursor.Next(ctx) {
		var place domain.Place
		err = cursor.Decode(&place)
		if err != nil {
			return
		}
		places = append(places, &place)
	}
	err = cursor.Err()
	return
}
