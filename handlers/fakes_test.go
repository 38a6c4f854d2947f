package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"

	"booking_backend/authorization"
	"booking_backend/domain"

	"github.com/go-redis/redis"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/trace"
)

const testSecret = "test-secret-key"

func newTestCodec(t *testing.T) *authorization.TokenCodec {
	t.Helper()
	codec, err := authorization.NewTokenCodec([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to build codec: %v", err)
	}
	return codec
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testTracer() trace.Tracer {
	return trace.NewNoopTracerProvider().Tracer("")
}

func sessionCookie(t *testing.T, codec *authorization.TokenCodec, id primitive.ObjectID, email string) *http.Cookie {
	t.Helper()
	token, err := codec.Issue(&domain.Claims{ID: id.Hex(), Email: email})
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return &http.Cookie{Name: tokenCookieName, Value: token}
}

type fakePlaceStore struct {
	places  map[primitive.ObjectID]*domain.Place
	updates int
}

func newFakePlaceStore() *fakePlaceStore {
	return &fakePlaceStore{places: map[primitive.ObjectID]*domain.Place{}}
}

func (f *fakePlaceStore) Insert(ctx context.Context, place *domain.Place) (*domain.Place, error) {
	place.ID = primitive.NewObjectID()
	stored := *place
	f.places[place.ID] = &stored
	return place, nil
}

func (f *fakePlaceStore) GetAll(ctx context.Context) ([]*domain.Place, error) {
	var all []*domain.Place
	for _, place := range f.places {
		all = append(all, place)
	}
	return all, nil
}

func (f *fakePlaceStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Place, error) {
	place, ok := f.places[id]
	if !ok {
		return nil, nil
	}
	copied := *place
	return &copied, nil
}

func (f *fakePlaceStore) GetByOwner(ctx context.Context, owner primitive.ObjectID) ([]*domain.Place, error) {
	var owned []*domain.Place
	for _, place := range f.places {
		if place.Owner == owner {
			owned = append(owned, place)
		}
	}
	return owned, nil
}

func (f *fakePlaceStore) GetByTitle(ctx context.Context, title string) (*domain.Place, error) {
	for _, place := range f.places {
		if place.Title == title {
			return place, nil
		}
	}
	return nil, nil
}

func (f *fakePlaceStore) Update(ctx context.Context, place *domain.Place) error {
	if _, ok := f.places[place.ID]; !ok {
		return fmt.Errorf("place not found")
	}
	stored := *place
	f.places[place.ID] = &stored
	f.updates++
	return nil
}

func (f *fakePlaceStore) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	if _, ok := f.places[id]; !ok {
		return false, nil
	}
	delete(f.places, id)
	return true, nil
}

type fakeBookingStore struct {
	bookings []*domain.Booking
	places   map[primitive.ObjectID]*domain.Place
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{places: map[primitive.ObjectID]*domain.Place{}}
}

func (f *fakeBookingStore) Insert(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	booking.ID = primitive.NewObjectID()
	stored := *booking
	f.bookings = append(f.bookings, &stored)
	return booking, nil
}

func (f *fakeBookingStore) GetByUserWithPlace(ctx context.Context, user primitive.ObjectID) ([]*domain.BookingWithPlace, error) {
	var result []*domain.BookingWithPlace
	for _, booking := range f.bookings {
		if booking.User != user {
			continue
		}
		result = append(result, &domain.BookingWithPlace{
			ID:             booking.ID,
			Place:          f.places[booking.Place],
			User:           booking.User,
			CheckIn:        booking.CheckIn,
			CheckOut:       booking.CheckOut,
			NumberOfGuests: booking.NumberOfGuests,
			Name:           booking.Name,
			Phone:          booking.Phone,
			Price:          booking.Price,
		})
	}
	return result, nil
}

type fakeImageCache struct {
	images map[string][]byte
}

func newFakeImageCache() *fakeImageCache {
	return &fakeImageCache{images: map[string][]byte{}}
}

func (f *fakeImageCache) Post(ctx context.Context, imageName string, image []byte) error {
	f.images[imageName] = image
	return nil
}

func (f *fakeImageCache) Get(ctx context.Context, imageName string) ([]byte, error) {
	image, ok := f.images[imageName]
	if !ok {
		return nil, redis.Nil
	}
	return image, nil
}

func (f *fakeImageCache) Exists(imageName string) bool {
	_, ok := f.images[imageName]
	return ok
}
