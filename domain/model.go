package domain

import (
	"encoding/json"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Account struct {
	ID       primitive.ObjectID `bson:"_id" json:"_id"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password" json:"password"`
}

type Place struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	Owner       primitive.ObjectID `bson:"owner" json:"owner"`
	Title       string             `bson:"title" json:"title"`
	Address     string             `bson:"address" json:"address"`
	Photos      []string           `bson:"photos" json:"photos"`
	Description string             `bson:"description" json:"description"`
	Perks       []string           `bson:"perks" json:"perks"`
	ExtraInfo   string             `bson:"extraInfo" json:"extraInfo"`
	CheckIn     int                `bson:"checkIn" json:"checkIn"`
	CheckOut    int                `bson:"checkOut" json:"checkOut"`
	MaxGuests   int                `bson:"maxGuests" json:"maxGuests"`
	Price       int                `bson:"price" json:"price"`
}

type Booking struct {
	ID             primitive.ObjectID `bson:"_id" json:"_id"`
	Place          primitive.ObjectID `bson:"place" json:"place"`
	User           primitive.ObjectID `bson:"user" json:"user"`
	CheckIn        time.Time          `bson:"checkIn" json:"checkIn"`
	CheckOut       time.Time          `bson:"checkOut" json:"checkOut"`
	NumberOfGuests int                `bson:"numberOfGuests" json:"numberOfGuests"`
	Name           string             `bson:"name" json:"name"`
	Phone          string             `bson:"phone" json:"phone"`
	Price          int                `bson:"price" json:"price"`
}

// BookingWithPlace is the /bookings read shape, with the referenced
// place document inlined by the store.
type BookingWithPlace struct {
	ID             primitive.ObjectID `bson:"_id" json:"_id"`
	Place          *Place             `bson:"place" json:"place"`
	User           primitive.ObjectID `bson:"user" json:"user"`
	CheckIn        time.Time          `bson:"checkIn" json:"checkIn"`
	CheckOut       time.Time          `bson:"checkOut" json:"checkOut"`
	NumberOfGuests int                `bson:"numberOfGuests" json:"numberOfGuests"`
	Name           string             `bson:"name" json:"name"`
	Phone          string             `bson:"phone" json:"phone"`
	Price          int                `bson:"price" json:"price"`
}

// Claims is the session token payload. There is deliberately no
// expiry claim, a token stays valid as long as its signature does.
type Claims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Profile struct {
	Name  string             `json:"name"`
	Email string             `json:"email"`
	ID    primitive.ObjectID `json:"_id"`
}

// PlaceRequest carries the client fields for place create/update. The id
// is only set on update (PUT sends it in the body, like the original client).
type PlaceRequest struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Address     string   `json:"address"`
	AddedPhotos []string `json:"addedPhotos"`
	Description string   `json:"description"`
	Perks       []string `json:"perks"`
	ExtraInfo   string   `json:"extraInfo"`
	CheckIn     int      `json:"checkIn"`
	CheckOut    int      `json:"checkOut"`
	MaxGuests   int      `json:"maxGuests"`
	Price       int      `json:"price"`
}

type BookingRequest struct {
	Place          string    `json:"place"`
	CheckIn        time.Time `json:"checkIn"`
	CheckOut       time.Time `json:"checkOut"`
	NumberOfGuests int       `json:"numberOfGuests"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	Price          int       `json:"price"`
}

type UploadByLinkRequest struct {
	Link string `json:"link"`
}

func (request *RegisterRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(request)
}

func (request *RegisterRequest) FromJSON(reader io.Reader) error {
	d := json.NewDecoder(reader)
	return d.Decode(request)
}
