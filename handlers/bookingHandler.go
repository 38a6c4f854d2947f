package handlers

import (
	"encoding/json"
	"net/http"

	"booking_backend/authorization"
	"booking_backend/domain"
	"booking_backend/errors"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type BookingHandler struct {
	store  domain.BookingStore
	codec  *authorization.TokenCodec
	tracer trace.Tracer
	logger *logrus.Logger
}

func NewBookingHandler(store domain.BookingStore, codec *authorization.TokenCodec, tracer trace.Tracer, logger *logrus.Logger) *BookingHandler {
	return &BookingHandler{
		store:  store,
		codec:  codec,
		tracer: tracer,
		logger: logger,
	}
}

func (handler *BookingHandler) Init(router *mux.Router) {
	router.HandleFunc("/bookings", handler.Create).Methods("POST")
	router.HandleFunc("/bookings", handler.GetUserBookings).Methods("GET")
}

func (handler *BookingHandler) Create(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "BookingHandler.Create")
	defer span.End()

	claims, err := claimsFromCookie(req, handler.codec)
	if err != nil || claims == nil {
		http.Error(writer, errors.InvalidTokenError, http.StatusUnauthorized)
		return
	}

	user, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		http.Error(writer, errors.InvalidTokenError, http.StatusUnauthorized)
		return
	}

	var request domain.BookingRequest
	err = json.NewDecoder(req.Body).Decode(&request)
	if err != nil {
		http.Error(writer, errors.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	place, err := primitive.ObjectIDFromHex(request.Place)
	if err != nil {
		http.Error(writer, errors.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	booking := &domain.Booking{
		Place:          place,
		User:           user,
		CheckIn:        request.CheckIn,
		CheckOut:       request.CheckOut,
		NumberOfGuests: request.NumberOfGuests,
		Name:           request.Name,
		Phone:          request.Phone,
		Price:          request.Price,
	}

	created, err := handler.store.Insert(ctx, booking)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handler.logger.Errorf("Error creating booking: %v", err)
		http.Error(writer, "Error creating booking", http.StatusInternalServerError)
		return
	}

	jsonResponse(created, writer)
}

func (handler *BookingHandler) GetUserBookings(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "BookingHandler.GetUserBookings")
	defer span.End()

	claims, err := claimsFromCookie(req, handler.codec)
	if err != nil || claims == nil {
		http.Error(writer, errors.InvalidTokenError, http.StatusUnauthorized)
		return
	}

	user, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		http.Error(writer, errors.InvalidTokenError, http.StatusUnauthorized)
		return
	}

	bookings, err := handler.store.GetByUserWithPlace(ctx, user)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}

	jsonResponse(bookings, writer)
}
