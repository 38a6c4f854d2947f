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

type PlaceHandler struct {
	store  domain.PlaceStore
	codec  *authorization.TokenCodec
	tracer trace.Tracer
	logger *logrus.Logger
}

func NewPlaceHandler(store domain.PlaceStore, codec *authorization.TokenCodec, tracer trace.Tracer, logger *logrus.Logger) *PlaceHandler {
	return &PlaceHandler{
		store:  store,
		codec:  codec,
		tracer: tracer,
		logger: logger,
	}
}

func (handler *PlaceHandler) Init(router *mux.Router) {
	router.HandleFunc("/places", handler.GetAll).Methods("GET")
	router.HandleFunc("/places", handler.Create).Methods("POST")
	router.HandleFunc("/places", handler.Update).Methods("PUT")
	router.HandleFunc("/places/{id}", handler.Get).Methods("GET")
	router.HandleFunc("/places/{id}", handler.Delete).Methods("DELETE")
	router.HandleFunc("/user-places", handler.GetUserPlaces).Methods("GET")
	router.HandleFunc("/apartments", handler.SearchByTitle).Methods("GET")
}

func (handler *PlaceHandler) Create(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "PlaceHandler.Create")
	defer span.End()

	claims, err := claimsFromCookie(req, handler.codec)
	if err != nil || claims == nil {
		http.Error(writer, errors.InvalidTokenError, http.StatusUnauthorized)
		return
	}

	owner, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		http.Error(writer, errors.InvalidTokenError, http.StatusUnauthorized)
		return
	}

	var request domain.PlaceRequest
	err = json.NewDecoder(req.Body).Decode(&request)
	if err != nil {
		http.Error(writer, errors.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	place := &domain.Place{
		Owner:       owner,
		Title:       request.Title,
		Address:     request.Address,
		Photos:      request.AddedPhotos,
		Description: request.Description,
		Perks:       request.Perks,
		ExtraInfo:   request.ExtraInfo,
		CheckIn:     request.CheckIn,
		CheckOut:    request.CheckOut,
		MaxGuests:   request.MaxGuests,
		Price:       request.Price,
	}

	created, err := handler.store.Insert(ctx, place)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handler.logger.Errorf("Error creating place: %v", err)
		http.Error(writer, "Error creating place", http.StatusInternalServerError)
		return
	}

	jsonResponse(created, writer)
}

func (handler *PlaceHandler) GetAll(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "PlaceHandler.GetAll")
	defer span.End()

	places, err := handler.store.GetAll(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}

	jsonResponse(places, writer)
}

func (handler *PlaceHandler) Get(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "PlaceHandler.Get")
	defer span.End()

	vars := mux.Vars(req)

	id, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		jsonResponse(nil, writer)
		return
	}

	place, err := handler.store.Get(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}

	jsonResponse(place, writer)
}

func (handler *PlaceHandler) GetUserPlaces(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "PlaceHandler.GetUserPlaces")
	defer span.End()

	claims, err := claimsFromCookie(req, handler.codec)
	if err != nil || claims == nil {
		http.Error(writer, errors.InvalidTokenError, http.StatusUnauthorized)
		return
	}

	owner, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		http.Error(writer, errors.InvalidTokenError, http.StatusUnauthorized)
		return
	}

	places, err := handler.store.GetByOwner(ctx, owner)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}

	jsonResponse(places, writer)
}

func (handler *PlaceHandler) SearchByTitle(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "PlaceHandler.SearchByTitle")
	defer span.End()

	title := req.URL.Query().Get("title")

	place, err := handler.store.GetByTitle(ctx, title)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handler.logger.Errorf("Error searching places by title: %v", err)
		writer.WriteHeader(http.StatusInternalServerError)
		jsonResponse(map[string]string{"error": "Internal Server Error"}, writer)
		return
	}

	jsonResponse(place, writer)
}

func (handler *PlaceHandler) Update(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "PlaceHandler.Update")
	defer span.End()

	claims, err := claimsFromCookie(req, handler.codec)
	if err != nil || claims == nil {
		http.Error(writer, errors.InvalidTokenError, http.StatusUnauthorized)
		return
	}

	var request domain.PlaceRequest
	err = json.NewDecoder(req.Body).Decode(&request)
	if err != nil {
		http.Error(writer, errors.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	id, err := primitive.ObjectIDFromHex(request.ID)
	if err != nil {
		http.Error(writer, errors.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	place, err := handler.store.Get(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}
	if place == nil {
		http.Error(writer, errors.PlaceNotFoundError, http.StatusNotFound)
		return
	}

	if claims.ID != place.Owner.Hex() {
		handler.logger.Infof("update of place %s rejected, caller %s is not the owner", place.ID.Hex(), claims.ID)
		http.Error(writer, errors.NotOwnerError, http.StatusForbidden)
		return
	}

	place.Title = request.Title
	place.Address = request.Address
	place.Photos = request.AddedPhotos
	place.Description = request.Description
	place.Perks = request.Perks
	place.ExtraInfo = request.ExtraInfo
	place.CheckIn = request.CheckIn
	place.CheckOut = request.CheckOut
	place.MaxGuests = request.MaxGuests
	place.Price = request.Price

	err = handler.store.Update(ctx, place)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}

	jsonResponse("ok", writer)
}

func (handler *PlaceHandler) Delete(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "PlaceHandler.Delete")
	defer span.End()

	claims, err := claimsFromCookie(req, handler.codec)
	if err != nil || claims == nil {
		http.Error(writer, errors.InvalidTokenError, http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(req)

	id, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(writer, errors.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	place, err := handler.store.Get(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writer.WriteHeader(http.StatusInternalServerError)
		jsonResponse(map[string]interface{}{"success": false, "message": "Internal server error"}, writer)
		return
	}
	if place == nil {
		writer.WriteHeader(http.StatusNotFound)
		jsonResponse(map[string]interface{}{"success": false, "message": "Place not found"}, writer)
		return
	}

	if claims.ID != place.Owner.Hex() {
		handler.logger.Infof("delete of place %s rejected, caller %s is not the owner", place.ID.Hex(), claims.ID)
		http.Error(writer, errors.NotOwnerError, http.StatusForbidden)
		return
	}

	deleted, err := handler.store.Delete(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writer.WriteHeader(http.StatusInternalServerError)
		jsonResponse(map[string]interface{}{"success": false, "message": "Internal server error"}, writer)
		return
	}
	if !deleted {
		writer.WriteHeader(http.StatusNotFound)
		jsonResponse(map[string]interface{}{"success": false, "message": "Place not found"}, writer)
		return
	}

	jsonResponse(map[string]interface{}{"success": true}, writer)
}
