package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"booking_backend/authorization"
	"booking_backend/domain"
	"booking_backend/errors"
	application "booking_backend/service"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type KeyAccount struct{}

type AuthHandler struct {
	service *application.AuthService
	codec   *authorization.TokenCodec
	tracer  trace.Tracer
	logger  *logrus.Logger
}

func NewAuthHandler(service *application.AuthService, codec *authorization.TokenCodec, tracer trace.Tracer, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		codec:   codec,
		tracer:  tracer,
		logger:  logger,
	}
}

func (handler *AuthHandler) Init(router *mux.Router) {
	router.HandleFunc("/test", handler.Test).Methods("GET")
	router.HandleFunc("/login", handler.Login).Methods("POST")
	router.HandleFunc("/logout", handler.Logout).Methods("POST")
	router.HandleFunc("/profile", handler.Profile).Methods("GET")

	registerRouter := router.Methods(http.MethodPost).Subrouter()
	registerRouter.HandleFunc("/register", handler.Register)
	registerRouter.Use(MiddlewareRegisterValidation)
}

func (handler *AuthHandler) Test(writer http.ResponseWriter, req *http.Request) {
	jsonResponse("test ok", writer)
}

func (handler *AuthHandler) Register(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AuthHandler.Register")
	defer span.End()

	request := req.Context().Value(KeyAccount{}).(domain.RegisterRequest)

	account, err := handler.service.Register(ctx, &request)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handler.logger.Infof("register failed: %s", err.Error())
		writer.WriteHeader(http.StatusUnprocessableEntity)
		jsonResponse(map[string]string{"error": err.Error()}, writer)
		return
	}

	jsonResponse(account, writer)
}

func (handler *AuthHandler) Login(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AuthHandler.Login")
	defer span.End()

	var credentials domain.Credentials
	err := json.NewDecoder(req.Body).Decode(&credentials)
	if err != nil {
		http.Error(writer, errors.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	account, token, err := handler.service.Login(ctx, &credentials)
	if err != nil {
		// The original client expects these failure bodies verbatim.
		if err.Error() == errors.EmailNotFound || err.Error() == errors.PassNotOk {
			jsonResponse(err.Error(), writer)
			return
		}
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	http.SetCookie(writer, &http.Cookie{
		Name:  tokenCookieName,
		Value: token,
		Path:  "/",
	})
	jsonResponse(account, writer)
}

func (handler *AuthHandler) Logout(writer http.ResponseWriter, req *http.Request) {
	http.SetCookie(writer, &http.Cookie{
		Name:   tokenCookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	jsonResponse(true, writer)
}

func (handler *AuthHandler) Profile(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AuthHandler.Profile")
	defer span.End()

	claims, err := claimsFromCookie(req, handler.codec)
	if err != nil {
		http.Error(writer, errors.InvalidTokenError, http.StatusUnauthorized)
		return
	}
	if claims == nil {
		jsonResponse(nil, writer)
		return
	}

	profile, err := handler.service.GetProfile(ctx, claims)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	jsonResponse(profile, writer)
}

func MiddlewareRegisterValidation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		registerRequest := &domain.RegisterRequest{}
		err := registerRequest.FromJSON(request.Body)
		if err != nil {
			http.Error(responseWriter, "Unable to Decode JSON", http.StatusUnprocessableEntity)
			return
		}

		err = registerRequest.Validate()
		if err != nil {
			http.Error(responseWriter, fmt.Sprintf("Validation Error:\n %s.", err), http.StatusUnprocessableEntity)
			return
		}

		ctx := context.WithValue(request.Context(), KeyAccount{}, *registerRequest)
		request = request.WithContext(ctx)

		next.ServeHTTP(responseWriter, request)
	})
}
