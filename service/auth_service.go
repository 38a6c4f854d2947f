package application

import (
	"context"
	"fmt"

	"booking_backend/authorization"
	"booking_backend/domain"
	"booking_backend/errors"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	store      domain.AccountStore
	codec      *authorization.TokenCodec
	bcryptCost int
	tracer     trace.Tracer
	logger     *logrus.Logger
}

func NewAuthService(store domain.AccountStore, codec *authorization.TokenCodec, bcryptCost int, tracer trace.Tracer, logger *logrus.Logger) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}

	return &AuthService{
		store:      store,
		codec:      codec,
		bcryptCost: bcryptCost,
		tracer:     tracer,
		logger:     logger,
	}
}

func (service *AuthService) Register(ctx context.Context, request *domain.RegisterRequest) (*domain.Account, error) {
	ctx, span := service.tracer.Start(ctx, "AuthService.Register")
	defer span.End()

	existing, err := service.store.GetByEmail(ctx, request.Email)
	if err != nil && err != mongo.ErrNoDocuments {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if existing != nil {
		service.logger.Infof("register rejected, email already taken: %s", request.Email)
		return nil, fmt.Errorf(errors.EmailAlreadyExist)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), service.bcryptCost)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	account := &domain.Account{
		Name:     request.Name,
		Email:    request.Email,
		Password: string(hash),
	}

	created, err := service.store.Insert(ctx, account)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf(errors.EmailAlreadyExist)
		}
		return nil, err
	}

	service.logger.Infof("registered account %s", created.ID.Hex())
	return created, nil
}

// Login returns the account and a signed session token. A missing
// account or a wrong password is reported through the error message, the
// handler turns those into the body the client expects.
func (service *AuthService) Login(ctx context.Context, credentials *domain.Credentials) (*domain.Account, string, error) {
	ctx, span := service.tracer.Start(ctx, "AuthService.Login")
	defer span.End()

	account, err := service.store.GetByEmail(ctx, credentials.Email)
	if err != nil || account == nil {
		service.logger.Infof("login failed, unknown email: %s", credentials.Email)
		return nil, "", fmt.Errorf(errors.EmailNotFound)
	}

	passError := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(credentials.Password))
	if passError != nil {
		service.logger.Infof("login failed, wrong password for %s", credentials.Email)
		return nil, "", fmt.Errorf(errors.PassNotOk)
	}

	claims := &domain.Claims{
		ID:    account.ID.Hex(),
		Email: account.Email,
	}

	tokenString, err := service.codec.Issue(claims)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, "", err
	}

	return account, tokenString, nil
}

func (service *AuthService) GetProfile(ctx context.Context, claims *domain.Claims) (*domain.Profile, error) {
	ctx, span := service.tracer.Start(ctx, "AuthService.GetProfile")
	defer span.End()

	id, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		return nil, fmt.Errorf(errors.InvalidTokenError)
	}

	account, err := service.store.Get(ctx, id)
	if err != nil || account == nil {
		span.SetStatus(codes.Error, errors.AccountNotFoundError)
		return nil, fmt.Errorf(errors.AccountNotFoundError)
	}

	return &domain.Profile{
		Name:  account.Name,
		Email: account.Email,
		ID:    account.ID,
	}, nil
}
