package authorization

import (
	"fmt"

	"booking_backend/domain"
	"booking_backend/errors"

	"github.com/cristalhq/jwt/v4"
)

// TokenCodec signs and verifies session tokens with a process-wide
// secret supplied from configuration. Tokens carry no expiry, a valid
// signature is the only validity condition.
type TokenCodec struct {
	signer   *jwt.HSAlg
	verifier *jwt.HSAlg
}

func NewTokenCodec(key []byte) (*TokenCodec, error) {
	signer, err := jwt.NewSignerHS(jwt.HS256, key)
	if err != nil {
		return nil, err
	}

	verifier, err := jwt.NewVerifierHS(jwt.HS256, key)
	if err != nil {
		return nil, err
	}

	return &TokenCodec{
		signer:   signer,
		verifier: verifier,
	}, nil
}

func (codec *TokenCodec) Issue(claims *domain.Claims) (string, error) {
	builder := jwt.NewBuilder(codec.signer)

	token, err := builder.Build(claims)
	if err != nil {
		return "", err
	}

	return token.String(), nil
}

func (codec *TokenCodec) Verify(tokenString string) (*domain.Claims, error) {
	var claims domain.Claims
	err := jwt.ParseClaims([]byte(tokenString), codec.verifier, &claims)
	if err != nil {
		return nil, fmt.Errorf(errors.InvalidTokenError)
	}

	if claims.ID == "" {
		return nil, fmt.Errorf(errors.InvalidTokenError)
	}

	return &claims, nil
}
