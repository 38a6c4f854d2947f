package handlers

import (
	"encoding/json"
	"net/http"

	"booking_backend/authorization"
	"booking_backend/domain"
)

const tokenCookieName = "token"

// claimsFromCookie resolves the caller's identity from the session
// cookie. A missing cookie means an anonymous caller, not an error.
func claimsFromCookie(h *http.Request, codec *authorization.TokenCodec) (*domain.Claims, error) {
	cookie, err := h.Cookie(tokenCookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	return codec.Verify(cookie.Value)
}

func jsonResponse(payload interface{}, writer http.ResponseWriter) {
	err := json.NewEncoder(writer).Encode(payload)
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
	}
}
