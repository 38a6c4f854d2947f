package errors

import "fmt"

const (
	InvalidTokenError         = "Token is invalid"
	EmailAlreadyExist         = "Email already exists in database"
	EmailNotFound             = "not found"
	PassNotOk                 = "pass not ok"
	AccountNotFoundError      = "Account not found"
	PlaceNotFoundError        = "Place not found"
	NotOwnerError             = "Caller does not own this place"
	InvalidRequestFormatError = "Invalid request format"
	DownloadError             = "Error downloading image"
)

// ErrResp carries the status of a failed outbound request so the
// circuit breaker can tell client-side failures from server-side ones.
type ErrResp struct {
	URL        string
	StatusCode int
}

func (e ErrResp) Error() string {
	return fmt.Sprintf("request to %s failed with status %d", e.URL, e.StatusCode)
}
