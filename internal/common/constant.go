package common

const (
	// AuthorizationHeaderName carries bearer material over HTTP headers and
	// gRPC metadata (lower-cased there).
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the token inside the authorization value.
	BearerPrefix = "Bearer "

	// RefreshTokenSize is the number of random bytes behind a refresh token;
	// the hex form is twice as long.
	RefreshTokenSize = 32
)
