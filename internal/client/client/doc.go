// Package client talks to the sessionkeeper server on behalf of the CLI.
//
// Client is the transport-agnostic contract. HTTPClient speaks the JSON/HTTP
// API and GRPCClient the gRPC service; both map failures onto the sentinel
// errors below so callers can match with errors.Is:
//
//   - ErrUnauthorized: the server rejected the credentials or bearer token
//   - ErrUnavailable:  the server could not be reached
//   - ErrInvalidInput: the request was rejected as malformed
//   - common.ErrEmailTaken: sign-up with an email that is already registered
//
// InitDatabase opens the local SQLite file holding the session record and
// applies the embedded goose migrations.
package client
