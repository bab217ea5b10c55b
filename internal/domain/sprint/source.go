package sprint

import (
	"context"
	"errors"
)

var (
	// ErrInvalidConnectionParams marks failures that retrying cannot fix.
	ErrInvalidConnectionParams = errors.New("invalid connection parameters")
	// ErrSourceUnavailable wraps connectivity and query failures.
	ErrSourceUnavailable = errors.New("ticket source unavailable")
	// ErrAccessDenied marks a source that refused the credentials. It is
	// always wrapped together with ErrSourceUnavailable.
	ErrAccessDenied = errors.New("access denied by ticket source")
)

// TicketSource reads the tickets of one sprint. An empty, non-nil ResultSet
// with a nil error means the sprint has no tickets; any failure is returned
// as an error, never as an empty result.
type TicketSource interface {
	FetchSprintTickets(ctx context.Context, params ConnectionParams, sprintID int) (ResultSet, error)
}
