package poller

import (
	"context"
	"errors"
)

// ErrPoll wraps every transport, timeout and protocol failure.
var ErrPoll = errors.New("poll failed")

// Row is one variable returned by a table walk, in device order.
type Row struct {
	// SourceKey is the full row OID without the leading dot.
	SourceKey string
	// Value is the decoded value: int64 for numeric types, string for octet
	// strings and object identifiers, raw otherwise.
	Value any
}

// Poller is the request layer the alarm check depends on.
type Poller interface {
	// PollScalar reads one numeric object.
	PollScalar(ctx context.Context, oid string) (int, error)
	// PollTable walks every object below prefix. A table without rows yields an empty slice.
	PollTable(ctx context.Context, prefix string) ([]Row, error)
	// PollStrings reads several objects and renders each value as text, keyed by OID.
	PollStrings(ctx context.Context, oids ...string) (map[string]string, error)
	// Close releases the underlying connection.
	Close() error
}
