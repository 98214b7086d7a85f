// Package pollertest provides an in-memory poller.Poller for tests.
package pollertest

import (
	"context"
	"sync"

	"github.com/oshokin/check-xups-alarms/internal/poller"
)

var _ poller.Poller = (*Fake)(nil)

// Fake is a scripted poller.Poller that records every call.
type Fake struct {
	// Scalars maps OIDs to the values returned by PollScalar.
	Scalars map[string]int
	// Tables maps prefixes to the rows returned by PollTable.
	Tables map[string][]poller.Row
	// Strings maps OIDs to the values returned by PollStrings.
	Strings map[string]string
	// ScalarErr, when set, is returned by PollScalar.
	ScalarErr error
	// TableErr, when set, is returned by PollTable.
	TableErr error
	// StringsErr, when set, is returned by PollStrings.
	StringsErr error

	mu     sync.Mutex
	calls  []string
	closed bool
}

// PollScalar returns the scripted scalar for oid.
func (f *Fake) PollScalar(_ context.Context, oid string) (int, error) {
	f.record("scalar " + oid)

	if f.ScalarErr != nil {
		return 0, f.ScalarErr
	}

	return f.Scalars[oid], nil
}

// PollTable returns the scripted rows for prefix.
func (f *Fake) PollTable(_ context.Context, prefix string) ([]poller.Row, error) {
	f.record("table " + prefix)

	if f.TableErr != nil {
		return nil, f.TableErr
	}

	return f.Tables[prefix], nil
}

// PollStrings returns the scripted strings for the requested OIDs that exist.
func (f *Fake) PollStrings(_ context.Context, oids ...string) (map[string]string, error) {
	f.record("strings")

	if f.StringsErr != nil {
		return nil, f.StringsErr
	}

	values := make(map[string]string, len(oids))

	for _, oid := range oids {
		if value, ok := f.Strings[oid]; ok {
			values[oid] = value
		}
	}

	return values, nil
}

// Close marks the fake as closed.
func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true

	return nil
}

// Calls returns the recorded calls in order.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.calls...)
}

// Closed reports whether Close was called.
func (f *Fake) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.closed
}

func (f *Fake) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, call)
}
