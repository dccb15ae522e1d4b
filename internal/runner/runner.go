// Package runner defines the common interface for query runners.
// A runner connects the host to one remote engine, executes queries, and
// discovers schemas. Runners are stateless between calls: each execution
// opens and releases its own session.
package runner

import (
	"context"

	"github.com/querybridge/querybridge/pkg/models"
)

// Principal is the optional caller identity. It is consulted only when the
// data source has user impersonation enabled; a nil Principal always falls
// back to the configured username.
type Principal struct {
	Email string
}

// Runner is the interface all query runners must implement.
// Runners must be:
// - Stateless: each execution is independent, one session per call
// - Thin: translation and normalization only, no planning
// - Explicit: errors are returned as data, never swallowed or retried
type Runner interface {
	// Name returns the unique name of this runner.
	Name() string

	// Available reports whether the runner's remote-client dependency is
	// usable. Checked once, at registration time.
	Available() bool

	// Execute runs a query as the given principal and returns the
	// normalized result. Exactly one of result and error is non-nil.
	Execute(ctx context.Context, principal *Principal, query string) (*models.ResultSet, error)

	// Schema discovers the tables and columns visible to the data source.
	Schema(ctx context.Context) ([]models.TableSchema, error)

	// TestConnection verifies the data source is reachable by running the
	// runner's no-op query through the regular execution path.
	TestConnection(ctx context.Context) error

	// ConfigurationSchema describes the runner's configuration record for
	// the host that validates and renders it.
	ConfigurationSchema() models.ConfigurationSchema
}

// Registry manages the query runners exposed to the host.
type Registry struct {
	runners []Runner
	byName  map[string]Runner
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Runner),
	}
}

// Register adds a runner to the registry. Runners whose remote-client
// dependency is unavailable are rejected here, so the host never sees them.
func (r *Registry) Register(rn Runner) error {
	if !rn.Available() {
		return &ErrUnavailable{Name: rn.Name()}
	}
	if _, dup := r.byName[rn.Name()]; dup {
		return &ErrDuplicate{Name: rn.Name()}
	}
	r.byName[rn.Name()] = rn
	r.runners = append(r.runners, rn)
	return nil
}

// Get returns a runner by name.
func (r *Registry) Get(name string) (Runner, bool) {
	rn, ok := r.byName[name]
	return rn, ok
}

// Available returns the names of all registered runners, in registration
// order.
func (r *Registry) Available() []string {
	names := make([]string, 0, len(r.runners))
	for _, rn := range r.runners {
		names = append(names, rn.Name())
	}
	return names
}

// ErrUnavailable is returned when registering a runner whose remote-client
// dependency is missing.
type ErrUnavailable struct {
	Name string
}

func (e *ErrUnavailable) Error() string {
	return "runner " + e.Name + " is not available"
}

// ErrDuplicate is returned when a runner name is registered twice.
type ErrDuplicate struct {
	Name string
}

func (e *ErrDuplicate) Error() string {
	return "runner " + e.Name + " is already registered"
}
