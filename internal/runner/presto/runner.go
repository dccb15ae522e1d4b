// Package presto provides the Presto query runner.
//
// The runner opens one session per execution, submits the query over the
// Trino statement protocol, normalizes the result into the canonical
// row/column shape, and classifies every failure into the typed error
// taxonomy. It never retries and never pools sessions across calls.
package presto

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/trinodb/trino-go-client/trino"

	"github.com/querybridge/querybridge/internal/config"
	qerrors "github.com/querybridge/querybridge/internal/errors"
	"github.com/querybridge/querybridge/internal/observability"
	"github.com/querybridge/querybridge/internal/runner"
	sqlutil "github.com/querybridge/querybridge/internal/sql"
	"github.com/querybridge/querybridge/pkg/models"
)

// Name is the runner name registered with the host.
const Name = "presto"

// noopQuery is the cheap statement used to probe connectivity.
const noopQuery = "SHOW TABLES"

// Runner executes queries against one Presto data source.
type Runner struct {
	ds      config.DataSource
	factory ConnectionFactory
	logger  observability.QueryLogger
}

// Option configures a Runner.
type Option func(*Runner)

// WithConnectionFactory replaces the default wire-protocol factory.
func WithConnectionFactory(f ConnectionFactory) Option {
	return func(r *Runner) {
		r.factory = f
	}
}

// WithQueryLogger sets the query logger. The default discards entries.
func WithQueryLogger(l observability.QueryLogger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// New creates a runner for the given data source. Zero-valued optional
// fields of the data source get their defaults applied; the host validates
// presence of Host before the runner is ever invoked.
func New(ds config.DataSource, opts ...Option) *Runner {
	ds.ApplyDefaults()
	r := &Runner{
		ds:      ds,
		factory: trinoFactory{},
		logger:  observability.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name returns the runner name.
func (r *Runner) Name() string {
	return Name
}

// Available reports whether the wire-protocol driver is registered.
func (r *Runner) Available() bool {
	for _, d := range sql.Drivers() {
		if d == "trino" {
			return true
		}
	}
	return false
}

// Execute runs query as principal and returns the normalized result.
//
// Cancellation is cooperative through ctx: the driver cancels the in-flight
// remote statement when ctx is done, and the outcome is always the fixed
// cancellation error regardless of what the engine reports afterwards. The
// session opened for this call is released on every exit path.
func (r *Runner) Execute(ctx context.Context, principal *runner.Principal, query string) (result *models.ResultSet, err error) {
	user := r.effectiveUsername(principal)
	started := time.Now()
	defer func() {
		r.logExecution(ctx, query, user, started, err)
	}()

	db, err := r.factory.Open(ctx, r.ds, user)
	if err != nil {
		return nil, r.classify(ctx, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, r.classify(ctx, err)
	}
	defer rows.Close()

	result, err = materialize(ctx, rows)
	if err != nil {
		return nil, r.classify(ctx, err)
	}
	return result, nil
}

// TestConnection probes the data source by running the no-op query through
// the regular execution path.
func (r *Runner) TestConnection(ctx context.Context) error {
	_, err := r.Execute(ctx, nil, noopQuery)
	return err
}

// ConfigurationSchema describes the Presto configuration record.
func (r *Runner) ConfigurationSchema() models.ConfigurationSchema {
	return models.ConfigurationSchema{
		Fields: []models.ConfigField{
			{Name: "host", Type: "string"},
			{Name: "protocol", Type: "string", Default: config.DefaultProtocol},
			{Name: "port", Type: "number", Default: config.DefaultPort},
			{Name: "username", Type: "string", Default: config.DefaultUsername},
			{Name: "password", Type: "string", Secret: true},
			{Name: "schema", Type: "string", Default: config.DefaultSchema},
			{Name: "catalog", Type: "string", Default: config.DefaultCatalog},
			{Name: "source", Type: "string", Title: "Source to be passed to the engine", Default: config.DefaultSource},
			{Name: "blacklisted_table_schemas", Type: "string", Title: "Comma separated list of schemas discarded during schema discovery"},
			{Name: "user_impersonation", Type: "boolean", Title: "Pass the logged-in user's email address as the engine username", Default: false},
		},
		Required: []string{"host"},
	}
}

// effectiveUsername resolves the username sent to the engine. Deterministic
// given the data source record and the principal.
func (r *Runner) effectiveUsername(principal *runner.Principal) string {
	if !r.ds.UserImpersonation || principal == nil {
		return r.ds.Username
	}
	return principal.Email
}

// classify folds a raw failure into the typed taxonomy. Cancellation wins
// over everything else raised after the signal.
func (r *Runner) classify(ctx context.Context, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, trino.ErrQueryCancelled) {
		return qerrors.NewCancelled(err)
	}

	var qe *qerrors.QueryError
	if errors.As(err, &qe) {
		return qe
	}

	var failed *trino.ErrQueryFailed
	if errors.As(err, &failed) {
		raw := ""
		if failed.Reason != nil {
			raw = failed.Reason.Error()
		}
		if msg, ok := extractFailureMessage(raw); ok {
			return qerrors.NewRemote(msg, err)
		}
		return qerrors.NewRemote(fmt.Sprintf("Unspecified DatabaseError: %s", raw), err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return qerrors.NewConnection(err)
	}

	return qerrors.NewUnexpected(err)
}

// materialize reads the column descriptors and all rows of a result and
// folds them into the canonical shape. Row values are zipped positionally
// against column names; duplicate names collapse with the last value
// winning, which downstream consumers depend on.
func materialize(ctx context.Context, rows *sql.Rows) (*models.ResultSet, error) {
	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	columns := make([]models.Column, len(columnTypes))
	for i, ct := range columnTypes {
		// The driver reports raw types uppercased; the mapping table is
		// keyed on the engine's lowercase spelling.
		columns[i] = models.Column{
			Name: ct.Name(),
			Type: MapType(strings.ToLower(ct.DatabaseTypeName())),
		}
	}

	out := make([]models.Row, 0)
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(models.Row, len(columns))
		for i, col := range columns {
			row[col.Name] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &models.ResultSet{Columns: columns, Rows: out}, nil
}

func (r *Runner) logExecution(ctx context.Context, query, user string, started time.Time, execErr error) {
	outcome := "success"
	message := ""
	if execErr != nil {
		outcome = "error"
		if qerrors.IsCancelled(execErr) {
			outcome = "cancelled"
		}
		message = execErr.Error()
	}

	entry := observability.QueryLogEntry{
		QueryID:       uuid.NewString(),
		User:          user,
		Source:        Name,
		Tables:        sqlutil.ExtractTables(query),
		ExecutionTime: time.Since(started),
		Outcome:       outcome,
		Error:         message,
	}
	// The entry must still be written when ctx was cancelled mid-query.
	_ = r.logger.LogQuery(context.WithoutCancel(ctx), entry)
}
