package presto

import (
	"context"
	"database/sql"
	"net"
	"net/url"
	"strconv"

	"github.com/trinodb/trino-go-client/trino"

	"github.com/querybridge/querybridge/internal/config"
	qerrors "github.com/querybridge/querybridge/internal/errors"
)

// ConnectionFactory builds a live session to the remote engine from a data
// source record and an already resolved effective username. Ownership of the
// returned handle passes to the caller, which must close it on every exit
// path of the execution it serves.
type ConnectionFactory interface {
	Open(ctx context.Context, ds config.DataSource, username string) (*sql.DB, error)
}

// trinoFactory is the default factory, backed by the Trino wire-protocol
// driver. Presto and Trino coordinators speak the same statement protocol.
type trinoFactory struct{}

func (trinoFactory) Open(ctx context.Context, ds config.DataSource, username string) (*sql.DB, error) {
	dsn, err := dsnFor(ds, username)
	if err != nil {
		return nil, qerrors.NewConnection(err)
	}

	db, err := sql.Open("trino", dsn)
	if err != nil {
		return nil, qerrors.NewConnection(err)
	}

	// One session per execution; the handle never outlives the call.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, qerrors.NewConnection(err)
	}
	return db, nil
}

// dsnFor encodes the data source record and the resolved username into the
// driver's DSN format.
func dsnFor(ds config.DataSource, username string) (string, error) {
	server := url.URL{
		Scheme: ds.Protocol,
		Host:   net.JoinHostPort(ds.Host, strconv.Itoa(ds.Port)),
	}
	if ds.Password != "" {
		server.User = url.UserPassword(username, ds.Password)
	} else {
		server.User = url.User(username)
	}

	dsnConfig := trino.Config{
		ServerURI: server.String(),
		Source:    ds.Source,
		Catalog:   ds.Catalog,
		Schema:    ds.Schema,
	}
	return dsnConfig.FormatDSN()
}
