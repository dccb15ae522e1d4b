package presto

import (
	"context"
	"errors"
	"strings"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"github.com/querybridge/querybridge/internal/config"
	qerrors "github.com/querybridge/querybridge/internal/errors"
)

func catalogRows(rows ...[3]string) *sqlmock.Rows {
	out := sqlmock.NewRowsWithColumnDefinition(
		sqlmock.NewColumn("table_schema").OfType("VARCHAR", ""),
		sqlmock.NewColumn("table_name").OfType("VARCHAR", ""),
		sqlmock.NewColumn("column_name").OfType("VARCHAR", ""),
	)
	for _, r := range rows {
		out.AddRow(r[0], r[1], r[2])
	}
	return out
}

func TestSchemaFoldingPreservesOrder(t *testing.T) {
	db, mock := newSQLMock(t)
	factory := &staticFactory{db: db}

	mock.ExpectQuery("SELECT table_schema, table_name, column_name").
		WillReturnRows(catalogRows(
			[3]string{"s1", "t1", "c1"},
			[3]string{"s1", "t1", "c2"},
			[3]string{"s2", "t2", "c3"},
		))
	mock.ExpectClose()

	r := newTestRunner(t, config.DataSource{Host: "h"}, factory)
	schemas, err := r.Schema(context.Background())
	if err != nil {
		t.Fatalf("Schema() error = %v", err)
	}

	if len(schemas) != 2 {
		t.Fatalf("schemas = %+v", schemas)
	}
	if schemas[0].Name != "s1.t1" || strings.Join(schemas[0].Columns, ",") != "c1,c2" {
		t.Fatalf("schemas[0] = %+v", schemas[0])
	}
	if schemas[1].Name != "s2.t2" || strings.Join(schemas[1].Columns, ",") != "c3" {
		t.Fatalf("schemas[1] = %+v", schemas[1])
	}
	assertSQLMock(t, mock)
}

func TestSchemaQueryExcludesSystemSchemas(t *testing.T) {
	db, mock := newSQLMock(t)
	factory := &staticFactory{db: db}

	mock.ExpectQuery(`NOT IN \('pg_catalog', 'information_schema'\)`).
		WillReturnRows(catalogRows())
	mock.ExpectClose()

	r := newTestRunner(t, config.DataSource{Host: "h"}, factory)
	if _, err := r.Schema(context.Background()); err != nil {
		t.Fatalf("Schema() error = %v", err)
	}
	assertSQLMock(t, mock)
}

func TestSchemaQueryIncludesBlacklistedSchemas(t *testing.T) {
	db, mock := newSQLMock(t)
	factory := &staticFactory{db: db}

	mock.ExpectQuery(`NOT IN \('pg_catalog', 'information_schema', 'foo', 'bar'\)`).
		WillReturnRows(catalogRows())
	mock.ExpectClose()

	r := newTestRunner(t, config.DataSource{
		Host:                    "h",
		BlacklistedTableSchemas: " foo , bar",
	}, factory)
	if _, err := r.Schema(context.Background()); err != nil {
		t.Fatalf("Schema() error = %v", err)
	}
	assertSQLMock(t, mock)
}

func TestSchemaRunsWithoutPrincipal(t *testing.T) {
	db, mock := newSQLMock(t)
	factory := &staticFactory{db: db}

	mock.ExpectQuery("SELECT table_schema").WillReturnRows(catalogRows())
	mock.ExpectClose()

	r := newTestRunner(t, config.DataSource{Host: "h", UserImpersonation: true}, factory)
	if _, err := r.Schema(context.Background()); err != nil {
		t.Fatalf("Schema() error = %v", err)
	}
	if factory.lastUser != config.DefaultUsername {
		t.Fatalf("catalog query ran as %q, want configured username", factory.lastUser)
	}
}

func TestSchemaDiscoveryErrorOnFailedCatalogQuery(t *testing.T) {
	db, mock := newSQLMock(t)
	factory := &staticFactory{db: db}

	mock.ExpectQuery("SELECT table_schema").WillReturnError(errors.New("catalog offline"))
	mock.ExpectClose()

	r := newTestRunner(t, config.DataSource{Host: "h"}, factory)
	schemas, err := r.Schema(context.Background())
	if schemas != nil {
		t.Fatalf("no partial schema may be returned, got %+v", schemas)
	}
	if qerrors.KindOf(err) != qerrors.KindSchemaDiscovery {
		t.Fatalf("kind = %q, want schema_discovery", qerrors.KindOf(err))
	}
	if err.Error() != "Failed getting schema." {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestExclusionSetDefaults(t *testing.T) {
	r := New(config.DataSource{Host: "h"})
	got := r.exclusionSet()
	if len(got) != 2 || got[0] != "pg_catalog" || got[1] != "information_schema" {
		t.Fatalf("exclusionSet() = %v", got)
	}
}

func TestExclusionSetTrimsBlacklist(t *testing.T) {
	r := New(config.DataSource{Host: "h", BlacklistedTableSchemas: " foo , bar,, "})
	got := strings.Join(r.exclusionSet(), ",")
	if got != "pg_catalog,information_schema,foo,bar" {
		t.Fatalf("exclusionSet() = %q", got)
	}
}
