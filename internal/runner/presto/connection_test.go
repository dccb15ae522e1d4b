package presto

import (
	"net/url"
	"testing"

	"github.com/querybridge/querybridge/internal/config"
)

func TestDSNCarriesSessionParameters(t *testing.T) {
	ds := config.DataSource{
		Host:     "presto.internal",
		Protocol: "http",
		Port:     8080,
		Catalog:  "hive",
		Schema:   "default",
		Source:   "pyhive",
	}

	dsn, err := dsnFor(ds, "redash")
	if err != nil {
		t.Fatalf("dsnFor() error = %v", err)
	}

	u, err := url.Parse(dsn)
	if err != nil {
		t.Fatalf("DSN does not parse: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q", u.Scheme)
	}
	if u.Host != "presto.internal:8080" {
		t.Fatalf("host = %q", u.Host)
	}
	if u.User.Username() != "redash" {
		t.Fatalf("user = %q", u.User.Username())
	}
	if _, hasPassword := u.User.Password(); hasPassword {
		t.Fatal("DSN must not carry a password when none is configured")
	}

	q := u.Query()
	if q.Get("catalog") != "hive" || q.Get("schema") != "default" || q.Get("source") != "pyhive" {
		t.Fatalf("query = %v", q)
	}
}

func TestDSNPassesPasswordThrough(t *testing.T) {
	ds := config.DataSource{
		Host:     "presto.internal",
		Protocol: "https",
		Port:     443,
		Catalog:  "hive",
		Schema:   "default",
		Source:   "pyhive",
		Password: "s3cret",
	}

	dsn, err := dsnFor(ds, "a@b.com")
	if err != nil {
		t.Fatalf("dsnFor() error = %v", err)
	}

	u, err := url.Parse(dsn)
	if err != nil {
		t.Fatalf("DSN does not parse: %v", err)
	}
	if u.User.Username() != "a@b.com" {
		t.Fatalf("user = %q", u.User.Username())
	}
	password, hasPassword := u.User.Password()
	if !hasPassword || password != "s3cret" {
		t.Fatalf("password = %q, %v", password, hasPassword)
	}
}
