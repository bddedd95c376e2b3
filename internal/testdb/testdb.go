package testdb

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/careerplus/careerplus-api/internal/platform/postgres"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/stretchr/testify/require"
)

// TestTimeout bounds connection and migration work done by Open.
const TestTimeout = 30 * time.Second

// URL environment variables, in lookup order.
var urlEnvVars = []string{"CAREERPLUS_TEST_DATABASE_URL", "DATABASE_URL"}

var migrateOnce sync.Map // database URL -> *migrateResult

type migrateResult struct {
	once sync.Once
	err  error
}

// DatabaseURL returns the first non-empty test database URL from the
// environment, or "" when none is set.
func DatabaseURL() string {
	for _, name := range urlEnvVars {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// Open connects to the test database and brings its schema up to date. The
// test is skipped when no database URL is configured. The connection is
// closed when the test finishes.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := DatabaseURL()
	if dbURL == "" {
		t.Skip("no test database configured; set CAREERPLUS_TEST_DATABASE_URL")
	}

	db, err := sql.Open("pgx", dbURL)
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	require.NoError(t, db.PingContext(ctx), "failed to reach test database at %s", maskURL(dbURL))

	// Migrations run once per database per test binary.
	v, _ := migrateOnce.LoadOrStore(dbURL, &migrateResult{})
	res := v.(*migrateResult)
	res.once.Do(func() {
		quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
		res.err = postgres.Migrate(ctx, db, "up", quiet)
	})
	require.NoError(t, res.err, "failed to migrate test database")

	return db
}

// WithTx runs fn inside a transaction that is always rolled back.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err, "failed to begin transaction")

	defer func() {
		// sql.ErrTxDone is expected if fn already finished the transaction.
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("warning: failed to roll back test transaction: %v", err)
		}
	}()

	fn(t, tx)
}

// maskURL hides the password in a connection URL for log output.
func maskURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<unparseable url>"
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
