package testing

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/yash81300/arogyamitra/internal/db"
)

// GetDBPoolAndCtx connects to the postgres used by integration tests
// (POSTGRES_HOST, POSTGRES_PORT, POSTGRES_PASSWORD), applies the embedded
// migrations and returns a pool closed at the end of the test.
func GetDBPoolAndCtx(t *testing.T) (context.Context, *pgxpool.Pool) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	params := db.NewDBPoolParams{
		DBHost:     envOr("POSTGRES_HOST", "localhost"),
		DBPort:     envOr("POSTGRES_PORT", "5432"),
		DBName:     envOr("POSTGRES_DB", "arogyamitra_test"),
		DBUser:     envOr("POSTGRES_USER", "postgres"),
		DBPassword: os.Getenv("POSTGRES_PASSWORD"),
	}
	t.Logf("using postgres: [%s:%s/%s]", params.DBHost, params.DBPort, params.DBName)

	require.NoError(t, db.Migrate(params))

	pool, err := db.NewDBPool(ctx, params)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, pool.Ping(ctx))

	return ctx, pool
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
