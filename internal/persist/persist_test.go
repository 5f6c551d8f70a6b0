package persist_test

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/l1jgo/arcade-server/internal/config"
	"github.com/l1jgo/arcade-server/internal/persist"
)

// These exercise the real Postgres-backed migration/repo path and only
// run when ARCADE_TEST_DATABASE_URL names a database: nothing in this
// repo should require a live dependency just to run `go test ./...`.
func dsn(t *testing.T) string {
	t.Helper()
	d := strings.TrimSpace(os.Getenv("ARCADE_TEST_DATABASE_URL"))
	if d == "" {
		t.Skip("ARCADE_TEST_DATABASE_URL not set")
	}
	return d
}

func TestRunMigrationsAndRecordLeaderboardEntry(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	d := dsn(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg := config.PersistConfig{Enabled: true, DSN: d, MaxOpenConns: 4, MaxIdleConns: 1}
	db, err := persist.NewDB(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, persist.RunMigrations(ctx, db.Pool))

	repo := persist.NewLeaderboardRepo(db)
	entry := persist.LeaderboardEntry{
		MatchID:    uuid.NewString(),
		PlayerName: "integration-test-player",
		GameMode:   "bagario",
		Value:      1234.5,
	}
	require.NoError(t, repo.Record(ctx, entry))

	top, err := repo.Top(ctx, "bagario", 10)
	require.NoError(t, err)

	var found bool
	for _, e := range top {
		if e.MatchID == entry.MatchID {
			found = true
			require.Equal(t, entry.PlayerName, e.PlayerName)
			require.InDelta(t, entry.Value, e.Value, 0.001)
		}
	}
	require.True(t, found, "recorded entry must appear in Top results for its game mode")
}

func TestNewDBReturnsErrorForUnparsableDSN(t *testing.T) {
	_, err := persist.NewDB(context.Background(), config.PersistConfig{DSN: "://not-a-dsn"}, zap.NewNop())
	require.Error(t, err)
}
