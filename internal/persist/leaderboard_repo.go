package persist

import (
	"context"
	"fmt"
)

// LeaderboardEntry is one row of recorded player performance, written at
// the end of a match and read back for cross-session rankings.
type LeaderboardEntry struct {
	MatchID    string
	PlayerName string
	GameMode   string
	Value      float32
}

// LeaderboardRepo persists end-of-match results. It is entirely
// additive: nothing in the live session/world path depends on it, so a
// failed or disabled DB never affects gameplay (spec's persistence
// Non-goal covers session/world state, not historical stats).
type LeaderboardRepo struct {
	db *DB
}

func NewLeaderboardRepo(db *DB) *LeaderboardRepo {
	return &LeaderboardRepo{db: db}
}

// Record inserts one result row.
func (r *LeaderboardRepo) Record(ctx context.Context, e LeaderboardEntry) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO leaderboard_entries (match_id, player_name, game_mode, value) VALUES ($1, $2, $3, $4)`,
		e.MatchID, e.PlayerName, e.GameMode, e.Value,
	)
	if err != nil {
		return fmt.Errorf("persist: record leaderboard entry: %w", err)
	}
	return nil
}

// Top returns the highest-value entries for a game mode, most recent
// first among ties.
func (r *LeaderboardRepo) Top(ctx context.Context, gameMode string, limit int) ([]LeaderboardEntry, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT match_id, player_name, game_mode, value FROM leaderboard_entries
		 WHERE game_mode = $1 ORDER BY value DESC, recorded_at DESC LIMIT $2`,
		gameMode, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("persist: query leaderboard: %w", err)
	}
	defer rows.Close()

	var out []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.MatchID, &e.PlayerName, &e.GameMode, &e.Value); err != nil {
			return nil, fmt.Errorf("persist: scan leaderboard row: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
