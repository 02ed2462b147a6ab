package analytics

import (
	"cinequiz/internal/db"
	"cinequiz/internal/history"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
)

var (
	ErrPlayerNotFound  = errors.New("player has no recorded games")
	ErrUnknownCategory = errors.New("unknown leaderboard category")
)

type Queries struct {
	DB *db.DB
}

func NewQueries(database *db.DB) *Queries {
	return &Queries{DB: database}
}

// Categories lists the accepted leaderboard categories.
var Categories = []string{"score", "wins", "games", "correct"}

func ValidCategory(category string) bool {
	return slices.Contains(Categories, category)
}

func (q *Queries) GetPlayerLifetimeStats(ctx context.Context, name string) (*PlayerLifetimeStats, error) {
	stats := &PlayerLifetimeStats{Name: name}

	err := q.DB.QueryRow(ctx, `
		SELECT
			COUNT(*) as games_played,
			COALESCE(SUM(final_score), 0) as total_score,
			COALESCE(MAX(final_score), 0) as best_game,
			COUNT(*) FILTER (WHERE rank = 1 AND final_score > 0) as win_count
		FROM game_players
		WHERE player_name = $1
	`, name).Scan(&stats.GamesPlayed, &stats.TotalScore, &stats.BestGame, &stats.WinCount)
	if err != nil {
		return nil, fmt.Errorf("getting lifetime stats: %w", err)
	}
	if stats.GamesPlayed == 0 {
		return nil, ErrPlayerNotFound
	}

	// most recent consecutive wins
	rows, err := q.DB.Query(ctx, `
		SELECT gp.rank, gp.final_score
		FROM game_players gp
		JOIN games g ON g.id = gp.game_id
		WHERE gp.player_name = $1
		ORDER BY g.ended_at DESC
	`, name)
	if err != nil {
		return nil, fmt.Errorf("getting win streak: %w", err)
	}
	defer rows.Close()

	streak := 0
	for rows.Next() {
		var rank, score int
		if err := rows.Scan(&rank, &score); err != nil {
			return nil, err
		}
		if rank != 1 || score == 0 {
			break
		}
		streak++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("getting win streak: %w", err)
	}
	stats.WinStreak = streak

	stats.Badges = EvaluateLifetimeBadges(*stats)

	return stats, nil
}

func (q *Queries) GetLeaderboard(ctx context.Context, category string, limit int) ([]LeaderboardEntry, error) {
	var query string
	switch category {
	case "score":
		query = `
			SELECT player_name, COALESCE(SUM(final_score), 0) as value
			FROM game_players
			GROUP BY player_name
			ORDER BY value DESC, player_name
			LIMIT $1`
	case "wins":
		query = `
			SELECT player_name, COUNT(*) FILTER (WHERE rank = 1 AND final_score > 0) as value
			FROM game_players
			GROUP BY player_name
			ORDER BY value DESC, player_name
			LIMIT $1`
	case "games":
		query = `
			SELECT player_name, COUNT(*) as value
			FROM game_players
			GROUP BY player_name
			ORDER BY value DESC, player_name
			LIMIT $1`
	case "correct":
		query = `
			SELECT player_name, COALESCE(SUM(correct), 0) as value
			FROM game_players
			GROUP BY player_name
			ORDER BY value DESC, player_name
			LIMIT $1`
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}

	rows, err := q.DB.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("getting leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []LeaderboardEntry{}
	rank := 1
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.Name, &e.Value); err != nil {
			return nil, err
		}
		e.Rank = rank
		rank++
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// LifetimeAwarder is a history sink that grants cross-game badges once a
// game has been stored. It must run after the database sink.
type LifetimeAwarder struct {
	Queries *Queries
}

func (a LifetimeAwarder) SaveGame(ctx context.Context, rec history.GameRecord) error {
	for _, p := range rec.Players {
		stats, err := a.Queries.GetPlayerLifetimeStats(ctx, p.Name)
		if errors.Is(err, ErrPlayerNotFound) || errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return err
		}
		for _, b := range stats.Badges {
			gameID := rec.ID
			if err := a.Queries.DB.AwardBadge(ctx, p.Name, string(b.ID), &gameID); err != nil {
				return err
			}
		}
	}
	return nil
}
