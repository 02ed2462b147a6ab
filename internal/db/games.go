package db

import (
	"cinequiz/internal/history"
	"context"
	"fmt"
)

// SaveGame stores a finished game with its standings and badges in one
// transaction. Saving the same game twice updates the stored rows.
func (d *DB) SaveGame(ctx context.Context, rec history.GameRecord) error {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO games (id, room_name, questions, started_at, ended_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET ended_at = $5
	`, rec.ID, rec.RoomName, rec.Questions, rec.StartedAt, rec.EndedAt)
	if err != nil {
		return fmt.Errorf("inserting game: %w", err)
	}

	for _, p := range rec.Players {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO game_players (game_id, player_name, final_score, rank, answered, correct, fastest, best_answer_ms)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (game_id, player_name) DO UPDATE
			SET final_score = $3, rank = $4, answered = $5, correct = $6, fastest = $7, best_answer_ms = $8
		`, rec.ID, p.Name, p.Score, p.Rank, p.Answered, p.Correct, p.Fastest, p.BestAnswerMs)
		if err != nil {
			return fmt.Errorf("adding game player %s: %w", p.Name, err)
		}

		for _, badge := range p.Badges {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO player_badges (player_name, badge_id, game_id)
				VALUES ($1, $2, $3)
				ON CONFLICT (player_name, badge_id) DO NOTHING
			`, p.Name, badge, rec.ID)
			if err != nil {
				return fmt.Errorf("awarding badge %s: %w", badge, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing game: %w", err)
	}
	return nil
}

// GameCount returns how many games have been stored.
func (d *DB) GameCount(ctx context.Context) (int, error) {
	var n int
	if err := d.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting games: %w", err)
	}
	return n, nil
}
