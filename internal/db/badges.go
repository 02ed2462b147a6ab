package db

import (
	"context"
	"fmt"
)

// AwardBadge records a badge once per player. gameID may be nil for badges
// earned across games.
func (d *DB) AwardBadge(ctx context.Context, playerName, badgeID string, gameID *string) error {
	_, err := d.conn.ExecContext(ctx, `
		INSERT INTO player_badges (player_name, badge_id, game_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (player_name, badge_id) DO NOTHING
	`, playerName, badgeID, gameID)
	if err != nil {
		return fmt.Errorf("awarding badge: %w", err)
	}
	return nil
}

func (d *DB) GetPlayerBadges(ctx context.Context, playerName string) ([]string, error) {
	rows, err := d.conn.QueryContext(ctx, `
		SELECT badge_id FROM player_badges WHERE player_name = $1 ORDER BY awarded_at, badge_id
	`, playerName)
	if err != nil {
		return nil, fmt.Errorf("getting badges: %w", err)
	}
	defer rows.Close()

	var badges []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		badges = append(badges, id)
	}
	return badges, rows.Err()
}
