// Package cache mirrors finished games into Redis: each game is published
// on a channel for other services and folded into a score leaderboard.
package cache

import (
	"cinequiz/internal/analytics"
	"cinequiz/internal/history"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	GamesChannel   = "quiz:games"
	LeaderboardKey = "quiz:leaderboard"
)

type Cache struct {
	client *redis.Client
	log    *zap.Logger
}

// GameMessage is published on GamesChannel for every finished game.
type GameMessage struct {
	Type      string        `json:"type"`
	GameID    string        `json:"gameId"`
	RoomName  string        `json:"roomName"`
	Questions int           `json:"questions"`
	Players   []PlayerScore `json:"players"`
	Timestamp time.Time     `json:"timestamp"`
}

type PlayerScore struct {
	Name   string   `json:"name"`
	Score  int      `json:"score"`
	Rank   int      `json:"rank"`
	Badges []string `json:"badges,omitempty"`
}

// Connect parses a redis:// URL and checks the server is reachable.
func Connect(ctx context.Context, url string, log *zap.Logger) (*Cache, error) {
	if log == nil {
		log = zap.NewNop()
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	log.Info("connected to Redis", zap.String("addr", opts.Addr))
	return &Cache{client: client, log: log}, nil
}

func (c *Cache) Close() error {
	return c.client.Close()
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func NewGameMessage(rec history.GameRecord) GameMessage {
	msg := GameMessage{
		Type:      "game_ended",
		GameID:    rec.ID,
		RoomName:  rec.RoomName,
		Questions: rec.Questions,
		Players:   make([]PlayerScore, 0, len(rec.Players)),
		Timestamp: rec.EndedAt,
	}
	for _, p := range rec.Players {
		msg.Players = append(msg.Players, PlayerScore{Name: p.Name, Score: p.Score, Rank: p.Rank, Badges: p.Badges})
	}
	return msg
}

// SaveGame publishes the game and adds every score to the leaderboard in
// one pipeline.
func (c *Cache) SaveGame(ctx context.Context, rec history.GameRecord) error {
	payload, err := json.Marshal(NewGameMessage(rec))
	if err != nil {
		return fmt.Errorf("encoding game message: %w", err)
	}

	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, p := range rec.Players {
			if p.Score > 0 {
				pipe.ZIncrBy(ctx, LeaderboardKey, float64(p.Score), p.Name)
			}
		}
		pipe.Publish(ctx, GamesChannel, payload)
		return nil
	})
	if err != nil {
		return fmt.Errorf("caching game %s: %w", rec.ID, err)
	}
	c.log.Debug("game published", zap.String("game", rec.ID), zap.String("channel", GamesChannel))
	return nil
}

// Top returns the n best total scores.
func (c *Cache) Top(ctx context.Context, n int) ([]analytics.LeaderboardEntry, error) {
	if n <= 0 {
		return []analytics.LeaderboardEntry{}, nil
	}
	zs, err := c.client.ZRevRangeWithScores(ctx, LeaderboardKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading leaderboard: %w", err)
	}
	entries := make([]analytics.LeaderboardEntry, 0, len(zs))
	for i, z := range zs {
		name, _ := z.Member.(string)
		entries = append(entries, analytics.LeaderboardEntry{Name: name, Value: int(z.Score), Rank: i + 1})
	}
	return entries, nil
}
