// Package history carries finished game records from rooms to the
// configured sinks without blocking the room that produced them.
package history

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type PlayerResult struct {
	ConnID       string
	Name         string
	Score        int
	Rank         int
	Answered     int
	Correct      int
	Fastest      int
	BestAnswerMs int64
	Badges       []string
}

type GameRecord struct {
	ID        string
	RoomName  string
	Questions int
	StartedAt time.Time
	EndedAt   time.Time
	Players   []PlayerResult
}

// Recorder accepts finished games. Implementations must not block.
type Recorder interface {
	RecordGame(GameRecord)
}

// Sink persists a record somewhere.
type Sink interface {
	SaveGame(ctx context.Context, rec GameRecord) error
}

// Writer buffers records and hands them to every sink from its own
// goroutine.
type Writer struct {
	buffer chan GameRecord
	sinks  []Sink
	log    *zap.Logger

	// OnDrop, when set, is called for records discarded on a full buffer.
	OnDrop func(GameRecord)
}

func NewWriter(size int, log *zap.Logger, sinks ...Sink) *Writer {
	if size <= 0 {
		size = 64
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Writer{
		buffer: make(chan GameRecord, size),
		sinks:  sinks,
		log:    log,
	}
}

func (w *Writer) RecordGame(rec GameRecord) {
	select {
	case w.buffer <- rec:
	default:
		w.log.Warn("history buffer full, dropping game", zap.String("game", rec.ID), zap.String("room", rec.RoomName))
		if w.OnDrop != nil {
			w.OnDrop(rec)
		}
	}
}

// Run drains the buffer until ctx is done, then flushes what is left.
func (w *Writer) Run(ctx context.Context) {
	for {
		select {
		case rec := <-w.buffer:
			w.save(ctx, rec)
		case <-ctx.Done():
			for {
				select {
				case rec := <-w.buffer:
					w.save(context.Background(), rec)
				default:
					return
				}
			}
		}
	}
}

func (w *Writer) save(ctx context.Context, rec GameRecord) {
	for _, s := range w.sinks {
		if err := s.SaveGame(ctx, rec); err != nil {
			w.log.Error("saving game", zap.String("game", rec.ID), zap.Error(err))
		}
	}
}

// Discard is a Recorder that drops every record.
type Discard struct{}

func (Discard) RecordGame(GameRecord) {}
