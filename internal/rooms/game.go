package rooms

import (
	"cinequiz/internal/analytics"
	"cinequiz/internal/events"
	"cinequiz/internal/history"
	"cinequiz/internal/questions"
	"cinequiz/internal/quiz"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StartGame starts a quiz in the caller's room. Only the host may start
// one and only while none is running.
func (g *Registry) StartGame(connID string) error {
	name, room := g.currentRoom(connID)
	if name == "" {
		return ErrNotInRoom
	}
	if room == nil {
		return ErrRoomNotFound
	}

	room.mu.Lock()
	defer room.mu.Unlock()
	if room.closed {
		return ErrRoomNotFound
	}
	p, ok := room.players.Get(connID)
	if !ok {
		return ErrUserNotFound
	}
	if !p.Host {
		return ErrNotHost
	}
	if room.game != nil {
		return ErrGameAlreadyRunning
	}

	qs, err := g.buildQuestions()
	if err != nil {
		g.log.Warn("cannot build quiz", zap.String("room", room.name), zap.Error(err))
		return ErrNoQuestionsAvailable
	}

	room.game = quiz.New(qs, room.players.IDs(), g.cfg.TimeLimit, g.now())
	g.observer.GameStarted()
	g.log.Info("game started", zap.String("room", room.name), zap.Int("questions", len(qs)))

	g.emit.SendMany(room.players.IDs(), events.Event{Name: events.GameStarted, Data: events.GameStartedPayload{
		RoomName:       room.name,
		TotalQuestions: room.game.Total(),
	}})
	g.askLocked(room)
	return nil
}

func (g *Registry) buildQuestions() ([]questions.Question, error) {
	n := g.cfg.QuestionCount
	if n <= 0 {
		n = quiz.DefaultQuestionCount
	}
	g.rngMu.Lock()
	defer g.rngMu.Unlock()
	return questions.Build(g.catalog, n, g.rng)
}

// Answer records the caller's answer to the current question. Answers
// without a running quiz in the caller's room are dropped silently.
func (g *Registry) Answer(connID, questionID, answer string) {
	_, room := g.currentRoom(connID)
	if room == nil {
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()
	if room.closed || room.game == nil || room.game.Finished() {
		return
	}
	if _, ok := room.players.Get(connID); !ok {
		return
	}
	if !room.game.Submit(connID, questionID, answer, g.now()) {
		return
	}
	answers := room.game.Answers()
	g.observer.AnswerRecorded(answers[len(answers)-1].Correct)

	g.maybeEndQuestionLocked(room)
}

func (g *Registry) maybeEndQuestionLocked(room *Room) {
	if room.game == nil {
		return
	}
	if _, open := room.game.Current(); !open {
		return
	}
	if room.game.AllAnswered(room.players.IDs()) {
		g.endQuestionLocked(room)
	}
}

func (g *Registry) askLocked(room *Room) {
	game := room.game
	q, ok := game.Ask(g.now())
	if !ok {
		g.finishLocked(room)
		return
	}

	g.emit.SendMany(room.players.IDs(), questionEvent(game, q, game.TimeLimit()))

	gen := game.Generation()
	room.stopDeadlineLocked()
	room.deadline = g.clock.AfterFunc(game.TimeLimit(), func() {
		g.onDeadline(room, game, gen)
	})
}

func questionEvent(game *quiz.Game, q questions.Question, left time.Duration) events.Event {
	return events.Event{Name: events.Question, Data: events.QuestionPayload{
		Question: events.QuestionView{
			Index:   game.Index(),
			Total:   game.Total(),
			ID:      q.ID,
			Text:    q.Text,
			Options: q.Options,
		},
		TimeLimitMs: left.Milliseconds(),
	}}
}

// catchUpLocked brings a player who joined mid-quiz up to date: the game
// announcement and the open question with the time still left on it.
func (g *Registry) catchUpLocked(room *Room, connID string) {
	game := room.game
	if game == nil {
		return
	}
	g.emit.Send(connID, events.Event{Name: events.GameStarted, Data: events.GameStartedPayload{
		RoomName:       room.name,
		TotalQuestions: game.Total(),
	}})
	if q, open := game.Current(); open {
		g.emit.Send(connID, questionEvent(game, q, game.Remaining(g.now())))
	}
}

func (g *Registry) onDeadline(room *Room, game *quiz.Game, gen uint64) {
	room.mu.Lock()
	defer room.mu.Unlock()
	// a stale timer: the room closed, the game was replaced, or the
	// question already ended early
	if room.closed || room.game != game || game.Generation() != gen {
		return
	}
	if _, open := game.Current(); !open {
		return
	}
	room.deadline = nil
	g.endQuestionLocked(room)
}

func (g *Registry) endQuestionLocked(room *Room) {
	room.stopDeadlineLocked()
	game := room.game
	members := room.players.IDs()
	index := game.Index()

	results := game.EndQuestion(members)
	payload := events.QuestionEndedPayload{
		QuestionIndex: index,
		Results:       make([]events.QuestionResult, 0, len(results)),
		Scores:        g.scoresLocked(room),
	}
	for _, r := range results {
		payload.Results = append(payload.Results, events.QuestionResult{
			ID:                 r.PlayerID,
			User:               room.nameOfLocked(r.PlayerID),
			Correct:            r.Correct,
			Bonus:              r.Bonus,
			Points:             r.Points,
			TotalAfterQuestion: r.Total,
		})
	}
	g.emit.SendMany(members, events.Event{Name: events.QuestionEnded, Data: payload})

	g.askLocked(room)
}

func (g *Registry) scoresLocked(room *Room) []events.ScoreEntry {
	standings := room.game.Standings(room.players.IDs())
	scores := make([]events.ScoreEntry, 0, len(standings))
	for _, s := range standings {
		scores = append(scores, events.ScoreEntry{ID: s.PlayerID, User: room.nameOfLocked(s.PlayerID), Score: s.Score})
	}
	return scores
}

func (g *Registry) finishLocked(room *Room) {
	room.stopDeadlineLocked()
	game := room.game
	members := room.players.IDs()

	rec := history.GameRecord{
		ID:        uuid.NewString(),
		RoomName:  room.name,
		Questions: game.Total(),
		StartedAt: game.StartedAt(),
		EndedAt:   g.now(),
	}
	payload := events.GameEndedPayload{RoomName: room.name, Scores: g.scoresLocked(room)}

	for i, t := range game.Tallies(members) {
		name := room.nameOfLocked(t.PlayerID)
		badges := analytics.BadgeIDs(analytics.EvaluateGameBadges(analytics.PlayerGameStats{
			Name:         name,
			Score:        t.Score,
			Rank:         i + 1,
			Players:      len(members),
			Questions:    game.Total(),
			Correct:      t.Correct,
			Fastest:      t.Fastest,
			BestAnswerMs: t.BestAnswerMs,
		}))
		if len(badges) > 0 {
			payload.Badges = append(payload.Badges, events.PlayerBadges{ID: t.PlayerID, User: name, Badges: badges})
		}
		rec.Players = append(rec.Players, history.PlayerResult{
			ConnID:       t.PlayerID,
			Name:         name,
			Score:        t.Score,
			Rank:         i + 1,
			Answered:     t.Answered,
			Correct:      t.Correct,
			Fastest:      t.Fastest,
			BestAnswerMs: t.BestAnswerMs,
			Badges:       badges,
		})
	}

	room.game = nil
	g.emit.SendMany(members, events.Event{Name: events.GameEnded, Data: payload})
	g.observer.GameFinished()
	g.recorder.RecordGame(rec)
	g.log.Info("game ended", zap.String("room", room.name), zap.String("game", rec.ID))
}
