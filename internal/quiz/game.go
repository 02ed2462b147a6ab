// Package quiz implements the per-room trivia state machine. A Game is not
// safe for concurrent use; the owning room serializes access to it.
package quiz

import (
	"cinequiz/internal/questions"
	"sort"
	"time"
)

const (
	DefaultQuestionCount = 10
	DefaultTimeLimit     = 10 * time.Second
)

// Result is one player's outcome for a finished question.
type Result struct {
	PlayerID string
	Correct  bool
	Bonus    int
	Points   int
	Total    int
}

type Standing struct {
	PlayerID string
	Score    int
}

// Tally summarises a player's game for badges and history.
type Tally struct {
	PlayerID     string
	Score        int
	Correct      int
	Fastest      int
	Answered     int
	BestAnswerMs int64

	hasBest bool
}

type Game struct {
	questions []questions.Question
	index     int
	timeLimit time.Duration

	scores  map[string]int
	tallies map[string]*Tally

	answers    []Answer
	answered   map[string]bool
	askedAt    time.Time
	asking     bool
	generation uint64

	startedAt time.Time
	finished  bool
}

// New creates a game for the given players, all starting at zero.
func New(qs []questions.Question, playerIDs []string, timeLimit time.Duration, now time.Time) *Game {
	if timeLimit <= 0 {
		timeLimit = DefaultTimeLimit
	}
	g := &Game{
		questions: qs,
		timeLimit: timeLimit,
		scores:    make(map[string]int, len(playerIDs)),
		tallies:   make(map[string]*Tally, len(playerIDs)),
		answered:  make(map[string]bool),
		startedAt: now,
	}
	for _, id := range playerIDs {
		g.AddPlayer(id)
	}
	return g
}

// AddPlayer gives a late joiner a zero score. Existing scores are kept.
func (g *Game) AddPlayer(id string) {
	if _, ok := g.scores[id]; ok {
		return
	}
	g.scores[id] = 0
	g.tallies[id] = &Tally{PlayerID: id}
}

func (g *Game) Total() int {
	return len(g.questions)
}

func (g *Game) Index() int {
	return g.index
}

func (g *Game) TimeLimit() time.Duration {
	return g.timeLimit
}

func (g *Game) StartedAt() time.Time {
	return g.startedAt
}

func (g *Game) Finished() bool {
	return g.finished
}

func (g *Game) Score(playerID string) int {
	return g.scores[playerID]
}

func (g *Game) Generation() uint64 {
	return g.generation
}

// Remaining is the time left to answer the open question, never negative.
func (g *Game) Remaining(now time.Time) time.Duration {
	if _, open := g.Current(); !open {
		return 0
	}
	return max(g.timeLimit-now.Sub(g.askedAt), 0)
}

// Current returns the question being asked, if any.
func (g *Game) Current() (questions.Question, bool) {
	if g.finished || !g.asking || g.index >= len(g.questions) {
		return questions.Question{}, false
	}
	return g.questions[g.index], true
}

// Ask opens the question at the current index. It returns false and marks
// the game finished once every question has been asked.
func (g *Game) Ask(now time.Time) (questions.Question, bool) {
	if g.index >= len(g.questions) {
		g.finished = true
		g.asking = false
		return questions.Question{}, false
	}
	g.answers = g.answers[:0]
	clear(g.answered)
	g.askedAt = now
	g.asking = true
	g.generation++
	return g.questions[g.index], true
}

// Submit records an answer to the current question. It returns false when
// the answer is ignored: no open question, already answered, or a non-empty
// questionID that refers to another question.
func (g *Game) Submit(playerID, questionID, answer string, now time.Time) bool {
	q, ok := g.Current()
	if !ok || g.answered[playerID] {
		return false
	}
	if questionID != "" && questionID != q.ID {
		return false
	}
	g.answered[playerID] = true
	g.answers = append(g.answers, Answer{
		PlayerID:  playerID,
		Correct:   q.Matches(answer),
		ElapsedMs: now.Sub(g.askedAt).Milliseconds(),
	})
	return true
}

// Answers returns the answers recorded for the current question.
func (g *Game) Answers() []Answer {
	out := make([]Answer, len(g.answers))
	copy(out, g.answers)
	return out
}

// AllAnswered reports whether every listed member answered the current
// question. An empty member list never counts as all answered.
func (g *Game) AllAnswered(members []string) bool {
	if len(members) == 0 {
		return false
	}
	for _, id := range members {
		if !g.answered[id] {
			return false
		}
	}
	return true
}

// EndQuestion scores the current question for the listed members, adds the
// points to their totals and moves to the next index.
func (g *Game) EndQuestion(members []string) []Result {
	awards := Score(g.answers)
	correct := make(map[string]bool, len(g.answers))
	elapsed := make(map[string]int64, len(g.answers))
	for _, a := range g.answers {
		correct[a.PlayerID] = a.Correct
		elapsed[a.PlayerID] = a.ElapsedMs
	}

	results := make([]Result, 0, len(members))
	for _, id := range members {
		g.AddPlayer(id)
		award, won := awards[id]
		g.scores[id] += award.Total

		t := g.tallies[id]
		if g.answered[id] {
			t.Answered++
		}
		if won {
			t.Correct++
			if award.Rank == 1 {
				t.Fastest++
			}
			if !t.hasBest || elapsed[id] < t.BestAnswerMs {
				t.BestAnswerMs = elapsed[id]
				t.hasBest = true
			}
		}
		t.Score = g.scores[id]

		results = append(results, Result{
			PlayerID: id,
			Correct:  correct[id],
			Bonus:    award.Bonus,
			Points:   award.Total,
			Total:    g.scores[id],
		})
	}

	g.asking = false
	g.index++
	return results
}

// Standings lists the members' scores, highest first. Ties keep the order
// of members.
func (g *Game) Standings(members []string) []Standing {
	out := make([]Standing, 0, len(members))
	for _, id := range members {
		out = append(out, Standing{PlayerID: id, Score: g.scores[id]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// Tallies returns per-member summaries in standings order.
func (g *Game) Tallies(members []string) []Tally {
	out := make([]Tally, 0, len(members))
	for _, s := range g.Standings(members) {
		t := Tally{PlayerID: s.PlayerID, Score: s.Score}
		if tt, ok := g.tallies[s.PlayerID]; ok {
			t = *tt
			t.Score = s.Score
		}
		out = append(out, t)
	}
	return out
}
