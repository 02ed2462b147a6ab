package quiz

import (
	"cinequiz/internal/questions"
	"testing"
	"time"
)

var t0 = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func testQuestions(n int) []questions.Question {
	films := []string{"A", "B", "C", "D", "E", "F"}
	qs := make([]questions.Question, n)
	for i := range qs {
		qs[i] = questions.Question{
			ID:      films[i%len(films)] + "-id",
			Text:    "quote " + films[i%len(films)],
			Answer:  films[i%len(films)],
			Options: []string{"A", "B", "C", films[i%len(films)]},
		}
	}
	return qs
}

func TestGame_Lifecycle(t *testing.T) {
	g := New(testQuestions(2), []string{"a", "b"}, 0, t0)

	if g.TimeLimit() != DefaultTimeLimit {
		t.Errorf("TimeLimit() = %v, want %v", g.TimeLimit(), DefaultTimeLimit)
	}
	if _, ok := g.Current(); ok {
		t.Error("no question should be open before Ask")
	}

	q, ok := g.Ask(t0)
	if !ok || q.ID != "A-id" {
		t.Fatalf("Ask() = %v, %v", q.ID, ok)
	}

	g.Submit("a", q.ID, "a", t0.Add(time.Second))
	g.Submit("b", q.ID, "A", t0.Add(3*time.Second))
	if !g.AllAnswered([]string{"a", "b"}) {
		t.Fatal("both players answered")
	}

	results := g.EndQuestion([]string{"a", "b"})
	if results[0].Total != 20 || results[1].Total != 17 {
		t.Errorf("totals = %d, %d; want 20, 17", results[0].Total, results[1].Total)
	}
	if results[0].Bonus != 10 || results[1].Bonus != 7 {
		t.Errorf("bonuses = %d, %d; want 10, 7", results[0].Bonus, results[1].Bonus)
	}

	if _, ok := g.Ask(t0); !ok {
		t.Fatal("second question should open")
	}
	g.EndQuestion([]string{"a", "b"})

	if _, ok := g.Ask(t0); ok {
		t.Fatal("no third question")
	}
	if !g.Finished() {
		t.Error("game should be finished")
	}
}

func TestGame_SubmitIgnored(t *testing.T) {
	g := New(testQuestions(1), []string{"a"}, time.Second, t0)

	if g.Submit("a", "", "A", t0) {
		t.Error("answer before any question should be ignored")
	}

	q, _ := g.Ask(t0)
	if g.Submit("a", "other-id", q.Answer, t0) {
		t.Error("answer for another question should be ignored")
	}
	if !g.Submit("a", q.ID, "wrong", t0) {
		t.Fatal("first answer should be accepted")
	}
	if g.Submit("a", q.ID, q.Answer, t0) {
		t.Error("second answer from same player should be ignored")
	}

	results := g.EndQuestion([]string{"a"})
	if results[0].Correct || results[0].Total != 0 {
		t.Errorf("only first (wrong) answer should count, got %+v", results[0])
	}
}

func TestGame_EmptyQuestionIDIsEvaluated(t *testing.T) {
	g := New(testQuestions(1), []string{"a"}, time.Second, t0)
	q, _ := g.Ask(t0)
	g.Submit("a", "", "  "+q.Answer+" ", t0)

	results := g.EndQuestion([]string{"a"})
	if !results[0].Correct {
		t.Error("answer without question id should be checked against current question")
	}
}

func TestGame_ElapsedMs(t *testing.T) {
	g := New(testQuestions(1), []string{"a"}, time.Second, t0)
	g.Ask(t0)
	g.Submit("a", "", "x", t0.Add(1500*time.Millisecond))

	if got := g.Answers()[0].ElapsedMs; got != 1500 {
		t.Errorf("ElapsedMs = %d, want 1500", got)
	}
}

func TestGame_DepartedPlayerExcluded(t *testing.T) {
	g := New(testQuestions(1), []string{"a", "b"}, time.Second, t0)
	g.Ask(t0)
	g.Submit("a", "", "A", t0)

	if g.AllAnswered([]string{"a", "b"}) {
		t.Fatal("b has not answered")
	}
	// b leaves
	if !g.AllAnswered([]string{"a"}) {
		t.Fatal("remaining members all answered")
	}
	results := g.EndQuestion([]string{"a"})
	if len(results) != 1 {
		t.Errorf("results = %d, want 1", len(results))
	}
}

func TestGame_LateJoinerStartsAtZero(t *testing.T) {
	g := New(testQuestions(2), []string{"a"}, time.Second, t0)
	g.Ask(t0)
	g.Submit("a", "", "A", t0)
	g.EndQuestion([]string{"a"})

	g.AddPlayer("late")
	if g.Score("late") != 0 {
		t.Errorf("late joiner score = %d, want 0", g.Score("late"))
	}
	g.AddPlayer("a")
	if g.Score("a") != 20 {
		t.Errorf("AddPlayer must keep existing score, got %d", g.Score("a"))
	}
}

func TestGame_StandingsStableDesc(t *testing.T) {
	g := New(testQuestions(1), []string{"a", "b", "c"}, time.Second, t0)
	g.Ask(t0)
	g.Submit("c", "", "A", t0)
	g.EndQuestion([]string{"a", "b", "c"})

	st := g.Standings([]string{"a", "b", "c"})
	if st[0].PlayerID != "c" || st[1].PlayerID != "a" || st[2].PlayerID != "b" {
		t.Errorf("standings = %+v, want c, a, b", st)
	}
}

func TestGame_Tallies(t *testing.T) {
	g := New(testQuestions(2), []string{"a", "b"}, time.Second, t0)
	for range 2 {
		q, _ := g.Ask(t0)
		g.Submit("a", "", q.Answer, t0.Add(200*time.Millisecond))
		g.Submit("b", "", "nope", t0.Add(100*time.Millisecond))
		g.EndQuestion([]string{"a", "b"})
	}

	tallies := g.Tallies([]string{"a", "b"})
	a := tallies[0]
	if a.PlayerID != "a" || a.Correct != 2 || a.Fastest != 2 || a.Score != 40 || a.BestAnswerMs != 200 {
		t.Errorf("tally a = %+v", a)
	}
	b := tallies[1]
	if b.Answered != 2 || b.Correct != 0 || b.Score != 0 {
		t.Errorf("tally b = %+v", b)
	}
}

func TestGame_GenerationAdvances(t *testing.T) {
	g := New(testQuestions(2), []string{"a"}, time.Second, t0)
	g.Ask(t0)
	first := g.Generation()
	g.EndQuestion([]string{"a"})
	g.Ask(t0)
	if g.Generation() == first {
		t.Error("generation should change for each question")
	}
}

func TestGame_InstantAnswerIsBest(t *testing.T) {
	g := New(testQuestions(2), []string{"a"}, time.Second, t0)

	q, _ := g.Ask(t0)
	g.Submit("a", q.ID, q.Answer, t0)
	g.EndQuestion([]string{"a"})

	q, _ = g.Ask(t0)
	g.Submit("a", q.ID, q.Answer, t0.Add(500*time.Millisecond))
	g.EndQuestion([]string{"a"})

	if got := g.Tallies([]string{"a"})[0].BestAnswerMs; got != 0 {
		t.Errorf("BestAnswerMs = %d, want 0", got)
	}
}

func TestGame_Remaining(t *testing.T) {
	g := New(testQuestions(1), []string{"a"}, 10*time.Second, t0)
	if got := g.Remaining(t0); got != 0 {
		t.Errorf("Remaining() before Ask = %v, want 0", got)
	}

	g.Ask(t0)
	if got := g.Remaining(t0.Add(4 * time.Second)); got != 6*time.Second {
		t.Errorf("Remaining() = %v, want 6s", got)
	}
	if got := g.Remaining(t0.Add(11 * time.Second)); got != 0 {
		t.Errorf("Remaining() past the limit = %v, want 0", got)
	}
}
