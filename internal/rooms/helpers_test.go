package rooms

import (
	"cinequiz/internal/clock"
	"cinequiz/internal/events"
	"cinequiz/internal/history"
	"cinequiz/internal/questions"
	"math/rand/v2"
	"sync"
	"testing"
	"time"
)

const everyone = "*"

type sent struct {
	to string
	ev events.Event
}

type fakeEmitter struct {
	mu   sync.Mutex
	sent []sent
}

func (f *fakeEmitter) Send(connID string, ev events.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sent{to: connID, ev: ev})
}

func (f *fakeEmitter) SendMany(connIDs []string, ev events.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range connIDs {
		f.sent = append(f.sent, sent{to: id, ev: ev})
	}
}

func (f *fakeEmitter) SendAll(ev events.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sent{to: everyone, ev: ev})
}

// received returns the events named name delivered to connID, including
// broadcasts to everyone.
func (f *fakeEmitter) received(connID, name string) []events.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []events.Event
	for _, s := range f.sent {
		if s.ev.Name == name && (s.to == connID || s.to == everyone) {
			out = append(out, s.ev)
		}
	}
	return out
}

func (f *fakeEmitter) last(t *testing.T, connID, name string) events.Event {
	t.Helper()
	evs := f.received(connID, name)
	if len(evs) == 0 {
		t.Fatalf("%s received no %q event", connID, name)
	}
	return evs[len(evs)-1]
}

func (f *fakeEmitter) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = nil
}

type fakeRecorder struct {
	mu   sync.Mutex
	recs []history.GameRecord
}

func (f *fakeRecorder) RecordGame(rec history.GameRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recs = append(f.recs, rec)
}

type fixture struct {
	reg   *Registry
	emit  *fakeEmitter
	clock *clock.Fake
	rec   *fakeRecorder
}

func newFixture(t *testing.T, mutate ...func(*Config)) *fixture {
	t.Helper()
	cfg := DefaultConfig()
	for _, m := range mutate {
		m(&cfg)
	}
	f := &fixture{
		emit:  &fakeEmitter{},
		clock: clock.NewFake(time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)),
		rec:   &fakeRecorder{},
	}
	f.reg = New(cfg, f.emit,
		WithClock(f.clock),
		WithRand(rand.New(rand.NewPCG(7, 11))),
		WithRecorder(f.rec),
	)
	t.Cleanup(f.reg.Close)
	return f
}

func (f *fixture) join(t *testing.T, connID, room string) events.RoomJoinedPayload {
	t.Helper()
	f.reg.Connect(connID, "")
	joined, err := f.reg.Join(connID, room)
	if err != nil {
		t.Fatalf("Join(%s, %s): %v", connID, room, err)
	}
	return joined
}

func (f *fixture) currentQuestion(t *testing.T, connID string) events.QuestionPayload {
	t.Helper()
	return f.emit.last(t, connID, events.Question).Data.(events.QuestionPayload)
}

func answerFor(t *testing.T, questionID string) string {
	t.Helper()
	for _, p := range questions.Seed {
		if p.ID == questionID {
			return p.Film
		}
	}
	t.Fatalf("unknown question %q", questionID)
	return ""
}

func wrongAnswerFor(t *testing.T, q events.QuestionView) string {
	t.Helper()
	correct := answerFor(t, q.ID)
	for _, o := range q.Options {
		if o != correct {
			return o
		}
	}
	t.Fatal("no wrong option")
	return ""
}

func hostsOf(users []events.UserInfo) []string {
	var hosts []string
	for _, u := range users {
		if u.Host {
			hosts = append(hosts, u.ID)
		}
	}
	return hosts
}
