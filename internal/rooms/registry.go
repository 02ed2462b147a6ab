// Package rooms owns the live rooms: membership, host election, chat and
// the quiz run in each room.
//
// Lock order is Registry.mu before Room.mu. Timer callbacks only take
// Room.mu. Outbound events are emitted while the locks are held so every
// connection sees a room's events in the order they happened; emitting
// never blocks.
package rooms

import (
	"cinequiz/internal/clock"
	"cinequiz/internal/events"
	"cinequiz/internal/history"
	"cinequiz/internal/questions"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

const maxNameLen = 32

// Emitter delivers outbound events without blocking.
type Emitter interface {
	Send(connID string, ev events.Event)
	SendMany(connIDs []string, ev events.Event)
	SendAll(ev events.Event)
}

// Observer receives lifecycle notifications, typically for metrics.
type Observer interface {
	RoomOpened()
	RoomClosed()
	GameStarted()
	GameFinished()
	AnswerRecorded(correct bool)
}

type nopObserver struct{}

func (nopObserver) RoomOpened()         {}
func (nopObserver) RoomClosed()         {}
func (nopObserver) GameStarted()        {}
func (nopObserver) GameFinished()       {}
func (nopObserver) AnswerRecorded(bool) {}

type session struct {
	name string
	room string
}

type Registry struct {
	mu       sync.RWMutex
	rooms    map[string]*Room
	order    []string
	sessions map[string]*session

	cfg      Config
	emit     Emitter
	clock    clock.Clock
	catalog  questions.Catalog
	recorder history.Recorder
	observer Observer
	log      *zap.Logger

	rngMu sync.Mutex
	rng   questions.Rand
}

type Option func(*Registry)

func WithClock(c clock.Clock) Option {
	return func(g *Registry) { g.clock = c }
}

// WithRand sets the random source. It is only used under the registry's
// own lock, so it need not be safe for concurrent use.
func WithRand(r questions.Rand) Option {
	return func(g *Registry) { g.rng = r }
}

func WithCatalog(c questions.Catalog) Option {
	return func(g *Registry) { g.catalog = c }
}

func WithRecorder(r history.Recorder) Option {
	return func(g *Registry) { g.recorder = r }
}

func WithObserver(o Observer) Option {
	return func(g *Registry) { g.observer = o }
}

func WithLogger(l *zap.Logger) Option {
	return func(g *Registry) { g.log = l }
}

func New(cfg Config, emit Emitter, opts ...Option) *Registry {
	g := &Registry{
		rooms:    make(map[string]*Room),
		sessions: make(map[string]*session),
		cfg:      cfg,
		emit:     emit,
		clock:    clock.Real{},
		catalog:  questions.Seed,
		recorder: history.Discard{},
		observer: nopObserver{},
		log:      zap.NewNop(),
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// DisplayName is the name given to a connection without a usable hint.
func DisplayName(connID, hint string) string {
	hint = strings.TrimSpace(hint)
	if hint != "" {
		if utf8.RuneCountInString(hint) > maxNameLen {
			hint = string([]rune(hint)[:maxNameLen])
		}
		return hint
	}
	short := connID
	if len(short) > 4 {
		short = short[:4]
	}
	return "Anon. " + short
}

// Connect registers a connection and sends it the current room list.
func (g *Registry) Connect(connID, nameHint string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if s, ok := g.sessions[connID]; ok {
		s.name = DisplayName(connID, nameHint)
	} else {
		g.sessions[connID] = &session{name: DisplayName(connID, nameHint)}
	}
	g.emit.Send(connID, events.Event{Name: events.RoomsList, Data: g.listLocked()})
}

// List returns every live room in creation order.
func (g *Registry) List() []events.RoomInfo {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.listLocked()
}

func (g *Registry) listLocked() []events.RoomInfo {
	list := make([]events.RoomInfo, 0, len(g.order))
	for _, name := range g.order {
		list = append(list, g.rooms[name].info())
	}
	return list
}

func (g *Registry) broadcastListLocked() {
	g.emit.SendAll(events.Event{Name: events.RoomsList, Data: g.listLocked()})
}

// CurrentRoom returns the room a connection is in, or "".
func (g *Registry) CurrentRoom(connID string) string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if s, ok := g.sessions[connID]; ok {
		return s.room
	}
	return ""
}

func (g *Registry) sessionLocked(connID string) *session {
	s, ok := g.sessions[connID]
	if !ok {
		s = &session{name: DisplayName(connID, "")}
		g.sessions[connID] = s
	}
	return s
}

// currentRoom resolves the caller's room without holding the registry
// lock afterwards. The returned room may close before the caller locks it.
func (g *Registry) currentRoom(connID string) (name string, room *Room) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	s, ok := g.sessions[connID]
	if !ok || s.room == "" {
		return "", nil
	}
	return s.room, g.rooms[s.room]
}

// Join adds the connection to roomName, creating the room on first join.
// A connection already in another room leaves it first.
func (g *Registry) Join(connID, roomName string) (events.RoomJoinedPayload, error) {
	if strings.TrimSpace(roomName) == "" {
		return events.RoomJoinedPayload{}, ErrEmptyRoomName
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	s := g.sessionLocked(connID)
	room := g.rooms[roomName]

	if s.room == roomName && room != nil {
		room.mu.Lock()
		defer room.mu.Unlock()
		if p, ok := room.players.Get(connID); ok {
			joined := events.RoomJoinedPayload{RoomName: roomName, User: p.Name, Host: p.Host}
			g.emit.Send(connID, events.Event{Name: events.RoomJoined, Data: joined})
			return joined, nil
		}
		return events.RoomJoinedPayload{}, ErrUserNotFound
	}

	if room != nil && int(room.size.Load()) >= room.maxUsers {
		return events.RoomJoinedPayload{}, ErrRoomFull
	}

	if s.room != "" {
		g.leaveLocked(connID, s.room)
		// leaving may have destroyed roomName's predecessor, never roomName
		room = g.rooms[roomName]
	}

	created := room == nil
	if created {
		room = newRoom(roomName, g.cfg.capacity(roomName))
		g.rooms[roomName] = room
		g.order = append(g.order, roomName)
		g.observer.RoomOpened()
		g.log.Info("room created", zap.String("room", roomName))
	}

	room.mu.Lock()
	if created {
		g.startNotifierLocked(room)
	}
	p := room.players.Add(connID, s.name)
	room.syncSizeLocked()
	if room.game != nil {
		room.game.AddPlayer(connID)
	}
	s.room = roomName

	joined := events.RoomJoinedPayload{RoomName: roomName, User: p.Name, Host: p.Host}
	g.emit.Send(connID, events.Event{Name: events.RoomJoined, Data: joined})
	g.emit.SendMany(room.players.IDs(), events.Event{Name: events.UsersList, Data: room.usersLocked()})
	g.catchUpLocked(room, connID)
	room.mu.Unlock()

	g.broadcastListLocked()
	g.log.Info("user joined", zap.String("room", roomName), zap.String("user", p.Name), zap.Bool("host", p.Host))
	return joined, nil
}

// Leave removes the connection from roomName. It is a no-op unless the
// connection is currently in that room.
func (g *Registry) Leave(connID, roomName string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.leaveLocked(connID, roomName)
}

// Disconnect leaves the current room, if any, and forgets the connection.
func (g *Registry) Disconnect(connID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if s, ok := g.sessions[connID]; ok && s.room != "" {
		g.leaveLocked(connID, s.room)
	}
	delete(g.sessions, connID)
}

func (g *Registry) leaveLocked(connID, roomName string) {
	s, ok := g.sessions[connID]
	if !ok || s.room != roomName {
		return
	}
	s.room = ""

	room := g.rooms[roomName]
	if room == nil {
		return
	}

	room.mu.Lock()
	promoted, removed := room.players.Remove(connID)
	room.syncSizeLocked()
	if !removed {
		room.mu.Unlock()
		return
	}

	if room.players.Len() == 0 {
		room.closeLocked()
		room.mu.Unlock()
		delete(g.rooms, roomName)
		g.order = slices.DeleteFunc(g.order, func(n string) bool { return n == roomName })
		g.observer.RoomClosed()
		g.log.Info("room deleted", zap.String("room", roomName))
	} else {
		if promoted != "" {
			g.emit.Send(promoted, events.Event{Name: events.HostPromoted, Data: events.HostPromotedPayload{RoomName: roomName}})
			g.log.Info("host promoted", zap.String("room", roomName), zap.String("user", room.nameOfLocked(promoted)))
		}
		g.emit.SendMany(room.players.IDs(), events.Event{Name: events.UsersList, Data: room.usersLocked()})
		// the departed player no longer holds up the current question
		g.maybeEndQuestionLocked(room)
		room.mu.Unlock()
	}

	g.broadcastListLocked()
}

// Close stops every room timer. The registry must not be used afterwards.
func (g *Registry) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, name := range g.order {
		room := g.rooms[name]
		room.mu.Lock()
		room.closeLocked()
		room.mu.Unlock()
	}
	g.rooms = make(map[string]*Room)
	g.order = nil
}

func (g *Registry) startNotifierLocked(room *Room) {
	interval := g.cfg.ReminderInterval
	if interval <= 0 {
		return
	}
	var tick func()
	tick = func() {
		room.mu.Lock()
		defer room.mu.Unlock()
		if room.closed {
			return
		}
		g.emit.SendMany(room.players.IDs(), events.Event{Name: events.Message, Data: events.ChatMessage{
			Time: g.clock.Now().UnixMilli(),
			User: ReminderUser,
			Msg:  ReminderText,
		}})
		room.notifier = g.clock.AfterFunc(interval, tick)
	}
	room.notifier = g.clock.AfterFunc(interval, tick)
}

func (g *Registry) now() time.Time {
	return g.clock.Now()
}
