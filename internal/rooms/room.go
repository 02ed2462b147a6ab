package rooms

import (
	"cinequiz/internal/clock"
	"cinequiz/internal/events"
	"cinequiz/internal/players"
	"cinequiz/internal/quiz"
	"sync"
	"sync/atomic"
)

// Room is a named group of connections. All fields are guarded by mu and
// only touched through Registry operations.
type Room struct {
	mu       sync.Mutex
	name     string
	maxUsers int
	players  *players.Store
	game     *quiz.Game
	deadline clock.Timer
	notifier clock.Timer
	closed   bool

	// size mirrors players.Len for lock-free room listings
	size atomic.Int32
}

func newRoom(name string, maxUsers int) *Room {
	return &Room{
		name:     name,
		maxUsers: maxUsers,
		players:  players.NewStore(),
	}
}

func (r *Room) info() events.RoomInfo {
	return events.RoomInfo{
		Name:     r.name,
		NbUsers:  int(r.size.Load()),
		MaxUsers: r.maxUsers,
	}
}

func (r *Room) syncSizeLocked() {
	r.size.Store(int32(r.players.Len()))
}

func (r *Room) usersLocked() []events.UserInfo {
	list := r.players.GetList()
	users := make([]events.UserInfo, 0, len(list))
	for _, p := range list {
		users = append(users, events.UserInfo{ID: p.ID, User: p.Name, Ready: p.Ready, Host: p.Host})
	}
	return users
}

func (r *Room) nameOfLocked(id string) string {
	if p, ok := r.players.Get(id); ok {
		return p.Name
	}
	return ""
}

func (r *Room) stopDeadlineLocked() {
	if r.deadline != nil {
		r.deadline.Stop()
		r.deadline = nil
	}
}

// closeLocked stops every timer owned by the room. Callbacks already
// waiting on mu see closed and return.
func (r *Room) closeLocked() {
	r.closed = true
	r.stopDeadlineLocked()
	if r.notifier != nil {
		r.notifier.Stop()
		r.notifier = nil
	}
	r.game = nil
}
