package rooms

import (
	"cinequiz/internal/events"
)

// ToggleReady flips the caller's ready flag. Callers outside a room are
// ignored.
func (g *Registry) ToggleReady(connID string) {
	_, room := g.currentRoom(connID)
	if room == nil {
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()
	if room.closed {
		return
	}
	if _, ok := room.players.ToggleReady(connID); !ok {
		return
	}
	g.emit.SendMany(room.players.IDs(), events.Event{Name: events.UsersList, Data: room.usersLocked()})
}

// SendMessage broadcasts a chat message to the caller's room.
func (g *Registry) SendMessage(connID, roomName, text string) error {
	current, room := g.currentRoom(connID)
	if current == "" || current != roomName {
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

	g.emit.SendMany(room.players.IDs(), events.Event{Name: events.Message, Data: events.ChatMessage{
		Time: g.now().UnixMilli(),
		User: p.Name,
		Msg:  text,
	}})
	return nil
}

// Users returns a snapshot of a room's members, or nil for unknown rooms.
func (g *Registry) Users(roomName string) []events.UserInfo {
	g.mu.RLock()
	room := g.rooms[roomName]
	g.mu.RUnlock()
	if room == nil {
		return nil
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	return room.usersLocked()
}
