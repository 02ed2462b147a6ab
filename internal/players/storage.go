// Package players tracks the members of a single room in join order and
// keeps exactly one of them flagged as host.
package players

import "sync"

type Store struct {
	mu      sync.Mutex
	order   []string
	players map[string]*Player
}

func NewStore() *Store {
	return &Store{
		players: make(map[string]*Player),
	}
}

// Add appends a player. The first player of an empty store becomes host.
// Adding an id that is already present returns the existing player.
func (s *Store) Add(id, name string) Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.players[id]; ok {
		return *p
	}
	p := &Player{ID: id, Name: name, Host: len(s.order) == 0}
	s.players[id] = p
	s.order = append(s.order, id)
	return *p
}

func (s *Store) Get(id string) (Player, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	if !ok {
		return Player{}, false
	}
	return *p, true
}

// GetList returns a snapshot of all players in join order.
func (s *Store) GetList() []Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]Player, 0, len(s.order))
	for _, id := range s.order {
		list = append(list, *s.players[id])
	}
	return list
}

// IDs returns the player ids in join order.
func (s *Store) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, len(s.order))
	copy(ids, s.order)
	return ids
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

func (s *Store) Host() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.order {
		if s.players[id].Host {
			return id
		}
	}
	return ""
}

func (s *Store) ToggleReady(id string) (Player, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	if !ok {
		return Player{}, false
	}
	p.Ready = !p.Ready
	return *p, true
}

// Remove deletes a player. When the host leaves and others remain, the
// earliest remaining joiner is promoted and its id returned as promoted.
// removed is false when id was not present.
func (s *Store) Remove(id string) (promoted string, removed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	if !ok {
		return "", false
	}
	delete(s.players, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if p.Host && len(s.order) > 0 {
		next := s.players[s.order[0]]
		next.Host = true
		promoted = next.ID
	}
	return promoted, true
}
