package service

import (
	"math/rand"
	"strings"
	"sync"
)

const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const codeLength = 6

// RoomStore is the explicit registry of live rooms. It is owned by the
// session layer and passed to whoever needs it; the engine never sees it.
type RoomStore struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewRoomStore returns an empty store.
func NewRoomStore() *RoomStore {
	return &RoomStore{rooms: make(map[string]*Room)}
}

// Get returns the room with the given code.
func (s *RoomStore) Get(code string) (*Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[NormalizeCode(code)]
	return r, ok
}

// Put registers a room under its code.
func (s *RoomStore) Put(r *Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[r.Code] = r
}

// Delete discards a room and cancels any pending bot timer so a stale
// timer cannot fire against a dead room.
func (s *RoomStore) Delete(code string) {
	s.mu.Lock()
	r, ok := s.rooms[NormalizeCode(code)]
	if ok {
		delete(s.rooms, r.Code)
	}
	s.mu.Unlock()
	if ok {
		r.mu.Lock()
		r.stopBotTimerLocked()
		r.mu.Unlock()
	}
}

// All returns every live room. Callers lock each room before touching it.
func (s *RoomStore) All() []*Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		out = append(out, r)
	}
	return out
}

// ListPublic snapshots every non-private room that has not started yet.
func (s *RoomStore) ListPublic() []*RoomView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*RoomView, 0, len(s.rooms))
	for _, r := range s.rooms {
		r.mu.Lock()
		if !r.Private && !r.Started {
			out = append(out, r.viewLocked())
		}
		r.mu.Unlock()
	}
	return out
}

// NewRoomCode creates a short alphanumeric code for joining rooms.
func (s *RoomStore) NewRoomCode() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for {
		b := make([]byte, codeLength)
		for i := range b {
			b[i] = codeCharset[rand.Intn(len(codeCharset))]
		}
		code := string(b)
		if _, taken := s.rooms[code]; !taken {
			return code
		}
	}
}

// NormalizeCode upper-cases and trims a client-supplied room code.
func NormalizeCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
