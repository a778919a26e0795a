package service

import (
	"sync"
	"time"

	"github.com/Itoshi-web/idksan/internal/game"
)

// Member is one seat in a waiting or running room.
type Member struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Ready    bool   `json:"ready"`
	IsBot    bool   `json:"is_bot"`
}

// Room owns exactly one GameState for its lifetime. All mutation of a room
// goes through its mutex: one inbound action is fully applied before the
// next is accepted, which is the engine's single-writer contract. Different
// rooms are independent and run in parallel.
type Room struct {
	mu sync.Mutex

	Code      string
	Name      string
	Private   bool
	LeaderID  string
	Members   []Member
	Started   bool
	Finished  bool
	Game      *game.GameState
	CreatedAt time.Time

	// LastActive drives the idle-room reaper.
	LastActive time.Time

	// bcrypt hash, empty for open rooms. Never serialized.
	passwordHash []byte

	// Pending bot think timer. Stopped when the room is discarded so a
	// stale timer can never mutate a deleted room.
	botTimer *time.Timer
}

func (r *Room) member(id string) *Member {
	for i := range r.Members {
		if r.Members[i].ID == id {
			return &r.Members[i]
		}
	}
	return nil
}

func (r *Room) humanCount() int {
	n := 0
	for i := range r.Members {
		if !r.Members[i].IsBot {
			n++
		}
	}
	return n
}

func (r *Room) botCount() int {
	return len(r.Members) - r.humanCount()
}

// stopBotTimerLocked cancels a pending bot move, if any.
func (r *Room) stopBotTimerLocked() {
	if r.botTimer != nil {
		r.botTimer.Stop()
		r.botTimer = nil
	}
}

// RoomView is the serializable snapshot broadcast to clients. The password
// hash is redacted here; the GameState itself carries no secrets.
type RoomView struct {
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Private     bool            `json:"private"`
	HasPassword bool            `json:"has_password"`
	LeaderID    string          `json:"leader_id"`
	Members     []Member        `json:"members"`
	Started     bool            `json:"started"`
	Finished    bool            `json:"finished"`
	CreatedAt   time.Time       `json:"created_at"`
	Game        *game.GameState `json:"game,omitempty"`
}

// View snapshots the room for read-only callers.
func (r *Room) View() *RoomView {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.viewLocked()
}

// viewLocked snapshots the room. Caller holds r.mu.
func (r *Room) viewLocked() *RoomView {
	members := make([]Member, len(r.Members))
	copy(members, r.Members)
	return &RoomView{
		Code:        r.Code,
		Name:        r.Name,
		Private:     r.Private,
		HasPassword: len(r.passwordHash) > 0,
		LeaderID:    r.LeaderID,
		Members:     members,
		Started:     r.Started,
		Finished:    r.Finished,
		CreatedAt:   r.CreatedAt,
		Game:        r.Game,
	}
}
