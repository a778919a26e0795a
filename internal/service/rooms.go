package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Itoshi-web/idksan/internal/ai"
	"github.com/Itoshi-web/idksan/internal/engine"
	"github.com/Itoshi-web/idksan/internal/storage"
)

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomFull         = errors.New("room is full")
	ErrWrongPassword    = errors.New("wrong room password")
	ErrRoomStarted      = errors.New("room has already started")
	ErrRoomNotStarted   = errors.New("room has not started yet")
	ErrGameFinished     = errors.New("game is finished")
	ErrNotRoomLeader    = errors.New("only the room leader can do that")
	ErrNotInRoom        = errors.New("player not in room")
	ErrNotEnoughPlayers = errors.New("not enough players to start")
	ErrPlayersNotReady  = errors.New("all players must be ready to start")
	ErrNotABot          = errors.New("member is not a bot")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrUnknownAction    = errors.New("unknown action")
)

// Notifier pushes a pre-serialized message to every connection of a room.
// The service marshals while holding the room lock so broadcasts always
// carry a consistent snapshot.
type Notifier interface {
	Broadcast(roomCode string, message []byte)
}

// GameService is the session layer: it owns room lifecycle and is the only
// entry point through which actions reach the rules engine. Bots re-enter
// through the same entry point as humans.
type GameService struct {
	store      *RoomStore
	repo       storage.Repository
	notifier   Notifier
	resolver   *engine.Resolver
	bot        *ai.Bot
	thinkDelay time.Duration
	minPlayers int
	maxPlayers int
}

// NewGameService wires the session layer. repo and notifier may be nil
// (stats and broadcasts are then skipped, which tests rely on).
func NewGameService(store *RoomStore, repo storage.Repository, notifier Notifier, rng engine.Rand, thinkDelay time.Duration, minPlayers, maxPlayers int) *GameService {
	return &GameService{
		store:      store,
		repo:       repo,
		notifier:   notifier,
		resolver:   engine.NewResolver(rng),
		bot:        ai.New(rng),
		thinkDelay: thinkDelay,
		minPlayers: minPlayers,
		maxPlayers: maxPlayers,
	}
}

// Store exposes the room registry to the transport layer (read paths like
// the public room listing).
func (s *GameService) Store() *RoomStore { return s.store }

// CreateRoom opens a new room with the caller as leader. A non-empty
// password is stored as a bcrypt hash and checked on join.
func (s *GameService) CreateRoom(hostID, hostName, roomName string, private bool, password string) (*RoomView, error) {
	var hash []byte
	if password != "" {
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash room password: %w", err)
		}
	}

	now := time.Now()
	room := &Room{
		Code:         s.store.NewRoomCode(),
		Name:         roomName,
		Private:      private,
		LeaderID:     hostID,
		Members:      []Member{{ID: hostID, Username: hostName}},
		CreatedAt:    now,
		LastActive:   now,
		passwordHash: hash,
	}
	s.store.Put(room)

	room.mu.Lock()
	defer room.mu.Unlock()
	return room.viewLocked(), nil
}

// JoinRoom adds a player to a waiting room. Joining a room you are already
// in is a no-op returning the current view, so clients can safely retry.
func (s *GameService) JoinRoom(code, password, userID, username string) (*RoomView, error) {
	room, ok := s.store.Get(code)
	if !ok {
		return nil, ErrRoomNotFound
	}
	room.mu.Lock()
	defer room.mu.Unlock()

	if m := room.member(userID); m != nil {
		return room.viewLocked(), nil
	}
	if room.Started {
		return nil, ErrRoomStarted
	}
	if len(room.Members) >= s.maxPlayers {
		return nil, ErrRoomFull
	}
	if len(room.passwordHash) > 0 {
		if bcrypt.CompareHashAndPassword(room.passwordHash, []byte(password)) != nil {
			return nil, ErrWrongPassword
		}
	}

	room.Members = append(room.Members, Member{ID: userID, Username: username})
	room.LastActive = time.Now()
	s.publishLocked(room, "room_update")
	return room.viewLocked(), nil
}

// SetReady toggles the caller's readiness in a waiting room.
func (s *GameService) SetReady(code, userID string, ready bool) (*RoomView, error) {
	room, ok := s.store.Get(code)
	if !ok {
		return nil, ErrRoomNotFound
	}
	room.mu.Lock()
	defer room.mu.Unlock()

	if room.Started {
		return nil, ErrRoomStarted
	}
	m := room.member(userID)
	if m == nil {
		return nil, ErrNotInRoom
	}
	m.Ready = ready
	room.LastActive = time.Now()
	s.publishLocked(room, "room_update")
	return room.viewLocked(), nil
}

// AddBot seats an automated player. Bots are always ready.
func (s *GameService) AddBot(code, leaderID string) (*RoomView, error) {
	room, ok := s.store.Get(code)
	if !ok {
		return nil, ErrRoomNotFound
	}
	room.mu.Lock()
	defer room.mu.Unlock()

	if room.Started {
		return nil, ErrRoomStarted
	}
	if room.LeaderID != leaderID {
		return nil, ErrNotRoomLeader
	}
	if len(room.Members) >= s.maxPlayers {
		return nil, ErrRoomFull
	}

	id := uuid.NewString()
	room.Members = append(room.Members, Member{
		ID:       id,
		Username: "bot-" + id[:4],
		Ready:    true,
		IsBot:    true,
	})
	room.LastActive = time.Now()
	s.publishLocked(room, "room_update")
	return room.viewLocked(), nil
}

// RemoveBot unseats an automated player before the game starts.
func (s *GameService) RemoveBot(code, leaderID, botID string) (*RoomView, error) {
	room, ok := s.store.Get(code)
	if !ok {
		return nil, ErrRoomNotFound
	}
	room.mu.Lock()
	defer room.mu.Unlock()

	if room.Started {
		return nil, ErrRoomStarted
	}
	if room.LeaderID != leaderID {
		return nil, ErrNotRoomLeader
	}
	m := room.member(botID)
	if m == nil {
		return nil, ErrNotInRoom
	}
	if !m.IsBot {
		return nil, ErrNotABot
	}
	room.Members = removeMember(room.Members, botID)
	room.LastActive = time.Now()
	s.publishLocked(room, "room_update")
	return room.viewLocked(), nil
}

// LeaveRoom removes a player. Leadership is handed to the next human; the
// room is discarded when the last human leaves. The returned view is nil
// when the room was discarded.
func (s *GameService) LeaveRoom(code, userID string) (*RoomView, error) {
	room, ok := s.store.Get(code)
	if !ok {
		return nil, ErrRoomNotFound
	}
	room.mu.Lock()

	if room.member(userID) == nil {
		room.mu.Unlock()
		return nil, ErrNotInRoom
	}
	if room.Started && !room.Finished {
		room.mu.Unlock()
		return nil, ErrRoomStarted
	}

	room.Members = removeMember(room.Members, userID)
	if room.LeaderID == userID {
		room.LeaderID = ""
		for i := range room.Members {
			if !room.Members[i].IsBot {
				room.LeaderID = room.Members[i].ID
				break
			}
		}
	}
	if room.humanCount() == 0 {
		room.mu.Unlock()
		s.store.Delete(room.Code)
		return nil, nil
	}
	room.LastActive = time.Now()
	s.publishLocked(room, "room_update")
	view := room.viewLocked()
	room.mu.Unlock()
	return view, nil
}

// Start transitions a room to the started state and creates its GameState.
// Every human except the leader must be ready; a leader alone against bots
// can start immediately.
func (s *GameService) Start(code, leaderID string) (*RoomView, error) {
	room, ok := s.store.Get(code)
	if !ok {
		return nil, ErrRoomNotFound
	}
	room.mu.Lock()
	defer room.mu.Unlock()

	if room.Started {
		return nil, ErrRoomStarted
	}
	if room.LeaderID != leaderID {
		return nil, ErrNotRoomLeader
	}
	if len(room.Members) < s.minPlayers {
		return nil, ErrNotEnoughPlayers
	}
	for i := range room.Members {
		m := &room.Members[i]
		if !m.IsBot && m.ID != room.LeaderID && !m.Ready {
			return nil, ErrPlayersNotReady
		}
	}

	seats := make([]engine.Seat, 0, len(room.Members))
	for _, m := range room.Members {
		seats = append(seats, engine.Seat{ID: m.ID, Username: m.Username, IsBot: m.IsBot})
	}
	room.Game = engine.NewGameState(seats)
	room.Started = true
	room.LastActive = time.Now()
	s.publishLocked(room, "game_started")
	s.scheduleBotLocked(room)
	return room.viewLocked(), nil
}

func removeMember(members []Member, id string) []Member {
	out := members[:0]
	for _, m := range members {
		if m.ID != id {
			out = append(out, m)
		}
	}
	return out
}
