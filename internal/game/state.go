package game

// MaxCellsPerPlayer caps the number of cells each player owns. Games with
// fewer players get one cell per player.
const MaxCellsPerPlayer = 5

// MaxBullets is the magazine size granted when a cell reaches max stage.
const MaxBullets = 5

// MaxStage is the highest upgrade level of a cell. A cell at max stage can
// hold bullets and fire at opponents.
const MaxStage = 6

// DiceMax is the largest face of the die. Smaller games use a truncated die
// of TriggerValue faces.
const DiceMax = 6

// Cell is a player-owned upgrade slot. Invariants: Bullets > 0 implies
// Stage == MaxStage and IsActive; Stage == 0 implies !IsActive and
// Bullets == 0.
type Cell struct {
	ID         string `json:"id"`
	Stage      int    `json:"stage"`
	IsActive   bool   `json:"is_active"`
	Bullets    int    `json:"bullets"`
	IsShielded bool   `json:"is_shielded"`
	IsFrozen   bool   `json:"is_frozen"`
}

// Reset returns the cell to its dormant state. Used when a shot destroys it.
func (c *Cell) Reset() {
	c.Stage = 0
	c.IsActive = false
	c.Bullets = 0
	c.IsShielded = false
	c.IsFrozen = false
}

// PowerUpType enumerates the power-ups a trigger roll can grant.
type PowerUpType string

const (
	PowerUpFreeze      PowerUpType = "freeze"
	PowerUpShield      PowerUpType = "shield"
	PowerUpTurnSkipper PowerUpType = "turn_skipper"
)

// PowerUpTypes lists every grantable power-up, in draw order.
var PowerUpTypes = []PowerUpType{PowerUpFreeze, PowerUpShield, PowerUpTurnSkipper}

// PowerUp is an inventory item owned by exactly one player until consumed.
type PowerUp struct {
	ID        string      `json:"id"`
	Type      PowerUpType `json:"type"`
	CreatedAt int64       `json:"created_at"`
}

// Player is one seat in a running game. Eliminated is derived state,
// recomputed after every shot: true iff every cell is inactive.
type Player struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	IsBot      bool      `json:"is_bot"`
	Eliminated bool      `json:"eliminated"`
	FirstMove  bool      `json:"first_move"`
	PowerUps   []PowerUp `json:"power_ups"`
	Cells      []Cell    `json:"cells"`
}

// HasActiveCell reports whether at least one of the player's cells is active.
func (p *Player) HasActiveCell() bool {
	for i := range p.Cells {
		if p.Cells[i].IsActive {
			return true
		}
	}
	return false
}

// RecomputeEliminated refreshes the derived Eliminated flag and reports
// whether the player just became eliminated.
func (p *Player) RecomputeEliminated() bool {
	was := p.Eliminated
	p.Eliminated = !p.HasActiveCell()
	return p.Eliminated && !was
}

// RemovePowerUp removes the power-up with the given id from the player's
// inventory and returns it. The second result is false when no such
// power-up exists.
func (p *Player) RemovePowerUp(id string) (PowerUp, bool) {
	for i := range p.PowerUps {
		if p.PowerUps[i].ID == id {
			pu := p.PowerUps[i]
			p.PowerUps = append(p.PowerUps[:i], p.PowerUps[i+1:]...)
			return pu, true
		}
	}
	return PowerUp{}, false
}

// PowerUpState tracks time-scoped effects keyed by cell or player id. Each
// value is the absolute turn number at which the effect lapses.
type PowerUpState struct {
	Frozen       map[string]int `json:"frozen"`
	Shielded     map[string]int `json:"shielded"`
	SkippedTurns map[string]int `json:"skipped_turns"`
}

// NewPowerUpState returns empty expiry tables.
func NewPowerUpState() PowerUpState {
	return PowerUpState{
		Frozen:       make(map[string]int),
		Shielded:     make(map[string]int),
		SkippedTurns: make(map[string]int),
	}
}

// LogEvent names one kind of game log entry.
type LogEvent string

const (
	LogGameStart       LogEvent = "game_start"
	LogActivate        LogEvent = "activate"
	LogUpgrade         LogEvent = "upgrade"
	LogMaxLevel        LogEvent = "max_level"
	LogReload          LogEvent = "reload"
	LogFrozen          LogEvent = "frozen"
	LogMissedFirstMove LogEvent = "missed_first_move"
	LogShoot           LogEvent = "shoot"
	LogBlocked         LogEvent = "blocked"
	LogEliminate       LogEvent = "eliminate"
	LogPowerUp         LogEvent = "power_up"
	LogUsePowerUp      LogEvent = "use_power_up"
	LogSkipTurn        LogEvent = "skip_turn"
	LogEndTurn         LogEvent = "end_turn"
)

// LogEntry is one append-only record of a meaningful state change. Player
// carries the display name; PlayerID carries the acting player's id so
// consumers never have to resolve a (possibly duplicated) username back to
// an identity.
type LogEntry struct {
	Turn     int      `json:"turn"`
	Event    LogEvent `json:"event"`
	Player   string   `json:"player"`
	PlayerID string   `json:"player_id,omitempty"`
	Target   string   `json:"target,omitempty"`
	Cell     int      `json:"cell,omitempty"`
	Value    int      `json:"value,omitempty"`
	Message  string   `json:"message"`
}

// GameState is the full authoritative state of one running match. It is
// owned by exactly one room and mutated only through the engine; the session
// layer serializes all access per room.
type GameState struct {
	CurrentPlayer int          `json:"current_player"`
	TurnCount     int          `json:"turn_count"`
	Players       []Player     `json:"players"`
	LastRoll      *int         `json:"last_roll,omitempty"`
	GameLog       []LogEntry   `json:"game_log"`
	CanShoot      bool         `json:"can_shoot"`
	RolledCell    *int         `json:"rolled_cell,omitempty"`
	PowerUpState  PowerUpState `json:"power_up_state"`
}

// Current returns the player whose turn it is.
func (g *GameState) Current() *Player {
	return &g.Players[g.CurrentPlayer]
}

// Append adds a log entry stamped with the current turn.
func (g *GameState) Append(e LogEntry) {
	e.Turn = g.TurnCount
	g.GameLog = append(g.GameLog, e)
}

// Survivors counts players that are still in the game.
func (g *GameState) Survivors() int {
	n := 0
	for i := range g.Players {
		if !g.Players[i].Eliminated {
			n++
		}
	}
	return n
}

// Winner returns the sole surviving player, or nil while the game is still
// contested.
func (g *GameState) Winner() *Player {
	var w *Player
	for i := range g.Players {
		if g.Players[i].Eliminated {
			continue
		}
		if w != nil {
			return nil
		}
		w = &g.Players[i]
	}
	return w
}

// TriggerValue is the roll outcome that grants a power-up instead of
// affecting a cell. It scales with player count: 3 for 2 players, 4 for 3,
// 5 for 4 and 6 from 5 players up.
func TriggerValue(playerCount int) int {
	if v := playerCount + 1; v < DiceMax {
		return v
	}
	return DiceMax
}

// CellsPerPlayer returns how many cells each player starts with.
func CellsPerPlayer(playerCount int) int {
	if playerCount < MaxCellsPerPlayer {
		return playerCount
	}
	return MaxCellsPerPlayer
}
