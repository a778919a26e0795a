package engine

import (
	"encoding/json"
	"fmt"
	"reflect"
	"testing"

	"github.com/Itoshi-web/idksan/internal/game"
)

// scriptedRand returns pre-programmed values so tests are deterministic.
type scriptedRand struct {
	seq []int
	i   int
}

func (s *scriptedRand) Intn(n int) int {
	if len(s.seq) == 0 {
		return 0
	}
	v := s.seq[s.i%len(s.seq)]
	s.i++
	return v % n
}

func testSeats(n int) []Seat {
	seats := make([]Seat, 0, n)
	for i := 0; i < n; i++ {
		seats = append(seats, Seat{ID: fmt.Sprintf("p%d", i), Username: fmt.Sprintf("P%d", i)})
	}
	return seats
}

func newTestGame(n int) *game.GameState {
	return NewGameState(testSeats(n))
}

// armCell puts a cell into the armed state (max stage, full magazine).
func armCell(c *game.Cell) {
	c.IsActive = true
	c.Stage = game.MaxStage
	c.Bullets = game.MaxBullets
}

func hasEvent(g *game.GameState, ev game.LogEvent) bool {
	for _, e := range g.GameLog {
		if e.Event == ev {
			return true
		}
	}
	return false
}

func checkInvariants(t *testing.T, g *game.GameState) {
	t.Helper()
	for pi := range g.Players {
		p := &g.Players[pi]
		for ci := range p.Cells {
			c := &p.Cells[ci]
			if c.Bullets > 0 && (!c.IsActive || c.Stage != game.MaxStage) {
				t.Fatalf("player %d cell %d: bullets=%d but stage=%d active=%v", pi, ci, c.Bullets, c.Stage, c.IsActive)
			}
			if c.Stage == 0 && (c.IsActive || c.Bullets != 0) {
				t.Fatalf("player %d cell %d: dormant cell with active=%v bullets=%d", pi, ci, c.IsActive, c.Bullets)
			}
		}
		// A player with no active cell stays in the game until a shot
		// triggers the elimination recompute, so only the forward
		// direction holds unconditionally.
		if p.Eliminated && p.HasActiveCell() {
			t.Fatalf("player %d: eliminated but still has an active cell", pi)
		}
	}
}

func TestNewGameState_RoundTripsThroughJSON(t *testing.T) {
	g := newTestGame(3)
	b, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back game.GameState
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(*g, back) {
		t.Fatalf("state did not round-trip:\n got %+v\nwant %+v", back, *g)
	}
}

func TestNewGameState_CellCounts(t *testing.T) {
	for _, tc := range []struct{ players, cells int }{{2, 2}, {3, 3}, {5, 5}, {8, 5}} {
		g := newTestGame(tc.players)
		for i := range g.Players {
			if len(g.Players[i].Cells) != tc.cells {
				t.Fatalf("%d players: expected %d cells, got %d", tc.players, tc.cells, len(g.Players[i].Cells))
			}
		}
	}
}

// Scenario: 2-player game, player 0 rolls 1 on the first move.
func TestRoll_FirstMoveActivates(t *testing.T) {
	r := NewResolver(&scriptedRand{})
	g := newTestGame(2)

	r.Apply(g, Action{Type: ActionRoll, Value: 1})

	if g.Players[0].FirstMove {
		t.Fatalf("expected first-move flag cleared")
	}
	c := g.Players[0].Cells[0]
	if !c.IsActive || c.Stage != 1 {
		t.Fatalf("expected cell 0 activated at stage 1, got %+v", c)
	}
	if g.CurrentPlayer != 1 {
		t.Fatalf("expected turn to pass to player 1, got %d", g.CurrentPlayer)
	}
	if !hasEvent(g, game.LogActivate) {
		t.Fatalf("expected an activate log entry")
	}
	checkInvariants(t, g)
}

func TestRoll_FirstMoveMissed(t *testing.T) {
	r := NewResolver(&scriptedRand{})
	g := newTestGame(2)

	r.Apply(g, Action{Type: ActionRoll, Value: 2})

	if !g.Players[0].FirstMove {
		t.Fatalf("first-move flag must survive a missed opening roll")
	}
	if g.CurrentPlayer != 1 {
		t.Fatalf("expected turn to advance, got player %d", g.CurrentPlayer)
	}
	if !hasEvent(g, game.LogMissedFirstMove) {
		t.Fatalf("expected a missed_first_move log entry")
	}
}

func TestRoll_TriggerGrantsPowerUpWithoutAdvancing(t *testing.T) {
	r := NewResolver(&scriptedRand{seq: []int{1}}) // shield
	g := newTestGame(2)                            // trigger value 3

	turn := g.TurnCount
	r.Apply(g, Action{Type: ActionRoll, Value: 3})

	if g.CurrentPlayer != 0 || g.TurnCount != turn {
		t.Fatalf("trigger roll must not advance the turn")
	}
	if len(g.Players[0].PowerUps) != 1 || g.Players[0].PowerUps[0].Type != game.PowerUpShield {
		t.Fatalf("expected one shield power-up, got %+v", g.Players[0].PowerUps)
	}
	if g.Players[0].FirstMove != true {
		t.Fatalf("trigger roll must not consume the first move")
	}
	if !hasEvent(g, game.LogPowerUp) {
		t.Fatalf("expected a power_up log entry")
	}
}

func TestTriggerValue_ScalesWithPlayerCount(t *testing.T) {
	for _, tc := range []struct{ players, trigger int }{{2, 3}, {3, 4}, {4, 5}, {5, 6}, {7, 6}} {
		if got := game.TriggerValue(tc.players); got != tc.trigger {
			t.Fatalf("%d players: expected trigger %d, got %d", tc.players, tc.trigger, got)
		}
	}
}

func TestRoll_UpgradeProgression(t *testing.T) {
	r := NewResolver(&scriptedRand{})
	g := newTestGame(2)
	g.Players[0].FirstMove = false
	g.Players[1].Eliminated = true

	// Activate, then upgrade to max stage. Player 1 is eliminated so the
	// rotation keeps landing on player 0.
	for i := 0; i < game.MaxStage; i++ {
		r.Apply(g, Action{Type: ActionRoll, Value: 1})
	}

	c := g.Players[0].Cells[0]
	if c.Stage != game.MaxStage || c.Bullets != game.MaxBullets {
		t.Fatalf("expected armed cell after %d rolls, got %+v", game.MaxStage, c)
	}
	if !hasEvent(g, game.LogMaxLevel) {
		t.Fatalf("expected a max_level log entry")
	}
}

// Scenario: rolling an armed cell's number opens the shoot window and the
// turn does not advance.
func TestRoll_ArmedCellSetsCanShoot(t *testing.T) {
	r := NewResolver(&scriptedRand{})
	g := newTestGame(2)
	g.Players[0].FirstMove = false
	armCell(&g.Players[0].Cells[0])

	turn := g.TurnCount
	r.Apply(g, Action{Type: ActionRoll, Value: 1})

	if !g.CanShoot {
		t.Fatalf("expected can_shoot after rolling an armed cell")
	}
	if g.RolledCell == nil || *g.RolledCell != 0 {
		t.Fatalf("expected rolled_cell=0, got %v", g.RolledCell)
	}
	if g.CurrentPlayer != 0 || g.TurnCount != turn {
		t.Fatalf("turn must not advance while the shoot window is open")
	}
}

func TestRoll_ReloadEmptyMaxCell(t *testing.T) {
	r := NewResolver(&scriptedRand{})
	g := newTestGame(2)
	g.Players[0].FirstMove = false
	armCell(&g.Players[0].Cells[0])
	g.Players[0].Cells[0].Bullets = 0

	r.Apply(g, Action{Type: ActionRoll, Value: 1})

	if g.Players[0].Cells[0].Bullets != game.MaxBullets {
		t.Fatalf("expected reload to %d bullets, got %d", game.MaxBullets, g.Players[0].Cells[0].Bullets)
	}
	if !hasEvent(g, game.LogReload) {
		t.Fatalf("expected a reload log entry")
	}
	if g.CurrentPlayer != 1 {
		t.Fatalf("reload must end the turn")
	}
}

func TestRoll_FrozenCellDoesNotUpgrade(t *testing.T) {
	r := NewResolver(&scriptedRand{})
	g := newTestGame(2)
	g.Players[0].FirstMove = false
	g.Players[0].Cells[0].IsActive = true
	g.Players[0].Cells[0].Stage = 2
	g.Players[0].Cells[0].IsFrozen = true

	r.Apply(g, Action{Type: ActionRoll, Value: 1})

	if g.Players[0].Cells[0].Stage != 2 {
		t.Fatalf("frozen cell must not change stage, got %d", g.Players[0].Cells[0].Stage)
	}
	if !hasEvent(g, game.LogFrozen) {
		t.Fatalf("expected a frozen log entry")
	}
	if g.CurrentPlayer != 1 {
		t.Fatalf("a frozen roll still ends the turn")
	}
}

func TestShoot_DestroysCellAndEliminates(t *testing.T) {
	r := NewResolver(&scriptedRand{})
	g := newTestGame(2)
	g.Players[0].FirstMove = false
	armCell(&g.Players[0].Cells[0])
	// Target has exactly one active cell left.
	g.Players[1].Cells[0].IsActive = true
	g.Players[1].Cells[0].Stage = 3

	r.Apply(g, Action{Type: ActionRoll, Value: 1})
	r.Apply(g, Action{Type: ActionShoot, TargetPlayer: 1, TargetCell: 0})

	if g.Players[0].Cells[0].Bullets != game.MaxBullets-1 {
		t.Fatalf("expected one bullet consumed, got %d", g.Players[0].Cells[0].Bullets)
	}
	target := g.Players[1].Cells[0]
	if target.IsActive || target.Stage != 0 || target.Bullets != 0 {
		t.Fatalf("expected destroyed cell, got %+v", target)
	}
	if !g.Players[1].Eliminated {
		t.Fatalf("expected target player eliminated")
	}
	if !hasEvent(g, game.LogShoot) || !hasEvent(g, game.LogEliminate) {
		t.Fatalf("expected shoot and eliminate log entries")
	}
	// Shot and elimination entries must credit the shooter by id, not just
	// by display name, so stat accounting survives duplicate usernames.
	for _, e := range g.GameLog {
		if e.Event == game.LogShoot || e.Event == game.LogEliminate {
			if e.PlayerID != g.Players[0].ID {
				t.Fatalf("%s entry credited to %q, want %q", e.Event, e.PlayerID, g.Players[0].ID)
			}
		}
	}
	// After a shot the derived flag must agree with cell state for every
	// player, in both directions.
	for pi := range g.Players {
		p := &g.Players[pi]
		if p.Eliminated == p.HasActiveCell() {
			t.Fatalf("player %d: eliminated=%v but has active cell=%v", pi, p.Eliminated, p.HasActiveCell())
		}
	}
	// Sole survivor: rotation stays on player 0.
	if g.CurrentPlayer != 0 {
		t.Fatalf("expected turn to stay with the survivor, got %d", g.CurrentPlayer)
	}
	checkInvariants(t, g)
}

// Scenario: a shot against a shielded cell is spent on the shield.
func TestShoot_ShieldBlocks(t *testing.T) {
	r := NewResolver(&scriptedRand{})
	g := newTestGame(2)
	g.Players[0].FirstMove = false
	armCell(&g.Players[0].Cells[0])
	g.Players[0].Cells[0].Bullets = 1
	g.Players[1].Cells[0].IsActive = true
	g.Players[1].Cells[0].Stage = 4
	g.Players[1].Cells[0].IsShielded = true

	r.Apply(g, Action{Type: ActionRoll, Value: 1})
	r.Apply(g, Action{Type: ActionShoot, TargetPlayer: 1, TargetCell: 0})

	if g.Players[0].Cells[0].Bullets != 0 {
		t.Fatalf("expected the bullet to be spent, got %d", g.Players[0].Cells[0].Bullets)
	}
	target := g.Players[1].Cells[0]
	if !target.IsActive || !target.IsShielded {
		t.Fatalf("shielded cell must survive, got %+v", target)
	}
	if !hasEvent(g, game.LogBlocked) {
		t.Fatalf("expected a blocked log entry")
	}
	if g.CurrentPlayer != 1 {
		t.Fatalf("expected turn to advance after the blocked shot")
	}
}

func TestShoot_EmptyMagazineIsSilentNoOp(t *testing.T) {
	r := NewResolver(&scriptedRand{})
	g := newTestGame(2)
	g.Players[0].FirstMove = false
	g.Players[1].Cells[0].IsActive = true
	g.Players[1].Cells[0].Stage = 2
	// Force the shoot window open on an empty cell.
	g.CanShoot = true
	idx := 0
	g.RolledCell = &idx
	g.Players[0].Cells[0].IsActive = true
	g.Players[0].Cells[0].Stage = game.MaxStage

	logLen := len(g.GameLog)
	r.Apply(g, Action{Type: ActionShoot, TargetPlayer: 1, TargetCell: 0})

	if len(g.GameLog) != logLen {
		t.Fatalf("a zero-bullet shot must not log anything")
	}
	if g.Players[1].Cells[0].Stage != 2 {
		t.Fatalf("target cell must be untouched")
	}
	if g.CurrentPlayer != 1 || g.CanShoot {
		t.Fatalf("the no-op shot still ends the turn")
	}
}

func TestShoot_WithoutRollIsRejected(t *testing.T) {
	r := NewResolver(&scriptedRand{})
	g := newTestGame(2)
	before, _ := json.Marshal(g)

	r.Apply(g, Action{Type: ActionShoot, TargetPlayer: 1, TargetCell: 0})

	after, _ := json.Marshal(g)
	if string(before) != string(after) {
		t.Fatalf("shooting without an armed roll must leave the state untouched")
	}
}

func TestShoot_OutOfRangeTargetIsNoOp(t *testing.T) {
	r := NewResolver(&scriptedRand{})
	g := newTestGame(2)
	g.Players[0].FirstMove = false
	armCell(&g.Players[0].Cells[0])
	r.Apply(g, Action{Type: ActionRoll, Value: 1})

	before, _ := json.Marshal(g)
	r.Apply(g, Action{Type: ActionShoot, TargetPlayer: 9, TargetCell: 0})
	after, _ := json.Marshal(g)
	if string(before) != string(after) {
		t.Fatalf("out-of-range target must leave the state untouched")
	}
}

func TestUsePowerUp_FreezeShieldSkip(t *testing.T) {
	r := NewResolver(&scriptedRand{})
	g := newTestGame(3)
	g.Players[1].Cells[0].IsActive = true
	g.Players[1].Cells[0].Stage = 2
	g.Players[1].Cells[1].IsActive = true
	g.Players[1].Cells[1].Stage = 1
	g.Players[0].PowerUps = []game.PowerUp{
		{ID: "pu-freeze", Type: game.PowerUpFreeze},
		{ID: "pu-shield", Type: game.PowerUpShield},
		{ID: "pu-skip", Type: game.PowerUpTurnSkipper},
	}

	turn := g.TurnCount
	r.Apply(g, Action{Type: ActionUsePowerUp, PowerUpID: "pu-freeze", TargetPlayer: 1, TargetCell: 0})
	r.Apply(g, Action{Type: ActionUsePowerUp, PowerUpID: "pu-shield", TargetPlayer: 1})
	r.Apply(g, Action{Type: ActionUsePowerUp, PowerUpID: "pu-skip", TargetPlayer: 2})

	if g.TurnCount != turn || g.CurrentPlayer != 0 {
		t.Fatalf("using power-ups must never advance the turn")
	}
	if len(g.Players[0].PowerUps) != 0 {
		t.Fatalf("expected all power-ups consumed, got %d", len(g.Players[0].PowerUps))
	}
	frozen := g.Players[1].Cells[0]
	if !frozen.IsFrozen {
		t.Fatalf("expected target cell frozen")
	}
	if exp := g.PowerUpState.Frozen[frozen.ID]; exp != turn+FreezeDuration {
		t.Fatalf("expected freeze expiry %d, got %d", turn+FreezeDuration, exp)
	}
	for _, c := range g.Players[1].Cells {
		if c.IsActive && !c.IsShielded {
			t.Fatalf("expected every active cell shielded, got %+v", c)
		}
	}
	if exp := g.PowerUpState.Shielded[g.Players[1].ID]; exp != turn+ShieldDuration {
		t.Fatalf("expected shield expiry %d, got %d", turn+ShieldDuration, exp)
	}
	if exp := g.PowerUpState.SkippedTurns[g.Players[2].ID]; exp != turn+SkipDuration {
		t.Fatalf("expected skip expiry %d, got %d", turn+SkipDuration, exp)
	}
}

func TestUsePowerUp_UnknownIDIsNoOp(t *testing.T) {
	r := NewResolver(&scriptedRand{})
	g := newTestGame(2)
	before, _ := json.Marshal(g)

	r.Apply(g, Action{Type: ActionUsePowerUp, PowerUpID: "nope", TargetPlayer: 1})

	after, _ := json.Marshal(g)
	if string(before) != string(after) {
		t.Fatalf("unknown power-up id must leave the state untouched")
	}
}

func TestUsePowerUp_FreezeIneligibleStillConsumesAndLogs(t *testing.T) {
	r := NewResolver(&scriptedRand{})
	g := newTestGame(2)
	g.Players[1].Cells[0].IsActive = true
	g.Players[1].Cells[0].Stage = 1
	g.Players[1].Cells[0].IsShielded = true
	g.Players[0].PowerUps = []game.PowerUp{{ID: "pu1", Type: game.PowerUpFreeze}}

	r.Apply(g, Action{Type: ActionUsePowerUp, PowerUpID: "pu1", TargetPlayer: 1, TargetCell: 0})

	if g.Players[1].Cells[0].IsFrozen {
		t.Fatalf("a shielded cell cannot be frozen")
	}
	if len(g.Players[0].PowerUps) != 0 {
		t.Fatalf("the power-up is consumed even when the effect does not apply")
	}
	if !hasEvent(g, game.LogUsePowerUp) {
		t.Fatalf("expected a use_power_up entry regardless of effect")
	}
}

func TestStorePowerUp_AddsAndAdvances(t *testing.T) {
	r := NewResolver(&scriptedRand{})
	g := newTestGame(2)

	r.Apply(g, Action{Type: ActionStorePowerUp, PowerUpType: game.PowerUpFreeze})

	if len(g.Players[0].PowerUps) != 1 || g.Players[0].PowerUps[0].Type != game.PowerUpFreeze {
		t.Fatalf("expected a stored freeze power-up, got %+v", g.Players[0].PowerUps)
	}
	if g.CurrentPlayer != 1 {
		t.Fatalf("storing a power-up ends the turn")
	}
}

func TestEndTurn_TwiceLandsOnDifferentPlayers(t *testing.T) {
	r := NewResolver(&scriptedRand{})
	g := newTestGame(3)

	r.Apply(g, Action{Type: ActionEndTurn})
	first := g.CurrentPlayer
	r.Apply(g, Action{Type: ActionEndTurn})

	if g.CurrentPlayer == first {
		t.Fatalf("two end-turns must land on different players, stuck at %d", first)
	}
	if g.Players[g.CurrentPlayer].Eliminated {
		t.Fatalf("rotation must never select an eliminated player")
	}
}

func TestContinue_IsPureNoOp(t *testing.T) {
	r := NewResolver(&scriptedRand{})
	g := newTestGame(2)
	before, _ := json.Marshal(g)

	r.Apply(g, Action{Type: ActionContinue})

	after, _ := json.Marshal(g)
	if string(before) != string(after) {
		t.Fatalf("continue must not mutate the state")
	}
}
