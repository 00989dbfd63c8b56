package holdem

import (
	"testing"

	"cardtable/card"
)

// Rig a board that plays for everyone so the pot splits three ways.
// The indivisible remainder chip goes to the winning seat closest after the
// dealer.
func TestShowdownSplitPotWithRemainder(t *testing.T) {
	g := newTestGame(t, Config{MaxPlayers: 9, MinPlayers: 3, StartingCash: 100, Seed: 2})
	for _, id := range []uint32{1, 2, 3, 4} {
		if err := g.AddPlayer(id, "p"); err != nil {
			t.Fatal(err)
		}
	}

	// Royal flush on the board beats any hole-card combination.
	g.community = []card.Card{
		card.Make(card.Spade, 1),  // A
		card.Make(card.Spade, 13), // K
		card.Make(card.Spade, 12), // Q
		card.Make(card.Spade, 11), // J
		card.Make(card.Spade, 10), // T
	}
	g.players[1].hand = []card.Card{card.Make(card.Heart, 2), card.Make(card.Heart, 3)}
	g.players[2].hand = []card.Card{card.Make(card.Heart, 4), card.Make(card.Heart, 5)}
	g.players[3].hand = []card.Card{card.Make(card.Heart, 6), card.Make(card.Heart, 7)}
	// player 4 joined mid-hand (inactive): their chips play, their seat cannot win
	for _, id := range []uint32{1, 2, 3, 4} {
		g.players[id].committed = 25
	}
	g.phase = PhaseRiver
	g.pot = 100

	if err := g.settleShowdownLocked(); err != nil {
		t.Fatalf("settle: %v", err)
	}

	result := g.LastResult()
	if result == nil || !result.Showdown {
		t.Fatalf("expected showdown result, got %+v", result)
	}
	if len(result.Winners) != 3 {
		t.Fatalf("expected 3-way split, got %d winners", len(result.Winners))
	}

	var paid int64
	amounts := make(map[uint32]int64, 3)
	for _, w := range result.Winners {
		paid += w.Amount
		amounts[w.ID] = w.Amount
		if w.HandDesc == "" {
			t.Fatalf("winner %d has no hand description", w.ID)
		}
	}
	if paid != 100 {
		t.Fatalf("paid %d, want full pot of 100", paid)
	}
	// dealer sits at seat 3; the seat after it (player 1) gets the odd chip
	if amounts[1] != 34 || amounts[2] != 33 || amounts[3] != 33 {
		t.Fatalf("split = %v, want 34/33/33 with remainder to player 1", amounts)
	}
}

func TestShowdownFoldedPlayerCannotWin(t *testing.T) {
	g := newTestGame(t, Config{MaxPlayers: 9, MinPlayers: 3, StartingCash: 100, Seed: 4})
	for _, id := range []uint32{1, 2, 3} {
		if err := g.AddPlayer(id, "p"); err != nil {
			t.Fatal(err)
		}
	}

	// player 1 holds the nuts but folded
	g.community = []card.Card{
		card.Make(card.Spade, 13),
		card.Make(card.Spade, 12),
		card.Make(card.Spade, 11),
		card.Make(card.Heart, 2),
		card.Make(card.Club, 3),
	}
	g.players[1].hand = []card.Card{card.Make(card.Spade, 1), card.Make(card.Spade, 10)}
	g.players[1].active = false
	g.players[2].hand = []card.Card{card.Make(card.Heart, 4), card.Make(card.Heart, 5)}
	g.players[3].hand = []card.Card{card.Make(card.Diamond, 9), card.Make(card.Diamond, 8)}
	for _, id := range []uint32{1, 2, 3} {
		g.players[id].committed = 20
	}
	g.phase = PhaseRiver
	g.pot = 60

	if err := g.settleShowdownLocked(); err != nil {
		t.Fatalf("settle: %v", err)
	}
	for _, w := range g.LastResult().Winners {
		if w.ID == 1 {
			t.Fatalf("folded player won the pot")
		}
	}
}

// A short stack that called all-in for less can only win what opponents
// matched; the uncalled excess goes back to the over-bettor.
func TestAllInUndercallPaysOnlyMatchedChips(t *testing.T) {
	g := headsUp(t, 100)

	// Alice pushed 100, Bob called all-in for his last 40.
	g.players[1].cash = 0
	g.players[1].committed = 100
	g.players[1].allIn = true
	g.players[2].cash = 0
	g.players[2].committed = 40
	g.players[2].allIn = true
	g.pot = 140

	// Bob holds the winning hand.
	g.community = []card.Card{
		card.Make(card.Spade, 2),
		card.Make(card.Heart, 7),
		card.Make(card.Club, 9),
		card.Make(card.Diamond, 11),
		card.Make(card.Diamond, 3),
	}
	g.players[1].hand = []card.Card{card.Make(card.Club, 13), card.Make(card.Diamond, 5)}
	g.players[2].hand = []card.Card{card.Make(card.Spade, 1), card.Make(card.Heart, 1)}
	g.phase = PhaseRiver

	if err := g.settleShowdownLocked(); err != nil {
		t.Fatalf("settle: %v", err)
	}

	if got := g.players[2].cash; got != 80 {
		t.Fatalf("short stack won %d, want 80 (40 matched from each side)", got)
	}
	if got := g.players[1].cash; got != 60 {
		t.Fatalf("uncalled excess not refunded: Alice cash = %d, want 60", got)
	}
	result := g.LastResult()
	if result.Pot != 80 {
		t.Fatalf("settled pot = %d, want 80 after refund", result.Pot)
	}
	if len(result.Winners) != 1 || result.Winners[0].ID != 2 || result.Winners[0].Amount != 80 {
		t.Fatalf("winners = %+v, want Bob taking 80", result.Winners)
	}
}

// Three-way all-in with one short stack: the short stack's best hand takes
// only the main pot, the side pot goes to the best hand among its funders.
func TestSidePotsMultiWayAllIn(t *testing.T) {
	g := newTestGame(t, Config{MaxPlayers: 9, MinPlayers: 3, StartingCash: 100, Seed: 6})
	for _, id := range []uint32{1, 2, 3} {
		if err := g.AddPlayer(id, "p"); err != nil {
			t.Fatal(err)
		}
	}

	for id, committed := range map[uint32]int64{1: 100, 2: 40, 3: 100} {
		p := g.players[id]
		p.cash = 0
		p.committed = committed
		p.allIn = true
	}
	g.pot = 240

	g.community = []card.Card{
		card.Make(card.Spade, 2),
		card.Make(card.Heart, 7),
		card.Make(card.Club, 9),
		card.Make(card.Diamond, 11),
		card.Make(card.Diamond, 3),
	}
	g.players[1].hand = []card.Card{card.Make(card.Spade, 13), card.Make(card.Heart, 13)}
	g.players[2].hand = []card.Card{card.Make(card.Spade, 1), card.Make(card.Heart, 1)}
	g.players[3].hand = []card.Card{card.Make(card.Spade, 12), card.Make(card.Heart, 12)}
	g.phase = PhaseRiver

	if err := g.settleShowdownLocked(); err != nil {
		t.Fatalf("settle: %v", err)
	}

	// main pot 3x40, side pot 2x60
	if got := g.players[2].cash; got != 120 {
		t.Fatalf("short stack cash = %d, want main pot of 120", got)
	}
	if got := g.players[1].cash; got != 120 {
		t.Fatalf("side pot winner cash = %d, want 120", got)
	}
	if got := g.players[3].cash; got != 0 {
		t.Fatalf("losing stack cash = %d, want 0", got)
	}

	var paid int64
	for _, w := range g.LastResult().Winners {
		paid += w.Amount
	}
	if paid != 240 {
		t.Fatalf("paid %d, want full 240", paid)
	}
}

// Drive the undercall through the public betting API: the hand runs out the
// board and, whoever wins, the uncalled 60 never leaves the big stack.
func TestShortStackAllInUndercallAccepted(t *testing.T) {
	g := headsUp(t, 100)
	g.players[2].cash = 40

	if err := g.PlaceBet(1, 100); err != nil {
		t.Fatalf("all-in bet: %v", err)
	}
	if err := g.PlaceBet(2, 40); err != nil {
		t.Fatalf("all-in undercall: %v", err)
	}

	snap := g.Snapshot(0)
	if snap.Phase != PhaseShowdown {
		t.Fatalf("expected showdown, got %v", snap.Phase)
	}
	if snap.Result.Pot != 80 {
		t.Fatalf("contested pot = %d, want 80", snap.Result.Pot)
	}
	if alice := playerByID(t, snap, 1); alice.Cash < 60 {
		t.Fatalf("Alice cash = %d, refund of the uncalled 60 is guaranteed", alice.Cash)
	}
	var total int64
	for _, ps := range snap.Players {
		total += ps.Cash
	}
	if total != 140 {
		t.Fatalf("chip total = %d, want 140", total)
	}
}

func TestShowdownRevealsContenderHands(t *testing.T) {
	g := headsUp(t, 100)

	// run to showdown with checks
	if err := g.PlaceBet(1, 0); err != nil {
		t.Fatal(err)
	}
	if err := g.PlaceBet(2, 0); err != nil {
		t.Fatal(err)
	}
	for street := 0; street < 3; street++ {
		first := g.CurrentPlayer()
		if err := g.PlaceBet(first, 0); err != nil {
			t.Fatal(err)
		}
		second := g.CurrentPlayer()
		if err := g.PlaceBet(second, 0); err != nil {
			t.Fatal(err)
		}
	}

	snap := g.Snapshot(1) // viewed by player 1
	if snap.Phase != PhaseShowdown {
		t.Fatalf("expected showdown, got %v", snap.Phase)
	}
	for _, ps := range snap.Players {
		if ps.Active && len(ps.Hand) != 2 {
			t.Fatalf("contender %d hand hidden at showdown", ps.ID)
		}
	}
}

func TestHiddenHandsBeforeShowdown(t *testing.T) {
	g := headsUp(t, 100)

	snap := g.Snapshot(1)
	for _, ps := range snap.Players {
		switch ps.ID {
		case 1:
			if len(ps.Hand) != 2 {
				t.Fatalf("viewer cannot see own hand")
			}
		default:
			if len(ps.Hand) != 0 {
				t.Fatalf("player %d hand leaked to viewer 1", ps.ID)
			}
			if !ps.HasCards {
				t.Fatalf("snapshot should still mark player %d as holding cards", ps.ID)
			}
		}
	}
}
