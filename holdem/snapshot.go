package holdem

import "cardtable/card"

type PlayerSnapshot struct {
	ID       uint32      `json:"id"`
	Name     string      `json:"name"`
	Cash     int64       `json:"cash"`
	Bet      int64       `json:"bet"`
	Active   bool        `json:"active"`
	AllIn    bool        `json:"allIn,omitempty"`
	HasCards bool        `json:"hasCards,omitempty"`
	Hand     []card.Card `json:"hand,omitempty"`
}

// Snapshot is the full table state sent to clients for display.
type Snapshot struct {
	Round      uint16           `json:"round"`
	Phase      Phase            `json:"phase"`
	Pot        int64            `json:"pot"`
	CurrentBet int64            `json:"currentBet"`
	DealerID   uint32           `json:"dealerId,omitempty"`
	CurrentID  uint32           `json:"currentId,omitempty"`
	Community  []card.Card      `json:"community,omitempty"`
	Players    []PlayerSnapshot `json:"players"`
	Result     *HandResult      `json:"result,omitempty"`
}

// Snapshot projects the table state for one viewer. Hole cards are only
// included for the viewer's own seat, except at showdown where the hands of
// players still in contention are revealed to everyone.
func (g *Game) Snapshot(viewer uint32) Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := Snapshot{
		Round:      g.round,
		Phase:      g.phase,
		Pot:        g.pot,
		CurrentBet: g.curBet,
		Community:  append([]card.Card{}, g.community...),
		Result:     g.lastResult,
	}
	if g.dealerPos >= 0 && g.dealerPos < len(g.order) {
		s.DealerID = g.order[g.dealerPos]
	}
	if g.curPos >= 0 && g.bettingOpenLocked() {
		s.CurrentID = g.order[g.curPos]
	}

	showdown := g.phase == PhaseShowdown && g.lastResult != nil && g.lastResult.Showdown
	for _, id := range g.order {
		p := g.players[id]
		ps := PlayerSnapshot{
			ID:       p.ID,
			Name:     p.Name,
			Cash:     p.cash,
			Bet:      p.bet,
			Active:   p.active,
			AllIn:    p.allIn,
			HasCards: len(p.hand) > 0,
		}
		if p.ID == viewer || (showdown && p.active) {
			ps.Hand = append([]card.Card{}, p.hand...)
		}
		s.Players = append(s.Players, ps)
	}
	return s
}
