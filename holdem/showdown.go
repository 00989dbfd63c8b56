package holdem

import (
	"fmt"

	"github.com/paulhankin/poker"

	"cardtable/card"
)

// WinnerResult is one player's share of a settled pot.
type WinnerResult struct {
	ID       uint32 `json:"id"`
	Name     string `json:"name"`
	Amount   int64  `json:"amount"`
	HandDesc string `json:"handDesc,omitempty"`
}

// HandResult records how the pot was paid out at the end of a hand.
type HandResult struct {
	Round    uint16         `json:"round"`
	Pot      int64          `json:"pot"`
	Showdown bool           `json:"showdown"`
	Winners  []WinnerResult `json:"winners"`
}

// LastResult returns the settlement of the most recently ended hand, or nil.
func (g *Game) LastResult() *HandResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastResult
}

// endByFoldLocked pays the whole pot to the single remaining active player.
// No cards are revealed.
func (g *Game) endByFoldLocked() error {
	var winner *Player
	for _, id := range g.order {
		if p := g.players[id]; p.active {
			winner = p
			break
		}
	}
	if winner == nil {
		return ErrInvalidState("no active player left to win the pot")
	}

	winner.addCash(g.pot)
	g.lastResult = &HandResult{
		Round:    g.round,
		Pot:      g.pot,
		Showdown: false,
		Winners: []WinnerResult{{
			ID:     winner.ID,
			Name:   winner.Name,
			Amount: g.pot,
		}},
	}
	g.finishHandLocked()
	return nil
}

// settleShowdownLocked evaluates the best 5-of-7 hand for every active
// player and pays each pot layer to the best eligible hand(s). A player
// never wins more than opponents matched: the uncalled excess is refunded
// first and the layered pots cap a short stack's take at its own level.
func (g *Game) settleShowdownLocked() error {
	g.phase = PhaseShowdown
	g.refundExcessLocked()

	scores := make(map[uint32]int16, len(g.order))
	descs := make(map[uint32]string, len(g.order))
	for _, id := range g.order {
		p := g.players[id]
		if !p.active {
			continue
		}
		final, err := g.finalHandLocked(p)
		if err != nil {
			return err
		}
		scores[id] = poker.Eval7(&final)
		descs[id], _ = poker.Describe(final[:])
	}
	if len(scores) == 0 {
		return ErrInvalidState("no contenders at showdown")
	}

	payouts := make(map[uint32]int64, len(scores))
	carry := int64(0)
	for _, sp := range g.buildPotsLocked() {
		var winners []uint32
		var best int16
		for _, id := range g.order {
			if !sp.eligible[id] {
				continue
			}
			score, ok := scores[id]
			if !ok {
				continue
			}
			switch {
			case len(winners) == 0 || score > best:
				best = score
				winners = append(winners[:0], id)
			case score == best:
				winners = append(winners, id)
			}
		}
		amount := sp.amount + carry
		if len(winners) == 0 {
			carry = amount
			continue
		}
		carry = 0

		share := amount / int64(len(winners))
		remainder := amount % int64(len(winners))
		for _, id := range winners {
			payouts[id] += share
		}
		// 余数给庄家之后最近的赢家
		if remainder > 0 {
			won := make(map[uint32]bool, len(winners))
			for _, id := range winners {
				won[id] = true
			}
			for i := 1; i <= len(g.order); i++ {
				id := g.order[(g.dealerPos+i)%len(g.order)]
				if won[id] {
					payouts[id] += remainder
					break
				}
			}
		}
	}
	if carry > 0 {
		// a layer nobody can claim falls to the best hand overall
		var bestID uint32
		var best int16
		first := true
		for _, id := range g.order {
			if score, ok := scores[id]; ok && (first || score > best) {
				bestID, best, first = id, score, false
			}
		}
		payouts[bestID] += carry
	}

	result := &HandResult{
		Round:    g.round,
		Pot:      g.pot,
		Showdown: true,
	}
	for _, id := range g.order {
		amount := payouts[id]
		if amount == 0 {
			continue
		}
		p := g.players[id]
		p.addCash(amount)
		result.Winners = append(result.Winners, WinnerResult{
			ID:       p.ID,
			Name:     p.Name,
			Amount:   amount,
			HandDesc: descs[id],
		})
	}

	g.lastResult = result
	g.finishHandLocked()
	return nil
}

func (g *Game) finishHandLocked() {
	g.pot = 0
	g.curBet = 0
	for _, p := range g.players {
		p.bet = 0
	}
	g.curPos = -1
	g.phase = PhaseShowdown
	g.handEnded = true
}

func (g *Game) finalHandLocked(p *Player) ([7]poker.Card, error) {
	var final [7]poker.Card
	if len(p.hand) != 2 || len(g.community) != 5 {
		return final, ErrInvalidState("need 2 hole cards and 5 community cards to evaluate")
	}
	for i, c := range g.community {
		pc, err := toPokerCard(c)
		if err != nil {
			return final, err
		}
		final[i] = pc
	}
	for i, c := range p.hand {
		pc, err := toPokerCard(c)
		if err != nil {
			return final, err
		}
		final[5+i] = pc
	}
	return final, nil
}

// toPokerCard converts our byte encoding to the evaluator's
// (suits 0-3 club/diamond/heart/spade, ranks 1-13 ace low).
func toPokerCard(c card.Card) (poker.Card, error) {
	var suit poker.Suit
	switch c.Suit() {
	case card.Club:
		suit = poker.Suit(0)
	case card.Diamond:
		suit = poker.Suit(1)
	case card.Heart:
		suit = poker.Suit(2)
	case card.Spade:
		suit = poker.Suit(3)
	default:
		return 0, fmt.Errorf("invalid suit for card %v", c)
	}
	return poker.MakeCard(suit, poker.Rank(c.Rank()))
}
