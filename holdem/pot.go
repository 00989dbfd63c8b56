package holdem

import "sort"

// sidePot is one contribution layer of the pot. Folded chips stay in the
// layer's amount but folded players are never eligible to win it.
type sidePot struct {
	amount   int64
	eligible map[uint32]bool
}

// refundExcessLocked returns the uncalled top slice of the largest hand
// contribution to its owner. After an all-in undercall the over-bettor's
// excess was never matched by anyone and must not reach the pot.
func (g *Game) refundExcessLocked() {
	var top *Player
	var max, second int64
	for _, id := range g.order {
		p := g.players[id]
		if p.committed > max {
			second = max
			max = p.committed
			top = p
		} else if p.committed > second {
			second = p.committed
		}
	}

	excess := max - second
	if top == nil || excess <= 0 {
		return
	}
	top.addCash(excess)
	top.committed -= excess
	top.bet -= excess
	if top.bet < 0 {
		top.bet = 0
	}
	g.pot -= excess
}

// buildPotsLocked layers the hand's contributions into pots, smallest
// contribution first. Each layer is funded by every player who committed at
// least that much; equal-eligibility layers merge into one pot.
// 按投入额分层计算边池
func (g *Game) buildPotsLocked() []sidePot {
	contributors := make([]*Player, 0, len(g.order))
	for _, id := range g.order {
		if p := g.players[id]; p.committed > 0 {
			contributors = append(contributors, p)
		}
	}
	sort.Slice(contributors, func(i, j int) bool {
		return contributors[i].committed < contributors[j].committed
	})

	var pots []sidePot
	level := int64(0)
	for i, p := range contributors {
		layer := p.committed - level
		if layer <= 0 {
			continue
		}

		sp := sidePot{eligible: make(map[uint32]bool)}
		for j := i; j < len(contributors); j++ {
			q := contributors[j]
			sp.amount += layer
			if q.active {
				sp.eligible[q.ID] = true
			}
		}

		if n := len(pots); n > 0 && sameEligible(pots[n-1].eligible, sp.eligible) {
			pots[n-1].amount += sp.amount
		} else {
			pots = append(pots, sp)
		}
		level = p.committed
	}
	return pots
}

func sameEligible(a, b map[uint32]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if !b[id] {
			return false
		}
	}
	return true
}
