package holdem

import "cardtable/card"

type Player struct {
	ID   uint32
	Name string

	cash int64
	bet  int64
	// committed 本手牌累计投入 (across all rounds), drives pot layering
	committed int64

	active bool
	allIn  bool
	// acted 自上次加注以来是否已表态
	acted bool

	hand []card.Card
}

func (p *Player) Cash() int64      { return p.cash }
func (p *Player) Bet() int64       { return p.bet }
func (p *Player) Committed() int64 { return p.committed }
func (p *Player) Active() bool { return p.active }
func (p *Player) AllIn() bool  { return p.allIn }

func (p *Player) Hand() []card.Card {
	return p.hand
}

func (p *Player) resetForNewHand() {
	p.bet = 0
	p.committed = 0
	p.allIn = false
	p.acted = false
	p.active = p.cash > 0
	p.hand = make([]card.Card, 0, 2)
}

func (p *Player) resetForNewRound() {
	p.bet = 0
	if p.active && !p.allIn {
		p.acted = false
	}
}

func (p *Player) addHandCard(c card.Card) {
	p.hand = append(p.hand, c)
}

// commitBet moves chips from cash to this round's bet. Caller validates funds.
func (p *Player) commitBet(amount int64) {
	p.cash -= amount
	p.bet += amount
	p.committed += amount
	if p.cash == 0 {
		p.allIn = true
	}
}

func (p *Player) addCash(amount int64) {
	p.cash += amount
}
