package holdem

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"cardtable/card"
)

// Game is the authoritative state of one table: players, deck, community
// cards, pot and turn order. It has exactly one mutator (the table actor);
// the mutex only guards against snapshot reads racing a mutation.
type Game struct {
	cfg Config
	rng *rand.Rand

	mu sync.Mutex

	players map[uint32]*Player
	order   []uint32 // ascending player id; dealing and turn order

	round     uint16
	phase     Phase
	deck      *card.Deck
	community []card.Card

	pot    int64
	curBet int64

	dealerPos int
	curPos    int

	handEnded  bool
	lastResult *HandResult
}

func NewGame(cfg Config) (*Game, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Game{
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(seed)),
		players: make(map[uint32]*Player, cfg.MaxPlayers),
		phase:   PhaseWaiting,
		curPos:  -1,
	}, nil
}

// AddPlayer seats a player with the configured starting cash. Reaching
// MinPlayers while the table is waiting starts the first hand. A join during
// a live hand is accepted as a waiting spectator: the player holds a seat,
// takes no part in the current hand and is dealt in from the next one.
func (g *Game) AddPlayer(id uint32, name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.players[id]; exists {
		return ErrInvalidState(fmt.Sprintf("player %d already seated", id))
	}
	if len(g.players) >= g.cfg.MaxPlayers {
		return ErrTableFull
	}

	g.players[id] = &Player{
		ID:   id,
		Name: name,
		cash: g.cfg.StartingCash,
	}
	g.order = append(g.order, id)
	sort.Slice(g.order, func(i, j int) bool { return g.order[i] < g.order[j] })

	if g.phase == PhaseWaiting && g.fundedCountLocked() >= g.cfg.MinPlayers {
		return g.startHandLocked()
	}
	return nil
}

// StartNextHand begins a fresh hand after the previous one has settled.
// Busted players sit out; the dealer button moves to the next funded seat.
func (g *Game) StartNextHand() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseWaiting && !g.handEnded {
		return ErrInvalidState("hand in progress")
	}
	return g.startHandLocked()
}

func (g *Game) startHandLocked() error {
	if g.fundedCountLocked() < g.cfg.MinPlayers {
		g.phase = PhaseWaiting
		return fmt.Errorf("not enough players: %d < %d", g.fundedCountLocked(), g.cfg.MinPlayers)
	}

	g.round++
	g.pot = 0
	g.curBet = 0
	g.community = nil
	g.lastResult = nil
	g.handEnded = false

	for _, p := range g.players {
		p.resetForNewHand()
	}

	// Fresh shuffled deck every hand.
	g.deck = card.NewDeck(g.rng)
	g.deck.Shuffle()

	if g.round == 1 {
		// Button starts on the highest seat so the lowest joined seat acts first.
		g.dealerPos = g.lastActivePosLocked()
	} else {
		g.dealerPos = g.nextActiveFrom(g.dealerPos + 1)
	}

	// Two hole cards each, one at a time, ascending player id.
	// Reproducible for a given shuffle.
	for i := 0; i < 2; i++ {
		for _, id := range g.order {
			p := g.players[id]
			if !p.active {
				continue
			}
			c, err := g.deck.Deal()
			if err != nil {
				return fmt.Errorf("deal hole card: %w", err)
			}
			p.addHandCard(c)
		}
	}

	g.phase = PhasePreflop
	g.curPos = g.nextActorFrom(g.dealerPos + 1)
	return nil
}

// PlaceBet commits amount additional chips for the acting player.
// Zero is a check and is only legal when the player already matches the
// current bet. A bet that leaves the player below the current bet is
// rejected unless it puts them all-in. Rejected bets mutate nothing.
func (g *Game) PlaceBet(id uint32, amount int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.players[id]
	if !ok {
		return ErrUnknownPlayer
	}
	if !g.bettingOpenLocked() {
		return ErrNoActiveHand
	}
	if !p.active {
		return ErrInactivePlayer
	}
	if g.curPos < 0 || g.order[g.curPos] != id {
		return ErrOutOfTurn
	}
	if amount < 0 {
		return ErrInvalidBet
	}
	if amount > p.cash {
		return ErrInsufficientFunds
	}

	newBet := p.bet + amount
	allInCall := amount == p.cash
	if newBet < g.curBet && !allInCall {
		return ErrInvalidBet
	}

	p.commitBet(amount)
	g.pot += amount
	p.acted = true

	if newBet > g.curBet {
		// 加注：其余玩家需要重新表态
		g.curBet = newBet
		for _, other := range g.players {
			if other.ID == id || !other.active || other.allIn {
				continue
			}
			other.acted = false
		}
	}

	return g.advanceLocked()
}

// Fold retires the acting player from the hand.
func (g *Game) Fold(id uint32) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.players[id]
	if !ok {
		return ErrUnknownPlayer
	}
	if !g.bettingOpenLocked() {
		return ErrNoActiveHand
	}
	if !p.active {
		return ErrInactivePlayer
	}
	if g.curPos < 0 || g.order[g.curPos] != id {
		return ErrOutOfTurn
	}

	p.active = false
	p.acted = true

	if g.activeCountLocked() <= 1 {
		return g.endByFoldLocked()
	}
	return g.advanceLocked()
}

func (g *Game) bettingOpenLocked() bool {
	return !g.handEnded && g.phase >= PhasePreflop && g.phase <= PhaseRiver
}

// advanceLocked moves the turn pointer or, when the betting round is
// complete, advances the phase. Phases where nobody can act (everyone
// all-in) are dealt through until river.
func (g *Game) advanceLocked() error {
	for {
		if !g.roundCompleteLocked() {
			g.curPos = g.nextActorFrom(g.curPos + 1)
			return nil
		}
		if g.phase == PhaseRiver {
			return g.settleShowdownLocked()
		}

		g.phase++
		g.curBet = 0
		for _, p := range g.players {
			p.resetForNewRound()
		}
		if err := g.dealCommunityLocked(); err != nil {
			return err
		}
		g.curPos = g.nextActorFrom(g.dealerPos + 1)
		if g.curPos >= 0 {
			return nil
		}
		// no one can act on this street; keep dealing
	}
}

// roundCompleteLocked reports whether every active player has either
// matched the current bet or gone all-in, and has acted since the last
// raise.
func (g *Game) roundCompleteLocked() bool {
	for _, p := range g.players {
		if !p.active || p.allIn {
			continue
		}
		if !p.acted || p.bet != g.curBet {
			return false
		}
	}
	return true
}

func (g *Game) dealCommunityLocked() error {
	for len(g.community) < communityCardTarget(g.phase) {
		c, err := g.deck.Deal()
		if err != nil {
			return fmt.Errorf("deal community card: %w", err)
		}
		g.community = append(g.community, c)
	}
	return nil
}

// nextActiveFrom scans seats cyclically for the first active player.
// Returns -1 when at most one player remains active; callers must end the
// hand instead of scanning.
func (g *Game) nextActiveFrom(start int) int {
	if g.activeCountLocked() <= 1 || len(g.order) == 0 {
		return -1
	}
	for i := 0; i < len(g.order); i++ {
		pos := (start + i) % len(g.order)
		if g.players[g.order[pos]].active {
			return pos
		}
	}
	return -1
}

// nextActorFrom is nextActiveFrom restricted to players who still have a
// decision to make (not all-in).
func (g *Game) nextActorFrom(start int) int {
	if len(g.order) == 0 {
		return -1
	}
	for i := 0; i < len(g.order); i++ {
		pos := (start + i) % len(g.order)
		p := g.players[g.order[pos]]
		if p.active && !p.allIn {
			return pos
		}
	}
	return -1
}

func (g *Game) lastActivePosLocked() int {
	for i := len(g.order) - 1; i >= 0; i-- {
		if g.players[g.order[i]].active {
			return i
		}
	}
	return -1
}

func (g *Game) activeCountLocked() int {
	n := 0
	for _, p := range g.players {
		if p.active {
			n++
		}
	}
	return n
}

func (g *Game) fundedCountLocked() int {
	n := 0
	for _, p := range g.players {
		if p.cash > 0 {
			n++
		}
	}
	return n
}

// --- read accessors ---

func (g *Game) Phase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

func (g *Game) Pot() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pot
}

func (g *Game) Round() uint16 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.round
}

func (g *Game) HandEnded() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.handEnded
}

func (g *Game) PlayerCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.players)
}

// CurrentPlayer returns the id of the player whose turn it is, or 0 when no
// action is pending.
func (g *Game) CurrentPlayer() uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.curPos < 0 || !g.bettingOpenLocked() {
		return 0
	}
	return g.order[g.curPos]
}
