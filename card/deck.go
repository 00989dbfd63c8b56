package card

import (
	"errors"
	"math/rand"
)

// DeckSize is the number of cards in a fresh deck.
const DeckSize = 52

// ErrEmptyDeck is returned by Deal once all 52 cards have been drawn.
var ErrEmptyDeck = errors.New("deck is empty")

// Deck 一副 52 张的标准扑克牌。
// Dealing pops from the tail, the end most recently shuffled to.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// NewDeck builds an ordered deck of one card per rank×suit pair.
func NewDeck(rng *rand.Rand) *Deck {
	cards := make([]Card, 0, DeckSize)
	for s := Spade; s <= Diamond; s++ {
		for rank := byte(1); rank <= 13; rank++ {
			cards = append(cards, Make(s, rank))
		}
	}
	return &Deck{cards: cards, rng: rng}
}

// Shuffle applies a uniform permutation to the remaining cards.
// The set of cards never changes, only their order.
func (d *Deck) Shuffle() {
	if d.rng != nil {
		d.rng.Shuffle(len(d.cards), func(i, j int) {
			d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
		})
		return
	}
	rand.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Deal removes and returns the top card.
func (d *Deck) Deal() (Card, error) {
	n := len(d.cards)
	if n == 0 {
		return CardInvalid, ErrEmptyDeck
	}
	c := d.cards[n-1]
	d.cards = d.cards[:n-1]
	return c, nil
}

// Remaining 剩余牌数
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Cards returns a copy of the remaining cards in order.
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}
