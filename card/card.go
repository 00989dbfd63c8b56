package card

import "fmt"

// Card 牌枚举
//
// 编码规则:
// - 高4位: 花色 (0:Spade, 1:Heart, 2:Club, 3:Diamond)
// - 低4位: 点数 (1:A, 2..9, 10:T, 11:J, 12:Q, 13:K)
type Card byte

const CardInvalid Card = 0

// Make builds a card from suit and rank (A=1 .. K=13).
func Make(s Suit, rank byte) Card {
	if s > Diamond || rank == 0 || rank > 13 {
		return CardInvalid
	}
	return Card(byte(s)<<4 | rank)
}

func (c Card) String() string {
	if c == CardInvalid {
		return "??"
	}
	rank := c.Rank()
	rankStr := ""
	switch rank {
	case 1:
		rankStr = "A"
	case 10:
		rankStr = "T"
	case 11:
		rankStr = "J"
	case 12:
		rankStr = "Q"
	case 13:
		rankStr = "K"
	default:
		rankStr = fmt.Sprintf("%d", rank)
	}
	return fmt.Sprintf("%s%s", c.Suit(), rankStr)
}

// Rank 获取牌面值 1-13 (A=1, K=13)
func (c Card) Rank() byte {
	return byte(c & 0x0F)
}

// Suit 花色 (0:Spades, 1:Hearts, 2:Clubs, 3:Diamonds)
func (c Card) Suit() Suit {
	return Suit(c >> 4)
}

// Value 返回用于比较大小的点数: A 视为 14，其它为原始点数。
// Ordering is by rank only; suit never breaks ties.
func (c Card) Value() int {
	r := int(c & 0x0F)
	if r == 1 {
		return 14
	}
	return r
}

// Less orders two cards ace-high, by rank only.
func (c Card) Less(other Card) bool {
	return c.Value() < other.Value()
}
