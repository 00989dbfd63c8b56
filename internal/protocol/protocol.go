// Package protocol defines the wire messages exchanged between clients and
// the table server, and the length-prefixed framing that carries them.
package protocol

import (
	"encoding/json"
	"fmt"

	"cardtable/holdem"
)

type Kind string

const (
	// client -> server
	KindJoin Kind = "join"
	KindBet  Kind = "bet"
	KindFold Kind = "fold"

	// server -> client
	KindWelcome Kind = "welcome"
	KindUpdate  Kind = "update"
	KindError   Kind = "error"
)

type Join struct {
	Name string `json:"name"`
}

type Bet struct {
	PlayerID uint32 `json:"playerId"`
	Amount   int64  `json:"amount"`
}

type Fold struct {
	PlayerID uint32 `json:"playerId"`
}

// Welcome tells a freshly joined client the player id the server assigned.
type Welcome struct {
	PlayerID uint32 `json:"playerId"`
	TableID  string `json:"tableId"`
}

// ErrorInfo is the observable rejection for a bad action: the table state is
// unchanged and only the acting client receives it.
type ErrorInfo struct {
	Code   int32  `json:"code"`
	Reason string `json:"reason"`
}

// Message is the tagged wire variant. Exactly one payload field is set,
// matching Kind.
type Message struct {
	Kind    Kind             `json:"kind"`
	Join    *Join            `json:"join,omitempty"`
	Bet     *Bet             `json:"bet,omitempty"`
	Fold    *Fold            `json:"fold,omitempty"`
	Welcome *Welcome         `json:"welcome,omitempty"`
	Update  *holdem.Snapshot `json:"update,omitempty"`
	Error   *ErrorInfo       `json:"error,omitempty"`
}

// Validate checks that the payload matches the tag.
func (m *Message) Validate() error {
	switch m.Kind {
	case KindJoin:
		if m.Join == nil {
			return fmt.Errorf("join message without join payload")
		}
	case KindBet:
		if m.Bet == nil {
			return fmt.Errorf("bet message without bet payload")
		}
	case KindFold:
		if m.Fold == nil {
			return fmt.Errorf("fold message without fold payload")
		}
	case KindWelcome:
		if m.Welcome == nil {
			return fmt.Errorf("welcome message without welcome payload")
		}
	case KindUpdate:
		if m.Update == nil {
			return fmt.Errorf("update message without snapshot payload")
		}
	case KindError:
		if m.Error == nil {
			return fmt.Errorf("error message without error payload")
		}
	default:
		return fmt.Errorf("unknown message kind %q", m.Kind)
	}
	return nil
}

func Encode(m *Message) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(m)
}

func Decode(data []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}
