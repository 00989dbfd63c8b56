// Package client implements the interactive table client: a TCP connection
// speaking the framed protocol plus a terminal renderer for state broadcasts.
package client

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"

	"cardtable/internal/protocol"
)

// Client is one player's connection to a table.
type Client struct {
	conn net.Conn
	r    *bufio.Reader

	playerID uint32
	tableID  string
	name     string
}

// Dial connects, joins as name and waits for the server's welcome.
func Dial(addr, name string) (*Client, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	c := &Client{conn: conn, r: bufio.NewReader(conn), name: name}
	err = protocol.WriteMessage(conn, &protocol.Message{
		Kind: protocol.KindJoin,
		Join: &protocol.Join{Name: name},
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("send join: %w", err)
	}

	msg, err := protocol.ReadMessage(c.r)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("read welcome: %w", err)
	}
	switch msg.Kind {
	case protocol.KindWelcome:
		c.playerID = msg.Welcome.PlayerID
		c.tableID = msg.Welcome.TableID
	case protocol.KindError:
		conn.Close()
		return nil, fmt.Errorf("join rejected: %s", msg.Error.Reason)
	default:
		conn.Close()
		return nil, fmt.Errorf("expected welcome, got %q", msg.Kind)
	}
	return c, nil
}

func (c *Client) PlayerID() uint32 { return c.playerID }
func (c *Client) TableID() string  { return c.tableID }
func (c *Client) Name() string     { return c.name }

// Bet submits a bet of amount additional chips. Zero checks.
func (c *Client) Bet(amount int64) error {
	return protocol.WriteMessage(c.conn, &protocol.Message{
		Kind: protocol.KindBet,
		Bet:  &protocol.Bet{PlayerID: c.playerID, Amount: amount},
	})
}

func (c *Client) Fold() error {
	return protocol.WriteMessage(c.conn, &protocol.Message{
		Kind: protocol.KindFold,
		Fold: &protocol.Fold{PlayerID: c.playerID},
	})
}

// Listen reads server messages until the connection drops, invoking handle
// for each one. It returns nil on a clean close.
func (c *Client) Listen(handle func(*protocol.Message)) error {
	for {
		msg, err := protocol.ReadMessage(c.r)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		handle(msg)
	}
}

func (c *Client) Close() error {
	return c.conn.Close()
}
