// Package table hosts the coordinator: a single-writer actor that owns the
// game state. All inbound actions from all client sessions funnel into one
// event channel and are applied strictly one at a time, in arrival order.
// Every applied mutation produces one broadcast of the resulting state.
package table

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"cardtable/holdem"
	"cardtable/internal/protocol"
)

// Sink is one registered outbound connection. Send must not block; it
// reports false when the connection can no longer accept data, which drops
// it from the registry without affecting delivery to the others.
type Sink interface {
	Send(data []byte) bool
}

type EventType int

const (
	EventJoin EventType = iota
	EventBet
	EventFold
	EventLeave
	EventStartHand
	EventClose
)

// Event is one message to the table actor.
type Event struct {
	Type     EventType
	PlayerID uint32
	Name     string
	Amount   int64
	Sink     Sink
	Response chan error
}

type Config struct {
	MaxPlayers   int
	MinPlayers   int
	StartingCash int64
	Seed         int64

	// Pause between a settled hand and the next deal.
	NextHandDelay time.Duration
}

var ErrTableClosed = errors.New("table closed")

const defaultNextHandDelay = 3 * time.Second

type Table struct {
	ID string

	mu         sync.RWMutex
	game       *holdem.Game
	sinks      map[uint32]Sink
	closed     bool
	stopOnce   sync.Once
	nextHandAt time.Time
	delay      time.Duration

	events chan Event
	done   chan struct{}
}

func New(cfg Config) (*Table, error) {
	game, err := holdem.NewGame(holdem.Config{
		MaxPlayers:   cfg.MaxPlayers,
		MinPlayers:   cfg.MinPlayers,
		StartingCash: cfg.StartingCash,
		Seed:         cfg.Seed,
	})
	if err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}

	delay := cfg.NextHandDelay
	if delay <= 0 {
		delay = defaultNextHandDelay
	}

	t := &Table{
		ID:     uuid.NewString(),
		game:   game,
		sinks:  make(map[uint32]Sink),
		delay:  delay,
		events: make(chan Event, 256),
		done:   make(chan struct{}),
	}
	go t.run()

	log.Printf("[Table %s] Created (max=%d, min=%d, cash=%d)", t.ID, cfg.MaxPlayers, cfg.MinPlayers, cfg.StartingCash)
	return t, nil
}

// run is the actor loop: the only goroutine that mutates the game.
func (t *Table) run() {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case event := <-t.events:
			err := t.handleEvent(event)
			if event.Response != nil {
				event.Response <- err
			}
		case <-ticker.C:
			t.tick()
		case <-t.done:
			log.Printf("[Table %s] Actor stopped", t.ID)
			return
		}
	}
}

func (t *Table) handleEvent(e Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed && e.Type != EventClose {
		return ErrTableClosed
	}

	switch e.Type {
	case EventJoin:
		return t.handleJoin(e.PlayerID, e.Name, e.Sink)
	case EventBet:
		return t.handleBet(e.PlayerID, e.Amount)
	case EventFold:
		return t.handleFold(e.PlayerID)
	case EventLeave:
		t.handleLeave(e.PlayerID)
		return nil
	case EventStartHand:
		return t.handleStartHand()
	case EventClose:
		t.stopLocked()
		return nil
	default:
		return fmt.Errorf("unknown event type: %d", e.Type)
	}
}

func (t *Table) handleJoin(id uint32, name string, sink Sink) error {
	if err := t.game.AddPlayer(id, name); err != nil {
		return err
	}
	if sink != nil {
		t.sinks[id] = sink
		t.sendWelcomeLocked(id, sink)
	}
	log.Printf("[Table %s] Player %d (%s) joined, total: %d", t.ID, id, name, t.game.PlayerCount())
	t.broadcastLocked()
	return nil
}

func (t *Table) handleBet(id uint32, amount int64) error {
	if err := t.game.PlaceBet(id, amount); err != nil {
		return err
	}
	log.Printf("[Table %s] Player %d bet %d (pot=%d, phase=%s)", t.ID, id, amount, t.game.Pot(), t.game.Phase())
	t.afterActionLocked()
	return nil
}

func (t *Table) handleFold(id uint32) error {
	if err := t.game.Fold(id); err != nil {
		return err
	}
	log.Printf("[Table %s] Player %d folded (phase=%s)", t.ID, id, t.game.Phase())
	t.afterActionLocked()
	return nil
}

func (t *Table) afterActionLocked() {
	t.broadcastLocked()
	if t.game.HandEnded() && t.nextHandAt.IsZero() {
		t.nextHandAt = time.Now().Add(t.delay)
	}
}

// handleLeave removes the outbound connection only. The seat is held and
// the player is not folded; their turn still has to be played from another
// connection or the hand waits.
func (t *Table) handleLeave(id uint32) {
	if _, ok := t.sinks[id]; !ok {
		return
	}
	delete(t.sinks, id)
	log.Printf("[Table %s] Player %d connection removed, remaining: %d", t.ID, id, len(t.sinks))
}

func (t *Table) handleStartHand() error {
	t.nextHandAt = time.Time{}
	if err := t.game.StartNextHand(); err != nil {
		log.Printf("[Table %s] Next hand not started: %v", t.ID, err)
		return nil
	}
	log.Printf("[Table %s] Hand %d started", t.ID, t.game.Round())
	t.broadcastLocked()
	return nil
}

// tick schedules the next hand after the inter-hand pause.
func (t *Table) tick() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed || t.nextHandAt.IsZero() {
		return
	}
	if time.Now().Before(t.nextHandAt) {
		return
	}
	t.handleStartHand()
}

func (t *Table) sendWelcomeLocked(id uint32, sink Sink) {
	data, err := protocol.Encode(&protocol.Message{
		Kind:    protocol.KindWelcome,
		Welcome: &protocol.Welcome{PlayerID: id, TableID: t.ID},
	})
	if err != nil {
		log.Printf("[Table %s] Failed to encode welcome: %v", t.ID, err)
		return
	}
	if !sink.Send(data) {
		delete(t.sinks, id)
	}
}

// broadcastLocked pushes a per-viewer snapshot to every registered
// connection. A failed write drops that connection and never blocks or
// fails delivery to the others.
func (t *Table) broadcastLocked() {
	for id, sink := range t.sinks {
		snap := t.game.Snapshot(id)
		data, err := protocol.Encode(&protocol.Message{
			Kind:   protocol.KindUpdate,
			Update: &snap,
		})
		if err != nil {
			log.Printf("[Table %s] Failed to encode snapshot: %v", t.ID, err)
			continue
		}
		if !sink.Send(data) {
			delete(t.sinks, id)
			log.Printf("[Table %s] Dropped dead connection for player %d", t.ID, id)
		}
	}
}

// SubmitEvent sends an event to the actor and waits for the result.
func (t *Table) SubmitEvent(e Event) error {
	if e.Response == nil {
		e.Response = make(chan error, 1)
	}

	t.mu.RLock()
	closed := t.closed
	t.mu.RUnlock()
	if closed {
		return ErrTableClosed
	}

	select {
	case t.events <- e:
	case <-t.done:
		return ErrTableClosed
	}

	select {
	case err := <-e.Response:
		return err
	case <-t.done:
		return ErrTableClosed
	}
}

// Snapshot returns the current state as seen by one viewer.
func (t *Table) Snapshot(viewer uint32) holdem.Snapshot {
	return t.game.Snapshot(viewer)
}

// Stop shuts down the table actor.
func (t *Table) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

func (t *Table) stopLocked() {
	t.closed = true
	t.stopOnce.Do(func() {
		close(t.done)
	})
}
