package protocol

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"cardtable/holdem"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	msg := &Message{Kind: KindBet, Bet: &Bet{PlayerID: 7, Amount: 50}}
	if err := WriteMessage(&buf, msg); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := ReadMessage(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Kind != KindBet || got.Bet == nil || got.Bet.PlayerID != 7 || got.Bet.Amount != 50 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

// Two messages written back to back must parse as two messages, regardless
// of how the reader's buffer boundaries fall.
func TestBackToBackMessages(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMessage(&buf, &Message{Kind: KindJoin, Join: &Join{Name: "Alice"}}); err != nil {
		t.Fatal(err)
	}
	if err := WriteMessage(&buf, &Message{Kind: KindFold, Fold: &Fold{PlayerID: 1}}); err != nil {
		t.Fatal(err)
	}

	first, err := ReadMessage(&buf)
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	if first.Kind != KindJoin || first.Join.Name != "Alice" {
		t.Fatalf("first message mismatch: %+v", first)
	}
	second, err := ReadMessage(&buf)
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	if second.Kind != KindFold || second.Fold.PlayerID != 1 {
		t.Fatalf("second message mismatch: %+v", second)
	}
}

// oneByteReader delivers a single byte per Read call, simulating a message
// split across many socket reads.
type oneByteReader struct {
	r io.Reader
}

func (o oneByteReader) Read(p []byte) (int, error) {
	if len(p) > 1 {
		p = p[:1]
	}
	return o.r.Read(p)
}

func TestMessageSplitAcrossReads(t *testing.T) {
	var buf bytes.Buffer
	snap := &holdem.Snapshot{Round: 3, Phase: holdem.PhaseFlop, Pot: 120}
	if err := WriteMessage(&buf, &Message{Kind: KindUpdate, Update: snap}); err != nil {
		t.Fatal(err)
	}

	got, err := ReadMessage(oneByteReader{&buf})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Update == nil || got.Update.Round != 3 || got.Update.Pot != 120 {
		t.Fatalf("snapshot mismatch: %+v", got.Update)
	}
}

func TestOversizedFrameRejected(t *testing.T) {
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], MaxFrameSize+1)
	if _, err := ReadFrame(bytes.NewReader(header[:])); err == nil {
		t.Fatalf("expected oversized frame to be rejected")
	}
}

func TestTruncatedFrameIsError(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMessage(&buf, &Message{Kind: KindFold, Fold: &Fold{PlayerID: 2}}); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()
	if _, err := ReadFrame(bytes.NewReader(data[:len(data)-2])); err != io.ErrUnexpectedEOF {
		t.Fatalf("expected ErrUnexpectedEOF, got %v", err)
	}
}

func TestMismatchedPayloadRejected(t *testing.T) {
	if _, err := Decode([]byte(`{"kind":"bet"}`)); err == nil {
		t.Fatalf("bet without payload must not decode")
	}
	if _, err := Decode([]byte(`{"kind":"nonsense"}`)); err == nil {
		t.Fatalf("unknown kind must not decode")
	}
}
