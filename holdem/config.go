package holdem

import "fmt"

// maxSeats bounds the table so one deck always suffices:
// 2 hole cards per player + 5 community cards => 2n+5 <= 52.
const maxSeats = 23

type Config struct {
	// Table
	MaxPlayers int
	MinPlayers int

	// Chips each joining player is seeded with.
	StartingCash int64

	// RNG seed (0 => time-based)
	Seed int64
}

func (c Config) validate() error {
	if c.MaxPlayers <= 0 {
		return fmt.Errorf("MaxPlayers must be > 0")
	}
	if c.MaxPlayers > maxSeats {
		return fmt.Errorf("MaxPlayers must be <= %d (one deck)", maxSeats)
	}
	if c.MinPlayers < 2 {
		return fmt.Errorf("MinPlayers must be >= 2")
	}
	if c.MinPlayers > c.MaxPlayers {
		return fmt.Errorf("MinPlayers must be <= MaxPlayers")
	}
	if c.StartingCash <= 0 {
		return fmt.Errorf("StartingCash must be > 0")
	}
	return nil
}
