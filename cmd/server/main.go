package main

import (
	"flag"
	"log"

	"cardtable/internal/gateway"
	"cardtable/internal/table"
)

func main() {
	var (
		addr    = flag.String("addr", ":8080", "TCP listen address")
		wsAddr  = flag.String("ws", "", "optional WebSocket listen address (e.g. :8081)")
		cash    = flag.Int64("cash", 100, "starting stack for every player")
		minSeat = flag.Int("min", 2, "players needed to start a hand")
		maxSeat = flag.Int("max", 8, "seats at the table")
		seed    = flag.Int64("seed", 0, "deck RNG seed, 0 for random")
	)
	flag.Parse()

	tbl, err := table.New(table.Config{
		MaxPlayers:   *maxSeat,
		MinPlayers:   *minSeat,
		StartingCash: *cash,
		Seed:         *seed,
	})
	if err != nil {
		log.Fatalf("[Server] Failed to create table: %v", err)
	}
	defer tbl.Stop()

	srv := gateway.New(tbl)
	if *wsAddr != "" {
		go func() {
			if err := srv.ListenAndServeWS(*wsAddr); err != nil {
				log.Fatalf("[Server] WebSocket endpoint failed: %v", err)
			}
		}()
	}

	log.Printf("[Server] Table %s starting on %s (cash=%d)", tbl.ID, *addr, *cash)
	if err := srv.ListenAndServe(*addr); err != nil {
		log.Fatalf("[Server] Failed to start: %v", err)
	}
}
