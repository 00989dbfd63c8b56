package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"cardtable/internal/client"
	"cardtable/internal/protocol"
)

func main() {
	var (
		addr = flag.String("addr", "127.0.0.1:8080", "server address")
		name = flag.String("name", "", "player name")
	)
	flag.Parse()
	if *name == "" {
		log.Fatalf("[Client] -name is required")
	}

	c, err := client.Dial(*addr, *name)
	if err != nil {
		log.Fatalf("[Client] %v", err)
	}
	defer c.Close()

	pterm.DefaultHeader.Printfln("Joined table %s as %s (player %d)", c.TableID(), c.Name(), c.PlayerID())
	renderer := client.NewRenderer(c.PlayerID())

	done := make(chan struct{})
	go func() {
		defer close(done)
		err := c.Listen(func(msg *protocol.Message) {
			switch msg.Kind {
			case protocol.KindUpdate:
				renderer.Render(msg.Update)
				if msg.Update.CurrentID == c.PlayerID() {
					pterm.Info.Println("Your turn: bet <amount> | check | fold")
				}
			case protocol.KindError:
				pterm.Error.Printfln("Server: %s", msg.Error.Reason)
			}
		})
		if err != nil {
			pterm.Error.Printfln("Connection lost: %v", err)
		}
	}()

	go readCommands(c)
	<-done
}

// readCommands parses player input from stdin until EOF or quit.
func readCommands(c *client.Client) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		var err error
		switch fields[0] {
		case "bet", "raise", "call":
			if len(fields) != 2 {
				fmt.Println("usage: bet <amount>")
				continue
			}
			amount, perr := strconv.ParseInt(fields[1], 10, 64)
			if perr != nil || amount < 0 {
				fmt.Println("amount must be a non-negative number")
				continue
			}
			err = c.Bet(amount)
		case "check":
			err = c.Bet(0)
		case "fold":
			err = c.Fold()
		case "quit", "exit":
			c.Close()
			return
		default:
			fmt.Println("commands: bet <amount> | check | fold | quit")
			continue
		}
		if err != nil {
			pterm.Error.Printfln("Send failed: %v", err)
			return
		}
	}
}
