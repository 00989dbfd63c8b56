package client

import (
	"github.com/pterm/pterm"

	"cardtable/card"
	"cardtable/holdem"
)

// Renderer draws state broadcasts as terminal panels.
type Renderer struct {
	selfID uint32
}

func NewRenderer(selfID uint32) *Renderer {
	return &Renderer{selfID: selfID}
}

// Render redraws the whole table view from one snapshot.
func (r *Renderer) Render(snap *holdem.Snapshot) {
	var others []pterm.Panel
	var self pterm.Panel
	for _, p := range snap.Players {
		panel := pterm.Panel{Data: r.playerBox(snap, p)}
		if p.ID == r.selfID {
			self = panel
		} else {
			others = append(others, panel)
		}
	}

	board := pterm.Panel{Data: r.boardBox(snap)}
	bottom := []pterm.Panel{self}
	if snap.Result != nil {
		bottom = append(bottom, pterm.Panel{Data: r.resultBox(snap.Result)})
	}

	pterm.DefaultPanel.WithPanels([][]pterm.Panel{
		others,
		{board},
		bottom,
	}).Render()
}

func (r *Renderer) playerBox(snap *holdem.Snapshot, p holdem.PlayerSnapshot) string {
	hpadding := 4
	if p.ID == r.selfID {
		hpadding = 10
	}
	box := pterm.DefaultBox.WithLeftPadding(hpadding).WithRightPadding(hpadding).WithTopPadding(1).WithBottomPadding(1)

	var status string
	switch {
	case p.AllIn:
		status = pterm.LightMagenta("All In")
	case p.Active:
		status = pterm.LightGreen("Active")
	case p.HasCards:
		status = pterm.LightRed("Folded")
	default:
		status = pterm.Cyan("Waiting")
	}

	hand := pterm.Gray("? ?")
	if len(p.Hand) > 0 {
		hand = cardsString(p.Hand)
	} else if !p.HasCards {
		hand = ""
	}

	title := p.Name
	if snap.CurrentID == p.ID {
		title = pterm.LightYellow("> " + p.Name)
	}
	return box.WithTitle(title).WithTitleTopLeft().Sprintf("%s\nBet: %d\nStack: %d\n%s", status, p.Bet, p.Cash, hand)
}

func (r *Renderer) boardBox(snap *holdem.Snapshot) string {
	board := cardsString(snap.Community)
	if len(snap.Community) == 0 {
		board = pterm.Gray("(no cards yet)")
	}
	box := pterm.DefaultBox.WithLeftPadding(4).WithRightPadding(4).WithTopPadding(1).WithBottomPadding(1)
	return box.WithTitle(pterm.LightYellow("|BOARD|")).WithTitleTopCenter().
		Sprintf("%s\nPot: %d  To call: %d  Hand #%d  %s", board, snap.Pot, snap.CurrentBet, snap.Round, snap.Phase)
}

func (r *Renderer) resultBox(res *holdem.HandResult) string {
	box := pterm.DefaultBox.WithLeftPadding(4).WithRightPadding(4).WithTopPadding(1).WithBottomPadding(1)
	info := ""
	for _, w := range res.Winners {
		if w.HandDesc != "" {
			info += pterm.Sprintfln("%s won %d with %s", pterm.LightCyan(w.Name), w.Amount, w.HandDesc)
		} else {
			info += pterm.Sprintfln("%s won %d taking down the pot", pterm.LightCyan(w.Name), w.Amount)
		}
	}
	return box.WithTitle(pterm.LightGreen("|SHOWDOWN|")).WithTitleTopCenter().Sprintf(info)
}

func cardsString(cards []card.Card) string {
	out := ""
	for i, c := range cards {
		if i > 0 {
			out += " "
		}
		if c.Suit() == card.Heart || c.Suit() == card.Diamond {
			out += pterm.LightRed(c.String())
		} else {
			out += pterm.LightWhite(c.String())
		}
	}
	return out
}
