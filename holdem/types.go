package holdem

// Phase 游戏阶段, strictly forward within one hand.
type Phase byte

const (
	PhaseWaiting  Phase = 0
	PhasePreflop  Phase = 1
	PhaseFlop     Phase = 2
	PhaseTurn     Phase = 3
	PhaseRiver    Phase = 4
	PhaseShowdown Phase = 5
)

var PhaseDictionary = map[Phase]string{
	PhaseWaiting:  "waiting",
	PhasePreflop:  "preflop",
	PhaseFlop:     "flop",
	PhaseTurn:     "turn",
	PhaseRiver:    "river",
	PhaseShowdown: "showdown",
}

func (p Phase) String() string {
	if s, ok := PhaseDictionary[p]; ok {
		return s
	}
	return "unknown"
}

// communityCardTarget 每个阶段应有的公共牌数量: PreFlop=0, Flop=3, Turn=4, River=5
func communityCardTarget(p Phase) int {
	switch p {
	case PhaseFlop:
		return 3
	case PhaseTurn:
		return 4
	case PhaseRiver, PhaseShowdown:
		return 5
	default:
		return 0
	}
}
