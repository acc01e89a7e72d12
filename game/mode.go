package game

import "chessduel/bots"

type Mode int

const (
	HumanVsHuman Mode = iota
	HumanVsBot
	BotVsBot
)

func (m Mode) String() string {
	switch m {
	case HumanVsHuman:
		return "human_vs_human"
	case HumanVsBot:
		return "human_vs_bot"
	case BotVsBot:
		return "bot_vs_bot"
	}
	return "unknown"
}

func modeFor(white, black bots.ChessBot) Mode {
	switch {
	case white != nil && black != nil:
		return BotVsBot
	case white != nil || black != nil:
		return HumanVsBot
	}
	return HumanVsHuman
}
