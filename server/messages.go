package server

import (
	"github.com/notnil/chess"

	"chessduel/game"
)

const (
	msgBotMove    = "bot_move"
	msgGameUpdate = "game_update"
	msgError      = "error"
)

// clientMessage is either {"type":"bot_move"} or {"move":"e2e4"}.
type clientMessage struct {
	Type string `json:"type"`
	Move string `json:"move"`
}

type GameUpdate struct {
	Type          string  `json:"type"`
	GameID        string  `json:"game_id"`
	Mode          string  `json:"mode"`
	Board         string  `json:"board"`
	CurrentPlayer string  `json:"current_player"`
	IsGameOver    bool    `json:"is_game_over"`
	LastMove      *string `json:"last_move"`
	Result        string  `json:"result,omitempty"`
	Method        string  `json:"method,omitempty"`
}

type errorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func newErrorMessage(text string) errorMessage {
	return errorMessage{Type: msgError, Message: text}
}

func sideName(c chess.Color) string {
	if c == chess.White {
		return "white"
	}
	return "black"
}

func snapshot(id string, s *game.Session) GameUpdate {
	update := GameUpdate{
		Type:          msgGameUpdate,
		GameID:        id,
		Mode:          s.Mode().String(),
		Board:         s.FEN(),
		CurrentPlayer: sideName(s.CurrentSide()),
		IsGameOver:    s.IsOver(),
	}
	if last := s.LastMove(); last != nil {
		uci := last.String()
		update.LastMove = &uci
	}
	if update.IsGameOver {
		outcome, method := s.Outcome()
		update.Result = outcome.String()
		update.Method = method.String()
	}
	return update
}
