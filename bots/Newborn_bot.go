package bots

import (
	"github.com/notnil/chess"

	"chessduel/rules"
)

// NewbornBot always plays the first legal move in generation order.
type NewbornBot struct{}

func NewNewbornBot() *NewbornBot {
	return &NewbornBot{}
}

func (b *NewbornBot) BestMove(board *rules.Board) (*chess.Move, error) {
	moves := board.LegalMoves()
	if len(moves) == 0 {
		return nil, ErrNoLegalMoves
	}
	return moves[0], nil
}

func (b *NewbornBot) Name() string {
	return "Newborn"
}
