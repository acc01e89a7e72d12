// bot.go
package bots

import (
	"github.com/notnil/chess"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"chessduel/rules"
)

// ErrNoLegalMoves is returned when a bot is asked to move in a finished game.
var ErrNoLegalMoves = errors.New("bots: no legal moves")

// ChessBot интерфейс для всех ботов
type ChessBot interface {
	// BestMove picks one of board's legal moves. The board must be left
	// exactly as it was passed in.
	BestMove(board *rules.Board) (*chess.Move, error)
	Name() string
}

// PositionEvaluator scores a position for the side to move.
type PositionEvaluator interface {
	Evaluate(board *rules.Board) int
}

func nopIfNil(log *zap.SugaredLogger) *zap.SugaredLogger {
	if log == nil {
		return zap.NewNop().Sugar()
	}
	return log
}
