package bots

import (
	"math/rand"

	"github.com/notnil/chess"
	"go.uber.org/zap"

	"chessduel/rules"
)

type RandomBot struct {
	rng *rand.Rand
	log *zap.SugaredLogger
}

// NewRandomBot builds a bot drawing from its own source seeded with seed.
// Two bots with the same seed pick the same moves on the same positions.
func NewRandomBot(seed int64, log *zap.SugaredLogger) *RandomBot {
	return NewRandomBotWithSource(rand.New(rand.NewSource(seed)), log)
}

func NewRandomBotWithSource(rng *rand.Rand, log *zap.SugaredLogger) *RandomBot {
	return &RandomBot{rng: rng, log: nopIfNil(log)}
}

func (b *RandomBot) BestMove(board *rules.Board) (*chess.Move, error) {
	moves := board.LegalMoves()
	if len(moves) == 0 {
		return nil, ErrNoLegalMoves
	}
	move := moves[b.rng.Intn(len(moves))]
	b.log.Infow("random bot selected move", "move", move.String())
	return move, nil
}

func (b *RandomBot) Name() string {
	return "Random Bot"
}
