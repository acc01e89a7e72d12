package bots

import (
	"fmt"

	"github.com/notnil/chess"
	"go.uber.org/zap"

	"chessduel/rules"
)

const DefaultDepth = 4

type MinimaxBot struct {
	Depth     int
	Evaluator PositionEvaluator
	log       *zap.SugaredLogger
	fallback  ChessBot
	nodes     int
}

func NewMinimaxBot(depth int, log *zap.SugaredLogger) *MinimaxBot {
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &MinimaxBot{
		Depth:     depth,
		Evaluator: DefaultEvaluator{},
		log:       nopIfNil(log),
		fallback:  NewNewbornBot(),
	}
}

func (b *MinimaxBot) Name() string {
	return fmt.Sprintf("Minimax Bot (depth %d)", b.Depth)
}

func (b *MinimaxBot) BestMove(board *rules.Board) (*chess.Move, error) {
	if len(board.LegalMoves()) == 0 {
		return nil, ErrNoLegalMoves
	}

	b.nodes = 0
	score, move := b.Search(board, b.Depth, -Infinity, Infinity, true)
	if move == nil {
		b.log.Warnw("search found no move, falling back", "fen", board.FEN())
		return b.fallback.BestMove(board)
	}

	b.log.Infow("minimax bot selected move",
		"move", move.String(),
		"score", score,
		"depth", b.Depth,
		"nodes", b.nodes)
	return move, nil
}

type scoredMove struct {
	move  *chess.Move
	score int
}

// Search runs minimax with alpha-beta pruning. With maximizing set, scores are
// from the point of view of the side to move on board, otherwise from its
// opponent's. Every pushed move is popped before Search returns.
func (b *MinimaxBot) Search(board *rules.Board, depth, alpha, beta int, maximizing bool) (int, *chess.Move) {
	root := board.Turn()
	if !maximizing {
		root = root.Other()
	}
	result := b.search(board, root, depth, alpha, beta, maximizing)
	return result.score, result.move
}

func (b *MinimaxBot) search(board *rules.Board, root chess.Color, depth, alpha, beta int, maximizing bool) scoredMove {
	b.nodes++
	if depth == 0 || board.IsGameOver() {
		return scoredMove{nil, b.leafScore(board, root)}
	}

	var best scoredMove
	if maximizing {
		best.score = -Infinity
		for _, move := range board.LegalMoves() {
			if err := board.Push(move); err != nil {
				continue
			}
			current := b.search(board, root, depth-1, alpha, beta, false)
			board.Pop()

			if current.score > best.score {
				best = scoredMove{move, current.score}
			}
			alpha = max(alpha, current.score)
			if beta <= alpha {
				break
			}
		}
	} else {
		best.score = Infinity
		for _, move := range board.LegalMoves() {
			if err := board.Push(move); err != nil {
				continue
			}
			current := b.search(board, root, depth-1, alpha, beta, true)
			board.Pop()

			if current.score < best.score {
				best = scoredMove{move, current.score}
			}
			beta = min(beta, current.score)
			if beta <= alpha {
				break
			}
		}
	}
	return best
}

// leafScore turns the evaluator's side-to-move score into the root side's view.
func (b *MinimaxBot) leafScore(board *rules.Board, root chess.Color) int {
	score := b.Evaluator.Evaluate(board)
	if board.Turn() != root {
		return -score
	}
	return score
}
