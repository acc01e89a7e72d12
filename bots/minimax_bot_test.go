package bots

import (
	"fmt"
	"testing"

	"github.com/notnil/chess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chessduel/rules"
)

// fullMinimax is plain minimax without pruning, scored for root.
func fullMinimax(b *MinimaxBot, board *rules.Board, root chess.Color, depth int, maximizing bool) int {
	if depth == 0 || board.IsGameOver() {
		return b.leafScore(board, root)
	}
	best := Infinity
	if maximizing {
		best = -Infinity
	}
	for _, move := range board.LegalMoves() {
		if err := board.Push(move); err != nil {
			panic(err)
		}
		score := fullMinimax(b, board, root, depth-1, !maximizing)
		board.Pop()
		if maximizing {
			best = max(best, score)
		} else {
			best = min(best, score)
		}
	}
	return best
}

func isLegal(board *rules.Board, m *chess.Move) bool {
	for _, legal := range board.LegalMoves() {
		if legal.String() == m.String() {
			return true
		}
	}
	return false
}

func TestMinimaxBotNoLegalMoves(t *testing.T) {
	for _, fen := range []string{foolsMateFEN, stalemateFEN} {
		move, err := NewMinimaxBot(2, nil).BestMove(boardFromFEN(t, fen))
		assert.ErrorIs(t, err, ErrNoLegalMoves)
		assert.Nil(t, move)
	}
}

func TestMinimaxBotLeavesBoardUnchanged(t *testing.T) {
	for depth := 1; depth <= 4; depth++ {
		t.Run(fmt.Sprintf("depth %d", depth), func(t *testing.T) {
			board := boardFromFEN(t, rookEndgameFEN)
			before := board.FEN()

			move, err := NewMinimaxBot(depth, nil).BestMove(board)
			require.NoError(t, err)
			assert.True(t, isLegal(board, move))
			assert.Equal(t, before, board.FEN())
			assert.Equal(t, 0, board.Depth())
		})
	}
}

func TestAlphaBetaMatchesPlainMinimax(t *testing.T) {
	positions := []string{rookEndgameFEN, pawnEndgameFEN, mateInOneFEN, kingOnEdgeFEN}
	for _, fen := range positions {
		for depth := 1; depth <= 2; depth++ {
			t.Run(fmt.Sprintf("%s depth %d", fen, depth), func(t *testing.T) {
				bot := NewMinimaxBot(depth, nil)
				board := boardFromFEN(t, fen)
				root := board.Turn()

				score, move := bot.Search(board, depth, -Infinity, Infinity, true)
				want := fullMinimax(bot, board, root, depth, true)
				require.Equal(t, want, score)
				require.NotNil(t, move)

				// The chosen move must be one of the equally best ones.
				require.NoError(t, board.Push(move))
				moveScore := fullMinimax(bot, board, root, depth-1, false)
				board.Pop()
				assert.Equal(t, want, moveScore)
			})
		}
	}
}

func TestAlphaBetaMatchesPlainMinimaxDepthThree(t *testing.T) {
	bot := NewMinimaxBot(3, nil)
	board := boardFromFEN(t, rookEndgameFEN)

	score, _ := bot.Search(board, 3, -Infinity, Infinity, true)
	assert.Equal(t, fullMinimax(bot, board, board.Turn(), 3, true), score)
}

func TestMinimaxBotFindsMateInOne(t *testing.T) {
	for depth := 1; depth <= 2; depth++ {
		bot := NewMinimaxBot(depth, nil)
		board := boardFromFEN(t, mateInOneFEN)

		score, move := bot.Search(board, depth, -Infinity, Infinity, true)
		require.NotNil(t, move)
		assert.Equal(t, "d8h4", move.String())
		assert.Equal(t, MateScore, score)
	}
}

func TestMinimaxBotAvoidsMateInOne(t *testing.T) {
	bot := NewMinimaxBot(2, nil)
	board := boardFromFEN(t, afterF3E5FEN)

	score, move := bot.Search(board, 2, -Infinity, Infinity, true)
	require.NotNil(t, move)
	assert.NotEqual(t, "g2g4", move.String())
	assert.Greater(t, score, -MateScore)
}

func TestMinimaxBotStartingPositionDoesNotHangMate(t *testing.T) {
	board := rules.NewBoard()
	move, err := NewMinimaxBot(2, nil).BestMove(board)
	require.NoError(t, err)
	require.True(t, isLegal(board, move))

	require.NoError(t, board.Push(move))
	for _, reply := range board.LegalMoves() {
		require.NoError(t, board.Push(reply))
		assert.False(t, board.IsCheckmate(), "reply %s mates", reply)
		board.Pop()
	}
}

func TestMinimaxBotFallsBackOnFinishedGameWithMoves(t *testing.T) {
	// Insufficient material ends the game, but the kings can still move.
	board := boardFromFEN(t, bareKingsFEN)
	move, err := NewMinimaxBot(3, nil).BestMove(board)
	require.NoError(t, err)
	assert.Equal(t, board.LegalMoves()[0].String(), move.String())
}

func TestNewMinimaxBotDefaults(t *testing.T) {
	bot := NewMinimaxBot(0, nil)
	assert.Equal(t, DefaultDepth, bot.Depth)
	assert.Equal(t, "Minimax Bot (depth 4)", bot.Name())
}
