package bots

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chessduel/rules"
)

func TestRandomBotIsReproducible(t *testing.T) {
	board := rules.NewBoard()
	first := NewRandomBot(42, nil)
	second := NewRandomBot(42, nil)

	for i := 0; i < 10; i++ {
		a, err := first.BestMove(board)
		require.NoError(t, err)
		b, err := second.BestMove(board)
		require.NoError(t, err)
		assert.Equal(t, a.String(), b.String())
	}
}

func TestRandomBotSameSeedSameMoveEachCall(t *testing.T) {
	board := boardFromFEN(t, pawnEndgameFEN)
	var picked string
	for i := 0; i < 5; i++ {
		move, err := NewRandomBot(7, nil).BestMove(board)
		require.NoError(t, err)
		if i == 0 {
			picked = move.String()
		}
		assert.Equal(t, picked, move.String())
	}
}

func TestBotsPickLegalMovesThroughoutAGame(t *testing.T) {
	board := rules.NewBoard()
	driver := NewRandomBotWithSource(rand.New(rand.NewSource(1)), nil)
	players := []ChessBot{NewRandomBot(3, nil), NewNewbornBot(), NewMinimaxBot(1, nil)}

	for ply := 0; ply < 30 && !board.IsGameOver(); ply++ {
		before := board.FEN()
		for _, bot := range players {
			move, err := bot.BestMove(board)
			require.NoError(t, err, bot.Name())
			assert.True(t, isLegal(board, move), "%s picked %s in %s", bot.Name(), move, before)
			assert.Equal(t, before, board.FEN(), bot.Name())
		}

		move, err := driver.BestMove(board)
		require.NoError(t, err)
		require.NoError(t, board.Push(move))
	}
}

func TestBotsRefuseFinishedGames(t *testing.T) {
	board := boardFromFEN(t, foolsMateFEN)
	for _, bot := range []ChessBot{NewRandomBot(1, nil), NewNewbornBot()} {
		move, err := bot.BestMove(board)
		assert.ErrorIs(t, err, ErrNoLegalMoves, bot.Name())
		assert.Nil(t, move)
	}
}

func TestNewbornBotPlaysFirstMove(t *testing.T) {
	board := rules.NewBoard()
	move, err := NewNewbornBot().BestMove(board)
	require.NoError(t, err)
	assert.Equal(t, board.LegalMoves()[0].String(), move.String())
}

func TestNew(t *testing.T) {
	tests := []struct {
		kind    Kind
		name    string
		isHuman bool
		wantErr bool
	}{
		{kind: "", isHuman: true},
		{kind: KindHuman, isHuman: true},
		{kind: KindSmart, name: "Minimax Bot (depth 3)"},
		{kind: "SMART", name: "Minimax Bot (depth 3)"},
		{kind: KindRandom, name: "Random Bot"},
		{kind: KindNewborn, name: "Newborn"},
		{kind: "stockfish", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			bot, err := New(tt.kind, Options{Depth: 3, Seed: 1})
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownKind)
				return
			}
			require.NoError(t, err)
			if tt.isHuman {
				assert.Nil(t, bot)
				return
			}
			require.NotNil(t, bot)
			assert.Equal(t, tt.name, bot.Name())
		})
	}
}

func TestTypes(t *testing.T) {
	types := Types()
	require.Len(t, types, 2)
	assert.Equal(t, KindSmart, types[0].ID)
	assert.Equal(t, KindRandom, types[1].ID)
}
