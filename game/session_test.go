package game

import (
	"context"
	"strings"
	"testing"

	"github.com/notnil/chess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chessduel/bots"
	"chessduel/rules"
)

const (
	foolsMateFEN     = "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"
	backRankMateFEN  = "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1"
	initialFEN       = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	afterE4FENPrefix = "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b"
)

// illegalBot always answers with a move nobody can play.
type illegalBot struct{}

func (illegalBot) BestMove(board *rules.Board) (*chess.Move, error) {
	return board.ParseMove("a1a8")
}

func (illegalBot) Name() string { return "illegal" }

func sideInFEN(fen string) string {
	return strings.Fields(fen)[1]
}

func assertSideConsistent(t *testing.T, s *Session) {
	t.Helper()
	assert.Equal(t, s.CurrentSide().String(), sideInFEN(s.FEN()))
}

func newSession(t *testing.T, white, black bots.ChessBot, opts ...Option) *Session {
	t.Helper()
	s, err := NewSession(white, black, opts...)
	require.NoError(t, err)
	return s
}

func TestModeIsDerivedFromSlots(t *testing.T) {
	bot := bots.NewNewbornBot()
	tests := []struct {
		white, black bots.ChessBot
		want         Mode
	}{
		{nil, nil, HumanVsHuman},
		{bot, nil, HumanVsBot},
		{nil, bot, HumanVsBot},
		{bot, bots.NewRandomBot(1, nil), BotVsBot},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			s := newSession(t, tt.white, tt.black)
			assert.Equal(t, tt.want, s.Mode())
		})
	}
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "human_vs_human", HumanVsHuman.String())
	assert.Equal(t, "human_vs_bot", HumanVsBot.String())
	assert.Equal(t, "bot_vs_bot", BotVsBot.String())
	assert.Equal(t, "unknown", Mode(42).String())
}

func TestNewSessionRejectsBadFEN(t *testing.T) {
	_, err := NewSession(nil, nil, WithFEN("8/8/8"))
	require.Error(t, err)
}

func TestAttemptMove(t *testing.T) {
	s := newSession(t, nil, nil)
	assert.Equal(t, initialFEN, s.FEN())
	assert.Equal(t, chess.White, s.CurrentSide())

	m, err := s.ParseMove("e2e4")
	require.NoError(t, err)
	require.True(t, s.AttemptMove(m))
	assert.Equal(t, chess.Black, s.CurrentSide())
	assert.True(t, strings.HasPrefix(s.FEN(), afterE4FENPrefix))
	assert.Equal(t, "e2e4", s.LastMove().String())
	assertSideConsistent(t, s)
}

func TestAttemptIllegalMoveChangesNothing(t *testing.T) {
	s := newSession(t, nil, nil)
	before := s.FEN()

	for _, uci := range []string{"e2e5", "e7e5", "a1a8"} {
		m, err := s.ParseMove(uci)
		require.NoError(t, err)
		assert.False(t, s.AttemptMove(m), uci)
		assert.Equal(t, chess.White, s.CurrentSide())
		assert.Equal(t, before, s.FEN())
	}
	assert.False(t, s.AttemptMove(nil))
	assert.Nil(t, s.LastMove())
}

func TestPlayTurnHumanToMoveIsNoop(t *testing.T) {
	s := newSession(t, nil, bots.NewNewbornBot())
	assert.False(t, s.IsCurrentPlayerBot())

	moved, err := s.PlayTurn()
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, initialFEN, s.FEN())
}

func TestPlayTurnBotMoves(t *testing.T) {
	s := newSession(t, bots.NewRandomBot(5, nil), nil)
	require.True(t, s.IsCurrentPlayerBot())

	moved, err := s.PlayTurn()
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, chess.Black, s.CurrentSide())
	assert.False(t, s.IsCurrentPlayerBot())
	assertSideConsistent(t, s)
}

func TestPlayTurnOnCheckmateIsNoop(t *testing.T) {
	s := newSession(t, bots.NewNewbornBot(), bots.NewMinimaxBot(2, nil), WithFEN(foolsMateFEN))
	require.Equal(t, BotVsBot, s.Mode())
	require.True(t, s.IsOver())

	for i := 0; i < 3; i++ {
		moved, err := s.PlayTurn()
		require.NoError(t, err)
		assert.False(t, moved)
		assert.Equal(t, foolsMateFEN, s.FEN())
		assert.Equal(t, chess.White, s.CurrentSide())
	}

	played, err := s.PlayBots(context.Background())
	require.NoError(t, err)
	assert.Zero(t, played)

	outcome, method := s.Outcome()
	assert.Equal(t, chess.BlackWon, outcome)
	assert.Equal(t, chess.Checkmate, method)
}

func TestPlayTurnReportsIllegalBotMove(t *testing.T) {
	s := newSession(t, illegalBot{}, nil)
	moved, err := s.PlayTurn()
	assert.ErrorIs(t, err, ErrIllegalBotMove)
	assert.False(t, moved)
	assert.Equal(t, initialFEN, s.FEN())
}

func TestPlayBotsStopsAtHuman(t *testing.T) {
	s := newSession(t, nil, bots.NewMinimaxBot(1, nil))
	m, err := s.ParseMove("e2e4")
	require.NoError(t, err)
	require.True(t, s.AttemptMove(m))

	played, err := s.PlayBots(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, played)
	assert.Equal(t, chess.White, s.CurrentSide())
	assertSideConsistent(t, s)
}

func TestPlayBotsStopsAtGameOver(t *testing.T) {
	s := newSession(t, bots.NewMinimaxBot(1, nil), bots.NewNewbornBot(), WithFEN(backRankMateFEN))

	played, err := s.PlayBots(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, played)
	assert.True(t, s.IsOver())
	assert.Equal(t, "a1a8", s.LastMove().String())

	outcome, _ := s.Outcome()
	assert.Equal(t, chess.WhiteWon, outcome)
}

func TestPlayBotsHonoursContext(t *testing.T) {
	s := newSession(t, bots.NewNewbornBot(), bots.NewNewbornBot())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	played, err := s.PlayBots(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, played)
	assert.Equal(t, initialFEN, s.FEN())
}
