package game

import (
	"context"

	"github.com/notnil/chess"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"chessduel/bots"
	"chessduel/rules"
)

var ErrIllegalBotMove = errors.New("game: bot returned an illegal move")

type Option func(s *sessionConfig)

type sessionConfig struct {
	fen string
	log *zap.SugaredLogger
}

// WithFEN starts the session from the given position instead of the initial one.
func WithFEN(fen string) Option {
	return func(c *sessionConfig) {
		c.fen = fen
	}
}

func WithLogger(log *zap.SugaredLogger) Option {
	return func(c *sessionConfig) {
		if log != nil {
			c.log = log
		}
	}
}

// Session is one match between two player slots. A nil slot is a human whose
// moves arrive through AttemptMove. A Session is not safe for concurrent use.
type Session struct {
	board *rules.Board
	turn  chess.Color
	white bots.ChessBot
	black bots.ChessBot
	mode  Mode
	log   *zap.SugaredLogger
}

func NewSession(white, black bots.ChessBot, options ...Option) (*Session, error) {
	cfg := sessionConfig{log: zap.NewNop().Sugar()}
	for _, option := range options {
		option(&cfg)
	}

	board := rules.NewBoard()
	if cfg.fen != "" {
		var err error
		if board, err = rules.FromFEN(cfg.fen); err != nil {
			return nil, err
		}
	}

	s := &Session{
		board: board,
		turn:  board.Turn(),
		white: white,
		black: black,
		mode:  modeFor(white, black),
		log:   cfg.log,
	}
	s.log.Infow("new game", "mode", s.mode.String(), "white", playerName(white), "black", playerName(black))
	return s, nil
}

func playerName(bot bots.ChessBot) string {
	if bot == nil {
		return "human"
	}
	return bot.Name()
}

// AttemptMove plays m if it is legal for the side to move. On failure nothing
// changes.
func (s *Session) AttemptMove(m *chess.Move) bool {
	if !s.board.IsLegal(m) {
		return false
	}
	if err := s.board.Push(m); err != nil {
		s.log.Errorw("legal move rejected", "move", m.String(), "error", err)
		return false
	}
	s.turn = s.turn.Other()
	s.log.Debugw("move played", "move", m.String(), "fen", s.board.FEN())
	return true
}

// PlayTurn lets the bot to move pick and play its move. It reports false
// without acting when the game is over or a human is to move.
func (s *Session) PlayTurn() (bool, error) {
	if s.IsOver() {
		return false, nil
	}
	bot := s.Player(s.turn)
	if bot == nil {
		return false, nil
	}

	move, err := bot.BestMove(s.board)
	if err != nil {
		return false, errors.Wrapf(err, "game: %s", bot.Name())
	}
	if !s.AttemptMove(move) {
		return false, errors.Wrapf(ErrIllegalBotMove, "%s played %s", bot.Name(), move)
	}
	return true, nil
}

// PlayBots plays bot turns until a human is to move, the game ends or ctx is
// done. It returns how many moves were played.
func (s *Session) PlayBots(ctx context.Context) (int, error) {
	played := 0
	for s.IsCurrentPlayerBot() && !s.IsOver() {
		if err := ctx.Err(); err != nil {
			return played, err
		}
		moved, err := s.PlayTurn()
		if err != nil {
			return played, err
		}
		if !moved {
			break
		}
		played++
	}
	return played, nil
}

func (s *Session) Player(c chess.Color) bots.ChessBot {
	if c == chess.White {
		return s.white
	}
	return s.black
}

func (s *Session) CurrentSide() chess.Color {
	return s.turn
}

func (s *Session) IsCurrentPlayerBot() bool {
	return s.Player(s.turn) != nil
}

func (s *Session) Mode() Mode {
	return s.mode
}

func (s *Session) IsOver() bool {
	return s.board.IsGameOver()
}

func (s *Session) Outcome() (chess.Outcome, chess.Method) {
	return s.board.Result()
}

func (s *Session) FEN() string {
	return s.board.FEN()
}

func (s *Session) LastMove() *chess.Move {
	return s.board.LastMove()
}

func (s *Session) LegalMoves() []*chess.Move {
	return s.board.LegalMoves()
}

func (s *Session) PieceAt(sq chess.Square) chess.Piece {
	return s.board.PieceAt(sq)
}

func (s *Session) ParseMove(uci string) (*chess.Move, error) {
	return s.board.ParseMove(uci)
}

func (s *Session) FindMove(from, to chess.Square) *chess.Move {
	return s.board.FindMove(from, to)
}
