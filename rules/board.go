package rules

import (
	"strings"

	"github.com/notnil/chess"
	"github.com/pkg/errors"
)

// Board is a chess position backed by a stack of game snapshots.
// Push applies a move to a clone of the top snapshot, Pop discards it,
// so the position below is never touched.
type Board struct {
	games []*chess.Game
}

func NewBoard() *Board {
	return &Board{games: []*chess.Game{chess.NewGame(chess.UseNotation(chess.UCINotation{}))}}
}

func FromFEN(fen string) (*Board, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, errors.Wrapf(err, "rules: invalid fen %q", fen)
	}
	return &Board{games: []*chess.Game{chess.NewGame(opt, chess.UseNotation(chess.UCINotation{}))}}, nil
}

func (b *Board) top() *chess.Game {
	return b.games[len(b.games)-1]
}

func (b *Board) Position() *chess.Position {
	return b.top().Position()
}

func (b *Board) Turn() chess.Color {
	return b.Position().Turn()
}

// LegalMoves returns the legal moves in the engine's generation order.
func (b *Board) LegalMoves() []*chess.Move {
	return b.top().ValidMoves()
}

func (b *Board) IsLegal(m *chess.Move) bool {
	return b.find(m) != nil
}

func (b *Board) find(m *chess.Move) *chess.Move {
	if m == nil {
		return nil
	}
	for _, legal := range b.LegalMoves() {
		if legal.S1() == m.S1() && legal.S2() == m.S2() && legal.Promo() == m.Promo() {
			return legal
		}
	}
	return nil
}

// ParseMove decodes a move in UCI notation (e2e4, e7e8q). The result is not
// checked for legality.
func (b *Board) ParseMove(uci string) (*chess.Move, error) {
	m, err := chess.UCINotation{}.Decode(b.Position(), strings.ToLower(strings.TrimSpace(uci)))
	if err != nil {
		return nil, errors.Wrapf(err, "rules: bad move %q", uci)
	}
	return m, nil
}

// FindMove returns the legal move going from s1 to s2, preferring a queen
// promotion when several promotions match.
func (b *Board) FindMove(s1, s2 chess.Square) *chess.Move {
	var found *chess.Move
	for _, m := range b.LegalMoves() {
		if m.S1() != s1 || m.S2() != s2 {
			continue
		}
		if m.Promo() == chess.NoPieceType || m.Promo() == chess.Queen {
			return m
		}
		if found == nil {
			found = m
		}
	}
	return found
}

func (b *Board) Push(m *chess.Move) error {
	legal := b.find(m)
	if legal == nil {
		return errors.Errorf("rules: illegal move %s in %s", m, b.FEN())
	}
	next := b.top().Clone()
	if err := next.Move(legal); err != nil {
		return errors.Wrap(err, "rules: apply move")
	}
	b.games = append(b.games, next)
	return nil
}

// Pop undoes the most recent Push. It reports false when there is nothing
// left to undo.
func (b *Board) Pop() bool {
	if len(b.games) == 1 {
		return false
	}
	b.games[len(b.games)-1] = nil
	b.games = b.games[:len(b.games)-1]
	return true
}

// Depth is the number of moves pushed on top of the initial position.
func (b *Board) Depth() int {
	return len(b.games) - 1
}

func (b *Board) LastMove() *chess.Move {
	moves := b.top().Moves()
	if len(moves) == 0 {
		return nil
	}
	return moves[len(moves)-1]
}

func (b *Board) FEN() string {
	return b.top().FEN()
}

func (b *Board) IsCheckmate() bool {
	return b.Position().Status() == chess.Checkmate
}

func (b *Board) IsStalemate() bool {
	return b.Position().Status() == chess.Stalemate
}

func (b *Board) IsInsufficientMaterial() bool {
	return insufficientMaterial(b.Position().Board())
}

func (b *Board) IsGameOver() bool {
	return b.IsCheckmate() || b.IsStalemate() || b.IsInsufficientMaterial() ||
		b.top().Outcome() != chess.NoOutcome
}

// Result reports the outcome and how it was reached. Insufficient material is
// reported even when the engine has not recorded it on the game.
func (b *Board) Result() (chess.Outcome, chess.Method) {
	g := b.top()
	if g.Outcome() != chess.NoOutcome {
		return g.Outcome(), g.Method()
	}
	switch {
	case b.IsCheckmate():
		if b.Turn() == chess.White {
			return chess.BlackWon, chess.Checkmate
		}
		return chess.WhiteWon, chess.Checkmate
	case b.IsStalemate():
		return chess.Draw, chess.Stalemate
	case b.IsInsufficientMaterial():
		return chess.Draw, chess.InsufficientMaterial
	}
	return chess.NoOutcome, chess.NoMethod
}

func (b *Board) PieceAt(sq chess.Square) chess.Piece {
	return b.Position().Board().Piece(sq)
}

// Pieces lists the squares holding pieces of type t and colour c, a1 first.
func (b *Board) Pieces(t chess.PieceType, c chess.Color) []chess.Square {
	board := b.Position().Board()
	var squares []chess.Square
	for sq := chess.A1; sq <= chess.H8; sq++ {
		if p := board.Piece(sq); p.Type() == t && p.Color() == c {
			squares = append(squares, sq)
		}
	}
	return squares
}

func (b *Board) Count(t chess.PieceType, c chess.Color) int {
	return len(b.Pieces(t, c))
}

func (b *Board) KingSquare(c chess.Color) (chess.Square, bool) {
	kings := b.Pieces(chess.King, c)
	if len(kings) == 0 {
		return chess.NoSquare, false
	}
	return kings[0], true
}

// WithTurn returns a detached board holding the same pieces with c to move.
// The en passant target is cleared since it belongs to the previous mover.
func (b *Board) WithTurn(c chess.Color) (*Board, error) {
	fields := strings.Fields(b.FEN())
	if len(fields) < 4 {
		return nil, errors.Errorf("rules: malformed fen %q", b.FEN())
	}
	fields[1] = c.String()
	fields[3] = "-"
	return FromFEN(strings.Join(fields, " "))
}

func insufficientMaterial(board *chess.Board) bool {
	var knights, lightBishops, darkBishops, kings int
	for sq := chess.A1; sq <= chess.H8; sq++ {
		switch board.Piece(sq).Type() {
		case chess.Queen, chess.Rook, chess.Pawn:
			return false
		case chess.King:
			kings++
		case chess.Knight:
			knights++
		case chess.Bishop:
			if (int(sq.File())+int(sq.Rank()))%2 == 0 {
				darkBishops++
			} else {
				lightBishops++
			}
		}
	}
	if kings < 2 {
		return false
	}
	minors := knights + lightBishops + darkBishops
	if minors <= 1 {
		return true
	}
	return knights == 0 && (lightBishops == 0 || darkBishops == 0)
}
