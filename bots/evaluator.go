package bots

import (
	"github.com/notnil/chess"

	"chessduel/rules"
)

const (
	// MateScore is what a mated side to move scores. It stays far above any
	// material and positional sum so a mate is never outranked.
	MateScore = 9999999
	// Infinity bounds the search window, beyond MateScore.
	Infinity = 1 << 30
)

const (
	MobilityWeight  = 10
	PawnCountWeight = 5
	PawnShieldBonus = 30
	OpenFilePenalty = 25
)

type DefaultEvaluator struct{}

// Evaluate scores the position in centipawns from the point of view of the
// side to move.
func (e DefaultEvaluator) Evaluate(board *rules.Board) int {
	if board.IsCheckmate() {
		return -MateScore
	}
	if board.IsStalemate() || board.IsInsufficientMaterial() {
		return 0
	}

	endgame := e.IsEndgame(board)
	squares := board.Position().Board()
	score := e.materialScore(squares, endgame) +
		e.mobilityScore(board)*MobilityWeight +
		e.pawnCountScore(board)*PawnCountWeight

	if !endgame {
		score += e.kingSafety(squares, chess.White)
		score -= e.kingSafety(squares, chess.Black)
	}

	if board.Turn() == chess.Black {
		score = -score
	}
	return score
}

// IsEndgame is true with no queens left, or with one queen each and at most
// two minor pieces on the whole board.
func (e DefaultEvaluator) IsEndgame(board *rules.Board) bool {
	queens := board.Count(chess.Queen, chess.White) + board.Count(chess.Queen, chess.Black)
	minors := board.Count(chess.Knight, chess.White) + board.Count(chess.Knight, chess.Black) +
		board.Count(chess.Bishop, chess.White) + board.Count(chess.Bishop, chess.Black)
	return queens == 0 || (queens == 2 && minors <= 2)
}

func (e DefaultEvaluator) materialScore(squares *chess.Board, endgame bool) int {
	var score int
	for sq := chess.A1; sq <= chess.H8; sq++ {
		piece := squares.Piece(sq)
		if piece == chess.NoPiece {
			continue
		}
		value := pieceValues[piece.Type()] + pieceSquareValue(piece, sq, endgame)
		if piece.Color() == chess.White {
			score += value
		} else {
			score -= value
		}
	}
	return score
}

// mobilityScore is White's legal move count minus Black's, each counted as if
// that side were to move.
func (e DefaultEvaluator) mobilityScore(board *rules.Board) int {
	white, ok := e.moveCount(board, chess.White)
	if !ok {
		return 0
	}
	black, ok := e.moveCount(board, chess.Black)
	if !ok {
		return 0
	}
	return white - black
}

func (e DefaultEvaluator) moveCount(board *rules.Board, c chess.Color) (int, bool) {
	if board.Turn() == c {
		return len(board.LegalMoves()), true
	}
	flipped, err := board.WithTurn(c)
	if err != nil {
		return 0, false
	}
	return len(flipped.LegalMoves()), true
}

func (e DefaultEvaluator) pawnCountScore(board *rules.Board) int {
	return board.Count(chess.Pawn, chess.White) - board.Count(chess.Pawn, chess.Black)
}

// kingSafety rewards pawns sheltering the king one rank ahead and penalises
// files next to the king without a friendly pawn.
func (e DefaultEvaluator) kingSafety(squares *chess.Board, c chess.Color) int {
	king := chess.WhiteKing
	if c == chess.Black {
		king = chess.BlackKing
	}
	kingSq, ok := findPiece(squares, king)
	if !ok {
		return 0
	}
	pawn := chess.WhitePawn
	forward := 1
	if c == chess.Black {
		pawn = chess.BlackPawn
		forward = -1
	}

	kingFile := int(kingSq.File())
	shieldRank := int(kingSq.Rank()) + forward

	var score int
	for f := max(0, kingFile-1); f <= min(7, kingFile+1); f++ {
		if shieldRank >= 0 && shieldRank < 8 &&
			squares.Piece(chess.NewSquare(chess.File(f), chess.Rank(shieldRank))) == pawn {
			score += PawnShieldBonus
		}
		if !fileHasPiece(squares, chess.File(f), pawn) {
			score -= OpenFilePenalty
		}
	}
	return score
}

func fileHasPiece(squares *chess.Board, f chess.File, p chess.Piece) bool {
	for r := chess.Rank1; r <= chess.Rank8; r++ {
		if squares.Piece(chess.NewSquare(f, r)) == p {
			return true
		}
	}
	return false
}

func findPiece(squares *chess.Board, p chess.Piece) (chess.Square, bool) {
	for sq := chess.A1; sq <= chess.H8; sq++ {
		if squares.Piece(sq) == p {
			return sq, true
		}
	}
	return chess.NoSquare, false
}
