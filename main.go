package main

import (
	"image/color"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/notnil/chess"
	"go.uber.org/zap"

	"chessduel/bots"
	"chessduel/config"
	"chessduel/game"
)

const (
	btnWidth  = 200
	btnHeight = 60
)

var (
	screenWidth  int
	screenHeight int
	squareSize   int

	lightSquare = color.RGBA{240, 217, 181, 255}
	darkSquare  = color.RGBA{181, 136, 99, 255}
)

var pieceLetters = map[chess.PieceType]string{
	chess.King:   "K",
	chess.Queen:  "Q",
	chess.Rook:   "R",
	chess.Bishop: "B",
	chess.Knight: "N",
	chess.Pawn:   "P",
}

// view is what Draw renders. It is refreshed after every move so drawing never
// waits on a running search.
type view struct {
	squares [64]chess.Piece
	turn    chess.Color
	over    bool
	result  string
}

type Game struct {
	log   *zap.SugaredLogger
	depth int

	mu      sync.Mutex // guards session
	session *game.Session

	viewMu sync.RWMutex
	view   view

	pieces       map[chess.Piece]*ebiten.Image
	squares      [2]*ebiten.Image
	selected     chess.Square
	dragging     *chess.Piece
	dragX, dragY int
	playerColor  chess.Color
	gameStarted  bool
	botThinking  atomic.Bool
	boardOffsetX int
	boardOffsetY int
}

func NewGame(depth int, log *zap.SugaredLogger) *Game {
	// Размеры экрана
	screenWidth, screenHeight = ebiten.ScreenSizeInFullscreen()

	boardHeight := screenHeight - 80
	squareSize = boardHeight / 8
	if screenWidth/8 < squareSize {
		squareSize = screenWidth / 8
	}

	boardWidth := squareSize * 8
	g := &Game{
		log:          log,
		depth:        depth,
		pieces:       make(map[chess.Piece]*ebiten.Image),
		selected:     chess.NoSquare,
		boardOffsetX: (screenWidth - boardWidth) / 2,
		boardOffsetY: (screenHeight - boardHeight) / 2,
	}
	g.buildImages()
	return g
}

func (g *Game) buildImages() {
	g.squares[0] = ebiten.NewImage(squareSize, squareSize)
	g.squares[0].Fill(lightSquare)
	g.squares[1] = ebiten.NewImage(squareSize, squareSize)
	g.squares[1].Fill(darkSquare)

	size := squareSize * 3 / 4
	for _, c := range []chess.Color{chess.White, chess.Black} {
		for t, letter := range pieceLetters {
			img := ebiten.NewImage(size, size)
			if c == chess.White {
				img.Fill(color.RGBA{250, 250, 250, 255})
			} else {
				img.Fill(color.RGBA{30, 30, 30, 255})
			}
			ebitenutil.DebugPrintAt(img, letter, size/2-3, size/2-8)
			g.pieces[pieceOf(t, c)] = img
		}
	}
}

var (
	whitePieces = map[chess.PieceType]chess.Piece{
		chess.King: chess.WhiteKing, chess.Queen: chess.WhiteQueen, chess.Rook: chess.WhiteRook,
		chess.Bishop: chess.WhiteBishop, chess.Knight: chess.WhiteKnight, chess.Pawn: chess.WhitePawn,
	}
	blackPieces = map[chess.PieceType]chess.Piece{
		chess.King: chess.BlackKing, chess.Queen: chess.BlackQueen, chess.Rook: chess.BlackRook,
		chess.Bishop: chess.BlackBishop, chess.Knight: chess.BlackKnight, chess.Pawn: chess.BlackPawn,
	}
)

func pieceOf(t chess.PieceType, c chess.Color) chess.Piece {
	if c == chess.White {
		return whitePieces[t]
	}
	return blackPieces[t]
}

func (g *Game) refresh() {
	var v view
	for sq := 0; sq < 64; sq++ {
		v.squares[sq] = g.session.PieceAt(chess.Square(sq))
	}
	v.turn = g.session.CurrentSide()
	v.over = g.session.IsOver()
	if v.over {
		outcome, method := g.session.Outcome()
		v.result = outcome.String() + " (" + method.String() + ")"
	}

	g.viewMu.Lock()
	g.view = v
	g.viewMu.Unlock()
}

func (g *Game) snapshot() view {
	g.viewMu.RLock()
	defer g.viewMu.RUnlock()
	return g.view
}

func (g *Game) Update() error {
	if !g.gameStarted {
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			x, y := ebiten.CursorPosition()
			btnY := screenHeight/2 + 100

			if y > btnY && y < btnY+btnHeight {
				if x > screenWidth/2-btnWidth-20 && x < screenWidth/2-20 {
					g.startGame(chess.White)
				} else if x > screenWidth/2+20 && x < screenWidth/2+20+btnWidth {
					g.startGame(chess.Black)
				}
			}
		}
		return nil
	}

	v := g.snapshot()
	if v.over || v.turn != g.playerColor || g.botThinking.Load() {
		return nil
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if sq, ok := g.squareUnderCursor(); ok {
			piece := v.squares[sq]
			if piece != chess.NoPiece && piece.Color() == g.playerColor {
				g.selected = sq
				g.dragging = &piece
			}
		}
	}
	if g.dragging != nil {
		g.dragX, g.dragY = ebiten.CursorPosition()
	}

	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) && g.dragging != nil {
		if target, ok := g.squareUnderCursor(); ok {
			g.tryMove(g.selected, target)
		}
		g.selected = chess.NoSquare
		g.dragging = nil
	}
	return nil
}

func (g *Game) squareUnderCursor() (chess.Square, bool) {
	x, y := ebiten.CursorPosition()
	x -= g.boardOffsetX
	y -= g.boardOffsetY
	if x < 0 || x >= squareSize*8 || y < 0 || y >= squareSize*8 {
		return chess.NoSquare, false
	}
	file := x / squareSize
	rank := 7 - y/squareSize
	return chess.Square(file + rank*8), true
}

func (g *Game) tryMove(from, to chess.Square) {
	g.mu.Lock()
	defer g.mu.Unlock()

	move := g.session.FindMove(from, to)
	if move == nil || !g.session.AttemptMove(move) {
		g.log.Debugw("move rejected", "from", from.String(), "to", to.String())
		return
	}
	g.refresh()
	g.startBot()
}

func (g *Game) startGame(playerColor chess.Color) {
	g.playerColor = playerColor
	bot := bots.NewMinimaxBot(g.depth, g.log)

	var err error
	if playerColor == chess.White {
		g.session, err = game.NewSession(nil, bot, game.WithLogger(g.log))
	} else {
		g.session, err = game.NewSession(bot, nil, game.WithLogger(g.log))
	}
	if err != nil {
		g.log.Fatalw("failed to start game", "error", err)
	}
	g.gameStarted = true
	g.refresh()

	g.mu.Lock()
	g.startBot()
	g.mu.Unlock()
}

// startBot must be called with mu held.
func (g *Game) startBot() {
	if !g.session.IsCurrentPlayerBot() || g.session.IsOver() {
		return
	}
	g.botThinking.Store(true)
	go g.makeBotMove()
}

func (g *Game) makeBotMove() {
	defer g.botThinking.Store(false)

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, err := g.session.PlayTurn(); err != nil {
		g.log.Errorw("bot move failed", "error", err)
	}
	g.refresh()
}

func (g *Game) Draw(screen *ebiten.Image) {
	if !g.gameStarted {
		// Экран выбора цвета
		ebitenutil.DebugPrintAt(screen, "Chess in Go", screenWidth/2-40, screenHeight/2-50)
		ebitenutil.DebugPrintAt(screen, "Choose your colour:", screenWidth/2-60, screenHeight/2)

		whiteBtn := ebiten.NewImage(btnWidth, btnHeight)
		whiteBtn.Fill(color.RGBA{200, 200, 200, 255})
		ebitenutil.DebugPrintAt(whiteBtn, "Play white", 65, 20)
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(screenWidth/2-btnWidth-20), float64(screenHeight/2+100))
		screen.DrawImage(whiteBtn, op)

		blackBtn := ebiten.NewImage(btnWidth, btnHeight)
		blackBtn.Fill(color.RGBA{50, 50, 50, 255})
		ebitenutil.DebugPrintAt(blackBtn, "Play black", 65, 20)
		op = &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(screenWidth/2+20), float64(screenHeight/2+100))
		screen.DrawImage(blackBtn, op)
		return
	}

	v := g.snapshot()

	// Доска
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(float64(x*squareSize+g.boardOffsetX), float64(y*squareSize+g.boardOffsetY))
			screen.DrawImage(g.squares[(x+y)%2], op)
		}
	}

	// Фигуры
	inset := float64(squareSize) / 8
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			sq := chess.Square(x + (7-y)*8)
			piece := v.squares[sq]
			if piece == chess.NoPiece || (g.dragging != nil && sq == g.selected) {
				continue
			}
			if img := g.pieces[piece]; img != nil {
				op := &ebiten.DrawImageOptions{}
				op.GeoM.Translate(
					float64(x*squareSize+g.boardOffsetX)+inset,
					float64(y*squareSize+g.boardOffsetY)+inset,
				)
				screen.DrawImage(img, op)
			}
		}
	}

	if g.dragging != nil {
		if img := g.pieces[*g.dragging]; img != nil {
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(
				float64(g.dragX)-float64(squareSize)*3/8,
				float64(g.dragY)-float64(squareSize)*3/8,
			)
			screen.DrawImage(img, op)
		}
	}

	status := "Your move"
	switch {
	case v.over:
		status = "Game over"
	case g.botThinking.Load():
		status = "Bot is thinking..."
	case v.turn != g.playerColor:
		status = "Bot to move"
	}
	ebitenutil.DebugPrintAt(screen, status, 20, 20)

	if v.over {
		ebitenutil.DebugPrintAt(screen, "Result: "+v.result, screenWidth/2-50, 20)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	cfg, err := config.Setup(".env")
	if err != nil {
		panic("failed to setup configuration: " + err.Error())
	}
	logger, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync() //nolint:errcheck

	g := NewGame(cfg.SearchDepth, logger)
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Chess in Go")
	ebiten.SetWindowResizable(true)
	if err := ebiten.RunGame(g); err != nil {
		logger.Fatalw("game loop stopped", "error", err)
	}
}
