package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"chessduel/bots"
	"chessduel/config"
	"chessduel/game"
)

const writeWait = 5 * time.Second

func deadline() time.Time {
	return time.Now().Add(writeWait)
}

type Handler struct {
	cfg      config.Config
	log      *zap.SugaredLogger
	registry *Registry
	upgrader websocket.Upgrader
}

func NewHandler(cfg config.Config, log *zap.SugaredLogger, registry *Registry) *Handler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Handler{
		cfg:      cfg,
		log:      log,
		registry: registry,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	WriteResponseWithStatus(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) BotTypes(w http.ResponseWriter, r *http.Request) {
	WriteResponseWithStatus(w, http.StatusOK, map[string][]bots.Type{"bot_types": bots.Types()})
}

func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "invalid game id")
		return
	}
	m, ok := h.registry.get(id)
	if !ok {
		WriteErrorResponse(w, http.StatusNotFound, "game not found")
		return
	}
	WriteResponseWithStatus(w, http.StatusOK, m.snapshot())
}

func (h *Handler) seed() int64 {
	if h.cfg.RandomSeed != 0 {
		return h.cfg.RandomSeed
	}
	return time.Now().UnixNano()
}

func (h *Handler) newSession(whiteKind, blackKind string) (*game.Session, error) {
	seed := h.seed()
	white, err := bots.New(bots.Kind(whiteKind), bots.Options{Depth: h.cfg.SearchDepth, Seed: seed, Log: h.log})
	if err != nil {
		return nil, errors.Wrap(err, "white_bot")
	}
	black, err := bots.New(bots.Kind(blackKind), bots.Options{Depth: h.cfg.SearchDepth, Seed: seed + 1, Log: h.log})
	if err != nil {
		return nil, errors.Wrap(err, "black_bot")
	}
	return game.NewSession(white, black, game.WithLogger(h.log))
}

// GameSocket runs one game over a websocket connection until the client
// leaves.
func (h *Handler) GameSocket(w http.ResponseWriter, r *http.Request) {
	whiteKind := r.URL.Query().Get("white_bot")
	blackKind := r.URL.Query().Get("black_bot")

	session, err := h.newSession(whiteKind, blackKind)
	if err != nil {
		h.log.Warnw("rejecting game", "white_bot", whiteKind, "black_bot", blackKind, "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Errorw("upgrade error", "error", err)
		return
	}

	m := h.registry.add(session, conn)
	log := h.log.With("game_id", m.id)
	log.Infow("websocket connection accepted", "mode", session.Mode().String())

	defer func() {
		h.registry.remove(m.id)
		conn.Close()
		log.Info("websocket connection closed")
	}()

	ctx := r.Context()
	if session.Mode() == game.BotVsBot {
		if err := h.playBotTurn(m); err != nil {
			log.Errorw("bot move failed", "error", err)
			return
		}
	}

	for {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warnw("read error", "error", err)
			}
			return
		}
		log.Debugw("received message", "type", msg.Type, "move", msg.Move)

		if err := h.handleMessage(ctx, log, m, msg); err != nil {
			log.Errorw("error in chess game", "error", err)
			_ = h.write(conn, newErrorMessage(err.Error()))
			return
		}
	}
}

func (h *Handler) handleMessage(ctx context.Context, log *zap.SugaredLogger, m *match, msg clientMessage) error {
	if msg.Type == msgBotMove {
		return h.playBotTurn(m)
	}

	m.mu.Lock()
	move, err := m.session.ParseMove(msg.Move)
	if err != nil {
		m.mu.Unlock()
		log.Warnw("unreadable move", "move", msg.Move)
		return h.write(m.conn, newErrorMessage("Invalid move"))
	}
	if !m.session.AttemptMove(move) {
		m.mu.Unlock()
		log.Warnw("illegal move attempted", "move", msg.Move)
		return h.write(m.conn, newErrorMessage("Illegal move"))
	}
	log.Infow("move made", "move", move.String())

	played, err := m.session.PlayBots(ctx)
	update := snapshot(m.id, m.session)
	m.mu.Unlock()
	if err != nil {
		return err
	}
	if played > 0 {
		log.Debugw("bots replied", "moves", played)
	}
	return h.write(m.conn, update)
}

// playBotTurn plays a single bot move when a bot is to move and sends the new
// position.
func (h *Handler) playBotTurn(m *match) error {
	m.mu.Lock()
	if !m.session.IsCurrentPlayerBot() || m.session.IsOver() {
		m.mu.Unlock()
		return nil
	}
	_, err := m.session.PlayTurn()
	update := snapshot(m.id, m.session)
	m.mu.Unlock()
	if err != nil {
		return err
	}
	return h.write(m.conn, update)
}

func (h *Handler) write(conn *websocket.Conn, v any) error {
	if err := conn.SetWriteDeadline(deadline()); err != nil {
		return errors.Wrap(err, "set write deadline")
	}
	return errors.Wrap(conn.WriteJSON(v), "write message")
}
