package bots

import (
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Kind string

const (
	KindHuman   Kind = "human"
	KindSmart   Kind = "smart"
	KindRandom  Kind = "random"
	KindNewborn Kind = "newborn"
)

var ErrUnknownKind = errors.New("bots: unknown bot type")

// Options configures bots built by New.
type Options struct {
	Depth int
	Seed  int64
	Log   *zap.SugaredLogger
}

// Type describes a selectable bot for clients.
type Type struct {
	ID   Kind   `json:"id"`
	Name string `json:"name"`
}

// Types lists the bots a client can pick.
func Types() []Type {
	return []Type{
		{ID: KindSmart, Name: "Smart AI"},
		{ID: KindRandom, Name: "Random AI"},
	}
}

// New builds the bot for kind. An empty kind or "human" yields a nil bot,
// which stands for a human player.
func New(kind Kind, opts Options) (ChessBot, error) {
	switch Kind(strings.ToLower(string(kind))) {
	case "", KindHuman:
		return nil, nil
	case KindSmart:
		return NewMinimaxBot(opts.Depth, opts.Log), nil
	case KindRandom:
		return NewRandomBot(opts.Seed, opts.Log), nil
	case KindNewborn:
		return NewNewbornBot(), nil
	default:
		return nil, errors.Wrapf(ErrUnknownKind, "%q", kind)
	}
}
