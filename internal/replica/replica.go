// Package replica owns one graph replica of a document and serializes every
// access to it.
package replica

import (
	"sync"

	"github.com/kevinxiao27/lww-graph/clock"
	"github.com/kevinxiao27/lww-graph/graph"
	"github.com/kevinxiao27/lww-graph/lww"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Action string

const (
	ActionAdd    Action = "add"
	ActionRemove Action = "remove"
)

var ErrUnknownAction = errors.New("unknown action")

// Op is a local change requested by a client.
type Op struct {
	Action Action              `json:"action"`
	Entry  graph.Entry[string] `json:"entry"`
}

type Replica struct {
	mu    sync.Mutex
	id    string
	clock clock.Clock
	graph *graph.Graph[string]
	log   *zap.Logger
}

func New(id string, c clock.Clock, log *zap.Logger) *Replica {
	if c == nil {
		c = clock.NewHybrid()
	}
	return &Replica{
		id:    id,
		clock: c,
		graph: graph.New[string](c),
		log:   log.With(zap.String("replica", id)),
	}
}

func (r *Replica) ID() string {
	return r.id
}

func (r *Replica) Apply(op Op) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	switch op.Action {
	case ActionAdd:
		err = r.graph.Add(op.Entry)
	case ActionRemove:
		err = r.graph.Remove(op.Entry)
	default:
		err = errors.Wrapf(ErrUnknownAction, "%q", op.Action)
	}

	fields := []zap.Field{
		zap.String("action", string(op.Action)),
		zap.Stringer("kind", op.Entry.Kind),
		zap.Stringer("entry", op.Entry),
	}
	if err != nil {
		r.log.Info("op rejected", append(fields, zap.Error(err))...)
		return err
	}
	r.log.Debug("op applied", fields...)
	return nil
}

// Merge folds a remote snapshot into the replica and moves the clock past
// every tag it carries, so later local changes win over merged ones.
func (r *Replica) Merge(st graph.State[string]) {
	r.mu.Lock()
	defer r.mu.Unlock()

	remote := graph.FromState(r.clock, st)
	r.graph = r.graph.Merging(remote)
	if obs, ok := r.clock.(clock.Observer); ok {
		obs.Observe(st.MaxTag())
	}

	r.log.Debug("merged snapshot",
		zap.Int("nodes", len(st.Nodes.Additions)),
		zap.Int("edges", len(st.Edges.Additions)),
		zap.Int("dangling", len(r.graph.Dangling())))
}

func (r *Replica) Snapshot() graph.State[string] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.graph.State()
}

func (r *Replica) Entries() []graph.Entry[string] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.graph.Elements()
}

func (r *Replica) Contains(e graph.Entry[string]) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.graph.Contains(e)
}

func (r *Replica) Dangling() []lww.Pair[string, string] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.graph.Dangling()
}

func (r *Replica) Dump() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.graph.Dump()
}
