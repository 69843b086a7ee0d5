package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/lumenui/lumen/internal/action"
	"github.com/lumenui/lumen/internal/document"
	"github.com/lumenui/lumen/internal/expr"
	"github.com/lumenui/lumen/internal/infrastructure/monitoring"
	"github.com/lumenui/lumen/internal/layout"
	"github.com/lumenui/lumen/internal/render"
	"github.com/lumenui/lumen/internal/state"
	"github.com/lumenui/lumen/internal/style"
)

// Sink receives engine output: fresh render trees after each resolution
// pass and presentation intents from the action runtime.
type Sink interface {
	Tree(tree *render.Node)
	Intent(intent action.Intent)
}

// Options carries the collaborators an instance is built with.
type Options struct {
	Eval      *expr.Evaluator
	Transport action.Transport
	Registry  *action.Registry
	Logger    *zap.Logger
	Metrics   *monitoring.Metrics
}

// Instance is one live document: its store, resolvers, and action runtime.
type Instance struct {
	ID  string
	Doc *document.Document

	store    *state.Store
	resolver *render.Resolver
	runtime  *action.Runtime
	logger   *zap.Logger
	metrics  *monitoring.Metrics

	mu    sync.RWMutex
	tree  *render.Node
	sinks map[int]Sink
	next  int

	closed      atomic.Bool
	unsubscribe func()
}

// NewInstance builds a live instance for a parsed document. Style cycle
// detection runs here, so a cyclic document fails to load.
func NewInstance(id string, doc *document.Document, opts Options) (*Instance, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	eval := opts.Eval
	if eval == nil {
		eval = expr.New(logger)
	}

	styles, err := style.NewResolver(doc.Styles, logger)
	if err != nil {
		return nil, err
	}

	inst := &Instance{
		ID:      id,
		Doc:     doc,
		store:   state.New(doc.State, logger),
		logger:  logger.With(zap.String("document", doc.ID)),
		metrics: opts.Metrics,
		sinks:   make(map[int]Sink),
	}

	inst.resolver = render.NewResolver(doc, styles, eval, inst.logger)
	inst.resolver.SetPlanner(layout.NewResolver(inst.resolver))

	inst.runtime = action.NewRuntime(action.Config{
		Store:     inst.store,
		Eval:      eval,
		Actions:   doc.Actions,
		Transport: opts.Transport,
		Presenter: inst,
		Registry:  opts.Registry,
		Logger:    inst.logger,
		Metrics:   opts.Metrics,
	})

	inst.unsubscribe = inst.store.Subscribe(func(changed []string) {
		inst.refresh("state")
	})
	inst.refresh("load")
	return inst, nil
}

// Store exposes the instance's state store.
func (i *Instance) Store() *state.Store { return i.store }

// Tree returns the most recently resolved render tree.
func (i *Instance) Tree() *render.Node {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.tree
}

// AttachSink registers a renderer sink and immediately pushes the current
// tree to it. The returned func detaches the sink.
func (i *Instance) AttachSink(s Sink) func() {
	i.mu.Lock()
	id := i.next
	i.next++
	i.sinks[id] = s
	tree := i.tree
	i.mu.Unlock()

	if tree != nil {
		s.Tree(tree)
	}
	return func() {
		i.mu.Lock()
		delete(i.sinks, id)
		i.mu.Unlock()
	}
}

// DispatchEvent routes a renderer event (node ID + event name) into the
// action runtime. Unknown nodes or events are logged no-ops.
func (i *Instance) DispatchEvent(ctx context.Context, nodeID, event string) error {
	if i.closed.Load() {
		return action.ErrClosed
	}
	node := i.Doc.FindNode(nodeID)
	if node == nil {
		i.logger.Warn("event for unknown node", zap.String("node_id", nodeID))
		return nil
	}
	binding, ok := node.Actions[event]
	if !ok {
		i.logger.Warn("event with no bound action",
			zap.String("node_id", nodeID),
			zap.String("event", event))
		return nil
	}
	return i.runtime.ExecuteBinding(ctx, binding)
}

// Execute runs an arbitrary action spec against this instance.
func (i *Instance) Execute(ctx context.Context, a *document.Action) error {
	return i.runtime.Execute(ctx, a)
}

// Present implements action.Presenter by fanning intents out to sinks.
func (i *Instance) Present(ctx context.Context, intent Intent) error {
	i.mu.RLock()
	sinks := make([]Sink, 0, len(i.sinks))
	for _, s := range i.sinks {
		sinks = append(sinks, s)
	}
	i.mu.RUnlock()
	for _, s := range sinks {
		s.Intent(intent)
	}
	return nil
}

// Intent aliases the runtime intent type for sink implementers.
type Intent = action.Intent

// Close tears the instance down: the store subscription is removed and the
// runtime's liveness gate flips so in-flight request callbacks are no-ops.
func (i *Instance) Close() {
	if i.closed.Swap(true) {
		return
	}
	i.unsubscribe()
	i.runtime.Close()
	i.mu.Lock()
	i.sinks = map[int]Sink{}
	i.mu.Unlock()
}

// refresh resolves a fresh tree from current state and fans it out.
func (i *Instance) refresh(trigger string) {
	if i.closed.Load() {
		return
	}
	started := time.Now()
	tree := i.resolver.ResolveRoot(i.store.Snapshot())

	i.mu.Lock()
	i.tree = tree
	sinks := make([]Sink, 0, len(i.sinks))
	for _, s := range i.sinks {
		sinks = append(sinks, s)
	}
	i.mu.Unlock()

	if i.metrics != nil {
		i.metrics.ObserveResolve(i.Doc.ID, trigger, time.Since(started))
	}
	for _, s := range sinks {
		s.Tree(tree)
	}
}
