package action

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/lumenui/lumen/internal/document"
	"github.com/lumenui/lumen/internal/expr"
	"github.com/lumenui/lumen/internal/infrastructure/monitoring"
	"github.com/lumenui/lumen/internal/state"
)

// ErrClosed is returned when an action is dispatched to a closed runtime.
var ErrClosed = errors.New("action runtime closed")

// Phase is the lifecycle phase of a leaf action execution.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseResolving Phase = "resolving_parameters"
	PhaseExecuting Phase = "executing"
	PhaseCompleted Phase = "completed"
	PhaseFailed    Phase = "failed"
)

// Config wires a Runtime's collaborators. Store and Eval are required;
// the rest may be nil and degrade to logged no-ops.
type Config struct {
	Store     *state.Store
	Eval      *expr.Evaluator
	Actions   map[string]*document.Action
	Transport Transport
	Presenter Presenter
	Registry  *Registry
	Logger    *zap.Logger
	Metrics   *monitoring.Metrics
}

// Runtime executes actions for one document instance through a serial
// queue.
type Runtime struct {
	store     *state.Store
	eval      *expr.Evaluator
	actions   map[string]*document.Action
	transport Transport
	presenter Presenter
	registry  *Registry
	logger    *zap.Logger
	metrics   *monitoring.Metrics

	queue  chan *task
	ctx    context.Context
	cancel context.CancelFunc
	closed atomic.Bool
	wg     sync.WaitGroup
}

type task struct {
	ctx    context.Context
	action *document.Action
	done   chan error
}

// NewRuntime creates a runtime and starts its queue worker.
func NewRuntime(cfg Config) *Runtime {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	registry := cfg.Registry
	if registry == nil {
		registry = NewRegistry()
	}
	ctx, cancel := context.WithCancel(context.Background())
	rt := &Runtime{
		store:     cfg.Store,
		eval:      cfg.Eval,
		actions:   cfg.Actions,
		transport: cfg.Transport,
		presenter: cfg.Presenter,
		registry:  registry,
		logger:    logger,
		metrics:   cfg.Metrics,
		queue:     make(chan *task, 64),
		ctx:       ctx,
		cancel:    cancel,
	}
	rt.wg.Add(1)
	go rt.worker()
	return rt
}

// Close tears the runtime down. In-flight request callbacks become no-ops
// against the released store.
func (rt *Runtime) Close() {
	if rt.closed.Swap(true) {
		return
	}
	rt.cancel()
	rt.wg.Wait()
}

// Execute queues an action and waits for it to run to completion.
func (rt *Runtime) Execute(ctx context.Context, a *document.Action) error {
	if a == nil {
		return nil
	}
	if rt.closed.Load() {
		return ErrClosed
	}
	t := &task{ctx: ctx, action: a, done: make(chan error, 1)}
	select {
	case rt.queue <- t:
	case <-rt.ctx.Done():
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-t.done:
		return err
	case <-rt.ctx.Done():
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ExecuteNamed runs a document-defined action by name.
func (rt *Runtime) ExecuteNamed(ctx context.Context, name string) error {
	a, ok := rt.actions[name]
	if !ok {
		rt.logger.Warn("undefined named action", zap.String("action", name))
		return nil
	}
	return rt.Execute(ctx, a)
}

// ExecuteBinding runs an action binding: a named reference or an inline
// spec.
func (rt *Runtime) ExecuteBinding(ctx context.Context, b *document.ActionBinding) error {
	if b == nil {
		return nil
	}
	if b.Ref != "" {
		return rt.ExecuteNamed(ctx, b.Ref)
	}
	return rt.Execute(ctx, b.Inline)
}

func (rt *Runtime) worker() {
	defer rt.wg.Done()
	for {
		select {
		case <-rt.ctx.Done():
			rt.drain()
			return
		case t := <-rt.queue:
			if rt.closed.Load() {
				t.done <- ErrClosed
				continue
			}
			t.done <- rt.run(t.ctx, t.action)
		}
	}
}

// drain fails every task still queued at shutdown so no caller is left
// waiting on a worker that has exited, and no queued mutation runs against
// a closed document.
func (rt *Runtime) drain() {
	for {
		select {
		case t := <-rt.queue:
			t.done <- ErrClosed
		default:
			return
		}
	}
}

// run executes one action. Sequences recurse without re-queueing, so a
// whole sequence occupies the queue slot until it completes.
func (rt *Runtime) run(ctx context.Context, a *document.Action) error {
	if a.Type == document.ActionSequence {
		for i, step := range a.Steps {
			if err := rt.run(ctx, step); err != nil {
				// Abort-on-failure: later steps never observe a
				// partially failed prefix.
				rt.logger.Warn("sequence aborted",
					zap.Int("failed_step", i),
					zap.String("step_type", string(step.Type)),
					zap.Error(err))
				return fmt.Errorf("sequence step %d: %w", i, err)
			}
		}
		return nil
	}
	return rt.runLeaf(ctx, a)
}

func (rt *Runtime) runLeaf(ctx context.Context, a *document.Action) error {
	started := time.Now()
	rt.logPhase(a, PhaseResolving)

	// ResolvingParameters: $expr payloads see the state written by any
	// earlier step.
	value := rt.dynamic(a.Value)

	rt.logPhase(a, PhaseExecuting)
	err := rt.executeLeaf(ctx, a, value)

	status := "completed"
	if err != nil {
		status = "failed"
		rt.logPhase(a, PhaseFailed)
	} else {
		rt.logPhase(a, PhaseCompleted)
	}
	if rt.metrics != nil {
		rt.metrics.ObserveAction(string(a.Type), status, time.Since(started))
	}
	return err
}

func (rt *Runtime) executeLeaf(ctx context.Context, a *document.Action, value any) error {
	switch a.Type {
	case document.ActionSetState:
		rt.store.Set(a.Path, value)
		rt.recordMutation("set")
	case document.ActionToggleState:
		rt.store.ToggleState(a.Path)
		rt.recordMutation("toggle")
	case document.ActionAppendToArray:
		rt.store.AppendToArray(a.Path, value)
		rt.recordMutation("append")
	case document.ActionToggleInArray:
		rt.store.ToggleInArray(a.Path, value)
		rt.recordMutation("toggle_in_array")
	case document.ActionRequest:
		rt.request(ctx, a)
	case document.ActionShowAlert:
		return rt.present(ctx, Intent{
			Type:    "showAlert",
			Title:   rt.eval.Compile(a.Title).String(rt.store.Snapshot()),
			Message: rt.eval.Compile(a.Message).String(rt.store.Snapshot()),
			Buttons: a.Buttons,
		})
	case document.ActionDismiss:
		return rt.present(ctx, Intent{Type: "dismiss"})
	case document.ActionNavigate:
		return rt.present(ctx, Intent{Type: "navigate", Destination: a.Destination})
	case document.ActionCustom:
		return rt.custom(ctx, a)
	default:
		return fmt.Errorf("unknown action type %q", a.Type)
	}
	return nil
}

// request performs the network call. Failure is captured into errorPath
// state and never raised; the loading flag is always cleared. Writes are
// gated on liveness so a torn-down document is left untouched.
func (rt *Runtime) request(ctx context.Context, a *document.Action) {
	if rt.transport == nil {
		rt.logger.Warn("request action without a transport", zap.String("url", a.URL))
		return
	}

	url := rt.eval.Compile(a.URL).String(rt.store.Snapshot())
	method := a.Method
	if method == "" {
		method = "GET"
	}

	rt.setIfLive(a.LoadingPath, true)

	body, err := rt.transport.Perform(ctx, method, url)

	if err != nil {
		rt.logger.Warn("request failed",
			zap.String("method", method),
			zap.String("url", url),
			zap.Error(err))
		rt.setIfLive(a.ErrorPath, err.Error())
	} else {
		rt.setIfLive(a.ResponsePath, body)
	}
	rt.setIfLive(a.LoadingPath, false)
}

// setIfLive writes state unless the runtime has been closed.
func (rt *Runtime) setIfLive(path string, value any) {
	if path == "" || rt.closed.Load() {
		return
	}
	rt.store.Set(path, value)
	rt.recordMutation("set")
}

func (rt *Runtime) present(ctx context.Context, intent Intent) error {
	if rt.presenter == nil {
		rt.logger.Warn("presentation intent without a presenter", zap.String("intent", intent.Type))
		return nil
	}
	return rt.presenter.Present(ctx, intent)
}

// custom dispatches a host-registered handler. An unregistered name is a
// configuration error: logged, then a no-op.
func (rt *Runtime) custom(ctx context.Context, a *document.Action) error {
	handler, ok := rt.registry.Get(a.Name)
	if !ok {
		rt.logger.Warn("unregistered custom action", zap.String("name", a.Name))
		return nil
	}
	params := rt.resolveParams(a.Params)
	return handler(ctx, params, rt.store)
}

// resolveParams evaluates $expr wrappers inside custom action params.
func (rt *Runtime) resolveParams(params map[string]any) map[string]any {
	if len(params) == 0 {
		return params
	}
	vars := rt.store.Snapshot()
	out := make(map[string]any, len(params))
	for k, v := range params {
		if m, ok := v.(map[string]any); ok && len(m) == 1 {
			if src, ok := m["$expr"].(string); ok {
				out[k] = rt.eval.Compile(src).Value(vars)
				continue
			}
		}
		out[k] = v
	}
	return out
}

// dynamic resolves a value-or-expression payload against current state.
func (rt *Runtime) dynamic(d *document.Dynamic) any {
	if d == nil {
		return nil
	}
	if d.Expr != "" {
		return rt.eval.Compile(d.Expr).Value(rt.store.Snapshot())
	}
	return d.Literal
}

func (rt *Runtime) recordMutation(op string) {
	if rt.metrics != nil {
		rt.metrics.RecordMutation(op)
	}
}

func (rt *Runtime) logPhase(a *document.Action, phase Phase) {
	rt.logger.Debug("action phase",
		zap.String("type", string(a.Type)),
		zap.String("phase", string(phase)))
}
