package engine

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lumenui/lumen/internal/action"
	"github.com/lumenui/lumen/internal/document"
	"github.com/lumenui/lumen/internal/expr"
	"github.com/lumenui/lumen/internal/infrastructure/monitoring"
)

// Format selects the document encoding accepted by Open.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Manager tracks live document instances and owns the collaborators they
// share: one expression compile cache, one transport, one custom action
// registry.
type Manager struct {
	instances sync.Map
	eval      *expr.Evaluator
	transport action.Transport
	registry  *action.Registry
	logger    *zap.Logger
	metrics   *monitoring.Metrics
}

// ManagerConfig wires the manager's shared collaborators.
type ManagerConfig struct {
	Transport action.Transport
	Registry  *action.Registry
	Logger    *zap.Logger
	Metrics   *monitoring.Metrics
}

// NewManager creates an instance manager.
func NewManager(cfg ManagerConfig) *Manager {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	registry := cfg.Registry
	if registry == nil {
		registry = action.NewRegistry()
	}
	return &Manager{
		eval:      expr.New(logger),
		transport: cfg.Transport,
		registry:  registry,
		logger:    logger,
		metrics:   cfg.Metrics,
	}
}

// Registry exposes the custom action registry so hosts can register
// handlers before documents load.
func (m *Manager) Registry() *action.Registry { return m.registry }

// Open parses a document and spawns a live instance for it.
func (m *Manager) Open(data []byte, format Format) (*Instance, error) {
	var doc *document.Document
	var err error
	switch format {
	case FormatYAML:
		doc, err = document.ParseYAML(data)
	case FormatJSON, "":
		doc, err = document.Parse(data)
	default:
		return nil, fmt.Errorf("unsupported document format %q", format)
	}
	if err != nil {
		return nil, err
	}

	inst, err := NewInstance(uuid.New().String(), doc, Options{
		Eval:      m.eval,
		Transport: m.transport,
		Registry:  m.registry,
		Logger:    m.logger,
		Metrics:   m.metrics,
	})
	if err != nil {
		return nil, err
	}

	m.instances.Store(inst.ID, inst)
	if m.metrics != nil {
		m.metrics.DocumentsTotal.Inc()
		m.metrics.DocumentsActive.Inc()
	}
	m.logger.Info("document opened",
		zap.String("instance", inst.ID),
		zap.String("document", doc.ID))
	return inst, nil
}

// Get retrieves a live instance by ID.
func (m *Manager) Get(id string) (*Instance, bool) {
	val, ok := m.instances.Load(id)
	if !ok {
		return nil, false
	}
	return val.(*Instance), true
}

// Close tears down and forgets an instance.
func (m *Manager) Close(id string) bool {
	val, ok := m.instances.LoadAndDelete(id)
	if !ok {
		return false
	}
	val.(*Instance).Close()
	if m.metrics != nil {
		m.metrics.DocumentsActive.Dec()
	}
	m.logger.Info("document closed", zap.String("instance", id))
	return true
}

// List returns all live instances.
func (m *Manager) List() []*Instance {
	var out []*Instance
	m.instances.Range(func(_, value any) bool {
		out = append(out, value.(*Instance))
		return true
	})
	return out
}

// Shutdown closes every live instance.
func (m *Manager) Shutdown() {
	m.instances.Range(func(key, value any) bool {
		value.(*Instance).Close()
		m.instances.Delete(key)
		return true
	})
}

// Stats summarizes the manager's live instances.
func (m *Manager) Stats() map[string]any {
	total := 0
	byDocument := make(map[string]int)
	m.instances.Range(func(_, value any) bool {
		inst := value.(*Instance)
		total++
		byDocument[inst.Doc.ID]++
		return true
	})
	return map[string]any{
		"total_instances": total,
		"by_document":     byDocument,
	}
}
