package style

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/lumenui/lumen/internal/document"
)

var (
	// ErrCycle reports a style inheritance cycle. Fatal at load time.
	ErrCycle = errors.New("style inheritance cycle")

	// ErrUnknownStyle reports a style ID with no definition. Non-fatal:
	// callers degrade to inline overrides only.
	ErrUnknownStyle = errors.New("unknown style")
)

// Properties is a resolved, flat style property bag.
type Properties map[string]any

// Resolver resolves style IDs against one document's style table.
type Resolver struct {
	styles map[string]*document.Style
	logger *zap.Logger
	cache  sync.Map // cache key -> Properties
}

// NewResolver builds a resolver and verifies the inheritance graph is
// acyclic. A cycle is returned as an ErrCycle naming the style it was
// detected on.
func NewResolver(styles map[string]*document.Style, logger *zap.Logger) (*Resolver, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Resolver{styles: styles, logger: logger}
	for name := range styles {
		if _, err := r.chain(name); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Resolve produces the flat property bag for styleID with inline overrides
// applied last. The result is cached; callers must not mutate it.
func (r *Resolver) Resolve(styleID string, overrides map[string]any) (Properties, error) {
	key, cacheable := cacheKey(styleID, overrides)
	if cacheable {
		if cached, ok := r.cache.Load(key); ok {
			return cached.(Properties), nil
		}
	}

	names, err := r.chain(styleID)
	if err != nil {
		if errors.Is(err, ErrUnknownStyle) {
			// Degrade to overrides only; one bad reference must not
			// abort tree resolution.
			r.logger.Warn("style not found", zap.String("style_id", styleID))
			return merge(nil, overrides), err
		}
		return nil, err
	}

	// names is leaf-to-root; merge root-to-leaf so descendants win.
	props := make(Properties)
	for i := len(names) - 1; i >= 0; i-- {
		props = merge(props, r.styles[names[i]].Properties)
	}
	props = merge(props, overrides)

	if cacheable {
		r.cache.Store(key, props)
	}
	return props, nil
}

// chain walks the inherits pointers from styleID to its root ancestor,
// returning the visited names leaf-first.
func (r *Resolver) chain(styleID string) ([]string, error) {
	if _, ok := r.styles[styleID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStyle, styleID)
	}
	visited := make(map[string]bool)
	var names []string
	current := styleID
	for current != "" {
		if visited[current] {
			return nil, fmt.Errorf("%w: detected at %q", ErrCycle, current)
		}
		visited[current] = true
		style, ok := r.styles[current]
		if !ok {
			// Dangling parent reference ends the chain.
			r.logger.Warn("style inherits undefined parent",
				zap.String("style_id", names[len(names)-1]),
				zap.String("parent", current))
			break
		}
		names = append(names, current)
		current = style.Inherits
	}
	return names, nil
}

func merge(base Properties, over map[string]any) Properties {
	out := make(Properties, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

// cacheKey derives a stable key from the style ID and the overrides bag.
// Overrides hash via deterministic JSON, mirroring how document hashes are
// derived elsewhere; unhashable overrides simply skip the cache.
func cacheKey(styleID string, overrides map[string]any) (string, bool) {
	if len(overrides) == 0 {
		return styleID, true
	}
	data, err := sonic.ConfigStd.Marshal(overrides)
	if err != nil {
		return "", false
	}
	sum := sha256.Sum256(data)
	return styleID + "|" + hex.EncodeToString(sum[:8]), true
}
