package state

import (
	"reflect"
	"sync"

	"go.uber.org/zap"
)

// Store holds one document's mutable state tree.
type Store struct {
	mu     sync.RWMutex
	root   map[string]any
	logger *zap.Logger

	subMu  sync.Mutex
	subs   map[int]func(changed []string)
	nextID int
}

// New creates a store seeded with the document's initial state. The initial
// map is deep-copied so the parsed document stays immutable.
func New(initial map[string]any, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	root, _ := deepCopy(initial).(map[string]any)
	if root == nil {
		root = make(map[string]any)
	}
	return &Store{
		root:   root,
		logger: logger,
		subs:   make(map[int]func(changed []string)),
	}
}

// Subscribe registers a change listener and returns its unsubscribe func.
// Listeners run synchronously after each mutation, outside the store lock.
func (s *Store) Subscribe(fn func(changed []string)) func() {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// Snapshot returns the state root for read-only evaluation. Callers must
// not mutate the returned tree; mutations go through store operations only.
func (s *Store) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.root
}

// Get reads the value at path. The second result is false when any step of
// the path does not exist.
func (s *Store) Get(path string) (any, bool) {
	p, err := ParsePath(path)
	if err != nil {
		s.logger.Warn("invalid state path", zap.String("path", path), zap.Error(err))
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var current any = s.root
	for _, seg := range p.segs {
		if seg.isIndex {
			arr, ok := current.([]any)
			if !ok || seg.index >= len(arr) {
				return nil, false
			}
			current = arr[seg.index]
		} else {
			m, ok := current.(map[string]any)
			if !ok {
				return nil, false
			}
			current, ok = m[seg.key]
			if !ok {
				return nil, false
			}
		}
	}
	return current, true
}

// Set writes value at path, creating intermediate containers as needed.
func (s *Store) Set(path string, value any) {
	s.mutate(path, func(any) (any, bool) {
		return deepCopy(value), true
	})
}

// AppendToArray appends value to the array at path, creating the array if
// absent. Appends never deduplicate.
func (s *Store) AppendToArray(path string, value any) {
	s.mutate(path, func(current any) (any, bool) {
		arr, _ := current.([]any)
		return append(arr, deepCopy(value)), true
	})
}

// ToggleInArray removes the first element equal to value if present,
// otherwise appends it.
func (s *Store) ToggleInArray(path string, value any) {
	s.mutate(path, func(current any) (any, bool) {
		arr, _ := current.([]any)
		for i, elem := range arr {
			if valueEqual(elem, value) {
				return append(arr[:i:i], arr[i+1:]...), true
			}
		}
		return append(arr, deepCopy(value)), true
	})
}

// ToggleState flips the boolean at path. Absent or non-boolean values
// default to false before the flip, so the first toggle yields true.
func (s *Store) ToggleState(path string) {
	s.mutate(path, func(current any) (any, bool) {
		b, _ := current.(bool)
		return !b, true
	})
}

// mutate applies fn to the current value at path and writes the result,
// then notifies subscribers with the changed path set.
func (s *Store) mutate(path string, fn func(current any) (any, bool)) {
	p, err := ParsePath(path)
	if err != nil {
		s.logger.Warn("invalid state path", zap.String("path", path), zap.Error(err))
		return
	}

	s.mu.Lock()
	current, _ := s.lookup(p)
	next, ok := fn(current)
	if !ok {
		s.mu.Unlock()
		return
	}
	s.write(p, next)
	changed := changedPaths(p, next)
	s.mu.Unlock()

	s.publish(changed)
}

func (s *Store) lookup(p Path) (any, bool) {
	var current any = s.root
	for _, seg := range p.segs {
		if seg.isIndex {
			arr, ok := current.([]any)
			if !ok || seg.index >= len(arr) {
				return nil, false
			}
			current = arr[seg.index]
		} else {
			m, ok := current.(map[string]any)
			if !ok {
				return nil, false
			}
			current, ok = m[seg.key]
			if !ok {
				return nil, false
			}
		}
	}
	return current, true
}

// write walks the path creating intermediate containers, then stores value
// at the final segment. Wrong-shaped intermediates are replaced.
func (s *Store) write(p Path, value any) {
	var parent any = s.root
	for i, seg := range p.segs {
		last := i == len(p.segs)-1
		if seg.isIndex {
			arr, _ := parent.([]any)
			for len(arr) <= seg.index {
				arr = append(arr, nil)
			}
			// Reattach the possibly grown array to its own parent.
			s.reattach(p, i, arr)
			if last {
				arr[seg.index] = value
				return
			}
			child := arr[seg.index]
			if next := p.segs[i+1]; next.isIndex {
				if _, ok := child.([]any); !ok {
					child = []any{}
					arr[seg.index] = child
				}
			} else {
				if _, ok := child.(map[string]any); !ok {
					child = map[string]any{}
					arr[seg.index] = child
				}
			}
			parent = arr[seg.index]
		} else {
			m, ok := parent.(map[string]any)
			if !ok {
				return
			}
			if last {
				m[seg.key] = value
				return
			}
			child := m[seg.key]
			if next := p.segs[i+1]; next.isIndex {
				if _, ok := child.([]any); !ok {
					child = []any{}
					m[seg.key] = child
				}
			} else {
				if _, ok := child.(map[string]any); !ok {
					child = map[string]any{}
					m[seg.key] = child
				}
			}
			parent = m[seg.key]
		}
	}
}

// reattach stores a grown array slice back into the container that holds
// it, since append may have reallocated.
func (s *Store) reattach(p Path, index int, arr []any) {
	if index == 0 {
		return
	}
	var parent any = s.root
	for i := 0; i < index-1; i++ {
		seg := p.segs[i]
		if seg.isIndex {
			parent = parent.([]any)[seg.index]
		} else {
			parent = parent.(map[string]any)[seg.key]
		}
	}
	holder := p.segs[index-1]
	if holder.isIndex {
		parent.([]any)[holder.index] = arr
	} else {
		parent.(map[string]any)[holder.key] = arr
	}
}

func (s *Store) publish(changed []string) {
	s.subMu.Lock()
	subs := make([]func([]string), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()
	for _, fn := range subs {
		fn(changed)
	}
}

// changedPaths builds the notification set: the mutated path, every
// ancestor prefix, and the paths of values nested under the new value.
func changedPaths(p Path, value any) []string {
	paths := p.prefixes()
	return appendDescendants(paths, p.String(), value)
}

func appendDescendants(paths []string, base string, value any) []string {
	switch t := value.(type) {
	case map[string]any:
		for k, v := range t {
			child := childPath(base, k, 0, false)
			paths = append(paths, child)
			paths = appendDescendants(paths, child, v)
		}
	case []any:
		for i, v := range t {
			child := childPath(base, "", i, true)
			paths = append(paths, child)
			paths = appendDescendants(paths, child, v)
		}
	}
	return paths
}

// valueEqual compares JSON-ish values with numeric normalization so the
// decoded float64(2) matches a literal int 2.
func valueEqual(a, b any) bool {
	na, aok := toFloat(a)
	nb, bok := toFloat(b)
	if aok && bok {
		return na == nb
	}
	if aok != bok {
		return false
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	default:
		return 0, false
	}
}

// deepCopy clones JSON-ish trees so stored values never alias caller data.
func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = deepCopy(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = deepCopy(val)
		}
		return out
	default:
		return v
	}
}
