package state

import (
	"fmt"
	"strconv"
	"strings"
)

// segment is one step of a parsed path: a map key or an array index.
type segment struct {
	key     string
	index   int
	isIndex bool
}

// Path is a parsed state path.
type Path struct {
	raw  string
	segs []segment
}

// ParsePath parses a dotted/bracket path like "cartItems[0].price".
func ParsePath(s string) (Path, error) {
	if s == "" {
		return Path{}, fmt.Errorf("empty path")
	}
	var segs []segment
	i := 0
	for i < len(s) {
		switch s[i] {
		case '.':
			if i == 0 || i == len(s)-1 || s[i+1] == '.' || s[i+1] == '[' {
				return Path{}, fmt.Errorf("path %q: misplaced '.'", s)
			}
			i++
		case '[':
			// State roots are maps, so a path must begin with a key.
			if len(segs) == 0 {
				return Path{}, fmt.Errorf("path %q: must begin with a key", s)
			}
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return Path{}, fmt.Errorf("path %q: unterminated index", s)
			}
			idx, err := strconv.Atoi(s[i+1 : i+end])
			if err != nil || idx < 0 {
				return Path{}, fmt.Errorf("path %q: invalid index %q", s, s[i+1:i+end])
			}
			segs = append(segs, segment{index: idx, isIndex: true})
			i += end + 1
		default:
			start := i
			for i < len(s) && s[i] != '.' && s[i] != '[' {
				i++
			}
			segs = append(segs, segment{key: s[start:i]})
		}
	}
	if len(segs) == 0 {
		return Path{}, fmt.Errorf("path %q has no segments", s)
	}
	return Path{raw: s, segs: segs}, nil
}

// String returns the canonical form of the path.
func (p Path) String() string {
	var sb strings.Builder
	for i, seg := range p.segs {
		if seg.isIndex {
			sb.WriteByte('[')
			sb.WriteString(strconv.Itoa(seg.index))
			sb.WriteByte(']')
		} else {
			if i > 0 {
				sb.WriteByte('.')
			}
			sb.WriteString(seg.key)
		}
	}
	return sb.String()
}

// prefixes returns every ancestor path, shortest first, ending with the
// full path itself.
func (p Path) prefixes() []string {
	out := make([]string, 0, len(p.segs))
	var sb strings.Builder
	for i, seg := range p.segs {
		if seg.isIndex {
			sb.WriteByte('[')
			sb.WriteString(strconv.Itoa(seg.index))
			sb.WriteByte(']')
		} else {
			if i > 0 {
				sb.WriteByte('.')
			}
			sb.WriteString(seg.key)
		}
		out = append(out, sb.String())
	}
	return out
}

// childPath extends a path string with a key or index step.
func childPath(base, key string, index int, isIndex bool) string {
	if isIndex {
		return fmt.Sprintf("%s[%d]", base, index)
	}
	if base == "" {
		return key
	}
	return base + "." + key
}
