package expr

import (
	"strings"
	"sync"

	"go.uber.org/zap"
)

// part is one fragment of a template: literal text or an embedded expression.
type part struct {
	literal string
	expr    Expr
}

// Compiled is an immutable, reusable compilation of a template or a bare
// expression. A compilation failure is sticky: the source is reported once
// and every evaluation yields the neutral value.
type Compiled struct {
	src    string
	parts  []part
	raw    bool // single expression span, no surrounding literal text
	err    error
	report sync.Once
	logger *zap.Logger
}

// Evaluator compiles and caches expressions. Compilation is pure, so the
// cache lives for the process lifetime and is shared across documents.
type Evaluator struct {
	logger    *zap.Logger
	templates sync.Map // src -> *Compiled
	exprs     sync.Map // src -> *Compiled
}

// New creates an evaluator. A nil logger is replaced with a no-op logger.
func New(logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{logger: logger}
}

// Compile parses src as a template: literal text interleaved with ${...}
// spans. A template that is exactly one span evaluates to the raw value of
// its expression; anything else evaluates to a concatenated string.
func (e *Evaluator) Compile(src string) *Compiled {
	if cached, ok := e.templates.Load(src); ok {
		return cached.(*Compiled)
	}
	c := compileTemplate(src, e.logger)
	actual, _ := e.templates.LoadOrStore(src, c)
	return actual.(*Compiled)
}

// CompileExpr parses src as a bare expression with no template framing,
// as used by direct binding paths like "cart.items[0]".
func (e *Evaluator) CompileExpr(src string) *Compiled {
	if cached, ok := e.exprs.Load(src); ok {
		return cached.(*Compiled)
	}
	c := &Compiled{src: src, raw: true, logger: e.logger}
	parsed, err := parseExpr(src)
	if err != nil {
		c.err = err
	} else {
		c.parts = []part{{expr: parsed}}
	}
	actual, _ := e.exprs.LoadOrStore(src, c)
	return actual.(*Compiled)
}

func compileTemplate(src string, logger *zap.Logger) *Compiled {
	c := &Compiled{src: src, logger: logger}
	rest := src
	for {
		start := strings.Index(rest, "${")
		if start < 0 {
			if rest != "" {
				c.parts = append(c.parts, part{literal: rest})
			}
			break
		}
		if start > 0 {
			c.parts = append(c.parts, part{literal: rest[:start]})
		}
		end := findSpanEnd(rest[start+2:])
		if end < 0 {
			c.err = errUnterminated(src)
			return c
		}
		inner := rest[start+2 : start+2+end]
		parsed, err := parseExpr(inner)
		if err != nil {
			c.err = err
			return c
		}
		c.parts = append(c.parts, part{expr: parsed})
		rest = rest[start+2+end+1:]
	}
	c.raw = len(c.parts) == 1 && c.parts[0].expr != nil
	return c
}

// findSpanEnd locates the closing brace of a ${...} span, skipping braces
// inside quoted strings.
func findSpanEnd(s string) int {
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '}':
			return i
		}
	}
	return -1
}

// Err returns the compilation error, if any.
func (c *Compiled) Err() error { return c.err }

// Value evaluates to a raw value: for a single-span template or a bare
// expression the expression's value, otherwise the concatenated string.
func (c *Compiled) Value(vars Vars) any {
	if c.failed() {
		return nil
	}
	if c.raw {
		return evaluate(c.parts[0].expr, vars)
	}
	return c.concat(vars)
}

// String evaluates to the template's string form.
func (c *Compiled) String(vars Vars) string {
	if c.failed() {
		return ""
	}
	return c.concat(vars)
}

// Bool evaluates the truthiness of the raw value, for selection predicates.
func (c *Compiled) Bool(vars Vars) bool {
	return truthy(c.Value(vars))
}

func (c *Compiled) concat(vars Vars) string {
	if len(c.parts) == 1 {
		p := c.parts[0]
		if p.expr == nil {
			return p.literal
		}
		return Stringify(evaluate(p.expr, vars))
	}
	var sb strings.Builder
	for _, p := range c.parts {
		if p.expr == nil {
			sb.WriteString(p.literal)
		} else {
			sb.WriteString(Stringify(evaluate(p.expr, vars)))
		}
	}
	return sb.String()
}

// failed reports a sticky compile error, logging it on first use only.
func (c *Compiled) failed() bool {
	if c.err == nil {
		return false
	}
	c.report.Do(func() {
		c.logger.Warn("expression failed to compile",
			zap.String("source", c.src),
			zap.Error(c.err))
	})
	return true
}

type compileError struct{ src string }

func (e compileError) Error() string { return "unterminated ${ span in " + e.src }

func errUnterminated(src string) error { return compileError{src: src} }
