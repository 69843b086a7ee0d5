package expr

import "fmt"

// parser is a recursive descent parser over the token stream, one level
// per precedence tier.
type parser struct {
	tokens []token
	pos    int
}

// parseExpr parses a full expression source and requires all input to be
// consumed.
func parseExpr(src string) (Expr, error) {
	tokens, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	e, err := p.ternary()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, fmt.Errorf("unexpected %q at %d", p.peek().text, p.peek().pos)
	}
	return e, nil
}

func (p *parser) peek() token { return p.tokens[p.pos] }

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) acceptOp(ops ...string) (string, bool) {
	t := p.peek()
	if t.kind != tokOp {
		return "", false
	}
	for _, op := range ops {
		if t.text == op {
			p.next()
			return op, true
		}
	}
	return "", false
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	t := p.next()
	if t.kind != kind {
		return t, fmt.Errorf("expected %s at %d, got %q", what, t.pos, t.text)
	}
	return t, nil
}

func (p *parser) ternary() (Expr, error) {
	cond, err := p.logical()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokQuestion {
		return cond, nil
	}
	p.next()
	then, err := p.ternary()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokColon, "':'"); err != nil {
		return nil, err
	}
	alt, err := p.ternary()
	if err != nil {
		return nil, err
	}
	return &Ternary{Cond: cond, Then: then, Else: alt}, nil
}

func (p *parser) logical() (Expr, error) {
	left, err := p.equality()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.acceptOp("&&", "||")
		if !ok {
			return left, nil
		}
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
}

func (p *parser) equality() (Expr, error) {
	left, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.acceptOp("==", "!=")
		if !ok {
			return left, nil
		}
		right, err := p.comparison()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
}

func (p *parser) comparison() (Expr, error) {
	left, err := p.additive()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.acceptOp("<", "<=", ">", ">=")
		if !ok {
			return left, nil
		}
		right, err := p.additive()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
}

func (p *parser) additive() (Expr, error) {
	left, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.acceptOp("+", "-")
		if !ok {
			return left, nil
		}
		right, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
}

func (p *parser) multiplicative() (Expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.acceptOp("*", "/", "%")
		if !ok {
			return left, nil
		}
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
}

func (p *parser) unary() (Expr, error) {
	if op, ok := p.acceptOp("-", "!"); ok {
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: op, Operand: operand}, nil
	}
	return p.postfix()
}

// postfix parses a primary followed by any chain of .member and [index]
// accesses.
func (p *parser) postfix() (Expr, error) {
	e, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().kind {
		case tokDot:
			p.next()
			name, err := p.expect(tokIdent, "member name")
			if err != nil {
				return nil, err
			}
			e = &Member{Target: e, Name: name.text}
		case tokLBracket:
			p.next()
			key, err := p.ternary()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(tokRBracket, "']'"); err != nil {
				return nil, err
			}
			e = &Index{Target: e, Key: key}
		default:
			return e, nil
		}
	}
}

func (p *parser) primary() (Expr, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return &Literal{Value: t.num}, nil
	case tokString:
		return &Literal{Value: t.text}, nil
	case tokBool:
		return &Literal{Value: t.text == "true"}, nil
	case tokNull:
		return &Literal{Value: nil}, nil
	case tokIdent:
		return &Ident{Name: t.text}, nil
	case tokLParen:
		e, err := p.ternary()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, fmt.Errorf("unexpected %q at %d", t.text, t.pos)
	}
}
