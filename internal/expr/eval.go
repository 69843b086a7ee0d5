package expr

import "math"

// evaluate walks the AST against a snapshot. It cannot fail: unresolvable
// lookups produce nil and bad arithmetic produces NaN.
func evaluate(e Expr, vars Vars) any {
	switch n := e.(type) {
	case *Literal:
		return n.Value
	case *Ident:
		if vars == nil {
			return nil
		}
		return vars[n.Name]
	case *Member:
		return member(evaluate(n.Target, vars), n.Name)
	case *Index:
		return index(evaluate(n.Target, vars), evaluate(n.Key, vars))
	case *Unary:
		return unary(n.Op, evaluate(n.Operand, vars))
	case *Binary:
		return binary(n, vars)
	case *Ternary:
		if truthy(evaluate(n.Cond, vars)) {
			return evaluate(n.Then, vars)
		}
		return evaluate(n.Else, vars)
	default:
		return nil
	}
}

// member resolves dot access, including the count/first/last
// pseudo-properties on arrays, strings, and maps.
func member(target any, name string) any {
	switch t := target.(type) {
	case []any:
		switch name {
		case "count":
			return float64(len(t))
		case "first":
			if len(t) > 0 {
				return t[0]
			}
			return nil
		case "last":
			if len(t) > 0 {
				return t[len(t)-1]
			}
			return nil
		}
		return nil
	case string:
		if name == "count" {
			return float64(len(t))
		}
		return nil
	case map[string]any:
		if v, ok := t[name]; ok {
			return v
		}
		if name == "count" {
			return float64(len(t))
		}
		return nil
	default:
		return nil
	}
}

func index(target, key any) any {
	switch t := target.(type) {
	case []any:
		i, ok := numeric(key)
		if !ok {
			return nil
		}
		idx := int(i)
		if idx < 0 || idx >= len(t) {
			return nil
		}
		return t[idx]
	case map[string]any:
		k, ok := key.(string)
		if !ok {
			return nil
		}
		return t[k]
	default:
		return nil
	}
}

func unary(op string, operand any) any {
	switch op {
	case "-":
		n, ok := numeric(operand)
		if !ok {
			return math.NaN()
		}
		return -n
	case "!":
		return !truthy(operand)
	default:
		return nil
	}
}

func binary(n *Binary, vars Vars) any {
	// Logical ops short-circuit.
	switch n.Op {
	case "&&":
		left := evaluate(n.Left, vars)
		if !truthy(left) {
			return false
		}
		return truthy(evaluate(n.Right, vars))
	case "||":
		left := evaluate(n.Left, vars)
		if truthy(left) {
			return true
		}
		return truthy(evaluate(n.Right, vars))
	}

	left := evaluate(n.Left, vars)
	right := evaluate(n.Right, vars)

	switch n.Op {
	case "==":
		return looseEqual(left, right)
	case "!=":
		return !looseEqual(left, right)
	}

	// String concatenation is the one non-numeric arithmetic form.
	if n.Op == "+" {
		ls, lok := left.(string)
		rs, rok := right.(string)
		if lok && rok {
			return ls + rs
		}
	}

	ln, lok := numeric(left)
	rn, rok := numeric(right)
	if !lok || !rok {
		switch n.Op {
		case "<", "<=", ">", ">=":
			ls, lsok := left.(string)
			rs, rsok := right.(string)
			if lsok && rsok {
				return compareStrings(n.Op, ls, rs)
			}
			return false
		default:
			return math.NaN()
		}
	}

	switch n.Op {
	case "+":
		return ln + rn
	case "-":
		return ln - rn
	case "*":
		return ln * rn
	case "/":
		if rn == 0 {
			return math.NaN()
		}
		return ln / rn
	case "%":
		if rn == 0 {
			return math.NaN()
		}
		return math.Mod(ln, rn)
	case "<":
		return ln < rn
	case "<=":
		return ln <= rn
	case ">":
		return ln > rn
	case ">=":
		return ln >= rn
	default:
		return nil
	}
}

func compareStrings(op, a, b string) bool {
	switch op {
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	case ">=":
		return a >= b
	default:
		return false
	}
}
