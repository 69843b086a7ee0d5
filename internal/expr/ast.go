package expr

// Expr is the closed set of expression nodes.
type Expr interface{ isExpr() }

// Literal is a number, string, boolean, or null constant.
type Literal struct {
	Value any
}

func (*Literal) isExpr() {}

// Ident is a top-level state key reference.
type Ident struct {
	Name string
}

func (*Ident) isExpr() {}

// Member is a dot access. On containers, "count", "first" and "last" are
// pseudo-properties; any other name is a map key lookup.
type Member struct {
	Target Expr
	Name   string
}

func (*Member) isExpr() {}

// Index is a bracket access with a computed index expression.
type Index struct {
	Target Expr
	Key    Expr
}

func (*Index) isExpr() {}

// Unary is a prefix operation: -x or !x.
type Unary struct {
	Op      string
	Operand Expr
}

func (*Unary) isExpr() {}

// Binary is an infix operation.
type Binary struct {
	Op    string
	Left  Expr
	Right Expr
}

func (*Binary) isExpr() {}

// Ternary is the conditional cond ? then : else.
type Ternary struct {
	Cond Expr
	Then Expr
	Else Expr
}

func (*Ternary) isExpr() {}
