package expr

import "math"

// Differentiation builds its results through folding constructors so the
// returned trees read like hand-written calculus (2*x + 2*y) instead of
// mechanical rule output (2*x**1*1 + 0*y + ...).

func (n Num) Diff(string) Expr { return Num{} }

func (v Var) Diff(name string) Expr {
	if v.Name == name {
		return Num{Value: 1}
	}
	return Num{}
}

func (n Neg) Diff(name string) Expr { return neg(n.X.Diff(name)) }

func (b Bin) Diff(name string) Expr {
	dl := b.L.Diff(name)
	dr := b.R.Diff(name)
	switch b.Op {
	case OpAdd:
		return add(dl, dr)
	case OpSub:
		return sub(dl, dr)
	case OpMul:
		return add(mul(dl, b.R), mul(b.L, dr))
	case OpDiv:
		return div(sub(mul(dl, b.R), mul(b.L, dr)), pow(b.R, Num{Value: 2}))
	case OpPow:
		// Power rule for constant exponents, the logarithmic form
		// u**v * (v'*log(u) + v*u'/u) otherwise.
		if n, ok := b.R.(Num); ok {
			return mul(mul(n, pow(b.L, Num{Value: n.Value - 1})), dl)
		}
		return mul(pow(b.L, b.R), add(mul(dr, Call{Fn: "log", Arg: b.L}), div(mul(b.R, dl), b.L)))
	}
	return Num{}
}

func (c Call) Diff(name string) Expr {
	d := c.Arg.Diff(name)
	switch c.Fn {
	case "sin":
		return mul(d, Call{Fn: "cos", Arg: c.Arg})
	case "cos":
		return neg(mul(d, Call{Fn: "sin", Arg: c.Arg}))
	case "tan":
		return div(d, pow(Call{Fn: "cos", Arg: c.Arg}, Num{Value: 2}))
	case "exp":
		return mul(d, Call{Fn: "exp", Arg: c.Arg})
	case "log":
		return div(d, c.Arg)
	case "sqrt":
		return div(d, mul(Num{Value: 2}, Call{Fn: "sqrt", Arg: c.Arg}))
	}
	// Unreachable after Parse: the parser rejects unknown functions.
	panic("expr: no derivative rule for function " + c.Fn)
}

// Simplify rebuilds a tree through the folding constructors. Parse keeps
// the user's structure untouched; callers wanting folded constants and
// stripped identities (x+0, 1*x, x**1) apply this explicitly.
func Simplify(e Expr) Expr {
	switch n := e.(type) {
	case Neg:
		return neg(Simplify(n.X))
	case Bin:
		l, r := Simplify(n.L), Simplify(n.R)
		switch n.Op {
		case OpAdd:
			return add(l, r)
		case OpSub:
			return sub(l, r)
		case OpMul:
			return mul(l, r)
		case OpDiv:
			return div(l, r)
		case OpPow:
			return pow(l, r)
		}
	case Call:
		return Call{Fn: n.Fn, Arg: Simplify(n.Arg)}
	}
	return e
}

func isNum(e Expr, v float64) bool {
	n, ok := e.(Num)
	return ok && n.Value == v
}

func add(l, r Expr) Expr {
	if isNum(l, 0) {
		return r
	}
	if isNum(r, 0) {
		return l
	}
	if ln, ok := l.(Num); ok {
		if rn, ok := r.(Num); ok {
			return Num{Value: ln.Value + rn.Value}
		}
	}
	return Bin{Op: OpAdd, L: l, R: r}
}

func sub(l, r Expr) Expr {
	if isNum(r, 0) {
		return l
	}
	if isNum(l, 0) {
		return neg(r)
	}
	if ln, ok := l.(Num); ok {
		if rn, ok := r.(Num); ok {
			return Num{Value: ln.Value - rn.Value}
		}
	}
	return Bin{Op: OpSub, L: l, R: r}
}

func mul(l, r Expr) Expr {
	if isNum(l, 0) || isNum(r, 0) {
		return Num{}
	}
	if isNum(l, 1) {
		return r
	}
	if isNum(r, 1) {
		return l
	}
	if ln, ok := l.(Num); ok {
		if rn, ok := r.(Num); ok {
			return Num{Value: ln.Value * rn.Value}
		}
	}
	return Bin{Op: OpMul, L: l, R: r}
}

func div(l, r Expr) Expr {
	if isNum(l, 0) {
		return Num{}
	}
	if isNum(r, 1) {
		return l
	}
	if ln, ok := l.(Num); ok {
		if rn, ok := r.(Num); ok && rn.Value != 0 {
			return Num{Value: ln.Value / rn.Value}
		}
	}
	return Bin{Op: OpDiv, L: l, R: r}
}

func pow(b, e Expr) Expr {
	if isNum(e, 0) {
		return Num{Value: 1}
	}
	if isNum(e, 1) {
		return b
	}
	if bn, ok := b.(Num); ok {
		if en, ok := e.(Num); ok {
			return Num{Value: math.Pow(bn.Value, en.Value)}
		}
	}
	return Bin{Op: OpPow, L: b, R: e}
}

func neg(x Expr) Expr {
	if n, ok := x.(Num); ok {
		return Num{Value: -n.Value}
	}
	if n, ok := x.(Neg); ok {
		return n.X
	}
	return Neg{X: x}
}
