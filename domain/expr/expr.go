// Package expr implements a small symbolic expression engine: arithmetic
// formulas over named variables are parsed into a typed tree supporting
// numeric evaluation, substitution and symbolic partial differentiation.
// The canonical text rendering of a tree is what callers display.
package expr

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"statlab/domain/core"
)

// Expr is a node in an expression tree. Implementations are immutable;
// every transformation returns a new tree.
type Expr interface {
	// Eval computes the numeric value of the tree with every variable
	// bound. Arithmetic is IEEE-754: division by zero and domain errors
	// yield Inf/NaN rather than an error.
	Eval(vars map[string]float64) (float64, error)

	// Diff returns the symbolic partial derivative with respect to name.
	Diff(name string) Expr

	// Sub replaces every occurrence of the named variable with a constant.
	Sub(name string, value float64) Expr

	// String renders the canonical text form: spaces around + and -,
	// none around * / **, parentheses only where precedence requires.
	String() string

	precedence() int
}

// Operator precedence levels used for rendering.
const (
	precAdd  = 1 // + - and unary minus
	precMul  = 2 // * /
	precPow  = 3 // **
	precAtom = 4 // literals, variables, calls
)

// Op identifies a binary operator.
type Op byte

const (
	OpAdd Op = '+'
	OpSub Op = '-'
	OpMul Op = '*'
	OpDiv Op = '/'
	OpPow Op = '^' // rendered as **
)

// Num is a numeric literal.
type Num struct {
	Value float64
}

// Var is a reference to a named variable.
type Var struct {
	Name string
}

// Neg is unary negation.
type Neg struct {
	X Expr
}

// Bin is a binary operation.
type Bin struct {
	Op   Op
	L, R Expr
}

// Call is a single-argument function application.
type Call struct {
	Fn  string
	Arg Expr
}

// functions maps the supported function names to their evaluators.
// Derivative rules live in diff.go.
var functions = map[string]func(float64) float64{
	"sin":  math.Sin,
	"cos":  math.Cos,
	"tan":  math.Tan,
	"exp":  math.Exp,
	"log":  math.Log,
	"sqrt": math.Sqrt,
}

// IsFunction reports whether name is a supported function.
func IsFunction(name string) bool {
	_, ok := functions[name]
	return ok
}

func (n Num) Eval(map[string]float64) (float64, error) { return n.Value, nil }

func (v Var) Eval(vars map[string]float64) (float64, error) {
	val, ok := vars[v.Name]
	if !ok {
		return 0, core.NewUndefinedVariableError(v.Name)
	}
	return val, nil
}

func (n Neg) Eval(vars map[string]float64) (float64, error) {
	x, err := n.X.Eval(vars)
	if err != nil {
		return 0, err
	}
	return -x, nil
}

func (b Bin) Eval(vars map[string]float64) (float64, error) {
	l, err := b.L.Eval(vars)
	if err != nil {
		return 0, err
	}
	r, err := b.R.Eval(vars)
	if err != nil {
		return 0, err
	}
	switch b.Op {
	case OpAdd:
		return l + r, nil
	case OpSub:
		return l - r, nil
	case OpMul:
		return l * r, nil
	case OpDiv:
		return l / r, nil
	case OpPow:
		return math.Pow(l, r), nil
	}
	return 0, core.NewComputationError("unknown operator " + string(b.Op))
}

func (c Call) Eval(vars map[string]float64) (float64, error) {
	arg, err := c.Arg.Eval(vars)
	if err != nil {
		return 0, err
	}
	fn, ok := functions[c.Fn]
	if !ok {
		return 0, core.NewComputationError("unknown function " + c.Fn)
	}
	return fn(arg), nil
}

func (n Num) Sub(string, float64) Expr { return n }

func (v Var) Sub(name string, value float64) Expr {
	if v.Name == name {
		return Num{Value: value}
	}
	return v
}

func (n Neg) Sub(name string, value float64) Expr {
	return Neg{X: n.X.Sub(name, value)}
}

func (b Bin) Sub(name string, value float64) Expr {
	return Bin{Op: b.Op, L: b.L.Sub(name, value), R: b.R.Sub(name, value)}
}

func (c Call) Sub(name string, value float64) Expr {
	return Call{Fn: c.Fn, Arg: c.Arg.Sub(name, value)}
}

func (Num) precedence() int  { return precAtom }
func (Var) precedence() int  { return precAtom }
func (Neg) precedence() int  { return precAdd }
func (Call) precedence() int { return precAtom }

func (b Bin) precedence() int {
	switch b.Op {
	case OpAdd, OpSub:
		return precAdd
	case OpMul, OpDiv:
		return precMul
	}
	return precPow
}

func (n Num) String() string {
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

func (v Var) String() string { return v.Name }

func (n Neg) String() string {
	// Negating another negation or an additive expression needs parens
	// to stay readable: -(-x), -(a + b).
	if _, ok := n.X.(Neg); ok || n.X.precedence() <= precAdd {
		return "-(" + n.X.String() + ")"
	}
	return "-" + n.X.String()
}

func (b Bin) String() string {
	var sb strings.Builder
	sb.WriteString(wrap(b.L, b.leftNeedsParens()))
	switch b.Op {
	case OpAdd:
		sb.WriteString(" + ")
	case OpSub:
		sb.WriteString(" - ")
	case OpMul:
		sb.WriteString("*")
	case OpDiv:
		sb.WriteString("/")
	case OpPow:
		sb.WriteString("**")
	}
	sb.WriteString(wrap(b.R, b.rightNeedsParens()))
	return sb.String()
}

func (c Call) String() string {
	return c.Fn + "(" + c.Arg.String() + ")"
}

func (b Bin) leftNeedsParens() bool {
	p := b.precedence()
	if b.Op == OpPow {
		// ** is right-associative: (a**b)**c keeps its parens.
		return b.L.precedence() <= p
	}
	return b.L.precedence() < p
}

func (b Bin) rightNeedsParens() bool {
	p := b.precedence()
	switch b.Op {
	case OpSub, OpDiv:
		// a - (b - c), a/(b*c)
		if b.R.precedence() <= p {
			return true
		}
	case OpPow:
		if b.R.precedence() < p {
			return true
		}
	default:
		if b.R.precedence() < p {
			return true
		}
	}
	// A negative literal on the right reads badly without parens: x**(-3).
	if num, ok := b.R.(Num); ok && num.Value < 0 {
		return true
	}
	return false
}

func wrap(e Expr, parens bool) string {
	if parens {
		return "(" + e.String() + ")"
	}
	return e.String()
}

// Vars returns the free variables of the tree, sorted and deduplicated.
func Vars(e Expr) []string {
	seen := map[string]bool{}
	collectVars(e, seen)
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func collectVars(e Expr, seen map[string]bool) {
	switch n := e.(type) {
	case Var:
		seen[n.Name] = true
	case Neg:
		collectVars(n.X, seen)
	case Bin:
		collectVars(n.L, seen)
		collectVars(n.R, seen)
	case Call:
		collectVars(n.Arg, seen)
	}
}
