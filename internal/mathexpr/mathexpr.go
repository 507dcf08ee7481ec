// Package mathexpr evaluates small user-supplied scalar expressions against a
// fixed variable set and a whitelisted function table. Expressions drive the
// free-form density, weight and signed-distance fields; they are compiled once
// per rebuild and evaluated per point, and a malformed expression must degrade
// to zero instead of breaking the frame loop.
package mathexpr

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ErrArity is returned by externally supplied Funcs called with the wrong
// number of arguments.
var ErrArity = errors.New("wrong argument count")

// Func is a whitelisted callable reachable from an expression.
type Func func(args []float64) (float64, error)

// Program is a compiled expression ready for repeated evaluation.
type Program struct {
	src   string
	root  node
	funcs map[string]Func
}

type node interface {
	eval(p *Program, vars map[string]float64) (float64, error)
}

var constants = map[string]float64{
	"pi":  math.Pi,
	"e":   math.E,
	"tau": 2 * math.Pi,
}

func arity(name string, n int, args []float64) error {
	if len(args) != n {
		return fmt.Errorf("%s expects %d argument(s), got %d", name, n, len(args))
	}
	return nil
}

func unary(name string, fn func(float64) float64) Func {
	return func(args []float64) (float64, error) {
		if err := arity(name, 1, args); err != nil {
			return 0, err
		}
		return fn(args[0]), nil
	}
}

func binary(name string, fn func(a, b float64) float64) Func {
	return func(args []float64) (float64, error) {
		if err := arity(name, 2, args); err != nil {
			return 0, err
		}
		return fn(args[0], args[1]), nil
	}
}

// builtins is the whitelisted math function set shared by every expression.
var builtins = map[string]Func{
	"sin":   unary("sin", math.Sin),
	"cos":   unary("cos", math.Cos),
	"tan":   unary("tan", math.Tan),
	"asin":  unary("asin", math.Asin),
	"acos":  unary("acos", math.Acos),
	"atan":  unary("atan", math.Atan),
	"sqrt":  unary("sqrt", math.Sqrt),
	"abs":   unary("abs", math.Abs),
	"floor": unary("floor", math.Floor),
	"ceil":  unary("ceil", math.Ceil),
	"exp":   unary("exp", math.Exp),
	"log":   unary("log", math.Log),
	"sign": unary("sign", func(v float64) float64 {
		switch {
		case v > 0:
			return 1
		case v < 0:
			return -1
		}
		return 0
	}),
	"atan2": binary("atan2", math.Atan2),
	"pow":   binary("pow", math.Pow),
	"min":   binary("min", math.Min),
	"max":   binary("max", math.Max),
	"clamp": func(args []float64) (float64, error) {
		if err := arity("clamp", 3, args); err != nil {
			return 0, err
		}
		return math.Max(args[1], math.Min(args[2], args[0])), nil
	},
}

// Compile parses src into a reusable Program. Whitespace-only input is
// rejected so callers can distinguish "no expression" from a broken one.
func Compile(src string) (*Program, error) {
	trimmed := strings.TrimSpace(src)
	if trimmed == "" {
		return nil, fmt.Errorf("empty expression")
	}
	toks, err := tokenize(trimmed)
	if err != nil {
		return nil, err
	}
	parser := &parser{toks: toks}
	root, err := parser.parseComparison()
	if err != nil {
		return nil, err
	}
	if parser.pos != len(parser.toks) {
		return nil, fmt.Errorf("unexpected %q", parser.toks[parser.pos].text)
	}
	return &Program{src: trimmed, root: root}, nil
}

// WithFuncs returns a copy of the program with extra callables layered over
// the builtin whitelist. Used by the signed-distance mini-language whose
// primitives close over the sample position.
func (p *Program) WithFuncs(extra map[string]Func) *Program {
	clone := &Program{src: p.src, root: p.root, funcs: extra}
	return clone
}

// Source returns the original expression text.
func (p *Program) Source() string { return p.src }

// Eval computes the expression against the given variable values.
func (p *Program) Eval(vars map[string]float64) (float64, error) {
	v, err := p.root.eval(p, vars)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite result")
	}
	return v, nil
}

// EvalOrZero is Eval with the degrade-to-zero failure policy applied.
func (p *Program) EvalOrZero(vars map[string]float64) float64 {
	v, err := p.Eval(vars)
	if err != nil {
		return 0
	}
	return v
}

func (p *Program) lookupFunc(name string) (Func, bool) {
	if p.funcs != nil {
		if fn, ok := p.funcs[name]; ok {
			return fn, true
		}
	}
	fn, ok := builtins[name]
	return fn, ok
}

// ---------------------------------------------------------------------------
// Tokenizer

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokIdent
	tokOp
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind tokenKind
	text string
	num  float64
}

func tokenize(src string) ([]token, error) {
	var toks []token
	runes := []rune(src)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '(':
			toks = append(toks, token{kind: tokLParen, text: "("})
			i++
		case r == ')':
			toks = append(toks, token{kind: tokRParen, text: ")"})
			i++
		case r == ',':
			toks = append(toks, token{kind: tokComma, text: ","})
			i++
		case unicode.IsDigit(r) || r == '.':
			j := i
			for j < len(runes) && (unicode.IsDigit(runes[j]) || runes[j] == '.') {
				j++
			}
			// scientific notation
			if j < len(runes) && (runes[j] == 'e' || runes[j] == 'E') {
				k := j + 1
				if k < len(runes) && (runes[k] == '+' || runes[k] == '-') {
					k++
				}
				if k < len(runes) && unicode.IsDigit(runes[k]) {
					for k < len(runes) && unicode.IsDigit(runes[k]) {
						k++
					}
					j = k
				}
			}
			text := string(runes[i:j])
			num, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, fmt.Errorf("bad number %q", text)
			}
			toks = append(toks, token{kind: tokNumber, text: text, num: num})
			i = j
		case unicode.IsLetter(r) || r == '_':
			j := i
			for j < len(runes) && (unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j]) || runes[j] == '_') {
				j++
			}
			toks = append(toks, token{kind: tokIdent, text: string(runes[i:j])})
			i = j
		default:
			rest := string(runes[i:])
			matched := ""
			for _, op := range []string{"**", "<=", ">=", "==", "!=", "+", "-", "*", "/", "%", "^", "<", ">"} {
				if strings.HasPrefix(rest, op) {
					matched = op
					break
				}
			}
			if matched == "" {
				return nil, fmt.Errorf("unexpected character %q", string(r))
			}
			toks = append(toks, token{kind: tokOp, text: matched})
			i += len([]rune(matched))
		}
	}
	return toks, nil
}

// ---------------------------------------------------------------------------
// Recursive-descent parser

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() *token {
	if p.pos >= len(p.toks) {
		return nil
	}
	return &p.toks[p.pos]
}

func (p *parser) acceptOp(ops ...string) (string, bool) {
	t := p.peek()
	if t == nil || t.kind != tokOp {
		return "", false
	}
	for _, op := range ops {
		if t.text == op {
			p.pos++
			return op, true
		}
	}
	return "", false
}

func (p *parser) parseComparison() (node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if op, ok := p.acceptOp("<=", ">=", "==", "!=", "<", ">"); ok {
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return &binaryNode{op: op, left: left, right: right}, nil
	}
	return left, nil
}

func (p *parser) parseAdditive() (node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.acceptOp("+", "-")
		if !ok {
			return left, nil
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
}

func (p *parser) parseMultiplicative() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.acceptOp("*", "/", "%")
		if !ok {
			return left, nil
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
}

func (p *parser) parseUnary() (node, error) {
	if op, ok := p.acceptOp("-", "+"); ok {
		child, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if op == "-" {
			return &unaryNode{child: child}, nil
		}
		return child, nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if _, ok := p.acceptOp("^", "**"); ok {
		// right-associative
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &binaryNode{op: "^", left: base, right: exp}, nil
	}
	return base, nil
}

func (p *parser) parsePrimary() (node, error) {
	t := p.peek()
	if t == nil {
		return nil, fmt.Errorf("unexpected end of expression")
	}
	switch t.kind {
	case tokNumber:
		p.pos++
		return &numberNode{value: t.num}, nil
	case tokIdent:
		name := t.text
		p.pos++
		next := p.peek()
		if next != nil && next.kind == tokLParen {
			p.pos++
			var args []node
			if nt := p.peek(); nt != nil && nt.kind == tokRParen {
				p.pos++
				return &callNode{name: name}, nil
			}
			for {
				arg, err := p.parseComparison()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				nt := p.peek()
				if nt == nil {
					return nil, fmt.Errorf("unterminated call to %s", name)
				}
				if nt.kind == tokComma {
					p.pos++
					continue
				}
				if nt.kind == tokRParen {
					p.pos++
					return &callNode{name: name, args: args}, nil
				}
				return nil, fmt.Errorf("unexpected %q in call to %s", nt.text, name)
			}
		}
		return &identNode{name: name}, nil
	case tokLParen:
		p.pos++
		inner, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		nt := p.peek()
		if nt == nil || nt.kind != tokRParen {
			return nil, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return inner, nil
	}
	return nil, fmt.Errorf("unexpected %q", t.text)
}

// ---------------------------------------------------------------------------
// AST nodes

type numberNode struct{ value float64 }

func (n *numberNode) eval(*Program, map[string]float64) (float64, error) {
	return n.value, nil
}

type identNode struct{ name string }

func (n *identNode) eval(_ *Program, vars map[string]float64) (float64, error) {
	if v, ok := vars[n.name]; ok {
		return v, nil
	}
	if v, ok := constants[n.name]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("unknown variable %q", n.name)
}

type unaryNode struct{ child node }

func (n *unaryNode) eval(p *Program, vars map[string]float64) (float64, error) {
	v, err := n.child.eval(p, vars)
	if err != nil {
		return 0, err
	}
	return -v, nil
}

type binaryNode struct {
	op    string
	left  node
	right node
}

func boolVal(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func (n *binaryNode) eval(p *Program, vars map[string]float64) (float64, error) {
	a, err := n.left.eval(p, vars)
	if err != nil {
		return 0, err
	}
	b, err := n.right.eval(p, vars)
	if err != nil {
		return 0, err
	}
	switch n.op {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "/":
		if b == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return a / b, nil
	case "%":
		if b == 0 {
			return 0, fmt.Errorf("modulo by zero")
		}
		return math.Mod(a, b), nil
	case "^":
		return math.Pow(a, b), nil
	case "<":
		return boolVal(a < b), nil
	case "<=":
		return boolVal(a <= b), nil
	case ">":
		return boolVal(a > b), nil
	case ">=":
		return boolVal(a >= b), nil
	case "==":
		return boolVal(a == b), nil
	case "!=":
		return boolVal(a != b), nil
	}
	return 0, fmt.Errorf("unknown operator %q", n.op)
}

type callNode struct {
	name string
	args []node
}

func (n *callNode) eval(p *Program, vars map[string]float64) (float64, error) {
	fn, ok := p.lookupFunc(n.name)
	if !ok {
		return 0, fmt.Errorf("unknown function %q", n.name)
	}
	args := make([]float64, len(n.args))
	for i, arg := range n.args {
		v, err := arg.eval(p, vars)
		if err != nil {
			return 0, err
		}
		args[i] = v
	}
	return fn(args)
}
