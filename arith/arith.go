// Package arith is the calculator's decimal arithmetic: arbitrary-precision
// values with a fixed vocabulary of binary and unary operations, each
// addressable by the identifier the keypad sends.
package arith

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// Precision is the number of decimal places kept by operations whose exact
// result is not representable (division, roots, trigonometry, logarithms).
// Addition, subtraction and multiplication stay exact.
const Precision = 16

// sqrtPrec is the binary precision used for square roots via math/big.
const sqrtPrec = 256

var (
	// ErrDomain is the class every invalid-operand error wraps; callers
	// check errors.Is(err, ErrDomain).
	ErrDomain = errors.New("arithmetic domain error")

	ErrDivisionByZero = fmt.Errorf("%w: division by zero", ErrDomain)
	ErrNegativeSqrt   = fmt.Errorf("%w: square root of a negative number", ErrDomain)
	ErrLogNonPositive = fmt.Errorf("%w: logarithm of a non-positive number", ErrDomain)

	// ErrBadLiteral reports text that is not a decimal literal. It is a
	// contract violation, not a domain error.
	ErrBadLiteral = errors.New("invalid decimal literal")
)

// Unit selects how trigonometric operations interpret their operand.
type Unit string

const (
	UnitDeg Unit = "deg"
	UnitRad Unit = "rad"
)

func (u Unit) Toggle() Unit {
	if u == UnitDeg {
		return UnitRad
	}
	return UnitDeg
}

// Value is one arbitrary-precision decimal number. The zero Value is 0.
type Value struct {
	d decimal.Decimal
}

// Parse converts a decimal literal to a Value. An entry in progress may end
// with a bare decimal point ("3."), which reads as the integer it started.
func Parse(text string) (Value, error) {
	d, err := decimal.NewFromString(strings.TrimSuffix(text, "."))
	if err != nil {
		return Value{}, fmt.Errorf("%w: %q", ErrBadLiteral, text)
	}
	return Value{d: d}, nil
}

// MustParse is Parse for literals known at compile time.
func MustParse(text string) Value {
	v, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return v
}

// String renders the canonical form: no exponent notation, no trailing
// fractional zeros, so Parse(x).String() normalizes x.
func (v Value) String() string {
	return v.d.String()
}

func (v Value) Equal(o Value) bool {
	return v.d.Equal(o.d)
}

func (v Value) IsZero() bool {
	return v.d.IsZero()
}

// BinaryFunc is one binary operation from the keypad vocabulary.
type BinaryFunc func(a, b Value) (Value, error)

// UnaryFunc is one unary operation. Every operation receives the ambient
// angle unit; only the trigonometric ones read it.
type UnaryFunc func(v Value, unit Unit) (Value, error)

var binaryOps = map[string]BinaryFunc{
	"add":      Add,
	"subtract": Subtract,
	"multiply": Multiply,
	"divide":   Divide,
}

var unaryOps = map[string]UnaryFunc{
	"sqrt":       Sqrt,
	"square":     Square,
	"reciprocal": Reciprocal,
	"ln":         Ln,
	"sin":        Sin,
	"cos":        Cos,
	"tan":        Tan,
	"negate":     Negate,
}

// Binary returns the binary operation named by id.
func Binary(id string) (BinaryFunc, bool) {
	fn, ok := binaryOps[id]
	return fn, ok
}

// Unary returns the unary operation named by id.
func Unary(id string) (UnaryFunc, bool) {
	fn, ok := unaryOps[id]
	return fn, ok
}

func Add(a, b Value) (Value, error) {
	return Value{d: a.d.Add(b.d)}, nil
}

func Subtract(a, b Value) (Value, error) {
	return Value{d: a.d.Sub(b.d)}, nil
}

func Multiply(a, b Value) (Value, error) {
	return Value{d: a.d.Mul(b.d)}, nil
}

func Divide(a, b Value) (Value, error) {
	if b.d.IsZero() {
		return Value{}, ErrDivisionByZero
	}
	return Value{d: a.d.DivRound(b.d, Precision)}, nil
}

// Sqrt computes the square root through math/big, which shopspring lacks.
func Sqrt(v Value, _ Unit) (Value, error) {
	if v.d.IsNegative() {
		return Value{}, ErrNegativeSqrt
	}
	f, _, err := big.ParseFloat(v.d.String(), 10, sqrtPrec, big.ToNearestEven)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %q", ErrBadLiteral, v.d.String())
	}
	root := new(big.Float).SetPrec(sqrtPrec).Sqrt(f)
	out, err := decimal.NewFromString(root.Text('f', Precision+8))
	if err != nil {
		return Value{}, fmt.Errorf("%w: %q", ErrBadLiteral, root.String())
	}
	return Value{d: out.Round(Precision)}, nil
}

func Square(v Value, _ Unit) (Value, error) {
	return Value{d: v.d.Mul(v.d)}, nil
}

func Reciprocal(v Value, _ Unit) (Value, error) {
	if v.d.IsZero() {
		return Value{}, ErrDivisionByZero
	}
	return Value{d: decimal.NewFromInt(1).DivRound(v.d, Precision)}, nil
}

func Ln(v Value, _ Unit) (Value, error) {
	if v.d.Sign() <= 0 {
		return Value{}, ErrLogNonPositive
	}
	out, err := v.d.Ln(Precision)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %v", ErrDomain, err)
	}
	return Value{d: out}, nil
}

func Negate(v Value, _ Unit) (Value, error) {
	return Value{d: v.d.Neg()}, nil
}

func Sin(v Value, unit Unit) (Value, error) {
	return Value{d: radians(v, unit).Sin().Round(Precision)}, nil
}

func Cos(v Value, unit Unit) (Value, error) {
	return Value{d: radians(v, unit).Cos().Round(Precision)}, nil
}

func Tan(v Value, unit Unit) (Value, error) {
	return Value{d: radians(v, unit).Tan().Round(Precision)}, nil
}

var (
	pi        = decimal.RequireFromString("3.14159265358979323846264338327950288419716939937510")
	piOver180 = pi.DivRound(decimal.NewFromInt(180), 64)
)

func radians(v Value, unit Unit) decimal.Decimal {
	if unit == UnitRad {
		return v.d
	}
	return v.d.Mul(piOver180)
}
