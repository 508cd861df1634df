// Package engine is the calculator state machine. A State is a value; Apply
// interprets one key event and returns the successor state, so sessions can
// be cached, copied and replayed freely.
package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/b8394edf/calculator/arith"
)

// DisplayError is parked in the display after an arithmetic domain error.
// A faulted state ignores every key except clear.
const DisplayError = "Error"

var (
	ErrUnknownCategory = errors.New("unknown key category")
	ErrUnknownKey      = errors.New("unknown key id")
)

// State is one calculator session.
//
// Display is the text on screen, always a decimal literal unless faulted.
// Output holds the stored first operand while Operation is armed.
// ResetDisplay marks that the next digit starts a fresh entry instead of
// appending. Mode and Unit are keypad settings; no arithmetic depends on
// Mode, and only trigonometry reads Unit.
type State struct {
	Display      string
	Output       string
	Operation    Op
	ResetDisplay bool
	Mode         Mode
	Unit         arith.Unit
}

// New returns the state every session starts from.
func New() State {
	return State{
		Display:      "0",
		ResetDisplay: true,
		Mode:         ModeScientific,
		Unit:         arith.UnitDeg,
	}
}

// Faulted reports whether the state shows the error indicator.
func (s State) Faulted() bool {
	return s.Display == DisplayError
}

// Pending reports whether a binary operation is waiting for its second
// operand.
func (s State) Pending() bool {
	return s.Operation != OpNone
}

// Apply interprets one key press. Arithmetic domain errors fault the
// returned state and are reported alongside it; any other error means the
// key contradicts the keypad contract and leaves the state unchanged.
func Apply(s State, k Key) (State, error) {
	if s.Faulted() && k.Category != CategoryClear {
		return s, nil
	}

	switch k.Category {
	case CategoryNumber:
		return processNumber(s, k)
	case CategoryBinaryOp:
		return processBinary(s, k)
	case CategoryUnaryOp:
		return processUnary(s, k)
	case CategoryEquals:
		return resolvePending(s)
	case CategoryClear:
		return processClear(s), nil
	case CategoryFunction:
		return processFunction(s, k), nil
	}
	return s, fmt.Errorf("%w: %q", ErrUnknownCategory, k.Category)
}

func processNumber(s State, k Key) (State, error) {
	if k.ID != KeyDecimal && !isDigit(k.ID) {
		return s, fmt.Errorf("%w: %q", ErrUnknownKey, k.ID)
	}

	entry := s.Display
	if s.ResetDisplay {
		entry = ""
		s.ResetDisplay = false
	}

	if k.ID == KeyDecimal {
		if strings.Contains(entry, ".") {
			s.Display = entry
			return s, nil
		}
		if entry == "" || entry == "-" {
			entry += "0"
		}
		s.Display = entry + "."
		return s, nil
	}

	s.Display = normalize(entry + k.ID)
	return s, nil
}

func processBinary(s State, k Key) (State, error) {
	op, ok := keyOps[k.ID]
	if !ok {
		return s, fmt.Errorf("%w: %q", ErrUnknownKey, k.ID)
	}

	next, err := resolvePending(s)
	if err != nil {
		return next, err
	}
	next.Output = next.Display
	next.Operation = op
	next.ResetDisplay = true
	return next, nil
}

func processUnary(s State, k Key) (State, error) {
	operand, err := arith.Parse(s.Display)
	if err != nil {
		return fault(s), err
	}

	var out arith.Value
	if k.ID == KeyPercent {
		// Percent is a fixed division by hundred, not part of the
		// arithmetic vocabulary.
		out, err = arith.Divide(operand, hundred)
	} else {
		fn, ok := arith.Unary(k.ID)
		if !ok {
			return s, fmt.Errorf("%w: %q", ErrUnknownKey, k.ID)
		}
		out, err = fn(operand, s.Unit)
	}
	if err != nil {
		return fault(s), err
	}

	// Only the display changes: a unary result neither clears a pending
	// operation nor ends the current entry.
	s.Display = out.String()
	return s, nil
}

// resolvePending applies the armed operation to the stored operand and the
// display, exactly as the equals key does. Chaining a second operator works
// by resolving before arming.
func resolvePending(s State) (State, error) {
	if !s.Pending() {
		return s, nil
	}

	first, err := arith.Parse(s.Output)
	if err != nil {
		return fault(s), err
	}
	second, err := arith.Parse(s.Display)
	if err != nil {
		return fault(s), err
	}
	fn, ok := arith.Binary(string(s.Operation))
	if !ok {
		return s, fmt.Errorf("%w: operation %q", ErrUnknownKey, s.Operation)
	}

	out, err := fn(first, second)
	if err != nil {
		return fault(s), err
	}
	s.Display = out.String()
	s.Output = out.String()
	s.Operation = OpNone
	s.ResetDisplay = true
	return s, nil
}

func processClear(s State) State {
	next := New()
	next.Mode = s.Mode
	next.Unit = s.Unit
	return next
}

func processFunction(s State, k Key) State {
	switch k.ID {
	case KeyTrigUnit:
		s.Unit = s.Unit.Toggle()
	case KeyMode:
		s.Mode = s.Mode.Toggle()
	case KeyClearEntry:
		s.Display = "0"
		s.ResetDisplay = true
	}
	// Other function ids are settings this build does not carry; they
	// fall through unchanged rather than failing the session.
	return s
}

// fault parks the error indicator and drops the calculation; settings
// survive so clear restores a usable keypad.
func fault(s State) State {
	s.Display = DisplayError
	s.Output = ""
	s.Operation = OpNone
	s.ResetDisplay = true
	return s
}

var keyOps = map[string]Op{
	KeyAdd:      OpAdd,
	KeySubtract: OpSubtract,
	KeyMultiply: OpMultiply,
	KeyDivide:   OpDivide,
}

var hundred = arith.MustParse("100")

func isDigit(id string) bool {
	return len(id) == 1 && '0' <= id[0] && id[0] <= '9'
}

// normalize strips leading zeros that are not immediately followed by the
// decimal point, keeping a sign introduced by negation. An empty entry
// renders as "0".
func normalize(text string) string {
	negative := strings.HasPrefix(text, "-")
	text = strings.TrimPrefix(text, "-")
	for len(text) > 1 && text[0] == '0' && text[1] != '.' {
		text = text[1:]
	}
	if text == "" {
		text = "0"
	}
	if negative {
		return "-" + text
	}
	return text
}
