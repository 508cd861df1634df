// Package keypad describes the calculator keyboards the shell renders: one
// button grid per mode, each button carrying the engine key it emits.
package keypad

import (
	"github.com/b8394edf/calculator/arith"
	"github.com/b8394edf/calculator/engine"
)

// Button is one keypad cell: the label the shell shows and the key the
// engine receives when it is pressed. Key.ID doubles as the callback
// payload, so it must stay stable across layout changes.
type Button struct {
	Label string
	Key   engine.Key
}

// Row is one keyboard line, top to bottom.
type Row []Button

// Lookup resolves a callback payload to the key it names. Payloads from
// outdated keyboards still resolve as long as the key exists at all.
func Lookup(id string) (engine.Key, bool) {
	k, ok := registry[id]
	return k, ok
}

// Layout returns the keypad for the state's mode. Labels follow the state:
// the armed operator is bracketed, the unit key shows the active unit and
// the mode key names the layout it switches to.
func Layout(s engine.State) []Row {
	rows := []Row{{
		btn("AC", engine.KeyClear),
		btn("C", engine.KeyClearEntry),
		btn("%", engine.KeyPercent),
		opBtn("÷", engine.KeyDivide, s),
	}}

	if s.Mode == engine.ModeScientific {
		rows = append(rows,
			Row{
				btn("sin", engine.KeySin),
				btn("cos", engine.KeyCos),
				btn("tan", engine.KeyTan),
				btn(unitLabel(s), engine.KeyTrigUnit),
			},
			Row{
				btn("√", engine.KeySqrt),
				btn("x²", engine.KeySquare),
				btn("1/x", engine.KeyReciprocal),
				btn("ln", engine.KeyLn),
			},
		)
	}

	rows = append(rows,
		Row{btn("7", "7"), btn("8", "8"), btn("9", "9"), opBtn("×", engine.KeyMultiply, s)},
		Row{btn("4", "4"), btn("5", "5"), btn("6", "6"), opBtn("-", engine.KeySubtract, s)},
		Row{btn("1", "1"), btn("2", "2"), btn("3", "3"), opBtn("+", engine.KeyAdd, s)},
		Row{btn("±", engine.KeyNegate), btn("0", "0"), btn(".", engine.KeyDecimal), btn("=", engine.KeyEquals)},
		Row{btn(modeLabel(s), engine.KeyMode)},
	)
	return rows
}

func btn(label, id string) Button {
	return Button{Label: label, Key: registry[id]}
}

func opBtn(label, id string, s engine.State) Button {
	if s.Operation == engine.Op(id) {
		label = "[" + label + "]"
	}
	return btn(label, id)
}

func unitLabel(s engine.State) string {
	if s.Unit == arith.UnitRad {
		return "Rad"
	}
	return "Deg"
}

func modeLabel(s engine.State) string {
	if s.Mode == engine.ModeScientific {
		return "Basic"
	}
	return "Sci"
}

var registry = buildRegistry()

func buildRegistry() map[string]engine.Key {
	keys := make(map[string]engine.Key)

	for d := byte('0'); d <= '9'; d++ {
		keys[string(d)] = engine.Key{ID: string(d), Category: engine.CategoryNumber}
	}
	keys[engine.KeyDecimal] = engine.Key{ID: engine.KeyDecimal, Category: engine.CategoryNumber}

	for _, id := range []string{
		engine.KeyAdd, engine.KeySubtract, engine.KeyMultiply, engine.KeyDivide,
	} {
		keys[id] = engine.Key{ID: id, Category: engine.CategoryBinaryOp}
	}

	for _, id := range []string{
		engine.KeySqrt, engine.KeySquare, engine.KeyReciprocal, engine.KeyLn,
		engine.KeySin, engine.KeyCos, engine.KeyTan, engine.KeyPercent, engine.KeyNegate,
	} {
		keys[id] = engine.Key{ID: id, Category: engine.CategoryUnaryOp}
	}

	keys[engine.KeyEquals] = engine.Key{ID: engine.KeyEquals, Category: engine.CategoryEquals}
	keys[engine.KeyClear] = engine.Key{ID: engine.KeyClear, Category: engine.CategoryClear}

	for _, id := range []string{engine.KeyTrigUnit, engine.KeyMode, engine.KeyClearEntry} {
		keys[id] = engine.Key{ID: id, Category: engine.CategoryFunction}
	}
	return keys
}
