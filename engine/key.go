package engine

// Category classifies a key; Apply dispatches on it, never on the id alone.
type Category string

const (
	CategoryNumber   Category = "number"
	CategoryBinaryOp Category = "binaryOperation"
	CategoryUnaryOp  Category = "unaryOperation"
	CategoryEquals   Category = "equals"
	CategoryClear    Category = "clear"
	CategoryFunction Category = "function"
)

// Key is one keypad event. ID names the exact key within its category;
// digits use their literal text ("0" through "9").
type Key struct {
	ID       string
	Category Category
}

const (
	KeyDecimal = "decimal"

	KeyAdd      = "add"
	KeySubtract = "subtract"
	KeyMultiply = "multiply"
	KeyDivide   = "divide"

	KeySqrt       = "sqrt"
	KeySquare     = "square"
	KeyReciprocal = "reciprocal"
	KeyLn         = "ln"
	KeySin        = "sin"
	KeyCos        = "cos"
	KeyTan        = "tan"
	KeyPercent    = "percent"
	KeyNegate     = "negate"

	KeyEquals = "equals"
	KeyClear  = "clear"

	KeyTrigUnit   = "trigUnit"
	KeyMode       = "mode"
	KeyClearEntry = "clearEntry"
)

// Op is a pending binary operation. Its value doubles as the arithmetic
// vocabulary identifier.
type Op string

const (
	OpNone     Op = ""
	OpAdd      Op = KeyAdd
	OpSubtract Op = KeySubtract
	OpMultiply Op = KeyMultiply
	OpDivide   Op = KeyDivide
)

// Mode selects which keypad the shell renders. It never changes how keys
// are interpreted.
type Mode string

const (
	ModeBasic      Mode = "basic"
	ModeScientific Mode = "scientific"
)

func (m Mode) Toggle() Mode {
	if m == ModeBasic {
		return ModeScientific
	}
	return ModeBasic
}
