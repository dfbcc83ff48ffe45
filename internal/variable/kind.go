package variable

import "fmt"

// Kind is the closed enumeration of value kinds a variable may hold. The
// numeric kinds form a widening chain used for type promotion when several
// models declare the same variable with diverging numeric types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindFloat32
	KindFloat64
	KindString
)

// String returns a human-readable kind name for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindString:
		return "string"
	default:
		return "invalid"
	}
}

// IsNumeric reports whether the kind participates in numeric widening.
func (k Kind) IsNumeric() bool {
	return k == KindBool || k == KindInt || k == KindFloat32 || k == KindFloat64
}

// KindOf infers the kind of a runtime value.
func KindOf(v any) Kind {
	switch v.(type) {
	case bool:
		return KindBool
	case int, int32, int64:
		return KindInt
	case float32:
		return KindFloat32
	case float64:
		return KindFloat64
	case string:
		return KindString
	default:
		return KindInvalid
	}
}

// Promote returns the common kind two declarations of the same variable
// widen to. The second result reports whether a widening exists: numeric
// kinds widen along bool < int < float32 < float64, anything else has no
// common kind and the caller keeps the first-seen one.
func Promote(a, b Kind) (Kind, bool) {
	if a == b {
		return a, true
	}
	if a.IsNumeric() && b.IsNumeric() {
		if a > b {
			return a, true
		}
		return b, true
	}
	return a, false
}

// Convert coerces a value to the given kind. Values already of the target
// kind pass through untouched; only numeric widening is performed.
func Convert(v any, k Kind) any {
	if KindOf(v) == k {
		return v
	}
	switch k {
	case KindInt:
		switch n := v.(type) {
		case bool:
			if n {
				return int(1)
			}
			return int(0)
		case int32:
			return int(n)
		case int64:
			return int(n)
		}
	case KindFloat32:
		switch n := v.(type) {
		case int:
			return float32(n)
		case int64:
			return float32(n)
		}
	case KindFloat64:
		switch n := v.(type) {
		case bool:
			if n {
				return float64(1)
			}
			return float64(0)
		case int:
			return float64(n)
		case int32:
			return float64(n)
		case int64:
			return float64(n)
		case float32:
			return float64(n)
		}
	}
	return v
}

// TypeConflict records a non-fatal diverging declaration of one variable
// name across models, and the kind the engine settled on.
type TypeConflict struct {
	Name     string
	Declared Kind
	Seen     Kind
	Chosen   Kind
	Promoted bool
}

// String formats the conflict for logging.
func (c TypeConflict) String() string {
	if c.Promoted {
		return fmt.Sprintf("variable %q declared as both %s and %s, promoted to %s", c.Name, c.Declared, c.Seen, c.Chosen)
	}
	return fmt.Sprintf("variable %q declared as both %s and %s, no common kind, keeping %s", c.Name, c.Declared, c.Seen, c.Chosen)
}
