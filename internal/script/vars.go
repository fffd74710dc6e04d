package script

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dop251/goja"
)

// Variables is a read-only set of scalar bindings supplied per call. Values
// may be strings, numbers, booleans, or nil.
type Variables map[string]any

// sanitizeIdent rewrites a variable name into a safe JS identifier by
// replacing every character outside [A-Za-z0-9_] with an underscore.
func sanitizeIdent(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

// bindVariables seeds the runtime scope with sanitized variable names.
func bindVariables(vm *goja.Runtime, vars Variables) error {
	for name, value := range vars {
		if err := vm.Set(sanitizeIdent(name), value); err != nil {
			return fmt.Errorf("bind variable %q: %w", name, err)
		}
	}
	return nil
}

// renderScalar converts a scalar to its template string form. Numbers that
// are exact integers render without a decimal point.
func renderScalar(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
