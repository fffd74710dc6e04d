package script

import (
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/dop251/goja"

	"github.com/GLH08/TuneBot/internal/logging"
)

const defaultTransformBudget = 500 * time.Millisecond

// Record is one normalized row produced by a transform script. No schema is
// imposed at this layer; higher-level code projects fields afterward.
type Record = map[string]any

var namedFuncPattern = regexp.MustCompile(`^function\s+([A-Za-z_$][A-Za-z0-9_$]*)\s*\(`)

// arrowParamsPattern matches an arrow-function parameter list anchored at the
// start of the script: `x =>`, `(x) =>`, `(a, b) =>`, `() =>`. An arrow
// appearing deeper in the text belongs to a callback inside a bare expression.
var arrowParamsPattern = regexp.MustCompile(`^\(\s*([A-Za-z_$][A-Za-z0-9_$]*(\s*,\s*[A-Za-z_$][A-Za-z0-9_$]*)*)?\s*\)\s*=>|^[A-Za-z_$][A-Za-z0-9_$]*\s*=>`)

// Sandbox executes descriptor-supplied transform scripts against raw
// responses inside a capability-less goja runtime.
type Sandbox struct {
	logger *slog.Logger
	budget time.Duration
}

// NewSandbox constructs a Sandbox. A nil logger disables warning output.
func NewSandbox(logger *slog.Logger, budget time.Duration) *Sandbox {
	if budget <= 0 {
		budget = defaultTransformBudget
	}
	return &Sandbox{
		logger: logging.NewComponentLogger(logger, "sandbox"),
		budget: budget,
	}
}

// Run executes script against response and returns the normalized records.
// The script may be an anonymous function literal, a named function, or a
// bare expression over a variable named response; it is wrapped into a
// uniform entry point before execution. Any deny-list hit, execution error,
// non-array return, or budget overrun yields an empty slice.
func (s *Sandbox) Run(script string, response any, vars Variables) []Record {
	trimmed := strings.TrimSpace(script)
	if trimmed == "" {
		return nil
	}

	if token, hit := denied(trimmed); hit {
		s.logger.Warn("transform script rejected by deny-list",
			slog.String("token", token),
			slog.String("script", logging.Snippet(trimmed)))
		return nil
	}

	vm := goja.New()
	if err := bindVariables(vm, vars); err != nil {
		s.logger.Warn("transform scope setup failed", logging.Error(err))
		return nil
	}
	if err := vm.Set("__response", response); err != nil {
		s.logger.Warn("transform response binding failed", logging.Error(err))
		return nil
	}

	timer := time.AfterFunc(s.budget, func() { vm.Interrupt("transform budget exceeded") })
	value, err := vm.RunString(wrapTransform(trimmed))
	timer.Stop()
	vm.ClearInterrupt()
	if err != nil {
		s.logger.Warn("transform execution failed",
			slog.String("script", logging.Snippet(trimmed)),
			logging.Error(err))
		return nil
	}

	records, ok := exportRecords(value)
	if !ok {
		s.logger.Warn("transform returned a non-array value",
			slog.String("script", logging.Snippet(trimmed)))
		return nil
	}
	return records
}

// wrapTransform normalizes the textual forms a descriptor may carry into one
// callable entry point invoked with the raw response.
func wrapTransform(script string) string {
	switch {
	case namedFuncPattern.MatchString(script):
		name := namedFuncPattern.FindStringSubmatch(script)[1]
		return script + "\nvar __transform = " + name + ";\n__transform(__response);"
	case strings.HasPrefix(script, "function") || isArrowFunction(script):
		return "var __transform = (" + script + ");\n__transform(__response);"
	default:
		// Bare expression over a variable named response.
		return "var __transform = function(response) { return (" + script + "); };\n__transform(__response);"
	}
}

func isArrowFunction(script string) bool {
	return arrowParamsPattern.MatchString(script)
}

func exportRecords(value goja.Value) ([]Record, bool) {
	if value == nil || goja.IsUndefined(value) || goja.IsNull(value) {
		return nil, false
	}
	exported := value.Export()
	items, ok := exported.([]any)
	if !ok {
		return nil, false
	}
	records := make([]Record, 0, len(items))
	for _, item := range items {
		if record, ok := item.(Record); ok {
			records = append(records, record)
		}
	}
	return records, true
}
