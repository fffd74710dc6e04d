package script

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/dop251/goja"

	"github.com/GLH08/TuneBot/internal/logging"
)

const defaultExpandBudget = 100 * time.Millisecond

var exprPattern = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

// Expander resolves {{var}} / {var} placeholders and bounded {{ expr }}
// expressions against a variable set.
type Expander struct {
	logger *slog.Logger
	budget time.Duration
}

// NewExpander constructs an Expander. A nil logger disables warning output.
func NewExpander(logger *slog.Logger, budget time.Duration) *Expander {
	if budget <= 0 {
		budget = defaultExpandBudget
	}
	return &Expander{
		logger: logging.NewComponentLogger(logger, "expander"),
		budget: budget,
	}
}

// Expand substitutes variables and evaluates remaining expression spans.
//
// Literal substitution runs first: {{key}} and {key} become the stringified
// value for every key present in vars. Substituted values are shielded from
// the expression pass, so expression syntax arriving as a plain value is
// never re-evaluated. Remaining {{ expr }} spans are evaluated with only the
// sanitized variables in scope; a deny-list hit or evaluation error leaves
// the span untouched.
func (e *Expander) Expand(template string, vars Variables) string {
	if template == "" || !strings.ContainsAny(template, "{") {
		return template
	}

	// Phase 1: literal substitution via opaque placeholders.
	shielded := make([]string, 0, len(vars))
	for name, value := range vars {
		rendered := renderScalar(value)
		marker := fmt.Sprintf("\x00%d\x00", len(shielded))
		replaced := strings.ReplaceAll(template, "{{"+name+"}}", marker)
		replaced = strings.ReplaceAll(replaced, "{"+name+"}", marker)
		if replaced == template {
			continue
		}
		template = replaced
		shielded = append(shielded, rendered)
	}

	// Phase 2: expression substitution.
	if strings.Contains(template, "{{") {
		vm := goja.New()
		if err := bindVariables(vm, vars); err != nil {
			e.logger.Warn("expression scope setup failed", logging.Error(err))
		} else {
			template = exprPattern.ReplaceAllStringFunc(template, func(span string) string {
				expr := strings.TrimSpace(span[2 : len(span)-2])
				result, ok := e.evaluate(vm, expr)
				if !ok {
					return span
				}
				return result
			})
		}
	}

	// Restore shielded literal values.
	for i, value := range shielded {
		template = strings.ReplaceAll(template, fmt.Sprintf("\x00%d\x00", i), value)
	}
	return template
}

func (e *Expander) evaluate(vm *goja.Runtime, expr string) (string, bool) {
	if token, hit := denied(expr); hit {
		e.logger.Warn("expression rejected by deny-list",
			slog.String("token", token),
			slog.String("expr", logging.Snippet(expr)))
		return "", false
	}

	timer := time.AfterFunc(e.budget, func() { vm.Interrupt("expression budget exceeded") })
	value, err := vm.RunString(expr)
	timer.Stop()
	vm.ClearInterrupt()
	if err != nil {
		e.logger.Warn("expression evaluation failed",
			slog.String("expr", logging.Snippet(expr)),
			logging.Error(err))
		return "", false
	}
	if value == nil || goja.IsUndefined(value) || goja.IsNull(value) {
		return "", true
	}
	return renderScalar(value.Export()), true
}
