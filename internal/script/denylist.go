package script

import "strings"

// denyTokens lists substrings associated with process control, filesystem or
// network access, timers, and dynamic code loading. Any match rejects the
// whole expression or script before evaluation.
var denyTokens = []string{
	"require",
	"process.",
	"child_process",
	"globalThis",
	"eval(",
	"Function(",
	"new Function",
	"setTimeout",
	"setInterval",
	"setImmediate",
	"XMLHttpRequest",
	"fetch(",
	"WebSocket",
	"import(",
	"import ",
	"fs.",
	"readFile",
	"writeFile",
}

// denied returns the first deny-listed token found in src, if any.
func denied(src string) (string, bool) {
	for _, token := range denyTokens {
		if strings.Contains(src, token) {
			return token, true
		}
	}
	return "", false
}
