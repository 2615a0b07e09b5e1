// Package diag carries non-fatal diagnostics produced while answering a turn.
// Core operations degrade instead of failing; the diagnostics they emit let
// callers (and tests) observe what was repaired, dropped, or absorbed along
// the way without parsing log output.
package diag

import "fmt"

// Diagnostic describes one non-fatal anomaly observed during a request.
type Diagnostic struct {
	Component string `json:"component"`
	Message   string `json:"message"`
}

// New creates a diagnostic for the given component.
func New(component, format string, args ...any) Diagnostic {
	return Diagnostic{
		Component: component,
		Message:   fmt.Sprintf(format, args...),
	}
}

// String renders the diagnostic as "component: message".
func (d Diagnostic) String() string {
	return d.Component + ": " + d.Message
}

// Strings flattens a diagnostic slice for transport-level responses.
func Strings(diags []Diagnostic) []string {
	if len(diags) == 0 {
		return nil
	}
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.String()
	}
	return out
}
