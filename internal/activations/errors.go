package activations

import (
	"fmt"
	"io"
	"log"
)

// ParameterError reports an activation parameter outside its valid domain.
type ParameterError struct {
	Param  string
	Value  any
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("activations: invalid %s %v: %s", e.Param, e.Value, e.Reason)
}

// NumericInstabilityWarning describes a value that had to be clamped or
// stabilized. It is reported, never returned as an error.
type NumericInstabilityWarning struct {
	Activation Kind
	// Row is the affected batch row, or -1 when the warning covers the
	// whole matrix.
	Row    int
	Count  int
	Detail string
}

func (w NumericInstabilityWarning) String() string {
	if w.Row < 0 {
		return fmt.Sprintf("numeric instability in %v: %d value(s): %s", w.Activation, w.Count, w.Detail)
	}
	return fmt.Sprintf("numeric instability in %v at row %d: %s", w.Activation, w.Row, w.Detail)
}

// Warner receives numeric instability warnings.
// Implementations must be safe for concurrent use.
type Warner interface {
	Warn(NumericInstabilityWarning)
}

// WarnerFunc adapts a function to the Warner interface.
type WarnerFunc func(NumericInstabilityWarning)

// Warn calls f(w).
func (f WarnerFunc) Warn(w NumericInstabilityWarning) { f(w) }

// LogWarner writes warnings to a log.Logger.
type LogWarner struct {
	logger *log.Logger
}

// NewLogWarner returns a Warner that logs to l. A nil l discards warnings.
func NewLogWarner(l *log.Logger) *LogWarner {
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	return &LogWarner{logger: l}
}

// Warn logs w.
func (lw *LogWarner) Warn(w NumericInstabilityWarning) {
	lw.logger.Printf("warning: %s", w)
}
