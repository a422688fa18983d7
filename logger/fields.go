package logger

import (
	"time"
)

// Standard field key constants for structured logging.
const (
	FieldComponent = "component"
	FieldTraceID   = "trace_id"
	FieldSpanID    = "span_id"
	FieldOperation = "operation"
	FieldStatus    = "status"
	FieldError     = "error"
	FieldDuration  = "duration_ms"
)

// Stream evaluation field keys.
const (
	FieldStreamID  = "stream_id"
	FieldStream    = "stream"
	FieldTerminal  = "terminal"
	FieldStages    = "stages"
	FieldPulled    = "pulled"
	FieldCancelled = "cancelled"
	FieldPlan      = "plan"
	FieldDepth     = "depth"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	logger.Debug("stream evaluated", logger.Fields("terminal", "Collect", "pulled", 42))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields creates fields for an operation that failed.
func ErrorFields(op string, err error) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldError:     err.Error(),
	}
}

// DurationFields creates fields for a timed operation.
func DurationFields(op string, d time.Duration) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldDuration:  d.Milliseconds(),
	}
}
