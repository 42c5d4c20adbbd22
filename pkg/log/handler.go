package log

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
	badKey            = "!BADKEY"
)

// normalizeFields turns alternating key/value fields into a slice zerolog's
// Fields accepts. Errors are rendered as strings, and the cockroachdb/errors
// stack trace is attached under StacktraceAttrKey. Structured error types
// that implement zerolog.LogObjectMarshaler are added as "<key>_detail".
func normalizeFields(fields []any) []any {
	out := make([]any, 0, len(fields)+2)
	for i := 0; i < len(fields); {
		if err, ok := fields[i].(error); ok {
			out = appendErr(out, ErrAttrKey, err)
			i++
			continue
		}
		if i+1 >= len(fields) {
			out = append(out, badKey, fields[i])
			break
		}
		key := fmt.Sprint(fields[i])
		if err, ok := fields[i+1].(error); ok {
			out = appendErr(out, key, err)
		} else {
			out = append(out, key, fields[i+1])
		}
		i += 2
	}
	return out
}

func appendErr(out []any, key string, err error) []any {
	if err == nil {
		return append(out, key, nil)
	}
	out = append(out, key, err.Error())
	var detail zerolog.LogObjectMarshaler
	if errors.As(err, &detail) {
		out = append(out, key+"_detail", detail)
	}
	if stacktrace := extractStacktrace(err); stacktrace != "" {
		out = append(out, StacktraceAttrKey, stacktrace)
	}
	return out
}

func extractStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}
