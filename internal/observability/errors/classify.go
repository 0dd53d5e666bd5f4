// Package errors turns Go error values into low-cardinality labels for
// metrics and logs.
package errors

import (
	goerrors "errors"
	"reflect"
	"strings"
)

// Classify maps err to a stable tag derived from the innermost concrete
// error type, e.g. "errors_apperror" or "net_operror". The chain is
// unwrapped first so fmt.Errorf wrapping does not change the tag.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	for {
		inner := goerrors.Unwrap(err)
		if inner == nil {
			break
		}
		err = inner
	}
	return typeTag(err)
}

func typeTag(err error) string {
	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}

	tag := strings.ToLower(t.String())
	tag = strings.ReplaceAll(tag, "*", "")
	tag = strings.ReplaceAll(tag, ".", "_")
	if tag == "" {
		return "unknown"
	}
	return tag
}
