package oas

import (
	"fmt"
	"sort"
	"strings"
)

// Summary renders Detail as a message plus per-field details. A string detail becomes
// the message. A list of validation errors is keyed by the last element of each loc.
func (r ErrorResponse) Summary() (string, map[string]any) {
	switch d := r.Detail.(type) {
	case nil:
		return "", nil
	case string:
		return d, nil
	case []any:
		details := map[string]any{}
		msgs := make([]string, 0, len(d))
		for _, item := range d {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			msg, _ := m["msg"].(string)
			field := "body"
			if loc, ok := m["loc"].([]any); ok && len(loc) > 0 {
				field = fmt.Sprint(loc[len(loc)-1])
			}
			details[field] = msg
			msgs = append(msgs, field+": "+msg)
		}
		return strings.Join(msgs, "; "), details
	default:
		return fmt.Sprint(d), nil
	}
}

// ValidationDetail builds a 422 body in the service's shape. Fields are sorted for a
// stable order.
func ValidationDetail(details map[string]any) ErrorResponse {
	fields := make([]string, 0, len(details))
	for f := range details {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	items := make([]ValidationError, 0, len(fields))
	for _, f := range fields {
		items = append(items, ValidationError{
			Loc:  []any{"body", f},
			Msg:  fmt.Sprint(details[f]),
			Type: "value_error",
		})
	}
	return ErrorResponse{Detail: items}
}
