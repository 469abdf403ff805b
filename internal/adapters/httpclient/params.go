package httpclient

import (
	"fmt"
	"net/url"

	"github.com/oapi-codegen/runtime"
)

// addQuery styles value as an exploded form query parameter. Nil pointers are skipped.
func addQuery[T any](q url.Values, name string, value *T) error {
	if value == nil {
		return nil
	}
	s, err := runtime.StyleParamWithLocation("form", true, name, runtime.ParamLocationQuery, *value)
	if err != nil {
		return fmt.Errorf("style query %s: %w", name, err)
	}
	parsed, err := url.ParseQuery(s)
	if err != nil {
		return fmt.Errorf("parse query %s: %w", name, err)
	}
	for k, vs := range parsed {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	return nil
}

// pathParam styles value as a simple path segment.
func pathParam(name string, value any) (string, error) {
	s, err := runtime.StyleParamWithLocation("simple", false, name, runtime.ParamLocationPath, value)
	if err != nil {
		return "", fmt.Errorf("style path %s: %w", name, err)
	}
	return s, nil
}
