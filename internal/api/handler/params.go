package handler

import (
	"net/url"
	"strconv"

	"github.com/ragdash/dashboard-api/internal/apperr"
)

// first returns the first value of key and whether key is present. A
// present but blank value is returned as "".
func first(values url.Values, key string) (string, bool) {
	vs, ok := values[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// optionalParam returns a pointer to the value of key, or nil when absent.
func optionalParam(values url.Values, key string) *string {
	if v, ok := first(values, key); ok {
		return &v
	}
	return nil
}

// intParam parses key as a base-10 integer, returning def when absent.
// A blank value is an error. Values are not clamped.
func intParam(values url.Values, key string, def int) (int, error) {
	v, ok := first(values, key)
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, apperr.InvalidParam(key, err)
	}
	return n, nil
}
