package lambda

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
)

// ParseQueryParameters normalizes queryStringParameters, which arrives
// either as an encoded query string or as a single-valued object. Blank
// values are dropped from encoded strings only; an object keeps them.
func ParseQueryParameters(raw json.RawMessage) (url.Values, error) {
	values := url.Values{}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return values, nil
	}

	switch trimmed[0] {
	case '"':
		var encoded string
		if err := json.Unmarshal(trimmed, &encoded); err != nil {
			return nil, fmt.Errorf("invalid query string: %w", err)
		}
		// Malformed pairs are skipped; the rest are kept.
		parsed, _ := url.ParseQuery(encoded)
		for key, vs := range parsed {
			for _, v := range vs {
				if v != "" {
					values.Add(key, v)
				}
			}
		}
		return values, nil

	case '{':
		var m map[string]any
		if err := json.Unmarshal(trimmed, &m); err != nil {
			return nil, fmt.Errorf("invalid query parameters: %w", err)
		}
		for key, v := range m {
			switch v := v.(type) {
			case nil:
			case string:
				values.Set(key, v)
			default:
				values.Set(key, fmt.Sprint(v))
			}
		}
		return values, nil

	default:
		return nil, fmt.Errorf("unsupported queryStringParameters: %s", trimmed)
	}
}
