//go:build !integration && !e2e
// +build !integration,!e2e

package handler

import (
	"net/url"
	"testing"

	"github.com/ragdash/dashboard-api/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirst(t *testing.T) {
	values := url.Values{
		"person": {"Ana", "Luis"},
		"team":   {""},
		"app":    {},
	}

	v, ok := first(values, "person")
	assert.True(t, ok)
	assert.Equal(t, "Ana", v)

	v, ok = first(values, "team")
	assert.True(t, ok)
	assert.Equal(t, "", v)

	_, ok = first(values, "app")
	assert.False(t, ok)
	_, ok = first(values, "missing")
	assert.False(t, ok)

	require.NotNil(t, optionalParam(values, "team"))
	assert.Equal(t, "", *optionalParam(values, "team"))
	assert.Nil(t, optionalParam(values, "missing"))
}

func TestIntParam(t *testing.T) {
	tests := []struct {
		name    string
		values  url.Values
		want    int
		wantErr bool
	}{
		{"absent", url.Values{}, 7, false},
		{"blank", url.Values{"days": {""}}, 0, true},
		{"value", url.Values{"days": {"30"}}, 30, false},
		{"negative", url.Values{"days": {"-3"}}, -3, false},
		{"zero", url.Values{"days": {"0"}}, 0, false},
		{"not a number", url.Values{"days": {"abc"}}, 0, true},
		{"float", url.Values{"days": {"1.5"}}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := intParam(tt.values, "days", 7)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, apperr.KindInvalidParam, apperr.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
