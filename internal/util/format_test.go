package util

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatCell(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "nil", in: nil, want: ""},
		{name: "string", in: "caneta", want: "caneta"},
		{name: "json number keeps text", in: json.Number("1200.50"), want: "1200.50"},
		{name: "float", in: 1.5, want: "1.5"},
		{name: "large float has no exponent", in: 1e21, want: "1000000000000000000000"},
		{name: "bool", in: false, want: "false"},
		{name: "object", in: map[string]int{"a": 1}, want: `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCell(tt.in))
		})
	}
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "—", FormatElapsed(0))
	assert.Equal(t, "—", FormatElapsed(-time.Second))
	assert.Equal(t, "500µs", FormatElapsed(500*time.Microsecond))
	assert.Equal(t, "1.234s", FormatElapsed(1234567*time.Microsecond))
}
