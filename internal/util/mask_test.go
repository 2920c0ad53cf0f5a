package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskEmail(t *testing.T) {
	cases := map[string]string{
		"":                   "",
		"Alice@Example.com":  "a…@e….com",
		"a@b.co":             "a@b.co",
		" bob@mail.example ": "b…@m….example",
		"abc":                "***",
		"opaque-value":       "o…e",
		"@example.com":       "@…m",
	}
	for in, want := range cases {
		assert.Equal(t, want, MaskEmail(in), in)
	}
}
