package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Username string `json:"username" validate:"required,max=150,username"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
}

func TestStruct_JSONFieldNames(t *testing.T) {
	err := Struct(sample{})
	require.Error(t, err)

	var es Errors
	require.True(t, errors.As(err, &es))
	require.Len(t, es, 1)
	assert.Equal(t, "username", es[0].Field)
	assert.True(t, es.Missing())
	assert.Equal(t, "field 'username' is required", es.Error())
}

func TestStruct_FormatErrors(t *testing.T) {
	err := Struct(sample{Username: "bad name", Email: "nope"})
	var es Errors
	require.True(t, errors.As(err, &es))
	assert.Len(t, es, 2)
	assert.False(t, es.Missing())
}

func TestStruct_OK(t *testing.T) {
	assert.NoError(t, Struct(sample{Username: "alice.b+1@x", Email: "a@example.com"}))
}
