package validation

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestMustRegister(t *testing.T) {
	v := validator.New()
	alwaysValid := func(context.Context, validator.FieldLevel) bool { return true }

	assert.NotPanics(t, func() { mustRegister(v, "notpast", alwaysValid) })
	assert.Panics(t, func() { mustRegister(v, "", alwaysValid) })
}

func TestNew_RegistersDateRules(t *testing.T) {
	assert.NotPanics(t, func() { New(nil) })
}
