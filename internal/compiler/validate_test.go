package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/anchorix/internal/testutil"
)

func TestValidateValidModule(t *testing.T) {
	errs := Validate(counterModule(), nil)
	assert.Empty(t, errs, "valid module should have no errors")
}

func TestValidateCollectsEveryMalformedHandler(t *testing.T) {
	mod := testutil.Module("counter",
		testutil.Fn("ok", testutil.Param("ctx", testutil.Ctx("Ok"))),
		testutil.Fn("takes_self", testutil.Receiver("&self")),
		testutil.Other("struct", "Foo"),
		testutil.Fn("no_params"),
		testutil.Fn("bad_ctx", testutil.Param("ctx", testutil.Named("u64"))),
	)

	errs := Validate(mod, nil)
	require.Len(t, errs, 3)

	assert.Equal(t, "takes_self", errs[0].Field)
	assert.Equal(t, ReceiverParameterNotAllowed, errs[0].Kind)
	assert.Equal(t, "E202", errs[0].Code)
	assert.Equal(t, 3, errs[0].Line)
	assert.Equal(t, 20, errs[0].Column)
	assert.Equal(t, testutil.File, errs[0].File)

	assert.Equal(t, "no_params", errs[1].Field)
	assert.Equal(t, EmptyParameterList, errs[1].Kind)
	assert.Equal(t, 5, errs[1].Line)

	assert.Equal(t, "bad_ctx", errs[2].Field)
	assert.Equal(t, ContextIdentifierResolutionFailure, errs[2].Kind)
	assert.Equal(t, "missing accounts context", errs[2].Message)
}

func TestValidateMissingModuleBody(t *testing.T) {
	errs := Validate(testutil.ForwardModule("counter"), nil)
	require.Len(t, errs, 1)
	assert.Equal(t, "counter", errs[0].Field)
	assert.Equal(t, MissingModuleBody, errs[0].Kind)
	assert.Equal(t, "E201", errs[0].Code)
}

func TestValidateNilModule(t *testing.T) {
	var errs []ValidationError
	assert.NotPanics(t, func() {
		errs = Validate(nil, nil)
	})
	require.Len(t, errs, 1)
	assert.Empty(t, errs[0].Field)
	assert.Equal(t, MissingModuleBody, errs[0].Kind)
	assert.Equal(t, "E201", errs[0].Code)
}

func TestValidationErrorFormatting(t *testing.T) {
	e := ValidationError{Field: "init", Code: "E204", Message: "no params", File: "lib.rs", Line: 4, Column: 5}
	assert.Equal(t, "[E204] lib.rs:4:5: init: no params", e.Error())

	e.Line = 0
	assert.Equal(t, "[E204] init: no params", e.Error())
}
