package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/ChemReg-Ledger/pkg/errors"
)

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"internal error", errors.CodeInternal, "unexpected failure"},
		{"substance not found", errors.CodeSubstanceNotFound, "CAS 71-43-2 not registered"},
		{"invalid param", errors.CodeInvalidParam, "CAS number must not be empty"},
		{"duplicate", errors.CodeDuplicateCAS, "already registered"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ae := errors.New(tc.code, tc.message)

			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.Empty(t, ae.Detail, "Detail should be empty for bare New()")
			assert.Nil(t, ae.Cause, "Cause should be nil for bare New()")
		})
	}
}

func TestWrap_NilErrReturnsNil(t *testing.T) {
	t.Parallel()

	result := errors.Wrap(nil, errors.CodeInternal, "should not matter")
	assert.Nil(t, result)
}

func TestWrap_CauseChainIsPreserved(t *testing.T) {
	t.Parallel()

	root := stderrors.New("root DB error")
	wrapped := errors.Wrap(root, errors.CodeDBConnectionError, "connection failed")

	require.NotNil(t, wrapped)
	assert.Equal(t, errors.CodeDBConnectionError, wrapped.Code)
	assert.Equal(t, "connection failed", wrapped.Message)
	assert.Equal(t, root, wrapped.Cause)
	assert.Equal(t, root, stderrors.Unwrap(wrapped))
}

func TestWrap_PreservesOriginalCodeWhenCodeUnknown(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.CodeSubstanceNotFound, "not registered")
	outer := errors.Wrap(inner, errors.CodeUnknown, "adding context")

	require.NotNil(t, outer)
	assert.Equal(t, errors.CodeSubstanceNotFound, outer.Code,
		"Wrap with CodeUnknown should inherit the inner AppError's code")
}

func TestWrap_OverridesCodeWhenExplicit(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.CodeSubstanceNotFound, "not registered")
	outer := errors.Wrap(inner, errors.CodeInternal, "unexpected state")

	assert.Equal(t, errors.CodeInternal, outer.Code)
}

func TestError_FormatWithAndWithoutDetail(t *testing.T) {
	t.Parallel()

	bare := errors.New(errors.CodeSubstanceNotFound, "substance not registered")
	assert.Equal(t, "[REG_004] substance not registered", bare.Error())

	detailed := bare.WithDetail("cas=71-43-2")
	assert.Equal(t, "[REG_004] substance not registered: cas=71-43-2", detailed.Error())
}

func TestWithDetail_DoesNotMutateOriginal(t *testing.T) {
	t.Parallel()

	original := errors.New(errors.CodeNotFound, "resource missing")
	detailed := original.WithDetail("cas=50-00-0")

	assert.Empty(t, original.Detail)
	assert.Equal(t, "cas=50-00-0", detailed.Detail)
	assert.Equal(t, original.Code, detailed.Code)
}

func TestWithDetail_NilReceiverReturnsNil(t *testing.T) {
	t.Parallel()

	var ae *errors.AppError
	assert.Nil(t, ae.WithDetail("x"))
	assert.Nil(t, ae.WithCause(stderrors.New("x")))
}

func TestWithCause_AttachesCauseWithoutMutation(t *testing.T) {
	t.Parallel()

	original := errors.New(errors.CodeInternal, "failure")
	cause := stderrors.New("driver: bad connection")
	withCause := original.WithCause(cause)

	assert.Nil(t, original.Cause)
	assert.Equal(t, cause, withCause.Cause)
	assert.True(t, stderrors.Is(withCause, cause))
}

func TestIsCode_NestedChain(t *testing.T) {
	t.Parallel()

	root := errors.New(errors.CodeDBConnectionError, "db down")
	wrapped := errors.Wrap(root, errors.CodeInternal, "service error")

	assert.True(t, errors.IsCode(wrapped, errors.CodeDBConnectionError),
		"IsCode must find the code anywhere in the error chain")
	assert.True(t, errors.IsCode(wrapped, errors.CodeInternal))
	assert.False(t, errors.IsCode(wrapped, errors.CodeDuplicateCAS))
}

func TestIsCode_NilAndStdlibErrors(t *testing.T) {
	t.Parallel()

	assert.False(t, errors.IsCode(nil, errors.CodeInternal))
	assert.False(t, errors.IsCode(stderrors.New("plain"), errors.CodeInternal))
}

func TestGetCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(stderrors.New("plain")))

	inner := errors.New(errors.CodeCacheError, "cache failure")
	outer := errors.Wrap(inner, errors.CodeInternal, "service init failed")
	assert.Equal(t, errors.CodeInternal, errors.GetCode(outer),
		"GetCode returns the outermost AppError's code")

	fmtWrapped := fmt.Errorf("handler: %w", inner)
	assert.Equal(t, errors.CodeCacheError, errors.GetCode(fmtWrapped))
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"generic not found", errors.NotFound("missing"), true},
		{"substance not found", errors.New(errors.CodeSubstanceNotFound, "unregistered"), true},
		{"inventory row not found", errors.New(errors.ErrCodeInventoryRowNotFound, "no row"), true},
		{"wrapped not found", errors.Wrap(errors.NotFound("missing"), errors.CodeInternal, "ctx"), true},
		{"conflict", errors.Conflict("dup"), false},
		{"nil", nil, false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, errors.IsNotFound(tc.err))
		})
	}
}

func TestConvenienceFactories(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		err      *errors.AppError
		wantCode errors.ErrorCode
	}{
		{"NotFound", errors.NotFound("not found"), errors.CodeNotFound},
		{"InvalidParam", errors.InvalidParam("bad input"), errors.CodeInvalidParam},
		{"Internal", errors.Internal("server error"), errors.CodeInternal},
		{"Conflict", errors.Conflict("duplicate resource"), errors.CodeConflict},
		{"RateLimit", errors.RateLimit("slow down"), errors.CodeRateLimit},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.NotNil(t, tc.err)
			assert.Equal(t, tc.wantCode, tc.err.Code)
			assert.NotEmpty(t, tc.err.Message)
		})
	}
}

func TestHTTPStatusForCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 404, errors.HTTPStatusForCode(errors.CodeSubstanceNotFound))
	assert.Equal(t, 409, errors.HTTPStatusForCode(errors.CodeDuplicateCAS))
	assert.Equal(t, 502, errors.HTTPStatusForCode(errors.ErrCodeRegistryUnavailable))
	assert.Equal(t, 500, errors.HTTPStatusForCode(errors.ErrorCode("NOPE_999")),
		"unmapped codes fall back to 500")
}

func TestModuleForCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "REG", errors.ModuleForCode(errors.ErrCodeRegistryTimeout))
	assert.Equal(t, "INV", errors.ModuleForCode(errors.ErrCodeInventoryDuplicateCAS))
	assert.Equal(t, "UNKNOWN", errors.ModuleForCode(errors.ErrorCode("")))
}
