package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DerivesClassificationFromCode(t *testing.T) {
	cases := []struct {
		code      string
		category  Category
		severity  Severity
		retryable bool
	}{
		{ErrCodeConfigInvalid, CategoryConfig, SeverityError, false},
		{ErrCodeVectorUnavailable, CategoryConfig, SeverityWarning, false},
		{ErrCodeFileNotFound, CategoryIO, SeverityError, false},
		{ErrCodeCorruptIndex, CategoryIO, SeverityFatal, false},
		{ErrCodeQueryTimeout, CategoryBackend, SeverityWarning, true},
		{ErrCodeEmbeddingFailed, CategoryBackend, SeverityError, true},
		{ErrCodePartialIngest, CategoryBackend, SeverityWarning, false},
		{ErrCodeQueryEmpty, CategoryValidation, SeverityError, false},
		{ErrCodeInternal, CategoryInternal, SeverityError, false},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			e := New(tc.code, "message", nil)
			assert.Equal(t, tc.category, e.Category)
			assert.Equal(t, tc.severity, e.Severity)
			assert.Equal(t, tc.retryable, e.Retryable)
		})
	}
}

func TestMoaError_ErrorString(t *testing.T) {
	e := New(ErrCodeQueryEmpty, "query must not be empty", nil)

	assert.Equal(t, "[ERR_402_QUERY_EMPTY] query must not be empty", e.Error())
}

func TestMoaError_UnwrapChain(t *testing.T) {
	root := fmt.Errorf("connection refused")
	e := New(ErrCodeEmbeddingFailed, "embedding request failed", root)

	assert.ErrorIs(t, e, root)

	var me *MoaError
	require.ErrorAs(t, error(e), &me)
	assert.Equal(t, ErrCodeEmbeddingFailed, me.Code)
}

func TestMoaError_IsMatchesByCode(t *testing.T) {
	a := New(ErrCodeQueryTimeout, "first", nil)
	b := New(ErrCodeQueryTimeout, "second", nil)
	c := New(ErrCodeInternal, "other", nil)

	assert.True(t, stderrors.Is(a, b))
	assert.False(t, stderrors.Is(a, c))
}

func TestWrap(t *testing.T) {
	root := fmt.Errorf("disk full")
	e := Wrap(ErrCodeIngestFailed, root)

	require.NotNil(t, e)
	assert.Equal(t, "disk full", e.Message)
	assert.ErrorIs(t, e, root)

	assert.Nil(t, Wrap(ErrCodeIngestFailed, nil))
}

func TestIsDegradation(t *testing.T) {
	// The three documented recoverable conditions degrade service.
	assert.True(t, IsDegradation(ConfigurationError("no backend", nil)))
	assert.True(t, IsDegradation(PartialIngestError("vectors skipped", nil)))
	assert.True(t, IsDegradation(QueryTimeoutError("vector leg slow", nil)))

	assert.False(t, IsDegradation(ValidationError("bad input", nil)))
	assert.False(t, IsDegradation(InternalError("bug", nil)))
	assert.False(t, IsDegradation(fmt.Errorf("plain error")))
	assert.False(t, IsDegradation(nil))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(New(ErrCodeQueryTimeout, "slow", nil)))
	assert.False(t, IsRetryable(New(ErrCodeQueryEmpty, "empty", nil)))
	assert.False(t, IsRetryable(fmt.Errorf("plain error")))
	assert.False(t, IsRetryable(nil))
}

func TestGetCodeAndCategory(t *testing.T) {
	e := New(ErrCodeSearchFailed, "boom", nil)

	assert.Equal(t, ErrCodeSearchFailed, GetCode(e))
	assert.Equal(t, CategoryInternal, GetCategory(e))

	assert.Empty(t, GetCode(fmt.Errorf("plain")))
	assert.Equal(t, Category(""), GetCategory(fmt.Errorf("plain")))
}

func TestWithDetailAndSuggestion(t *testing.T) {
	e := New(ErrCodeFileNotFound, "missing file", nil).
		WithDetail("path", "/tmp/doc.txt").
		WithSuggestion("check the path and try again")

	assert.Equal(t, "/tmp/doc.txt", e.Details["path"])
	assert.Equal(t, "check the path and try again", e.Suggestion)
}
