package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(nil))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindNotFound, KindOf(New(KindNotFound, "missing")))
	assert.Equal(t, KindInvalidInput, KindOf(Newf(KindInvalidInput, "bad field %q", "qty")))
}

func TestKindOf_Wrapped(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(KindPersistence, cause, "commit sale")

	assert.Equal(t, KindPersistence, KindOf(err))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "commit sale")
	assert.Contains(t, err.Error(), "connection refused")

	// A further fmt wrap still resolves to the same kind
	outer := fmt.Errorf("process sale: %w", err)
	assert.Equal(t, KindPersistence, KindOf(outer))
	assert.True(t, IsKind(outer, KindPersistence))
}

// Wrapping an already-kinded error changes the observable kind to the
// outermost one; the inner kind stays reachable by unwrapping.
func TestKindOf_OutermostWins(t *testing.T) {
	inner := New(KindConflict, "serialization failure")
	outer := Wrap(KindPersistence, inner, "retries exhausted")

	assert.Equal(t, KindPersistence, KindOf(outer))

	var e *Error
	require.True(t, errors.As(errors.Unwrap(outer), &e))
	assert.Equal(t, KindConflict, e.Kind())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "invalid_input", KindInvalidInput.String())
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "conflict", KindConflict.String())
	assert.Equal(t, "persistence", KindPersistence.String())
	assert.Equal(t, "unknown", KindUnknown.String())
}
