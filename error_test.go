package ljdl_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/ljdl"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := ljdl.Errorf(ljdl.EMARKER, "marker %q not found", "Site.page = ")

	assert.Equal(t, ljdl.EMARKER, ljdl.ErrorCode(err))
	assert.Equal(t, "marker \"Site.page = \" not found", ljdl.ErrorMessage(err))
}

func TestErrorCode_Wrapped(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("extract post: %w", ljdl.Errorf(ljdl.EFRAGMENT, "article not found"))

	assert.Equal(t, ljdl.EFRAGMENT, ljdl.ErrorCode(err))
	assert.Equal(t, "article not found", ljdl.ErrorMessage(err))
}

func TestErrorCode_PlainError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, ljdl.EINTERNAL, ljdl.ErrorCode(err))
	assert.Equal(t, "Internal error", ljdl.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, ljdl.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, ljdl.ErrorMessage(nil))
}
