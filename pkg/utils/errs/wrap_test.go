package errs_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openkcm/scim-gateway/pkg/utils/errs"
)

func TestWrap(t *testing.T) {
	t.Run("Should return wrapped error", func(t *testing.T) {
		base := errors.New("test1")
		wrapped := errs.Wrap(base, errors.New("test2"))
		assert.Error(t, wrapped)
		assert.ErrorIs(t, wrapped, base)
		assert.Equal(t, "test1: test2", wrapped.Error())
	})
}

func TestWrapf(t *testing.T) {
	t.Run("Should return wrapped error string", func(t *testing.T) {
		base := errors.New("test1")
		wrapped := errs.Wrapf(base, "test2")
		assert.Error(t, wrapped)
		assert.ErrorIs(t, wrapped, base)
		assert.Equal(t, "test1: test2", wrapped.Error())
	})
}
