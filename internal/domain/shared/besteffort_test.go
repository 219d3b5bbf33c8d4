package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBestEffort(t *testing.T) {
	t.Run("zero value succeeds", func(t *testing.T) {
		var b BestEffort
		assert.False(t, b.Failed())
	})

	t.Run("attempted with nil error succeeds", func(t *testing.T) {
		b := Attempted("webhook_log", nil)
		assert.False(t, b.Failed())
		assert.Equal(t, "webhook_log", b.Operation)
	})

	t.Run("attempted with error fails", func(t *testing.T) {
		err := errors.New("boom")
		b := Attempted("webhook_log", err)
		assert.True(t, b.Failed())
		assert.ErrorIs(t, b.Err, err)
	})
}

func TestJoin(t *testing.T) {
	t.Run("all succeeded", func(t *testing.T) {
		b := Join("notify", Succeeded("store"), Succeeded("push"))
		assert.False(t, b.Failed())
		assert.Equal(t, "notify", b.Operation)
	})

	t.Run("keeps first failure", func(t *testing.T) {
		first := errors.New("first")
		b := Join("notify", Succeeded("store"), Attempted("push", first), Attempted("other", errors.New("second")))
		assert.True(t, b.Failed())
		assert.ErrorIs(t, b.Err, first)
		assert.Equal(t, "notify.push", b.Operation)
	})
}

func TestDomainError(t *testing.T) {
	wrapped := fmt.Errorf("find tenant: %w", ErrNotFound)
	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.NotErrorIs(t, wrapped, ErrAlreadyExists)
	assert.Equal(t, "Resource not found", ErrNotFound.Error())
}
