package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIs_MatchesByCode(t *testing.T) {
	err := Provisioningf("create %s", "/watch/PDF")

	assert.True(t, Is(err, ErrProvisioning))
	assert.False(t, Is(err, ErrMove))
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := fmt.Errorf("permission denied")
	err := Wrap(cause, CodeMove, "rename failed")

	assert.True(t, Is(err, ErrMove))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "rename failed")
	assert.Contains(t, err.Error(), "permission denied")
}

func TestAs_ExposesCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", PermissionSet("chmod failed"))

	var domainErr *Error
	require.True(t, As(err, &domainErr))
	assert.Equal(t, CodePermissionSet, domainErr.Code)
}

func TestWithCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := ErrMove.WithCause(cause)

	assert.True(t, Is(err, ErrMove))
	assert.ErrorIs(t, err, cause)
}

func TestIs_AcrossWrapping(t *testing.T) {
	inner := Resolvef("no free name for %s", "/watch/PDF/report.pdf")
	outer := Wrap(inner, CodeInternal, "pipeline failed")

	// The outer code wins for direct comparison, but the inner error is
	// still findable through the chain.
	assert.True(t, Is(outer, ErrInternal))
	assert.True(t, Is(outer, ErrResolve))
}
