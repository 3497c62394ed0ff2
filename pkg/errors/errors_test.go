package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapFormatsUnderlyingError(t *testing.T) {
	err := Wrap("inference_failed", "Failed to generate summary.", errors.New("boom"))
	require.EqualError(t, err, "Failed to generate summary.: boom")
	require.True(t, IsCode(err, "inference_failed"))
	require.Equal(t, "Failed to generate summary.", MessageOf(err))
}

func TestCodeOfFollowsWrappedChain(t *testing.T) {
	inner := Wrap("invalid_input", "bad", nil)
	outer := fmt.Errorf("handler: %w", inner)
	require.Equal(t, "invalid_input", CodeOf(outer))
	require.Equal(t, "bad", MessageOf(outer))
}

func TestCodeOfPlainError(t *testing.T) {
	err := errors.New("plain")
	require.Empty(t, CodeOf(err))
	require.Empty(t, MessageOf(err))
	require.False(t, IsCode(err, "invalid_input"))
}
