package exchange

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyOptions_Empty(t *testing.T) {
	o := ApplyOptions()

	assert.Nil(t, o.Since)
}

func TestApplyOptions_WithSince(t *testing.T) {
	o := ApplyOptions(WithSince(0))

	require.NotNil(t, o.Since)
	assert.Equal(t, int64(0), *o.Since)
}

func TestApplyOptions_LastWins(t *testing.T) {
	o := ApplyOptions(WithSince(5), WithSince(42))

	require.NotNil(t, o.Since)
	assert.Equal(t, int64(42), *o.Since)
}
