package envutil

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetenvDefaults(t *testing.T) {
	require.NoError(t, os.Setenv("HOLDOUT_TEST_SEED", "42"))
	require.NoError(t, os.Setenv("HOLDOUT_TEST_VERBOSE", "true"))
	defer os.Unsetenv("HOLDOUT_TEST_SEED")
	defer os.Unsetenv("HOLDOUT_TEST_VERBOSE")

	assert.Equal(t, int64(42), GetenvDefaultInt64("HOLDOUT_TEST_SEED", 1))
	assert.Equal(t, 42, GetenvDefaultInt("HOLDOUT_TEST_SEED", 1))
	assert.Equal(t, "42", GetenvDefault("HOLDOUT_TEST_SEED", "x"))
	assert.True(t, GetenvDefaultBool("HOLDOUT_TEST_VERBOSE", false))

	assert.Equal(t, int64(7), GetenvDefaultInt64("HOLDOUT_TEST_MISSING", 7))
	assert.Equal(t, "x", GetenvDefault("HOLDOUT_TEST_MISSING", "x"))
	assert.False(t, GetenvDefaultBool("HOLDOUT_TEST_MISSING", false))
}
