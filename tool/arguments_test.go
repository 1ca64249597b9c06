package tool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArguments(t *testing.T) {
	args, err := ParseArguments(`{"topic":"gophers","count":2}`)
	require.NoError(t, err)
	assert.Equal(t, "gophers", args["topic"])
	assert.Equal(t, float64(2), args["count"])
}

func TestParseArgumentsEmpty(t *testing.T) {
	for _, raw := range []string{"", "{}", "null"} {
		args, err := ParseArguments(raw)
		require.NoError(t, err, raw)
		assert.NotNil(t, args, raw)
		assert.Empty(t, args, raw)
	}
}

func TestParseArgumentsInvalid(t *testing.T) {
	_, err := ParseArguments("{not json")
	assert.Error(t, err)
}
