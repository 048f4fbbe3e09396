package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLineSpec(t *testing.T) {
	line, err := parseLineSpec("601000=300000", true)
	require.NoError(t, err)
	assert.Equal(t, "601000", line.AccountID)
	assert.Equal(t, "300000", line.Debit.String())
	assert.True(t, line.Credit.IsZero())

	line, err = parseLineSpec("401000=354000.50", false)
	require.NoError(t, err)
	assert.Equal(t, "354000.5", line.Credit.String())
	assert.True(t, line.Debit.IsZero())
}

func TestParseLineSpec_Invalid(t *testing.T) {
	for _, spec := range []string{"601000", "=100", "601000=abc", ""} {
		_, err := parseLineSpec(spec, true)
		assert.Error(t, err, "spec %q", spec)
	}
}
