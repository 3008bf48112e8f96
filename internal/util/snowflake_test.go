package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSnowflake(t *testing.T) {
	id, err := ParseSnowflake("155149108183695360")
	require.NoError(t, err)
	assert.Equal(t, int64(155149108183695360), id)

	_, err = ParseSnowflake("not-a-snowflake")
	assert.Error(t, err)
}

func TestFormatSnowflakeRoundTrip(t *testing.T) {
	assert.Equal(t, "42", FormatSnowflake(42))
	assert.Equal(t, int64(42), MustParseSnowflake(FormatSnowflake(42)))
}

func TestMustParseSnowflakePanics(t *testing.T) {
	assert.Panics(t, func() { MustParseSnowflake("") })
}
