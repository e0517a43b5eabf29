package clickhouse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDSN(t *testing.T) {
	opts, err := parseDSN("clickhouse://analyst:pw@ch.internal:9440/blueprint")
	require.NoError(t, err)
	assert.Equal(t, []string{"ch.internal:9440"}, opts.Addr)
	assert.Equal(t, "analyst", opts.Auth.Username)
	assert.Equal(t, "pw", opts.Auth.Password)
	assert.Equal(t, "blueprint", opts.Auth.Database)
}

func TestParseDSNDefaults(t *testing.T) {
	opts, err := parseDSN("clickhouse://localhost")
	require.NoError(t, err)
	assert.Equal(t, []string{"localhost:9000"}, opts.Addr)
	assert.Empty(t, opts.Auth.Database)
}

func TestParseDSNRejectsOtherSchemes(t *testing.T) {
	_, err := parseDSN("postgres://localhost:5432/db")
	assert.Error(t, err)
}
