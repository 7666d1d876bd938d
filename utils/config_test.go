package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigurationDefaults(t *testing.T) {
	conf, err := GetConfiguration()
	require.NoError(t, err)

	assert.Equal(t, "dev", conf.Stage)
	assert.Equal(t, "stdout", conf.LogFileName)
	assert.Equal(t, "famestreet", conf.DbName)
	assert.Equal(t, ":8000", conf.ServerPort)
	assert.Equal(t, "operator", conf.OwnerAccount)
}

func TestGetConfigurationFromEnv(t *testing.T) {
	t.Setenv("FAMESTREET_ENV", "test")
	t.Setenv("OWNER_ACCOUNT", "admin")
	t.Setenv("SERVER_PORT", ":9000")

	conf, err := GetConfiguration()
	require.NoError(t, err)

	assert.Equal(t, "test", conf.Stage)
	assert.Equal(t, "admin", conf.OwnerAccount)
	assert.Equal(t, ":9000", conf.ServerPort)
}
