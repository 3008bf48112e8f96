package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

const testConfig = `discord:
  token: test-token
  guilds: [155149108183695360]
  owner: 90210
bot:
  ignoreregexp: "^[.!]"
  activities: ["with Cosmo", ".help"]
storage:
  postgresdsn: postgres://localhost/konikotaka
api:
  port: 8080
  key: hunter2
logging:
  level: debug
tasks:
  pinginterval: 2m
`

func TestRead(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(testConfig), 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	c, err := Read()
	require.NoError(t, err)

	assert.Equal(t, "test-token", c.Discord.Token)
	assert.Equal(t, []int64{155149108183695360}, c.Discord.Guilds)
	assert.Equal(t, int64(90210), c.Discord.Owner)
	assert.Equal(t, uint16(8080), c.Api.Port)
	assert.Equal(t, "hunter2", c.Api.Key)
	assert.Equal(t, zapcore.DebugLevel, c.Logging.Level)

	require.NotNil(t, c.Bot.IgnoreRegexp)
	assert.True(t, c.Bot.IgnoreRegexp.MatchString(".tag get rules"))
	assert.False(t, c.Bot.IgnoreRegexp.MatchString("hello there"))

	// explicit value beats the default, defaults fill the rest
	assert.Equal(t, 2*time.Minute, c.Tasks.PingInterval)
	assert.Equal(t, 30*time.Minute, c.Tasks.DecayInterval)
	assert.Equal(t, time.Minute, c.Tasks.ActivityInterval)
	assert.Equal(t, time.Hour, c.Tasks.HealthcheckInterval)
	assert.Equal(t, time.Minute, c.Tasks.StreamInterval)
	assert.Equal(t, 5*time.Minute, c.Tasks.WordRefreshInterval)
}

func TestReadMissingFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer os.Chdir(wd)

	_, err = Read()
	assert.Error(t, err)
}
