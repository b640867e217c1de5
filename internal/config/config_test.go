package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	require.NoError(t, Load())

	assert.Equal(t, "memory", StoreDriver())
	assert.Equal(t, 200*time.Millisecond, SimMinDelay())
	assert.Equal(t, 600*time.Millisecond, SimJitter())
	assert.InDelta(t, 0.15, SimReadFailureRate(), 1e-9)
	assert.Equal(t, "carbon/posts", MQTTTopic())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("SIM_MIN_DELAY", "5ms")
	t.Setenv("API_URL", "http://api.internal:9000/")
	t.Setenv("LOG_LEVEL", "debug")
	require.NoError(t, Load())

	assert.Equal(t, "postgres", StoreDriver())
	assert.Equal(t, 5*time.Millisecond, SimMinDelay())
	assert.Equal(t, "http://api.internal:9000", APIURL())

	SetupLogging()
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}
