package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		EnvKeyDBType, EnvKeyDBPath, EnvKeyHttpHostPort, EnvKeyGrpcHostPort, EnvKeyDefaultRate, EnvKeyDefaultBurst,
		EnvKeyCorsOrigins, EnvKeySeedTemplates, EnvKeyMqttBrokerURL, EnvKeyMqttQoS,
		EnvKeyMqttPublishTimeout, EnvKeyMqttOutboundQueue, EnvKeyMqttTopicPrefix, EnvKeyMqttTelemetryTopic,
	} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DBTypeFile, cfg.DBType)
	assert.Equal(t, "greenhouse.db", cfg.DBPath)
	assert.Equal(t, ":1080", cfg.HttpHostPort)
	assert.Empty(t, cfg.GrpcHostPort)
	assert.Equal(t, 10.0, cfg.DefaultRate)
	assert.Equal(t, 20, cfg.DefaultBurst)
	assert.True(t, cfg.SeedTemplates)
	assert.Empty(t, cfg.CorsOrigins)
	assert.Equal(t, "tcp://localhost:1883", cfg.Mqtt.BrokerURL)
	assert.Equal(t, byte(1), cfg.Mqtt.QoS)
	assert.Equal(t, "greenhouse", cfg.Mqtt.TopicPrefix)
	assert.Equal(t, "greenhouse/+/telemetry", cfg.Mqtt.TelemetryTopic)
	assert.Equal(t, 5*time.Second, cfg.Mqtt.PublishTimeout)
	assert.Equal(t, 8, cfg.Mqtt.OutboundQueue)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv(EnvKeyDBType, DBTypeMemory)
	t.Setenv(EnvKeyCorsOrigins, "http://localhost:3000, https://dash.example.com,")
	t.Setenv(EnvKeyDefaultRate, "2.5")
	t.Setenv(EnvKeyDefaultBurst, "4")
	t.Setenv(EnvKeySeedTemplates, "false")
	t.Setenv(EnvKeyMqttQoS, "0")
	t.Setenv(EnvKeyMqttPublishTimeout, "250ms")
	t.Setenv(EnvKeyMqttOutboundQueue, "1")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DBTypeMemory, cfg.DBType)
	assert.Equal(t, []string{"http://localhost:3000", "https://dash.example.com"}, cfg.CorsOrigins)
	assert.Equal(t, 2.5, cfg.DefaultRate)
	assert.Equal(t, 4, cfg.DefaultBurst)
	assert.False(t, cfg.SeedTemplates)
	assert.Equal(t, byte(0), cfg.Mqtt.QoS)
	assert.Equal(t, 250*time.Millisecond, cfg.Mqtt.PublishTimeout)
	assert.Equal(t, 1, cfg.Mqtt.OutboundQueue)
}

func TestLoadConfig_EdgeCases(t *testing.T) {
	cases := []struct {
		key, value, want string
	}{
		{EnvKeyDBType, "mysql", EnvKeyDBType},
		{EnvKeyDefaultRate, "fast", EnvKeyDefaultRate},
		{EnvKeyDefaultBurst, "1.5", EnvKeyDefaultBurst},
		{EnvKeyMqttQoS, "3", EnvKeyMqttQoS},
		{EnvKeyMqttPublishTimeout, "soon", EnvKeyMqttPublishTimeout},
		{EnvKeyMqttOutboundQueue, "0", EnvKeyMqttOutboundQueue},
	}

	for _, c := range cases {
		t.Run(c.key, func(t *testing.T) {
			t.Setenv(c.key, c.value)
			_, err := LoadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), c.want)
		})
	}

	t.Run("postgres without url", func(t *testing.T) {
		t.Setenv(EnvKeyDBType, DBTypePostgres)
		t.Setenv(EnvKeyDatabaseURL, "")
		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), EnvKeyDatabaseURL)
	})
}
