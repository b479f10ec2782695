package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type MqttConfig struct {
	BrokerURL      string
	ClientID       string
	Username       string
	Password       string
	QoS            byte
	TopicPrefix    string
	TelemetryTopic string
	PublishTimeout time.Duration
	OutboundQueue  int
}

type Config struct {
	DBType        string
	DBPath        string
	DatabaseURL   string
	HttpHostPort  string
	GrpcHostPort  string
	CorsOrigins   []string
	DefaultRate   float64
	DefaultBurst  int
	SeedTemplates bool
	Mqtt          MqttConfig
}

func envOr(key, fallback string) string {
	if v, found := os.LookupEnv(key); found && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

// LoadConfig reads the process environment; callers load .env beforehand.
func LoadConfig() (Config, error) {
	cfg := Config{
		DBType:       envOr(EnvKeyDBType, DBTypeFile),
		DBPath:       envOr(EnvKeyDBPath, "greenhouse.db"),
		DatabaseURL:  os.Getenv(EnvKeyDatabaseURL),
		HttpHostPort: envOr(EnvKeyHttpHostPort, ":1080"),
		GrpcHostPort: os.Getenv(EnvKeyGrpcHostPort),
		Mqtt: MqttConfig{
			BrokerURL:      envOr(EnvKeyMqttBrokerURL, "tcp://localhost:1883"),
			ClientID:       envOr(EnvKeyMqttClientID, "greenhouse-api"),
			Username:       os.Getenv(EnvKeyMqttUsername),
			Password:       os.Getenv(EnvKeyMqttPassword),
			TopicPrefix:    envOr(EnvKeyMqttTopicPrefix, "greenhouse"),
			TelemetryTopic: envOr(EnvKeyMqttTelemetryTopic, "greenhouse/+/telemetry"),
		},
	}

	switch cfg.DBType {
	case DBTypeFile, DBTypeMemory:
	case DBTypePostgres:
		if cfg.DatabaseURL == "" {
			return cfg, fmt.Errorf("%s must be set when %s=%s", EnvKeyDatabaseURL, EnvKeyDBType, DBTypePostgres)
		}
	default:
		return cfg, fmt.Errorf("unknown %s: %q", EnvKeyDBType, cfg.DBType)
	}

	if origins := os.Getenv(EnvKeyCorsOrigins); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CorsOrigins = append(cfg.CorsOrigins, o)
			}
		}
	}

	var err error
	if cfg.DefaultRate, err = strconv.ParseFloat(envOr(EnvKeyDefaultRate, "10"), 64); err != nil {
		return cfg, fmt.Errorf("invalid %s, should be a float64 value: %w", EnvKeyDefaultRate, err)
	}
	if cfg.DefaultBurst, err = strconv.Atoi(envOr(EnvKeyDefaultBurst, "20")); err != nil {
		return cfg, fmt.Errorf("invalid %s, should be an int value: %w", EnvKeyDefaultBurst, err)
	}
	if cfg.SeedTemplates, err = strconv.ParseBool(envOr(EnvKeySeedTemplates, "true")); err != nil {
		return cfg, fmt.Errorf("invalid %s, should be a bool value: %w", EnvKeySeedTemplates, err)
	}

	qos, err := strconv.ParseUint(envOr(EnvKeyMqttQoS, "1"), 10, 8)
	if err != nil || qos > 2 {
		return cfg, fmt.Errorf("invalid %s, should be 0, 1 or 2", EnvKeyMqttQoS)
	}
	cfg.Mqtt.QoS = byte(qos)

	if cfg.Mqtt.PublishTimeout, err = time.ParseDuration(envOr(EnvKeyMqttPublishTimeout, "5s")); err != nil {
		return cfg, fmt.Errorf("invalid %s, should be a duration: %w", EnvKeyMqttPublishTimeout, err)
	}
	if cfg.Mqtt.OutboundQueue, err = strconv.Atoi(envOr(EnvKeyMqttOutboundQueue, "8")); err != nil || cfg.Mqtt.OutboundQueue < 1 {
		return cfg, fmt.Errorf("invalid %s, should be a positive int", EnvKeyMqttOutboundQueue)
	}

	return cfg, nil
}
