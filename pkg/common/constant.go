package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	EnvKeyDBType      string = "GH_DB_TYPE"
	EnvKeyDBPath      string = "GH_DB_PATH"
	EnvKeyDatabaseURL string = "DATABASE_URL"

	EnvKeyHttpHostPort string = "GH_HTTP_HOST_PORT"
	EnvKeyGrpcHostPort string = "GH_GRPC_HOST_PORT"
	EnvKeyCorsOrigins  string = "GH_CORS_ORIGINS"

	EnvKeyDefaultRate  string = "GH_DEFAULT_RATE"
	EnvKeyDefaultBurst string = "GH_DEFAULT_BURST"

	EnvKeyLogDir        string = "GH_LOG_DIR"
	EnvKeySeedTemplates string = "GH_SEED_TEMPLATES"

	EnvKeyMqttBrokerURL      string = "MQTT_BROKER_URL"
	EnvKeyMqttClientID       string = "MQTT_CLIENT_ID"
	EnvKeyMqttUsername       string = "MQTT_USERNAME"
	EnvKeyMqttPassword       string = "MQTT_PASSWORD"
	EnvKeyMqttQoS            string = "MQTT_QOS"
	EnvKeyMqttTopicPrefix    string = "MQTT_TOPIC_PREFIX"
	EnvKeyMqttTelemetryTopic string = "MQTT_TELEMETRY_TOPIC"
	EnvKeyMqttPublishTimeout string = "MQTT_PUBLISH_TIMEOUT"
	EnvKeyMqttOutboundQueue  string = "MQTT_OUTBOUND_QUEUE"

	DBTypeFile     string = "file"
	DBTypeMemory   string = "memory"
	DBTypePostgres string = "postgres"

	LoggerNameCore           string = "greenhouse_core"
	LoggerNameControlChannel string = "control_channel"
	LoggerNameRestfulServer  string = "restful_server"
	LoggerNameGrpcServer     string = "grpc_server"
	LoggerNameApp            string = "app"

	LoggerFieldCategory string = "category"

	LoggerCategoryProvisioning string = "provisioning"
	LoggerCategorySetpoint     string = "setpoint"
	LoggerCategoryStatus       string = "status"
	LoggerCategoryHistory      string = "history"
	LoggerCategoryTelemetry    string = "telemetry"
	LoggerCategoryCatalog      string = "catalog"
	LoggerCategoryPublisher    string = "publisher"
	LoggerCategoryIngest       string = "ingest"
)
