package control

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	z "github.com/Oudwins/zog"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"liyu1981.xyz/greenhouse-service/pkg/common"
	"liyu1981.xyz/greenhouse-service/pkg/core"
	"liyu1981.xyz/greenhouse-service/pkg/models"
)

// MaxClockSkew is how far in the future a device timestamp may lie.
const MaxClockSkew = 60 * time.Second

// TelemetryMessage is the JSON a greenhouse controller publishes.
type TelemetryMessage struct {
	DeviceID       string   `json:"device_id"`
	Timestamp      *int64   `json:"timestamp"`
	Sequence       *int64   `json:"sequence"`
	Temperature    *float64 `json:"temperature"`
	Humidity       *float64 `json:"humidity"`
	Light          *float64 `json:"light"`
	LightIntensity *float64 `json:"light_intensity"`
	TankLevel      *bool    `json:"tank_level"`
	LightsAreOn    *bool    `json:"lights_are_on"`
	PumpOn         *bool    `json:"pump_on"`
}

// Every range here admits 0, so zog skipping the validators of a zero value
// loses nothing.
var telemetryMessageSchema = z.Struct(z.Shape{
	"temperature":    z.Ptr(z.Float64().GTE(-50).LTE(100)),
	"humidity":       z.Ptr(z.Float64().GTE(0).LTE(100)),
	"light":          z.Ptr(z.Float64().GTE(0).LTE(100000)),
	"lightIntensity": z.Ptr(z.Float64().GTE(0).LTE(100)),
})

var telemetryFieldNames = map[string]string{
	"temperature":    "temperature",
	"humidity":       "humidity",
	"light":          "light",
	"lightIntensity": "light_intensity",
}

// ParseTelemetry decodes and validates one message and maps it onto a
// reading. Every failure is InvalidInput naming the offending fields.
func ParseTelemetry(payload []byte, now time.Time) (*models.TelemetryReading, error) {
	var msg TelemetryMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, &common.Error{Kind: common.ErrInvalidInput, Message: "malformed telemetry json", Err: err}
	}

	var fields []string
	greenhouseID, err := uuid.Parse(strings.TrimSpace(msg.DeviceID))
	if err != nil || greenhouseID == uuid.Nil {
		fields = append(fields, "device_id")
	}
	if msg.Timestamp == nil || *msg.Timestamp <= 0 ||
		time.Unix(*msg.Timestamp, 0).After(now.Add(MaxClockSkew)) {
		fields = append(fields, "timestamp")
	}
	if msg.Sequence == nil || *msg.Sequence <= 0 {
		fields = append(fields, "sequence")
	}
	if msg.Temperature == nil {
		fields = append(fields, "temperature")
	}
	if msg.Humidity == nil {
		fields = append(fields, "humidity")
	}
	if msg.Light == nil {
		fields = append(fields, "light")
	}
	if msg.TankLevel == nil {
		fields = append(fields, "tank_level")
	}
	if msg.LightsAreOn == nil {
		fields = append(fields, "lights_are_on")
	}

	if issues := telemetryMessageSchema.Validate(&msg); len(issues) > 0 {
		named := false
		for key := range issues {
			if name, ok := telemetryFieldNames[key]; ok {
				fields = append(fields, name)
				named = true
			}
		}
		if !named {
			fields = append(fields, "payload")
		}
	}

	if len(fields) > 0 {
		return nil, common.InvalidInput("invalid telemetry message", dedupe(fields)...)
	}

	pumpOn := msg.PumpOn
	if pumpOn == nil {
		pumpOn = common.Ptr(false)
	}

	return &models.TelemetryReading{
		GreenhouseID:   greenhouseID,
		Time:           time.Unix(*msg.Timestamp, 0).UTC(),
		Sequence:       *msg.Sequence,
		TempAir:        msg.Temperature,
		HumAir:         msg.Humidity,
		Lux:            msg.Light,
		LightIntensity: msg.LightIntensity,
		LightOn:        msg.LightsAreOn,
		WaterLevelOK:   msg.TankLevel,
		PumpOn:         pumpOn,
	}, nil
}

func dedupe(fields []string) []string {
	seen := map[string]bool{}
	out := fields[:0]
	for _, f := range fields {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

// TelemetryIngestor stores readings arriving on the telemetry topic. Bad
// messages and unknown greenhouses are logged and dropped.
type TelemetryIngestor struct {
	Telemetry core.ITelemetry
	Now       func() time.Time
	Timeout   time.Duration
}

func (ti *TelemetryIngestor) now() time.Time {
	if ti.Now != nil {
		return ti.Now()
	}
	return time.Now()
}

// Ingest handles one message and reports whether a new reading was stored.
func (ti *TelemetryIngestor) Ingest(ctx context.Context, topic string, payload []byte) (bool, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameControlChannel,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryIngest),
	)

	reading, err := ParseTelemetry(payload, ti.now())
	if err != nil {
		logger.Warn("Invalid telemetry dropped",
			zap.String("topic", topic),
			zap.Strings("fields", common.FieldsOf(err)),
			zap.ByteString("payload", payload),
			zap.Error(err),
		)
		return false, err
	}

	// greenhouse/<id>/telemetry must agree with the id inside the message
	if parts := strings.Split(topic, "/"); len(parts) == 3 {
		if topicID, perr := uuid.Parse(parts[1]); perr == nil && topicID != reading.GreenhouseID {
			err := common.InvalidInput("device id does not match topic", "device_id")
			logger.Warn("Telemetry dropped", zap.String("topic", topic), zap.Error(err))
			return false, err
		}
	}

	logger.Debug("Received telemetry", zap.String("topic", topic), zap.Reflect("reading", reading))

	inserted, err := ti.Telemetry.AppendReading(ctx, reading)
	if err != nil {
		logger.Warn("Telemetry not stored",
			zap.String("greenhouse_id", reading.GreenhouseID.String()),
			zap.Error(err),
		)
		return false, err
	}
	return inserted, nil
}

// Handler adapts Ingest to a paho message callback.
func (ti *TelemetryIngestor) Handler() mqtt.MessageHandler {
	return func(_ mqtt.Client, msg mqtt.Message) {
		ctx := context.Background()
		if ti.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, ti.Timeout)
			defer cancel()
		}
		_, _ = ti.Ingest(ctx, msg.Topic(), msg.Payload())
	}
}
