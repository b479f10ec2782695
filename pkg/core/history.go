package core

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"liyu1981.xyz/greenhouse-service/pkg/common"
	"liyu1981.xyz/greenhouse-service/pkg/models"
)

const (
	DefaultHistoryLimit = 30
	MaxHistoryLimit     = 1000
)

type historyParameter struct {
	column string
	value  func(r *models.TelemetryReading) any
}

func floatValue(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func boolValue(v *bool) any {
	if v == nil {
		return nil
	}
	return *v
}

var historyParameters = map[string]historyParameter{
	"temperature": {"temp_air", func(r *models.TelemetryReading) any { return floatValue(r.TempAir) }},
	"humidity":    {"hum_air", func(r *models.TelemetryReading) any { return floatValue(r.HumAir) }},
	"lighting":    {"light_intensity", func(r *models.TelemetryReading) any { return floatValue(r.LightIntensity) }},
	"lux":         {"lux", func(r *models.TelemetryReading) any { return floatValue(r.Lux) }},
	"waterLevel":  {"water_level_ok", func(r *models.TelemetryReading) any { return boolValue(r.WaterLevelOK) }},
	"lightOn":     {"light_on", func(r *models.TelemetryReading) any { return boolValue(r.LightOn) }},
	"pumpOn":      {"pump_on", func(r *models.TelemetryReading) any { return boolValue(r.PumpOn) }},
}

func HistoryParameters() []string {
	names := make([]string, 0, len(historyParameters))
	for name := range historyParameters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// getHistory returns up to limit points of one parameter, oldest first.
func (c *Core) getHistory(ctx context.Context, greenhouseID uuid.UUID, parameter string, limit int) ([]models.HistoryPoint, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryHistory),
	)

	param, ok := historyParameters[parameter]
	if !ok {
		return nil, common.InvalidInput(
			fmt.Sprintf("unknown parameter %q, expected one of %s", parameter, strings.Join(HistoryParameters(), ", ")),
			"parameter",
		)
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		return nil, common.InvalidInput("limit is too large", "limit")
	}
	if c.Telemetry == nil {
		return nil, common.StorageFailure("history", errTelemetryUnavailable)
	}

	readings, err := c.Telemetry.RecentReadings(ctx, greenhouseID, limit, "time", param.column)
	if err != nil {
		return nil, err
	}

	points := make([]models.HistoryPoint, len(readings))
	for i := range readings {
		points[i] = models.HistoryPoint{Time: readings[i].Time, Value: param.value(&readings[i])}
	}
	common.Reverse(points)

	logger.Debug("History served",
		zap.String("greenhouse_id", greenhouseID.String()),
		zap.String("parameter", parameter),
		zap.Int("points", len(points)),
	)
	return points, nil
}

type IHistoryImpl struct {
	core *Core
}

func (ih *IHistoryImpl) GetHistory(ctx context.Context, greenhouseID uuid.UUID, parameter string, limit int) ([]models.HistoryPoint, error) {
	return ih.core.getHistory(ctx, greenhouseID, parameter, limit)
}

func (c *Core) GetIHistory() IHistory {
	return &IHistoryImpl{core: c}
}
