package core

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"liyu1981.xyz/greenhouse-service/pkg/common"
	"liyu1981.xyz/greenhouse-service/pkg/models"
)

const (
	StalenessThreshold = 10 * time.Minute
	HumidityBand       = 5.0
	LightBand          = 10.0
)

// statusRow is one greenhouse joined with its setpoint and latest reading.
type statusRow struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Name      string
	CreatedAt time.Time

	Plant                     *string
	ChangedAt                 *time.Time
	TargetTempMin             *float64
	TargetTempMax             *float64
	TargetHumAirMax           *float64
	IrrigationIntervalMinutes *int
	IrrigationDurationSeconds *int
	TargetLightIntensity      *float64

	ReadingTime    *time.Time
	TempAir        *float64
	HumAir         *float64
	Lux            *float64
	LightIntensity *float64
	LightOn        *bool
	WaterLevelOK   *bool `gorm:"column:water_level_ok"`
	PumpOn         *bool
}

// The latest reading is picked per greenhouse by a correlated subquery so a
// listing costs one round trip regardless of how many greenhouses it holds.
const statusQuery = `
SELECT g.id, g.owner_id, g.name, g.created_at,
	s.plant, s.changed_at, s.target_temp_min, s.target_temp_max, s.target_hum_air_max,
	s.irrigation_interval_minutes, s.irrigation_duration_seconds, s.target_light_intensity,
	t.time AS reading_time, t.temp_air, t.hum_air, t.lux, t.light_intensity,
	t.light_on, t.water_level_ok, t.pump_on
FROM greenhouses g
LEFT JOIN setpoints s ON s.greenhouse_id = g.id
LEFT JOIN telemetry_readings t ON t.id = (
	SELECT t2.id FROM telemetry_readings t2
	WHERE t2.greenhouse_id = g.id
	ORDER BY t2.time DESC, t2.id DESC
	LIMIT 1
)`

func (row *statusRow) setpoint() *models.Setpoint {
	if row.ChangedAt == nil {
		return nil
	}
	sp := &models.Setpoint{
		GreenhouseID:              row.ID,
		TargetTempMin:             row.TargetTempMin,
		TargetTempMax:             row.TargetTempMax,
		TargetHumAirMax:           row.TargetHumAirMax,
		IrrigationIntervalMinutes: row.IrrigationIntervalMinutes,
		IrrigationDurationSeconds: row.IrrigationDurationSeconds,
		TargetLightIntensity:      row.TargetLightIntensity,
		ChangedAt:                 *row.ChangedAt,
	}
	if row.Plant != nil {
		sp.Plant = *row.Plant
	}
	return sp
}

func (row *statusRow) reading() *models.TelemetryReading {
	if row.ReadingTime == nil {
		return nil
	}
	return &models.TelemetryReading{
		GreenhouseID:   row.ID,
		Time:           *row.ReadingTime,
		TempAir:        row.TempAir,
		HumAir:         row.HumAir,
		Lux:            row.Lux,
		LightIntensity: row.LightIntensity,
		LightOn:        row.LightOn,
		WaterLevelOK:   row.WaterLevelOK,
		PumpOn:         row.PumpOn,
	}
}

func withinBand(value, low, high *float64) models.ParameterStatus {
	if value == nil || low == nil || high == nil {
		return models.Unknown
	}
	if *value >= *low && *value <= *high {
		return models.InRange
	}
	return models.OutOfRange
}

func minus(v *float64, d float64) *float64 {
	if v == nil {
		return nil
	}
	return common.Ptr(*v - d)
}

// Evaluate derives the status of one greenhouse from its setpoint and latest
// reading. Either may be nil.
func Evaluate(setpoint *models.Setpoint, reading *models.TelemetryReading, now time.Time) (bool, map[string]models.ParameterStatus) {
	params := map[string]models.ParameterStatus{
		models.StatusTemperature: models.Unknown,
		models.StatusHumidity:    models.Unknown,
		models.StatusLighting:    models.Unknown,
		models.StatusWaterLevel:  models.Unknown,
	}
	if reading == nil {
		return false, params
	}

	online := now.Sub(reading.Time) < StalenessThreshold

	if reading.WaterLevelOK != nil {
		params[models.StatusWaterLevel] = models.OutOfRange
		if *reading.WaterLevelOK {
			params[models.StatusWaterLevel] = models.InRange
		}
	}

	if setpoint == nil {
		return online, params
	}

	params[models.StatusTemperature] = withinBand(reading.TempAir, setpoint.TargetTempMin, setpoint.TargetTempMax)
	params[models.StatusHumidity] = withinBand(reading.HumAir, minus(setpoint.TargetHumAirMax, HumidityBand), setpoint.TargetHumAirMax)
	params[models.StatusLighting] = withinBand(reading.LightIntensity, minus(setpoint.TargetLightIntensity, LightBand), setpoint.TargetLightIntensity)
	return online, params
}

func (c *Core) toStatus(row *statusRow, now time.Time) models.GreenhouseStatus {
	setpoint := row.setpoint()
	reading := row.reading()
	online, params := Evaluate(setpoint, reading, now)

	status := models.GreenhouseStatus{
		GreenhouseID: row.ID,
		OwnerID:      row.OwnerID,
		Name:         row.Name,
		CreatedAt:    row.CreatedAt,
		IsOnline:     online,
		Setpoint:     setpoint,
		Parameters:   params,
	}
	if reading != nil {
		status.LastReadingAt = &reading.Time
		status.Latest = &models.LatestValues{
			TempAir:        reading.TempAir,
			HumAir:         reading.HumAir,
			Lux:            reading.Lux,
			LightIntensity: reading.LightIntensity,
			LightOn:        reading.LightOn,
			WaterLevelOK:   reading.WaterLevelOK,
			PumpOn:         reading.PumpOn,
		}
	}
	return status
}

func (c *Core) projectStatus(ctx context.Context, greenhouseID uuid.UUID) (*models.GreenhouseStatus, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryStatus),
	)

	var rows []statusRow
	if err := c.conn(ctx).Raw(statusQuery+"\nWHERE g.id = ?", greenhouseID).Scan(&rows).Error; err != nil {
		return nil, common.StorageFailure("project status", err)
	}
	if len(rows) == 0 {
		return nil, common.NotFound("greenhouse %s", greenhouseID)
	}

	status := c.toStatus(&rows[0], c.now())
	logger.Debug("Status projected", zap.Reflect("status", status))
	return &status, nil
}

func (c *Core) listStatuses(ctx context.Context, ownerID uuid.UUID) ([]models.GreenhouseStatus, error) {
	var rows []statusRow
	var err error
	if ownerID == uuid.Nil {
		err = c.conn(ctx).Raw(statusQuery + "\nORDER BY g.created_at DESC").Scan(&rows).Error
	} else {
		err = c.conn(ctx).Raw(statusQuery+"\nWHERE g.owner_id = ?\nORDER BY g.created_at DESC", ownerID).Scan(&rows).Error
	}
	if err != nil {
		return nil, common.StorageFailure("list statuses", err)
	}

	now := c.now()
	statuses := make([]models.GreenhouseStatus, len(rows))
	for i := range rows {
		statuses[i] = c.toStatus(&rows[i], now)
	}
	return statuses, nil
}

type IStatusImpl struct {
	core *Core
}

func (is *IStatusImpl) ProjectStatus(ctx context.Context, greenhouseID uuid.UUID) (*models.GreenhouseStatus, error) {
	return is.core.projectStatus(ctx, greenhouseID)
}

func (is *IStatusImpl) ListStatuses(ctx context.Context, ownerID uuid.UUID) ([]models.GreenhouseStatus, error) {
	return is.core.listStatuses(ctx, ownerID)
}

func (c *Core) GetIStatus() IStatus {
	return &IStatusImpl{core: c}
}
