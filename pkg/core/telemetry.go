package core

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"liyu1981.xyz/greenhouse-service/pkg/common"
	"liyu1981.xyz/greenhouse-service/pkg/models"
)

var telemetryDedupeColumns = []clause.Column{{Name: "greenhouse_id"}, {Name: "time"}, {Name: "sequence"}}

// appendReading stores one reading. A reading already stored under the same
// greenhouse, time and sequence is ignored and reported as not inserted.
func (c *Core) appendReading(ctx context.Context, input *models.TelemetryReading) (bool, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryTelemetry),
	)

	if input.GreenhouseID == uuid.Nil {
		return false, common.InvalidInput("greenhouse id is required", "greenhouse_id")
	}
	if input.Time.IsZero() {
		return false, common.InvalidInput("reading time is required", "time")
	}

	reading := *input
	reading.ID = 0
	reading.Time = reading.Time.UTC()

	logger.Debug("Received reading for greenhouse", zap.Reflect("reading", reading))

	var inserted bool
	err := c.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Greenhouse{}).Where("id = ?", reading.GreenhouseID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return common.NotFound("greenhouse %s", reading.GreenhouseID)
		}

		res := tx.Clauses(clause.OnConflict{
			Columns:   telemetryDedupeColumns,
			DoNothing: true,
		}).Create(&reading)
		if res.Error != nil {
			return res.Error
		}
		inserted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, wrapStorage("append reading", err)
	}

	if inserted {
		logger.Debug("Reading saved", zap.Reflect("reading", reading))
	} else {
		logger.Debug("Duplicate reading ignored",
			zap.String("greenhouse_id", reading.GreenhouseID.String()),
			zap.Int64("sequence", reading.Sequence),
		)
	}
	return inserted, nil
}

func (c *Core) latestReading(ctx context.Context, greenhouseID uuid.UUID) (*models.TelemetryReading, error) {
	var reading models.TelemetryReading
	err := c.conn(ctx).
		Where("greenhouse_id = ?", greenhouseID).
		Order(newestFirst).
		Take(&reading).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, common.StorageFailure("latest reading", err)
	}
	return &reading, nil
}

// recentReadings returns at most limit readings, newest first. With columns
// given only those are loaded.
func (c *Core) recentReadings(ctx context.Context, greenhouseID uuid.UUID, limit int, columns ...string) ([]models.TelemetryReading, error) {
	query := c.conn(ctx).Where("greenhouse_id = ?", greenhouseID)
	if len(columns) > 0 {
		query = query.Select(columns)
	}

	readings := []models.TelemetryReading{}
	err := query.
		Order(newestFirst).
		Limit(limit).
		Find(&readings).Error
	if err != nil {
		return nil, common.StorageFailure("recent readings", err)
	}
	return readings, nil
}

// id breaks ties between readings sharing a timestamp
const newestFirst = "time DESC, id DESC"

type ITelemetryImpl struct {
	core *Core
}

func (it *ITelemetryImpl) AppendReading(ctx context.Context, reading *models.TelemetryReading) (bool, error) {
	return it.core.appendReading(ctx, reading)
}

func (it *ITelemetryImpl) LatestReading(ctx context.Context, greenhouseID uuid.UUID) (*models.TelemetryReading, error) {
	return it.core.latestReading(ctx, greenhouseID)
}

func (it *ITelemetryImpl) RecentReadings(ctx context.Context, greenhouseID uuid.UUID, limit int, columns ...string) ([]models.TelemetryReading, error) {
	return it.core.recentReadings(ctx, greenhouseID, limit, columns...)
}

func (c *Core) GetITelemetry() ITelemetry {
	return &ITelemetryImpl{core: c}
}
