package core

import (
	"context"
	"slices"
	"sort"

	z "github.com/Oudwins/zog"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"liyu1981.xyz/greenhouse-service/pkg/common"
	"liyu1981.xyz/greenhouse-service/pkg/models"
)

var setpointPatchSchema = z.Struct(z.Shape{
	"targetTempMin":             z.Ptr(z.Float64().GTE(0).LTE(40)),
	"targetTempMax":             z.Ptr(z.Float64().GTE(0).LTE(50)),
	"targetHumAirMax":           z.Ptr(z.Float64().GTE(0).LTE(100)),
	"irrigationIntervalMinutes": z.Ptr(z.Int().GTE(1).LTE(1440)),
	"irrigationDurationSeconds": z.Ptr(z.Int().GTE(1).LTE(600)),
	"targetLightIntensity":      z.Ptr(z.Float64().GTE(0).LTE(100000)),
	"plant":                     z.Ptr(z.String().Max(120)),
})

var setpointPatchFieldNames = map[string]string{
	"targetTempMin":             "target_temp_min",
	"targetTempMax":             "target_temp_max",
	"targetHumAirMax":           "target_hum_air_max",
	"irrigationIntervalMinutes": "irrigation_interval_minutes",
	"irrigationDurationSeconds": "irrigation_duration_seconds",
	"targetLightIntensity":      "target_light_intensity",
	"plant":                     "plant",
}

// ValidateSetpointPatch checks the range of every present member. The cross
// field rule needs the stored values and is checked inside the update.
func ValidateSetpointPatch(patch *models.SetpointPatch) error {
	var fields []string
	for key := range setpointPatchSchema.Validate(patch) {
		if name, ok := setpointPatchFieldNames[key]; ok {
			fields = append(fields, name)
		}
	}

	// zog skips the validators of a zero value, and 0 is out of range here
	if patch.IrrigationIntervalMinutes != nil && *patch.IrrigationIntervalMinutes == 0 {
		fields = append(fields, "irrigation_interval_minutes")
	}
	if patch.IrrigationDurationSeconds != nil && *patch.IrrigationDurationSeconds == 0 {
		fields = append(fields, "irrigation_duration_seconds")
	}

	if len(fields) == 0 {
		return nil
	}
	sort.Strings(fields)
	return common.InvalidInput("setpoint values out of range", slices.Compact(fields)...)
}

func (c *Core) getSetpoint(ctx context.Context, greenhouseID uuid.UUID) (*models.Setpoint, error) {
	var setpoint models.Setpoint
	if err := c.conn(ctx).Where("greenhouse_id = ?", greenhouseID).Take(&setpoint).Error; err != nil {
		return nil, wrapStorage("setpoint of greenhouse "+greenhouseID.String(), err)
	}
	return &setpoint, nil
}

// updateSetpoint applies the patch, stamps changed_at and then offers the
// stored setpoint to the publisher. A failed publish leaves the update in place.
func (c *Core) updateSetpoint(ctx context.Context, greenhouseID uuid.UUID, patch models.SetpointPatch) (*models.Setpoint, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategorySetpoint),
	)

	if patch.IsEmpty() {
		return nil, common.InvalidInput("no updatable setpoint fields given", models.SetpointPatchFields...)
	}
	if err := ValidateSetpointPatch(&patch); err != nil {
		return nil, err
	}

	cols := patch.Columns()
	logger.Info("Received setpoint update for greenhouse",
		zap.String("greenhouse_id", greenhouseID.String()),
		zap.Reflect("patch", cols),
	)

	cols["changed_at"] = c.now()

	var setpoint models.Setpoint
	err := c.conn(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Setpoint{}).Where("greenhouse_id = ?", greenhouseID).Updates(cols)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return common.NotFound("setpoint of greenhouse %s", greenhouseID)
		}

		if err := tx.Where("greenhouse_id = ?", greenhouseID).Take(&setpoint).Error; err != nil {
			return err
		}
		if setpoint.TargetTempMin != nil && setpoint.TargetTempMax != nil && *setpoint.TargetTempMax <= *setpoint.TargetTempMin {
			return common.InvalidInput("target_temp_max must be greater than target_temp_min", "target_temp_min", "target_temp_max")
		}
		return nil
	})
	if err != nil {
		return nil, wrapStorage("update setpoint", err)
	}

	logger.Info("Setpoint updated", zap.Reflect("setpoint", setpoint))

	c.publish(logger, greenhouseID, &setpoint)
	return &setpoint, nil
}

func (c *Core) publish(logger *zap.Logger, greenhouseID uuid.UUID, setpoint *models.Setpoint) {
	if c.Publisher == nil {
		logger.Warn("Control channel not available, setpoint not published", zap.String("greenhouse_id", greenhouseID.String()))
		return
	}
	if !c.Publisher.PublishSetpoint(greenhouseID, setpoint) {
		logger.Warn("Setpoint not accepted by control channel", zap.String("greenhouse_id", greenhouseID.String()))
		return
	}
	logger.Info("Setpoint handed to control channel", zap.String("greenhouse_id", greenhouseID.String()))
}

type ISetpointImpl struct {
	core *Core
}

func (is *ISetpointImpl) GetSetpoint(ctx context.Context, greenhouseID uuid.UUID) (*models.Setpoint, error) {
	return is.core.getSetpoint(ctx, greenhouseID)
}

func (is *ISetpointImpl) UpdateSetpoint(ctx context.Context, greenhouseID uuid.UUID, patch models.SetpointPatch) (*models.Setpoint, error) {
	return is.core.updateSetpoint(ctx, greenhouseID, patch)
}

func (c *Core) GetISetpoint() ISetpoint {
	return &ISetpointImpl{core: c}
}
