package core

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"liyu1981.xyz/greenhouse-service/pkg/common"
	"liyu1981.xyz/greenhouse-service/pkg/models"
)

func setpointFromTemplate(greenhouseID uuid.UUID, template *models.PlantTemplate, changedAt time.Time) models.Setpoint {
	return models.Setpoint{
		GreenhouseID:              greenhouseID,
		TargetTempMin:             template.TargetTempMin,
		TargetTempMax:             template.TargetTempMax,
		TargetHumAirMax:           template.TargetHumAirMax,
		IrrigationIntervalMinutes: template.IrrigationIntervalMinutes,
		IrrigationDurationSeconds: template.IrrigationDurationSeconds,
		TargetLightIntensity:      template.TargetLightIntensity,
		Plant:                     template.Name,
		ChangedAt:                 changedAt,
	}
}

// createGreenhouse resolves the template and inserts the greenhouse with its
// setpoint in one transaction. Readers see both rows or neither.
func (c *Core) createGreenhouse(ctx context.Context, ownerID uuid.UUID, name, plantTemplateName string) (*models.Provisioned, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryProvisioning),
	)

	name = strings.TrimSpace(name)
	plantTemplateName = strings.TrimSpace(plantTemplateName)

	var missing []string
	if ownerID == uuid.Nil {
		missing = append(missing, "owner_id")
	}
	if name == "" {
		missing = append(missing, "name")
	}
	if plantTemplateName == "" {
		missing = append(missing, "plant_template")
	}
	if len(missing) > 0 {
		return nil, common.InvalidInput("required fields are missing", missing...)
	}

	if c.Catalog == nil {
		return nil, common.StorageFailure("create greenhouse", errCatalogUnavailable)
	}

	logger.Info("Received greenhouse provisioning",
		zap.String("owner_id", ownerID.String()),
		zap.String("name", name),
		zap.String("plant_template", plantTemplateName),
	)

	now := c.now()
	var result models.Provisioned
	err := c.conn(ctx).Transaction(func(tx *gorm.DB) error {
		template, err := c.Catalog.LookupTemplate(ctx, tx, plantTemplateName)
		if err != nil {
			return err
		}

		greenhouse := models.Greenhouse{
			ID:        uuid.New(),
			OwnerID:   ownerID,
			Name:      name,
			CreatedAt: now,
		}
		if err := tx.Create(&greenhouse).Error; err != nil {
			return err
		}

		setpoint := setpointFromTemplate(greenhouse.ID, template, now)
		if err := tx.Create(&setpoint).Error; err != nil {
			return err
		}

		result = models.Provisioned{Greenhouse: greenhouse, Setpoint: setpoint}
		return nil
	})
	if err != nil {
		logger.Warn("Greenhouse provisioning rolled back", zap.Error(err))
		return nil, wrapStorage("create greenhouse", err)
	}

	logger.Info("Greenhouse provisioned", zap.Reflect("provisioned", result))
	return &result, nil
}

// scoped limits a greenhouse query to ownerID unless it is the nil uuid,
// which stands for the administrative context.
func scoped(query *gorm.DB, ownerID uuid.UUID) *gorm.DB {
	if ownerID == uuid.Nil {
		return query
	}
	return query.Where("owner_id = ?", ownerID)
}

func (c *Core) getGreenhouse(ctx context.Context, ownerID, greenhouseID uuid.UUID) (*models.Greenhouse, error) {
	var greenhouse models.Greenhouse
	err := scoped(c.conn(ctx).Where("id = ?", greenhouseID), ownerID).Take(&greenhouse).Error
	if err != nil {
		return nil, wrapStorage("greenhouse "+greenhouseID.String(), err)
	}
	return &greenhouse, nil
}

func (c *Core) listGreenhouses(ctx context.Context, ownerID uuid.UUID) ([]models.Greenhouse, error) {
	greenhouses := []models.Greenhouse{}
	err := scoped(c.conn(ctx), ownerID).
		Order("created_at desc").
		Find(&greenhouses).Error
	if err != nil {
		return nil, common.StorageFailure("list greenhouses", err)
	}
	return greenhouses, nil
}

func (c *Core) renameGreenhouse(ctx context.Context, ownerID, greenhouseID uuid.UUID, name string) (*models.Greenhouse, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryProvisioning),
	)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.InvalidInput("name is required", "name")
	}

	res := scoped(c.conn(ctx).Model(&models.Greenhouse{}).Where("id = ?", greenhouseID), ownerID).
		Update("name", name)
	if res.Error != nil {
		return nil, common.StorageFailure("rename greenhouse", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, common.NotFound("greenhouse %s", greenhouseID)
	}

	logger.Info("Greenhouse renamed", zap.String("greenhouse_id", greenhouseID.String()), zap.String("name", name))
	return c.getGreenhouse(ctx, ownerID, greenhouseID)
}

// deleteGreenhouse relies on the foreign keys to remove the setpoint and all
// telemetry of the greenhouse.
func (c *Core) deleteGreenhouse(ctx context.Context, ownerID, greenhouseID uuid.UUID) error {
	logger := common.GetLoggerWith(
		common.LoggerNameCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryProvisioning),
	)

	res := scoped(c.conn(ctx).Where("id = ?", greenhouseID), ownerID).Delete(&models.Greenhouse{})
	if res.Error != nil {
		return common.StorageFailure("delete greenhouse", res.Error)
	}
	if res.RowsAffected == 0 {
		return common.NotFound("greenhouse %s", greenhouseID)
	}

	logger.Info("Greenhouse deleted", zap.String("greenhouse_id", greenhouseID.String()))
	return nil
}

type IProvisioningImpl struct {
	core *Core
}

func (ip *IProvisioningImpl) CreateGreenhouse(ctx context.Context, ownerID uuid.UUID, name, plantTemplateName string) (*models.Provisioned, error) {
	return ip.core.createGreenhouse(ctx, ownerID, name, plantTemplateName)
}

func (ip *IProvisioningImpl) GetGreenhouse(ctx context.Context, ownerID, greenhouseID uuid.UUID) (*models.Greenhouse, error) {
	return ip.core.getGreenhouse(ctx, ownerID, greenhouseID)
}

func (ip *IProvisioningImpl) ListGreenhouses(ctx context.Context, ownerID uuid.UUID) ([]models.Greenhouse, error) {
	return ip.core.listGreenhouses(ctx, ownerID)
}

func (ip *IProvisioningImpl) RenameGreenhouse(ctx context.Context, ownerID, greenhouseID uuid.UUID, name string) (*models.Greenhouse, error) {
	return ip.core.renameGreenhouse(ctx, ownerID, greenhouseID, name)
}

func (ip *IProvisioningImpl) DeleteGreenhouse(ctx context.Context, ownerID, greenhouseID uuid.UUID) error {
	return ip.core.deleteGreenhouse(ctx, ownerID, greenhouseID)
}

func (c *Core) GetIProvisioning() IProvisioning {
	return &IProvisioningImpl{core: c}
}
