package core

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"liyu1981.xyz/greenhouse-service/pkg/common"
	"liyu1981.xyz/greenhouse-service/pkg/models"
)

func DefaultPlantTemplates() []models.PlantTemplate {
	return []models.PlantTemplate{
		{
			Name:                      "Tomato",
			Description:               "Warm season fruiting crop, likes steady warmth and bright light.",
			TargetTempMin:             common.Ptr(18.0),
			TargetTempMax:             common.Ptr(26.0),
			TargetHumAirMax:           common.Ptr(70.0),
			IrrigationIntervalMinutes: common.Ptr(180),
			IrrigationDurationSeconds: common.Ptr(30),
			TargetLightIntensity:      common.Ptr(800.0),
		},
		{
			Name:                      "Basil",
			Description:               "Aromatic herb, sensitive to cold and waterlogging.",
			TargetTempMin:             common.Ptr(20.0),
			TargetTempMax:             common.Ptr(28.0),
			TargetHumAirMax:           common.Ptr(60.0),
			IrrigationIntervalMinutes: common.Ptr(240),
			IrrigationDurationSeconds: common.Ptr(20),
			TargetLightIntensity:      common.Ptr(600.0),
		},
		{
			Name:                      "Lettuce",
			Description:               "Cool season leafy green, bolts in heat.",
			TargetTempMin:             common.Ptr(15.0),
			TargetTempMax:             common.Ptr(22.0),
			TargetHumAirMax:           common.Ptr(75.0),
			IrrigationIntervalMinutes: common.Ptr(360),
			IrrigationDurationSeconds: common.Ptr(15),
			TargetLightIntensity:      common.Ptr(500.0),
		},
	}
}

// lookupTemplate runs on conn so provisioning can resolve the template inside
// its own transaction. A nil conn uses the core connection.
func (c *Core) lookupTemplate(ctx context.Context, conn *gorm.DB, name string) (*models.PlantTemplate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.InvalidInput("plant template name is required", "plant_template")
	}
	if conn == nil {
		conn = c.Db.Conn
	}

	var template models.PlantTemplate
	err := conn.WithContext(ctx).Where("name = ?", name).Take(&template).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.NotFound("plant template %q", name)
	}
	if err != nil {
		return nil, common.StorageFailure("lookup plant template", err)
	}
	return &template, nil
}

// seedTemplates inserts templates whose name is not taken yet and leaves
// existing rows untouched.
func (c *Core) seedTemplates(ctx context.Context, templates []models.PlantTemplate) (int64, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryCatalog),
	)

	if len(templates) == 0 {
		return 0, nil
	}

	rows := make([]models.PlantTemplate, len(templates))
	copy(rows, templates)

	res := c.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&rows)
	if res.Error != nil {
		return 0, common.StorageFailure("seed plant templates", res.Error)
	}

	logger.Info("Plant templates seeded",
		zap.Strings("templates", common.Mapper(templates, func(t models.PlantTemplate) string { return t.Name })),
		zap.Int64("inserted", res.RowsAffected),
	)
	return res.RowsAffected, nil
}

type ICatalogImpl struct {
	core *Core
}

func (ic *ICatalogImpl) LookupTemplate(ctx context.Context, conn *gorm.DB, name string) (*models.PlantTemplate, error) {
	return ic.core.lookupTemplate(ctx, conn, name)
}

func (ic *ICatalogImpl) SeedTemplates(ctx context.Context, templates []models.PlantTemplate) (int64, error) {
	return ic.core.seedTemplates(ctx, templates)
}

func (c *Core) GetICatalog() ICatalog {
	return &ICatalogImpl{core: c}
}
