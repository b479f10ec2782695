package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Greenhouse struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`

	Setpoint *Setpoint          `gorm:"foreignKey:GreenhouseID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Readings []TelemetryReading `gorm:"foreignKey:GreenhouseID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (g *Greenhouse) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// PlantTemplate is read-only reference data used to seed a new Setpoint.
type PlantTemplate struct {
	ID                        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name                      string    `gorm:"not null;uniqueIndex" json:"name"`
	Description               string    `json:"description"`
	TargetTempMin             *float64  `json:"target_temp_min"`
	TargetTempMax             *float64  `json:"target_temp_max"`
	TargetHumAirMax           *float64  `json:"target_hum_air_max"`
	IrrigationIntervalMinutes *int      `json:"irrigation_interval_minutes"`
	IrrigationDurationSeconds *int      `json:"irrigation_duration_seconds"`
	TargetLightIntensity      *float64  `json:"target_light_intensity"`
}

func (p *PlantTemplate) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type Setpoint struct {
	GreenhouseID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"greenhouse_id"`
	TargetTempMin             *float64  `json:"target_temp_min"`
	TargetTempMax             *float64  `json:"target_temp_max"`
	TargetHumAirMax           *float64  `json:"target_hum_air_max"`
	IrrigationIntervalMinutes *int      `json:"irrigation_interval_minutes"`
	IrrigationDurationSeconds *int      `json:"irrigation_duration_seconds"`
	TargetLightIntensity      *float64  `json:"target_light_intensity"`
	Plant                     string    `json:"plant"`
	ChangedAt                 time.Time `gorm:"not null" json:"changed_at"`
}

// TelemetryReading is append-only; rows only disappear with their greenhouse.
type TelemetryReading struct {
	ID             uint64    `gorm:"primaryKey" json:"-"`
	GreenhouseID   uuid.UUID `gorm:"type:uuid;not null;index:idx_telemetry_greenhouse_time,priority:1;uniqueIndex:idx_telemetry_dedupe,priority:1" json:"greenhouse_id"`
	Time           time.Time `gorm:"column:time;not null;index:idx_telemetry_greenhouse_time,priority:2;uniqueIndex:idx_telemetry_dedupe,priority:2" json:"time"`
	Sequence       int64     `gorm:"not null;uniqueIndex:idx_telemetry_dedupe,priority:3" json:"sequence"`
	TempAir        *float64  `json:"temp_air"`
	HumAir         *float64  `json:"hum_air"`
	Lux            *float64  `json:"lux"`
	LightIntensity *float64  `json:"light_intensity"`
	LightOn        *bool     `json:"light_on"`
	WaterLevelOK   *bool     `gorm:"column:water_level_ok" json:"water_level_ok"`
	PumpOn         *bool     `json:"pump_on"`
}
