package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Provisioned is a freshly created greenhouse together with its setpoint.
type Provisioned struct {
	Greenhouse Greenhouse `json:"greenhouse"`
	Setpoint   Setpoint   `json:"setpoint"`
}

// SetpointPatch lists every field an operator may change. Nil members keep
// their stored value.
type SetpointPatch struct {
	TargetTempMin             *float64 `json:"target_temp_min"`
	TargetTempMax             *float64 `json:"target_temp_max"`
	TargetHumAirMax           *float64 `json:"target_hum_air_max"`
	IrrigationIntervalMinutes *int     `json:"irrigation_interval_minutes"`
	IrrigationDurationSeconds *int     `json:"irrigation_duration_seconds"`
	TargetLightIntensity      *float64 `json:"target_light_intensity"`
	Plant                     *string  `json:"plant"`
}

var SetpointPatchFields = []string{
	"target_temp_min", "target_temp_max", "target_hum_air_max",
	"irrigation_interval_minutes", "irrigation_duration_seconds",
	"target_light_intensity", "plant",
}

// Columns maps the present members to their setpoints column.
func (p SetpointPatch) Columns() map[string]any {
	cols := map[string]any{}
	if p.TargetTempMin != nil {
		cols["target_temp_min"] = *p.TargetTempMin
	}
	if p.TargetTempMax != nil {
		cols["target_temp_max"] = *p.TargetTempMax
	}
	if p.TargetHumAirMax != nil {
		cols["target_hum_air_max"] = *p.TargetHumAirMax
	}
	if p.IrrigationIntervalMinutes != nil {
		cols["irrigation_interval_minutes"] = *p.IrrigationIntervalMinutes
	}
	if p.IrrigationDurationSeconds != nil {
		cols["irrigation_duration_seconds"] = *p.IrrigationDurationSeconds
	}
	if p.TargetLightIntensity != nil {
		cols["target_light_intensity"] = *p.TargetLightIntensity
	}
	if p.Plant != nil {
		cols["plant"] = strings.TrimSpace(*p.Plant)
	}
	return cols
}

func (p SetpointPatch) IsEmpty() bool {
	return len(p.Columns()) == 0
}

type ParameterStatus string

const (
	InRange    ParameterStatus = "in_range"
	OutOfRange ParameterStatus = "out_of_range"
	Unknown    ParameterStatus = "unknown"
)

const (
	StatusTemperature = "temperature"
	StatusHumidity    = "humidity"
	StatusLighting    = "lighting"
	StatusWaterLevel  = "waterLevel"
)

type LatestValues struct {
	TempAir        *float64 `json:"temp_air"`
	HumAir         *float64 `json:"hum_air"`
	Lux            *float64 `json:"lux"`
	LightIntensity *float64 `json:"light_intensity"`
	LightOn        *bool    `json:"light_on"`
	WaterLevelOK   *bool    `json:"water_level_ok"`
	PumpOn         *bool    `json:"pump_on"`
}

// GreenhouseStatus is derived on every request and never stored.
type GreenhouseStatus struct {
	GreenhouseID  uuid.UUID                  `json:"greenhouse_id"`
	OwnerID       uuid.UUID                  `json:"owner_id"`
	Name          string                     `json:"name"`
	CreatedAt     time.Time                  `json:"created_at"`
	IsOnline      bool                       `json:"is_online"`
	LastReadingAt *time.Time                 `json:"last_reading_at"`
	Latest        *LatestValues              `json:"latest"`
	Setpoint      *Setpoint                  `json:"setpoint"`
	Parameters    map[string]ParameterStatus `json:"parameters"`
}

type HistoryPoint struct {
	Time  time.Time `json:"time"`
	Value any       `json:"value"`
}
