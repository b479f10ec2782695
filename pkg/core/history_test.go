package core

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"liyu1981.xyz/greenhouse-service/pkg/common"
	"liyu1981.xyz/greenhouse-service/pkg/models"
	_ "liyu1981.xyz/greenhouse-service/pkg/testing"
)

func appendSeries(t *testing.T, c *Core, greenhouseID uuid.UUID, n int) {
	t.Helper()
	for i := range n {
		_, err := c.Telemetry.AppendReading(context.Background(), &models.TelemetryReading{
			GreenhouseID: greenhouseID,
			Time:         testNow.Add(time.Duration(i-n) * time.Minute),
			Sequence:     int64(i + 1),
			TempAir:      common.Ptr(float64(i)),
			PumpOn:       common.Ptr(i%2 == 0),
		})
		require.NoError(t, err)
	}
}

func TestGetHistory(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, coreObj, _, _, _ := GetMockCoreWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	p := provisionTomato(t, coreObj, uuid.New(), "Alpha")
	appendSeries(t, coreObj, p.Greenhouse.ID, 40)

	points, err := coreObj.History.GetHistory(context.Background(), p.Greenhouse.ID, "temperature", 5)
	require.NoError(t, err)
	require.Len(t, points, 5)

	// the five most recent readings, oldest first
	for i, point := range points {
		assert.Equal(t, float64(35+i), point.Value)
		if i > 0 {
			assert.False(t, point.Time.Before(points[i-1].Time))
		}
	}
}

func TestGetHistory_OutOfOrderArrival(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, coreObj, _, _, _ := GetMockCoreWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	ctx := context.Background()
	p := provisionTomato(t, coreObj, uuid.New(), "Alpha")

	// a late reading arrives after a newer one
	arrivals := []struct {
		minutesAgo int
		value      float64
	}{{30, 1}, {1, 3}, {20, 2}}
	for i, a := range arrivals {
		_, err := coreObj.Telemetry.AppendReading(ctx, &models.TelemetryReading{
			GreenhouseID: p.Greenhouse.ID,
			Time:         testNow.Add(-time.Duration(a.minutesAgo) * time.Minute),
			Sequence:     int64(i + 1),
			TempAir:      common.Ptr(a.value),
		})
		require.NoError(t, err)
	}

	points, err := coreObj.History.GetHistory(ctx, p.Greenhouse.ID, "temperature", 2)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, []any{2.0, 3.0}, common.Mapper(points, func(pt models.HistoryPoint) any { return pt.Value }))
	assert.True(t, testNow.Add(-20*time.Minute).Equal(points[0].Time))
	assert.True(t, testNow.Add(-time.Minute).Equal(points[1].Time))

	points, err = coreObj.History.GetHistory(ctx, p.Greenhouse.ID, "temperature", 1)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, 3.0, points[0].Value)

	latest, err := coreObj.Telemetry.LatestReading(ctx, p.Greenhouse.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), latest.Sequence)
}

func TestGetHistory_DefaultLimit(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, coreObj, _, _, _ := GetMockCoreWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	p := provisionTomato(t, coreObj, uuid.New(), "Alpha")
	appendSeries(t, coreObj, p.Greenhouse.ID, 40)

	points, err := coreObj.History.GetHistory(context.Background(), p.Greenhouse.ID, "pumpOn", 0)
	require.NoError(t, err)
	require.Len(t, points, DefaultHistoryLimit)
	assert.Equal(t, true, points[0].Value)
	assert.Equal(t, false, points[1].Value)
	assert.True(t, testNow.Add(-time.Minute).Equal(points[len(points)-1].Time))
}

func TestGetHistory_Empty(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, coreObj, _, _, _ := GetMockCoreWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	p := provisionTomato(t, coreObj, uuid.New(), "Alpha")

	points, err := coreObj.History.GetHistory(context.Background(), p.Greenhouse.ID, "humidity", 10)
	require.NoError(t, err)
	assert.NotNil(t, points)
	assert.Len(t, points, 0)
}

func TestGetHistory_NullValues(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, coreObj, _, _, _ := GetMockCoreWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	p := provisionTomato(t, coreObj, uuid.New(), "Alpha")
	appendSeries(t, coreObj, p.Greenhouse.ID, 2)

	points, err := coreObj.History.GetHistory(context.Background(), p.Greenhouse.ID, "lux", 10)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Nil(t, points[0].Value)
}

func TestGetHistory_InvalidInput(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, coreObj, mockITelemetry, _, _ := GetMockCoreWithMemorySqliteDialector(t, true, false)
	defer ctrl.Finish()

	mockITelemetry.EXPECT().RecentReadings(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := coreObj.History.GetHistory(context.Background(), uuid.New(), "co2", 10)
	require.ErrorIs(t, err, common.ErrInvalidInput)
	assert.Equal(t, []string{"parameter"}, common.FieldsOf(err))
	for _, name := range HistoryParameters() {
		assert.Contains(t, err.Error(), name)
	}

	_, err = coreObj.History.GetHistory(context.Background(), uuid.New(), "temperature", MaxHistoryLimit+1)
	require.ErrorIs(t, err, common.ErrInvalidInput)
	assert.Equal(t, []string{"limit"}, common.FieldsOf(err))
}

func TestGetHistory_UsesParameterColumn(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, coreObj, mockITelemetry, _, _ := GetMockCoreWithMemorySqliteDialector(t, true, false)
	defer ctrl.Finish()

	greenhouseID := uuid.New()
	mockITelemetry.
		EXPECT().
		RecentReadings(gomock.Any(), gomock.Eq(greenhouseID), gomock.Eq(DefaultHistoryLimit), gomock.Eq("time"), gomock.Eq("water_level_ok")).
		Return([]models.TelemetryReading{
			{Time: testNow, WaterLevelOK: common.Ptr(false)},
			{Time: testNow.Add(-time.Minute), WaterLevelOK: common.Ptr(true)},
		}, nil).
		Times(1)

	points, err := coreObj.History.GetHistory(context.Background(), greenhouseID, "waterLevel", -1)
	require.NoError(t, err)
	assert.Equal(t, []models.HistoryPoint{
		{Time: testNow.Add(-time.Minute), Value: true},
		{Time: testNow, Value: false},
	}, points)
}

func TestHistoryParameters(t *testing.T) {
	assert.Equal(t,
		[]string{"humidity", "lightOn", "lighting", "lux", "pumpOn", "temperature", "waterLevel"},
		HistoryParameters(),
	)
}
